package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Long:        `Display the current version of the funds CLI.`,
	Annotations: map[string]string{"ledger": "no"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("funds version %s\n", version)
		fmt.Println("Fund ledger and capital allocation for traders")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
