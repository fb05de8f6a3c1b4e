package cmd

import (
	"fmt"

	"github.com/rustyeddy/funds/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  funds config init -o funds.yaml
  funds config validate -f funds.yaml`,
	Annotations: map[string]string{"ledger": "no"},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "funds.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	_ = configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  funds -c %s show --owner <id>\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	d := cfg.Defaults
	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Store: %s (%s)\n", cfg.Store.Driver, cfg.Store.DSN)
	fmt.Printf("  Profit split: %d/%d/%d  Deposit split: %d/%d\n",
		d.ProfitSplit.Active, d.ProfitSplit.Reserve, d.ProfitSplit.Profit, d.DepositSplit.Active, d.DepositSplit.Reserve)
	fmt.Printf("  Lot base: %.2f lots per %.2f  Risk: %.2f%%\n", d.LotBaseLot, d.LotBaseCapital, d.RiskPercent)
	if len(cfg.Notify.KafkaBrokers) > 0 {
		fmt.Printf("  Alerts: kafka %v topic %s\n", cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic)
	}
	return nil
}
