package cmd

import (
	"fmt"
	"os"

	"github.com/rustyeddy/funds/journal"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the account's transactions, newest first",
	Long: `List deposits, withdrawals, transfers, rebalances and settings changes.

Formats:
  table  aligned columns (default)
  org    Org-mode entries for a trading journal
  csv    comma separated, with a header row

Example:
  funds history --owner alice --limit 20 --format org`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List the account's trade settlements, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTrades,
}

var (
	historyLimit  int
	historyFormat string
)

func init() {
	rootCmd.AddCommand(historyCmd, tradesCmd)
	for _, c := range []*cobra.Command{historyCmd, tradesCmd} {
		c.Flags().IntVarP(&historyLimit, "limit", "n", 50, "max records; 0 for all")
		c.Flags().StringVarP(&historyFormat, "format", "f", "table", "table, org or csv")
	}
}

func checkFormat() error {
	switch historyFormat {
	case "table", "org", "csv":
		return nil
	}
	return fmt.Errorf("unknown format %q", historyFormat)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	a, err := current()
	if err != nil {
		return err
	}
	recs, err := app.ledger.History(app.ctx, a.ID, historyLimit)
	if err != nil {
		return err
	}
	switch historyFormat {
	case "org":
		fmt.Print(journal.FormatTransactionsOrg(recs))
	case "csv":
		return journal.WriteTransactionsCSV(os.Stdout, recs)
	default:
		printTransactions(os.Stdout, recs)
	}
	return nil
}

func runTrades(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	a, err := current()
	if err != nil {
		return err
	}
	recs, err := app.ledger.Trades(app.ctx, a.ID, historyLimit)
	if err != nil {
		return err
	}
	switch historyFormat {
	case "org":
		fmt.Print(journal.FormatTradesOrg(recs))
	case "csv":
		return journal.WriteTradesCSV(os.Stdout, recs)
	default:
		printTrades(os.Stdout, recs)
	}
	return nil
}
