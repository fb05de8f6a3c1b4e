package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/funds/fund"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var depositCmd = &cobra.Command{
	Use:   "deposit <amount>",
	Short: "Deposit cash, split by the deposit policy",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeposit,
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <fund> <amount>",
	Short: "Withdraw cash from one fund",
	Args:  cobra.ExactArgs(2),
	RunE:  runWithdraw,
}

var transferCmd = &cobra.Command{
	Use:   "transfer <from> <to> <amount>",
	Short: "Move cash between two funds of the account",
	Long: `Move cash between two funds of the account. The total does not change.

Example:
  funds transfer reserve active 500 --owner alice`,
	Args: cobra.ExactArgs(3),
	RunE: runTransfer,
}

var moveCmd = &cobra.Command{
	Use:   "move <from> <to> <amount>",
	Short: "Move cash to another account of the same owner and mode",
	Long: `Move cash from a fund of the selected account to a fund of the account
named by --to-sub (empty means the main account).

Example:
  funds move profit active 1000 --owner alice --to-sub scalping`,
	Args: cobra.ExactArgs(3),
	RunE: runMove,
}

var tradeCmd = &cobra.Command{
	Use:   "trade <pnl> [note...]",
	Short: "Record a realized trade result",
	Long: `Record a realized profit or loss. Profits are split by the profit split;
losses are taken from Reserve first and then Active.

Example:
  funds trade -- -120.50 "stopped out on GBPUSD"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTrade,
}

var rebalanceCmd = &cobra.Command{
	Use:   "rebalance <target-active>",
	Short: "Move Active to a target amount",
	Long: `Grow Active to the target by drawing from --source (reserve or profit),
or shrink it by returning the excess to Reserve.`,
	Args: cobra.ExactArgs(1),
	RunE: runRebalance,
}

var (
	moveToSub       string
	rebalanceSource string
)

func init() {
	rootCmd.AddCommand(depositCmd, withdrawCmd, transferCmd, moveCmd, tradeCmd, rebalanceCmd)
	moveCmd.Flags().StringVar(&moveToSub, "to-sub", "", "destination sub-account (empty for the main account)")
	rebalanceCmd.Flags().StringVar(&rebalanceSource, "source", "reserve", "fund to draw from when growing Active")
}

func runDeposit(cmd *cobra.Command, args []string) error {
	amt, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	a, err := current()
	if err != nil {
		return err
	}
	if a, err = app.ledger.Deposit(app.ctx, a.ID, amt); err != nil {
		return err
	}
	fmt.Printf("✓ Deposited %s\n", amount(amt))
	printAccount(os.Stdout, a)
	return nil
}

func runWithdraw(cmd *cobra.Command, args []string) error {
	from, err := fund.ParseKind(args[0])
	if err != nil {
		return err
	}
	amt, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	a, err := current()
	if err != nil {
		return err
	}
	if a, err = app.ledger.Withdraw(app.ctx, a.ID, from, amt); err != nil {
		return err
	}
	fmt.Printf("✓ Withdrew %s from %s\n", amount(amt), from)
	printAccount(os.Stdout, a)
	return nil
}

func parseMove(args []string) (from, to fund.Kind, amt decimal.Decimal, err error) {
	if from, err = fund.ParseKind(args[0]); err != nil {
		return
	}
	if to, err = fund.ParseKind(args[1]); err != nil {
		return
	}
	amt, err = parseAmount(args[2])
	return
}

func runTransfer(cmd *cobra.Command, args []string) error {
	from, to, amt, err := parseMove(args)
	if err != nil {
		return err
	}
	a, err := current()
	if err != nil {
		return err
	}
	if a, err = app.ledger.Transfer(app.ctx, a.ID, from, to, amt); err != nil {
		return err
	}
	fmt.Printf("✓ Transferred %s %s -> %s\n", amount(amt), from, to)
	printAccount(os.Stdout, a)
	return nil
}

func runMove(cmd *cobra.Command, args []string) error {
	from, to, amt, err := parseMove(args)
	if err != nil {
		return err
	}
	src, err := current()
	if err != nil {
		return err
	}
	destKey := fund.Key{Owner: keyFlag.Owner, Mode: keyFlag.Mode, SubAccount: moveToSub}
	dst, err := app.ledger.Lookup(app.ctx, destKey)
	if err != nil {
		return fmt.Errorf("account %s: %w", destKey, err)
	}
	res, err := app.ledger.TransferBetweenAccounts(app.ctx, src.ID, dst.ID, from, to, amt)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Moved %s from %s/%s to %s/%s (%s)\n",
		amount(amt), src.Key, from, dst.Key, to, res.CorrelationID)
	printAccount(os.Stdout, res.Source)
	fmt.Println()
	printAccount(os.Stdout, res.Destination)
	return nil
}

func runTrade(cmd *cobra.Command, args []string) error {
	pnl, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	a, err := current()
	if err != nil {
		return err
	}
	res, err := app.ledger.RecordTrade(app.ctx, a.ID, pnl, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Printf("✓ Recorded %s %s\n", res.Trade.Kind, amount(pnl))
	printAccount(os.Stdout, res.Account)
	printWarnings(os.Stdout, res.Warnings)
	return nil
}

func runRebalance(cmd *cobra.Command, args []string) error {
	target, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	source, err := fund.ParseKind(rebalanceSource)
	if err != nil {
		return err
	}
	a, err := current()
	if err != nil {
		return err
	}
	if a, err = app.ledger.Rebalance(app.ctx, a.ID, target, source); err != nil {
		return err
	}
	fmt.Printf("✓ Rebalanced active to %s\n", amount(a.Active))
	printAccount(os.Stdout, a)
	return nil
}
