package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rustyeddy/funds/fund"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <capital>",
	Short: "Create an account with its initial capital",
	Long: `Create the account selected by --owner/--mode/--sub. The capital is split
into Active and Reserve by the default deposit split from the config.

Example:
  funds init 10000 --owner alice --mode live --sub scalping`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show balances, policy and lot advice",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the accounts of --owner",
	Args:  cobra.NoArgs,
	RunE:  runAccounts,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the account and its entire history",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Replay the audit history and check it matches the balances",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

var resetConfirm bool

func init() {
	rootCmd.AddCommand(initCmd, showCmd, accountsCmd, resetCmd, verifyCmd)
	resetCmd.Flags().BoolVar(&resetConfirm, "yes", false, "confirm the reset")
}

func runInit(cmd *cobra.Command, args []string) error {
	capital, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	a, err := app.ledger.Initialize(app.ctx, keyFlag, capital, nil)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	fmt.Printf("✓ Initialized %s\n", a.Key)
	printAccount(os.Stdout, a)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := current()
	if err != nil {
		return err
	}
	snap, err := app.ledger.Snapshot(app.ctx, a.ID)
	if err != nil {
		return err
	}
	printAccount(os.Stdout, snap.Account)
	fmt.Println()
	printPolicy(os.Stdout, snap.Account.Policy)
	fmt.Println()
	printAdvice(os.Stdout, snap.Advice)
	printWarnings(os.Stdout, snap.Warnings)
	return nil
}

func runAccounts(cmd *cobra.Command, args []string) error {
	if keyFlag.Owner == "" {
		return fmt.Errorf("%w: --owner is required", fund.ErrInvalidAmount)
	}
	accts, err := app.ledger.ListAccounts(app.ctx, keyFlag.Owner)
	if err != nil {
		return err
	}
	if len(accts) == 0 {
		fmt.Printf("No accounts for %s\n", keyFlag.Owner)
		return nil
	}
	for i, a := range accts {
		if i > 0 {
			fmt.Println()
		}
		printAccount(os.Stdout, a)
	}
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetConfirm {
		return errors.New("reset deletes the account and its history; pass --yes to confirm")
	}
	a, err := current()
	if err != nil {
		return err
	}
	if err := app.ledger.Reset(app.ctx, a.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Reset %s\n", a.Key)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	a, err := current()
	if err != nil {
		return err
	}
	if err := app.ledger.Verify(app.ctx, a.ID); err != nil {
		return err
	}
	fmt.Printf("✓ %s: history reconciles to %s\n", a.Key, amount(a.Total))
	return nil
}
