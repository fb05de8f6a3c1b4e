package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rustyeddy/funds/fund"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Show or change the account's allocation policy",
	Args:  cobra.NoArgs,
	RunE:  runPolicyShow,
}

var policySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the allocation policy",
	Long: `Change any part of the policy; unset flags keep their current value.

Example:
  funds policy set --profit-split 40/30/30 --risk 1.5 --owner alice`,
	Args: cobra.NoArgs,
	RunE: runPolicySet,
}

var lotCmd = &cobra.Command{
	Use:   "lot",
	Short: "Show the recommended lot size and risk for the Active fund",
	Args:  cobra.NoArgs,
	RunE:  runLot,
}

var (
	policyProfitSplit  string
	policyDepositSplit string
	policyLotCapital   string
	policyLotSize      string
	policyRisk         string
	policyBaseRisk     string
)

func init() {
	rootCmd.AddCommand(policyCmd, lotCmd)
	policyCmd.AddCommand(policySetCmd)

	f := policySetCmd.Flags()
	f.StringVar(&policyProfitSplit, "profit-split", "", "active/reserve/profit percentages, e.g. 50/25/25")
	f.StringVar(&policyDepositSplit, "deposit-split", "", "active/reserve percentages, e.g. 40/60")
	f.StringVar(&policyLotCapital, "lot-capital", "", "active capital that corresponds to --lot-size")
	f.StringVar(&policyLotSize, "lot-size", "", "lots traded per --lot-capital")
	f.StringVar(&policyRisk, "risk", "", "risk per trade in percent")
	f.StringVar(&policyBaseRisk, "base-risk", "", "risk percent the lot base was calibrated for")
}

func parseSplit(s string, n int) ([]int, error) {
	parts := strings.Split(s, "/")
	if len(parts) != n {
		return nil, fmt.Errorf("%w: split %q needs %d parts", fund.ErrInvalidPolicy, s, n)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: split %q: %v", fund.ErrInvalidPolicy, s, err)
		}
		out[i] = v
	}
	return out, nil
}

func runPolicyShow(cmd *cobra.Command, args []string) error {
	a, err := current()
	if err != nil {
		return err
	}
	fmt.Printf("Policy for %s\n", a.Key)
	printPolicy(os.Stdout, a.Policy)
	return nil
}

func runPolicySet(cmd *cobra.Command, args []string) error {
	a, err := current()
	if err != nil {
		return err
	}
	p := a.Policy
	if policyProfitSplit != "" {
		v, err := parseSplit(policyProfitSplit, 3)
		if err != nil {
			return err
		}
		p.ProfitSplit = fund.ProfitSplit{Active: v[0], Reserve: v[1], Profit: v[2]}
	}
	if policyDepositSplit != "" {
		v, err := parseSplit(policyDepositSplit, 2)
		if err != nil {
			return err
		}
		p.DepositSplit = fund.DepositSplit{Active: v[0], Reserve: v[1]}
	}
	for _, f := range []struct {
		val string
		dst *decimal.Decimal
	}{
		{policyLotCapital, &p.LotBaseCapital},
		{policyLotSize, &p.LotBaseLot},
		{policyRisk, &p.RiskPercent},
		{policyBaseRisk, &p.BaseRiskPercent},
	} {
		if f.val == "" {
			continue
		}
		d, err := parseAmount(f.val)
		if err != nil {
			return err
		}
		*f.dst = d
	}

	a, err = app.ledger.UpdatePolicy(app.ctx, a.ID, p)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Policy updated for %s\n", a.Key)
	printPolicy(os.Stdout, a.Policy)
	return nil
}

func runLot(cmd *cobra.Command, args []string) error {
	a, err := current()
	if err != nil {
		return err
	}
	adv, err := app.ledger.LotAdvice(app.ctx, a.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Active fund %s\n", amount(a.Active))
	printAdvice(os.Stdout, adv)
	return nil
}
