package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/rustyeddy/funds/fund"
	"github.com/rustyeddy/funds/journal"
	"github.com/rustyeddy/funds/risk"
	"github.com/shopspring/decimal"
)

// amount formats d in the display currency. Stored values are never
// converted.
func amount(d decimal.Decimal) string {
	code := app.cfg.Display.Currency
	cur := money.GetCurrency(code)
	if cur == nil {
		return d.StringFixed(2)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", fund.ErrInvalidAmount, s)
	}
	return d, nil
}

func printAccount(w io.Writer, a fund.Account) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Account:\t%s\t(%s, v%d)\n", a.Key, a.ID, a.Version)
	fmt.Fprintf(tw, "Active:\t%s\n", amount(a.Active))
	fmt.Fprintf(tw, "Reserve:\t%s\t(target %s)\n", amount(a.Reserve), amount(a.TargetReserve))
	fmt.Fprintf(tw, "Profit:\t%s\n", amount(a.Profit))
	fmt.Fprintf(tw, "Total:\t%s\t(initial %s)\n", amount(a.Total), amount(a.InitialCapital))
	_ = tw.Flush()
}

func printPolicy(w io.Writer, p fund.Policy) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Profit split:\t%d/%d/%d\t(active/reserve/profit)\n", p.ProfitSplit.Active, p.ProfitSplit.Reserve, p.ProfitSplit.Profit)
	fmt.Fprintf(tw, "Deposit split:\t%d/%d\t(active/reserve)\n", p.DepositSplit.Active, p.DepositSplit.Reserve)
	fmt.Fprintf(tw, "Lot base:\t%s lots per %s\n", p.LotBaseLot, amount(p.LotBaseCapital))
	fmt.Fprintf(tw, "Risk:\t%s%%\t(base %s%%)\n", p.RiskPercent, p.BaseRiskPercent)
	_ = tw.Flush()
}

func printAdvice(w io.Writer, adv risk.Advice) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Recommended lot:\t%s\n", adv.RecommendedLot)
	fmt.Fprintf(tw, "Effective lot:\t%s\n", adv.EffectiveLot)
	fmt.Fprintf(tw, "Risk amount:\t%s\n", amount(adv.RiskAmount))
	fmt.Fprintf(tw, "Take profit:\t%s\n", amount(adv.TakeProfit))
	_ = tw.Flush()
}

func printWarnings(w io.Writer, ws []risk.Warning) {
	for _, warn := range ws {
		fmt.Fprintf(w, "! %s\n", warn)
	}
}

func printTransactions(w io.Writer, recs []journal.TransactionRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTYPE\tFROM\tTO\tAMOUNT\tBEFORE\tAFTER\tDESCRIPTION")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.Type, kindOrDash(r.From), kindOrDash(r.To),
			amount(r.Amount), amount(r.BalanceBefore), amount(r.BalanceAfter), r.Description)
	}
	_ = tw.Flush()
}

func printTrades(w io.Writer, recs []journal.TradeRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tKIND\tP/L\tSTART\tEND\tNOTE")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.Kind,
			amount(r.ProfitLoss), amount(r.StartBalance), amount(r.EndBalance), r.Note)
	}
	_ = tw.Flush()
}

func kindOrDash(k *fund.Kind) string {
	if k == nil {
		return "-"
	}
	return k.String()
}
