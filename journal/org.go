package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/funds/pkg/id"
)

// FormatTransactionOrg renders a TransactionRecord as an Org-mode entry with
// its facts in a PROPERTIES drawer.
func FormatTransactionOrg(r TransactionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** %s %s (%s)\n", r.Type, r.Amount.StringFixed(2), shortID(r.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", r.ID)
	fmt.Fprintf(&b, ":ACCOUNT: %s\n", r.Key)
	fmt.Fprintf(&b, ":TYPE: %s\n", r.Type)
	if r.From != nil {
		fmt.Fprintf(&b, ":FROM_FUND: %s\n", kindString(r.From))
	}
	if r.To != nil {
		fmt.Fprintf(&b, ":TO_FUND: %s\n", kindString(r.To))
	}
	fmt.Fprintf(&b, ":AMOUNT: %s\n", r.Amount.StringFixed(2))
	fmt.Fprintf(&b, ":BALANCE_BEFORE: %s\n", r.BalanceBefore.StringFixed(2))
	fmt.Fprintf(&b, ":BALANCE_AFTER: %s\n", r.BalanceAfter.StringFixed(2))
	if r.CorrelationID != "" {
		fmt.Fprintf(&b, ":CORRELATION: %s\n", r.CorrelationID)
	}
	fmt.Fprintf(&b, ":CREATED: %s\n", created(r.ID, r.CreatedAt))
	b.WriteString(":END:\n")
	if r.Description != "" {
		b.WriteString(r.Description)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatTradeOrg renders a TradeRecord as an Org-mode entry with a Review
// section for notes.
func FormatTradeOrg(r TradeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %s (%s)\n", r.Kind, r.ProfitLoss.StringFixed(2), shortID(r.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", r.ID)
	fmt.Fprintf(&b, ":ACCOUNT: %s\n", r.Key)
	fmt.Fprintf(&b, ":KIND: %s\n", r.Kind)
	fmt.Fprintf(&b, ":PROFIT_LOSS: %s\n", r.ProfitLoss.StringFixed(2))
	fmt.Fprintf(&b, ":START_BALANCE: %s\n", r.StartBalance.StringFixed(2))
	fmt.Fprintf(&b, ":END_BALANCE: %s\n", r.EndBalance.StringFixed(2))
	fmt.Fprintf(&b, ":CREATED: %s\n", created(r.ID, r.CreatedAt))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Review\n- ")
	b.WriteString(r.Note)
	b.WriteString("\n")
	return b.String()
}

// FormatTransactionsOrg renders multiple transactions separated by blank lines.
func FormatTransactionsOrg(recs []TransactionRecord) string {
	var b strings.Builder
	for i, r := range recs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTransactionOrg(r))
	}
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(recs []TradeRecord) string {
	var b strings.Builder
	for i, r := range recs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(r))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}

// created formats the record time, falling back to the timestamp inside the
// record id for rows written without one.
func created(recID string, at time.Time) string {
	if at.IsZero() {
		if t, err := id.Time(recID); err == nil {
			at = t
		}
	}
	return at.UTC().Format(time.RFC3339)
}
