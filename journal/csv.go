package journal

import (
	"encoding/csv"
	"io"
	"time"
)

var (
	transactionHeader = []string{"id", "account", "type", "from_fund", "to_fund", "amount", "balance_before", "balance_after", "correlation_id", "created_at", "description"}
	tradeHeader       = []string{"id", "account", "kind", "profit_loss", "start_balance", "end_balance", "created_at", "note"}
)

// WriteTransactionsCSV writes a header row followed by one row per record.
func WriteTransactionsCSV(w io.Writer, recs []TransactionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(transactionHeader); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write([]string{
			r.ID,
			r.Key.String(),
			string(r.Type),
			kindString(r.From),
			kindString(r.To),
			r.Amount.StringFixed(2),
			r.BalanceBefore.StringFixed(2),
			r.BalanceAfter.StringFixed(2),
			r.CorrelationID,
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.Description,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTradesCSV writes a header row followed by one row per record.
func WriteTradesCSV(w io.Writer, recs []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradeHeader); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write([]string{
			r.ID,
			r.Key.String(),
			string(r.Kind),
			r.ProfitLoss.StringFixed(2),
			r.StartBalance.StringFixed(2),
			r.EndBalance.StringFixed(2),
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.Note,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
