package journal

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrBrokenChain is returned by Replay when the audit history does not
// reconstruct the account total.
var ErrBrokenChain = errors.New("audit chain broken")

// Entry is one balance step of an account's merged history.
type Entry struct {
	ID     string
	Seq    int64
	Label  string
	Before decimal.Decimal
	After  decimal.Decimal
}

// Entries merges trade and transaction records into one sequence ordered by
// Seq, then by id. Seq is the account version, so the order holds across
// writers whose clocks disagree.
func Entries(trades []TradeRecord, txs []TransactionRecord) []Entry {
	out := make([]Entry, 0, len(trades)+len(txs))
	for _, t := range trades {
		out = append(out, Entry{ID: t.ID, Seq: t.Seq, Label: "trade:" + string(t.Kind), Before: t.StartBalance, After: t.EndBalance})
	}
	for _, t := range txs {
		out = append(out, Entry{ID: t.ID, Seq: t.Seq, Label: string(t.Type), Before: t.BalanceBefore, After: t.BalanceAfter})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seq != out[j].Seq {
			return out[i].Seq < out[j].Seq
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Replay walks the history from account creation and checks that every
// record starts where the previous one ended, that the first record is the
// initialization from zero, and that the last balance equals total.
func Replay(trades []TradeRecord, txs []TransactionRecord, total decimal.Decimal) error {
	entries := Entries(trades, txs)
	if len(entries) == 0 {
		return fmt.Errorf("%w: no records", ErrBrokenChain)
	}
	if first := entries[0]; first.Label != "trade:"+string(TradeInitialize) || !first.Before.IsZero() {
		return fmt.Errorf("%w: first record %s is %s from %s, want initialize from 0",
			ErrBrokenChain, first.ID, first.Label, first.Before)
	}

	balance := decimal.Zero
	for _, e := range entries {
		if !e.Before.Equal(balance) {
			return fmt.Errorf("%w: record %s (%s) starts at %s, previous balance %s",
				ErrBrokenChain, e.ID, e.Label, e.Before, balance)
		}
		balance = e.After
	}
	if !balance.Equal(total) {
		return fmt.Errorf("%w: history ends at %s, account total %s", ErrBrokenChain, balance, total)
	}
	return nil
}
