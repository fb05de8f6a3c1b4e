// Package journal defines the append-only audit records that explain every
// fund balance change, and renders them for review.
package journal

import (
	"context"
	"time"

	"github.com/rustyeddy/funds/fund"
	"github.com/shopspring/decimal"
)

// TxType labels a TransactionRecord.
type TxType string

const (
	TxDeposit        TxType = "deposit"
	TxWithdraw       TxType = "withdraw"
	TxTransfer       TxType = "transfer"
	TxTransferIn     TxType = "transfer_in"
	TxTransferOut    TxType = "transfer_out"
	TxRebalanceIn    TxType = "fund_rebalance_in"
	TxRebalanceOut   TxType = "fund_rebalance_out"
	TxSettingsUpdate TxType = "settings_update"
)

// TradeKind labels a TradeRecord.
type TradeKind string

const (
	TradeProfit     TradeKind = "profit"
	TradeLoss       TradeKind = "loss"
	TradeInitialize TradeKind = "initialize"
)

// TransactionRecord is an immutable audit row for a cash movement or a
// settings change. BalanceBefore and BalanceAfter are account totals. Seq is
// the account version the record was written with and orders an account's
// history.
type TransactionRecord struct {
	ID            string
	Seq           int64
	Key           fund.Key
	Type          TxType
	From          *fund.Kind
	To            *fund.Kind
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Description   string
	CorrelationID string
	CreatedAt     time.Time
}

// TradeRecord is an immutable audit row for a settlement or account
// initialization.
type TradeRecord struct {
	ID           string
	Seq          int64
	Key          fund.Key
	Kind         TradeKind
	ProfitLoss   decimal.Decimal
	StartBalance decimal.Decimal
	EndBalance   decimal.Decimal
	Note         string
	CreatedAt    time.Time
}

// Journal appends audit records. Implementations write inside the caller's
// transaction.
type Journal interface {
	RecordTransaction(ctx context.Context, r TransactionRecord) error
	RecordTrade(ctx context.Context, r TradeRecord) error
}

// KindPtr is a convenience for the optional From/To fields.
func KindPtr(k fund.Kind) *fund.Kind { return &k }

func kindString(k *fund.Kind) string {
	if k == nil {
		return ""
	}
	return k.String()
}
