// Package store persists fund accounts and their audit ledger. Every
// mutation happens inside a transaction, and account updates are
// compare-and-swap on the row version.
package store

import (
	"context"

	"github.com/rustyeddy/funds/fund"
	"github.com/rustyeddy/funds/journal"
)

type Store interface {
	// WithTx runs fn in one transaction. The transaction commits if fn
	// returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close() error
}

// Tx is the set of reads and writes available inside a transaction.
type Tx interface {
	journal.Journal

	GetAccount(ctx context.Context, id string) (fund.Account, error)
	FindAccount(ctx context.Context, key fund.Key) (fund.Account, error)
	ListAccounts(ctx context.Context, owner string) ([]fund.Account, error)

	// CreateAccount inserts a with version 1. A duplicate key fails with
	// fund.ErrConflict.
	CreateAccount(ctx context.Context, a *fund.Account) error

	// UpdateAccount writes a if the stored version still equals a.Version,
	// then bumps a.Version. A mismatch fails with an error matching both
	// fund.ErrConflict and fund.ErrRetryable.
	UpdateAccount(ctx context.Context, a *fund.Account) error

	// DeleteAccount removes the account and every audit record under its key.
	DeleteAccount(ctx context.Context, a fund.Account) error

	// ListTransactions and ListTrades return newest first by Seq, then id.
	// limit <= 0 returns everything.
	ListTransactions(ctx context.Context, key fund.Key, limit int) ([]journal.TransactionRecord, error)
	ListTrades(ctx context.Context, key fund.Key, limit int) ([]journal.TradeRecord, error)
}
