package ledger

import (
	"context"
	"fmt"

	"github.com/rustyeddy/funds/fund"
	"github.com/rustyeddy/funds/journal"
	"github.com/rustyeddy/funds/risk"
	"github.com/rustyeddy/funds/store"
)

// History returns the account's transaction records, newest first. limit <= 0
// returns all of them.
func (s *Service) History(ctx context.Context, accountID string, limit int) ([]journal.TransactionRecord, error) {
	var out []journal.TransactionRecord
	err := s.do(ctx, "history", func(ctx context.Context, tx store.Tx) error {
		acct, err := tx.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		out, err = tx.ListTransactions(ctx, acct.Key, limit)
		return err
	})
	return out, err
}

// Trades returns the account's trade records, newest first.
func (s *Service) Trades(ctx context.Context, accountID string, limit int) ([]journal.TradeRecord, error) {
	var out []journal.TradeRecord
	err := s.do(ctx, "trades", func(ctx context.Context, tx store.Tx) error {
		acct, err := tx.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		out, err = tx.ListTrades(ctx, acct.Key, limit)
		return err
	})
	return out, err
}

func (s *Service) LotAdvice(ctx context.Context, accountID string) (risk.Advice, error) {
	snap, err := s.Snapshot(ctx, accountID)
	if err != nil {
		return risk.Advice{}, err
	}
	return snap.Advice, nil
}

func (s *Service) advise(a fund.Account) risk.Advice {
	return risk.Advise(risk.Inputs{
		Active:         a.Active,
		Policy:         a.Policy,
		BaseTakeProfit: s.opts.BaseTakeProfit,
	})
}

// Verify checks the account invariants and replays its audit history from
// initialization to the current total.
func (s *Service) Verify(ctx context.Context, accountID string) error {
	var (
		acct   fund.Account
		txs    []journal.TransactionRecord
		trades []journal.TradeRecord
	)
	err := s.do(ctx, "verify", func(ctx context.Context, tx store.Tx) error {
		var err error
		if acct, err = tx.GetAccount(ctx, accountID); err != nil {
			return err
		}
		if txs, err = tx.ListTransactions(ctx, acct.Key, 0); err != nil {
			return err
		}
		trades, err = tx.ListTrades(ctx, acct.Key, 0)
		return err
	})
	if err != nil {
		return err
	}
	if err := acct.Check(); err != nil {
		return err
	}
	if err := journal.Replay(trades, txs, acct.Total); err != nil {
		return fmt.Errorf("verify %s: %w", acct.Key, err)
	}
	return nil
}
