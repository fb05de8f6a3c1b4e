package ledger

import (
	"context"
	"fmt"

	"github.com/rustyeddy/funds/allocation"
	"github.com/rustyeddy/funds/fund"
	"github.com/rustyeddy/funds/journal"
	"github.com/rustyeddy/funds/pkg/id"
	"github.com/rustyeddy/funds/store"
	"github.com/shopspring/decimal"
)

// Deposit adds external cash, split between Active and Reserve by the
// account's deposit split.
func (s *Service) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (fund.Account, error) {
	if err := positive("deposit", amount); err != nil {
		return fund.Account{}, err
	}
	var acct fund.Account
	err := s.do(ctx, "deposit", func(ctx context.Context, tx store.Tx) error {
		var err error
		if acct, err = tx.GetAccount(ctx, accountID); err != nil {
			return err
		}
		before := acct.Total
		sh := allocation.SplitDeposit(amount, acct.Policy.DepositSplit)
		acct.Credit(fund.Active, sh.ToActive)
		acct.Credit(fund.Reserve, sh.ToReserve)
		if err := save(ctx, tx, &acct); err != nil {
			return err
		}
		return tx.RecordTransaction(ctx, journal.TransactionRecord{
			ID:            id.New(),
			Seq:           acct.Version,
			Key:           acct.Key,
			Type:          journal.TxDeposit,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  acct.Total,
			Description:   fmt.Sprintf("active +%s, reserve +%s", sh.ToActive.StringFixed(2), sh.ToReserve.StringFixed(2)),
			CreatedAt:     s.now(),
		})
	})
	if err != nil {
		return fund.Account{}, err
	}
	s.log.Infof("deposit %s amount=%s total=%s", acct.Key, amount.StringFixed(2), acct.Total.StringFixed(2))
	return acct, nil
}

// Withdraw removes external cash from one fund.
func (s *Service) Withdraw(ctx context.Context, accountID string, from fund.Kind, amount decimal.Decimal) (fund.Account, error) {
	if err := validKind(from); err != nil {
		return fund.Account{}, err
	}
	if err := positive("withdrawal", amount); err != nil {
		return fund.Account{}, err
	}
	var acct fund.Account
	err := s.do(ctx, "withdraw", func(ctx context.Context, tx store.Tx) error {
		var err error
		if acct, err = tx.GetAccount(ctx, accountID); err != nil {
			return err
		}
		if err := sufficient(acct, from, amount); err != nil {
			return err
		}
		before := acct.Total
		acct.Debit(from, amount)
		if err := save(ctx, tx, &acct); err != nil {
			return err
		}
		return tx.RecordTransaction(ctx, journal.TransactionRecord{
			ID:            id.New(),
			Seq:           acct.Version,
			Key:           acct.Key,
			Type:          journal.TxWithdraw,
			From:          journal.KindPtr(from),
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  acct.Total,
			Description:   fmt.Sprintf("withdraw from %s", from),
			CreatedAt:     s.now(),
		})
	})
	if err != nil {
		return fund.Account{}, err
	}
	s.log.Infof("withdraw %s %s amount=%s total=%s", acct.Key, from, amount.StringFixed(2), acct.Total.StringFixed(2))
	return acct, nil
}

func checkPair(from, to fund.Kind, amount decimal.Decimal) error {
	if err := validKind(from); err != nil {
		return err
	}
	if err := validKind(to); err != nil {
		return err
	}
	return positive("transfer", amount)
}

// Transfer moves amount between two funds of one account. The total does not
// change.
func (s *Service) Transfer(ctx context.Context, accountID string, from, to fund.Kind, amount decimal.Decimal) (fund.Account, error) {
	if err := checkPair(from, to, amount); err != nil {
		return fund.Account{}, err
	}
	if from == to {
		return fund.Account{}, fmt.Errorf("%w: transfer from %s to itself", fund.ErrInvalidAmount, from)
	}
	var acct fund.Account
	err := s.do(ctx, "transfer", func(ctx context.Context, tx store.Tx) error {
		var err error
		if acct, err = tx.GetAccount(ctx, accountID); err != nil {
			return err
		}
		if err := sufficient(acct, from, amount); err != nil {
			return err
		}
		acct.Debit(from, amount)
		acct.Credit(to, amount)
		if err := save(ctx, tx, &acct); err != nil {
			return err
		}
		return tx.RecordTransaction(ctx, journal.TransactionRecord{
			ID:            id.New(),
			Seq:           acct.Version,
			Key:           acct.Key,
			Type:          journal.TxTransfer,
			From:          journal.KindPtr(from),
			To:            journal.KindPtr(to),
			Amount:        amount,
			BalanceBefore: acct.Total,
			BalanceAfter:  acct.Total,
			Description:   fmt.Sprintf("%s -> %s", from, to),
			CreatedAt:     s.now(),
		})
	})
	if err != nil {
		return fund.Account{}, err
	}
	s.log.Infof("transfer %s %s->%s amount=%s", acct.Key, from, to, amount.StringFixed(2))
	return acct, nil
}

// AccountTransfer is the result of TransferBetweenAccounts.
type AccountTransfer struct {
	Source        fund.Account
	Destination   fund.Account
	CorrelationID string
}

// TransferBetweenAccounts moves amount from a fund of one account to a fund
// of another account of the same owner and mode. Both accounts and both
// audit records commit together or not at all.
func (s *Service) TransferBetweenAccounts(ctx context.Context, sourceID, destID string, from, to fund.Kind, amount decimal.Decimal) (AccountTransfer, error) {
	if err := checkPair(from, to, amount); err != nil {
		return AccountTransfer{}, err
	}
	if sourceID == destID {
		return AccountTransfer{}, fmt.Errorf("%w: source and destination are the same account", fund.ErrInvalidAmount)
	}

	var out AccountTransfer
	err := s.do(ctx, "transfer between accounts", func(ctx context.Context, tx store.Tx) error {
		src, err := tx.GetAccount(ctx, sourceID)
		if err != nil {
			return err
		}
		dst, err := tx.GetAccount(ctx, destID)
		if err != nil {
			return err
		}
		if src.Key.Owner != dst.Key.Owner || src.Key.Mode != dst.Key.Mode {
			return fmt.Errorf("%w: %s and %s differ in owner or mode", fund.ErrInvalidAmount, src.Key, dst.Key)
		}
		if err := sufficient(src, from, amount); err != nil {
			return err
		}

		srcBefore, dstBefore := src.Total, dst.Total
		src.Debit(from, amount)
		dst.Credit(to, amount)

		// Lock rows in id order so two opposite transfers cannot deadlock.
		first, second := &src, &dst
		if dst.ID < src.ID {
			first, second = &dst, &src
		}
		if err := save(ctx, tx, first); err != nil {
			return err
		}
		if err := save(ctx, tx, second); err != nil {
			return err
		}

		corr := id.Correlation()
		now := s.now()
		err = tx.RecordTransaction(ctx, journal.TransactionRecord{
			ID:            id.New(),
			Seq:           src.Version,
			Key:           src.Key,
			Type:          journal.TxTransferOut,
			From:          journal.KindPtr(from),
			To:            journal.KindPtr(to),
			Amount:        amount,
			BalanceBefore: srcBefore,
			BalanceAfter:  src.Total,
			Description:   fmt.Sprintf("to %s %s", dst.Key, to),
			CorrelationID: corr,
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}
		err = tx.RecordTransaction(ctx, journal.TransactionRecord{
			ID:            id.New(),
			Seq:           dst.Version,
			Key:           dst.Key,
			Type:          journal.TxTransferIn,
			From:          journal.KindPtr(from),
			To:            journal.KindPtr(to),
			Amount:        amount,
			BalanceBefore: dstBefore,
			BalanceAfter:  dst.Total,
			Description:   fmt.Sprintf("from %s %s", src.Key, from),
			CorrelationID: corr,
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}
		out = AccountTransfer{Source: src, Destination: dst, CorrelationID: corr}
		return nil
	})
	if err != nil {
		return AccountTransfer{}, err
	}
	s.log.Infof("transfer %s/%s -> %s/%s amount=%s corr=%s",
		out.Source.Key, from, out.Destination.Key, to, amount.StringFixed(2), out.CorrelationID)
	return out, nil
}

// Rebalance moves Active toward target. Growing Active draws from source,
// which must be Reserve or Profit. Shrinking Active always credits Reserve.
// A target equal to the current Active is a no-op: the account Version is
// unchanged and no TransactionRecord is appended.
func (s *Service) Rebalance(ctx context.Context, accountID string, target decimal.Decimal, source fund.Kind) (fund.Account, error) {
	if source != fund.Reserve && source != fund.Profit {
		return fund.Account{}, fmt.Errorf("%w: rebalance source must be reserve or profit, got %s", fund.ErrInvalidAmount, source)
	}
	if target.IsNegative() {
		return fund.Account{}, fmt.Errorf("%w: rebalance target must not be negative, got %s", fund.ErrInvalidAmount, target)
	}

	var acct fund.Account
	var moved bool
	err := s.do(ctx, "rebalance", func(ctx context.Context, tx store.Tx) error {
		var err error
		if acct, err = tx.GetAccount(ctx, accountID); err != nil {
			return err
		}
		diff := target.Sub(acct.Active)
		moved = !diff.IsZero()
		if !moved {
			return nil
		}

		rec := journal.TransactionRecord{
			ID:        id.New(),
			Key:       acct.Key,
			CreatedAt: s.now(),
		}
		if diff.IsPositive() {
			if err := sufficient(acct, source, diff); err != nil {
				return err
			}
			acct.Debit(source, diff)
			acct.Credit(fund.Active, diff)
			rec.Type = journal.TxRebalanceIn
			rec.From, rec.To = journal.KindPtr(source), journal.KindPtr(fund.Active)
			rec.Amount = diff
		} else {
			excess := diff.Neg()
			acct.Debit(fund.Active, excess)
			acct.Credit(fund.Reserve, excess)
			rec.Type = journal.TxRebalanceOut
			rec.From, rec.To = journal.KindPtr(fund.Active), journal.KindPtr(fund.Reserve)
			rec.Amount = excess
		}
		rec.BalanceBefore, rec.BalanceAfter = acct.Total, acct.Total
		rec.Description = fmt.Sprintf("active target %s", target.StringFixed(2))

		if err := save(ctx, tx, &acct); err != nil {
			return err
		}
		rec.Seq = acct.Version
		return tx.RecordTransaction(ctx, rec)
	})
	if err != nil {
		return fund.Account{}, err
	}
	if moved {
		s.log.Infof("rebalance %s active=%s reserve=%s profit=%s",
			acct.Key, acct.Active.StringFixed(2), acct.Reserve.StringFixed(2), acct.Profit.StringFixed(2))
	}
	return acct, nil
}
