package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rustyeddy/funds/allocation"
	"github.com/rustyeddy/funds/fund"
	"github.com/rustyeddy/funds/journal"
	"github.com/rustyeddy/funds/notify"
	"github.com/rustyeddy/funds/pkg/id"
	"github.com/rustyeddy/funds/risk"
	"github.com/rustyeddy/funds/store"
	"github.com/shopspring/decimal"
)

// Initialize creates the account for key with capital split by the deposit
// policy. A nil policy uses the configured default. An existing account for
// key fails with fund.ErrConflict.
func (s *Service) Initialize(ctx context.Context, key fund.Key, capital decimal.Decimal, policy *fund.Policy) (fund.Account, error) {
	if err := key.Validate(); err != nil {
		return fund.Account{}, err
	}
	if capital.IsNegative() {
		return fund.Account{}, fmt.Errorf("%w: initial capital must not be negative, got %s", fund.ErrInvalidAmount, capital)
	}
	p := s.opts.DefaultPolicy
	if policy != nil {
		p = *policy
	}
	if p.BaseRiskPercent.IsZero() {
		p.BaseRiskPercent = p.RiskPercent
	}
	if err := allocation.ValidatePolicy(p); err != nil {
		return fund.Account{}, err
	}

	shares := allocation.SplitDeposit(capital, p.DepositSplit)
	var acct fund.Account
	err := s.do(ctx, "initialize", func(ctx context.Context, tx store.Tx) error {
		if _, err := tx.FindAccount(ctx, key); err == nil {
			return fmt.Errorf("account %s already exists: %w", key, fund.ErrConflict)
		} else if !errors.Is(err, fund.ErrNotFound) {
			return err
		}

		now := s.now()
		acct = fund.Account{
			ID:             uuid.NewString(),
			Key:            key,
			Active:         shares.ToActive,
			Reserve:        shares.ToReserve,
			Profit:         decimal.Zero,
			InitialCapital: capital,
			TargetReserve:  shares.ToReserve,
			Policy:         p,
			CreatedAt:      now,
		}
		acct.Recompute()
		if err := acct.Check(); err != nil {
			return err
		}
		if err := tx.CreateAccount(ctx, &acct); err != nil {
			return err
		}
		return tx.RecordTrade(ctx, journal.TradeRecord{
			ID:           id.New(),
			Seq:          acct.Version,
			Key:          key,
			Kind:         journal.TradeInitialize,
			ProfitLoss:   decimal.Zero,
			StartBalance: decimal.Zero,
			EndBalance:   acct.Total,
			Note:         fmt.Sprintf("initial capital %s (active %s, reserve %s)", capital.StringFixed(2), shares.ToActive.StringFixed(2), shares.ToReserve.StringFixed(2)),
			CreatedAt:    now,
		})
	})
	if err != nil {
		return fund.Account{}, err
	}
	s.log.Infof("initialized %s id=%s capital=%s", key, acct.ID, capital.StringFixed(2))
	return acct, nil
}

// Lookup returns the account for key or fund.ErrNotFound. It never creates
// one.
func (s *Service) Lookup(ctx context.Context, key fund.Key) (fund.Account, error) {
	var acct fund.Account
	err := s.do(ctx, "lookup", func(ctx context.Context, tx store.Tx) error {
		var err error
		acct, err = tx.FindAccount(ctx, key)
		return err
	})
	return acct, err
}

// ListAccounts returns the main and sub-accounts of owner in every mode.
func (s *Service) ListAccounts(ctx context.Context, owner string) ([]fund.Account, error) {
	var out []fund.Account
	err := s.do(ctx, "list accounts", func(ctx context.Context, tx store.Tx) error {
		var err error
		out, err = tx.ListAccounts(ctx, owner)
		return err
	})
	return out, err
}

// Snapshot is a read-only view of an account with the sizing advice and
// warnings derived from it.
type Snapshot struct {
	Account  fund.Account
	Advice   risk.Advice
	Warnings []risk.Warning
}

func (s *Service) Snapshot(ctx context.Context, accountID string) (Snapshot, error) {
	var acct fund.Account
	err := s.do(ctx, "snapshot", func(ctx context.Context, tx store.Tx) error {
		var err error
		acct, err = tx.GetAccount(ctx, accountID)
		return err
	})
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Account:  acct,
		Advice:   s.advise(acct),
		Warnings: risk.CheckShortfall(acct),
	}, nil
}

// UpdatePolicy validates and stores a new policy. A zero BaseRiskPercent
// keeps the account's current baseline.
func (s *Service) UpdatePolicy(ctx context.Context, accountID string, p fund.Policy) (fund.Account, error) {
	var acct fund.Account
	err := s.do(ctx, "update policy", func(ctx context.Context, tx store.Tx) error {
		var err error
		acct, err = tx.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if p.BaseRiskPercent.IsZero() {
			p.BaseRiskPercent = acct.Policy.BaseRiskPercent
		}
		if err := allocation.ValidatePolicy(p); err != nil {
			return err
		}
		acct.Policy = p
		if err := save(ctx, tx, &acct); err != nil {
			return err
		}
		return tx.RecordTransaction(ctx, journal.TransactionRecord{
			ID:            id.New(),
			Seq:           acct.Version,
			Key:           acct.Key,
			Type:          journal.TxSettingsUpdate,
			Amount:        decimal.Zero,
			BalanceBefore: acct.Total,
			BalanceAfter:  acct.Total,
			Description:   describePolicy(p),
			CreatedAt:     s.now(),
		})
	})
	if err != nil {
		return fund.Account{}, err
	}
	s.log.Infof("policy updated %s: %s", acct.Key, describePolicy(p))
	s.alert(ctx, acct, notify.SubjectPolicyUpdated, notify.LevelInfo, describePolicy(p))
	return acct, nil
}

func describePolicy(p fund.Policy) string {
	return fmt.Sprintf("profit split %d/%d/%d, deposit split %d/%d, lot base %s per %s, risk %s%% (base %s%%)",
		p.ProfitSplit.Active, p.ProfitSplit.Reserve, p.ProfitSplit.Profit,
		p.DepositSplit.Active, p.DepositSplit.Reserve,
		p.LotBaseLot, p.LotBaseCapital.StringFixed(2), p.RiskPercent, p.BaseRiskPercent)
}

// Reset deletes the account together with its audit history.
func (s *Service) Reset(ctx context.Context, accountID string) error {
	var acct fund.Account
	err := s.do(ctx, "reset", func(ctx context.Context, tx store.Tx) error {
		var err error
		acct, err = tx.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		return tx.DeleteAccount(ctx, acct)
	})
	if err != nil {
		return err
	}
	s.log.Warnf("reset %s id=%s total=%s", acct.Key, acct.ID, acct.Total.StringFixed(2))
	s.alert(ctx, acct, notify.SubjectAccountReset, notify.LevelWarning,
		fmt.Sprintf("account and history deleted, total was %s", acct.Total.StringFixed(2)))
	return nil
}
