// Package ledger applies deposits, withdrawals, transfers, trade settlements
// and policy changes to fund accounts. Each operation reads the account,
// computes new balances with the allocation rules and writes the account
// plus its audit records in one store transaction.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/funds/config"
	"github.com/rustyeddy/funds/fund"
	"github.com/rustyeddy/funds/logger"
	"github.com/rustyeddy/funds/notify"
	"github.com/rustyeddy/funds/risk"
	"github.com/rustyeddy/funds/store"
	"github.com/shopspring/decimal"
)

// Options tune a Service. Zero values fall back to the defaults of
// config.Default.
type Options struct {
	MaxAttempts    int
	Backoff        time.Duration
	Timeout        time.Duration
	BaseTakeProfit decimal.Decimal // zero means risk.DefaultBaseTakeProfit
	DefaultPolicy  fund.Policy

	Logger   logger.Logger
	Notifier notify.Notifier
	Now      func() time.Time
}

// OptionsFromConfig builds Options from a validated config.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	backoff, err := cfg.Ledger.Backoff()
	if err != nil {
		return Options{}, err
	}
	timeout, err := cfg.Ledger.Timeout()
	if err != nil {
		return Options{}, err
	}
	return Options{
		MaxAttempts:    cfg.Ledger.MaxAttempts,
		Backoff:        backoff,
		Timeout:        timeout,
		BaseTakeProfit: decimal.NewFromFloat(cfg.Ledger.BaseTakeProfit),
		DefaultPolicy:  cfg.Defaults.Policy(),
	}, nil
}

type Service struct {
	store store.Store
	opts  Options
	log   logger.Logger
	note  notify.Notifier
}

func New(st store.Store, opts Options) *Service {
	def := config.Default()
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.Ledger.MaxAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff, _ = def.Ledger.Backoff()
	}
	if opts.Timeout <= 0 {
		opts.Timeout, _ = def.Ledger.Timeout()
	}
	if opts.BaseTakeProfit.IsZero() {
		opts.BaseTakeProfit = risk.DefaultBaseTakeProfit
	}
	if opts.DefaultPolicy.DepositSplit.Sum() == 0 {
		opts.DefaultPolicy = def.Defaults.Policy()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard{}
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		store: st,
		opts:  opts,
		log:   opts.Logger.With("component", "ledger"),
		note:  opts.Notifier,
	}
}

// do runs fn in a store transaction, retrying retryable failures with a
// linear backoff. fn must derive everything it writes from what it reads in
// the same attempt.
func (s *Service) do(ctx context.Context, op string, fn func(ctx context.Context, tx store.Tx) error) error {
	var err error
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		err = s.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, fund.ErrRetryable) {
			s.log.Warnf("%s rejected: %v", op, err)
			return err
		}
		s.log.Debugf("%s: attempt %d/%d failed: %v", op, attempt, s.opts.MaxAttempts, err)
		if attempt == s.opts.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w: %w", op, fund.ErrRetryable, ctx.Err())
		case <-time.After(s.opts.Backoff * time.Duration(attempt)):
		}
	}
	s.log.Warnf("%s: giving up after %d attempts: %v", op, s.opts.MaxAttempts, err)
	return fmt.Errorf("%s: %d attempts: %w", op, s.opts.MaxAttempts, err)
}

func (s *Service) attempt(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	return s.store.WithTx(ctx, fn)
}

func (s *Service) now() time.Time { return s.opts.Now().UTC() }

func (s *Service) alert(ctx context.Context, a fund.Account, subject string, level notify.Level, msg string) {
	s.note.Notify(ctx, notify.Alert{
		Subject:   subject,
		Level:     level,
		AccountID: a.ID,
		Account:   a.Key.String(),
		Message:   msg,
		At:        s.now(),
	})
}

func (s *Service) warn(ctx context.Context, a fund.Account, ws []risk.Warning) {
	for _, w := range ws {
		s.alert(ctx, a, notify.SubjectWarning, notify.LevelWarning, w.String())
	}
}

func positive(what string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be positive, got %s", fund.ErrInvalidAmount, what, amount)
	}
	return nil
}

func validKind(k fund.Kind) error {
	if !k.Valid() {
		return fmt.Errorf("%w: unknown fund %s", fund.ErrInvalidAmount, k)
	}
	return nil
}

func sufficient(a fund.Account, k fund.Kind, amount decimal.Decimal) error {
	if bal := a.Balance(k); bal.LessThan(amount) {
		return fmt.Errorf("%w: %s %s fund has %s, need %s",
			fund.ErrInsufficientFunds, a.Key, k, bal.StringFixed(2), amount.StringFixed(2))
	}
	return nil
}

// save checks the account invariants and writes it with compare-and-swap.
func save(ctx context.Context, tx store.Tx, a *fund.Account) error {
	a.Recompute()
	if err := a.Check(); err != nil {
		return err
	}
	return tx.UpdateAccount(ctx, a)
}
