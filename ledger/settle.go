package ledger

import (
	"context"

	"github.com/rustyeddy/funds/allocation"
	"github.com/rustyeddy/funds/fund"
	"github.com/rustyeddy/funds/journal"
	"github.com/rustyeddy/funds/pkg/id"
	"github.com/rustyeddy/funds/risk"
	"github.com/rustyeddy/funds/store"
	"github.com/shopspring/decimal"
)

// Settlement is the result of RecordTrade.
type Settlement struct {
	Account  fund.Account
	Trade    journal.TradeRecord
	Warnings []risk.Warning
}

// RecordTrade settles a realized pnl. Profits are split by the account's
// profit split. Losses are charged to Reserve first and then Active; a loss
// larger than both leaves Active at zero and returns a LOSS_CLAMPED warning.
func (s *Service) RecordTrade(ctx context.Context, accountID string, pnl decimal.Decimal, note string) (Settlement, error) {
	var out Settlement
	err := s.do(ctx, "record trade", func(ctx context.Context, tx store.Tx) error {
		acct, err := tx.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		start := acct.Total
		ws := settle(&acct, pnl)

		if err := save(ctx, tx, &acct); err != nil {
			return err
		}
		kind := journal.TradeProfit
		if pnl.IsNegative() {
			kind = journal.TradeLoss
		}
		rec := journal.TradeRecord{
			ID:           id.New(),
			Seq:          acct.Version,
			Key:          acct.Key,
			Kind:         kind,
			ProfitLoss:   pnl,
			StartBalance: start,
			EndBalance:   acct.Total,
			Note:         note,
			CreatedAt:    s.now(),
		}
		if err := tx.RecordTrade(ctx, rec); err != nil {
			return err
		}
		out = Settlement{
			Account:  acct,
			Trade:    rec,
			Warnings: append(ws, risk.CheckShortfall(acct)...),
		}
		return nil
	})
	if err != nil {
		return Settlement{}, err
	}
	s.log.Infof("settled %s pnl=%s total %s -> %s",
		out.Account.Key, pnl.StringFixed(2), out.Trade.StartBalance.StringFixed(2), out.Trade.EndBalance.StringFixed(2))
	s.warn(ctx, out.Account, out.Warnings)
	return out, nil
}

// settle applies pnl to the balances of a.
func settle(a *fund.Account, pnl decimal.Decimal) []risk.Warning {
	switch {
	case pnl.IsPositive():
		sh := allocation.SplitProfit(pnl, a.Policy.ProfitSplit)
		a.Credit(fund.Active, sh.ToActive)
		a.Credit(fund.Reserve, sh.ToReserve)
		a.Credit(fund.Profit, sh.ToProfit)

	case pnl.IsNegative():
		sh := allocation.ApplyLoss(pnl.Neg(), a.Reserve)
		a.Debit(fund.Reserve, sh.FromReserve)
		if sh.FromActive.GreaterThan(a.Active) {
			excess := sh.FromActive.Sub(a.Active)
			a.Debit(fund.Active, a.Active)
			return []risk.Warning{risk.LossClamped(excess)}
		}
		a.Debit(fund.Active, sh.FromActive)
	}
	return nil
}
