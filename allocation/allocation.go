// Package allocation computes how deposits, realized profits and losses are
// distributed over the Active, Reserve and Profit funds. Every function is pure.
package allocation

import (
	"fmt"

	"github.com/rustyeddy/funds/fund"
	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places proportional shares are
// truncated to. The last share of every split absorbs the remainder so the
// parts always sum exactly to the input.
const Precision int32 = 2

var hundred = decimal.NewFromInt(100)

// DepositShares is the result of SplitDeposit.
type DepositShares struct {
	ToActive  decimal.Decimal
	ToReserve decimal.Decimal
}

// ProfitShares is the result of SplitProfit.
type ProfitShares struct {
	ToActive  decimal.Decimal
	ToReserve decimal.Decimal
	ToProfit  decimal.Decimal
}

// LossShares is the result of ApplyLoss.
type LossShares struct {
	FromActive  decimal.Decimal
	FromReserve decimal.Decimal
}

func share(amount decimal.Decimal, pct int) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(pct))).Div(hundred).Truncate(Precision)
}

// SplitDeposit splits amount between Active and Reserve. Reserve receives
// the rounding remainder.
func SplitDeposit(amount decimal.Decimal, s fund.DepositSplit) DepositShares {
	toActive := share(amount, s.Active)
	return DepositShares{
		ToActive:  toActive,
		ToReserve: amount.Sub(toActive),
	}
}

// SplitProfit splits a positive pnl over the three funds. Profit receives the
// rounding remainder.
func SplitProfit(pnl decimal.Decimal, s fund.ProfitSplit) ProfitShares {
	toActive := share(pnl, s.Active)
	toReserve := share(pnl, s.Reserve)
	return ProfitShares{
		ToActive:  toActive,
		ToReserve: toReserve,
		ToProfit:  pnl.Sub(toActive).Sub(toReserve),
	}
}

// ApplyLoss charges a loss (given as a positive amount) to Reserve first and
// the remainder to Active. FromActive may exceed the Active balance; callers
// clamp.
func ApplyLoss(loss, reserve decimal.Decimal) LossShares {
	fromReserve := decimal.Min(loss, reserve)
	if fromReserve.IsNegative() {
		fromReserve = decimal.Zero
	}
	return LossShares{
		FromActive:  loss.Sub(fromReserve),
		FromReserve: fromReserve,
	}
}

// ValidatePolicy checks split sums and the sizing fields. It is applied
// before a policy is persisted.
func ValidatePolicy(p fund.Policy) error {
	ps := p.ProfitSplit
	if ps.Active < 0 || ps.Reserve < 0 || ps.Profit < 0 {
		return fmt.Errorf("%w: profit split has a negative percentage", fund.ErrInvalidPolicy)
	}
	if ps.Sum() != 100 {
		return fmt.Errorf("%w: profit split sums to %d, want 100", fund.ErrInvalidPolicy, ps.Sum())
	}
	ds := p.DepositSplit
	if ds.Active < 0 || ds.Reserve < 0 {
		return fmt.Errorf("%w: deposit split has a negative percentage", fund.ErrInvalidPolicy)
	}
	if ds.Sum() != 100 {
		return fmt.Errorf("%w: deposit split sums to %d, want 100", fund.ErrInvalidPolicy, ds.Sum())
	}
	if p.LotBaseCapital.IsNegative() {
		return fmt.Errorf("%w: lot base capital must not be negative", fund.ErrInvalidPolicy)
	}
	if p.LotBaseLot.IsNegative() {
		return fmt.Errorf("%w: lot base lot must not be negative", fund.ErrInvalidPolicy)
	}
	if p.RiskPercent.IsNegative() || p.RiskPercent.GreaterThan(hundred) {
		return fmt.Errorf("%w: risk percent must be between 0 and 100", fund.ErrInvalidPolicy)
	}
	if p.BaseRiskPercent.IsNegative() || p.BaseRiskPercent.GreaterThan(hundred) {
		return fmt.Errorf("%w: base risk percent must be between 0 and 100", fund.ErrInvalidPolicy)
	}
	return nil
}
