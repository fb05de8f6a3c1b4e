package risk

import (
	"fmt"

	"github.com/rustyeddy/funds/fund"
	"github.com/shopspring/decimal"
)

// Warning codes. Warnings are informational; they never block an operation.
const (
	WarnLossClamped     = "LOSS_CLAMPED"
	WarnActiveShortfall = "ACTIVE_SHORTFALL"
)

type Warning struct {
	Code string
	Msg  string
}

func (w Warning) String() string { return w.Code + ": " + w.Msg }

// LossClamped reports a loss that exceeded Reserve plus Active; the excess
// was not charged to any fund.
func LossClamped(excess decimal.Decimal) Warning {
	return Warning{
		Code: WarnLossClamped,
		Msg:  fmt.Sprintf("loss exceeded active and reserve by %s; active clamped at 0", excess.StringFixed(2)),
	}
}

// ExpectedActive is the Active balance the deposit policy implies for the
// account's initial capital.
func ExpectedActive(a fund.Account) decimal.Decimal {
	return a.InitialCapital.Mul(decimal.NewFromInt(int64(a.Policy.DepositSplit.Active))).Div(hundred)
}

// CheckShortfall flags an Active fund below its expected level when Reserve
// is too small to refill it.
func CheckShortfall(a fund.Account) []Warning {
	expected := ExpectedActive(a)
	if !a.Active.LessThan(expected) {
		return nil
	}
	gap := expected.Sub(a.Active)
	if !a.Reserve.LessThan(gap) {
		return nil
	}
	return []Warning{{
		Code: WarnActiveShortfall,
		Msg: fmt.Sprintf("active %s is %s below expected %s and reserve %s cannot cover it",
			a.Active.StringFixed(2), gap.StringFixed(2), expected.StringFixed(2), a.Reserve.StringFixed(2)),
	}}
}
