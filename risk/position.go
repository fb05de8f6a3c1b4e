package risk

// Lot sizing scales linearly with the Active fund:
//   recommended = active / lotBaseCapital * lotBaseLot
//   effective   = recommended * riskPercent / baseRiskPercent
// and the take-profit target scales with the effective lot.

import (
	"github.com/rustyeddy/funds/fund"
	"github.com/shopspring/decimal"
)

// DefaultBaseTakeProfit is the take-profit amount for one LotBaseLot.
var DefaultBaseTakeProfit = decimal.NewFromInt(100)

const (
	lotPlaces   = 2
	moneyPlaces = 2
)

type Inputs struct {
	Active         decimal.Decimal
	Policy         fund.Policy
	BaseTakeProfit decimal.Decimal // zero means DefaultBaseTakeProfit
}

type Advice struct {
	RecommendedLot decimal.Decimal
	EffectiveLot   decimal.Decimal
	RiskAmount     decimal.Decimal
	TakeProfit     decimal.Decimal
}

// Advise derives position sizing from the Active fund. Zero denominators
// (lot base capital, lot base lot, base risk) yield zero rather than failing.
func Advise(in Inputs) Advice {
	p := in.Policy
	baseTP := in.BaseTakeProfit
	if baseTP.IsZero() {
		baseTP = DefaultBaseTakeProfit
	}

	recommended := ratio(in.Active, p.LotBaseCapital).Mul(p.LotBaseLot)
	effective := recommended.Mul(ratio(p.RiskPercent, p.BaseRiskPercent))
	takeProfit := ratio(effective, p.LotBaseLot).Mul(baseTP)

	return Advice{
		RecommendedLot: recommended.Round(lotPlaces),
		EffectiveLot:   effective.Round(lotPlaces),
		RiskAmount:     RiskAmount(in.Active, p.RiskPercent).Round(moneyPlaces),
		TakeProfit:     takeProfit.Round(moneyPlaces),
	}
}
