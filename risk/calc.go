package risk

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ratio returns num/den, or zero when den is zero.
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// RiskAmount is the cash at risk per trade: active * riskPct / 100.
func RiskAmount(active, riskPct decimal.Decimal) decimal.Decimal {
	return active.Mul(riskPct).Div(hundred)
}
