package allocation

import (
	"errors"
	"testing"

	"github.com/rustyeddy/funds/fund"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSplitDeposit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		amount      string
		split       fund.DepositSplit
		wantActive  string
		wantReserve string
	}{
		{"even thousand", "1000", fund.DepositSplit{Active: 40, Reserve: 60}, "400", "600"},
		{"333 at 40/60", "333", fund.DepositSplit{Active: 40, Reserve: 60}, "133.2", "199.8"},
		{"remainder to reserve", "333.33", fund.DepositSplit{Active: 40, Reserve: 60}, "133.33", "200"},
		{"cent remainder", "0.05", fund.DepositSplit{Active: 50, Reserve: 50}, "0.02", "0.03"},
		{"all active", "250", fund.DepositSplit{Active: 100, Reserve: 0}, "250", "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SplitDeposit(d(tt.amount), tt.split)
			assert.True(t, d(tt.wantActive).Equal(got.ToActive), "active %s", got.ToActive)
			assert.True(t, d(tt.wantReserve).Equal(got.ToReserve), "reserve %s", got.ToReserve)
			assert.True(t, d(tt.amount).Equal(got.ToActive.Add(got.ToReserve)))
		})
	}
}

func TestSplitProfit(t *testing.T) {
	t.Parallel()

	split := fund.ProfitSplit{Active: 50, Reserve: 25, Profit: 25}

	got := SplitProfit(d("1000"), split)
	assert.True(t, d("500").Equal(got.ToActive))
	assert.True(t, d("250").Equal(got.ToReserve))
	assert.True(t, d("250").Equal(got.ToProfit))

	odd := SplitProfit(d("0.07"), fund.ProfitSplit{Active: 34, Reserve: 33, Profit: 33})
	assert.True(t, d("0.02").Equal(odd.ToActive))
	assert.True(t, d("0.02").Equal(odd.ToReserve))
	assert.True(t, d("0.03").Equal(odd.ToProfit), "profit absorbs remainder, got %s", odd.ToProfit)
	assert.True(t, d("0.07").Equal(odd.ToActive.Add(odd.ToReserve).Add(odd.ToProfit)))
}

func TestApplyLoss(t *testing.T) {
	t.Parallel()

	got := ApplyLoss(d("3000"), d("4000"))
	assert.True(t, d("3000").Equal(got.FromReserve))
	assert.True(t, got.FromActive.IsZero())

	got = ApplyLoss(d("2000"), d("500"))
	assert.True(t, d("500").Equal(got.FromReserve))
	assert.True(t, d("1500").Equal(got.FromActive))

	got = ApplyLoss(d("10"), decimal.Zero)
	assert.True(t, got.FromReserve.IsZero())
	assert.True(t, d("10").Equal(got.FromActive))
}

func TestValidatePolicy(t *testing.T) {
	t.Parallel()

	valid := fund.Policy{
		ProfitSplit:     fund.ProfitSplit{Active: 50, Reserve: 25, Profit: 25},
		DepositSplit:    fund.DepositSplit{Active: 40, Reserve: 60},
		LotBaseCapital:  d("10000"),
		LotBaseLot:      d("0.1"),
		RiskPercent:     d("2"),
		BaseRiskPercent: d("2"),
	}

	tests := []struct {
		name    string
		mutate  func(p *fund.Policy)
		wantErr bool
	}{
		{"valid", func(p *fund.Policy) {}, false},
		{"profit split 99", func(p *fund.Policy) { p.ProfitSplit.Profit = 24 }, true},
		{"profit split negative", func(p *fund.Policy) { p.ProfitSplit = fund.ProfitSplit{Active: 110, Reserve: -10} }, true},
		{"deposit split 101", func(p *fund.Policy) { p.DepositSplit.Reserve = 61 }, true},
		{"negative lot base", func(p *fund.Policy) { p.LotBaseCapital = d("-1") }, true},
		{"risk over 100", func(p *fund.Policy) { p.RiskPercent = d("101") }, true},
		{"zero lot base allowed", func(p *fund.Policy) { p.LotBaseCapital = decimal.Zero }, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := valid
			tt.mutate(&p)
			err := ValidatePolicy(p)
			if tt.wantErr {
				assert.True(t, errors.Is(err, fund.ErrInvalidPolicy), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
