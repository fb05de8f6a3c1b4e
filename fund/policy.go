package fund

import "github.com/shopspring/decimal"

// ProfitSplit is the percentage of a realized profit credited to each fund.
type ProfitSplit struct {
	Active  int `json:"active" yaml:"active"`
	Reserve int `json:"reserve" yaml:"reserve"`
	Profit  int `json:"profit" yaml:"profit"`
}

func (s ProfitSplit) Sum() int { return s.Active + s.Reserve + s.Profit }

// DepositSplit is the percentage of a deposit credited to Active and Reserve.
type DepositSplit struct {
	Active  int `json:"active" yaml:"active"`
	Reserve int `json:"reserve" yaml:"reserve"`
}

func (s DepositSplit) Sum() int { return s.Active + s.Reserve }

// Policy is the per-account allocation and sizing configuration. It is
// persisted with the account row.
type Policy struct {
	ProfitSplit  ProfitSplit  `json:"profit_split" yaml:"profit_split"`
	DepositSplit DepositSplit `json:"deposit_split" yaml:"deposit_split"`

	// LotBaseCapital of Active fund corresponds to LotBaseLot lots.
	LotBaseCapital decimal.Decimal `json:"lot_base_capital" yaml:"lot_base_capital"`
	LotBaseLot     decimal.Decimal `json:"lot_base_lot" yaml:"lot_base_lot"`

	// RiskPercent is the current per-trade risk (2 means 2%).
	RiskPercent decimal.Decimal `json:"risk_percent" yaml:"risk_percent"`
	// BaseRiskPercent is the risk the lot base was calibrated for.
	BaseRiskPercent decimal.Decimal `json:"base_risk_percent" yaml:"base_risk_percent"`
}
