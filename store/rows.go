package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rustyeddy/funds/fund"
	"github.com/rustyeddy/funds/journal"
	"github.com/shopspring/decimal"
)

type accountRow struct {
	ID                  string          `db:"id"`
	OwnerID             string          `db:"owner_id"`
	Mode                string          `db:"mode"`
	SubAccountName      string          `db:"sub_account_name"`
	ActiveFund          decimal.Decimal `db:"active_fund"`
	ReserveFund         decimal.Decimal `db:"reserve_fund"`
	ProfitFund          decimal.Decimal `db:"profit_fund"`
	TotalCapital        decimal.Decimal `db:"total_capital"`
	InitialCapital      decimal.Decimal `db:"initial_capital"`
	TargetReserveFund   decimal.Decimal `db:"target_reserve_fund"`
	ProfitSplitActive   int             `db:"profit_split_active"`
	ProfitSplitReserve  int             `db:"profit_split_reserve"`
	ProfitSplitProfit   int             `db:"profit_split_profit"`
	DepositSplitActive  int             `db:"deposit_split_active"`
	DepositSplitReserve int             `db:"deposit_split_reserve"`
	LotBaseCapital      decimal.Decimal `db:"lot_base_capital"`
	LotBaseLot          decimal.Decimal `db:"lot_base_lot"`
	RiskPercent         decimal.Decimal `db:"risk_percent"`
	BaseRiskPercent     decimal.Decimal `db:"base_risk_percent"`
	Version             int64           `db:"version"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

const accountColumns = `id, owner_id, mode, sub_account_name,
	active_fund, reserve_fund, profit_fund, total_capital, initial_capital, target_reserve_fund,
	profit_split_active, profit_split_reserve, profit_split_profit,
	deposit_split_active, deposit_split_reserve,
	lot_base_capital, lot_base_lot, risk_percent, base_risk_percent,
	version, created_at, updated_at`

func toAccountRow(a *fund.Account) accountRow {
	p := a.Policy
	return accountRow{
		ID:                  a.ID,
		OwnerID:             a.Key.Owner,
		Mode:                a.Key.Mode,
		SubAccountName:      a.Key.SubAccount,
		ActiveFund:          a.Active,
		ReserveFund:         a.Reserve,
		ProfitFund:          a.Profit,
		TotalCapital:        a.Total,
		InitialCapital:      a.InitialCapital,
		TargetReserveFund:   a.TargetReserve,
		ProfitSplitActive:   p.ProfitSplit.Active,
		ProfitSplitReserve:  p.ProfitSplit.Reserve,
		ProfitSplitProfit:   p.ProfitSplit.Profit,
		DepositSplitActive:  p.DepositSplit.Active,
		DepositSplitReserve: p.DepositSplit.Reserve,
		LotBaseCapital:      p.LotBaseCapital,
		LotBaseLot:          p.LotBaseLot,
		RiskPercent:         p.RiskPercent,
		BaseRiskPercent:     p.BaseRiskPercent,
		Version:             a.Version,
		CreatedAt:           a.CreatedAt.UTC(),
		UpdatedAt:           a.UpdatedAt.UTC(),
	}
}

func (r accountRow) account() fund.Account {
	return fund.Account{
		ID:             r.ID,
		Key:            fund.Key{Owner: r.OwnerID, Mode: r.Mode, SubAccount: r.SubAccountName},
		Active:         r.ActiveFund,
		Reserve:        r.ReserveFund,
		Profit:         r.ProfitFund,
		Total:          r.TotalCapital,
		InitialCapital: r.InitialCapital,
		TargetReserve:  r.TargetReserveFund,
		Policy: fund.Policy{
			ProfitSplit: fund.ProfitSplit{
				Active:  r.ProfitSplitActive,
				Reserve: r.ProfitSplitReserve,
				Profit:  r.ProfitSplitProfit,
			},
			DepositSplit: fund.DepositSplit{
				Active:  r.DepositSplitActive,
				Reserve: r.DepositSplitReserve,
			},
			LotBaseCapital:  r.LotBaseCapital,
			LotBaseLot:      r.LotBaseLot,
			RiskPercent:     r.RiskPercent,
			BaseRiskPercent: r.BaseRiskPercent,
		},
		Version:   r.Version,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type transactionRow struct {
	ID             string          `db:"id"`
	Seq            int64           `db:"seq"`
	OwnerID        string          `db:"owner_id"`
	Mode           string          `db:"mode"`
	SubAccountName string          `db:"sub_account_name"`
	Type           string          `db:"type"`
	FromFund       sql.NullString  `db:"from_fund"`
	ToFund         sql.NullString  `db:"to_fund"`
	Amount         decimal.Decimal `db:"amount"`
	BalanceBefore  decimal.Decimal `db:"balance_before"`
	BalanceAfter   decimal.Decimal `db:"balance_after"`
	Description    string          `db:"description"`
	CorrelationID  string          `db:"correlation_id"`
	CreatedAt      time.Time       `db:"created_at"`
}

const transactionColumns = `id, seq, owner_id, mode, sub_account_name, type, from_fund, to_fund,
	amount, balance_before, balance_after, description, correlation_id, created_at`

func nullKind(k *fund.Kind) sql.NullString {
	if k == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: k.String(), Valid: true}
}

func parseNullKind(s sql.NullString) (*fund.Kind, error) {
	if !s.Valid {
		return nil, nil
	}
	k, err := fund.ParseKind(s.String)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func toTransactionRow(r journal.TransactionRecord) transactionRow {
	return transactionRow{
		ID:             r.ID,
		Seq:            r.Seq,
		OwnerID:        r.Key.Owner,
		Mode:           r.Key.Mode,
		SubAccountName: r.Key.SubAccount,
		Type:           string(r.Type),
		FromFund:       nullKind(r.From),
		ToFund:         nullKind(r.To),
		Amount:         r.Amount,
		BalanceBefore:  r.BalanceBefore,
		BalanceAfter:   r.BalanceAfter,
		Description:    r.Description,
		CorrelationID:  r.CorrelationID,
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

func (r transactionRow) record() (journal.TransactionRecord, error) {
	from, err := parseNullKind(r.FromFund)
	if err != nil {
		return journal.TransactionRecord{}, fmt.Errorf("transaction %s from_fund: %w", r.ID, err)
	}
	to, err := parseNullKind(r.ToFund)
	if err != nil {
		return journal.TransactionRecord{}, fmt.Errorf("transaction %s to_fund: %w", r.ID, err)
	}
	return journal.TransactionRecord{
		ID:            r.ID,
		Seq:           r.Seq,
		Key:           fund.Key{Owner: r.OwnerID, Mode: r.Mode, SubAccount: r.SubAccountName},
		Type:          journal.TxType(r.Type),
		From:          from,
		To:            to,
		Amount:        r.Amount,
		BalanceBefore: r.BalanceBefore,
		BalanceAfter:  r.BalanceAfter,
		Description:   r.Description,
		CorrelationID: r.CorrelationID,
		CreatedAt:     r.CreatedAt.UTC(),
	}, nil
}

type tradeRow struct {
	ID             string          `db:"id"`
	Seq            int64           `db:"seq"`
	OwnerID        string          `db:"owner_id"`
	Mode           string          `db:"mode"`
	SubAccountName string          `db:"sub_account_name"`
	Kind           string          `db:"kind"`
	ProfitLoss     decimal.Decimal `db:"profit_loss"`
	StartBalance   decimal.Decimal `db:"start_balance"`
	EndBalance     decimal.Decimal `db:"end_balance"`
	Note           string          `db:"note"`
	CreatedAt      time.Time       `db:"created_at"`
}

const tradeColumns = `id, seq, owner_id, mode, sub_account_name, kind, profit_loss,
	start_balance, end_balance, note, created_at`

func toTradeRow(r journal.TradeRecord) tradeRow {
	return tradeRow{
		ID:             r.ID,
		Seq:            r.Seq,
		OwnerID:        r.Key.Owner,
		Mode:           r.Key.Mode,
		SubAccountName: r.Key.SubAccount,
		Kind:           string(r.Kind),
		ProfitLoss:     r.ProfitLoss,
		StartBalance:   r.StartBalance,
		EndBalance:     r.EndBalance,
		Note:           r.Note,
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

func (r tradeRow) record() journal.TradeRecord {
	return journal.TradeRecord{
		ID:           r.ID,
		Seq:          r.Seq,
		Key:          fund.Key{Owner: r.OwnerID, Mode: r.Mode, SubAccount: r.SubAccountName},
		Kind:         journal.TradeKind(r.Kind),
		ProfitLoss:   r.ProfitLoss,
		StartBalance: r.StartBalance,
		EndBalance:   r.EndBalance,
		Note:         r.Note,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}
