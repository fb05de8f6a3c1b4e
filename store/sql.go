package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/funds/fund"
	"github.com/rustyeddy/funds/journal"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQL is a Store backed by SQLite or PostgreSQL.
type SQL struct {
	db     *sqlx.DB
	txOpts *sql.TxOptions
}

// Open connects to the database and creates the schema if needed. SQLite
// databases use one connection, so writers are serialized in-process, and a
// busy timeout with immediate transactions for other processes.
func Open(ctx context.Context, driver, dsn string) (*SQL, error) {
	switch driver {
	case DriverSQLite:
		db, err := sqlx.ConnectContext(ctx, "sqlite3", sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("%w: can't open sqlite", err)
		}
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, schemaSQLite); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: can't create schema", err)
		}
		return &SQL{db: db}, nil

	case DriverPostgres:
		db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("%w: can't connect to postgres", err)
		}
		if _, err := db.ExecContext(ctx, schemaPostgres); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: can't create schema", err)
		}
		return &SQL{db: db, txOpts: &sql.TxOptions{Isolation: sql.LevelReadCommitted}}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}

func sqliteDSN(dsn string) string {
	var params []string
	if !strings.Contains(dsn, "_busy_timeout") {
		params = append(params, "_busy_timeout=5000")
	}
	if !strings.Contains(dsn, "_txlock") {
		params = append(params, "_txlock=immediate")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

func (s *SQL) Close() error {
	return s.db.Close()
}

func (s *SQL) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, s.txOpts)
	if err != nil {
		return mapErr(err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, &sqlTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapErr(err)
	}
	return nil
}

type sqlTx struct {
	tx *sqlx.Tx
}

const (
	_queryAccountByID  = "SELECT " + accountColumns + " FROM fund_account WHERE id = ?"
	_queryAccountByKey = "SELECT " + accountColumns + " FROM fund_account WHERE owner_id = ? AND mode = ? AND sub_account_name = ?"
	_queryAccounts     = "SELECT " + accountColumns + " FROM fund_account WHERE owner_id = ? ORDER BY mode, sub_account_name"

	_insertAccount = `INSERT INTO fund_account (` + accountColumns + `) VALUES (
		:id, :owner_id, :mode, :sub_account_name,
		:active_fund, :reserve_fund, :profit_fund, :total_capital, :initial_capital, :target_reserve_fund,
		:profit_split_active, :profit_split_reserve, :profit_split_profit,
		:deposit_split_active, :deposit_split_reserve,
		:lot_base_capital, :lot_base_lot, :risk_percent, :base_risk_percent,
		:version, :created_at, :updated_at)`

	_updateAccount = `UPDATE fund_account SET
		active_fund = ?, reserve_fund = ?, profit_fund = ?, total_capital = ?,
		initial_capital = ?, target_reserve_fund = ?,
		profit_split_active = ?, profit_split_reserve = ?, profit_split_profit = ?,
		deposit_split_active = ?, deposit_split_reserve = ?,
		lot_base_capital = ?, lot_base_lot = ?, risk_percent = ?, base_risk_percent = ?,
		version = ?, updated_at = ?
		WHERE id = ? AND version = ?`

	_deleteAccount      = "DELETE FROM fund_account WHERE id = ? AND version = ?"
	_deleteTransactions = "DELETE FROM transaction_record WHERE owner_id = ? AND mode = ? AND sub_account_name = ?"
	_deleteTrades       = "DELETE FROM trade_record WHERE owner_id = ? AND mode = ? AND sub_account_name = ?"

	_insertTransaction = `INSERT INTO transaction_record (` + transactionColumns + `) VALUES (
		:id, :seq, :owner_id, :mode, :sub_account_name, :type, :from_fund, :to_fund,
		:amount, :balance_before, :balance_after, :description, :correlation_id, :created_at)`
	_insertTrade = `INSERT INTO trade_record (` + tradeColumns + `) VALUES (
		:id, :seq, :owner_id, :mode, :sub_account_name, :kind, :profit_loss,
		:start_balance, :end_balance, :note, :created_at)`

	_queryTransactions = "SELECT " + transactionColumns + " FROM transaction_record WHERE owner_id = ? AND mode = ? AND sub_account_name = ? ORDER BY seq DESC, id DESC"
	_queryTrades       = "SELECT " + tradeColumns + " FROM trade_record WHERE owner_id = ? AND mode = ? AND sub_account_name = ? ORDER BY seq DESC, id DESC"
)

func (t *sqlTx) getAccount(ctx context.Context, what, query string, args ...any) (fund.Account, error) {
	var row accountRow
	if err := t.tx.GetContext(ctx, &row, t.tx.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fund.Account{}, fmt.Errorf("account %s: %w", what, fund.ErrNotFound)
		}
		return fund.Account{}, mapErr(err)
	}
	return row.account(), nil
}

func (t *sqlTx) GetAccount(ctx context.Context, id string) (fund.Account, error) {
	return t.getAccount(ctx, id, _queryAccountByID, id)
}

func (t *sqlTx) FindAccount(ctx context.Context, key fund.Key) (fund.Account, error) {
	return t.getAccount(ctx, key.String(), _queryAccountByKey, key.Owner, key.Mode, key.SubAccount)
}

func (t *sqlTx) ListAccounts(ctx context.Context, owner string) ([]fund.Account, error) {
	var rows []accountRow
	if err := t.tx.SelectContext(ctx, &rows, t.tx.Rebind(_queryAccounts), owner); err != nil {
		return nil, mapErr(err)
	}
	out := make([]fund.Account, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.account())
	}
	return out, nil
}

func (t *sqlTx) CreateAccount(ctx context.Context, a *fund.Account) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = a.CreatedAt
	a.Version = 1
	if _, err := t.tx.NamedExecContext(ctx, _insertAccount, toAccountRow(a)); err != nil {
		return fmt.Errorf("create account %s: %w", a.Key, mapErr(err))
	}
	return nil
}

func (t *sqlTx) UpdateAccount(ctx context.Context, a *fund.Account) error {
	next := a.Version + 1
	now := time.Now().UTC()
	p := a.Policy
	res, err := t.tx.ExecContext(ctx, t.tx.Rebind(_updateAccount),
		a.Active, a.Reserve, a.Profit, a.Total,
		a.InitialCapital, a.TargetReserve,
		p.ProfitSplit.Active, p.ProfitSplit.Reserve, p.ProfitSplit.Profit,
		p.DepositSplit.Active, p.DepositSplit.Reserve,
		p.LotBaseCapital, p.LotBaseLot, p.RiskPercent, p.BaseRiskPercent,
		next, now,
		a.ID, a.Version,
	)
	if err != nil {
		return fmt.Errorf("update account %s: %w", a.Key, mapErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return fmt.Errorf("update account %s at version %d: %w", a.Key, a.Version, ErrVersionMismatch)
	}
	a.Version = next
	a.UpdatedAt = now
	return nil
}

func (t *sqlTx) DeleteAccount(ctx context.Context, a fund.Account) error {
	k := a.Key
	if _, err := t.tx.ExecContext(ctx, t.tx.Rebind(_deleteTransactions), k.Owner, k.Mode, k.SubAccount); err != nil {
		return fmt.Errorf("purge transactions %s: %w", k, mapErr(err))
	}
	if _, err := t.tx.ExecContext(ctx, t.tx.Rebind(_deleteTrades), k.Owner, k.Mode, k.SubAccount); err != nil {
		return fmt.Errorf("purge trades %s: %w", k, mapErr(err))
	}
	res, err := t.tx.ExecContext(ctx, t.tx.Rebind(_deleteAccount), a.ID, a.Version)
	if err != nil {
		return fmt.Errorf("delete account %s: %w", k, mapErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return fmt.Errorf("delete account %s at version %d: %w", k, a.Version, ErrVersionMismatch)
	}
	return nil
}

func (t *sqlTx) RecordTransaction(ctx context.Context, r journal.TransactionRecord) error {
	if _, err := t.tx.NamedExecContext(ctx, _insertTransaction, toTransactionRow(r)); err != nil {
		return fmt.Errorf("record %s: %w", r.Type, mapErr(err))
	}
	return nil
}

func (t *sqlTx) RecordTrade(ctx context.Context, r journal.TradeRecord) error {
	if _, err := t.tx.NamedExecContext(ctx, _insertTrade, toTradeRow(r)); err != nil {
		return fmt.Errorf("record trade %s: %w", r.Kind, mapErr(err))
	}
	return nil
}

func withLimit(query string, limit int) string {
	if limit <= 0 {
		return query
	}
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}

func (t *sqlTx) ListTransactions(ctx context.Context, key fund.Key, limit int) ([]journal.TransactionRecord, error) {
	var rows []transactionRow
	q := t.tx.Rebind(withLimit(_queryTransactions, limit))
	if err := t.tx.SelectContext(ctx, &rows, q, key.Owner, key.Mode, key.SubAccount); err != nil {
		return nil, mapErr(err)
	}
	out := make([]journal.TransactionRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (t *sqlTx) ListTrades(ctx context.Context, key fund.Key, limit int) ([]journal.TradeRecord, error) {
	var rows []tradeRow
	q := t.tx.Rebind(withLimit(_queryTrades, limit))
	if err := t.tx.SelectContext(ctx, &rows, q, key.Owner, key.Mode, key.SubAccount); err != nil {
		return nil, mapErr(err)
	}
	out := make([]journal.TradeRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}
