package store

// Amounts are TEXT in SQLite so decimals round-trip exactly; SQLite would
// coerce NUMERIC columns to REAL.
const schemaSQLite = `
CREATE TABLE IF NOT EXISTS fund_account (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	mode TEXT NOT NULL,
	sub_account_name TEXT NOT NULL DEFAULT '',
	active_fund TEXT NOT NULL,
	reserve_fund TEXT NOT NULL,
	profit_fund TEXT NOT NULL,
	total_capital TEXT NOT NULL,
	initial_capital TEXT NOT NULL,
	target_reserve_fund TEXT NOT NULL,
	profit_split_active INTEGER NOT NULL,
	profit_split_reserve INTEGER NOT NULL,
	profit_split_profit INTEGER NOT NULL,
	deposit_split_active INTEGER NOT NULL,
	deposit_split_reserve INTEGER NOT NULL,
	lot_base_capital TEXT NOT NULL,
	lot_base_lot TEXT NOT NULL,
	risk_percent TEXT NOT NULL,
	base_risk_percent TEXT NOT NULL,
	version INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	CHECK (profit_split_active + profit_split_reserve + profit_split_profit = 100),
	CHECK (deposit_split_active + deposit_split_reserve = 100)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_fund_account_key ON fund_account(owner_id, mode, sub_account_name);

CREATE TABLE IF NOT EXISTS transaction_record (
	id TEXT PRIMARY KEY,
	seq BIGINT NOT NULL DEFAULT 0,
	owner_id TEXT NOT NULL,
	mode TEXT NOT NULL,
	sub_account_name TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL,
	from_fund TEXT,
	to_fund TEXT,
	amount TEXT NOT NULL,
	balance_before TEXT NOT NULL,
	balance_after TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	correlation_id TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transaction_record_key ON transaction_record(owner_id, mode, sub_account_name, seq, id);
CREATE INDEX IF NOT EXISTS idx_transaction_record_corr ON transaction_record(correlation_id);

CREATE TABLE IF NOT EXISTS trade_record (
	id TEXT PRIMARY KEY,
	seq BIGINT NOT NULL DEFAULT 0,
	owner_id TEXT NOT NULL,
	mode TEXT NOT NULL,
	sub_account_name TEXT NOT NULL DEFAULT '',
	kind TEXT NOT NULL,
	profit_loss TEXT NOT NULL,
	start_balance TEXT NOT NULL,
	end_balance TEXT NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trade_record_key ON trade_record(owner_id, mode, sub_account_name, seq, id);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS fund_account (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	mode TEXT NOT NULL,
	sub_account_name TEXT NOT NULL DEFAULT '',
	active_fund NUMERIC NOT NULL,
	reserve_fund NUMERIC NOT NULL,
	profit_fund NUMERIC NOT NULL,
	total_capital NUMERIC NOT NULL,
	initial_capital NUMERIC NOT NULL,
	target_reserve_fund NUMERIC NOT NULL,
	profit_split_active INTEGER NOT NULL,
	profit_split_reserve INTEGER NOT NULL,
	profit_split_profit INTEGER NOT NULL,
	deposit_split_active INTEGER NOT NULL,
	deposit_split_reserve INTEGER NOT NULL,
	lot_base_capital NUMERIC NOT NULL,
	lot_base_lot NUMERIC NOT NULL,
	risk_percent NUMERIC NOT NULL,
	base_risk_percent NUMERIC NOT NULL,
	version BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	CHECK (active_fund >= 0 AND reserve_fund >= 0 AND profit_fund >= 0),
	CHECK (profit_split_active + profit_split_reserve + profit_split_profit = 100),
	CHECK (deposit_split_active + deposit_split_reserve = 100)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_fund_account_key ON fund_account(owner_id, mode, sub_account_name);

CREATE TABLE IF NOT EXISTS transaction_record (
	id TEXT PRIMARY KEY,
	seq BIGINT NOT NULL DEFAULT 0,
	owner_id TEXT NOT NULL,
	mode TEXT NOT NULL,
	sub_account_name TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL,
	from_fund TEXT,
	to_fund TEXT,
	amount NUMERIC NOT NULL,
	balance_before NUMERIC NOT NULL,
	balance_after NUMERIC NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	correlation_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transaction_record_key ON transaction_record(owner_id, mode, sub_account_name, seq, id);
CREATE INDEX IF NOT EXISTS idx_transaction_record_corr ON transaction_record(correlation_id);

CREATE TABLE IF NOT EXISTS trade_record (
	id TEXT PRIMARY KEY,
	seq BIGINT NOT NULL DEFAULT 0,
	owner_id TEXT NOT NULL,
	mode TEXT NOT NULL,
	sub_account_name TEXT NOT NULL DEFAULT '',
	kind TEXT NOT NULL,
	profit_loss NUMERIC NOT NULL,
	start_balance NUMERIC NOT NULL,
	end_balance NUMERIC NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trade_record_key ON trade_record(owner_id, mode, sub_account_name, seq, id);
`
