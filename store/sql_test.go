package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/funds/fund"
	"github.com/rustyeddy/funds/journal"
	"github.com/rustyeddy/funds/pkg/id"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *SQL {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "funds.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testAccount(key fund.Key) *fund.Account {
	a := &fund.Account{
		ID:             "acct-" + key.String(),
		Key:            key,
		Active:         d("400.00"),
		Reserve:        d("600.00"),
		Profit:         decimal.Zero,
		InitialCapital: d("1000.00"),
		TargetReserve:  d("600.00"),
		Policy: fund.Policy{
			ProfitSplit:     fund.ProfitSplit{Active: 50, Reserve: 25, Profit: 25},
			DepositSplit:    fund.DepositSplit{Active: 40, Reserve: 60},
			LotBaseCapital:  d("10000"),
			LotBaseLot:      d("0.1"),
			RiskPercent:     d("2"),
			BaseRiskPercent: d("2"),
		},
	}
	a.Recompute()
	return a
}

var mainKey = fund.Key{Owner: "u1", Mode: "live"}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x")
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "f.db?_busy_timeout=5000&_txlock=immediate", sqliteDSN("f.db"))
	assert.Equal(t, "f.db?cache=shared&_busy_timeout=5000&_txlock=immediate", sqliteDSN("f.db?cache=shared"))
	assert.Equal(t, "f.db?_busy_timeout=1&_txlock=deferred", sqliteDSN("f.db?_busy_timeout=1&_txlock=deferred"))
}

func TestCreateAndFind(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	a := testAccount(mainKey)
	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.CreateAccount(ctx, a)
	}))
	assert.Equal(t, int64(1), a.Version)

	var got fund.Account
	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		got, err = tx.FindAccount(ctx, mainKey)
		return err
	}))
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, mainKey, got.Key)
	assert.True(t, got.Active.Equal(d("400")))
	assert.True(t, got.Total.Equal(d("1000")))
	assert.Equal(t, a.Policy.ProfitSplit, got.Policy.ProfitSplit)
	assert.True(t, got.Policy.LotBaseLot.Equal(d("0.1")))
	assert.NoError(t, got.Check())

	byID := fund.Account{}
	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		byID, err = tx.GetAccount(ctx, a.ID)
		return err
	}))
	assert.Equal(t, got.Key, byID.Key)
}

func TestFindMissing(t *testing.T) {
	s := openTest(t)
	err := s.WithTx(context.Background(), func(ctx context.Context, tx Tx) error {
		_, err := tx.FindAccount(ctx, mainKey)
		return err
	})
	assert.ErrorIs(t, err, fund.ErrNotFound)
}

func TestCreateDuplicateKey(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.CreateAccount(ctx, testAccount(mainKey))
	}))

	dup := testAccount(mainKey)
	dup.ID = "other-id"
	err := s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.CreateAccount(ctx, dup)
	})
	assert.ErrorIs(t, err, fund.ErrConflict)
	assert.NotErrorIs(t, err, fund.ErrRetryable)
}

func TestSubAccountsAreDistinct(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	sub := fund.Key{Owner: "u1", Mode: "live", SubAccount: "scalp"}
	demo := fund.Key{Owner: "u1", Mode: "demo"}

	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		for _, k := range []fund.Key{mainKey, sub, demo} {
			if err := tx.CreateAccount(ctx, testAccount(k)); err != nil {
				return err
			}
		}
		return nil
	}))

	var list []fund.Account
	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		list, err = tx.ListAccounts(ctx, "u1")
		return err
	}))
	require.Len(t, list, 3)
	assert.Equal(t, demo, list[0].Key)
	assert.Equal(t, mainKey, list[1].Key)
	assert.Equal(t, sub, list[2].Key)
}

func TestUpdateCompareAndSwap(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	a := testAccount(mainKey)
	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.CreateAccount(ctx, a)
	}))

	stale := *a
	a.Credit(fund.Active, d("10"))
	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.UpdateAccount(ctx, a)
	}))
	assert.Equal(t, int64(2), a.Version)

	stale.Credit(fund.Reserve, d("5"))
	err := s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.UpdateAccount(ctx, &stale)
	})
	assert.ErrorIs(t, err, ErrVersionMismatch)
	assert.ErrorIs(t, err, fund.ErrConflict)
	assert.ErrorIs(t, err, fund.ErrRetryable)
	assert.Equal(t, int64(1), stale.Version)

	var got fund.Account
	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		got, err = tx.FindAccount(ctx, mainKey)
		return err
	}))
	assert.True(t, got.Active.Equal(d("410")))
	assert.True(t, got.Reserve.Equal(d("600")))
	assert.Equal(t, int64(2), got.Version)
}

func TestWithTxBusyIsRetryable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "funds.sqlite")
	a, err := Open(ctx, DriverSQLite, path)
	require.NoError(t, err)
	defer a.Close()
	b, err := Open(ctx, DriverSQLite, path+"?_busy_timeout=1")
	require.NoError(t, err)
	defer b.Close()

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- a.WithTx(ctx, func(ctx context.Context, tx Tx) error {
			close(held)
			<-release
			return tx.CreateAccount(ctx, testAccount(mainKey))
		})
	}()
	<-held

	// a holds the write lock from BEGIN IMMEDIATE, so b can't start
	err = b.WithTx(ctx, func(ctx context.Context, tx Tx) error { return nil })
	assert.ErrorIs(t, err, fund.ErrRetryable)

	close(release)
	require.NoError(t, <-done)

	var found fund.Account
	require.NoError(t, b.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		found, err = tx.FindAccount(ctx, mainKey)
		return err
	}))
	assert.Equal(t, int64(1), found.Version)
}

func TestRollbackOnError(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.CreateAccount(ctx, testAccount(mainKey)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		_, err := tx.FindAccount(ctx, mainKey)
		return err
	})
	assert.ErrorIs(t, err, fund.ErrNotFound)
}

func TestRecordsNewestFirst(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.CreateAccount(ctx, testAccount(mainKey)); err != nil {
			return err
		}
		for i, amt := range []string{"1", "2", "3"} {
			err := tx.RecordTransaction(ctx, journal.TransactionRecord{
				ID:            id.New(),
				Key:           mainKey,
				Type:          journal.TxTransfer,
				From:          journal.KindPtr(fund.Reserve),
				To:            journal.KindPtr(fund.Active),
				Amount:        d(amt),
				BalanceBefore: d("1000"),
				BalanceAfter:  d("1000"),
				CreatedAt:     at.Add(time.Duration(i) * time.Second),
			})
			if err != nil {
				return err
			}
		}
		return tx.RecordTrade(ctx, journal.TradeRecord{
			ID:           id.New(),
			Key:          mainKey,
			Kind:         journal.TradeInitialize,
			ProfitLoss:   decimal.Zero,
			StartBalance: decimal.Zero,
			EndBalance:   d("1000"),
			Note:         "initial capital",
			CreatedAt:    at,
		})
	}))

	var txs []journal.TransactionRecord
	var trades []journal.TradeRecord
	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		if txs, err = tx.ListTransactions(ctx, mainKey, 0); err != nil {
			return err
		}
		trades, err = tx.ListTrades(ctx, mainKey, 10)
		return err
	}))
	require.Len(t, txs, 3)
	assert.True(t, txs[0].Amount.Equal(d("3")))
	assert.True(t, txs[2].Amount.Equal(d("1")))
	require.NotNil(t, txs[0].From)
	assert.Equal(t, fund.Reserve, *txs[0].From)
	assert.Equal(t, fund.Active, *txs[0].To)
	require.Len(t, trades, 1)
	assert.Equal(t, journal.TradeInitialize, trades[0].Kind)
	assert.True(t, trades[0].EndBalance.Equal(d("1000")))

	var limited []journal.TransactionRecord
	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		limited, err = tx.ListTransactions(ctx, mainKey, 2)
		return err
	}))
	require.Len(t, limited, 2)
	assert.True(t, limited[1].Amount.Equal(d("2")))
}

func TestRecordsOrderedBySeq(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// ids run backwards against the write order, as when a second writer's
	// clock lags the first.
	ids := []string{id.New(), id.New(), id.New(), id.New()}
	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.CreateAccount(ctx, testAccount(mainKey)); err != nil {
			return err
		}
		if err := tx.RecordTrade(ctx, journal.TradeRecord{
			ID: ids[3], Seq: 1, Key: mainKey, Kind: journal.TradeInitialize,
			ProfitLoss: decimal.Zero, StartBalance: decimal.Zero, EndBalance: d("1000"), CreatedAt: at,
		}); err != nil {
			return err
		}
		if err := tx.RecordTransaction(ctx, journal.TransactionRecord{
			ID: ids[2], Seq: 2, Key: mainKey, Type: journal.TxDeposit, To: journal.KindPtr(fund.Active),
			Amount: d("500"), BalanceBefore: d("1000"), BalanceAfter: d("1500"), CreatedAt: at,
		}); err != nil {
			return err
		}
		if err := tx.RecordTrade(ctx, journal.TradeRecord{
			ID: ids[1], Seq: 3, Key: mainKey, Kind: journal.TradeLoss,
			ProfitLoss: d("-300"), StartBalance: d("1500"), EndBalance: d("1200"), CreatedAt: at,
		}); err != nil {
			return err
		}
		return tx.RecordTransaction(ctx, journal.TransactionRecord{
			ID: ids[0], Seq: 4, Key: mainKey, Type: journal.TxWithdraw, From: journal.KindPtr(fund.Reserve),
			Amount: d("100"), BalanceBefore: d("1200"), BalanceAfter: d("1100"), CreatedAt: at,
		})
	}))

	var txs []journal.TransactionRecord
	var trades []journal.TradeRecord
	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		if txs, err = tx.ListTransactions(ctx, mainKey, 0); err != nil {
			return err
		}
		trades, err = tx.ListTrades(ctx, mainKey, 0)
		return err
	}))
	require.Len(t, txs, 2)
	assert.Equal(t, int64(4), txs[0].Seq)
	assert.Equal(t, journal.TxWithdraw, txs[0].Type)
	assert.Equal(t, int64(2), txs[1].Seq)
	require.Len(t, trades, 2)
	assert.Equal(t, journal.TradeLoss, trades[0].Kind)
	assert.Equal(t, int64(1), trades[1].Seq)

	assert.NoError(t, journal.Replay(trades, txs, d("1100")))
}

func TestDeleteAccountPurgesRecords(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	a := testAccount(mainKey)

	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.CreateAccount(ctx, a); err != nil {
			return err
		}
		return tx.RecordTransaction(ctx, journal.TransactionRecord{
			ID: id.New(), Key: mainKey, Type: journal.TxDeposit,
			To: journal.KindPtr(fund.Active), Amount: d("1"),
			BalanceBefore: d("999"), BalanceAfter: d("1000"), CreatedAt: time.Now(),
		})
	}))

	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.DeleteAccount(ctx, *a)
	}))

	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		_, err := tx.FindAccount(ctx, mainKey)
		assert.ErrorIs(t, err, fund.ErrNotFound)
		txs, err := tx.ListTransactions(ctx, mainKey, 0)
		assert.Empty(t, txs)
		return err
	}))
}

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(context.DeadlineExceeded), fund.ErrRetryable)
	assert.ErrorIs(t, mapErr(sqlite3.Error{Code: sqlite3.ErrBusy}), fund.ErrRetryable)
	assert.ErrorIs(t, mapErr(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}), fund.ErrConflict)
	assert.ErrorIs(t, mapErr(&pq.Error{Code: "40001"}), fund.ErrRetryable)
	assert.ErrorIs(t, mapErr(&pq.Error{Code: "23505"}), fund.ErrConflict)

	plain := errors.New("plain")
	assert.Equal(t, plain, mapErr(plain))
}
