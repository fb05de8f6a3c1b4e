package journal

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/rustyeddy/funds/fund"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTransactionsCSV(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var buf bytes.Buffer
	err := WriteTransactionsCSV(&buf, []TransactionRecord{{
		ID:            "T1",
		Key:           testKey,
		Type:          TxTransfer,
		From:          KindPtr(fund.Reserve),
		To:            KindPtr(fund.Active),
		Amount:        d("12.5"),
		BalanceBefore: d("1000"),
		BalanceAfter:  d("1000"),
		CreatedAt:     ts,
		Description:   "top up",
	}})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, transactionHeader, rows[0])
	assert.Equal(t, []string{
		"T1", "u1/live", "transfer", "reserve", "active",
		"12.50", "1000.00", "1000.00", "", ts.Format(time.RFC3339), "top up",
	}, rows[1])
}

func TestWriteTradesCSV(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	var buf bytes.Buffer
	err := WriteTradesCSV(&buf, []TradeRecord{{
		ID:           "R1",
		Key:          testKey,
		Kind:         TradeProfit,
		ProfitLoss:   d("1000"),
		StartBalance: d("10000"),
		EndBalance:   d("11000"),
		CreatedAt:    ts,
		Note:         "breakout",
	}})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, tradeHeader, rows[0])
	assert.Equal(t, []string{"R1", "u1/live", "profit", "1000.00", "10000.00", "11000.00", ts.Format(time.RFC3339), "breakout"}, rows[1])
}

func TestWriteCSVEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, nil))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
