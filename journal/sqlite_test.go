package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/broker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','equity')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["equity"])
}

func TestSQLiteRoundTripsTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	rec := testRecord("T1", "NVDA", "150", "126.3333333333333333")
	rec.Action = broker.Sell
	rec.Source = broker.Bot
	rec.RealizedPL = decimal.RequireFromString("-12.34")

	require.NoError(t, j.RecordTrade(rec))

	got, err := j.GetTrade("T1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, account.Paper, got.Account)
	assert.Equal(t, broker.Sell, got.Action)
	assert.Equal(t, broker.Filled, got.Status)
	assert.Equal(t, broker.Bot, got.Source)
	assert.True(t, rec.Quantity.Equal(got.Quantity))
	assert.True(t, rec.Price.Equal(got.Price), "decimals are stored exactly")
	assert.True(t, rec.Total.Equal(got.Total))
	assert.True(t, rec.RealizedPL.Equal(got.RealizedPL))
	assert.True(t, rec.Time.Equal(got.Time))
}

func TestSQLiteGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	_, err := j.GetTrade("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteListTradesInsertionOrder(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	// Later timestamps first: order must follow insertion, not time.
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"A", "B", "C"} {
		rec := testRecord(id, "AAPL", "1", "210.15")
		rec.Time = base.Add(-time.Duration(i) * time.Minute)
		require.NoError(t, j.RecordTrade(rec))
	}

	all, err := j.ListTrades()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].ID)
	assert.Equal(t, "C", all[2].ID)

	between, err := j.ListTradesBetween(base.Add(-90*time.Second), base.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.Equal(t, "A", between[0].ID)
	assert.Equal(t, "B", between[1].ID)
}

func TestSQLiteDuplicateTradeRejected(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	rec := testRecord("DUP", "AAPL", "1", "1")
	require.NoError(t, j.RecordTrade(rec))
	assert.Error(t, j.RecordTrade(rec))
}

func TestSQLiteEquity(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	snaps := []EquitySnapshot{
		{Time: ts, Account: account.Paper, Balance: decimal.RequireFromString("487550"), Equity: decimal.RequireFromString("500000"), UnrealizedPL: decimal.Zero},
		{Time: ts.Add(time.Minute), Account: account.Real, Balance: decimal.RequireFromString("1"), Equity: decimal.RequireFromString("1")},
	}
	for _, s := range snaps {
		require.NoError(t, j.RecordEquity(s))
	}

	got, err := j.ListEquity(account.Paper)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Time.Equal(ts))
	assert.True(t, got[0].Balance.Equal(decimal.RequireFromString("487550")))
	assert.True(t, got[0].Equity.Equal(decimal.RequireFromString("500000")))
}
