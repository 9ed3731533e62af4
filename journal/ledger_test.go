package journal

import (
	"errors"
	"testing"
	"time"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/broker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(id, symbol string, qty, price string) TradeRecord {
	q := decimal.RequireFromString(qty)
	p := decimal.RequireFromString(price)
	return TradeRecord{
		ID:       id,
		Account:  account.Paper,
		Symbol:   symbol,
		Action:   broker.Buy,
		Quantity: q,
		Price:    p,
		Total:    q.Mul(p),
		Time:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Status:   broker.Filled,
		Source:   broker.Manual,
	}
}

func TestLedgerNewestFirst(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	require.NoError(t, l.RecordTrade(testRecord("A", "NVDA", "1", "100")))
	require.NoError(t, l.RecordTrade(testRecord("B", "TSLA", "2", "200")))
	require.NoError(t, l.RecordTrade(testRecord("C", "AAPL", "3", "300")))

	got := l.Trades()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, 3, l.Len())
}

func TestLedgerRecentIsBoundedView(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	for _, id := range []string{"1", "2", "3", "4"} {
		require.NoError(t, l.RecordTrade(testRecord(id, "NVDA", "1", "1")))
	}

	recent := l.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "4", recent[0].ID)
	assert.Equal(t, "3", recent[1].ID)
	assert.Equal(t, 4, l.Len(), "views never truncate the ledger")

	assert.Len(t, l.Recent(10), 4)
	assert.Empty(t, l.Recent(0))
}

func TestLedgerGetAndDuplicate(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	rec := testRecord("X", "NVDA", "5", "10")
	require.NoError(t, l.RecordTrade(rec))

	got, ok := l.Get("X")
	require.True(t, ok)
	assert.Equal(t, rec.Symbol, got.Symbol)

	_, ok = l.Get("missing")
	assert.False(t, ok)

	assert.Error(t, l.RecordTrade(rec))
	assert.Equal(t, 1, l.Len())
}

func TestLedgerTradesIsCopy(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	require.NoError(t, l.RecordTrade(testRecord("A", "NVDA", "1", "1")))
	got := l.Trades()
	got[0].Symbol = "HACKED"

	again, _ := l.Get("A")
	assert.Equal(t, "NVDA", again.Symbol)
}

func TestLedgerEquity(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	snap := EquitySnapshot{Account: account.Paper, Balance: decimal.NewFromInt(10), Equity: decimal.NewFromInt(12)}
	require.NoError(t, l.RecordEquity(snap))
	require.Len(t, l.Equity(), 1)
	assert.True(t, l.Equity()[0].Equity.Equal(decimal.NewFromInt(12)))
}

type failingJournal struct{ Discard }

func (failingJournal) RecordTrade(TradeRecord) error { return errors.New("disk full") }

func TestMulti(t *testing.T) {
	t.Parallel()

	a, b := NewLedger(), NewLedger()
	m := Multi{a, b}
	require.NoError(t, m.RecordTrade(testRecord("A", "NVDA", "1", "1")))
	require.NoError(t, m.RecordEquity(EquitySnapshot{}))
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
	assert.NoError(t, m.Close())

	c := NewLedger()
	m = Multi{failingJournal{}, c}
	err := m.RecordTrade(testRecord("B", "NVDA", "1", "1"))
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 1, c.Len(), "later journals still receive the record")
}
