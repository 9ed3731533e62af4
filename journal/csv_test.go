package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return recs
}

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	require.NoError(t, j.RecordTrade(testRecord("T1", "NVDA", "100", "124.5")))
	require.NoError(t, j.RecordEquity(EquitySnapshot{Account: "paper"}))
	require.NoError(t, j.Close())

	trades := readCSV(t, tradesPath)
	require.Len(t, trades, 2)
	assert.Equal(t, tradeHeader, trades[0])
	assert.Equal(t, []string{"T1", "paper", "NVDA", "BUY", "100", "124.50", "12450.00", "FILLED", "manual", "0.00", "2024-01-02T03:04:05Z"}, trades[1])

	equity := readCSV(t, equityPath)
	require.Len(t, equity, 2)
	assert.Equal(t, equityHeader, equity[0])
	assert.Equal(t, "paper", equity[1][1])
}

func TestCSVJournalAppendsAcrossOpens(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)
	require.NoError(t, j.RecordTrade(testRecord("T1", "NVDA", "100", "124.5")))
	require.NoError(t, j.RecordEquity(EquitySnapshot{Account: "paper"}))
	require.NoError(t, j.Close())

	j, err = NewCSV(tradesPath, equityPath)
	require.NoError(t, err)
	require.NoError(t, j.RecordTrade(testRecord("T2", "TSLA", "10", "175.3")))
	require.NoError(t, j.Close())

	trades := readCSV(t, tradesPath)
	require.Len(t, trades, 3)
	assert.Equal(t, tradeHeader, trades[0])
	assert.Equal(t, "T1", trades[1][0])
	assert.Equal(t, "T2", trades[2][0])

	equity := readCSV(t, equityPath)
	require.Len(t, equity, 2)
	assert.Equal(t, equityHeader, equity[0])
}
