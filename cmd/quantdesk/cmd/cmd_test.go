package cmd

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/broker"
	"github.com/rustyeddy/quantdesk/config"
	"github.com/rustyeddy/quantdesk/journal"
	"github.com/rustyeddy/quantdesk/sim"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayBounds(t *testing.T) {
	start, end, err := dayBounds(time.UTC, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), end)

	_, _, err = dayBounds(time.UTC, "15/01/2024")
	assert.Error(t, err)
}

// TestAppPersistsAcrossRuns opens the app twice against the same settings
// and journal files, the way two CLI invocations would.
func TestAppPersistsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	configPath = filepath.Join(dir, "quantdesk.yaml")
	t.Cleanup(func() { configPath = "./quantdesk.yaml" })

	s := config.Default()
	s.Journal = config.JournalConfig{Type: "sqlite", DBPath: filepath.Join(dir, "journal.db")}
	require.NoError(t, s.Save(configPath))

	ctx := context.Background()
	a, err := openApp(ctx, appOptions{})
	require.NoError(t, err)

	rec, err := a.engine.Execute(ctx, broker.Intent{
		Symbol:   "NVDA",
		Action:   broker.Buy,
		Quantity: decimal.NewFromInt(100),
		Price:    decimal.RequireFromString("124.50"),
	})
	require.NoError(t, err)
	require.NoError(t, a.saveBalances())
	require.NoError(t, a.Close())

	b, err := openApp(ctx, appOptions{})
	require.NoError(t, err)
	defer b.Close()

	assert.True(t, b.engine.Account().Paper.Equal(decimal.RequireFromString("487550.00")))
	pos, ok := b.engine.Position("NVDA")
	require.True(t, ok)
	assert.True(t, pos.Quantity.Equal(decimal.NewFromInt(100)))

	trades := b.engine.Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, rec.ID, trades[0].ID)
}

func TestOpenJournalMemory(t *testing.T) {
	a := &app{}
	history, err := a.openJournal(context.Background(), config.JournalConfig{Type: "memory"})
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, journal.Discard{}, a.journal)
}

func TestOpenAppEmbedsHub(t *testing.T) {
	dir := t.TempDir()
	configPath = filepath.Join(dir, "quantdesk.yaml")
	t.Cleanup(func() { configPath = "./quantdesk.yaml" })

	s := config.Default()
	s.Journal = config.JournalConfig{Type: "memory"}
	require.NoError(t, s.Save(configPath))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := openApp(ctx, appOptions{embedHub: true})
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.hub)
	assert.Zero(t, a.hub.Clients())
}

func TestSavingExecutorSavesAfterBotFills(t *testing.T) {
	saves := 0
	ex := savingExecutor{
		Engine: sim.NewEngine(account.Default(), nil, nil),
		save:   func() error { saves++; return nil },
	}
	ctx := context.Background()

	_, err := ex.ApplyPnL(ctx, broker.Synthetic{Symbol: "NVDA", Action: broker.Buy, PnL: decimal.NewFromInt(120)})
	require.NoError(t, err)
	assert.Equal(t, 1, saves)
	assert.True(t, ex.Account().Paper.Equal(account.DefaultPaperBalance.Add(decimal.NewFromInt(120))))

	_, err = ex.ApplyPnL(ctx, broker.Synthetic{Symbol: "NVDA", Action: broker.Sell, PnL: decimal.NewFromInt(-1000000)})
	assert.ErrorIs(t, err, sim.ErrInsufficientFunds)
	assert.Equal(t, 1, saves)
}
