package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, []string{"NVDA", "TSLA", "AAPL"}, s.Watchlist)
	assert.True(t, s.PaperBalance.Equal(decimal.RequireFromString("500000.00")))
	assert.True(t, s.RealBalance.Equal(decimal.RequireFromString("124592.50")))
	assert.Equal(t, account.Paper, s.ActiveAccount())

	d, err := s.Bot.ParseInterval()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Parallel()

	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadMergesOntoDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	blob := "version: 2\nwatchlist: [msft, amd]\nisPaperTrading: false\nrealBalance: \"2500.75\"\n"
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"msft", "amd"}, s.Watchlist)
	assert.Equal(t, account.Real, s.ActiveAccount())
	assert.True(t, s.RealBalance.Equal(decimal.RequireFromString("2500.75")))
	assert.True(t, s.PaperBalance.Equal(account.DefaultPaperBalance))
	assert.Equal(t, "area", s.ChartType)
	assert.Equal(t, 0.8, s.AlertThreshold)
}

func TestLoadLegacyJSONMigrates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	blob := `{"watchlist":[" nvda "],"alertThreshold":0.5,"chartType":"line","isPaperTrading":true,
"botRiskLevel":"High","botMaxDrawdown":10,"notificationsEnabled":false,
"realBalance":1000,"paperBalance":2000,"journal":{"type":""},"bot":{"interval":""}}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, s.Version)
	assert.Equal(t, []string{"NVDA"}, s.Watchlist)
	assert.Equal(t, "High", s.BotRiskLevel)
	assert.Equal(t, "sqlite", s.Journal.Type)
	assert.Equal(t, "2s", s.Bot.Interval)
	assert.True(t, s.PaperBalance.Equal(decimal.NewFromInt(2000)))
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chartType: pie\n"), 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"empty watchlist", func(s *Settings) { s.Watchlist = nil }},
		{"threshold", func(s *Settings) { s.AlertThreshold = 1.5 }},
		{"risk", func(s *Settings) { s.BotRiskLevel = "YOLO" }},
		{"drawdown", func(s *Settings) { s.BotMaxDrawdown = 0 }},
		{"negative balance", func(s *Settings) { s.PaperBalance = decimal.NewFromInt(-1) }},
		{"journal type", func(s *Settings) { s.Journal.Type = "mongo" }},
		{"csv files", func(s *Settings) { s.Journal = JournalConfig{Type: "csv"} }},
		{"postgres url", func(s *Settings) { s.Journal = JournalConfig{Type: "postgres"} }},
		{"mysql dsn", func(s *Settings) { s.Journal = JournalConfig{Type: "mysql"} }},
		{"interval", func(s *Settings) { s.Bot.Interval = "soon" }},
		{"stop loss", func(s *Settings) { s.Bot.Strategy.StopLoss = -1 }},
		{"future version", func(s *Settings) { s.Version = CurrentVersion + 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), ErrInvalid)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"settings.yaml", "settings.json"} {
		path := filepath.Join(t.TempDir(), name)
		s := Default()
		s.PaperBalance = decimal.RequireFromString("123.45")
		s.Notify.FCMTokens = []string{"tok"}
		require.NoError(t, s.Save(path))

		got, err := Load(path)
		require.NoError(t, err, name)
		assert.True(t, got.PaperBalance.Equal(s.PaperBalance), name)
		assert.Equal(t, []string{"tok"}, got.Notify.FCMTokens, name)
		assert.Equal(t, s.Bot.Strategy, got.Bot.Strategy, name)
	}
}

func TestStoreUpdate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	st, err := OpenStore(path)
	require.NoError(t, err)

	require.NoError(t, st.Update(func(s *Settings) { s.PaperTrading = false }))
	assert.False(t, st.Settings().PaperTrading)

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.False(t, reloaded.PaperTrading)

	err = st.Update(func(s *Settings) { s.ChartType = "pie" })
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, "area", st.Settings().ChartType)

	// callers get copies
	st.Settings().Watchlist[0] = "XXX"
	assert.Equal(t, "NVDA", st.Settings().Watchlist[0])
}
