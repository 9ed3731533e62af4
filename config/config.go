// Package config holds the persisted user settings: watchlist, display
// preferences, trading mode, bot risk parameters and both balances, plus
// the wiring for journals, notifications and the AI service.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/strategy"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the settings layout written by Save.
const CurrentVersion = 2

var ErrInvalid = errors.New("invalid settings")

// Settings is the versioned settings blob.
type Settings struct {
	Version              int             `json:"version" yaml:"version"`
	Watchlist            []string        `json:"watchlist" yaml:"watchlist"`
	AlertThreshold       float64         `json:"alertThreshold" yaml:"alertThreshold"`
	ChartType            string          `json:"chartType" yaml:"chartType"`
	PaperTrading         bool            `json:"isPaperTrading" yaml:"isPaperTrading"`
	BotRiskLevel         string          `json:"botRiskLevel" yaml:"botRiskLevel"`
	BotMaxDrawdown       float64         `json:"botMaxDrawdown" yaml:"botMaxDrawdown"`
	NotificationsEnabled bool            `json:"notificationsEnabled" yaml:"notificationsEnabled"`
	RealBalance          decimal.Decimal `json:"realBalance" yaml:"realBalance"`
	PaperBalance         decimal.Decimal `json:"paperBalance" yaml:"paperBalance"`

	Journal JournalConfig `json:"journal" yaml:"journal"`
	Bot     BotConfig     `json:"bot" yaml:"bot"`
	Notify  NotifyConfig  `json:"notify" yaml:"notify"`
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Auth    AuthConfig    `json:"auth" yaml:"auth"`
}

// JournalConfig selects the audit journal. Type is one of "memory",
// "csv", "sqlite", "mysql" or "postgres".
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"`
	TradesFile  string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile  string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	MySQLDSN    string `json:"mysql_dsn,omitempty" yaml:"mysql_dsn,omitempty"`
	PostgresURL string `json:"postgres_url,omitempty" yaml:"postgres_url,omitempty"`
}

type BotConfig struct {
	Interval string          `json:"interval" yaml:"interval"` // e.g. "2s"
	LogSize  int             `json:"log_size" yaml:"log_size"`
	Strategy strategy.Params `json:"strategy" yaml:"strategy"`
}

// ParseInterval converts the interval string to a time.Duration.
func (b BotConfig) ParseInterval() (time.Duration, error) {
	if b.Interval == "" {
		return strategy.DefaultInterval, nil
	}
	return time.ParseDuration(b.Interval)
}

type NotifyConfig struct {
	DiscordWebhook string   `json:"discord_webhook,omitempty" yaml:"discord_webhook,omitempty"`
	WebsocketAddr  string   `json:"websocket_addr,omitempty" yaml:"websocket_addr,omitempty"`
	FCMCredentials string   `json:"fcm_credentials,omitempty" yaml:"fcm_credentials,omitempty"`
	FCMTokens      []string `json:"fcm_tokens,omitempty" yaml:"fcm_tokens,omitempty"`
}

// AIConfig leaves APIKey empty by default; GEMINI_API_KEY fills it at
// start-up.
type AIConfig struct {
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model  string `json:"model" yaml:"model"`
}

type AuthConfig struct {
	Path string `json:"path" yaml:"path"`
}

// Default returns the first-run settings.
func Default() *Settings {
	return &Settings{
		Version:              CurrentVersion,
		Watchlist:            []string{"NVDA", "TSLA", "AAPL"},
		AlertThreshold:       0.8,
		ChartType:            "area",
		PaperTrading:         true,
		BotRiskLevel:         "Moderate",
		BotMaxDrawdown:       5.0,
		NotificationsEnabled: true,
		RealBalance:          account.DefaultRealBalance,
		PaperBalance:         account.DefaultPaperBalance,
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./quantdesk.db",
		},
		Bot: BotConfig{
			Interval: "2s",
			LogSize:  strategy.DefaultLogSize,
			Strategy: strategy.DefaultParams(),
		},
		AI:   AIConfig{Model: "gemini-2.5-flash"},
		Auth: AuthConfig{Path: "./users.json"},
	}
}

// Load reads path over the defaults, so fields missing from the file keep
// their default values. A missing file yields the defaults. Older layouts
// are migrated before validation.
func Load(path string) (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// A file without a version predates versioning.
	s.Version = 0

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, s); err != nil {
		if jerr := json.Unmarshal(data, s); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	s.Migrate()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return s, nil
}

// Save writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (s *Settings) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	default:
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Migrate upgrades an older layout in place. Version 1 settings carried
// only the dashboard fields; the wiring sections are filled from defaults.
func (s *Settings) Migrate() {
	if s.Version >= CurrentVersion {
		return
	}
	def := Default()
	if s.Journal.Type == "" {
		s.Journal = def.Journal
	}
	if s.Bot.Interval == "" {
		s.Bot.Interval = def.Bot.Interval
	}
	if s.Bot.LogSize == 0 {
		s.Bot.LogSize = def.Bot.LogSize
	}
	if s.Bot.Strategy.Name == "" {
		s.Bot.Strategy = def.Bot.Strategy
	}
	if s.AI.Model == "" {
		s.AI.Model = def.AI.Model
	}
	if s.Auth.Path == "" {
		s.Auth.Path = def.Auth.Path
	}
	for i, sym := range s.Watchlist {
		s.Watchlist[i] = strings.ToUpper(strings.TrimSpace(sym))
	}
	s.Version = CurrentVersion
}

// Validate checks every field. Errors wrap ErrInvalid.
func (s *Settings) Validate() error {
	if s.Version > CurrentVersion {
		return fmt.Errorf("%w: version %d is newer than %d", ErrInvalid, s.Version, CurrentVersion)
	}
	if len(s.Watchlist) == 0 {
		return fmt.Errorf("%w: watchlist is empty", ErrInvalid)
	}
	for _, sym := range s.Watchlist {
		if strings.TrimSpace(sym) == "" {
			return fmt.Errorf("%w: watchlist has an empty symbol", ErrInvalid)
		}
	}
	if s.AlertThreshold < 0 || s.AlertThreshold > 1 {
		return fmt.Errorf("%w: alertThreshold must be between 0 and 1", ErrInvalid)
	}
	switch s.ChartType {
	case "area", "line", "bar":
	default:
		return fmt.Errorf("%w: chartType must be area, line or bar", ErrInvalid)
	}
	switch s.BotRiskLevel {
	case "Low", "Moderate", "High":
	default:
		return fmt.Errorf("%w: botRiskLevel must be Low, Moderate or High", ErrInvalid)
	}
	if s.BotMaxDrawdown <= 0 || s.BotMaxDrawdown > 100 {
		return fmt.Errorf("%w: botMaxDrawdown must be in (0, 100]", ErrInvalid)
	}
	if s.RealBalance.IsNegative() || s.PaperBalance.IsNegative() {
		return fmt.Errorf("%w: balances must not be negative", ErrInvalid)
	}

	switch s.Journal.Type {
	case "memory":
	case "csv":
		if s.Journal.TradesFile == "" || s.Journal.EquityFile == "" {
			return fmt.Errorf("%w: journal trades_file and equity_file required for csv", ErrInvalid)
		}
	case "sqlite":
		if s.Journal.DBPath == "" {
			return fmt.Errorf("%w: journal db_path required for sqlite", ErrInvalid)
		}
	case "mysql":
		if s.Journal.MySQLDSN == "" {
			return fmt.Errorf("%w: journal mysql_dsn required for mysql", ErrInvalid)
		}
	case "postgres":
		if s.Journal.PostgresURL == "" {
			return fmt.Errorf("%w: journal postgres_url required for postgres", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: journal.type must be memory, csv, sqlite, mysql or postgres", ErrInvalid)
	}

	if d, err := s.Bot.ParseInterval(); err != nil || d <= 0 {
		return fmt.Errorf("%w: bot.interval %q", ErrInvalid, s.Bot.Interval)
	}
	if err := s.Bot.Strategy.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// ActiveAccount maps the trading-mode flag to an account selector.
func (s *Settings) ActiveAccount() account.Selector {
	if s.PaperTrading {
		return account.Paper
	}
	return account.Real
}

// Account builds the account state the settings describe.
func (s *Settings) Account() *account.State {
	return account.New(s.PaperBalance, s.RealBalance, s.ActiveAccount())
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	c := *s
	c.Watchlist = append([]string(nil), s.Watchlist...)
	c.Notify.FCMTokens = append([]string(nil), s.Notify.FCMTokens...)
	return &c
}
