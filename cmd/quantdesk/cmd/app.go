package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rustyeddy/quantdesk/config"
	"github.com/rustyeddy/quantdesk/journal"
	"github.com/rustyeddy/quantdesk/market"
	"github.com/rustyeddy/quantdesk/notify"
	"github.com/rustyeddy/quantdesk/sim"
)

// app is the wiring shared by every command that touches the books.
type app struct {
	store   *config.Store
	journal journal.Journal
	engine  *sim.Engine
	feed    *market.Feed
	center  *notify.Center
	hub     *notify.Hub
}

type appOptions struct {
	wsAddr string
	// embedHub runs the hub without its own listener so the caller can
	// mount it on another router.
	embedHub bool
}

// openApp loads settings, opens the audit journal, replays persisted
// fills into a fresh engine and wires the notification sinks.
func openApp(ctx context.Context, opts appOptions) (*app, error) {
	store, err := config.OpenStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	s := store.Settings()

	a := &app{store: store, feed: market.NewFeed()}

	history, err := a.openJournal(ctx, s.Journal)
	if err != nil {
		return nil, err
	}

	sinks := notify.Fanout{notify.LogSink{Logger: log.New(os.Stderr, "", log.LstdFlags)}}
	if d := notify.NewDiscord(s.Notify.DiscordWebhook); d.Enabled() {
		sinks = append(sinks, d)
	}
	if s.Notify.FCMCredentials != "" {
		fcm, err := notify.NewFCM(ctx, s.Notify.FCMCredentials, s.Notify.FCMTokens)
		if err != nil {
			log.Printf("fcm disabled: %v", err)
		} else {
			sinks = append(sinks, fcm)
		}
	}
	addr := opts.wsAddr
	if addr == "" {
		addr = s.Notify.WebsocketAddr
	}
	switch {
	case opts.embedHub:
		a.hub = notify.NewHub(64)
		go a.hub.Run(ctx)
		sinks = append(sinks, a.hub)
	case addr != "":
		a.hub = notify.NewHub(64)
		go func() {
			if err := a.hub.ListenAndServe(ctx, addr); err != nil {
				log.Printf("websocket hub: %v", err)
			}
		}()
		sinks = append(sinks, a.hub)
	}
	a.center = notify.NewCenter(s.NotificationsEnabled, sinks)

	a.engine = sim.NewEngine(s.Account(), nil, nil,
		sim.WithJournal(a.journal),
		sim.WithPrices(a.feed),
		sim.WithNotifier(a.center),
	)
	if err := a.engine.Restore(history); err != nil {
		a.journal.Close()
		return nil, fmt.Errorf("restore positions: %w", err)
	}
	return a, nil
}

func (a *app) openJournal(ctx context.Context, cfg config.JournalConfig) ([]journal.TradeRecord, error) {
	switch cfg.Type {
	case "sqlite":
		j, err := journal.NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		history, err := j.ListTrades()
		if err != nil {
			j.Close()
			return nil, fmt.Errorf("read sqlite journal: %w", err)
		}
		a.journal = j
		return history, nil
	case "mysql":
		j, err := journal.NewMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("open mysql journal: %w", err)
		}
		history, err := j.ListTrades()
		if err != nil {
			j.Close()
			return nil, fmt.Errorf("read mysql journal: %w", err)
		}
		a.journal = j
		return history, nil
	case "postgres":
		j, err := journal.NewPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres journal: %w", err)
		}
		history, err := j.ListTrades(ctx)
		if err != nil {
			j.Close()
			return nil, fmt.Errorf("read postgres journal: %w", err)
		}
		a.journal = j
		return history, nil
	case "csv":
		j, err := journal.NewCSV(cfg.TradesFile, cfg.EquityFile)
		if err != nil {
			return nil, fmt.Errorf("open csv journal: %w", err)
		}
		a.journal = j
		return nil, nil
	}
	a.journal = journal.Discard{}
	return nil, nil
}

// saveBalances writes the engine's balances and mode back to settings.
func (a *app) saveBalances() error {
	b := a.engine.Account()
	return a.store.Update(func(s *config.Settings) {
		s.PaperBalance = b.Paper
		s.RealBalance = b.Real
		s.PaperTrading = b.IsPaperTrading()
	})
}

func (a *app) Close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}
