package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/quantdesk/api"
	"github.com/rustyeddy/quantdesk/broker"
	"github.com/rustyeddy/quantdesk/journal"
	"github.com/rustyeddy/quantdesk/market"
	"github.com/rustyeddy/quantdesk/sim"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the desk over HTTP",
	Long: `Serve balances, positions, orders, the trade ledger, quotes and
notifications as JSON. Live events stream over a websocket at /ws.
The trading bot starts stopped and is driven through /bot/start and
/bot/stop. Balances are written back to the settings file after every
change, including bot fills.

Example:
  quantdesk serve --addr :8080 --tick 2s`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr  string
	serveTick  time.Duration
	serveDebug bool
	serveSeed  int64
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().DurationVar(&serveTick, "tick", 2*time.Second, "quote refresh interval (0 freezes quotes)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "run gin in debug mode")
	serveCmd.Flags().Int64Var(&serveSeed, "seed", 0, "bot random seed (0 uses the clock)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a, err := openApp(ctx, appOptions{embedHub: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if !serveDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	settings := a.store.Settings()
	interval, err := settings.Bot.ParseInterval()
	if err != nil {
		return err
	}
	bot := newRunner(a, settings, savingExecutor{Engine: a.engine, save: a.saveBalances}, serveSeed)
	go func() {
		if err := bot.Run(ctx, interval); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("bot: %v", err)
		}
	}()

	s := api.NewServer(a.engine, a.feed, a.center, a.hub)
	s.OnChange = a.saveBalances
	s.Bot = bot

	if serveTick > 0 {
		go func() {
			err := a.feed.Run(ctx, serveTick, func(stocks []market.Stock) {
				a.hub.Publish("quotes", stocks)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("feed: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: serveAddr, Handler: s.Router()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("quantdesk api listening on %s", serveAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// savingExecutor writes balances back to settings after every bot fill.
type savingExecutor struct {
	*sim.Engine
	save func() error
}

func (e savingExecutor) ApplyPnL(ctx context.Context, s broker.Synthetic) (journal.TradeRecord, error) {
	rec, err := e.Engine.ApplyPnL(ctx, s)
	if err != nil {
		return rec, err
	}
	if err := e.save(); err != nil {
		log.Printf("save balances: %v", err)
	}
	return rec, nil
}
