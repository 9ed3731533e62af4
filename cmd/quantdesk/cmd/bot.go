package cmd

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/config"
	"github.com/rustyeddy/quantdesk/market"
	"github.com/rustyeddy/quantdesk/risk"
	"github.com/rustyeddy/quantdesk/strategy"
	"github.com/spf13/cobra"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the synthetic trading bot",
}

var botRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot and run until the duration elapses or Ctrl-C",
	Long: `Start the bot with the strategy from the settings file. Every interval
it either books a synthetic fill against the active account or logs a
status line. Balances are written back to the settings file on exit.

Example:
  quantdesk bot run --duration 1m --interval 500ms --ws :8080`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

var (
	botDuration time.Duration
	botInterval time.Duration
	botSeed     int64
	botWSAddr   string
)

func init() {
	rootCmd.AddCommand(botCmd)
	botCmd.AddCommand(botRunCmd)

	botRunCmd.Flags().DurationVar(&botDuration, "duration", 30*time.Second, "how long to run (0 runs until interrupted)")
	botRunCmd.Flags().DurationVar(&botInterval, "interval", 0, "tick interval (default: from settings)")
	botRunCmd.Flags().Int64Var(&botSeed, "seed", 0, "random seed (0 uses the clock)")
	botRunCmd.Flags().StringVar(&botWSAddr, "ws", "", "serve live notifications and quotes over websocket at this address")
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if botDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, botDuration)
		defer cancel()
	}

	a, err := openApp(ctx, appOptions{wsAddr: botWSAddr})
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.store.Settings()
	interval := botInterval
	if interval <= 0 {
		if interval, err = s.Bot.ParseInterval(); err != nil {
			return err
		}
	}
	r := newRunner(a, s, a.engine, botSeed)

	if a.hub != nil {
		go func() {
			_ = a.feed.Run(ctx, interval, func(stocks []market.Stock) {
				a.hub.Publish("quotes", stocks)
			})
		}()
	}

	r.Start()
	err = r.Run(ctx, interval)
	r.Stop()
	if err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return err
	}

	m := r.Metrics()
	fmt.Println()
	fmt.Printf("Session P&L: %s\n", account.FormatSignedUSD(m.SessionPnL))
	fmt.Printf("Trades:      %d\n", m.TradeCount)
	fmt.Printf("Win rate:    %.1f%%\n", m.WinRate()*100)
	printBalances(a.engine.Account())

	return a.saveBalances()
}

// newRunner builds the bot from settings. A zero seed uses the clock.
func newRunner(a *app, s *config.Settings, exec strategy.Executor, seed int64) *strategy.Runner {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return strategy.New(exec,
		strategy.WithRand(rand.New(rand.NewSource(seed))),
		strategy.WithNotifier(a.center),
		strategy.WithLogger(log.New(os.Stdout, "bot ", log.Ltime)),
		strategy.WithParams(s.Bot.Strategy),
		strategy.WithRiskLevel(s.BotRiskLevel),
		strategy.WithPolicy(risk.Policy{MaxDrawdownPct: s.BotMaxDrawdown}),
		strategy.WithLogSize(s.Bot.LogSize),
	)
}
