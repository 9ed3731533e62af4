// Package strategy runs the mock trading bot. Each tick it either books a
// synthetic profit or loss through an Executor or writes an informational
// log line.
package strategy

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/broker"
	"github.com/rustyeddy/quantdesk/journal"
	"github.com/rustyeddy/quantdesk/market"
	"github.com/rustyeddy/quantdesk/notify"
	"github.com/rustyeddy/quantdesk/risk"
	"github.com/shopspring/decimal"
)

const (
	DefaultInterval = 2 * time.Second
	DefaultLogSize  = 500

	tradeThreshold = 0.7
	lossThreshold  = 0.35
)

// Executor books synthetic fills. The execution engine satisfies it.
type Executor interface {
	ApplyPnL(ctx context.Context, s broker.Synthetic) (journal.TradeRecord, error)
	Account() account.Balances
}

type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "LIVE TRADING"
	}
	return "STOPPED"
}

// Log is one line of the bot console.
type Log struct {
	Time    time.Time       `json:"time"`
	Message string          `json:"message"`
	Level   notify.Severity `json:"level"`
}

var idleEvents = []Log{
	{Message: "Scanning US Tech sector for volatility...", Level: notify.Info},
	{Message: "Analyzing sentiment matrix. No high-confidence signals.", Level: notify.Info},
	{Message: "Price anomaly detected. Checking correlations.", Level: notify.Warning},
	{Message: "Holding positions. Risk parameters within safe range.", Level: notify.Info},
}

type Runner struct {
	mu      sync.Mutex
	exec    Executor
	rng     *rand.Rand
	sink    notify.Sink
	logger  *log.Logger
	now     func() time.Time
	symbols []string

	state  State
	params Params
	risk   string
	policy risk.Policy
	// baselines holds the balance each account had when the bot first
	// traded it; drawdown is measured per account.
	baselines map[account.Selector]decimal.Decimal
	metrics   Metrics
	logs      []Log
	maxLogs   int
}

type Option func(*Runner)

// WithRand injects the random source; use a seeded one in tests.
func WithRand(r *rand.Rand) Option { return func(b *Runner) { b.rng = r } }

func WithNotifier(s notify.Sink) Option { return func(b *Runner) { b.sink = s } }

// WithLogger echoes every console line to l.
func WithLogger(l *log.Logger) Option { return func(b *Runner) { b.logger = l } }

func WithClock(now func() time.Time) Option { return func(b *Runner) { b.now = now } }

func WithParams(p Params) Option { return func(b *Runner) { b.params = p } }

func WithRiskLevel(level string) Option { return func(b *Runner) { b.risk = level } }

// WithPolicy sets the circuit breakers checked before every fill.
func WithPolicy(p risk.Policy) Option { return func(b *Runner) { b.policy = p } }

func WithSymbols(symbols []string) Option { return func(b *Runner) { b.symbols = symbols } }

func WithLogSize(n int) Option { return func(b *Runner) { b.maxLogs = n } }

func New(exec Executor, opts ...Option) *Runner {
	r := &Runner{
		exec:    exec,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		sink:    notify.Discard{},
		now:     time.Now,
		symbols: market.Tickers,
		params:  DefaultParams(),
		risk:    "Moderate",
		maxLogs: DefaultLogSize,

		baselines: make(map[account.Selector]decimal.Decimal),
	}
	for _, o := range opts {
		o(r)
	}
	if r.sink == nil {
		r.sink = notify.Discard{}
	}
	if r.maxLogs <= 0 {
		r.maxLogs = DefaultLogSize
	}
	return r
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start reports whether the runner changed state.
func (r *Runner) Start() bool {
	r.mu.Lock()
	if r.state == Running {
		r.mu.Unlock()
		return false
	}
	r.state = Running
	bal := r.exec.Account()
	r.baselineLocked(bal)
	name := r.params.Name
	r.logLocked(notify.Info, "Strategy initialized: "+name)
	r.logLocked(notify.Success, "Bot engine started. Risk Level: "+r.risk)
	if bal.IsPaperTrading() {
		r.logLocked(notify.Warning, "Running in PAPER TRADING MODE. No real capital at risk.")
	}
	sink := r.sink
	r.mu.Unlock()

	sink.Notify("Algo Engine Started", fmt.Sprintf("Strategy %q is now active.", name), notify.Success)
	return true
}

// Stop reports whether the runner changed state. Once it returns no
// further synthetic trades are booked until the next Start.
func (r *Runner) Stop() bool {
	r.mu.Lock()
	if r.state == Stopped {
		r.mu.Unlock()
		return false
	}
	r.state = Stopped
	r.logLocked(notify.Warning, "Bot engine stopped by user.")
	sink := r.sink
	r.mu.Unlock()

	sink.Notify("Algo Engine Stopped", "Trading has been paused manually.", notify.Warning)
	return true
}

// Step runs one tick. It reports whether a synthetic trade was booked.
// Executor errors are logged to the console and the tick is skipped. A
// tripped circuit breaker stops the runner.
func (r *Runner) Step(ctx context.Context) bool {
	r.mu.Lock()
	traded, halt := r.stepLocked(ctx)
	sink := r.sink
	r.mu.Unlock()

	if halt != "" {
		sink.Notify("Algo Engine Halted", halt, notify.Error)
	}
	return traded
}

func (r *Runner) stepLocked(ctx context.Context) (bool, string) {
	if r.state != Running {
		return false, ""
	}
	if r.rng.Float64() <= tradeThreshold {
		ev := idleEvents[r.rng.Intn(len(idleEvents))]
		r.logLocked(ev.Level, ev.Message)
		return false, ""
	}

	bal := r.exec.Account()
	d := risk.Evaluate(r.policy, risk.Snapshot{Start: r.baselineLocked(bal), Current: bal.ActiveBalance()})
	if !d.Allowed {
		r.state = Stopped
		msg := "Trading halted: " + d.Reason()
		r.logLocked(notify.Error, msg)
		return false, msg
	}

	s := r.synthesize()
	if _, err := r.exec.ApplyPnL(ctx, s); err != nil {
		r.logLocked(notify.Error, fmt.Sprintf("SKIPPED: %s %s | %v", s.Action, s.Symbol, err))
		return false, ""
	}

	r.metrics.record(s.PnL)
	level := notify.Success
	if !s.PnL.IsPositive() {
		level = notify.Error
	}
	r.logLocked(level, fmt.Sprintf("EXECUTED: %s %s | PnL: %s", s.Action, s.Symbol, account.FormatSignedUSD(s.PnL)))
	return true, ""
}

// baselineLocked returns the active account's baseline, recording the
// current balance the first time that account is seen.
func (r *Runner) baselineLocked(bal account.Balances) decimal.Decimal {
	if base, ok := r.baselines[bal.Active]; ok {
		return base
	}
	base := bal.ActiveBalance()
	r.baselines[bal.Active] = base
	return base
}

// synthesize draws a 65% win: wins are U(50,200), losses U(20,100).
func (r *Runner) synthesize() broker.Synthetic {
	var pnl float64
	if r.rng.Float64() > lossThreshold {
		pnl = r.rng.Float64()*150 + 50
	} else {
		pnl = -(r.rng.Float64()*80 + 20)
	}
	symbol := r.symbols[r.rng.Intn(len(r.symbols))]
	action := broker.Buy
	if r.rng.Float64() > 0.5 {
		action = broker.Sell
	}
	return broker.Synthetic{
		Symbol: symbol,
		Action: action,
		PnL:    decimal.NewFromFloat(pnl).Round(2),
	}
}

// Run calls Step every interval until ctx is done. Ticks while stopped
// are no-ops, so Run can outlive several Start/Stop cycles.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Step(ctx)
		}
	}
}

// Logs returns the console, oldest first.
func (r *Runner) Logs() []Log {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Log(nil), r.logs...)
}

func (r *Runner) logLocked(level notify.Severity, msg string) {
	l := Log{Time: r.now(), Message: msg, Level: level}
	if len(r.logs) >= r.maxLogs {
		copy(r.logs, r.logs[1:])
		r.logs = r.logs[:len(r.logs)-1]
	}
	r.logs = append(r.logs, l)
	if r.logger != nil {
		r.logger.Printf("[%s] %s", level, msg)
	}
}
