// Package market is the mock quote feed: a ±0.3% random walk per symbol
// with a fixed-length rolling history.
package market

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultHistory    = 20
	DefaultVolatility = 0.003
)

var (
	minPrice = decimal.RequireFromString("0.01")
	hundred  = decimal.NewFromInt(100)
)

type Feed struct {
	mu         sync.RWMutex
	stocks     []Stock
	rng        *rand.Rand
	now        func() time.Time
	volatility float64
}

type Option func(*Feed)

// WithRand injects the random source; use a seeded one in tests.
func WithRand(r *rand.Rand) Option { return func(f *Feed) { f.rng = r } }

func WithClock(now func() time.Time) Option { return func(f *Feed) { f.now = now } }

func WithVolatility(v float64) Option { return func(f *Feed) { f.volatility = v } }

// NewFeed builds a feed seeded with Initial. Pass WithRand for
// reproducible histories.
func NewFeed(opts ...Option) *Feed {
	f := &Feed{
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
		volatility: DefaultVolatility,
	}
	for _, o := range opts {
		o(f)
	}
	f.stocks = Initial(f.rng)
	return f
}

// Initial returns the seed quotes with a synthetic history of
// DefaultHistory points drawn from each instrument's band.
func Initial(r *rand.Rand) []Stock {
	out := make([]Stock, 0, len(Instruments))
	for _, meta := range Instruments {
		hist := make([]Point, DefaultHistory)
		for i := range hist {
			v := meta.HistoryLo + r.Float64()*(meta.HistoryHi-meta.HistoryLo)
			hist[i] = Point{
				Time:  fmt.Sprintf("%d:00", 10+i),
				Value: decimal.NewFromFloat(v).Round(2),
			}
		}
		change := meta.Price.Sub(hist[0].Value)
		out = append(out, Stock{
			Symbol:        meta.Symbol,
			Name:          meta.Name,
			Sector:        meta.Sector,
			Price:         meta.Price,
			Change:        change.Round(2),
			ChangePercent: change.Div(hist[0].Value).Mul(hundred).Round(2),
			Volume:        meta.Volume,
			MarketCap:     meta.MarketCap,
			History:       hist,
		})
	}
	return out
}

// Step computes the next state of every stock from prev without touching
// the feed. Each price moves by a uniform draw in ±volatility, is floored at
// 0.01 and rounded to cents; the oldest history point is dropped.
func Step(prev []Stock, r *rand.Rand, volatility float64, now time.Time) []Stock {
	label := fmt.Sprintf("%d:%02d", now.Hour(), now.Minute())
	next := make([]Stock, len(prev))
	for i, s := range prev {
		pct := r.Float64()*volatility*2 - volatility
		price := s.Price.Add(s.Price.Mul(decimal.NewFromFloat(pct)))
		if price.LessThan(minPrice) {
			price = minPrice
		}
		price = price.Round(2)

		n := s.clone()
		start := price
		if len(s.History) > 0 {
			start = s.History[0].Value
			n.History = append(n.History[1:], Point{Time: label, Value: price})
		} else {
			n.History = []Point{{Time: label, Value: price}}
		}

		n.Price = price
		n.Change = price.Sub(start).Round(2)
		if start.IsZero() {
			n.ChangePercent = decimal.Zero
		} else {
			n.ChangePercent = price.Sub(start).Div(start).Mul(hundred).Round(2)
		}
		next[i] = n
	}
	return next
}

// Tick advances the feed one step and returns the new snapshot.
func (f *Feed) Tick() []Stock {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stocks = Step(f.stocks, f.rng, f.volatility, f.now())
	return f.snapshotLocked()
}

// Stocks returns a copy of the current state.
func (f *Feed) Stocks() []Stock {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshotLocked()
}

func (f *Feed) snapshotLocked() []Stock {
	out := make([]Stock, len(f.stocks))
	for i, s := range f.stocks {
		out[i] = s.clone()
	}
	return out
}

func (f *Feed) Get(symbol string) (Stock, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, s := range f.stocks {
		if s.Symbol == symbol {
			return s.clone(), true
		}
	}
	return Stock{}, false
}

// Price implements portfolio.PriceSource.
func (f *Feed) Price(symbol string) (decimal.Decimal, bool) {
	s, ok := f.Get(symbol)
	if !ok {
		return decimal.Zero, false
	}
	return s.Price, true
}

// Run ticks the feed every interval until ctx is done, handing each
// snapshot to fn.
func (f *Feed) Run(ctx context.Context, interval time.Duration, fn func([]Stock)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			snap := f.Tick()
			if fn != nil {
				fn(snap)
			}
		}
	}
}
