package market

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *rand.Rand { return rand.New(rand.NewSource(42)) }

func TestInitial(t *testing.T) {
	t.Parallel()

	stocks := Initial(seeded())
	require.Len(t, stocks, 3)

	assert.Equal(t, "NVDA", stocks[0].Symbol)
	assert.True(t, stocks[0].Price.Equal(decimal.RequireFromString("124.50")))
	for _, s := range stocks {
		assert.Len(t, s.History, DefaultHistory, s.Symbol)
	}
}

func TestStepStaysWithinBand(t *testing.T) {
	t.Parallel()

	r := seeded()
	prev := Initial(r)
	now := time.Date(2024, 1, 1, 14, 5, 0, 0, time.UTC)

	for i := 0; i < 200; i++ {
		next := Step(prev, r, DefaultVolatility, now)
		require.Len(t, next, len(prev))
		for j := range next {
			p0 := prev[j].Price.InexactFloat64()
			p1 := next[j].Price.InexactFloat64()
			// rounding to cents may add half a cent on top of 0.3%
			assert.InDelta(t, p0, p1, p0*DefaultVolatility+0.005)
			assert.Len(t, next[j].History, DefaultHistory)
			assert.Equal(t, "14:05", next[j].History[DefaultHistory-1].Time)
			assert.True(t, next[j].History[DefaultHistory-1].Value.Equal(next[j].Price))
		}
		prev = next
	}
}

func TestStepDoesNotMutatePrevious(t *testing.T) {
	t.Parallel()

	r := seeded()
	prev := Initial(r)
	first := prev[0].History[0]

	_ = Step(prev, r, DefaultVolatility, time.Now())
	assert.Equal(t, first, prev[0].History[0])
	assert.Len(t, prev[0].History, DefaultHistory)
}

func TestStepFloorsPrice(t *testing.T) {
	t.Parallel()

	prev := []Stock{{Symbol: "PENNY", Price: decimal.RequireFromString("0.01")}}
	for i := 0; i < 50; i++ {
		prev = Step(prev, seeded(), 0.5, time.Now())
		assert.True(t, prev[0].Price.GreaterThanOrEqual(minPrice))
	}
}

func TestStepChangeIsAgainstFirstHistoryPoint(t *testing.T) {
	t.Parallel()

	prev := []Stock{{
		Symbol:  "X",
		Price:   decimal.NewFromInt(100),
		History: []Point{{Value: decimal.NewFromInt(50)}, {Value: decimal.NewFromInt(100)}},
	}}
	next := Step(prev, seeded(), 0, time.Now())
	assert.True(t, next[0].Change.Equal(decimal.NewFromInt(50)))
	assert.True(t, next[0].ChangePercent.Equal(decimal.NewFromInt(100)))
}

func TestFeedDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	clock := func() time.Time { return time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC) }
	a := NewFeed(WithRand(seeded()), WithClock(clock))
	b := NewFeed(WithRand(seeded()), WithClock(clock))

	for i := 0; i < 5; i++ {
		sa, sb := a.Tick(), b.Tick()
		for j := range sa {
			assert.True(t, sa[j].Price.Equal(sb[j].Price))
		}
	}
}

func TestFeedPrice(t *testing.T) {
	t.Parallel()

	f := NewFeed(WithRand(seeded()))
	p, ok := f.Price("nvda")
	require.True(t, ok)
	assert.True(t, p.Equal(decimal.RequireFromString("124.50")))

	_, ok = f.Price("ZZZZ")
	assert.False(t, ok)
}

func TestFeedRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	f := NewFeed(WithRand(seeded()))
	ctx, cancel := context.WithCancel(context.Background())

	ticks := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- f.Run(ctx, time.Millisecond, func([]Stock) {
			select {
			case ticks <- struct{}{}:
			default:
			}
		})
	}()

	<-ticks
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
