package news

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSentimentRanges(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	g := NewGenerator(WithRand(rand.New(rand.NewSource(7))), WithClock(func() time.Time { return fixed }))

	seen := map[Sentiment]bool{}
	for i := 0; i < 500; i++ {
		it := g.Next()
		seen[it.Sentiment] = true

		require.Len(t, it.RelatedTickers, 1)
		assert.Contains(t, it.Title, it.RelatedTickers[0])
		assert.NotContains(t, it.Title, "{ticker}")
		assert.Equal(t, fixed, it.Time)
		assert.NotEmpty(t, it.ID)
		assert.Contains(t, []Region{Global, US, EU, Asia}, it.Region)

		switch it.Sentiment {
		case Bullish:
			assert.GreaterOrEqual(t, it.SentimentScore, 0.6)
			assert.LessOrEqual(t, it.SentimentScore, 0.9)
		case Bearish:
			assert.LessOrEqual(t, it.SentimentScore, -0.6)
			assert.GreaterOrEqual(t, it.SentimentScore, -0.9)
		case Neutral:
			assert.GreaterOrEqual(t, it.SentimentScore, -0.1)
			assert.LessOrEqual(t, it.SentimentScore, 0.1)
			assert.True(t, strings.HasPrefix(it.Title, "CEO of "))
		}
	}
	assert.Len(t, seen, 3)
}

func TestInitial(t *testing.T) {
	t.Parallel()

	now := time.Now()
	items := Initial(now)
	require.Len(t, items, 3)
	assert.Equal(t, Bullish, items[0].Sentiment)
	assert.True(t, items[2].Time.Before(items[0].Time))
}
