// Package news generates the mock headline stream.
package news

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rustyeddy/quantdesk/id"
	"github.com/rustyeddy/quantdesk/market"
)

type Sentiment string

const (
	Bullish Sentiment = "Bullish"
	Bearish Sentiment = "Bearish"
	Neutral Sentiment = "Neutral"
)

type Region string

const (
	Global Region = "Global"
	US     Region = "US"
	EU     Region = "EU"
	Asia   Region = "Asia"
)

// Item is one headline. SentimentScore is in [-1, 1].
type Item struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Source         string    `json:"source"`
	Time           time.Time `json:"time"`
	Summary        string    `json:"summary"`
	Sentiment      Sentiment `json:"sentiment"`
	SentimentScore float64   `json:"sentimentScore"`
	ImpactAnalysis string    `json:"impactAnalysis,omitempty"`
	RelatedTickers []string  `json:"relatedTickers"`
	Region         Region    `json:"region"`
}

type template struct {
	title, summary string
	sentiment      Sentiment
}

var (
	sources = []string{"Global Finance Wire", "Tech Daily", "Energy Markets Report", "Crypto Insider", "BioTech Weekly"}
	regions = []Region{Global, US, EU, Asia}

	templates = []template{
		{"{ticker} Reports Q3 Earnings Beat", "Revenue exceeds expectations by 15% driven by AI sector demand.", Bullish},
		{"Regulatory Scrutiny Increases for {ticker}", "Antitrust investigation launched regarding recent acquisitions.", Bearish},
		{"{ticker} Announces Strategic Partnership", "New collaboration aims to accelerate next-gen product development.", Bullish},
		{"Supply Chain Disruptions Hit {ticker}", "Component shortages may delay shipments for the upcoming quarter.", Bearish},
		{"Analyst Upgrade for {ticker}", "Price target raised due to strong market positioning.", Bullish},
		{"Market Volatility Impacts {ticker}", "Shares slide amidst broader tech sector sell-off.", Bearish},
		{"{ticker} Unveils New AI Chip", "Revolutionary architecture promises 2x performance gains.", Bullish},
		{"CEO of {ticker} Steps Down", "Unexpected leadership change causes minor market turbulence.", Neutral},
	}
)

// Initial is the headline list shown before the generator has run.
func Initial(now time.Time) []Item {
	return []Item{
		{
			ID:             "1",
			Title:          "Federal Reserve Signals Potential Rate Cut in Q3",
			Source:         "Global Finance Wire",
			Time:           now.Add(-10 * time.Minute),
			Summary:        "Central bank officials hint at easing monetary policy as inflation metrics stabilize across key sectors.",
			Sentiment:      Bullish,
			SentimentScore: 0.75,
			RelatedTickers: []string{"SPY", "QQQ", "TLT"},
			Region:         US,
		},
		{
			ID:             "2",
			Title:          "New Semiconductor Trade Restrictions Announced by EU",
			Source:         "Tech Daily",
			Time:           now.Add(-45 * time.Minute),
			Summary:        "European Union implements stricter export controls on advanced chip manufacturing equipment.",
			Sentiment:      Bearish,
			SentimentScore: -0.6,
			RelatedTickers: []string{"ASML", "INTC", "AMD"},
			Region:         EU,
		},
		{
			ID:             "3",
			Title:          "Oil Prices Surge Amidst Middle East Tensions",
			Source:         "Energy Markets Report",
			Time:           now.Add(-2 * time.Hour),
			Summary:        "Geopolitical instability in key shipping lanes drives crude oil futures to a 3-month high.",
			Sentiment:      Neutral,
			SentimentScore: 0.1,
			RelatedTickers: []string{"XOM", "CVX", "USO"},
			Region:         Global,
		},
	}
}

type Generator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	now     func() time.Time
	tickers []string
}

type Option func(*Generator)

func WithRand(r *rand.Rand) Option { return func(g *Generator) { g.rng = r } }

func WithClock(now func() time.Time) Option { return func(g *Generator) { g.now = now } }

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		tickers: market.Tickers,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Next draws a headline from a random template and ticker.
func (g *Generator) Next() Item {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := templates[g.rng.Intn(len(templates))]
	ticker := g.tickers[g.rng.Intn(len(g.tickers))]

	var score float64
	switch t.sentiment {
	case Bullish:
		score = 0.6 + g.rng.Float64()*0.3
	case Bearish:
		score = -0.6 - g.rng.Float64()*0.3
	default:
		score = g.rng.Float64()*0.2 - 0.1
	}

	return Item{
		ID:             id.Short(id.New()),
		Title:          strings.ReplaceAll(t.title, "{ticker}", ticker),
		Source:         sources[g.rng.Intn(len(sources))],
		Time:           g.now(),
		Summary:        strings.ReplaceAll(t.summary, "{ticker}", ticker),
		Sentiment:      t.sentiment,
		SentimentScore: math.Round(score*100) / 100,
		RelatedTickers: []string{ticker},
		Region:         regions[g.rng.Intn(len(regions))],
	}
}
