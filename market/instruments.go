package market

import "github.com/shopspring/decimal"

// InstrumentMeta is the static description of a listed symbol.
type InstrumentMeta struct {
	Symbol    string
	Name      string
	Sector    string
	Volume    string
	MarketCap string

	// Seed price and the band the synthetic history is drawn from.
	Price     decimal.Decimal
	HistoryLo float64
	HistoryHi float64
}

// Instruments seeds the mock feed.
var Instruments = []InstrumentMeta{
	{
		Symbol:    "NVDA",
		Name:      "NVIDIA Corp",
		Sector:    "Technology",
		Volume:    "45.2M",
		MarketCap: "3.1T",
		Price:     decimal.RequireFromString("124.50"),
		HistoryLo: 118,
		HistoryHi: 128,
	},
	{
		Symbol:    "TSLA",
		Name:      "Tesla Inc",
		Sector:    "Auto",
		Volume:    "28.1M",
		MarketCap: "580B",
		Price:     decimal.RequireFromString("175.30"),
		HistoryLo: 173,
		HistoryHi: 181,
	},
	{
		Symbol:    "AAPL",
		Name:      "Apple Inc",
		Sector:    "Consumer Electronics",
		Volume:    "15.6M",
		MarketCap: "3.2T",
		Price:     decimal.RequireFromString("210.15"),
		HistoryLo: 209,
		HistoryHi: 213,
	},
}

// Tickers is the universe the news feed and the strategy runner draw from.
var Tickers = []string{"NVDA", "TSLA", "AAPL", "MSFT", "AMD", "GOOGL", "AMZN", "META"}
