package market

import "github.com/shopspring/decimal"

// Point is one sample of the rolling price history.
type Point struct {
	Time  string          `json:"time"`
	Value decimal.Decimal `json:"value"`
}

// Stock is the feed's view of one symbol.
type Stock struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Sector        string          `json:"sector"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Volume        string          `json:"volume"`
	MarketCap     string          `json:"market_cap"`
	History       []Point         `json:"history"`
}

func (s Stock) clone() Stock {
	h := make([]Point, len(s.History))
	copy(h, s.History)
	s.History = h
	return s
}
