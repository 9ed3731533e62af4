package portfolio

import "github.com/shopspring/decimal"

// PriceSource supplies the current market price of a symbol.
type PriceSource interface {
	Price(symbol string) (decimal.Decimal, bool)
}

// Prices is a fixed PriceSource, handy for snapshots and tests.
type Prices map[string]decimal.Decimal

func (p Prices) Price(symbol string) (decimal.Decimal, bool) {
	v, ok := p[NormalizeSymbol(symbol)]
	return v, ok
}

// Valuation is derived on demand and never stored.
type Valuation struct {
	Cash         decimal.Decimal `json:"cash"`
	MarketValue  decimal.Decimal `json:"market_value"`
	CostBasis    decimal.Decimal `json:"cost_basis"`
	Equity       decimal.Decimal `json:"equity"`
	UnrealizedPL decimal.Decimal `json:"unrealized_pl"`
}

// Value marks every position to market. A symbol missing from prices is
// marked at its own average price so that leg contributes no P&L.
func (b *Book) Value(cash decimal.Decimal, prices PriceSource) Valuation {
	v := Valuation{Cash: cash}
	for _, p := range b.positions {
		mark := p.AvgPrice
		if prices != nil {
			if px, ok := prices.Price(p.Symbol); ok {
				mark = px
			}
		}
		v.MarketValue = v.MarketValue.Add(p.Quantity.Mul(mark))
		v.CostBasis = v.CostBasis.Add(p.CostBasis())
	}
	v.Equity = cash.Add(v.MarketValue)
	v.UnrealizedPL = v.MarketValue.Sub(v.CostBasis)
	return v
}
