// Package portfolio keeps aggregate holdings per symbol at weighted
// average cost.
package portfolio

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/quantdesk/broker"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrNoPosition           = errors.New("no position")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
)

type Position struct {
	Symbol   string          `json:"symbol" yaml:"symbol"`
	Quantity decimal.Decimal `json:"quantity" yaml:"quantity"`
	AvgPrice decimal.Decimal `json:"avg_price" yaml:"avg_price"`
}

// CostBasis is quantity × average price.
func (p Position) CostBasis() decimal.Decimal {
	return p.Quantity.Mul(p.AvgPrice)
}

// Book maps symbol to holding. Only positions with a strictly positive
// quantity are ever stored. A Book is not safe for concurrent use.
type Book struct {
	positions map[string]Position
}

func NewBook() *Book {
	return &Book{positions: make(map[string]Position)}
}

// NormalizeSymbol upper-cases and trims a ticker.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func (b *Book) Get(symbol string) (Position, bool) {
	p, ok := b.positions[NormalizeSymbol(symbol)]
	return p, ok
}

// Held returns the quantity held for symbol, zero when absent.
func (b *Book) Held(symbol string) decimal.Decimal {
	p, ok := b.Get(symbol)
	if !ok {
		return decimal.Zero
	}
	return p.Quantity
}

func (b *Book) Len() int { return len(b.positions) }

// Positions returns a copy of the holdings sorted by symbol.
func (b *Book) Positions() []Position {
	out := make([]Position, 0, len(b.positions))
	for _, p := range b.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// CheckSell reports whether qty of symbol can be sold without touching the book.
func (b *Book) CheckSell(symbol string, qty decimal.Decimal) error {
	p, ok := b.Get(symbol)
	if !ok {
		return fmt.Errorf("%w: %w in %s", ErrInsufficientHoldings, ErrNoPosition, NormalizeSymbol(symbol))
	}
	if qty.GreaterThan(p.Quantity) {
		return fmt.Errorf("%w: you only have %s %s, tried to sell %s",
			ErrInsufficientHoldings, p.Quantity, p.Symbol, qty)
	}
	return nil
}

// ApplyFill books a filled trade.
//
// BUY creates the position or recomputes the weighted average price.
// SELL reduces the quantity and keeps the average price; selling the whole
// holding removes the entry. A rejected fill leaves the book unchanged.
func (b *Book) ApplyFill(symbol string, action broker.Action, qty, price decimal.Decimal) error {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return errors.New("apply fill: empty symbol")
	}
	if !qty.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidQuantity, qty)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}

	existing, ok := b.positions[symbol]

	switch action {
	case broker.Buy:
		if !ok {
			b.positions[symbol] = Position{Symbol: symbol, Quantity: qty, AvgPrice: price}
			return nil
		}
		newQty := existing.Quantity.Add(qty)
		cost := existing.CostBasis().Add(qty.Mul(price))
		b.positions[symbol] = Position{
			Symbol:   symbol,
			Quantity: newQty,
			AvgPrice: cost.Div(newQty),
		}
		return nil

	case broker.Sell:
		if !ok {
			return fmt.Errorf("%w: %s", ErrNoPosition, symbol)
		}
		if qty.GreaterThan(existing.Quantity) {
			return fmt.Errorf("%w: have %s %s, sell %s", ErrInsufficientHoldings, existing.Quantity, symbol, qty)
		}
		newQty := existing.Quantity.Sub(qty)
		if !newQty.IsPositive() {
			delete(b.positions, symbol)
			return nil
		}
		existing.Quantity = newQty
		b.positions[symbol] = existing
		return nil
	}

	return fmt.Errorf("apply fill: unknown action %q", action)
}

// Clone returns an independent copy of the book.
func (b *Book) Clone() *Book {
	c := NewBook()
	for k, v := range b.positions {
		c.positions[k] = v
	}
	return c
}
