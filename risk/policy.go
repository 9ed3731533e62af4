// Package risk holds the circuit breakers the bot checks before each
// synthetic fill.
package risk

import "github.com/shopspring/decimal"

type Policy struct {
	// MaxDrawdownPct is the largest loss from the session's starting
	// balance, in percent (5.0 is 5%). Zero disables the check.
	MaxDrawdownPct float64
}

type Snapshot struct {
	Start   decimal.Decimal
	Current decimal.Decimal
}

// DrawdownPct is the loss from Start in percent, zero when in profit.
func (s Snapshot) DrawdownPct() float64 {
	if !s.Start.IsPositive() || s.Current.GreaterThanOrEqual(s.Start) {
		return 0
	}
	pct, _ := s.Start.Sub(s.Current).Div(s.Start).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
