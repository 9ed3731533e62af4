package strategy

import "github.com/shopspring/decimal"

// Metrics are the session statistics. They survive Stop/Start and are
// cleared only by ResetMetrics, which also resets the drawdown baselines.
type Metrics struct {
	SessionPnL decimal.Decimal
	TradeCount int
	WinCount   int
}

func (m *Metrics) record(pnl decimal.Decimal) {
	m.SessionPnL = m.SessionPnL.Add(pnl)
	m.TradeCount++
	if pnl.IsPositive() {
		m.WinCount++
	}
}

// WinRate is WinCount / TradeCount in [0, 1], 0 before the first trade.
func (m Metrics) WinRate() float64 {
	if m.TradeCount == 0 {
		return 0
	}
	return float64(m.WinCount) / float64(m.TradeCount)
}

func (r *Runner) Metrics() Metrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.metrics
}

func (r *Runner) ResetMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = Metrics{}
	clear(r.baselines)
}
