package journal

import (
	"fmt"
	"sync"
)

// Ledger is the append-only trade history. Records are kept in insertion
// order and exposed newest first. RecordTrade is the only mutator.
type Ledger struct {
	mu     sync.RWMutex
	trades []TradeRecord
	index  map[string]int
	equity []EquitySnapshot
}

func NewLedger() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

func (l *Ledger) RecordTrade(t TradeRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t.ID != "" {
		if _, dup := l.index[t.ID]; dup {
			return fmt.Errorf("record trade: duplicate id %q", t.ID)
		}
		l.index[t.ID] = len(l.trades)
	}
	l.trades = append(l.trades, t)
	return nil
}

func (l *Ledger) RecordEquity(e EquitySnapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.equity = append(l.equity, e)
	return nil
}

func (l *Ledger) Close() error { return nil }

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.trades)
}

// Trades returns a copy of the history, newest first.
func (l *Ledger) Trades() []TradeRecord {
	return l.Recent(-1)
}

// Recent returns at most n records, newest first. n < 0 means all.
func (l *Ledger) Recent(n int) []TradeRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n < 0 || n > len(l.trades) {
		n = len(l.trades)
	}
	out := make([]TradeRecord, 0, n)
	for i := len(l.trades) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.trades[i])
	}
	return out
}

func (l *Ledger) Get(id string) (TradeRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.index[id]
	if !ok {
		return TradeRecord{}, false
	}
	return l.trades[i], true
}

// Equity returns the recorded snapshots in insertion order.
func (l *Ledger) Equity() []EquitySnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]EquitySnapshot, len(l.equity))
	copy(out, l.equity)
	return out
}
