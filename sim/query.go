package sim

import (
	"fmt"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/broker"
	"github.com/rustyeddy/quantdesk/journal"
	"github.com/rustyeddy/quantdesk/portfolio"
)

// Account returns a copy of the balances. The strategy runner reads it on
// every tick, so it always sees the latest state.
func (e *Engine) Account() account.Balances {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acct.Snapshot()
}

// SetActive switches between the paper and real accounts.
func (e *Engine) SetActive(sel account.Selector) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acct.SetActive(sel)
}

func (e *Engine) Positions() []portfolio.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Positions()
}

func (e *Engine) Position(symbol string) (portfolio.Position, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Get(symbol)
}

// Trades returns the ledger, newest first.
func (e *Engine) Trades() []journal.TradeRecord {
	return e.ledger.Trades()
}

// Valuation marks the book against prices, or the engine's own feed when
// prices is nil, using the active balance as cash.
func (e *Engine) Valuation(prices portfolio.PriceSource) portfolio.Valuation {
	e.mu.Lock()
	defer e.mu.Unlock()

	if prices == nil {
		prices = e.prices
	}
	return e.book.Value(e.acct.ActiveBalance(), prices)
}

// Restore replays persisted manual fills into the book and the ledger
// without touching balances or the audit journal. Bot events are skipped:
// they never held positions.
func (e *Engine) Restore(records []journal.TradeRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range records {
		if r.Source == broker.Bot || r.Status != broker.Filled {
			continue
		}
		if err := e.book.ApplyFill(r.Symbol, r.Action, r.Quantity, r.Price); err != nil {
			return fmt.Errorf("restore %s: %w", r.ID, err)
		}
		if err := e.ledger.RecordTrade(r); err != nil {
			return fmt.Errorf("restore %s: %w", r.ID, err)
		}
	}
	return nil
}
