// Package sim is the execution engine. It is the single writer of the
// account balances, the position book and the trade ledger: every
// mutation happens under one mutex so a fill is never half-applied.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/broker"
	"github.com/rustyeddy/quantdesk/id"
	"github.com/rustyeddy/quantdesk/journal"
	"github.com/rustyeddy/quantdesk/notify"
	"github.com/rustyeddy/quantdesk/portfolio"
	"github.com/shopspring/decimal"
)

type Engine struct {
	mu      sync.Mutex
	acct    *account.State
	book    *portfolio.Book
	ledger  *journal.Ledger
	journal journal.Journal
	prices  portfolio.PriceSource
	sink    notify.Sink
	now     func() time.Time
	newID   func() string
}

type Option func(*Engine)

// WithJournal adds an audit journal written after every mutation.
func WithJournal(j journal.Journal) Option { return func(e *Engine) { e.journal = j } }

// WithPrices sets the feed used for equity snapshots.
func WithPrices(p portfolio.PriceSource) Option { return func(e *Engine) { e.prices = p } }

func WithNotifier(s notify.Sink) Option { return func(e *Engine) { e.sink = s } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func WithIDs(fn func() string) Option { return func(e *Engine) { e.newID = fn } }

// NewEngine takes ownership of acct, book and ledger. Nil arguments are
// replaced by fresh defaults.
func NewEngine(acct *account.State, book *portfolio.Book, ledger *journal.Ledger, opts ...Option) *Engine {
	if acct == nil {
		acct = account.Default()
	}
	if book == nil {
		book = portfolio.NewBook()
	}
	if ledger == nil {
		ledger = journal.NewLedger()
	}
	e := &Engine{
		acct:    acct,
		book:    book,
		ledger:  ledger,
		journal: journal.Discard{},
		sink:    notify.Discard{},
		now:     time.Now,
		newID:   id.New,
	}
	for _, o := range opts {
		o(e)
	}
	if e.journal == nil {
		e.journal = journal.Discard{}
	}
	if e.sink == nil {
		e.sink = notify.Discard{}
	}
	return e
}

type notice struct {
	title, message string
	sev            notify.Severity
}

// emit runs after the lock is released so a slow sink never holds up
// another fill.
func (e *Engine) emit(sink notify.Sink, n *notice) {
	if n == nil || sink == nil {
		return
	}
	sink.Notify(n.title, n.message, n.sev)
}

// Execute validates an intent and applies it. Checks run in order and the
// first failure wins: quantity, then funds for a BUY, then holdings for a
// SELL. On success cash and position move together, a FILLED record is
// appended to the ledger and the record is returned.
func (e *Engine) Execute(ctx context.Context, in broker.Intent) (journal.TradeRecord, error) {
	if err := ctx.Err(); err != nil {
		return journal.TradeRecord{}, err
	}

	e.mu.Lock()
	rec, n, err := e.executeLocked(in)
	sink := e.sink
	e.mu.Unlock()

	e.emit(sink, n)
	return rec, err
}

func (e *Engine) executeLocked(in broker.Intent) (journal.TradeRecord, *notice, error) {
	reject := func(err error) (journal.TradeRecord, *notice, error) {
		return journal.TradeRecord{}, &notice{rejectionTitle(err), err.Error(), notify.Error}, err
	}

	if !in.Quantity.IsPositive() {
		return reject(fmt.Errorf("%w: please enter a valid quantity, got %s", ErrInvalidQuantity, in.Quantity))
	}
	if !in.Price.IsPositive() {
		return reject(fmt.Errorf("%w: %s", ErrInvalidPrice, in.Price))
	}
	if !in.Action.Valid() {
		return reject(fmt.Errorf("execute: unknown action %q", in.Action))
	}
	symbol := portfolio.NormalizeSymbol(in.Symbol)
	if symbol == "" {
		return reject(errors.New("execute: symbol is required"))
	}
	sel, err := e.acct.Resolve(in.Account)
	if err != nil {
		return reject(err)
	}

	total := in.Quantity.Mul(in.Price)
	delta := total

	switch in.Action {
	case broker.Buy:
		available := e.acct.Balance(sel)
		if total.GreaterThan(available) {
			return reject(&InsufficientFundsError{Account: sel, Required: total, Available: available})
		}
		delta = total.Neg()
	case broker.Sell:
		if err := e.book.CheckSell(symbol, in.Quantity); err != nil {
			return reject(err)
		}
	}

	rec := journal.TradeRecord{
		ID:       e.newID(),
		Account:  sel,
		Symbol:   symbol,
		Action:   in.Action,
		Quantity: in.Quantity,
		Price:    in.Price,
		Total:    total,
		Time:     e.now(),
		Status:   broker.Filled,
		Source:   broker.Manual,
	}
	if _, dup := e.ledger.Get(rec.ID); dup {
		return reject(fmt.Errorf("execute: duplicate trade id %q", rec.ID))
	}

	// Nothing below may fail after the book accepts the fill.
	if err := e.book.ApplyFill(symbol, in.Action, in.Quantity, in.Price); err != nil {
		return reject(err)
	}
	e.acct.ApplyCashDelta(sel, delta)
	if err := e.ledger.RecordTrade(rec); err != nil {
		log.Printf("ledger: %v", err)
	}

	e.auditLocked(rec, sel)

	msg := fmt.Sprintf("%s %s %s @ %s (%s balance: %s)",
		rec.Action, rec.Quantity, rec.Symbol, account.FormatUSD(rec.Price),
		sel, account.FormatUSD(e.acct.Balance(sel)))
	return rec, &notice{"Order Executed", msg, notify.Success}, nil
}

// ApplyPnL books a synthetic bot fill: the realized profit or loss moves
// the active balance and the event goes to the audit journal. It never
// touches the position book or the trade ledger.
func (e *Engine) ApplyPnL(ctx context.Context, s broker.Synthetic) (journal.TradeRecord, error) {
	if err := ctx.Err(); err != nil {
		return journal.TradeRecord{}, err
	}

	e.mu.Lock()
	rec, n, err := e.applyPnLLocked(s)
	sink := e.sink
	e.mu.Unlock()

	e.emit(sink, n)
	return rec, err
}

func (e *Engine) applyPnLLocked(s broker.Synthetic) (journal.TradeRecord, *notice, error) {
	sel := e.acct.Active()
	bal := e.acct.Balance(sel)
	if bal.Add(s.PnL).IsNegative() {
		err := &InsufficientFundsError{Account: sel, Required: s.PnL.Neg(), Available: bal}
		return journal.TradeRecord{}, nil, err
	}
	action := s.Action
	if !action.Valid() {
		action = broker.Buy
	}

	e.acct.ApplyCashDelta(sel, s.PnL)
	rec := journal.TradeRecord{
		ID:         e.newID(),
		Account:    sel,
		Symbol:     portfolio.NormalizeSymbol(s.Symbol),
		Action:     action,
		Time:       e.now(),
		Status:     broker.Filled,
		Source:     broker.Bot,
		RealizedPL: s.PnL,
	}
	e.auditLocked(rec, sel)

	sev := notify.Success
	if !s.PnL.IsPositive() {
		sev = notify.Warning
	}
	msg := fmt.Sprintf("%s order filled. Result: %s (New Balance: %s)",
		rec.Action, account.FormatSignedUSD(s.PnL), account.FormatUSD(e.acct.Balance(sel)))
	return rec, &notice{"Trade Executed: " + rec.Symbol, msg, sev}, nil
}

// Deposit credits a positive amount to sel (the active account when empty).
func (e *Engine) Deposit(ctx context.Context, sel account.Selector, amount decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	var n *notice
	target, err := e.acct.Resolve(sel)
	if err == nil {
		err = e.acct.Deposit(target, amount)
	}
	if err != nil {
		n = &notice{"Deposit Failed", "Please enter a valid positive amount.", notify.Error}
	} else {
		e.snapshotLocked(target)
		if target == account.Paper {
			n = &notice{"Paper Funds Added", account.FormatUSD(amount) + " added to simulation account.", notify.Success}
		} else {
			n = &notice{"Deposit Successful", account.FormatUSD(amount) + " has been deposited to your real account.", notify.Success}
		}
	}
	sink := e.sink
	e.mu.Unlock()

	e.emit(sink, n)
	return err
}

// auditLocked writes the record and an equity snapshot to the audit
// journal. Failures are logged: the books are already updated.
func (e *Engine) auditLocked(rec journal.TradeRecord, sel account.Selector) {
	if err := e.journal.RecordTrade(rec); err != nil {
		log.Printf("journal trade %s: %v", rec.ID, err)
	}
	e.snapshotLocked(sel)
}

func (e *Engine) snapshotLocked(sel account.Selector) {
	bal := e.acct.Balance(sel)
	v := e.book.Value(bal, e.prices)
	snap := journal.EquitySnapshot{
		Time:         e.now(),
		Account:      sel,
		Balance:      bal,
		Equity:       v.Equity,
		UnrealizedPL: v.UnrealizedPL,
	}
	if err := e.ledger.RecordEquity(snap); err != nil {
		log.Printf("ledger equity: %v", err)
	}
	if err := e.journal.RecordEquity(snap); err != nil {
		log.Printf("journal equity: %v", err)
	}
}
