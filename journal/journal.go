// Package journal records filled trades and equity snapshots.
//
// The Ledger is the in-process, append-only trade history. SQLite, CSV and
// Postgres journals are optional audit sinks written alongside it.
package journal

import (
	"errors"
	"time"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/broker"
	"github.com/shopspring/decimal"
)

// TradeRecord is an immutable fill.
type TradeRecord struct {
	ID       string           `json:"id"`
	Account  account.Selector `json:"account"`
	Symbol   string           `json:"symbol"`
	Action   broker.Action    `json:"action"`
	Quantity decimal.Decimal  `json:"quantity"`
	Price    decimal.Decimal  `json:"price"`
	Total    decimal.Decimal  `json:"total"`
	Time     time.Time        `json:"time"`
	Status   broker.Status    `json:"status"`
	Source   broker.Source    `json:"source"`

	// RealizedPL is only set for synthetic bot fills.
	RealizedPL decimal.Decimal `json:"realized_pl"`
}

type EquitySnapshot struct {
	Time         time.Time        `json:"time"`
	Account      account.Selector `json:"account"`
	Balance      decimal.Decimal  `json:"balance"`
	Equity       decimal.Decimal  `json:"equity"`
	UnrealizedPL decimal.Decimal  `json:"unrealized_pl"`
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Multi writes to every journal in order and joins their errors.
type Multi []Journal

func (m Multi) RecordTrade(t TradeRecord) error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.RecordTrade(t))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordEquity(e EquitySnapshot) error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.RecordEquity(e))
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.Close())
	}
	return errors.Join(errs...)
}

// Discard drops everything.
type Discard struct{}

func (Discard) RecordTrade(TradeRecord) error     { return nil }
func (Discard) RecordEquity(EquitySnapshot) error { return nil }
func (Discard) Close() error                      { return nil }
