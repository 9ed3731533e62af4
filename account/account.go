// Package account holds the two independent cash pools (paper and real)
// and the selector that decides which of them is active.
//
// A State is not safe for concurrent use. It is owned by the execution
// engine, which serializes every read and write.
package account

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Selector names one of the cash pools.
type Selector string

const (
	Paper Selector = "paper"
	Real  Selector = "real"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrUnknownAccount = errors.New("unknown account")
)

var (
	DefaultPaperBalance = decimal.RequireFromString("500000.00")
	DefaultRealBalance  = decimal.RequireFromString("124592.50")
)

// ParseSelector accepts "paper"/"sim"/"simulation" and "real"/"live".
func ParseSelector(s string) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paper", "sim", "simulation":
		return Paper, nil
	case "real", "live":
		return Real, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAccount, s)
}

func (s Selector) Valid() bool { return s == Paper || s == Real }

func (s Selector) String() string { return string(s) }

// Label is the human name used in notifications.
func (s Selector) Label() string {
	if s == Real {
		return "real account"
	}
	return "simulation account"
}

// Balances is a point-in-time copy of the account state.
type Balances struct {
	Paper  decimal.Decimal `json:"paper"`
	Real   decimal.Decimal `json:"real"`
	Active Selector        `json:"active"`
}

// ActiveBalance returns the balance of the active pool.
func (b Balances) ActiveBalance() decimal.Decimal {
	if b.Active == Real {
		return b.Real
	}
	return b.Paper
}

func (b Balances) IsPaperTrading() bool { return b.Active != Real }

type State struct {
	balances map[Selector]decimal.Decimal
	active   Selector
}

func New(paper, real decimal.Decimal, active Selector) *State {
	if !active.Valid() {
		active = Paper
	}
	return &State{
		balances: map[Selector]decimal.Decimal{
			Paper: paper,
			Real:  real,
		},
		active: active,
	}
}

// Default returns the state a fresh install starts with.
func Default() *State {
	return New(DefaultPaperBalance, DefaultRealBalance, Paper)
}

func (s *State) Active() Selector { return s.active }

func (s *State) SetActive(sel Selector) error {
	if !sel.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAccount, sel)
	}
	s.active = sel
	return nil
}

// Resolve maps the empty selector to the active one.
func (s *State) Resolve(sel Selector) (Selector, error) {
	if sel == "" {
		return s.active, nil
	}
	if !sel.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAccount, sel)
	}
	return sel, nil
}

func (s *State) Balance(sel Selector) decimal.Decimal {
	return s.balances[sel]
}

func (s *State) ActiveBalance() decimal.Decimal {
	return s.balances[s.active]
}

// ApplyCashDelta adds delta to the selected pool. It does not check
// sufficiency: callers validate before debiting.
func (s *State) ApplyCashDelta(sel Selector, delta decimal.Decimal) {
	s.balances[sel] = s.balances[sel].Add(delta)
}

// Deposit credits a strictly positive amount to the selected pool.
func (s *State) Deposit(sel Selector, amount decimal.Decimal) error {
	if !sel.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAccount, sel)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit must be positive, got %s", ErrInvalidAmount, amount)
	}
	s.ApplyCashDelta(sel, amount)
	return nil
}

func (s *State) Snapshot() Balances {
	return Balances{
		Paper:  s.balances[Paper],
		Real:   s.balances[Real],
		Active: s.active,
	}
}
