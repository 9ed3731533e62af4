// Package broker defines the order vocabulary shared by the execution
// engine, the strategy runner and the CLI.
package broker

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/shopspring/decimal"
)

type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

func ParseAction(s string) (Action, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "B", "LONG":
		return Buy, nil
	case "SELL", "S":
		return Sell, nil
	}
	return "", fmt.Errorf("unknown action %q (supported: buy, sell)", s)
}

func (a Action) Valid() bool { return a == Buy || a == Sell }

type Status string

const (
	Filled  Status = "FILLED"
	Pending Status = "PENDING"
)

// Source tells where an intent came from.
type Source string

const (
	Manual Source = "manual"
	Bot    Source = "bot"
)

// Intent is a requested trade prior to validation.
// An empty Account means the currently active account.
type Intent struct {
	Symbol   string
	Action   Action
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Account  account.Selector
}

// Total is quantity × price.
func (i Intent) Total() decimal.Decimal {
	return i.Quantity.Mul(i.Price)
}

func (i Intent) String() string {
	return fmt.Sprintf("%s %s %s @ %s", i.Action, i.Quantity, i.Symbol, account.FormatUSD(i.Price))
}

// Synthetic is a bot-generated fill whose only effect on the books is a
// realized profit or loss on the active account.
type Synthetic struct {
	Symbol string
	Action Action
	PnL    decimal.Decimal
}
