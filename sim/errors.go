package sim

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/portfolio"
	"github.com/shopspring/decimal"
)

// Rejections surfaced by the engine. All are local validation failures;
// none are retried.
var (
	ErrInvalidQuantity      = portfolio.ErrInvalidQuantity
	ErrInvalidPrice         = portfolio.ErrInvalidPrice
	ErrInvalidAmount        = account.ErrInvalidAmount
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = portfolio.ErrInsufficientHoldings
	ErrNoPosition           = portfolio.ErrNoPosition
)

// InsufficientFundsError carries the required and available amounts.
type InsufficientFundsError struct {
	Account   account.Selector
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: you need %s but only have %s",
		account.FormatUSD(e.Required), account.FormatUSD(e.Available))
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// rejectionTitle is the notification title for a rejected request.
func rejectionTitle(err error) string {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		return "Invalid Quantity"
	case errors.Is(err, ErrInvalidPrice):
		return "Invalid Price"
	case errors.Is(err, ErrInsufficientFunds):
		return "Insufficient Funds"
	case errors.Is(err, ErrInsufficientHoldings), errors.Is(err, ErrNoPosition):
		return "Insufficient Holdings"
	case errors.Is(err, ErrInvalidAmount):
		return "Deposit Failed"
	}
	return "Order Rejected"
}
