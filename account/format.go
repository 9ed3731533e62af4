package account

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatUSD renders an amount as "$1,234.56", rounding to cents.
func FormatUSD(amount decimal.Decimal) string {
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// FormatSignedUSD prefixes gains with "+" so P&L lines read "+$12.00" / "-$3.50".
func FormatSignedUSD(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + FormatUSD(amount)
	}
	return FormatUSD(amount)
}
