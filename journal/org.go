package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/broker"
	"github.com/rustyeddy/quantdesk/id"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode block. Structured
// facts live in a PROPERTIES drawer so they stay searchable.
func FormatTradeOrg(t TradeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** %s %s %s (%s)\n", t.Action, t.Quantity, t.Symbol, id.Short(t.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.ID)
	fmt.Fprintf(&b, ":ACCOUNT: %s\n", t.Account)
	fmt.Fprintf(&b, ":SYMBOL: %s\n", t.Symbol)
	fmt.Fprintf(&b, ":ACTION: %s\n", t.Action)
	fmt.Fprintf(&b, ":QUANTITY: %s\n", t.Quantity)
	fmt.Fprintf(&b, ":PRICE: %s\n", t.Price.StringFixed(2))
	fmt.Fprintf(&b, ":TOTAL: %s\n", t.Total.StringFixed(2))
	fmt.Fprintf(&b, ":STATUS: %s\n", t.Status)
	fmt.Fprintf(&b, ":SOURCE: %s\n", t.Source)
	if t.Source == broker.Bot {
		fmt.Fprintf(&b, ":REALIZED_PL: %s\n", t.RealizedPL.StringFixed(2))
	}
	fmt.Fprintf(&b, ":TIME: %s\n", t.Time.UTC().Format(time.RFC3339))
	b.WriteString(":END:\n")
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

// FormatTradeLine is the one-line form used by notifications and logs.
func FormatTradeLine(t TradeRecord) string {
	if t.Source == broker.Bot {
		return fmt.Sprintf("%s %s | PnL: %s", t.Action, t.Symbol, account.FormatSignedUSD(t.RealizedPL))
	}
	return fmt.Sprintf("%s %s %s @ %s", t.Action, t.Quantity, t.Symbol, account.FormatUSD(t.Price))
}
