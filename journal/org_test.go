package journal

import (
	"strings"
	"testing"

	"github.com/rustyeddy/quantdesk/broker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	rec := testRecord("01HZX3ABCDEFGHJK", "NVDA", "100", "124.5")
	out := FormatTradeOrg(rec)

	assert.True(t, strings.HasPrefix(out, "** BUY 100 NVDA (01HZX3AB)\n"))
	assert.Contains(t, out, ":TRADE_ID: 01HZX3ABCDEFGHJK")
	assert.Contains(t, out, ":PRICE: 124.50")
	assert.Contains(t, out, ":TOTAL: 12450.00")
	assert.Contains(t, out, ":TIME: 2024-01-02T03:04:05Z")
	assert.NotContains(t, out, ":REALIZED_PL:")
	assert.True(t, strings.HasSuffix(out, ":END:\n"))
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	out := FormatTradesOrg([]TradeRecord{
		testRecord("A", "NVDA", "1", "1"),
		testRecord("B", "TSLA", "1", "1"),
	})
	assert.Equal(t, 2, strings.Count(out, ":PROPERTIES:"))
	assert.Empty(t, FormatTradesOrg(nil))
}

func TestFormatTradeLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BUY 100 NVDA @ $124.50", FormatTradeLine(testRecord("A", "NVDA", "100", "124.5")))

	bot := testRecord("B", "TSLA", "1", "1")
	bot.Source = broker.Bot
	bot.Action = broker.Sell
	bot.RealizedPL = decimal.RequireFromString("-42.1")
	assert.Equal(t, "SELL TSLA | PnL: -$42.10", FormatTradeLine(bot))
	assert.Contains(t, FormatTradeOrg(bot), ":REALIZED_PL: -42.10")
}
