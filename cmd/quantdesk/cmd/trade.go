package cmd

import (
	"fmt"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/broker"
	"github.com/rustyeddy/quantdesk/journal"
	"github.com/rustyeddy/quantdesk/portfolio"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Place a manual order",
	Long: `Place a market order against the mock feed, or at an explicit price.

Examples:
  quantdesk trade buy NVDA 100
  quantdesk trade sell NVDA 50 --price 130`,
}

var tradeBuyCmd = &cobra.Command{
	Use:   "buy <symbol> <quantity>",
	Short: "Buy shares",
	Args:  cobra.ExactArgs(2),
	RunE:  func(cmd *cobra.Command, args []string) error { return runTrade(cmd, broker.Buy, args) },
}

var tradeSellCmd = &cobra.Command{
	Use:   "sell <symbol> <quantity>",
	Short: "Sell shares",
	Args:  cobra.ExactArgs(2),
	RunE:  func(cmd *cobra.Command, args []string) error { return runTrade(cmd, broker.Sell, args) },
}

var (
	tradePrice   string
	tradeAccount string
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeBuyCmd)
	tradeCmd.AddCommand(tradeSellCmd)

	tradeCmd.PersistentFlags().StringVarP(&tradePrice, "price", "p", "", "limit price (default: current feed price)")
	tradeCmd.PersistentFlags().StringVarP(&tradeAccount, "account", "a", "", "paper or real (default: active account)")
}

func runTrade(cmd *cobra.Command, action broker.Action, args []string) error {
	symbol := portfolio.NormalizeSymbol(args[0])
	qty, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	var sel account.Selector
	if tradeAccount != "" {
		if sel, err = account.ParseSelector(tradeAccount); err != nil {
			return err
		}
	}

	a, err := openApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	price, err := resolvePrice(a, symbol)
	if err != nil {
		return err
	}

	in := broker.Intent{Symbol: symbol, Action: action, Quantity: qty, Price: price, Account: sel}
	rec, err := a.engine.Execute(cmd.Context(), in)
	if err != nil {
		return err
	}
	if err := a.saveBalances(); err != nil {
		return err
	}

	fmt.Printf("✓ %s\n", journal.FormatTradeLine(rec))
	fmt.Printf("  Trade ID: %s\n", rec.ID)
	fmt.Printf("  Total:    %s\n", account.FormatUSD(rec.Total))
	printBalances(a.engine.Account())
	return nil
}

func resolvePrice(a *app, symbol string) (decimal.Decimal, error) {
	if tradePrice != "" {
		p, err := decimal.NewFromString(tradePrice)
		if err != nil {
			return decimal.Zero, fmt.Errorf("price: %w", err)
		}
		return p, nil
	}
	p, ok := a.feed.Price(symbol)
	if !ok {
		return decimal.Zero, fmt.Errorf("no quote for %s, pass --price", symbol)
	}
	return p, nil
}
