package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/spf13/cobra"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show positions, equity and unrealized P&L",
	Args:  cobra.NoArgs,
	RunE:  runPortfolio,
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tQTY\tAVG\tLAST\tVALUE\tP&L")
	for _, p := range a.engine.Positions() {
		last, ok := a.feed.Price(p.Symbol)
		if !ok {
			last = p.AvgPrice
		}
		value := p.Quantity.Mul(last)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Symbol, p.Quantity, account.FormatUSD(p.AvgPrice), account.FormatUSD(last),
			account.FormatUSD(value), account.FormatSignedUSD(value.Sub(p.CostBasis())))
	}
	w.Flush()

	v := a.engine.Valuation(nil)
	fmt.Println()
	fmt.Printf("Cash:           %s\n", account.FormatUSD(v.Cash))
	fmt.Printf("Market value:   %s\n", account.FormatUSD(v.MarketValue))
	fmt.Printf("Equity:         %s\n", account.FormatUSD(v.Equity))
	fmt.Printf("Unrealized P&L: %s\n", account.FormatSignedUSD(v.UnrealizedPL))
	return nil
}
