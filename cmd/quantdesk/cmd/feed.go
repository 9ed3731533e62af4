package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/market"
	"github.com/spf13/cobra"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print mock quotes after a number of ticks",
	Args:  cobra.NoArgs,
	RunE:  runFeed,
}

var feedTicks int

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.Flags().IntVarP(&feedTicks, "ticks", "n", 1, "number of ticks to simulate")
}

func runFeed(cmd *cobra.Command, args []string) error {
	f := market.NewFeed()
	stocks := f.Stocks()
	for i := 0; i < feedTicks; i++ {
		stocks = f.Tick()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tNAME\tPRICE\tCHANGE\t%")
	for _, s := range stocks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s%%\n",
			s.Symbol, s.Name, account.FormatUSD(s.Price), account.FormatSignedUSD(s.Change), s.ChangePercent.StringFixed(2))
	}
	return w.Flush()
}
