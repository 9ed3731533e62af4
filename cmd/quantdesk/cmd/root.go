package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quantdesk",
	Short: "A simulated trading desk for US equities",
	Long: `Quantdesk is a paper and simulated-real trading desk written in Go.

It provides tools for:
  - Placing manual BUY/SELL orders against a mock quote feed
  - Tracking positions, equity and unrealized P&L
  - Running the synthetic trading bot and watching its session metrics
  - Querying the trade journal
  - Serving the desk as a JSON API with a live websocket feed
  - Mock news with AI impact analysis and a co-pilot chat`,
	SilenceUsage: true,
}

var configPath string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./quantdesk.yaml", "settings file")
}
