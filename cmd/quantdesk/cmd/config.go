package cmd

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate, validate or show the settings file",
	Long: `Manage the settings file.

Subcommands:
  init     - Write the default settings
  validate - Load and validate a settings file
  show     - Print the effective settings

Examples:
  quantdesk config init -c quantdesk.yaml
  quantdesk config validate -c quantdesk.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the settings file",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.Default().Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Printf("✓ Created default settings: %s\n", configPath)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	s, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	fmt.Printf("✓ Settings valid: %s (version %d)\n", configPath, s.Version)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	s, err := config.Load(configPath)
	if err != nil {
		return err
	}
	fmt.Printf("Watchlist:      %s\n", strings.Join(s.Watchlist, ", "))
	fmt.Printf("Mode:           %s\n", s.ActiveAccount().Label())
	fmt.Printf("Paper balance:  %s\n", account.FormatUSD(s.PaperBalance))
	fmt.Printf("Real balance:   %s\n", account.FormatUSD(s.RealBalance))
	fmt.Printf("Chart:          %s (alert threshold %.2f)\n", s.ChartType, s.AlertThreshold)
	fmt.Printf("Bot:            %s risk, max drawdown %.1f%%, every %s\n", s.BotRiskLevel, s.BotMaxDrawdown, s.Bot.Interval)
	fmt.Printf("Strategy:       %s (SL %g%%, TP %g%%)\n", s.Bot.Strategy.Name, s.Bot.Strategy.StopLoss, s.Bot.Strategy.TakeProfit)
	fmt.Printf("Journal:        %s\n", s.Journal.Type)
	fmt.Printf("Notifications:  %t\n", s.NotificationsEnabled)
	return nil
}
