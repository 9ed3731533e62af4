package cmd

import (
	"fmt"

	"github.com/rustyeddy/quantdesk/account"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show balances, deposit funds or switch trading mode",
}

var accountShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show both balances and the active account",
	Args:  cobra.NoArgs,
	RunE:  runAccountShow,
}

var accountDepositCmd = &cobra.Command{
	Use:   "deposit <amount>",
	Short: "Deposit funds into an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountDeposit,
}

var accountModeCmd = &cobra.Command{
	Use:   "mode <paper|real>",
	Short: "Switch between paper and real trading",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountMode,
}

var depositAccount string

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountShowCmd)
	accountCmd.AddCommand(accountDepositCmd)
	accountCmd.AddCommand(accountModeCmd)

	accountDepositCmd.Flags().StringVarP(&depositAccount, "account", "a", "", "paper or real (default: active account)")
}

func runAccountShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	b := a.engine.Account()
	printBalances(b)
	return nil
}

func printBalances(b account.Balances) {
	mark := func(sel account.Selector) string {
		if b.Active == sel {
			return "*"
		}
		return " "
	}
	fmt.Printf("%s Paper  %s\n", mark(account.Paper), account.FormatUSD(b.Paper))
	fmt.Printf("%s Real   %s\n", mark(account.Real), account.FormatUSD(b.Real))
}

func runAccountDeposit(cmd *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	var sel account.Selector
	if depositAccount != "" {
		if sel, err = account.ParseSelector(depositAccount); err != nil {
			return err
		}
	}

	a, err := openApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.engine.Deposit(cmd.Context(), sel, amount); err != nil {
		return err
	}
	if err := a.saveBalances(); err != nil {
		return err
	}
	printBalances(a.engine.Account())
	return nil
}

func runAccountMode(cmd *cobra.Command, args []string) error {
	sel, err := account.ParseSelector(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.engine.SetActive(sel); err != nil {
		return err
	}
	if err := a.saveBalances(); err != nil {
		return err
	}
	fmt.Printf("✓ Now trading: %s\n", sel.Label())
	return nil
}
