package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rustyeddy/quantdesk/config"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask the AI co-pilot a question",
	Long: `Send a message to the AI co-pilot and render the markdown reply.

With --outlook the co-pilot instead produces a strategy outlook for the
watchlist in the settings file.`,
	RunE: runAsk,
}

var askOutlook bool

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&askOutlook, "outlook", false, "generate a strategy outlook for the watchlist")
}

func runAsk(cmd *cobra.Command, args []string) error {
	s, err := config.Load(configPath)
	if err != nil {
		return err
	}
	svc := newAIService(cmd, s)

	var reply string
	switch {
	case askOutlook:
		reply = svc.StrategyOutlook(cmd.Context(), s.Watchlist)
	case len(args) == 0:
		return fmt.Errorf("ask needs a message or --outlook")
	default:
		reply = svc.Chat(cmd.Context(), strings.Join(args, " "))
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		fmt.Println(reply)
		return nil
	}
	out, err := r.Render(reply)
	if err != nil {
		fmt.Println(reply)
		return nil
	}
	fmt.Print(out)
	return nil
}
