package cmd

import (
	"fmt"
	"os"

	"github.com/rustyeddy/quantdesk/ai"
	"github.com/rustyeddy/quantdesk/config"
	"github.com/rustyeddy/quantdesk/news"
	"github.com/spf13/cobra"
)

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Generate mock headlines, optionally with AI impact analysis",
	Args:  cobra.NoArgs,
	RunE:  runNews,
}

var (
	newsCount   int
	newsAnalyze bool
)

func init() {
	rootCmd.AddCommand(newsCmd)
	newsCmd.Flags().IntVarP(&newsCount, "count", "n", 5, "number of headlines")
	newsCmd.Flags().BoolVar(&newsAnalyze, "analyze", false, "ask the AI service for an impact analysis of each headline")
}

func runNews(cmd *cobra.Command, args []string) error {
	var svc ai.Service
	if newsAnalyze {
		s, err := config.Load(configPath)
		if err != nil {
			return err
		}
		svc = newAIService(cmd, s)
	}

	g := news.NewGenerator()
	for i := 0; i < newsCount; i++ {
		it := g.Next()
		fmt.Printf("[%s %+.2f] %s\n", it.Sentiment, it.SentimentScore, it.Title)
		fmt.Printf("  %s | %s | %s\n", it.Source, it.Region, it.Summary)
		if svc != nil {
			fmt.Printf("  AI: %s\n", svc.AnalyzeImpact(cmd.Context(), it))
		}
	}
	return nil
}

func newAIService(cmd *cobra.Command, s *config.Settings) ai.Service {
	key := s.AI.APIKey
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	return ai.New(cmd.Context(), key, s.AI.Model)
}
