// Package ai produces the analyst text shown next to news, the dashboard
// strategy outlook and the co-pilot chat. Every call degrades to a canned
// answer: the caller never sees an error.
package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/rustyeddy/quantdesk/news"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// Canned answers used when no API key is set.
const (
	NoKeyAnalysis = "API Key not configured. Using simulated analysis: This event likely has a moderate impact on the sector due to prevailing market conditions."
	NoKeyStrategy = "Simulated Strategy: Accumulate technology stocks on dips. Maintain defensive positions in healthcare."
	NoKeyChat     = "I am the QuantAI Co-Pilot. Please configure your API Key to enable live chatting. Since I am in demo mode, I suggest focusing on risk management today."
)

// Canned answers used when the model call fails or comes back empty.
const (
	FailedAnalysis = "Failed to generate analysis. Please try again later."
	FailedStrategy = "Unable to generate strategy at this time."
	FailedChat     = "Sorry, I'm having trouble connecting to the market brain right now."

	EmptyAnalysis = "Analysis unavailable."
	EmptyStrategy = "Strategy generation failed."
	EmptyChat     = "I couldn't process that request."
)

const chatInstruction = `You are an advanced AI Trading Co-Pilot for the QuantAI platform. Your goal is to help users interpret market signals, understand news sentiment, and refine their algorithmic strategies. Be concise, professional, and data-driven. Do not give financial advice, but rather "market analysis" and "educational insights".`

type Service interface {
	AnalyzeImpact(ctx context.Context, item news.Item) string
	StrategyOutlook(ctx context.Context, watchlist []string) string
	Chat(ctx context.Context, message string) string
}

// New returns a Gemini-backed service, or Fallback when apiKey is empty or
// the client cannot be built.
func New(ctx context.Context, apiKey, model string) Service {
	if apiKey == "" {
		return Fallback{}
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Printf("ai: gemini client: %v", err)
		return Fallback{}
	}
	return newGemini(client, model)
}

// Fallback answers without a model.
type Fallback struct{}

func (Fallback) AnalyzeImpact(context.Context, news.Item) string  { return NoKeyAnalysis }
func (Fallback) StrategyOutlook(context.Context, []string) string { return NoKeyStrategy }
func (Fallback) Chat(context.Context, string) string              { return NoKeyChat }

type generateFunc func(ctx context.Context, prompt string) (string, error)

type sendFunc func(ctx context.Context, message string) (string, error)

// Gemini talks to the Gemini API. The chat session is created on first
// use and kept for the life of the service.
type Gemini struct {
	generate generateFunc
	newChat  func(ctx context.Context) (sendFunc, error)

	mu   sync.Mutex
	chat sendFunc
}

func newGemini(client *genai.Client, model string) *Gemini {
	return &Gemini{
		generate: func(ctx context.Context, prompt string) (string, error) {
			resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
			if err != nil {
				return "", err
			}
			return resp.Text(), nil
		},
		newChat: func(ctx context.Context) (sendFunc, error) {
			cfg := &genai.GenerateContentConfig{
				SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: chatInstruction}}},
			}
			chat, err := client.Chats.Create(ctx, model, cfg, nil)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, message string) (string, error) {
				resp, err := chat.Send(ctx, &genai.Part{Text: message})
				if err != nil {
					return "", err
				}
				return resp.Text(), nil
			}, nil
		},
	}
}

func (g *Gemini) AnalyzeImpact(ctx context.Context, item news.Item) string {
	prompt := fmt.Sprintf(`Analyze the following financial news item as a senior market analyst.
Title: %s
Source: %s
Summary: %s
Region: %s

Provide a concise (max 3 sentences) analysis of the immediate market impact, specifically identifying which sectors are most affected and the suggested trading stance (Buy/Sell/Wait) for related assets.`,
		item.Title, item.Source, item.Summary, item.Region)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		log.Printf("ai: analysis: %v", err)
		return FailedAnalysis
	}
	return orDefault(text, EmptyAnalysis)
}

func (g *Gemini) StrategyOutlook(ctx context.Context, watchlist []string) string {
	prompt := fmt.Sprintf(`Given the current simulated portfolio focusing on: %s.
Act as an algorithmic trading strategist. Provide a high-level strategic outlook for the next trading session.
Focus on risk management and potential entry points. Limit response to 50 words.`,
		strings.Join(watchlist, ", "))

	text, err := g.generate(ctx, prompt)
	if err != nil {
		log.Printf("ai: strategy: %v", err)
		return FailedStrategy
	}
	return orDefault(text, EmptyStrategy)
}

func (g *Gemini) Chat(ctx context.Context, message string) string {
	send, err := g.session(ctx)
	if err != nil {
		log.Printf("ai: chat session: %v", err)
		return FailedChat
	}
	text, err := send(ctx, message)
	if err != nil {
		log.Printf("ai: chat: %v", err)
		return FailedChat
	}
	return orDefault(text, EmptyChat)
}

func (g *Gemini) session(ctx context.Context) (sendFunc, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.chat != nil {
		return g.chat, nil
	}
	send, err := g.newChat(ctx)
	if err != nil {
		return nil, err
	}
	g.chat = send
	return send, nil
}

func orDefault(text, def string) string {
	if strings.TrimSpace(text) == "" {
		return def
	}
	return text
}
