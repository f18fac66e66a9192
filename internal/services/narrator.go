package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"stocktracker/internal/config"
	"stocktracker/internal/metrics"
	"stocktracker/internal/models"
)

const systemInstruction = "You are a helpful financial analyst assistant. " +
	"Provide clear, balanced analysis of stock data. " +
	"Always remind users this is not financial advice and they should do their own research."

// analysisMode maps a canned mode to its question and the history window the
// context is summarized over.
type analysisMode struct {
	question  string
	baseRange string
}

var analysisModes = map[string]analysisMode{
	"performance": {
		question:  "Provide a comprehensive analysis of current performance and trends.",
		baseRange: "1mo",
	},
	"insights": {
		question:  "What are the key factors investors should consider? Analyze valuation, growth potential, and risks.",
		baseRange: "3mo",
	},
	"technical": {
		question:  "Provide technical analysis: price levels, support/resistance, and momentum based on the data.",
		baseRange: "6mo",
	},
}

// Narrator turns fetched stock data and a question into AI commentary. When
// no API key is configured every call fails with ErrAINotConfigured while the
// rest of the dashboard keeps working.
type Narrator struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	market   *MarketDataService
	sessions *SessionStore
}

func NewNarrator(cfg *config.Config, market *MarketDataService, sessions *SessionStore) (*Narrator, error) {
	n := &Narrator{
		market:   market,
		sessions: sessions,
	}

	if cfg.GeminiAPIKey == "" {
		return n, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.GeminiModel)
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(1000)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(sanitizeASCII(systemInstruction))},
	}

	n.client = client
	n.model = model
	return n, nil
}

// Enabled reports whether an AI provider is configured.
func (n *Narrator) Enabled() bool { return n.model != nil }

func (n *Narrator) Close() {
	if n.client != nil {
		n.client.Close()
	}
}

// Analyze runs one of the canned analysis modes for a symbol.
func (n *Narrator) Analyze(ctx context.Context, symbol, mode string) (string, error) {
	m, ok := analysisModes[mode]
	if !ok {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidMode, mode)
	}
	if !n.Enabled() {
		return "", models.ErrAINotConfigured
	}

	prompt := buildPrompt(n.stockContext(ctx, symbol, m.baseRange), m.question)

	resp, err := n.model.GenerateContent(ctx, genai.Text(prompt))
	metrics.ObserveAI("analyze", err)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}

// Chat answers a free-text question about a symbol, carrying the session
// history into the model call. It returns the session ID with the reply so
// the page can continue the conversation.
func (n *Narrator) Chat(ctx context.Context, sessionID, symbol, question string) (string, string, error) {
	if !n.Enabled() {
		return "", "", models.ErrAINotConfigured
	}

	session := n.sessions.GetOrCreate(sessionID, symbol)

	cs := n.model.StartChat()
	for _, turn := range session.History() {
		role := "user"
		if turn.Role == "assistant" {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}

	prompt := buildPrompt(n.stockContext(ctx, symbol, models.DefaultRange), question)

	resp, err := cs.SendMessage(ctx, genai.Text(prompt))
	metrics.ObserveAI("chat", err)
	if err != nil {
		return "", "", fmt.Errorf("gemini: %w", err)
	}

	reply := extractText(resp)
	if reply == "" {
		return "", "", fmt.Errorf("gemini: empty response")
	}

	session.Append(question, reply)
	return session.ID, reply, nil
}

// ClearSession forgets a chat session.
func (n *Narrator) ClearSession(id string) {
	n.sessions.Clear(id)
}

// stockContext assembles the data block sent with every prompt. Fetch
// failures degrade to "N/A" fields; the narrator still answers with whatever
// data it has.
func (n *Narrator) stockContext(ctx context.Context, symbol, baseRange string) string {
	quote, err := n.market.GetQuote(ctx, symbol)
	if err != nil {
		quote = nil
	}
	fund, err := n.market.GetFundamentals(ctx, symbol)
	if err != nil {
		fund = nil
	}

	histSummary := "Historical data not available."
	if candles, err := n.market.GetHistory(ctx, symbol, baseRange); err == nil && len(candles) > 0 {
		first, last := candles[0].Close, candles[len(candles)-1].Close
		if first > 0 {
			histSummary = fmt.Sprintf("%s change: %.2f%%", baseRange, (last-first)/first*100)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current %s Stock Data:\n", symbol)
	if quote != nil {
		fmt.Fprintf(&b, "- Current Price: $%.2f\n", quote.Price)
		fmt.Fprintf(&b, "- Day Change: %.2f (%.2f%%)\n", quote.Change, quote.ChangePercent)
		fmt.Fprintf(&b, "- Day High: $%.2f\n", quote.DayHigh)
		fmt.Fprintf(&b, "- Day Low: $%.2f\n", quote.DayLow)
		fmt.Fprintf(&b, "- Volume: %s\n", humanize.Comma(quote.Volume))
	} else {
		b.WriteString("- Current Price: N/A\n")
	}
	if fund != nil {
		fmt.Fprintf(&b, "- Company: %s\n", fund.Company)
		fmt.Fprintf(&b, "- 52 Week High: $%.2f\n", fund.Week52High)
		fmt.Fprintf(&b, "- 52 Week Low: $%.2f\n", fund.Week52Low)
		fmt.Fprintf(&b, "- Market Cap: $%s\n", humanize.Comma(fund.MarketCap))
		fmt.Fprintf(&b, "- P/E Ratio: %.2f\n", fund.PERatio)
		fmt.Fprintf(&b, "- Sector: %s\n", orNA(fund.Sector))
		fmt.Fprintf(&b, "- Industry: %s\n", orNA(fund.Industry))
	} else {
		b.WriteString("- Fundamentals: N/A\n")
	}
	fmt.Fprintf(&b, "\nHistorical Performance:\n%s\n", histSummary)

	return b.String()
}

// buildPrompt joins the context block and the question, sanitized to plain
// ASCII. The hosted API has been seen to reject requests with stray emoji or
// smart quotes in some environments.
func buildPrompt(context, question string) string {
	return sanitizeASCII(context) + "\n\nUser Query: " + sanitizeASCII(question) +
		"\n\nProvide helpful analysis based on the data above."
}

// sanitizeASCII drops every non-ASCII rune.
func sanitizeASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
