package rationale

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"hermes/internal/domain/news"
	"hermes/internal/metrics"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

const systemPrompt = "You are a financial analyst. For each news item, write a 2-3 sentence rationale " +
	"explaining *why* it is positive/neutral/negative for the given ticker. " +
	"Be specific and use plain language. Do not include disclaimers."

const (
	defaultModel       = "gpt-4o-mini"
	requestTemperature = 0.2
	requestMaxTokens   = 400
	requestTimeout     = 30 * time.Second
)

// OpenAI generates rationales through a chat completion call, one
// batched request per result. Any failure degrades to the rule-based
// templates instead of surfacing an error.
type OpenAI struct {
	client   openai.Client
	model    openai.ChatModel
	fallback *Template
	log      *logger.Logger
}

var _ Generator = (*OpenAI)(nil)

// NewOpenAI creates the LLM-backed generator
func NewOpenAI(apiKey string, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrRationaleUnavailable, "openai API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	return &OpenAI{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		model:    openai.ChatModel(model),
		fallback: NewTemplate(),
		log:      logger.Get().With("component", "rationale", "model", model),
	}, nil
}

// Available always reports true once constructed
func (g *OpenAI) Available() bool {
	return true
}

// compactItem is the trimmed view sent to the model
type compactItem struct {
	Title         string  `json:"title"`
	Source        string  `json:"source"`
	PublishedAt   string  `json:"published_at"`
	Label         string  `json:"label"`
	Score         float64 `json:"score"`
	WeightedScore float64 `json:"weighted_score"`
	URL           string  `json:"url"`
}

// Generate asks for a JSON array of rationales, one per item in input
// order. Length mismatches are normalized and empty entries filled
// from templates, so the caller always gets len(items) strings.
func (g *OpenAI) Generate(ctx context.Context, ticker string, items []news.ScoredItem) ([]string, error) {
	if len(items) == 0 {
		return []string{}, nil
	}

	compact := make([]compactItem, len(items))
	for i, it := range items {
		compact[i] = compactItem{
			Title:         it.Title,
			Source:        it.Source,
			PublishedAt:   it.PublishedAt.Format(time.RFC3339),
			Label:         string(it.Label),
			Score:         round4(it.Score),
			WeightedScore: round4(it.WeightedScore),
			URL:           it.URL,
		}
	}

	payload, err := json.Marshal(compact)
	if err != nil {
		return g.degrade(ctx, ticker, items, err)
	}

	userPrompt := "Ticker: " + ticker + "\n\nItems (JSON):\n" + string(payload) +
		"\n\nReturn a JSON array of rationales (strings), one per item, same order. No extra text."

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(requestTemperature),
		MaxTokens:   openai.Int(requestMaxTokens),
	})
	if err != nil {
		return g.degrade(ctx, ticker, items, err)
	}
	if len(resp.Choices) == 0 {
		return g.degrade(ctx, ticker, items, errors.New("empty completion response"))
	}

	var rationales []string
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Choices[0].Message.Content)), &rationales); err != nil {
		return g.degrade(ctx, ticker, items, errors.Wrap(err, "completion is not a JSON array"))
	}

	metrics.RecordRationaleCall("openai", nil)
	return g.normalize(ticker, items, rationales), nil
}

// degrade logs the failure and falls back to templates for the batch
func (g *OpenAI) degrade(ctx context.Context, ticker string, items []news.ScoredItem, err error) ([]string, error) {
	metrics.RecordRationaleCall("openai", err)
	g.log.Warnw("rationale generation degraded to templates", "ticker", ticker, "error", err)
	return g.fallback.Generate(ctx, ticker, items)
}

// normalize pads or truncates the model output to len(items) and
// substitutes templates for blank entries
func (g *OpenAI) normalize(ticker string, items []news.ScoredItem, rationales []string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		if i < len(rationales) && strings.TrimSpace(rationales[i]) != "" {
			out[i] = strings.TrimSpace(rationales[i])
			continue
		}
		out[i] = templateRationale(ticker, it)
	}
	return out
}

// stripCodeFence unwraps ```json fenced output some models produce
// despite the no-extra-text instruction
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
