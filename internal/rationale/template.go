package rationale

import (
	"context"

	"github.com/dustin/go-humanize"

	"hermes/internal/domain/news"
	"hermes/internal/metrics"
)

const maxTemplateTitle = 140

// Template is the rule-based generator used when no LLM is configured
// and as the per-item fallback when a model call fails
type Template struct{}

var _ Generator = (*Template)(nil)

// NewTemplate creates the rule-based generator
func NewTemplate() *Template {
	return &Template{}
}

// Available always reports true, templates have no dependencies
func (t *Template) Available() bool {
	return true
}

// Generate never fails and never returns an empty rationale
func (t *Template) Generate(_ context.Context, ticker string, items []news.ScoredItem) ([]string, error) {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = templateRationale(ticker, it)
	}
	metrics.RecordRationaleCall("template", nil)
	return out, nil
}

func templateRationale(ticker string, it news.ScoredItem) string {
	title := shorten(it.Title, maxTemplateTitle)
	published := humanize.Time(it.PublishedAt)

	switch it.Label {
	case news.LabelPositive:
		return "Positive for " + ticker + ": " + title + ". Tone and content suggest supportive implications; source: " + it.Source + ", published " + published + "."
	case news.LabelNegative:
		return "Negative for " + ticker + ": " + title + ". Tone and details imply headwinds/risks; source: " + it.Source + ", published " + published + "."
	default:
		return "Mixed/neutral for " + ticker + ": " + title + ". Limited directional impact; source: " + it.Source + ", published " + published + "."
	}
}

func shorten(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
