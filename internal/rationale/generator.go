// Package rationale produces short per-item explanations of why a
// news item reads positive, neutral or negative for a ticker.
// Rationales are additive: their absence never blocks a result.
package rationale

import (
	"context"

	"hermes/internal/domain/news"
)

// Generator writes one rationale per scored item, aligned
// index-for-index with the input
type Generator interface {
	Generate(ctx context.Context, ticker string, items []news.ScoredItem) ([]string, error)

	// Available reports whether model-written rationales are configured;
	// template generators always report true
	Available() bool
}
