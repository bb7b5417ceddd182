package pipeline

import (
	"math"
	"sort"
	"time"

	"hermes/internal/domain/news"
)

// Aggregate folds scored items into the ticker-level result. The
// overall score is the weight-normalized mean of item scores, zero
// when no weight mass exists. Items are ordered by impact before the
// limit applies, so truncation never drops a stronger item in favor of
// a weaker one seen earlier.
func Aggregate(ticker string, items []news.ScoredItem, lookbackDays int, asOf time.Time, limit int) news.Result {
	var num, den float64
	for _, it := range items {
		num += it.WeightedScore
		den += it.Weight
	}

	overall := 0.0
	if den > 0 {
		overall = round4(num / den)
	}

	ordered := make([]news.ScoredItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		mi := math.Abs(ordered[i].WeightedScore)
		mj := math.Abs(ordered[j].WeightedScore)
		if mi != mj {
			return mi > mj
		}
		if !ordered[i].PublishedAt.Equal(ordered[j].PublishedAt) {
			return ordered[i].PublishedAt.After(ordered[j].PublishedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	return news.Result{
		Ticker:       ticker,
		AsOf:         asOf.UTC(),
		LookbackDays: lookbackDays,
		OverallScore: overall,
		NItems:       len(ordered),
		Items:        ordered,
	}
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
