package pipeline

import (
	"hermes/internal/classifier"
	"hermes/internal/domain/news"
)

// MapSentiment converts classifier probabilities into the signed item
// score: prob_positive minus prob_negative, clamped to [-1, 1].
// Neutral mass only matters through the complement, so equal positive
// and negative mass always maps to zero.
func MapSentiment(p classifier.Prediction) news.Sentiment {
	label := news.LabelNeutral
	switch {
	case p.Positive > p.Neutral && p.Positive > p.Negative:
		label = news.LabelPositive
	case p.Negative > p.Positive && p.Negative > p.Neutral:
		label = news.LabelNegative
	}

	return news.Sentiment{
		Label:        label,
		ProbPositive: p.Positive,
		ProbNeutral:  p.Neutral,
		ProbNegative: p.Negative,
		Score:        clampScore(p.Positive - p.Negative),
	}
}

// NeutralSentiment is the deterministic stand-in used whenever the
// classifier cannot score an item. The item still flows through
// weighting and aggregation; only its score is pinned to zero.
func NeutralSentiment() news.Sentiment {
	return news.Sentiment{
		Label:       news.LabelNeutral,
		ProbNeutral: 1,
		Fallback:    true,
	}
}

func clampScore(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}
