package pipeline

import (
	"hermes/internal/domain/news"
)

// DefaultMinTrust is the editorial floor: sources below it are cut
// from the pipeline entirely rather than down-weighted.
const DefaultMinTrust = 0.6

// FilterTrusted drops items whose source credibility falls below
// minTrust. Runs before weighting and classification so untrusted
// content never reaches the model.
func FilterTrusted(items []news.Item, trust news.TrustTable, minTrust float64) []news.Item {
	out := make([]news.Item, 0, len(items))
	for _, it := range items {
		if trust.Trust(it.Source) >= minTrust {
			out = append(out, it)
		}
	}
	return out
}
