package pipeline

import (
	"math"
	"time"

	"hermes/internal/domain/news"
)

// DefaultHalfLifeHours controls recency decay: an item loses half its
// recency weight every 24 hours.
const DefaultHalfLifeHours = 24.0

// Fixed shares of the composite weight. A convex combination, so the
// composite stays in [0, 1] whenever the sub-weights do.
const (
	recencyShare    = 0.5
	sourceShare     = 0.3
	engagementShare = 0.2
)

// engagementScale normalizes the log-compressed audience counters. At
// this scale a Reddit thread needs about 22k upvotes to saturate the
// engagement term on its own.
const engagementScale = 10.0

// Weigh computes the composite importance weight for one item
func Weigh(item news.Item, trust news.TrustTable, now time.Time, halfLifeHours float64) news.WeightSet {
	rw := RecencyWeight(item.PublishedAt, now, halfLifeHours)
	sw := clamp01(trust.Trust(item.Source))
	ew := EngagementWeight(item.Engagement)

	return news.WeightSet{
		Recency:    rw,
		Source:     sw,
		Engagement: ew,
		Composite:  clamp01(recencyShare*rw + sourceShare*sw + engagementShare*ew),
	}
}

// RecencyWeight decays exponentially with age: 2^(-age/halfLife).
// Future timestamps count as age zero to absorb clock skew.
func RecencyWeight(publishedAt, now time.Time, halfLifeHours float64) float64 {
	if halfLifeHours < 1e-6 {
		halfLifeHours = 1e-6
	}
	ageHours := now.Sub(publishedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	return clamp01(math.Exp2(-ageHours / halfLifeHours))
}

// EngagementWeight saturates audience counters on a log scale. Items
// without engagement data contribute zero to the engagement term;
// non-social sources are not penalized anywhere else.
func EngagementWeight(e *news.Engagement) float64 {
	if e == nil {
		return 0
	}
	raw := math.Log1p(float64(e.Upvotes)) + 0.5*math.Log1p(float64(e.Comments))
	return clamp01(raw / engagementScale)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
