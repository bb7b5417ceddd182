package pipeline

import (
	"sort"
	"time"

	"hermes/internal/domain/news"
)

const (
	// DefaultDedupeThreshold is the Jaccard similarity over canonical
	// title tokens above which two items count as the same story.
	DefaultDedupeThreshold = 0.75

	// DefaultDedupeWindow bounds how far apart two items may be
	// published and still be compared. Syndicated copies of a story
	// land within hours of each other; beyond this gap a matching
	// headline is treated as a genuinely new development.
	DefaultDedupeWindow = 48 * time.Hour
)

// DedupeOptions tunes near-duplicate detection
type DedupeOptions struct {
	Threshold float64
	Window    time.Duration
}

func (o DedupeOptions) withDefaults() DedupeOptions {
	if o.Threshold <= 0 {
		o.Threshold = DefaultDedupeThreshold
	}
	if o.Window <= 0 {
		o.Window = DefaultDedupeWindow
	}
	return o
}

// Dedupe collapses exact and near duplicates. Survivors keep their
// first-seen order. When a near-duplicate pair is found the item from
// the higher-trust source wins; trust ties go to the earlier published
// item, then to the smaller id.
func Dedupe(items []news.Item, trust news.TrustTable, opts DedupeOptions) []news.Item {
	opts = opts.withDefaults()
	if len(items) == 0 {
		return []news.Item{}
	}

	// Exact-id collapse first, cheap and order-preserving
	seen := make(map[string]struct{}, len(items))
	uniq := make([]news.Item, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		uniq = append(uniq, it)
	}

	// Near-duplicate scan over a time-sorted sliding window. Pairs
	// further apart than the window are never compared, which keeps
	// the scan close to linear for feed-shaped input.
	type candidate struct {
		item   news.Item
		tokens map[string]struct{}
	}
	cands := make([]candidate, len(uniq))
	for i, it := range uniq {
		cands[i] = candidate{item: it, tokens: titleTokens(it.Title)}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].item.PublishedAt.Before(cands[j].item.PublishedAt)
	})

	dropped := make(map[string]struct{})
	for i := 0; i < len(cands); i++ {
		if _, gone := dropped[cands[i].item.ID]; gone {
			continue
		}
		for j := i + 1; j < len(cands); j++ {
			if _, gone := dropped[cands[j].item.ID]; gone {
				continue
			}
			if cands[j].item.PublishedAt.Sub(cands[i].item.PublishedAt) > opts.Window {
				break
			}
			if jaccard(cands[i].tokens, cands[j].tokens) < opts.Threshold {
				continue
			}
			if prefer(cands[i].item, cands[j].item, trust) {
				dropped[cands[j].item.ID] = struct{}{}
			} else {
				dropped[cands[i].item.ID] = struct{}{}
				break
			}
		}
	}

	out := make([]news.Item, 0, len(uniq))
	for _, it := range uniq {
		if _, gone := dropped[it.ID]; !gone {
			out = append(out, it)
		}
	}
	return out
}

// prefer reports whether a beats b when both describe the same story
func prefer(a, b news.Item, trust news.TrustTable) bool {
	ta, tb := trust.Trust(a.Source), trust.Trust(b.Source)
	if ta != tb {
		return ta > tb
	}
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.Before(b.PublishedAt)
	}
	return a.ID < b.ID
}

// jaccard computes token-set overlap: |a∩b| / |a∪b|
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
