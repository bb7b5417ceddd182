package news

import "time"

// SourceKind identifies which fetcher produced a raw record
type SourceKind string

const (
	SourceYahoo      SourceKind = "yahoo"
	SourceGoogleNews SourceKind = "googlenews"
	SourceNewsAPI    SourceKind = "newsapi"
	SourceReddit     SourceKind = "reddit"
)

// Label is the sentiment class assigned to an item
type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// Engagement carries audience counters for sources that expose them
type Engagement struct {
	Upvotes  int `json:"upvotes"`
	Comments int `json:"comments"`
}

// RawRecord is a single article or post exactly as a fetcher saw it.
// Built once per fetched entry, immutable, discarded after normalization.
type RawRecord struct {
	Kind        SourceKind
	Source      string // domain declared by the fetcher, e.g. "finance.yahoo.com"
	Title       string
	Text        string
	URL         string
	PublishedAt time.Time // zero when the source gave none
	Engagement  *Engagement
	TrustHint   *float64 // advisory metadata; the trust table stays authoritative
}

// Item is the normalized shape every source converges to
type Item struct {
	ID            string      `json:"id"`
	Kind          SourceKind  `json:"-"`
	Source        string      `json:"source"` // lower-cased domain
	Title         string      `json:"title"`
	URL           string      `json:"url"`
	PublishedAt   time.Time   `json:"published_at"` // always UTC
	Text          string      `json:"text"`
	SyntheticTime bool        `json:"synthetic_time,omitempty"` // true when PublishedAt defaulted to collection time
	Engagement    *Engagement `json:"-"`
}

// Sentiment is the classified outcome for one item
type Sentiment struct {
	Label        Label   `json:"label"`
	ProbPositive float64 `json:"prob_positive"`
	ProbNeutral  float64 `json:"prob_neutral"`
	ProbNegative float64 `json:"prob_negative"`
	Score        float64 `json:"score"` // [-1, 1]
	Fallback     bool    `json:"sentiment_fallback,omitempty"`
}

// WeightSet breaks a composite weight into its sub-factors
type WeightSet struct {
	Recency    float64
	Source     float64
	Engagement float64
	Composite  float64
}

// ScoredItem is a fully analyzed item ready for aggregation
type ScoredItem struct {
	Item
	Sentiment
	Weight        float64 `json:"weight"` // composite importance, [0, 1]
	WeightedScore float64 `json:"weighted_score"`
	Rationale     string  `json:"rationale"`

	// Sub-weights kept for diagnostics, not part of the response body
	RecencyWeight    float64 `json:"-"`
	SourceWeight     float64 `json:"-"`
	EngagementWeight float64 `json:"-"`
}

// Result is the ticker-level aggregation produced for one request.
// Never persisted; lifetime is a single request.
type Result struct {
	Ticker       string       `json:"ticker"`
	AsOf         time.Time    `json:"as_of"`
	LookbackDays int          `json:"lookback_days"`
	OverallScore float64      `json:"overall_score"`
	NItems       int          `json:"n_items"`
	Items        []ScoredItem `json:"items"`
}
