package news

import "strings"

// DefaultTrust is the credibility assigned to domains the table has
// never seen.
const DefaultTrust = 0.75

// Shipped credibility weights, tiered by editorial reputation.
var baseTrustWeights = map[string]float64{
	// Tier 1: premium financial news
	"reuters.com":   1.00,
	"bloomberg.com": 0.97,
	"wsj.com":       0.95,
	"ft.com":        0.95,

	// Tier 2: major financial news
	"cnbc.com":         0.92,
	"seekingalpha.com": 0.85,
	"marketwatch.com":  0.85,
	"barrons.com":      0.85,

	// Tier 3: general financial news
	"yahoo.com":           0.80,
	"finance.yahoo.com":   0.85,
	"investopedia.com":    0.80,
	"benzinga.com":        0.75,
	"fool.com":            0.70,
	"businessinsider.com": 0.75,
	"simplywall.st":       0.70,

	// Tier 4: lower credibility
	"msn.com":         0.60,
	"marketbeat.com":  0.60,
	"coincentral.com": 0.60,
}

// TrustTable maps source domains to editorial credibility in [0, 1]
type TrustTable struct {
	weights  map[string]float64
	fallback float64
}

// NewTrustTable builds a table from explicit weights plus a fallback
// for unknown domains. Values outside [0, 1] are clamped.
func NewTrustTable(weights map[string]float64, fallback float64) TrustTable {
	cp := make(map[string]float64, len(weights))
	for domain, w := range weights {
		cp[strings.ToLower(strings.TrimSpace(domain))] = clampTrust(w)
	}
	return TrustTable{weights: cp, fallback: clampTrust(fallback)}
}

// DefaultTrustTable returns the shipped credibility tiers
func DefaultTrustTable() TrustTable {
	return NewTrustTable(baseTrustWeights, DefaultTrust)
}

// Trust looks up the credibility for a domain
func (t TrustTable) Trust(domain string) float64 {
	if w, ok := t.weights[strings.ToLower(domain)]; ok {
		return w
	}
	return t.fallback
}

// Fallback returns the default credibility for unknown domains
func (t TrustTable) Fallback() float64 {
	return t.fallback
}

// WithFallback returns a copy of the table using a different default
// for unknown domains
func (t TrustTable) WithFallback(fallback float64) TrustTable {
	t.fallback = clampTrust(fallback)
	return t
}

// Merge returns a copy of the table with overrides layered on top
func (t TrustTable) Merge(overrides map[string]float64) TrustTable {
	merged := make(map[string]float64, len(t.weights)+len(overrides))
	for domain, w := range t.weights {
		merged[domain] = w
	}
	for domain, w := range overrides {
		merged[strings.ToLower(strings.TrimSpace(domain))] = clampTrust(w)
	}
	return TrustTable{weights: merged, fallback: t.fallback}
}

func clampTrust(w float64) float64 {
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}
