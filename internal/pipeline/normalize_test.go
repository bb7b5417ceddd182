package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/news"
)

func TestNormalize_KeepsDeclaredSource(t *testing.T) {
	now := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	raw := news.RawRecord{
		Kind:        news.SourceYahoo,
		Source:      "finance.yahoo.com",
		Title:       "Tesla surges on deliveries",
		URL:         "https://finance.yahoo.com/news/tesla-surges.html",
		PublishedAt: now.Add(-time.Hour),
	}

	item := Normalize(raw, now)

	// The fetcher-declared source wins over the URL-derived domain, so
	// the finance.yahoo.com trust entry keeps applying
	assert.Equal(t, "finance.yahoo.com", item.Source)
	assert.False(t, item.SyntheticTime)
	assert.Equal(t, now.Add(-time.Hour), item.PublishedAt)
}

func TestNormalize_DerivesDomainFromURL(t *testing.T) {
	now := time.Now().UTC()
	raw := news.RawRecord{
		Title: "Fed holds rates",
		URL:   "https://www.reuters.com/markets/fed-holds-rates",
	}

	item := Normalize(raw, now)

	assert.Equal(t, "reuters.com", item.Source)
}

func TestNormalize_UnknownSourceWhenNothingToDeriveFrom(t *testing.T) {
	now := time.Now().UTC()

	item := Normalize(news.RawRecord{Title: "No link"}, now)

	assert.Equal(t, "unknown", item.Source)
}

func TestNormalize_SyntheticTimeForMissingTimestamp(t *testing.T) {
	now := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)

	item := Normalize(news.RawRecord{Title: "Undated story", URL: "https://reuters.com/a"}, now)

	assert.True(t, item.SyntheticTime)
	assert.Equal(t, now, item.PublishedAt)
}

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	now := time.Now().UTC()
	raw := news.RawRecord{
		Title: "  Tesla \t surges\n 10%  ",
		Text:  " deliveries   beat \n\n estimates ",
		URL:   "https://reuters.com/a",
	}

	item := Normalize(raw, now)

	assert.Equal(t, "Tesla surges 10%", item.Title)
	assert.Equal(t, "deliveries beat estimates", item.Text)
}

func TestNormalize_NeverFails(t *testing.T) {
	now := time.Now().UTC()

	// Hostile input degrades to defaults instead of erroring
	item := Normalize(news.RawRecord{URL: "://not a url", Title: ""}, now)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "unknown", item.Source)
	assert.True(t, item.SyntheticTime)
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	now := time.Now().UTC()
	raws := []news.RawRecord{
		{Title: "first", URL: "https://reuters.com/1", PublishedAt: now},
		{Title: "second", URL: "https://reuters.com/2", PublishedAt: now},
		{Title: "third", URL: "https://reuters.com/3", PublishedAt: now},
	}

	items := NormalizeAll(raws, now)

	require.Len(t, items, 3)
	assert.Equal(t, "first", items[0].Title)
	assert.Equal(t, "second", items[1].Title)
	assert.Equal(t, "third", items[2].Title)
}

func TestCanonicalID_Shape(t *testing.T) {
	id := CanonicalID("Tesla surges", "https://reuters.com/business/tesla")

	assert.Len(t, id, 16)
	assert.Regexp(t, "^[0-9a-f]{16}$", id)
}

func TestCanonicalID_Deterministic(t *testing.T) {
	a := CanonicalID("Tesla surges", "https://reuters.com/business/tesla")
	b := CanonicalID("Tesla surges", "https://reuters.com/business/tesla")

	assert.Equal(t, a, b)
}

func TestCanonicalID_IgnoresTrackingParams(t *testing.T) {
	base := CanonicalID("Tesla surges", "https://reuters.com/business/tesla")
	tracked := CanonicalID("Tesla surges", "https://reuters.com/business/tesla?utm_source=feed&fbclid=xyz")
	fragment := CanonicalID("Tesla surges", "https://reuters.com/business/tesla#section-2")

	assert.Equal(t, base, tracked)
	assert.Equal(t, base, fragment)
}

func TestCanonicalID_TitleCaseAndPunctuationInsensitive(t *testing.T) {
	a := CanonicalID("Tesla Surges 10%!", "https://reuters.com/business/tesla")
	b := CanonicalID("tesla surges 10", "https://reuters.com/business/tesla")

	assert.Equal(t, a, b)
}

func TestCanonicalID_DistinguishesPaths(t *testing.T) {
	a := CanonicalID("Tesla surges", "https://reuters.com/business/tesla-q2")
	b := CanonicalID("Tesla surges", "https://reuters.com/business/tesla-q3")

	assert.NotEqual(t, a, b)
}
