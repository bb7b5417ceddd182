// Package pipeline holds the pure stages of sentiment computation:
// normalization, deduplication, trust filtering, weighting, sentiment
// mapping and aggregation. Every stage is a total function over its
// input; I/O stays with the callers.
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"
	"unicode"

	"hermes/internal/domain/news"
)

// Normalize converts one raw record into the uniform item shape. It
// never fails: malformed fields degrade to safe defaults instead.
func Normalize(raw news.RawRecord, now time.Time) news.Item {
	title := collapseWhitespace(raw.Title)
	text := collapseWhitespace(raw.Text)

	publishedAt := raw.PublishedAt.UTC()
	synthetic := false
	if raw.PublishedAt.IsZero() {
		publishedAt = now.UTC()
		synthetic = true
	}

	domain := strings.ToLower(strings.TrimSpace(raw.Source))
	if domain == "" {
		domain = news.Domain(raw.URL)
	}
	if domain == "" {
		domain = "unknown"
	}

	return news.Item{
		ID:            CanonicalID(raw.Title, raw.URL),
		Kind:          raw.Kind,
		Source:        domain,
		Title:         title,
		URL:           raw.URL,
		PublishedAt:   publishedAt,
		Text:          text,
		SyntheticTime: synthetic,
		Engagement:    raw.Engagement,
	}
}

// NormalizeAll maps Normalize over a merged collection batch
func NormalizeAll(raws []news.RawRecord, now time.Time) []news.Item {
	items := make([]news.Item, 0, len(raws))
	for _, raw := range raws {
		items = append(items, Normalize(raw, now))
	}
	return items
}

// CanonicalID derives the stable identifier for an article from its
// canonical title plus the URL host and path. Query strings and
// fragments never participate, so tracking-parameter variants of the
// same link produce the same id.
func CanonicalID(title, rawURL string) string {
	host, path := splitURL(rawURL)
	sum := sha256.Sum256([]byte(canonicalTitle(title) + "|" + host + "|" + path))
	return hex.EncodeToString(sum[:])[:16]
}

// canonicalTitle lower-cases, strips punctuation and collapses
// whitespace so syndicated copies of a headline compare equal
func canonicalTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// titleTokens returns the canonical title as a token set for overlap
// comparison
func titleTokens(title string) map[string]struct{} {
	fields := strings.Fields(canonicalTitle(title))
	set := make(map[string]struct{}, len(fields))
	for _, tok := range fields {
		set[tok] = struct{}{}
	}
	return set
}

func splitURL(rawURL string) (host, path string) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", rawURL
	}
	return strings.ToLower(u.Hostname()), u.EscapedPath()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
