package sources

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/news"
	"hermes/pkg/errors"
)

func TestNewNewsAPI_RequiresKey(t *testing.T) {
	_, err := NewNewsAPI("", http.DefaultClient, 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSourceUnavailable)
}

func TestConvertNewsAPIArticles(t *testing.T) {
	articles := []newsAPIArticle{
		{
			Source:      newsAPISource{ID: "reuters", Name: "Reuters"},
			Title:       "Tesla expands Berlin plant",
			Description: "Capacity to double by next year.",
			URL:         "https://www.reuters.com/business/autos/tesla-expands",
			PublishedAt: "2025-08-19T10:00:00Z",
		},
		{
			Title:       "Untitled blob",
			Description: "Skipped: no URL",
			PublishedAt: "2025-08-19T10:00:00Z",
		},
		{
			Title:       "Content fallback",
			URL:         "https://example.com/article",
			Content:     "Body text from the content field.",
			PublishedAt: "not-a-timestamp",
		},
	}

	records := convertNewsAPIArticles(articles)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, news.SourceNewsAPI, first.Kind)
	assert.Empty(t, first.Source, "domain is derived from the article URL during normalization")
	assert.Equal(t, "Tesla expands Berlin plant", first.Title)
	assert.Equal(t, "Capacity to double by next year.", first.Text)
	assert.Equal(t, time.Date(2025, 8, 19, 10, 0, 0, 0, time.UTC), first.PublishedAt)

	second := records[1]
	assert.Equal(t, "Body text from the content field.", second.Text)
	assert.True(t, second.PublishedAt.IsZero(), "malformed timestamp must stay zero")
}
