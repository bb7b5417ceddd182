package sources

import (
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/news"
)

const googleNewsFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>"TSLA stock when:5d" - Google News</title>
    <item>
      <title>Tesla shares rally after earnings - Reuters</title>
      <link>https://news.google.com/rss/articles/CBMiabc123</link>
      <description>&lt;a href="https://news.google.com/rss/articles/CBMiabc123"&gt;Tesla shares rally after earnings&lt;/a&gt;&amp;nbsp;&amp;nbsp;&lt;font color="#6f6f6f"&gt;Reuters&lt;/font&gt;</description>
      <pubDate>Mon, 18 Aug 2025 09:15:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestConvertGoogleNewsFeed(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(googleNewsFeedXML)
	require.NoError(t, err)

	records := convertGoogleNewsFeed(feed)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, news.SourceGoogleNews, rec.Kind)
	assert.Empty(t, rec.Source, "domain is derived from the link during normalization")
	assert.Equal(t, "Tesla shares rally after earnings - Reuters", rec.Title)
	assert.NotContains(t, rec.Text, "<a", "summary markup must be stripped")
	assert.Contains(t, rec.Text, "Tesla shares rally after earnings")
	assert.False(t, rec.PublishedAt.IsZero())
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "no markup here", "no markup here"},
		{"anchors flattened", `<a href="https://example.com">Headline</a> <font>Reuters</font>`, "Headline Reuters"},
		{"entities decoded", "profits &amp; losses", "profits & losses"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripHTML(tt.in))
		})
	}
}
