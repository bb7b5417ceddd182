package sources

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/news"
)

const yahooFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Yahoo! Finance: TSLA News</title>
    <link>https://finance.yahoo.com/quote/TSLA</link>
    <item>
      <title>Tesla beats delivery estimates</title>
      <link>https://finance.yahoo.com/news/tesla-beats-delivery-estimates.html</link>
      <description>Deliveries came in ahead of consensus.</description>
      <pubDate>Tue, 19 Aug 2025 14:30:00 GMT</pubDate>
    </item>
    <item>
      <title>Analysts split on valuation</title>
      <link>https://finance.yahoo.com/news/analysts-split.html</link>
      <description>Price targets diverge widely.</description>
    </item>
    <item>
      <title></title>
      <link>https://finance.yahoo.com/news/untitled.html</link>
    </item>
  </channel>
</rss>`

func TestConvertYahooFeed(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(yahooFeedXML)
	require.NoError(t, err)

	records := convertYahooFeed(feed)
	require.Len(t, records, 2, "entry without a title must be skipped")

	first := records[0]
	assert.Equal(t, news.SourceYahoo, first.Kind)
	assert.Equal(t, "finance.yahoo.com", first.Source)
	assert.Equal(t, "Tesla beats delivery estimates", first.Title)
	assert.Equal(t, "https://finance.yahoo.com/news/tesla-beats-delivery-estimates.html", first.URL)
	assert.Equal(t, "Deliveries came in ahead of consensus.", first.Text)
	assert.Equal(t, time.Date(2025, 8, 19, 14, 30, 0, 0, time.UTC), first.PublishedAt)
	assert.Nil(t, first.Engagement)

	// Missing pubDate stays zero so normalization can synthesize one
	assert.True(t, records[1].PublishedAt.IsZero())
}
