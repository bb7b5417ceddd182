package sources

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/news"
)

const redditSearchJSON = `{
  "data": {
    "children": [
      {
        "data": {
          "id": "1abc23",
          "title": "TSLA stock discussion thread",
          "selftext": "What does everyone think about the delivery numbers?",
          "subreddit": "stocks",
          "permalink": "/r/stocks/comments/1abc23/tsla_stock_discussion_thread/",
          "url": "https://i.redd.it/somechart.png",
          "ups": 240,
          "num_comments": 87,
          "created_utc": 1755594000
        }
      },
      {
        "data": {
          "id": "2def45",
          "title": "Tesla chart, no caption",
          "selftext": "",
          "subreddit": "wallstreetbets",
          "permalink": "",
          "url": "https://example.com/external",
          "ups": 12,
          "num_comments": 3,
          "created_utc": 0
        }
      }
    ]
  }
}`

func TestConvertRedditListing(t *testing.T) {
	var listing redditListing
	require.NoError(t, json.Unmarshal([]byte(redditSearchJSON), &listing))

	records := convertRedditListing(listing)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, news.SourceReddit, first.Kind)
	assert.Equal(t, "reddit.com", first.Source)
	assert.Equal(t, "https://www.reddit.com/r/stocks/comments/1abc23/tsla_stock_discussion_thread/", first.URL, "permalink wins over the external url")
	assert.Equal(t, "What does everyone think about the delivery numbers?", first.Text)
	require.NotNil(t, first.Engagement)
	assert.Equal(t, 240, first.Engagement.Upvotes)
	assert.Equal(t, 87, first.Engagement.Comments)
	assert.Equal(t, time.Unix(1755594000, 0).UTC(), first.PublishedAt)

	second := records[1]
	assert.Equal(t, "https://example.com/external", second.URL)
	assert.Equal(t, "Tesla chart, no caption", second.Text, "link posts fall back to the title")
	assert.True(t, second.PublishedAt.IsZero())
}
