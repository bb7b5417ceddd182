package sources

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mmcdole/gofeed"

	"hermes/internal/domain/news"
	"hermes/internal/sources/ratelimit"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

const yahooFeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"

// yahooSource is the domain credited for every item from this feed. The
// feed routes through finance.yahoo.com regardless of the article's
// final destination, so the fetcher declares the source instead of
// deriving it per link.
const yahooSource = "finance.yahoo.com"

// Yahoo fetches a ticker's headline feed from Yahoo Finance RSS
type Yahoo struct {
	client  *http.Client
	parser  *gofeed.Parser
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

var _ Fetcher = (*Yahoo)(nil)

// NewYahoo creates the Yahoo Finance RSS fetcher
func NewYahoo(client *http.Client, requestsPerMinute int) *Yahoo {
	return &Yahoo{
		client:  client,
		parser:  gofeed.NewParser(),
		limiter: ratelimit.NewLimiter("yahoo", requestsPerMinute),
		log:     logger.Named("sources.yahoo"),
	}
}

// Kind implements Fetcher
func (y *Yahoo) Kind() news.SourceKind { return news.SourceYahoo }

// Fetch pulls the headline feed for one ticker. The feed carries no
// lookback parameter; window filtering happens downstream.
func (y *Yahoo) Fetch(ctx context.Context, ticker string, _ int) ([]news.RawRecord, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("s", ticker)
	q.Set("region", "US")
	q.Set("lang", "en-US")

	body, err := fetchBody(ctx, y.client, yahooFeedURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "yahoo feed")
	}

	feed, err := y.parser.ParseString(string(body))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrSourceResponse, "parse yahoo feed: %v", err)
	}

	records := convertYahooFeed(feed)
	y.log.Debugw("yahoo feed fetched", "ticker", ticker, "entries", len(feed.Items), "records", len(records))
	return records, nil
}

// convertYahooFeed maps feed entries onto raw records, skipping entries
// without a title or link
func convertYahooFeed(feed *gofeed.Feed) []news.RawRecord {
	records := make([]news.RawRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}
		rec := news.RawRecord{
			Kind:   news.SourceYahoo,
			Source: yahooSource,
			Title:  item.Title,
			Text:   item.Description,
			URL:    item.Link,
		}
		if item.PublishedParsed != nil {
			rec.PublishedAt = item.PublishedParsed.UTC()
		}
		records = append(records, rec)
	}
	return records
}
