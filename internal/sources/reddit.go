package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"hermes/internal/domain/news"
	"hermes/internal/sources/ratelimit"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

const (
	redditSearchURL = "https://www.reddit.com/search.json"
	redditSource    = "reddit.com"
	redditPageSize  = 50
)

// Reddit fetches recent posts from the public search endpoint.
// Unauthenticated access is rate limited aggressively, which the
// per-fetcher limiter plus the collector's tolerance for failed sources
// absorb.
type Reddit struct {
	client  *http.Client
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

var _ Fetcher = (*Reddit)(nil)

// NewReddit creates the Reddit search fetcher
func NewReddit(client *http.Client, requestsPerMinute int) *Reddit {
	return &Reddit{
		client:  client,
		limiter: ratelimit.NewLimiter("reddit", requestsPerMinute),
		log:     logger.Named("sources.reddit"),
	}
}

// Kind implements Fetcher
func (r *Reddit) Kind() news.SourceKind { return news.SourceReddit }

// Fetch searches site-wide for "{TICKER} stock", newest first. The
// search endpoint has no time window parameter; window filtering happens
// downstream.
func (r *Reddit) Fetch(ctx context.Context, ticker string, _ int) ([]news.RawRecord, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", ticker+" stock")
	q.Set("sort", "new")
	q.Set("limit", strconv.Itoa(redditPageSize))

	body, err := fetchBody(ctx, r.client, redditSearchURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "reddit search")
	}

	var listing redditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, errors.Wrapf(errors.ErrSourceResponse, "decode reddit response: %v", err)
	}

	records := convertRedditListing(listing)
	r.log.Debugw("reddit search fetched", "ticker", ticker, "posts", len(listing.Data.Children), "records", len(records))
	return records, nil
}

// Reddit listing wire format
type redditListing struct {
	Data redditListingData `json:"data"`
}

type redditListingData struct {
	Children []redditChild `json:"children"`
}

type redditChild struct {
	Data redditPost `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Subreddit   string  `json:"subreddit"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	Ups         int     `json:"ups"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
}

// convertRedditListing maps posts onto raw records. Self posts carry
// their body as text; link posts fall back to the title so the
// classifier always has something to read.
func convertRedditListing(listing redditListing) []news.RawRecord {
	records := make([]news.RawRecord, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		p := child.Data

		link := p.URL
		if p.Permalink != "" {
			link = "https://www.reddit.com" + p.Permalink
		}
		if p.Title == "" || link == "" {
			continue
		}

		text := p.Selftext
		if text == "" {
			text = p.Title
		}

		rec := news.RawRecord{
			Kind:       news.SourceReddit,
			Source:     redditSource,
			Title:      p.Title,
			Text:       text,
			URL:        link,
			Engagement: &news.Engagement{Upvotes: p.Ups, Comments: p.NumComments},
		}
		if p.CreatedUTC > 0 {
			rec.PublishedAt = time.Unix(int64(p.CreatedUTC), 0).UTC()
		}
		records = append(records, rec)
	}
	return records
}
