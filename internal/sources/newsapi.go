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
	newsAPIURL      = "https://newsapi.org/v2/everything"
	newsAPIPageSize = 50
)

// NewsAPI fetches English-language articles from newsapi.org. Requires
// an API key; construction without one is a configuration error caught
// at wiring time, so Fetch may assume the key exists.
type NewsAPI struct {
	apiKey  string
	client  *http.Client
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

var _ Fetcher = (*NewsAPI)(nil)

// NewNewsAPI creates the newsapi.org fetcher
func NewNewsAPI(apiKey string, client *http.Client, requestsPerMinute int) (*NewsAPI, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrSourceUnavailable, "newsapi key not configured")
	}
	return &NewsAPI{
		apiKey:  apiKey,
		client:  client,
		limiter: ratelimit.NewLimiter("newsapi", requestsPerMinute),
		log:     logger.Named("sources.newsapi"),
	}, nil
}

// Kind implements Fetcher
func (n *NewsAPI) Kind() news.SourceKind { return news.SourceNewsAPI }

// Fetch queries the everything endpoint for articles mentioning the
// ticker within the lookback window, newest first.
func (n *NewsAPI) Fetch(ctx context.Context, ticker string, lookbackDays int) ([]news.RawRecord, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	from := time.Now().UTC().AddDate(0, 0, -lookbackDays).Format("2006-01-02")

	q := url.Values{}
	q.Set("q", ticker)
	q.Set("from", from)
	q.Set("language", "en")
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", strconv.Itoa(newsAPIPageSize))

	header := http.Header{}
	header.Set("X-Api-Key", n.apiKey)

	body, err := fetchBody(ctx, n.client, newsAPIURL+"?"+q.Encode(), header)
	if err != nil {
		return nil, errors.Wrap(err, "newsapi request")
	}

	var resp newsAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrapf(errors.ErrSourceResponse, "decode newsapi response: %v", err)
	}
	if resp.Status != "ok" {
		return nil, errors.Wrapf(errors.ErrSourceResponse, "newsapi status %s: %s", resp.Status, resp.Message)
	}

	records := convertNewsAPIArticles(resp.Articles)
	n.log.Debugw("newsapi fetched", "ticker", ticker, "total_results", resp.TotalResults, "records", len(records))
	return records, nil
}

// newsapi.org wire format
type newsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source      newsAPISource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	PublishedAt string        `json:"publishedAt"`
	Content     string        `json:"content"`
}

type newsAPISource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// convertNewsAPIArticles maps articles onto raw records. Source is left
// blank: the publisher name in the payload is a display name, not a
// domain, so normalization derives the domain from the article URL.
func convertNewsAPIArticles(articles []newsAPIArticle) []news.RawRecord {
	records := make([]news.RawRecord, 0, len(articles))
	for _, a := range articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		text := a.Description
		if text == "" {
			text = a.Content
		}
		rec := news.RawRecord{
			Kind:  news.SourceNewsAPI,
			Title: a.Title,
			Text:  text,
			URL:   a.URL,
		}
		// Malformed timestamps stay zero and get a synthetic time
		// during normalization.
		if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			rec.PublishedAt = ts.UTC()
		}
		records = append(records, rec)
	}
	return records
}
