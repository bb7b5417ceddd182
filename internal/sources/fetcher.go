// Package sources fetches ticker-related articles and posts from the
// configured upstream providers. Each fetcher converts its provider's
// payload into raw records; normalization, scoring and everything else
// happen downstream.
package sources

import (
	"context"
	"io"
	"net/http"
	"time"

	"hermes/internal/domain/news"
	"hermes/pkg/errors"
)

// UserAgent is sent on every outbound request. Google News and Reddit
// serve degraded or empty responses to unidentified clients.
const UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// DefaultTimeout bounds a single source round trip
const DefaultTimeout = 10 * time.Second

// Fetcher produces raw records for one upstream source.
// Implementations return an empty slice for "no results"; an error means
// a genuine transport or protocol failure, which the collector treats as
// zero records from that source.
type Fetcher interface {
	Kind() news.SourceKind
	Fetch(ctx context.Context, ticker string, lookbackDays int) ([]news.RawRecord, error)
}

// NewHTTPClient builds the client shared by the fetchers
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// fetchBody performs one GET with the browser user agent plus any extra
// headers and returns the response body. Non-200 statuses map onto the
// source error sentinels so callers can classify failures.
func fetchBody(ctx context.Context, client *http.Client, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", UserAgent)
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrSourceUnavailable, "%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.Wrapf(errors.ErrRateLimitExceeded, "status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Wrapf(errors.ErrSourceResponse, "status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	return body, nil
}
