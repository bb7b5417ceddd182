package sources

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"hermes/internal/domain/news"
	"hermes/internal/metrics"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Collector fans a request out to every configured fetcher and merges
// whatever comes back. A failing source contributes zero records and a
// warning; only a cancelled context or an empty fetcher set fails the
// collection itself.
type Collector struct {
	fetchers []Fetcher
	log      *logger.Logger
}

// NewCollector creates a collector over the given fetchers
func NewCollector(fetchers ...Fetcher) *Collector {
	return &Collector{
		fetchers: fetchers,
		log:      logger.Named("collector"),
	}
}

// Kinds lists the source kinds this collector queries
func (c *Collector) Kinds() []news.SourceKind {
	kinds := make([]news.SourceKind, 0, len(c.fetchers))
	for _, f := range c.fetchers {
		kinds = append(kinds, f.Kind())
	}
	return kinds
}

// Collect queries all sources concurrently and returns the merged raw
// records in fetcher order. Merge order is irrelevant downstream; fixing
// it keeps runs reproducible.
func (c *Collector) Collect(ctx context.Context, ticker string, lookbackDays int) ([]news.RawRecord, error) {
	if len(c.fetchers) == 0 {
		return nil, errors.ErrNoSources
	}

	results := make([][]news.RawRecord, len(c.fetchers))
	g, gctx := errgroup.WithContext(ctx)

	for i, f := range c.fetchers {
		g.Go(func() error {
			start := time.Now()
			records, err := f.Fetch(gctx, ticker, lookbackDays)
			metrics.RecordSourceFetch(string(f.Kind()), len(records), time.Since(start), err)
			if err != nil {
				c.log.Warnw("source fetch failed",
					"source", f.Kind(),
					"ticker", ticker,
					"error", err,
				)
				return nil
			}
			results[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// A cancelled request should not masquerade as an empty collection
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, records := range results {
		total += len(records)
	}
	merged := make([]news.RawRecord, 0, total)
	for _, records := range results {
		merged = append(merged, records...)
	}

	c.log.Infow("collection complete",
		"ticker", ticker,
		"lookback_days", lookbackDays,
		"sources", len(c.fetchers),
		"records", len(merged),
	)
	return merged, nil
}
