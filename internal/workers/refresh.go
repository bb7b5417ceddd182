package workers

import (
	"context"
	"time"

	"hermes/internal/adapters/config"
	"hermes/internal/domain/news"
	"hermes/internal/services/sentiment"
	"hermes/pkg/errors"
)

const refreshWorkerName = "sentiment_refresh"

// Analyzer runs one sentiment computation. Satisfied by the sentiment
// service.
type Analyzer interface {
	Analyze(ctx context.Context, req sentiment.Request) (*news.Result, error)
}

// Locker coordinates refresh passes between replicas. Optional.
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RefreshWorker keeps cached sentiment warm for a fixed watchlist of
// tickers so dashboard requests land on a hot cache instead of a cold
// collection pass.
type RefreshWorker struct {
	*BaseWorker
	analyzer     Analyzer
	locker       Locker
	tickers      []string
	lookbackDays int
	limit        int
}

// NewRefreshWorker creates the watchlist refresh worker. locker may be
// nil when running a single replica.
func NewRefreshWorker(analyzer Analyzer, locker Locker, cfg config.WorkerConfig) *RefreshWorker {
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	lookbackDays := cfg.RefreshLookbackDays
	if lookbackDays <= 0 {
		lookbackDays = 5
	}

	enabled := cfg.RefreshEnabled && len(cfg.RefreshTickers) > 0

	return &RefreshWorker{
		BaseWorker:   NewBaseWorker(refreshWorkerName, interval, enabled),
		analyzer:     analyzer,
		locker:       locker,
		tickers:      cfg.RefreshTickers,
		lookbackDays: lookbackDays,
		limit:        cfg.RefreshLimit,
	}
}

// Run refreshes every watchlist ticker once. A failing ticker is logged
// and skipped; the pass only counts as failed when nothing refreshed.
func (w *RefreshWorker) Run(ctx context.Context) error {
	start := time.Now()
	refreshed := 0
	var lastErr error

	for _, ticker := range w.tickers {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if w.locker != nil {
			// The lock is left to expire so other replicas skip the
			// ticker for a full interval
			acquired, err := w.locker.AcquireLock(ctx, "refresh:"+ticker, w.Interval())
			if err != nil {
				w.Log().Warnw("refresh lock unavailable, refreshing anyway", "ticker", ticker, "error", err)
			} else if !acquired {
				w.Log().Debugw("refresh held by another replica", "ticker", ticker)
				continue
			}
		}

		_, err := w.analyzer.Analyze(ctx, sentiment.Request{
			Ticker:            ticker,
			LookbackDays:      w.lookbackDays,
			Limit:             w.limit,
			IncludeRationales: true,
		})
		if err != nil {
			lastErr = err
			w.Log().Warnw("watchlist refresh failed", "ticker", ticker, "error", err)
			continue
		}
		refreshed++
	}

	elapsed := time.Since(start)

	if refreshed == 0 && lastErr != nil {
		w.RecordError(lastErr, elapsed)
		return errors.Wrap(lastErr, "refresh pass failed")
	}

	w.RecordRun(elapsed)
	w.Log().Infow("watchlist refresh complete",
		"refreshed", refreshed,
		"tickers", len(w.tickers),
		"duration", elapsed,
	)
	return nil
}
