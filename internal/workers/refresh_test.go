package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/adapters/config"
	"hermes/internal/domain/news"
	"hermes/internal/services/sentiment"
)

type fakeAnalyzer struct {
	mu       sync.Mutex
	requests []sentiment.Request
	failFor  map[string]error
}

func (a *fakeAnalyzer) Analyze(_ context.Context, req sentiment.Request) (*news.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, req)
	if err, ok := a.failFor[req.Ticker]; ok {
		return nil, err
	}
	return &news.Result{Ticker: req.Ticker}, nil
}

func (a *fakeAnalyzer) tickers() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.requests))
	for i, req := range a.requests {
		out[i] = req.Ticker
	}
	return out
}

type fakeLocker struct {
	denied map[string]bool
	err    error
}

func (l *fakeLocker) AcquireLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return !l.denied[key], nil
}

func refreshConfig(tickers ...string) config.WorkerConfig {
	return config.WorkerConfig{
		RefreshEnabled:      true,
		RefreshInterval:     15 * time.Minute,
		RefreshTickers:      tickers,
		RefreshLookbackDays: 5,
		RefreshLimit:        10,
	}
}

func TestRefreshWorker_AnalyzesAllTickers(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	worker := NewRefreshWorker(analyzer, nil, refreshConfig("TSLA", "NVDA", "AAPL"))

	require.NoError(t, worker.Run(context.Background()))

	assert.Equal(t, []string{"TSLA", "NVDA", "AAPL"}, analyzer.tickers())

	require.Len(t, analyzer.requests, 3)
	assert.Equal(t, 5, analyzer.requests[0].LookbackDays)
	assert.Equal(t, 10, analyzer.requests[0].Limit)
	assert.True(t, analyzer.requests[0].IncludeRationales)

	health := worker.Health()
	assert.Equal(t, int64(1), health.RunCount)
	assert.Equal(t, int64(0), health.ErrorCount)
}

func TestRefreshWorker_HeldLockSkipsTicker(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	locker := &fakeLocker{denied: map[string]bool{"refresh:NVDA": true}}
	worker := NewRefreshWorker(analyzer, locker, refreshConfig("TSLA", "NVDA"))

	require.NoError(t, worker.Run(context.Background()))

	assert.Equal(t, []string{"TSLA"}, analyzer.tickers())
}

func TestRefreshWorker_LockErrorRefreshesAnyway(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	locker := &fakeLocker{err: assert.AnError}
	worker := NewRefreshWorker(analyzer, locker, refreshConfig("TSLA"))

	require.NoError(t, worker.Run(context.Background()))

	assert.Equal(t, []string{"TSLA"}, analyzer.tickers())
}

func TestRefreshWorker_FailingTickerDoesNotStopPass(t *testing.T) {
	analyzer := &fakeAnalyzer{failFor: map[string]error{"TSLA": assert.AnError}}
	worker := NewRefreshWorker(analyzer, nil, refreshConfig("TSLA", "NVDA"))

	require.NoError(t, worker.Run(context.Background()))

	assert.Equal(t, []string{"TSLA", "NVDA"}, analyzer.tickers())
}

func TestRefreshWorker_AllTickersFailingFailsPass(t *testing.T) {
	analyzer := &fakeAnalyzer{failFor: map[string]error{"TSLA": assert.AnError}}
	worker := NewRefreshWorker(analyzer, nil, refreshConfig("TSLA"))

	err := worker.Run(context.Background())
	require.Error(t, err)

	health := worker.Health()
	assert.Equal(t, int64(1), health.ErrorCount)
}

func TestRefreshWorker_DisabledWithoutTickers(t *testing.T) {
	cfg := config.WorkerConfig{RefreshEnabled: true}
	worker := NewRefreshWorker(&fakeAnalyzer{}, nil, cfg)

	assert.False(t, worker.Enabled())
}

func TestRefreshWorker_CancelledContextStopsPass(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	worker := NewRefreshWorker(analyzer, nil, refreshConfig("TSLA", "NVDA"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := worker.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, analyzer.tickers())
}
