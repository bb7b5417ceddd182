// Package sentiment orchestrates collection, the scoring pipeline and
// rationale generation into ticker-level sentiment results.
package sentiment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"hermes/internal/adapters/kafka"
	"hermes/internal/classifier"
	"hermes/internal/domain/news"
	"hermes/internal/metrics"
	"hermes/internal/pipeline"
	"hermes/internal/rationale"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

const (
	// DefaultMaxItems caps how many items survive collection into
	// classification, keeping inference cost bounded per request.
	DefaultMaxItems = 40

	// DefaultCacheTTL keeps computed results warm between identical
	// requests
	DefaultCacheTTL = 10 * time.Minute
)

// Collector produces merged raw records for a ticker
type Collector interface {
	Collect(ctx context.Context, ticker string, lookbackDays int) ([]news.RawRecord, error)
}

// Cache stores computed results between identical requests. A miss is
// reported as errors.ErrNotFound.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Publisher emits computed results to the event stream
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, event interface{}) error
}

// Config tunes the scoring pipeline
type Config struct {
	HalfLifeHours   float64
	MinTrust        float64
	DefaultTrust    float64
	MaxItems        int
	DedupeThreshold float64
	DedupeWindow    time.Duration
	CacheTTL        time.Duration
	TrustOverrides  map[string]float64
}

func (c Config) withDefaults() Config {
	if c.HalfLifeHours <= 0 {
		c.HalfLifeHours = pipeline.DefaultHalfLifeHours
	}
	if c.MinTrust <= 0 {
		c.MinTrust = pipeline.DefaultMinTrust
	}
	if c.DefaultTrust <= 0 {
		c.DefaultTrust = news.DefaultTrust
	}
	if c.MaxItems <= 0 {
		c.MaxItems = DefaultMaxItems
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	return c
}

// Request parameters for one sentiment computation. Limit <= 0 returns
// every scored item.
type Request struct {
	Ticker            string
	LookbackDays      int
	Limit             int
	IncludeRationales bool
}

func (r Request) normalized() (Request, error) {
	r.Ticker = strings.ToUpper(strings.TrimSpace(r.Ticker))
	if r.Ticker == "" {
		return r, errors.NewValidationError("ticker", "must not be empty", r.Ticker)
	}
	if r.LookbackDays <= 0 {
		return r, errors.NewValidationError("lookback_days", "must be positive", r.LookbackDays)
	}
	return r, nil
}

// Service computes ticker-level sentiment aggregations
type Service struct {
	collector  Collector
	classifier classifier.Classifier
	rationales rationale.Generator
	cache      Cache     // optional
	publisher  Publisher // optional
	trust      news.TrustTable
	cfg        Config
	log        *logger.Logger
}

// NewService creates the sentiment service. Cache and publisher may be
// nil; both are best-effort side channels.
func NewService(
	collector Collector,
	clf classifier.Classifier,
	gen rationale.Generator,
	cache Cache,
	publisher Publisher,
	cfg Config,
	log *logger.Logger,
) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		collector:  collector,
		classifier: clf,
		rationales: gen,
		cache:      cache,
		publisher:  publisher,
		trust:      news.DefaultTrustTable().WithFallback(cfg.DefaultTrust).Merge(cfg.TrustOverrides),
		cfg:        cfg,
		log:        log,
	}
}

// ClassifierReady reports whether real sentiment inference is available
func (s *Service) ClassifierReady() bool {
	return s.classifier != nil && s.classifier.Available()
}

// RationalesReady reports whether rationale generation is available
func (s *Service) RationalesReady() bool {
	return s.rationales != nil && s.rationales.Available()
}

// Analyze computes the sentiment aggregate for one ticker. The result
// is total for well-formed input: sparse upstream data degrades to an
// empty item list and overall score 0, never an error.
func (s *Service) Analyze(ctx context.Context, req Request) (*news.Result, error) {
	req, err := req.normalized()
	if err != nil {
		return nil, err
	}

	key := s.cacheKey(req)
	if s.cache != nil {
		var cached news.Result
		err := s.cache.Get(ctx, key, &cached)
		switch {
		case err == nil:
			metrics.RecordCacheOp("hit")
			s.log.Debugw("sentiment cache hit", "key", key)
			return &cached, nil
		case errors.Is(err, errors.ErrNotFound):
			metrics.RecordCacheOp("miss")
		default:
			s.log.Warnw("cache get failed", "key", key, "error", err)
		}
	}

	result, err := s.compute(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cfg.CacheTTL); err != nil {
			s.log.Warnw("cache set failed", "key", key, "error", err)
		} else {
			metrics.RecordCacheOp("set")
		}
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, kafka.TopicSentimentResults, result.Ticker, result)
		metrics.RecordKafkaMessage(kafka.TopicSentimentResults, err)
		if err != nil {
			s.log.Warnw("result publish failed", "ticker", result.Ticker, "error", err)
		}
	}

	return result, nil
}

func (s *Service) compute(ctx context.Context, req Request) (*news.Result, error) {
	now := time.Now().UTC()

	raws, err := s.collector.Collect(ctx, req.Ticker, req.LookbackDays)
	if err != nil {
		return nil, errors.Wrap(err, "collect news")
	}
	metrics.RecordPipelineStage("collected", len(raws))

	items := pipeline.NormalizeAll(raws, now)

	items = filterWindow(items, now, req.LookbackDays)
	metrics.RecordPipelineStage("windowed", len(items))

	items = pipeline.Dedupe(items, s.trust, pipeline.DedupeOptions{
		Threshold: s.cfg.DedupeThreshold,
		Window:    s.cfg.DedupeWindow,
	})
	metrics.RecordPipelineStage("deduped", len(items))

	items = pipeline.FilterTrusted(items, s.trust, s.cfg.MinTrust)
	metrics.RecordPipelineStage("trusted", len(items))

	items = capNewest(items, s.cfg.MaxItems)
	metrics.RecordPipelineStage("capped", len(items))

	scored := s.score(ctx, items, now)

	result := pipeline.Aggregate(req.Ticker, scored, req.LookbackDays, now, req.Limit)

	if req.IncludeRationales {
		s.attachRationales(ctx, req.Ticker, &result)
	}

	s.log.Infow("sentiment computed",
		"ticker", req.Ticker,
		"lookback_days", req.LookbackDays,
		"collected", len(raws),
		"scored", len(scored),
		"returned", result.NItems,
		"overall_score", result.OverallScore,
	)
	return &result, nil
}

// score classifies and weighs the surviving items. A failed classifier
// call degrades every affected item to the neutral fallback instead of
// failing the request.
func (s *Service) score(ctx context.Context, items []news.Item, now time.Time) []news.ScoredItem {
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = classifierText(it)
	}

	var preds []classifier.Prediction
	if len(items) > 0 && s.ClassifierReady() {
		var err error
		preds, err = s.classifier.Classify(ctx, texts)
		if err != nil || len(preds) != len(items) {
			s.log.Warnw("classification failed, scoring neutral",
				"items", len(items),
				"error", err,
			)
			preds = nil
		}
	}
	if preds == nil && len(items) > 0 {
		metrics.RecordClassifierFallbacks(len(items))
	}

	scored := make([]news.ScoredItem, 0, len(items))
	for i, it := range items {
		var sent news.Sentiment
		if preds != nil {
			sent = pipeline.MapSentiment(preds[i])
		} else {
			sent = pipeline.NeutralSentiment()
		}

		ws := pipeline.Weigh(it, s.trust, now, s.cfg.HalfLifeHours)

		scored = append(scored, news.ScoredItem{
			Item:             it,
			Sentiment:        sent,
			Weight:           ws.Composite,
			WeightedScore:    sent.Score * ws.Composite,
			RecencyWeight:    ws.Recency,
			SourceWeight:     ws.Source,
			EngagementWeight: ws.Engagement,
		})
	}
	return scored
}

// attachRationales fills per-item rationales for the returned items
// only. Failures leave rationales empty; they never fail the request.
func (s *Service) attachRationales(ctx context.Context, ticker string, result *news.Result) {
	if len(result.Items) == 0 || s.rationales == nil {
		return
	}

	texts, err := s.rationales.Generate(ctx, ticker, result.Items)
	if err != nil {
		s.log.Warnw("rationale generation failed", "ticker", ticker, "error", err)
		return
	}
	for i := range result.Items {
		if i < len(texts) {
			result.Items[i].Rationale = texts[i]
		}
	}
}

func (s *Service) cacheKey(req Request) string {
	r := "r0"
	if req.IncludeRationales {
		r = "r1"
	}
	return fmt.Sprintf("sentiment:%s:%d:%d:%s", req.Ticker, req.LookbackDays, req.Limit, r)
}

// classifierText builds the model input for one item
func classifierText(it news.Item) string {
	return strings.TrimSpace(it.Title + ". " + it.Text)
}

// filterWindow drops items published before the lookback cutoff
func filterWindow(items []news.Item, now time.Time, lookbackDays int) []news.Item {
	cutoff := now.AddDate(0, 0, -lookbackDays)
	out := make([]news.Item, 0, len(items))
	for _, it := range items {
		if !it.PublishedAt.Before(cutoff) {
			out = append(out, it)
		}
	}
	return out
}

// capNewest orders items newest first and keeps at most max of them.
// Ties break on id so source merge order never influences which items
// survive the cap.
func capNewest(items []news.Item, max int) []news.Item {
	out := make([]news.Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].ID < out[j].ID
	})
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
