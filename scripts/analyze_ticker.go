package main

// One-shot sentiment scan for a single ticker, without standing up the
// HTTP server. Useful for smoke-testing source connectivity and the
// scoring pipeline from a shell; the result JSON goes to stdout, logs
// to stderr.
//
// Usage:
//   go run scripts/analyze_ticker.go --ticker TSLA --days 5 --limit 10

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"hermes/internal/adapters/config"
	"hermes/internal/classifier"
	"hermes/internal/rationale"
	"hermes/internal/services/sentiment"
	"hermes/internal/sources"
	"hermes/pkg/logger"
)

func main() {
	ticker := flag.String("ticker", "", "Ticker symbol to analyze (required)")
	days := flag.Int("days", 5, "Lookback window in days (1-30)")
	limit := flag.Int("limit", 10, "Max items in the response (1-50)")
	rationales := flag.Bool("rationales", true, "Include per-item rationales")
	timeout := flag.Int("timeout", 90, "Overall timeout in seconds")
	flag.Parse()

	if *ticker == "" {
		fmt.Fprintln(os.Stderr, "Error: --ticker is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	client := sources.NewHTTPClient(cfg.Sources.HTTPTimeout)
	rpm := cfg.Sources.RateLimitRPM

	fetchers := []sources.Fetcher{
		sources.NewYahoo(client, rpm),
		sources.NewGoogleNews(client, rpm),
	}
	if newsAPI, err := sources.NewNewsAPI(cfg.Sources.NewsAPIKey, client, rpm); err == nil {
		fetchers = append(fetchers, newsAPI)
	}
	if cfg.Sources.RedditEnabled {
		fetchers = append(fetchers, sources.NewReddit(client, rpm))
	}

	clf := classifier.NewLazy(classifier.Config{
		ModelPath:    cfg.Classifier.ModelPath,
		VocabPath:    cfg.Classifier.VocabPath,
		LibraryPath:  cfg.Classifier.LibraryPath,
		MaxSeqLength: cfg.Classifier.MaxSeqLength,
		BatchSize:    cfg.Classifier.BatchSize,
	})
	defer clf.Close()

	var gen rationale.Generator = rationale.NewTemplate()
	if cfg.OpenAI.APIKey != "" {
		if llm, err := rationale.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model); err == nil {
			gen = llm
		}
	}

	// No cache and no publisher here, the scan is ad hoc
	svc := sentiment.NewService(sources.NewCollector(fetchers...), clf, gen, nil, nil, sentiment.Config{
		HalfLifeHours:   cfg.Sentiment.HalfLifeHours,
		MinTrust:        cfg.Sentiment.MinTrust,
		DefaultTrust:    cfg.Sentiment.DefaultTrust,
		MaxItems:        cfg.Sentiment.MaxItems,
		DedupeThreshold: cfg.Sentiment.DedupeThreshold,
		DedupeWindow:    cfg.Sentiment.DedupeWindow,
		CacheTTL:        cfg.Sentiment.CacheTTL,
		TrustOverrides:  cfg.Sentiment.TrustOverrides,
	}, logger.Named("sentiment"))

	log.Infof("Scanning %s over %d days across %d sources", *ticker, *days, len(fetchers))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeout)*time.Second)
	defer cancel()

	result, err := svc.Analyze(ctx, sentiment.Request{
		Ticker:            *ticker,
		LookbackDays:      *days,
		Limit:             *limit,
		IncludeRationales: *rationales,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: analysis failed: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: encoding result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
