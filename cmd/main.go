package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hermes/internal/adapters/config"
	"hermes/internal/adapters/errors/noop"
	"hermes/internal/adapters/errors/sentry"
	"hermes/internal/adapters/kafka"
	"hermes/internal/adapters/redis"
	"hermes/internal/api"
	"hermes/internal/api/health"
	"hermes/internal/classifier"
	"hermes/internal/metrics"
	"hermes/internal/rationale"
	"hermes/internal/services/sentiment"
	"hermes/internal/sources"
	"hermes/internal/workers"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// version is stamped at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	// Initialize error tracker
	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	// Register Prometheus collectors
	metrics.Init()

	// Optional infrastructure
	redisClient := initRedis(cfg, log)
	kafkaProducer := initKafka(cfg, log)

	// Scoring components
	clf := initClassifier(cfg, log)
	rationales := initRationales(cfg, log)
	collector := initCollector(cfg, log)

	// A nil *redis.Client must not become a non-nil interface value
	var cache sentiment.Cache
	if redisClient != nil {
		cache = redisClient
	}
	var publisher sentiment.Publisher
	if kafkaProducer != nil {
		publisher = kafkaProducer
	}

	svc := sentiment.NewService(collector, clf, rationales, cache, publisher, sentiment.Config{
		HalfLifeHours:   cfg.Sentiment.HalfLifeHours,
		MinTrust:        cfg.Sentiment.MinTrust,
		DefaultTrust:    cfg.Sentiment.DefaultTrust,
		MaxItems:        cfg.Sentiment.MaxItems,
		DedupeThreshold: cfg.Sentiment.DedupeThreshold,
		DedupeWindow:    cfg.Sentiment.DedupeWindow,
		CacheTTL:        cfg.Sentiment.CacheTTL,
		TrustOverrides:  cfg.Sentiment.TrustOverrides,
	}, logger.Named("sentiment"))

	// HTTP API
	var pinger health.Pinger
	if redisClient != nil {
		pinger = redisClient
	}
	healthHandler := health.New(logger.Named("health"), pinger,
		svc.ClassifierReady, svc.RationalesReady, cfg.App.Name, version)

	server := api.NewServer(api.ServerConfig{
		Addr:        cfg.Server.Addr(),
		ServiceName: cfg.App.Name,
		Version:     version,
	}, api.NewSentimentHandler(svc, logger.Named("api")), healthHandler, logger.Named("api"))

	// Background workers
	scheduler := workers.NewScheduler()
	var locker workers.Locker
	if redisClient != nil {
		locker = redisClient
	}
	scheduler.RegisterWorker(workers.NewRefreshWorker(svc, locker, cfg.Workers))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start workers: %v", err)
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	log.Info("System initialized successfully")

	waitForShutdown(cancel, server, scheduler, kafkaProducer, redisClient, clf, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initRedis connects the result cache. Disabled cache returns nil.
func initRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		log.Info("Redis cache disabled")
		return nil
	}

	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	log.Info("✓ Redis connected")
	return client
}

// initKafka configures the result publisher. Disabled Kafka returns nil.
func initKafka(cfg *config.Config, log *logger.Logger) *kafka.Producer {
	if !cfg.Kafka.Enabled {
		log.Info("Kafka publishing disabled")
		return nil
	}

	producer := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers})
	log.Infof("✓ Kafka producer configured, brokers: %v", cfg.Kafka.Brokers)
	return producer
}

// initClassifier wires the FinBERT classifier. The model loads lazily on
// first use; an unconfigured model means every item scores neutral.
func initClassifier(cfg *config.Config, log *logger.Logger) *classifier.Lazy {
	if cfg.Classifier.ModelPath == "" {
		log.Info("FinBERT model not configured, sentiment scoring falls back to neutral")
	}

	return classifier.NewLazy(classifier.Config{
		ModelPath:    cfg.Classifier.ModelPath,
		VocabPath:    cfg.Classifier.VocabPath,
		LibraryPath:  cfg.Classifier.LibraryPath,
		MaxSeqLength: cfg.Classifier.MaxSeqLength,
		BatchSize:    cfg.Classifier.BatchSize,
	})
}

// initRationales picks OpenAI rationales when a key is configured,
// template rationales otherwise
func initRationales(cfg *config.Config, log *logger.Logger) rationale.Generator {
	if cfg.OpenAI.APIKey == "" {
		log.Info("OpenAI key not set, using template rationales")
		return rationale.NewTemplate()
	}

	gen, err := rationale.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	if err != nil {
		log.Warnf("OpenAI rationales unavailable, falling back to templates: %v", err)
		return rationale.NewTemplate()
	}

	log.Infof("OpenAI rationales enabled, model: %s", cfg.OpenAI.Model)
	return gen
}

// initCollector assembles the news fetchers. Yahoo and Google News need
// no credentials and are always on; NewsAPI joins when a key is set and
// Reddit can be switched off
func initCollector(cfg *config.Config, log *logger.Logger) *sources.Collector {
	client := sources.NewHTTPClient(cfg.Sources.HTTPTimeout)
	rpm := cfg.Sources.RateLimitRPM

	fetchers := []sources.Fetcher{
		sources.NewYahoo(client, rpm),
		sources.NewGoogleNews(client, rpm),
	}

	if newsAPI, err := sources.NewNewsAPI(cfg.Sources.NewsAPIKey, client, rpm); err != nil {
		log.Warnf("NewsAPI disabled: %v", err)
	} else {
		fetchers = append(fetchers, newsAPI)
	}

	if cfg.Sources.RedditEnabled {
		fetchers = append(fetchers, sources.NewReddit(client, rpm))
	} else {
		log.Info("Reddit source disabled")
	}

	log.Infof("News collection configured with %d sources", len(fetchers))
	return sources.NewCollector(fetchers...)
}

// waitForShutdown blocks until SIGINT or SIGTERM, then tears components
// down in dependency order: stop accepting requests, stop workers, close
// outbound channels, release connections, flush telemetry
func waitForShutdown(
	cancel context.CancelFunc,
	server *api.Server,
	scheduler *workers.Scheduler,
	producer *kafka.Producer,
	redisClient *redis.Client,
	clf *classifier.Lazy,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer shutdownCancel()

	log.Info("[1/5] Stopping HTTP server...")
	httpCtx, httpCancel := context.WithTimeout(shutdownCtx, 10*time.Second)
	if err := server.Shutdown(httpCtx); err != nil {
		log.Errorw("HTTP server shutdown failed", "error", err)
	}
	httpCancel()

	log.Info("[2/5] Stopping background workers...")
	if err := scheduler.Stop(); err != nil {
		log.Errorw("Workers shutdown failed", "error", err)
	} else {
		log.Info("✓ Workers stopped")
	}

	log.Info("[3/5] Closing Kafka producer...")
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Errorw("Kafka producer close failed", "error", err)
		} else {
			log.Info("✓ Kafka producer closed")
		}
	}

	log.Info("[4/5] Releasing Redis and classifier...")
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Errorw("Redis close failed", "error", err)
		} else {
			log.Info("✓ Redis connection closed")
		}
	}
	clf.Close()

	log.Info("[5/5] Flushing error tracker...")
	if errorTracker != nil {
		if err := errorTracker.Flush(shutdownCtx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
