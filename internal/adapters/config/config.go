package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"hermes/pkg/errors"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	OpenAI        OpenAIConfig
	Classifier    ClassifierConfig
	Sources       SourcesConfig
	Sentiment     SentimentConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"hermes"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `envconfig:"SERVER_PORT" default:"8000"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaConfig struct {
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
}

type OpenAIConfig struct {
	APIKey string `envconfig:"OPENAI_API_KEY"`
	Model  string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
}

// ClassifierConfig points at a local finbert-tone ONNX export.
// The classifier stays disabled when ModelPath is empty.
type ClassifierConfig struct {
	ModelPath    string `envconfig:"FINBERT_MODEL_PATH"`
	VocabPath    string `envconfig:"FINBERT_VOCAB_PATH"`
	LibraryPath  string `envconfig:"ONNXRUNTIME_LIB_PATH"`
	MaxSeqLength int    `envconfig:"FINBERT_MAX_SEQ_LENGTH" default:"256"`
	BatchSize    int    `envconfig:"FINBERT_BATCH_SIZE" default:"16"`
}

type SourcesConfig struct {
	NewsAPIKey    string        `envconfig:"NEWSAPI_API_KEY"`
	RedditEnabled bool          `envconfig:"SOURCES_REDDIT_ENABLED" default:"true"`
	HTTPTimeout   time.Duration `envconfig:"SOURCES_HTTP_TIMEOUT" default:"10s"`
	RateLimitRPM  int           `envconfig:"SOURCES_RATE_LIMIT_RPM" default:"30"`
}

// SentimentConfig tunes the scoring pipeline. Defaults mirror the
// published scoring model; override with care, downstream consumers
// assume scores stay comparable across deployments.
type SentimentConfig struct {
	HalfLifeHours   float64            `envconfig:"SENTIMENT_HALF_LIFE_HOURS" default:"24"`
	MinTrust        float64            `envconfig:"SENTIMENT_MIN_TRUST" default:"0.6"`
	DefaultTrust    float64            `envconfig:"SENTIMENT_DEFAULT_TRUST" default:"0.75"`
	MaxItems        int                `envconfig:"SENTIMENT_MAX_ITEMS" default:"40"`
	DedupeThreshold float64            `envconfig:"SENTIMENT_DEDUPE_THRESHOLD" default:"0.75"`
	DedupeWindow    time.Duration      `envconfig:"SENTIMENT_DEDUPE_WINDOW" default:"48h"`
	CacheTTL        time.Duration      `envconfig:"SENTIMENT_CACHE_TTL" default:"10m"`
	TrustOverrides  map[string]float64 `envconfig:"SENTIMENT_TRUST_OVERRIDES"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig contains settings for background workers
type WorkerConfig struct {
	// Watchlist refresh keeps cached sentiment warm for a fixed set of tickers
	RefreshEnabled      bool          `envconfig:"WORKER_SENTIMENT_REFRESH_ENABLED" default:"false"`
	RefreshInterval     time.Duration `envconfig:"WORKER_SENTIMENT_REFRESH_INTERVAL" default:"15m"`
	RefreshTickers      []string      `envconfig:"WORKER_SENTIMENT_REFRESH_TICKERS"`
	RefreshLookbackDays int           `envconfig:"WORKER_SENTIMENT_REFRESH_LOOKBACK_DAYS" default:"5"`
	RefreshLimit        int           `envconfig:"WORKER_SENTIMENT_REFRESH_LIMIT" default:"10"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
