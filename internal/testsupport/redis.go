package testsupport

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	"hermes/internal/adapters/config"
	"hermes/internal/adapters/redis"
)

// NewRedisClient connects the cache adapter for integration tests and
// ensures the selected database is flushed before and after the test.
func NewRedisClient(t *testing.T, cfg config.RedisConfig) *redis.Client {
	t.Helper()

	raw := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := raw.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	if err := raw.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("failed to flush redis before test: %v", err)
	}
	t.Cleanup(func() {
		_ = raw.FlushDB(context.Background()).Err()
		_ = raw.Close()
	})

	client, err := redis.NewClient(cfg)
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

// NewTestRedis wires env config discovery and cleanup together, the
// one-call helper for adapter tests.
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return NewRedisClient(t, RedisConfigFromEnv(t))
}
