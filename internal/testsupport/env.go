// Package testsupport provides helpers for integration tests that need
// real infrastructure. Tests are skipped when the environment does not
// provide it, so the unit suite stays runnable anywhere.
package testsupport

import (
	"os"
	"strconv"
	"testing"

	"hermes/internal/adapters/config"
)

// RedisConfigFromEnv reads the Redis connection for integration tests.
// Skips the test when REDIS_HOST is not set.
func RedisConfigFromEnv(t *testing.T) config.RedisConfig {
	t.Helper()

	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("integration environment missing, set REDIS_HOST to run")
	}

	cfg := config.RedisConfig{Enabled: true, Host: host, Port: 6379}
	if raw := os.Getenv("REDIS_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			t.Fatalf("invalid REDIS_PORT %q: %v", raw, err)
		}
		cfg.Port = port
	}
	cfg.Password = os.Getenv("REDIS_PASSWORD")
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			t.Fatalf("invalid REDIS_DB %q: %v", raw, err)
		}
		cfg.DB = db
	}
	return cfg
}
