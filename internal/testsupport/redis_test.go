package testsupport

import (
	"context"
	"testing"
	"time"
)

func TestRedisIsCleanedBetweenTests(t *testing.T) {
	client := NewTestRedis(t)
	ctx := context.Background()

	if err := client.Set(ctx, "integration-key", "value", time.Minute); err != nil {
		t.Fatalf("failed to set key: %v", err)
	}

	var val string
	if err := client.Get(ctx, "integration-key", &val); err != nil {
		t.Fatalf("failed to get key: %v", err)
	}
	if val != "value" {
		t.Fatalf("unexpected redis value: %s", val)
	}
}
