package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter_SmallBudgetGetsBurstOfOne(t *testing.T) {
	l := NewLimiter("test", 5)

	assert.True(t, l.Allow(), "first request fits the burst")
	assert.False(t, l.Allow(), "burst of one admits a single request")
}

func TestNewLimiter_ZeroBudgetDisablesLimiting(t *testing.T) {
	l := NewLimiter("test", 0)

	for i := 0; i < 100; i++ {
		require.True(t, l.Allow(), "request %d", i)
	}
}

func TestLimiter_WaitHonorsCancelledContext(t *testing.T) {
	l := NewLimiter("test", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLimiter_WaitAdmitsWithinBudget(t *testing.T) {
	l := NewLimiter("test", 600)

	require.NoError(t, l.Wait(context.Background()))
}
