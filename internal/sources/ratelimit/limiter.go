package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"hermes/pkg/errors"
)

// Limiter throttles outbound requests to one upstream provider. News
// feeds and the Reddit search endpoint ban aggressive clients quickly,
// so every fetcher waits on its limiter before touching the network.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// NewLimiter creates a rate limiter allowing requestsPerMinute requests,
// with a burst of 10% of the per-minute budget (at least 1). A budget
// of zero or less disables limiting.
func NewLimiter(name string, requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 0), name: name}
	}

	rps := float64(requestsPerMinute) / 60.0

	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    name,
	}
}

// Wait blocks until the limiter admits the request or the context ends
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return errors.Wrapf(err, "rate limiter %s", l.name)
	}
	return nil
}

// Allow reports whether a request may proceed right now without blocking
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Reserve reserves a token for future use
func (l *Limiter) Reserve() *rate.Reservation {
	return l.limiter.Reserve()
}
