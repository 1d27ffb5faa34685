// Package ratelimit controls the pace of outbound operations such as REST
// calls and streaming commands sent to the exchange.
//
// Two implementations are provided behind one interface:
//
//   - NewTokenBucketLimiter: a token bucket with a burst allowance, used by
//     the REST client. The bucket refills continuously at the steady rate and
//     is capped at steady rate + burst.
//
//   - NewPacingLimiter: a smoothing limiter (Uber's leaky-bucket style
//     implementation) that spaces operations evenly, used by the streaming
//     session to pace outbound trading commands.
//
// All calls through one client instance contend for the same bucket; there
// are no per-endpoint budgets and no priority classes.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"golang.org/x/time/rate"
)

// Rate represents a rate limit configuration: Limit operations per Interval,
// plus an optional Burst of extra tokens above the steady rate.
type Rate struct {
	// Limit specifies the maximum number of operations allowed within the interval
	Limit int

	// Interval defines the time duration over which the limit applies
	Interval time.Duration

	// Burst is the number of extra tokens the bucket may accumulate above
	// the steady per-interval allowance. Ignored by pacing limiters.
	Burst int
}

// perSecond returns the steady token rate in operations per second.
func (r Rate) perSecond() float64 {
	return float64(r.Limit) / r.Interval.Seconds()
}

// RateLimiter defines the interface for rate limiting functionality.
type RateLimiter interface {
	// Wait blocks until a token is available or the context is cancelled.
	// Acquiring a token cannot fail, only delay; the sole error condition
	// is context cancellation.
	Wait(ctx context.Context) error

	// SetLimit updates the rate limiting configuration at runtime.
	SetLimit(limit Rate) error
}

// tokenBucketLimiter implements RateLimiter using golang.org/x/time/rate.
type tokenBucketLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	rate    Rate
}

// NewTokenBucketLimiter creates a token-bucket limiter whose effective
// capacity is the steady per-second rate plus r.Burst, refilling
// continuously at the steady rate and capped at that ceiling.
func NewTokenBucketLimiter(r Rate) RateLimiter {
	return &tokenBucketLimiter{
		limiter: rate.NewLimiter(rate.Limit(r.perSecond()), bucketCapacity(r)),
		rate:    r,
	}
}

func bucketCapacity(r Rate) int {
	capacity := int(r.perSecond()) + r.Burst
	if capacity < 1 {
		capacity = 1
	}
	return capacity
}

// Wait implements the RateLimiter interface.
func (l *tokenBucketLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	limiter := l.limiter
	l.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}
	return nil
}

// SetLimit implements the RateLimiter interface.
func (l *tokenBucketLimiter) SetLimit(r Rate) error {
	if r.Limit <= 0 || r.Interval <= 0 || r.Burst < 0 {
		return fmt.Errorf("invalid rate limit: %+v", r)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiter.SetLimit(rate.Limit(r.perSecond()))
	l.limiter.SetBurst(bucketCapacity(r))
	l.rate = r
	return nil
}

// pacingLimiter implements RateLimiter using Uber's rate limiter, which
// spaces operations evenly rather than allowing bursts.
type pacingLimiter struct {
	mu      sync.Mutex
	limiter ratelimit.Limiter
	rate    Rate
}

// NewPacingLimiter creates a smoothing limiter that admits operations at an
// even pace. Burst is ignored.
func NewPacingLimiter(r Rate) RateLimiter {
	return &pacingLimiter{
		limiter: ratelimit.New(int(r.perSecond())),
		rate:    r,
	}
}

// Wait implements the RateLimiter interface.
func (l *pacingLimiter) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limit wait cancelled: %w", ctx.Err())
	default:
	}

	l.mu.Lock()
	limiter := l.limiter
	l.mu.Unlock()

	limiter.Take()
	return nil
}

// SetLimit implements the RateLimiter interface.
func (l *pacingLimiter) SetLimit(r Rate) error {
	if r.Limit <= 0 || r.Interval <= 0 {
		return fmt.Errorf("invalid rate limit: %+v", r)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiter = ratelimit.New(int(r.perSecond()))
	l.rate = r
	return nil
}
