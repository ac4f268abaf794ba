// Package ratelimit paces CDO requests under the documented ceilings:
// 5 requests per second and 10,000 requests per day per token.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultRequestsPerSecond is the documented CDO request-rate ceiling.
const DefaultRequestsPerSecond = 5

var cdoRateLimitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "cdo_rate_limit_wait_seconds",
	Help:    "Time spent waiting on the request-rate pacer",
	Buckets: []float64{0.05, 0.1, 0.2, 0.5, 1, 2},
})

// Limiter spaces requests at a fixed interval. It is safe for
// concurrent callers: every caller is granted its own slot, so the
// steady-state rate never exceeds the ceiling no matter how many
// goroutines share the limiter.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// NewLimiter creates a limiter for the given sustained request rate.
// Non-positive rates fall back to DefaultRequestsPerSecond.
func NewLimiter(requestsPerSecond int) *Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultRequestsPerSecond
	}
	return &Limiter{
		interval: time.Second / time.Duration(requestsPerSecond),
	}
}

// Interval returns the minimum spacing between granted requests.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Wait blocks until the caller's request slot arrives or the context
// is cancelled. The first request is granted immediately.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	if l.next.Before(now) {
		l.next = now
	}
	wait := l.next.Sub(now)
	l.next = l.next.Add(l.interval)
	l.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	cdoRateLimitWaitSeconds.Observe(wait.Seconds())

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
