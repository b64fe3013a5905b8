// Package ratelimit enforces a minimum wait between consecutive
// outbound Companies House requests. The public API allows 600 requests
// per 5 minutes per key, so calls must average at least 0.5s apart; the
// throttle blocks each call until the configured interval since the
// previous call has elapsed.
package ratelimit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Prometheus metrics for throttle behavior.
var (
	throttleWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "registry_throttle_wait_seconds",
		Help:    "Time spent waiting for the inter-request interval",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 0.6, 1, 2},
	})

	throttleRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registry_throttle_requests_total",
		Help: "Total requests passed through the throttle",
	})
)

// DefaultInterval satisfies the published 600 requests / 5 minutes
// limit with headroom.
const DefaultInterval = 600 * time.Millisecond

// Snapshot captures throttle state for observability.
type Snapshot struct {
	// Requests is the number of calls that have passed the throttle.
	Requests int

	// LastRequestAt is when the most recent call was released.
	LastRequestAt time.Time

	// LastWait is the wait imposed on the most recent call.
	LastWait time.Duration

	// TotalWaited is the cumulative time spent blocked.
	TotalWaited time.Duration
}

// Throttle is a strictly serial inter-request limiter. It is owned by a
// single client instance and is not safe for concurrent callers; the
// client itself is documented as single-threaded.
type Throttle struct {
	limiter  *rate.Limiter
	interval time.Duration
	logger   zerolog.Logger
	snap     Snapshot
}

// New creates a throttle with the given minimum interval between calls.
// Non-positive intervals fall back to DefaultInterval.
func New(interval time.Duration, logger zerolog.Logger) *Throttle {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Throttle{
		// Burst 1: the first call is released immediately, every later
		// call waits out the remainder of the interval.
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
		logger:   logger,
	}
}

// Interval returns the configured minimum inter-request interval.
func (t *Throttle) Interval() time.Duration {
	return t.interval
}

// Wait blocks until the interval since the previous call has elapsed,
// then records the call. Returns an error only when ctx is cancelled
// during the wait.
func (t *Throttle) Wait(ctx context.Context) error {
	start := time.Now()
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	waited := time.Since(start)

	t.snap.Requests++
	t.snap.LastRequestAt = time.Now()
	t.snap.LastWait = waited
	t.snap.TotalWaited += waited

	throttleRequestsTotal.Inc()
	throttleWaitSeconds.Observe(waited.Seconds())

	if waited > 0 {
		t.logger.Debug().
			Dur("waited", waited).
			Dur("interval", t.interval).
			Msg("Throttled request")
	}

	return nil
}

// State returns a copy of the current throttle state.
func (t *Throttle) State() Snapshot {
	return t.snap
}
