package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/ccollins12000/SEIS73601-Project/pkg/client"
	"github.com/ccollins12000/SEIS73601-Project/pkg/ratelimit"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Result is the outcome of one chunked collection run.
type Result struct {
	// Records is the globally ordered record sequence: window order,
	// then page order within each window. Append-only during the run,
	// never mutated afterward.
	Records []client.Record

	// Windows is the number of date windows the span was split into.
	Windows int

	// WindowsFailed counts windows that ended early on a failed page.
	WindowsFailed int

	// TotalFetched is len(Records), carried explicitly so callers
	// serializing the result do not have to recount.
	TotalFetched int

	// Complete is true only when every window drained every page.
	// A false value means the record sequence is truncated somewhere.
	Complete bool
}

// Collector walks a date span window by window and accumulates all
// records into one result. It is the orchestration entry point.
type Collector struct {
	driver *Driver
	logger zerolog.Logger
}

// NewCollector creates a collector over the given fetcher. The limiter
// may be nil, in which case a default 5 req/s pacer is created; pass a
// shared limiter when several collectors use one token.
func NewCollector(fetcher PageFetcher, limiter *ratelimit.Limiter) *Collector {
	return &Collector{
		driver: NewDriver(fetcher, limiter),
		logger: log.With().Str("component", "collector").Logger(),
	}
}

// Collect retrieves every record of the endpoint in [start, end],
// splitting the span into windows of delta and draining each window's
// pages in order.
//
// start after end yields an empty, complete result with zero requests.
// Window failures are recorded in the result, never returned as errors;
// the error return is reserved for context cancellation and budget
// exhaustion, and even then the partial result is returned alongside.
func (c *Collector) Collect(ctx context.Context, endpoint client.Endpoint, base client.Query, start, end time.Time, delta Delta) (*Result, error) {
	if !delta.IsPositive() {
		return nil, fmt.Errorf("chunk delta must advance the window, got %s", delta)
	}

	began := time.Now()
	windows := Split(start, end, delta)
	result := &Result{Complete: true}

	c.logger.Info().
		Str("endpoint", string(endpoint)).
		Time("start", start).
		Time("end", end).
		Str("delta", delta.String()).
		Int("windows", len(windows)).
		Msg("Starting chunked collection")

	for _, w := range windows {
		records, complete, err := c.driver.DrainWindow(ctx, endpoint, base, w)
		result.Records = append(result.Records, records...)
		result.Windows++

		if err != nil {
			result.Complete = false
			result.TotalFetched = len(result.Records)
			return result, err
		}
		if !complete {
			result.WindowsFailed++
			result.Complete = false
		}
	}

	result.TotalFetched = len(result.Records)

	c.logger.Info().
		Str("endpoint", string(endpoint)).
		Int("records", result.TotalFetched).
		Int("windows", result.Windows).
		Int("windows_failed", result.WindowsFailed).
		Bool("complete", result.Complete).
		Dur("duration", time.Since(began)).
		Msg("Collection finished")

	return result, nil
}
