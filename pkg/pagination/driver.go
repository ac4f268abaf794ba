package pagination

import (
	"context"
	"errors"
	"time"

	"github.com/ccollins12000/SEIS73601-Project/pkg/client"
	"github.com/ccollins12000/SEIS73601-Project/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for pagination progress.
var (
	cdoPagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cdo_pages_fetched_total",
		Help: "Total pages fetched by endpoint",
	}, []string{"endpoint"})

	cdoRecordsFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cdo_records_fetched_total",
		Help: "Total records accumulated by endpoint",
	}, []string{"endpoint"})

	cdoWindowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cdo_windows_total",
		Help: "Date windows drained by outcome",
	}, []string{"outcome"}) // "complete", "failed"
)

// PageFetcher is the single-page seam the driver drives.
// *client.Client implements it.
type PageFetcher interface {
	FetchPage(ctx context.Context, endpoint client.Endpoint, q client.Query) (*client.Page, error)
}

// Driver drains all pages of one date window, one request at a time.
type Driver struct {
	fetcher PageFetcher
	limiter *ratelimit.Limiter
	logger  zerolog.Logger
}

// NewDriver creates a window driver. The limiter is shared: pass the
// same instance to every driver using one token so the combined rate
// stays under the ceiling.
func NewDriver(fetcher PageFetcher, limiter *ratelimit.Limiter) *Driver {
	if limiter == nil {
		limiter = ratelimit.NewLimiter(ratelimit.DefaultRequestsPerSecond)
	}
	return &Driver{
		fetcher: fetcher,
		limiter: limiter,
		logger:  log.With().Str("component", "pagination-driver").Logger(),
	}
}

// DrainWindow fetches every page of one date window and returns the
// records in page-arrival order.
//
// complete is false when a page came back non-200 mid-drain; whatever
// was collected before the failure is still returned, and the failure
// never propagates as an error. The returned error is non-nil only for
// conditions that make further requests pointless: context
// cancellation or an exhausted daily budget.
func (d *Driver) DrainWindow(ctx context.Context, endpoint client.Endpoint, base client.Query, w Window) (records []client.Record, complete bool, err error) {
	start := time.Now()

	// currentPage/totalPages are loop locals, never shared state, so
	// concurrent drivers can coexist. totalPages starts at 1 as the
	// reentry condition for the first probe.
	currentPage := 0
	totalPages := 1

	for currentPage < totalPages {
		if err := d.limiter.Wait(ctx); err != nil {
			return records, false, err
		}

		currentPage++

		q := base
		q.StartDate = w.Start
		q.EndDate = w.End
		q.Offset = currentPage
		q.Limit = client.MaxPageSize

		page, err := d.fetcher.FetchPage(ctx, endpoint, q)
		if err != nil {
			if errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded) ||
				errors.Is(err, client.ErrBudgetExhausted) {
				return records, false, err
			}
			// Transport-level failure: same isolation as a bad status.
			d.logger.Warn().Err(err).
				Time("window_start", w.Start).
				Int("page", currentPage).
				Msg("Page fetch failed")
			cdoWindowsTotal.WithLabelValues("failed").Inc()
			return records, false, nil
		}

		if !page.OK() {
			d.logger.Warn().
				Time("window_start", w.Start).
				Int("page", currentPage).
				Int("status", page.Status).
				Msg("Page fetch returned non-200 status")
			cdoWindowsTotal.WithLabelValues("failed").Inc()
			return records, false, nil
		}

		records = append(records, page.Records...)
		cdoPagesFetchedTotal.WithLabelValues(string(endpoint)).Inc()
		cdoRecordsFetchedTotal.WithLabelValues(string(endpoint)).Add(float64(len(page.Records)))

		// The server-echoed offset is authoritative for the page
		// counter; the local increment only drives the request.
		currentPage = page.ResultSet.Offset
		totalPages = page.ResultSet.Pages()

		// Empty or absent metadata means no more data, not an error.
		if totalPages == 0 || page.ResultSet.Offset == 0 {
			break
		}
	}

	d.logger.Debug().
		Time("window_start", w.Start).
		Time("window_end", w.End).
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Window drained")

	cdoWindowsTotal.WithLabelValues("complete").Inc()
	return records, true, nil
}
