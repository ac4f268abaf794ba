// Package pagination drains paginated CDO result sets across chunked
// date ranges.
//
// CDO reports the total record count in metadata.resultset and caps
// pages at 1000 records, so long time spans require both page-level
// iteration and date-range chunking. This package implements both:
//
//   - Driver fetches every page of one date window sequentially,
//     pacing requests through a shared ratelimit.Limiter.
//   - Collector splits a [start, end] span into contiguous windows of
//     a caller-chosen calendar delta and drives one window at a time,
//     concatenating all records into one ordered result.
//
// Example usage:
//
//	limiter := ratelimit.NewLimiter(ratelimit.DefaultRequestsPerSecond)
//	collector := pagination.NewCollector(cdoClient, limiter)
//	result, err := collector.Collect(ctx, client.EndpointData, client.Query{
//		DatasetID: "GHCND",
//		StationID: "GHCND:USC00210075",
//	}, start, end, pagination.Months(1))
//
// Failures are isolated per window: a failed page ends its window with
// whatever was collected so far and the run continues with the next
// window. The returned Result carries an explicit Complete flag so
// callers can tell a full harvest from a truncated one.
package pagination
