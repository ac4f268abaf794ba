// Command cdo-fetch retrieves records from the NOAA CDO v2 API across a
// chunked date range and writes them as CSV or JSON.
//
// Example:
//
//	cdo-fetch -token $CDO_TOKEN -endpoint data -dataset GHCND \
//	  -station GHCND:USC00210075 -start 2020-01-01 -end 2020-12-31 \
//	  -delta-months 1 -out observations.csv
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ccollins12000/SEIS73601-Project/pkg/client"
	"github.com/ccollins12000/SEIS73601-Project/pkg/logging"
	"github.com/ccollins12000/SEIS73601-Project/pkg/pagination"
	"github.com/ccollins12000/SEIS73601-Project/pkg/ratelimit"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		token       = flag.String("token", getEnv("CDO_TOKEN", ""), "CDO API token (or set CDO_TOKEN)")
		endpoint    = flag.String("endpoint", "data", "CDO endpoint: data, datasets, datatypes, stations, locations, datacategories, locationcategories")
		dataset     = flag.String("dataset", "", "dataset id (e.g. GHCND)")
		station     = flag.String("station", "", "station id (e.g. GHCND:USC00210075)")
		location    = flag.String("location", "", "location id (e.g. FIPS:27)")
		datatypes   = flag.String("datatypes", "", "comma-separated data type ids (e.g. TMIN,TMAX)")
		start       = flag.String("start", "", "start date (yyyy-mm-dd)")
		end         = flag.String("end", "", "end date (yyyy-mm-dd)")
		deltaDays   = flag.Int("delta-days", 0, "chunk size in days")
		deltaMonths = flag.Int("delta-months", 0, "chunk size in whole months (default 1 when no delta given)")
		out         = flag.String("out", "", "output file (default stdout)")
		format      = flag.String("format", "csv", "output format: csv or json")
		redisAddr   = flag.String("redis", getEnv("REDIS_URL", ""), "redis address enabling catalog cache and shared daily budget (optional)")
		rate        = flag.Int("rate", ratelimit.DefaultRequestsPerSecond, "request rate ceiling in requests/second")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logCfg := logging.DefaultConfig()
	logCfg.Pretty = true
	if *verbose {
		logCfg.Level = logging.LevelDebug
	}
	logger := logging.Setup(logCfg)

	if *token == "" {
		logger.Fatal().Msg("A CDO token is required (-token or CDO_TOKEN); request one at https://www.ncdc.noaa.gov/cdo-web/token")
	}

	startDate, err := parseDate(*start)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid -start date")
	}
	endDate, err := parseDate(*end)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid -end date")
	}

	delta := pagination.Delta{Months: *deltaMonths, Days: *deltaDays}
	if !delta.IsPositive() {
		delta = pagination.Months(1)
	}

	cfg := client.DefaultConfig(*token)
	if *redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: *redisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", *redisAddr).Msg("Failed to connect to Redis")
		}
		cancel()
		defer redisClient.Close()
		cfg.Redis = redisClient
	}

	cdo, err := client.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create CDO client")
	}

	query := client.Query{
		DatasetID:  *dataset,
		StationID:  *station,
		LocationID: *location,
	}
	if *datatypes != "" {
		query.DataTypeIDs = strings.Split(*datatypes, ",")
	}

	limiter := ratelimit.NewLimiter(*rate)
	collector := pagination.NewCollector(cdo, limiter)

	result, err := collector.Collect(context.Background(), client.Endpoint(*endpoint), query, startDate, endDate, delta)
	if err != nil {
		logger.Fatal().Err(err).Msg("Collection aborted")
	}
	if !result.Complete {
		logger.Warn().
			Int("windows_failed", result.WindowsFailed).
			Msg("Collection finished incomplete; output is truncated")
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *out).Msg("Failed to create output file")
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "csv":
		err = writeCSV(w, result.Records)
	case "json":
		err = json.NewEncoder(w).Encode(result.Records)
	default:
		logger.Fatal().Str("format", *format).Msg("Unknown output format")
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to write output")
	}

	logger.Info().
		Int("records", result.TotalFetched).
		Int("windows", result.Windows).
		Bool("complete", result.Complete).
		Msg("Done")
}

// parseDate parses a yyyy-mm-dd flag value.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required (yyyy-mm-dd)")
	}
	return time.Parse(client.DateFormat, s)
}

// csvColumns returns the union of field names across all records,
// sorted for a stable header.
func csvColumns(records []client.Record) []string {
	seen := map[string]bool{}
	for _, rec := range records {
		for name := range rec {
			seen[name] = true
		}
	}
	columns := make([]string, 0, len(seen))
	for name := range seen {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	return columns
}

// writeCSV flattens the records into CSV with a sorted header row.
// Field values are server-owned and opaque; they are rendered with %v.
func writeCSV(w io.Writer, records []client.Record) error {
	if len(records) == 0 {
		return nil
	}
	columns := csvColumns(records)

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			if v, ok := rec[col]; ok && v != nil {
				row[i] = fmt.Sprintf("%v", v)
			} else {
				row[i] = ""
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
