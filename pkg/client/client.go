// Package client provides the core CDO HTTP client: one synchronous GET
// per page, token authentication, response caching for catalog
// endpoints, and daily budget gating.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ccollins12000/SEIS73601-Project/pkg/cache"
	"github.com/ccollins12000/SEIS73601-Project/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the CDO v2 API root.
const DefaultBaseURL = "https://www.ncdc.noaa.gov/cdo-web/api/v2"

// Prometheus metrics for CDO client operations.
var (
	cdoRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cdo_requests_total",
		Help: "Total CDO requests by endpoint and status",
	}, []string{"endpoint", "status"})

	cdoRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cdo_request_duration_seconds",
		Help:    "CDO request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	cdoErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cdo_errors_total",
		Help: "Total CDO errors by class",
	}, []string{"class"})
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the client configuration.
type Config struct {
	// Token is the CDO API token, sent as the "token" request header.
	// Request one at https://www.ncdc.noaa.gov/cdo-web/token
	Token string

	// BaseURL overrides DefaultBaseURL (mainly for tests).
	BaseURL string

	// HTTPClient overrides the default transport.
	HTTPClient HTTPDoer

	// Timeout for the default transport when HTTPClient is nil.
	Timeout time.Duration

	// Redis enables the catalog response cache and the shared daily
	// request budget. Nil disables both; the client still works.
	Redis *redis.Client

	// CacheTTL is the freshness window for cached catalog responses.
	// CDO sends no cache headers, so freshness is purely client-side.
	CacheTTL time.Duration

	// DailyLimit is the per-token daily request budget. Zero means
	// ratelimit.DefaultDailyLimit. Ignored when Redis is nil.
	DailyLimit int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(token string) Config {
	return Config{
		Token:      token,
		BaseURL:    DefaultBaseURL,
		Timeout:    30 * time.Second,
		CacheTTL:   1 * time.Hour,
		DailyLimit: ratelimit.DefaultDailyLimit,
	}
}

// Client is the CDO API client. One Client may be shared by any number
// of goroutines; it keeps no per-request state.
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	token      string
	cache      *cache.Manager
	cacheTTL   time.Duration
	budget     *ratelimit.Budget
	logger     zerolog.Logger
}

// New creates a new CDO client.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("api token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := log.With().Str("component", "cdo-client").Logger()

	c := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      cfg.Token,
		cacheTTL:   cfg.CacheTTL,
		logger:     logger,
	}

	if cfg.Redis != nil {
		c.cache = cache.NewManager(cfg.Redis)
		c.budget = ratelimit.NewBudget(cfg.Redis, cfg.DailyLimit, logger)
	}

	return c, nil
}

// FetchPage issues exactly one GET for one page of one endpoint.
//
// A non-200 response yields Page{Status: n} and a nil error: the status
// is data, and the caller decides whether it is fatal. A Go error is
// returned only for client-side refusals (budget), transport failure,
// or a malformed response body.
func (c *Client) FetchPage(ctx context.Context, endpoint Endpoint, q Query) (*Page, error) {
	cacheable := c.cache != nil && endpoint != EndpointData

	key := cache.Key{Endpoint: string(endpoint), Query: q.Values()}
	if cacheable {
		entry, err := c.cache.Get(ctx, key)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", string(endpoint)).Msg("Cache get error")
		}
		if entry != nil {
			page, err := parsePage(entry.Data)
			if err == nil {
				c.logger.Debug().Str("endpoint", string(endpoint)).Msg("Serving page from cache")
				return page, nil
			}
			// Corrupt entry: drop it and fall through to the network.
			_ = c.cache.Delete(ctx, key)
		}
	}

	body, status, err := c.get(ctx, string(endpoint), q)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return &Page{Status: status}, nil
	}

	page, err := parsePage(body)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := c.cache.Set(ctx, key, cache.NewEntry(body, status, c.cacheTTL)); err != nil {
			c.logger.Warn().Err(err).Str("endpoint", string(endpoint)).Msg("Failed to cache response")
		}
	}

	return page, nil
}

// FetchOne retrieves a single document by id, appended to the endpoint
// as a path segment rather than passed as a query parameter. The status
// is returned as data; the document is nil for non-200 responses.
func (c *Client) FetchOne(ctx context.Context, endpoint Endpoint, id string) (Record, int, error) {
	body, status, err := c.get(ctx, string(endpoint)+"/"+id, Query{})
	if err != nil {
		return nil, 0, err
	}
	if status != http.StatusOK {
		return nil, status, nil
	}

	var doc Record
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, status, fmt.Errorf("decode response body: %w", err)
	}
	return doc, status, nil
}

// get performs the HTTP round trip shared by FetchPage and FetchOne.
func (c *Client) get(ctx context.Context, path string, q Query) ([]byte, int, error) {
	if c.budget != nil {
		allowed, err := c.budget.Allow(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Budget check failed, proceeding without gating")
		} else if !allowed {
			c.logger.Error().Str("endpoint", path).Msg("Request blocked: daily budget exhausted")
			cdoRequestsTotal.WithLabelValues(path, "budget_blocked").Inc()
			return nil, 0, ErrBudgetExhausted
		}
	}

	u := c.baseURL + "/" + path + "?" + q.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("token", c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	cdoRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		cdoErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		cdoRequestsTotal.WithLabelValues(path, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", path).Msg("HTTP request failed")
		return nil, 0, fmt.Errorf("cdo request: %w", err)
	}
	defer resp.Body.Close()

	cdoRequestsTotal.WithLabelValues(path, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		if class := classifyStatus(resp.StatusCode); class != "" {
			cdoErrorsTotal.WithLabelValues(string(class)).Inc()
			c.logger.Warn().
				Str("endpoint", path).
				Int("status", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("CDO request error")
		}
		// The body is never inspected on failure.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		cdoErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, 0, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug().
		Str("endpoint", path).
		Int("bytes", len(body)).
		Msg("CDO request complete")

	return body, resp.StatusCode, nil
}
