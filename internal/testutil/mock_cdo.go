// Package testutil provides testing utilities for the CDO fetch library.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock CDO endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockCDO is a configurable mock CDO server for testing.
type MockCDO struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount int
	RequestTimes []time.Time
	Offsets      []int
	LastToken    string
}

// NewMockCDO creates a new mock CDO server.
func NewMockCDO() *MockCDO {
	mock := &MockCDO{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.RequestTimes = append(mock.RequestTimes, time.Now())
		mock.LastToken = r.Header.Get("token")
		if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
			mock.Offsets = append(mock.Offsets, offset)
		}
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockCDO) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockCDO) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockCDO) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.RequestTimes = nil
	m.Offsets = nil
	m.LastToken = ""
}

// SetHandler sets a custom handler for a specific path.
func (m *MockCDO) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockCDO) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockCDO) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetOffsets returns the offsets requested so far, in arrival order.
func (m *MockCDO) GetOffsets() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int(nil), m.Offsets...)
}

// defaultHandler serves an empty result set.
func (m *MockCDO) defaultHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"metadata": {"resultset": {"count": 0, "limit": 1000, "offset": 0}}, "results": []}`))
}

// PagedHandler serves a fixed pool of totalRecords synthetic records,
// paginated the way CDO paginates: metadata.resultset carries the total
// count, the applied limit, and an echo of the requested offset. The
// offset parameter is interpreted as a 1-based page number, matching
// how the pagination driver issues it.
func PagedHandler(totalRecords, limit int) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
			page = v
		}

		first := (page - 1) * limit
		n := totalRecords - first
		if n < 0 {
			n = 0
		}
		if n > limit {
			n = limit
		}

		records := make([]map[string]any, 0, n)
		for i := 0; i < n; i++ {
			records = append(records, map[string]any{
				"date":     "2020-01-01T00:00:00",
				"datatype": "TMAX",
				"station":  "GHCND:TEST0001",
				"value":    first + i,
			})
		}

		body := map[string]any{
			"metadata": map[string]any{
				"resultset": map[string]any{
					"count":  totalRecords,
					"limit":  limit,
					"offset": page,
				},
			},
			"results": records,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(body)
	}
}

// FailOnPageHandler behaves like PagedHandler except that the given
// 1-based page returns the given status with no body.
func FailOnPageHandler(totalRecords, limit, failPage, failStatus int) func(w http.ResponseWriter, r *http.Request) {
	paged := PagedHandler(totalRecords, limit)
	return func(w http.ResponseWriter, r *http.Request) {
		if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v == failPage {
			w.WriteHeader(failStatus)
			fmt.Fprintf(w, `{"error": "simulated failure"}`)
			return
		}
		paged(w, r)
	}
}

// ResultPage builds a raw CDO response body for canned responses.
func ResultPage(count, limit, offset int, results string) string {
	if results == "" {
		results = "[]"
	}
	return fmt.Sprintf(
		`{"metadata": {"resultset": {"count": %d, "limit": %d, "offset": %d}}, "results": %s}`,
		count, limit, offset, results)
}
