package client

import (
	"errors"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrBudgetExhausted is returned when the shared daily request
	// budget has been spent. Further requests would be rejected by the
	// server anyway, so the client refuses to issue them.
	ErrBudgetExhausted = errors.New("daily request budget exhausted")
)

// ErrorClass categorizes non-200 responses for logging and metrics.
// The core contract collapses all of them into a status-carrying Page;
// the class only drives observability.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors other than 429.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// classifyStatus maps an HTTP status to an ErrorClass. Returns the
// empty class for statuses that are not errors.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}
