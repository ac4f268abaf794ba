package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key uniquely identifies a cached CDO response.
type Key struct {
	// Endpoint is the CDO endpoint path (e.g. "stations").
	Endpoint string

	// Query holds the request's query parameters.
	Query url.Values
}

// String generates a deterministic cache key string.
// Format: cdo:endpoint:param1=val1:param2=val2
//
// Example:
//
//	cdo:stations:datasetid=GHCND:locationid=FIPS:27:units=standard
func (k Key) String() string {
	parts := []string{"cdo"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Sorted for determinism; repeated parameters joined in order.
	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, strings.Join(k.Query[name], ",")))
		}
	}

	return strings.Join(parts, ":")
}
