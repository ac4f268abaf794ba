package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Record is one observation or catalog document as returned by the
// server. The schema is owned by the server and never interpreted here.
type Record map[string]any

// ResultSet is the pagination metadata CDO nests under
// metadata.resultset. Absent keys decode to zero.
type ResultSet struct {
	// Count is the total number of records matching the query.
	Count int `json:"count"`

	// Limit is the page size the server applied.
	Limit int `json:"limit"`

	// Offset is the server's echo of the requested page offset.
	Offset int `json:"offset"`
}

// Pages returns the total page count for this result set:
// ceil(Count/Limit) when Count > 0, else 0.
func (rs ResultSet) Pages() int {
	if rs.Count <= 0 || rs.Limit <= 0 {
		return 0
	}
	return (rs.Count + rs.Limit - 1) / rs.Limit
}

// Page is the outcome of one page fetch. A non-200 status is carried
// as data, never as a Go error: callers decide whether it is fatal.
type Page struct {
	// Status is the HTTP status code of the response.
	Status int

	// ResultSet reflects the most recently fetched page only,
	// not the accumulated session.
	ResultSet ResultSet

	// Records are the page's results in response order.
	Records []Record
}

// OK reports whether the fetch succeeded.
func (p *Page) OK() bool {
	return p.Status == http.StatusOK
}

// pageBody is the CDO response envelope.
//
//	{
//	  "metadata": {"resultset": {"offset": 1, "count": 51, "limit": 52}},
//	  "results": [ ... ]
//	}
type pageBody struct {
	Metadata struct {
		ResultSet ResultSet `json:"resultset"`
	} `json:"metadata"`
	Results []Record `json:"results"`
}

// parsePage decodes a 200 response body into a Page. Malformed JSON is
// a hard error; missing metadata or results are not.
func parsePage(body []byte) (*Page, error) {
	var envelope pageBody
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}

	return &Page{
		Status:    http.StatusOK,
		ResultSet: envelope.Metadata.ResultSet,
		Records:   envelope.Results,
	}, nil
}
