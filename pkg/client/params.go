package client

import (
	"net/url"
	"strconv"
	"time"
)

// DateFormat is the wire format CDO expects for date bounds.
const DateFormat = "2006-01-02"

// MaxPageSize is the documented server maximum for the limit parameter.
// See https://www.ncdc.noaa.gov/cdo-web/webservices/v2#data
const MaxPageSize = 1000

// UnitsStandard selects the standard (imperial) unit system.
const UnitsStandard = "standard"

// Endpoint identifies one of the CDO v2 resource collections.
type Endpoint string

const (
	// EndpointData serves the actual observation records.
	EndpointData Endpoint = "data"

	// EndpointDatasets lists the available datasets (e.g. GHCND).
	EndpointDatasets Endpoint = "datasets"

	// EndpointDataCategories lists coarse data groupings.
	EndpointDataCategories Endpoint = "datacategories"

	// EndpointDataTypes lists the measured quantities (e.g. TMAX, PRCP).
	EndpointDataTypes Endpoint = "datatypes"

	// EndpointLocationCategories lists location groupings (e.g. ST, CITY).
	EndpointLocationCategories Endpoint = "locationcategories"

	// EndpointLocations lists the known locations (e.g. FIPS:27).
	EndpointLocations Endpoint = "locations"

	// EndpointStations lists the observation stations (e.g. GHCND:USC00210075).
	EndpointStations Endpoint = "stations"
)

// Query is the closed set of parameters the CDO API recognizes.
// Zero-valued fields are omitted from the request; the server applies
// its own defaults. Parameter names are server-defined and fixed here
// so that unknown keys cannot be forwarded by accident.
type Query struct {
	// StartDate and EndDate bound the query's date window (inclusive).
	StartDate time.Time
	EndDate   time.Time

	// DatasetID restricts results to one dataset code.
	DatasetID string

	// DataTypeIDs restricts results to specific measured quantities.
	DataTypeIDs []string

	// LocationID and StationID identify the geographic scope.
	// The server requires at least one of them for data queries;
	// the client passes through whatever the caller sets.
	LocationID string
	StationID  string

	// LocationCategoryID and DataCategoryID are coarse-grained filters.
	LocationCategoryID string
	DataCategoryID     string

	// Offset is the 1-based page start for pagination.
	Offset int

	// Limit is the page size, capped at MaxPageSize by the server.
	Limit int

	// Units selects the unit system. Empty means UnitsStandard.
	Units string
}

// Values encodes the query as URL parameters, omitting unset fields.
func (q Query) Values() url.Values {
	v := url.Values{}

	if !q.StartDate.IsZero() {
		v.Set("startdate", q.StartDate.Format(DateFormat))
	}
	if !q.EndDate.IsZero() {
		v.Set("enddate", q.EndDate.Format(DateFormat))
	}
	if q.DatasetID != "" {
		v.Set("datasetid", q.DatasetID)
	}
	for _, dt := range q.DataTypeIDs {
		v.Add("datatypeid", dt)
	}
	if q.LocationID != "" {
		v.Set("locationid", q.LocationID)
	}
	if q.StationID != "" {
		v.Set("stationid", q.StationID)
	}
	if q.LocationCategoryID != "" {
		v.Set("locationcategoryid", q.LocationCategoryID)
	}
	if q.DataCategoryID != "" {
		v.Set("datacategoryid", q.DataCategoryID)
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}

	units := q.Units
	if units == "" {
		units = UnitsStandard
	}
	v.Set("units", units)

	return v
}
