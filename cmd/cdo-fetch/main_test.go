package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ccollins12000/SEIS73601-Project/pkg/client"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{name: "valid", input: "2020-01-31", expectError: false},
		{name: "empty", input: "", expectError: true},
		{name: "wrong format", input: "01/31/2020", expectError: true},
		{name: "not a date", input: "yesterday", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := parseDate(tt.input)
			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := d.Format(client.DateFormat); got != tt.input {
				t.Errorf("parsed %q back to %q", tt.input, got)
			}
		})
	}
}

func TestCSVColumns(t *testing.T) {
	records := []client.Record{
		{"date": "2020-01-01", "value": 28},
		{"date": "2020-01-02", "station": "GHCND:USC00210075"},
	}

	got := csvColumns(records)
	want := []string{"date", "station", "value"}

	if len(got) != len(want) {
		t.Fatalf("csvColumns() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %q, want %q (sorted union)", i, got[i], want[i])
		}
	}
}

func TestWriteCSV(t *testing.T) {
	records := []client.Record{
		{"date": "2020-01-01", "datatype": "TMIN", "value": -5},
		{"date": "2020-01-01", "datatype": "TMAX"},
	}

	var buf bytes.Buffer
	if err := writeCSV(&buf, records); err != nil {
		t.Fatalf("writeCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), buf.String())
	}
	if lines[0] != "datatype,date,value" {
		t.Errorf("header = %q, want datatype,date,value", lines[0])
	}
	if lines[1] != "TMIN,2020-01-01,-5" {
		t.Errorf("row 1 = %q, want TMIN,2020-01-01,-5", lines[1])
	}
	if lines[2] != "TMAX,2020-01-01," {
		t.Errorf("row 2 = %q, want empty cell for the missing field", lines[2])
	}
}

func TestWriteCSV_NoRecords(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, nil); err != nil {
		t.Fatalf("writeCSV() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty record set should produce no output, got %q", buf.String())
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("CDO_FETCH_TEST_VAR", "from-env")

	if got := getEnv("CDO_FETCH_TEST_VAR", "fallback"); got != "from-env" {
		t.Errorf("getEnv() = %q, want from-env", got)
	}
	if got := getEnv("CDO_FETCH_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("getEnv() = %q, want fallback", got)
	}
}
