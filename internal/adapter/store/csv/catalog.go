// Package csv provides the CSV-backed parameter catalog.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.bahari.io/marine-fields/internal/domain"
)

// Record describes one catalog row: where a variable's archives live, the
// cutover instant between them, and the rendering value range.
type Record struct {
	Variable string
	Temporal string

	// HistoricalLocator addresses the multi-year reprocessed archive,
	// NRTLocator the near-real-time one.
	HistoricalLocator string
	NRTLocator        string

	// InitDate is the first instant the historical archive covers;
	// Cutover separates historical from near-real-time coverage.
	InitDate time.Time
	Cutover  time.Time

	Title              string
	ValueMin, ValueMax float64
}

// Catalog reads parameter records from a sources CSV file.
type Catalog struct {
	path string
}

// NewCatalog creates a catalog backed by the given CSV file.
func NewCatalog(path string) *Catalog {
	return &Catalog{path: path}
}

var expectedHeader = []string{
	"parameter", "temporal", "opendap_my", "opendap_nrt",
	"init_date", "nrt_date", "title", "value_min", "value_max",
}

// Lookup returns the record for a variable at the given temporal
// resolution. A missing combination is a configuration error.
func (c *Catalog) Lookup(variable, temporal string) (*Record, error) {
	//nolint:gosec // G304: Path comes from service configuration.
	file, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}
	if len(header) != len(expectedHeader) {
		return nil, fmt.Errorf("invalid catalog header: expected %v, got %v", expectedHeader, header)
	}
	for i, h := range header {
		if h != expectedHeader[i] {
			return nil, fmt.Errorf("invalid catalog header: expected column %d to be %s, got %s", i, expectedHeader[i], h)
		}
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog record: %w", err)
		}
		if strings.TrimSpace(row[0]) != variable || strings.TrimSpace(row[1]) != temporal {
			continue
		}
		return parseRecord(row)
	}

	return nil, fmt.Errorf("%w: no catalog entry for variable %q at %q resolution", domain.ErrConfig, variable, temporal)
}

func parseRecord(row []string) (*Record, error) {
	initDate, err := parseDate(row[4])
	if err != nil {
		return nil, fmt.Errorf("invalid init_date for %s: %w", row[0], err)
	}
	cutover, err := parseDate(row[5])
	if err != nil {
		return nil, fmt.Errorf("invalid nrt_date for %s: %w", row[0], err)
	}
	valueMin, err := strconv.ParseFloat(strings.TrimSpace(row[7]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value_min for %s: %w", row[0], err)
	}
	valueMax, err := strconv.ParseFloat(strings.TrimSpace(row[8]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value_max for %s: %w", row[0], err)
	}

	return &Record{
		Variable:          strings.TrimSpace(row[0]),
		Temporal:          strings.TrimSpace(row[1]),
		HistoricalLocator: strings.TrimSpace(row[2]),
		NRTLocator:        strings.TrimSpace(row[3]),
		InitDate:          initDate,
		Cutover:           cutover,
		Title:             strings.TrimSpace(row[6]),
		ValueMin:          valueMin,
		ValueMax:          valueMax,
	}, nil
}

// parseDate accepts dates with or without a time component.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
