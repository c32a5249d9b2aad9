// Package main provides a batch CLI that runs the field-generation
// pipeline once and writes the slices to disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.bahari.io/marine-fields/internal/adapter/emit"
	"go.bahari.io/marine-fields/internal/adapter/store/bathymetry"
	"go.bahari.io/marine-fields/internal/adapter/store/csv"
	"go.bahari.io/marine-fields/internal/adapter/store/netcdf"
	"go.bahari.io/marine-fields/internal/domain"
	"go.bahari.io/marine-fields/internal/observability"
	"go.bahari.io/marine-fields/internal/usecase"
)

const version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	catalogPath := flag.String("catalog", "sources.csv", "Parameter sources CSV file")
	bathymetryPath := flag.String("bathymetry", "", "Elevation NetCDF file")
	outputDir := flag.String("out", "out", "Output directory for field slices")
	resolution := flag.Float64("resolution", domain.DefaultResolution, "Lattice step in degrees")

	parameter := flag.String("parameter", "", "Parameter to generate (e.g. temperature)")
	temporal := flag.String("temporal", "monthly", "Temporal resolution: daily, monthly or annual")
	lonMin := flag.Float64("lon-min", 0, "Western longitude bound")
	lonMax := flag.Float64("lon-max", 0, "Eastern longitude bound")
	latMin := flag.Float64("lat-min", 0, "Southern latitude bound")
	latMax := flag.Float64("lat-max", 0, "Northern latitude bound")
	startStr := flag.String("start", "", "Window start (RFC3339 or YYYY-MM-DD, default: archive start)")
	stopStr := flag.String("stop", "", "Window stop (RFC3339 or YYYY-MM-DD, default: today)")
	depthMin := flag.Float64("depth-min", 0, "Shallow depth bound in metres")
	depthMax := flag.Float64("depth-max", 0, "Deep depth bound in metres")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	if *showVersion {
		fmt.Printf("fieldgen version %s\n", version)
		return
	}

	if *parameter == "" {
		fmt.Fprintln(os.Stderr, "error: -parameter is required")
		flag.Usage()
		os.Exit(2)
	}
	if *bathymetryPath == "" {
		fmt.Fprintln(os.Stderr, "error: -bathymetry is required")
		flag.Usage()
		os.Exit(2)
	}

	req := usecase.Request{
		Parameter: *parameter,
		Temporal:  *temporal,
		LonMin:    *lonMin, LonMax: *lonMax,
		LatMin: *latMin, LatMax: *latMax,
		DepthMin: *depthMin, DepthMax: *depthMax,
	}

	var err error
	if *startStr != "" {
		if req.Start, err = parseInstant(*startStr); err != nil {
			fmt.Fprintf(os.Stderr, "error: invalid -start: %v\n", err)
			os.Exit(2)
		}
	}
	if *stopStr != "" {
		if req.Stop, err = parseInstant(*stopStr); err != nil {
			fmt.Fprintf(os.Stderr, "error: invalid -stop: %v\n", err)
			os.Exit(2)
		}
	}

	log := observability.NewLogger(*logLevel, "text")

	pipeline := usecase.New(usecase.Deps{
		Catalog:    csv.NewCatalog(*catalogPath),
		Fetcher:    netcdf.NewStore(),
		Elevation:  bathymetry.NewLocalStore(*bathymetryPath),
		Emitter:    emit.NewCSVEmitter(*outputDir),
		Log:        log,
		Resolution: *resolution,
	})

	result, err := pipeline.Run(context.Background(), req)
	if err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s (%s): %d slices written to %s\n",
		result.Title, result.Temporal, result.Slices, *outputDir)
	for _, t := range result.Times {
		fmt.Printf("  %s\n", t.UTC().Format(time.RFC3339))
	}
}

// parseInstant accepts a full RFC3339 timestamp or a bare date.
func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
