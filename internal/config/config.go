// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"go.bahari.io/marine-fields/internal/domain"
)

// Config holds everything the service needs to start.
type Config struct {
	// HTTPAddr is the listen address of the API server.
	HTTPAddr string

	// CatalogPath points at the parameter sources CSV.
	CatalogPath string

	// BathymetryPath points at the elevation NetCDF file.
	BathymetryPath string

	// RunsDBPath is the SQLite run-ledger file; empty disables the ledger.
	RunsDBPath string

	// OutputDir is where the emitter writes field slices.
	OutputDir string

	// Resolution is the target lattice step in degrees.
	Resolution float64

	LogLevel  string
	LogFormat string

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string
}

// Load reads configuration from the environment, applying defaults and
// validating required settings.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		CatalogPath:    os.Getenv("CATALOG_PATH"),
		BathymetryPath: os.Getenv("BATHYMETRY_PATH"),
		RunsDBPath:     getEnv("RUNS_DB_PATH", "runs.db"),
		OutputDir:      getEnv("OUTPUT_DIR", "out"),
		Resolution:     domain.DefaultResolution,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		CORSOrigins:    []string{getEnv("CORS_ORIGIN", "*")},
	}

	if v := os.Getenv("RESOLUTION"); v != "" {
		res, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RESOLUTION %q: %w", v, err)
		}
		if res <= 0 {
			return nil, fmt.Errorf("RESOLUTION must be positive, got %g", res)
		}
		cfg.Resolution = res
	}

	if cfg.CatalogPath == "" {
		return nil, fmt.Errorf("CATALOG_PATH is required")
	}
	if cfg.BathymetryPath == "" {
		return nil, fmt.Errorf("BATHYMETRY_PATH is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
