// Package main provides the marine fields HTTP server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"go.bahari.io/marine-fields/internal/adapter/emit"
	"go.bahari.io/marine-fields/internal/adapter/store/bathymetry"
	"go.bahari.io/marine-fields/internal/adapter/store/csv"
	"go.bahari.io/marine-fields/internal/adapter/store/netcdf"
	"go.bahari.io/marine-fields/internal/adapter/store/runs"
	"go.bahari.io/marine-fields/internal/config"
	httpHandler "go.bahari.io/marine-fields/internal/http"
	"go.bahari.io/marine-fields/internal/observability"
	"go.bahari.io/marine-fields/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("marine-fields version %s\n", version)
		return
	}

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	log.Info("starting marine fields server",
		"addr", cfg.HTTPAddr,
		"catalog", cfg.CatalogPath,
		"bathymetry", cfg.BathymetryPath,
		"resolution", cfg.Resolution)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// Initialize stores.
	catalog := csv.NewCatalog(cfg.CatalogPath)
	fetcher := netcdf.NewStore()
	elevation := bathymetry.NewLocalStore(cfg.BathymetryPath)
	emitter := emit.NewCSVEmitter(cfg.OutputDir)

	// Run ledger is optional.
	var ledger *runs.Store
	if cfg.RunsDBPath != "" {
		ledger, err = runs.Open(cfg.RunsDBPath)
		if err != nil {
			log.Error("failed to open run ledger", "error", err)
			os.Exit(1)
		}
		defer func() { _ = ledger.Close() }()
	} else {
		log.Info("run ledger disabled")
	}

	// Initialize the pipeline.
	deps := usecase.Deps{
		Catalog:    catalog,
		Fetcher:    fetcher,
		Elevation:  elevation,
		Emitter:    emitter,
		Log:        log,
		Metrics:    metrics,
		Resolution: cfg.Resolution,
	}
	var lister httpHandler.RunLister
	if ledger != nil {
		deps.Ledger = ledger
		lister = ledger
	}
	pipeline := usecase.New(deps)

	// Setup router and start server.
	router := httpHandler.SetupRouter(pipeline, lister, registry, cfg.CORSOrigins)
	log.Info("server listening", "addr", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Marine Fields Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  marine-fields-server [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  HTTP_ADDR         Listen address (default: :8080)")
	fmt.Println("  CATALOG_PATH      Parameter sources CSV file (required)")
	fmt.Println("  BATHYMETRY_PATH   Elevation NetCDF file (required)")
	fmt.Println("  RUNS_DB_PATH      SQLite run ledger file (default: runs.db, empty disables)")
	fmt.Println("  OUTPUT_DIR        Directory for emitted field slices (default: out)")
	fmt.Println("  RESOLUTION        Lattice step in degrees (default: 1/111.139)")
	fmt.Println("  LOG_LEVEL         debug, info, warn or error (default: info)")
	fmt.Println("  LOG_FORMAT        json or text (default: json)")
	fmt.Println("  CORS_ORIGIN       Allowed origin, * allows all (default: *)")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET  /health             Health check")
	fmt.Println("  GET  /v1/parameters      List requestable parameters")
	fmt.Println("  POST /v1/fields/runs     Generate field slices for a window")
	fmt.Println("  GET  /v1/runs            List recorded runs")
	fmt.Println("  GET  /metrics            Prometheus metrics")
	fmt.Println()
}
