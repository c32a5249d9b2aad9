// Package store defines the data-access contracts the pipeline depends on.
package store

import (
	"context"

	"go.bahari.io/marine-fields/internal/domain"
)

// DatasetFetcher retrieves a labeled grid from an archive locator. Failures
// are access errors; the pipeline propagates them without retrying.
type DatasetFetcher interface {
	Fetch(ctx context.Context, locator string, variables []string) (*domain.Dataset, error)
}

// ElevationSource supplies the bathymetric elevation surface with its
// native axis names.
type ElevationSource interface {
	LoadSurface(ctx context.Context) (*domain.Surface, error)
}
