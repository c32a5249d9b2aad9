// Package emit writes rendered field slices to an output sink.
package emit

import (
	"context"
	"time"
)

// Slice is one rendered field at a single time coordinate, on the uniform
// lattice, with non-sea cells already suppressed. U and V carry the
// orthogonal components for derived vector fields and are nil otherwise.
type Slice struct {
	Parameter string
	Variable  string
	Title     string
	Temporal  string

	Time     time.Time
	Depth    float64
	HasDepth bool

	ValueMin float64
	ValueMax float64

	Lons   []float64
	Lats   []float64
	Values [][]float64
	U, V   [][]float64
}

// Emitter writes one slice. Implementations decide the format and layout.
type Emitter interface {
	Emit(ctx context.Context, s *Slice) error
}
