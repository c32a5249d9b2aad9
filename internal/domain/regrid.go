package domain

import (
	"fmt"
	"math"

	"go.bahari.io/marine-fields/internal/interp"
)

// DefaultResolution is the target lattice step in degrees: one unit of
// distance per 111.139 km of arc.
const DefaultResolution = 1.0 / 111.139

// Lattice is the uniform spatial grid the regridder and masker share. It
// is built once per run from the merged dataset's extent and never mutated.
type Lattice struct {
	Lons []float64
	Lats []float64
	Res  float64
}

// BuildLattice constructs uniform axes spanning [min, max) of the given
// source axes, stepped by res. The upper bound is exclusive, matching the
// generating-range convention.
func BuildLattice(lons, lats []float64, res float64) (*Lattice, error) {
	if res <= 0 {
		return nil, fmt.Errorf("%w: lattice resolution must be positive, got %g", ErrConfig, res)
	}
	if len(lons) < 2 || len(lats) < 2 {
		return nil, fmt.Errorf("%w: need at least two points on each spatial axis to build a lattice", ErrDegenerate)
	}
	return &Lattice{
		Lons: arange(lons[0], lons[len(lons)-1], res),
		Lats: arange(lats[0], lats[len(lats)-1], res),
		Res:  res,
	}, nil
}

// arange generates values from start (inclusive) to stop (exclusive) in
// steps of step, computed multiplicatively to keep spacing uniform.
func arange(start, stop, step float64) []float64 {
	n := int(math.Ceil((stop - start) / step))
	if n < 0 {
		n = 0
	}
	out := make([]float64, 0, n)
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v >= stop {
			break
		}
		out = append(out, v)
	}
	return out
}

// Regrid interpolates every variable of the dataset onto a uniform lattice
// derived from the dataset's spatial extent at the given resolution. Time
// and depth axes pass through unchanged. After interpolation, remaining
// gaps are closed by nearest-value filling along the longitude axis and
// then along the latitude axis; the two passes are sequential and
// univariate, so corner gaps depend on fill order.
func Regrid(ds *Dataset, res float64) (*Dataset, *Lattice, error) {
	lattice, err := BuildLattice(ds.Lons, ds.Lats, res)
	if err != nil {
		return nil, nil, err
	}

	out := NewDataset(lattice.Lons, lattice.Lats, ds.Times, ds.Depths)
	slice := make([][]float64, len(ds.Lats))
	for name, src := range ds.Vars {
		dst := out.AddVar(name, src.HasDepth)
		for t := 0; t < src.NT; t++ {
			for d := 0; d < src.ND; d++ {
				for y := range ds.Lats {
					row := make([]float64, len(ds.Lons))
					for x := range ds.Lons {
						row[x] = src.At(t, d, y, x)
					}
					slice[y] = row
				}
				g := &interp.Grid2D{X: ds.Lons, Y: ds.Lats, Values: slice}
				vals, err := g.RegridTo(lattice.Lons, lattice.Lats)
				if err != nil {
					return nil, nil, fmt.Errorf("%w: cannot regrid variable %q: %v", ErrDegenerate, name, err)
				}
				interp.FillNearestRows(vals)
				interp.FillNearestCols(vals)
				for y := range lattice.Lats {
					for x := range lattice.Lons {
						dst.Set(t, d, y, x, vals[y][x])
					}
				}
			}
		}
	}
	return out, lattice, nil
}
