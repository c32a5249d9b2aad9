package domain

import (
	"fmt"
	"math"

	"go.bahari.io/marine-fields/internal/interp"
)

// SeaState classifies one lattice cell against the elevation surface.
type SeaState int8

// Cell states. Unknown marks lattice cells outside the elevation surface's
// native coverage, which is distinct from land: both are suppressed in the
// masked output, but only Unknown indicates missing coverage.
const (
	StateUnknown SeaState = iota
	StateSea
	StateLand
)

// BuildSeaMask interpolates the elevation surface onto the lattice and
// classifies each cell: negative elevation is sea, zero or positive is
// land, and cells the surface does not cover are unknown. The surface's
// axes must already be renamed to the working convention.
func BuildSeaMask(s *Surface, lattice *Lattice) ([]SeaState, error) {
	if s.XName != AxisLongitude || s.YName != AxisLatitude {
		return nil, fmt.Errorf("%w: elevation surface axes are %q/%q, expected %q/%q (call RenameAxes first)",
			ErrConfig, s.XName, s.YName, AxisLongitude, AxisLatitude)
	}
	g := &interp.Grid2D{X: s.Xs, Y: s.Ys, Values: s.Values}
	elev, err := g.RegridTo(lattice.Lons, lattice.Lats)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot interpolate elevation surface: %v", ErrConfig, err)
	}

	mask := make([]SeaState, len(lattice.Lats)*len(lattice.Lons))
	for y := range lattice.Lats {
		for x := range lattice.Lons {
			v := elev[y][x]
			switch {
			case math.IsNaN(v):
				mask[y*len(lattice.Lons)+x] = StateUnknown
			case v < 0:
				mask[y*len(lattice.Lons)+x] = StateSea
			default:
				mask[y*len(lattice.Lons)+x] = StateLand
			}
		}
	}
	return mask, nil
}

// ApplyMask returns a copy of the dataset in which every variable value at
// a non-sea (longitude, latitude) location is missing, across all time and
// depth coordinates. Shapes and axes are preserved.
func ApplyMask(ds *Dataset, mask []SeaState) (*Dataset, error) {
	if len(mask) != len(ds.Lats)*len(ds.Lons) {
		return nil, fmt.Errorf("%w: mask has %d cells, dataset lattice has %d", ErrConfig, len(mask), len(ds.Lats)*len(ds.Lons))
	}
	out := NewDataset(ds.Lons, ds.Lats, ds.Times, ds.Depths)
	for name, src := range ds.Vars {
		dst := out.AddVar(name, src.HasDepth)
		copy(dst.Data, src.Data)
		for t := 0; t < src.NT; t++ {
			for d := 0; d < src.ND; d++ {
				for y := 0; y < src.NY; y++ {
					for x := 0; x < src.NX; x++ {
						if mask[y*src.NX+x] != StateSea {
							dst.Set(t, d, y, x, math.NaN())
						}
					}
				}
			}
		}
	}
	return out, nil
}
