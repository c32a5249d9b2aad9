// Package domain contains the labeled-grid data model and the core
// selection, merging, regridding, and masking operations of the pipeline.
package domain

import (
	"fmt"
	"math"
	"time"
)

// Axis names used across the pipeline. Source files may use different
// native names; adapters rename them on load.
const (
	AxisLongitude = "longitude"
	AxisLatitude  = "latitude"
	AxisTime      = "time"
	AxisDepth     = "depth"
)

// Field is a single named variable on a Dataset. Values are stored flat in
// [time, depth, latitude, longitude] order; ND is 1 for depth-less fields.
// NaN marks a missing value.
type Field struct {
	HasDepth bool

	NT, ND, NY, NX int

	Data []float64
}

// NewField allocates a field of the given shape filled with NaN.
func NewField(hasDepth bool, nt, nd, ny, nx int) *Field {
	if !hasDepth {
		nd = 1
	}
	data := make([]float64, nt*nd*ny*nx)
	for i := range data {
		data[i] = math.NaN()
	}
	return &Field{HasDepth: hasDepth, NT: nt, ND: nd, NY: ny, NX: nx, Data: data}
}

// At returns the value at the given time, depth, latitude, longitude indices.
// For depth-less fields d must be 0.
func (f *Field) At(t, d, y, x int) float64 {
	return f.Data[((t*f.ND+d)*f.NY+y)*f.NX+x]
}

// Set stores a value at the given indices.
func (f *Field) Set(t, d, y, x int, v float64) {
	f.Data[((t*f.ND+d)*f.NY+y)*f.NX+x] = v
}

// SameShape reports whether two fields share axes and extents.
func (f *Field) SameShape(other *Field) bool {
	return f.HasDepth == other.HasDepth &&
		f.NT == other.NT && f.ND == other.ND &&
		f.NY == other.NY && f.NX == other.NX
}

// Dataset is a labeled grid: ordered coordinate axes plus named variables.
// Depths is nil when the dataset carries only depth-less variables.
type Dataset struct {
	Lons   []float64
	Lats   []float64
	Times  []time.Time
	Depths []float64

	Vars map[string]*Field
}

// NewDataset creates an empty dataset with the given axes. The depth axis
// may be nil.
func NewDataset(lons, lats []float64, times []time.Time, depths []float64) *Dataset {
	return &Dataset{
		Lons:   lons,
		Lats:   lats,
		Times:  times,
		Depths: depths,
		Vars:   make(map[string]*Field),
	}
}

// NDepths returns the depth-axis length used for field allocation (1 when
// the dataset has no depth axis).
func (ds *Dataset) NDepths() int {
	if len(ds.Depths) == 0 {
		return 1
	}
	return len(ds.Depths)
}

// AddVar allocates a NaN-filled field matching the dataset axes and
// registers it under the given name.
func (ds *Dataset) AddVar(name string, hasDepth bool) *Field {
	nd := 1
	if hasDepth {
		nd = ds.NDepths()
	}
	f := NewField(hasDepth, len(ds.Times), nd, len(ds.Lats), len(ds.Lons))
	ds.Vars[name] = f
	return f
}

// Validate checks the labeled-grid invariants: strictly increasing axes and
// variable shapes consistent with the axes.
func (ds *Dataset) Validate() error {
	if err := checkIncreasing(AxisLongitude, ds.Lons); err != nil {
		return err
	}
	if err := checkIncreasing(AxisLatitude, ds.Lats); err != nil {
		return err
	}
	for i := 1; i < len(ds.Times); i++ {
		if !ds.Times[i].After(ds.Times[i-1]) {
			return fmt.Errorf("%w: time axis must be strictly increasing at index %d", ErrConfig, i)
		}
	}
	if err := checkIncreasing(AxisDepth, ds.Depths); err != nil {
		return err
	}
	for name, f := range ds.Vars {
		wantND := 1
		if f.HasDepth {
			wantND = ds.NDepths()
		}
		if f.NT != len(ds.Times) || f.ND != wantND || f.NY != len(ds.Lats) || f.NX != len(ds.Lons) {
			return fmt.Errorf("%w: variable %q shape [%d %d %d %d] does not match axes [%d %d %d %d]",
				ErrConfig, name, f.NT, f.ND, f.NY, f.NX, len(ds.Times), wantND, len(ds.Lats), len(ds.Lons))
		}
		if len(f.Data) != f.NT*f.ND*f.NY*f.NX {
			return fmt.Errorf("%w: variable %q has %d values, expected %d",
				ErrConfig, name, len(f.Data), f.NT*f.ND*f.NY*f.NX)
		}
	}
	return nil
}

func checkIncreasing(axis string, vals []float64) error {
	for i := 1; i < len(vals); i++ {
		if vals[i] <= vals[i-1] {
			return fmt.Errorf("%w: %s axis must be strictly increasing at index %d", ErrConfig, axis, i)
		}
	}
	return nil
}

// Surface is an independently sourced 2-D grid (e.g. a bathymetric
// elevation model) with its own native axis names. Values[i][j] corresponds
// to (Ys[i], Xs[j]); NaN marks cells with no data.
type Surface struct {
	XName, YName string
	Xs, Ys       []float64
	Values       [][]float64
}

// RenameAxes relabels the surface's native axes to the working
// longitude/latitude convention.
func (s *Surface) RenameAxes() {
	s.XName = AxisLongitude
	s.YName = AxisLatitude
}
