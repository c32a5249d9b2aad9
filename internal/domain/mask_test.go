package domain

import (
	"errors"
	"math"
	"testing"
)

func latticeForTest(lons, lats []float64) *Lattice {
	return &Lattice{Lons: lons, Lats: lats, Res: lons[1] - lons[0]}
}

// Scenario: elevations {-5, -1, 0, 3} classify as {sea, sea, land, land};
// masked output at the land cells is missing regardless of input value.
func TestBuildSeaMask_ElevationSignClassification(t *testing.T) {
	s := &Surface{
		XName: AxisLongitude, YName: AxisLatitude,
		Xs: []float64{114.0, 115.0},
		Ys: []float64{-8.0, -7.0},
		Values: [][]float64{
			{-5, -1},
			{0, 3},
		},
	}
	lattice := latticeForTest([]float64{114.0, 115.0}, []float64{-8.0, -7.0})

	mask, err := BuildSeaMask(s, lattice)
	if err != nil {
		t.Fatalf("BuildSeaMask: %v", err)
	}
	want := []SeaState{StateSea, StateSea, StateLand, StateLand}
	for i, w := range want {
		if mask[i] != w {
			t.Errorf("mask[%d] = %v, want %v", i, mask[i], w)
		}
	}
}

func TestBuildSeaMask_CellsOutsideCoverageAreUnknown(t *testing.T) {
	s := &Surface{
		XName: AxisLongitude, YName: AxisLatitude,
		Xs: []float64{114.0, 115.0},
		Ys: []float64{-8.0, -7.0},
		Values: [][]float64{
			{-5, -5},
			{-5, -5},
		},
	}
	// Lattice extends east of the surface's native extent.
	lattice := latticeForTest([]float64{114.0, 115.0, 116.0}, []float64{-8.0, -7.0})

	mask, err := BuildSeaMask(s, lattice)
	if err != nil {
		t.Fatalf("BuildSeaMask: %v", err)
	}
	if mask[2] != StateUnknown {
		t.Errorf("cell outside surface coverage = %v, want StateUnknown", mask[2])
	}
	if mask[0] != StateSea || mask[1] != StateSea {
		t.Errorf("covered cells = %v %v, want sea", mask[0], mask[1])
	}
}

func TestBuildSeaMask_RequiresRenamedAxes(t *testing.T) {
	s := &Surface{
		XName: "lon", YName: "lat",
		Xs: []float64{114.0, 115.0}, Ys: []float64{-8.0, -7.0},
		Values: [][]float64{{-5, -5}, {-5, -5}},
	}
	lattice := latticeForTest([]float64{114.0, 115.0}, []float64{-8.0, -7.0})

	if _, err := BuildSeaMask(s, lattice); !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig for native axis names, got %v", err)
	}

	s.RenameAxes()
	if _, err := BuildSeaMask(s, lattice); err != nil {
		t.Errorf("BuildSeaMask after rename: %v", err)
	}
}

func TestApplyMask_SuppressesNonSeaColumns(t *testing.T) {
	ds := testDataset([]float64{114.0, 115.0}, []float64{-8.0, -7.0}, days(baliStart, 2), []float64{0.49}, "thetao", true)
	mask := []SeaState{StateSea, StateLand, StateUnknown, StateSea}

	got, err := ApplyMask(ds, mask)
	if err != nil {
		t.Fatalf("ApplyMask: %v", err)
	}
	f := got.Vars["thetao"]
	for t0 := 0; t0 < 2; t0++ {
		// (y=0,x=0) sea: value preserved.
		if v := f.At(t0, 0, 0, 0); !almostEqual(v, ds.Vars["thetao"].At(t0, 0, 0, 0)) {
			t.Errorf("sea cell changed at t=%d: %v", t0, v)
		}
		// (y=0,x=1) land and (y=1,x=0) unknown: missing.
		if v := f.At(t0, 0, 0, 1); !math.IsNaN(v) {
			t.Errorf("land cell not masked at t=%d: %v", t0, v)
		}
		if v := f.At(t0, 0, 1, 0); !math.IsNaN(v) {
			t.Errorf("unknown cell not masked at t=%d: %v", t0, v)
		}
		if v := f.At(t0, 0, 1, 1); math.IsNaN(v) {
			t.Errorf("sea cell masked at t=%d", t0)
		}
	}
	// Shape and axes are preserved.
	if len(got.Lons) != 2 || len(got.Lats) != 2 || len(got.Times) != 2 {
		t.Error("masked dataset axes changed")
	}
}

func TestApplyMask_SizeMismatchIsConfigError(t *testing.T) {
	ds := testDataset([]float64{114.0, 115.0}, []float64{-8.0, -7.0}, days(baliStart, 1), nil, "VHM0", false)
	if _, err := ApplyMask(ds, []SeaState{StateSea}); !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
}
