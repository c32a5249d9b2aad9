package domain

import (
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"
)

var baliStart = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

func baliDataset(name string, hasDepth bool) *Dataset {
	var depths []float64
	if hasDepth {
		depths = []float64{0.49, 1.54, 2.65}
	}
	return testDataset(
		[]float64{114.0, 114.5, 115.0, 115.5, 116.0},
		[]float64{-8.5, -8.0, -7.5, -7.0},
		days(baliStart, 4),
		depths,
		name, hasDepth,
	)
}

func TestSelect_InclusiveSpatialRange(t *testing.T) {
	ds := baliDataset("thetao", true)
	p, err := ParameterByName("temperature")
	if err != nil {
		t.Fatal(err)
	}

	got, err := Select(ds, []string{"thetao"}, Window{
		LonMin: 114.5, LonMax: 115.5,
		LatMin: -8.0, LatMax: -7.0,
		Start: baliStart, Stop: baliStart.AddDate(0, 0, 3),
	}, p, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	if len(got.Lons) != 3 || got.Lons[0] != 114.5 || got.Lons[2] != 115.5 {
		t.Errorf("longitude axis = %v, want [114.5 115 115.5]", got.Lons)
	}
	if len(got.Lats) != 3 || got.Lats[0] != -8.0 || got.Lats[2] != -7.0 {
		t.Errorf("latitude axis = %v, want [-8 -7.5 -7]", got.Lats)
	}
	// First cell of the slice came from (t=0, d=0, y=1, x=1).
	if v := got.Vars["thetao"].At(0, 0, 0, 0); v != 11 {
		t.Errorf("first selected value = %v, want 11", v)
	}
}

func TestSelect_DegenerateTimeSelectsNearestSingleInstant(t *testing.T) {
	ds := baliDataset("thetao", true)
	p, _ := ParameterByName("temperature")

	target := baliStart.AddDate(0, 0, 1).Add(5 * time.Hour)
	got, err := Select(ds, []string{"thetao"}, Window{
		LonMin: 114.0, LonMax: 116.0,
		LatMin: -8.5, LatMax: -7.0,
		Start: target, Stop: target,
	}, p, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got.Times) != 1 {
		t.Fatalf("time axis length = %d, want 1", len(got.Times))
	}
	if !got.Times[0].Equal(baliStart.AddDate(0, 0, 1)) {
		t.Errorf("selected instant = %v, want %v", got.Times[0], baliStart.AddDate(0, 0, 1))
	}
}

// Scenario: source grid spanning lon [114,116], lat [-8.5,-7], two time
// steps, depths starting at 0; a degenerate depth query at 0 returns
// exactly the nearest depth slice.
func TestSelect_DegenerateDepthNearestMatch(t *testing.T) {
	ds := testDataset(
		[]float64{114.0, 115.0, 116.0},
		[]float64{-8.5, -7.75, -7.0},
		days(baliStart, 2),
		[]float64{0.49, 1.54, 5.0},
		"uo", true,
	)
	p, _ := ParameterByName("currents")
	// currents fetches uo and vo; add the second component.
	f := ds.AddVar("vo", true)
	copy(f.Data, ds.Vars["uo"].Data)

	got, err := Select(ds, []string{"uo", "vo"}, Window{
		LonMin: 114.0, LonMax: 116.0,
		LatMin: -8.5, LatMax: -7.0,
		Start: baliStart, Stop: baliStart.AddDate(0, 0, 1),
		DepthMin: 0, DepthMax: 0,
	}, p, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got.Depths) != 1 || got.Depths[0] != 0.49 {
		t.Fatalf("depth axis = %v, want [0.49]", got.Depths)
	}
	if len(got.Times) != 2 {
		t.Errorf("time axis length = %d, want 2", len(got.Times))
	}
	// Values must come from depth index 0.
	if v := got.Vars["uo"].At(1, 0, 2, 1); v != 1021 {
		t.Errorf("value at (1,0,2,1) = %v, want 1021", v)
	}
}

func TestSelect_DepthSkippedForDepthlessFamily(t *testing.T) {
	ds := baliDataset("VHM0", false)
	p, _ := ParameterByName("waves")

	got, err := Select(ds, []string{"VHM0"}, Window{
		LonMin: 114.0, LonMax: 116.0,
		LatMin: -8.5, LatMax: -7.0,
		Start: baliStart, Stop: baliStart.AddDate(0, 0, 3),
		DepthMin: 0, DepthMax: 50,
	}, p, slog.Default())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got.Depths != nil {
		t.Errorf("depth axis = %v, want nil for depth-less family", got.Depths)
	}
	if len(got.Times) != 4 {
		t.Errorf("time axis length = %d, want 4 (full range)", len(got.Times))
	}
}

func TestSelect_UnknownVariableIsConfigError(t *testing.T) {
	ds := baliDataset("thetao", true)
	p, _ := ParameterByName("salinity")

	_, err := Select(ds, []string{"so"}, Window{}, p, nil)
	if !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig for missing variable, got %v", err)
	}
}

func TestSelect_EmptyDepthRangeIsDegenerate(t *testing.T) {
	ds := baliDataset("thetao", true)
	p, _ := ParameterByName("temperature")

	// Depths are {0.49, 1.54, 2.65}; nothing lies in [10, 20]. An empty
	// depth selection must not sail through as an all-missing field.
	_, err := Select(ds, []string{"thetao"}, Window{
		LonMin: 114.0, LonMax: 116.0,
		LatMin: -8.5, LatMax: -7.0,
		Start: baliStart, Stop: baliStart.AddDate(0, 0, 3),
		DepthMin: 10, DepthMax: 20,
	}, p, nil)
	if !errors.Is(err, ErrDegenerate) {
		t.Errorf("expected ErrDegenerate for empty depth range, got %v", err)
	}
}

func TestSelect_WindowOutsideAxesYieldsEmptyResult(t *testing.T) {
	ds := baliDataset("thetao", true)
	p, _ := ParameterByName("temperature")

	got, err := Select(ds, []string{"thetao"}, Window{
		LonMin: 130.0, LonMax: 131.0,
		LatMin: -8.5, LatMax: -7.0,
		Start: baliStart, Stop: baliStart.AddDate(0, 0, 3),
		DepthMin: 0, DepthMax: 10,
	}, p, nil)
	if err != nil {
		t.Fatalf("Select must not fail on an empty window, got %v", err)
	}
	if len(got.Lons) != 0 {
		t.Errorf("longitude axis = %v, want empty", got.Lons)
	}
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	ds := baliDataset("thetao", true)
	p, _ := ParameterByName("temperature")
	before := make([]float64, len(ds.Vars["thetao"].Data))
	copy(before, ds.Vars["thetao"].Data)

	got, err := Select(ds, []string{"thetao"}, Window{
		LonMin: 114.0, LonMax: 115.0,
		LatMin: -8.5, LatMax: -8.0,
		Start: baliStart, Stop: baliStart,
		DepthMin: 0, DepthMax: 0,
	}, p, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	got.Vars["thetao"].Set(0, 0, 0, 0, math.Inf(1))

	for i, v := range ds.Vars["thetao"].Data {
		if v != before[i] {
			t.Fatalf("input dataset mutated at %d: %v != %v", i, v, before[i])
		}
	}
}
