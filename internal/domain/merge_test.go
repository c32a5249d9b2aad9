package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestConcatTime_SingleInputReturnedUnchanged(t *testing.T) {
	ds := baliDataset("thetao", true)
	got, err := ConcatTime(ds)
	if err != nil {
		t.Fatalf("ConcatTime: %v", err)
	}
	if got != ds {
		t.Error("single-input merge must return the input unchanged")
	}
}

// Scenario: one grid ends before the cutover instant, the other starts
// after it; the merged time axis is their union, strictly increasing, with
// no duplicate at the boundary.
func TestConcatTime_HistoricalThenNearRealTime(t *testing.T) {
	lons := []float64{114.0, 115.0}
	lats := []float64{-8.0, -7.5}
	cutover := time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC)

	hist := testDataset(lons, lats, days(cutover.AddDate(0, 0, -3), 3), nil, "VHM0", false)
	nrt := testDataset(lons, lats, days(cutover, 2), nil, "VHM0", false)

	got, err := ConcatTime(hist, nrt)
	if err != nil {
		t.Fatalf("ConcatTime: %v", err)
	}
	if len(got.Times) != 5 {
		t.Fatalf("merged time axis length = %d, want 5", len(got.Times))
	}
	for i := 1; i < len(got.Times); i++ {
		if !got.Times[i].After(got.Times[i-1]) {
			t.Fatalf("merged time axis not strictly increasing at %d: %v", i, got.Times)
		}
	}
	// Values from the second input land after the first input's steps.
	if v := got.Vars["VHM0"].At(3, 0, 1, 1); v != 11 {
		t.Errorf("first NRT slice value = %v, want 11", v)
	}
}

func TestConcatTime_MismatchedSpatialAxesIsConfigError(t *testing.T) {
	a := testDataset([]float64{114, 115}, []float64{-8, -7}, days(baliStart, 1), nil, "VHM0", false)
	b := testDataset([]float64{114, 116}, []float64{-8, -7}, days(baliStart.AddDate(0, 0, 1), 1), nil, "VHM0", false)

	_, err := ConcatTime(a, b)
	if !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig for mismatched axes, got %v", err)
	}
}

func TestConcatTime_DuplicateBoundaryInstantIsConfigError(t *testing.T) {
	lons := []float64{114, 115}
	lats := []float64{-8, -7}
	a := testDataset(lons, lats, days(baliStart, 2), nil, "VHM0", false)
	b := testDataset(lons, lats, days(baliStart.AddDate(0, 0, 1), 2), nil, "VHM0", false)

	_, err := ConcatTime(a, b)
	if !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig for duplicated instant, got %v", err)
	}
}

func TestResampleMean_DailyBucketsHighFrequencySamples(t *testing.T) {
	lons := []float64{114, 115}
	lats := []float64{-8, -7}
	// Eight 3-hourly steps spanning one day.
	times := make([]time.Time, 8)
	for i := range times {
		times[i] = baliStart.Add(time.Duration(i*3) * time.Hour)
	}
	ds := NewDataset(lons, lats, times, nil)
	f := ds.AddVar("VHM0", false)
	for t0 := 0; t0 < 8; t0++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				f.Set(t0, 0, y, x, float64(t0))
			}
		}
	}

	got, err := ResampleMean(ds, PeriodDaily)
	if err != nil {
		t.Fatalf("ResampleMean: %v", err)
	}
	if len(got.Times) != 1 {
		t.Fatalf("resampled time axis length = %d, want 1", len(got.Times))
	}
	if !got.Times[0].Equal(baliStart) {
		t.Errorf("bucket label = %v, want %v", got.Times[0], baliStart)
	}
	// Mean of 0..7 is 3.5.
	if v := got.Vars["VHM0"].At(0, 0, 1, 1); !almostEqual(v, 3.5) {
		t.Errorf("bucket mean = %v, want 3.5", v)
	}
}

func TestResampleMean_MonthlyIgnoresMissingSamples(t *testing.T) {
	lons := []float64{114, 115}
	lats := []float64{-8, -7}
	times := []time.Time{
		time.Date(2021, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 3, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 4, 5, 0, 0, 0, 0, time.UTC),
	}
	ds := NewDataset(lons, lats, times, nil)
	f := ds.AddVar("VHM0", false)
	f.Set(0, 0, 0, 0, 2.0)
	f.Set(1, 0, 0, 0, math.NaN())
	f.Set(2, 0, 0, 0, 7.0)

	got, err := ResampleMean(ds, PeriodMonthly)
	if err != nil {
		t.Fatalf("ResampleMean: %v", err)
	}
	if len(got.Times) != 2 {
		t.Fatalf("resampled time axis length = %d, want 2", len(got.Times))
	}
	if v := got.Vars["VHM0"].At(0, 0, 0, 0); !almostEqual(v, 2.0) {
		t.Errorf("march mean = %v, want 2.0 (NaN sample excluded)", v)
	}
	if v := got.Vars["VHM0"].At(1, 0, 0, 0); !almostEqual(v, 7.0) {
		t.Errorf("april mean = %v, want 7.0", v)
	}
	// Cell with no finite samples at all stays missing.
	if v := got.Vars["VHM0"].At(0, 0, 1, 1); !math.IsNaN(v) {
		t.Errorf("empty bucket cell = %v, want NaN", v)
	}
}
