package domain

import (
	"fmt"
	"math"
	"time"
)

// ResampleMean aggregates every variable to the given period using a
// time-bucketed mean. Bucket labels are the bucket start instants in UTC.
// Missing values are excluded from each bucket mean; a bucket with no
// finite samples stays missing.
func ResampleMean(ds *Dataset, period Period) (*Dataset, error) {
	if len(ds.Times) == 0 {
		return ds, nil
	}

	// Map each source time index to its bucket, preserving order. Source
	// times are strictly increasing, so buckets come out ordered too.
	var labels []time.Time
	bucketOf := make([]int, len(ds.Times))
	for i, t := range ds.Times {
		label, err := bucketStart(t, period)
		if err != nil {
			return nil, err
		}
		if len(labels) == 0 || !labels[len(labels)-1].Equal(label) {
			labels = append(labels, label)
		}
		bucketOf[i] = len(labels) - 1
	}

	out := NewDataset(ds.Lons, ds.Lats, labels, ds.Depths)
	for name, src := range ds.Vars {
		dst := out.AddVar(name, src.HasDepth)
		nd := src.ND
		ny, nx := src.NY, src.NX
		for d := 0; d < nd; d++ {
			for y := 0; y < ny; y++ {
				for x := 0; x < nx; x++ {
					sums := make([]float64, len(labels))
					counts := make([]int, len(labels))
					for t := 0; t < src.NT; t++ {
						v := src.At(t, d, y, x)
						if math.IsNaN(v) {
							continue
						}
						b := bucketOf[t]
						sums[b] += v
						counts[b]++
					}
					for b := range labels {
						if counts[b] > 0 {
							dst.Set(b, d, y, x, sums[b]/float64(counts[b]))
						}
					}
				}
			}
		}
	}
	return out, nil
}

func bucketStart(t time.Time, period Period) (time.Time, error) {
	t = t.UTC()
	switch period {
	case PeriodDaily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	case PeriodMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	case PeriodAnnual:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("%w: unknown aggregation period %q", ErrConfig, period)
}

// ConcatTime concatenates datasets along the time axis in the order given.
// A single input is returned unchanged. All inputs must share identical
// spatial and depth axes and the same variable set; the combined time axis
// must be strictly increasing.
func ConcatTime(dss ...*Dataset) (*Dataset, error) {
	if len(dss) == 0 {
		return nil, fmt.Errorf("%w: no datasets to merge", ErrConfig)
	}
	if len(dss) == 1 {
		return dss[0], nil
	}

	first := dss[0]
	nt := 0
	for i, ds := range dss {
		if !equalAxes(first.Lons, ds.Lons) || !equalAxes(first.Lats, ds.Lats) {
			return nil, fmt.Errorf("%w: merge input %d has mismatched spatial axes", ErrConfig, i)
		}
		if !equalAxes(first.Depths, ds.Depths) {
			return nil, fmt.Errorf("%w: merge input %d has mismatched depth axis", ErrConfig, i)
		}
		if len(ds.Vars) != len(first.Vars) {
			return nil, fmt.Errorf("%w: merge input %d has mismatched variable set", ErrConfig, i)
		}
		for name := range first.Vars {
			if _, ok := ds.Vars[name]; !ok {
				return nil, fmt.Errorf("%w: merge input %d is missing variable %q", ErrConfig, i, name)
			}
		}
		nt += len(ds.Times)
	}

	times := make([]time.Time, 0, nt)
	for _, ds := range dss {
		times = append(times, ds.Times...)
	}
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return nil, fmt.Errorf("%w: merged time axis is not strictly increasing at %s", ErrConfig, times[i].Format(time.RFC3339))
		}
	}

	out := NewDataset(first.Lons, first.Lats, times, first.Depths)
	for name, f := range first.Vars {
		dst := out.AddVar(name, f.HasDepth)
		off := 0
		for _, ds := range dss {
			src := ds.Vars[name]
			copy(dst.Data[off:], src.Data)
			off += len(src.Data)
		}
	}
	return out, nil
}

func equalAxes(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
