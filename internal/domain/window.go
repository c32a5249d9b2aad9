package domain

import (
	"fmt"
	"log/slog"
	"time"
)

// Window is a bounding selection over longitude, latitude, time, and depth.
// Equal bounds on the time or depth axis degenerate to nearest-match
// semantics instead of a range slice.
type Window struct {
	LonMin, LonMax float64
	LatMin, LatMax float64

	Start, Stop time.Time

	DepthMin, DepthMax float64
}

// Select restricts the dataset to the requested variables and window,
// returning a new dataset. Longitude and latitude are always applied as
// inclusive range slices. A degenerate time or depth range resolves to the
// nearest axis coordinate. Depth selection is skipped, with a logged
// notice, for depth-less variable families.
//
// A window wholly outside the spatial or time axes yields an empty result
// rather than an error; the regridder rejects under-determined grids later.
// A depth range matching no levels is a degenerate selection: unlike the
// spatial case nothing downstream would catch it.
func Select(ds *Dataset, names []string, w Window, p Parameter, log *slog.Logger) (*Dataset, error) {
	for _, name := range names {
		if _, ok := ds.Vars[name]; !ok {
			return nil, fmt.Errorf("%w: variable %q not present in dataset", ErrConfig, name)
		}
	}

	xIdx := rangeIndices(ds.Lons, w.LonMin, w.LonMax)
	yIdx := rangeIndices(ds.Lats, w.LatMin, w.LatMax)

	var tIdx []int
	if w.Start.Equal(w.Stop) && len(ds.Times) > 0 {
		tIdx = []int{NearestTimeIndex(ds.Times, w.Start)}
	} else {
		for i, t := range ds.Times {
			if !t.Before(w.Start) && !t.After(w.Stop) {
				tIdx = append(tIdx, i)
			}
		}
	}

	dIdx := []int{0}
	var depths []float64
	switch {
	case !p.HasDepth:
		if log != nil {
			log.Warn("depth query skipped for depth-less variable family", "parameter", p.Name)
		}
	case len(ds.Depths) == 0:
		return nil, fmt.Errorf("%w: parameter %q requires a depth axis but dataset has none", ErrConfig, p.Name)
	case w.DepthMin == w.DepthMax:
		i := NearestIndex(ds.Depths, w.DepthMin)
		dIdx = []int{i}
		depths = []float64{ds.Depths[i]}
	default:
		dIdx = dIdx[:0]
		for i, d := range ds.Depths {
			if d >= w.DepthMin && d <= w.DepthMax {
				dIdx = append(dIdx, i)
				depths = append(depths, d)
			}
		}
		if len(dIdx) == 0 {
			return nil, fmt.Errorf("%w: depth range [%g, %g] matches no levels of axis %v",
				ErrDegenerate, w.DepthMin, w.DepthMax, ds.Depths)
		}
	}

	out := NewDataset(pick(ds.Lons, xIdx), pick(ds.Lats, yIdx), pickTimes(ds.Times, tIdx), depths)
	for _, name := range names {
		src := ds.Vars[name]
		dst := out.AddVar(name, src.HasDepth)
		srcD := []int{0}
		if src.HasDepth {
			srcD = dIdx
		}
		for ti, st := range tIdx {
			for di, sd := range srcD {
				for yi, sy := range yIdx {
					for xi, sx := range xIdx {
						dst.Set(ti, di, yi, xi, src.At(st, sd, sy, sx))
					}
				}
			}
		}
	}
	return out, nil
}

// rangeIndices returns indices of vals within [lo, hi] inclusive.
func rangeIndices(vals []float64, lo, hi float64) []int {
	var idx []int
	for i, v := range vals {
		if v >= lo && v <= hi {
			idx = append(idx, i)
		}
	}
	return idx
}

func pick(vals []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = vals[j]
	}
	return out
}

func pickTimes(vals []time.Time, idx []int) []time.Time {
	out := make([]time.Time, len(idx))
	for i, j := range idx {
		out[i] = vals[j]
	}
	return out
}
