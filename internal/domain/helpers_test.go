package domain

import (
	"math"
	"time"
)

// testDataset builds a dataset whose variable values encode their source
// indices as t*1000 + d*100 + y*10 + x, which makes slicing assertions easy.
func testDataset(lons, lats []float64, times []time.Time, depths []float64, name string, hasDepth bool) *Dataset {
	ds := NewDataset(lons, lats, times, depths)
	f := ds.AddVar(name, hasDepth)
	for t := 0; t < f.NT; t++ {
		for d := 0; d < f.ND; d++ {
			for y := 0; y < f.NY; y++ {
				for x := 0; x < f.NX; x++ {
					f.Set(t, d, y, x, float64(t*1000+d*100+y*10+x))
				}
			}
		}
	}
	return ds
}

func days(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func almostEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) < 1e-9
}
