package domain

import (
	"math"
	"time"
)

// NearestIndex returns the index of the element of vals closest to target.
// Ties resolve to the earliest index. An empty slice is a precondition
// violation and must be prevented by the caller.
func NearestIndex(vals []float64, target float64) int {
	best := 0
	bestDiff := math.Abs(vals[0] - target)
	for i := 1; i < len(vals); i++ {
		if d := math.Abs(vals[i] - target); d < bestDiff {
			best = i
			bestDiff = d
		}
	}
	return best
}

// NearestDepth returns the element of depths closest to target.
func NearestDepth(depths []float64, target float64) float64 {
	return depths[NearestIndex(depths, target)]
}

// NearestTimeIndex returns the index of the instant in times closest to
// target. Instants are compared in UTC nanoseconds so that zone-shifted
// representations of the same instant resolve identically.
func NearestTimeIndex(times []time.Time, target time.Time) int {
	best := 0
	bestDiff := absDuration(times[0].Sub(target))
	for i := 1; i < len(times); i++ {
		if d := absDuration(times[i].Sub(target)); d < bestDiff {
			best = i
			bestDiff = d
		}
	}
	return best
}

// NearestTime returns the instant in times closest to target.
func NearestTime(times []time.Time, target time.Time) time.Time {
	return times[NearestTimeIndex(times, target)]
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
