// Package interp provides bilinear grid interpolation and one-dimensional
// nearest-value gap filling over regular 2D grids.
package interp

import (
	"fmt"
	"math"
	"sort"
)

// Grid2D represents a regular 2D grid for interpolation.
type Grid2D struct {
	X      []float64   // X coordinates (e.g., longitudes).
	Y      []float64   // Y coordinates (e.g., latitudes).
	Values [][]float64 // Values[i][j] corresponds to (X[j], Y[i]). NaN marks missing data.
}

// Validate checks if the grid is valid.
func (g *Grid2D) Validate() error {
	if len(g.X) < 2 {
		return fmt.Errorf("grid must have at least 2 X coordinates")
	}
	if len(g.Y) < 2 {
		return fmt.Errorf("grid must have at least 2 Y coordinates")
	}
	if len(g.Values) != len(g.Y) {
		return fmt.Errorf("number of value rows (%d) must match Y coordinates (%d)", len(g.Values), len(g.Y))
	}
	for i, row := range g.Values {
		if len(row) != len(g.X) {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(g.X))
		}
	}

	// Check that coordinates are sorted and unique.
	for i := 1; i < len(g.X); i++ {
		if g.X[i] <= g.X[i-1] {
			return fmt.Errorf("X coordinates must be strictly increasing")
		}
	}
	for i := 1; i < len(g.Y); i++ {
		if g.Y[i] <= g.Y[i-1] {
			return fmt.Errorf("Y coordinates must be strictly increasing")
		}
	}

	return nil
}

// At performs bilinear interpolation at (x, y). Points outside the grid
// extent, and points whose enclosing cell has a missing corner, evaluate
// to NaN. The grid must already be validated.
func (g *Grid2D) At(x, y float64) float64 {
	xi := cellIndex(g.X, x)
	yi := cellIndex(g.Y, y)
	if xi < 0 || yi < 0 {
		return math.NaN()
	}

	x0, x1 := g.X[xi], g.X[xi+1]
	y0, y1 := g.Y[yi], g.Y[yi+1]

	t := (x - x0) / (x1 - x0)
	u := (y - y0) / (y1 - y0)
	t = math.Max(0, math.Min(1, t))
	u = math.Max(0, math.Min(1, u))

	v00 := g.Values[yi][xi]
	v10 := g.Values[yi][xi+1]
	v01 := g.Values[yi+1][xi]
	v11 := g.Values[yi+1][xi+1]

	return (1-t)*(1-u)*v00 + t*(1-u)*v10 + (1-t)*u*v01 + t*u*v11
}

// cellIndex returns i such that vals[i] <= v <= vals[i+1], or -1 when v is
// outside the axis extent.
func cellIndex(vals []float64, v float64) int {
	if v < vals[0] || v > vals[len(vals)-1] {
		return -1
	}
	i := sort.SearchFloat64s(vals, v)
	if i > 0 {
		i--
	}
	if i > len(vals)-2 {
		i = len(vals) - 2
	}
	return i
}

// RegridTo interpolates the grid onto the given target axes, returning a
// new value matrix indexed [y][x]. Target points outside the source extent
// come out as NaN.
func (g *Grid2D) RegridTo(targetX, targetY []float64) ([][]float64, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}
	out := make([][]float64, len(targetY))
	for i, y := range targetY {
		row := make([]float64, len(targetX))
		for j, x := range targetX {
			row[j] = g.At(x, y)
		}
		out[i] = row
	}
	return out, nil
}

// FillNearestRows replaces NaN runs in each row with the nearest finite
// value along that row, extrapolating past the ends. Rows with no finite
// value are left untouched.
func FillNearestRows(values [][]float64) {
	for _, row := range values {
		fillNearest1D(row)
	}
}

// FillNearestCols is the column-wise counterpart of FillNearestRows.
func FillNearestCols(values [][]float64) {
	if len(values) == 0 {
		return
	}
	col := make([]float64, len(values))
	for j := range values[0] {
		for i := range values {
			col[i] = values[i][j]
		}
		fillNearest1D(col)
		for i := range values {
			values[i][j] = col[i]
		}
	}
}

// fillNearest1D fills missing entries with the nearest finite neighbour by
// index distance; ties resolve to the left neighbour.
func fillNearest1D(vals []float64) {
	n := len(vals)
	// Nearest finite index to the left of each position, -1 when none.
	left := make([]int, n)
	prev := -1
	for i := 0; i < n; i++ {
		if !math.IsNaN(vals[i]) {
			prev = i
		}
		left[i] = prev
	}
	next := -1
	for i := n - 1; i >= 0; i-- {
		if !math.IsNaN(vals[i]) {
			next = i
			continue
		}
		l := left[i]
		switch {
		case l < 0 && next < 0:
			// Nothing to fill from.
		case l < 0:
			vals[i] = vals[next]
		case next < 0:
			vals[i] = vals[l]
		case i-l <= next-i:
			vals[i] = vals[l]
		default:
			vals[i] = vals[next]
		}
	}
}
