// Package netcdf loads labeled grids from NetCDF archive mirrors. A
// locator is a path to a NetCDF file, local or FUSE-mounted.
package netcdf

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/fhs/go-netcdf/netcdf"

	"go.bahari.io/marine-fields/internal/domain"
)

// Axis variable name fallbacks tried in order.
var (
	lonNames   = []string{"longitude", "lon", "x"}
	latNames   = []string{"latitude", "lat", "y"}
	timeNames  = []string{"time"}
	depthNames = []string{"depth", "deptht"}
)

// Store fetches datasets from NetCDF files.
type Store struct{}

// NewStore creates a NetCDF-backed dataset store.
func NewStore() *Store {
	return &Store{}
}

// Fetch opens the file at locator and reads the named variables together
// with their coordinate axes into a labeled grid. All failures are access
// errors.
func (s *Store) Fetch(ctx context.Context, locator string, variables []string) (*domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	//nolint:gosec // G304: Locator resolved from the parameter catalog.
	nc, err := netcdf.OpenFile(locator, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open dataset %s: %v", domain.ErrAccess, locator, err)
	}
	defer func() { _ = nc.Close() }()

	lons, err := readAxis(nc, lonNames)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrAccess, locator, err)
	}
	lats, err := readAxis(nc, latNames)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrAccess, locator, err)
	}
	times, err := readTimeAxis(nc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrAccess, locator, err)
	}
	// The depth axis is optional; depth-less archives simply lack it.
	depths, _ := readAxis(nc, depthNames)

	ds := domain.NewDataset(lons, lats, times, depths)
	for _, name := range variables {
		if err := readVariable(nc, ds, name); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrAccess, locator, err)
		}
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrAccess, locator, err)
	}
	return ds, nil
}

// readAxis reads a 1D coordinate variable, trying each name in turn.
func readAxis(nc netcdf.Dataset, names []string) ([]float64, error) {
	for _, name := range names {
		v, err := nc.Var(name)
		if err != nil {
			continue
		}
		vals, err := readFloat64s(v)
		if err != nil {
			return nil, fmt.Errorf("axis %s: %w", name, err)
		}
		return vals, nil
	}
	return nil, fmt.Errorf("axis variable not found (tried: %v)", names)
}

// readTimeAxis reads the time coordinate and converts it to instants using
// the CF units attribute ("<unit> since <epoch>").
func readTimeAxis(nc netcdf.Dataset) ([]time.Time, error) {
	var v netcdf.Var
	var found bool
	for _, name := range timeNames {
		if tv, err := nc.Var(name); err == nil {
			v = tv
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("time variable not found (tried: %v)", timeNames)
	}

	raw, err := readFloat64s(v)
	if err != nil {
		return nil, fmt.Errorf("time axis: %w", err)
	}

	units, err := readStringAttr(v, "units")
	if err != nil {
		return nil, fmt.Errorf("time axis has no units attribute: %w", err)
	}
	step, epoch, err := parseTimeUnits(units)
	if err != nil {
		return nil, err
	}

	times := make([]time.Time, len(raw))
	for i, r := range raw {
		times[i] = epoch.Add(time.Duration(r * float64(step))).UTC()
	}
	return times, nil
}

// parseTimeUnits parses a CF time units string such as
// "hours since 1950-01-01 00:00:00".
func parseTimeUnits(units string) (time.Duration, time.Time, error) {
	var unit, sinceWord, datePart, timePart string
	n, err := fmt.Sscanf(units, "%s %s %s %s", &unit, &sinceWord, &datePart, &timePart)
	if err != nil && n < 3 {
		return 0, time.Time{}, fmt.Errorf("unsupported time units %q", units)
	}
	if sinceWord != "since" {
		return 0, time.Time{}, fmt.Errorf("unsupported time units %q", units)
	}

	var step time.Duration
	switch unit {
	case "seconds", "second":
		step = time.Second
	case "minutes", "minute":
		step = time.Minute
	case "hours", "hour":
		step = time.Hour
	case "days", "day":
		step = 24 * time.Hour
	default:
		return 0, time.Time{}, fmt.Errorf("unsupported time unit %q in %q", unit, units)
	}

	layouts := []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}
	stamp := datePart
	if timePart != "" {
		stamp = datePart + " " + timePart
	}
	for _, layout := range layouts {
		if epoch, err := time.Parse(layout, stamp); err == nil {
			return step, epoch.UTC(), nil
		}
	}
	if epoch, err := time.Parse("2006-01-02", datePart); err == nil {
		return step, epoch.UTC(), nil
	}
	return 0, time.Time{}, fmt.Errorf("unsupported epoch in time units %q", units)
}

// readVariable reads one data variable into the dataset. Supported shapes
// are [time, lat, lon] and [time, depth, lat, lon].
func readVariable(nc netcdf.Dataset, ds *domain.Dataset, name string) error {
	v, err := nc.Var(name)
	if err != nil {
		return fmt.Errorf("variable %q not found", name)
	}

	dims, err := v.Dims()
	if err != nil {
		return fmt.Errorf("variable %q: failed to get dimensions: %w", name, err)
	}

	var hasDepth bool
	switch len(dims) {
	case 3:
		hasDepth = false
	case 4:
		hasDepth = true
	default:
		return fmt.Errorf("variable %q: expected 3D or 4D data, got %dD", name, len(dims))
	}

	nt, ny, nx := len(ds.Times), len(ds.Lats), len(ds.Lons)
	nd := 1
	if hasDepth {
		nd = len(ds.Depths)
		if nd == 0 {
			return fmt.Errorf("variable %q is 4D but no depth axis was found", name)
		}
	}

	want := nt * nd * ny * nx
	flat, err := readAllAsFloat64(v, want)
	if err != nil {
		return fmt.Errorf("variable %q: %w", name, err)
	}

	applyPacking(v, flat)

	f := ds.AddVar(name, hasDepth)
	copy(f.Data, flat)
	return nil
}

// applyPacking handles the CF packed-data convention: values equal to
// _FillValue become missing, then scale_factor and add_offset apply.
func applyPacking(v netcdf.Var, flat []float64) {
	if fill, ok := readFloatAttr(v, "_FillValue"); ok {
		for i, val := range flat {
			if val == fill {
				flat[i] = math.NaN()
			}
		}
	}
	scale, hasScale := readFloatAttr(v, "scale_factor")
	offset, hasOffset := readFloatAttr(v, "add_offset")
	if hasScale && scale != 0 {
		for i := range flat {
			flat[i] *= scale
		}
	}
	if hasOffset {
		for i := range flat {
			flat[i] += offset
		}
	}
}

// readFloat64s reads a 1D variable of any supported numeric type.
func readFloat64s(v netcdf.Var) ([]float64, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("expected 1D variable, got %dD", len(dims))
	}
	length, err := dims[0].Len()
	if err != nil {
		return nil, err
	}
	return readAllAsFloat64(v, int(length))
}

// readAllAsFloat64 reads a variable's full contents as float64, converting
// from float32, int32, or int16 storage.
func readAllAsFloat64(v netcdf.Var, totalSize int) ([]float64, error) {
	varType, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get variable type: %w", err)
	}

	switch varType {
	case netcdf.DOUBLE:
		flat := make([]float64, totalSize)
		if err := v.ReadFloat64s(flat); err != nil {
			return nil, fmt.Errorf("failed to read float64: %w", err)
		}
		return flat, nil
	case netcdf.FLOAT:
		f32 := make([]float32, totalSize)
		if err := v.ReadFloat32s(f32); err != nil {
			return nil, fmt.Errorf("failed to read float32: %w", err)
		}
		flat := make([]float64, totalSize)
		for i, val := range f32 {
			flat[i] = float64(val)
		}
		return flat, nil
	case netcdf.INT:
		i32 := make([]int32, totalSize)
		if err := v.ReadInt32s(i32); err != nil {
			return nil, fmt.Errorf("failed to read int32: %w", err)
		}
		flat := make([]float64, totalSize)
		for i, val := range i32 {
			flat[i] = float64(val)
		}
		return flat, nil
	case netcdf.SHORT:
		i16 := make([]int16, totalSize)
		if err := v.ReadInt16s(i16); err != nil {
			return nil, fmt.Errorf("failed to read int16: %w", err)
		}
		flat := make([]float64, totalSize)
		for i, val := range i16 {
			flat[i] = float64(val)
		}
		return flat, nil
	case netcdf.BYTE, netcdf.UBYTE, netcdf.CHAR, netcdf.USHORT, netcdf.UINT, netcdf.INT64, netcdf.UINT64, netcdf.STRING:
		return nil, fmt.Errorf("unsupported data type: %v (expected DOUBLE, FLOAT, INT, or SHORT)", varType)
	}
	return nil, fmt.Errorf("unsupported data type: %v", varType)
}

// readFloatAttr reads a scalar numeric attribute.
func readFloatAttr(v netcdf.Var, name string) (float64, bool) {
	attr := v.Attr(name)
	attrLen, err := attr.Len()
	if err != nil || attrLen == 0 {
		return 0, false
	}

	f64 := make([]float64, 1)
	if err := attr.ReadFloat64s(f64); err == nil {
		return f64[0], true
	}
	f32 := make([]float32, 1)
	if err := attr.ReadFloat32s(f32); err == nil {
		return float64(f32[0]), true
	}
	i32 := make([]int32, 1)
	if err := attr.ReadInt32s(i32); err == nil {
		return float64(i32[0]), true
	}
	i16 := make([]int16, 1)
	if err := attr.ReadInt16s(i16); err == nil {
		return float64(i16[0]), true
	}
	return 0, false
}

// readStringAttr reads a text attribute.
func readStringAttr(v netcdf.Var, name string) (string, error) {
	attr := v.Attr(name)
	attrLen, err := attr.Len()
	if err != nil {
		return "", err
	}
	buf := make([]byte, attrLen)
	if err := attr.ReadBytes(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
