// Package bathymetry loads the elevation surface from a NetCDF file.
// The file can be a local disk file or a GCS FUSE-mounted file.
package bathymetry

import (
	"context"
	"fmt"
	"math"

	"github.com/fhs/go-netcdf/netcdf"

	"go.bahari.io/marine-fields/internal/domain"
)

// Variable name fallbacks for elevation grids (GMRT, GEBCO).
var (
	latNames  = []string{"lat", "latitude", "y"}
	lonNames  = []string{"lon", "longitude", "x"}
	elevNames = []string{"altitude", "elevation", "z"}
)

// LocalStore loads the elevation surface from a local NetCDF file.
type LocalStore struct {
	path string
}

// NewLocalStore creates a file-based elevation source.
func NewLocalStore(path string) *LocalStore {
	return &LocalStore{path: path}
}

// LoadSurface reads the full elevation grid with its native axis names.
// Callers rename the axes to the working convention before masking.
func (s *LocalStore) LoadSurface(ctx context.Context) (*domain.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	//nolint:gosec // G304: Path comes from service configuration.
	nc, err := netcdf.OpenFile(s.path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open elevation file %s: %v", domain.ErrAccess, s.path, err)
	}
	defer func() { _ = nc.Close() }()

	latName, lats, err := readNamedAxis(nc, latNames)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrAccess, s.path, err)
	}
	lonName, lons, err := readNamedAxis(nc, lonNames)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrAccess, s.path, err)
	}

	values, err := readElevation(nc, len(lats), len(lons))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrAccess, s.path, err)
	}

	return &domain.Surface{
		XName:  lonName,
		YName:  latName,
		Xs:     lons,
		Ys:     lats,
		Values: values,
	}, nil
}

// readNamedAxis reads a 1D coordinate variable, trying each name in turn,
// and reports which name matched.
func readNamedAxis(nc netcdf.Dataset, names []string) (string, []float64, error) {
	for _, name := range names {
		v, err := nc.Var(name)
		if err != nil {
			continue
		}
		dims, err := v.Dims()
		if err != nil || len(dims) != 1 {
			continue
		}
		length, err := dims[0].Len()
		if err != nil {
			continue
		}
		vals := make([]float64, length)
		if err := v.ReadFloat64s(vals); err != nil {
			return "", nil, fmt.Errorf("axis %s: %w", name, err)
		}
		return name, vals, nil
	}
	return "", nil, fmt.Errorf("axis variable not found (tried: %v)", names)
}

// readElevation reads the 2D elevation variable as [lat][lon] rows,
// transposing when the file stores [lon][lat].
func readElevation(nc netcdf.Dataset, nLat, nLon int) ([][]float64, error) {
	var dataVar netcdf.Var
	var found bool
	for _, name := range elevNames {
		if v, err := nc.Var(name); err == nil {
			dataVar = v
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("elevation variable not found (tried: %v)", elevNames)
	}

	dims, err := dataVar.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("expected 2D elevation data, got %dD", len(dims))
	}

	dim0Len, err := dims[0].Len()
	if err != nil {
		return nil, fmt.Errorf("failed to get dim0 length: %w", err)
	}
	dim1Len, err := dims[1].Len()
	if err != nil {
		return nil, fmt.Errorf("failed to get dim1 length: %w", err)
	}

	flat, err := readFlatFloat64(dataVar, int(dim0Len)*int(dim1Len))
	if err != nil {
		return nil, err
	}
	applyFillValue(dataVar, flat)

	switch {
	case dim0Len == uint64(nLat) && dim1Len == uint64(nLon):
		return reshape(flat, nLat, nLon), nil
	case dim0Len == uint64(nLon) && dim1Len == uint64(nLat):
		return transpose2D(reshape(flat, nLon, nLat)), nil
	}
	return nil, fmt.Errorf("dimension mismatch: data is [%d, %d], expected [%d, %d] or [%d, %d]",
		dim0Len, dim1Len, nLat, nLon, nLon, nLat)
}

// readFlatFloat64 reads the variable's full contents, converting from
// float32, int32, or int16 storage.
func readFlatFloat64(v netcdf.Var, totalSize int) ([]float64, error) {
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

// applyFillValue turns fill-valued cells into missing values.
func applyFillValue(v netcdf.Var, flat []float64) {
	attr := v.Attr("_FillValue")
	attrLen, err := attr.Len()
	if err != nil || attrLen == 0 {
		return
	}
	fill := make([]float64, 1)
	if err := attr.ReadFloat64s(fill); err != nil {
		f32 := make([]float32, 1)
		if err := attr.ReadFloat32s(f32); err != nil {
			return
		}
		fill[0] = float64(f32[0])
	}
	for i, val := range flat {
		if val == fill[0] {
			flat[i] = math.NaN()
		}
	}
}

func reshape(flat []float64, nRows, nCols int) [][]float64 {
	values := make([][]float64, nRows)
	for i := 0; i < nRows; i++ {
		values[i] = flat[i*nCols : (i+1)*nCols]
	}
	return values
}

// transpose2D transposes a 2D array.
func transpose2D(data [][]float64) [][]float64 {
	if len(data) == 0 {
		return data
	}
	nRows := len(data)
	nCols := len(data[0])
	transposed := make([][]float64, nCols)
	for i := 0; i < nCols; i++ {
		transposed[i] = make([]float64, nRows)
		for j := 0; j < nRows; j++ {
			transposed[i][j] = data[j][i]
		}
	}
	return transposed
}
