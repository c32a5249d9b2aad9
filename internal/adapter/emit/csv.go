package emit

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// CSVEmitter writes each slice as a long-format CSV file under a base
// directory. Suppressed cells are omitted from the output.
type CSVEmitter struct {
	dir string
}

// NewCSVEmitter creates an emitter rooted at dir.
func NewCSVEmitter(dir string) *CSVEmitter {
	return &CSVEmitter{dir: dir}
}

// Emit writes one slice to <dir>/<parameter>/<parameter>_<temporal>_<stamp>.csv.
// Depth-bearing slices append their depth level to the name so levels at the
// same instant land in distinct files.
func (e *CSVEmitter) Emit(_ context.Context, s *Slice) error {
	dir := filepath.Join(e.dir, s.Parameter)
	//nolint:gosec // G301: Output directories are not sensitive.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%s", s.Parameter, s.Temporal, s.Time.UTC().Format("20060102T150405"))
	if s.HasDepth {
		name += "_" + strconv.FormatFloat(s.Depth, 'f', -1, 64) + "m"
	}
	name += ".csv"
	path := filepath.Join(dir, name)
	//nolint:gosec // G304: Path is derived from configured output directory.
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create slice file: %w", err)
	}
	defer func() { _ = file.Close() }()

	w := csv.NewWriter(file)
	header := []string{"time", "lon", "lat", "value"}
	vector := s.U != nil && s.V != nil
	if s.HasDepth {
		header = append(header, "depth")
	}
	if vector {
		header = append(header, "u", "v")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	stamp := s.Time.UTC().Format(time.RFC3339)
	for y, lat := range s.Lats {
		for x, lon := range s.Lons {
			v := s.Values[y][x]
			if math.IsNaN(v) {
				continue
			}
			row := []string{
				stamp,
				strconv.FormatFloat(lon, 'f', -1, 64),
				strconv.FormatFloat(lat, 'f', -1, 64),
				strconv.FormatFloat(v, 'g', -1, 64),
			}
			if s.HasDepth {
				row = append(row, strconv.FormatFloat(s.Depth, 'f', -1, 64))
			}
			if vector {
				row = append(row,
					strconv.FormatFloat(s.U[y][x], 'g', -1, 64),
					strconv.FormatFloat(s.V[y][x], 'g', -1, 64))
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush slice file: %w", err)
	}
	return file.Close()
}
