// Package usecase orchestrates the field-generation pipeline: catalog
// lookup, archive routing, selection, merging, derivation, regridding,
// masking, and emission.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"go.bahari.io/marine-fields/internal/adapter/emit"
	"go.bahari.io/marine-fields/internal/adapter/store"
	"go.bahari.io/marine-fields/internal/adapter/store/csv"
	"go.bahari.io/marine-fields/internal/adapter/store/runs"
	"go.bahari.io/marine-fields/internal/domain"
	"go.bahari.io/marine-fields/internal/observability"
)

// Catalog resolves a variable and temporal resolution to its source record.
type Catalog interface {
	Lookup(variable, temporal string) (*csv.Record, error)
}

// RunLedger records completed runs. A nil ledger disables recording.
type RunLedger interface {
	Insert(ctx context.Context, r runs.Record) (int64, error)
}

// Deps bundles the pipeline's collaborators.
type Deps struct {
	Catalog   Catalog
	Fetcher   store.DatasetFetcher
	Elevation store.ElevationSource
	Emitter   emit.Emitter
	Ledger    RunLedger

	Clock   clockwork.Clock
	Log     *slog.Logger
	Metrics *observability.Metrics

	// Resolution is the target lattice step in degrees; zero selects the
	// default.
	Resolution float64
}

// Pipeline generates masked, regridded field slices for one parameter
// request at a time.
type Pipeline struct {
	deps Deps
}

// New creates a pipeline, applying defaults for optional collaborators.
func New(deps Deps) *Pipeline {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NewMetricsForTesting()
	}
	if deps.Resolution <= 0 {
		deps.Resolution = domain.DefaultResolution
	}
	return &Pipeline{deps: deps}
}

// Request describes one field-generation run.
type Request struct {
	Parameter string `json:"parameter"`
	Temporal  string `json:"temporal"`

	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`

	// Start defaults to the archive's first covered instant, Stop to the
	// current day. Equal bounds select the single nearest time step.
	Start time.Time `json:"start,omitzero"`
	Stop  time.Time `json:"stop,omitzero"`

	DepthMin float64 `json:"depth_min"`
	DepthMax float64 `json:"depth_max"`
}

// Result summarizes a completed run.
type Result struct {
	RunID     int64       `json:"run_id,omitempty"`
	Parameter string      `json:"parameter"`
	Variable  string      `json:"variable"`
	Title     string      `json:"title"`
	Temporal  string      `json:"temporal"`
	ValueMin  float64     `json:"value_min"`
	ValueMax  float64     `json:"value_max"`
	Times     []time.Time `json:"times"`
	Slices    int         `json:"slices"`
}

// span is one archive to fetch together with the window to select from it.
type span struct {
	locator string
	window  domain.Window
}

// Run executes the full pipeline for one request.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	res, err := p.run(ctx, req)
	p.deps.Metrics.RunsTotal.WithLabelValues(req.Parameter, outcome(err)).Inc()
	return res, err
}

//nolint:gocyclo // The stage sequence reads best as one function.
func (p *Pipeline) run(ctx context.Context, req Request) (*Result, error) {
	param, err := domain.ParameterByName(req.Parameter)
	if err != nil {
		return nil, err
	}
	period, err := domain.ParsePeriod(req.Temporal)
	if err != nil {
		return nil, err
	}
	if req.LonMax < req.LonMin || req.LatMax < req.LatMin {
		return nil, fmt.Errorf("%w: spatial window bounds are inverted", domain.ErrConfig)
	}

	// High-frequency families are catalogued at their native cadence and
	// aggregated to the requested period after merging.
	catalogTemporal := string(period)
	if param.HighFrequency {
		catalogTemporal = param.CatalogTemporal
	}
	rec, err := p.deps.Catalog.Lookup(param.Variable, catalogTemporal)
	if err != nil {
		return nil, err
	}

	window := domain.Window{
		LonMin: req.LonMin, LonMax: req.LonMax,
		LatMin: req.LatMin, LatMax: req.LatMax,
		Start: req.Start, Stop: req.Stop,
		DepthMin: req.DepthMin, DepthMax: req.DepthMax,
	}
	if window.Start.IsZero() {
		window.Start = rec.InitDate
	}
	if window.Stop.IsZero() {
		now := p.deps.Clock.Now().UTC()
		window.Stop = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if window.Stop.Before(window.Start) {
		return nil, fmt.Errorf("%w: window stop %s is before start %s", domain.ErrConfig,
			window.Stop.Format(time.RFC3339), window.Start.Format(time.RFC3339))
	}

	spans := route(rec, window)
	parts := make([]*domain.Dataset, 0, len(spans))
	for _, sp := range spans {
		start := p.deps.Clock.Now()
		ds, err := p.deps.Fetcher.Fetch(ctx, sp.locator, param.Components)
		if err != nil {
			return nil, err
		}
		p.deps.Metrics.ObserveStage("fetch", p.deps.Clock.Since(start))

		sel, err := domain.Select(ds, param.Components, sp.window, param, p.deps.Log)
		if err != nil {
			return nil, err
		}
		// High-frequency families are aggregated per archive, before the
		// merge. A cutover falling mid-bucket gives both archives the same
		// bucket label, which the merge rejects.
		if param.HighFrequency {
			if sel, err = domain.ResampleMean(sel, period); err != nil {
				return nil, err
			}
		}
		parts = append(parts, sel)
	}

	merged, err := domain.ConcatTime(parts...)
	if err != nil {
		return nil, err
	}

	if err := domain.Derive(merged, param); err != nil {
		return nil, err
	}

	start := p.deps.Clock.Now()
	regridded, lattice, err := domain.Regrid(merged, p.deps.Resolution)
	if err != nil {
		return nil, err
	}
	p.deps.Metrics.ObserveStage("regrid", p.deps.Clock.Since(start))

	surface, err := p.deps.Elevation.LoadSurface(ctx)
	if err != nil {
		return nil, err
	}
	surface.RenameAxes()
	mask, err := domain.BuildSeaMask(surface, lattice)
	if err != nil {
		return nil, err
	}
	masked, err := domain.ApplyMask(regridded, mask)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Parameter: param.Name,
		Variable:  param.Variable,
		Title:     rec.Title,
		Temporal:  string(period),
		ValueMin:  rec.ValueMin,
		ValueMax:  rec.ValueMax,
		Times:     masked.Times,
	}
	if err := p.emit(ctx, masked, param, rec, period, result); err != nil {
		return nil, err
	}

	if p.deps.Ledger != nil {
		id, err := p.deps.Ledger.Insert(ctx, runs.Record{
			Parameter:   param.Name,
			Temporal:    string(period),
			Start:       window.Start,
			Stop:        window.Stop,
			Slices:      result.Slices,
			CompletedAt: p.deps.Clock.Now().UTC(),
		})
		if err != nil {
			p.deps.Log.Error("failed to record run", "error", err)
		} else {
			result.RunID = id
		}
	}

	p.deps.Log.Info("run complete",
		"parameter", param.Name, "temporal", period,
		"times", len(masked.Times), "slices", result.Slices)
	return result, nil
}

// emit writes one slice per time step and, for depth-bearing families, per
// retained depth level.
func (p *Pipeline) emit(ctx context.Context, ds *domain.Dataset, param domain.Parameter, rec *csv.Record, period domain.Period, result *Result) error {
	field, ok := ds.Vars[param.Variable]
	if !ok {
		return fmt.Errorf("%w: published variable %q missing after derivation", domain.ErrConfig, param.Variable)
	}

	var u, v *domain.Field
	if param.Derived && len(param.Components) == 2 {
		u = ds.Vars[param.Components[0]]
		v = ds.Vars[param.Components[1]]
	}

	for t := range ds.Times {
		for d := 0; d < field.ND; d++ {
			s := &emit.Slice{
				Parameter: param.Name,
				Variable:  param.Variable,
				Title:     rec.Title,
				Temporal:  string(period),
				Time:      ds.Times[t],
				HasDepth:  param.HasDepth && len(ds.Depths) > 0,
				ValueMin:  rec.ValueMin,
				ValueMax:  rec.ValueMax,
				Lons:      ds.Lons,
				Lats:      ds.Lats,
				Values:    sliceValues(field, t, d),
			}
			if s.HasDepth {
				s.Depth = ds.Depths[d]
			}
			if u != nil && v != nil {
				s.U = sliceValues(u, t, d)
				s.V = sliceValues(v, t, d)
			}
			if err := p.deps.Emitter.Emit(ctx, s); err != nil {
				return fmt.Errorf("failed to emit slice at %s: %w", ds.Times[t].Format(time.RFC3339), err)
			}
			p.deps.Metrics.SlicesEmitted.Inc()
			result.Slices++
		}
	}
	return nil
}

func sliceValues(f *domain.Field, t, d int) [][]float64 {
	out := make([][]float64, f.NY)
	for y := 0; y < f.NY; y++ {
		row := make([]float64, f.NX)
		for x := 0; x < f.NX; x++ {
			row[x] = f.At(t, d, y, x)
		}
		out[y] = row
	}
	return out
}

// route decides which archives serve the window. A window wholly before the
// cutover uses the historical archive, wholly at or after it the
// near-real-time one; a straddling window fetches both, split at the
// cutover instant with the historical side exclusive of it.
func route(rec *csv.Record, w domain.Window) []span {
	if w.Start.Equal(w.Stop) {
		if w.Start.Before(rec.Cutover) {
			return []span{{locator: rec.HistoricalLocator, window: w}}
		}
		return []span{{locator: rec.NRTLocator, window: w}}
	}

	switch {
	case w.Stop.Before(rec.Cutover):
		return []span{{locator: rec.HistoricalLocator, window: w}}
	case !w.Start.Before(rec.Cutover):
		return []span{{locator: rec.NRTLocator, window: w}}
	}

	historical := w
	historical.Stop = rec.Cutover.Add(-time.Nanosecond)
	nrt := w
	nrt.Start = rec.Cutover
	return []span{
		{locator: rec.HistoricalLocator, window: historical},
		{locator: rec.NRTLocator, window: nrt},
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrConfig), errors.Is(err, domain.ErrDegenerate):
		return "config_error"
	case errors.Is(err, domain.ErrAccess):
		return "access_error"
	}
	return "internal_error"
}
