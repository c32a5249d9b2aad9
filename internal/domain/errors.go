package domain

import "errors"

// Error categories surfaced by the pipeline. All are fatal for the run;
// there is no partial-success mode.
var (
	// ErrConfig marks an invalid request or inconsistent inputs: unknown
	// parameter, start after stop, mismatched axes across merge inputs.
	ErrConfig = errors.New("configuration error")

	// ErrAccess marks an upstream retrieval failure. The pipeline does not
	// retry; the caller decides.
	ErrAccess = errors.New("access error")

	// ErrDegenerate marks a window selection too small to interpolate from
	// (fewer than two distinct points on a spatial axis).
	ErrDegenerate = errors.New("degenerate selection")
)
