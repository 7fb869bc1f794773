// Package errors provides structured error types for the hydra library.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The Error type carries the permutation variable name
// and file path where applicable, plus a cause chain.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.Conflict("USE_FOG", "already exists with different default value %d", 1)
//	err := errors.MissingValue("LIGHTING_MODE")
//	err := errors.FileNotFound(errors.PhaseLoad, "shaders/pbr.hydra")
//
// All errors implement the standard error interface and support errors.Is/As.
// Matching with errors.Is compares Phase and Kind only, so sentinel values
// like &errors.Error{Phase: PhaseFinalize, Kind: KindMissingValue} can be
// used to test error classes.
package errors
