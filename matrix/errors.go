// Package matrix: sentinel error set.
// All package APIs return these sentinels (possibly wrapped with
// context via fmt.Errorf("…: %w", ErrX)); callers match with errors.Is.

package matrix

import "errors"

var (
	// ErrBadSize is returned when a requested matrix size is not positive.
	ErrBadSize = errors.New("matrix: size must be > 0")

	// ErrSizeMismatch indicates that a flat distance buffer does not hold
	// exactly rowCount*rowCount elements.
	ErrSizeMismatch = errors.New("matrix: distance buffer size mismatch")

	// ErrBadPrecision is returned when a precision below 1 is requested.
	ErrBadPrecision = errors.New("matrix: precision must be >= 1")

	// ErrIO wraps any failure while opening, writing, flushing or closing
	// a distance matrix file.
	ErrIO = errors.New("matrix: i/o failure")

	// ErrBadMatrixFile indicates a malformed distance matrix file:
	// a missing or non-numeric taxon count, a row with the wrong number
	// of entries, or an empty taxon name.
	ErrBadMatrixFile = errors.New("matrix: malformed distance matrix file")
)
