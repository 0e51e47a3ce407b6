// Package starttree: sentinel error set.
// All package APIs return these sentinels (possibly wrapped with
// context via fmt.Errorf("…: %w", ErrX)); callers match with errors.Is.

package starttree

import "errors"

var (
	// ErrInvalidInput covers every precondition failure detected before
	// work begins: fewer than 3 taxa, empty or duplicated names, a
	// distance buffer whose length is not N·N, or a precision below 1.
	ErrInvalidInput = errors.New("starttree: invalid input")

	// ErrUnknownAlgorithm is returned when no builder is registered
	// under the requested name.
	ErrUnknownAlgorithm = errors.New("starttree: unknown algorithm")
)
