// Package clustertree: sentinel error set.
// All package APIs return these sentinels (possibly wrapped with
// context via fmt.Errorf("…: %w", ErrX)); callers match with errors.Is.

package clustertree

import "errors"

var (
	// ErrEmptyTree is returned when Newick output is requested from a
	// tree that holds no clusters.
	ErrEmptyTree = errors.New("clustertree: tree has no clusters")

	// ErrBadChild indicates a join referencing a cluster index that has
	// not been appended yet (or a negative one).
	ErrBadChild = errors.New("clustertree: child cluster index out of range")

	// ErrIO wraps any failure while opening, writing, flushing or closing
	// a tree file.
	ErrIO = errors.New("clustertree: i/o failure")
)
