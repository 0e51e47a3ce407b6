package stitchup

import (
	"errors"

	"github.com/caseysm/decenttree/matrix"
)

var (
	// ErrTooFewTaxa is returned when tree construction is requested on a
	// matrix of fewer than three taxa.
	ErrTooFewTaxa = errors.New("stitchup: need at least 3 taxa")

	// ErrNoMatrix is returned when ConstructTree runs before LoadMatrix,
	// or when tree output is requested before ConstructTree.
	ErrNoMatrix = errors.New("stitchup: no distance matrix loaded")

	// ErrInternalInvariant indicates an inconsistency the engine cannot
	// recover from: a merge on a collapsed matrix, a second ConstructTree
	// without a fresh LoadMatrix, or an edge set found out of
	// (Source, Dest) order during contraction. The union-find state is
	// not cross-checked against the stitch set.
	ErrInternalInvariant = errors.New("stitchup: internal invariant breached")

	// ErrIO wraps any failure while opening, writing, flushing or
	// closing a tree file.
	ErrIO = errors.New("stitchup: i/o failure")
)

// StapleArch is the fraction of the joined distance assigned to the
// arch edge between the two interior nodes of a staple; StapleLeg is
// the fraction for each leg, so that arch + 2·legs covers the whole
// distance.
const (
	StapleArch = 1.0 / 3.0
	StapleLeg  = 0.5 * (1.0 - StapleArch)
)

// defaultPrecision is the branch-length precision used for Newick
// output until SetPrecision overrides it.
const defaultPrecision = 6

// Stitch is a directed edge in a stitch-up graph. Every undirected
// edge is stored as both directions; the edge set orders by
// (Source, Dest).
type Stitch[T matrix.Float] struct {
	Source int
	Dest   int
	Length T
}

// converse returns the mirror edge.
func (s Stitch[T]) converse() Stitch[T] {
	return Stitch[T]{Source: s.Dest, Dest: s.Source, Length: s.Length}
}

// tiebreakState is the linear congruential generator that imposes a
// pseudo-random but deterministic ordering on equal-length stitches.
// State is engine-local and seeded at 1, so a run's output never
// depends on what ran before it.
type tiebreakState uint64

// next advances the generator and returns the new value.
func (s *tiebreakState) next() uint64 {
	*s = *s*2862933555777941757 + 3037000493

	return uint64(*s)
}

// LengthSortedStitch is a Stitch ordered by (length, tiebreak) for the
// build-phase min-heap.
type LengthSortedStitch[T matrix.Float] struct {
	Stitch[T]
	tiebreak uint64
}

// less orders stitches by length, equal lengths by tiebreak.
func (s *LengthSortedStitch[T]) less(rhs *LengthSortedStitch[T]) bool {
	if s.Length != rhs.Length {
		return s.Length < rhs.Length
	}

	return s.tiebreak < rhs.tiebreak
}

// TaxonEdge is a candidate join between two taxa, ordered by length
// alone. NTCJ scores Length with the NJ-corrected distance, which may
// be negative.
type TaxonEdge[T matrix.Float] struct {
	Taxon1 int
	Taxon2 int
	Length T
}
