package upgma

import (
	"errors"
	"log/slog"

	"github.com/caseysm/decenttree/matrix"
)

var (
	// ErrTooFewTaxa is returned when tree construction is requested on a
	// matrix of fewer than three taxa.
	ErrTooFewTaxa = errors.New("upgma: need at least 3 taxa")

	// ErrNoMatrix is returned when ConstructTree runs before LoadMatrix.
	ErrNoMatrix = errors.New("upgma: no distance matrix loaded")

	// ErrInternalInvariant indicates a merge requested on a collapsed
	// matrix. It is fatal to the invocation and never recovered.
	ErrInternalInvariant = errors.New("upgma: internal invariant breached")
)

// infiniteDistance is the sentinel "worse than any real distance"
// value used by the row-minimum scans.
const infiniteDistance = 1e+36

// defaultPrecision is the branch-length precision used for Newick
// output until SetPrecision overrides it.
const defaultPrecision = 6

// Options configures a UPGMA engine.
//
// Fields:
//   - ThreadCount  — workers for the per-row minimum scan; values < 1
//     mean one worker per available CPU.
//   - BlockedScan  — use the lane-blocked row-minimum scan instead of
//     the scalar one. Both produce identical results.
//   - Logger       — milestone sink; nil means no logging.
type Options struct {
	ThreadCount int
	BlockedScan bool
	Logger      *slog.Logger
}

// DefaultOptions returns the options used when none are supplied:
// blocked scan, one worker per CPU, no logging.
func DefaultOptions() Options {
	return Options{
		ThreadCount: 0,
		BlockedScan: true,
	}
}

// position identifies a candidate join: the cheapest column for one
// row of the working matrix. Column is strictly less than row, the
// convention everywhere a pair identifies a merge.
type position[T matrix.Float] struct {
	row       int
	column    int
	value     T
	imbalance int
}

// better reports whether p orders before q: smaller value first, then
// smaller imbalance.
func (p *position[T]) better(q *position[T]) bool {
	return p.value < q.value ||
		(p.value == q.value && p.imbalance < q.imbalance)
}
