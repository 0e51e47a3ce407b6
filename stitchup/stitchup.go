package stitchup

import (
	"container/heap"
	"fmt"
	"io"
	"log/slog"

	"github.com/caseysm/decenttree/matrix"
)

// Matrix is the stitch-up engine: a distance matrix plus the graph it
// stitches together. The scalar type T is float64 in the registry;
// float32 works too.
type Matrix[T matrix.Float] struct {
	mat   matrix.SquareMatrix[T]
	graph Graph[T]

	tiebreak tiebreakState

	logger      *slog.Logger
	silent      bool
	zipped      bool
	appendFile  bool
	rooted      bool
	subtreeOnly bool
	precision   int
	constructed bool
}

// NewMatrix returns a stitch-up engine. logger may be nil for no
// milestone logging.
func NewMatrix[T matrix.Float](logger *slog.Logger) *Matrix[T] {
	return &Matrix[T]{logger: logger, precision: defaultPrecision, tiebreak: 1}
}

// AlgorithmName identifies the engine in the registry and in logs.
func (m *Matrix[T]) AlgorithmName() string { return "STITCH" }

// Description is the one-line registry description.
func (m *Matrix[T]) Description() string { return "Family Stitch-up (Lowest Cost)" }

// LoadMatrix copies names and an n·n row-major distance buffer into
// the engine. Assumptions: 2 < len(names), all names distinct, the
// matrix symmetric with distances[row*n+col] holding the distance
// between taxon row and taxon col.
func (m *Matrix[T]) LoadMatrix(names []string, distances []float64) error {
	if err := m.mat.SetSize(len(names)); err != nil {
		return err
	}
	m.graph.Clear()
	for _, name := range names {
		m.graph.AddLeaf(name)
	}
	if err := m.mat.LoadDistancesFromFlatArray(distances); err != nil {
		return err
	}
	m.tiebreak = 1
	m.constructed = false

	return nil
}

// ConstructTree stitches the graph together: every pairwise distance
// becomes a heap entry, the n−1 cheapest cross-component edges become
// staples, and the through-through nodes left over are contracted
// away.
func (m *Matrix[T]) ConstructTree() error {
	n := m.mat.RowCount()
	if m.graph.LeafCount() == 0 {
		return ErrNoMatrix
	}
	if n < 3 {
		return fmt.Errorf("%d taxa: %w", n, ErrTooFewTaxa)
	}
	if m.constructed {
		return fmt.Errorf("tree already constructed; reload the matrix: %w", ErrInternalInvariant)
	}
	if m.logger != nil && !m.silent {
		m.logger.Info("constructing tree", "algorithm", m.AlgorithmName(), "taxa", n)
	}

	stitches := make(stitchHeap[T], 0, n*(n-1)/2)
	for row := 0; row < n; row++ {
		rowData := m.mat.Row(row)
		for col := 0; col < row; col++ {
			stitches = append(stitches, LengthSortedStitch[T]{
				Stitch:   Stitch[T]{Source: row, Dest: col, Length: rowData[col]},
				tiebreak: m.tiebreak.next(),
			})
		}
	}
	heapSize := len(stitches)
	heap.Init(&stitches)

	// Exactly n−1 joins connect every leaf. Each join pops until a
	// cross-component edge turns up; the iteration guard stops a
	// corrupted heap from looping forever.
	iterations := 0
	for join := 0; join+1 < n; join++ {
		var shortest LengthSortedStitch[T]
		for {
			shortest = stitches.popMin()
			iterations++
			if !m.graph.AreLeavesInSameSet(shortest.Source, shortest.Dest) ||
				heapSize < iterations || stitches.Len() == 0 {
				break
			}
		}
		m.graph.Staple(shortest.Source, shortest.Dest, shortest.Length)
	}
	if err := m.graph.RemoveThroughThroughNodes(); err != nil {
		return err
	}
	m.constructed = true
	if m.logger != nil && !m.silent {
		m.logger.Info("tree constructed", "algorithm", m.AlgorithmName(),
			"nodes", m.graph.NodeCount())
	}

	return nil
}

// Graph exposes the stitched graph, for callers that want the edge set
// rather than Newick text.
func (m *Matrix[T]) Graph() *Graph[T] {
	return &m.graph
}

// WriteTreeTo writes the constructed tree as Newick to w.
func (m *Matrix[T]) WriteTreeTo(w io.Writer) error {
	if !m.constructed {
		return ErrNoMatrix
	}

	return m.graph.WriteTreeTo(w, m.precision, m.subtreeOnly)
}

// WriteTreeFile writes the constructed tree as Newick to path,
// honouring the zipped-output and append flags.
func (m *Matrix[T]) WriteTreeFile(path string) error {
	if !m.constructed {
		return ErrNoMatrix
	}

	return m.graph.WriteTreeFile(m.zipped, m.precision, path, m.appendFile, m.subtreeOnly)
}

// SetZippedOutput selects gzip compression for WriteTreeFile.
func (m *Matrix[T]) SetZippedOutput(zipIt bool) { m.zipped = zipIt }

// BeSilent suppresses milestone logging.
func (m *Matrix[T]) BeSilent() { m.silent = true }

// SetIsRooted records the rooting request. Stitch-up itself always
// produces the unrooted topology; reports true for interface parity
// with the NJ family.
func (m *Matrix[T]) SetIsRooted(rootIt bool) bool {
	m.rooted = rootIt

	return true
}

// SetAppendFile makes WriteTreeFile append rather than truncate.
func (m *Matrix[T]) SetAppendFile(appendIt bool) { m.appendFile = appendIt }

// SetSubtreeOnly drops the outer brackets and terminating ";" from
// the output, for embedding the tree in a larger Newick file.
func (m *Matrix[T]) SetSubtreeOnly(wantSubtree bool) bool {
	m.subtreeOnly = wantSubtree

	return true
}

// SetPrecision sets the branch-length precision for Newick output.
func (m *Matrix[T]) SetPrecision(p int) { m.precision = p }
