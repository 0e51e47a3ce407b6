package stitchup

import (
	"container/heap"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/caseysm/decenttree/matrix"
)

// NTCJMatrix is the Nearest Taxon Cluster Joining engine: a mash-up
// of stitch-up and neighbour joining. Every taxon pair is scored once,
// up front, with the NJ-corrected distance between the original taxa;
// the scored edges go into a min-heap, and each accepted cross-cluster
// edge drives the underlying NJ cluster merge. It is somewhat faster
// than NJ but gets worse answers; correctness here means matching the
// reference trajectory, not any theoretical optimum.
type NTCJMatrix[T matrix.Float] struct {
	NJMatrix[T]

	// ThreadCount bounds the workers for the per-taxon retag loop after
	// each merge; values < 1 mean one worker per available CPU.
	ThreadCount int
}

// NewNTCJMatrix returns an NTCJ engine. logger may be nil for no
// milestone logging.
func NewNTCJMatrix[T matrix.Float](logger *slog.Logger) *NTCJMatrix[T] {
	return &NTCJMatrix[T]{NJMatrix: NJMatrix[T]{logger: logger, precision: defaultPrecision}}
}

// AlgorithmName identifies the engine in the registry and in logs.
func (m *NTCJMatrix[T]) AlgorithmName() string { return "NTCJ" }

// SetThreadCount bounds the workers for the per-taxon retag loop;
// values below 1 mean one worker per available CPU.
func (m *NTCJMatrix[T]) SetThreadCount(threads int) { m.ThreadCount = threads }

// Description is the one-line registry description.
func (m *NTCJMatrix[T]) Description() string {
	return "Cluster joining by nearest (NJ) taxon distance"
}

// ConstructTree scores every taxon pair, heapifies, and joins clusters
// in edge order until only the root's children remain, finishing with
// the NJ root emission.
func (m *NTCJMatrix[T]) ConstructTree() error {
	n := m.mat.RowCount()
	if m.rowToCluster == nil || n == 0 {
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

	edges := m.vectorOfEdges()
	heapSize := len(edges)
	heap.Init(&edges)

	if err := m.constructTreeFromEdgeHeap(&edges, heapSize); err != nil {
		return err
	}
	if err := m.finishClustering(); err != nil {
		return err
	}
	if m.logger != nil && !m.silent {
		m.logger.Info("tree constructed", "algorithm", m.AlgorithmName(),
			"clusters", m.clusters.Size())
	}

	return nil
}

// vectorOfEdges scores every unordered pair (col < row) with the
// corrected distance D[row][col] − (T[row]+T[col])/n.
func (m *NTCJMatrix[T]) vectorOfEdges() taxonEdgeHeap[T] {
	n := m.mat.RowCount()
	totals := m.mat.RowTotals()
	multiplier := 1 / T(n)
	edges := make(taxonEdgeHeap[T], 0, n*(n-1)/2)
	for row := 0; row < n; row++ {
		rowData := m.mat.Row(row)
		for col := 0; col < row; col++ {
			d := rowData[col] - (totals[row]+totals[col])*multiplier
			edges = append(edges, TaxonEdge[T]{Taxon1: col, Taxon2: row, Length: d})
		}
	}

	return edges
}

// constructTreeFromEdgeHeap pops edges, skipping those whose taxa
// already share a cluster representative, and merges until the live
// cluster count reaches the root degree (three unrooted, two rooted).
// The heap is consumed prefix-first; no re-heapify is needed because
// popped entries never go back.
func (m *NTCJMatrix[T]) constructTreeFromEdgeHeap(edges *taxonEdgeHeap[T], heapSize int) error {
	taxonCount := m.mat.RowCount()
	taxonToRow := make([]int, taxonCount)
	for t := range taxonToRow {
		taxonToRow[t] = t
	}

	degreeOfRoot := 3
	if m.rooted {
		degreeOfRoot = 2
	}
	iterations := 0
	for degreeOfRoot < m.mat.RowCount() {
		var shortest TaxonEdge[T]
		for {
			shortest = edges.popMin()
			iterations++
			if taxonToRow[shortest.Taxon1] != taxonToRow[shortest.Taxon2] ||
				heapSize <= iterations {
				break
			}
		}
		rowA := taxonToRow[shortest.Taxon1]
		rowB := taxonToRow[shortest.Taxon2]
		r1, r2 := rowA, rowB
		if r2 < r1 {
			r1, r2 = r2, r1
		}
		if err := m.cluster(r1, r2); err != nil {
			return err
		}
		// cluster() swapped the old last row into r2's slot; retag both
		// the merged-away cluster and the moved one.
		m.retagTaxa(taxonToRow, r1, r2, m.mat.RowCount())
	}

	return nil
}

// retagTaxa repoints every taxon whose representative was the
// merged-away row r2 at r1, and every taxon whose representative was
// the old last row (now movedRow's value) at r2. Taxa are partitioned
// across workers; each writes disjoint indices, so the loop commutes.
func (m *NTCJMatrix[T]) retagTaxa(taxonToRow []int, r1, r2, movedRow int) {
	workers := m.ThreadCount
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	taxonCount := len(taxonToRow)
	if workers > taxonCount {
		workers = taxonCount
	}
	retag := func(start, stop int) {
		for t := start; t < stop; t++ {
			if taxonToRow[t] == r2 {
				taxonToRow[t] = r1
			} else if taxonToRow[t] == movedRow {
				taxonToRow[t] = r2
			}
		}
	}
	if workers <= 1 || taxonCount < 2*workers {
		retag(0, taxonCount)
		return
	}

	var group errgroup.Group
	chunk := (taxonCount + workers - 1) / workers
	for start := 0; start < taxonCount; start += chunk {
		start := start
		stop := start + chunk
		if stop > taxonCount {
			stop = taxonCount
		}
		group.Go(func() error {
			retag(start, stop)
			return nil
		})
	}
	_ = group.Wait()
}
