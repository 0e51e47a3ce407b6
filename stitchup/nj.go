package stitchup

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/caseysm/decenttree/clustertree"
	"github.com/caseysm/decenttree/matrix"
)

// njPosition is a candidate NJ join: the best column for one row under
// the corrected distance, with the cluster-size imbalance tie-break.
type njPosition[T matrix.Float] struct {
	row       int
	column    int
	value     T
	imbalance int
}

// NJMatrix is the neighbour-joining engine (Saitou and Nei, 1987).
// Each iteration joins the pair minimising the corrected distance
// D[r][c] − (T[r]+T[c])/(n−2) and replaces the pair with a new row at
// averaged distance; row totals are maintained incrementally. It is
// also the clustering substrate NTCJMatrix drives from its edge heap.
type NJMatrix[T matrix.Float] struct {
	mat          matrix.SquareMatrix[T]
	rowToCluster []int
	clusters     clustertree.Tree[T]

	logger      *slog.Logger
	silent      bool
	zipped      bool
	appendFile  bool
	rooted      bool
	precision   int
	constructed bool
}

// NewNJMatrix returns an NJ engine. logger may be nil for no
// milestone logging.
func NewNJMatrix[T matrix.Float](logger *slog.Logger) *NJMatrix[T] {
	return &NJMatrix[T]{logger: logger, precision: defaultPrecision}
}

// AlgorithmName identifies the engine in the registry and in logs.
func (m *NJMatrix[T]) AlgorithmName() string { return "NJ" }

// Description is the one-line registry description.
func (m *NJMatrix[T]) Description() string { return "Neighbor Joining (Saitou, Nei 1987)" }

// LoadMatrix copies names and an n·n row-major distance buffer into
// the engine and computes the initial row totals.
func (m *NJMatrix[T]) LoadMatrix(names []string, distances []float64) error {
	if err := m.mat.SetSize(len(names)); err != nil {
		return err
	}
	m.clusters.Clear()
	m.rowToCluster = m.rowToCluster[:0]
	for r, name := range names {
		m.clusters.AddLeaf(name)
		m.rowToCluster = append(m.rowToCluster, r)
	}
	if err := m.mat.LoadDistancesFromFlatArray(distances); err != nil {
		return err
	}
	m.mat.CalculateRowTotals()
	m.constructed = false

	return nil
}

// ConstructTree runs the NJ loop down to the root: three rows left
// for the unrooted trifurcation, two when rooted output is requested.
func (m *NJMatrix[T]) ConstructTree() error {
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
	stop := 3
	if m.rooted {
		stop = 2
	}
	for m.mat.RowCount() > stop {
		best := m.minimumEntry()
		if err := m.cluster(best.column, best.row); err != nil {
			return err
		}
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

// minimumEntry scans every pair (column < row) for the smallest
// corrected distance, ties broken by lower cluster-size imbalance.
func (m *NJMatrix[T]) minimumEntry() njPosition[T] {
	n := m.mat.RowCount()
	totals := m.mat.RowTotals()
	denominator := T(n - 2)
	if denominator < 1 {
		denominator = 1
	}
	best := njPosition[T]{value: infiniteCorrected}
	for row := 1; row < n; row++ {
		rowData := m.mat.Row(row)
		for col := 0; col < row; col++ {
			v := rowData[col] - (totals[row]+totals[col])/denominator
			if v < best.value {
				best = njPosition[T]{row: row, column: col, value: v,
					imbalance: m.imbalance(row, col)}
			} else if v == best.value {
				if imb := m.imbalance(row, col); imb < best.imbalance {
					best = njPosition[T]{row: row, column: col, value: v, imbalance: imb}
				}
			}
		}
	}

	return best
}

// infiniteCorrected bounds the corrected distance scan from above.
// Corrected distances can go negative, so zero would not do.
const infiniteCorrected = 1e+36

// cluster joins the clusters at rows a and b (a < b): branch lengths
// follow the NJ formula, the new cluster's distances are the averaged
// (Dai+Dbi−Dab)/2, and row totals are adjusted incrementally before
// row b is swap-removed.
func (m *NJMatrix[T]) cluster(a, b int) error {
	n := m.mat.RowCount()
	if n < 2 || b <= a || n <= b {
		return fmt.Errorf("cluster(%d,%d) at %d rows: %w", a, b, n, ErrInternalInvariant)
	}
	rowA, rowB := m.mat.Row(a), m.mat.Row(b)
	totals := m.mat.RowTotals()
	dab := rowB[a]
	aLength := dab / 2
	if n > 2 {
		aLength += (totals[a] - totals[b]) / (2 * T(n-2))
	}
	bLength := dab - aLength

	var newTotal T
	for i := 0; i < n; i++ {
		if i == a || i == b {
			continue
		}
		dai, dbi := rowA[i], rowB[i]
		dui := (dai + dbi - dab) / 2
		rowA[i] = dui
		m.mat.Row(i)[a] = dui
		totals[i] += dui - dai - dbi
		newTotal += dui
	}
	rowA[a] = 0
	totals[a] = newTotal

	joined, err := m.clusters.AddJoin(m.rowToCluster[a], aLength, m.rowToCluster[b], bLength)
	if err != nil {
		return fmt.Errorf("recording join: %w: %v", ErrInternalInvariant, err)
	}
	m.rowToCluster[a] = joined
	m.rowToCluster[b] = m.rowToCluster[n-1]
	m.rowToCluster = m.rowToCluster[:n-1]
	m.mat.RemoveRowAndColumn(b)

	return nil
}

// finishClustering emits the root: a trifurcation over the last three
// rows (unrooted), or a two-child root with half the remaining
// distance on each leg (rooted).
func (m *NJMatrix[T]) finishClustering() error {
	n := m.mat.RowCount()
	if m.rooted {
		if n != 2 {
			return fmt.Errorf("rooted finish at %d rows: %w", n, ErrInternalInvariant)
		}
		dab := m.mat.Row(1)[0]
		_, err := m.clusters.AddJoin(m.rowToCluster[0], dab/2, m.rowToCluster[1], dab/2)
		if err != nil {
			return fmt.Errorf("recording root: %w: %v", ErrInternalInvariant, err)
		}
		m.constructed = true

		return nil
	}
	if n != 3 {
		return fmt.Errorf("finish at %d rows: %w", n, ErrInternalInvariant)
	}
	row0, row1 := m.mat.Row(0), m.mat.Row(1)
	d01, d02, d12 := row0[1], row0[2], row1[2]
	_, err := m.clusters.AddTrifurcation(
		m.rowToCluster[0], (d01+d02-d12)/2,
		m.rowToCluster[1], (d01+d12-d02)/2,
		m.rowToCluster[2], (d02+d12-d01)/2)
	if err != nil {
		return fmt.Errorf("recording trifurcation: %w: %v", ErrInternalInvariant, err)
	}
	m.constructed = true

	return nil
}

// imbalance is the tie-break score for a candidate join: the absolute
// difference of the two clusters' exterior-node counts.
func (m *NJMatrix[T]) imbalance(rowA, rowB int) int {
	sizeA := m.clusters.Cluster(m.rowToCluster[rowA]).CountOfExteriorNodes
	sizeB := m.clusters.Cluster(m.rowToCluster[rowB]).CountOfExteriorNodes
	if sizeA < sizeB {
		return sizeB - sizeA
	}

	return sizeA - sizeB
}

// WriteTreeTo writes the constructed tree as Newick to w.
func (m *NJMatrix[T]) WriteTreeTo(w io.Writer) error {
	if !m.constructed {
		return ErrNoMatrix
	}

	return m.clusters.WriteTreeTo(w, m.precision)
}

// WriteTreeFile writes the constructed tree as Newick to path,
// honouring the zipped-output and append flags.
func (m *NJMatrix[T]) WriteTreeFile(path string) error {
	if !m.constructed {
		return ErrNoMatrix
	}

	return m.clusters.WriteTreeFile(m.zipped, m.precision, path, m.appendFile)
}

// SetZippedOutput selects gzip compression for WriteTreeFile.
func (m *NJMatrix[T]) SetZippedOutput(zipIt bool) { m.zipped = zipIt }

// BeSilent suppresses milestone logging.
func (m *NJMatrix[T]) BeSilent() { m.silent = true }

// SetIsRooted makes ConstructTree stop at two clusters and emit a
// rooted two-child root instead of the unrooted trifurcation.
func (m *NJMatrix[T]) SetIsRooted(rootIt bool) bool {
	m.rooted = rootIt

	return true
}

// SetAppendFile makes WriteTreeFile append rather than truncate.
func (m *NJMatrix[T]) SetAppendFile(appendIt bool) { m.appendFile = appendIt }

// SetSubtreeOnly is unsupported for the NJ family. Reports false.
func (m *NJMatrix[T]) SetSubtreeOnly(bool) bool { return false }

// SetPrecision sets the branch-length precision for Newick output.
func (m *NJMatrix[T]) SetPrecision(p int) { m.precision = p }
