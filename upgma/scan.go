package upgma

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/caseysm/decenttree/matrix"
)

// rowMinimaScan fills rowMinima[r] with the cheapest column in [0,r)
// for every row r in [1, rowCount). Rows are scanned in parallel;
// each worker writes only its own rows' slots, so the scan commutes
// and the combine in minimumEntry stays deterministic.
func (m *Matrix[T]) rowMinimaScan() error {
	n := m.mat.RowCount()
	if cap(m.rowMinima) < n {
		m.rowMinima = make([]position[T], n)
	} else {
		m.rowMinima = m.rowMinima[:n]
	}
	// Row 0 has no candidate columns; park a sentinel the global
	// combine skips (row == column).
	m.rowMinima[0] = position[T]{value: infiniteDistance}

	workers := m.opts.ThreadCount
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n-1 {
		workers = n - 1
	}
	if workers <= 1 {
		m.scanRows(1, n)
		return nil
	}

	var group errgroup.Group
	chunk := (n - 1 + workers - 1) / workers
	for start := 1; start < n; start += chunk {
		start := start
		stop := start + chunk
		if stop > n {
			stop = n
		}
		group.Go(func() error {
			m.scanRows(start, stop)
			return nil
		})
	}

	return group.Wait()
}

// scanRows computes rowMinima for rows [start, stop).
func (m *Matrix[T]) scanRows(start, stop int) {
	for row := start; row < stop; row++ {
		if m.opts.BlockedScan {
			m.rowMinima[row] = m.blockedRowMinimum(row)
		} else {
			m.rowMinima[row] = m.scalarRowMinimum(row)
		}
	}
}

// scalarRowMinimum walks row's candidate columns one at a time.
func (m *Matrix[T]) scalarRowMinimum(row int) position[T] {
	rowData := m.mat.Row(row)
	bestValue := T(infiniteDistance)
	bestColumn := 0
	for col := 0; col < row; col++ {
		if v := rowData[col]; v < bestValue {
			bestColumn = col
			bestValue = v
		}
	}

	return position[T]{
		row:       row,
		column:    bestColumn,
		value:     bestValue,
		imbalance: m.imbalance(row, bestColumn),
	}
}

// blockedRowMinimum walks the row in matrix.VectorWidth lanes, the
// shape a SIMD row scan takes: each lane keeps a running minimum and
// the column number it came from (read from the precomputed
// columnNumbers array), lanes are reduced once after the block loop,
// and the tail columns are scanned scalar. The imbalance tie-break is
// applied once, after the column is chosen.
func (m *Matrix[T]) blockedRowMinimum(row int) position[T] {
	rowData := m.mat.Row(row)
	pos := position[T]{row: row, value: infiniteDistance}

	var minLane, ixLane [matrix.VectorWidth]T
	for lane := range minLane {
		minLane[lane] = infiniteDistance
		ixLane[lane] = -1
	}
	col := 0
	for ; col+matrix.VectorWidth < row; col += matrix.VectorWidth {
		for lane := 0; lane < matrix.VectorWidth; lane++ {
			if v := rowData[col+lane]; v < minLane[lane] {
				ixLane[lane] = m.columnNumbers[col+lane]
				minLane[lane] = v
			}
		}
	}
	// Extract minimum and column number from the lanes; on equal
	// values the lowest column wins, as in the scalar scan.
	for lane := 0; lane < matrix.VectorWidth; lane++ {
		if ixLane[lane] < 0 {
			continue
		}
		column := int(ixLane[lane])
		if minLane[lane] < pos.value || (minLane[lane] == pos.value && column < pos.column) {
			pos.value = minLane[lane]
			pos.column = column
		}
	}
	for ; col < row; col++ {
		if v := rowData[col]; v < pos.value {
			pos.column = col
			pos.value = v
		}
	}
	pos.imbalance = m.imbalance(pos.row, pos.column)

	return pos
}
