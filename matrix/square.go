package matrix

import "fmt"

// VectorWidth is the number of lanes per block in the blocked
// row-minimum scans. SquareMatrix pads every row to a multiple of
// VectorWidth elements so block loads never straddle a row boundary.
const VectorWidth = 8

// Float constrains the working scalar type of the agglomerative
// engines. float32 roughly doubles row-scan throughput and is accurate
// enough for typical data; float64 is used at the I/O boundary.
type Float interface {
	~float32 | ~float64
}

// SquareMatrix is the shrinking working matrix used by the clustering
// engines. The logical size (RowCount == ColumnCount) decreases
// monotonically as clusters merge; the physical buffer keeps the
// initial capacity. Removing row/column b swaps the last row and
// column into slot b, so the live region stays contiguous: every row
// below RowCount is in use, all the time.
type SquareMatrix[T Float] struct {
	data      []T
	rows      [][]T
	rowCount  int
	colCount  int
	stride    int
	rowTotals []T
}

// SetSize allocates an n×n working matrix, zero-filled, with each row
// padded to a VectorWidth boundary, and clears any row totals.
func (m *SquareMatrix[T]) SetSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("SetSize(%d): %w", n, ErrBadSize)
	}
	m.rowCount = n
	m.colCount = n
	m.stride = (n + VectorWidth - 1) / VectorWidth * VectorWidth
	m.data = make([]T, n*m.stride)
	m.rows = make([][]T, n)
	for r := 0; r < n; r++ {
		m.rows[r] = m.data[r*m.stride : r*m.stride+m.stride]
	}
	m.rowTotals = nil

	return nil
}

// RowCount returns the current logical size of the matrix.
func (m *SquareMatrix[T]) RowCount() int {
	return m.rowCount
}

// ColumnCount returns the current logical column count (== RowCount).
func (m *SquareMatrix[T]) ColumnCount() int {
	return m.colCount
}

// Row exposes row r of the working matrix. The slice is live storage:
// engines read and write through it directly. Only the first
// RowCount entries are meaningful.
func (m *SquareMatrix[T]) Row(r int) []T {
	return m.rows[r]
}

// Rows exposes all physical rows. Rows at index >= RowCount are stale.
func (m *SquareMatrix[T]) Rows() [][]T {
	return m.rows
}

// LoadDistancesFromFlatArray copies an n·n row-major float64 source
// into the working matrix, converting to the working scalar type.
// Returns ErrSizeMismatch when src does not hold RowCount² entries.
func (m *SquareMatrix[T]) LoadDistancesFromFlatArray(src []float64) error {
	n := m.rowCount
	if len(src) != n*n {
		return fmt.Errorf("%d elements for rank %d: %w", len(src), n, ErrSizeMismatch)
	}
	for r := 0; r < n; r++ {
		row := m.rows[r]
		base := r * n
		for c := 0; c < n; c++ {
			row[c] = T(src[base+c])
		}
	}

	return nil
}

// RemoveRowAndColumn removes row and column b by copying the last row
// over row b and the last column over column b, then shrinking the
// logical size by one. Row totals, when present, are swapped the same
// way; the caller is responsible for having adjusted their values
// before the removal.
func (m *SquareMatrix[T]) RemoveRowAndColumn(b int) {
	last := m.rowCount - 1
	lastRow := m.rows[last]
	for i := 0; i < m.rowCount; i++ {
		m.rows[b][i] = lastRow[i]
		m.rows[i][b] = m.rows[i][last]
	}
	if m.rowTotals != nil {
		m.rowTotals[b] = m.rowTotals[last]
		m.rowTotals = m.rowTotals[:last]
	}
	m.rowCount--
	m.colCount--
}

// CalculateRowTotals computes rowTotals[i] = Σ_j rows[i][j] over the
// live region.
func (m *SquareMatrix[T]) CalculateRowTotals() {
	n := m.rowCount
	if cap(m.rowTotals) < n {
		m.rowTotals = make([]T, n)
	} else {
		m.rowTotals = m.rowTotals[:n]
	}
	for r := 0; r < n; r++ {
		row := m.rows[r]
		var total T
		for c := 0; c < n; c++ {
			total += row[c]
		}
		m.rowTotals[r] = total
	}
}

// RowTotals returns the current row totals (nil until
// CalculateRowTotals has run). The slice is live storage.
func (m *SquareMatrix[T]) RowTotals() []T {
	return m.rowTotals
}

// SetRowTotal overwrites the running total for row r. Engines that
// maintain totals incrementally use this after each merge.
func (m *SquareMatrix[T]) SetRowTotal(r int, total T) {
	m.rowTotals[r] = total
}
