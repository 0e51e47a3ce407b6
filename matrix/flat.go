package matrix

import "fmt"

// FlatMatrix is a distance matrix stored sequentially in row-major
// order, plus the taxon (sequence) names that define its indices.
// Entry (r,c) lives at distances[r*rowCount+c].
//
// A FlatMatrix is either owning (the buffer was allocated by SetSize)
// or borrowed (the buffer belongs to the caller and must not be
// replaced behind its back). Symmetry is assumed by the engines but
// not enforced here; the diagonal is zero after SetSize.
type FlatMatrix struct {
	sequenceNames []string
	rowCount      int
	distances     []float64
	borrowed      bool
}

// NewFlatMatrix returns an empty, owning FlatMatrix.
// Call SetSize (or AddCluster + SetSize) before storing distances.
func NewFlatMatrix() *FlatMatrix {
	return &FlatMatrix{}
}

// BorrowFlatMatrix wraps caller-owned distance data without copying.
// distances must hold exactly len(names)² entries in row-major order;
// the matrix aliases the slice and never reallocates it.
// Returns ErrSizeMismatch when the buffer does not match the names.
func BorrowFlatMatrix(names []string, distances []float64) (*FlatMatrix, error) {
	n := len(names)
	if len(distances) != n*n {
		return nil, fmt.Errorf("%d names vs %d distances: %w",
			n, len(distances), ErrSizeMismatch)
	}
	held := make([]string, n)
	copy(held, names)

	return &FlatMatrix{
		sequenceNames: held,
		rowCount:      n,
		distances:     distances,
		borrowed:      true,
	}, nil
}

// SetSize sets the rank of the matrix and makes it square: an owning
// n×n zero-filled buffer replaces any previous one. A previously
// borrowed buffer is released back to its owner (the alias is dropped).
func (m *FlatMatrix) SetSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("SetSize(%d): %w", n, ErrBadSize)
	}
	m.borrowed = false
	m.rowCount = n
	m.distances = make([]float64, n*n)

	return nil
}

// Size returns the rank of the matrix (the number of rows).
func (m *FlatMatrix) Size() int {
	return m.rowCount
}

// Cell returns the distance at (r,c). Panics on indices outside the
// matrix, like a slice access would; bounds are the caller's contract.
func (m *FlatMatrix) Cell(r, c int) float64 {
	return m.distances[r*m.rowCount+c]
}

// SetCell overwrites the distance at (r,c).
func (m *FlatMatrix) SetCell(r, c int, v float64) {
	m.distances[r*m.rowCount+c] = v
}

// Distances exposes the underlying row-major buffer.
func (m *FlatMatrix) Distances() []float64 {
	return m.distances
}

// AddCluster appends a taxon name. It does not touch the numeric
// buffer; callers SetSize before or after naming all taxa.
func (m *FlatMatrix) AddCluster(name string) {
	m.sequenceNames = append(m.sequenceNames, name)
}

// SequenceNames returns the ordered taxon names.
func (m *FlatMatrix) SequenceNames() []string {
	return m.sequenceNames
}

// SequenceName returns the name of taxon i.
func (m *FlatMatrix) SequenceName(i int) string {
	return m.sequenceNames[i]
}

// SetSequenceName renames taxon i.
func (m *FlatMatrix) SetSequenceName(i int, name string) {
	m.sequenceNames[i] = name
}

// MaxSeqNameLength returns the longest taxon name length, used for
// column alignment when writing distance files.
func (m *FlatMatrix) MaxSeqNameLength() int {
	longest := 0
	for _, name := range m.sequenceNames {
		if len(name) > longest {
			longest = len(name)
		}
	}

	return longest
}
