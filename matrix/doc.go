// Package matrix provides the distance-matrix substrate shared by every
// tree construction engine in decenttree.
//
// Two matrix types live here:
//
//   - FlatMatrix — an N×N matrix of float64 distances stored
//     sequentially in row-major order, together with the taxon names
//     that define its row/column indices. FlatMatrix owns the
//     PHYLIP-style file formats ("square", "upper", "lower", each with
//     an optional ".gz" suffix for gzip compression).
//
//   - SquareMatrix[T] — the working matrix used by the agglomerative
//     engines. Its logical size shrinks as clusters merge while the
//     physical buffer keeps the initial capacity; RemoveRowAndColumn
//     swaps the last row and column into the removed slot so that the
//     live region stays contiguous and every inner loop stays free of
//     "is this row alive?" branches. Rows are padded to VectorWidth so
//     the blocked row-minimum scans can process whole blocks.
//
// Conventions:
//   - Column numbers are less than row numbers wherever a pair (row,
//     column) identifies a candidate merge; the matrix is assumed
//     symmetric around its diagonal.
//   - Symmetry is assumed, not enforced: callers may overwrite cells.
//   - The diagonal is zero after initialisation.
//
// All sentinel errors are matched with errors.Is; see errors.go.
package matrix
