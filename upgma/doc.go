// Package upgma implements the UPGMA (unweighted pair group method
// with arithmetic mean) tree construction algorithm of Sokal and
// Michener (1958), "Evaluating Systematic Relationships".
//
// The engine clusters over a shrinking matrix.SquareMatrix: each
// iteration scans every row for its cheapest join partner, picks the
// globally cheapest pair (ties broken by the smaller difference in
// cluster sizes), averages the two rows together weighted by cluster
// size, and removes the merged-away row by swapping the last row and
// column into its place. When three rows remain the engine emits the
// final unrooted trifurcation and the merge history serialises to
// Newick through a clustertree.Tree.
//
// Two row-minimum scans are provided: a plain scalar scan, and a
// blocked scan that walks the row in matrix.VectorWidth lanes keeping
// per-lane running minima and column numbers, the way a SIMD kernel
// would. Both scans parallelise across rows; every row writes only its
// own rowMinima slot, so the scan is order-insensitive and the result
// deterministic under any thread count.
//
// Complexity: O(n³) time in the worst case (n row scans per merge,
// n merges), O(n²) memory.
package upgma
