// Package stitchup implements the "Family Stitch-up" distance-matrix
// tree construction algorithm, plus two heap-driven relatives: a plain
// neighbour-joining engine (NJMatrix) and the Nearest Taxon Cluster
// Joining variant (NTCJMatrix) built on top of it.
//
// Stitch-up works by stitching a graph together and then removing the
// excess stitches:
//
//  1. Each leaf owns a "caterpillar chain" of nodes (initially just
//     the leaf itself); interior nodes are only ever added at chain
//     ends.
//  2. The closest pair of not-yet-connected leaves A, B is joined by a
//     "staple": fresh interior nodes Ai and Bi are appended to the two
//     chains and linked to each other by an arch edge of length
//     d(A,B)·StapleArch. The leg that connects Ai to A's chain has
//     length StapleLeg·(d(A,B)−ℓA), where ℓA is the length of the leg
//     last attached to A's chain (zero while the chain is the bare
//     leaf).
//  3. Step 2 repeats until every leaf is connected. Short edges come
//     from a min-heap; connectedness is tracked with a union-find over
//     leaf sets, merged smaller-into-larger.
//  4. Interior nodes of degree 2 are spliced out, their two incident
//     edges replaced by one edge carrying the summed length.
//
// Where NJ guesses the geometry first and lets the guesses decide the
// structure, stitch-up places an each-way bet: it inserts two interior
// nodes per join, lets the leaf distances alone decide the topology,
// and only afterwards lets the topology decide the geometry.
//
// Equal-length edges are ordered by a deterministic linear
// congruential tiebreak seeded per engine, so a run's output is
// bit-identical given the same input.
//
// Running time: O(n²·log n) worst case, dominated by heap extraction;
// in practice a little worse than O(n²), dominated by heap
// construction.
package stitchup
