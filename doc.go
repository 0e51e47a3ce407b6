// Package decenttree builds unrooted phylogenetic trees, in Newick
// notation, from precomputed pairwise distance matrices.
//
// 🌿 What is decenttree?
//
//	A fast, deterministic library of distance-matrix tree construction
//	algorithms sharing one matrix substrate:
//		• FlatMatrix: contiguous row-major distances + taxon names,
//		  with PHYLIP-style square/upper/lower file I/O (plain or gzip)
//		• SquareMatrix: the shrinking working matrix used by the
//		  agglomerative engines (O(1) row/column removal by swap)
//		• UPGMA: average-linkage clustering with a blocked,
//		  parallelisable row-minimum scan
//		• STITCH: the "Family Stitch-up" heap + union-find graph
//		  builder with degree-2 contraction
//		• NTCJ: cluster joining by nearest NJ-corrected taxon distance
//		• NJ: the plain neighbour-joining core NTCJ builds upon
//
// ✨ Why choose decenttree?
//
//   - Deterministic – identical inputs give byte-identical Newick,
//     and under any thread count the trees parse identically
//   - Matrix-first – no alignment handling, no likelihood; feed it a
//     symmetric N×N matrix, get a tree back
//   - Cheap inner loops – swap-shrinking matrices keep every row live
//     and every scan branch-predictable
//
// Everything is organized under focused subpackages:
//
//	matrix/      — FlatMatrix, SquareMatrix, PHYLIP read/write
//	clustertree/ — append-only merge records + Newick serialisation
//	upgma/       — the UPGMA engine and its row-minimum scans
//	stitchup/    — Stitch-up graph and engine, NJ core, NTCJ engine
//	starttree/   — the name→builder registry and validation surface
//	cmd/         — the decenttree command-line driver
//
// Quick ASCII example:
//
//	    A        C
//	     \      /
//	      *----*
//	     /      \
//	    B        D
//
//	an unrooted four-taxon tree: ((A,B),(C,D)) up to rotation.
//
// Start with starttree.ConstructTreeString for the one-call surface,
// or use the engine packages directly for streaming output.
package decenttree
