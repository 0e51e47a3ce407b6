// Package clustertree records the merge history of an agglomerative
// tree construction run and serialises the finished tree to Newick.
//
// A Tree is an append-only forest: every taxon enters as a leaf
// cluster, every merge appends a new cluster pointing at its two (or,
// for the final unrooted trifurcation, three) children together with
// the branch length from each child to the new cluster. Clusters are
// never mutated after insertion; the cluster appended last is the root
// of the finished tree.
//
// Newick output writes taxon names unquoted, branch lengths at the
// configured precision, and terminates the tree with ";" and a line
// break. Internal nodes carry no labels.
package clustertree
