package clustertree

import (
	"fmt"

	"github.com/caseysm/decenttree/matrix"
)

// Link connects a cluster to one of its children, carrying the branch
// length from the child up to the cluster.
type Link[T matrix.Float] struct {
	Child  int
	Length T
}

// Cluster is one record of the merge history: a leaf (no links, one
// exterior node) or an internal join of two or three children. Records
// are immutable once appended.
type Cluster[T matrix.Float] struct {
	Name                 string
	CountOfExteriorNodes int
	Links                []Link[T]
}

// IsLeaf reports whether the cluster is a single taxon.
func (c *Cluster[T]) IsLeaf() bool {
	return len(c.Links) == 0
}

// Tree is the append-only vector of clusters built up by an
// agglomerative engine. The zero value is ready to use.
type Tree[T matrix.Float] struct {
	clusters []Cluster[T]
}

// Size returns the number of clusters appended so far.
func (t *Tree[T]) Size() int {
	return len(t.clusters)
}

// Cluster returns cluster i. The pointer stays valid for the life of
// the tree; callers must not mutate the record through it.
func (t *Tree[T]) Cluster(i int) *Cluster[T] {
	return &t.clusters[i]
}

// Clear drops every cluster, keeping the allocation.
func (t *Tree[T]) Clear() {
	t.clusters = t.clusters[:0]
}

// AddLeaf appends a leaf cluster for one taxon and returns its index.
func (t *Tree[T]) AddLeaf(name string) int {
	t.clusters = append(t.clusters, Cluster[T]{
		Name:                 name,
		CountOfExteriorNodes: 1,
	})

	return len(t.clusters) - 1
}

// AddJoin appends a two-child merge. The exterior-node count of the
// new cluster is the sum of the children's. Returns the new cluster's
// index, or ErrBadChild when either child index is not yet appended.
func (t *Tree[T]) AddJoin(c1 int, l1 T, c2 int, l2 T) (int, error) {
	if err := t.checkChildren(c1, c2); err != nil {
		return 0, err
	}
	t.clusters = append(t.clusters, Cluster[T]{
		CountOfExteriorNodes: t.clusters[c1].CountOfExteriorNodes +
			t.clusters[c2].CountOfExteriorNodes,
		Links: []Link[T]{{c1, l1}, {c2, l2}},
	})

	return len(t.clusters) - 1, nil
}

// AddTrifurcation appends the final three-child cluster of an unrooted
// tree. Returns the new cluster's index.
func (t *Tree[T]) AddTrifurcation(c1 int, l1 T, c2 int, l2 T, c3 int, l3 T) (int, error) {
	if err := t.checkChildren(c1, c2, c3); err != nil {
		return 0, err
	}
	t.clusters = append(t.clusters, Cluster[T]{
		CountOfExteriorNodes: t.clusters[c1].CountOfExteriorNodes +
			t.clusters[c2].CountOfExteriorNodes +
			t.clusters[c3].CountOfExteriorNodes,
		Links: []Link[T]{{c1, l1}, {c2, l2}, {c3, l3}},
	})

	return len(t.clusters) - 1, nil
}

// checkChildren verifies that every child index references an already
// appended cluster.
func (t *Tree[T]) checkChildren(children ...int) error {
	for _, c := range children {
		if c < 0 || len(t.clusters) <= c {
			return fmt.Errorf("child %d of %d clusters: %w", c, len(t.clusters), ErrBadChild)
		}
	}

	return nil
}
