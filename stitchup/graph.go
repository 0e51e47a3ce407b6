package stitchup

import (
	"fmt"
	"sort"

	"github.com/caseysm/decenttree/matrix"
)

// Graph is the stitch-up graph under construction: the leaves, the
// mirrored directed edge set, the union-find over leaf sets, and the
// per-leaf caterpillar chain state.
//
// Node numbering: nodes [0, len(leafNames)) are the leaves; interior
// nodes take numbers from nodeCount upward as staples create them.
type Graph[T matrix.Float] struct {
	leafNames []string

	// stitches holds every directed edge; it is kept ordered by
	// (Source, Dest) lazily — appends clear the sorted flag, and the
	// phases that need order (contraction, Newick output) re-sort once.
	stitches []Stitch[T]
	sorted   bool

	taxonToSetNumber  []int // union-find set tag per leaf
	taxonToNodeNumber []int // current end of each leaf's chain
	taxonToDistance   []T   // leg length last attached to the chain
	setMembers        [][]int
	nodeCount         int
}

// Clear resets the graph to empty, keeping no allocations.
func (g *Graph[T]) Clear() {
	*g = Graph[T]{}
}

// LeafCount returns the number of leaves added so far.
func (g *Graph[T]) LeafCount() int {
	return len(g.leafNames)
}

// LeafName returns the name of leaf i.
func (g *Graph[T]) LeafName(i int) string {
	return g.leafNames[i]
}

// NodeCount returns the total number of nodes (leaves + staples).
func (g *Graph[T]) NodeCount() int {
	return g.nodeCount
}

// Stitches exposes the directed edge set in (Source, Dest) order.
// The slice is live storage; callers must not mutate it.
func (g *Graph[T]) Stitches() []Stitch[T] {
	g.sortStitches()

	return g.stitches
}

// AddLeaf appends a leaf: a singleton union-find set, a chain that is
// just the leaf itself, and accumulated distance zero.
func (g *Graph[T]) AddLeaf(name string) {
	g.leafNames = append(g.leafNames, name)
	g.taxonToSetNumber = append(g.taxonToSetNumber, g.nodeCount)
	g.taxonToNodeNumber = append(g.taxonToNodeNumber, g.nodeCount)
	g.taxonToDistance = append(g.taxonToDistance, 0)
	g.setMembers = append(g.setMembers, []int{g.nodeCount})
	g.nodeCount++
}

// AreLeavesInSameSet reports whether a path of stitches already
// connects the two leaves.
func (g *Graph[T]) AreLeavesInSameSet(leafA, leafB int) bool {
	return g.taxonToSetNumber[leafA] == g.taxonToSetNumber[leafB]
}

// Staple joins leafA and leafB at distance length: two fresh interior
// nodes go on the ends of the two caterpillar chains, linked to the
// old ends by legs and to each other by the arch. Returns the
// surviving union-find set tag.
func (g *Graph[T]) Staple(leafA, leafB int, length T) int {
	interiorA := g.nodeCount
	legLengthA := (length - g.taxonToDistance[leafA]) * StapleLeg
	g.stitchLink(g.taxonToNodeNumber[leafA], interiorA, legLengthA)
	g.taxonToNodeNumber[leafA] = interiorA
	g.taxonToDistance[leafA] = legLengthA
	g.nodeCount++

	interiorB := g.nodeCount
	legLengthB := (length - g.taxonToDistance[leafB]) * StapleLeg
	g.stitchLink(g.taxonToNodeNumber[leafB], interiorB, legLengthB)
	g.taxonToNodeNumber[leafB] = interiorB
	g.taxonToDistance[leafB] = legLengthB
	g.nodeCount++

	g.stitchLink(interiorA, interiorB, length*StapleArch)

	return g.mergeSets(g.taxonToSetNumber[leafA], g.taxonToSetNumber[leafB])
}

// stitchLink records the undirected edge nodeA—nodeB as both directed
// stitches.
func (g *Graph[T]) stitchLink(nodeA, nodeB int, length T) {
	g.stitches = append(g.stitches,
		Stitch[T]{Source: nodeA, Dest: nodeB, Length: length},
		Stitch[T]{Source: nodeB, Dest: nodeA, Length: length})
	g.sorted = false
}

// mergeSets retags the members of the smaller set with the larger
// set's tag and appends them to its member list; the larger set's tag
// survives. Weighted union keeps total retag work at O(n·log n).
func (g *Graph[T]) mergeSets(setA, setB int) int {
	if setA == setB {
		return setA
	}
	if len(g.setMembers[setA]) < len(g.setMembers[setB]) {
		setA, setB = setB, setA
	}
	for _, b := range g.setMembers[setB] {
		g.taxonToSetNumber[b] = setA
		g.setMembers[setA] = append(g.setMembers[setA], b)
	}
	g.setMembers[setB] = nil

	return setA
}

// sortStitches restores (Source, Dest) order after appends or a
// contraction pass. Only two full sorts are ever needed per tree.
func (g *Graph[T]) sortStitches() {
	if g.sorted {
		return
	}
	sort.Slice(g.stitches, func(i, j int) bool {
		if g.stitches[i].Source != g.stitches[j].Source {
			return g.stitches[i].Source < g.stitches[j].Source
		}

		return g.stitches[i].Dest < g.stitches[j].Dest
	})
	g.sorted = true
}

// RemoveThroughThroughNodes splices out every interior node of degree
// 2, linking its two former neighbours directly with an edge whose
// length is the sum of the two removed edges.
//
// One forward pass over the (Source, Dest)-ordered edge set finds each
// node's degree (a run of identical sources) and, for degree-2 nodes
// whose lowest-numbered neighbour is below them, the replacement node
// and the length owed to it. A second pass rewrites every edge (u,v,ℓ)
// to (rep[u], rep[v], ℓ+owed[u]+owed[v]), discarding self-loops.
func (g *Graph[T]) RemoveThroughThroughNodes() error {
	g.sortStitches()

	replacements := make([]int, g.nodeCount)
	replacementLengths := make([]T, g.nodeCount)
	for i := range replacements {
		replacements[i] = i
	}

	node := -1  // source node of the previous edge
	degree := 0 // its degree so far
	for _, s := range g.stitches {
		if s.Source != node {
			if node != -1 && degree != 2 {
				replacements[node] = node
				replacementLengths[node] = 0
			}
			if s.Source < node {
				return fmt.Errorf("edge order regressed at node %d: %w",
					s.Source, ErrInternalInvariant)
			}
			node = s.Source
			degree = 1
			if s.Dest < node {
				replacements[node] = s.Dest
				replacementLengths[node] = s.Length
			}
		} else {
			degree++
		}
	}
	if degree != 2 && node != -1 {
		replacements[node] = node
		replacementLengths[node] = 0
	}

	// Remove them, adjusting the lengths of the edges that take over.
	oldStitches := g.stitches
	g.stitches = make([]Stitch[T], 0, len(oldStitches))
	for _, s := range oldStitches {
		source := replacements[s.Source]
		dest := replacements[s.Dest]
		if source != dest {
			g.stitches = append(g.stitches, Stitch[T]{
				Source: source,
				Dest:   dest,
				Length: s.Length + replacementLengths[s.Source] + replacementLengths[s.Dest],
			})
		}
	}
	g.sorted = false
	g.sortStitches()

	return nil
}
