package stitchup

import (
	"container/heap"

	"github.com/caseysm/decenttree/matrix"
)

// stitchHeap is a min-heap of length-sorted stitches, heapified in
// place over the slice the engine built.
type stitchHeap[T matrix.Float] []LengthSortedStitch[T]

func (h stitchHeap[T]) Len() int { return len(h) }

func (h stitchHeap[T]) Less(i, j int) bool { return h[i].less(&h[j]) }

func (h stitchHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *stitchHeap[T]) Push(x any) { *h = append(*h, x.(LengthSortedStitch[T])) }

func (h *stitchHeap[T]) Pop() any {
	old := *h
	last := len(old) - 1
	item := old[last]
	*h = old[:last]

	return item
}

// popMin extracts the smallest stitch.
func (h *stitchHeap[T]) popMin() LengthSortedStitch[T] {
	return heap.Pop(h).(LengthSortedStitch[T])
}

// taxonEdgeHeap is a min-heap of NJ-scored candidate joins, ordered by
// length alone.
type taxonEdgeHeap[T matrix.Float] []TaxonEdge[T]

func (h taxonEdgeHeap[T]) Len() int { return len(h) }

func (h taxonEdgeHeap[T]) Less(i, j int) bool { return h[i].Length < h[j].Length }

func (h taxonEdgeHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taxonEdgeHeap[T]) Push(x any) { *h = append(*h, x.(TaxonEdge[T])) }

func (h *taxonEdgeHeap[T]) Pop() any {
	old := *h
	last := len(old) - 1
	item := old[last]
	*h = old[:last]

	return item
}

// popMin extracts the smallest edge.
func (h *taxonEdgeHeap[T]) popMin() TaxonEdge[T] {
	return heap.Pop(h).(TaxonEdge[T])
}
