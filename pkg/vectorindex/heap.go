package vectorindex

import (
	"container/heap"

	"github.com/helixdb/helix-core/pkg/ids"
)

// scored pairs a vector id with its distance to the current query.
type scored struct {
	id   ids.ID
	dist float64
}

// candidateHeap is a min-heap by distance: Pop yields the closest
// unexplored candidate first, the shape searchLayer's frontier needs.
type candidateHeap []scored

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(scored)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// resultHeap is a max-heap by distance: its root is the worst-scoring
// member of the current top-ef set, so it can be evicted in O(log ef)
// when a closer candidate is found.
type resultHeap []scored

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(scored)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func newCandidateHeap() *candidateHeap {
	h := &candidateHeap{}
	heap.Init(h)
	return h
}

func newResultHeap() *resultHeap {
	h := &resultHeap{}
	heap.Init(h)
	return h
}

// sortedAscending drains a set of scored entries in ascending distance
// order without disturbing the caller's copy.
func sortedAscending(items []scored) []scored {
	out := make([]scored, len(items))
	copy(out, items)
	h := candidateHeap(out)
	heap.Init(&h)
	sorted := make([]scored, 0, len(out))
	for h.Len() > 0 {
		sorted = append(sorted, heap.Pop(&h).(scored))
	}
	return sorted
}
