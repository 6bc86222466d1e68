// Package pathfind implements BFS and Dijkstra shortest path over
// labeled edges (spec §4.9). Both return the same shape: an interleaved
// list of node and edge ids describing the path from -> to.
package pathfind

import (
	"container/heap"

	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/graph"
	"github.com/helixdb/helix-core/pkg/herrors"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/value"
)

// Path is the shared output shape for BFS and Dijkstra: nodes and edges
// interleaved from -> to (len(Nodes) == len(Edges)+1).
type Path struct {
	Nodes []ids.ID
	Edges []ids.ID
}

type parentLink struct {
	node ids.ID
	edge ids.ID
}

// reconstruct walks a parent map from `to` back to `from`, producing the
// shared (nodes, edges) path shape both algorithms use (spec §9's
// original_source/ convention for shortest-path reconstruction).
func reconstruct(parents map[ids.ID]parentLink, from, to ids.ID) Path {
	var nodes []ids.ID
	var edges []ids.ID
	cur := to
	nodes = append(nodes, cur)
	for cur != from {
		link, ok := parents[cur]
		if !ok {
			break
		}
		edges = append(edges, link.edge)
		cur = link.node
		nodes = append(nodes, cur)
	}
	// built to -> from; reverse in place
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return Path{Nodes: nodes, Edges: edges}
}

// BFS finds the first path (by adjacency iteration order, unweighted) from
// `from` to `to` following edges under label, when label is non-empty.
// BFS from a node to itself returns a length-1 path (spec §8).
func BFS(r graph.Reader, store *graph.Store, from, to ids.ID, label string) (Path, error) {
	if from == to {
		return Path{Nodes: []ids.ID{from}}, nil
	}
	visited := map[ids.ID]bool{from: true}
	parents := map[ids.ID]parentLink{}
	queue := []ids.ID{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		var adj []graph.AdjacencyEntry
		var err error
		if label != "" {
			adj, err = store.OutAdjacency(r, cur, label)
		} else {
			adj, err = store.AllOutAdjacency(r, cur)
		}
		if err != nil {
			return Path{}, err
		}
		for _, e := range adj {
			if visited[e.Other] {
				continue
			}
			visited[e.Other] = true
			parents[e.Other] = parentLink{node: cur, edge: e.Edge}
			if e.Other == to {
				return reconstruct(parents, from, to), nil
			}
			queue = append(queue, e.Other)
		}
	}
	return Path{}, herrors.ErrShortestPathNotFound
}

// --- Dijkstra ---

type dijkstraItem struct {
	node ids.ID
	dist float64
}

type dijkstraHeap struct {
	items []dijkstraItem
	less  func(a, b dijkstraItem) bool
}

func (h dijkstraHeap) Len() int            { return len(h.items) }
func (h dijkstraHeap) Less(i, j int) bool  { return h.less(h.items[i], h.items[j]) }
func (h dijkstraHeap) Swap(i, j int)       { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *dijkstraHeap) Push(x interface{}) { h.items = append(h.items, x.(dijkstraItem)) }
func (h *dijkstraHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	it := old[n-1]
	h.items = old[:n-1]
	return it
}

// Dijkstra finds the minimum-cumulative-weight path from `from` to `to`,
// using the numeric edge property "weight" (defaulting to 1.0 when
// absent), breaking ties by node id for determinism. Negative weights
// are rejected (spec §4.9, §8).
func Dijkstra(r graph.Reader, store *graph.Store, from, to ids.ID, label string) (Path, error) {
	if from == to {
		return Path{Nodes: []ids.ID{from}}, nil
	}
	dist := map[ids.ID]float64{from: 0}
	parents := map[ids.ID]parentLink{}
	visited := map[ids.ID]bool{}

	h := &dijkstraHeap{less: func(a, b dijkstraItem) bool {
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		return a.node.Less(b.node)
	}}
	heap.Init(h)
	heap.Push(h, dijkstraItem{node: from, dist: 0})

	for h.Len() > 0 {
		cur := heap.Pop(h).(dijkstraItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true
		if cur.node == to {
			return reconstruct(parents, from, to), nil
		}

		var adj []graph.AdjacencyEntry
		var err error
		if label != "" {
			adj, err = store.OutAdjacency(r, cur.node, label)
		} else {
			adj, err = store.AllOutAdjacency(r, cur.node)
		}
		if err != nil {
			return Path{}, err
		}
		for _, e := range adj {
			w, err := edgeWeight(r, store, e.Edge)
			if err != nil {
				return Path{}, err
			}
			if w < 0 {
				return Path{}, herrors.NewTraversal("dijkstra: negative edge weight")
			}
			nd := cur.dist + w
			if existing, ok := dist[e.Other]; !ok || nd < existing {
				dist[e.Other] = nd
				parents[e.Other] = parentLink{node: cur.node, edge: e.Edge}
				heap.Push(h, dijkstraItem{node: e.Other, dist: nd})
			}
		}
	}
	return Path{}, herrors.ErrShortestPathNotFound
}

func edgeWeight(r graph.Reader, store *graph.Store, edgeID ids.ID) (float64, error) {
	e, err := store.GetEdge(r, edgeID, nil)
	if err != nil {
		return 0, err
	}
	return weightOf(e), nil
}

func weightOf(e *codec.Edge) float64 {
	if e.Properties == nil {
		return 1.0
	}
	v, ok := e.Properties.Get("weight")
	if !ok {
		return 1.0
	}
	switch v.Kind {
	case value.KindF32:
		return float64(v.F32)
	case value.KindF64:
		return v.F64
	case value.KindI8, value.KindI16, value.KindI32, value.KindI64:
		return float64(v.I64)
	case value.KindU8, value.KindU16, value.KindU32, value.KindU64:
		return float64(v.U64)
	default:
		return 1.0
	}
}
