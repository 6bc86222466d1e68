package traversal

import (
	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/graph"
	"github.com/helixdb/helix-core/pkg/herrors"
	"github.com/helixdb/helix-core/pkg/pathfind"
	"github.com/helixdb/helix-core/pkg/vectorindex"
)

// Out walks outgoing edges under label from every upstream Node or Vector
// item, yielding the other endpoint (spec §4.8 `out(label, edge_type)`).
// Only edges whose stored type matches edgeType are walked; edgeType also
// selects how the other endpoint is resolved (a Node-typed edge always
// lands on a node, a Vec-typed edge on the opposite kind from the
// origin). A non-Node, non-Vector upstream item yields Empty, per spec
// §4.8's boundary-validation rule. An empty label walks edges under every
// label, here and in In_, OutE and InE.
func (t *Traversal) Out(label string, edgeType codec.EdgeType) *Traversal {
	return t.step(func(up pull) pull { return t.walkAdjacency(up, label, edgeType, true, false) })
}

// In_ walks incoming edges under label from every upstream Node or Vector
// item, yielding the origin endpoint (spec §4.8 `in_(label, edge_type)`).
func (t *Traversal) In_(label string, edgeType codec.EdgeType) *Traversal {
	return t.step(func(up pull) pull { return t.walkAdjacency(up, label, edgeType, false, false) })
}

// OutE walks outgoing edges under label from every upstream Node item,
// yielding the Edge items themselves (spec §4.8 `out_e`). Unlike out,
// out_e has no edge_type parameter: it returns the edge record itself,
// which already carries its own type.
func (t *Traversal) OutE(label string) *Traversal {
	return t.step(func(up pull) pull { return t.walkAdjacency(up, label, codec.EdgeTypeNode, true, true) })
}

// InE walks incoming edges under label from every upstream Node item,
// yielding the Edge items themselves (spec §4.8 `in_e`).
func (t *Traversal) InE(label string) *Traversal {
	return t.step(func(up pull) pull { return t.walkAdjacency(up, label, codec.EdgeTypeNode, false, true) })
}

func (t *Traversal) walkAdjacency(up pull, label string, edgeType codec.EdgeType, outbound, edgesOnly bool) pull {
	ctx := t.ctx
	var buf []Item
	return func() (Item, bool, error) {
		for len(buf) == 0 {
			it, ok, err := up()
			if err != nil || !ok {
				return Item{}, ok, err
			}
			originID, ok2 := it.id()
			if !ok2 || (it.Kind != KindNode && it.Kind != KindVector) {
				buf = append(buf, emptyItem())
				continue
			}
			var entries []graph.AdjacencyEntry
			var aerr error
			switch {
			case outbound && label == "":
				entries, aerr = ctx.Graph.AllOutAdjacency(ctx.R, originID)
			case outbound:
				entries, aerr = ctx.Graph.OutAdjacency(ctx.R, originID, label)
			case label == "":
				entries, aerr = ctx.Graph.AllInAdjacency(ctx.R, originID)
			default:
				entries, aerr = ctx.Graph.InAdjacency(ctx.R, originID, label)
			}
			if aerr != nil {
				return Item{}, false, aerr
			}
			for _, e := range entries {
				if edgesOnly {
					edge, err := ctx.Graph.GetEdge(ctx.R, e.Edge, ctx.Arena)
					if err != nil {
						return Item{}, false, err
					}
					buf = append(buf, edgeItem(edge))
					continue
				}
				edge, err := ctx.Graph.GetEdge(ctx.R, e.Edge, ctx.Arena)
				if err != nil {
					return Item{}, false, err
				}
				if edge.Type != edgeType {
					continue
				}
				switch edge.Type {
				case codec.EdgeTypeVec:
					// The origin is one side of a node<->vector edge; the
					// other side is always the opposite kind.
					if it.Kind == KindVector {
						n, err := ctx.Graph.GetNode(ctx.R, e.Other, ctx.Arena)
						if err != nil {
							return Item{}, false, err
						}
						buf = append(buf, nodeItem(n))
					} else {
						v, err := vectorindex.GetVector(ctx.R, e.Other, ctx.Arena)
						if err != nil {
							return Item{}, false, err
						}
						buf = append(buf, vectorItem(v))
					}
				default:
					n, err := ctx.Graph.GetNode(ctx.R, e.Other, ctx.Arena)
					if err != nil {
						return Item{}, false, err
					}
					buf = append(buf, nodeItem(n))
				}
			}
		}
		it := buf[0]
		buf = buf[1:]
		return it, true, nil
	}
}

// FromN resolves each upstream Edge item to its from-node (spec §4.8
// `from_n`). A non-Edge upstream item, or an edge whose from-endpoint is
// not a node (a Vec-typed edge with a vector from-side), yields Empty.
func (t *Traversal) FromN() *Traversal {
	return t.step(func(up pull) pull { return t.resolveEndpoint(up, true, false) })
}

// ToN resolves each upstream Edge item to its to-node (spec §4.8
// `to_n`).
func (t *Traversal) ToN() *Traversal {
	return t.step(func(up pull) pull { return t.resolveEndpoint(up, false, false) })
}

// FromV resolves each upstream Edge item to its from-side vector (spec
// §4.8 `from_v`). Only meaningful for a Vec-typed edge whose from-side
// is the vector; anything else yields Empty.
func (t *Traversal) FromV() *Traversal {
	return t.step(func(up pull) pull { return t.resolveEndpoint(up, true, true) })
}

// ToV resolves each upstream Edge item to its to-side vector (spec §4.8
// `to_v`).
func (t *Traversal) ToV() *Traversal {
	return t.step(func(up pull) pull { return t.resolveEndpoint(up, false, true) })
}

// resolveEndpoint implements from_n/to_n/from_v/to_v. wantVector selects
// which kind the endpoint is expected to resolve as. A Vec-typed edge
// has one node side and one vector side, but which of from/to carries
// which is not fixed (spec §3 allows either direction), so resolution is
// tried directly and a NotFound (wrong side, or a Node-typed edge where
// a vector was requested) falls back to Empty rather than propagating,
// matching spec §4.8's boundary-validation rule.
func (t *Traversal) resolveEndpoint(up pull, from, wantVector bool) pull {
	ctx := t.ctx
	return func() (Item, bool, error) {
		for {
			it, ok, err := up()
			if err != nil || !ok {
				return Item{}, ok, err
			}
			if it.Kind != KindEdge || it.Edge == nil {
				return emptyItem(), true, nil
			}
			target := it.Edge.To
			if from {
				target = it.Edge.From
			}
			if wantVector {
				if it.Edge.Type != codec.EdgeTypeVec {
					return emptyItem(), true, nil
				}
				v, err := vectorindex.GetVector(ctx.R, target, ctx.Arena)
				if err != nil {
					if herrors.IsNotFound(err) {
						return emptyItem(), true, nil
					}
					return Item{}, false, err
				}
				return vectorItem(v), true, nil
			}
			n, err := ctx.Graph.GetNode(ctx.R, target, ctx.Arena)
			if err != nil {
				if herrors.IsNotFound(err) {
					return emptyItem(), true, nil
				}
				return Item{}, false, err
			}
			return nodeItem(n), true, nil
		}
	}
}

// Algorithm selects the shortest-path algorithm for ShortestPath.
type Algorithm int

const (
	AlgorithmBFS Algorithm = iota
	AlgorithmDijkstra
)

// ShortestPath starts a single-item traversal holding the shortest path
// from -> to under label (spec §4.8 `shortest_path`, §4.9).
func ShortestPath(ctx *Context, from, to Item, label string, algo Algorithm) *Traversal {
	fromID, ok := from.id()
	if !ok || from.Kind != KindNode {
		return newTraversal(ctx, failing(herrors.NewTraversal("shortest_path: from is not a node")))
	}
	toID, ok := to.id()
	if !ok || to.Kind != KindNode {
		return newTraversal(ctx, failing(herrors.NewTraversal("shortest_path: to is not a node")))
	}
	return newTraversal(ctx, deferredPull(func() pull {
		var p pathfind.Path
		var err error
		switch algo {
		case AlgorithmDijkstra:
			p, err = pathfind.Dijkstra(ctx.R, ctx.Graph, fromID, toID, label)
		default:
			p, err = pathfind.BFS(ctx.R, ctx.Graph, fromID, toID, label)
		}
		if err != nil {
			return failing(err)
		}
		return single(pathItem(p))
	}))
}
