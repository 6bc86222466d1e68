package traversal

import (
	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/graph"
	"github.com/helixdb/helix-core/pkg/herrors"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/kv"
	"github.com/helixdb/helix-core/pkg/value"
	"github.com/helixdb/helix-core/pkg/vectorindex"
)

// FromNodeID starts a traversal at one or more node ids (spec §4.8
// `n_from_id`). An id that doesn't resolve surfaces NotFound lazily,
// when the stream is pulled.
func FromNodeID(ctx *Context, idList ...ids.ID) *Traversal {
	items := make([]func() (Item, error), len(idList))
	for i, id := range idList {
		id := id
		items[i] = func() (Item, error) {
			n, err := ctx.Graph.GetNode(ctx.R, id, ctx.Arena)
			if err != nil {
				return Item{}, err
			}
			return nodeItem(n), nil
		}
	}
	return newTraversal(ctx, lazyEach(items))
}

// FromNodeType starts a traversal over every node carrying label (spec
// §4.8 `n_from_type`). Nodes aren't keyed by label, so this performs a
// full scan of the nodes sub-database, filtering by decoded label.
func FromNodeType(ctx *Context, label string) *Traversal {
	return newTraversal(ctx, scanNodes(ctx, label))
}

func scanNodes(ctx *Context, label string) pull {
	var items []Item
	var scanErr error
	started := false
	return func() (Item, bool, error) {
		if !started {
			started = true
			scanErr = ctx.R.PrefixIter(kv.DBNodes, nil, func(k, v []byte) error {
				id, err := ids.FromBytes(k)
				if err != nil {
					return nil
				}
				n, err := codec.DecodeNode(id, v, ctx.Arena)
				if err != nil {
					return err
				}
				if label == "" || n.Label == label {
					items = append(items, nodeItem(n))
				}
				return nil
			})
		}
		if scanErr != nil {
			err := scanErr
			scanErr = nil
			return Item{}, false, err
		}
		if len(items) == 0 {
			return Item{}, false, nil
		}
		it := items[0]
		items = items[1:]
		return it, true, nil
	}
}

// FromNodeIndex starts a traversal over every node whose indexed field
// holds value v (spec §4.8 `n_from_index`).
func FromNodeIndex(ctx *Context, field string, v value.Value) *Traversal {
	return newTraversal(ctx, deferredPull(func() pull {
		matches, err := ctx.Graph.FindByIndex(ctx.R, field, graph.IndexKey(v))
		if err != nil {
			return failing(err)
		}
		resolved := make([]Item, 0, len(matches))
		for _, id := range matches {
			n, err := ctx.Graph.GetNode(ctx.R, id, ctx.Arena)
			if err != nil {
				if herrors.IsNotFound(err) {
					continue
				}
				return failing(err)
			}
			resolved = append(resolved, nodeItem(n))
		}
		return fromSlice(resolved)
	}))
}

// FromEdgeID starts a traversal at one or more edge ids (spec §4.8
// `e_from_id`).
func FromEdgeID(ctx *Context, idList ...ids.ID) *Traversal {
	items := make([]func() (Item, error), len(idList))
	for i, id := range idList {
		id := id
		items[i] = func() (Item, error) {
			e, err := ctx.Graph.GetEdge(ctx.R, id, ctx.Arena)
			if err != nil {
				return Item{}, err
			}
			return edgeItem(e), nil
		}
	}
	return newTraversal(ctx, lazyEach(items))
}

// FromEdgeType starts a traversal over every edge carrying label (spec
// §4.8 `e_from_type`), by full scan of the edges sub-database.
func FromEdgeType(ctx *Context, label string) *Traversal {
	var items []Item
	var scanErr error
	started := false
	return newTraversal(ctx, func() (Item, bool, error) {
		if !started {
			started = true
			scanErr = ctx.R.PrefixIter(kv.DBEdges, nil, func(k, v []byte) error {
				id, err := ids.FromBytes(k)
				if err != nil {
					return nil
				}
				e, err := codec.DecodeEdge(id, v, ctx.Arena)
				if err != nil {
					return err
				}
				if label == "" || e.Label == label {
					items = append(items, edgeItem(e))
				}
				return nil
			})
		}
		if scanErr != nil {
			err := scanErr
			scanErr = nil
			return Item{}, false, err
		}
		if len(items) == 0 {
			return Item{}, false, nil
		}
		it := items[0]
		items = items[1:]
		return it, true, nil
	})
}

// FromVectorID starts a traversal at one or more vector ids (spec §4.8
// `v_from_id`). Tombstoned vectors still resolve here: v_from_id is a
// direct lookup, not a search, so it isn't subject to search-time
// tombstone filtering.
func FromVectorID(ctx *Context, idList ...ids.ID) *Traversal {
	items := make([]func() (Item, error), len(idList))
	for i, id := range idList {
		id := id
		items[i] = func() (Item, error) {
			v, err := vectorindex.GetVector(ctx.R, id, ctx.Arena)
			if err != nil {
				return Item{}, err
			}
			return vectorItem(v), nil
		}
	}
	return newTraversal(ctx, lazyEach(items))
}

// FromVectorType starts a traversal over every non-tombstoned vector
// carrying label (spec §4.8 `v_from_type`), by full scan of the vector
// data sub-database.
func FromVectorType(ctx *Context, label string) *Traversal {
	var items []Item
	var scanErr error
	started := false
	return newTraversal(ctx, func() (Item, bool, error) {
		if !started {
			started = true
			scanErr = ctx.R.PrefixIter(kv.DBVectorsData, nil, func(k, v []byte) error {
				id, err := ids.FromBytes(k)
				if err != nil {
					return nil
				}
				vec, err := codec.DecodeVector(id, v, ctx.Arena)
				if err != nil {
					return err
				}
				if vec.Deleted {
					return nil
				}
				if label == "" || vec.Label == label {
					items = append(items, vectorItem(vec))
				}
				return nil
			})
		}
		if scanErr != nil {
			err := scanErr
			scanErr = nil
			return Item{}, false, err
		}
		if len(items) == 0 {
			return Item{}, false, nil
		}
		it := items[0]
		items = items[1:]
		return it, true, nil
	})
}

// SearchV starts a traversal from a k-nearest-neighbor vector search
// (spec §4.8 `search_v`). Results carry their distance in Item.Dist.
func SearchV(ctx *Context, query []float64, k int, label string, filter vectorindex.Filter) *Traversal {
	return newTraversal(ctx, deferredPull(func() pull {
		results, err := ctx.Vector.Search(ctx.R, query, k, label, filter)
		if err != nil {
			return failing(err)
		}
		items := make([]Item, len(results))
		for i, r := range results {
			items[i] = Item{Kind: KindVector, Vector: r.Vector, Dist: r.Distance}
		}
		return fromSlice(items)
	}))
}

// AddN starts a single-item traversal with a newly created node (spec
// §4.8 `add_n`). Requires ctx.W.
func AddN(ctx *Context, label string, props *value.Object) *Traversal {
	if ctx.W == nil {
		return newTraversal(ctx, failing(herrors.NewTraversal("add_n requires a write transaction")))
	}
	n, err := ctx.Graph.AddNode(ctx.W, label, props)
	if err != nil {
		return newTraversal(ctx, failing(err))
	}
	return newTraversal(ctx, single(nodeItem(n)))
}

// AddE starts a single-item traversal with a newly created edge (spec
// §4.8 `add_e`). edgeType marks whether from/to are both nodes or one
// side is a vector (spec §3). Requires ctx.W.
func AddE(ctx *Context, label string, edgeType codec.EdgeType, from, to ids.ID, props *value.Object, checkEndpoints bool) *Traversal {
	if ctx.W == nil {
		return newTraversal(ctx, failing(herrors.NewTraversal("add_e requires a write transaction")))
	}
	e, err := ctx.Graph.AddEdge(ctx.W, label, edgeType, from, to, props, checkEndpoints)
	if err != nil {
		return newTraversal(ctx, failing(err))
	}
	return newTraversal(ctx, single(edgeItem(e)))
}

// InsertV starts a single-item traversal with a newly inserted vector
// (spec §4.8 `insert_v`). Requires ctx.W.
func InsertV(ctx *Context, label string, data []float64) *Traversal {
	if ctx.W == nil {
		return newTraversal(ctx, failing(herrors.NewTraversal("insert_v requires a write transaction")))
	}
	v, err := ctx.Vector.Insert(ctx.W, label, data)
	if err != nil {
		return newTraversal(ctx, failing(err))
	}
	return newTraversal(ctx, single(vectorItem(v)))
}

// deferredPull delays calling build until the stream's first pull, so
// constructing a Traversal never itself does index/search work.
func deferredPull(build func() pull) pull {
	var p pull
	return func() (Item, bool, error) {
		if p == nil {
			p = build()
		}
		return p()
	}
}

// lazyEach runs each resolver on demand as the stream is pulled, rather
// than eagerly resolving every id up front.
func lazyEach(resolvers []func() (Item, error)) pull {
	i := 0
	return func() (Item, bool, error) {
		if i >= len(resolvers) {
			return Item{}, false, nil
		}
		it, err := resolvers[i]()
		i++
		if err != nil {
			return Item{}, false, err
		}
		return it, true, nil
	}
}
