package traversal

import "github.com/helixdb/helix-core/pkg/value"

// Update merges delta into every upstream Node or Edge item's
// properties in place, rebalancing any affected secondary indices
// (spec §4.8 `update`). Requires ctx.W. Non-Node/Edge items pass
// through unchanged.
func (t *Traversal) Update(delta *value.Object) *Traversal {
	return t.step(func(up pull) pull {
		ctx := t.ctx
		return func() (Item, bool, error) {
			it, ok, err := up()
			if err != nil || !ok {
				return Item{}, ok, err
			}
			switch it.Kind {
			case KindNode:
				n, err := ctx.Graph.UpdateNode(ctx.W, it.Node.ID, delta)
				if err != nil {
					return Item{}, false, err
				}
				return nodeItem(n), true, nil
			case KindEdge:
				e, err := ctx.Graph.UpdateEdge(ctx.W, it.Edge.ID, delta)
				if err != nil {
					return Item{}, false, err
				}
				return edgeItem(e), true, nil
			default:
				return it, true, nil
			}
		}
	})
}

// Drop deletes every upstream Node, Edge, or Vector item from the
// store, cascading node deletion to incident edges (spec §4.8 `drop`).
// Requires ctx.W. Dropped items are removed from the output stream
// entirely rather than passed through.
func (t *Traversal) Drop() *Traversal {
	return t.step(func(up pull) pull {
		ctx := t.ctx
		return func() (Item, bool, error) {
			for {
				it, ok, err := up()
				if err != nil || !ok {
					return Item{}, ok, err
				}
				switch it.Kind {
				case KindNode:
					if err := ctx.Graph.DropNode(ctx.W, it.Node.ID); err != nil {
						return Item{}, false, err
					}
				case KindEdge:
					if err := ctx.Graph.DropEdge(ctx.W, it.Edge.ID); err != nil {
						return Item{}, false, err
					}
				case KindVector, KindVectorNoData:
					if err := ctx.Vector.Delete(ctx.W, it.Vector.ID); err != nil {
						return Item{}, false, err
					}
				default:
					continue
				}
				// the item was consumed, not forwarded; pull the next one
			}
		}
	})
}
