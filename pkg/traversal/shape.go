package traversal

import (
	"sort"

	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/rerank"
	"github.com/helixdb/helix-core/pkg/value"
)

// Collect drains the traversal to a slice. Collect (and Count) are the
// pipeline's terminators (spec §4.8).
func (t *Traversal) Collect() ([]Item, error) {
	if t.err != nil {
		return nil, t.err
	}
	return drain(t.cur)
}

// Count drains the traversal and returns how many items it produced
// (spec §4.8 `count`, a terminator).
func (t *Traversal) Count() (uint64, error) {
	items, err := t.Collect()
	if err != nil {
		return 0, err
	}
	return uint64(len(items)), nil
}

// Range keeps items with index in [start, end) (spec §4.8 `range`).
func (t *Traversal) Range(start, end int) *Traversal {
	return t.step(func(up pull) pull {
		i := 0
		return func() (Item, bool, error) {
			for {
				if end >= 0 && i >= end {
					return Item{}, false, nil
				}
				it, ok, err := up()
				if err != nil || !ok {
					return Item{}, ok, err
				}
				idx := i
				i++
				if idx < start {
					continue
				}
				return it, true, nil
			}
		}
	})
}

// OrderBy materializes the stream and sorts it by the named property,
// ascending or descending (spec §4.8 `order_by`: "materializes the
// stream"). Items lacking the property sort after every item that has
// it, in upstream order among themselves.
func (t *Traversal) OrderBy(property string, descending bool) *Traversal {
	return t.step(func(up pull) pull {
		return materialize(up, func(items []Item) []Item {
			sort.SliceStable(items, func(i, j int) bool {
				vi, oki := propOrEmpty(items[i].properties(), property)
				vj, okj := propOrEmpty(items[j].properties(), property)
				if !oki && !okj {
					return false
				}
				if oki != okj {
					return oki
				}
				cmp := value.Compare(vi, vj)
				if descending {
					return cmp == value.Greater
				}
				return cmp == value.Less
			})
			return items
		})
	})
}

func propOrEmpty(props *value.Object, name string) (value.Value, bool) {
	if props == nil {
		return value.Empty(), false
	}
	return props.Get(name)
}

// Dedup drops items whose id has already been seen, by item id equality
// (spec §4.8 `dedup`). Items without an id (Empty, Count, Path, bare
// Values) are never deduplicated against each other.
func (t *Traversal) Dedup() *Traversal {
	return t.step(func(up pull) pull {
		seen := make(map[ids.ID]bool)
		return func() (Item, bool, error) {
			for {
				it, ok, err := up()
				if err != nil || !ok {
					return Item{}, ok, err
				}
				id, has := it.id()
				if !has {
					return it, true, nil
				}
				if seen[id] {
					continue
				}
				seen[id] = true
				return it, true, nil
			}
		}
	})
}

// MapFunc transforms one item into another for Map.
type MapFunc func(Item) (Item, error)

// Map applies fn to every upstream item (spec §4.8 `map(fn)`).
func (t *Traversal) Map(fn MapFunc) *Traversal {
	return t.step(func(up pull) pull {
		return func() (Item, bool, error) {
			it, ok, err := up()
			if err != nil || !ok {
				return Item{}, ok, err
			}
			out, err := fn(it)
			if err != nil {
				return Item{}, false, err
			}
			return out, true, nil
		}
	})
}

func materialize(up pull, transform func([]Item) []Item) pull {
	var items []Item
	var err error
	started := false
	i := 0
	return func() (Item, bool, error) {
		if !started {
			started = true
			items, err = drain(up)
			if err == nil {
				items = transform(items)
			}
		}
		if err != nil {
			e := err
			err = nil
			return Item{}, false, e
		}
		if i >= len(items) {
			return Item{}, false, nil
		}
		it := items[i]
		i++
		return it, true, nil
	}
}

// AggregateBy drains the stream and groups it by the tuple of named
// property values, one rerank.Group per distinct tuple holding the
// group's representative id and, if withCount is true, every member id
// (spec §4.10: "yields one output item per group with the group
// representative and, if count=true, its cardinality"). A terminator,
// like Count and Collect.
func (t *Traversal) AggregateBy(properties []string, withCount bool) ([]rerank.Group, error) {
	idList, byID, err := t.indexByID()
	if err != nil {
		return nil, err
	}
	return rerank.AggregateBy(idList, properties, propsLookup(byID), withCount)
}

// GroupBy drains the stream and groups it by the tuple of named
// property values, one rerank.Group per distinct tuple with every
// member retained (spec §4.10: "group_by returns nested collections
// per group"). A terminator, like Count and Collect.
func (t *Traversal) GroupBy(properties []string) ([]rerank.Group, error) {
	idList, byID, err := t.indexByID()
	if err != nil {
		return nil, err
	}
	return rerank.GroupBy(idList, properties, propsLookup(byID))
}

func (t *Traversal) indexByID() ([]ids.ID, map[ids.ID]*value.Object, error) {
	items, err := t.Collect()
	if err != nil {
		return nil, nil, err
	}
	idList := make([]ids.ID, 0, len(items))
	byID := make(map[ids.ID]*value.Object, len(items))
	for _, it := range items {
		id, ok := it.id()
		if !ok {
			continue
		}
		idList = append(idList, id)
		byID[id] = it.properties()
	}
	return idList, byID, nil
}

func propsLookup(byID map[ids.ID]*value.Object) rerank.PropsOf {
	return func(id ids.ID) (*value.Object, error) { return byID[id], nil }
}

// RerankMMR reranks upstream Vector items by maximal marginal relevance
// against query, selecting up to limit results in order (spec §4.8
// `rerank_mmr`). Non-Vector upstream items are dropped.
func (t *Traversal) RerankMMR(query []float64, lambda float64, limit int) *Traversal {
	return t.step(func(up pull) pull {
		return materialize(up, func(items []Item) []Item {
			candidates := make([]rerank.Candidate, 0, len(items))
			byID := make(map[ids.ID]Item, len(items))
			for _, it := range items {
				if it.Kind != KindVector || it.Vector == nil {
					continue
				}
				candidates = append(candidates, rerank.Candidate{ID: it.Vector.ID, Vector: it.Vector.Data})
				byID[it.Vector.ID] = it
			}
			selected := rerank.MMR(query, candidates, lambda, limit)
			out := make([]Item, 0, len(selected))
			for _, id := range selected {
				out = append(out, byID[id])
			}
			return out
		})
	})
}

// RerankRRF fuses N upstream-ordered rankings by reciprocal rank fusion
// (spec §4.8 `rerank_rrf`). Each ranking is a separately collected
// Traversal sharing this one's Context.
func RerankRRF(ctx *Context, rankings []*Traversal, k int) *Traversal {
	return newTraversal(ctx, deferredPull(func() pull {
		idRankings := make([][]ids.ID, len(rankings))
		byID := make(map[ids.ID]Item)
		for i, r := range rankings {
			items, err := r.Collect()
			if err != nil {
				return failing(err)
			}
			idList := make([]ids.ID, 0, len(items))
			for _, it := range items {
				id, ok := it.id()
				if !ok {
					continue
				}
				idList = append(idList, id)
				byID[id] = it
			}
			idRankings[i] = idList
		}
		fused := rerank.RRF(idRankings, k)
		out := make([]Item, 0, len(fused))
		for _, f := range fused {
			if it, ok := byID[f.ID]; ok {
				out = append(out, it)
			}
		}
		return fromSlice(out)
	}))
}
