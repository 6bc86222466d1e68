package rerank

import (
	"strings"

	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/value"
)

// Group is one output of AggregateBy/GroupBy: the tuple of property
// values that defines the group, its representative (the first member
// seen), and every member's id.
type Group struct {
	Key            []value.Value
	Representative ids.ID
	Members        []ids.ID
	Count          int
}

// PropsOf resolves an item's properties for grouping purposes.
type PropsOf func(id ids.ID) (*value.Object, error)

// AggregateBy groups ids by the tuple of named property values and
// returns one Group per distinct tuple, in first-seen order, with
// Members holding only the representative when withCount is false
// (spec §4.10: "yields one output item per group with the group
// representative and, if count=true, its cardinality").
func AggregateBy(items []ids.ID, properties []string, props PropsOf, withCount bool) ([]Group, error) {
	groups, order, err := groupByTuple(items, properties, props)
	if err != nil {
		return nil, err
	}
	out := make([]Group, 0, len(order))
	for _, k := range order {
		g := groups[k]
		if !withCount {
			g.Members = g.Members[:1]
		}
		g.Count = len(g.Members)
		out = append(out, *g)
	}
	return out, nil
}

// GroupBy groups ids by the tuple of named property values and returns
// one Group per distinct tuple with every member retained (spec §4.10:
// "group_by returns nested collections per group").
func GroupBy(items []ids.ID, properties []string, props PropsOf) ([]Group, error) {
	groups, order, err := groupByTuple(items, properties, props)
	if err != nil {
		return nil, err
	}
	out := make([]Group, 0, len(order))
	for _, k := range order {
		g := groups[k]
		g.Count = len(g.Members)
		out = append(out, *g)
	}
	return out, nil
}

func groupByTuple(items []ids.ID, properties []string, props PropsOf) (map[string]*Group, []string, error) {
	groups := make(map[string]*Group)
	var order []string
	for _, id := range items {
		p, err := props(id)
		if err != nil {
			return nil, nil, err
		}
		key := make([]value.Value, len(properties))
		var keyParts []string
		for i, name := range properties {
			var v value.Value
			if p != nil {
				v, _ = p.Get(name)
			}
			key[i] = v
			keyParts = append(keyParts, v.String())
		}
		keyStr := strings.Join(keyParts, "\x1f")

		g, ok := groups[keyStr]
		if !ok {
			g = &Group{Key: key, Representative: id}
			groups[keyStr] = g
			order = append(order, keyStr)
		}
		g.Members = append(g.Members, id)
	}
	return groups, order, nil
}
