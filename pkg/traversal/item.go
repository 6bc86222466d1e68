// Package traversal implements the lazy traversal pipeline (spec §4.8):
// source steps, navigation, property/predicate steps, mutation, and
// aggregation/shape steps over a closed TraversalValue union.
package traversal

import (
	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/pathfind"
	"github.com/helixdb/helix-core/pkg/value"
)

// Kind discriminates Item, mirroring the engine's closed TraversalValue
// union (Empty/Count/Node/Edge/Vector/Path/VectorNodeWithoutVectorData).
type Kind uint8

const (
	KindEmpty Kind = iota
	KindCount
	KindNode
	KindEdge
	KindVector
	KindPath
	// KindVectorNoData marks a vector item projected without its
	// embedding data. No step in this package produces it; id() and
	// Drop treat it like KindVector.
	KindVectorNoData
	// KindValue carries a bare property Value through the pipeline, the
	// output shape of check_property so its result can keep flowing
	// through downstream steps (order_by, dedup, and so on).
	KindValue
)

// Item is one element flowing through a traversal. Only the field
// matching Kind is meaningful.
type Item struct {
	Kind   Kind
	Node   *codec.Node
	Edge   *codec.Edge
	Vector *codec.Vector
	Count  uint64
	Path   *pathfind.Path
	Value  value.Value
	// Dist carries a vector search result's distance alongside the
	// vector item, when present (search_v results).
	Dist float64
}

func nodeItem(n *codec.Node) Item     { return Item{Kind: KindNode, Node: n} }
func edgeItem(e *codec.Edge) Item     { return Item{Kind: KindEdge, Edge: e} }
func vectorItem(v *codec.Vector) Item { return Item{Kind: KindVector, Vector: v} }
func emptyItem() Item                 { return Item{Kind: KindEmpty} }
func countItem(n uint64) Item         { return Item{Kind: KindCount, Count: n} }
func pathItem(p pathfind.Path) Item   { return Item{Kind: KindPath, Path: &p} }
func valueItem(v value.Value) Item    { return Item{Kind: KindValue, Value: v} }

// properties returns the item's property object when it has one, or nil
// for kinds that don't (Empty, Count, Path).
func (it Item) properties() *value.Object {
	switch it.Kind {
	case KindNode:
		if it.Node != nil {
			return it.Node.Properties
		}
	case KindEdge:
		if it.Edge != nil {
			return it.Edge.Properties
		}
	}
	return nil
}

// id returns the item's identity for dedup/id-based operations. Items
// without an id (Empty, Count, Path) compare unequal to everything,
// including each other, by returning ok=false.
func (it Item) id() (ids.ID, bool) {
	switch it.Kind {
	case KindNode:
		if it.Node != nil {
			return it.Node.ID, true
		}
	case KindEdge:
		if it.Edge != nil {
			return it.Edge.ID, true
		}
	case KindVector, KindVectorNoData:
		if it.Vector != nil {
			return it.Vector.ID, true
		}
	}
	return ids.ID{}, false
}
