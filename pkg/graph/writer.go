package graph

import (
	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/herrors"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/keys"
	"github.com/helixdb/helix-core/pkg/kv"
	"github.com/helixdb/helix-core/pkg/value"
)

// AddNode creates a node with a fresh id, writes it, and indexes any
// declared secondary-index fields present in props.
func (s *Store) AddNode(tx *kv.RwTxn, label string, props *value.Object) (*codec.Node, error) {
	if props == nil {
		props = value.NewObject()
	}
	n := &codec.Node{ID: ids.New(), Label: label, Properties: props}
	if err := tx.Put(kv.DBNodes, keys.Node(n.ID), codec.EncodeNode(n)); err != nil {
		return nil, err
	}
	if err := s.indexProperties(tx, label, false, n.ID, props); err != nil {
		return nil, err
	}
	return n, nil
}

// AddEdge creates a labeled directed edge from->to with a fresh id and
// writes both adjacency entries. edgeType records whether from/to are
// both nodes (EdgeTypeNode) or one side is a vector (EdgeTypeVec, spec
// §3's "edges may connect nodes↔vectors"). When checkEndpoints is true,
// each endpoint must already exist as a node (EdgeTypeNode) or as either
// a node or a vector (EdgeTypeVec) — a Vec-typed edge doesn't pin which
// side carries the vector, so both candidates are accepted.
func (s *Store) AddEdge(tx *kv.RwTxn, label string, edgeType codec.EdgeType, from, to ids.ID, props *value.Object, checkEndpoints bool) (*codec.Edge, error) {
	if checkEndpoints {
		if err := s.checkEndpoint(tx, from, edgeType); err != nil {
			return nil, err
		}
		if err := s.checkEndpoint(tx, to, edgeType); err != nil {
			return nil, err
		}
	}
	if props == nil {
		props = value.NewObject()
	}
	e := &codec.Edge{ID: ids.New(), Label: label, Type: edgeType, From: from, To: to, Properties: props}
	if err := tx.Put(kv.DBEdges, keys.Edge(e.ID), codec.EncodeEdge(e)); err != nil {
		return nil, err
	}
	lh := keys.LabelHash(label, nil)
	if err := tx.PutDup(kv.DBOutEdges, keys.AdjacencyKeyRaw(from, lh), keys.AdjacencyValue(e.ID, to)); err != nil {
		return nil, err
	}
	if err := tx.PutDup(kv.DBInEdges, keys.AdjacencyKeyRaw(to, lh), keys.AdjacencyValue(e.ID, from)); err != nil {
		return nil, err
	}
	if err := s.indexProperties(tx, label, true, e.ID, props); err != nil {
		return nil, err
	}
	return e, nil
}

// checkEndpoint validates one edge endpoint against edgeType: a
// Node-typed edge requires a node, a Vec-typed edge accepts either a
// node or a vector.
func (s *Store) checkEndpoint(tx *kv.RwTxn, id ids.ID, edgeType codec.EdgeType) error {
	ok, err := s.NodeExists(tx, id)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if edgeType == codec.EdgeTypeVec {
		ok, err := s.VectorExists(tx, id)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		return herrors.NewNotFound("node or vector", id.String())
	}
	return herrors.NewNotFound("node", id.String())
}

// UpdateNode applies delta as a copy-on-write merge over the node's
// current properties (spec §4.4): existing keys are overwritten in
// place, new keys appended. Secondary indices are rebalanced for any
// changed, indexed field.
func (s *Store) UpdateNode(tx *kv.RwTxn, id ids.ID, delta *value.Object) (*codec.Node, error) {
	n, err := s.GetNode(tx, id, nil)
	if err != nil {
		return nil, err
	}
	if n.Properties == nil {
		n.Properties = value.NewObject()
	}
	if err := s.mergeIndexed(tx, n.Label, false, id, n.Properties, delta); err != nil {
		return nil, err
	}
	if err := tx.Put(kv.DBNodes, keys.Node(id), codec.EncodeNode(n)); err != nil {
		return nil, err
	}
	return n, nil
}

// UpdateEdge applies delta the same way UpdateNode does, over an edge's
// properties.
func (s *Store) UpdateEdge(tx *kv.RwTxn, id ids.ID, delta *value.Object) (*codec.Edge, error) {
	e, err := s.GetEdge(tx, id, nil)
	if err != nil {
		return nil, err
	}
	if e.Properties == nil {
		e.Properties = value.NewObject()
	}
	if err := s.mergeIndexed(tx, e.Label, true, id, e.Properties, delta); err != nil {
		return nil, err
	}
	if err := tx.Put(kv.DBEdges, keys.Edge(id), codec.EncodeEdge(e)); err != nil {
		return nil, err
	}
	return e, nil
}

// mergeIndexed merges delta into props in place, rebalancing any
// affected secondary index by removing the stale (value, id) row before
// inserting the new one.
func (s *Store) mergeIndexed(tx *kv.RwTxn, label string, isEdge bool, id ids.ID, props *value.Object, delta *value.Object) error {
	ls := s.schemaFor(label, isEdge)
	indexed := make(map[string]bool, len(ls.Fields))
	for _, f := range ls.Fields {
		if f.Indexed || f.Unique {
			indexed[f.Name] = true
		}
	}
	for _, k := range delta.Keys() {
		newV, _ := delta.Get(k)
		if indexed[k] {
			if oldV, had := props.Get(k); had {
				for _, f := range ls.Fields {
					if f.Name == k {
						if err := s.removeIndexEntry(tx, f, oldV, id); err != nil {
							return err
						}
						break
					}
				}
			}
			for _, f := range ls.Fields {
				if f.Name == k {
					if err := s.addIndexEntry(tx, f, newV, id); err != nil {
						return err
					}
					break
				}
			}
		}
		props.Set(k, newV)
	}
	return nil
}

// DropNode removes a node, every edge incident to it (both directions),
// and its secondary-index rows. Absent nodes surface NotFound and make
// no other change, so a repeated DropNode is a no-op past the first call
// (spec §8's drop-idempotence property).
func (s *Store) DropNode(tx *kv.RwTxn, id ids.ID) error {
	n, err := s.GetNode(tx, id, nil)
	if err != nil {
		return err
	}
	out, err := s.AllOutAdjacency(tx, id)
	if err != nil {
		return err
	}
	for _, entry := range out {
		if err := s.dropEdgeRecord(tx, entry.Edge); err != nil && !herrors.IsNotFound(err) {
			return err
		}
	}
	in, err := s.AllInAdjacency(tx, id)
	if err != nil {
		return err
	}
	for _, entry := range in {
		if err := s.dropEdgeRecord(tx, entry.Edge); err != nil && !herrors.IsNotFound(err) {
			return err
		}
	}
	if n.Properties != nil {
		if err := s.unindexProperties(tx, n.Label, false, id, n.Properties); err != nil {
			return err
		}
	}
	return tx.Delete(kv.DBNodes, keys.Node(id))
}

// DropEdge removes an edge record and both its adjacency rows.
func (s *Store) DropEdge(tx *kv.RwTxn, id ids.ID) error {
	return s.dropEdgeRecord(tx, id)
}

func (s *Store) dropEdgeRecord(tx *kv.RwTxn, id ids.ID) error {
	e, err := s.GetEdge(tx, id, nil)
	if err != nil {
		return err
	}
	lh := keys.LabelHash(e.Label, nil)
	if err := tx.DeleteOneDuplicate(kv.DBOutEdges, keys.AdjacencyKeyRaw(e.From, lh), keys.AdjacencyValue(id, e.To)); err != nil {
		return err
	}
	if err := tx.DeleteOneDuplicate(kv.DBInEdges, keys.AdjacencyKeyRaw(e.To, lh), keys.AdjacencyValue(id, e.From)); err != nil {
		return err
	}
	if e.Properties != nil {
		if err := s.unindexProperties(tx, e.Label, true, id, e.Properties); err != nil {
			return err
		}
	}
	return tx.Delete(kv.DBEdges, keys.Edge(id))
}

// UpsertNode merges props into the node found via (matchField, matchValue)
// in a unique secondary index, or creates a new node with that match
// value set if none exists. Applying it twice with the same arguments
// yields the same observable state as applying it once (spec §8).
func (s *Store) UpsertNode(tx *kv.RwTxn, label, matchField string, matchValue value.Value, props *value.Object) (*codec.Node, error) {
	existing, err := s.FindByIndex(tx, matchField, IndexKey(matchValue))
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return s.UpdateNode(tx, existing[0], props)
	}
	merged := value.NewObject()
	merged.Set(matchField, matchValue)
	for _, k := range props.Keys() {
		v, _ := props.Get(k)
		merged.Set(k, v)
	}
	return s.AddNode(tx, label, merged)
}

// UpsertEdge merges props into the edge found via (matchField,
// matchValue) in a unique secondary index, or creates a new from->to
// edge of the given type with that match value set if none exists. It
// exercises the same copy-on-write merge as UpsertNode (spec §4.4).
func (s *Store) UpsertEdge(tx *kv.RwTxn, label string, edgeType codec.EdgeType, from, to ids.ID, matchField string, matchValue value.Value, props *value.Object) (*codec.Edge, error) {
	existing, err := s.FindByIndex(tx, matchField, IndexKey(matchValue))
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return s.UpdateEdge(tx, existing[0], props)
	}
	merged := value.NewObject()
	merged.Set(matchField, matchValue)
	for _, k := range props.Keys() {
		v, _ := props.Get(k)
		merged.Set(k, v)
	}
	return s.AddEdge(tx, label, edgeType, from, to, merged, true)
}
