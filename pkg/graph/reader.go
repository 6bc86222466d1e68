// Package graph implements node/edge CRUD, adjacency walks, and secondary
// indices over the KV substrate (spec §4.4).
package graph

import (
	"github.com/helixdb/helix-core/pkg/arena"
	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/config"
	"github.com/helixdb/helix-core/pkg/herrors"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/keys"
	"github.com/helixdb/helix-core/pkg/kv"
)

// Reader is the read-only surface both RoTxn and RwTxn satisfy.
type Reader interface {
	Get(db string, key []byte) ([]byte, error)
	GetDuplicates(db string, key []byte) ([][]byte, error)
	PrefixIter(db string, prefix []byte, walker func(k, v []byte) error) error
	PrefixIterDup(db string, prefix []byte, walker func(k, v []byte) error) error
}

// Store offers node/edge CRUD and adjacency walks against a schema. It is
// stateless beyond the schema; every operation takes its transaction
// explicitly, following spec §5's "engine is synchronous, transaction is
// the unit of work" model.
type Store struct {
	schema config.Schema
}

// New returns a Store that enforces secondary indices declared in schema.
func New(schema config.Schema) *Store {
	return &Store{schema: schema}
}

// AdjacencyEntry is one (edge, other-node) pair from an adjacency walk.
type AdjacencyEntry struct {
	Edge  ids.ID
	Other ids.ID
}

// GetNode fetches a node by id. a may be nil to get an owned copy that
// outlives the transaction.
func (s *Store) GetNode(r Reader, id ids.ID, a *arena.Arena) (*codec.Node, error) {
	blob, err := r.Get(kv.DBNodes, keys.Node(id))
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, herrors.NewNotFound("node", id.String())
	}
	return codec.DecodeNode(id, blob, a)
}

// GetEdge fetches an edge by id.
func (s *Store) GetEdge(r Reader, id ids.ID, a *arena.Arena) (*codec.Edge, error) {
	blob, err := r.Get(kv.DBEdges, keys.Edge(id))
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, herrors.NewNotFound("edge", id.String())
	}
	return codec.DecodeEdge(id, blob, a)
}

// NodeExists reports whether a node id is present, without decoding it.
func (s *Store) NodeExists(r Reader, id ids.ID) (bool, error) {
	blob, err := r.Get(kv.DBNodes, keys.Node(id))
	if err != nil {
		return false, err
	}
	return blob != nil, nil
}

// VectorExists reports whether a vector id is present, without decoding
// it. A tombstoned (soft-deleted) vector still reports true: it is a
// valid edge endpoint even though vector search skips it.
func (s *Store) VectorExists(r Reader, id ids.ID) (bool, error) {
	blob, err := r.Get(kv.DBVectorsData, keys.Vector(id))
	if err != nil {
		return false, err
	}
	return blob != nil, nil
}

// OutAdjacency lists (edge, to-node) pairs for node's outgoing edges under
// label.
func (s *Store) OutAdjacency(r Reader, node ids.ID, label string) ([]AdjacencyEntry, error) {
	return s.adjacency(r, kv.DBOutEdges, node, label)
}

// InAdjacency lists (edge, from-node) pairs for node's incoming edges
// under label.
func (s *Store) InAdjacency(r Reader, node ids.ID, label string) ([]AdjacencyEntry, error) {
	return s.adjacency(r, kv.DBInEdges, node, label)
}

func (s *Store) adjacency(r Reader, db string, node ids.ID, label string) ([]AdjacencyEntry, error) {
	key := keys.OutAdjacency(node, label) // same layout for in_edges
	vals, err := r.GetDuplicates(db, key)
	if err != nil {
		return nil, err
	}
	out := make([]AdjacencyEntry, 0, len(vals))
	for _, v := range vals {
		edge, other, ok := keys.ParseAdjacencyValue(v)
		if !ok {
			continue
		}
		out = append(out, AdjacencyEntry{Edge: edge, Other: other})
	}
	return out, nil
}

// AllOutAdjacency lists outgoing edges for node under every label (a
// prefix scan on the node id alone).
func (s *Store) AllOutAdjacency(r Reader, node ids.ID) ([]AdjacencyEntry, error) {
	return s.allAdjacency(r, kv.DBOutEdges, node)
}

// AllInAdjacency lists incoming edges for node under every label.
func (s *Store) AllInAdjacency(r Reader, node ids.ID) ([]AdjacencyEntry, error) {
	return s.allAdjacency(r, kv.DBInEdges, node)
}

func (s *Store) allAdjacency(r Reader, db string, node ids.ID) ([]AdjacencyEntry, error) {
	var out []AdjacencyEntry
	err := r.PrefixIterDup(db, node.Bytes(), func(_, v []byte) error {
		edge, other, ok := keys.ParseAdjacencyValue(v)
		if ok {
			out = append(out, AdjacencyEntry{Edge: edge, Other: other})
		}
		return nil
	})
	return out, err
}

// FindByIndex returns every item id stored under v in field's secondary
// index (exactly one for a field declared unique).
func (s *Store) FindByIndex(r Reader, field string, v indexValue) ([]ids.ID, error) {
	db := keys.SecondaryIndexDB(field)
	raw, err := r.GetDuplicates(db, v.bytes())
	if err != nil {
		return nil, err
	}
	out := make([]ids.ID, 0, len(raw))
	for _, b := range raw {
		id, err := ids.FromBytes(b)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
