// Package codec implements the bincode-style binary encoding for Node,
// Edge, and Vector items (spec §4.2). Ids are never part of the encoded
// blob — they are the sub-database key the blob is stored under — so
// Encode* functions take the item without its id and Decode* functions
// take the id separately, recovered from the key by the caller.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/helixdb/helix-core/pkg/arena"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/value"
)

// schemaVersion is written as the first byte of every item blob so a
// future format change can be detected without guessing from length.
const schemaVersion = 1

// Node is a graph vertex: a label, a property bag, and an implicit id
// (the nodes sub-database key).
type Node struct {
	ID         ids.ID
	Label      string
	Properties *value.Object
}

// EdgeType distinguishes a node-to-node edge from one touching a vector
// endpoint (spec §3: "edges may connect nodes↔vectors, edge-type = Vec").
// It is carried on the edge record itself, not inferred from schema,
// since this engine has no query analyzer to resolve it statically.
type EdgeType uint8

const (
	// EdgeTypeNode connects two graph nodes (the default, spec-ordinary
	// edge).
	EdgeTypeNode EdgeType = iota
	// EdgeTypeVec connects a node and a vector (either direction).
	EdgeTypeVec
)

// Edge is a directed, labeled connection between two graph elements: two
// nodes (EdgeTypeNode) or a node and a vector (EdgeTypeVec).
type Edge struct {
	ID         ids.ID
	Label      string
	Type       EdgeType
	From       ids.ID
	To         ids.ID
	Properties *value.Object
}

// Vector is an embedding stored alongside its HNSW bookkeeping: the level
// it was inserted at and a tombstone flag for soft delete (spec §4.5).
type Vector struct {
	ID      ids.ID
	Label   string
	Level   int
	Deleted bool
	Data    []float64
}

func encodeProperties(buf []byte, props *value.Object) []byte {
	if props == nil {
		return putU32(buf, 0)
	}
	keys := props.Keys()
	buf = putU32(buf, uint32(len(keys)))
	for _, k := range keys {
		buf = putString(buf, k)
		v, _ := props.Get(k)
		buf = EncodeValue(buf, v)
	}
	return buf
}

func decodeProperties(c *decodeCursor) (*value.Object, error) {
	n, err := c.takeU32()
	if err != nil {
		return nil, err
	}
	obj := value.NewObject()
	for i := uint32(0); i < n; i++ {
		k, err := c.takeString()
		if err != nil {
			return nil, err
		}
		v, err := DecodeValue(c)
		if err != nil {
			return nil, err
		}
		obj.Set(k, v)
	}
	return obj, nil
}

// EncodeNode produces the on-disk blob for n, excluding its id.
func EncodeNode(n *Node) []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, schemaVersion)
	buf = putString(buf, n.Label)
	buf = encodeProperties(buf, n.Properties)
	return buf
}

// DecodeNode parses a node blob read under key id. Strings (the label,
// property keys and string values) are copied into a, when a is non-nil,
// while the property object itself is heap-allocated; the result is
// only valid for the lifetime of a's owning transaction.
func DecodeNode(id ids.ID, blob []byte, a *arena.Arena) (*Node, error) {
	c := &decodeCursor{buf: blob, a: a}
	ver, err := c.take(1)
	if err != nil {
		return nil, err
	}
	if ver[0] != schemaVersion {
		return nil, fmt.Errorf("codec: node %s has unsupported schema version %d", id, ver[0])
	}
	label, err := c.takeString()
	if err != nil {
		return nil, err
	}
	props, err := decodeProperties(c)
	if err != nil {
		return nil, err
	}
	return &Node{ID: id, Label: label, Properties: props}, nil
}

// EncodeEdge produces the on-disk blob for e, excluding its id.
func EncodeEdge(e *Edge) []byte {
	buf := make([]byte, 0, 96)
	buf = append(buf, schemaVersion)
	buf = putString(buf, e.Label)
	buf = append(buf, byte(e.Type))
	buf = append(buf, e.From.Bytes()...)
	buf = append(buf, e.To.Bytes()...)
	buf = encodeProperties(buf, e.Properties)
	return buf
}

// DecodeEdge parses an edge blob read under key id.
func DecodeEdge(id ids.ID, blob []byte, a *arena.Arena) (*Edge, error) {
	c := &decodeCursor{buf: blob, a: a}
	ver, err := c.take(1)
	if err != nil {
		return nil, err
	}
	if ver[0] != schemaVersion {
		return nil, fmt.Errorf("codec: edge %s has unsupported schema version %d", id, ver[0])
	}
	label, err := c.takeString()
	if err != nil {
		return nil, err
	}
	typB, err := c.take(1)
	if err != nil {
		return nil, err
	}
	fromB, err := c.take(16)
	if err != nil {
		return nil, err
	}
	from, err := ids.FromBytes(fromB)
	if err != nil {
		return nil, err
	}
	toB, err := c.take(16)
	if err != nil {
		return nil, err
	}
	to, err := ids.FromBytes(toB)
	if err != nil {
		return nil, err
	}
	props, err := decodeProperties(c)
	if err != nil {
		return nil, err
	}
	return &Edge{ID: id, Label: label, Type: EdgeType(typB[0]), From: from, To: to, Properties: props}, nil
}

// EncodeVector produces the on-disk blob for v, excluding its id.
func EncodeVector(v *Vector) []byte {
	buf := make([]byte, 0, 8+len(v.Data)*8)
	buf = append(buf, schemaVersion)
	buf = putString(buf, v.Label)
	var lvl [4]byte
	binary.BigEndian.PutUint32(lvl[:], uint32(v.Level))
	buf = append(buf, lvl[:]...)
	if v.Deleted {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = putU32(buf, uint32(len(v.Data)))
	for _, f := range v.Data {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(f))
		buf = append(buf, b[:]...)
	}
	return buf
}

// DecodeVector parses a vector blob read under key id.
func DecodeVector(id ids.ID, blob []byte, a *arena.Arena) (*Vector, error) {
	c := &decodeCursor{buf: blob, a: a}
	ver, err := c.take(1)
	if err != nil {
		return nil, err
	}
	if ver[0] != schemaVersion {
		return nil, fmt.Errorf("codec: vector %s has unsupported schema version %d", id, ver[0])
	}
	label, err := c.takeString()
	if err != nil {
		return nil, err
	}
	lvlB, err := c.take(4)
	if err != nil {
		return nil, err
	}
	level := int(binary.BigEndian.Uint32(lvlB))
	delB, err := c.take(1)
	if err != nil {
		return nil, err
	}
	n, err := c.takeU32()
	if err != nil {
		return nil, err
	}
	data := make([]float64, n)
	for i := range data {
		b, err := c.take(8)
		if err != nil {
			return nil, err
		}
		data[i] = math.Float64frombits(binary.BigEndian.Uint64(b))
	}
	return &Vector{ID: id, Label: label, Level: level, Deleted: delB[0] != 0, Data: data}, nil
}
