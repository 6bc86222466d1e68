// Package keys composes the deterministic keys for every sub-database
// (spec §4.3). All multi-byte integers are big-endian so lexicographic
// byte order matches numeric/creation order, which lets prefix scans by
// node id work without a secondary sort.
package keys

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/helixdb/helix-core/pkg/ids"
)

// LabelHashSize is the fixed width of a label hash key component.
const LabelHashSize = 8

// LabelHash deterministically hashes a label string to a fixed-width key
// component. salt is accepted but currently unused: the original source
// retains two call sites that always pass None for an equivalent
// parameter; we expose it rather than guess at the intended behavior
// (spec §9 Open Questions).
func LabelHash(label string, salt *uint64) [LabelHashSize]byte {
	h := fnv.New64a()
	_, _ = h.Write([]byte(label))
	var out [LabelHashSize]byte
	binary.BigEndian.PutUint64(out[:], h.Sum64())
	return out
}

// Node returns the nodes-sub-database key for a node id.
func Node(id ids.ID) []byte {
	return id.Bytes()
}

// Edge returns the edges-sub-database key for an edge id.
func Edge(id ids.ID) []byte {
	return id.Bytes()
}

// Vector returns the vectors_data-sub-database key for a vector id.
func Vector(id ids.ID) []byte {
	return id.Bytes()
}

// OutAdjacency returns the out_edges key: concat(node_id, label_hash).
func OutAdjacency(node ids.ID, label string) []byte {
	return adjacencyKey(node, label)
}

// InAdjacency returns the in_edges key: concat(node_id, label_hash).
func InAdjacency(node ids.ID, label string) []byte {
	return adjacencyKey(node, label)
}

func adjacencyKey(node ids.ID, label string) []byte {
	lh := LabelHash(label, nil)
	return AdjacencyKeyRaw(node, lh)
}

// AdjacencyKeyRaw composes an adjacency key from an already-hashed label,
// letting a caller that only has the hash (e.g. while walking the other
// side of an adjacency pair during a drop) avoid re-hashing the label
// string.
func AdjacencyKeyRaw(node ids.ID, labelHash [LabelHashSize]byte) []byte {
	out := make([]byte, 16+LabelHashSize)
	copy(out, node.Bytes())
	copy(out[16:], labelHash[:])
	return out
}

// SplitAdjacencyKey extracts the node id and label hash components of an
// adjacency key.
func SplitAdjacencyKey(k []byte) (node ids.ID, labelHash [LabelHashSize]byte, ok bool) {
	if len(k) != 16+LabelHashSize {
		return node, labelHash, false
	}
	copy(node[:], k[:16])
	copy(labelHash[:], k[16:])
	return node, labelHash, true
}

// AdjacencyValue packs (edge_id, other_node_id) for an adjacency entry.
func AdjacencyValue(edge, other ids.ID) []byte {
	out := make([]byte, 32)
	copy(out[:16], edge.Bytes())
	copy(out[16:], other.Bytes())
	return out
}

// ParseAdjacencyValue unpacks an adjacency value into (edge_id, other_node_id).
func ParseAdjacencyValue(v []byte) (edge, other ids.ID, ok bool) {
	if len(v) != 32 {
		return edge, other, false
	}
	copy(edge[:], v[:16])
	copy(other[:], v[16:])
	return edge, other, true
}

// VectorAdjLevelDB returns the sub-database name for HNSW adjacency at a
// given level ("vectors_adj_<level>").
func VectorAdjLevelDB(level int) string {
	return "vectors_adj_" + itoa(level)
}

// SecondaryIndexDB returns the sub-database name for a secondary index on
// a field ("secondary_index_<field>").
func SecondaryIndexDB(field string) string {
	return "secondary_index_" + field
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
