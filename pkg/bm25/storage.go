package bm25

import (
	"encoding/binary"
	"math"

	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/kv"
)

// Metadata mirrors the bm25_metadata record (spec §4.3).
type Metadata struct {
	TotalDocs uint64
	Avgdl     float64
	K1        float64
	B         float64
}

// DefaultK1 and DefaultB are Okapi BM25's conventional constants (spec
// §4.6).
const (
	DefaultK1 = 1.2
	DefaultB  = 0.75
)

var metadataKey = []byte("metadata")

func encodePosting(doc ids.ID, tf uint32) []byte {
	out := make([]byte, 20)
	copy(out[:16], doc.Bytes())
	binary.BigEndian.PutUint32(out[16:], tf)
	return out
}

func decodePosting(b []byte) (ids.ID, uint32, bool) {
	if len(b) != 20 {
		return ids.ID{}, 0, false
	}
	id, err := ids.FromBytes(b[:16])
	if err != nil {
		return ids.ID{}, 0, false
	}
	return id, binary.BigEndian.Uint32(b[16:]), true
}

func encodeDocTerms(tf map[string]uint32) []byte {
	var out []byte
	for term, f := range tf {
		var lb [4]byte
		binary.BigEndian.PutUint32(lb[:], uint32(len(term)))
		out = append(out, lb[:]...)
		out = append(out, term...)
		var fb [4]byte
		binary.BigEndian.PutUint32(fb[:], f)
		out = append(out, fb[:]...)
	}
	return out
}

func decodeDocTerms(blob []byte) map[string]uint32 {
	out := make(map[string]uint32)
	pos := 0
	for pos < len(blob) {
		if pos+4 > len(blob) {
			break
		}
		n := int(binary.BigEndian.Uint32(blob[pos : pos+4]))
		pos += 4
		if pos+n+4 > len(blob) {
			break
		}
		term := string(blob[pos : pos+n])
		pos += n
		f := binary.BigEndian.Uint32(blob[pos : pos+4])
		pos += 4
		out[term] = f
	}
	return out
}

func encodeU32(n uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	return b[:]
}

func decodeU32(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func encodeMetadata(m Metadata) []byte {
	out := make([]byte, 32)
	binary.BigEndian.PutUint64(out[0:8], m.TotalDocs)
	binary.BigEndian.PutUint64(out[8:16], math.Float64bits(m.Avgdl))
	binary.BigEndian.PutUint64(out[16:24], math.Float64bits(m.K1))
	binary.BigEndian.PutUint64(out[24:32], math.Float64bits(m.B))
	return out
}

func decodeMetadata(b []byte) Metadata {
	if len(b) != 32 {
		return Metadata{K1: DefaultK1, B: DefaultB}
	}
	return Metadata{
		TotalDocs: binary.BigEndian.Uint64(b[0:8]),
		Avgdl:     math.Float64frombits(binary.BigEndian.Uint64(b[8:16])),
		K1:        math.Float64frombits(binary.BigEndian.Uint64(b[16:24])),
		B:         math.Float64frombits(binary.BigEndian.Uint64(b[24:32])),
	}
}

// reader is the read surface bm25 needs from a transaction.
type reader interface {
	Get(db string, key []byte) ([]byte, error)
	GetDuplicates(db string, key []byte) ([][]byte, error)
	PrefixIter(db string, prefix []byte, walker func(k, v []byte) error) error
}

func getMetadata(r reader) (Metadata, error) {
	blob, err := r.Get(kv.DBBM25Metadata, metadataKey)
	if err != nil {
		return Metadata{}, err
	}
	if blob == nil {
		return Metadata{K1: DefaultK1, B: DefaultB}, nil
	}
	return decodeMetadata(blob), nil
}
