package vectorindex

import (
	"encoding/binary"

	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/kv"
)

var metaKey = []byte("entrypoint")

// indexMeta tracks the HNSW entrypoint and top level, the only global
// state the graph needs beyond the per-vector records themselves.
type indexMeta struct {
	HasEntry   bool
	EntryPoint ids.ID
	TopLevel   int
}

func (ix *Index) getMeta(tx *kv.RwTxn) (indexMeta, error) {
	blob, err := tx.Get(kv.DBVectorsMeta, metaKey)
	if err != nil {
		return indexMeta{}, err
	}
	if blob == nil {
		return indexMeta{}, nil
	}
	var m indexMeta
	m.HasEntry = blob[0] != 0
	copy(m.EntryPoint[:], blob[1:17])
	m.TopLevel = int(int32(binary.BigEndian.Uint32(blob[17:21])))
	return m, nil
}

func (ix *Index) putMeta(tx *kv.RwTxn, m indexMeta) error {
	buf := make([]byte, 21)
	if m.HasEntry {
		buf[0] = 1
	}
	copy(buf[1:17], m.EntryPoint.Bytes())
	binary.BigEndian.PutUint32(buf[17:21], uint32(int32(m.TopLevel)))
	return tx.Put(kv.DBVectorsMeta, metaKey, buf)
}

// getMetaR reads the entrypoint/top-level from any reader, for Search.
func (ix *Index) getMetaR(tx Reader) (indexMeta, error) {
	blob, err := tx.Get(kv.DBVectorsMeta, metaKey)
	if err != nil {
		return indexMeta{}, err
	}
	if blob == nil {
		return indexMeta{}, nil
	}
	var m indexMeta
	m.HasEntry = blob[0] != 0
	copy(m.EntryPoint[:], blob[1:17])
	m.TopLevel = int(int32(binary.BigEndian.Uint32(blob[17:21])))
	return m, nil
}
