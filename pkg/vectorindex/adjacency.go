package vectorindex

import (
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/keys"
	"github.com/helixdb/helix-core/pkg/kv"
)

func encodeIDList(list []ids.ID) []byte {
	out := make([]byte, 0, 16*len(list))
	for _, id := range list {
		out = append(out, id.Bytes()...)
	}
	return out
}

func decodeIDList(blob []byte) []ids.ID {
	n := len(blob) / 16
	out := make([]ids.ID, 0, n)
	for i := 0; i < n; i++ {
		id, err := ids.FromBytes(blob[i*16 : i*16+16])
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (ix *Index) neighbors(tx Reader, level int, id ids.ID) ([]ids.ID, error) {
	db := keys.VectorAdjLevelDB(level)
	blob, err := tx.Get(db, keys.Vector(id))
	if err != nil {
		return nil, err
	}
	return decodeIDList(blob), nil
}

func (ix *Index) setNeighbors(tx *kv.RwTxn, level int, id ids.ID, list []ids.ID) error {
	db := keys.VectorAdjLevelDB(level)
	return tx.Put(db, keys.Vector(id), encodeIDList(list))
}
