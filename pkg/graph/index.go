package graph

import (
	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/config"
	"github.com/helixdb/helix-core/pkg/herrors"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/keys"
	"github.com/helixdb/helix-core/pkg/kv"
	"github.com/helixdb/helix-core/pkg/value"

	"github.com/helixdb/helix-core/internal/assert"
)

// indexValue is a property value's serialized secondary-index key, kept
// as an opaque type so callers cannot accidentally pass a field name
// where a serialized value is expected.
type indexValue struct{ b []byte }

// IndexKey serializes v the way it will be looked up under in a
// secondary-index sub-database, using the same wire encoding as the
// codec (spec §4.3: "secondary_index_<field> | bincode(value)").
func IndexKey(v value.Value) indexValue {
	return indexValue{b: codec.EncodeValue(nil, v)}
}

func (iv indexValue) bytes() []byte { return iv.b }

// schemaFor returns the declared fields for a node or edge label, or the
// zero value if the label isn't declared (an undeclared label carries no
// secondary indices).
func (s *Store) schemaFor(label string, isEdge bool) config.LabelSchema {
	if isEdge {
		ls, _ := s.schema.FindEdge(label)
		return ls
	}
	ls, _ := s.schema.FindNode(label)
	return ls
}

// indexProperties writes a secondary-index entry for every declared
// indexed/unique field present in props, failing with DuplicateKey if a
// unique field's value is already claimed by a different id.
func (s *Store) indexProperties(tx *kv.RwTxn, label string, isEdge bool, id ids.ID, props *value.Object) error {
	ls := s.schemaFor(label, isEdge)
	for _, f := range ls.Fields {
		if !f.Indexed && !f.Unique {
			continue
		}
		v, ok := props.Get(f.Name)
		if !ok {
			continue
		}
		if err := s.addIndexEntry(tx, f, v, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) addIndexEntry(tx *kv.RwTxn, f config.FieldSchema, v value.Value, id ids.ID) error {
	db := keys.SecondaryIndexDB(f.Name)
	key := IndexKey(v)
	if f.Unique {
		existing, err := tx.GetDuplicates(db, key.bytes())
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return herrors.NewDuplicateKey(f.Name, v.String())
		}
	}
	return tx.PutDup(db, key.bytes(), id.Bytes())
}

// unindexProperties removes every declared indexed/unique field's
// secondary-index entry for id given its current property values.
func (s *Store) unindexProperties(tx *kv.RwTxn, label string, isEdge bool, id ids.ID, props *value.Object) error {
	ls := s.schemaFor(label, isEdge)
	for _, f := range ls.Fields {
		if !f.Indexed && !f.Unique {
			continue
		}
		v, ok := props.Get(f.Name)
		if !ok {
			continue
		}
		if err := s.removeIndexEntry(tx, f, v, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) removeIndexEntry(tx *kv.RwTxn, f config.FieldSchema, v value.Value, id ids.ID) error {
	db := keys.SecondaryIndexDB(f.Name)
	key := IndexKey(v)
	if f.Unique {
		existing, err := tx.GetDuplicates(db, key.bytes())
		if err != nil {
			return err
		}
		matches := 0
		for _, e := range existing {
			if eid, err := ids.FromBytes(e); err == nil && eid == id {
				matches++
			}
		}
		assert.True(matches <= 1, "unique secondary index has duplicate (value,id) rows")
	}
	return tx.DeleteOneDuplicate(db, key.bytes(), id.Bytes())
}
