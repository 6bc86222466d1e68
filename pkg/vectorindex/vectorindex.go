// Package vectorindex implements the HNSW (Hierarchical Navigable Small
// World) vector index described in spec §4.5: multi-level greedy
// descent, a neighbor-selection heuristic, tombstoned soft deletes, and
// a brute-force fallback.
package vectorindex

import (
	"math"
	"math/rand"

	"github.com/helixdb/helix-core/pkg/arena"
	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/herrors"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/keys"
	"github.com/helixdb/helix-core/pkg/kv"
)

// MaxLevels bounds how many vectors_adj_<level> sub-databases an
// environment pre-creates at open time (spec §4.5 doesn't cap level
// count, but an exponential(1/ln(M)) sample essentially never exceeds
// this in a database with fewer than 2^32 vectors).
const MaxLevels = 32

// Config tunes the index (spec §4.5's defaults: 16, 128, 128).
type Config struct {
	M              int
	EfConstruction int
	EfSearch       int
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{M: 16, EfConstruction: 128, EfSearch: 128}
}

// Index is a stateless HNSW accessor bound to a Config; all graph state
// lives in the KV substrate under vectors_data/vectors_meta/vectors_adj_*.
type Index struct {
	cfg Config
}

// New returns an Index using cfg, filling any zero field with the spec
// default.
func New(cfg Config) *Index {
	d := DefaultConfig()
	if cfg.M <= 0 {
		cfg.M = d.M
	}
	if cfg.EfConstruction <= 0 {
		cfg.EfConstruction = d.EfConstruction
	}
	if cfg.EfSearch <= 0 {
		cfg.EfSearch = d.EfSearch
	}
	return &Index{cfg: cfg}
}

// Result is a search hit: the stored vector plus its distance to the
// query (distance is not part of the persisted vector, only of a search
// result — spec §3's "distance: optional f64, populated only on search
// hits").
type Result struct {
	Vector   *codec.Vector
	Distance float64
}

// Reader is the read surface the index needs from a transaction (both
// RoTxn and RwTxn satisfy it).
type Reader interface {
	Get(db string, key []byte) ([]byte, error)
	PrefixIter(db string, prefix []byte, walker func(k, v []byte) error) error
}

// Filter is called with a candidate vector id during search; returning
// false excludes that id from results (but not from graph traversal, so
// connectivity through filtered-out nodes is preserved per spec §4.5).
type Filter func(r Reader, id ids.ID) (bool, error)

// ml is the HNSW level-generation factor, 1/ln(M).
func (ix *Index) ml() float64 { return 1 / math.Log(float64(ix.cfg.M)) }

// sampleLevel draws a level from the exponential distribution HNSW uses,
// parameterized by ml (spec §4.5 step 1).
func (ix *Index) sampleLevel() int {
	u := rand.Float64()
	for u == 0 {
		u = rand.Float64()
	}
	return int(math.Floor(-math.Log(u) * ix.ml()))
}

// GetVector fetches a vector by id from any reader (read or write txn).
func GetVector(r Reader, id ids.ID, a *arena.Arena) (*codec.Vector, error) {
	blob, err := r.Get(kv.DBVectorsData, keys.Vector(id))
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, herrors.NewNotFound("vector", id.String())
	}
	return codec.DecodeVector(id, blob, a)
}

func (ix *Index) putVector(tx *kv.RwTxn, v *codec.Vector) error {
	return tx.Put(kv.DBVectorsData, keys.Vector(v.ID), codec.EncodeVector(v))
}

// Delete tombstones a vector: adjacency is left intact for graph
// connectivity (spec §4.5 "Delete"), but future searches skip it.
func (ix *Index) Delete(tx *kv.RwTxn, id ids.ID) error {
	v, err := GetVector(tx, id, nil)
	if err != nil {
		return err
	}
	v.Deleted = true
	return ix.putVector(tx, v)
}

// UpsertVector implements upsert_v (spec §4.4): if id already names a
// live vector, its label and data are overwritten in place and its HNSW
// position (level, neighbor lists) is left untouched; if id is absent or
// tombstoned, a fresh vector is inserted (a new level sampled, a new
// entry point wired) exactly as Insert does. The original distinguishes
// these cases by merging vector properties; this engine's Vector has no
// properties (spec §3), so data is the only mergeable content and takes
// their place.
func (ix *Index) UpsertVector(tx *kv.RwTxn, id ids.ID, label string, data []float64) (*codec.Vector, error) {
	existing, err := GetVector(tx, id, nil)
	if err != nil {
		if !herrors.IsNotFound(err) {
			return nil, err
		}
		return ix.Insert(tx, label, data)
	}
	if existing.Deleted {
		return ix.Insert(tx, label, data)
	}
	existing.Label = label
	existing.Data = data
	if err := ix.putVector(tx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}
