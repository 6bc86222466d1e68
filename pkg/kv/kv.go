// Package kv implements the transactional, memory-mapped, ordered KV
// substrate described in spec §4.1: named sub-databases inside one
// environment, duplicate keys per key, prefix iteration, and a single
// commit point for durability.
//
// Naming follows the RoTx/RwTx/Cursor convention used across the pack's
// MDBX-family KV layers (see DESIGN.md): RoTxn is a read-only transaction,
// RwTxn is the single concurrent writer. Sub-databases that need duplicate
// values per key (out_edges, in_edges, bm25_term_postings,
// secondary_index_*) are modeled as a bbolt bucket-of-buckets: the
// top-level bucket maps a key to a nested bucket whose own keys are a
// monotonic sequence number and whose values are the duplicate entries.
// Sub-databases with single values per key (nodes, edges, vectors_data,
// vectors_adj_<level>, bm25_doc_lengths, bm25_metadata) store the value
// directly under the key.
package kv

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/helixdb/helix-core/pkg/herrors"
)

// DefaultMaxSizeGB is the default cap on the environment's backing file,
// matching spec §6.
const DefaultMaxSizeGB = 10

// DefaultMaxDBs is the minimum number of named sub-database slots spec §6
// requires an environment to support.
const DefaultMaxDBs = 20

// Env is a single memory-mapped key/value environment. Only one RwTxn may
// be open at a time; readers are never blocked by the writer (bbolt's MVCC
// guarantees this the same way MDBX does).
type Env struct {
	db   *bbolt.DB
	path string
}

// Open opens (creating if absent) the environment directory's single data
// file. maxSizeGB and maxDBs are accepted for interface parity with spec
// §6's configuration surface; non-positive values fall back to the
// defaults, but neither is passed to bbolt, which grows its mmap region on
// demand and creates sub-databases only through EnsureDBs.
func Open(path string, maxSizeGB float64, maxDBs int) (*Env, error) {
	if maxSizeGB <= 0 {
		maxSizeGB = DefaultMaxSizeGB
	}
	if maxDBs <= 0 {
		maxDBs = DefaultMaxDBs
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, herrors.NewStorage("open", err)
	}
	return &Env{db: db, path: path}, nil
}

// Close releases the mmap and file lock.
func (e *Env) Close() error {
	if e == nil || e.db == nil {
		return nil
	}
	if err := e.db.Close(); err != nil {
		return herrors.NewStorage("close", err)
	}
	return nil
}

// Path returns the environment's backing file path.
func (e *Env) Path() string { return e.path }

// EnsureDBs creates the named sub-databases (as top-level buckets) if they
// don't already exist. Safe to call repeatedly; a no-op for existing
// buckets.
func (e *Env) EnsureDBs(names ...string) error {
	err := e.db.Update(func(tx *bbolt.Tx) error {
		for _, n := range names {
			if _, err := tx.CreateBucketIfNotExists([]byte(n)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return herrors.NewStorage("ensure-dbs", err)
	}
	return nil
}

// PutFlags control write semantics for RwTxn.PutWithFlags.
type PutFlags uint8

const (
	// FlagNone is the default: overwrite any existing value for key.
	FlagNone PutFlags = 0
	// FlagNoOverwrite fails with herrors.ErrDuplicateKey if key already
	// has a (non-duplicate) value.
	FlagNoOverwrite PutFlags = 1 << iota
	// FlagAppend asserts key is greater than every existing key in the
	// sub-database (an optimization hint; bbolt's B+tree rebalances the
	// same either way, but we still validate the monotonic-key assertion
	// callers rely on per spec §4.1).
	FlagAppend
	// FlagAppendDup is the duplicate-database analogue of FlagAppend.
	FlagAppendDup
)

// RoTxn is a read-only transaction: a consistent snapshot as of Env's state
// when the transaction began.
type RoTxn struct {
	tx *bbolt.Tx
}

// RwTxn is the single concurrent write transaction. Dropping it without
// calling Commit aborts all of its writes (spec §4.1's "dropping a write
// txn aborts").
type RwTxn struct {
	tx        *bbolt.Tx
	committed bool
}

// BeginRead opens a read-only transaction.
func (e *Env) BeginRead() (*RoTxn, error) {
	tx, err := e.db.Begin(false)
	if err != nil {
		return nil, herrors.NewStorage("begin-read", err)
	}
	return &RoTxn{tx: tx}, nil
}

// BeginWrite opens the (sole) write transaction.
func (e *Env) BeginWrite() (*RwTxn, error) {
	tx, err := e.db.Begin(true)
	if err != nil {
		return nil, herrors.NewStorage("begin-write", err)
	}
	return &RwTxn{tx: tx}, nil
}

// Rollback abandons a read-only transaction's snapshot.
func (t *RoTxn) Rollback() error {
	if t == nil || t.tx == nil {
		return nil
	}
	return t.tx.Rollback()
}

// Commit is the sole durability point for a write transaction.
func (t *RwTxn) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return herrors.NewStorage("commit", err)
	}
	t.committed = true
	return nil
}

// Rollback aborts the write transaction. Safe to call after Commit (no-op).
func (t *RwTxn) Rollback() error {
	if t.committed {
		return nil
	}
	return t.tx.Rollback()
}

// --- read path, shared by RoTxn and RwTxn via the small interface below ---

type txReader interface {
	Bucket(name []byte) *bbolt.Bucket
}

func getBucket(r txReader, db string) (*bbolt.Bucket, error) {
	b := r.Bucket([]byte(db))
	if b == nil {
		return nil, herrors.NewStorage("bucket", fmt.Errorf("sub-database %q not found", db))
	}
	return b, nil
}

// Get fetches the single value stored under key in a flat sub-database.
// Returns (nil, nil) if absent.
func (t *RoTxn) Get(db string, key []byte) ([]byte, error) { return getOne(t.tx, db, key) }
func (t *RwTxn) Get(db string, key []byte) ([]byte, error) { return getOne(t.tx, db, key) }

func getOne(tx *bbolt.Tx, db string, key []byte) ([]byte, error) {
	b, err := getBucket(tx, db)
	if err != nil {
		return nil, err
	}
	v := b.Get(key)
	if v == nil {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// GetDuplicates returns every duplicate value stored under key in a
// duplicate sub-database, in insertion order.
func (t *RoTxn) GetDuplicates(db string, key []byte) ([][]byte, error) {
	return getDuplicates(t.tx, db, key)
}
func (t *RwTxn) GetDuplicates(db string, key []byte) ([][]byte, error) {
	return getDuplicates(t.tx, db, key)
}

func getDuplicates(tx *bbolt.Tx, db string, key []byte) ([][]byte, error) {
	b, err := getBucket(tx, db)
	if err != nil {
		return nil, err
	}
	nested := b.Bucket(key)
	if nested == nil {
		return nil, nil
	}
	var out [][]byte
	c := nested.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		cp := make([]byte, len(v))
		copy(cp, v)
		out = append(out, cp)
	}
	return out, nil
}

// PrefixIter walks every key/value pair in a flat sub-database whose key
// starts with prefix, in ascending key order. walker's error stops
// iteration and is returned.
func (t *RoTxn) PrefixIter(db string, prefix []byte, walker func(k, v []byte) error) error {
	return prefixIter(t.tx, db, prefix, walker)
}
func (t *RwTxn) PrefixIter(db string, prefix []byte, walker func(k, v []byte) error) error {
	return prefixIter(t.tx, db, prefix, walker)
}

func prefixIter(tx *bbolt.Tx, db string, prefix []byte, walker func(k, v []byte) error) error {
	b, err := getBucket(tx, db)
	if err != nil {
		return err
	}
	c := b.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if v == nil {
			// k names a nested (duplicate) bucket; skip it here, see
			// PrefixIterDup.
			continue
		}
		if err := walker(k, v); err != nil {
			return err
		}
	}
	return nil
}

// PrefixIterDup walks every (top-level key, duplicate value) pair in a
// duplicate sub-database whose top-level key starts with prefix, in
// ascending top-level-key order and insertion order within each key.
func (t *RoTxn) PrefixIterDup(db string, prefix []byte, walker func(k, v []byte) error) error {
	return prefixIterDup(t.tx, db, prefix, walker)
}
func (t *RwTxn) PrefixIterDup(db string, prefix []byte, walker func(k, v []byte) error) error {
	return prefixIterDup(t.tx, db, prefix, walker)
}

func prefixIterDup(tx *bbolt.Tx, db string, prefix []byte, walker func(k, v []byte) error) error {
	b, err := getBucket(tx, db)
	if err != nil {
		return err
	}
	c := b.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if v != nil {
			continue // a flat entry in what's expected to be a dup db; skip
		}
		nested := b.Bucket(k)
		if nested == nil {
			continue
		}
		nc := nested.Cursor()
		for _, dv := nc.First(); dv != nil; _, dv = nc.Next() {
			if err := walker(k, dv); err != nil {
				return err
			}
		}
	}
	return nil
}

// Put writes a single value for key in a flat sub-database, overwriting
// any existing value.
func (t *RwTxn) Put(db string, key, value []byte) error {
	return t.PutWithFlags(db, key, value, FlagNone)
}

// PutWithFlags writes key/value honoring flags (spec §4.1).
func (t *RwTxn) PutWithFlags(db string, key, value []byte, flags PutFlags) error {
	b, err := getBucket(t.tx, db)
	if err != nil {
		return err
	}
	if flags&FlagNoOverwrite != 0 {
		if existing := b.Get(key); existing != nil {
			return herrors.NewDuplicateKey(db, fmt.Sprintf("%x", key))
		}
	}
	if flags&FlagAppend != 0 {
		lastKey, _ := b.Cursor().Last()
		if lastKey != nil && bytes.Compare(key, lastKey) <= 0 {
			return herrors.NewInvalidInput(fmt.Sprintf("append violation in %q: key not monotonic", db))
		}
	}
	if err := b.Put(key, value); err != nil {
		return herrors.NewStorage("put", err)
	}
	return nil
}

// PutDup appends value as a new duplicate entry under key in a duplicate
// sub-database. Existing duplicates under key are preserved. The entry
// order is the nested bucket's own monotonic sequence, so this always
// behaves like FlagAppendDup with respect to that sequence; FlagAppendDup
// itself only matters for fresh top-level keys (a fresh node id never
// collides with an existing one within the same commit).
func (t *RwTxn) PutDup(db string, key, value []byte) error {
	b, err := getBucket(t.tx, db)
	if err != nil {
		return err
	}
	nested, err := b.CreateBucketIfNotExists(key)
	if err != nil {
		return herrors.NewStorage("put-dup", err)
	}
	seq, err := nested.NextSequence()
	if err != nil {
		return herrors.NewStorage("put-dup-seq", err)
	}
	if err := nested.Put(seqKey(seq), value); err != nil {
		return herrors.NewStorage("put-dup", err)
	}
	return nil
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		k[i] = byte(seq)
		seq >>= 8
	}
	return k
}

// Delete removes the single value under key in a flat sub-database.
// A missing key is not an error (matches spec §8's idempotent-drop
// contract at the storage layer; callers surface NotFound at the graph
// layer where "missing" is meaningful).
func (t *RwTxn) Delete(db string, key []byte) error {
	b, err := getBucket(t.tx, db)
	if err != nil {
		return err
	}
	if err := b.Delete(key); err != nil {
		return herrors.NewStorage("delete", err)
	}
	return nil
}

// DeleteOneDuplicate removes the first duplicate entry under key whose
// value equals want, per spec §4.1/§9. If multiple identical duplicates
// exist (should not happen under invariants) only one is removed.
func (t *RwTxn) DeleteOneDuplicate(db string, key, want []byte) error {
	b, err := getBucket(t.tx, db)
	if err != nil {
		return err
	}
	nested := b.Bucket(key)
	if nested == nil {
		return nil
	}
	c := nested.Cursor()
	matches := 0
	var firstMatch []byte
	for k, v := c.First(); k != nil; k, v = c.Next() {
		if bytes.Equal(v, want) {
			matches++
			if firstMatch == nil {
				firstMatch = append([]byte(nil), k...)
			}
		}
	}
	if firstMatch == nil {
		return nil
	}
	if err := nested.Delete(firstMatch); err != nil {
		return herrors.NewStorage("delete-one-dup", err)
	}
	return nil
}

// DeleteAllDuplicates removes every duplicate entry under key, and the
// nested bucket itself.
func (t *RwTxn) DeleteAllDuplicates(db string, key []byte) error {
	b, err := getBucket(t.tx, db)
	if err != nil {
		return err
	}
	if b.Bucket(key) == nil {
		return nil
	}
	if err := b.DeleteBucket(key); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
		return herrors.NewStorage("delete-all-dups", err)
	}
	return nil
}
