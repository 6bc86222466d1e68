package traversal

import (
	"github.com/helixdb/helix-core/pkg/arena"
	"github.com/helixdb/helix-core/pkg/bm25"
	"github.com/helixdb/helix-core/pkg/graph"
	"github.com/helixdb/helix-core/pkg/kv"
	"github.com/helixdb/helix-core/pkg/vectorindex"
)

// Reader is the read surface a traversal needs from its transaction.
type Reader interface {
	Get(db string, key []byte) ([]byte, error)
	GetDuplicates(db string, key []byte) ([][]byte, error)
	PrefixIter(db string, prefix []byte, walker func(k, v []byte) error) error
	PrefixIterDup(db string, prefix []byte, walker func(k, v []byte) error) error
}

// Context binds a transaction to the indices a traversal may need,
// following spec §5's "transaction is the unit of work" model: a
// traversal never outlives the Context it was built from.
type Context struct {
	R      Reader
	W      *kv.RwTxn // nil for a read-only traversal; required by mutation steps
	Graph  *graph.Store
	Vector *vectorindex.Index
	BM25   *bm25.Index
	Arena  *arena.Arena
}

// Traversal is one lazy pipeline: a Context plus the pull chain built up
// by chaining step methods.
type Traversal struct {
	ctx *Context
	cur pull
	err error
}

func newTraversal(ctx *Context, p pull) *Traversal {
	return &Traversal{ctx: ctx, cur: p}
}

// step wraps cur with a transform. When t.err is set the transform is
// skipped and t is returned as is; the constructors in this package never
// set it, since they carry failures inside the pull chain (see failing),
// so callers chain without an error check after every call and see any
// failure once, from Collect/Count.
func (t *Traversal) step(f func(pull) pull) *Traversal {
	if t.err != nil {
		return t
	}
	return newTraversal(t.ctx, f(t.cur))
}

// Err returns the error recorded on the traversal itself. The
// constructors and steps in this package do not record one: their
// failures travel through the pull chain and surface on Collect, Count or
// Cursor.Next, so Err returns nil for the traversals they build.
func (t *Traversal) Err() error { return t.err }
