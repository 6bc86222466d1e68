package engine

import (
	"fmt"

	"github.com/helixdb/helix-core/pkg/arena"
	"github.com/helixdb/helix-core/pkg/herrors"
	"github.com/helixdb/helix-core/pkg/traversal"
)

// View opens a read-only transaction, builds a Context bound to it, and
// runs fn. The transaction's arena and snapshot do not outlive the call
// (spec §5's "views into the arena must not outlive it"); any value a
// caller needs after View returns must be copied out, not retained from
// a traversal.Item.
func (e *Engine) View(fn func(*traversal.Context) error) (err error) {
	tx, err := e.env.BeginRead()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	defer recoverInternal(&err)

	ctx := &traversal.Context{
		R:      tx,
		Graph:  e.graph,
		Vector: e.vector,
		BM25:   e.bm25,
		Arena:  arena.New(),
	}
	return fn(ctx)
}

// Update opens a write transaction, builds a Context bound to it, runs
// fn, and commits on success. Any error from fn — or a panic recovered
// at this boundary — aborts the transaction instead (spec §4.4 "the
// write transaction is dropped on any error, preserving atomicity"; no
// partial commits per spec §4.8).
func (e *Engine) Update(fn func(*traversal.Context) error) (err error) {
	tx, err := e.env.BeginWrite()
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()
	defer recoverInternal(&err)

	ctx := &traversal.Context{
		R:      tx,
		W:      tx,
		Graph:  e.graph,
		Vector: e.vector,
		BM25:   e.bm25,
		Arena:  arena.New(),
	}
	if err := fn(ctx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// recoverInternal turns a panic inside fn into an herrors.Internal
// rather than letting it cross the Engine method boundary (spec §7: "no
// panics returned to the client path").
func recoverInternal(err *error) {
	if r := recover(); r != nil {
		*err = herrors.NewInternal(fmt.Sprint(r))
	}
}
