package traversal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helixdb/helix-core/pkg/arena"
	"github.com/helixdb/helix-core/pkg/bm25"
	"github.com/helixdb/helix-core/pkg/config"
	"github.com/helixdb/helix-core/pkg/graph"
	"github.com/helixdb/helix-core/pkg/keys"
	"github.com/helixdb/helix-core/pkg/kv"
	"github.com/helixdb/helix-core/pkg/vectorindex"
)

// harness wires a scratch environment the way pkg/engine would, without
// depending on it (pkg/engine itself exercises pkg/traversal, so the
// dependency would be circular).
type harness struct {
	env *kv.Env
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	env, err := kv.Open(filepath.Join(t.TempDir(), "test.db"), 0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })

	names := append([]string{}, kv.CoreDBs...)
	for level := 0; level < vectorindex.MaxLevels; level++ {
		names = append(names, keys.VectorAdjLevelDB(level))
	}
	require.NoError(t, env.EnsureDBs(names...))
	return &harness{env: env}
}

// writeCtx opens a write transaction and a Context over it, and returns
// a commit function the test calls once it's done mutating. Tests that
// need to read back what they wrote open a fresh readCtx afterward,
// matching the engine's "visible to readers only after commit" rule.
func (h *harness) writeCtx(t *testing.T) (*Context, func()) {
	t.Helper()
	tx, err := h.env.BeginWrite()
	require.NoError(t, err)
	ctx := &Context{
		R:      tx,
		W:      tx,
		Graph:  graph.New(config.Schema{}),
		Vector: vectorindex.New(vectorindex.DefaultConfig()),
		BM25:   bm25.New(),
		Arena:  arena.New(),
	}
	return ctx, func() { require.NoError(t, tx.Commit()) }
}

func (h *harness) readCtx(t *testing.T) (*Context, func()) {
	t.Helper()
	tx, err := h.env.BeginRead()
	require.NoError(t, err)
	return &Context{
		R:      tx,
		Graph:  graph.New(config.Schema{}),
		Vector: vectorindex.New(vectorindex.DefaultConfig()),
		BM25:   bm25.New(),
		Arena:  arena.New(),
	}, func() { tx.Rollback() }
}
