package pathfind

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/config"
	"github.com/helixdb/helix-core/pkg/graph"
	"github.com/helixdb/helix-core/pkg/herrors"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/kv"
	"github.com/helixdb/helix-core/pkg/value"
)

// testGraph opens a scratch environment and returns a Store plus a
// builder for populating it. The cases build at most a three-node chain
// a -> b -> c, one of them with a direct a -> c edge carrying its own
// "weight".
type testGraph struct {
	env   *kv.Env
	store *graph.Store
}

func newTestGraph(t *testing.T) *testGraph {
	t.Helper()
	env, err := kv.Open(filepath.Join(t.TempDir(), "test.db"), 0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })
	require.NoError(t, env.EnsureDBs(kv.CoreDBs...))
	return &testGraph{env: env, store: graph.New(config.Schema{})}
}

func (g *testGraph) addNode(t *testing.T, label string) ids.ID {
	t.Helper()
	tx, err := g.env.BeginWrite()
	require.NoError(t, err)
	n, err := g.store.AddNode(tx, label, nil)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	return n.ID
}

func (g *testGraph) addEdge(t *testing.T, label string, from, to ids.ID, weight float64) ids.ID {
	t.Helper()
	tx, err := g.env.BeginWrite()
	require.NoError(t, err)
	var props *value.Object
	if weight != 0 {
		props = value.NewObject()
		props.Set("weight", value.F64(weight))
	}
	e, err := g.store.AddEdge(tx, label, codec.EdgeTypeNode, from, to, props, true)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	return e.ID
}

func (g *testGraph) read(t *testing.T) (*kv.RoTxn, func()) {
	t.Helper()
	tx, err := g.env.BeginRead()
	require.NoError(t, err)
	return tx, func() { tx.Rollback() }
}

func TestBFS_SelfLoop(t *testing.T) {
	g := newTestGraph(t)
	a := g.addNode(t, "N")
	tx, done := g.read(t)
	defer done()

	p, err := BFS(tx, g.store, a, a, "")
	require.NoError(t, err)
	require.Equal(t, []ids.ID{a}, p.Nodes)
	require.Empty(t, p.Edges)
}

func TestBFS_Chain(t *testing.T) {
	g := newTestGraph(t)
	a := g.addNode(t, "N")
	b := g.addNode(t, "N")
	c := g.addNode(t, "N")
	e1 := g.addEdge(t, "next", a, b, 0)
	e2 := g.addEdge(t, "next", b, c, 0)

	tx, done := g.read(t)
	defer done()

	p, err := BFS(tx, g.store, a, c, "")
	require.NoError(t, err)
	require.Equal(t, []ids.ID{a, b, c}, p.Nodes)
	require.Equal(t, []ids.ID{e1, e2}, p.Edges)
}

func TestBFS_LabelFilterExcludesOtherEdges(t *testing.T) {
	g := newTestGraph(t)
	a := g.addNode(t, "N")
	b := g.addNode(t, "N")
	g.addEdge(t, "other", a, b, 0)

	tx, done := g.read(t)
	defer done()

	_, err := BFS(tx, g.store, a, b, "next")
	require.ErrorIs(t, err, herrors.ErrShortestPathNotFound)
}

func TestBFS_Unreachable(t *testing.T) {
	g := newTestGraph(t)
	a := g.addNode(t, "N")
	b := g.addNode(t, "N")

	tx, done := g.read(t)
	defer done()

	_, err := BFS(tx, g.store, a, b, "")
	require.ErrorIs(t, err, herrors.ErrShortestPathNotFound)
}

func TestDijkstra_PrefersCheaperPath(t *testing.T) {
	g := newTestGraph(t)
	a := g.addNode(t, "N")
	b := g.addNode(t, "N")
	c := g.addNode(t, "N")
	e1 := g.addEdge(t, "next", a, b, 1)
	e2 := g.addEdge(t, "next", b, c, 1)
	direct := g.addEdge(t, "next", a, c, 10)

	tx, done := g.read(t)
	defer done()

	p, err := Dijkstra(tx, g.store, a, c, "")
	require.NoError(t, err)
	require.Equal(t, []ids.ID{a, b, c}, p.Nodes)
	require.Equal(t, []ids.ID{e1, e2}, p.Edges)
	require.NotContains(t, p.Edges, direct)
}

func TestDijkstra_DefaultWeightIsOne(t *testing.T) {
	g := newTestGraph(t)
	a := g.addNode(t, "N")
	b := g.addNode(t, "N")
	g.addEdge(t, "next", a, b, 0) // no weight property set

	tx, done := g.read(t)
	defer done()

	p, err := Dijkstra(tx, g.store, a, b, "")
	require.NoError(t, err)
	require.Equal(t, []ids.ID{a, b}, p.Nodes)
}

func TestDijkstra_RejectsNegativeWeight(t *testing.T) {
	g := newTestGraph(t)
	a := g.addNode(t, "N")
	b := g.addNode(t, "N")
	g.addEdge(t, "next", a, b, -1)

	tx, done := g.read(t)
	defer done()

	_, err := Dijkstra(tx, g.store, a, b, "")
	require.ErrorIs(t, err, herrors.ErrTraversal)
}
