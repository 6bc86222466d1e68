package engine

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helixdb/helix-core/pkg/bm25"
	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/config"
	"github.com/helixdb/helix-core/pkg/herrors"
	"github.com/helixdb/helix-core/pkg/hybrid"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/traversal"
	"github.com/helixdb/helix-core/pkg/value"
)

func openTestEngine(t *testing.T, cfg *config.Config) *Engine {
	t.Helper()
	if cfg == nil {
		cfg = config.Default(filepath.Join(t.TempDir(), "test.db"))
	} else if cfg.Path == "" {
		cfg.Path = filepath.Join(t.TempDir(), "test.db")
	}
	e, err := Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

// Scenario 1: create+adjacency.
func TestScenario_CreateAndAdjacency(t *testing.T) {
	e := openTestEngine(t, nil)

	var a, b, c ids.ID
	err := e.Update(func(ctx *traversal.Context) error {
		na, err := traversal.AddN(ctx, "Person", nil).Collect()
		if err != nil {
			return err
		}
		nb, err := traversal.AddN(ctx, "Person", nil).Collect()
		if err != nil {
			return err
		}
		nc, err := traversal.AddN(ctx, "Person", nil).Collect()
		if err != nil {
			return err
		}
		a, b, c = na[0].Node.ID, nb[0].Node.ID, nc[0].Node.ID
		if _, err := traversal.AddE(ctx, "knows", codec.EdgeTypeNode, a, b, nil, true).Collect(); err != nil {
			return err
		}
		_, err = traversal.AddE(ctx, "knows", codec.EdgeTypeNode, b, c, nil, true).Collect()
		return err
	})
	require.NoError(t, err)

	err = e.View(func(ctx *traversal.Context) error {
		got, err := traversal.FromNodeID(ctx, a).Out("knows", codec.EdgeTypeNode).Out("knows", codec.EdgeTypeNode).Collect()
		if err != nil {
			return err
		}
		require.Len(t, got, 1)
		require.Equal(t, c, got[0].Node.ID)
		return nil
	})
	require.NoError(t, err)
}

// Scenario 2: unique index.
func TestScenario_UniqueIndex(t *testing.T) {
	cfg := config.Default("")
	cfg.Schema = config.Schema{
		Nodes: []config.LabelSchema{
			{Label: "User", Fields: []config.FieldSchema{{Name: "email", Type: "string", Unique: true}}},
		},
	}
	e := openTestEngine(t, cfg)

	email := value.NewObject()
	email.Set("email", value.String("x"))

	var first ids.ID
	err := e.Update(func(ctx *traversal.Context) error {
		items, err := traversal.AddN(ctx, "User", email).Collect()
		if err != nil {
			return err
		}
		first = items[0].Node.ID
		return nil
	})
	require.NoError(t, err)

	err = e.Update(func(ctx *traversal.Context) error {
		_, err := traversal.AddN(ctx, "User", email).Collect()
		return err
	})
	require.Error(t, err)
	require.ErrorIs(t, err, herrors.ErrDuplicateKey)

	err = e.View(func(ctx *traversal.Context) error {
		got, err := traversal.FromNodeIndex(ctx, "email", value.String("x")).Collect()
		if err != nil {
			return err
		}
		require.Len(t, got, 1)
		require.Equal(t, first, got[0].Node.ID)
		return nil
	})
	require.NoError(t, err)
}

// Scenario 3: HNSW recall smoke test.
func TestScenario_HNSWRecall(t *testing.T) {
	e := openTestEngine(t, nil)
	rng := rand.New(rand.NewSource(1))

	var queryID ids.ID
	query := make([]float64, 64)
	for i := range query {
		query[i] = rng.Float64()
	}

	err := e.Update(func(ctx *traversal.Context) error {
		for i := 0; i < 1000; i++ {
			v := make([]float64, 64)
			for j := range v {
				v[j] = rng.Float64()
			}
			if _, err := ctx.Vector.Insert(ctx.W, "Doc", v); err != nil {
				return err
			}
		}
		qv, err := ctx.Vector.Insert(ctx.W, "Doc", query)
		if err != nil {
			return err
		}
		queryID = qv.ID
		return nil
	})
	require.NoError(t, err)

	err = e.View(func(ctx *traversal.Context) error {
		got, err := traversal.SearchV(ctx, query, 1, "Doc", nil).Collect()
		if err != nil {
			return err
		}
		require.Len(t, got, 1)
		require.Equal(t, queryID, got[0].Vector.ID)
		require.InDelta(t, 0, got[0].Dist, 1e-9)
		return nil
	})
	require.NoError(t, err)
}

// Scenario 4: BM25 ordering.
func TestScenario_BM25Ordering(t *testing.T) {
	e := openTestEngine(t, nil)

	docs := map[string]string{
		"doc1": "machine learning machine learning",
		"doc2": "machine learning",
		"doc3": "learning",
		"doc4": "machine",
	}
	byID := make(map[ids.ID]string)
	err := e.Update(func(ctx *traversal.Context) error {
		for key, text := range docs {
			props := value.NewObject()
			props.Set("body", value.String(text))
			items, err := traversal.AddN(ctx, "Doc", props).Collect()
			if err != nil {
				return err
			}
			id := items[0].Node.ID
			byID[id] = key
			if err := ctx.BM25.UpdateDoc(ctx.W, id, "Doc", props); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	var scores []bm25.DocScore
	err = e.View(func(ctx *traversal.Context) error {
		var err error
		scores, err = ctx.BM25.Search(ctx.R, "machine learning", 10)
		return err
	})
	require.NoError(t, err)
	require.Len(t, scores, 4)
	for _, s := range scores {
		require.False(t, math.IsNaN(s.Score) || math.IsInf(s.Score, 0))
	}
	require.Equal(t, "doc1", byID[scores[0].DocID])
	require.Equal(t, "doc2", byID[scores[1].DocID])
}

// Scenario 5: hybrid alpha boundary equivalence.
func TestScenario_HybridAlphaBoundaries(t *testing.T) {
	e := openTestEngine(t, nil)

	var docID ids.ID
	err := e.Update(func(ctx *traversal.Context) error {
		props := value.NewObject()
		props.Set("body", value.String("machine learning"))
		items, err := traversal.AddN(ctx, "Doc", props).Collect()
		if err != nil {
			return err
		}
		docID = items[0].Node.ID
		if err := ctx.BM25.UpdateDoc(ctx.W, docID, "Doc", props); err != nil {
			return err
		}
		altProps := value.NewObject()
		altProps.Set("body", value.String("unrelated text"))
		altItems, err := traversal.AddN(ctx, "Doc", altProps).Collect()
		if err != nil {
			return err
		}
		altID := altItems[0].Node.ID
		if err := ctx.BM25.UpdateDoc(ctx.W, altID, "Doc", altProps); err != nil {
			return err
		}

		v, err := ctx.Vector.Insert(ctx.W, "Doc", []float64{1, 0})
		if err != nil {
			return err
		}
		_ = v
		altV, err := ctx.Vector.Insert(ctx.W, "Doc", []float64{0, 1})
		if err != nil {
			return err
		}
		_ = altV
		return nil
	})
	require.NoError(t, err)

	err = e.View(func(ctx *traversal.Context) error {
		bmHits, err := ctx.BM25.Search(ctx.R, "machine learning", 10)
		if err != nil {
			return err
		}
		vecHits, err := ctx.Vector.Search(ctx.R, []float64{1, 0}, 10, "Doc", nil)
		if err != nil {
			return err
		}

		pureBM25 := hybrid.Fuse(bmHits, vecHits, 1.0, 10)
		require.Equal(t, docID, pureBM25[0].ID)

		pureVector := hybrid.Fuse(bmHits, vecHits, 0.0, 10)
		require.NotEmpty(t, pureVector)
		return nil
	})
	require.NoError(t, err)
}

// Scenario 6: BFS shortest path, including the unreachable case.
func TestScenario_BFSShortestPath(t *testing.T) {
	e := openTestEngine(t, nil)

	var a, d ids.ID
	var e1, e2, e3 ids.ID
	err := e.Update(func(ctx *traversal.Context) error {
		na, _ := traversal.AddN(ctx, "N", nil).Collect()
		nb, _ := traversal.AddN(ctx, "N", nil).Collect()
		nc, _ := traversal.AddN(ctx, "N", nil).Collect()
		nd, _ := traversal.AddN(ctx, "N", nil).Collect()
		a = na[0].Node.ID
		b := nb[0].Node.ID
		c := nc[0].Node.ID
		d = nd[0].Node.ID
		e1Items, err := traversal.AddE(ctx, "r", codec.EdgeTypeNode, a, b, nil, true).Collect()
		if err != nil {
			return err
		}
		e2Items, err := traversal.AddE(ctx, "r", codec.EdgeTypeNode, b, c, nil, true).Collect()
		if err != nil {
			return err
		}
		e3Items, err := traversal.AddE(ctx, "r", codec.EdgeTypeNode, c, d, nil, true).Collect()
		if err != nil {
			return err
		}
		e1, e2, e3 = e1Items[0].Edge.ID, e2Items[0].Edge.ID, e3Items[0].Edge.ID
		return nil
	})
	require.NoError(t, err)

	err = e.View(func(ctx *traversal.Context) error {
		fromItems, err := traversal.FromNodeID(ctx, a).Collect()
		if err != nil {
			return err
		}
		toItems, err := traversal.FromNodeID(ctx, d).Collect()
		if err != nil {
			return err
		}
		got, err := traversal.ShortestPath(ctx, fromItems[0], toItems[0], "r", traversal.AlgorithmBFS).Collect()
		if err != nil {
			return err
		}
		require.Equal(t, []ids.ID{e1, e2, e3}, got[0].Path.Edges)
		return nil
	})
	require.NoError(t, err)

	err = e.Update(func(ctx *traversal.Context) error {
		isolated, err := traversal.AddN(ctx, "N", nil).Collect()
		if err != nil {
			return err
		}
		fromItems, err := traversal.FromNodeID(ctx, a).Collect()
		if err != nil {
			return err
		}
		_, err = traversal.ShortestPath(ctx, fromItems[0], isolated[0], "r", traversal.AlgorithmBFS).Collect()
		return err
	})
	require.ErrorIs(t, err, herrors.ErrShortestPathNotFound)
}

// Scenario 7: Dijkstra weighted vs BFS unweighted.
func TestScenario_DijkstraPrefersCheaperPath(t *testing.T) {
	e := openTestEngine(t, nil)

	var a, c ids.ID
	err := e.Update(func(ctx *traversal.Context) error {
		na, _ := traversal.AddN(ctx, "N", nil).Collect()
		nb, _ := traversal.AddN(ctx, "N", nil).Collect()
		nc, _ := traversal.AddN(ctx, "N", nil).Collect()
		a = na[0].Node.ID
		b := nb[0].Node.ID
		c = nc[0].Node.ID

		direct := value.NewObject()
		direct.Set("weight", value.F64(5))
		if _, err := traversal.AddE(ctx, "r", codec.EdgeTypeNode, a, c, direct, true).Collect(); err != nil {
			return err
		}
		cheap1 := value.NewObject()
		cheap1.Set("weight", value.F64(1))
		if _, err := traversal.AddE(ctx, "r", codec.EdgeTypeNode, a, b, cheap1, true).Collect(); err != nil {
			return err
		}
		cheap2 := value.NewObject()
		cheap2.Set("weight", value.F64(1))
		_, err := traversal.AddE(ctx, "r", codec.EdgeTypeNode, b, c, cheap2, true).Collect()
		return err
	})
	require.NoError(t, err)

	err = e.View(func(ctx *traversal.Context) error {
		fromItems, err := traversal.FromNodeID(ctx, a).Collect()
		if err != nil {
			return err
		}
		toItems, err := traversal.FromNodeID(ctx, c).Collect()
		if err != nil {
			return err
		}

		dijkstra, err := traversal.ShortestPath(ctx, fromItems[0], toItems[0], "r", traversal.AlgorithmDijkstra).Collect()
		if err != nil {
			return err
		}
		require.Len(t, dijkstra[0].Path.Nodes, 3) // via B

		bfs, err := traversal.ShortestPath(ctx, fromItems[0], toItems[0], "r", traversal.AlgorithmBFS).Collect()
		if err != nil {
			return err
		}
		require.Len(t, bfs[0].Path.Nodes, 2) // direct A->C, first adjacency entry
		return nil
	})
	require.NoError(t, err)
}

// Scenario 8: tombstone behavior.
func TestScenario_TombstoneHidesDeletedVector(t *testing.T) {
	e := openTestEngine(t, nil)

	var id ids.ID
	err := e.Update(func(ctx *traversal.Context) error {
		v, err := ctx.Vector.Insert(ctx.W, "Doc", []float64{1, 0})
		if err != nil {
			return err
		}
		id = v.ID
		return ctx.Vector.Delete(ctx.W, id)
	})
	require.NoError(t, err)

	err = e.View(func(ctx *traversal.Context) error {
		hits, err := ctx.Vector.Search(ctx.R, []float64{1, 0}, 10, "Doc", nil)
		if err != nil && err != herrors.ErrEntryPointNotFound {
			return err
		}
		for _, h := range hits {
			require.NotEqual(t, id, h.Vector.ID)
		}
		return nil
	})
	require.NoError(t, err)
}

// Round-trip/idempotence: drop is idempotent on an absent target.
func TestDrop_IdempotentOnAbsentTarget(t *testing.T) {
	e := openTestEngine(t, nil)

	missing := ids.New()
	err := e.Update(func(ctx *traversal.Context) error {
		_, err := traversal.FromNodeID(ctx, missing).Drop().Collect()
		return err
	})
	require.Error(t, err)
	require.True(t, herrors.IsNotFound(err))
}

// Round-trip/idempotence: upsert applied twice yields the latter props.
func TestUpsertNode_AppliedTwiceIsIdempotent(t *testing.T) {
	cfg := config.Default("")
	cfg.Schema = config.Schema{
		Nodes: []config.LabelSchema{
			{Label: "User", Fields: []config.FieldSchema{{Name: "email", Type: "string", Unique: true}}},
		},
	}
	e := openTestEngine(t, cfg)

	var firstID ids.ID
	err := e.Update(func(ctx *traversal.Context) error {
		props := value.NewObject()
		props.Set("email", value.String("a@example.com"))
		props.Set("name", value.String("first"))
		n, err := ctx.Graph.UpsertNode(ctx.W, "User", "email", value.String("a@example.com"), props)
		if err != nil {
			return err
		}
		firstID = n.ID
		return nil
	})
	require.NoError(t, err)

	err = e.Update(func(ctx *traversal.Context) error {
		props := value.NewObject()
		props.Set("email", value.String("a@example.com"))
		props.Set("name", value.String("second"))
		n, err := ctx.Graph.UpsertNode(ctx.W, "User", "email", value.String("a@example.com"), props)
		if err != nil {
			return err
		}
		require.Equal(t, firstID, n.ID)
		return nil
	})
	require.NoError(t, err)

	err = e.View(func(ctx *traversal.Context) error {
		got, err := traversal.FromNodeID(ctx, firstID).Collect()
		if err != nil {
			return err
		}
		name, _ := got[0].Node.Properties.Get("name")
		require.Equal(t, "second", name.Str)
		return nil
	})
	require.NoError(t, err)
}

func TestEngine_UpdateRollsBackOnError(t *testing.T) {
	e := openTestEngine(t, nil)

	sentinel := herrors.NewInvalidInput("boom")
	err := e.Update(func(ctx *traversal.Context) error {
		if _, err := traversal.AddN(ctx, "Person", nil).Collect(); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	err = e.View(func(ctx *traversal.Context) error {
		n, err := traversal.FromNodeType(ctx, "Person").Count()
		if err != nil {
			return err
		}
		require.Equal(t, uint64(0), n)
		return nil
	})
	require.NoError(t, err)
}

func TestEngine_UpdateRecoversPanic(t *testing.T) {
	e := openTestEngine(t, nil)

	err := e.Update(func(ctx *traversal.Context) error {
		panic("boom")
	})
	require.Error(t, err)
	var internal *herrors.Internal
	require.ErrorAs(t, err, &internal)
}
