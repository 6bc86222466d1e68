package bm25

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/kv"
	"github.com/helixdb/helix-core/pkg/value"
)

func newTestEnv(t *testing.T) *kv.Env {
	t.Helper()
	env, err := kv.Open(filepath.Join(t.TempDir(), "test.db"), 0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })
	require.NoError(t, env.EnsureDBs(kv.CoreDBs...))
	return env
}

func docProps(body string) *value.Object {
	o := value.NewObject()
	o.Set("body", value.String(body))
	return o
}

func TestTokenize_LowercasesAndDropsShortTokens(t *testing.T) {
	toks := Tokenize("The Machine-Learning is GREAT, ok? a ab abc")
	require.Equal(t, []string{"the", "machine", "learning", "great", "abc"}, toks)
}

func TestUpdateDoc_Search_OrdersByRelevance(t *testing.T) {
	env := newTestEnv(t)
	ix := New()
	wtx, err := env.BeginWrite()
	require.NoError(t, err)

	doc1, doc2, doc3, doc4 := ids.New(), ids.New(), ids.New(), ids.New()
	require.NoError(t, ix.UpdateDoc(wtx, doc1, "Doc", docProps("machine learning machine learning")))
	require.NoError(t, ix.UpdateDoc(wtx, doc2, "Doc", docProps("machine learning")))
	require.NoError(t, ix.UpdateDoc(wtx, doc3, "Doc", docProps("learning")))
	require.NoError(t, ix.UpdateDoc(wtx, doc4, "Doc", docProps("machine")))

	scores, err := ix.Search(wtx, "machine learning", 10)
	require.NoError(t, err)
	require.Len(t, scores, 4)
	for _, s := range scores {
		require.False(t, math.IsNaN(s.Score) || math.IsInf(s.Score, 0))
	}
	require.Equal(t, doc1, scores[0].DocID)
	require.Equal(t, doc2, scores[1].DocID)
}

func TestUpdateDoc_ReindexingRemovesStalePostings(t *testing.T) {
	env := newTestEnv(t)
	ix := New()
	wtx, err := env.BeginWrite()
	require.NoError(t, err)

	doc := ids.New()
	require.NoError(t, ix.UpdateDoc(wtx, doc, "Doc", docProps("alpha beta")))
	require.NoError(t, ix.UpdateDoc(wtx, doc, "Doc", docProps("gamma")))

	scores, err := ix.Search(wtx, "alpha", 10)
	require.NoError(t, err)
	require.Empty(t, scores)

	scores, err = ix.Search(wtx, "gamma", 10)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	require.Equal(t, doc, scores[0].DocID)
}

func TestDeleteDoc_IsIdempotentOnUnindexedDoc(t *testing.T) {
	env := newTestEnv(t)
	ix := New()
	wtx, err := env.BeginWrite()
	require.NoError(t, err)

	require.NoError(t, ix.DeleteDoc(wtx, ids.New()))
}

func TestDeleteDoc_RemovesDocFromSearchResults(t *testing.T) {
	env := newTestEnv(t)
	ix := New()
	wtx, err := env.BeginWrite()
	require.NoError(t, err)

	doc := ids.New()
	require.NoError(t, ix.UpdateDoc(wtx, doc, "Doc", docProps("unique term")))
	require.NoError(t, ix.DeleteDoc(wtx, doc))

	scores, err := ix.Search(wtx, "unique", 10)
	require.NoError(t, err)
	require.Empty(t, scores)
}

func TestSearch_LimitZeroReturnsNilNil(t *testing.T) {
	env := newTestEnv(t)
	ix := New()
	rtx, err := env.BeginRead()
	require.NoError(t, err)
	defer rtx.Rollback()

	got, err := ix.Search(rtx, "anything", 0)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSearch_BoundaryWithNoDocsIsFiniteNotNaN(t *testing.T) {
	env := newTestEnv(t)
	ix := New()
	rtx, err := env.BeginRead()
	require.NoError(t, err)
	defer rtx.Rollback()

	got, err := ix.Search(rtx, "anything", 10)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRecomputeMetadata_TracksAvgdlAcrossDocs(t *testing.T) {
	env := newTestEnv(t)
	ix := New()
	wtx, err := env.BeginWrite()
	require.NoError(t, err)

	require.NoError(t, ix.UpdateDoc(wtx, ids.New(), "Doc", docProps("one two three")))
	require.NoError(t, ix.UpdateDoc(wtx, ids.New(), "Doc", docProps("four five six seven")))

	meta, err := getMetadata(wtx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), meta.TotalDocs)
	// Flatten prepends "doc body " to each document, so doc lengths are
	// 5 ("one two three") and 6 ("four five six seven") tokens.
	require.Equal(t, 5.5, meta.Avgdl)
}
