package traversal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/ids"
)

func seedChain(t *testing.T, h *harness) (a, b, c ids.ID) {
	t.Helper()
	wctx, commit := h.writeCtx(t)
	aItems, err := AddN(wctx, "N", nil).Collect()
	require.NoError(t, err)
	bItems, err := AddN(wctx, "N", nil).Collect()
	require.NoError(t, err)
	cItems, err := AddN(wctx, "N", nil).Collect()
	require.NoError(t, err)
	a, b, c = aItems[0].Node.ID, bItems[0].Node.ID, cItems[0].Node.ID
	_, err = AddE(wctx, "next", codec.EdgeTypeNode, a, b, nil, true).Collect()
	require.NoError(t, err)
	_, err = AddE(wctx, "next", codec.EdgeTypeNode, b, c, nil, true).Collect()
	require.NoError(t, err)
	commit()
	return a, b, c
}

func TestOut_WalksForward(t *testing.T) {
	h := newHarness(t)
	a, b, _ := seedChain(t, h)

	rctx, done := h.readCtx(t)
	defer done()
	got, err := FromNodeID(rctx, a).Out("next", codec.EdgeTypeNode).Collect()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, b, got[0].Node.ID)
}

func TestIn_WalksBackward(t *testing.T) {
	h := newHarness(t)
	a, b, _ := seedChain(t, h)

	rctx, done := h.readCtx(t)
	defer done()
	got, err := FromNodeID(rctx, b).In_("next", codec.EdgeTypeNode).Collect()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, a, got[0].Node.ID)
}

func TestOutE_YieldsEdgeNotNode(t *testing.T) {
	h := newHarness(t)
	a, _, _ := seedChain(t, h)

	rctx, done := h.readCtx(t)
	defer done()
	got, err := FromNodeID(rctx, a).OutE("next").Collect()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, KindEdge, got[0].Kind)
}

func TestOut_OnNonNodeYieldsEmpty(t *testing.T) {
	h := newHarness(t)
	a, _, _ := seedChain(t, h)

	rctx, done := h.readCtx(t)
	defer done()
	got, err := FromNodeID(rctx, a).OutE("next").Out("next", codec.EdgeTypeNode).Collect()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, KindEmpty, got[0].Kind)
}

func TestFromN_ToN(t *testing.T) {
	h := newHarness(t)
	a, b, _ := seedChain(t, h)

	rctx, done := h.readCtx(t)
	defer done()
	fromSide, err := FromNodeID(rctx, a).OutE("next").FromN().Collect()
	require.NoError(t, err)
	require.Equal(t, a, fromSide[0].Node.ID)

	toSide, err := FromNodeID(rctx, a).OutE("next").ToN().Collect()
	require.NoError(t, err)
	require.Equal(t, b, toSide[0].Node.ID)
}

func TestFromV_ToV_EmptyOnNodeTypedEdge(t *testing.T) {
	h := newHarness(t)
	a, _, _ := seedChain(t, h)

	rctx, done := h.readCtx(t)
	defer done()
	got, err := FromNodeID(rctx, a).OutE("next").FromV().Collect()
	require.NoError(t, err)
	require.Equal(t, KindEmpty, got[0].Kind)
}

// seedNodeVectorEdge builds a single Vec-typed edge a --embeds--> v,
// connecting node a to vector v (spec §3's node<->vector edges).
func seedNodeVectorEdge(t *testing.T, h *harness) (a ids.ID, v ids.ID) {
	t.Helper()
	wctx, commit := h.writeCtx(t)
	aItems, err := AddN(wctx, "Doc", nil).Collect()
	require.NoError(t, err)
	a = aItems[0].Node.ID
	vec, err := wctx.Vector.Insert(wctx.W, "Embedding", []float64{1, 2, 3})
	require.NoError(t, err)
	v = vec.ID
	_, err = AddE(wctx, "embeds", codec.EdgeTypeVec, a, v, nil, true).Collect()
	require.NoError(t, err)
	commit()
	return a, v
}

func TestOut_WalksVecTypedEdgeToVector(t *testing.T) {
	h := newHarness(t)
	a, v := seedNodeVectorEdge(t, h)

	rctx, done := h.readCtx(t)
	defer done()
	got, err := FromNodeID(rctx, a).Out("embeds", codec.EdgeTypeVec).Collect()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, KindVector, got[0].Kind)
	require.Equal(t, v, got[0].Vector.ID)
}

func TestOut_FiltersOutNonMatchingEdgeType(t *testing.T) {
	h := newHarness(t)
	a, _ := seedNodeVectorEdge(t, h)

	rctx, done := h.readCtx(t)
	defer done()
	got, err := FromNodeID(rctx, a).Out("embeds", codec.EdgeTypeNode).Collect()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFromV_ResolvesVectorSideOfVecTypedEdge(t *testing.T) {
	h := newHarness(t)
	a, v := seedNodeVectorEdge(t, h)

	rctx, done := h.readCtx(t)
	defer done()
	got, err := FromNodeID(rctx, a).OutE("embeds").ToV().Collect()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, KindVector, got[0].Kind)
	require.Equal(t, v, got[0].Vector.ID)

	fromSide, err := FromNodeID(rctx, a).OutE("embeds").FromN().Collect()
	require.NoError(t, err)
	require.Equal(t, a, fromSide[0].Node.ID)
}

func TestShortestPath_BFS(t *testing.T) {
	h := newHarness(t)
	a, _, c := seedChain(t, h)

	rctx, done := h.readCtx(t)
	defer done()
	fromItem := mustOne(t, FromNodeID(rctx, a))
	toItem := mustOne(t, FromNodeID(rctx, c))

	got, err := ShortestPath(rctx, fromItem, toItem, "", AlgorithmBFS).Collect()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, KindPath, got[0].Kind)
	require.Len(t, got[0].Path.Nodes, 3)
}

func TestShortestPath_NonNodeInputFails(t *testing.T) {
	h := newHarness(t)
	a, _, _ := seedChain(t, h)

	rctx, done := h.readCtx(t)
	defer done()
	edgeItem := mustOne(t, FromNodeID(rctx, a).OutE("next"))
	nodeItem := mustOne(t, FromNodeID(rctx, a))

	_, err := ShortestPath(rctx, edgeItem, nodeItem, "", AlgorithmBFS).Collect()
	require.Error(t, err)
}

func mustOne(t *testing.T, tr *Traversal) Item {
	t.Helper()
	items, err := tr.Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	return items[0]
}
