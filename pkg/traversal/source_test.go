package traversal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/value"
)

func TestFromNodeID_MissingIDErrors(t *testing.T) {
	h := newHarness(t)
	ctx, done := h.readCtx(t)
	defer done()

	_, err := FromNodeID(ctx, ids.New()).Collect()
	require.Error(t, err)
}

func TestAddN_ThenFromNodeID(t *testing.T) {
	h := newHarness(t)
	wctx, commit := h.writeCtx(t)
	props := value.NewObject()
	props.Set("name", value.String("ada"))
	items, err := AddN(wctx, "Person", props).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	id := items[0].Node.ID
	commit()

	rctx, done := h.readCtx(t)
	defer done()
	got, err := FromNodeID(rctx, id).Collect()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Person", got[0].Node.Label)
	name, ok := got[0].Node.Properties.Get("name")
	require.True(t, ok)
	require.Equal(t, "ada", name.Str)
}

func TestFromNodeType_FiltersByLabel(t *testing.T) {
	h := newHarness(t)
	wctx, commit := h.writeCtx(t)
	_, err := AddN(wctx, "Person", nil).Collect()
	require.NoError(t, err)
	_, err = AddN(wctx, "Company", nil).Collect()
	require.NoError(t, err)
	commit()

	rctx, done := h.readCtx(t)
	defer done()
	got, err := FromNodeType(rctx, "Person").Collect()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Person", got[0].Node.Label)
}

func TestInsertV_ThenSearchV(t *testing.T) {
	h := newHarness(t)
	wctx, commit := h.writeCtx(t)
	_, err := InsertV(wctx, "Doc", []float64{1, 0, 0}).Collect()
	require.NoError(t, err)
	_, err = InsertV(wctx, "Doc", []float64{0, 1, 0}).Collect()
	require.NoError(t, err)
	commit()

	rctx, done := h.readCtx(t)
	defer done()
	got, err := SearchV(rctx, []float64{1, 0, 0}, 1, "Doc", nil).Collect()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, KindVector, got[0].Kind)
}

func TestAddE_RequiresWriteTransaction(t *testing.T) {
	h := newHarness(t)
	rctx, done := h.readCtx(t)
	defer done()
	_, err := AddE(rctx, "knows", codec.EdgeTypeNode, ids.New(), ids.New(), nil, false).Collect()
	require.Error(t, err)
}
