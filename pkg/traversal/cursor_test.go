package traversal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursor_NextPaginates(t *testing.T) {
	h := newHarness(t)
	seedPeople(t, h)

	rctx, done := h.readCtx(t)
	defer done()
	cur := NewCursor(FromNodeType(rctx, "Person"))

	page1, err := cur.Next(2)
	require.NoError(t, err)
	require.Len(t, page1, 2)

	page2, err := cur.Next(2)
	require.NoError(t, err)
	require.Len(t, page2, 1)

	page3, err := cur.Next(2)
	require.NoError(t, err)
	require.Empty(t, page3)
}

func TestCursor_CollectDropsByDefault(t *testing.T) {
	h := newHarness(t)
	seedPeople(t, h)

	rctx, done := h.readCtx(t)
	defer done()
	cur := NewCursor(FromNodeType(rctx, "Person"))

	first, err := cur.Collect(true)
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := cur.Collect(true)
	require.NoError(t, err)
	require.Empty(t, second)
}

func TestCursor_Reset(t *testing.T) {
	h := newHarness(t)
	seedPeople(t, h)

	rctx, done := h.readCtx(t)
	defer done()
	cur := NewCursorFunc(func() *Traversal { return FromNodeType(rctx, "Person") })

	_, err := cur.Collect(true)
	require.NoError(t, err)

	cur.Reset()
	again, err := cur.Collect(true)
	require.NoError(t, err)
	require.Len(t, again, 3)
}
