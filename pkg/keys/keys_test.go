package keys

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helixdb/helix-core/pkg/ids"
)

func TestLabelHash_DeterministicAndDistinguishesLabels(t *testing.T) {
	h1 := LabelHash("knows", nil)
	h2 := LabelHash("knows", nil)
	h3 := LabelHash("likes", nil)

	require.Equal(t, h1, h2)
	require.NotEqual(t, h1, h3)
}

func TestAdjacencyKey_OutAndInAreEqualForSameNodeLabel(t *testing.T) {
	n := ids.New()
	require.Equal(t, OutAdjacency(n, "knows"), InAdjacency(n, "knows"))
}

func TestAdjacencyKey_SplitRoundTrips(t *testing.T) {
	n := ids.New()
	k := OutAdjacency(n, "knows")

	gotNode, gotHash, ok := SplitAdjacencyKey(k)
	require.True(t, ok)
	require.Equal(t, n, gotNode)
	require.Equal(t, LabelHash("knows", nil), gotHash)
}

func TestSplitAdjacencyKey_RejectsWrongLength(t *testing.T) {
	_, _, ok := SplitAdjacencyKey([]byte{1, 2, 3})
	require.False(t, ok)
}

func TestAdjacencyValue_RoundTrips(t *testing.T) {
	edge := ids.New()
	other := ids.New()
	v := AdjacencyValue(edge, other)

	gotEdge, gotOther, ok := ParseAdjacencyValue(v)
	require.True(t, ok)
	require.Equal(t, edge, gotEdge)
	require.Equal(t, other, gotOther)
}

func TestParseAdjacencyValue_RejectsWrongLength(t *testing.T) {
	_, _, ok := ParseAdjacencyValue([]byte{1, 2, 3})
	require.False(t, ok)
}

func TestVectorAdjLevelDB_NamesEachLevelDistinctly(t *testing.T) {
	require.Equal(t, "vectors_adj_0", VectorAdjLevelDB(0))
	require.Equal(t, "vectors_adj_9", VectorAdjLevelDB(9))
	require.Equal(t, "vectors_adj_31", VectorAdjLevelDB(31))
}

func TestSecondaryIndexDB_NamesByField(t *testing.T) {
	require.Equal(t, "secondary_index_email", SecondaryIndexDB("email"))
}
