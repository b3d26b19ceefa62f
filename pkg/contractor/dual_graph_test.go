package contractor

import (
	"math"
	"testing"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/restriction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDualGraph(t *testing.T) {
	// 0 -e0- 1 -e1- 2
	g := newBaseGraph(t, 3, []baseEdge{
		{0, 1, 10, profileBoth},
		{1, 2, 20, profileBoth},
	})
	dual, edgeVertices, err := BuildDualGraph(g, testCost, restriction.Set{})
	require.NoError(t, err)

	assert.Equal(t, uint32(4), dual.VertexCount())
	assert.Equal(t, []uint32{0, 1, 1, 0, 1, 2, 2, 1}, edgeVertices)
	// dua belokan (0-1-2 dan 2-1-0), masing-masing disimpan di dua endpoint.
	assert.Equal(t, uint32(4), dual.EdgeCount())

	wg := newDynamicWorkingGraph(dual)
	arc, ok := findArc(t, wg, 0, 2)
	require.True(t, ok)
	assert.Equal(t, datastructure.Forward, arc.Direction)
	assert.InDelta(t, 10, arc.Weight, 0.01)
	assert.Equal(t, []uint32{1}, arc.Tail)
	assert.Equal(t, datastructure.NoVertex, arc.Contracted)

	arc, ok = findArc(t, wg, 2, 0)
	require.True(t, ok)
	assert.Equal(t, datastructure.Backward, arc.Direction)

	// 2->1->0: edge 1 dilewati terbalik (dual 3) lalu edge 0 terbalik (dual 1).
	arc, ok = findArc(t, wg, 3, 1)
	require.True(t, ok)
	assert.Equal(t, datastructure.Forward, arc.Direction)
	assert.InDelta(t, 20, arc.Weight, 0.01)

	// u-turn tidak pernah jadi arc.
	_, ok = findArc(t, wg, 0, 1)
	assert.False(t, ok)
}

func TestBuildDualGraphRestrictionsAndOneways(t *testing.T) {
	g := newBaseGraph(t, 3, []baseEdge{
		{0, 1, 10, profileBoth},
		{1, 2, 20, profileBoth},
	})
	dual, _, err := BuildDualGraph(g, testCost, restriction.NewSet([][]uint32{{0, 1, 2}}))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), dual.EdgeCount())
	_, ok := findArc(t, newDynamicWorkingGraph(dual), 0, 2)
	assert.False(t, ok)

	g = newBaseGraph(t, 3, []baseEdge{
		{0, 1, 10, profileOneway},
		{1, 2, 20, profileBoth},
	})
	dual, _, err = BuildDualGraph(g, testCost, restriction.Set{})
	require.NoError(t, err)
	wg := newDynamicWorkingGraph(dual)
	_, ok = findArc(t, wg, 0, 2)
	assert.True(t, ok)
	_, ok = findArc(t, wg, 3, 1)
	assert.False(t, ok, "edge 0 is oneway 0->1")

	g = newBaseGraph(t, 3, []baseEdge{
		{0, 1, 10, profileClosed},
		{1, 2, 20, profileBoth},
	})
	dual, _, err = BuildDualGraph(g, testCost, restriction.Set{})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), dual.EdgeCount())
}

func TestDualGraphSizeLimit(t *testing.T) {
	assert.NoError(t, checkDualSize(0))
	assert.NoError(t, checkDualSize(datastructure.MaxDualEdges))
	assert.ErrorIs(t, checkDualSize(datastructure.MaxDualEdges+1), ErrTooManyEdges)
	assert.ErrorIs(t, checkDualSize(1<<31), ErrTooManyEdges)
	assert.ErrorIs(t, checkDualSize(math.MaxUint32), ErrTooManyEdges)

	// edge id terbesar yang masih diterima: dual vertex & index edgeVertices tidak overflow.
	last := datastructure.MaxDualEdges - 1
	backward := datastructure.NewDirectedEdgeID(last, false)
	v := backward.DualVertex()
	assert.Equal(t, 2*uint64(last)+1, uint64(v))
	assert.NotEqual(t, datastructure.NoVertex, v)
	assert.Equal(t, backward, datastructure.DirectedEdgeIDFromDualVertex(v))
	assert.Equal(t, 4*uint64(last)+3, uint64(2*v+1))
}
