package routingalgorithm

import (
	"context"
	"testing"

	"github.com/lintang-b-s/navigatorx-ch/pkg/contracted"
	"github.com/lintang-b-s/navigatorx-ch/pkg/contractor"
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/restriction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	profileBoth   uint16 = 0
	profileOneway uint16 = 1
)

func testCost(profile uint16) datastructure.Factor {
	if profile == profileOneway {
		return datastructure.Factor{Value: 1, Direction: datastructure.Forward}
	}
	return datastructure.Factor{Value: 1, Direction: datastructure.Bidirectional}
}

type baseEdge struct {
	from, to uint32
	distance float32
	profile  uint16
}

func newBaseGraph(t *testing.T, n uint32, edges []baseEdge) *datastructure.Graph {
	t.Helper()
	g := datastructure.NewGraph(datastructure.BaseEdgeDataSize, n)
	for _, e := range edges {
		data, err := datastructure.EncodeEdgeData(e.distance, e.profile)
		require.NoError(t, err)
		_, err = g.AddEdge(e.from, e.to, data...)
		require.NoError(t, err)
	}
	return g
}

/*
dari https://jlazarsfeld.github.io/ch.150.project/sections/8-contraction/
p=0, v=1, q=2, w=3, r=4, f=5, 6 = vertex tanpa edge

	 p
	  \
	   10
	    \
	     v -----3----- r
	    /             /
	   6             5
	  /             /
	 q -----5----- w ----15---- f

semua edge bidirectional
*/
func newPVQWRF(t *testing.T, cfg contractor.ContractionConfig) *contracted.ContractedDb {
	t.Helper()
	g := newBaseGraph(t, 7, []baseEdge{
		{0, 1, 10, profileBoth},
		{1, 4, 3, profileBoth},
		{1, 2, 6, profileBoth},
		{2, 3, 5, profileBoth},
		{3, 4, 5, profileBoth},
		{3, 5, 15, profileBoth},
	})
	db, err := contractor.BuildContracted(context.Background(), g, testCost, cfg)
	require.NoError(t, err)
	return db
}

func TestShortestPathBidirectionalDijkstra(t *testing.T) {
	db := newPVQWRF(t, contractor.DefaultContractionConfig())

	route, ok, err := Query(db, []uint32{0}, []uint32{5})
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 33, route.Weight, 0.01)
	// shortest path nya: P(0) -> V(1) -> R(4) -> W(3) -> F(5)
	assert.Equal(t, []uint32{0, 1, 4, 3, 5}, route.Vertices)

	route, ok, err = Query(db, []uint32{5}, []uint32{0})
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 33, route.Weight, 0.01)
	assert.Equal(t, []uint32{5, 3, 4, 1, 0}, route.Vertices)
}

func TestQueryEveryPair(t *testing.T) {
	db := newPVQWRF(t, contractor.DefaultContractionConfig())
	expected := map[[2]uint32]float32{
		{0, 2}: 16, {0, 3}: 18, {2, 4}: 9, {1, 5}: 23, {2, 5}: 20, {4, 2}: 9,
	}
	for pair, weight := range expected {
		route, ok, err := Query(db, []uint32{pair[0]}, []uint32{pair[1]})
		require.NoError(t, err)
		require.True(t, ok, "%v", pair)
		assert.InDelta(t, weight, route.Weight, 0.01, "%v", pair)
		assert.Equal(t, pair[0], route.Vertices[0])
		assert.Equal(t, pair[1], route.Vertices[len(route.Vertices)-1])
	}
}

func TestQuerySameVertexAndUnreachable(t *testing.T) {
	db := newPVQWRF(t, contractor.DefaultContractionConfig())

	route, ok, err := Query(db, []uint32{3}, []uint32{3})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, float32(0), route.Weight)
	assert.Equal(t, []uint32{3}, route.Vertices)

	_, ok, err = Query(db, []uint32{0}, []uint32{6})
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = Query(db, []uint32{0}, []uint32{7})
	assert.ErrorIs(t, err, datastructure.ErrVertexOutOfRange)

	_, _, err = Query(db, nil, []uint32{1})
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestQueryMultiSource(t *testing.T) {
	db := newPVQWRF(t, contractor.DefaultContractionConfig())
	route, ok, err := Query(db, []uint32{0, 2}, []uint32{5, 4})
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 9, route.Weight, 0.01)
	assert.Equal(t, uint32(2), route.Vertices[0])
	assert.Equal(t, uint32(4), route.Vertices[len(route.Vertices)-1])
}

func TestQueryOneway(t *testing.T) {
	g := newBaseGraph(t, 3, []baseEdge{
		{0, 1, 10, profileOneway},
		{1, 2, 20, profileOneway},
	})
	db, err := contractor.BuildContracted(context.Background(), g, testCost, contractor.DefaultContractionConfig())
	require.NoError(t, err)

	route, ok, err := Query(db, []uint32{0}, []uint32{2})
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 30, route.Weight, 0.01)
	assert.Equal(t, []uint32{0, 1, 2}, route.Vertices)

	_, ok, err = Query(db, []uint32{2}, []uint32{0})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQueryAugmented(t *testing.T) {
	cfg := contractor.DefaultContractionConfig()
	cfg.TimeCost = func(profile uint16) datastructure.Factor {
		return datastructure.Factor{Value: 2, Direction: datastructure.Bidirectional}
	}
	db := newPVQWRF(t, cfg)
	require.True(t, db.Augmented())

	route, ok, err := Query(db, []uint32{0}, []uint32{5})
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 33, route.Distance, 0.1)
	assert.InDelta(t, 66, route.Time, 1)
}

func TestQueryAfterRoundTrip(t *testing.T) {
	db := newPVQWRF(t, contractor.DefaultContractionConfig())
	data, err := db.Bytes()
	require.NoError(t, err)
	loaded, err := contracted.FromBytes(data)
	require.NoError(t, err)

	route, ok, err := Query(loaded, []uint32{0}, []uint32{5})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uint32{0, 1, 4, 3, 5}, route.Vertices)
}

/*
edge-based:

	0 -e0- 1 -e1- 2 -e2- 3
	        \    /
	       e3   e4
	          4
*/
func detourGraph(t *testing.T) *datastructure.Graph {
	return newBaseGraph(t, 5, []baseEdge{
		{0, 1, 10, profileBoth},
		{1, 2, 10, profileBoth},
		{2, 3, 10, profileBoth},
		{1, 4, 6, profileBoth},
		{4, 2, 6, profileBoth},
	})
}

func TestQueryEdgeBased(t *testing.T) {
	g := detourGraph(t)
	source := datastructure.NewDirectedEdgeID(0, true)
	target := datastructure.NewDirectedEdgeID(2, true)

	db, err := contractor.BuildContractedEdgeBased(context.Background(), g, testCost, restriction.Set{},
		contractor.DefaultContractionConfig())
	require.NoError(t, err)
	route, ok, err := QueryEdgeBased(db, source, target)
	require.NoError(t, err)
	require.True(t, ok)
	// weight edge target tidak dihitung.
	assert.InDelta(t, 20, route.Weight, 0.01)
	assert.Equal(t, []uint32{0, 1, 2, 3}, route.Vertices)

	// belok 0-1-2 dilarang, harus lewat 4.
	db, err = contractor.BuildContractedEdgeBased(context.Background(), g, testCost,
		restriction.NewSet([][]uint32{{0, 1, 2}}), contractor.DefaultContractionConfig())
	require.NoError(t, err)
	route, ok, err = QueryEdgeBased(db, source, target)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 22, route.Weight, 0.01)
	assert.Equal(t, []uint32{0, 1, 4, 2, 3}, route.Vertices)

	_, _, err = Query(db, []uint32{0}, []uint32{1})
	assert.ErrorIs(t, err, ErrWrongGraphType)
}

func TestQueryEdgeBasedRestrictionBlocksEverything(t *testing.T) {
	g := newBaseGraph(t, 4, []baseEdge{
		{0, 1, 10, profileBoth},
		{1, 2, 10, profileBoth},
		{2, 3, 10, profileBoth},
	})
	db, err := contractor.BuildContractedEdgeBased(context.Background(), g, testCost,
		restriction.NewSet([][]uint32{{1, 2, 3}}), contractor.DefaultContractionConfig())
	require.NoError(t, err)

	_, ok, err := QueryEdgeBased(db, datastructure.NewDirectedEdgeID(0, true), datastructure.NewDirectedEdgeID(2, true))
	require.NoError(t, err)
	assert.False(t, ok)

	// arah sebaliknya tidak kena restriction.
	route, ok, err := QueryEdgeBased(db, datastructure.NewDirectedEdgeID(2, false), datastructure.NewDirectedEdgeID(0, false))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uint32{3, 2, 1, 0}, route.Vertices)
}

func TestQueryMatrix(t *testing.T) {
	db := newPVQWRF(t, contractor.DefaultContractionConfig())
	sources := []uint32{0, 2, 5, 6}
	targets := []uint32{0, 3, 5}

	matrix, err := QueryMatrix(context.Background(), db, sources, targets, 3)
	require.NoError(t, err)
	require.Len(t, matrix, len(sources))
	for i, s := range sources {
		for j, tg := range targets {
			route, ok, err := Query(db, []uint32{s}, []uint32{tg})
			require.NoError(t, err)
			if !ok {
				assert.Equal(t, Unreachable, matrix[i][j])
				continue
			}
			assert.Equal(t, route.Weight, matrix[i][j])
		}
	}
	assert.Equal(t, Unreachable, matrix[3][0])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = QueryMatrix(ctx, db, sources, targets, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDykstraStep(t *testing.T) {
	db := newPVQWRF(t, contractor.DefaultContractionConfig())
	d := NewDykstra(db.NodeBasedGraph(), false)
	d.AddSource(0, 0)
	assert.Equal(t, float32(0), d.PeekWeight())

	v, ok := d.Step()
	require.True(t, ok)
	assert.Equal(t, uint32(0), v)
	assert.True(t, d.Settled(0))
	for {
		if _, ok := d.Step(); !ok {
			break
		}
	}
	assert.True(t, d.Exhausted())
	h, ok := d.Label(0)
	require.True(t, ok)
	assert.Equal(t, float32(0), d.Arena().Get(h).Weight)
}

func TestQueryVertexEdgeBased(t *testing.T) {
	g := detourGraph(t)
	db, err := contractor.BuildContractedEdgeBased(context.Background(), g, testCost,
		restriction.NewSet([][]uint32{{0, 1, 2}}), contractor.DefaultContractionConfig())
	require.NoError(t, err)

	route, ok, err := QueryVertexEdgeBased(db, g, testCost, 0, 3)
	require.NoError(t, err)
	require.True(t, ok)
	// weight edge terakhir ikut dihitung.
	assert.InDelta(t, 32, route.Weight, 0.01)
	assert.Equal(t, []uint32{0, 1, 4, 2, 3}, route.Vertices)

	route, ok, err = QueryVertexEdgeBased(db, g, testCost, 3, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 30, route.Weight, 0.01)
	assert.Equal(t, []uint32{3, 2, 1, 0}, route.Vertices)

	route, ok, err = QueryVertexEdgeBased(db, g, testCost, 2, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []uint32{2}, route.Vertices)

	_, _, err = QueryVertexEdgeBased(db, g, testCost, 0, 9)
	assert.ErrorIs(t, err, datastructure.ErrVertexOutOfRange)
}

func TestVertexSeedsOneway(t *testing.T) {
	g := newBaseGraph(t, 3, []baseEdge{
		{0, 1, 10, profileOneway},
		{2, 1, 20, profileOneway},
	})
	out := SourceSeeds(g, testCost, 1)
	assert.Empty(t, out)

	in := TargetSeeds(g, testCost, 1)
	require.Len(t, in, 2)
	assert.Equal(t, datastructure.NewDirectedEdgeID(0, true), in[0].Edge)
	assert.InDelta(t, 10, in[0].Weight, 0.01)
	assert.Equal(t, datastructure.NewDirectedEdgeID(1, true), in[1].Edge)

	out = SourceSeeds(g, testCost, 0)
	require.Len(t, out, 1)
	assert.Equal(t, float32(0), out[0].Weight)
}

func TestQueryMatrixEdgeBased(t *testing.T) {
	g := detourGraph(t)
	db, err := contractor.BuildContractedEdgeBased(context.Background(), g, testCost,
		restriction.NewSet([][]uint32{{0, 1, 2}}), contractor.DefaultContractionConfig())
	require.NoError(t, err)

	matrix, err := QueryMatrixFunc(context.Background(), []uint32{0, 3}, []uint32{3, 0}, 2,
		func(source, target uint32) (Route, bool, error) {
			return QueryVertexEdgeBased(db, g, testCost, source, target)
		})
	require.NoError(t, err)
	assert.InDelta(t, 32, matrix[0][0], 0.01)
	assert.Equal(t, float32(0), matrix[0][1])
	assert.InDelta(t, 0, matrix[1][0], 0.01)
	assert.InDelta(t, 30, matrix[1][1], 0.01)
}
