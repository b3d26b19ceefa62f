package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lintang-b-s/navigatorx-ch/pkg/contractor"
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/navigatorx-ch/pkg/network"
	"github.com/lintang-b-s/navigatorx-ch/pkg/optimizer"
	"github.com/lintang-b-s/navigatorx-ch/pkg/restriction"
	"github.com/lintang-b-s/navigatorx-ch/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver. snap berdasarkan tabel koordinat persis.
type fakeResolver struct {
	vertices map[[2]float64]uint32
	err      error
}

func (f fakeResolver) Nearest(lat, lon float64) (uint32, float64, bool, error) {
	if f.err != nil {
		return 0, 0, false, f.err
	}
	v, ok := f.vertices[[2]float64{lat, lon}]
	return v, 0, ok, nil
}

/*
0 --1000-- 1 --1000-- 2 --1000-- 3      4 (tanpa edge)
 \_________________5000_________________/
*/
func testNetwork(t *testing.T) (*network.RoadNetwork, datastructure.CostFunction) {
	t.Helper()
	n := network.NewRoadNetwork()
	for i := 0; i < 5; i++ {
		n.AddVertex(datastructure.NewCoordinate(-7.55, 110.77+float64(i)*0.01))
	}
	profile, err := n.Profiles().Intern(network.EdgeProfile{Highway: "residential", Forward: true, Backward: true})
	require.NoError(t, err)
	for _, e := range []struct {
		from, to uint32
		dist     float32
	}{{0, 1, 1000}, {1, 2, 1000}, {2, 3, 1000}, {0, 3, 5000}} {
		_, err := n.AddEdge(e.from, e.to, e.dist, profile, nil)
		require.NoError(t, err)
	}
	return n, n.Profiles().DistanceCost(map[string]float64{"residential": 30})
}

func testResolver(n *network.RoadNetwork) fakeResolver {
	vertices := make(map[[2]float64]uint32)
	for v, c := range n.Coordinates() {
		vertices[[2]float64{c.Lat, c.Lon}] = uint32(v)
	}
	return fakeResolver{vertices: vertices}
}

func newServices(t *testing.T) map[string]*NavigationService {
	t.Helper()
	n, cost := testNetwork(t)
	ctx := context.Background()

	nodeBased, err := contractor.BuildContracted(ctx, n.Graph(), cost, contractor.DefaultContractionConfig())
	require.NoError(t, err)
	edgeBased, err := contractor.BuildContractedEdgeBased(ctx, n.Graph(), cost, restriction.NewSet(nil),
		contractor.DefaultContractionConfig())
	require.NoError(t, err)

	return map[string]*NavigationService{
		"node-based": NewNavigationService(nodeBased, n, testResolver(n), cost, 2),
		"edge-based": NewNavigationService(edgeBased, n, testResolver(n), cost, 2),
	}
}

func TestShortestPathVertices(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			res, err := svc.ShortestPathVertices(context.Background(), []uint32{0}, []uint32{3})
			require.NoError(t, err)
			require.True(t, res.Found)
			assert.InDelta(t, 3000, res.Weight, 0.5)
			assert.InDelta(t, 3000, res.Distance, 0.5)
			assert.Equal(t, []uint32{0, 1, 2, 3}, res.Vertices)

			decoded, err := datastructure.DecodePolyline(res.Path)
			require.NoError(t, err)
			require.NotEmpty(t, decoded)
			assert.InDelta(t, 110.77, decoded[0].Lon, 1e-5)
			assert.InDelta(t, 110.80, decoded[len(decoded)-1].Lon, 1e-5)

			res, err = svc.ShortestPathVertices(context.Background(), []uint32{0}, []uint32{4})
			require.NoError(t, err)
			assert.False(t, res.Found)

			_, err = svc.ShortestPathVertices(context.Background(), []uint32{0}, []uint32{9})
			var serr *server.Error
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, server.ErrBadParamInput, serr.Code())
		})
	}
}

// 0 --10-- 1 --20-- 2, profile sama: optimizer menggabung jadi satu edge 0-2 lewat via 1.
func TestShortestPathAfterOptimize(t *testing.T) {
	n := network.NewRoadNetwork()
	for i := 0; i < 3; i++ {
		n.AddVertex(datastructure.NewCoordinate(-7.55, 110.77+float64(i)*0.001))
	}
	profile, err := n.Profiles().Intern(network.EdgeProfile{Highway: "residential", Forward: true, Backward: true})
	require.NoError(t, err)
	_, err = n.AddEdge(0, 1, 10, profile, nil)
	require.NoError(t, err)
	_, err = n.AddEdge(1, 2, 20, profile, nil)
	require.NoError(t, err)

	merges, err := optimizer.NewNetworkOptimizer(n, nil, nil).Run()
	require.NoError(t, err)
	require.Equal(t, 1, merges)
	require.Equal(t, uint32(1), n.Graph().EdgeCount())

	cost := n.Profiles().DistanceCost(map[string]float64{"residential": 30})
	ctx := context.Background()
	nodeBased, err := contractor.BuildContracted(ctx, n.Graph(), cost, contractor.DefaultContractionConfig())
	require.NoError(t, err)

	route, ok, err := routingalgorithm.Query(nodeBased, []uint32{0}, []uint32{2})
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 30, route.Weight, 0.05)
	assert.Equal(t, []uint32{0, 2}, route.Vertices)

	expanded, err := n.ExpandVertices(route.Vertices)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, expanded)

	edgeBased, err := contractor.BuildContractedEdgeBased(ctx, n.Graph(), cost, restriction.NewSet(nil),
		contractor.DefaultContractionConfig())
	require.NoError(t, err)

	for name, db := range map[string]*NavigationService{
		"node-based": NewNavigationService(nodeBased, n, testResolver(n), cost, 1),
		"edge-based": NewNavigationService(edgeBased, n, testResolver(n), cost, 1),
	} {
		t.Run(name, func(t *testing.T) {
			res, err := db.ShortestPathVertices(ctx, []uint32{2}, []uint32{0})
			require.NoError(t, err)
			require.True(t, res.Found)
			assert.InDelta(t, 30, res.Weight, 0.05)
			assert.Equal(t, []uint32{2, 1, 0}, res.Vertices)
		})
	}
}

func TestShortestPathCoordinates(t *testing.T) {
	svc := newServices(t)["node-based"]

	res, err := svc.ShortestPath(context.Background(), -7.55, 110.78, -7.55, 110.80)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, []uint32{1, 2, 3}, res.Vertices)

	_, err = svc.ShortestPath(context.Background(), 40.7, -74.0, -7.55, 110.80)
	assert.Equal(t, 404, server.ErrorKind(err))

	svc.resolver = fakeResolver{err: errors.New("badger closed")}
	_, err = svc.ShortestPath(context.Background(), -7.55, 110.78, -7.55, 110.80)
	assert.Equal(t, 500, server.ErrorKind(err))
}

func TestShortestPathCancelled(t *testing.T) {
	svc := newServices(t)["node-based"]
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.ShortestPathVertices(ctx, []uint32{0}, []uint32{3})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDistanceMatrix(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			matrix, err := svc.DistanceMatrix(context.Background(), []uint32{0, 4}, []uint32{3, 0})
			require.NoError(t, err)
			require.Len(t, matrix, 2)
			assert.InDelta(t, 3000, matrix[0][0], 0.5)
			assert.Equal(t, float32(0), matrix[0][1])
			assert.Equal(t, float32(-1), matrix[1][0])
		})
	}
}

func TestAugmentedDistance(t *testing.T) {
	n, cost := testNetwork(t)
	cfg := contractor.DefaultContractionConfig()
	cfg.TimeCost = n.Profiles().TimeCost(map[string]float64{"residential": 36})
	db, err := contractor.BuildContracted(context.Background(), n.Graph(), cost, cfg)
	require.NoError(t, err)
	require.True(t, db.Augmented())

	svc := NewNavigationService(db, n, testResolver(n), cost, 1)
	res, err := svc.ShortestPathVertices(context.Background(), []uint32{0}, []uint32{2})
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.InDelta(t, 2000, res.Distance, 0.5)
	// 36 km/h = 10 m/s.
	assert.InDelta(t, 200, res.Time, 0.5)
}
