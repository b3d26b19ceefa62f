package service

import (
	"context"
	"errors"

	"github.com/lintang-b-s/navigatorx-ch/pkg/contracted"
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/navigatorx-ch/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ch/pkg/network"
	"github.com/lintang-b-s/navigatorx-ch/pkg/server"
)

type Resolver interface {
	Nearest(lat, lon float64) (vertex uint32, distance float64, ok bool, err error)
}

type NavigationService struct {
	db       *contracted.ContractedDb
	net      *network.RoadNetwork
	resolver Resolver
	cost     datastructure.CostFunction
	workers  int
}

// NewNavigationService. cost cuma dipakai kalau db edge-based (weight edge awal & akhir route).
func NewNavigationService(db *contracted.ContractedDb, net *network.RoadNetwork, resolver Resolver,
	cost datastructure.CostFunction, workers int) *NavigationService {
	return &NavigationService{db: db, net: net, resolver: resolver, cost: cost, workers: workers}
}

type PathResult struct {
	Path     string
	Vertices []uint32
	Weight   float32
	Distance float32
	Time     float32
	Found    bool
}

func (uc *NavigationService) ShortestPath(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64) (PathResult, error) {
	from, err := uc.snap(srcLat, srcLon)
	if err != nil {
		return PathResult{}, err
	}
	to, err := uc.snap(dstLat, dstLon)
	if err != nil {
		return PathResult{}, err
	}
	return uc.ShortestPathVertices(ctx, []uint32{from}, []uint32{to})
}

func (uc *NavigationService) snap(lat, lon float64) (uint32, error) {
	v, _, ok, err := uc.resolver.Nearest(lat, lon)
	if err != nil {
		return 0, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	if !ok {
		return 0, server.NewErrorf(server.ErrNotFound,
			"sorry!! the location you entered is not covered on my map :(, please use different openstreetmap pbf file")
	}
	return v, nil
}

func (uc *NavigationService) ShortestPathVertices(ctx context.Context, sources, targets []uint32) (PathResult, error) {
	if err := ctx.Err(); err != nil {
		return PathResult{}, server.WrapErrorf(err, server.ErrInternalServerError, "request cancelled")
	}
	route, ok, err := uc.route(sources, targets)
	if err != nil {
		return PathResult{}, queryError(err)
	}
	if !ok {
		return PathResult{Found: false}, nil
	}

	result := PathResult{Weight: route.Weight, Time: route.Time, Distance: route.Distance, Found: true}
	result.Vertices, err = uc.net.ExpandVertices(route.Vertices)
	if err != nil {
		return PathResult{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	geometry, err := uc.net.Geometry(route.Vertices)
	if err != nil {
		return PathResult{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	result.Path = datastructure.CreatePolyline(geo.RamerDouglasPeucker(geometry, geo.DOUGLAS_PEUCKER_THRESHOLDS))
	if !uc.db.Augmented() {
		result.Distance, err = uc.net.RouteDistance(route.Vertices)
		if err != nil {
			return PathResult{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
		}
	}
	return result, nil
}

// route. node-based langsung pakai Query, edge-based pakai semua edge di sekitar source & target.
func (uc *NavigationService) route(sources, targets []uint32) (routingalgorithm.Route, bool, error) {
	if uc.db.HasNodeBasedGraph() {
		return routingalgorithm.Query(uc.db, sources, targets)
	}
	if len(sources) == 0 || len(targets) == 0 {
		return routingalgorithm.Route{}, false, routingalgorithm.ErrNoSource
	}

	g := uc.net.Graph()
	var sourceSeeds, targetSeeds []routingalgorithm.EdgeSeed
	for _, s := range sources {
		if s >= g.VertexCount() {
			return routingalgorithm.Route{}, false, datastructure.ErrVertexOutOfRange
		}
		for _, t := range targets {
			if s == t {
				return routingalgorithm.Route{Vertices: []uint32{s}}, true, nil
			}
		}
		sourceSeeds = append(sourceSeeds, routingalgorithm.SourceSeeds(g, uc.cost, s)...)
	}
	for _, t := range targets {
		if t >= g.VertexCount() {
			return routingalgorithm.Route{}, false, datastructure.ErrVertexOutOfRange
		}
		targetSeeds = append(targetSeeds, routingalgorithm.TargetSeeds(g, uc.cost, t)...)
	}
	if len(sourceSeeds) == 0 || len(targetSeeds) == 0 {
		return routingalgorithm.Route{}, false, nil
	}
	return routingalgorithm.QueryEdgeBasedSeeds(uc.db, sourceSeeds, targetSeeds)
}

// DistanceMatrix. cell -1 kalau target tidak bisa dicapai.
func (uc *NavigationService) DistanceMatrix(ctx context.Context, sources, targets []uint32) ([][]float32, error) {
	matrix, err := routingalgorithm.QueryMatrixFunc(ctx, sources, targets, uc.workers,
		func(source, target uint32) (routingalgorithm.Route, bool, error) {
			return uc.route([]uint32{source}, []uint32{target})
		})
	if err != nil {
		return nil, queryError(err)
	}
	return matrix, nil
}

func queryError(err error) error {
	switch {
	case errors.Is(err, datastructure.ErrVertexOutOfRange), errors.Is(err, routingalgorithm.ErrNoSource):
		return server.WrapErrorf(err, server.ErrBadParamInput, "invalid source or target vertex")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return server.WrapErrorf(err, server.ErrInternalServerError, "request cancelled")
	default:
		return server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
}
