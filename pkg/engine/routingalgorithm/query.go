package routingalgorithm

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/navigatorx-ch/pkg/contracted"
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
)

var (
	ErrNoSource        = errors.New("query needs at least one source and one target")
	ErrWrongGraphType  = errors.New("query does not match the contracted graph type")
	ErrBrokenHierarchy = errors.New("shortcut cannot be unpacked")
)

// Route. Distance & Time cuma terisi kalau graph-nya augmented.
type Route struct {
	Vertices []uint32
	Weight   float32
	Distance float32
	Time     float32
}

// segment. satu arc di path hasil search, arah tempuh from -> to.
type segment struct {
	from, to uint32
	edgeID   uint32
}

/*
Query. shortest path node-based dari salah satu sources ke salah satu targets.
ok == false (tanpa error) kalau tidak ada path. error cuma buat input yang salah.
*/
func Query(db *contracted.ContractedDb, sources, targets []uint32) (Route, bool, error) {
	if !db.HasNodeBasedGraph() {
		return Route{}, false, fmt.Errorf("node-based query: %w", ErrWrongGraphType)
	}
	g := db.NodeBasedGraph()
	if err := validateVertices(g, sources, targets); err != nil {
		return Route{}, false, err
	}

	search, ok := runSearch(g, zeroSeeds(sources), zeroSeeds(targets))
	if !ok {
		return Route{}, false, nil
	}

	segments, first, _ := search.segments(g)
	route := Route{Vertices: []uint32{first}}
	_, route.Weight, _, _, _ = search.bd.Best()

	augmented := db.Augmented()
	for _, s := range segments {
		data := g.EdgeData(s.edgeID)
		var err error
		route.Vertices, err = unpack(g, s.from, s.to, data, route.Vertices)
		if err != nil {
			return Route{}, false, err
		}
		if augmented {
			_, distance, time, _, _ := datastructure.DecodeAugmented(data)
			route.Distance += distance
			route.Time += time
		}
	}
	return route, true, nil
}

/*
QueryEdgeBased. shortest path di edge-based graph dari directed edge sourceEdge ke targetEdge.
Vertices = base vertices: [from(source)] ++ tail tiap arc ++ [to(target)].
weight tidak termasuk weight edge target.
*/
func QueryEdgeBased(db *contracted.ContractedDb, sourceEdge, targetEdge datastructure.DirectedEdgeID) (Route, bool, error) {
	return QueryEdgeBasedSeeds(db, []EdgeSeed{{Edge: sourceEdge}}, []EdgeSeed{{Edge: targetEdge}})
}

// EdgeSeed. directed edge awal/akhir query edge-based beserta weight awalnya.
type EdgeSeed struct {
	Edge   datastructure.DirectedEdgeID
	Weight float32
}

// QueryEdgeBasedSeeds. seperti QueryEdgeBased tapi dengan banyak source & target edge.
func QueryEdgeBasedSeeds(db *contracted.ContractedDb, sources, targets []EdgeSeed) (Route, bool, error) {
	if !db.HasEdgeBasedGraph() {
		return Route{}, false, fmt.Errorf("edge-based query: %w", ErrWrongGraphType)
	}
	g := db.EdgeBasedGraph()
	edgeVertices := db.EdgeVertices()

	sourceSeeds, err := dualSeeds(g, sources)
	if err != nil {
		return Route{}, false, err
	}
	targetSeeds, err := dualSeeds(g, targets)
	if err != nil {
		return Route{}, false, err
	}

	search, ok := runSearch(g, sourceSeeds, targetSeeds)
	if !ok {
		return Route{}, false, nil
	}

	segments, source, target := search.segments(g)
	route := Route{Vertices: []uint32{edgeVertices[2*source]}}
	_, route.Weight, _, _, _ = search.bd.Best()
	for _, s := range segments {
		data := g.EdgeData(s.edgeID)
		route.Vertices = append(route.Vertices, data[datastructure.ContractedEdgeSize:]...)
	}
	route.Vertices = append(route.Vertices, edgeVertices[2*target+1])
	return route, true, nil
}

func dualSeeds(g *datastructure.DirectedDynamicGraph, seeds []EdgeSeed) ([]seed, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("edge-based query: %w", ErrNoSource)
	}
	out := make([]seed, 0, len(seeds))
	for _, s := range seeds {
		if !s.Edge.IsValid() {
			return nil, fmt.Errorf("edge-based query: %w", ErrNoSource)
		}
		v := s.Edge.DualVertex()
		if v >= g.VertexCount() {
			return nil, fmt.Errorf("dual vertex %d of %d: %w", v, g.VertexCount(), datastructure.ErrVertexOutOfRange)
		}
		out = append(out, seed{vertex: v, weight: s.Weight})
	}
	return out, nil
}

/*
QueryVertexEdgeBased. route antar base vertex di edge-based graph.
source = semua directed edge yang keluar dari source, target = semua directed edge yang masuk ke target
dengan weight awal = weight edge itu, jadi weight route termasuk edge terakhir.
*/
func QueryVertexEdgeBased(db *contracted.ContractedDb, g *datastructure.Graph, cost datastructure.CostFunction,
	source, target uint32) (Route, bool, error) {
	if source >= g.VertexCount() || target >= g.VertexCount() {
		return Route{}, false, fmt.Errorf("vertex %d or %d of %d: %w", source, target, g.VertexCount(),
			datastructure.ErrVertexOutOfRange)
	}
	if source == target {
		return Route{Vertices: []uint32{source}}, true, nil
	}
	sources := SourceSeeds(g, cost, source)
	targets := TargetSeeds(g, cost, target)
	if len(sources) == 0 || len(targets) == 0 {
		return Route{}, false, nil
	}
	return QueryEdgeBasedSeeds(db, sources, targets)
}

// SourceSeeds. directed edge yang bisa dilewati keluar dari vertex, weight awal 0.
func SourceSeeds(g *datastructure.Graph, cost datastructure.CostFunction, vertex uint32) []EdgeSeed {
	return vertexSeeds(g, cost, vertex, true)
}

// TargetSeeds. directed edge yang bisa dilewati masuk ke vertex, weight awal = weight edge.
func TargetSeeds(g *datastructure.Graph, cost datastructure.CostFunction, vertex uint32) []EdgeSeed {
	return vertexSeeds(g, cost, vertex, false)
}

func vertexSeeds(g *datastructure.Graph, cost datastructure.CostFunction, vertex uint32, outgoing bool) []EdgeSeed {
	seeds := make([]EdgeSeed, 0, 4)
	e := g.GetEdgeEnumerator()
	if !e.MoveTo(vertex) {
		return seeds
	}
	for e.MoveNext() {
		distance, profile := datastructure.DecodeEdgeData(e.Data())
		factor := cost(profile)
		if factor.IsNoFactor() {
			continue
		}
		// alongStorage. arah tempuh sama dengan arah penyimpanan edge.
		alongStorage := !e.DataInverted()
		id := e.DirectedID()
		if !outgoing {
			alongStorage = !alongStorage
			id = id.Reverse()
		}
		if alongStorage && !factor.Direction.CanMoveForward() || !alongStorage && !factor.Direction.CanMoveBackward() {
			continue
		}
		s := EdgeSeed{Edge: id}
		if !outgoing {
			s.Weight = distance * factor.Value
		}
		seeds = append(seeds, s)
	}
	return seeds
}

func validateVertices(g *datastructure.DirectedDynamicGraph, sources, targets []uint32) error {
	if len(sources) == 0 || len(targets) == 0 {
		return ErrNoSource
	}
	for _, list := range [][]uint32{sources, targets} {
		for _, v := range list {
			if v >= g.VertexCount() {
				return fmt.Errorf("vertex %d of %d: %w", v, g.VertexCount(), datastructure.ErrVertexOutOfRange)
			}
		}
	}
	return nil
}

type searchResult struct {
	bd *BidirectionalDykstra
}

type seed struct {
	vertex uint32
	weight float32
}

func zeroSeeds(vertices []uint32) []seed {
	out := make([]seed, len(vertices))
	for i, v := range vertices {
		out[i] = seed{vertex: v}
	}
	return out
}

func runSearch(g *datastructure.DirectedDynamicGraph, sources, targets []seed) (searchResult, bool) {
	bd := NewBidirectionalDykstra(g)
	for _, s := range sources {
		bd.Forward.AddSource(s.vertex, s.weight)
	}
	for _, t := range targets {
		bd.Backward.AddSource(t.vertex, t.weight)
	}
	bd.Run()
	if _, _, _, _, ok := bd.Best(); !ok {
		return searchResult{}, false
	}
	return searchResult{bd: bd}, true
}

// segments. arc-arc path dari source ke target sesuai urutan tempuh, plus vertex source & target-nya.
func (r searchResult) segments(g *datastructure.DirectedDynamicGraph) ([]segment, uint32, uint32) {
	_, _, fh, bh, _ := r.bd.Best()

	fa := r.bd.Forward.Arena()
	handles := fa.Handles(fh)
	source := fa.Get(handles[0]).Vertex
	segments := make([]segment, 0, len(handles))
	for i := 1; i < len(handles); i++ {
		node := fa.Get(handles[i])
		segments = append(segments, segment{
			from:   fa.Get(handles[i-1]).Vertex,
			to:     node.Vertex,
			edgeID: node.Edge.EdgeID(),
		})
	}

	// backward chain: root = target, arc disimpan di vertex yang lebih dekat ke target.
	ba := r.bd.Backward.Arena()
	handles = ba.Handles(bh)
	target := ba.Get(handles[0]).Vertex
	for i := len(handles) - 1; i >= 1; i-- {
		node := ba.Get(handles[i])
		segments = append(segments, segment{
			from:   node.Vertex,
			to:     ba.Get(handles[i-1]).Vertex,
			edgeID: node.Edge.EdgeID(),
		})
	}
	return segments, source, target
}

/*
unpack. expand arc from -> to secara rekursif sampai ke edge asli, vertex setelah from di-append ke out.
shortcut lewat c: arc di c dengan weight terkecil ke from (arah from -> c) dan ke to (arah c -> to).
*/
func unpack(g *datastructure.DirectedDynamicGraph, from, to uint32, data []uint32, out []uint32) ([]uint32, error) {
	contractedID := data[1]
	if contractedID == datastructure.NoVertex {
		return append(out, to), nil
	}

	first, ok := cheapestArc(g, contractedID, from, true)
	if !ok {
		return nil, fmt.Errorf("arc %d->%d via %d: %w", from, to, contractedID, ErrBrokenHierarchy)
	}
	second, ok := cheapestArc(g, contractedID, to, false)
	if !ok {
		return nil, fmt.Errorf("arc %d->%d via %d: %w", from, to, contractedID, ErrBrokenHierarchy)
	}

	out, err := unpack(g, from, contractedID, first, out)
	if err != nil {
		return nil, err
	}
	return unpack(g, contractedID, to, second, out)
}

// cheapestArc. arc di vertex ke neighbour. incoming = arah tempuh neighbour -> vertex.
func cheapestArc(g *datastructure.DirectedDynamicGraph, vertex, neighbour uint32, incoming bool) ([]uint32, bool) {
	e := g.GetEdgeEnumerator()
	if !e.MoveTo(vertex) {
		return nil, false
	}
	var best []uint32
	for e.MoveNext() {
		if e.Neighbour() != neighbour {
			continue
		}
		data := e.Data()
		dir := datastructure.DecodeDirection(data[0])
		if incoming && !dir.CanMoveBackward() || !incoming && !dir.CanMoveForward() {
			continue
		}
		if best == nil || datastructure.DecodeWeight(data[0]) < datastructure.DecodeWeight(best[0]) {
			best = data
		}
	}
	return best, best != nil
}
