package network

import (
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
)

var (
	ErrNoEdgeBetween = errors.New("no edge between consecutive vertices")
)

/*
RoadNetwork. base graph + koordinat vertex + geometry tiap edge.
shape & via disimpan searah arah penyimpanan edge (from -> to) dan tidak termasuk koordinat/vertex endpoint.
via = vertex asli yang hilang karena edge hasil merge NetworkOptimizer.
*/
type RoadNetwork struct {
	graph    *datastructure.Graph
	coords   []datastructure.Coordinate
	shapes   map[uint32][]datastructure.Coordinate
	vias     map[uint32][]uint32
	profiles *ProfileTable
}

func NewRoadNetwork() *RoadNetwork {
	return &RoadNetwork{
		graph:    datastructure.NewGraph(datastructure.BaseEdgeDataSize, 0),
		coords:   make([]datastructure.Coordinate, 0),
		shapes:   make(map[uint32][]datastructure.Coordinate),
		vias:     make(map[uint32][]uint32),
		profiles: NewProfileTable(),
	}
}

func (n *RoadNetwork) Graph() *datastructure.Graph {
	return n.graph
}

func (n *RoadNetwork) Profiles() *ProfileTable {
	return n.profiles
}

func (n *RoadNetwork) VertexCount() uint32 {
	return n.graph.VertexCount()
}

func (n *RoadNetwork) AddVertex(coord datastructure.Coordinate) uint32 {
	n.coords = append(n.coords, coord)
	return n.graph.AddVertex()
}

func (n *RoadNetwork) Coordinate(vertex uint32) datastructure.Coordinate {
	return n.coords[vertex]
}

func (n *RoadNetwork) Coordinates() []datastructure.Coordinate {
	return n.coords
}

// AddEdge. shape tanpa koordinat from & to.
func (n *RoadNetwork) AddEdge(from, to uint32, distance float32, profile uint16,
	shape []datastructure.Coordinate) (uint32, error) {
	data, err := datastructure.EncodeEdgeData(distance, profile)
	if err != nil {
		return 0, fmt.Errorf("edge %d->%d: %w", from, to, err)
	}
	edgeID, err := n.graph.AddEdge(from, to, data...)
	if err != nil {
		return 0, err
	}
	if len(shape) > 0 {
		n.shapes[edgeID] = shape
	}
	return edgeID, nil
}

func (n *RoadNetwork) Shape(edgeID uint32) []datastructure.Coordinate {
	return n.shapes[edgeID]
}

func (n *RoadNetwork) SetShape(edgeID uint32, shape []datastructure.Coordinate) {
	if len(shape) == 0 {
		delete(n.shapes, edgeID)
		return
	}
	n.shapes[edgeID] = shape
}

func (n *RoadNetwork) Via(edgeID uint32) []uint32 {
	return n.vias[edgeID]
}

func (n *RoadNetwork) SetVia(edgeID uint32, via []uint32) {
	if len(via) == 0 {
		delete(n.vias, edgeID)
		return
	}
	n.vias[edgeID] = via
}

// RemoveEdge. geometry ikut dihapus.
func (n *RoadNetwork) RemoveEdge(edgeID uint32) bool {
	if !n.graph.RemoveEdgeByID(edgeID) {
		return false
	}
	delete(n.shapes, edgeID)
	delete(n.vias, edgeID)
	return true
}

// bestEdge. edge live terpendek antara a dan b, plus apakah edge itu dilewati berlawanan arah penyimpanan.
func (n *RoadNetwork) bestEdge(a, b uint32) (uint32, bool, bool) {
	e := n.graph.GetEdgeEnumerator()
	if !e.MoveTo(a) {
		return 0, false, false
	}
	best, inverted, found := uint32(0), false, false
	bestDist := float32(math.MaxFloat32)
	for e.MoveNext() {
		if e.Neighbour() != b {
			continue
		}
		dist, _ := datastructure.DecodeEdgeData(e.Data())
		if dist < bestDist {
			best, inverted, found, bestDist = e.ID(), e.DataInverted(), true, dist
		}
	}
	return best, inverted, found
}

// ExpandVertices. ubah route di network hasil optimizer jadi urutan vertex asli (via vertex disisipkan).
func (n *RoadNetwork) ExpandVertices(route []uint32) ([]uint32, error) {
	if len(route) == 0 {
		return route, nil
	}
	out := make([]uint32, 0, len(route))
	out = append(out, route[0])
	for i := 1; i < len(route); i++ {
		edgeID, inverted, ok := n.bestEdge(route[i-1], route[i])
		if !ok {
			return nil, fmt.Errorf("%d->%d: %w", route[i-1], route[i], ErrNoEdgeBetween)
		}
		via := n.vias[edgeID]
		if inverted {
			for j := len(via) - 1; j >= 0; j-- {
				out = append(out, via[j])
			}
		} else {
			out = append(out, via...)
		}
		out = append(out, route[i])
	}
	return out, nil
}

// Geometry. koordinat lengkap route, termasuk shape tiap edge.
func (n *RoadNetwork) Geometry(route []uint32) ([]datastructure.Coordinate, error) {
	if len(route) == 0 {
		return nil, nil
	}
	out := make([]datastructure.Coordinate, 0, len(route))
	out = append(out, n.coords[route[0]])
	for i := 1; i < len(route); i++ {
		edgeID, inverted, ok := n.bestEdge(route[i-1], route[i])
		if !ok {
			return nil, fmt.Errorf("%d->%d: %w", route[i-1], route[i], ErrNoEdgeBetween)
		}
		shape := n.shapes[edgeID]
		if inverted {
			for j := len(shape) - 1; j >= 0; j-- {
				out = append(out, shape[j])
			}
		} else {
			out = append(out, shape...)
		}
		out = append(out, n.coords[route[i]])
	}
	return out, nil
}

// RouteDistance. total distance (meter) edge-edge route.
func (n *RoadNetwork) RouteDistance(route []uint32) (float32, error) {
	total := float32(0)
	e := n.graph.GetEdgeEnumerator()
	for i := 1; i < len(route); i++ {
		edgeID, _, ok := n.bestEdge(route[i-1], route[i])
		if !ok {
			return 0, fmt.Errorf("%d->%d: %w", route[i-1], route[i], ErrNoEdgeBetween)
		}
		e.MoveTo(route[i-1])
		for e.MoveNext() {
			if e.ID() == edgeID {
				dist, _ := datastructure.DecodeEdgeData(e.Data())
				total += dist
				break
			}
		}
	}
	return total, nil
}
