package network

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/kelindar/binary"
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
)

type shapeEntry struct {
	Edge   uint32
	Coords []datastructure.Coordinate
}

type viaEntry struct {
	Edge     uint32
	Vertices []uint32
}

type networkSnapshot struct {
	Graph    []byte
	Coords   []datastructure.Coordinate
	Shapes   []shapeEntry
	Vias     []viaEntry
	Profiles []EdgeProfile
}

// Bytes. RoadNetwork lengkap (graph, koordinat, geometry, via, profile table), dipakai kv store.
func (n *RoadNetwork) Bytes() ([]byte, error) {
	var graphBuf bytes.Buffer
	if _, err := n.graph.Serialize(&graphBuf); err != nil {
		return nil, err
	}

	snap := networkSnapshot{
		Graph:    graphBuf.Bytes(),
		Coords:   n.coords,
		Shapes:   make([]shapeEntry, 0, len(n.shapes)),
		Vias:     make([]viaEntry, 0, len(n.vias)),
		Profiles: n.profiles.profiles,
	}
	for edgeID, shape := range n.shapes {
		snap.Shapes = append(snap.Shapes, shapeEntry{Edge: edgeID, Coords: shape})
	}
	for edgeID, via := range n.vias {
		snap.Vias = append(snap.Vias, viaEntry{Edge: edgeID, Vertices: via})
	}
	sort.Slice(snap.Shapes, func(i, j int) bool { return snap.Shapes[i].Edge < snap.Shapes[j].Edge })
	sort.Slice(snap.Vias, func(i, j int) bool { return snap.Vias[i].Edge < snap.Vias[j].Edge })

	bb, err := binary.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode road network: %w", err)
	}
	return bb, nil
}

func FromBytes(bb []byte) (*RoadNetwork, error) {
	var snap networkSnapshot
	if err := binary.Unmarshal(bb, &snap); err != nil {
		return nil, fmt.Errorf("decode road network: %w", err)
	}
	g, err := datastructure.DeserializeGraph(bytes.NewReader(snap.Graph))
	if err != nil {
		return nil, err
	}
	if uint32(len(snap.Coords)) != g.VertexCount() {
		return nil, fmt.Errorf("decode road network: %d coordinates for %d vertices: %w",
			len(snap.Coords), g.VertexCount(), datastructure.ErrCorruptGraph)
	}

	n := NewRoadNetwork()
	n.graph = g
	n.coords = snap.Coords
	for _, s := range snap.Shapes {
		n.shapes[s.Edge] = s.Coords
	}
	for _, v := range snap.Vias {
		n.vias[v.Edge] = v.Vertices
	}
	for _, p := range snap.Profiles {
		if _, err := n.profiles.Intern(p); err != nil {
			return nil, err
		}
	}
	return n, nil
}
