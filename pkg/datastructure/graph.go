package datastructure

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrVertexOutOfRange = errors.New("vertex out of range")
	ErrLoopEdge         = errors.New("loop edges are not supported")
	ErrEdgeDataSize     = errors.New("edge data has wrong size")
	ErrEdgeNotFound     = errors.New("edge not found")
)

// EdgeEnumerator is shared by every graph storage. MoveTo positions the
// enumerator at a vertex, MoveNext advances to the next incident edge.
type EdgeEnumerator interface {
	MoveTo(vertex uint32) bool
	MoveNext() bool
	Neighbour() uint32
	ID() uint32
	Data() []uint32
	DataInverted() bool
}

// Edge is a base edge record as stored.
type Edge struct {
	ID   uint32
	From uint32
	To   uint32
	Data []uint32
}

/*
Graph. undirected base graph. satu record per pasangan vertex, tapi record itu kelihatan dari kedua endpoint.
kalau dilihat dari endpoint "to", DataInverted() == true.
edge yang dihapus tetap menyimpan id-nya (tombstone), jadi shape & DirectedEdgeID tetap valid.
*/
type Graph struct {
	edgeDataSize int
	adjacency    [][]uint32
	edgeFrom     []uint32
	edgeTo       []uint32
	edgeData     []uint32
	removed      []bool
	liveEdges    uint32
}

func NewGraph(edgeDataSize int, vertexCount uint32) *Graph {
	return &Graph{
		edgeDataSize: edgeDataSize,
		adjacency:    make([][]uint32, vertexCount),
		edgeFrom:     make([]uint32, 0),
		edgeTo:       make([]uint32, 0),
		edgeData:     make([]uint32, 0),
		removed:      make([]bool, 0),
	}
}

func (g *Graph) EdgeDataSize() int {
	return g.edgeDataSize
}

func (g *Graph) VertexCount() uint32 {
	return uint32(len(g.adjacency))
}

// EdgeCount. jumlah edge yang belum dihapus.
func (g *Graph) EdgeCount() uint32 {
	return g.liveEdges
}

// EdgeIDCount. jumlah id edge yang pernah dibuat, termasuk yang sudah dihapus.
func (g *Graph) EdgeIDCount() uint32 {
	return uint32(len(g.edgeTo))
}

func (g *Graph) AddVertex() uint32 {
	g.adjacency = append(g.adjacency, nil)
	return uint32(len(g.adjacency) - 1)
}

func (g *Graph) EnsureVertex(vertex uint32) {
	for uint32(len(g.adjacency)) <= vertex {
		g.adjacency = append(g.adjacency, nil)
	}
}

func (g *Graph) AddEdge(from, to uint32, data ...uint32) (uint32, error) {
	if from >= g.VertexCount() || to >= g.VertexCount() {
		return 0, fmt.Errorf("add edge %d->%d: %w", from, to, ErrVertexOutOfRange)
	}
	if from == to {
		return 0, fmt.Errorf("add edge %d->%d: %w", from, to, ErrLoopEdge)
	}
	if len(data) != g.edgeDataSize {
		return 0, fmt.Errorf("add edge %d->%d: got %d words, want %d: %w", from, to, len(data), g.edgeDataSize, ErrEdgeDataSize)
	}

	edgeID := uint32(len(g.edgeTo))
	g.edgeFrom = append(g.edgeFrom, from)
	g.edgeTo = append(g.edgeTo, to)
	g.edgeData = append(g.edgeData, data...)
	g.removed = append(g.removed, false)

	g.adjacency[from] = append(g.adjacency[from], edgeID)
	g.adjacency[to] = append(g.adjacency[to], edgeID)
	g.liveEdges++
	return edgeID, nil
}

func (g *Graph) GetEdge(edgeID uint32) (Edge, bool) {
	if edgeID >= uint32(len(g.edgeTo)) || g.removed[edgeID] {
		return Edge{}, false
	}
	return Edge{
		ID:   edgeID,
		From: g.edgeFrom[edgeID],
		To:   g.edgeTo[edgeID],
		Data: g.data(edgeID),
	}, true
}

func (g *Graph) data(edgeID uint32) []uint32 {
	start := int(edgeID) * g.edgeDataSize
	return g.edgeData[start : start+g.edgeDataSize]
}

func (g *Graph) Degree(vertex uint32) int {
	if vertex >= g.VertexCount() {
		return 0
	}
	return len(g.adjacency[vertex])
}

// HasEdge. true kalau ada edge antara a dan b (arah manapun).
func (g *Graph) HasEdge(a, b uint32) bool {
	if a >= g.VertexCount() {
		return false
	}
	for _, edgeID := range g.adjacency[a] {
		if g.other(edgeID, a) == b {
			return true
		}
	}
	return false
}

func (g *Graph) other(edgeID, vertex uint32) uint32 {
	if g.edgeFrom[edgeID] == vertex {
		return g.edgeTo[edgeID]
	}
	return g.edgeFrom[edgeID]
}

func (g *Graph) RemoveEdgeByID(edgeID uint32) bool {
	if edgeID >= uint32(len(g.edgeTo)) || g.removed[edgeID] {
		return false
	}
	from, to := g.edgeFrom[edgeID], g.edgeTo[edgeID]
	g.adjacency[from] = removeID(g.adjacency[from], edgeID)
	g.adjacency[to] = removeID(g.adjacency[to], edgeID)
	g.removed[edgeID] = true
	g.liveEdges--
	return true
}

// RemoveEdge. hapus semua edge antara from dan to.
func (g *Graph) RemoveEdge(from, to uint32) int {
	if from >= g.VertexCount() {
		return 0
	}
	toRemove := make([]uint32, 0, 1)
	for _, edgeID := range g.adjacency[from] {
		if g.other(edgeID, from) == to {
			toRemove = append(toRemove, edgeID)
		}
	}
	for _, edgeID := range toRemove {
		g.RemoveEdgeByID(edgeID)
	}
	return len(toRemove)
}

// RemoveEdges. hapus semua edge yang incident ke vertex.
func (g *Graph) RemoveEdges(vertex uint32) int {
	if vertex >= g.VertexCount() {
		return 0
	}
	toRemove := append([]uint32(nil), g.adjacency[vertex]...)
	for _, edgeID := range toRemove {
		g.RemoveEdgeByID(edgeID)
	}
	return len(toRemove)
}

func removeID(ids []uint32, id uint32) []uint32 {
	for i, other := range ids {
		if other == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func (g *Graph) GetEdgeEnumerator() *GraphEdgeEnumerator {
	return &GraphEdgeEnumerator{g: g, pos: -1}
}

type GraphEdgeEnumerator struct {
	g      *Graph
	vertex uint32
	pos    int
	edgeID uint32
}

var _ EdgeEnumerator = (*GraphEdgeEnumerator)(nil)

func (e *GraphEdgeEnumerator) MoveTo(vertex uint32) bool {
	if vertex >= e.g.VertexCount() {
		return false
	}
	e.vertex = vertex
	e.pos = -1
	return true
}

func (e *GraphEdgeEnumerator) MoveNext() bool {
	e.pos++
	adj := e.g.adjacency[e.vertex]
	if e.pos >= len(adj) {
		return false
	}
	e.edgeID = adj[e.pos]
	return true
}

func (e *GraphEdgeEnumerator) Vertex() uint32 {
	return e.vertex
}

func (e *GraphEdgeEnumerator) Neighbour() uint32 {
	return e.g.other(e.edgeID, e.vertex)
}

func (e *GraphEdgeEnumerator) ID() uint32 {
	return e.edgeID
}

func (e *GraphEdgeEnumerator) Data() []uint32 {
	return e.g.data(e.edgeID)
}

// DataInverted. true kalau edge dilihat dari endpoint "to".
func (e *GraphEdgeEnumerator) DataInverted() bool {
	return e.g.edgeFrom[e.edgeID] != e.vertex
}

// DirectedID. directed edge id searah traversal vertex -> neighbour.
func (e *GraphEdgeEnumerator) DirectedID() DirectedEdgeID {
	return NewDirectedEdgeID(e.edgeID, !e.DataInverted())
}

type graphSnapshot struct {
	EdgeDataSize uint32
	VertexCount  uint32
	From         []uint32
	To           []uint32
	Data         []uint32
	Removed      []bool
}

func (g *Graph) Serialize(w io.Writer) (int64, error) {
	return writeSnapshot(w, graphSnapshot{
		EdgeDataSize: uint32(g.edgeDataSize),
		VertexCount:  g.VertexCount(),
		From:         g.edgeFrom,
		To:           g.edgeTo,
		Data:         g.edgeData,
		Removed:      g.removed,
	})
}

func DeserializeGraph(r io.Reader) (*Graph, error) {
	var snap graphSnapshot
	if err := readSnapshot(r, &snap); err != nil {
		return nil, fmt.Errorf("deserialize graph: %w", err)
	}
	if len(snap.From) != len(snap.To) || len(snap.Removed) != len(snap.To) ||
		len(snap.Data) != len(snap.To)*int(snap.EdgeDataSize) {
		return nil, fmt.Errorf("deserialize graph: inconsistent edge arrays: %w", ErrCorruptGraph)
	}

	g := NewGraph(int(snap.EdgeDataSize), snap.VertexCount)
	g.edgeFrom = snap.From
	g.edgeTo = snap.To
	g.edgeData = snap.Data
	g.removed = snap.Removed
	for edgeID := range g.edgeTo {
		if g.removed[edgeID] {
			continue
		}
		from, to := g.edgeFrom[edgeID], g.edgeTo[edgeID]
		if from >= snap.VertexCount || to >= snap.VertexCount {
			return nil, fmt.Errorf("deserialize graph: edge %d: %w", edgeID, ErrCorruptGraph)
		}
		g.adjacency[from] = append(g.adjacency[from], uint32(edgeID))
		g.adjacency[to] = append(g.adjacency[to], uint32(edgeID))
		g.liveEdges++
	}
	return g, nil
}
