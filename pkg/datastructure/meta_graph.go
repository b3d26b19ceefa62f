package datastructure

import (
	"fmt"
	"io"
)

/*
DirectedMetaGraph. directed graph dengan record edge berukuran tetap (edgeDataSize word) + array meta terpisah (metaDataSize word).
edge (u,w) cuma disimpan di adjacency u.
*/
type DirectedMetaGraph struct {
	edgeDataSize int
	metaDataSize int
	adjacency    [][]uint32
	edgeTo       []uint32
	edgeData     []uint32
	edgeMeta     []uint32
	edgeCount    uint32
}

func NewDirectedMetaGraph(edgeDataSize, metaDataSize int, vertexCount uint32) *DirectedMetaGraph {
	return &DirectedMetaGraph{
		edgeDataSize: edgeDataSize,
		metaDataSize: metaDataSize,
		adjacency:    make([][]uint32, vertexCount),
		edgeTo:       make([]uint32, 0),
		edgeData:     make([]uint32, 0),
		edgeMeta:     make([]uint32, 0),
	}
}

func (g *DirectedMetaGraph) EdgeDataSize() int {
	return g.edgeDataSize
}

func (g *DirectedMetaGraph) MetaDataSize() int {
	return g.metaDataSize
}

func (g *DirectedMetaGraph) VertexCount() uint32 {
	return uint32(len(g.adjacency))
}

func (g *DirectedMetaGraph) EdgeCount() uint32 {
	return g.edgeCount
}

func (g *DirectedMetaGraph) EnsureVertex(vertex uint32) {
	for uint32(len(g.adjacency)) <= vertex {
		g.adjacency = append(g.adjacency, nil)
	}
}

// AddEdge. data = edgeDataSize word data diikuti metaDataSize word meta.
func (g *DirectedMetaGraph) AddEdge(from, to uint32, data ...uint32) (uint32, error) {
	if from >= g.VertexCount() || to >= g.VertexCount() {
		return 0, fmt.Errorf("add edge %d->%d: %w", from, to, ErrVertexOutOfRange)
	}
	if len(data) != g.edgeDataSize+g.metaDataSize {
		return 0, fmt.Errorf("add edge %d->%d: got %d words, want %d: %w", from, to, len(data),
			g.edgeDataSize+g.metaDataSize, ErrEdgeDataSize)
	}

	edgeID := uint32(len(g.edgeTo))
	g.edgeTo = append(g.edgeTo, to)
	g.edgeData = append(g.edgeData, data[:g.edgeDataSize]...)
	g.edgeMeta = append(g.edgeMeta, data[g.edgeDataSize:]...)
	g.adjacency[from] = append(g.adjacency[from], edgeID)
	g.edgeCount++
	return edgeID, nil
}

// UpdateEdge. overwrite data & meta edge yang sudah ada.
func (g *DirectedMetaGraph) UpdateEdge(edgeID uint32, data ...uint32) error {
	if edgeID >= uint32(len(g.edgeTo)) {
		return fmt.Errorf("update edge %d: %w", edgeID, ErrEdgeNotFound)
	}
	if len(data) != g.edgeDataSize+g.metaDataSize {
		return fmt.Errorf("update edge %d: %w", edgeID, ErrEdgeDataSize)
	}
	copy(g.data(edgeID), data[:g.edgeDataSize])
	copy(g.meta(edgeID), data[g.edgeDataSize:])
	return nil
}

func (g *DirectedMetaGraph) data(edgeID uint32) []uint32 {
	start := int(edgeID) * g.edgeDataSize
	return g.edgeData[start : start+g.edgeDataSize]
}

func (g *DirectedMetaGraph) meta(edgeID uint32) []uint32 {
	start := int(edgeID) * g.metaDataSize
	return g.edgeMeta[start : start+g.metaDataSize]
}

// RemoveEdge. hapus semua edge from->to.
func (g *DirectedMetaGraph) RemoveEdge(from, to uint32) int {
	if from >= g.VertexCount() {
		return 0
	}
	kept := g.adjacency[from][:0]
	removed := 0
	for _, edgeID := range g.adjacency[from] {
		if g.edgeTo[edgeID] == to {
			removed++
			continue
		}
		kept = append(kept, edgeID)
	}
	g.adjacency[from] = kept
	g.edgeCount -= uint32(removed)
	return removed
}

func (g *DirectedMetaGraph) RemoveEdgeByID(from, edgeID uint32) bool {
	if from >= g.VertexCount() {
		return false
	}
	before := len(g.adjacency[from])
	g.adjacency[from] = removeID(g.adjacency[from], edgeID)
	if len(g.adjacency[from]) == before {
		return false
	}
	g.edgeCount--
	return true
}

// RemoveEdges. hapus semua outgoing edge vertex.
func (g *DirectedMetaGraph) RemoveEdges(vertex uint32) int {
	if vertex >= g.VertexCount() {
		return 0
	}
	removed := len(g.adjacency[vertex])
	g.adjacency[vertex] = nil
	g.edgeCount -= uint32(removed)
	return removed
}

func (g *DirectedMetaGraph) GetEdgeEnumerator() *MetaEdgeEnumerator {
	return &MetaEdgeEnumerator{g: g, pos: -1}
}

// ToDynamic. copy ke DirectedDynamicGraph, tiap edge ditulis sebagai [data..., meta...].
func (g *DirectedMetaGraph) ToDynamic() *DirectedDynamicGraph {
	dyn := NewDirectedDynamicGraph(g.edgeDataSize+g.metaDataSize, g.VertexCount())
	words := make([]uint32, g.edgeDataSize+g.metaDataSize)
	for from, edges := range g.adjacency {
		for _, edgeID := range edges {
			copy(words, g.data(edgeID))
			copy(words[g.edgeDataSize:], g.meta(edgeID))
			// vertex & ukuran data sudah pasti valid.
			_, _ = dyn.AddEdge(uint32(from), g.edgeTo[edgeID], words...)
		}
	}
	return dyn
}

type MetaEdgeEnumerator struct {
	g      *DirectedMetaGraph
	vertex uint32
	pos    int
	edgeID uint32
}

var _ EdgeEnumerator = (*MetaEdgeEnumerator)(nil)

func (e *MetaEdgeEnumerator) MoveTo(vertex uint32) bool {
	if vertex >= e.g.VertexCount() {
		return false
	}
	e.vertex = vertex
	e.pos = -1
	return true
}

func (e *MetaEdgeEnumerator) MoveNext() bool {
	e.pos++
	adj := e.g.adjacency[e.vertex]
	if e.pos >= len(adj) {
		return false
	}
	e.edgeID = adj[e.pos]
	return true
}

func (e *MetaEdgeEnumerator) Neighbour() uint32 {
	return e.g.edgeTo[e.edgeID]
}

func (e *MetaEdgeEnumerator) ID() uint32 {
	return e.edgeID
}

func (e *MetaEdgeEnumerator) Data() []uint32 {
	return e.g.data(e.edgeID)
}

func (e *MetaEdgeEnumerator) MetaData() []uint32 {
	return e.g.meta(e.edgeID)
}

func (e *MetaEdgeEnumerator) DataInverted() bool {
	return false
}

type metaGraphSnapshot struct {
	EdgeDataSize uint32
	MetaDataSize uint32
	VertexCount  uint32
	From         []uint32
	To           []uint32
	Data         []uint32
	Meta         []uint32
}

// Serialize. cuma edge yang masih hidup yang ditulis, id edge dinomori ulang.
func (g *DirectedMetaGraph) Serialize(w io.Writer) (int64, error) {
	snap := metaGraphSnapshot{
		EdgeDataSize: uint32(g.edgeDataSize),
		MetaDataSize: uint32(g.metaDataSize),
		VertexCount:  g.VertexCount(),
		From:         make([]uint32, 0, g.edgeCount),
		To:           make([]uint32, 0, g.edgeCount),
		Data:         make([]uint32, 0, int(g.edgeCount)*g.edgeDataSize),
		Meta:         make([]uint32, 0, int(g.edgeCount)*g.metaDataSize),
	}
	for from, edges := range g.adjacency {
		for _, edgeID := range edges {
			snap.From = append(snap.From, uint32(from))
			snap.To = append(snap.To, g.edgeTo[edgeID])
			snap.Data = append(snap.Data, g.data(edgeID)...)
			snap.Meta = append(snap.Meta, g.meta(edgeID)...)
		}
	}
	return writeSnapshot(w, snap)
}

func DeserializeDirectedMetaGraph(r io.Reader) (*DirectedMetaGraph, error) {
	var snap metaGraphSnapshot
	if err := readSnapshot(r, &snap); err != nil {
		return nil, fmt.Errorf("deserialize meta graph: %w", err)
	}
	n := len(snap.To)
	if len(snap.From) != n || len(snap.Data) != n*int(snap.EdgeDataSize) || len(snap.Meta) != n*int(snap.MetaDataSize) {
		return nil, fmt.Errorf("deserialize meta graph: inconsistent edge arrays: %w", ErrCorruptGraph)
	}

	g := NewDirectedMetaGraph(int(snap.EdgeDataSize), int(snap.MetaDataSize), snap.VertexCount)
	g.edgeTo = snap.To
	g.edgeData = snap.Data
	g.edgeMeta = snap.Meta
	for edgeID, from := range snap.From {
		if from >= snap.VertexCount || snap.To[edgeID] >= snap.VertexCount {
			return nil, fmt.Errorf("deserialize meta graph: edge %d: %w", edgeID, ErrCorruptGraph)
		}
		g.adjacency[from] = append(g.adjacency[from], uint32(edgeID))
	}
	g.edgeCount = uint32(n)
	return g, nil
}
