package datastructure

import (
	"fmt"
	"io"
)

/*
DirectedDynamicGraph. directed graph dengan data edge yang panjangnya variabel (minimal fixedSize word).
tiap edge punya index {offset, length} ke array words.
*/
type DirectedDynamicGraph struct {
	fixedSize  int
	adjacency  [][]uint32
	edgeTo     []uint32
	edgeOffset []uint32
	edgeLength []uint32
	words      []uint32
	edgeCount  uint32
}

func NewDirectedDynamicGraph(fixedSize int, vertexCount uint32) *DirectedDynamicGraph {
	return &DirectedDynamicGraph{
		fixedSize:  fixedSize,
		adjacency:  make([][]uint32, vertexCount),
		edgeTo:     make([]uint32, 0),
		edgeOffset: make([]uint32, 0),
		edgeLength: make([]uint32, 0),
		words:      make([]uint32, 0),
	}
}

func (g *DirectedDynamicGraph) FixedSize() int {
	return g.fixedSize
}

func (g *DirectedDynamicGraph) VertexCount() uint32 {
	return uint32(len(g.adjacency))
}

func (g *DirectedDynamicGraph) EdgeCount() uint32 {
	return g.edgeCount
}

func (g *DirectedDynamicGraph) EnsureVertex(vertex uint32) {
	for uint32(len(g.adjacency)) <= vertex {
		g.adjacency = append(g.adjacency, nil)
	}
}

func (g *DirectedDynamicGraph) AddEdge(from, to uint32, data ...uint32) (uint32, error) {
	if from >= g.VertexCount() || to >= g.VertexCount() {
		return 0, fmt.Errorf("add edge %d->%d: %w", from, to, ErrVertexOutOfRange)
	}
	if len(data) < g.fixedSize {
		return 0, fmt.Errorf("add edge %d->%d: got %d words, want at least %d: %w", from, to, len(data),
			g.fixedSize, ErrEdgeDataSize)
	}

	edgeID := uint32(len(g.edgeTo))
	g.edgeTo = append(g.edgeTo, to)
	g.edgeOffset = append(g.edgeOffset, uint32(len(g.words)))
	g.edgeLength = append(g.edgeLength, uint32(len(data)))
	g.words = append(g.words, data...)
	g.adjacency[from] = append(g.adjacency[from], edgeID)
	g.edgeCount++
	return edgeID, nil
}

// UpdateEdge. kalau data baru lebih panjang dari yang lama, words lama ditinggal & data ditulis di akhir array.
func (g *DirectedDynamicGraph) UpdateEdge(edgeID uint32, data ...uint32) error {
	if edgeID >= uint32(len(g.edgeTo)) {
		return fmt.Errorf("update edge %d: %w", edgeID, ErrEdgeNotFound)
	}
	if len(data) < g.fixedSize {
		return fmt.Errorf("update edge %d: %w", edgeID, ErrEdgeDataSize)
	}
	if uint32(len(data)) <= g.edgeLength[edgeID] {
		copy(g.words[g.edgeOffset[edgeID]:], data)
	} else {
		g.edgeOffset[edgeID] = uint32(len(g.words))
		g.words = append(g.words, data...)
	}
	g.edgeLength[edgeID] = uint32(len(data))
	return nil
}

func (g *DirectedDynamicGraph) EdgeData(edgeID uint32) []uint32 {
	start := g.edgeOffset[edgeID]
	return g.words[start : start+g.edgeLength[edgeID]]
}

func (g *DirectedDynamicGraph) EdgeTarget(edgeID uint32) uint32 {
	return g.edgeTo[edgeID]
}

func (g *DirectedDynamicGraph) RemoveEdge(from, to uint32) int {
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

func (g *DirectedDynamicGraph) RemoveEdgeByID(from, edgeID uint32) bool {
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

func (g *DirectedDynamicGraph) RemoveEdges(vertex uint32) int {
	if vertex >= g.VertexCount() {
		return 0
	}
	removed := len(g.adjacency[vertex])
	g.adjacency[vertex] = nil
	g.edgeCount -= uint32(removed)
	return removed
}

func (g *DirectedDynamicGraph) GetEdgeEnumerator() *DynamicEdgeEnumerator {
	return &DynamicEdgeEnumerator{g: g, pos: -1}
}

type DynamicEdgeEnumerator struct {
	g      *DirectedDynamicGraph
	vertex uint32
	pos    int
	edgeID uint32
}

var _ EdgeEnumerator = (*DynamicEdgeEnumerator)(nil)

func (e *DynamicEdgeEnumerator) MoveTo(vertex uint32) bool {
	if vertex >= e.g.VertexCount() {
		return false
	}
	e.vertex = vertex
	e.pos = -1
	return true
}

func (e *DynamicEdgeEnumerator) MoveNext() bool {
	e.pos++
	adj := e.g.adjacency[e.vertex]
	if e.pos >= len(adj) {
		return false
	}
	e.edgeID = adj[e.pos]
	return true
}

func (e *DynamicEdgeEnumerator) Neighbour() uint32 {
	return e.g.edgeTo[e.edgeID]
}

func (e *DynamicEdgeEnumerator) ID() uint32 {
	return e.edgeID
}

func (e *DynamicEdgeEnumerator) Data() []uint32 {
	return e.g.EdgeData(e.edgeID)
}

func (e *DynamicEdgeEnumerator) DataInverted() bool {
	return false
}

type dynamicGraphSnapshot struct {
	FixedSize   uint32
	VertexCount uint32
	From        []uint32
	To          []uint32
	Length      []uint32
	Words       []uint32
}

func (g *DirectedDynamicGraph) Serialize(w io.Writer) (int64, error) {
	snap := dynamicGraphSnapshot{
		FixedSize:   uint32(g.fixedSize),
		VertexCount: g.VertexCount(),
		From:        make([]uint32, 0, g.edgeCount),
		To:          make([]uint32, 0, g.edgeCount),
		Length:      make([]uint32, 0, g.edgeCount),
		Words:       make([]uint32, 0, int(g.edgeCount)*g.fixedSize),
	}
	for from, edges := range g.adjacency {
		for _, edgeID := range edges {
			snap.From = append(snap.From, uint32(from))
			snap.To = append(snap.To, g.edgeTo[edgeID])
			snap.Length = append(snap.Length, g.edgeLength[edgeID])
			snap.Words = append(snap.Words, g.EdgeData(edgeID)...)
		}
	}
	return writeSnapshot(w, snap)
}

func DeserializeDirectedDynamicGraph(r io.Reader) (*DirectedDynamicGraph, error) {
	var snap dynamicGraphSnapshot
	if err := readSnapshot(r, &snap); err != nil {
		return nil, fmt.Errorf("deserialize dynamic graph: %w", err)
	}
	n := len(snap.To)
	if len(snap.From) != n || len(snap.Length) != n {
		return nil, fmt.Errorf("deserialize dynamic graph: inconsistent edge arrays: %w", ErrCorruptGraph)
	}

	g := NewDirectedDynamicGraph(int(snap.FixedSize), snap.VertexCount)
	g.edgeTo = snap.To
	g.edgeLength = snap.Length
	g.words = snap.Words
	g.edgeOffset = make([]uint32, n)
	offset := uint32(0)
	for edgeID, from := range snap.From {
		if from >= snap.VertexCount || snap.To[edgeID] >= snap.VertexCount || snap.Length[edgeID] < snap.FixedSize {
			return nil, fmt.Errorf("deserialize dynamic graph: edge %d: %w", edgeID, ErrCorruptGraph)
		}
		g.edgeOffset[edgeID] = offset
		offset += snap.Length[edgeID]
		g.adjacency[from] = append(g.adjacency[from], uint32(edgeID))
	}
	if int(offset) != len(snap.Words) {
		return nil, fmt.Errorf("deserialize dynamic graph: word count mismatch: %w", ErrCorruptGraph)
	}
	g.edgeCount = uint32(n)
	return g, nil
}
