package datastructure

// PathHandle. index node di PathArena.
type PathHandle int32

const NoPath PathHandle = -1

// PathNode. satu langkah path: vertex yang dicapai, total weight, edge yang dipakai & node sebelumnya.
type PathNode struct {
	Vertex uint32
	Weight float32
	Edge   DirectedEdgeID
	From   PathHandle
}

// PathArena. semua PathNode satu search disimpan di satu slice, saling refer pakai PathHandle.
type PathArena struct {
	nodes []PathNode
}

func NewPathArena(capacity int) *PathArena {
	return &PathArena{nodes: make([]PathNode, 0, capacity)}
}

func (a *PathArena) Add(vertex uint32, weight float32, edge DirectedEdgeID, from PathHandle) PathHandle {
	a.nodes = append(a.nodes, PathNode{Vertex: vertex, Weight: weight, Edge: edge, From: from})
	return PathHandle(len(a.nodes) - 1)
}

func (a *PathArena) Get(h PathHandle) PathNode {
	return a.nodes[h]
}

func (a *PathArena) Len() int {
	return len(a.nodes)
}

func (a *PathArena) Reset() {
	a.nodes = a.nodes[:0]
}

// Vertices. urutan vertex dari root sampai h.
func (a *PathArena) Vertices(h PathHandle) []uint32 {
	out := make([]uint32, 0)
	for ; h != NoPath; h = a.nodes[h].From {
		out = append(out, a.nodes[h].Vertex)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Handles. urutan handle dari root sampai h.
func (a *PathArena) Handles(h PathHandle) []PathHandle {
	out := make([]PathHandle, 0)
	for ; h != NoPath; h = a.nodes[h].From {
		out = append(out, h)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
