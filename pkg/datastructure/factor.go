package datastructure

import "math"

const (
	// NoVertex marks an original (non-shortcut) contracted edge.
	NoVertex uint32 = math.MaxUint32
	// NoEdge is never a valid DirectedEdgeID.
	NoEdge DirectedEdgeID = 0
	// MaxDualEdges bounds the base edge ids of an edge-based graph: the
	// edgeVertices index of the last dual vertex (4*edgeID+3) must fit in uint32.
	MaxDualEdges uint32 = math.MaxUint32 / 4
)

// Factor is the traversal multiplier of a profile. Value == 0 means the
// profile is not traversable. Direction is relative to storage direction.
type Factor struct {
	Value     float32
	Direction Direction
}

func NoFactor() Factor {
	return Factor{}
}

func (f Factor) IsNoFactor() bool {
	return f.Value == 0
}

// CostFunction maps a base edge profile id to its factor.
type CostFunction func(profile uint16) Factor

// DirectedEdgeID. magnitude = stored edge id + 1, negative = dilewati berlawanan arah penyimpanan.
type DirectedEdgeID int64

func NewDirectedEdgeID(edgeID uint32, forward bool) DirectedEdgeID {
	if forward {
		return DirectedEdgeID(int64(edgeID) + 1)
	}
	return -DirectedEdgeID(int64(edgeID) + 1)
}

func (d DirectedEdgeID) EdgeID() uint32 {
	if d < 0 {
		return uint32(-d - 1)
	}
	return uint32(d - 1)
}

func (d DirectedEdgeID) Forward() bool {
	return d > 0
}

func (d DirectedEdgeID) Reverse() DirectedEdgeID {
	return -d
}

func (d DirectedEdgeID) IsValid() bool {
	return d != NoEdge
}

// DualVertex. vertex id di edge-based graph untuk directed edge ini, edge id harus < MaxDualEdges.
func (d DirectedEdgeID) DualVertex() uint32 {
	if d > 0 {
		return uint32(d-1) * 2
	}
	return uint32(-d-1)*2 + 1
}

func DirectedEdgeIDFromDualVertex(v uint32) DirectedEdgeID {
	return NewDirectedEdgeID(v/2, v%2 == 0)
}
