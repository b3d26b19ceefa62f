package routingalgorithm

import (
	"math"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
)

/*
BidirectionalDykstra. forward search dari source & backward search dari target di upward graph.
setiap vertex yang di-settle dicek ke label sisi lain, meeting vertex dengan total weight terkecil disimpan.
search berhenti kalau min pq kedua sisi >= best weight.
*/
type BidirectionalDykstra struct {
	Forward  *Dykstra
	Backward *Dykstra

	bestWeight float32
	meeting    uint32
	forwardH   datastructure.PathHandle
	backwardH  datastructure.PathHandle
	turnF      bool
}

func NewBidirectionalDykstra(g *datastructure.DirectedDynamicGraph) *BidirectionalDykstra {
	return &BidirectionalDykstra{
		Forward:    NewDykstra(g, false),
		Backward:   NewDykstra(g, true),
		bestWeight: float32(math.Inf(1)),
		meeting:    datastructure.NoVertex,
		forwardH:   datastructure.NoPath,
		backwardH:  datastructure.NoPath,
		turnF:      true,
	}
}

func (b *BidirectionalDykstra) sideDone(d *Dykstra) bool {
	return d.Exhausted() || d.PeekWeight() >= b.bestWeight
}

// Step. satu settle di salah satu sisi (bergantian). false kalau search sudah selesai.
func (b *BidirectionalDykstra) Step() bool {
	forwardDone, backwardDone := b.sideDone(b.Forward), b.sideDone(b.Backward)
	if forwardDone && backwardDone {
		return false
	}

	useForward := b.turnF
	if useForward && forwardDone {
		useForward = false
	} else if !useForward && backwardDone {
		useForward = true
	}
	b.turnF = !useForward

	search, other := b.Forward, b.Backward
	if !useForward {
		search, other = b.Backward, b.Forward
	}
	v, ok := search.Step()
	if !ok {
		return true
	}

	h, _ := search.Label(v)
	oh, ok := other.Label(v)
	if !ok {
		return true
	}
	total := search.Arena().Get(h).Weight + other.Arena().Get(oh).Weight
	if total < b.bestWeight {
		b.bestWeight = total
		b.meeting = v
		if useForward {
			b.forwardH, b.backwardH = h, oh
		} else {
			b.forwardH, b.backwardH = oh, h
		}
	}
	return true
}

func (b *BidirectionalDykstra) Run() {
	for b.Step() {
	}
}

// Best. meeting vertex terbaik & handle di masing-masing arena.
func (b *BidirectionalDykstra) Best() (meeting uint32, weight float32, forward, backward datastructure.PathHandle, ok bool) {
	if b.meeting == datastructure.NoVertex {
		return datastructure.NoVertex, 0, datastructure.NoPath, datastructure.NoPath, false
	}
	return b.meeting, b.bestWeight, b.forwardH, b.backwardH, true
}
