package routingalgorithm

import (
	"math"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
)

/*
Dykstra. dijkstra step-based di upward graph hasil contraction.
forward: lewat arc yang CanMoveForward dari vertex yang di-settle.
backward: lewat arc yang CanMoveBackward (search mundur dari target).
*/
type Dykstra struct {
	g        *datastructure.DirectedDynamicGraph
	e        *datastructure.DynamicEdgeEnumerator
	backward bool

	arena   *datastructure.PathArena
	pq      *datastructure.MinHeap[uint32]
	best    map[uint32]datastructure.PathHandle
	settled map[uint32]struct{}
}

func NewDykstra(g *datastructure.DirectedDynamicGraph, backward bool) *Dykstra {
	return &Dykstra{
		g:        g,
		e:        g.GetEdgeEnumerator(),
		backward: backward,
		arena:    datastructure.NewPathArena(64),
		pq:       datastructure.NewMinHeap[uint32](),
		best:     make(map[uint32]datastructure.PathHandle),
		settled:  make(map[uint32]struct{}),
	}
}

// AddSource. vertex awal dengan weight awal (buat multi-source).
func (d *Dykstra) AddSource(vertex uint32, weight float32) {
	if h, ok := d.best[vertex]; ok && d.arena.Get(h).Weight <= weight {
		return
	}
	h := d.arena.Add(vertex, weight, datastructure.NoEdge, datastructure.NoPath)
	d.best[vertex] = h
	d.pq.Insert(datastructure.PriorityQueueNode[uint32]{Rank: float64(weight), Item: vertex})
}

// Step. settle vertex dengan weight terkecil lalu relax arc-nya. false kalau pq sudah kosong.
func (d *Dykstra) Step() (uint32, bool) {
	item, err := d.pq.ExtractMin()
	if err != nil {
		return 0, false
	}
	v := item.Item
	d.settled[v] = struct{}{}

	handle := d.best[v]
	current := d.arena.Get(handle)
	predecessor := datastructure.NoVertex
	if current.From != datastructure.NoPath {
		predecessor = d.arena.Get(current.From).Vertex
	}

	d.e.MoveTo(v)
	for d.e.MoveNext() {
		to := d.e.Neighbour()
		if to == predecessor {
			continue
		}
		if _, ok := d.settled[to]; ok {
			continue
		}
		data := d.e.Data()
		dir := datastructure.DecodeDirection(data[0])
		if d.backward && !dir.CanMoveBackward() {
			continue
		}
		if !d.backward && !dir.CanMoveForward() {
			continue
		}

		newWeight := current.Weight + datastructure.DecodeWeight(data[0])
		if prev, ok := d.best[to]; ok && d.arena.Get(prev).Weight <= newWeight {
			continue
		}
		next := d.arena.Add(to, newWeight, datastructure.NewDirectedEdgeID(d.e.ID(), !d.backward), handle)
		d.best[to] = next
		d.pq.Insert(datastructure.PriorityQueueNode[uint32]{Rank: float64(newWeight), Item: to})
	}
	return v, true
}

func (d *Dykstra) Settled(v uint32) bool {
	_, ok := d.settled[v]
	return ok
}

// Label. label terbaik (tentative atau settled) untuk v.
func (d *Dykstra) Label(v uint32) (datastructure.PathHandle, bool) {
	h, ok := d.best[v]
	return h, ok
}

// PeekWeight. weight terkecil di pq, +Inf kalau kosong.
func (d *Dykstra) PeekWeight() float32 {
	item, err := d.pq.GetMin()
	if err != nil {
		return float32(math.Inf(1))
	}
	return float32(item.Rank)
}

func (d *Dykstra) Exhausted() bool {
	return d.pq.Size() == 0
}

func (d *Dykstra) Arena() *datastructure.PathArena {
	return d.arena
}
