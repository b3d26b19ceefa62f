package contractor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/restriction"
	"golang.org/x/exp/slog"
)

var (
	ErrEdgeVerticesSize  = errors.New("edge vertices must hold two base vertices per dual vertex")
	ErrAlreadyContracted = errors.New("vertex out of range or already contracted")
)

type ContractionConfig struct {
	// MaxSettles. batas settle witness search waktu contraction beneran.
	MaxSettles int
	// SimulationMaxSettles. batas settle waktu hitung priority (simulasi contraction).
	SimulationMaxSettles int
	TieIsWitness         bool
	// TimeCost. kalau tidak nil, graph node-based di-augment dengan distance & time tiap edge.
	TimeCost datastructure.CostFunction
}

func DefaultContractionConfig() ContractionConfig {
	return ContractionConfig{
		MaxSettles:           1000,
		SimulationMaxSettles: 100,
		TieIsWitness:         true,
	}
}

type Stats struct {
	Contracted int
	// Shortcuts. jumlah shortcut per arah tempuh yang ditulis ke graph.
	Shortcuts int
	Duration   time.Duration
}

// shortcut. arc yang akan disimpan dari vertex from, arah tempuh from -> arc.To.
type shortcut struct {
	from uint32
	arc  Arc
}

/*
HierarchyBuilder. contraction hierarchies di atas WorkingGraph.
setiap vertex dikontraksi sesuai urutan priority, setelah dikontraksi vertex itu cuma menyimpan arc ke vertex dengan rank lebih tinggi.
*/
type HierarchyBuilder struct {
	g          WorkingGraph
	seq        *SequenceContext
	cfg        ContractionConfig
	witness    WitnessCalculator
	simulation WitnessCalculator

	pq                   *datastructure.MinHeap[uint32]
	initialized          bool
	contracted           []bool
	contractedNeighbours []int
	depth                []int

	stats Stats
	start time.Time
	err   error

	arcs []Arc
}

// NewHierarchyBuilder. node-based contraction. graph dimodifikasi in place.
func NewHierarchyBuilder(g *datastructure.DirectedMetaGraph, cfg ContractionConfig) *HierarchyBuilder {
	return newHierarchyBuilder(newMetaWorkingGraph(g), nil, cfg)
}

// NewEdgeBasedHierarchyBuilder. contraction di dual graph, shortcut yang melanggar restrictions tidak pernah dibuat.
func NewEdgeBasedHierarchyBuilder(dual *datastructure.DirectedDynamicGraph, restrictions restriction.Set,
	edgeVertices []uint32, cfg ContractionConfig) (*HierarchyBuilder, error) {
	if uint32(len(edgeVertices)) != 2*dual.VertexCount() {
		return nil, fmt.Errorf("%d edge vertices for %d dual vertices: %w", len(edgeVertices), dual.VertexCount(),
			ErrEdgeVerticesSize)
	}
	seq := &SequenceContext{Restrictions: restrictions, EdgeVertices: edgeVertices}
	return newHierarchyBuilder(newDynamicWorkingGraph(dual), seq, cfg), nil
}

func newHierarchyBuilder(g WorkingGraph, seq *SequenceContext, cfg ContractionConfig) *HierarchyBuilder {
	n := g.VertexCount()
	return &HierarchyBuilder{
		g:                    g,
		seq:                  seq,
		cfg:                  cfg,
		witness:              NewWitnessCalculator(cfg.MaxSettles, cfg.TieIsWitness),
		simulation:           NewWitnessCalculator(cfg.SimulationMaxSettles, cfg.TieIsWitness),
		pq:                   datastructure.NewMinHeap[uint32](),
		contracted:           make([]bool, n),
		contractedNeighbours: make([]int, n),
		depth:                make([]int, n),
	}
}

func (b *HierarchyBuilder) Stats() Stats {
	return b.stats
}

func (b *HierarchyBuilder) Err() error {
	return b.err
}

func (b *HierarchyBuilder) IsContracted(v uint32) bool {
	return b.contracted[v]
}

func (b *HierarchyBuilder) initQueue() {
	b.initialized = true
	if b.start.IsZero() {
		b.start = time.Now()
	}
	for v := uint32(0); v < b.g.VertexCount(); v++ {
		if b.contracted[v] {
			continue
		}
		b.pq.Insert(datastructure.PriorityQueueNode[uint32]{Rank: b.priority(v), Item: v})
	}
}

/*
Step. kontraksi satu vertex dengan priority terkecil (lazy update: priority dihitung ulang waktu di-pop,
kalau lebih besar dari min berikutnya vertex dimasukkan lagi ke pq).
*/
func (b *HierarchyBuilder) Step() (uint32, bool) {
	if !b.initialized {
		b.initQueue()
	}
	if b.err != nil {
		return 0, false
	}

	for b.pq.Size() > 0 {
		item, err := b.pq.ExtractMin()
		if err != nil {
			b.err = err
			return 0, false
		}
		v := item.Item
		if b.contracted[v] {
			continue
		}

		priority := b.priority(v)
		if next, err := b.pq.GetMin(); err == nil && priority > next.Rank {
			b.pq.Insert(datastructure.PriorityQueueNode[uint32]{Rank: priority, Item: v})
			continue
		}

		if err := b.Contract(v); err != nil {
			b.err = err
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// Contract. kontraksi v sekarang juga, tanpa lewat priority queue.
func (b *HierarchyBuilder) Contract(v uint32) error {
	if b.start.IsZero() {
		b.start = time.Now()
	}
	if v >= b.g.VertexCount() || b.contracted[v] {
		return fmt.Errorf("vertex %d: %w", v, ErrAlreadyContracted)
	}
	if err := b.contract(v); err != nil {
		return fmt.Errorf("contract vertex %d: %w", v, err)
	}
	b.stats.Contracted++
	b.stats.Duration = time.Since(b.start)
	if b.stats.Contracted%10000 == 0 {
		slog.Info("contracting vertices", "contracted", b.stats.Contracted, "shortcuts", b.stats.Shortcuts)
	}
	return nil
}

func (b *HierarchyBuilder) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := b.Step(); !ok {
			break
		}
	}
	if b.err != nil {
		return b.err
	}
	slog.Info("contraction done", "vertices", b.stats.Contracted, "shortcuts", b.stats.Shortcuts,
		"duration", b.stats.Duration)
	return nil
}

// priority. 10*edgeDifference + contractedNeighbours + depth.
func (b *HierarchyBuilder) priority(v uint32) float64 {
	shortcuts, degree := b.findShortcuts(v, b.simulation)
	edgeDifference := len(shortcuts) - degree
	return float64(10*edgeDifference + b.contractedNeighbours[v] + b.depth[v])
}

func (b *HierarchyBuilder) contract(v uint32) error {
	shortcuts, _ := b.findShortcuts(v, b.witness)
	for _, s := range shortcuts {
		added, err := addOrUpdateArc(b.g, s.from, s.arc)
		if err != nil {
			return err
		}
		if added {
			b.stats.Shortcuts++
		}
	}

	b.arcs = b.g.Arcs(v, b.arcs)
	for _, arc := range b.arcs {
		x := arc.To
		if b.g.RemoveArcsTo(x, v) == 0 {
			// parallel arc ke x yang sama sudah diproses.
			continue
		}
		b.contractedNeighbours[x]++
		if b.depth[v]+1 > b.depth[x] {
			b.depth[x] = b.depth[v] + 1
		}
	}
	b.contracted[v] = true
	return nil
}

/*
findShortcuts. semua shortcut yang dibutuhkan kalau v dikontraksi. juga mengembalikan degree v.
untuk tiap pasangan arc (u,v) & (v,w): forward u->v->w, backward w->v->u.
witness search dikelompokkan per u: satu forward search & satu backward search dari u.
*/
func (b *HierarchyBuilder) findShortcuts(v uint32, calc WitnessCalculator) ([]shortcut, int) {
	arcs := b.g.Arcs(v, nil)

	order := make([]uint32, 0, len(arcs))
	seen := make(map[uint32]struct{}, len(arcs))
	fwd := make(map[uint32][]shortcut)
	bwd := make(map[uint32][]shortcut)
	for i := range arcs {
		for j := i + 1; j < len(arcs); j++ {
			a1, a2 := arcs[i], arcs[j]
			u, w := a1.To, a2.To
			if u == w {
				continue
			}
			if _, ok := seen[u]; !ok {
				seen[u] = struct{}{}
				order = append(order, u)
			}

			if a1.Direction.CanMoveBackward() && a2.Direction.CanMoveForward() {
				tail := concatTail(a1.Tail, a2.Tail)
				if b.sequenceAllowed(u, tail, w) {
					fwd[u] = append(fwd[u], shortcut{from: u, arc: combine(a1, a2, w, v, tail)})
				}
			}
			if a2.Direction.CanMoveBackward() && a1.Direction.CanMoveForward() {
				tail := concatTail(a2.Tail, a1.Tail)
				if b.sequenceAllowed(w, tail, u) {
					bwd[u] = append(bwd[u], shortcut{from: w, arc: combine(a2, a1, u, v, tail)})
				}
			}
		}
	}

	var needed []shortcut
	for _, u := range order {
		if cands := fwd[u]; len(cands) > 0 {
			targets, maxWeight := searchTargets(cands, false)
			s := calc.NewSequenceSearch(b.g, b.seq, u, targets, v, maxWeight, false)
			s.Run()
			for _, c := range cands {
				if found, _, ok := s.Witness(c.arc.To); ok && calc.IsWitness(found, c.arc.Weight) {
					continue
				}
				needed = append(needed, c)
			}
		}
		if cands := bwd[u]; len(cands) > 0 {
			targets, maxWeight := searchTargets(cands, true)
			s := calc.NewSequenceSearch(b.g, b.seq, u, targets, v, maxWeight, true)
			s.Run()
			for _, c := range cands {
				if found, _, ok := s.Witness(c.from); ok && calc.IsWitness(found, c.arc.Weight) {
					continue
				}
				needed = append(needed, c)
			}
		}
	}
	return needed, len(arcs)
}

// sequenceAllowed. cek [from(u)] ++ tail ++ [to(w)] ke restrictions (edge-based saja).
func (b *HierarchyBuilder) sequenceAllowed(u uint32, tail []uint32, w uint32) bool {
	if !b.seq.active() {
		return true
	}
	sequence := make([]uint32, 0, len(tail)+2)
	sequence = append(sequence, b.seq.from(u))
	sequence = append(sequence, tail...)
	sequence = append(sequence, b.seq.to(w))
	return b.seq.Restrictions.IsSequenceAllowed(sequence)
}

// combine. shortcut lewat v: first lalu second, menuju to.
func combine(first, second Arc, to, via uint32, tail []uint32) Arc {
	return Arc{
		To:         to,
		Weight:     first.Weight + second.Weight,
		Contracted: via,
		Distance:   first.Distance + second.Distance,
		Time:       first.Time + second.Time,
		Tail:       tail,
	}
}

func concatTail(a, b []uint32) []uint32 {
	if len(a)+len(b) == 0 {
		return nil
	}
	out := make([]uint32, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func searchTargets(cands []shortcut, backward bool) ([]uint32, float32) {
	targets := make([]uint32, 0, len(cands))
	maxWeight := float32(0)
	for _, c := range cands {
		if backward {
			targets = append(targets, c.from)
		} else {
			targets = append(targets, c.arc.To)
		}
		if c.arc.Weight > maxWeight {
			maxWeight = c.arc.Weight
		}
	}
	return targets, maxWeight
}

/*
addOrUpdateArc. simpan arc dengan arah tempuh from -> arc.To di kedua endpoint.
kalau sudah ada arc from -> to yang weight-nya <= arc baru, tidak ada perubahan.
kalau tidak, semua arc antara from & to dihapus lalu ditulis ulang: arc baru + arc arah sebaliknya yang terbaik.
node-based: kalau dua arah datanya sama, disimpan sebagai satu arc Bidirectional.
*/
func addOrUpdateArc(g WorkingGraph, from uint32, arc Arc) (bool, error) {
	to := arc.To
	var bestF, bestB *Arc
	existing := g.Arcs(from, nil)
	for i := range existing {
		e := &existing[i]
		if e.To != to {
			continue
		}
		if e.Direction.CanMoveForward() && (bestF == nil || e.Weight < bestF.Weight) {
			bestF = e
		}
		if e.Direction.CanMoveBackward() && (bestB == nil || e.Weight < bestB.Weight) {
			bestB = e
		}
	}
	if bestF != nil && bestF.Weight <= arc.Weight {
		return false, nil
	}

	g.RemoveArcsTo(from, to)
	g.RemoveArcsTo(to, from)

	if bestB != nil && g.MergeBidirectional() && sameArcData(arc, *bestB) {
		return true, addBothEnds(g, from, to, arc, datastructure.Bidirectional)
	}
	if err := addBothEnds(g, from, to, arc, datastructure.Forward); err != nil {
		return false, err
	}
	if bestB != nil {
		if err := addBothEnds(g, from, to, *bestB, datastructure.Backward); err != nil {
			return false, err
		}
	}
	return true, nil
}

// addBothEnds. dir relatif ke from, di sisi to arahnya dibalik.
func addBothEnds(g WorkingGraph, from, to uint32, arc Arc, dir datastructure.Direction) error {
	arc.To = to
	arc.Direction = dir
	if err := g.AddArc(from, arc); err != nil {
		return err
	}
	arc.To = from
	arc.Direction = dir.Reverse()
	return g.AddArc(to, arc)
}

func sameArcData(a, b Arc) bool {
	return a.Weight == b.Weight && a.Contracted == b.Contracted && a.Distance == b.Distance &&
		a.Time == b.Time && len(a.Tail) == 0 && len(b.Tail) == 0
}
