package contractor

import (
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/restriction"
)

// SequenceContext. info buat cek restriction di edge-based graph.
type SequenceContext struct {
	Restrictions restriction.Set
	// EdgeVertices. 2 base vertex (from, to) per dual vertex.
	EdgeVertices []uint32
}

func (s *SequenceContext) from(dual uint32) uint32 {
	return s.EdgeVertices[2*dual]
}

func (s *SequenceContext) to(dual uint32) uint32 {
	return s.EdgeVertices[2*dual+1]
}

func (s *SequenceContext) active() bool {
	return s != nil && !s.Restrictions.IsEmpty()
}

/*
WitnessCalculator. bounded dijkstra buat cek apakah shortcut (u,v,w) perlu ditambahkan.
kalau ada path u->w tanpa lewat v dengan weight <= weight(u,v) + weight(v,w), shortcut tidak perlu.
*/
type WitnessCalculator struct {
	// MaxSettles. batas jumlah vertex yang di-settle per search. 0 = tidak dibatasi.
	MaxSettles int
	// TieIsWitness. kalau true, path dengan weight sama dengan kandidat shortcut dianggap witness.
	TieIsWitness bool
}

func NewWitnessCalculator(maxSettles int, tieIsWitness bool) WitnessCalculator {
	return WitnessCalculator{MaxSettles: maxSettles, TieIsWitness: tieIsWitness}
}

func (c WitnessCalculator) IsWitness(found, candidate float32) bool {
	if c.TieIsWitness {
		return found <= candidate
	}
	return found < candidate
}

/*
WitnessSearch. satu search dari source.
forward: path source -> target lewat arc yang CanMoveForward.
backward: path target -> source, dicari mundur lewat arc yang CanMoveBackward.
*/
type WitnessSearch struct {
	g          WorkingGraph
	seq        *SequenceContext
	source     uint32
	ignore     uint32
	maxWeight  float32
	backward   bool
	maxSettles int

	arena     *datastructure.PathArena
	tails     [][]uint32
	pq        *datastructure.MinHeap[uint32]
	best      map[uint32]datastructure.PathHandle
	settled   map[uint32]struct{}
	targets   map[uint32]struct{}
	remaining int
	settles   int
	done      bool

	arcs   []Arc
	window []uint32
}

func (c WitnessCalculator) NewSearch(g WorkingGraph, source uint32, targets []uint32, ignore uint32,
	maxWeight float32, backward bool) *WitnessSearch {
	return c.NewSequenceSearch(g, nil, source, targets, ignore, maxWeight, backward)
}

// NewSequenceSearch. seperti NewSearch, tapi tiap perpanjangan path dicek ke restriction di seq.
func (c WitnessCalculator) NewSequenceSearch(g WorkingGraph, seq *SequenceContext, source uint32, targets []uint32,
	ignore uint32, maxWeight float32, backward bool) *WitnessSearch {
	s := &WitnessSearch{
		g:          g,
		seq:        seq,
		source:     source,
		ignore:     ignore,
		maxWeight:  maxWeight,
		backward:   backward,
		maxSettles: c.MaxSettles,
		arena:      datastructure.NewPathArena(16),
		tails:      make([][]uint32, 0, 16),
		pq:         datastructure.NewMinHeap[uint32](),
		best:       make(map[uint32]datastructure.PathHandle),
		settled:    make(map[uint32]struct{}),
		targets:    make(map[uint32]struct{}, len(targets)),
		arcs:       make([]Arc, 0, 8),
	}
	for _, t := range targets {
		if _, ok := s.targets[t]; !ok {
			s.targets[t] = struct{}{}
			s.remaining++
		}
	}

	root := s.arena.Add(source, 0, datastructure.NoEdge, datastructure.NoPath)
	s.tails = append(s.tails, nil)
	s.best[source] = root
	s.pq.Insert(datastructure.PriorityQueueNode[uint32]{Rank: 0, Item: source})
	if s.remaining == 0 {
		s.done = true
	}
	return s
}

// Step. settle satu vertex. false kalau search sudah selesai.
func (s *WitnessSearch) Step() bool {
	if s.done {
		return false
	}
	item, err := s.pq.ExtractMin()
	if err != nil {
		s.done = true
		return false
	}
	if float32(item.Rank) > s.maxWeight {
		s.done = true
		return false
	}

	v := item.Item
	s.settled[v] = struct{}{}
	s.settles++
	if _, ok := s.targets[v]; ok {
		s.remaining--
		if s.remaining == 0 {
			s.done = true
			return true
		}
	}
	if s.maxSettles > 0 && s.settles >= s.maxSettles {
		s.done = true
		return true
	}

	s.relax(v)
	return true
}

func (s *WitnessSearch) Run() {
	for s.Step() {
	}
}

func (s *WitnessSearch) relax(v uint32) {
	handle := s.best[v]
	weight := s.arena.Get(handle).Weight

	s.arcs = s.g.Arcs(v, s.arcs)
	for _, arc := range s.arcs {
		if arc.To == s.ignore {
			continue
		}
		if _, ok := s.settled[arc.To]; ok {
			continue
		}
		if s.backward && !arc.Direction.CanMoveBackward() {
			continue
		}
		if !s.backward && !arc.Direction.CanMoveForward() {
			continue
		}

		newWeight := weight + arc.Weight
		if newWeight > s.maxWeight {
			continue
		}
		if prev, ok := s.best[arc.To]; ok && s.arena.Get(prev).Weight <= newWeight {
			continue
		}
		if s.seq.active() && !s.allowed(handle, arc) {
			continue
		}

		next := s.arena.Add(arc.To, newWeight, datastructure.NewDirectedEdgeID(arc.ID, !s.backward), handle)
		s.tails = append(s.tails, arc.Tail)
		s.best[arc.To] = next
		s.pq.Insert(datastructure.PriorityQueueNode[uint32]{Rank: float64(newWeight), Item: arc.To})
	}
}

/*
allowed. cek window base vertex yang baru terbentuk kalau path di handle diperpanjang lewat arc.
forward: sequence = [from(source)] ++ tail... ++ [to(last)], window diambil dari ujung belakang.
backward: sequence = [from(last)] ++ tail... ++ [to(source)], window diambil dari depan.
*/
func (s *WitnessSearch) allowed(handle datastructure.PathHandle, arc Arc) bool {
	limit := s.seq.Restrictions.MaxLength() + len(arc.Tail) + 1
	s.window = s.window[:0]

	if !s.backward {
		// dikumpulkan terbalik lalu dibalik.
		s.window = append(s.window, s.seq.to(arc.To))
		s.window = appendReversed(s.window, arc.Tail)
		for h := handle; len(s.window) < limit; h = s.arena.Get(h).From {
			if s.arena.Get(h).From == datastructure.NoPath {
				s.window = append(s.window, s.seq.from(s.source))
				break
			}
			s.window = appendReversed(s.window, s.tails[h])
		}
		reverseInPlace(s.window)
		return s.seq.Restrictions.IsSequenceAllowed(s.window)
	}

	s.window = append(s.window, s.seq.from(arc.To))
	s.window = append(s.window, arc.Tail...)
	for h := handle; len(s.window) < limit; h = s.arena.Get(h).From {
		if s.arena.Get(h).From == datastructure.NoPath {
			s.window = append(s.window, s.seq.to(s.source))
			break
		}
		s.window = append(s.window, s.tails[h]...)
	}
	return s.seq.Restrictions.IsSequenceAllowed(s.window)
}

// Witness. weight path terbaik yang ditemukan ke target (settled atau belum).
func (s *WitnessSearch) Witness(target uint32) (float32, datastructure.PathHandle, bool) {
	h, ok := s.best[target]
	if !ok {
		return 0, datastructure.NoPath, false
	}
	return s.arena.Get(h).Weight, h, true
}

func (s *WitnessSearch) Arena() *datastructure.PathArena {
	return s.arena
}

func (s *WitnessSearch) Settles() int {
	return s.settles
}

func appendReversed(out, part []uint32) []uint32 {
	for i := len(part) - 1; i >= 0; i-- {
		out = append(out, part[i])
	}
	return out
}

func reverseInPlace(arr []uint32) {
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
}
