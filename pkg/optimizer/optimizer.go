package optimizer

import (
	"fmt"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/network"
	"golang.org/x/exp/slog"
)

// CanMergeFunc. inverted1 relatif ke a->v, inverted2 relatif ke v->b.
type CanMergeFunc func(profile1 uint16, inverted1 bool, profile2 uint16, inverted2 bool) bool

// MergePolicyFunc. profile edge hasil merge & apakah edge itu disimpan b->a (inverted).
type MergePolicyFunc func(profile1 uint16, inverted1 bool, profile2 uint16, inverted2 bool) (uint16, bool)

func DefaultCanMerge(profile1 uint16, inverted1 bool, profile2 uint16, inverted2 bool) bool {
	return profile1 == profile2 && inverted1 == inverted2
}

func DefaultMergePolicy(profile1 uint16, inverted1 bool, profile2 uint16, inverted2 bool) (uint16, bool) {
	return profile1, inverted1
}

/*
NetworkOptimizer. gabung rantai vertex berderajat 2 jadi satu edge.
vertex dicek urut id naik, vertex yang sudah di-merge tidak dicek lagi.
*/
type NetworkOptimizer struct {
	net         *network.RoadNetwork
	canMerge    CanMergeFunc
	mergePolicy MergePolicyFunc
	merged      []bool
	protected   map[uint32]struct{}
}

func NewNetworkOptimizer(net *network.RoadNetwork, canMerge CanMergeFunc, mergePolicy MergePolicyFunc) *NetworkOptimizer {
	if canMerge == nil {
		canMerge = DefaultCanMerge
	}
	if mergePolicy == nil {
		mergePolicy = DefaultMergePolicy
	}
	return &NetworkOptimizer{
		net:         net,
		canMerge:    canMerge,
		mergePolicy: mergePolicy,
		merged:      make([]bool, net.VertexCount()),
		protected:   make(map[uint32]struct{}),
	}
}

// Protect. vertex yang tidak boleh hilang karena merge, misal vertex yang dipakai turn restriction.
func (o *NetworkOptimizer) Protect(vertices ...uint32) {
	for _, v := range vertices {
		o.protected[v] = struct{}{}
	}
}

type incident struct {
	edgeID    uint32
	neighbour uint32
	distance  float32
	profile   uint16
	// inverted. true kalau edge disimpan neighbour -> v.
	inverted bool
}

// Run. ulangi pass sampai tidak ada merge lagi. return jumlah merge.
func (o *NetworkOptimizer) Run() (int, error) {
	total := 0
	for pass := 1; ; pass++ {
		merges, err := o.pass()
		if err != nil {
			return total, err
		}
		total += merges
		slog.Debug("network optimizer pass", "pass", pass, "merges", merges)
		if merges == 0 {
			break
		}
	}
	if total > 0 {
		slog.Info("network optimizer done", "merges", total)
	}
	return total, nil
}

func (o *NetworkOptimizer) pass() (int, error) {
	g := o.net.Graph()
	e := g.GetEdgeEnumerator()
	merges := 0
	edges := make([]incident, 0, 2)

	for v := uint32(0); v < g.VertexCount(); v++ {
		if o.merged[v] || g.Degree(v) != 2 {
			continue
		}
		if _, ok := o.protected[v]; ok {
			continue
		}

		edges = edges[:0]
		e.MoveTo(v)
		for e.MoveNext() {
			dist, profile := datastructure.DecodeEdgeData(e.Data())
			edges = append(edges, incident{
				edgeID:    e.ID(),
				neighbour: e.Neighbour(),
				distance:  dist,
				profile:   profile,
				inverted:  e.DataInverted(),
			})
		}
		first, second := edges[0], edges[1]
		a, b := first.neighbour, second.neighbour
		if a == b || g.HasEdge(a, b) {
			continue
		}

		// traversal a->v berlawanan arah penyimpanan kalau edge disimpan v->a.
		inverted1 := !first.inverted
		inverted2 := second.inverted
		if !o.canMerge(first.profile, inverted1, second.profile, inverted2) {
			continue
		}

		distance := first.distance + second.distance
		profile, storeInverted := o.mergePolicy(first.profile, inverted1, second.profile, inverted2)
		data, err := datastructure.EncodeEdgeData(distance, profile)
		if err != nil {
			// jarak gabungan tidak bisa di-encode, biarkan dua edge ini.
			continue
		}

		shape := o.joinShape(first.edgeID, inverted1, v, second.edgeID, inverted2)
		via := o.joinVia(first.edgeID, inverted1, v, second.edgeID, inverted2)

		from, to := a, b
		if storeInverted {
			from, to = b, a
			reverse(shape)
			reverse(via)
		}

		o.net.RemoveEdge(first.edgeID)
		o.net.RemoveEdge(second.edgeID)
		edgeID, err := o.net.Graph().AddEdge(from, to, data...)
		if err != nil {
			return merges, fmt.Errorf("merge at vertex %d: %w", v, err)
		}
		o.net.SetShape(edgeID, shape)
		o.net.SetVia(edgeID, via)

		o.merged[v] = true
		merges++
	}
	return merges, nil
}

// joinShape. shape(a->v) ++ coord(v) ++ shape(v->b).
func (o *NetworkOptimizer) joinShape(edge1 uint32, inverted1 bool, v uint32, edge2 uint32,
	inverted2 bool) []datastructure.Coordinate {
	shape1, shape2 := o.net.Shape(edge1), o.net.Shape(edge2)
	out := make([]datastructure.Coordinate, 0, len(shape1)+len(shape2)+1)
	out = appendOriented(out, shape1, inverted1)
	out = append(out, o.net.Coordinate(v))
	return appendOriented(out, shape2, inverted2)
}

func (o *NetworkOptimizer) joinVia(edge1 uint32, inverted1 bool, v uint32, edge2 uint32, inverted2 bool) []uint32 {
	via1, via2 := o.net.Via(edge1), o.net.Via(edge2)
	out := make([]uint32, 0, len(via1)+len(via2)+1)
	out = appendOriented(out, via1, inverted1)
	out = append(out, v)
	return appendOriented(out, via2, inverted2)
}

func appendOriented[T any](out, part []T, inverted bool) []T {
	if !inverted {
		return append(out, part...)
	}
	for i := len(part) - 1; i >= 0; i-- {
		out = append(out, part[i])
	}
	return out
}

func reverse[T any](arr []T) {
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
}
