package contractor

import (
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/util"
	"golang.org/x/exp/slog"
)

// SCC. hasil kosaraju. Component[v] = index komponen vertex v, Condensation = adjacency antar komponen.
type SCC struct {
	Components   [][]uint32
	Component    []uint32
	Condensation [][]uint32
}

/*
StronglyConnectedComponents. kosaraju di base graph, arah edge mengikuti factor cost function.
beda dengan DetectIslands (undirected), ini buat diagnosa vertex yang bisa dimasuki tapi tidak bisa ditinggalkan (oneway buntu).
*/
func StronglyConnectedComponents(g *datastructure.Graph, cost datastructure.CostFunction) SCC {
	n := g.VertexCount()
	e := g.GetEdgeEnumerator()

	order := make([]uint32, 0, n)
	visited := make([]bool, n)
	for v := uint32(0); v < n; v++ {
		if !visited[v] {
			sccDfs(g, e, cost, v, &order, visited, false)
		}
	}
	order = util.ReverseG(order)

	// reset visited
	visited = make([]bool, n)
	component := make([]uint32, n)
	components := make([][]uint32, 0)
	for _, v := range order {
		if visited[v] {
			continue
		}
		members := make([]uint32, 0)
		sccDfs(g, e, cost, v, &members, visited, true)
		for _, m := range members {
			component[m] = uint32(len(components))
		}
		components = append(components, members)
	}

	condensation := make([][]uint32, len(components))
	seen := make(map[[2]uint32]struct{})
	for v := uint32(0); v < n; v++ {
		e.MoveTo(v)
		for e.MoveNext() {
			if !traversable(e, cost, false) {
				continue
			}
			from, to := component[v], component[e.Neighbour()]
			if from == to {
				continue
			}
			if _, ok := seen[[2]uint32{from, to}]; ok {
				continue
			}
			seen[[2]uint32{from, to}] = struct{}{}
			condensation[from] = append(condensation[from], to)
		}
	}

	slog.Info("strongly connected components", "count", len(components))
	return SCC{Components: components, Component: component, Condensation: condensation}
}

func sccDfs(g *datastructure.Graph, e *datastructure.GraphEdgeEnumerator, cost datastructure.CostFunction,
	v uint32, output *[]uint32, visited []bool, reversed bool) {
	visited[v] = true

	// enumerator dipakai rekursif, jadi neighbour dikumpulkan dulu.
	next := make([]uint32, 0, g.Degree(v))
	e.MoveTo(v)
	for e.MoveNext() {
		if traversable(e, cost, reversed) && !visited[e.Neighbour()] {
			next = append(next, e.Neighbour())
		}
	}
	for _, to := range next {
		if !visited[to] {
			sccDfs(g, e, cost, to, output, visited, reversed)
		}
	}

	*output = append(*output, v)
}

// traversable. reversed = cek arah neighbour -> vertex.
func traversable(e *datastructure.GraphEdgeEnumerator, cost datastructure.CostFunction, reversed bool) bool {
	_, factor := edgeWeight(e.Data(), cost)
	if factor.IsNoFactor() {
		return false
	}
	d := e.DirectedID()
	if reversed {
		d = d.Reverse()
	}
	return canTraverse(d, factor)
}
