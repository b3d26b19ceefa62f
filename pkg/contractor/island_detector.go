package contractor

import (
	"errors"
	"math"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"golang.org/x/exp/slog"
)

var (
	ErrTooManyIslands = errors.New("more than 65535 islands")
)

/*
DetectIslands. label komponen terhubung (undirected) per vertex, mulai dari 1.
edge dilewati kalau factor-nya tidak nol untuk minimal satu cost function, arah edge tidak dipedulikan.
*/
func DetectIslands(g *datastructure.Graph, costs []datastructure.CostFunction) ([]uint16, error) {
	n := g.VertexCount()
	labels := make([]uint16, n)
	e := g.GetEdgeEnumerator()

	island := 0
	queue := make([]uint32, 0, 64)
	for v := uint32(0); v < n; v++ {
		if labels[v] != 0 {
			continue
		}
		if island == math.MaxUint16 {
			return nil, ErrTooManyIslands
		}
		island++
		label := uint16(island)

		labels[v] = label
		queue = append(queue[:0], v)
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			e.MoveTo(current)
			for e.MoveNext() {
				neighbour := e.Neighbour()
				if labels[neighbour] != 0 || !usable(e.Data(), costs) {
					continue
				}
				labels[neighbour] = label
				queue = append(queue, neighbour)
			}
		}
	}

	slog.Info("islands detected", "islands", island, "vertices", n)
	return labels, nil
}

func usable(data []uint32, costs []datastructure.CostFunction) bool {
	_, profile := datastructure.DecodeEdgeData(data)
	for _, cost := range costs {
		if !cost(profile).IsNoFactor() {
			return true
		}
	}
	return false
}

// IslandSizes. jumlah vertex per label.
func IslandSizes(labels []uint16) map[uint16]int {
	sizes := make(map[uint16]int)
	for _, label := range labels {
		sizes[label]++
	}
	return sizes
}

// LargestIsland. label dengan vertex terbanyak, 0 kalau kosong.
func LargestIsland(labels []uint16) uint16 {
	best, bestSize := uint16(0), 0
	for label, size := range IslandSizes(labels) {
		if size > bestSize || (size == bestSize && label < best) {
			best, bestSize = label, size
		}
	}
	return best
}
