package snap

import (
	"errors"
	"math"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ch/pkg/kv"
)

// CandidateIndex. spatial index yang mengembalikan vertex di sekitar titik.
type CandidateIndex interface {
	GetNearestVertexCandidates(lat, lon float64) ([]uint32, error)
}

/*
Resolver. lat/lon -> vertex terdekat. kandidat diambil dari index h3,
lalu dipilih yang great-circle distance-nya paling kecil.
*/
type Resolver struct {
	index  CandidateIndex
	coords []datastructure.Coordinate
	// MaxDistance. meter, 0 = tanpa batas.
	MaxDistance float64
	// Filter. kalau di-set, cuma vertex yang lolos filter yang bisa dipilih (misal cuma island terbesar).
	Filter func(vertex uint32) bool
}

func NewResolver(index CandidateIndex, coords []datastructure.Coordinate) *Resolver {
	return &Resolver{index: index, coords: coords}
}

// Nearest. ok == false kalau tidak ada vertex di sekitar titik.
func (r *Resolver) Nearest(lat, lon float64) (vertex uint32, distance float64, ok bool, err error) {
	candidates, err := r.index.GetNearestVertexCandidates(lat, lon)
	if errors.Is(err, kv.ErrVerticesNotFound) {
		return datastructure.NoVertex, 0, false, nil
	}
	if err != nil {
		return datastructure.NoVertex, 0, false, err
	}

	p := datastructure.NewCoordinate(lat, lon)
	vertex, distance = datastructure.NoVertex, math.Inf(1)
	for _, v := range candidates {
		if int(v) >= len(r.coords) {
			continue
		}
		if r.Filter != nil && !r.Filter(v) {
			continue
		}
		d := geo.GreatCircleDistance(p, r.coords[v])
		if d < distance || d == distance && v < vertex {
			vertex, distance = v, d
		}
	}
	if vertex == datastructure.NoVertex {
		return datastructure.NoVertex, 0, false, nil
	}
	if r.MaxDistance > 0 && distance > r.MaxDistance {
		return datastructure.NoVertex, 0, false, nil
	}
	return vertex, distance, true, nil
}
