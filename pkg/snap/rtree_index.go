package snap

import (
	"github.com/dhconnelly/rtreego"
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/kv"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
	// rtreeCandidates. jumlah tetangga terdekat (jarak derajat) yang dicek ulang pakai great-circle distance.
	rtreeCandidates = 8
	pointTolerance  = 1e-9
)

type vertexPoint struct {
	vertex uint32
	rect   rtreego.Rect
}

func (p *vertexPoint) Bounds() rtreego.Rect {
	return p.rect
}

/*
RtreeIndex. CandidateIndex in-memory di atas r-tree (lon, lat).
dipakai engine kalau index h3 di kv tidak mau dipakai, misal network kecil.
*/
type RtreeIndex struct {
	tree *rtreego.Rtree
}

func NewRtreeIndex(coords []datastructure.Coordinate) *RtreeIndex {
	objs := make([]rtreego.Spatial, 0, len(coords))
	for v, c := range coords {
		objs = append(objs, &vertexPoint{
			vertex: uint32(v),
			rect:   rtreego.Point{c.Lon, c.Lat}.ToRect(pointTolerance),
		})
	}
	return &RtreeIndex{tree: rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, objs...)}
}

func (idx *RtreeIndex) GetNearestVertexCandidates(lat, lon float64) ([]uint32, error) {
	if idx.tree.Size() == 0 {
		return nil, kv.ErrVerticesNotFound
	}
	nn := idx.tree.NearestNeighbors(rtreeCandidates, rtreego.Point{lon, lat})
	candidates := make([]uint32, 0, len(nn))
	for _, s := range nn {
		if p, ok := s.(*vertexPoint); ok {
			candidates = append(candidates, p.vertex)
		}
	}
	if len(candidates) == 0 {
		return nil, kv.ErrVerticesNotFound
	}
	return candidates, nil
}
