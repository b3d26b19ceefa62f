package contractor

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/restriction"
	"golang.org/x/exp/slog"
)

var ErrTooManyEdges = errors.New("too many base edges for an edge-based graph")

func checkDualSize(edgeIDCount uint32) error {
	if edgeIDCount > datastructure.MaxDualEdges {
		return fmt.Errorf("%d edge ids, max %d: %w", edgeIDCount, datastructure.MaxDualEdges, ErrTooManyEdges)
	}
	return nil
}

/*
BuildDualGraph. edge-based graph: satu dual vertex per directed base edge, satu arc per belokan (v, v2, v3) yang boleh.
edgeVertices[2d], edgeVertices[2d+1] = base vertex from & to dari dual vertex d.
*/
func BuildDualGraph(g *datastructure.Graph, cost datastructure.CostFunction,
	restrictions restriction.Set) (*datastructure.DirectedDynamicGraph, []uint32, error) {
	edgeIDCount := g.EdgeIDCount()
	if err := checkDualSize(edgeIDCount); err != nil {
		return nil, nil, err
	}
	dual := datastructure.NewDirectedDynamicGraph(datastructure.ContractedEdgeSize, 2*edgeIDCount)
	wg := newDynamicWorkingGraph(dual)

	edgeVertices := make([]uint32, 4*edgeIDCount)
	for e := uint32(0); e < edgeIDCount; e++ {
		edge, ok := g.GetEdge(e)
		if !ok {
			for i := 0; i < 4; i++ {
				edgeVertices[4*e+uint32(i)] = datastructure.NoVertex
			}
			continue
		}
		edgeVertices[4*e] = edge.From
		edgeVertices[4*e+1] = edge.To
		edgeVertices[4*e+2] = edge.To
		edgeVertices[4*e+3] = edge.From
	}

	e1 := g.GetEdgeEnumerator()
	e2 := g.GetEdgeEnumerator()
	turns := 0
	for v := uint32(0); v < g.VertexCount(); v++ {
		e1.MoveTo(v)
		for e1.MoveNext() {
			d1 := e1.DirectedID()
			v2 := e1.Neighbour()
			weight1, factor1 := edgeWeight(e1.Data(), cost)
			if factor1.IsNoFactor() {
				continue
			}

			e2.MoveTo(v2)
			for e2.MoveNext() {
				// tiap pasangan edge cukup diproses sekali, arah sebaliknya ditangani lewat backward bit.
				if e2.ID() <= e1.ID() {
					continue
				}
				v3 := e2.Neighbour()
				if v3 == v {
					continue
				}
				d2 := e2.DirectedID()
				weight2, factor2 := edgeWeight(e2.Data(), cost)
				if factor2.IsNoFactor() {
					continue
				}

				forward := canTraverse(d1, factor1) && canTraverse(d2, factor2) &&
					restrictions.IsSequenceAllowed([]uint32{v, v2, v3})
				backward := canTraverse(d2.Reverse(), factor2) && canTraverse(d1.Reverse(), factor1) &&
					restrictions.IsSequenceAllowed([]uint32{v3, v2, v})
				if !forward && !backward {
					continue
				}

				if forward {
					arc := Arc{Weight: weight1, Contracted: datastructure.NoVertex, Tail: []uint32{v2}}
					if err := addBothEnds(wg, d1.DualVertex(), d2.DualVertex(), arc, datastructure.Forward); err != nil {
						return nil, nil, fmt.Errorf("add turn %d->%d->%d: %w", v, v2, v3, err)
					}
					turns++
				}
				if backward {
					arc := Arc{Weight: weight2, Contracted: datastructure.NoVertex, Tail: []uint32{v2}}
					if err := addBothEnds(wg, d2.Reverse().DualVertex(), d1.Reverse().DualVertex(), arc,
						datastructure.Forward); err != nil {
						return nil, nil, fmt.Errorf("add turn %d->%d->%d: %w", v3, v2, v, err)
					}
					turns++
				}
			}
		}
	}

	slog.Info("dual graph built", "dualVertices", dual.VertexCount(), "turns", turns)
	return dual, edgeVertices, nil
}

func edgeWeight(data []uint32, cost datastructure.CostFunction) (float32, datastructure.Factor) {
	distance, profile := datastructure.DecodeEdgeData(data)
	factor := cost(profile)
	return distance * factor.Value, factor
}

// canTraverse. arah factor relatif ke arah penyimpanan edge.
func canTraverse(d datastructure.DirectedEdgeID, factor datastructure.Factor) bool {
	if d.Forward() {
		return factor.Direction.CanMoveForward()
	}
	return factor.Direction.CanMoveBackward()
}
