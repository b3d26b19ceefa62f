package contractor

import (
	"context"
	"fmt"

	"github.com/lintang-b-s/navigatorx-ch/pkg/contracted"
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/restriction"
	"golang.org/x/exp/slog"
)

// BuildContracted. node-based contraction hierarchies dari base graph.
func BuildContracted(ctx context.Context, g *datastructure.Graph, cost datastructure.CostFunction,
	cfg ContractionConfig) (*contracted.ContractedDb, error) {
	meta, err := NewNodeBasedGraph(g, cost, cfg.TimeCost)
	if err != nil {
		return nil, err
	}

	builder := NewHierarchyBuilder(meta, cfg)
	if err := builder.Run(ctx); err != nil {
		return nil, err
	}
	return contracted.NewNodeBased(meta.ToDynamic()), nil
}

// BuildContractedEdgeBased. contraction di dual graph, turn restriction ikut dihormati.
func BuildContractedEdgeBased(ctx context.Context, g *datastructure.Graph, cost datastructure.CostFunction,
	restrictions restriction.Set, cfg ContractionConfig) (*contracted.ContractedDb, error) {
	dual, edgeVertices, err := BuildDualGraph(g, cost, restrictions)
	if err != nil {
		return nil, err
	}

	builder, err := NewEdgeBasedHierarchyBuilder(dual, restrictions, edgeVertices, cfg)
	if err != nil {
		return nil, err
	}
	if err := builder.Run(ctx); err != nil {
		return nil, err
	}
	return contracted.NewEdgeBased(dual, edgeVertices), nil
}

/*
NewNodeBasedGraph. isi DirectedMetaGraph dari base graph. edge paralel digabung (weight terkecil per arah menang),
edge dengan factor nol dibuang. kalau timeCost tidak nil, tiap arc membawa distance & time.
*/
func NewNodeBasedGraph(g *datastructure.Graph, cost, timeCost datastructure.CostFunction) (*datastructure.DirectedMetaGraph, error) {
	metaSize := datastructure.ContractedEdgeSize - datastructure.BaseEdgeDataSize
	if timeCost != nil {
		metaSize = datastructure.AugmentedEdgeSize - datastructure.BaseEdgeDataSize
	}
	meta := datastructure.NewDirectedMetaGraph(datastructure.BaseEdgeDataSize, metaSize, g.VertexCount())
	wg := newMetaWorkingGraph(meta)

	e := g.GetEdgeEnumerator()
	for v := uint32(0); v < g.VertexCount(); v++ {
		e.MoveTo(v)
		for e.MoveNext() {
			if e.DataInverted() {
				continue
			}
			distance, profile := datastructure.DecodeEdgeData(e.Data())
			factor := cost(profile)
			if factor.IsNoFactor() {
				continue
			}

			to := e.Neighbour()
			arc := Arc{
				Weight:     distance * factor.Value,
				Contracted: datastructure.NoVertex,
				Distance:   distance,
			}
			if timeCost != nil {
				arc.Time = distance * timeCost(profile).Value
			}

			if factor.Direction.CanMoveForward() {
				arc.To = to
				if _, err := addOrUpdateArc(wg, v, arc); err != nil {
					return nil, fmt.Errorf("edge %d: %w", e.ID(), err)
				}
			}
			if factor.Direction.CanMoveBackward() {
				arc.To = v
				if _, err := addOrUpdateArc(wg, to, arc); err != nil {
					return nil, fmt.Errorf("edge %d: %w", e.ID(), err)
				}
			}
		}
	}

	slog.Info("node-based graph built", "vertices", meta.VertexCount(), "arcs", meta.EdgeCount())
	return meta, nil
}
