package contractor

import (
	"context"
	"testing"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/restriction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	profileBoth   uint16 = 0
	profileOneway uint16 = 1
	profileClosed uint16 = 2
)

func testCost(profile uint16) datastructure.Factor {
	switch profile {
	case profileBoth:
		return datastructure.Factor{Value: 1, Direction: datastructure.Bidirectional}
	case profileOneway:
		return datastructure.Factor{Value: 1, Direction: datastructure.Forward}
	default:
		return datastructure.NoFactor()
	}
}

type baseEdge struct {
	from, to uint32
	distance float32
	profile  uint16
}

func newBaseGraph(t *testing.T, n uint32, edges []baseEdge) *datastructure.Graph {
	t.Helper()
	g := datastructure.NewGraph(datastructure.BaseEdgeDataSize, n)
	for _, e := range edges {
		data, err := datastructure.EncodeEdgeData(e.distance, e.profile)
		require.NoError(t, err)
		_, err = g.AddEdge(e.from, e.to, data...)
		require.NoError(t, err)
	}
	return g
}

/*
dari https://jlazarsfeld.github.io/ch.150.project/sections/8-contraction/
p=0, v=1, q=2, w=3, r=4

	 p
	  \
	   10
	    \
	     v -----3----- r
	    /             /
	   6             wr
	  /             /
	 q -----5----- w

semua edge bidirectional. setelah v dikontraksi: p-q 16, p-r 13, q-r 9.
*/
func pvqwr(wr float32) []baseEdge {
	return []baseEdge{
		{0, 1, 10, profileBoth},
		{1, 4, 3, profileBoth},
		{1, 2, 6, profileBoth},
		{2, 3, 5, profileBoth},
		{3, 4, wr, profileBoth},
	}
}

func findArc(t *testing.T, g WorkingGraph, from, to uint32) (Arc, bool) {
	t.Helper()
	for _, arc := range g.Arcs(from, nil) {
		if arc.To == to {
			return arc, true
		}
	}
	return Arc{}, false
}

func assertShortcut(t *testing.T, g WorkingGraph, a, b uint32, weight float32, via uint32) {
	t.Helper()
	for _, pair := range [][2]uint32{{a, b}, {b, a}} {
		arc, ok := findArc(t, g, pair[0], pair[1])
		require.True(t, ok, "arc %d->%d", pair[0], pair[1])
		assert.InDelta(t, weight, arc.Weight, 0.01)
		assert.Equal(t, datastructure.Bidirectional, arc.Direction)
		assert.Equal(t, via, arc.Contracted)
	}
}

func TestContractPVQWR(t *testing.T) {
	g := newBaseGraph(t, 5, pvqwr(5))
	meta, err := NewNodeBasedGraph(g, testCost, nil)
	require.NoError(t, err)
	b := NewHierarchyBuilder(meta, DefaultContractionConfig())

	require.NoError(t, b.Contract(1))
	wg := newMetaWorkingGraph(meta)
	assertShortcut(t, wg, 0, 2, 16, 1)
	assertShortcut(t, wg, 0, 4, 13, 1)
	assertShortcut(t, wg, 2, 4, 9, 1)
	// dihitung per arah.
	assert.Equal(t, 6, b.Stats().Shortcuts)
	assert.Equal(t, 1, b.Stats().Contracted)

	for _, x := range []uint32{0, 2, 4} {
		_, ok := findArc(t, wg, x, 1)
		assert.False(t, ok, "arc %d->v should be removed", x)
	}
	assert.Len(t, wg.Arcs(1, nil), 3)
	assert.True(t, b.IsContracted(1))
	assert.ErrorIs(t, b.Contract(1), ErrAlreadyContracted)
}

func TestContractTiePolicy(t *testing.T) {
	// q-w-r = 5+4 = 9, sama dengan q-v-r.
	g := newBaseGraph(t, 5, pvqwr(4))

	meta, err := NewNodeBasedGraph(g, testCost, nil)
	require.NoError(t, err)
	b := NewHierarchyBuilder(meta, DefaultContractionConfig())
	require.NoError(t, b.Contract(1))
	_, ok := findArc(t, newMetaWorkingGraph(meta), 2, 4)
	assert.False(t, ok)
	assert.Equal(t, 4, b.Stats().Shortcuts)

	cfg := DefaultContractionConfig()
	cfg.TieIsWitness = false
	meta, err = NewNodeBasedGraph(g, testCost, nil)
	require.NoError(t, err)
	b = NewHierarchyBuilder(meta, cfg)
	require.NoError(t, b.Contract(1))
	assertShortcut(t, newMetaWorkingGraph(meta), 2, 4, 9, 1)
	assert.Equal(t, 6, b.Stats().Shortcuts)
}

func TestContractWitnessRemoved(t *testing.T) {
	// q-w-r = 8 adalah witness untuk q-v-r = 9 selama w belum dikontraksi.
	g := newBaseGraph(t, 5, pvqwr(3))
	meta, err := NewNodeBasedGraph(g, testCost, nil)
	require.NoError(t, err)
	b := NewHierarchyBuilder(meta, DefaultContractionConfig())
	wg := newMetaWorkingGraph(meta)

	require.NoError(t, b.Contract(1))
	_, ok := findArc(t, wg, 2, 4)
	assert.False(t, ok)

	// kontraksi w: witness hilang, shortcut q-r 8 lewat w.
	require.NoError(t, b.Contract(3))
	assertShortcut(t, wg, 2, 4, 8, 3)
}

func TestOnewayShortcut(t *testing.T) {
	g := newBaseGraph(t, 3, []baseEdge{
		{0, 1, 4, profileOneway},
		{1, 2, 6, profileOneway},
	})
	meta, err := NewNodeBasedGraph(g, testCost, nil)
	require.NoError(t, err)
	b := NewHierarchyBuilder(meta, DefaultContractionConfig())
	require.NoError(t, b.Contract(1))

	wg := newMetaWorkingGraph(meta)
	arc, ok := findArc(t, wg, 0, 2)
	require.True(t, ok)
	assert.Equal(t, datastructure.Forward, arc.Direction)
	assert.InDelta(t, 10, arc.Weight, 0.01)

	arc, ok = findArc(t, wg, 2, 0)
	require.True(t, ok)
	assert.Equal(t, datastructure.Backward, arc.Direction)
	assert.Equal(t, 1, b.Stats().Shortcuts)
}

func TestNodeBasedGraphMergesParallelEdges(t *testing.T) {
	g := newBaseGraph(t, 3, []baseEdge{
		{0, 1, 10, profileBoth},
		{1, 0, 7, profileBoth},
		{1, 2, 5, profileOneway},
		{2, 1, 3, profileOneway},
		{0, 2, 1, profileClosed},
	})
	meta, err := NewNodeBasedGraph(g, testCost, nil)
	require.NoError(t, err)
	wg := newMetaWorkingGraph(meta)

	arcs := wg.Arcs(0, nil)
	require.Len(t, arcs, 1)
	assert.InDelta(t, 7, arcs[0].Weight, 0.01)
	assert.Equal(t, datastructure.Bidirectional, arcs[0].Direction)
	assert.Equal(t, datastructure.NoVertex, arcs[0].Contracted)

	// 1->2 (5) dan 2->1 (3) tidak bisa digabung karena weight beda.
	arcs = nil
	for _, arc := range wg.Arcs(1, nil) {
		if arc.To == 2 {
			arcs = append(arcs, arc)
		}
	}
	require.Len(t, arcs, 2)
	for _, arc := range arcs {
		if arc.Direction == datastructure.Forward {
			assert.InDelta(t, 5, arc.Weight, 0.01)
		} else {
			assert.Equal(t, datastructure.Backward, arc.Direction)
			assert.InDelta(t, 3, arc.Weight, 0.01)
		}
	}
}

func TestWitnessSearch(t *testing.T) {
	g := newBaseGraph(t, 5, pvqwr(5))
	meta, err := NewNodeBasedGraph(g, testCost, nil)
	require.NoError(t, err)
	wg := newMetaWorkingGraph(meta)
	calc := NewWitnessCalculator(0, true)

	s := calc.NewSearch(wg, 2, []uint32{4}, 1, 9, false)
	s.Run()
	_, _, ok := s.Witness(4)
	assert.False(t, ok)

	s = calc.NewSearch(wg, 2, []uint32{4}, 1, 20, false)
	for s.Step() {
	}
	weight, handle, ok := s.Witness(4)
	require.True(t, ok)
	assert.InDelta(t, 10, weight, 0.01)
	assert.Equal(t, []uint32{2, 3, 4}, s.Arena().Vertices(handle))

	// tanpa ignore, lewat v lebih murah.
	s = calc.NewSearch(wg, 2, []uint32{4}, datastructure.NoVertex, 20, false)
	s.Run()
	weight, _, ok = s.Witness(4)
	require.True(t, ok)
	assert.InDelta(t, 9, weight, 0.01)

	assert.True(t, calc.IsWitness(9, 9))
	assert.False(t, NewWitnessCalculator(0, false).IsWitness(9, 9))
}

func TestWitnessSearchMaxSettles(t *testing.T) {
	g := newBaseGraph(t, 5, pvqwr(5))
	meta, err := NewNodeBasedGraph(g, testCost, nil)
	require.NoError(t, err)

	s := NewWitnessCalculator(1, true).NewSearch(newMetaWorkingGraph(meta), 2, []uint32{4}, 1, 100, false)
	s.Run()
	assert.Equal(t, 1, s.Settles())
	_, _, ok := s.Witness(4)
	assert.False(t, ok)
}

func TestBuildContracted(t *testing.T) {
	g := newBaseGraph(t, 5, pvqwr(5))
	db, err := BuildContracted(context.Background(), g, testCost, DefaultContractionConfig())
	require.NoError(t, err)
	require.True(t, db.HasNodeBasedGraph())
	assert.False(t, db.Augmented())
	assert.Equal(t, datastructure.ContractedEdgeSize, db.NodeBasedGraph().FixedSize())
	assert.Equal(t, uint32(5), db.NodeBasedGraph().VertexCount())

	cfg := DefaultContractionConfig()
	cfg.TimeCost = func(profile uint16) datastructure.Factor {
		return datastructure.Factor{Value: 0.1, Direction: datastructure.Bidirectional}
	}
	db, err = BuildContracted(context.Background(), g, testCost, cfg)
	require.NoError(t, err)
	assert.True(t, db.Augmented())
}

func TestRunCancelled(t *testing.T) {
	g := newBaseGraph(t, 5, pvqwr(5))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildContracted(ctx, g, testCost, DefaultContractionConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunContractsEveryVertex(t *testing.T) {
	g := newBaseGraph(t, 5, pvqwr(5))
	meta, err := NewNodeBasedGraph(g, testCost, nil)
	require.NoError(t, err)
	b := NewHierarchyBuilder(meta, DefaultContractionConfig())

	seen := make(map[uint32]bool)
	for {
		v, ok := b.Step()
		if !ok {
			break
		}
		assert.False(t, seen[v])
		seen[v] = true
	}
	require.NoError(t, b.Err())
	assert.Len(t, seen, 5)
	assert.Equal(t, 5, b.Stats().Contracted)
}

func TestEdgeBasedShortcutRespectsRestriction(t *testing.T) {
	g := newBaseGraph(t, 4, []baseEdge{
		{0, 1, 10, profileBoth},
		{1, 2, 10, profileBoth},
		{2, 3, 10, profileBoth},
	})

	for _, tc := range []struct {
		name         string
		restrictions [][]uint32
		shortcut     bool
	}{
		{"no restriction", nil, true},
		{"restricted 0-1-2-3", [][]uint32{{0, 1, 2, 3}}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			set := restriction.NewSet(tc.restrictions)
			dual, edgeVertices, err := BuildDualGraph(g, testCost, set)
			require.NoError(t, err)
			b, err := NewEdgeBasedHierarchyBuilder(dual, set, edgeVertices, DefaultContractionConfig())
			require.NoError(t, err)

			// dual 2 = edge 1 arah 1->2.
			require.NoError(t, b.Contract(2))
			arc, ok := findArc(t, newDynamicWorkingGraph(dual), 0, 4)
			assert.Equal(t, tc.shortcut, ok)
			if ok {
				assert.InDelta(t, 20, arc.Weight, 0.01)
				assert.Equal(t, []uint32{1, 2}, arc.Tail)
				assert.Equal(t, datastructure.Forward, arc.Direction)
				assert.Equal(t, uint32(2), arc.Contracted)
			}
		})
	}
}

func TestBuildContractedEdgeBased(t *testing.T) {
	g := newBaseGraph(t, 4, []baseEdge{
		{0, 1, 10, profileBoth},
		{1, 2, 10, profileBoth},
		{2, 3, 10, profileBoth},
	})
	db, err := BuildContractedEdgeBased(context.Background(), g, testCost,
		restriction.NewSet([][]uint32{{0, 1, 2}}), DefaultContractionConfig())
	require.NoError(t, err)
	require.True(t, db.HasEdgeBasedGraph())
	assert.Len(t, db.EdgeVertices(), 12)
	assert.Equal(t, uint32(6), db.EdgeBasedGraph().VertexCount())

	_, err = NewEdgeBasedHierarchyBuilder(db.EdgeBasedGraph(), restriction.Set{}, []uint32{1}, DefaultContractionConfig())
	assert.ErrorIs(t, err, ErrEdgeVerticesSize)
}
