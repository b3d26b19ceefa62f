package contractor

import (
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
)

/*
Arc. satu edge yang disimpan di sebuah vertex (storing vertex) dan menunjuk ke To.
Direction relatif ke storing vertex: Forward = boleh storing -> To, Backward = boleh To -> storing.
Tail. vertex base interior (cuma edge-based), urut searah arah yang boleh dilewati.
*/
type Arc struct {
	ID         uint32
	To         uint32
	Weight     float32
	Direction  datastructure.Direction
	Contracted uint32
	Distance   float32
	Time       float32
	Tail       []uint32
}

func (a Arc) IsShortcut() bool {
	return a.Contracted != datastructure.NoVertex
}

// WorkingGraph. graph yang dimodifikasi selama contraction.
type WorkingGraph interface {
	VertexCount() uint32
	Arcs(vertex uint32, out []Arc) []Arc
	AddArc(from uint32, arc Arc) error
	RemoveArcsTo(from, to uint32) int
	// Augmented. arc membawa distance & time.
	Augmented() bool
	// MergeBidirectional. dua arah dengan data sama boleh disimpan sebagai satu arc Bidirectional.
	MergeBidirectional() bool
}

// metaWorkingGraph. node-based: data = [w0], meta = [contractedID] atau [contractedID, distance, time].
type metaWorkingGraph struct {
	g         *datastructure.DirectedMetaGraph
	e         *datastructure.MetaEdgeEnumerator
	augmented bool
}

func newMetaWorkingGraph(g *datastructure.DirectedMetaGraph) *metaWorkingGraph {
	return &metaWorkingGraph{
		g:         g,
		e:         g.GetEdgeEnumerator(),
		augmented: g.MetaDataSize() >= datastructure.AugmentedEdgeSize-1,
	}
}

func (m *metaWorkingGraph) VertexCount() uint32 {
	return m.g.VertexCount()
}

func (m *metaWorkingGraph) Augmented() bool {
	return m.augmented
}

func (m *metaWorkingGraph) MergeBidirectional() bool {
	return true
}

func (m *metaWorkingGraph) Arcs(vertex uint32, out []Arc) []Arc {
	out = out[:0]
	if !m.e.MoveTo(vertex) {
		return out
	}
	words := make([]uint32, 0, datastructure.AugmentedEdgeSize)
	for m.e.MoveNext() {
		words = append(words[:0], m.e.Data()[0])
		words = append(words, m.e.MetaData()...)
		arc := Arc{ID: m.e.ID(), To: m.e.Neighbour()}
		if m.augmented {
			arc.Weight, arc.Distance, arc.Time, arc.Direction, arc.Contracted = datastructure.DecodeAugmented(words)
		} else {
			arc.Weight, arc.Direction, arc.Contracted = datastructure.DecodeMeta(words[0], words[1])
		}
		out = append(out, arc)
	}
	return out
}

func (m *metaWorkingGraph) AddArc(from uint32, arc Arc) error {
	if m.augmented {
		words, err := datastructure.EncodeAugmented(arc.Weight, arc.Distance, arc.Time, arc.Direction, arc.Contracted)
		if err != nil {
			return err
		}
		_, err = m.g.AddEdge(from, arc.To, words[:]...)
		return err
	}
	words, err := datastructure.EncodeMeta(arc.Weight, arc.Direction, arc.Contracted)
	if err != nil {
		return err
	}
	_, err = m.g.AddEdge(from, arc.To, words[:]...)
	return err
}

func (m *metaWorkingGraph) RemoveArcsTo(from, to uint32) int {
	return m.g.RemoveEdge(from, to)
}

// dynamicWorkingGraph. edge-based: data = [w0, contractedID, tail...].
type dynamicWorkingGraph struct {
	g *datastructure.DirectedDynamicGraph
	e *datastructure.DynamicEdgeEnumerator
}

func newDynamicWorkingGraph(g *datastructure.DirectedDynamicGraph) *dynamicWorkingGraph {
	return &dynamicWorkingGraph{g: g, e: g.GetEdgeEnumerator()}
}

func (d *dynamicWorkingGraph) VertexCount() uint32 {
	return d.g.VertexCount()
}

func (d *dynamicWorkingGraph) Augmented() bool {
	return false
}

func (d *dynamicWorkingGraph) MergeBidirectional() bool {
	return false
}

func (d *dynamicWorkingGraph) Arcs(vertex uint32, out []Arc) []Arc {
	out = out[:0]
	if !d.e.MoveTo(vertex) {
		return out
	}
	for d.e.MoveNext() {
		data := d.e.Data()
		arc := Arc{ID: d.e.ID(), To: d.e.Neighbour()}
		arc.Weight, arc.Direction, arc.Contracted = datastructure.DecodeMeta(data[0], data[1])
		if len(data) > datastructure.ContractedEdgeSize {
			arc.Tail = append([]uint32(nil), data[datastructure.ContractedEdgeSize:]...)
		}
		out = append(out, arc)
	}
	return out
}

func (d *dynamicWorkingGraph) AddArc(from uint32, arc Arc) error {
	words, err := datastructure.EncodeMeta(arc.Weight, arc.Direction, arc.Contracted)
	if err != nil {
		return err
	}
	data := make([]uint32, 0, datastructure.ContractedEdgeSize+len(arc.Tail))
	data = append(data, words[:]...)
	data = append(data, arc.Tail...)
	_, err = d.g.AddEdge(from, arc.To, data...)
	return err
}

func (d *dynamicWorkingGraph) RemoveArcsTo(from, to uint32) int {
	return d.g.RemoveEdge(from, to)
}
