package contracted

import (
	"bufio"
	stdbinary "encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/kelindar/binary"
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
)

const (
	versionLegacy    byte = 1
	versionEdgeBased byte = 2
	versionNodeBased byte = 3
)

var (
	ErrUpgradeRequired    = errors.New("contracted graph was written by an old version and must be rebuilt")
	ErrUnsupportedVersion = errors.New("unsupported contracted graph version")
)

// LoadProfile. opsi waktu load. BufferSize = ukuran buffer read (0 = default bufio).
type LoadProfile struct {
	BufferSize int
}

/*
ContractedDb. pegang tepat satu graph: node-based atau edge-based.
edge-based juga menyimpan edgeVertices: 2 base vertex (from, to) per dual vertex.
*/
type ContractedDb struct {
	nodeBased    *datastructure.DirectedDynamicGraph
	edgeBased    *datastructure.DirectedDynamicGraph
	edgeVertices []uint32
}

func NewNodeBased(g *datastructure.DirectedDynamicGraph) *ContractedDb {
	return &ContractedDb{nodeBased: g}
}

func NewEdgeBased(g *datastructure.DirectedDynamicGraph, edgeVertices []uint32) *ContractedDb {
	return &ContractedDb{edgeBased: g, edgeVertices: edgeVertices}
}

func (db *ContractedDb) HasNodeBasedGraph() bool {
	return db.nodeBased != nil
}

func (db *ContractedDb) HasEdgeBasedGraph() bool {
	return db.edgeBased != nil
}

func (db *ContractedDb) NodeBasedGraph() *datastructure.DirectedDynamicGraph {
	if db.nodeBased == nil {
		panic("contracted db: node-based graph requested from an edge-based db")
	}
	return db.nodeBased
}

func (db *ContractedDb) EdgeBasedGraph() *datastructure.DirectedDynamicGraph {
	if db.edgeBased == nil {
		panic("contracted db: edge-based graph requested from a node-based db")
	}
	return db.edgeBased
}

func (db *ContractedDb) EdgeVertices() []uint32 {
	if db.edgeBased == nil {
		panic("contracted db: edge vertices requested from a node-based db")
	}
	return db.edgeVertices
}

// Graph. graph yang dipegang, apapun jenisnya.
func (db *ContractedDb) Graph() *datastructure.DirectedDynamicGraph {
	if db.nodeBased != nil {
		return db.nodeBased
	}
	return db.edgeBased
}

// Augmented. true kalau edge node-based juga membawa distance & time.
func (db *ContractedDb) Augmented() bool {
	return db.nodeBased != nil && db.nodeBased.FixedSize() >= datastructure.AugmentedEdgeSize
}

/*
Serialize. layout:

	| version (1 byte) | graph body | (edge-based) edgeVertices: length (8 byte LE) + kelindar/binary body |
*/
func (db *ContractedDb) Serialize(w io.Writer) (int64, error) {
	version := versionNodeBased
	if db.edgeBased != nil {
		version = versionEdgeBased
	}
	if _, err := w.Write([]byte{version}); err != nil {
		return 0, err
	}
	total := int64(1)

	n, err := db.Graph().Serialize(w)
	total += n
	if err != nil {
		return total, fmt.Errorf("serialize contracted graph: %w", err)
	}
	if version == versionNodeBased {
		return total, nil
	}

	body, err := binary.Marshal(db.edgeVertices)
	if err != nil {
		return total, fmt.Errorf("encode edge vertices: %w", err)
	}
	header := make([]byte, 8)
	stdbinary.LittleEndian.PutUint64(header, uint64(len(body)))
	m, err := w.Write(header)
	total += int64(m)
	if err != nil {
		return total, err
	}
	m, err = w.Write(body)
	total += int64(m)
	return total, err
}

func Deserialize(r io.Reader, profile *LoadProfile) (*ContractedDb, error) {
	if profile != nil && profile.BufferSize > 0 {
		r = bufio.NewReaderSize(r, profile.BufferSize)
	}

	version := make([]byte, 1)
	if _, err := io.ReadFull(r, version); err != nil {
		return nil, fmt.Errorf("read contracted graph version: %w", err)
	}

	switch version[0] {
	case versionLegacy:
		return nil, ErrUpgradeRequired
	case versionNodeBased:
		g, err := datastructure.DeserializeDirectedDynamicGraph(r)
		if err != nil {
			return nil, err
		}
		return NewNodeBased(g), nil
	case versionEdgeBased:
		g, err := datastructure.DeserializeDirectedDynamicGraph(r)
		if err != nil {
			return nil, err
		}
		header := make([]byte, 8)
		if _, err := io.ReadFull(r, header); err != nil {
			return nil, fmt.Errorf("read edge vertices header: %v: %w", err, datastructure.ErrCorruptGraph)
		}
		body, err := datastructure.ReadSized(r, stdbinary.LittleEndian.Uint64(header))
		if err != nil {
			return nil, fmt.Errorf("read edge vertices: %w", err)
		}
		var edgeVertices []uint32
		if err := datastructure.UnmarshalBody(body, &edgeVertices); err != nil {
			return nil, fmt.Errorf("decode edge vertices: %w", err)
		}
		if uint32(len(edgeVertices)) != 2*g.VertexCount() {
			return nil, fmt.Errorf("edge vertices length %d for %d dual vertices: %w", len(edgeVertices),
				g.VertexCount(), datastructure.ErrCorruptGraph)
		}
		return NewEdgeBased(g, edgeVertices), nil
	default:
		return nil, fmt.Errorf("version %d: %w", version[0], ErrUnsupportedVersion)
	}
}
