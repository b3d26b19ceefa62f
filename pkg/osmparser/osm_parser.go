package osmparser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ch/pkg/network"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"golang.org/x/exp/slog"
)

type NodeType uint8

const (
	END_NODE NodeType = iota + 1
	BETWEEN_NODE
	JUNCTION_NODE
)

var (
	ErrUnknownFormat = errors.New("unknown osm file format")
)

type node struct {
	id    int64
	coord datastructure.Coordinate
}

type wayInfo struct {
	highway  string
	maxSpeed float64
	forward  bool
	backward bool
}

// turnRestriction. relation type=restriction dengan from way, via node & to way.
type turnRestriction struct {
	kind    string
	fromWay int64
	viaNode int64
	toWay   int64
}

/*
OsmParser. baca file osm (pbf atau xml) 2 kali:
pass 1: tandai node yang dipakai way (end, between, junction) & kumpulkan turn restriction.
pass 2: simpan koordinat node, lalu pecah tiap way jadi edge di junction & barrier.
*/
type OsmParser struct {
	wayNodeMap      map[int64]NodeType
	acceptedNodeMap map[int64]datastructure.Coordinate
	barrierNodes    map[int64]bool
	nodeIDMap       map[int64]uint32
	wayEdges        map[int64][][2]uint32
	relations       []turnRestriction
	restrictions    [][]uint32
	net             *network.RoadNetwork
	progress        io.Writer
}

func NewOSMParser() *OsmParser {
	return &OsmParser{
		wayNodeMap:      make(map[int64]NodeType),
		acceptedNodeMap: make(map[int64]datastructure.Coordinate),
		barrierNodes:    make(map[int64]bool),
		nodeIDMap:       make(map[int64]uint32),
		wayEdges:        make(map[int64][][2]uint32),
		relations:       make([]turnRestriction, 0),
		restrictions:    make([][]uint32, 0),
		net:             network.NewRoadNetwork(),
	}
}

// SetProgressWriter. progress bar tiap pass ditulis ke w, nil = tanpa progress bar.
func (p *OsmParser) SetProgressWriter(w io.Writer) {
	p.progress = w
}

type scannerFunc func(ctx context.Context, r io.Reader) osm.Scanner

func pbfScanner(ctx context.Context, r io.Reader) osm.Scanner {
	// must not be parallel
	return osmpbf.New(ctx, r, 1)
}

func xmlScanner(ctx context.Context, r io.Reader) osm.Scanner {
	return osmxml.New(ctx, r)
}

// ParseFile. format dari ekstensi: .pbf atau .osm/.xml.
func (p *OsmParser) ParseFile(ctx context.Context, mapFile string) (*network.RoadNetwork, error) {
	var scanner scannerFunc
	switch ext := strings.ToLower(filepath.Ext(mapFile)); ext {
	case ".pbf":
		scanner = pbfScanner
	case ".osm", ".xml":
		scanner = xmlScanner
	default:
		return nil, fmt.Errorf("%s: %w", mapFile, ErrUnknownFormat)
	}

	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.parse(ctx, f, scanner)
}

func (p *OsmParser) ParsePBF(ctx context.Context, r io.ReadSeeker) (*network.RoadNetwork, error) {
	return p.parse(ctx, r, pbfScanner)
}

func (p *OsmParser) ParseXML(ctx context.Context, r io.ReadSeeker) (*network.RoadNetwork, error) {
	return p.parse(ctx, r, xmlScanner)
}

// Restrictions. turn restriction dalam vertex id RoadNetwork, terisi setelah parse.
func (p *OsmParser) Restrictions() [][]uint32 {
	return p.restrictions
}

// Vertex. vertex id untuk node osm, false kalau node tidak jadi vertex.
func (p *OsmParser) Vertex(osmNodeID int64) (uint32, bool) {
	v, ok := p.nodeIDMap[osmNodeID]
	return v, ok
}

// MapRestrictions. ubah restriction berupa urutan node id osm jadi urutan vertex id.
func (p *OsmParser) MapRestrictions(osmRestrictions [][]int64) ([][]uint32, error) {
	out := make([][]uint32, 0, len(osmRestrictions))
	for _, r := range osmRestrictions {
		seq := make([]uint32, 0, len(r))
		for _, id := range r {
			v, ok := p.nodeIDMap[id]
			if !ok {
				return nil, fmt.Errorf("restriction %v: osm node %d is not a vertex", r, id)
			}
			seq = append(seq, v)
		}
		out = append(out, seq)
	}
	return out, nil
}

func (p *OsmParser) parse(ctx context.Context, r io.ReadSeeker, newScanner scannerFunc) (*network.RoadNetwork, error) {
	scanner := newScanner(ctx, r)
	countWays := 0
	bar := newProgressBar(p.progress, -1, "[cyan][1/2][reset] scanning openstreetmap ways ...")
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Way:
			if len(o.Nodes) < 2 || !acceptOsmWay(o) {
				continue
			}
			countWays++
			_ = bar.Add(1)

			for i, wayNode := range o.Nodes {
				id := int64(wayNode.ID)
				if _, ok := p.wayNodeMap[id]; !ok {
					if i == 0 || i == len(o.Nodes)-1 {
						p.wayNodeMap[id] = END_NODE
					} else {
						p.wayNodeMap[id] = BETWEEN_NODE
					}
				} else {
					p.wayNodeMap[id] = JUNCTION_NODE
				}
			}
			// way yang nodenya muter balik (a ... a): node a dipakai 2 kali di way yang sama.
			if o.Nodes[0].ID == o.Nodes[len(o.Nodes)-1].ID {
				p.wayNodeMap[int64(o.Nodes[0].ID)] = JUNCTION_NODE
			}
		case *osm.Relation:
			if tr, ok := parseTurnRestriction(o); ok {
				p.relations = append(p.relations, tr)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("reading osm file: %w", err)
	}
	scanner.Close()
	_ = bar.Finish()
	slog.Info("openstreetmap ways scanned", "ways", countWays, "relations", len(p.relations))

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	scanner = newScanner(ctx, r)
	defer scanner.Close()
	bar = newProgressBar(p.progress, countWays, "[cyan][2/2][reset] building road network ...")
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			id := int64(o.ID)
			if _, ok := p.wayNodeMap[id]; ok {
				p.acceptedNodeMap[id] = datastructure.NewCoordinate(o.Lat, o.Lon)
			}
			if o.Tags.Find("barrier") != "" || o.Tags.Find("ford") != "" {
				p.barrierNodes[id] = true
			}
		case *osm.Way:
			if len(o.Nodes) < 2 || !acceptOsmWay(o) {
				continue
			}
			if err := p.processWay(o); err != nil {
				return nil, err
			}
			_ = bar.Add(1)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading osm file: %w", err)
	}

	_ = bar.Finish()

	p.resolveRestrictions()
	slog.Info("openstreetmap parsed", "vertices", p.net.VertexCount(), "edges", p.net.Graph().EdgeCount(),
		"restrictions", len(p.restrictions))
	return p.net, nil
}

func (p *OsmParser) processWay(way *osm.Way) error {
	info := wayInfo{highway: way.Tags.Find("highway")}
	info.forward, info.backward = wayDirection(way)
	info.maxSpeed = parseMaxSpeed(way.Tags.Find("maxspeed"))

	profile, err := p.net.Profiles().Intern(network.EdgeProfile{
		Highway:  info.highway,
		MaxSpeed: info.maxSpeed,
		Forward:  info.forward,
		Backward: info.backward,
	})
	if err != nil {
		return fmt.Errorf("way %d: %w", way.ID, err)
	}

	waySegment := make([]node, 0, len(way.Nodes))
	for i, wayNode := range way.Nodes {
		coord, ok := p.acceptedNodeMap[int64(wayNode.ID)]
		if !ok {
			// node di luar extract.
			if len(waySegment) > 1 {
				if err := p.processSegment(int64(way.ID), waySegment, profile); err != nil {
					return err
				}
			}
			waySegment = waySegment[:0]
			continue
		}
		nodeData := node{id: int64(wayNode.ID), coord: coord}
		if p.isJunctionNode(nodeData.id) && i > 0 && len(waySegment) > 0 {
			waySegment = append(waySegment, nodeData)
			if err := p.processSegment(int64(way.ID), waySegment, profile); err != nil {
				return err
			}
			waySegment = []node{nodeData}
			continue
		}
		waySegment = append(waySegment, nodeData)
	}
	if len(waySegment) > 1 {
		return p.processSegment(int64(way.ID), waySegment, profile)
	}
	return nil
}

func (p *OsmParser) processSegment(wayID int64, segment []node, profile uint16) error {
	if len(segment) == 2 && segment[0].id == segment[1].id {
		return nil
	}
	if segment[0].id == segment[len(segment)-1].id {
		// loop
		if err := p.splitAtBarriers(wayID, segment[0:len(segment)-1], profile); err != nil {
			return err
		}
		return p.splitAtBarriers(wayID, segment[len(segment)-2:], profile)
	}
	return p.splitAtBarriers(wayID, segment, profile)
}

func (p *OsmParser) splitAtBarriers(wayID int64, segment []node, profile uint16) error {
	waySegment := []node{}
	for _, nodeData := range segment {
		if p.barrierNodes[nodeData.id] && len(waySegment) != 0 {
			waySegment = append(waySegment, nodeData)
			if err := p.addEdge(wayID, waySegment, profile); err != nil {
				return err
			}
			waySegment = []node{}
		}
		waySegment = append(waySegment, nodeData)
	}
	if len(waySegment) > 1 {
		return p.addEdge(wayID, waySegment, profile)
	}
	return nil
}

func (p *OsmParser) vertexOf(n node) uint32 {
	if v, ok := p.nodeIDMap[n.id]; ok {
		return v
	}
	v := p.net.AddVertex(n.coord)
	p.nodeIDMap[n.id] = v
	return v
}

func (p *OsmParser) addEdge(wayID int64, segment []node, profile uint16) error {
	from, to := p.vertexOf(segment[0]), p.vertexOf(segment[len(segment)-1])
	if from == to {
		return nil
	}

	points := make([]datastructure.Coordinate, len(segment))
	for i, n := range segment {
		points[i] = n.coord
	}

	// shape. titik di antara 2 vertex ujung edge.
	if _, err := p.net.AddEdge(from, to, geo.PolylineLength(points), profile, points[1:len(points)-1]); err != nil {
		return fmt.Errorf("way %d: %w", wayID, err)
	}
	p.wayEdges[wayID] = append(p.wayEdges[wayID], [2]uint32{from, to})
	return nil
}

func (p *OsmParser) isJunctionNode(nodeID int64) bool {
	return p.wayNodeMap[nodeID] == JUNCTION_NODE
}

// neighboursOnWay. vertex di ujung lain edge way yang menyentuh via.
func (p *OsmParser) neighboursOnWay(wayID int64, via uint32) []uint32 {
	out := make([]uint32, 0, 2)
	for _, e := range p.wayEdges[wayID] {
		if e[0] == via {
			out = append(out, e[1])
		} else if e[1] == via {
			out = append(out, e[0])
		}
	}
	return out
}

/*
resolveRestrictions. no_* -> larang [u, via, x].
only_* -> larang semua belokan dari u lewat via selain ke x (u-turn tidak ikut, sudah tidak pernah dipakai).
*/
func (p *OsmParser) resolveRestrictions() {
	g := p.net.Graph()
	e := g.GetEdgeEnumerator()
	for _, tr := range p.relations {
		via, ok := p.nodeIDMap[tr.viaNode]
		if !ok {
			continue
		}
		froms := p.neighboursOnWay(tr.fromWay, via)
		tos := p.neighboursOnWay(tr.toWay, via)
		if len(froms) == 0 || len(tos) == 0 {
			continue
		}

		switch {
		case strings.HasPrefix(tr.kind, "no_"):
			for _, u := range froms {
				for _, x := range tos {
					p.restrictions = append(p.restrictions, []uint32{u, via, x})
				}
			}
		case strings.HasPrefix(tr.kind, "only_"):
			allowed := make(map[uint32]struct{}, len(tos))
			for _, x := range tos {
				allowed[x] = struct{}{}
			}
			for _, u := range froms {
				seen := make(map[uint32]struct{})
				e.MoveTo(via)
				for e.MoveNext() {
					y := e.Neighbour()
					if _, ok := allowed[y]; ok || y == u {
						continue
					}
					if _, ok := seen[y]; ok {
						continue
					}
					seen[y] = struct{}{}
					p.restrictions = append(p.restrictions, []uint32{u, via, y})
				}
			}
		}
	}
}

func parseTurnRestriction(relation *osm.Relation) (turnRestriction, bool) {
	if relation.Tags.Find("type") != "restriction" {
		return turnRestriction{}, false
	}
	tr := turnRestriction{kind: relation.Tags.Find("restriction"), fromWay: -1, viaNode: -1, toWay: -1}
	if tr.kind == "" {
		return turnRestriction{}, false
	}
	for _, member := range relation.Members {
		switch {
		case member.Role == "from" && member.Type == osm.TypeWay:
			tr.fromWay = member.Ref
		case member.Role == "to" && member.Type == osm.TypeWay:
			tr.toWay = member.Ref
		case member.Role == "via" && member.Type == osm.TypeNode:
			tr.viaNode = member.Ref
		}
	}
	// via berupa way belum didukung.
	if tr.fromWay == -1 || tr.toWay == -1 || tr.viaNode == -1 {
		return turnRestriction{}, false
	}
	return tr, true
}

func isRestricted(value string) bool {
	switch value {
	case "no", "restricted", "military", "emergency", "private", "permit":
		return true
	}
	return false
}

// wayDirection. arah yang boleh dilewati relatif ke urutan node way.
func wayDirection(way *osm.Way) (forward, backward bool) {
	forward, backward = true, true
	oneway := way.Tags.Find("oneway")
	junction := way.Tags.Find("junction")
	switch {
	case oneway == "-1" || oneway == "reverse":
		forward = false
	case oneway == "yes" || oneway == "true" || oneway == "1":
		backward = false
	case oneway == "" && (junction == "roundabout" || junction == "circular" || way.Tags.Find("highway") == "motorway"):
		backward = false
	}

	if isRestricted(way.Tags.Find("vehicle:forward")) || isRestricted(way.Tags.Find("motor_vehicle:forward")) {
		forward = false
	}
	if isRestricted(way.Tags.Find("vehicle:backward")) || isRestricted(way.Tags.Find("motor_vehicle:backward")) {
		backward = false
	}
	return forward, backward
}

// parseMaxSpeed. km/h, 0 kalau tidak ada atau tidak bisa dibaca (misal "signals").
func parseMaxSpeed(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	factor := 1.0
	switch {
	case strings.HasSuffix(value, "mph"):
		factor = 1.60934
		value = strings.TrimSuffix(value, "mph")
	case strings.HasSuffix(value, "km/h"):
		value = strings.TrimSuffix(value, "km/h")
	case strings.HasSuffix(value, "knots"):
		factor = 1.852
		value = strings.TrimSuffix(value, "knots")
	}
	speed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return speed * factor
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	if highway != "" {
		_, skip := skipHighway[highway]
		return !skip
	}
	return way.Tags.Find("route") == "road" || way.Tags.Find("junction") != ""
}
