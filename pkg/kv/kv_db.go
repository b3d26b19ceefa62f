package kv

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dgraph-io/badger/v4"
	"github.com/lintang-b-s/navigatorx-ch/pkg/contracted"
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/network"
	"github.com/uber/h3-go/v4"
	"golang.org/x/exp/slog"
)

const (
	h3Resolution    = 9
	maxGridDiskRing = 10
	batchSize       = 1000
)

var (
	ErrVerticesNotFound = errors.New("no vertex near the coordinate")
)

func contractedKey(profile string) []byte {
	return []byte("ch:" + profile)
}

var networkKey = []byte("network")

func islandsKey(profile string) []byte {
	return []byte("islands:" + profile)
}

func cellKey(cell h3.Cell) []byte {
	return []byte("h3:" + cell.String())
}

/*
KVDB. badger store buat hasil preprocessing:
network           -> RoadNetwork (zstd)
ch:<profile>      -> ContractedDb (zstd)
islands:<profile> -> island label tiap vertex
h3:<cell>         -> vertex id di cell h3 resolusi 9
*/
type KVDB struct {
	db *badger.DB
}

func NewKVDB(db *badger.DB) *KVDB {
	return &KVDB{db}
}

// OpenKVDB. dir kosong = badger in-memory.
func OpenKVDB(dir string) (*KVDB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open kv db %q: %w", dir, err)
	}
	return NewKVDB(db), nil
}

func (k *KVDB) SaveContracted(profile string, ch *contracted.ContractedDb) error {
	bb, err := ch.Bytes()
	if err != nil {
		return err
	}
	bbCompressed, err := compress(bb)
	if err != nil {
		return fmt.Errorf("compress contracted graph %s: %w", profile, err)
	}
	return k.set(contractedKey(profile), bbCompressed)
}

// LoadContracted. ok == false kalau profile belum pernah disimpan.
func (k *KVDB) LoadContracted(profile string) (*contracted.ContractedDb, bool, error) {
	val, ok, err := k.get(contractedKey(profile))
	if err != nil || !ok {
		return nil, false, err
	}
	bb, err := decompress(val)
	if err != nil {
		return nil, false, fmt.Errorf("decompress contracted graph %s: %w", profile, err)
	}
	ch, err := contracted.FromBytes(bb)
	if err != nil {
		return nil, false, err
	}
	return ch, true, nil
}

func (k *KVDB) SaveNetwork(net *network.RoadNetwork) error {
	bb, err := net.Bytes()
	if err != nil {
		return err
	}
	bbCompressed, err := compress(bb)
	if err != nil {
		return fmt.Errorf("compress road network: %w", err)
	}
	return k.set(networkKey, bbCompressed)
}

func (k *KVDB) LoadNetwork() (*network.RoadNetwork, bool, error) {
	val, ok, err := k.get(networkKey)
	if err != nil || !ok {
		return nil, false, err
	}
	bb, err := decompress(val)
	if err != nil {
		return nil, false, fmt.Errorf("decompress road network: %w", err)
	}
	net, err := network.FromBytes(bb)
	if err != nil {
		return nil, false, err
	}
	return net, true, nil
}

func (k *KVDB) SaveIslands(profile string, labels []uint16) error {
	val, err := encodeIslands(labels)
	if err != nil {
		return err
	}
	return k.set(islandsKey(profile), val)
}

func (k *KVDB) LoadIslands(profile string) ([]uint16, bool, error) {
	val, ok, err := k.get(islandsKey(profile))
	if err != nil || !ok {
		return nil, false, err
	}
	labels, err := loadIslands(val)
	if err != nil {
		return nil, false, err
	}
	return labels, true, nil
}

// BuildH3IndexedVertices. kelompokkan vertex per cell h3 lalu simpan per batch.
func (k *KVDB) BuildH3IndexedVertices(ctx context.Context, coords []datastructure.Coordinate) error {
	slog.Info("creating & saving h3 indexed vertices to key-value db...", "vertices", len(coords))
	buckets := make(map[h3.Cell][]uint32)
	for v, c := range coords {
		if v%100000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		cell := h3.LatLngToCell(h3.NewLatLng(c.Lat, c.Lon), h3Resolution)
		buckets[cell] = append(buckets[cell], uint32(v))
	}

	batches := make([]batchData, 0, batchSize)
	for cell, vertices := range buckets {
		batches = append(batches, batchData{key: cellKey(cell), value: vertices})
		if len(batches) == batchSize {
			if err := k.saveBatchVertices(ctx, batches); err != nil {
				return err
			}
			batches = make([]batchData, 0, batchSize)
		}
	}
	if len(batches) > 0 {
		if err := k.saveBatchVertices(ctx, batches); err != nil {
			return err
		}
	}
	slog.Info("creating & saving h3 indexed vertices done", "cells", len(buckets))
	return nil
}

type batchData struct {
	key   []byte
	value []uint32
}

func (k *KVDB) saveBatchVertices(ctx context.Context, batchData []batchData) error {
	batch := k.db.NewWriteBatch()
	defer batch.Cancel()

	for _, data := range batchData {
		if err := ctx.Err(); err != nil {
			return err
		}
		val, err := encodeVertices(data.value)
		if err != nil {
			return err
		}
		if err := batch.Set(data.key, val); err != nil {
			return err
		}
	}

	if err := batch.Flush(); err != nil {
		return fmt.Errorf("saving %d h3 cells: %w", len(batchData), err)
	}
	slog.Debug("saving h3 cells done", "cells", len(batchData))
	return nil
}

/*
GetNearestVertexCandidates. vertex di cell titik (lat, lon) dan ring pertama di sekitarnya.
kalau kosong cari di cell dalam radius 1 km, lalu grid disk yang makin besar sampai ring 10.
*/
func (k *KVDB) GetNearestVertexCandidates(lat, lon float64) ([]uint32, error) {
	cell := h3.LatLngToCell(h3.NewLatLng(lat, lon), h3Resolution)
	visited := make(map[h3.Cell]struct{})
	vertices := make([]uint32, 0)

	collect := func(cells []h3.Cell) error {
		for _, curr := range cells {
			if _, ok := visited[curr]; ok {
				continue
			}
			visited[curr] = struct{}{}
			found, err := k.cellVertices(curr)
			if err != nil {
				return err
			}
			vertices = append(vertices, found...)
		}
		return nil
	}

	if err := collect(h3.GridDisk(cell, 1)); err != nil {
		return nil, err
	}
	if len(vertices) == 0 {
		if err := collect(kRingIndexesArea(lat, lon, 1)); err != nil {
			return nil, err
		}
	}
	for lev := 2; lev <= maxGridDiskRing && len(vertices) == 0; lev++ {
		if err := collect(h3.GridDisk(cell, lev)); err != nil {
			return nil, err
		}
	}

	if len(vertices) == 0 {
		return nil, ErrVerticesNotFound
	}
	return vertices, nil
}

func (k *KVDB) cellVertices(cell h3.Cell) ([]uint32, error) {
	val, ok, err := k.get(cellKey(cell))
	if err != nil || !ok {
		return nil, err
	}
	return loadVertices(val)
}

func kRingIndexesArea(lat, lon, searchRadiusKm float64) []h3.Cell {
	origin := h3.LatLngToCell(h3.NewLatLng(lat, lon), h3Resolution)
	originArea := h3.CellAreaKm2(origin)
	searchArea := math.Pi * searchRadiusKm * searchRadiusKm

	radius := 0
	diskArea := originArea
	for diskArea < searchArea {
		radius++
		cellCount := float64(3*radius*(radius+1) + 1)
		diskArea = cellCount * originArea
	}
	return h3.GridDisk(origin, radius)
}

func (k *KVDB) set(key, val []byte) error {
	return k.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

func (k *KVDB) get(key []byte) ([]byte, bool, error) {
	var val []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (k *KVDB) Close() error {
	return k.db.Close()
}
