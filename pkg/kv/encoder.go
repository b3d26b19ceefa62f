package kv

import (
	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

func encodeVertices(vertices []uint32) ([]byte, error) {
	return binary.Marshal(vertices)
}

func loadVertices(bb []byte) ([]uint32, error) {
	var vertices []uint32
	if len(bb) == 0 {
		return vertices, nil
	}
	err := binary.Unmarshal(bb, &vertices)
	return vertices, err
}

func encodeIslands(labels []uint16) ([]byte, error) {
	bb, err := binary.Marshal(labels)
	if err != nil {
		return nil, err
	}
	return compress(bb)
}

func loadIslands(bbCompressed []byte) ([]uint16, error) {
	bb, err := decompress(bbCompressed)
	if err != nil {
		return nil, err
	}
	var labels []uint16
	err = binary.Unmarshal(bb, &labels)
	return labels, err
}

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}
	return bb, nil
}
