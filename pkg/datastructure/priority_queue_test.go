package datastructure

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func generateRandomInteger(min int, max int) int {
	return min + rand.Intn(max-min)
}

func TestPriorityQueue(t *testing.T) {
	pq := NewMinHeap[int32]()

	for i := 0; i < 10000; i++ {
		item := PriorityQueueNode[int32]{Rank: float64(generateRandomInteger(1, 10000)), Item: int32(i)}
		pq.Insert(item)

		if (i+1)%100 == 0 {
			item.Rank = float64(generateRandomInteger(0, int(item.Rank)))
			require.NoError(t, pq.DecreaseKey(item))
		}
	}
	assert.Equal(t, 10000, pq.Size())

	prevItem, err := pq.ExtractMin()
	require.NoError(t, err)
	for i := 1; i < 10000; i++ {
		item, err := pq.ExtractMin()
		require.NoError(t, err)
		assert.LessOrEqual(t, prevItem.Rank, item.Rank)
		prevItem = item
	}

	_, err = pq.ExtractMin()
	assert.ErrorIs(t, err, ErrHeapEmpty)
}

func TestPriorityQueueDecreaseKey(t *testing.T) {
	pq := NewMinHeap[int32]()

	itemSlice := make([]PriorityQueueNode[int32], 1000)
	for i := 0; i < 1000; i++ {
		item := PriorityQueueNode[int32]{Rank: float64(generateRandomInteger(10000, 100000000)), Item: int32(i)}
		pq.Insert(item)
		itemSlice[i] = item
	}

	for i := 0; i < 1000; i++ {
		itemSlice[i].Rank = float64(generateRandomInteger(0, int(itemSlice[i].Rank)))
		require.NoError(t, pq.DecreaseKey(itemSlice[i]))
	}

	min, err := pq.GetMin()
	require.NoError(t, err)
	for _, item := range itemSlice {
		assert.LessOrEqual(t, min.Rank, item.Rank)
	}

	assert.ErrorIs(t, pq.DecreaseKey(PriorityQueueNode[int32]{Item: 5000}), ErrItemNotFound)
}

func TestPriorityQueueInsertExisting(t *testing.T) {
	pq := NewMinHeap[uint32]()
	pq.Insert(PriorityQueueNode[uint32]{Rank: 5, Item: 1})
	pq.Insert(PriorityQueueNode[uint32]{Rank: 3, Item: 2})
	pq.Insert(PriorityQueueNode[uint32]{Rank: 10, Item: 2})

	assert.Equal(t, 2, pq.Size())
	min, err := pq.ExtractMin()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), min.Item)
	assert.True(t, pq.Contains(2))
	assert.False(t, pq.Contains(1))
}

func TestPathArena(t *testing.T) {
	arena := NewPathArena(4)
	root := arena.Add(0, 0, NoEdge, NoPath)
	mid := arena.Add(1, 10, NewDirectedEdgeID(0, true), root)
	last := arena.Add(2, 30, NewDirectedEdgeID(1, false), mid)

	assert.Equal(t, []uint32{0, 1, 2}, arena.Vertices(last))
	assert.Equal(t, []PathHandle{root, mid, last}, arena.Handles(last))
	assert.Equal(t, float32(30), arena.Get(last).Weight)

	arena.Reset()
	assert.Equal(t, 0, arena.Len())
}

func TestCompressData(t *testing.T) {
	in := bytes.Repeat([]byte("contracted graph "), 100)

	var compressed bytes.Buffer
	require.NoError(t, CompressData(in, &compressed))
	assert.True(t, IsZstdFrame(compressed.Bytes()))
	assert.False(t, IsZstdFrame(in))

	var out bytes.Buffer
	require.NoError(t, DecompressData(compressed.Bytes(), &out))
	assert.Equal(t, in, out.Bytes())
}

func TestPolyline(t *testing.T) {
	path := []Coordinate{NewCoordinate(-7.55, 110.77), NewCoordinate(-7.56, 110.78)}
	encoded := CreatePolyline(path)
	assert.NotEmpty(t, encoded)

	decoded, err := DecodePolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.InDelta(t, -7.56, decoded[1].Lat, 1e-5)
}
