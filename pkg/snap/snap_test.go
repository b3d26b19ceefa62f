package snap

import (
	"context"
	"errors"
	"testing"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var coords = []datastructure.Coordinate{
	datastructure.NewCoordinate(-7.565837, 110.831586),
	datastructure.NewCoordinate(-7.566063, 110.832379),
	datastructure.NewCoordinate(-7.566406, 110.833232),
}

func TestResolverNearest(t *testing.T) {
	k, err := kv.OpenKVDB("")
	require.NoError(t, err)
	defer k.Close()
	require.NoError(t, k.BuildH3IndexedVertices(context.Background(), coords))

	r := NewResolver(k, coords)
	tests := []struct {
		name     string
		lat, lon float64
		want     uint32
	}{
		{"tepat di vertex", -7.566063, 110.832379, 1},
		{"dekat vertex 0", -7.565900, 110.831600, 0},
		{"dekat vertex 2", -7.566400, 110.833100, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _, ok, err := r.Nearest(tt.lat, tt.lon)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, v)
		})
	}

	_, _, ok, err := r.Nearest(40.7, -74.0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolverFilterAndMaxDistance(t *testing.T) {
	k, err := kv.OpenKVDB("")
	require.NoError(t, err)
	defer k.Close()
	require.NoError(t, k.BuildH3IndexedVertices(context.Background(), coords))

	r := NewResolver(k, coords)
	r.Filter = func(v uint32) bool { return v != 1 }
	v, _, ok, err := r.Nearest(-7.566063, 110.832379)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, uint32(1), v)

	r.Filter = nil
	r.MaxDistance = 10
	_, _, ok, err = r.Nearest(-7.5665, 110.8345)
	require.NoError(t, err)
	assert.False(t, ok)
}

type failingIndex struct{}

func (failingIndex) GetNearestVertexCandidates(lat, lon float64) ([]uint32, error) {
	return nil, errors.New("disk error")
}

func TestResolverIndexError(t *testing.T) {
	_, _, _, err := NewResolver(failingIndex{}, coords).Nearest(0, 0)
	assert.Error(t, err)
}

func TestRtreeIndex(t *testing.T) {
	r := NewResolver(NewRtreeIndex(coords), coords)
	v, d, ok, err := r.Nearest(-7.566400, 110.833100)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(2), v)
	assert.Less(t, d, 20.0)

	// r-tree selalu punya kandidat, MaxDistance yang membatasi.
	r.MaxDistance = 1000
	_, _, ok, err = r.Nearest(40.7, -74.0)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = NewRtreeIndex(nil).GetNearestVertexCandidates(0, 0)
	assert.ErrorIs(t, err, kv.ErrVerticesNotFound)
}
