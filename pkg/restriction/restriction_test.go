package restriction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSequenceAllowed(t *testing.T) {
	tests := []struct {
		name        string
		restriction []uint32
		sequence    []uint32
		want        bool
	}{
		{"exact", []uint32{1, 2, 3}, []uint32{1, 2, 3}, false},
		{"reversed", []uint32{1, 2, 3}, []uint32{3, 2, 1, 0}, true},
		{"embedded", []uint32{1, 2, 3}, []uint32{0, 1, 2, 3, 4}, false},
		{"not contiguous", []uint32{1, 2, 3}, []uint32{1, 2, 4, 3}, true},
		{"shorter sequence", []uint32{1, 2, 3}, []uint32{1, 2}, true},
		{"single vertex", []uint32{5}, []uint32{4, 5, 6}, false},
		{"empty restriction", nil, []uint32{1, 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSequenceAllowed(tt.restriction, tt.sequence))
		})
	}
}

func TestIsSequenceAllowedReverse(t *testing.T) {
	assert.False(t, IsSequenceAllowedReverse([]uint32{1, 2, 3}, []uint32{4, 3, 2, 1}))
	assert.True(t, IsSequenceAllowedReverse([]uint32{1, 2, 3}, []uint32{1, 2, 3}))
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name        string
		sequence    []uint32
		restriction []uint32
		want        int
	}{
		{"full", []uint32{1, 2, 3}, []uint32{1, 2, 3}, 3},
		{"window in middle", []uint32{2, 3, 9}, []uint32{1, 2, 3}, 2},
		{"no match", []uint32{7, 8}, []uint32{1, 2, 3}, 0},
		{"longer sequence", []uint32{3, 4, 5, 6}, []uint32{1, 2, 3, 4}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.sequence, tt.restriction))
		})
	}
}

func TestMatchReverse(t *testing.T) {
	assert.Equal(t, 2, MatchReverse([]uint32{9, 1, 2}, []uint32{1, 2, 3}))
	assert.Equal(t, 3, MatchReverse([]uint32{1, 2, 3}, []uint32{1, 2, 3}))
	assert.Equal(t, 0, MatchReverse([]uint32{9}, []uint32{1, 2, 3}))
}

func TestMatchAny(t *testing.T) {
	restrictions := [][]uint32{{1, 2}, {5, 6, 7}}
	assert.Equal(t, 2, MatchAny([]uint32{6, 7, 8}, restrictions))
	assert.Equal(t, 1, MatchAny([]uint32{2, 9}, restrictions))
	assert.Equal(t, 2, MatchAnyReverse([]uint32{0, 5, 6}, restrictions))
}

func TestSet(t *testing.T) {
	s := NewSet([][]uint32{{1, 2, 3}, {}, {4, 5}})

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, s.MaxLength())
	assert.False(t, s.IsSequenceAllowed([]uint32{0, 4, 5}))
	assert.False(t, s.IsSequenceAllowed([]uint32{1, 2, 3}))
	assert.True(t, s.IsSequenceAllowed([]uint32{3, 2, 1}))
	assert.False(t, s.IsSequenceAllowedReverse([]uint32{5, 4}))
	assert.True(t, s.Touches(5))
	assert.False(t, s.Touches(9))

	empty := NewSet(nil)
	assert.True(t, empty.IsEmpty())
	assert.True(t, empty.IsSequenceAllowed([]uint32{1, 2, 3}))
}
