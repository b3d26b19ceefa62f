package restriction

// Set. kumpulan restriction. sequence allowed kalau allowed untuk semua restriction.
type Set struct {
	restrictions [][]uint32
	byFirst      map[uint32][]int
	maxLength    int
}

// NewSet. restriction kosong diabaikan.
func NewSet(restrictions [][]uint32) Set {
	s := Set{
		restrictions: make([][]uint32, 0, len(restrictions)),
		byFirst:      make(map[uint32][]int),
	}
	for _, r := range restrictions {
		if len(r) == 0 {
			continue
		}
		r = append([]uint32(nil), r...)
		s.byFirst[r[0]] = append(s.byFirst[r[0]], len(s.restrictions))
		s.restrictions = append(s.restrictions, r)
		if len(r) > s.maxLength {
			s.maxLength = len(r)
		}
	}
	return s
}

func (s Set) Len() int {
	return len(s.restrictions)
}

func (s Set) IsEmpty() bool {
	return len(s.restrictions) == 0
}

// MaxLength. ukuran window terpanjang yang perlu dibawa search state.
func (s Set) MaxLength() int {
	return s.maxLength
}

func (s Set) Restrictions() [][]uint32 {
	return s.restrictions
}

func (s Set) IsSequenceAllowed(sequence []uint32) bool {
	if len(s.restrictions) == 0 {
		return true
	}
	for start := range sequence {
		for _, idx := range s.byFirst[sequence[start]] {
			r := s.restrictions[idx]
			if start+len(r) <= len(sequence) && equalWindow(sequence[start:start+len(r)], r) {
				return false
			}
		}
	}
	return true
}

func (s Set) IsSequenceAllowedReverse(sequence []uint32) bool {
	for _, r := range s.restrictions {
		if !IsSequenceAllowedReverse(r, sequence) {
			return false
		}
	}
	return true
}

// Touches. true kalau vertex muncul di salah satu restriction.
func (s Set) Touches(vertex uint32) bool {
	for _, r := range s.restrictions {
		for _, v := range r {
			if v == vertex {
				return true
			}
		}
	}
	return false
}

func (s Set) MatchAny(sequence []uint32) int {
	return MatchAny(sequence, s.restrictions)
}

func (s Set) MatchAnyReverse(sequence []uint32) int {
	return MatchAnyReverse(sequence, s.restrictions)
}
