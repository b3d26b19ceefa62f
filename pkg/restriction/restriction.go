package restriction

/*
restriction. urutan vertex yang dilarang muncul berurutan (contiguous & order preserving) di route.
contoh: restriction [1,2,3] melarang sequence [0,1,2,3,4] tapi tidak melarang [3,2,1,0] atau [1,2,4,3].
*/

// IsSequenceAllowed. false kalau restriction muncul sebagai contiguous subsequence dari sequence.
func IsSequenceAllowed(restriction, sequence []uint32) bool {
	if len(restriction) == 0 || len(restriction) > len(sequence) {
		return true
	}
	for start := 0; start+len(restriction) <= len(sequence); start++ {
		if equalWindow(sequence[start:start+len(restriction)], restriction) {
			return false
		}
	}
	return true
}

// IsSequenceAllowedReverse. sequence diberikan terbalik (urutan backward search).
func IsSequenceAllowedReverse(restriction, sequence []uint32) bool {
	if len(restriction) == 0 || len(restriction) > len(sequence) {
		return true
	}
	n := len(restriction)
	for start := 0; start+n <= len(sequence); start++ {
		matched := true
		for i := 0; i < n; i++ {
			if sequence[start+i] != restriction[n-1-i] {
				matched = false
				break
			}
		}
		if matched {
			return false
		}
	}
	return true
}

func equalWindow(a, b []uint32) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

/*
Match. panjang prefix terpanjang dari sequence yang sama dengan suatu window contiguous di restriction.
dipakai buat tau berapa banyak state restriction yang masih harus dibawa search.
*/
func Match(sequence, restriction []uint32) int {
	best := 0
	for start := 0; start < len(restriction); start++ {
		k := 0
		for k < len(sequence) && start+k < len(restriction) && sequence[k] == restriction[start+k] {
			k++
		}
		if k > best {
			best = k
		}
	}
	return best
}

// MatchReverse. panjang suffix terpanjang dari sequence yang sama dengan suatu window di restriction, scan dari ekor restriction.
func MatchReverse(sequence, restriction []uint32) int {
	best := 0
	for end := len(restriction) - 1; end >= 0; end-- {
		k := 0
		for k < len(sequence) && end-k >= 0 && sequence[len(sequence)-1-k] == restriction[end-k] {
			k++
		}
		if k > best {
			best = k
		}
	}
	return best
}

func MatchAny(sequence []uint32, restrictions [][]uint32) int {
	best := 0
	for _, r := range restrictions {
		if m := Match(sequence, r); m > best {
			best = m
		}
	}
	return best
}

func MatchAnyReverse(sequence []uint32, restrictions [][]uint32) int {
	best := 0
	for _, r := range restrictions {
		if m := MatchReverse(sequence, r); m > best {
			best = m
		}
	}
	return best
}
