package datastructure

import "fmt"

// Direction. arah traversal sebuah edge relatif terhadap arah penyimpanannya.
type Direction uint8

const (
	Bidirectional Direction = 0
	Forward       Direction = 1
	Backward      Direction = 2
)

// CanMoveForward. edge boleh dilewati searah arah penyimpanan.
func (d Direction) CanMoveForward() bool {
	return d != Backward
}

// CanMoveBackward. edge boleh dilewati berlawanan arah penyimpanan.
func (d Direction) CanMoveBackward() bool {
	return d != Forward
}

func (d Direction) Reverse() Direction {
	switch d {
	case Forward:
		return Backward
	case Backward:
		return Forward
	default:
		return Bidirectional
	}
}

func (d Direction) IsValid() bool {
	return d <= Backward
}

func (d Direction) String() string {
	switch d {
	case Bidirectional:
		return "bidirectional"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// DirectionFromFlags. ok == false kalau dua arah sama-sama tidak boleh dilewati.
func DirectionFromFlags(forward, backward bool) (Direction, bool) {
	switch {
	case forward && backward:
		return Bidirectional, true
	case forward:
		return Forward, true
	case backward:
		return Backward, true
	default:
		return Bidirectional, false
	}
}
