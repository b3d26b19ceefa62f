package network

import (
	"fmt"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
)

// EdgeProfile. atribut edge yang dipakai cost function. arah relatif ke arah penyimpanan edge.
type EdgeProfile struct {
	Highway  string
	MaxSpeed float64 // km/h, 0 = pakai default highway
	Forward  bool
	Backward bool
}

// ProfileTable. intern EdgeProfile jadi profile id uint16 yang disimpan di data edge.
type ProfileTable struct {
	profiles []EdgeProfile
	ids      map[EdgeProfile]uint16
}

func NewProfileTable() *ProfileTable {
	return &ProfileTable{
		profiles: make([]EdgeProfile, 0),
		ids:      make(map[EdgeProfile]uint16),
	}
}

func (t *ProfileTable) Intern(p EdgeProfile) (uint16, error) {
	if id, ok := t.ids[p]; ok {
		return id, nil
	}
	if len(t.profiles) >= datastructure.MaxProfileCount {
		return 0, fmt.Errorf("profile table full: %w", datastructure.ErrEncodingRange)
	}
	id := uint16(len(t.profiles))
	t.profiles = append(t.profiles, p)
	t.ids[p] = id
	return id, nil
}

func (t *ProfileTable) Get(id uint16) (EdgeProfile, bool) {
	if int(id) >= len(t.profiles) {
		return EdgeProfile{}, false
	}
	return t.profiles[id], true
}

func (t *ProfileTable) Len() int {
	return len(t.profiles)
}

func (p EdgeProfile) Direction() (datastructure.Direction, bool) {
	return datastructure.DirectionFromFlags(p.Forward, p.Backward)
}

/*
DistanceCost. factor 1 per meter untuk semua highway yang ada di speeds.
TimeCost. factor = detik per meter berdasarkan maxspeed edge atau speeds[highway].
*/
func (t *ProfileTable) DistanceCost(speeds map[string]float64) datastructure.CostFunction {
	return func(profile uint16) datastructure.Factor {
		p, ok := t.Get(profile)
		if !ok {
			return datastructure.NoFactor()
		}
		if _, ok := speeds[p.Highway]; !ok {
			return datastructure.NoFactor()
		}
		dir, ok := p.Direction()
		if !ok {
			return datastructure.NoFactor()
		}
		return datastructure.Factor{Value: 1, Direction: dir}
	}
}

func (t *ProfileTable) TimeCost(speeds map[string]float64) datastructure.CostFunction {
	return func(profile uint16) datastructure.Factor {
		p, ok := t.Get(profile)
		if !ok {
			return datastructure.NoFactor()
		}
		speed, ok := speeds[p.Highway]
		if !ok {
			return datastructure.NoFactor()
		}
		if p.MaxSpeed > 0 && p.MaxSpeed < speed {
			speed = p.MaxSpeed
		}
		dir, ok := p.Direction()
		if !ok || speed <= 0 {
			return datastructure.NoFactor()
		}
		return datastructure.Factor{Value: float32(3.6 / speed), Direction: dir}
	}
}
