package datastructure

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEncodingRange = errors.New("value outside encodable range")
)

const (
	BaseDistancePrecision = 10
	profileBits           = 14
	MaxProfileCount       = 1 << profileBits
	MaxBaseDistance       = float32(float64(math.MaxUint32>>profileBits) / BaseDistancePrecision)

	WeightPrecision = 100
	MaxWeight       = float32(4294967000.0 / 4 / WeightPrecision)

	AugmentedDistancePrecision = 10
	AugmentedTimePrecision     = 1
	MaxAugmentedDistance       = float32(4e9 / AugmentedDistancePrecision)
	MaxAugmentedTime           = float32(4e9 / AugmentedTimePrecision)

	// BaseEdgeDataSize is the number of words of a base edge record.
	BaseEdgeDataSize = 1
	// ContractedEdgeSize is the number of words of a contracted edge: weight/direction and contracted id.
	ContractedEdgeSize = 2
	// AugmentedEdgeSize adds distance and time.
	AugmentedEdgeSize = 4
)

func quantize(value float32, precision float64, max float32, name string) (uint32, error) {
	if math.IsNaN(float64(value)) || value < 0 || value > max {
		return 0, fmt.Errorf("%s %v not in [0, %v]: %w", name, value, max, ErrEncodingRange)
	}
	return uint32(math.Round(float64(value) * precision)), nil
}

// EncodeEdgeData packs distance and profile of a base edge.
func EncodeEdgeData(distance float32, profile uint16) ([]uint32, error) {
	if profile >= MaxProfileCount {
		return nil, fmt.Errorf("profile %d >= %d: %w", profile, MaxProfileCount, ErrEncodingRange)
	}
	d, err := quantize(distance, BaseDistancePrecision, MaxBaseDistance, "distance")
	if err != nil {
		return nil, err
	}
	return []uint32{d<<profileBits | uint32(profile)}, nil
}

func DecodeEdgeData(data []uint32) (float32, uint16) {
	return float32(float64(data[0]>>profileBits) / BaseDistancePrecision), uint16(data[0] & (MaxProfileCount - 1))
}

func encodeWeight(weight float32, dir Direction) (uint32, error) {
	if !dir.IsValid() {
		return 0, fmt.Errorf("invalid direction %d: %w", dir, ErrEncodingRange)
	}
	w, err := quantize(weight, WeightPrecision, MaxWeight, "weight")
	if err != nil {
		return 0, err
	}
	return w<<2 | uint32(dir), nil
}

// EncodeMeta packs a contracted edge into its data word and its meta word.
func EncodeMeta(weight float32, dir Direction, contractedID uint32) ([2]uint32, error) {
	w, err := encodeWeight(weight, dir)
	if err != nil {
		return [2]uint32{}, err
	}
	return [2]uint32{w, contractedID}, nil
}

func DecodeMeta(data, meta uint32) (float32, Direction, uint32) {
	return DecodeWeight(data), DecodeDirection(data), meta
}

func DecodeWeight(data uint32) float32 {
	return float32(float64(data>>2) / WeightPrecision)
}

func DecodeDirection(data uint32) Direction {
	return Direction(data & 3)
}

// EncodeAugmented packs a contracted edge together with its unpacked distance and time.
func EncodeAugmented(weight, distance, time float32, dir Direction, contractedID uint32) ([4]uint32, error) {
	meta, err := EncodeMeta(weight, dir, contractedID)
	if err != nil {
		return [4]uint32{}, err
	}
	d, err := quantize(distance, AugmentedDistancePrecision, MaxAugmentedDistance, "distance")
	if err != nil {
		return [4]uint32{}, err
	}
	t, err := quantize(time, AugmentedTimePrecision, MaxAugmentedTime, "time")
	if err != nil {
		return [4]uint32{}, err
	}
	return [4]uint32{meta[0], meta[1], d, t}, nil
}

func DecodeAugmented(words []uint32) (weight, distance, time float32, dir Direction, contractedID uint32) {
	weight, dir, contractedID = DecodeMeta(words[0], words[1])
	distance = float32(float64(words[2]) / AugmentedDistancePrecision)
	time = float32(float64(words[3]) / AugmentedTimePrecision)
	return
}
