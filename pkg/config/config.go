package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/lintang-b-s/navigatorx-ch/pkg/contractor"
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/network"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

const (
	MetricDistance = "distance"
	MetricTime     = "time"

	SnapIndexH3    = "h3"
	SnapIndexRtree = "rtree"
)

var (
	ErrNoProfile     = errors.New("config needs at least one profile")
	ErrUnknownMetric = errors.New("unknown profile metric")
	ErrNoOSMFile     = errors.New("build.osm is empty")
	ErrUnknownIndex  = errors.New("unknown snap index")
)

type Config struct {
	Build    BuildConfig     `yaml:"build"`
	Profiles []ProfileConfig `yaml:"profiles"`
	Engine   EngineConfig    `yaml:"engine"`
}

type BuildConfig struct {
	OSMFile   string `yaml:"osm"`
	Output    string `yaml:"output"`
	EdgeBased bool   `yaml:"edge-based"`
	Compress  bool   `yaml:"compress"`
	Optimize  bool   `yaml:"optimize"`
	// Restrictions. urutan node id osm yang dilarang, ditambah ke turn restriction dari relation osm.
	Restrictions [][]int64          `yaml:"restrictions"`
	Contraction  ContractionOptions `yaml:"contraction"`
}

type ContractionOptions struct {
	MaxSettles           int  `yaml:"max-settles"`
	SimulationMaxSettles int  `yaml:"simulation-max-settles"`
	TieIsWitness         bool `yaml:"tie-is-witness"`
	Augmented            bool `yaml:"augmented"`
}

type ProfileConfig struct {
	Name   string             `yaml:"name"`
	Metric string             `yaml:"metric"`
	Speeds map[string]float64 `yaml:"speeds"`
}

type EngineConfig struct {
	Address string `yaml:"address"`
	KVDir   string `yaml:"kv-dir"`
	Workers int    `yaml:"workers"`
	Profile string `yaml:"profile"`
	// MaxSnapDistance. meter, 0 = tanpa batas.
	MaxSnapDistance float64 `yaml:"max-snap-distance"`
	// SnapIndex. h3 (index di kv) atau rtree (in-memory).
	SnapIndex string `yaml:"snap-index"`
}

func Default() Config {
	cc := contractor.DefaultContractionConfig()
	return Config{
		Build: BuildConfig{
			Output:   "./data",
			Compress: true,
			Optimize: true,
			Contraction: ContractionOptions{
				MaxSettles:           cc.MaxSettles,
				SimulationMaxSettles: cc.SimulationMaxSettles,
				TieIsWitness:         cc.TieIsWitness,
				Augmented:            true,
			},
		},
		Engine: EngineConfig{
			Address:         ":5000",
			KVDir:           "./data/kv",
			MaxSnapDistance: 1000,
			SnapIndex:       SnapIndexH3,
		},
	}
}

// ReadConfig. field yang tidak ada di file tetap pakai nilai Default().
func ReadConfig(file string) (Config, error) {
	slog.Info("reading config file", "file", file)
	data, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", file, err)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if len(c.Profiles) == 0 {
		return ErrNoProfile
	}
	for _, p := range c.Profiles {
		if p.Metric != MetricDistance && p.Metric != MetricTime {
			return fmt.Errorf("profile %s metric %q: %w", p.Name, p.Metric, ErrUnknownMetric)
		}
	}
	if c.Engine.SnapIndex != SnapIndexH3 && c.Engine.SnapIndex != SnapIndexRtree {
		return fmt.Errorf("engine snap-index %q: %w", c.Engine.SnapIndex, ErrUnknownIndex)
	}
	return nil
}

// Profile. profile dengan nama name, profile pertama kalau name kosong.
func (c Config) Profile(name string) (ProfileConfig, bool) {
	if name == "" && len(c.Profiles) > 0 {
		return c.Profiles[0], true
	}
	for _, p := range c.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return ProfileConfig{}, false
}

func (o ContractionOptions) ContractionConfig() contractor.ContractionConfig {
	cc := contractor.DefaultContractionConfig()
	cc.MaxSettles = o.MaxSettles
	cc.SimulationMaxSettles = o.SimulationMaxSettles
	cc.TieIsWitness = o.TieIsWitness
	return cc
}

// CostFunction. cost function profile di atas profile table network.
func (p ProfileConfig) CostFunction(table *network.ProfileTable, defaultSpeeds map[string]float64) datastructure.CostFunction {
	speeds := p.Speeds
	if len(speeds) == 0 {
		speeds = defaultSpeeds
	}
	if p.Metric == MetricTime {
		return table.TimeCost(speeds)
	}
	return table.DistanceCost(speeds)
}

// TimeCost. buat augmented graph: travel time tiap edge ikut disimpan.
func (p ProfileConfig) TimeCost(table *network.ProfileTable, defaultSpeeds map[string]float64) datastructure.CostFunction {
	speeds := p.Speeds
	if len(speeds) == 0 {
		speeds = defaultSpeeds
	}
	return table.TimeCost(speeds)
}
