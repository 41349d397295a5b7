package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mcfluid/internal/mc"
)

const (
	DefaultParticles   = 27
	DefaultBoxSide     = 6.0
	DefaultTemperature = 2.0
	DefaultSteps       = 5000
	DefaultBurnIn      = 1000
	DefaultTrials      = 100
)

// Config mirrors the run parameters exposed in YAML files and on the
// CLI. Displacement 0 means full-box proposals, the reference default.
type Config struct {
	Particles       int     `yaml:"particles"`
	BoxSide         float64 `yaml:"box_side"`
	Temperature     float64 `yaml:"temperature"`
	Steps           int     `yaml:"steps"`
	BurnIn          int     `yaml:"burn_in"`
	Displacement    float64 `yaml:"displacement"`
	InsertionTrials int     `yaml:"insertion_trials"`
	Seed            int64   `yaml:"seed"`
	Shards          int     `yaml:"shards"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:       DefaultParticles,
		BoxSide:         DefaultBoxSide,
		Temperature:     DefaultTemperature,
		Steps:           DefaultSteps,
		BurnIn:          DefaultBurnIn,
		InsertionTrials: DefaultTrials,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Sampler converts the file-level parameters into a sampler config;
// validation happens when the sampler is built.
func (c *Config) Sampler() mc.Config {
	return mc.Config{
		N:            c.Particles,
		BoxSide:      c.BoxSide,
		Temperature:  c.Temperature,
		Steps:        c.Steps,
		BurnIn:       c.BurnIn,
		Displacement: c.Displacement,
		Seed:         c.Seed,
		Shards:       c.Shards,
	}
}
