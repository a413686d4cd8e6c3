package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/sim"
)

const (
	DefaultDt           = 0.001
	DefaultSteps        = 10
	DefaultSamples      = 501
	DefaultTrajectories = 1
)

type Config struct {
	Model        string             `yaml:"model"`
	Backend      string             `yaml:"backend"`
	Dim          int                `yaml:"dim,omitempty"`
	Dt           float64            `yaml:"dt"`
	Steps        int                `yaml:"steps"`
	Samples      int                `yaml:"samples"`
	Seed         uint64             `yaml:"seed"`
	Trajectories int                `yaml:"trajectories"`
	Workers      int                `yaml:"workers,omitempty"`
	Renormalize  bool               `yaml:"renormalize"`
	Params       map[string]float64 `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:        "decay",
		Backend:      "native",
		Dt:           DefaultDt,
		Steps:        DefaultSteps,
		Samples:      DefaultSamples,
		Trajectories: DefaultTrajectories,
		Renormalize:  true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

func (c *Config) Validate() error {
	switch {
	case c.Model == "":
		return fmt.Errorf("%w: model is required", dynamo.ErrInvalidConfig)
	case c.Dt < 0:
		return fmt.Errorf("%w: dt must be non-negative, got %g", dynamo.ErrInvalidConfig, c.Dt)
	case c.Steps < 0:
		return fmt.Errorf("%w: steps must be non-negative, got %d", dynamo.ErrInvalidConfig, c.Steps)
	case c.Samples < 0:
		return fmt.Errorf("%w: samples must be non-negative, got %d", dynamo.ErrInvalidConfig, c.Samples)
	case c.Trajectories < 1:
		return fmt.Errorf("%w: need at least one trajectory, got %d", dynamo.ErrInvalidConfig, c.Trajectories)
	case c.Dim < 0:
		return fmt.Errorf("%w: dim must be non-negative, got %d", dynamo.ErrInvalidConfig, c.Dim)
	}
	return nil
}

// Sim extracts the per-trajectory run settings.
func (c *Config) Sim() sim.Config {
	return sim.Config{
		Dt:      c.Dt,
		Steps:   c.Steps,
		Samples: c.Samples,
		Seed:    c.Seed,
	}
}

// Clone returns a deep copy, so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	out := *c
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return &out
}
