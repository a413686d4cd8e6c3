// Package automation runs scripted sequences of experiments.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ssesim/internal/config"
	"github.com/san-kum/ssesim/internal/experiment"
	"github.com/san-kum/ssesim/internal/sim"
)

// Scenario is a named list of runs. Each step starts from the default
// config, so a step only lists what it changes.
type Scenario struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Steps       []*config.Config `yaml:"steps"`
}

// StepResult pairs a step's config with its trajectories.
type StepResult struct {
	Config  *config.Config
	Results []*sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var raw struct {
		Name        string      `yaml:"name"`
		Description string      `yaml:"description"`
		Steps       []yaml.Node `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	s := &Scenario{Name: raw.Name, Description: raw.Description}
	for i := range raw.Steps {
		cfg := config.DefaultConfig()
		if err := raw.Steps[i].Decode(cfg); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		s.Steps = append(s.Steps, cfg)
	}
	return s, nil
}

// RunScenario executes the steps in order and stops at the first failure,
// returning the steps completed so far.
func RunScenario(ctx context.Context, s *Scenario, registry *experiment.Registry, logger *log.Logger) ([]StepResult, error) {
	out := make([]StepResult, 0, len(s.Steps))
	for i, cfg := range s.Steps {
		logger.Info("scenario step", "step", i+1, "of", len(s.Steps), "model", cfg.Model)

		exp := experiment.New(cfg, registry)
		exp.SetLogger(logger)
		if err := exp.Setup(); err != nil {
			return out, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		results, err := exp.Run(ctx)
		if err != nil {
			return out, fmt.Errorf("step %d run: %w", i+1, err)
		}
		out = append(out, StepResult{Config: cfg, Results: results})
	}
	return out, nil
}
