// Package experiment turns a config into a ready batch of trajectories.
package experiment

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/ssesim/internal/config"
	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/logging"
	"github.com/san-kum/ssesim/internal/physics"
	"github.com/san-kum/ssesim/internal/sim"
	"github.com/san-kum/ssesim/internal/sse"
)

const DefaultSolver = "euler-maruyama"

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   *log.Logger

	model  physics.Model
	system *sse.System
	solver dynamo.Solver
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	return &Experiment{cfg: cfg, registry: registry, logger: logging.Nop()}
}

func (e *Experiment) SetLogger(l *log.Logger) { e.logger = l }

// Setup validates the config, applies parameter overrides and builds the
// system on the requested backend.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	model, err := e.registry.GetModel(e.cfg.Model, e.cfg.Dim)
	if err != nil {
		return err
	}
	for name, v := range e.cfg.Params {
		if err := model.SetParam(name, v); err != nil {
			return fmt.Errorf("%s: %w", e.cfg.Model, err)
		}
	}

	backend, err := physics.ParseBackend(e.cfg.Backend)
	if err != nil {
		return err
	}
	system, err := model.Build(backend)
	if err != nil {
		return fmt.Errorf("build %s on %s backend: %w", e.cfg.Model, backend, err)
	}
	solver, err := e.registry.GetSolver(DefaultSolver, e.cfg.Renormalize)
	if err != nil {
		return err
	}

	e.model, e.system, e.solver = model, system, solver
	e.logger.Debug("experiment ready", "model", model.Name(), "backend", backend, "dim", model.Dim())
	return nil
}

func (e *Experiment) Model() physics.Model { return e.model }

func (e *Experiment) System() *sse.System { return e.system }

// Simulator builds a runner with fresh default metrics.
func (e *Experiment) Simulator() *sim.Simulator {
	opts := []sim.Option{sim.WithLogger(e.logger)}
	for _, m := range e.registry.DefaultMetrics(e.model) {
		opts = append(opts, sim.WithMetric(m))
	}
	return sim.New(e.system, e.solver, opts...)
}

// Run executes cfg.Trajectories trajectories from the model's default state.
func (e *Experiment) Run(ctx context.Context) ([]*sim.Result, error) {
	if e.system == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	batch := sim.NewBatch(e.Simulator, e.cfg.Trajectories, e.cfg.Seed)
	batch.SetLogger(e.logger)
	if e.cfg.Workers > 0 {
		batch.SetWorkers(e.cfg.Workers)
	}
	return batch.Run(ctx, e.model.DefaultState(), e.cfg.Sim())
}
