package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/logging"
	"github.com/san-kum/ssesim/internal/random"
)

type Simulator struct {
	system   dynamo.System
	solver   dynamo.Solver
	metrics  []Metric
	logger   *log.Logger
	validate bool
}

type Option func(*Simulator)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func WithMetric(m Metric) Option {
	return func(s *Simulator) { s.metrics = append(s.metrics, m) }
}

// WithValidation rejects trajectories containing NaN or Inf. On by default.
func WithValidation(on bool) Option {
	return func(s *Simulator) { s.validate = on }
}

func New(system dynamo.System, solver dynamo.Solver, opts ...Option) *Simulator {
	s := &Simulator{
		system:   system,
		solver:   solver,
		metrics:  make([]Metric, 0),
		logger:   logging.Nop(),
		validate: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(x0) != s.system.Dim() {
		return nil, &dynamo.ShapeError{Op: "run", Want: s.system.Dim(), Got: len(x0)}
	}

	logger := s.logger.With("seed", cfg.Seed)
	logger.Debug("trajectory started", "samples", cfg.Samples, "steps", cfg.Steps, "dt", cfg.Dt)
	start := time.Now()

	traj, err := s.solver.Solve(x0, s.system, cfg.Samples, cfg.Steps, cfg.Dt, random.NewGaussian(cfg.Seed))
	if err != nil {
		return nil, err
	}

	result := &Result{
		Trajectory: traj,
		Times:      make([]float64, len(traj)),
		Metrics:    make(map[string]float64),
		Seed:       cfg.Seed,
	}
	for i := range traj {
		result.Times[i] = float64(i) * float64(cfg.Steps) * cfg.Dt
	}

	if s.validate {
		for i, x := range traj {
			if !x.IsValid() {
				return nil, &dynamo.SimulationError{Row: i, Time: result.Times[i], Wrapped: dynamo.ErrInvalidState}
			}
		}
	}

	s.observe(result)
	result.Elapsed = time.Since(start)
	logger.Debug("trajectory finished", "rows", len(traj), "elapsed", result.Elapsed)
	return result, nil
}

// Stream produces the same rows as Run one at a time, checking ctx between
// rows. Returning false from fn stops early without error.
func (s *Simulator) Stream(ctx context.Context, x0 dynamo.State, cfg Config, fn func(row int, t float64, x dynamo.State) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if len(x0) != s.system.Dim() {
		return &dynamo.ShapeError{Op: "stream", Want: s.system.Dim(), Got: len(x0)}
	}
	if cfg.Samples == 0 {
		return nil
	}

	rng := random.NewGaussian(cfg.Seed)
	x := x0.Clone()
	for row := 0; row < cfg.Samples; row++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := float64(row) * float64(cfg.Steps) * cfg.Dt
		if row > 0 {
			pair, err := s.solver.Solve(x, s.system, 2, cfg.Steps, cfg.Dt, rng)
			if err != nil {
				var se *dynamo.SimulationError
				if errors.As(err, &se) {
					err = se.Wrapped
				}
				return &dynamo.SimulationError{Row: row, Time: t, Wrapped: err}
			}
			x = pair[1]
		}
		if s.validate && !x.IsValid() {
			return &dynamo.SimulationError{Row: row, Time: t, Wrapped: dynamo.ErrInvalidState}
		}
		if !fn(row, t, x.Clone()) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) observe(r *Result) {
	for _, m := range s.metrics {
		m.Reset()
	}
	for i, x := range r.Trajectory {
		for _, m := range s.metrics {
			m.Observe(x, r.Times[i])
		}
	}
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt < 0 {
		return fmt.Errorf("%w: dt must be non-negative, got %f", dynamo.ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", dynamo.ErrInvalidConfig, cfg.Steps)
	}
	if cfg.Samples < 0 {
		return fmt.Errorf("%w: samples must be non-negative, got %d", dynamo.ErrInvalidConfig, cfg.Samples)
	}
	return nil
}
