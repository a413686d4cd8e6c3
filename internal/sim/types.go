// Package sim runs trajectories of a stochastic system and collects their
// metrics.
package sim

import (
	"time"

	"github.com/san-kum/ssesim/internal/dynamo"
)

// Metric is fed every recorded row of a trajectory.
type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Config sizes a run: Samples rows spaced Steps·Dt apart, drawn from a
// generator seeded with Seed.
type Config struct {
	Dt      float64
	Steps   int
	Samples int
	Seed    uint64
}

// Duration is the time of the last recorded row.
func (c Config) Duration() float64 {
	if c.Samples <= 1 {
		return 0
	}
	return float64(c.Samples-1) * float64(c.Steps) * c.Dt
}

type Result struct {
	Trajectory dynamo.Trajectory
	Times      []float64
	Metrics    map[string]float64
	Seed       uint64
	Elapsed    time.Duration
}

// Final returns the last recorded row, or nil for an empty run.
func (r *Result) Final() dynamo.State {
	if len(r.Trajectory) == 0 {
		return nil
	}
	return r.Trajectory[len(r.Trajectory)-1]
}
