package integrators

import (
	"github.com/san-kum/ssesim/internal/dynamo"
	"gonum.org/v1/gonum/cmplxs"
)

// EulerMaruyama integrates a stochastic system with fixed micro-steps.
// It keeps no state between calls.
type EulerMaruyama struct {
	renormalize bool
}

var _ dynamo.Solver = (*EulerMaruyama)(nil)

type Option func(*EulerMaruyama)

// WithRenormalization toggles rescaling to unit norm after each sample
// interval. It is on by default.
func WithRenormalization(on bool) Option {
	return func(e *EulerMaruyama) { e.renormalize = on }
}

func NewEulerMaruyama(opts ...Option) *EulerMaruyama {
	e := &EulerMaruyama{renormalize: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Step performs ψ' = coherent(ψ) + stochastic(ψ). The stochastic term
// already carries ψ. One draw is taken per noise source.
func (e *EulerMaruyama) Step(x dynamo.State, sys dynamo.System, t, dt float64, rng dynamo.RandomSource) (dynamo.State, error) {
	out, err := sys.Coherent(x, t, dt)
	if err != nil {
		return nil, err
	}
	stochastic, err := sys.StochasticEuler(x, t, dt, rng)
	if err != nil {
		return nil, err
	}
	cmplxs.Add(out, stochastic)
	return out, nil
}

// Integrate applies nStep micro-steps of size dt and returns the final state.
func (e *EulerMaruyama) Integrate(x dynamo.State, sys dynamo.System, tStart float64, nStep int, dt float64, rng dynamo.RandomSource) (dynamo.State, error) {
	out := x.Clone()
	t := tStart
	for i := 0; i < nStep; i++ {
		next, err := e.Step(out, sys, t, dt, rng)
		if err != nil {
			return nil, err
		}
		out = next
		t += dt
	}
	return out, nil
}

// Solve records n rows spaced step micro-steps apart. Row 0 is x0 as given;
// each later row is renormalized. n <= 0 yields an empty trajectory. Any
// error aborts the whole call.
func (e *EulerMaruyama) Solve(x0 dynamo.State, sys dynamo.System, n, step int, dt float64, rng dynamo.RandomSource) (dynamo.Trajectory, error) {
	if n <= 0 {
		return dynamo.Trajectory{}, nil
	}

	out := make(dynamo.Trajectory, 0, n)
	current := x0.Clone()
	t := 0.0
	for row := 1; row < n; row++ {
		out = append(out, current.Clone())

		next, err := e.Integrate(current, sys, t, step, dt, rng)
		if err != nil {
			return nil, &dynamo.SimulationError{Row: row, Time: t, Wrapped: err}
		}
		t += dt * float64(step)
		current = e.normalize(next)
	}
	out = append(out, current)

	return out, nil
}

// normalize is the only place rows are projected back to unit norm.
func (e *EulerMaruyama) normalize(x dynamo.State) dynamo.State {
	if !e.renormalize {
		return x
	}
	return x.Normalized()
}
