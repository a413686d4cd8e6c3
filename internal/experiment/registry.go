package experiment

import (
	"fmt"
	"slices"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/integrators"
	"github.com/san-kum/ssesim/internal/metrics"
	"github.com/san-kum/ssesim/internal/physics"
	"github.com/san-kum/ssesim/internal/sim"
)

// Registry maps names used in configs and on the command line to
// constructors. dim is ignored by fixed-size models.
type Registry struct {
	models  map[string]func(dim int) physics.Model
	solvers map[string]func(renormalize bool) dynamo.Solver
}

func NewRegistry() *Registry {
	r := &Registry{
		models:  make(map[string]func(int) physics.Model),
		solvers: make(map[string]func(bool) dynamo.Solver),
	}

	r.models["decay"] = func(int) physics.Model { return physics.NewQubitDecay() }
	r.models["dephasing"] = func(int) physics.Model { return physics.NewDephasing() }
	r.models["driven"] = func(int) physics.Model { return physics.NewDrivenQubit() }
	r.models["oscillator"] = func(dim int) physics.Model {
		if dim == 0 {
			dim = 10
		}
		return physics.NewDampedOscillator(dim)
	}
	r.models["random"] = func(dim int) physics.Model {
		if dim == 0 {
			dim = 8
		}
		return physics.NewRandomSystem(dim, 3)
	}

	r.solvers["euler-maruyama"] = func(renormalize bool) dynamo.Solver {
		return integrators.NewEulerMaruyama(integrators.WithRenormalization(renormalize))
	}

	return r
}

func (r *Registry) GetModel(name string, dim int) (physics.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(dim), nil
}

func (r *Registry) GetSolver(name string, renormalize bool) (dynamo.Solver, error) {
	fn, ok := r.solvers[name]
	if !ok {
		return nil, fmt.Errorf("unknown solver: %s", name)
	}
	return fn(renormalize), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultMetrics returns fresh metric instances for one trajectory of m.
func (r *Registry) DefaultMetrics(m physics.Model) []sim.Metric {
	out := []sim.Metric{
		metrics.NewNormDrift(),
		metrics.NewPopulation(0),
		metrics.NewLocalization(0.99),
	}
	if m.Dim() > 1 {
		out = append(out, metrics.NewPopulation(m.Dim()-1))
	}
	if o, ok := m.(*physics.DampedOscillator); ok {
		out = append(out, metrics.NewExpectation("photons", o.NumberOperator()))
	}
	return out
}
