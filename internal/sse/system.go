// Package sse couples a Hamiltonian with a noise ensemble into a
// [dynamo.System] for the stochastic Schrödinger equation.
package sse

import (
	"fmt"

	"github.com/san-kum/ssesim/internal/dynamo"
)

// System owns one Hamiltonian and one noise model. It is read-only after
// construction and may be shared between concurrent trajectories.
type System struct {
	Hamiltonian dynamo.Tensor
	Noise       dynamo.Noise
}

var _ dynamo.System = (*System)(nil)

// New checks that the Hamiltonian is square and, when the noise model
// reports a dimension, that the two agree.
func New(hamiltonian dynamo.Tensor, noise dynamo.Noise) (*System, error) {
	r, c := hamiltonian.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: hamiltonian is %dx%d", dynamo.ErrConstruction, r, c)
	}
	if d, ok := noise.(interface{ Dim() int }); ok && d.Dim() != 0 && d.Dim() != r {
		return nil, fmt.Errorf("%w: hamiltonian dim %d, noise dim %d", dynamo.ErrConstruction, r, d.Dim())
	}
	return &System{Hamiltonian: hamiltonian, Noise: noise}, nil
}

func (s *System) Dim() int {
	n, _ := s.Hamiltonian.Dims()
	return n
}

// Coherent returns -i·dt·Hψ. The Hamiltonian is time-independent; t is
// accepted for time-dependent systems.
func (s *System) Coherent(x dynamo.State, _ float64, dt float64) (dynamo.State, error) {
	hx, err := s.Hamiltonian.Apply(x)
	if err != nil {
		return nil, err
	}
	factor := complex(0, -dt)
	for i := range hx {
		hx[i] *= factor
	}
	return hx, nil
}

// StochasticEuler returns the noise ensemble's resolved increment, which
// already contains ψ.
func (s *System) StochasticEuler(x dynamo.State, _ float64, dt float64, rng dynamo.RandomSource) (dynamo.State, error) {
	return s.Noise.EulerStep(x, dt, rng)
}
