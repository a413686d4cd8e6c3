package dynamo

import (
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
)

// State is the amplitude vector of a pure quantum state.
type State []complex128

// Zeros returns a zero vector of length n.
func Zeros(n int) State {
	return make(State, n)
}

// Basis returns the k-th computational basis vector of length n.
func Basis(n, k int) State {
	s := make(State, n)
	if k >= 0 && k < n {
		s[k] = 1
	}
	return s
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return false
		}
	}
	return true
}

// Norm is the L2 norm.
func (s State) Norm() float64 {
	return cmplxs.Norm(s, 2)
}

// Inner returns <s|other>, conjugating the receiver.
func (s State) Inner(other State) complex128 {
	return cmplxs.Dot(s, other)
}

func (s State) Add(other State) State {
	result := s.Clone()
	cmplxs.Add(result, other)
	return result
}

func (s State) Scale(factor complex128) State {
	result := s.Clone()
	cmplxs.Scale(factor, result)
	return result
}

// Normalized divides by the L2 norm, used as a complex scalar with zero
// imaginary part.
func (s State) Normalized() State {
	return s.Scale(1 / complex(s.Norm(), 0))
}

// Populations returns |s_k|^2 for every component.
func (s State) Populations() []float64 {
	p := make([]float64, len(s))
	for i, v := range s {
		p[i] = real(v)*real(v) + imag(v)*imag(v)
	}
	return p
}

// Equal reports whether every component differs by at most tol.
func (s State) Equal(other State, tol float64) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if d := cmplx.Abs(s[i] - other[i]); !(d <= tol) {
			return false
		}
	}
	return true
}

// Trajectory holds sampled states, one row per sample interval.
type Trajectory []State

// Dim returns the state dimension, or 0 for an empty trajectory.
func (t Trajectory) Dim() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0])
}

// Tensor is anything that can be applied to a state vector.
type Tensor interface {
	Apply(x State) (State, error)
	Dims() (rows, cols int)
}

// RandomSource yields complex draws whose real and imaginary parts are
// independent standard normals.
type RandomSource interface {
	ComplexNormal() complex128
}

// Noise produces the resolved stochastic Euler increment for one micro-step.
// The result already contains the input state.
type Noise interface {
	EulerStep(x State, dt float64, rng RandomSource) (State, error)
}

// System splits one micro-step into its deterministic and stochastic parts.
type System interface {
	Coherent(x State, t, dt float64) (State, error)
	StochasticEuler(x State, t, dt float64, rng RandomSource) (State, error)
	Dim() int
}

// Solver advances a System over micro-steps, macro-steps and full trajectories.
type Solver interface {
	Step(x State, sys System, t, dt float64, rng RandomSource) (State, error)
	Integrate(x State, sys System, tStart float64, nStep int, dt float64, rng RandomSource) (State, error)
	Solve(x0 State, sys System, n, step int, dt float64, rng RandomSource) (Trajectory, error)
}
