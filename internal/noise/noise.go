// Package noise implements the stochastic part of the Itô-discretized
// Schrödinger equation: one [Source] per coupling operator L, collected in
// an [Ensemble] that produces the Euler increment for a micro-step.
//
// Conventions follow Phys. Rev. A 66, 012108 with L → iL and the coupling
// rate scaled to one:
//
//	dψ = -i dt Hψ + (⟨L†⟩dt + dW) Lψ - (dt/2) L†Lψ - ((dt/2)⟨L†⟩⟨L⟩ + ⟨L⟩dW) ψ
package noise

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/san-kum/ssesim/internal/dynamo"
	"gonum.org/v1/gonum/cmplxs"
)

// Source pairs a coupling operator with its adjoint. The adjoint may use a
// different representation from the operator.
type Source struct {
	operator dynamo.Tensor
	adjoint  dynamo.Tensor
}

// NewSource requires both tensors to be square with the same dimension.
func NewSource(operator, adjoint dynamo.Tensor) (*Source, error) {
	or, oc := operator.Dims()
	ar, ac := adjoint.Dims()
	if or != oc || ar != ac || or != ar {
		return nil, fmt.Errorf("%w: operator %dx%d, adjoint %dx%d", dynamo.ErrConstruction, or, oc, ar, ac)
	}
	return &Source{operator: operator, adjoint: adjoint}, nil
}

func (s *Source) Operator() dynamo.Tensor { return s.operator }
func (s *Source) Adjoint() dynamo.Tensor  { return s.adjoint }

func (s *Source) Dim() int {
	n, _ := s.operator.Dims()
	return n
}

// eulerStep accumulates the contributions of every source for one
// micro-step. It is never reused across micro-steps.
type eulerStep struct {
	diagonalAmplitude complex128
	offDiagonal       dynamo.State
}

func newEulerStep(dim int) *eulerStep {
	return &eulerStep{offDiagonal: make(dynamo.State, dim)}
}

// resolve adds the original state back: offDiagonal + (diagonal + 1)·ψ.
func (e *eulerStep) resolve(x dynamo.State) dynamo.State {
	out := e.offDiagonal.Clone()
	cmplxs.AddScaled(out, e.diagonalAmplitude+1, x)
	return out
}

// accumulate draws one increment dW ~ CN(0, dt) and adds this source's
// terms to step.
func (s *Source) accumulate(step *eulerStep, x dynamo.State, dt float64, rng dynamo.RandomSource) error {
	dw := rng.ComplexNormal() * complex(math.Sqrt(dt), 0)

	lx, err := s.operator.Apply(x)
	if err != nil {
		return err
	}
	ldl, err := s.adjoint.Apply(lx)
	if err != nil {
		return err
	}

	// ⟨L⟩ = Σ conj(ψ_k) (Lψ)_k
	expectation := cmplxs.Dot(x, lx)
	cdt := complex(dt, 0)

	// (⟨L†⟩dt + dW) Lψ - (dt/2) L†Lψ
	drive := dw + cdt*cmplx.Conj(expectation)
	half := cdt * 0.5
	for i := range step.offDiagonal {
		step.offDiagonal[i] += lx[i]*drive - ldl[i]*half
	}

	// -((dt/2)⟨L†⟩⟨L⟩ + ⟨L⟩dW)
	step.diagonalAmplitude -= expectation*cmplx.Conj(expectation)*half + expectation*dw
	return nil
}
