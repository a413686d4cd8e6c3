package noise

import (
	"fmt"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/linalg"
)

// Ensemble is an ordered set of noise sources. Order does not change the
// physics but fixes the draw sequence for a seeded generator.
type Ensemble struct {
	sources []*Source
}

var _ dynamo.Noise = (*Ensemble)(nil)

// New collects sources that all act on the same dimension.
func New(sources ...*Source) (*Ensemble, error) {
	for i, s := range sources {
		if s.Dim() != sources[0].Dim() {
			return nil, fmt.Errorf("%w: source %d has dim %d, want %d", dynamo.ErrConstruction, i, s.Dim(), sources[0].Dim())
		}
	}
	return &Ensemble{sources: sources}, nil
}

// FromOperators uses each dense matrix as L and its conjugate transpose as L†.
func FromOperators(operators []*linalg.Dense) (*Ensemble, error) {
	sources := make([]*Source, 0, len(operators))
	for i, op := range operators {
		s, err := NewSource(op, op.Adjoint())
		if err != nil {
			return nil, fmt.Errorf("operator %d: %w", i, err)
		}
		sources = append(sources, s)
	}
	return New(sources...)
}

// FromStack reads operators from a [n_operators][dim][dim] stack.
func FromStack(stack [][][]complex128) (*Ensemble, error) {
	operators := make([]*linalg.Dense, 0, len(stack))
	for i, rows := range stack {
		op, err := linalg.DenseFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("operator %d: %w", i, err)
		}
		operators = append(operators, op)
	}
	return FromOperators(operators)
}

// FromBanded pairs each banded operator with its transposed, conjugated view.
func FromBanded(operators []*linalg.Banded) (*Ensemble, error) {
	sources := make([]*Source, 0, len(operators))
	for i, op := range operators {
		s, err := NewSource(op, op.Transpose().Conj())
		if err != nil {
			return nil, fmt.Errorf("operator %d: %w", i, err)
		}
		sources = append(sources, s)
	}
	return New(sources...)
}

// FromBraKet builds rank-one operators amplitudes[n]·|ket[n]⟩⟨bra[n]|.
// The adjoint swaps bra and ket and conjugates.
func FromBraKet(amplitudes []complex128, bra, ket [][]complex128) (*Ensemble, error) {
	if len(bra) != len(amplitudes) || len(ket) != len(amplitudes) {
		return nil, fmt.Errorf("%w: %d amplitudes, %d bras, %d kets",
			dynamo.ErrConstruction, len(amplitudes), len(bra), len(ket))
	}
	sources := make([]*Source, 0, len(amplitudes))
	for i, a := range amplitudes {
		op, err := linalg.NewFactorized(a, bra[i], ket[i])
		if err != nil {
			return nil, fmt.Errorf("operator %d: %w", i, err)
		}
		s, err := NewSource(op, op.Conj().Transpose())
		if err != nil {
			return nil, fmt.Errorf("operator %d: %w", i, err)
		}
		sources = append(sources, s)
	}
	return New(sources...)
}

func (e *Ensemble) Len() int { return len(e.sources) }

// Sources returns the sources in draw order.
func (e *Ensemble) Sources() []*Source {
	return append([]*Source(nil), e.sources...)
}

// Dim is the dimension shared by every source, or 0 when empty.
func (e *Ensemble) Dim() int {
	if len(e.sources) == 0 {
		return 0
	}
	return e.sources[0].Dim()
}

// EulerStep returns offDiagonal + (diagonal + 1)·ψ for one micro-step.
// The result includes ψ itself; callers must not add it again.
func (e *Ensemble) EulerStep(x dynamo.State, dt float64, rng dynamo.RandomSource) (dynamo.State, error) {
	step := newEulerStep(len(x))
	for _, s := range e.sources {
		if err := s.accumulate(step, x, dt, rng); err != nil {
			return nil, err
		}
	}
	return step.resolve(x), nil
}
