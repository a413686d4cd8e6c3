package linalg

import (
	"fmt"
	"math/cmplx"

	"github.com/san-kum/ssesim/internal/dynamo"
	"gonum.org/v1/gonum/blas/cblas128"
)

// Factorized is the rank-one operator Amplitude·|Ket⟩⟨Bra|. Bra is stored
// as a row, so applying it to ψ uses the unconjugated product Σ Bra_k ψ_k.
type Factorized struct {
	Amplitude complex128
	Bra       []complex128
	Ket       []complex128
}

// NewFactorized copies bra and ket, which must have the same length.
func NewFactorized(amplitude complex128, bra, ket []complex128) (*Factorized, error) {
	if len(bra) == 0 || len(bra) != len(ket) {
		return nil, fmt.Errorf("%w: bra length %d, ket length %d", dynamo.ErrConstruction, len(bra), len(ket))
	}
	return &Factorized{
		Amplitude: amplitude,
		Bra:       append([]complex128(nil), bra...),
		Ket:       append([]complex128(nil), ket...),
	}, nil
}

func (f *Factorized) Dims() (rows, cols int) { return len(f.Ket), len(f.Bra) }

func (f *Factorized) Apply(x dynamo.State) (dynamo.State, error) {
	if err := dynamo.CheckLen("factorized apply", len(f.Bra), x); err != nil {
		return nil, err
	}
	overlap := cblas128.Dotu(
		cblas128.Vector{N: len(f.Bra), Inc: 1, Data: f.Bra},
		cblas128.Vector{N: len(x), Inc: 1, Data: x},
	)
	coeff := overlap * f.Amplitude
	y := make(dynamo.State, len(f.Ket))
	for i, k := range f.Ket {
		y[i] = k * coeff
	}
	return y, nil
}

// Conj conjugates the amplitude and both vectors.
func (f *Factorized) Conj() *Factorized {
	return &Factorized{
		Amplitude: cmplx.Conj(f.Amplitude),
		Bra:       conjAll(f.Bra),
		Ket:       conjAll(f.Ket),
	}
}

// Transpose swaps bra and ket.
func (f *Factorized) Transpose() *Factorized {
	return &Factorized{
		Amplitude: f.Amplitude,
		Bra:       f.Ket,
		Ket:       f.Bra,
	}
}

func (f *Factorized) Adjoint() *Factorized {
	return f.Conj().Transpose()
}

// OuterProduct materializes Amplitude·Ket·Braᵀ.
func (f *Factorized) OuterProduct() *Dense {
	out, _ := NewDense(len(f.Ket), len(f.Bra), nil)
	for i, k := range f.Ket {
		for j, b := range f.Bra {
			out.Set(i, j, f.Amplitude*k*b)
		}
	}
	return out
}

func conjAll(v []complex128) []complex128 {
	out := make([]complex128, len(v))
	for i, x := range v {
		out[i] = cmplx.Conj(x)
	}
	return out
}
