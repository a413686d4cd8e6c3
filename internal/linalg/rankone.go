package linalg

import (
	"fmt"
	"math/cmplx"

	"github.com/san-kum/ssesim/internal/dynamo"
)

// FactorizeRankOne rewrites a rank-one dense matrix as a Factorized operator
// with unit amplitude. Entries must match the outer product within tol.
func FactorizeRankOne(d *Dense, tol float64) (*Factorized, error) {
	rows, cols := d.Dims()

	pr, pc := -1, -1
	var pivot float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if a := cmplx.Abs(d.At(i, j)); a > pivot {
				pivot, pr, pc = a, i, j
			}
		}
	}
	if pr < 0 {
		return nil, fmt.Errorf("%w: zero matrix has no rank-one factorization", dynamo.ErrConstruction)
	}

	ket := make([]complex128, rows)
	for i := range ket {
		ket[i] = d.At(i, pc)
	}
	bra := make([]complex128, cols)
	p := d.At(pr, pc)
	for j := range bra {
		bra[j] = d.At(pr, j) / p
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if cmplx.Abs(ket[i]*bra[j]-d.At(i, j)) > tol {
				return nil, fmt.Errorf("%w: matrix is not rank one at (%d, %d)", dynamo.ErrConstruction, i, j)
			}
		}
	}
	return NewFactorized(1, bra, ket)
}
