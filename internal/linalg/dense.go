package linalg

import (
	"fmt"

	"github.com/san-kum/ssesim/internal/dynamo"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

// Dense is a full rows×cols complex matrix.
type Dense struct {
	m *mat.CDense
}

// NewDense builds a matrix from row-major data. A nil data slice gives a
// zero matrix. The data slice is used directly, not copied.
func NewDense(rows, cols int, data []complex128) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: dense shape %dx%d", dynamo.ErrConstruction, rows, cols)
	}
	if data != nil && len(data) != rows*cols {
		return nil, fmt.Errorf("%w: dense data length %d for %dx%d", dynamo.ErrConstruction, len(data), rows, cols)
	}
	return &Dense{m: mat.NewCDense(rows, cols, data)}, nil
}

// DenseFromRows copies a slice of equal-length rows into a matrix.
func DenseFromRows(rows [][]complex128) (*Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", dynamo.ErrConstruction)
	}
	cols := len(rows[0])
	data := make([]complex128, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has length %d, want %d", dynamo.ErrConstruction, i, len(r), cols)
		}
		data = append(data, r...)
	}
	return NewDense(len(rows), cols, data)
}

// Diagonal builds a square matrix with d on its main diagonal.
func Diagonal(d []complex128) (*Dense, error) {
	n := len(d)
	out, err := NewDense(n, n, nil)
	if err != nil {
		return nil, err
	}
	for i, v := range d {
		out.m.Set(i, i, v)
	}
	return out, nil
}

func (d *Dense) Dims() (rows, cols int) { return d.m.Dims() }

func (d *Dense) At(i, j int) complex128 { return d.m.At(i, j) }

func (d *Dense) Set(i, j int, v complex128) { d.m.Set(i, j, v) }

// Rows returns a copy of the matrix as row slices.
func (d *Dense) Rows() [][]complex128 {
	r, c := d.Dims()
	out := make([][]complex128, r)
	for i := range out {
		out[i] = make([]complex128, c)
		for j := range out[i] {
			out[i][j] = d.m.At(i, j)
		}
	}
	return out
}

func (d *Dense) Apply(x dynamo.State) (dynamo.State, error) {
	r, c := d.Dims()
	if err := dynamo.CheckLen("dense apply", c, x); err != nil {
		return nil, err
	}
	y := make(dynamo.State, r)
	cblas128.Gemv(blas.NoTrans, 1, d.m.RawCMatrix(),
		cblas128.Vector{N: c, Inc: 1, Data: x},
		0, cblas128.Vector{N: r, Inc: 1, Data: y})
	return y, nil
}

// Conj returns the element-wise conjugate.
func (d *Dense) Conj() *Dense {
	var out mat.CDense
	out.Conj(d.m)
	return &Dense{m: &out}
}

// Transpose returns a materialized transpose.
func (d *Dense) Transpose() *Dense {
	r, c := d.Dims()
	out := mat.NewCDense(c, r, nil)
	out.Copy(d.m.T())
	return &Dense{m: out}
}

// Adjoint returns the conjugate transpose.
func (d *Dense) Adjoint() *Dense {
	r, c := d.Dims()
	out := mat.NewCDense(c, r, nil)
	out.Copy(d.m.H())
	return &Dense{m: out}
}
