package linalg

import (
	"fmt"
	"math/cmplx"

	"github.com/san-kum/ssesim/internal/dynamo"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
)

// Banded stores the kl sub-diagonals, the main diagonal and the ku
// super-diagonals of a rows×cols matrix. Storage is row-major BLAS band
// layout: element (i, j) lives at data[i*(kl+ku+1) + kl + j - i].
type Banded struct {
	band cblas128.Band
}

// NewBanded wraps band data laid out as described on [Banded]. A nil data
// slice gives a zero band.
func NewBanded(rows, cols, kl, ku int, data []complex128) (*Banded, error) {
	if rows <= 0 || cols <= 0 || kl < 0 || ku < 0 {
		return nil, fmt.Errorf("%w: banded shape %dx%d kl=%d ku=%d", dynamo.ErrConstruction, rows, cols, kl, ku)
	}
	if kl >= rows || ku >= cols {
		return nil, fmt.Errorf("%w: band widths kl=%d ku=%d exceed %dx%d", dynamo.ErrConstruction, kl, ku, rows, cols)
	}
	stride := kl + ku + 1
	if data == nil {
		data = make([]complex128, rows*stride)
	}
	if len(data) != rows*stride {
		return nil, fmt.Errorf("%w: band data length %d, want %d", dynamo.ErrConstruction, len(data), rows*stride)
	}
	return &Banded{band: cblas128.Band{
		Rows: rows, Cols: cols,
		KL: kl, KU: ku,
		Stride: stride,
		Data:   data,
	}}, nil
}

// BandedFromDense keeps the narrowest band holding every nonzero of d.
func BandedFromDense(d *Dense) *Banded {
	rows, cols := d.Dims()
	kl, ku := 0, 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if d.At(i, j) == 0 {
				continue
			}
			kl = max(kl, i-j)
			ku = max(ku, j-i)
		}
	}

	b, _ := NewBanded(rows, cols, kl, ku, nil)
	for i := 0; i < rows; i++ {
		lo, hi := b.rowRange(i)
		for j := lo; j < hi; j++ {
			b.set(i, j, d.At(i, j))
		}
	}
	return b
}

// rowRange returns the half-open column range stored for row i.
func (b *Banded) rowRange(i int) (lo, hi int) {
	return max(0, i-b.band.KL), min(b.band.Cols, i+b.band.KU+1)
}

func (b *Banded) set(i, j int, v complex128) {
	b.band.Data[i*b.band.Stride+b.band.KL+j-i] = v
}

// At returns element (i, j), zero outside the band.
func (b *Banded) At(i, j int) complex128 {
	lo, hi := b.rowRange(i)
	if i < 0 || i >= b.band.Rows || j < lo || j >= hi {
		return 0
	}
	return b.band.Data[i*b.band.Stride+b.band.KL+j-i]
}

// Set assigns element (i, j). It panics outside the stored band.
func (b *Banded) Set(i, j int, v complex128) {
	lo, hi := b.rowRange(i)
	if i < 0 || i >= b.band.Rows || j < lo || j >= hi {
		panic(fmt.Sprintf("linalg: (%d, %d) outside band kl=%d ku=%d", i, j, b.band.KL, b.band.KU))
	}
	b.set(i, j, v)
}

func (b *Banded) Dims() (rows, cols int) { return b.band.Rows, b.band.Cols }

// Bandwidth returns the number of stored sub- and super-diagonals.
func (b *Banded) Bandwidth() (kl, ku int) { return b.band.KL, b.band.KU }

// RawBand returns the underlying band storage. Changes are reflected in b.
func (b *Banded) RawBand() []complex128 { return b.band.Data }

func (b *Banded) Apply(x dynamo.State) (dynamo.State, error) {
	if err := dynamo.CheckLen("banded apply", b.band.Cols, x); err != nil {
		return nil, err
	}
	return b.gbmv(blas.NoTrans, x, b.band.Rows), nil
}

func (b *Banded) gbmv(t blas.Transpose, x dynamo.State, n int) dynamo.State {
	y := make(dynamo.State, n)
	cblas128.Gbmv(t, 1, b.band,
		cblas128.Vector{N: len(x), Inc: 1, Data: x},
		0, cblas128.Vector{N: n, Inc: 1, Data: y})
	return y
}

// Transpose returns a view sharing b's storage.
func (b *Banded) Transpose() *TransposedBanded {
	return &TransposedBanded{b: b}
}

// Conj returns a copy with every stored entry conjugated.
func (b *Banded) Conj() *Banded {
	data := make([]complex128, len(b.band.Data))
	for i, v := range b.band.Data {
		data[i] = cmplx.Conj(v)
	}
	out := *b
	out.band.Data = data
	return &out
}

// Adjoint returns the conjugate-transpose view without copying.
func (b *Banded) Adjoint() *TransposedBanded {
	return b.Transpose().Conj()
}

// Dense materializes the band as a full matrix.
func (b *Banded) Dense() *Dense {
	out, _ := NewDense(b.band.Rows, b.band.Cols, nil)
	for i := 0; i < b.band.Rows; i++ {
		lo, hi := b.rowRange(i)
		for j := lo; j < hi; j++ {
			out.Set(i, j, b.At(i, j))
		}
	}
	return out
}

// TransposedBanded applies the transpose of a Banded, or its conjugate
// transpose when conj is set.
type TransposedBanded struct {
	b    *Banded
	conj bool
}

func (t *TransposedBanded) Dims() (rows, cols int) {
	r, c := t.b.Dims()
	return c, r
}

// Conjugated reports whether the view applies the conjugate transpose.
func (t *TransposedBanded) Conjugated() bool { return t.conj }

func (t *TransposedBanded) Apply(x dynamo.State) (dynamo.State, error) {
	if err := dynamo.CheckLen("transposed banded apply", t.b.band.Rows, x); err != nil {
		return nil, err
	}
	op := blas.Trans
	if t.conj {
		op = blas.ConjTrans
	}
	return t.b.gbmv(op, x, t.b.band.Cols), nil
}

// Conj toggles conjugation; storage stays shared.
func (t *TransposedBanded) Conj() *TransposedBanded {
	return &TransposedBanded{b: t.b, conj: !t.conj}
}

// Transpose undoes the view.
func (t *TransposedBanded) Transpose() *Banded {
	if t.conj {
		return t.b.Conj()
	}
	return t.b
}
