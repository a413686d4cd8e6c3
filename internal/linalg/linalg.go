package linalg

import "github.com/san-kum/ssesim/internal/dynamo"

var (
	_ dynamo.Tensor = (*Dense)(nil)
	_ dynamo.Tensor = (*Banded)(nil)
	_ dynamo.Tensor = (*TransposedBanded)(nil)
	_ dynamo.Tensor = (*Factorized)(nil)
)

// ToDense materializes any tensor by applying it to each basis vector.
func ToDense(t dynamo.Tensor) (*Dense, error) {
	rows, cols := t.Dims()
	out, err := NewDense(rows, cols, nil)
	if err != nil {
		return nil, err
	}
	for j := 0; j < cols; j++ {
		col, err := t.Apply(dynamo.Basis(cols, j))
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			out.Set(i, j, v)
		}
	}
	return out, nil
}
