package analysis

import (
	"math/cmplx"

	"github.com/san-kum/ssesim/internal/dynamo"
)

// Bloch holds ⟨σx⟩, ⟨σy⟩, ⟨σz⟩ with |1⟩ at the north pole.
type Bloch struct {
	X, Y, Z float64
}

// BlochVector returns false for states that are not two-level or are zero.
func BlochVector(x dynamo.State) (Bloch, bool) {
	if len(x) != 2 {
		return Bloch{}, false
	}
	n := real(x.Inner(x))
	if n == 0 {
		return Bloch{}, false
	}
	c := cmplx.Conj(x[0]) * x[1]
	p0 := real(x[0])*real(x[0]) + imag(x[0])*imag(x[0])
	p1 := real(x[1])*real(x[1]) + imag(x[1])*imag(x[1])
	return Bloch{
		X: 2 * real(c) / n,
		Y: 2 * imag(c) / n,
		Z: (p1 - p0) / n,
	}, true
}

func BlochSeries(traj dynamo.Trajectory) []Bloch {
	out := make([]Bloch, 0, len(traj))
	for _, x := range traj {
		if b, ok := BlochVector(x); ok {
			out = append(out, b)
		}
	}
	return out
}
