package analysis

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/ssesim/internal/dynamo"
)

// Infidelity is 1 - |⟨a|b⟩|² / (‖a‖²‖b‖²), zero when a and b are the same
// ray.
func Infidelity(a, b dynamo.State) float64 {
	na, nb := real(a.Inner(a)), real(b.Inner(b))
	if na == 0 || nb == 0 || len(a) != len(b) {
		return 1
	}
	o := cmplx.Abs(a.Inner(b))
	return math.Max(0, 1-o*o/(na*nb))
}

// Separation compares two trajectories row by row, for example the same
// seed run on two backends.
func Separation(a, b dynamo.Trajectory) []float64 {
	n := min(len(a), len(b))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = Infidelity(a[i], b[i])
	}
	return out
}

func MaxSeparation(a, b dynamo.Trajectory) float64 {
	var m float64
	for _, s := range Separation(a, b) {
		m = math.Max(m, s)
	}
	return m
}
