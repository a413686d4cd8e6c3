package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/ssesim/internal/dynamo"
)

// Expectation averages Re⟨ψ|O|ψ⟩ / ⟨ψ|ψ⟩ over the observed rows. Rows the
// operator rejects are skipped.
type Expectation struct {
	name    string
	op      dynamo.Tensor
	samples []float64
}

func NewExpectation(name string, op dynamo.Tensor) *Expectation {
	return &Expectation{name: name, op: op}
}

func (e *Expectation) Name() string { return e.name }

func (e *Expectation) Observe(x dynamo.State, t float64) {
	ox, err := e.op.Apply(x)
	if err != nil {
		return
	}
	norm := real(x.Inner(x))
	if norm == 0 {
		return
	}
	e.samples = append(e.samples, real(x.Inner(ox))/norm)
}

func (e *Expectation) Value() float64 {
	if len(e.samples) == 0 {
		return 0
	}
	return stat.Mean(e.samples, nil)
}

// StdDev is the spread of the observed expectation values.
func (e *Expectation) StdDev() float64 {
	if len(e.samples) < 2 {
		return math.NaN()
	}
	return stat.StdDev(e.samples, nil)
}

func (e *Expectation) Reset() { e.samples = e.samples[:0] }
