// Package metrics observes trajectory rows and reduces them to scalars.
package metrics

import (
	"math"

	"github.com/san-kum/ssesim/internal/dynamo"
)

// NormDrift tracks max |‖ψ‖ - 1| over the observed rows.
type NormDrift struct {
	name     string
	maxDrift float64
	last     float64
	samples  int
}

func NewNormDrift() *NormDrift {
	return &NormDrift{name: "norm_drift"}
}

func (n *NormDrift) Name() string { return n.name }

func (n *NormDrift) Observe(x dynamo.State, t float64) {
	n.last = math.Abs(x.Norm() - 1)
	n.maxDrift = math.Max(n.maxDrift, n.last)
	n.samples++
}

func (n *NormDrift) Value() float64 { return n.maxDrift }

// Final is the drift of the last observed row.
func (n *NormDrift) Final() float64 { return n.last }

func (n *NormDrift) Reset() {
	n.maxDrift = 0
	n.last = 0
	n.samples = 0
}
