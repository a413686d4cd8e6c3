package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/ssesim/internal/dynamo"
)

// Population averages |ψ_k|² over the observed rows.
type Population struct {
	name    string
	level   int
	samples []float64
}

func NewPopulation(level int) *Population {
	return &Population{
		name:  fmt.Sprintf("population_%d", level),
		level: level,
	}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(x dynamo.State, t float64) {
	if p.level >= len(x) {
		return
	}
	p.samples = append(p.samples, x.Populations()[p.level])
}

func (p *Population) Value() float64 {
	if len(p.samples) == 0 {
		return 0
	}
	return stat.Mean(p.samples, nil)
}

// Series returns the observed values in row order.
func (p *Population) Series() []float64 { return p.samples }

func (p *Population) Reset() { p.samples = p.samples[:0] }
