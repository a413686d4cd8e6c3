package metrics

import (
	"slices"

	"github.com/san-kum/ssesim/internal/dynamo"
)

// Localization is the fraction of rows whose largest basis population
// exceeds the threshold.
type Localization struct {
	name      string
	threshold float64
	localized int
	samples   int
}

func NewLocalization(threshold float64) *Localization {
	return &Localization{
		name:      "localization",
		threshold: threshold,
	}
}

func (l *Localization) Name() string { return l.name }

func (l *Localization) Observe(x dynamo.State, t float64) {
	if len(x) == 0 {
		return
	}
	l.samples++
	if slices.Max(x.Populations()) > l.threshold {
		l.localized++
	}
}

func (l *Localization) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return float64(l.localized) / float64(l.samples)
}

func (l *Localization) Reset() {
	l.localized = 0
	l.samples = 0
}
