package analysis

import (
	"fmt"

	"github.com/san-kum/ssesim/internal/physics"
)

type SweepPoint struct {
	Param float64
	Value float64
}

// Sweep sets param to steps evenly spaced values in [lo, hi], calls eval
// for each and restores the original value afterwards. A failed restore is
// reported unless an earlier error already is.
func Sweep(m physics.Model, param string, lo, hi float64, steps int, eval func(physics.Model) (float64, error)) (points []SweepPoint, err error) {
	orig, ok := m.GetParams()[param]
	if !ok {
		return nil, fmt.Errorf("unknown parameter: %s", param)
	}
	defer func() {
		if rerr := m.SetParam(param, orig); rerr != nil && err == nil {
			points, err = nil, fmt.Errorf("restoring %s=%g: %w", param, orig, rerr)
		}
	}()

	if steps <= 1 {
		steps = 2
	}
	step := (hi - lo) / float64(steps-1)

	out := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		p := lo + float64(i)*step
		if err := m.SetParam(param, p); err != nil {
			return nil, err
		}
		v, err := eval(m)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", param, p, err)
		}
		out = append(out, SweepPoint{Param: p, Value: v})
	}
	return out, nil
}
