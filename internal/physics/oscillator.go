package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/linalg"
	"github.com/san-kum/ssesim/internal/noise"
	"github.com/san-kum/ssesim/internal/sse"
)

// DampedOscillator is a harmonic mode truncated to Levels Fock states with
// H = ω a†a + F(a + a†) and photon loss L = √κ a. Both operators are
// tridiagonal, so the native backend is banded.
type DampedOscillator struct {
	Levels  int
	Omega   float64
	Kappa   float64
	Drive   float64
	Initial int
}

func NewDampedOscillator(levels int) *DampedOscillator {
	return &DampedOscillator{
		Levels:  levels,
		Omega:   1.0,
		Kappa:   0.2,
		Drive:   0.0,
		Initial: min(3, levels-1),
	}
}

func (o *DampedOscillator) Name() string { return "oscillator" }
func (o *DampedOscillator) Dim() int     { return o.Levels }

func (o *DampedOscillator) DefaultState() dynamo.State {
	return dynamo.Basis(o.Levels, o.Initial)
}

func (o *DampedOscillator) hamiltonian() (*linalg.Banded, error) {
	h, err := linalg.NewBanded(o.Levels, o.Levels, 1, 1, nil)
	if err != nil {
		return nil, err
	}
	for n := 0; n < o.Levels; n++ {
		h.Set(n, n, complex(o.Omega*float64(n), 0))
		if n+1 < o.Levels {
			f := complex(o.Drive*math.Sqrt(float64(n+1)), 0)
			h.Set(n, n+1, f)
			h.Set(n+1, n, f)
		}
	}
	return h, nil
}

// annihilation returns √κ a with a|n⟩ = √n |n-1⟩.
func (o *DampedOscillator) annihilation() (*linalg.Banded, error) {
	a, err := linalg.NewBanded(o.Levels, o.Levels, 0, 1, nil)
	if err != nil {
		return nil, err
	}
	for n := 1; n < o.Levels; n++ {
		a.Set(n-1, n, complex(math.Sqrt(o.Kappa*float64(n)), 0))
	}
	return a, nil
}

func (o *DampedOscillator) Build(backend Backend) (*sse.System, error) {
	if o.Levels < 2 {
		return nil, fmt.Errorf("%w: oscillator needs at least 2 levels, got %d", dynamo.ErrConstruction, o.Levels)
	}
	h, err := o.hamiltonian()
	if err != nil {
		return nil, err
	}
	a, err := o.annihilation()
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendNative, BackendBanded:
		ens, err := noise.FromBanded([]*linalg.Banded{a})
		if err != nil {
			return nil, err
		}
		return sse.New(h, ens)
	default:
		return assemble(operators{
			hamiltonian: h.Dense(),
			jumps:       []*linalg.Dense{a.Dense()},
		}, backend)
	}
}

// NumberOperator returns a†a for photon-number expectations.
func (o *DampedOscillator) NumberOperator() dynamo.Tensor {
	d := make([]complex128, o.Levels)
	for n := range d {
		d[n] = complex(float64(n), 0)
	}
	out, _ := linalg.Diagonal(d)
	return linalg.BandedFromDense(out)
}

func (o *DampedOscillator) GetParams() map[string]float64 {
	return map[string]float64{
		"levels":  float64(o.Levels),
		"omega":   o.Omega,
		"kappa":   o.Kappa,
		"drive":   o.Drive,
		"initial": float64(o.Initial),
	}
}

func (o *DampedOscillator) SetParam(n string, v float64) error {
	switch n {
	case "levels":
		if int(v) < 2 {
			return fmt.Errorf("levels %d must be at least 2", int(v))
		}
		o.Levels = int(v)
		o.Initial = min(o.Initial, o.Levels-1)
	case "initial":
		if int(v) < 0 || int(v) >= o.Levels {
			return fmt.Errorf("initial level %d outside [0, %d)", int(v), o.Levels)
		}
		o.Initial = int(v)
	default:
		return setParam(map[string]*float64{"omega": &o.Omega, "kappa": &o.Kappa, "drive": &o.Drive}, n, v)
	}
	return nil
}
