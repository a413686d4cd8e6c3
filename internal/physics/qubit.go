package physics

import (
	"math"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/linalg"
	"github.com/san-kum/ssesim/internal/noise"
	"github.com/san-kum/ssesim/internal/sse"
)

// Basis convention for every two-level model: |0⟩ ground, |1⟩ excited,
// σz = |1⟩⟨1| - |0⟩⟨0|.

// QubitDecay models spontaneous emission, L = √γ |0⟩⟨1|.
type QubitDecay struct {
	Gamma, Omega float64
}

func NewQubitDecay() *QubitDecay {
	return &QubitDecay{Gamma: 1.0, Omega: 1.0}
}

func (q *QubitDecay) Name() string { return "decay" }
func (q *QubitDecay) Dim() int     { return 2 }

func (q *QubitDecay) DefaultState() dynamo.State { return dynamo.Basis(2, 1) }

func (q *QubitDecay) operators() operators {
	return operators{
		hamiltonian: sigmaZ(q.Omega / 2),
		jumps:       []*linalg.Dense{sigmaMinus(q.Gamma)},
	}
}

func (q *QubitDecay) Build(backend Backend) (*sse.System, error) {
	if backend != BackendNative {
		return assemble(q.operators(), backend)
	}
	ens, err := noise.FromBraKet(
		[]complex128{complex(math.Sqrt(q.Gamma), 0)},
		[][]complex128{{0, 1}},
		[][]complex128{{1, 0}},
	)
	if err != nil {
		return nil, err
	}
	return sse.New(q.operators().hamiltonian, ens)
}

func (q *QubitDecay) GetParams() map[string]float64 {
	return map[string]float64{"gamma": q.Gamma, "omega": q.Omega}
}

func (q *QubitDecay) SetParam(n string, v float64) error {
	return setParam(map[string]*float64{"gamma": &q.Gamma, "omega": &q.Omega}, n, v)
}

// Dephasing models pure dephasing, L = √(γ/2) σz.
type Dephasing struct {
	Gamma, Omega float64
}

func NewDephasing() *Dephasing {
	return &Dephasing{Gamma: 1.0, Omega: 1.0}
}

func (d *Dephasing) Name() string { return "dephasing" }
func (d *Dephasing) Dim() int     { return 2 }

// DefaultState is |+⟩, which has coherences to lose.
func (d *Dephasing) DefaultState() dynamo.State {
	s := complex(1/math.Sqrt2, 0)
	return dynamo.State{s, s}
}

func (d *Dephasing) operators() operators {
	return operators{
		hamiltonian: sigmaZ(d.Omega / 2),
		jumps:       []*linalg.Dense{sigmaZ(math.Sqrt(d.Gamma / 2))},
	}
}

func (d *Dephasing) Build(backend Backend) (*sse.System, error) {
	if backend == BackendNative {
		backend = BackendDense
	}
	return assemble(d.operators(), backend)
}

func (d *Dephasing) GetParams() map[string]float64 {
	return map[string]float64{"gamma": d.Gamma, "omega": d.Omega}
}

func (d *Dephasing) SetParam(n string, v float64) error {
	return setParam(map[string]*float64{"gamma": &d.Gamma, "omega": &d.Omega}, n, v)
}

// DrivenQubit models resonance fluorescence: H = Ω/2 σx + Δ/2 σz with
// L = √γ σ-.
type DrivenQubit struct {
	Gamma, Rabi, Detuning float64
}

func NewDrivenQubit() *DrivenQubit {
	return &DrivenQubit{Gamma: 0.5, Rabi: 2.0, Detuning: 0.0}
}

func (q *DrivenQubit) Name() string { return "driven" }
func (q *DrivenQubit) Dim() int     { return 2 }

func (q *DrivenQubit) DefaultState() dynamo.State { return dynamo.Basis(2, 0) }

func (q *DrivenQubit) operators() operators {
	h := sigmaZ(q.Detuning / 2)
	h.Set(0, 1, complex(q.Rabi/2, 0))
	h.Set(1, 0, complex(q.Rabi/2, 0))
	return operators{
		hamiltonian: h,
		jumps:       []*linalg.Dense{sigmaMinus(q.Gamma)},
	}
}

func (q *DrivenQubit) Build(backend Backend) (*sse.System, error) {
	if backend == BackendNative {
		backend = BackendFactorized
	}
	return assemble(q.operators(), backend)
}

func (q *DrivenQubit) GetParams() map[string]float64 {
	return map[string]float64{"gamma": q.Gamma, "rabi": q.Rabi, "detuning": q.Detuning}
}

func (q *DrivenQubit) SetParam(n string, v float64) error {
	return setParam(map[string]*float64{"gamma": &q.Gamma, "rabi": &q.Rabi, "detuning": &q.Detuning}, n, v)
}
