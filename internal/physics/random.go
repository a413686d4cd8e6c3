package physics

import (
	"fmt"
	"math/cmplx"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/linalg"
	"github.com/san-kum/ssesim/internal/noise"
	"github.com/san-kum/ssesim/internal/random"
	"github.com/san-kum/ssesim/internal/sse"
)

// RandomSystem draws a Hermitian Hamiltonian and rank-one couplings from a
// seeded complex normal. Coupling vectors are scaled by Coupling.
type RandomSystem struct {
	Size      int
	Operators int
	Coupling  float64
	Seed      uint64
}

func NewRandomSystem(size, ops int) *RandomSystem {
	return &RandomSystem{Size: size, Operators: ops, Coupling: 0.3, Seed: 1}
}

func (r *RandomSystem) Name() string { return "random" }
func (r *RandomSystem) Dim() int     { return r.Size }

func (r *RandomSystem) DefaultState() dynamo.State { return dynamo.Basis(r.Size, 0) }

func (r *RandomSystem) draw() (*linalg.Dense, []complex128, [][]complex128, [][]complex128, error) {
	rng := random.NewGaussian(r.Seed)
	m := rng.Matrix(r.Size, r.Size)
	for i := range m {
		for j := i; j < r.Size; j++ {
			v := (m[i][j] + cmplx.Conj(m[j][i])) / 2
			m[i][j], m[j][i] = v, cmplx.Conj(v)
		}
	}
	h, err := linalg.DenseFromRows(m)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	amps := rng.Vector(r.Operators)
	bras := rng.Matrix(r.Operators, r.Size)
	kets := rng.Matrix(r.Operators, r.Size)
	c := complex(r.Coupling, 0)
	for i := range bras {
		for j := range bras[i] {
			bras[i][j] *= c
			kets[i][j] *= c
		}
	}
	return h, amps, bras, kets, nil
}

func (r *RandomSystem) Build(backend Backend) (*sse.System, error) {
	h, amps, bras, kets, err := r.draw()
	if err != nil {
		return nil, err
	}
	if backend == BackendNative || backend == BackendFactorized {
		ens, err := noise.FromBraKet(amps, bras, kets)
		if err != nil {
			return nil, err
		}
		return sse.New(h, ens)
	}

	jumps := make([]*linalg.Dense, len(amps))
	for i := range amps {
		f, err := linalg.NewFactorized(amps[i], bras[i], kets[i])
		if err != nil {
			return nil, err
		}
		jumps[i] = f.OuterProduct()
	}
	return assemble(operators{hamiltonian: h, jumps: jumps}, backend)
}

func (r *RandomSystem) GetParams() map[string]float64 {
	return map[string]float64{
		"size":      float64(r.Size),
		"operators": float64(r.Operators),
		"coupling":  r.Coupling,
		"seed":      float64(r.Seed),
	}
}

func (r *RandomSystem) SetParam(n string, v float64) error {
	switch n {
	case "size":
		if int(v) < 1 {
			return fmt.Errorf("size %d must be at least 1", int(v))
		}
		r.Size = int(v)
	case "operators":
		if int(v) < 0 {
			return fmt.Errorf("operators %d must be non-negative", int(v))
		}
		r.Operators = int(v)
	case "seed":
		r.Seed = uint64(v)
	default:
		return setParam(map[string]*float64{"coupling": &r.Coupling}, n, v)
	}
	return nil
}
