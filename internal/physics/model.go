package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/linalg"
	"github.com/san-kum/ssesim/internal/noise"
	"github.com/san-kum/ssesim/internal/sse"
)

type Backend string

const (
	BackendNative     Backend = "native"
	BackendDense      Backend = "dense"
	BackendBanded     Backend = "banded"
	BackendFactorized Backend = "factorized"
)

// ParseBackend accepts the names above; the empty string means native.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(name); b {
	case "":
		return BackendNative, nil
	case BackendNative, BackendDense, BackendBanded, BackendFactorized:
		return b, nil
	default:
		return "", fmt.Errorf("unknown backend: %s", name)
	}
}

// Model describes an open quantum system.
type Model interface {
	Name() string
	Dim() int
	Build(backend Backend) (*sse.System, error)
	DefaultState() dynamo.State
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// operators is the dense description every model reduces to.
type operators struct {
	hamiltonian *linalg.Dense
	jumps       []*linalg.Dense
}

func assemble(ops operators, backend Backend) (*sse.System, error) {
	var (
		h   dynamo.Tensor
		ens *noise.Ensemble
		err error
	)
	switch backend {
	case BackendDense:
		h = ops.hamiltonian
		ens, err = noise.FromOperators(ops.jumps)
	case BackendBanded:
		h = linalg.BandedFromDense(ops.hamiltonian)
		banded := make([]*linalg.Banded, len(ops.jumps))
		for i, j := range ops.jumps {
			banded[i] = linalg.BandedFromDense(j)
		}
		ens, err = noise.FromBanded(banded)
	case BackendFactorized:
		h = ops.hamiltonian
		ens, err = factorizedNoise(ops.jumps)
	default:
		return nil, fmt.Errorf("unknown backend: %s", backend)
	}
	if err != nil {
		return nil, err
	}
	return sse.New(h, ens)
}

func factorizedNoise(jumps []*linalg.Dense) (*noise.Ensemble, error) {
	amps := make([]complex128, len(jumps))
	bras := make([][]complex128, len(jumps))
	kets := make([][]complex128, len(jumps))
	for i, j := range jumps {
		f, err := linalg.FactorizeRankOne(j, 1e-12)
		if err != nil {
			return nil, fmt.Errorf("jump %d: %w", i, err)
		}
		amps[i], bras[i], kets[i] = f.Amplitude, f.Bra, f.Ket
	}
	return noise.FromBraKet(amps, bras, kets)
}

func sigmaMinus(rate float64) *linalg.Dense {
	d, _ := linalg.NewDense(2, 2, nil)
	d.Set(0, 1, complex(math.Sqrt(rate), 0))
	return d
}

func sigmaZ(scale float64) *linalg.Dense {
	d, _ := linalg.Diagonal([]complex128{complex(-scale, 0), complex(scale, 0)})
	return d
}

func setParam(params map[string]*float64, name string, value float64) error {
	p, ok := params[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	*p = value
	return nil
}
