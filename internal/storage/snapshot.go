package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/linalg"
	"github.com/san-kum/ssesim/internal/noise"
	"github.com/san-kum/ssesim/internal/sse"
)

const (
	kindDense      = "dense"
	kindBanded     = "banded"
	kindFactorized = "factorized"
)

// tensorSnapshot keeps an operator in its own backend form. Re and Im hold
// row-major dense data or the raw band. Factorized operators use the
// Amplitude, Bra and Ket fields instead.
type tensorSnapshot struct {
	Kind  string    `msgpack:"kind"`
	Rows  int       `msgpack:"rows"`
	Cols  int       `msgpack:"cols"`
	KL    int       `msgpack:"kl,omitempty"`
	KU    int       `msgpack:"ku,omitempty"`
	Re    []float64 `msgpack:"re,omitempty"`
	Im    []float64 `msgpack:"im,omitempty"`
	Amp   []float64 `msgpack:"amp,omitempty"`
	BraRe []float64 `msgpack:"bra_re,omitempty"`
	BraIm []float64 `msgpack:"bra_im,omitempty"`
	KetRe []float64 `msgpack:"ket_re,omitempty"`
	KetIm []float64 `msgpack:"ket_im,omitempty"`
}

type systemSnapshot struct {
	Version     int              `msgpack:"version"`
	Hamiltonian tensorSnapshot   `msgpack:"hamiltonian"`
	Noise       []tensorSnapshot `msgpack:"noise"`
}

const snapshotVersion = 1

// MarshalSystem encodes sys. Its noise must be a *noise.Ensemble.
func MarshalSystem(sys *sse.System) ([]byte, error) {
	ens, ok := sys.Noise.(*noise.Ensemble)
	if !ok {
		return nil, fmt.Errorf("cannot snapshot noise of type %T", sys.Noise)
	}
	h, err := snapshotTensor(sys.Hamiltonian)
	if err != nil {
		return nil, fmt.Errorf("hamiltonian: %w", err)
	}

	snap := systemSnapshot{Version: snapshotVersion, Hamiltonian: h}
	for i, src := range ens.Sources() {
		t, err := snapshotTensor(src.Operator())
		if err != nil {
			return nil, fmt.Errorf("noise operator %d: %w", i, err)
		}
		snap.Noise = append(snap.Noise, t)
	}
	return msgpack.Marshal(&snap)
}

// UnmarshalSystem rebuilds a system through the same constructors the
// factories use, so adjoints are derived exactly as before.
func UnmarshalSystem(data []byte) (*sse.System, error) {
	var snap systemSnapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: snapshot version %d", dynamo.ErrConstruction, snap.Version)
	}

	h, _, err := restoreTensor(snap.Hamiltonian)
	if err != nil {
		return nil, fmt.Errorf("hamiltonian: %w", err)
	}
	sources := make([]*noise.Source, 0, len(snap.Noise))
	for i, t := range snap.Noise {
		op, adj, err := restoreTensor(t)
		if err != nil {
			return nil, fmt.Errorf("noise operator %d: %w", i, err)
		}
		src, err := noise.NewSource(op, adj)
		if err != nil {
			return nil, fmt.Errorf("noise operator %d: %w", i, err)
		}
		sources = append(sources, src)
	}
	ens, err := noise.New(sources...)
	if err != nil {
		return nil, err
	}
	return sse.New(h, ens)
}

func (s *Store) SaveSystem(runID string, sys *sse.System) error {
	data, err := MarshalSystem(sys)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.baseDir, runID, systemFile), data, 0644)
}

func (s *Store) LoadSystem(runID string) (*sse.System, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, systemFile))
	if err != nil {
		return nil, err
	}
	return UnmarshalSystem(data)
}

func snapshotTensor(t dynamo.Tensor) (tensorSnapshot, error) {
	rows, cols := t.Dims()
	snap := tensorSnapshot{Rows: rows, Cols: cols}

	switch op := t.(type) {
	case *linalg.Dense:
		snap.Kind = kindDense
		snap.Re, snap.Im = split(flatten(op.Rows()))
	case *linalg.Banded:
		snap.Kind = kindBanded
		snap.KL, snap.KU = op.Bandwidth()
		snap.Re, snap.Im = split(op.RawBand())
	case *linalg.Factorized:
		snap.Kind = kindFactorized
		snap.Amp = []float64{real(op.Amplitude), imag(op.Amplitude)}
		snap.BraRe, snap.BraIm = split(op.Bra)
		snap.KetRe, snap.KetIm = split(op.Ket)
	default:
		d, err := linalg.ToDense(t)
		if err != nil {
			return snap, err
		}
		snap.Kind = kindDense
		snap.Re, snap.Im = split(flatten(d.Rows()))
	}
	return snap, nil
}

// restoreTensor returns the operator and its adjoint.
func restoreTensor(s tensorSnapshot) (dynamo.Tensor, dynamo.Tensor, error) {
	switch s.Kind {
	case kindDense:
		data, err := join(s.Re, s.Im)
		if err != nil {
			return nil, nil, err
		}
		d, err := linalg.NewDense(s.Rows, s.Cols, data)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Adjoint(), nil
	case kindBanded:
		data, err := join(s.Re, s.Im)
		if err != nil {
			return nil, nil, err
		}
		b, err := linalg.NewBanded(s.Rows, s.Cols, s.KL, s.KU, data)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Transpose().Conj(), nil
	case kindFactorized:
		if len(s.Amp) != 2 {
			return nil, nil, fmt.Errorf("%w: amplitude has %d parts", dynamo.ErrConstruction, len(s.Amp))
		}
		bra, err := join(s.BraRe, s.BraIm)
		if err != nil {
			return nil, nil, err
		}
		ket, err := join(s.KetRe, s.KetIm)
		if err != nil {
			return nil, nil, err
		}
		f, err := linalg.NewFactorized(complex(s.Amp[0], s.Amp[1]), bra, ket)
		if err != nil {
			return nil, nil, err
		}
		return f, f.Conj().Transpose(), nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown operator kind %q", dynamo.ErrConstruction, s.Kind)
	}
}

func flatten(rows [][]complex128) []complex128 {
	var out []complex128
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

func split(v []complex128) (re, im []float64) {
	re = make([]float64, len(v))
	im = make([]float64, len(v))
	for i, x := range v {
		re[i], im[i] = real(x), imag(x)
	}
	return re, im
}

func join(re, im []float64) ([]complex128, error) {
	if len(re) != len(im) {
		return nil, fmt.Errorf("%w: %d real parts, %d imaginary parts", dynamo.ErrConstruction, len(re), len(im))
	}
	out := make([]complex128, len(re))
	for i := range re {
		out[i] = complex(re[i], im[i])
	}
	return out, nil
}
