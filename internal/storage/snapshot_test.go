package storage

import (
	"errors"
	"testing"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/linalg"
	"github.com/san-kum/ssesim/internal/noise"
	"github.com/san-kum/ssesim/internal/physics"
	"github.com/san-kum/ssesim/internal/random"
	"github.com/san-kum/ssesim/internal/sim"
	"github.com/san-kum/ssesim/internal/sse"
)

type fixedNoise struct{}

func (fixedNoise) EulerStep(x dynamo.State, dt float64, rng dynamo.RandomSource) (dynamo.State, error) {
	return x.Clone(), nil
}

func step(t *testing.T, sys *sse.System, x dynamo.State) dynamo.State {
	t.Helper()
	c, err := sys.Coherent(x, 0, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	s, err := sys.StochasticEuler(x, 0, 0.01, random.NewSequence(complex(0.3, -1.2), complex(-0.7, 0.4)))
	if err != nil {
		t.Fatal(err)
	}
	return c.Add(s)
}

func TestSystemSnapshotRoundTrip(t *testing.T) {
	tests := []struct {
		model physics.Model
		kind  any
	}{
		{physics.NewQubitDecay(), &linalg.Factorized{}},
		{physics.NewDephasing(), &linalg.Dense{}},
		{physics.NewDampedOscillator(6), &linalg.Banded{}},
		{physics.NewRandomSystem(4, 2), &linalg.Factorized{}},
	}

	for _, tt := range tests {
		t.Run(tt.model.Name(), func(t *testing.T) {
			sys, err := tt.model.Build(physics.BackendNative)
			if err != nil {
				t.Fatal(err)
			}

			st := New(t.TempDir())
			runID, err := st.Save(RunMetadata{Model: tt.model.Name()}, &sim.Result{})
			if err != nil {
				t.Fatal(err)
			}
			if err := st.SaveSystem(runID, sys); err != nil {
				t.Fatal(err)
			}
			got, err := st.LoadSystem(runID)
			if err != nil {
				t.Fatal(err)
			}

			ens := got.Noise.(*noise.Ensemble)
			orig := sys.Noise.(*noise.Ensemble)
			if ens.Len() != orig.Len() {
				t.Fatalf("expected %d noise operators, got %d", orig.Len(), ens.Len())
			}
			if op := ens.Sources()[0].Operator(); !sameType(op, tt.kind) {
				t.Errorf("operator restored as %T", op)
			}

			x := tt.model.DefaultState()
			if !step(t, got, x).Equal(step(t, sys, x), 0) {
				t.Error("restored system steps differently")
			}
		})
	}
}

func sameType(a, b any) bool {
	switch a.(type) {
	case *linalg.Dense:
		_, ok := b.(*linalg.Dense)
		return ok
	case *linalg.Banded:
		_, ok := b.(*linalg.Banded)
		return ok
	case *linalg.Factorized:
		_, ok := b.(*linalg.Factorized)
		return ok
	}
	return false
}

func TestSnapshotRejectsForeignNoise(t *testing.T) {
	h, _ := linalg.Diagonal([]complex128{1, 2})
	sys, err := sse.New(h, fixedNoise{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := MarshalSystem(sys); err == nil {
		t.Error("expected error for noise without operators")
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalSystem([]byte{0xc1}); err == nil {
		t.Error("expected decode error")
	}
}

func TestRestoreTensorErrors(t *testing.T) {
	tests := []struct {
		name string
		snap tensorSnapshot
	}{
		{"unknown kind", tensorSnapshot{Kind: "sparse", Rows: 2, Cols: 2}},
		{"ragged parts", tensorSnapshot{Kind: kindDense, Rows: 1, Cols: 2, Re: []float64{1, 2}, Im: []float64{0}}},
		{"bad band", tensorSnapshot{Kind: kindBanded, Rows: 2, Cols: 2, KL: 3}},
		{"no amplitude", tensorSnapshot{Kind: kindFactorized, Rows: 1, Cols: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := restoreTensor(tt.snap); !errors.Is(err, dynamo.ErrConstruction) {
				t.Errorf("expected construction error, got %v", err)
			}
		})
	}
}
