package physics

import (
	"errors"
	"math/cmplx"
	"testing"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/integrators"
	"github.com/san-kum/ssesim/internal/linalg"
	"github.com/san-kum/ssesim/internal/random"
)

func allModels() []Model {
	return []Model{
		NewQubitDecay(),
		NewDephasing(),
		NewDrivenQubit(),
		NewDampedOscillator(6),
		NewRandomSystem(5, 2),
	}
}

func solve(t *testing.T, m Model, b Backend) dynamo.Trajectory {
	t.Helper()
	sys, err := m.Build(b)
	if err != nil {
		t.Fatalf("%s/%s: build: %v", m.Name(), b, err)
	}
	traj, err := integrators.NewEulerMaruyama().Solve(m.DefaultState(), sys, 20, 5, 0.01, random.NewGaussian(42))
	if err != nil {
		t.Fatalf("%s/%s: solve: %v", m.Name(), b, err)
	}
	return traj
}

func TestBackendsAgree(t *testing.T) {
	for _, m := range allModels() {
		want := solve(t, m, BackendDense)
		for _, b := range []Backend{BackendNative, BackendBanded, BackendFactorized} {
			if b == BackendFactorized && !rankOneJumps(m) {
				continue
			}
			got := solve(t, m, b)
			for i := range want {
				if !got[i].Equal(want[i], 1e-9) {
					t.Errorf("%s/%s: row %d differs from dense", m.Name(), b, i)
					break
				}
			}
		}
	}
}

func rankOneJumps(m Model) bool {
	switch m.(type) {
	case *Dephasing, *DampedOscillator:
		return false
	}
	return true
}

func TestFullRankJumpsHaveNoFactorizedForm(t *testing.T) {
	for _, m := range []Model{NewDephasing(), NewDampedOscillator(4)} {
		_, err := m.Build(BackendFactorized)
		if !errors.Is(err, dynamo.ErrConstruction) {
			t.Errorf("%s: expected construction error, got %v", m.Name(), err)
		}
	}
}

func TestDimensionsAndDefaultStates(t *testing.T) {
	for _, m := range allModels() {
		x := m.DefaultState()
		if len(x) != m.Dim() {
			t.Errorf("%s: default state length %d, dim %d", m.Name(), len(x), m.Dim())
		}
		if !x.IsValid() {
			t.Errorf("%s: default state is not normalized", m.Name())
		}
		sys, err := m.Build(BackendNative)
		if err != nil {
			t.Fatalf("%s: %v", m.Name(), err)
		}
		if sys.Dim() != m.Dim() {
			t.Errorf("%s: system dim %d, want %d", m.Name(), sys.Dim(), m.Dim())
		}
	}
}

func TestQubitDecayOperators(t *testing.T) {
	q := NewQubitDecay()
	q.Gamma = 4

	sys, err := q.Build(BackendDense)
	if err != nil {
		t.Fatal(err)
	}
	// With zero noise the coherent part alone acts: -i dt H |1⟩.
	dx, err := sys.Coherent(dynamo.Basis(2, 1), 0, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	want := complex(0, -0.1*q.Omega/2)
	if cmplx.Abs(dx[1]-want) > 1e-12 || dx[0] != 0 {
		t.Errorf("unexpected coherent step %v", dx)
	}

	dw, err := sys.StochasticEuler(dynamo.Basis(2, 1), 0, 0, random.NewSequence(1))
	if err != nil {
		t.Fatal(err)
	}
	if !dw.Equal(dynamo.Basis(2, 1), 0) {
		t.Errorf("zero dt noise should return the state, got %v", dw)
	}
}

func TestDampedOscillatorIsBanded(t *testing.T) {
	o := NewDampedOscillator(8)
	sys, err := o.Build(BackendNative)
	if err != nil {
		t.Fatal(err)
	}
	h, ok := sys.Hamiltonian.(*linalg.Banded)
	if !ok {
		t.Fatalf("expected banded hamiltonian, got %T", sys.Hamiltonian)
	}
	if kl, ku := h.Bandwidth(); kl != 1 || ku != 1 {
		t.Errorf("expected tridiagonal band, got kl=%d ku=%d", kl, ku)
	}
	if got := h.At(5, 5); got != complex(5*o.Omega, 0) {
		t.Errorf("expected H[5,5]=%v, got %v", 5*o.Omega, got)
	}
}

func TestDampedOscillatorNumberOperator(t *testing.T) {
	o := NewDampedOscillator(5)
	n := o.NumberOperator()
	for k := 0; k < 5; k++ {
		x := dynamo.Basis(5, k)
		nx, err := n.Apply(x)
		if err != nil {
			t.Fatal(err)
		}
		if got := x.Inner(nx); got != complex(float64(k), 0) {
			t.Errorf("⟨%d|n|%d⟩ = %v", k, k, got)
		}
	}
}

func TestDampedOscillatorRejectsSingleLevel(t *testing.T) {
	_, err := NewDampedOscillator(1).Build(BackendNative)
	if !errors.Is(err, dynamo.ErrConstruction) {
		t.Errorf("expected construction error, got %v", err)
	}
}

func TestRandomSystemIsSeeded(t *testing.T) {
	a := solve(t, NewRandomSystem(4, 2), BackendNative)
	b := solve(t, NewRandomSystem(4, 2), BackendNative)
	for i := range a {
		if !a[i].Equal(b[i], 0) {
			t.Fatalf("row %d differs between identical seeds", i)
		}
	}

	r := NewRandomSystem(4, 2)
	if err := r.SetParam("seed", 7); err != nil {
		t.Fatal(err)
	}
	c := solve(t, r, BackendNative)
	if c[len(c)-1].Equal(a[len(a)-1], 1e-12) {
		t.Error("expected a different system for a different seed")
	}
}

func TestParams(t *testing.T) {
	for _, m := range allModels() {
		for name, v := range m.GetParams() {
			if err := m.SetParam(name, v); err != nil {
				t.Errorf("%s: SetParam(%s): %v", m.Name(), name, err)
			}
		}
		if err := m.SetParam("bogus", 1); err == nil {
			t.Errorf("%s: expected error for unknown parameter", m.Name())
		}
	}

	q := NewDrivenQubit()
	if err := q.SetParam("rabi", 3.5); err != nil {
		t.Fatal(err)
	}
	if q.GetParams()["rabi"] != 3.5 {
		t.Errorf("rabi not updated: %v", q.GetParams())
	}
}

func TestSetParamRejectsInvalidSizes(t *testing.T) {
	tests := []struct {
		model Model
		param string
		value float64
	}{
		{NewRandomSystem(4, 2), "size", 0},
		{NewRandomSystem(4, 2), "size", -1},
		{NewRandomSystem(4, 2), "operators", -3},
		{NewDampedOscillator(6), "levels", 1},
		{NewDampedOscillator(6), "levels", -4},
		{NewDampedOscillator(6), "initial", 6},
	}
	for _, tt := range tests {
		before := tt.model.GetParams()[tt.param]
		if err := tt.model.SetParam(tt.param, tt.value); err == nil {
			t.Errorf("%s: SetParam(%s, %g) accepted", tt.model.Name(), tt.param, tt.value)
		}
		if got := tt.model.GetParams()[tt.param]; got != before {
			t.Errorf("%s: %s changed to %g after rejection", tt.model.Name(), tt.param, got)
		}
		if _, err := tt.model.Build(BackendNative); err != nil {
			t.Errorf("%s: build after rejected %s: %v", tt.model.Name(), tt.param, err)
		}
	}

	r := NewRandomSystem(4, 2)
	if err := r.SetParam("operators", 0); err != nil {
		t.Fatalf("zero operators: %v", err)
	}
	if _, err := r.Build(BackendNative); err != nil {
		t.Errorf("build without operators: %v", err)
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in   string
		want Backend
		err  bool
	}{
		{"", BackendNative, false},
		{"dense", BackendDense, false},
		{"banded", BackendBanded, false},
		{"factorized", BackendFactorized, false},
		{"sparse", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBackend(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseBackend(%q) = %q, %v", tt.in, got, err)
		}
	}
}
