package sse

import (
	"errors"
	"testing"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/linalg"
	"github.com/san-kum/ssesim/internal/noise"
	"github.com/san-kum/ssesim/internal/random"
)

func TestCoherent(t *testing.T) {
	h, err := linalg.Diagonal([]complex128{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	empty, _ := noise.New()
	sys, err := New(h, empty)
	if err != nil {
		t.Fatal(err)
	}

	got, err := sys.Coherent(dynamo.State{1, 1i}, 0, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	// -i·0.5·(1, 2i) = (-0.5i, 1)
	want := dynamo.State{-0.5i, 1}
	if !got.Equal(want, 1e-14) {
		t.Errorf("Coherent() = %v, want %v", got, want)
	}
}

func TestStochasticIncludesState(t *testing.T) {
	h, _ := linalg.Diagonal([]complex128{1, 1, 1})
	empty, _ := noise.New()
	sys, _ := New(h, empty)

	psi := dynamo.State{0, 1, 0}
	got, err := sys.StochasticEuler(psi, 0, 0.1, random.NewGaussian(1))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(psi, 0) {
		t.Errorf("StochasticEuler() = %v, want %v", got, psi)
	}
}

func TestNewRejectsMismatch(t *testing.T) {
	h, _ := linalg.Diagonal([]complex128{1, 1, 1})
	ens, err := noise.FromBraKet([]complex128{1}, [][]complex128{{1, 0}}, [][]complex128{{0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(h, ens); !errors.Is(err, dynamo.ErrConstruction) {
		t.Errorf("expected ErrConstruction, got %v", err)
	}

	rect, _ := linalg.NewDense(2, 3, nil)
	empty, _ := noise.New()
	if _, err := New(rect, empty); !errors.Is(err, dynamo.ErrConstruction) {
		t.Errorf("expected ErrConstruction for non-square hamiltonian, got %v", err)
	}
}

func TestCoherentShapeError(t *testing.T) {
	h, _ := linalg.Diagonal([]complex128{1, 1})
	empty, _ := noise.New()
	sys, _ := New(h, empty)
	if _, err := sys.Coherent(dynamo.State{1}, 0, 0.1); !errors.Is(err, dynamo.ErrShape) {
		t.Errorf("expected ErrShape, got %v", err)
	}
}
