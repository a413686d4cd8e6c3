// Package random supplies the complex Gaussian increments that drive the
// stochastic terms. Sources are not safe for concurrent use: give every
// trajectory its own.
package random

import (
	"math/rand/v2"

	"github.com/san-kum/ssesim/internal/dynamo"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	_ dynamo.RandomSource = (*Gaussian)(nil)
	_ dynamo.RandomSource = (*Sequence)(nil)
	_ dynamo.RandomSource = (*Recorder)(nil)
)

// Gaussian draws complex values whose real and imaginary parts are
// independent N(0, 1) samples from a seeded PCG stream.
type Gaussian struct {
	seed uint64
	dist distuv.Normal
}

// NewGaussian returns a deterministic source: equal seeds give equal streams.
func NewGaussian(seed uint64) *Gaussian {
	return &Gaussian{
		seed: seed,
		dist: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		},
	}
}

func (g *Gaussian) Seed() uint64 { return g.seed }

func (g *Gaussian) ComplexNormal() complex128 {
	re := g.dist.Rand()
	im := g.dist.Rand()
	return complex(re, im)
}

// Vector fills a slice of n draws.
func (g *Gaussian) Vector(n int) []complex128 {
	out := make([]complex128, n)
	for i := range out {
		out[i] = g.ComplexNormal()
	}
	return out
}

// Matrix fills rows×cols draws, row by row.
func (g *Gaussian) Matrix(rows, cols int) [][]complex128 {
	out := make([][]complex128, rows)
	for i := range out {
		out[i] = g.Vector(cols)
	}
	return out
}

// Sequence replays a fixed list of draws, wrapping around at the end.
// An empty Sequence always yields zero.
type Sequence struct {
	values []complex128
	next   int
}

func NewSequence(values ...complex128) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) ComplexNormal() complex128 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}

// Position is the index of the next value to be replayed.
func (s *Sequence) Position() int { return s.next }

// Recorder forwards to another source and keeps every draw.
type Recorder struct {
	src   dynamo.RandomSource
	Draws []complex128
}

func NewRecorder(src dynamo.RandomSource) *Recorder {
	return &Recorder{src: src}
}

func (r *Recorder) ComplexNormal() complex128 {
	v := r.src.ComplexNormal()
	r.Draws = append(r.Draws, v)
	return v
}

// Replay returns a Sequence over the recorded draws.
func (r *Recorder) Replay() *Sequence {
	return NewSequence(append([]complex128(nil), r.Draws...)...)
}
