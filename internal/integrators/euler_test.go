package integrators

import (
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/linalg"
	"github.com/san-kum/ssesim/internal/noise"
	"github.com/san-kum/ssesim/internal/random"
	"github.com/san-kum/ssesim/internal/sse"
)

const nStates = 10

func randomNoise(rng *random.Gaussian, nOperators, n int) *noise.Ensemble {
	amps := rng.Vector(nOperators)
	bra := rng.Matrix(nOperators, n)
	ket := rng.Matrix(nOperators, n)
	for i := range bra {
		for j := range bra[i] {
			bra[i][j] *= 0.3
			ket[i][j] *= 0.3
		}
	}
	ens, err := noise.FromBraKet(amps, bra, ket)
	Expect(err).NotTo(HaveOccurred())
	return ens
}

func randomSystem(rng *random.Gaussian, nOperators, n int) *sse.System {
	h, err := linalg.DenseFromRows(rng.Matrix(n, n))
	Expect(err).NotTo(HaveOccurred())
	sys, err := sse.New(h, randomNoise(rng, nOperators, n))
	Expect(err).NotTo(HaveOccurred())
	return sys
}

func diagonalSystem(rng *random.Gaussian, nOperators, n int) *sse.System {
	h, err := linalg.Diagonal(rng.Vector(n))
	Expect(err).NotTo(HaveOccurred())
	sys, err := sse.New(h, randomNoise(rng, nOperators, n))
	Expect(err).NotTo(HaveOccurred())
	return sys
}

// denseTwin rebuilds a factorized system with every noise operator as a
// full matrix.
func denseTwin(sys *sse.System) *sse.System {
	ens := sys.Noise.(*noise.Ensemble)
	ops := make([]*linalg.Dense, 0, ens.Len())
	for _, s := range ens.Sources() {
		ops = append(ops, s.Operator().(*linalg.Factorized).OuterProduct())
	}
	full, err := noise.FromOperators(ops)
	Expect(err).NotTo(HaveOccurred())
	twin, err := sse.New(sys.Hamiltonian, full)
	Expect(err).NotTo(HaveOccurred())
	return twin
}

var _ = Describe("EulerMaruyama", func() {
	var (
		solver *EulerMaruyama
		rng    *random.Gaussian
		psi0   dynamo.State
	)

	BeforeEach(func() {
		solver = NewEulerMaruyama()
		rng = random.NewGaussian(2024)
		psi0 = dynamo.Basis(nStates, 0)
	})

	Describe("Solve", func() {
		It("returns the initial state unmodified as row 0", func() {
			sys := randomSystem(rng, 10, nStates)
			traj, err := solver.Solve(psi0, sys, 1, 1, 0.0, rng)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj).To(HaveLen(1))
			Expect(traj[0]).To(Equal(psi0))
		})

		It("leaves every row equal to the initial state when dt is zero", func() {
			sys := diagonalSystem(rng, 0, nStates)
			traj, err := solver.Solve(psi0, sys, 3, 10, 0.0, rng)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj).To(HaveLen(3))
			for _, row := range traj {
				Expect(row).To(Equal(psi0))
			}
		})

		It("leaves the state unchanged at dt zero even with noise operators", func() {
			sys := randomSystem(rng, 4, nStates)
			traj, err := solver.Solve(psi0, sys, 5, 3, 0.0, rng)
			Expect(err).NotTo(HaveOccurred())
			for _, row := range traj {
				Expect(row).To(Equal(psi0))
			}
		})

		DescribeTable("produces exactly n rows of the state dimension",
			func(n, step int) {
				sys := randomSystem(rng, 3, nStates)
				traj, err := solver.Solve(psi0, sys, n, step, 1e-3, rng)
				Expect(err).NotTo(HaveOccurred())
				Expect(traj).To(HaveLen(n))
				for _, row := range traj {
					Expect(row).To(HaveLen(nStates))
				}
			},
			Entry("single row", 1, 5),
			Entry("two rows", 2, 1),
			Entry("many rows", 25, 4),
			Entry("zero micro-steps per sample", 4, 0),
		)

		It("returns an empty trajectory for n = 0", func() {
			sys := randomSystem(rng, 3, nStates)
			traj, err := solver.Solve(psi0, sys, 0, 10, 1e-3, rng)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj).To(BeEmpty())
		})

		It("renormalizes every row after the first", func() {
			sys := randomSystem(rng, 3, nStates)
			start := dynamo.State(rng.Vector(nStates)).Scale(2)
			traj, err := solver.Solve(start, sys, 20, 10, 1e-3, rng)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj[0]).To(Equal(start))
			for _, row := range traj[1:] {
				Expect(row.Norm()).To(BeNumerically("~", 1, 1e-10))
			}
		})

		It("skips renormalization when disabled", func() {
			sys := randomSystem(rng, 3, nStates)
			raw := NewEulerMaruyama(WithRenormalization(false))
			start := dynamo.State(rng.Vector(nStates))
			traj, err := raw.Solve(start, sys, 3, 10, 1e-3, rng)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.Abs(traj[2].Norm() - 1)).To(BeNumerically(">", 1e-6))
		})

		It("does not alias recorded rows with the input", func() {
			sys := randomSystem(rng, 2, nStates)
			traj, err := solver.Solve(psi0, sys, 3, 2, 1e-3, rng)
			Expect(err).NotTo(HaveOccurred())
			traj[0][0] = 42
			Expect(psi0[0]).To(Equal(complex128(1)))
		})

		It("is reproducible for equal seeds", func() {
			sys := randomSystem(rng, 3, nStates)
			a, err := solver.Solve(psi0, sys, 10, 5, 1e-3, random.NewGaussian(5))
			Expect(err).NotTo(HaveOccurred())
			b, err := solver.Solve(psi0, sys, 10, 5, 1e-3, random.NewGaussian(5))
			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(Equal(b))
		})

		It("matches a dense rendition of factorized noise under the same draws", func() {
			factorized := randomSystem(rng, 3, nStates)
			dense := denseTwin(factorized)

			n := 10
			a, err := solver.Solve(psi0, factorized, n, 10, 1e-3, random.NewGaussian(99))
			Expect(err).NotTo(HaveOccurred())
			b, err := solver.Solve(psi0, dense, n, 10, 1e-3, random.NewGaussian(99))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < n; i++ {
				for k := range a[i] {
					Expect(cmplx.Abs(a[i][k] - b[i][k])).To(BeNumerically("<", 1e-8))
				}
			}
		})

		It("aborts with row context on a shape mismatch", func() {
			sys := randomSystem(rng, 1, nStates)
			traj, err := solver.Solve(dynamo.Basis(nStates+1, 0), sys, 3, 1, 1e-3, rng)
			Expect(traj).To(BeNil())
			Expect(err).To(MatchError(dynamo.ErrShape))

			var simErr *dynamo.SimulationError
			Expect(err).To(BeAssignableToTypeOf(simErr))
			Expect(err.(*dynamo.SimulationError).Row).To(Equal(1))
		})
	})

	Describe("Integrate", func() {
		It("takes one draw per noise source per micro-step", func() {
			sys := randomSystem(rng, 3, nStates)
			seq := random.NewSequence(make([]complex128, 1000)...)
			_, err := solver.Integrate(psi0, sys, 0, 7, 1e-3, seq)
			Expect(err).NotTo(HaveOccurred())
			Expect(seq.Position()).To(Equal(21))
		})

		It("returns a copy when no steps are requested", func() {
			sys := randomSystem(rng, 1, nStates)
			out, err := solver.Integrate(psi0, sys, 0, 0, 1e-3, rng)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(psi0))
			out[0] = 0
			Expect(psi0[0]).To(Equal(complex128(1)))
		})

		It("evolves a pure Hamiltonian system coherently", func() {
			// H = diag(0, ω), no noise: the relative phase grows as ω·t
			omega := 2.0
			h, err := linalg.Diagonal([]complex128{0, complex(omega, 0)})
			Expect(err).NotTo(HaveOccurred())
			empty, err := noise.New()
			Expect(err).NotTo(HaveOccurred())
			sys, err := sse.New(h, empty)
			Expect(err).NotTo(HaveOccurred())

			s := complex(1/math.Sqrt2, 0)
			dt, steps := 1e-5, 50000
			out, err := solver.Integrate(dynamo.State{s, s}, sys, 0, steps, dt, rng)
			Expect(err).NotTo(HaveOccurred())

			phase := cmplx.Phase(out[1] / out[0])
			Expect(phase).To(BeNumerically("~", -omega*dt*float64(steps), 1e-3))
		})
	})

	Describe("Step", func() {
		It("adds the coherent term on top of the stochastic increment", func() {
			h, err := linalg.Diagonal([]complex128{1, 0})
			Expect(err).NotTo(HaveOccurred())
			empty, err := noise.New()
			Expect(err).NotTo(HaveOccurred())
			sys, err := sse.New(h, empty)
			Expect(err).NotTo(HaveOccurred())

			out, err := solver.Step(dynamo.State{1, 0}, sys, 0, 0.1, rng)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(dynamo.State{1 - 0.1i, 0}))
		})
	})
})
