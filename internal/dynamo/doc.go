// Package dynamo provides core primitives for stochastic Schrödinger
// equation trajectories.
//
// The package defines the shared types the rest of the simulator is built on:
//
//   - [State]: complex amplitude vector of an open quantum system
//   - [Trajectory]: ordered samples of a [State]
//   - [Tensor]: anything that can be applied to a [State]
//   - [RandomSource]: complex standard-normal draws
//   - [System]: coherent and stochastic increments for one micro-step
//   - [Solver]: step / integrate / solve over a [System]
//
// # Example
//
//	sys := sse.New(hamiltonian, ensemble)
//	solver := integrators.NewEulerMaruyama()
//	traj, err := solver.Solve(psi0, sys, 100, 10, 1e-3, random.NewGaussian(7))
//
// # Thread Safety
//
// Operators and systems are read-only once built and may be shared between
// goroutines. A [RandomSource] is NOT safe for concurrent use; give every
// trajectory its own.
package dynamo
