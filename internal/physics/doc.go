// Package physics provides open quantum systems ready for simulation.
//
// Each model implements [Model], describing its Hamiltonian and coupling
// operators and assembling them into an [sse.System] on any backend:
//
//   - [QubitDecay]: spontaneous emission of a two-level system
//   - [Dephasing]: pure dephasing of a two-level system
//   - [DrivenQubit]: resonance fluorescence with Rabi drive and detuning
//   - [DampedOscillator]: truncated harmonic oscillator with photon loss
//   - [RandomSystem]: random Hamiltonian and rank-one couplings
//
// Models are written in their natural representation ([BackendNative]) and
// can be rebuilt densely for cross-checking:
//
//	m := physics.NewQubitDecay()
//	sys, _ := m.Build(physics.BackendDense)
package physics
