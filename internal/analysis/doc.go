// Package analysis post-processes recorded trajectories.
//
//   - [PowerSpectrum], [DominantFrequency]: spectra of real series such as a
//     population, zero-padded to a power of two
//   - [PopulationSeries], [ExpectationSeries], [EnsembleMean]: per-row
//     observables and their average over trajectories
//   - [Separation]: infidelity between two trajectories row by row
//   - [BlochSeries]: Bloch-sphere coordinates of a two-level trajectory
//   - [Sweep]: a scalar outcome as one model parameter is varied
//
// A Rabi oscillation shows up as a spectral peak:
//
//	pop := analysis.PopulationSeries(res.Trajectory, 1)
//	f := analysis.DominantFrequency(pop, float64(cfg.Steps)*cfg.Dt)
package analysis
