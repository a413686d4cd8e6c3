// Package linalg provides the operator representations used by the
// simulator. Every type satisfies [dynamo.Tensor]:
//
//   - [Dense]: full complex matrix backed by gonum's CDense
//   - [Banded]: only a contiguous band of diagonals, BLAS band storage
//   - [TransposedBanded]: transposed (optionally conjugated) view of a [Banded]
//   - [Factorized]: rank-one amplitude·|ket⟩⟨bra|
//
// All representations of the same linear map agree to floating-point
// tolerance. Conjugation and transposition are cheap for [Factorized]
// (O(dim)) and [TransposedBanded] (O(1)).
package linalg
