// Package cipher implements the permutation primitives of the rotor machine.
//
// Everything here works on alphabet indices, not letters. An Alphabet maps
// symbols to indices once, at the boundary; Permutation, Rotor and Reflector
// only ever see integers in [0, N).
//
// INVARIANTS:
//   - A Permutation is a bijection over [0, N) and never changes after
//     construction. Its inverse is computed once and cached.
//   - A Rotor's offset is always in [0, N). Advance is the only operation that
//     moves it during normal typing, and it reports a carry exactly when the
//     offset wraps back to 0.
//   - Rotors hold no reference to their neighbours. Carry propagation is the
//     caller's job (see internal/machine).
package cipher
