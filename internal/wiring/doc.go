// Package wiring holds rotor and reflector wiring sets.
//
// A Set is static configuration data: rotor wirings ordered slowest first and
// one reflector wiring, each written as per-position target letters over the
// set's alphabet. Two sets are built in; further sets can be read from CUE
// files, which are unified with an embedded schema before the permutations
// are checked.
//
// Loading files is a CLI concern. The machine itself only ever receives
// already validated wiring strings.
package wiring
