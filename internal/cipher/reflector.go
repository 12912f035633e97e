package cipher

// Reflector is a fixed permutation applied once per keystroke between the
// forward and backward rotor passes. It never rotates.
type Reflector struct {
	wiring *Permutation
}

// NewReflector creates a Reflector. Involution is not required here; callers
// that care can check IsInvolution.
func NewReflector(wiring *Permutation) *Reflector {
	return &Reflector{wiring: wiring}
}

// Reflect maps index through the reflector wiring. index is taken modulo N.
func (r *Reflector) Reflect(index int) int {
	return r.wiring.at(mod(index, r.wiring.Len()))
}

// Size returns N.
func (r *Reflector) Size() int {
	return r.wiring.Len()
}

// Wiring returns the reflector permutation.
func (r *Reflector) Wiring() *Permutation {
	return r.wiring
}

// IsInvolution reports whether the wiring pairs symbols, which is what makes
// a machine's encryption reciprocal.
func (r *Reflector) IsInvolution() bool {
	return r.wiring.IsInvolution()
}
