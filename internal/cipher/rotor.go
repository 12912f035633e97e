package cipher

// Rotor is a wiring permutation mounted at a rotating offset.
//
// The offset models the wheel's rotation against the fixed contact ring, so a
// lookup is the wiring conjugated by the offset: shift in by +offset, look up,
// shift out by -offset. Forward and Backward use the same offset, which makes
// Backward(Forward(i)) == i for any fixed offset.
type Rotor struct {
	wiring  *Permutation
	inverse *Permutation
	offset  int
}

// NewRotor creates a Rotor at offset 0.
func NewRotor(wiring *Permutation) *Rotor {
	return &Rotor{
		wiring:  wiring,
		inverse: wiring.Inverse(),
	}
}

// Offset returns the current rotational position in [0, N).
func (r *Rotor) Offset() int {
	return r.offset
}

// Size returns N.
func (r *Rotor) Size() int {
	return r.wiring.Len()
}

// Wiring returns the rotor's forward permutation.
func (r *Rotor) Wiring() *Permutation {
	return r.wiring
}

// Advance moves the rotor one position.
// Returns true iff the new offset is 0, i.e. the wheel completed a revolution
// and the next slower rotor should be carried.
func (r *Rotor) Advance() bool {
	r.offset = (r.offset + 1) % r.wiring.Len()
	return r.offset == 0
}

// SetOffset moves the rotor directly to offset.
// Returns INDEX_OUT_OF_RANGE if offset is outside [0, N).
func (r *Rotor) SetOffset(offset int) error {
	if offset < 0 || offset >= r.wiring.Len() {
		return NewIndexError("rotor offset", offset, r.wiring.Len())
	}
	r.offset = offset
	return nil
}

// Forward passes index through the wiring toward the reflector.
// index is taken modulo N.
func (r *Rotor) Forward(index int) int {
	return conjugate(r.wiring, index, r.offset)
}

// Backward passes index through the inverse wiring on the return path.
// index is taken modulo N.
func (r *Rotor) Backward(index int) int {
	return conjugate(r.inverse, index, r.offset)
}

func conjugate(p *Permutation, index, offset int) int {
	n := p.Len()
	shifted := mod(index+offset, n)
	return mod(p.at(shifted)-offset, n)
}

func mod(x, n int) int {
	x %= n
	if x < 0 {
		x += n
	}
	return x
}
