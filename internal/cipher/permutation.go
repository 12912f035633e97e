package cipher

import "strings"

// Permutation is an immutable bijection over [0, N).
//
// table[i] is the index position i maps to. The inverse table is derived at
// construction because the backward rotor pass queries it on every keystroke.
type Permutation struct {
	table   []int
	inverse []int
}

// NewPermutation creates a Permutation from explicit target indices.
// The table is copied. Returns INVALID_WIRING if the table is empty or is not
// a bijection over [0, len(table)).
func NewPermutation(table []int) (*Permutation, error) {
	n := len(table)
	if n == 0 {
		return nil, NewInvalidWiringError("permutation table is empty")
	}

	forward := make([]int, n)
	inverse := make([]int, n)
	seen := make([]bool, n)
	for i, x := range table {
		if x < 0 || x >= n {
			return nil, NewInvalidWiringError("entry %d maps to %d, outside [0,%d)", i, x, n)
		}
		if seen[x] {
			return nil, NewInvalidWiringError("target %d appears more than once", x)
		}
		seen[x] = true
		forward[i] = x
		inverse[x] = i
	}

	return &Permutation{table: forward, inverse: inverse}, nil
}

// ParsePermutation creates a Permutation from a wiring string, where the
// symbol at position i names the target of index i.
//
// Returns INVALID_WIRING if the wiring has the wrong length, uses a symbol
// outside the alphabet, or repeats a symbol.
func ParsePermutation(a *Alphabet, wiring string) (*Permutation, error) {
	runes := []rune(wiring)
	if len(runes) != a.Size() {
		return nil, NewInvalidWiringError("wiring %q has %d symbols, alphabet has %d", wiring, len(runes), a.Size())
	}

	table := make([]int, len(runes))
	for i, r := range runes {
		idx, ok := a.index[r]
		if !ok {
			return nil, NewInvalidWiringError("wiring %q uses symbol %q which is not in the alphabet", wiring, r)
		}
		table[i] = idx
	}

	p, err := NewPermutation(table)
	if err != nil {
		return nil, NewInvalidWiringError("wiring %q: %s", wiring, err.(*Error).Message)
	}
	return p, nil
}

// Len returns N.
func (p *Permutation) Len() int {
	return len(p.table)
}

// Apply returns table[i].
func (p *Permutation) Apply(i int) (int, error) {
	if i < 0 || i >= len(p.table) {
		return 0, NewIndexError("permutation index", i, len(p.table))
	}
	return p.table[i], nil
}

// Inverse returns the inverse permutation. The result shares the cached
// tables, so calling it is O(1).
func (p *Permutation) Inverse() *Permutation {
	return &Permutation{table: p.inverse, inverse: p.table}
}

// IsInvolution reports whether the permutation is its own inverse.
func (p *Permutation) IsInvolution() bool {
	for i, x := range p.table {
		if p.table[x] != i {
			return false
		}
	}
	return true
}

// FixedPoints returns the indices that map to themselves, in ascending order.
func (p *Permutation) FixedPoints() []int {
	var fixed []int
	for i, x := range p.table {
		if i == x {
			fixed = append(fixed, i)
		}
	}
	return fixed
}

// Format renders the permutation as a wiring string over a.
// The alphabet must have the same size as the permutation.
func (p *Permutation) Format(a *Alphabet) string {
	var b strings.Builder
	for _, x := range p.table {
		b.WriteRune(a.symbol(x))
	}
	return b.String()
}

// at is the unchecked form of Apply for the rotor hot path.
func (p *Permutation) at(i int) int {
	return p.table[i]
}
