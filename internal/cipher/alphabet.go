package cipher

// Latin is the 26-letter uppercase alphabet used by every built-in wiring set.
// Position 0 is 'A', position 25 is 'Z'.
const Latin = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Alphabet is an immutable ordered set of distinct symbols.
//
// The index of a symbol is its position in the definition string. Wiring
// tables are written as per-position target symbols, so this correspondence
// must never change for the lifetime of a machine.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// NewAlphabet creates an Alphabet from its ordered symbols.
// Returns INVALID_WIRING if symbols is empty or contains a duplicate.
func NewAlphabet(symbols string) (*Alphabet, error) {
	runes := []rune(symbols)
	if len(runes) == 0 {
		return nil, NewInvalidWiringError("alphabet is empty")
	}

	index := make(map[rune]int, len(runes))
	for i, r := range runes {
		if prev, dup := index[r]; dup {
			return nil, NewInvalidWiringError("alphabet symbol %q appears at %d and %d", r, prev, i)
		}
		index[r] = i
	}

	return &Alphabet{symbols: runes, index: index}, nil
}

// LatinAlphabet returns a fresh A-Z alphabet.
func LatinAlphabet() *Alphabet {
	a, err := NewAlphabet(Latin)
	if err != nil {
		// Latin is a constant with 26 distinct letters.
		panic(err)
	}
	return a
}

// Size returns the number of symbols.
func (a *Alphabet) Size() int {
	return len(a.symbols)
}

// Index returns the position of r.
func (a *Alphabet) Index(r rune) (int, error) {
	i, ok := a.index[r]
	if !ok {
		return 0, NewUnknownSymbolError(r)
	}
	return i, nil
}

// Contains reports whether r is part of the alphabet.
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// Symbol returns the symbol at position i.
func (a *Alphabet) Symbol(i int) (rune, error) {
	if i < 0 || i >= len(a.symbols) {
		return 0, NewIndexError("alphabet index", i, len(a.symbols))
	}
	return a.symbols[i], nil
}

// String returns the alphabet definition.
func (a *Alphabet) String() string {
	return string(a.symbols)
}

// symbol is the unchecked form of Symbol for indices already known to be valid.
func (a *Alphabet) symbol(i int) rune {
	return a.symbols[i]
}
