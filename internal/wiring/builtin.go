package wiring

import (
	"fmt"
	"sort"

	"github.com/unixpickle/essentials"

	"github.com/roach88/enigma/internal/cipher"
	"github.com/roach88/enigma/internal/machine"
)

// DefaultName is the reference wiring set: rotors I, II, III with reflector B.
const DefaultName = "enigma-i"

// Set is one machine's wiring.
type Set struct {
	// Name identifies the set in CLI output.
	Name string `json:"name,omitempty"`

	// Alphabet is the ordered symbol set. Empty means cipher.Latin.
	Alphabet string `json:"alphabet,omitempty"`

	// Rotors are wiring strings, slowest rotor first.
	Rotors []string `json:"rotors"`

	// Reflector is the reflector wiring string.
	Reflector string `json:"reflector"`
}

var builtins = map[string]Set{
	"enigma-i": {
		Name: "enigma-i",
		Rotors: []string{
			"EKMFLGDQVZNTOWYHXUSPAIBRCJ", // I
			"AJDKSIRUXBLHWTMCQGZNPYFVOE", // II
			"BDFHJLCPRTXVZNYEIWGAKMUSQO", // III
		},
		Reflector: "YRUHQSLDPXNGOKMIEBFZCWVJAT", // B
	},
	"enigma-i-c": {
		Name: "enigma-i-c",
		Rotors: []string{
			"ESOVPZJAYQUIRHXLNFTGKDCMWB", // IV
			"VZBRGITYUPSDNHLXAWMJQOFECK", // V
			"BDFHJLCPRTXVZNYEIWGAKMUSQO", // III
		},
		Reflector: "FVPJIAOYEDRZXWGCTKUQSBNMHL", // C
	},
}

// Lookup returns the built-in set called name.
func Lookup(name string) (Set, bool) {
	s, ok := builtins[name]
	if !ok {
		return Set{}, false
	}
	return s.clone(), true
}

// Names returns the built-in set names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the reference set.
func Default() Set {
	s, _ := Lookup(DefaultName)
	return s
}

// AlphabetOrLatin returns the set's alphabet definition, defaulting to A-Z.
func (s Set) AlphabetOrLatin() string {
	if s.Alphabet == "" {
		return cipher.Latin
	}
	return s.Alphabet
}

// Validate checks that the alphabet is well formed and every wiring is a
// bijection over it. Returns the first INVALID_WIRING error found.
func (s Set) Validate() error {
	a, err := cipher.NewAlphabet(s.AlphabetOrLatin())
	if err != nil {
		return err
	}
	if len(s.Rotors) == 0 {
		return cipher.NewInvalidWiringError("set %q has no rotors", s.Name)
	}
	for i, w := range s.Rotors {
		if _, err := cipher.ParsePermutation(a, w); err != nil {
			return fmt.Errorf("rotor %d: %w", i, err)
		}
	}
	if _, err := cipher.ParsePermutation(a, s.Reflector); err != nil {
		return fmt.Errorf("reflector: %w", err)
	}
	return nil
}

// Diagnostics reports properties of a valid set that are legal but unusual,
// such as a reflector that is not an involution (encryption is then no longer
// reciprocal) or one with fixed points.
func (s Set) Diagnostics() ([]string, error) {
	a, err := cipher.NewAlphabet(s.AlphabetOrLatin())
	if err != nil {
		return nil, err
	}
	p, err := cipher.ParsePermutation(a, s.Reflector)
	if err != nil {
		return nil, err
	}

	var notes []string
	if !p.IsInvolution() {
		notes = append(notes, "reflector is not an involution: decryption needs a different machine")
	}
	for _, i := range p.FixedPoints() {
		sym, _ := a.Symbol(i)
		notes = append(notes, fmt.Sprintf("reflector maps %q to itself", sym))
	}
	return notes, nil
}

// NewMachine builds a fresh Machine with this wiring.
func (s Set) NewMachine(opts ...machine.Option) (*machine.Machine, error) {
	a, err := cipher.NewAlphabet(s.AlphabetOrLatin())
	if err != nil {
		return nil, err
	}
	return machine.New(a, s.Rotors, s.Reflector, opts...)
}

// MustMachine is NewMachine for sets known to be valid, such as the built-ins.
// Panics on error.
func (s Set) MustMachine(opts ...machine.Option) *machine.Machine {
	m, err := s.NewMachine(opts...)
	essentials.Must(err)
	return m
}

func (s Set) clone() Set {
	c := s
	c.Rotors = append([]string(nil), s.Rotors...)
	return c
}
