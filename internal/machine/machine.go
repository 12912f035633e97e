package machine

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/roach88/enigma/internal/cipher"
)

// State is the keyboard state of a Machine.
type State int

const (
	// Idle means no key is held down and no lamp is lit.
	Idle State = iota

	// KeyDown means exactly one key is held down and its output lamp is lit.
	KeyDown
)

// String returns the lower-case state name used in traces and scenarios.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case KeyDown:
		return "key_down"
	default:
		return "unknown"
	}
}

// Machine is the rotor machine.
//
// INVARIANTS:
//   - rotors order NEVER changes after construction (slowest first)
//   - rotors and reflector are built by New and never shared with another Machine
//   - at most one lamp is lit, and only in KeyDown
//   - pressed holds exactly the key in down while in KeyDown, nothing while Idle
type Machine struct {
	alphabet  *cipher.Alphabet
	rotors    []*cipher.Rotor
	reflector *cipher.Reflector

	state   State
	down    rune
	pressed map[rune]bool
	lit     map[rune]bool
	last    Action

	observers []Observer
	logger    *slog.Logger

	positions string // initial positions from WithPositions, applied by New
}

// Option configures a Machine at construction.
type Option func(*Machine)

// WithPositions sets the starting rotor letters, slowest first (e.g. "QEV").
// Invalid positions make New fail.
func WithPositions(positions string) Option {
	return func(m *Machine) {
		m.positions = positions
	}
}

// WithObserver registers an observer at construction.
func WithObserver(o Observer) Option {
	return func(m *Machine) {
		m.observers = append(m.observers, o)
	}
}

// WithLogger sets the logger used for rejected-operation diagnostics.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// New builds a Machine from wiring strings over alphabet.
//
// rotorWirings are ordered slowest first; the last entry is the fast rotor.
// Every rotor and the reflector are constructed here, so a Machine never
// shares mutable state with another one.
//
// Returns INVALID_WIRING if there are no rotors or any wiring is not a
// bijection over the alphabet. No partially built Machine is returned.
func New(alphabet *cipher.Alphabet, rotorWirings []string, reflectorWiring string, opts ...Option) (*Machine, error) {
	if len(rotorWirings) == 0 {
		return nil, cipher.NewInvalidWiringError("machine needs at least one rotor")
	}

	rotors := make([]*cipher.Rotor, len(rotorWirings))
	for i, w := range rotorWirings {
		p, err := cipher.ParsePermutation(alphabet, w)
		if err != nil {
			return nil, err
		}
		rotors[i] = cipher.NewRotor(p)
	}

	rp, err := cipher.ParsePermutation(alphabet, reflectorWiring)
	if err != nil {
		return nil, err
	}

	m := &Machine{
		alphabet:  alphabet,
		rotors:    rotors,
		reflector: cipher.NewReflector(rp),
		state:     Idle,
		pressed:   make(map[rune]bool),
		lit:       make(map[rune]bool),
		last:      Action{Rotor: NoRotor},
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.positions != "" {
		offsets, err := m.parsePositions(m.positions)
		if err != nil {
			return nil, err
		}
		m.applyOffsets(offsets)
	}

	return m, nil
}

// AddObserver registers o. Observers are notified in registration order.
func (m *Machine) AddObserver(o Observer) {
	m.observers = append(m.observers, o)
}

// KeyPressed handles a key going down. Valid only while Idle.
//
// Returns UNKNOWN_SYMBOL for a letter outside the alphabet and
// INVALID_STATE_TRANSITION if a key is already down. On error nothing changes.
func (m *Machine) KeyPressed(letter rune) error {
	idx, err := m.alphabet.Index(letter)
	if err != nil {
		return m.reject("press", letter, err)
	}
	if m.state != Idle {
		return m.reject("press", letter, &TransitionError{Op: "press", From: m.state, Letter: letter, Down: m.down})
	}

	m.pressed[letter] = true
	m.step()
	out := m.symbol(m.encipher(idx))
	m.lit[out] = true
	m.down = letter
	m.state = KeyDown
	m.last = Action{Kind: ActionPress, Letter: letter, Rotor: NoRotor}

	m.notify()
	return nil
}

// KeyReleased handles a key coming up. Valid only while letter is the key down.
//
// Every lamp is switched off, not just the one lit by this key.
func (m *Machine) KeyReleased(letter rune) error {
	if _, err := m.alphabet.Index(letter); err != nil {
		return m.reject("release", letter, err)
	}
	if m.state != KeyDown || m.down != letter {
		return m.reject("release", letter, &TransitionError{Op: "release", From: m.state, Letter: letter, Down: m.down})
	}

	delete(m.pressed, letter)
	clear(m.lit)
	m.down = 0
	m.state = Idle
	m.last = Action{Kind: ActionRelease, Letter: letter, Rotor: NoRotor}

	m.notify()
	return nil
}

// RotorClicked advances exactly the rotor at index by one position, with no
// carry and no encryption. Used for manual ring setting.
// Allowed in either state; a lit lamp stays lit.
func (m *Machine) RotorClicked(index int) error {
	if index < 0 || index >= len(m.rotors) {
		return m.reject("click", 0, cipher.NewIndexError("rotor index", index, len(m.rotors)))
	}

	m.rotors[index].Advance()
	m.last = Action{Kind: ActionClick, Rotor: index}

	m.notify()
	return nil
}

// SetPositions moves every rotor to the given letters, slowest first.
// Equivalent to clicking each rotor until it shows the letter, but notifies
// observers once. The whole string is validated before any rotor moves.
func (m *Machine) SetPositions(positions string) error {
	offsets, err := m.parsePositions(positions)
	if err != nil {
		return m.reject("set", 0, err)
	}

	m.applyOffsets(offsets)
	m.last = Action{Kind: ActionSet, Rotor: NoRotor}

	m.notify()
	return nil
}

// Type presses and releases each symbol of text in turn and returns the lit
// letters. It stops at the first rejected symbol and returns the output
// produced so far together with the error; the rejected symbol has no effect.
func (m *Machine) Type(text string) (string, error) {
	if m.state != Idle {
		return "", m.reject("type", 0, &TransitionError{Op: "type", From: m.state, Down: m.down})
	}

	var out strings.Builder
	for _, r := range text {
		if err := m.KeyPressed(r); err != nil {
			return out.String(), err
		}
		lit, _ := m.Lit()
		out.WriteRune(lit)
		if err := m.KeyReleased(r); err != nil {
			return out.String(), err
		}
	}
	return out.String(), nil
}

// Encrypt returns the letter that would light at the current offsets,
// without advancing anything. It is a pure function of letter and offsets.
func (m *Machine) Encrypt(letter rune) (rune, error) {
	idx, err := m.alphabet.Index(letter)
	if err != nil {
		return 0, err
	}
	return m.symbol(m.encipher(idx)), nil
}

// IsKeyDown reports whether letter is currently pressed.
func (m *Machine) IsKeyDown(letter rune) bool {
	return m.pressed[letter]
}

// IsLampOn reports whether the lamp for letter is lit.
func (m *Machine) IsLampOn(letter rune) bool {
	return m.lit[letter]
}

// RotorLetter returns the letter showing in the window of rotor index.
func (m *Machine) RotorLetter(index int) (rune, error) {
	if index < 0 || index >= len(m.rotors) {
		return 0, cipher.NewIndexError("rotor index", index, len(m.rotors))
	}
	return m.symbol(m.rotors[index].Offset()), nil
}

// Positions returns every rotor letter, slowest first.
func (m *Machine) Positions() string {
	var b strings.Builder
	for _, r := range m.rotors {
		b.WriteRune(m.symbol(r.Offset()))
	}
	return b.String()
}

// Offsets returns a copy of every rotor offset, slowest first.
func (m *Machine) Offsets() []int {
	offsets := make([]int, len(m.rotors))
	for i, r := range m.rotors {
		offsets[i] = r.Offset()
	}
	return offsets
}

// State returns the keyboard state.
func (m *Machine) State() State {
	return m.state
}

// Lit returns the lit lamp, if any.
func (m *Machine) Lit() (rune, bool) {
	for r := range m.lit {
		return r, true
	}
	return 0, false
}

// Pressed returns the key held down, if any.
func (m *Machine) Pressed() (rune, bool) {
	if m.state != KeyDown {
		return 0, false
	}
	return m.down, true
}

// LastAction returns the last successful mutating operation.
func (m *Machine) LastAction() Action {
	return m.last
}

// RotorCount returns the number of rotors.
func (m *Machine) RotorCount() int {
	return len(m.rotors)
}

// Alphabet returns the machine's alphabet.
func (m *Machine) Alphabet() *cipher.Alphabet {
	return m.alphabet
}

// Snapshot is a comparable copy of the observable machine state.
type Snapshot struct {
	State     State
	Positions string
	Pressed   string // pressed symbols in alphabet order
	Lit       string // lit symbols in alphabet order
}

// Snapshot captures the observable state.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		State:     m.state,
		Positions: m.Positions(),
		Pressed:   m.sortedSymbols(m.pressed),
		Lit:       m.sortedSymbols(m.lit),
	}
}

// step advances the rotors with odometer carry, fastest rotor last in the slice.
func (m *Machine) step() {
	for i := len(m.rotors) - 1; i >= 0; i-- {
		if !m.rotors[i].Advance() {
			return
		}
	}
}

// encipher runs the full path: rotors forward fast to slow, reflector,
// rotors backward slow to fast.
func (m *Machine) encipher(idx int) int {
	for i := len(m.rotors) - 1; i >= 0; i-- {
		idx = m.rotors[i].Forward(idx)
	}
	idx = m.reflector.Reflect(idx)
	for i := 0; i < len(m.rotors); i++ {
		idx = m.rotors[i].Backward(idx)
	}
	return idx
}

func (m *Machine) parsePositions(positions string) ([]int, error) {
	runes := []rune(positions)
	if len(runes) != len(m.rotors) {
		return nil, &cipher.Error{
			Code:    cipher.ErrCodeIndexOutOfRange,
			Message: fmt.Sprintf("positions %q name %d rotors, machine has %d", positions, len(runes), len(m.rotors)),
			Index:   len(runes),
			Limit:   len(m.rotors),
		}
	}
	offsets := make([]int, len(runes))
	for i, r := range runes {
		idx, err := m.alphabet.Index(r)
		if err != nil {
			return nil, err
		}
		offsets[i] = idx
	}
	return offsets, nil
}

// applyOffsets sets already validated offsets.
func (m *Machine) applyOffsets(offsets []int) {
	for i, o := range offsets {
		_ = m.rotors[i].SetOffset(o)
	}
}

func (m *Machine) symbol(idx int) rune {
	r, err := m.alphabet.Symbol(idx)
	if err != nil {
		// Rotor and reflector outputs are always in [0, N).
		panic(err)
	}
	return r
}

func (m *Machine) sortedSymbols(set map[rune]bool) string {
	idx := make([]int, 0, len(set))
	for r, on := range set {
		if !on {
			continue
		}
		i, err := m.alphabet.Index(r)
		if err != nil {
			continue
		}
		idx = append(idx, i)
	}
	sort.Ints(idx)

	var b strings.Builder
	for _, i := range idx {
		b.WriteRune(m.symbol(i))
	}
	return b.String()
}

func (m *Machine) notify() {
	for _, o := range m.observers {
		o.Update()
	}
}

func (m *Machine) reject(op string, letter rune, err error) error {
	m.logger.Debug("operation rejected",
		"op", op,
		"letter", string(letter),
		"state", m.state.String(),
		"error", err,
	)
	return err
}
