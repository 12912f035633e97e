// Package machine implements the rotor machine state machine.
//
// A Machine owns an ordered list of rotors (slowest first, fastest last) and a
// reflector, and moves between two states:
//
//	Idle --KeyPressed(x)--> KeyDown(x) --KeyReleased(x)--> Idle
//
// KeyPressed performs one keystroke:
//  1. Advance the rotors like an odometer. The fastest rotor always moves;
//     each carry moves the next slower rotor; the slowest rotor wraps with no
//     further propagation.
//  2. Thread the key's index through every rotor forward (fast to slow), the
//     reflector, then every rotor backward (slow to fast), using the offsets
//     captured after step 1.
//  3. Light the lamp for the resulting symbol.
//
// CRITICAL: every public mutating operation validates its input and the
// current state before touching anything. A rejected call returns an error,
// leaves offsets, pressed keys and lamps unchanged, and does not notify
// observers.
//
// Observers are notified synchronously, in registration order, after each
// successful mutation. An observer must not call a mutating method from
// inside Update.
//
// Thread-safety: a Machine is not safe for concurrent use. It assumes one
// logical caller, typically a single keyboard or CLI loop.
package machine
