package machine

import (
	"errors"
	"fmt"

	"github.com/roach88/enigma/internal/cipher"
)

// ErrCodeInvalidTransition is the error code reported for TransitionError.
const ErrCodeInvalidTransition = "INVALID_STATE_TRANSITION"

// TransitionError reports an operation that is not valid in the machine's
// current state: releasing while Idle, releasing a key that is not the one
// held down, or pressing a second key while one is already down.
type TransitionError struct {
	// Op is the rejected operation ("press", "release", "type").
	Op string

	// From is the state the machine was in.
	From State

	// Letter is the letter the caller passed.
	Letter rune

	// Down is the letter currently held, 0 when Idle.
	Down rune
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	if e.From == KeyDown {
		return fmt.Sprintf("%s: cannot %s %q while %q is down", ErrCodeInvalidTransition, e.Op, e.Letter, e.Down)
	}
	return fmt.Sprintf("%s: cannot %s %q while %s", ErrCodeInvalidTransition, e.Op, e.Letter, e.From)
}

// IsTransitionError returns true if err is a TransitionError.
// Uses errors.As to handle wrapped errors.
func IsTransitionError(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}

// ErrorCode returns the stable code for any error the machine can return:
// the cipher error code, INVALID_STATE_TRANSITION, or "" for anything else.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if IsTransitionError(err) {
		return ErrCodeInvalidTransition
	}
	return string(cipher.CodeOf(err))
}
