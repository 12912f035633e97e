package cipher

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes cipher errors.
type ErrorCode string

const (
	// ErrCodeInvalidWiring indicates a wiring table is not a bijection over
	// the alphabet index space.
	ErrCodeInvalidWiring ErrorCode = "INVALID_WIRING"

	// ErrCodeIndexOutOfRange indicates an index outside [0, N).
	ErrCodeIndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE"

	// ErrCodeUnknownSymbol indicates a symbol that is not part of the alphabet.
	ErrCodeUnknownSymbol ErrorCode = "UNKNOWN_SYMBOL"
)

// Error is a structured cipher error.
//
// Symbol and Index are only meaningful for the codes that use them:
// UNKNOWN_SYMBOL sets Symbol, INDEX_OUT_OF_RANGE sets Index and Limit.
type Error struct {
	Code    ErrorCode
	Message string
	Symbol  rune
	Index   int
	Limit   int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidWiringError creates an INVALID_WIRING error.
func NewInvalidWiringError(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidWiring,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewIndexError creates an INDEX_OUT_OF_RANGE error for index against [0, limit).
func NewIndexError(what string, index, limit int) *Error {
	return &Error{
		Code:    ErrCodeIndexOutOfRange,
		Message: fmt.Sprintf("%s %d out of range [0,%d)", what, index, limit),
		Index:   index,
		Limit:   limit,
	}
}

// NewUnknownSymbolError creates an UNKNOWN_SYMBOL error.
func NewUnknownSymbolError(r rune) *Error {
	return &Error{
		Code:    ErrCodeUnknownSymbol,
		Message: fmt.Sprintf("symbol %q is not in the alphabet", r),
		Symbol:  r,
	}
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not a cipher error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsInvalidWiring returns true if err is an INVALID_WIRING error.
func IsInvalidWiring(err error) bool {
	return CodeOf(err) == ErrCodeInvalidWiring
}

// IsIndexOutOfRange returns true if err is an INDEX_OUT_OF_RANGE error.
func IsIndexOutOfRange(err error) bool {
	return CodeOf(err) == ErrCodeIndexOutOfRange
}

// IsUnknownSymbol returns true if err is an UNKNOWN_SYMBOL error.
func IsUnknownSymbol(err error) bool {
	return CodeOf(err) == ErrCodeUnknownSymbol
}
