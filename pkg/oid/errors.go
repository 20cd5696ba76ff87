package oid

import (
	"errors"
	"fmt"
)

// Error represents an object identifier construction or decoding error.
// It supports errors.Is() and errors.As() for improved error handling.
type Error struct {
	Op    string // Operation: "parse", "arcs", "der", "element", "text", "cbor"
	Input string // Offending input, dotted or hex (if applicable)
	Err   error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("oid %s %q: %v", e.Op, e.Input, e.Err)
	}
	return fmt.Sprintf("oid %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error { return e.Err }

// NewError creates a new Error with the given operation, input and error.
func NewError(op, input string, err error) *Error {
	return &Error{Op: op, Input: input, Err: err}
}

// Sentinel errors for object identifier operations.
var (
	// ErrMalformed indicates dotted text that is not a sequence of decimal arcs.
	ErrMalformed = errors.New("malformed object identifier")

	// ErrTooFewArcs indicates fewer than two arcs.
	ErrTooFewArcs = errors.New("object identifier needs at least two arcs")

	// ErrArcRange indicates a first arc above 2, a second arc of 40 or more
	// under first arc 0 or 1, or a negative arc.
	ErrArcRange = errors.New("arc out of range")

	// ErrNonCanonical indicates a base-128 run with a redundant leading 0x80 group.
	ErrNonCanonical = errors.New("non-canonical base-128 encoding")

	// ErrTruncated indicates encoded content whose last run is unterminated,
	// or an element whose declared length exceeds the input.
	ErrTruncated = errors.New("truncated object identifier")

	// ErrEmpty indicates empty encoded content.
	ErrEmpty = errors.New("empty object identifier")

	// ErrAlreadySet indicates an unmarshal into an identifier that already
	// holds a value.
	ErrAlreadySet = errors.New("object identifier already set")
)
