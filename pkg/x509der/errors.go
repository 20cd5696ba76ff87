package x509der

import (
	"errors"
	"fmt"
)

// Error represents a certificate or CRL encoding error with structured context.
// It supports errors.Is() and errors.As() for improved error handling.
type Error struct {
	Op    string // Operation: "tbs", "crl", "name", "extension", "assemble", "build"
	Field string // Field being encoded (if applicable)
	Err   error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("x509der %s [%s]: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("x509der %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error { return e.Err }

// NewError creates a new Error with the given operation and error.
func NewError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

// NewFieldError creates a new Error for a specific field.
func NewFieldError(op string, field Field, err error) *Error {
	return &Error{Op: op, Field: field.String(), Err: err}
}

// Sentinel errors for certificate encoding.
var (
	// ErrMissingField indicates a required field was not set.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidField indicates a field value that cannot be encoded as given.
	ErrInvalidField = errors.New("invalid field value")
)
