// Package der implements a Distinguished Encoding Rules (X.690) serializer.
package der

import (
	"errors"
	"fmt"
)

// DERError represents a DER encoding or framing error with structured context.
// It supports errors.Is() and errors.As() for improved error handling.
type DERError struct {
	Op  string // Operation: "tag", "length", "tagged", "implicit", "string", "time", "element", ...
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *DERError) Error() string {
	return fmt.Sprintf("der %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *DERError) Unwrap() error { return e.Err }

// NewDERError creates a new DERError with the given operation and error.
func NewDERError(op string, err error) *DERError {
	return &DERError{Op: op, Err: err}
}

// Sentinel errors for DER operations.
// Use errors.Is() to check for these errors through the error chain.
var (
	// ErrInvalidTag indicates a tag class or number that cannot be encoded.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrInvalidLength indicates a length outside 0..2^32-1.
	ErrInvalidLength = errors.New("invalid length")

	// ErrInvalidString indicates text that is not representable in the target string type.
	ErrInvalidString = errors.New("invalid string value")

	// ErrInvalidTime indicates a timestamp outside the range of the target time type.
	ErrInvalidTime = errors.New("invalid time value")

	// ErrInvalidValue indicates a nil or otherwise unusable value.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnsupported indicates a feature deliberately not implemented by this encoder.
	ErrUnsupported = errors.New("unsupported")

	// ErrTruncated indicates a declared length that exceeds the available input.
	ErrTruncated = errors.New("truncated element")

	// ErrMalformed indicates input that is not a well-formed DER element.
	ErrMalformed = errors.New("malformed element")
)
