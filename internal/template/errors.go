// Package template loads YAML certificate templates and turns them into
// TBSCertificate values ready for encoding.
package template

import (
	"errors"
	"fmt"
)

// TemplateError represents a template operation error with structured context.
// It supports errors.Is() and errors.As() for improved error handling.
type TemplateError struct {
	Source string // File path, or empty for in-memory templates
	Err    error
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("template %q: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("template: %v", e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *TemplateError) Unwrap() error { return e.Err }

// NewTemplateError creates a new TemplateError.
func NewTemplateError(source string, err error) *TemplateError {
	return &TemplateError{Source: source, Err: err}
}

// ValidationError represents a specific validation failure within a template.
type ValidationError struct {
	Field   string // YAML path of the field, e.g. "validity.not_after"
	Value   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("validation failed for %s=%q: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap ties every validation failure to ErrInvalidTemplate.
func (e *ValidationError) Unwrap() error { return ErrInvalidTemplate }

// NewValidationError creates a new ValidationError.
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

var (
	// ErrInvalidTemplate indicates the template content is invalid.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrMalformedTemplate indicates the template is not well-formed YAML.
	ErrMalformedTemplate = errors.New("malformed template")

	// ErrWildcardNotAllowed indicates a wildcard DNS name rejected by policy.
	ErrWildcardNotAllowed = errors.New("wildcard not allowed")
)
