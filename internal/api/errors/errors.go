// Package errors provides error handling and HTTP status code mapping.
package errors

import (
	"errors"
	"net/http"

	"github.com/remiblancher/qder/internal/api/dto"
	"github.com/remiblancher/qder/internal/codec"
	"github.com/remiblancher/qder/internal/keys"
	"github.com/remiblancher/qder/internal/template"
	"github.com/remiblancher/qder/pkg/bitpack"
	"github.com/remiblancher/qder/pkg/der"
	"github.com/remiblancher/qder/pkg/oid"
	"github.com/remiblancher/qder/pkg/x509der"
)

// Error codes for API responses.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidOID      = "INVALID_OID"
	CodeInvalidTemplate = "INVALID_TEMPLATE"
	CodeInvalidWidth    = "INVALID_WIDTH"
	CodeEncoding        = "ENCODING_ERROR"
	CodeUnsupportedKey  = "UNSUPPORTED_ALGORITHM"
	CodeKeyMismatch     = "KEY_MISMATCH"
	CodeInternal        = "INTERNAL_ERROR"
)

var oidErrors = []error{
	oid.ErrMalformed,
	oid.ErrTooFewArcs,
	oid.ErrArcRange,
	oid.ErrNonCanonical,
	oid.ErrTruncated,
	oid.ErrEmpty,
}

var derErrors = []error{
	der.ErrInvalidTag,
	der.ErrInvalidLength,
	der.ErrInvalidString,
	der.ErrInvalidTime,
	der.ErrInvalidValue,
	der.ErrUnsupported,
	der.ErrTruncated,
	der.ErrMalformed,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// MapError maps an internal error to an HTTP status code and APIError.
func MapError(err error) (int, *dto.APIError) {
	if err == nil {
		return http.StatusOK, nil
	}

	// Template field errors carry the offending field
	var ve *template.ValidationError
	if errors.As(err, &ve) {
		details := map[string]string{"field": ve.Field}
		if ve.Value != "" {
			details["value"] = ve.Value
		}
		return http.StatusUnprocessableEntity, NewValidationError(err.Error(), details)
	}

	switch {
	case errors.Is(err, template.ErrMalformedTemplate):
		return http.StatusBadRequest, &dto.APIError{
			Code:    CodeInvalidTemplate,
			Message: err.Error(),
		}
	case errors.Is(err, template.ErrWildcardNotAllowed):
		return http.StatusUnprocessableEntity, &dto.APIError{
			Code:    CodeValidation,
			Message: err.Error(),
		}
	case errors.Is(err, codec.ErrUnknownFormat),
		errors.Is(err, codec.ErrInvalidInput),
		errors.Is(err, codec.ErrTrailingData):
		return http.StatusBadRequest, NewBadRequest(err.Error())
	case errors.Is(err, codec.ErrNoSigningKey),
		errors.Is(err, codec.ErrSignatureMismatch):
		return http.StatusUnprocessableEntity, &dto.APIError{
			Code:    CodeKeyMismatch,
			Message: err.Error(),
		}
	case errors.Is(err, keys.ErrUnsupportedAlgorithm):
		return http.StatusBadRequest, &dto.APIError{
			Code:    CodeUnsupportedKey,
			Message: err.Error(),
		}
	case errors.Is(err, bitpack.ErrInvalidWidth):
		return http.StatusBadRequest, &dto.APIError{
			Code:    CodeInvalidWidth,
			Message: err.Error(),
		}
	case isAny(err, oidErrors):
		return http.StatusBadRequest, &dto.APIError{
			Code:    CodeInvalidOID,
			Message: err.Error(),
		}
	case errors.Is(err, x509der.ErrMissingField),
		errors.Is(err, x509der.ErrInvalidField):
		return http.StatusUnprocessableEntity, &dto.APIError{
			Code:    CodeValidation,
			Message: err.Error(),
		}
	case isAny(err, derErrors):
		return http.StatusUnprocessableEntity, &dto.APIError{
			Code:    CodeEncoding,
			Message: err.Error(),
		}
	}

	// Default internal error
	return http.StatusInternalServerError, &dto.APIError{
		Code:    CodeInternal,
		Message: "An internal error occurred",
	}
}

// NewBadRequest creates a bad request error.
func NewBadRequest(message string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeInvalidRequest,
		Message: message,
	}
}

// NewNotFound creates a not found error.
func NewNotFound(resource, id string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeNotFound,
		Message: resource + " not found",
		Details: map[string]string{"id": id},
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, details map[string]string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeValidation,
		Message: message,
		Details: details,
	}
}
