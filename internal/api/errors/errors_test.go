package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/remiblancher/qder/internal/codec"
	"github.com/remiblancher/qder/internal/keys"
	"github.com/remiblancher/qder/internal/template"
	"github.com/remiblancher/qder/pkg/bitpack"
	"github.com/remiblancher/qder/pkg/der"
	"github.com/remiblancher/qder/pkg/oid"
	"github.com/remiblancher/qder/pkg/x509der"
)

func TestU_MapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"oid arc range", oid.NewError("parse", "3.1", oid.ErrArcRange), http.StatusBadRequest, CodeInvalidOID},
		{"oid empty", oid.NewError("der", "", oid.ErrEmpty), http.StatusBadRequest, CodeInvalidOID},
		{"oid element wraps der", oid.NewError("element", "", fmt.Errorf("%w: %w", oid.ErrTruncated, der.ErrTruncated)), http.StatusBadRequest, CodeInvalidOID},
		{"der string", der.NewDERError("string", der.ErrInvalidString), http.StatusUnprocessableEntity, CodeEncoding},
		{"der unsupported", der.NewDERError("bitstring", der.ErrUnsupported), http.StatusUnprocessableEntity, CodeEncoding},
		{"bit width", fmt.Errorf("input %w: 9", bitpack.ErrInvalidWidth), http.StatusBadRequest, CodeInvalidWidth},
		{"unknown format", fmt.Errorf("%w: xml", codec.ErrUnknownFormat), http.StatusBadRequest, CodeInvalidRequest},
		{"trailing data", codec.ErrTrailingData, http.StatusBadRequest, CodeInvalidRequest},
		{"no signing key", codec.ErrNoSigningKey, http.StatusUnprocessableEntity, CodeKeyMismatch},
		{"signature mismatch", codec.ErrSignatureMismatch, http.StatusUnprocessableEntity, CodeKeyMismatch},
		{"key algorithm", fmt.Errorf("%w: rsa", keys.ErrUnsupportedAlgorithm), http.StatusBadRequest, CodeUnsupportedKey},
		{"malformed yaml", template.NewTemplateError("", fmt.Errorf("%w: bad", template.ErrMalformedTemplate)), http.StatusBadRequest, CodeInvalidTemplate},
		{"wildcard", fmt.Errorf("%w: *.com", template.ErrWildcardNotAllowed), http.StatusUnprocessableEntity, CodeValidation},
		{"missing field", x509der.NewFieldError("tbs", x509der.FieldSubject, x509der.ErrMissingField), http.StatusUnprocessableEntity, CodeValidation},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, apiErr := MapError(tt.err)
			if status != tt.status || apiErr.Code != tt.code {
				t.Errorf("MapError() = %d %s, want %d %s", status, apiErr.Code, tt.status, tt.code)
			}
		})
	}
}

func TestU_MapError_Nil(t *testing.T) {
	status, apiErr := MapError(nil)
	if status != http.StatusOK || apiErr != nil {
		t.Errorf("MapError(nil) = %d %v", status, apiErr)
	}
}

func TestU_MapError_ValidationDetails(t *testing.T) {
	err := template.NewTemplateError("t.yaml", template.NewValidationError("serial", "-5", "must be positive"))
	status, apiErr := MapError(err)
	if status != http.StatusUnprocessableEntity || apiErr.Code != CodeValidation {
		t.Fatalf("MapError() = %d %s", status, apiErr.Code)
	}
	if apiErr.Details["field"] != "serial" || apiErr.Details["value"] != "-5" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestU_MapError_InternalHidesMessage(t *testing.T) {
	_, apiErr := MapError(errors.New("audit log failed: disk full"))
	if apiErr.Message != "An internal error occurred" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}
