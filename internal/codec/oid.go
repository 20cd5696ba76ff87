package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/remiblancher/qder/internal/audit"
	"github.com/remiblancher/qder/pkg/oid"
)

// Mode selects the byte form of an encoded OID.
type Mode string

const (
	// ModeContent is the bare base-128 content octets.
	ModeContent Mode = "content"
	// ModeElement is a complete DER element with tag 0x06 and length.
	ModeElement Mode = "element"
	// ModeCBOR is RFC 9090 CBOR tag 111 around the content octets.
	ModeCBOR Mode = "cbor"
)

// ParseMode parses a mode name. Empty means content.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeContent, nil
	case ModeContent, ModeElement, ModeCBOR:
		return m, nil
	}
	return "", fmt.Errorf("%w: mode %q", ErrUnknownFormat, s)
}

// OIDResult is an OID with its encoded form.
type OIDResult struct {
	OID   *oid.ObjectIdentifier
	Name  string // registry name, empty if unknown
	Mode  Mode
	Bytes []byte
}

func newOIDResult(o *oid.ObjectIdentifier, mode Mode, b []byte) *OIDResult {
	name, _ := oid.Name(o)
	return &OIDResult{OID: o, Name: name, Mode: mode, Bytes: b}
}

// EncodeOID encodes a dotted OID or registry name.
func EncodeOID(s string, mode Mode) (*OIDResult, error) {
	res, err := encodeOID(s, mode)
	if err != nil {
		if aerr := audit.LogOIDEncoded(s, string(mode), 0, false); aerr != nil {
			return nil, aerr
		}
		return nil, err
	}
	if err := audit.LogOIDEncoded(res.OID.String(), string(mode), len(res.Bytes), true); err != nil {
		return nil, err
	}
	return res, nil
}

func encodeOID(s string, mode Mode) (*OIDResult, error) {
	o, err := oid.Resolve(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	var b []byte
	switch mode {
	case ModeContent, "":
		mode, b = ModeContent, o.Bytes()
	case ModeElement:
		b, err = o.MarshalDER()
	case ModeCBOR:
		b, err = o.MarshalCBOR()
	default:
		return nil, fmt.Errorf("%w: mode %q", ErrUnknownFormat, mode)
	}
	if err != nil {
		return nil, err
	}
	return newOIDResult(o, mode, b), nil
}

// DecodeOID decodes data in the given mode. Element and CBOR input must be
// a single item with nothing after it.
func DecodeOID(data []byte, mode Mode) (*OIDResult, error) {
	res, err := decodeOID(data, mode)
	if err != nil {
		if aerr := audit.LogOIDDecoded("", len(data), false, decodeFailure(err)); aerr != nil {
			return nil, aerr
		}
		return nil, err
	}
	if err := audit.LogOIDDecoded(res.OID.String(), len(data), true, ""); err != nil {
		return nil, err
	}
	return res, nil
}

// decodeFailures are the error classes recorded in the audit log. Full
// error messages may quote the input bytes.
var decodeFailures = []error{
	oid.ErrEmpty,
	oid.ErrTruncated,
	oid.ErrNonCanonical,
	oid.ErrArcRange,
	oid.ErrTooFewArcs,
	oid.ErrMalformed,
	ErrTrailingData,
	ErrUnknownFormat,
}

func decodeFailure(err error) string {
	for _, class := range decodeFailures {
		if errors.Is(err, class) {
			return class.Error()
		}
	}
	return "decode failed"
}

func decodeOID(data []byte, mode Mode) (*OIDResult, error) {
	switch mode {
	case ModeContent, "":
		o, err := oid.FromDER(data)
		if err != nil {
			return nil, err
		}
		return newOIDResult(o, ModeContent, data), nil
	case ModeElement:
		o, rest, err := oid.ParseElement(data)
		if err != nil {
			return nil, err
		}
		if len(rest) > 0 {
			return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, len(rest))
		}
		return newOIDResult(o, ModeElement, data), nil
	case ModeCBOR:
		o := new(oid.ObjectIdentifier)
		if err := o.UnmarshalCBOR(data); err != nil {
			return nil, err
		}
		return newOIDResult(o, ModeCBOR, data), nil
	}
	return nil, fmt.Errorf("%w: mode %q", ErrUnknownFormat, mode)
}

// LookupOID resolves a registry name or dotted OID without encoding it.
func LookupOID(s string) (*OIDResult, error) {
	o, err := oid.Resolve(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return newOIDResult(o, ModeContent, o.Bytes()), nil
}
