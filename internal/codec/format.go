// Package codec holds the operations shared by the qder CLI and REST API:
// OID encoding and decoding, bit repacking and template encoding, each
// recorded in the audit log.
package codec

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownFormat is returned for an unrecognized output format or mode.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrInvalidInput is returned when input text is neither hex nor base64.
	ErrInvalidInput = errors.New("invalid input encoding")

	// ErrTrailingData is returned when an element is followed by extra bytes.
	ErrTrailingData = errors.New("trailing data after element")
)

// Format is a textual or binary rendering of encoded bytes.
type Format string

const (
	FormatHex    Format = "hex"
	FormatBase64 Format = "base64"
	FormatRaw    Format = "raw"
	FormatPEM    Format = "pem"
)

// ParseFormat parses a format name. "der" and "bin" are aliases for raw.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hex":
		return FormatHex, nil
	case "base64", "b64":
		return FormatBase64, nil
	case "raw", "der", "bin":
		return FormatRaw, nil
	case "pem":
		return FormatPEM, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Render writes data in format f. Text formats end with a newline.
// pemType is the PEM block type and is ignored for other formats.
func Render(data []byte, f Format, pemType string) ([]byte, error) {
	switch f {
	case FormatHex:
		return []byte(hex.EncodeToString(data) + "\n"), nil
	case FormatBase64:
		return []byte(base64.StdEncoding.EncodeToString(data) + "\n"), nil
	case FormatRaw:
		return data, nil
	case FormatPEM:
		if pemType == "" {
			return nil, fmt.Errorf("%w: pem requires a block type", ErrUnknownFormat)
		}
		return pem.EncodeToMemory(&pem.Block{Type: pemType, Bytes: data}), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// DecodeHex decodes hex text. Whitespace and ':' separators are ignored, as
// is a leading "0x".
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':':
			return -1
		}
		return r
	}, s)
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return b, nil
}

// DecodeBase64 decodes standard or URL-safe base64, padded or not.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: not valid base64", ErrInvalidInput)
}

// DecodeInput decodes s according to encoding ("hex", "base64"). An empty
// encoding tries hex first, then base64.
func DecodeInput(s, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "hex":
		return DecodeHex(s)
	case "base64", "b64":
		return DecodeBase64(s)
	case "":
		if b, err := DecodeHex(s); err == nil {
			return b, nil
		}
		return DecodeBase64(s)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, encoding)
}
