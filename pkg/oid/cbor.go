package oid

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// CBORTag is the CBOR tag number for an absolute object identifier (RFC 9090).
// The tag content is a byte string holding the DER content octets.
const CBORTag = 111

// MarshalCBOR implements cbor.Marshaler.
func (o *ObjectIdentifier) MarshalCBOR() ([]byte, error) {
	if o == nil || len(o.der) == 0 {
		return nil, NewError("cbor", "", ErrEmpty)
	}
	return cbor.Marshal(cbor.Tag{Number: CBORTag, Content: o.der})
}

// UnmarshalCBOR implements cbor.Unmarshaler. Only tag 111 is accepted.
// The receiver must be a zero value.
func (o *ObjectIdentifier) UnmarshalCBOR(data []byte) error {
	if len(o.der) != 0 {
		return NewError("cbor", o.String(), ErrAlreadySet)
	}
	var raw cbor.RawTag
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return NewError("cbor", "", fmt.Errorf("%w: %w", ErrMalformed, err))
	}
	if raw.Number != CBORTag {
		return NewError("cbor", "", fmt.Errorf("%w: tag %d, want %d", ErrMalformed, raw.Number, CBORTag))
	}
	var content []byte
	if err := cbor.Unmarshal(raw.Content, &content); err != nil {
		return NewError("cbor", "", fmt.Errorf("%w: tag content is not a byte string: %w", ErrMalformed, err))
	}
	parsed, err := FromDER(content)
	if err != nil {
		return err
	}
	o.der = parsed.der
	o.str.Store(nil)
	return nil
}
