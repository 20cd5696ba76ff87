package der

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// ReadElement splits the first DER element off data. It returns the element's
// tag, its content octets and the bytes following it.
//
// Only definite, minimally encoded lengths of up to four octets are accepted.
// A declared length larger than the available input yields ErrTruncated.
func ReadElement(data []byte) (tag Tag, content, rest []byte, err error) {
	if len(data) < 2 {
		return 0, nil, nil, NewDERError("element", fmt.Errorf("%w: %d bytes, need a tag and a length", ErrTruncated, len(data)))
	}
	tag = Tag(data[0])
	if !tag.Valid() {
		return 0, nil, nil, NewDERError("element", fmt.Errorf("%w: high-tag-number form", ErrUnsupported))
	}

	hdrLen, length, err := parseLength(data[1:])
	if err != nil {
		return 0, nil, nil, NewDERError("element", err)
	}
	if avail := uint64(len(data) - 1 - hdrLen); length > avail {
		return 0, nil, nil, NewDERError("element", fmt.Errorf("%w: declared length %d, %d bytes available", ErrTruncated, length, avail))
	}

	s := cryptobyte.String(data)
	var body cryptobyte.String
	var cbTag cbasn1.Tag
	if !s.ReadAnyASN1(&body, &cbTag) {
		return 0, nil, nil, NewDERError("element", ErrMalformed)
	}
	return Tag(cbTag), []byte(body), []byte(s), nil
}

// ReadExpected reads one element and checks that it carries want.
func ReadExpected(data []byte, want Tag) (content, rest []byte, err error) {
	var tag Tag
	tag, content, rest, err = ReadElement(data)
	if err != nil {
		return nil, nil, err
	}
	if tag != want {
		return nil, nil, NewDERError("element", fmt.Errorf("%w: tag %s, want %s", ErrMalformed, tag, want))
	}
	return content, rest, nil
}

// parseLength decodes the length octets at the start of b and returns how
// many octets they occupy and the declared content length.
func parseLength(b []byte) (int, uint64, error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("%w: missing length", ErrTruncated)
	}
	first := b[0]
	if first < 0x80 {
		return 1, uint64(first), nil
	}
	if first == 0x80 {
		return 0, 0, fmt.Errorf("%w: indefinite length", ErrMalformed)
	}
	n := int(first & 0x7F)
	if n > 4 {
		return 0, 0, fmt.Errorf("%w: %d length octets", ErrUnsupported, n)
	}
	if len(b) < 1+n {
		return 0, 0, fmt.Errorf("%w: %d of %d length octets", ErrTruncated, len(b)-1, n)
	}
	if b[1] == 0 {
		return 0, 0, fmt.Errorf("%w: non-minimal length", ErrMalformed)
	}
	var length uint64
	for _, v := range b[1 : 1+n] {
		length = length<<8 | uint64(v)
	}
	if length < 0x80 {
		return 0, 0, fmt.Errorf("%w: long form for length %d", ErrMalformed, length)
	}
	return 1 + n, length, nil
}
