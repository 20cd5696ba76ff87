// Package oid converts ASN.1 object identifiers between dotted-decimal text
// and DER base-128 content octets.
//
// An ObjectIdentifier stores its canonical DER content. The dotted form is
// computed on first use and cached. Arcs are unbounded: values that do not fit
// a uint64 are handled with math/big.
package oid

import (
	"bytes"
	"encoding/asn1"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/fnv"
	"math/big"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/remiblancher/qder/pkg/der"
)

// ObjectIdentifier is an immutable object identifier. Use it through a
// pointer; values must not be copied after first use.
type ObjectIdentifier struct {
	der []byte
	str atomic.Pointer[string]
}

// Parse builds an object identifier from dotted-decimal text such as
// "1.2.840.113549".
//
// Every component must be an unsigned decimal number without sign or leading
// zeros ("0" itself is allowed). At least two components are required, the
// first must be 0, 1 or 2, and the second must be below 40 when the first is
// 0 or 1.
func Parse(s string) (*ObjectIdentifier, error) {
	if s == "" {
		return nil, NewError("parse", s, fmt.Errorf("%w: empty string", ErrMalformed))
	}
	parts := strings.Split(s, ".")
	arcs := make([]arc, len(parts))
	for i, p := range parts {
		a, err := parseComponent(p)
		if err != nil {
			return nil, NewError("parse", s, err)
		}
		arcs[i] = a
	}
	content, err := encodeArcs(arcs)
	if err != nil {
		return nil, NewError("parse", s, err)
	}
	o := &ObjectIdentifier{der: content}
	o.str.Store(&s)
	return o, nil
}

// MustParse is like Parse but panics on error. It is meant for
// package-level tables of well-known identifiers.
func MustParse(s string) *ObjectIdentifier {
	o, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return o
}

// FromArcs builds an object identifier from unsigned arcs.
func FromArcs(arcs ...uint64) (*ObjectIdentifier, error) {
	as := make([]arc, len(arcs))
	for i, v := range arcs {
		as[i] = arc{small: v}
	}
	content, err := encodeArcs(as)
	if err != nil {
		return nil, NewError("arcs", "", err)
	}
	return &ObjectIdentifier{der: content}, nil
}

// FromInts builds an object identifier from int arcs. Negative arcs are rejected.
func FromInts(arcs ...int) (*ObjectIdentifier, error) {
	as := make([]arc, len(arcs))
	for i, v := range arcs {
		if v < 0 {
			return nil, NewError("arcs", "", fmt.Errorf("%w: negative arc %d at position %d", ErrArcRange, v, i))
		}
		as[i] = arc{small: uint64(v)}
	}
	content, err := encodeArcs(as)
	if err != nil {
		return nil, NewError("arcs", "", err)
	}
	return &ObjectIdentifier{der: content}, nil
}

// FromBigArcs builds an object identifier from arbitrary-precision arcs.
func FromBigArcs(arcs ...*big.Int) (*ObjectIdentifier, error) {
	as := make([]arc, len(arcs))
	for i, v := range arcs {
		switch {
		case v == nil:
			return nil, NewError("arcs", "", fmt.Errorf("%w: nil arc at position %d", ErrMalformed, i))
		case v.Sign() < 0:
			return nil, NewError("arcs", "", fmt.Errorf("%w: negative arc %s at position %d", ErrArcRange, v, i))
		case v.IsUint64():
			as[i] = arc{small: v.Uint64()}
		default:
			as[i] = arc{big: new(big.Int).Set(v)}
		}
	}
	content, err := encodeArcs(as)
	if err != nil {
		return nil, NewError("arcs", "", err)
	}
	return &ObjectIdentifier{der: content}, nil
}

// FromASN1 converts an encoding/asn1 identifier.
func FromASN1(id asn1.ObjectIdentifier) (*ObjectIdentifier, error) {
	return FromInts(id...)
}

// FromDER wraps DER content octets (tag and length excluded) after checking
// that they form a canonical sequence of base-128 runs. The input is copied.
func FromDER(content []byte) (*ObjectIdentifier, error) {
	if err := validateContent(content); err != nil {
		return nil, NewError("der", hex.EncodeToString(content), err)
	}
	return &ObjectIdentifier{der: bytes.Clone(content)}, nil
}

// ParseElement reads a complete OBJECT IDENTIFIER element from the front of
// data and returns the bytes that follow it.
func ParseElement(data []byte) (*ObjectIdentifier, []byte, error) {
	tag, content, rest, err := der.ReadElement(data)
	if err != nil {
		if errors.Is(err, der.ErrTruncated) {
			return nil, nil, NewError("element", "", fmt.Errorf("%w: %w", ErrTruncated, err))
		}
		return nil, nil, NewError("element", "", fmt.Errorf("%w: %w", ErrMalformed, err))
	}
	if tag != der.TagOID {
		return nil, nil, NewError("element", "", fmt.Errorf("%w: tag %s is not OBJECT IDENTIFIER", ErrMalformed, tag))
	}
	o, err := FromDER(content)
	if err != nil {
		return nil, nil, err
	}
	return o, rest, nil
}

// validateContent checks the structural rules of base-128 content: non-empty,
// terminated by a byte with the high bit clear, and no run starting with 0x80.
func validateContent(content []byte) error {
	if len(content) == 0 {
		return ErrEmpty
	}
	if content[len(content)-1]&0x80 != 0 {
		return fmt.Errorf("%w: last byte 0x%02X has the continuation bit set", ErrTruncated, content[len(content)-1])
	}
	start := true
	for i, b := range content {
		if start && b == 0x80 {
			return fmt.Errorf("%w: run at offset %d starts with 0x80", ErrNonCanonical, i)
		}
		start = b&0x80 == 0
	}
	return nil
}

func parseComponent(p string) (arc, error) {
	if p == "" {
		return arc{}, fmt.Errorf("%w: empty component", ErrMalformed)
	}
	for i := 0; i < len(p); i++ {
		if p[i] < '0' || p[i] > '9' {
			return arc{}, fmt.Errorf("%w: component %q is not a decimal number", ErrMalformed, p)
		}
	}
	if len(p) > 1 && p[0] == '0' {
		return arc{}, fmt.Errorf("%w: component %q has a leading zero", ErrMalformed, p)
	}
	v, err := strconv.ParseUint(p, 10, 64)
	if err == nil {
		return arc{small: v}, nil
	}
	if !errors.Is(err, strconv.ErrRange) {
		return arc{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	b, ok := new(big.Int).SetString(p, 10)
	if !ok {
		return arc{}, fmt.Errorf("%w: component %q", ErrMalformed, p)
	}
	return arc{big: b}, nil
}

// String returns the dotted-decimal form. The result is computed once and
// cached; concurrent first calls may compute it more than once.
func (o *ObjectIdentifier) String() string {
	if o == nil || len(o.der) == 0 {
		return ""
	}
	if p := o.str.Load(); p != nil {
		return *p
	}
	s := formatArcs(o.der)
	o.str.Store(&s)
	return s
}

// Bytes returns a copy of the DER content octets.
func (o *ObjectIdentifier) Bytes() []byte {
	if o == nil {
		return nil
	}
	return bytes.Clone(o.der)
}

// MarshalDER returns the complete OBJECT IDENTIFIER element.
func (o *ObjectIdentifier) MarshalDER() ([]byte, error) {
	if o == nil {
		return nil, NewError("der", "", ErrEmpty)
	}
	e := der.NewWithCapacity(len(o.der) + 6)
	if err := e.PutObjectIdentifier(o.der); err != nil {
		return nil, err
	}
	return e.Bytes()
}

// Arcs returns the arcs as arbitrary-precision integers.
func (o *ObjectIdentifier) Arcs() []*big.Int {
	if o == nil {
		return nil
	}
	arcs := decodeArcs(o.der)
	out := make([]*big.Int, len(arcs))
	for i, a := range arcs {
		out[i] = a.bigInt()
	}
	return out
}

// ASN1 converts to an encoding/asn1 identifier. It reports false if an arc
// does not fit an int.
func (o *ObjectIdentifier) ASN1() (asn1.ObjectIdentifier, bool) {
	if o == nil {
		return nil, false
	}
	arcs := decodeArcs(o.der)
	out := make(asn1.ObjectIdentifier, len(arcs))
	for i, a := range arcs {
		if a.big != nil || a.small > uint64(maxInt) {
			return nil, false
		}
		out[i] = int(a.small)
	}
	return out, true
}

// Equal reports whether both identifiers have the same encoding.
func (o *ObjectIdentifier) Equal(other *ObjectIdentifier) bool {
	if o == nil || other == nil {
		return o == other
	}
	return bytes.Equal(o.der, other.der)
}

// Hash returns the 64-bit FNV-1a hash of the DER content octets.
func (o *ObjectIdentifier) Hash() uint64 {
	h := fnv.New64a()
	if o != nil {
		_, _ = h.Write(o.der)
	}
	return h.Sum64()
}

// Key returns a string usable as a map key. Equal identifiers have equal keys.
func (o *ObjectIdentifier) Key() string {
	if o == nil {
		return ""
	}
	return string(o.der)
}

const maxInt = int(^uint(0) >> 1)
