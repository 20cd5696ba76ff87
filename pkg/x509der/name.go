package x509der

import (
	"fmt"
	"strings"

	"github.com/remiblancher/qder/pkg/der"
	"github.com/remiblancher/qder/pkg/oid"
)

// StringEncoding selects the ASN.1 string type of an attribute value.
type StringEncoding string

const (
	EncodingUTF8      StringEncoding = "utf8"
	EncodingPrintable StringEncoding = "printable"
	EncodingIA5       StringEncoding = "ia5"
	EncodingT61       StringEncoding = "t61"
	EncodingBMP       StringEncoding = "bmp"
)

var encodingTags = map[StringEncoding]der.Tag{
	EncodingUTF8:      der.TagUTF8String,
	EncodingPrintable: der.TagPrintableString,
	EncodingIA5:       der.TagIA5String,
	EncodingT61:       der.TagT61String,
	EncodingBMP:       der.TagBMPString,
}

// Tag returns the universal tag of the encoding.
func (s StringEncoding) Tag() (der.Tag, bool) {
	t, ok := encodingTags[s]
	return t, ok
}

// RequiredEncoding returns the string type RFC 5280 mandates for an
// attribute type, or "" when the type accepts any DirectoryString.
func RequiredEncoding(attrType *oid.ObjectIdentifier) StringEncoding {
	switch {
	case attrType.Equal(oid.AttrCountry), attrType.Equal(oid.AttrSerialNumber):
		return EncodingPrintable // RFC 5280: C and serialNumber are PrintableString
	case attrType.Equal(oid.AttrEmailAddress), attrType.Equal(oid.AttrDomainComponent):
		return EncodingIA5 // RFC 5280: emailAddress and DC are IA5String
	default:
		return ""
	}
}

// Attribute is one AttributeTypeAndValue. An empty Encoding selects the
// required encoding for the type, or UTF8String.
type Attribute struct {
	Type     *oid.ObjectIdentifier
	Value    string
	Encoding StringEncoding
}

func (a Attribute) encoding() (StringEncoding, error) {
	required := RequiredEncoding(a.Type)
	switch {
	case a.Encoding == "" && required != "":
		return required, nil
	case a.Encoding == "":
		return EncodingUTF8, nil
	case required != "" && a.Encoding != required:
		return "", fmt.Errorf("%w: attribute %s requires %s encoding per RFC 5280, got %s",
			ErrInvalidField, attrLabel(a.Type), required, a.Encoding)
	}
	return a.Encoding, nil
}

// Encode returns the AttributeTypeAndValue SEQUENCE.
func (a Attribute) Encode() ([]byte, error) {
	if a.Type == nil {
		return nil, fmt.Errorf("%w: attribute without type", ErrMissingField)
	}
	enc, err := a.encoding()
	if err != nil {
		return nil, err
	}
	tag, ok := enc.Tag()
	if !ok {
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrInvalidField, enc)
	}
	e := der.New()
	err = e.PutConstructed(der.TagSequence, func(c *der.Encoder) error {
		if err := c.PutObjectIdentifier(a.Type.Bytes()); err != nil {
			return err
		}
		return c.PutString(tag, a.Value)
	})
	if err != nil {
		return nil, fmt.Errorf("encoding attribute %s: %w", attrLabel(a.Type), err)
	}
	return e.Bytes()
}

// RDN is a RelativeDistinguishedName: a set of attributes.
type RDN []Attribute

// Encode returns the RDN as a DER SET OF, with members sorted by encoding.
func (r RDN) Encode() ([]byte, error) {
	if len(r) == 0 {
		return nil, fmt.Errorf("%w: empty relative distinguished name", ErrInvalidField)
	}
	members := make([][]byte, 0, len(r))
	for _, a := range r {
		b, err := a.Encode()
		if err != nil {
			return nil, err
		}
		members = append(members, b)
	}
	e := der.New()
	if err := e.PutSetOf(members...); err != nil {
		return nil, err
	}
	return e.Bytes()
}

// Name is an RDNSequence. A nil Name is absent; an empty non-nil Name
// encodes as an empty SEQUENCE.
type Name []RDN

// NewName returns a Name with one single-valued RDN per attribute.
func NewName(attrs ...Attribute) Name {
	n := Name{}
	for _, a := range attrs {
		n = append(n, RDN{a})
	}
	return n
}

// Add appends a single-valued RDN with the default encoding.
func (n Name) Add(attrType *oid.ObjectIdentifier, value string) Name {
	return append(n, RDN{{Type: attrType, Value: value}})
}

// Encode returns the RDNSequence SEQUENCE.
func (n Name) Encode() ([]byte, error) {
	rdns := make([][]byte, 0, len(n))
	for _, rdn := range n {
		b, err := rdn.Encode()
		if err != nil {
			return nil, NewError("name", err)
		}
		rdns = append(rdns, b)
	}
	e := der.New()
	if err := e.PutSequence(rdns...); err != nil {
		return nil, NewError("name", err)
	}
	return e.Bytes()
}

// String returns a readable form such as "CN=example, O=Acme".
func (n Name) String() string {
	parts := make([]string, 0, len(n))
	for _, rdn := range n {
		members := make([]string, 0, len(rdn))
		for _, a := range rdn {
			members = append(members, attrLabel(a.Type)+"="+a.Value)
		}
		parts = append(parts, strings.Join(members, "+"))
	}
	return strings.Join(parts, ", ")
}

func attrLabel(t *oid.ObjectIdentifier) string {
	if name, ok := oid.Name(t); ok {
		return name
	}
	return t.String()
}
