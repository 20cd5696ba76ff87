package der

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"slices"
	"time"
)

// maxLength is the largest content length this encoder frames (4 length octets).
const maxLength = math.MaxUint32

// Encoder accumulates DER output in an append-only buffer.
//
// Composite values are built bottom-up: children are written into a fresh
// Encoder and the finished bytes are wrapped by the parent with WriteTagged or
// PutConstructed. Nothing already written is ever rewritten.
//
// The first failing write is recorded. After a failure every further write is
// a no-op and Bytes returns the recorded error, so an ignored error can never
// surface as a truncated but apparently valid encoding.
type Encoder struct {
	buf []byte
	err error
}

// New creates an empty encoder.
func New() *Encoder {
	return &Encoder{}
}

// NewWithCapacity creates an empty encoder with the given initial capacity.
func NewWithCapacity(capacity int) *Encoder {
	if capacity < 0 {
		capacity = 0
	}
	return &Encoder{buf: make([]byte, 0, capacity)}
}

// Bytes returns a copy of the accumulated encoding, or the first write error.
func (e *Encoder) Bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return slices.Clone(e.buf), nil
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int { return len(e.buf) }

// Err returns the first write error, if any.
func (e *Encoder) Err() error { return e.err }

func (e *Encoder) fail(op string, err error) error {
	if e.err == nil {
		e.err = NewDERError(op, err)
	}
	return e.err
}

// WriteTag writes one identifier octet.
func (e *Encoder) WriteTag(class Class, constructed bool, number int) error {
	if e.err != nil {
		return e.err
	}
	t, err := NewTag(class, constructed, number)
	if err != nil {
		return e.fail("tag", err)
	}
	e.buf = append(e.buf, byte(t))
	return nil
}

// WriteLength writes n in the minimal short or long form.
func (e *Encoder) WriteLength(n int) error {
	if e.err != nil {
		return e.err
	}
	if err := checkLength(n); err != nil {
		return e.fail("length", err)
	}
	e.buf = appendLength(e.buf, n)
	return nil
}

// WriteTagged writes tag, the length of content, then content verbatim.
func (e *Encoder) WriteTagged(tag Tag, content []byte) error {
	if e.err != nil {
		return e.err
	}
	if !tag.Valid() {
		return e.fail("tagged", fmt.Errorf("%w: high-tag-number form", ErrUnsupported))
	}
	if err := checkLength(len(content)); err != nil {
		return e.fail("tagged", err)
	}
	e.buf = append(e.buf, byte(tag))
	e.buf = appendLength(e.buf, len(content))
	e.buf = append(e.buf, content...)
	return nil
}

// WriteImplicit re-tags an already encoded element (X.690 §8.14): the
// element's own identifier octet is dropped and replaced by tag, while its
// length and content octets are reused unchanged. The constructed bit of the
// original element is carried over.
func (e *Encoder) WriteImplicit(tag Tag, element []byte) error {
	if e.err != nil {
		return e.err
	}
	if !tag.Valid() {
		return e.fail("implicit", fmt.Errorf("%w: high-tag-number form", ErrUnsupported))
	}
	orig, _, rest, err := ReadElement(element)
	if err != nil {
		return e.fail("implicit", err)
	}
	if len(rest) != 0 {
		return e.fail("implicit", fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(rest)))
	}
	t := tag &^ constructedBit
	if orig.Constructed() {
		t |= constructedBit
	}
	e.buf = append(e.buf, byte(t))
	e.buf = append(e.buf, element[1:]...)
	return nil
}

// PutConstructed builds the content of a constructed value with build, using
// a temporary encoder, and then wraps the result with tag.
func (e *Encoder) PutConstructed(tag Tag, build func(child *Encoder) error) error {
	if e.err != nil {
		return e.err
	}
	child := New()
	if err := build(child); err != nil {
		return e.fail("constructed", err)
	}
	content, err := child.Bytes()
	if err != nil {
		return e.fail("constructed", err)
	}
	return e.WriteTagged(tag|constructedBit, content)
}

// PutRaw appends one complete, already encoded element.
func (e *Encoder) PutRaw(element []byte) error {
	if e.err != nil {
		return e.err
	}
	_, _, rest, err := ReadElement(element)
	if err != nil {
		return e.fail("raw", err)
	}
	if len(rest) != 0 {
		return e.fail("raw", fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(rest)))
	}
	e.buf = append(e.buf, element...)
	return nil
}

// PutBoolean writes a BOOLEAN: 0xFF for true, 0x00 for false.
func (e *Encoder) PutBoolean(b bool) {
	v := byte(0x00)
	if b {
		v = 0xFF
	}
	_ = e.WriteTagged(TagBoolean, []byte{v})
}

// PutInteger writes an INTEGER in minimal two's complement form.
func (e *Encoder) PutInteger(i int64) {
	_ = e.WriteTagged(TagInteger, EncodeInteger(i))
}

// PutBigInt writes an arbitrary-precision INTEGER.
func (e *Encoder) PutBigInt(i *big.Int) error {
	if i == nil {
		if e.err != nil {
			return e.err
		}
		return e.fail("integer", fmt.Errorf("%w: nil integer", ErrInvalidValue))
	}
	return e.WriteTagged(TagInteger, EncodeBigInt(i))
}

// PutEnumerated writes an ENUMERATED with the same content rules as INTEGER.
func (e *Encoder) PutEnumerated(i int64) {
	_ = e.WriteTagged(TagEnumerated, EncodeInteger(i))
}

// PutBitString writes a byte-aligned BIT STRING (zero unused bits).
func (e *Encoder) PutBitString(bits []byte) {
	content := make([]byte, 0, len(bits)+1)
	content = append(content, 0x00)
	content = append(content, bits...)
	_ = e.WriteTagged(TagBitString, content)
}

// PutBitStringUnaligned would write a BIT STRING whose last octet has unused
// bits. It is not implemented and always fails without writing anything.
func (e *Encoder) PutBitStringUnaligned(bits []byte, unused int) error {
	if e.err != nil {
		return e.err
	}
	return e.fail("bitstring", fmt.Errorf("%w: unaligned bit string (%d unused bits)", ErrUnsupported, unused))
}

// PutOctetString writes an OCTET STRING.
func (e *Encoder) PutOctetString(b []byte) {
	_ = e.WriteTagged(TagOctetString, b)
}

// PutNull writes NULL.
func (e *Encoder) PutNull() {
	_ = e.WriteTagged(TagNull, nil)
}

// PutObjectIdentifier writes an OBJECT IDENTIFIER from its pre-encoded content
// octets (tag and length excluded).
func (e *Encoder) PutObjectIdentifier(content []byte) error {
	if e.err != nil {
		return e.err
	}
	if len(content) == 0 {
		return e.fail("oid", fmt.Errorf("%w: empty object identifier", ErrInvalidValue))
	}
	return e.WriteTagged(TagOID, content)
}

// PutUTF8String writes a UTF8String.
func (e *Encoder) PutUTF8String(s string) error {
	return e.putString(TagUTF8String, s, encodeUTF8)
}

// PutPrintableString writes a PrintableString.
func (e *Encoder) PutPrintableString(s string) error {
	return e.putString(TagPrintableString, s, encodePrintable)
}

// PutT61String writes a T61String using Latin-1 octets.
func (e *Encoder) PutT61String(s string) error {
	return e.putString(TagT61String, s, encodeLatin1)
}

// PutIA5String writes an IA5String.
func (e *Encoder) PutIA5String(s string) error {
	return e.putString(TagIA5String, s, encodeASCII)
}

// PutBMPString writes a BMPString as big-endian UTF-16 without a byte order mark.
func (e *Encoder) PutBMPString(s string) error {
	return e.putString(TagBMPString, s, encodeBMP)
}

// PutGeneralString writes a GeneralString restricted to ASCII.
func (e *Encoder) PutGeneralString(s string) error {
	return e.putString(TagGeneralString, s, encodeASCII)
}

// PutString writes s using the string type identified by tag.
func (e *Encoder) PutString(tag Tag, s string) error {
	enc, ok := stringEncoders[tag]
	if !ok {
		if e.err != nil {
			return e.err
		}
		return e.fail("string", fmt.Errorf("%w: %s is not a string type", ErrUnsupported, tag))
	}
	return e.putString(tag, s, enc)
}

func (e *Encoder) putString(tag Tag, s string, enc func(string) ([]byte, error)) error {
	if e.err != nil {
		return e.err
	}
	content, err := enc(s)
	if err != nil {
		return e.fail("string", err)
	}
	return e.WriteTagged(tag, content)
}

// PutUTCTime writes a UTCTime as YYMMDDHHMMSSZ.
func (e *Encoder) PutUTCTime(t time.Time) error {
	if e.err != nil {
		return e.err
	}
	content, err := FormatUTCTime(t)
	if err != nil {
		return e.fail("time", err)
	}
	return e.WriteTagged(TagUTCTime, content)
}

// PutGeneralizedTime writes a GeneralizedTime as YYYYMMDDHHMMSSZ.
func (e *Encoder) PutGeneralizedTime(t time.Time) error {
	if e.err != nil {
		return e.err
	}
	content, err := FormatGeneralizedTime(t)
	if err != nil {
		return e.fail("time", err)
	}
	return e.WriteTagged(TagGeneralizedTime, content)
}

// PutSequence writes a SEQUENCE whose content is the concatenation of the
// given complete child encodings, in order.
func (e *Encoder) PutSequence(children ...[]byte) error {
	return e.WriteTagged(TagSequence, bytes.Join(children, nil))
}

// PutSet writes a SET whose content is the concatenation of the given child
// encodings, in the order given.
func (e *Encoder) PutSet(children ...[]byte) error {
	return e.WriteTagged(TagSet, bytes.Join(children, nil))
}

// PutSetOf writes a SET OF with its elements sorted by their encodings
// (X.690 §11.6). Each element must be one complete DER element.
func (e *Encoder) PutSetOf(elements ...[]byte) error {
	if e.err != nil {
		return e.err
	}
	for _, el := range elements {
		if _, _, rest, err := ReadElement(el); err != nil {
			return e.fail("setof", err)
		} else if len(rest) != 0 {
			return e.fail("setof", fmt.Errorf("%w: %d trailing bytes in element", ErrMalformed, len(rest)))
		}
	}
	sorted := slices.Clone(elements)
	slices.SortFunc(sorted, bytes.Compare)
	return e.WriteTagged(TagSet, bytes.Join(sorted, nil))
}

func checkLength(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", ErrInvalidLength, n)
	}
	if uint64(n) > maxLength {
		return fmt.Errorf("%w: %d exceeds 4 length octets", ErrInvalidLength, n)
	}
	return nil
}

// appendLength appends the minimal definite-length encoding of n.
func appendLength(dst []byte, n int) []byte {
	if n < 0x80 {
		return append(dst, byte(n))
	}
	numBytes := 1
	for v := n >> 8; v > 0; v >>= 8 {
		numBytes++
	}
	dst = append(dst, 0x80|byte(numBytes))
	for i := numBytes - 1; i >= 0; i-- {
		dst = append(dst, byte(n>>(uint(i)*8)))
	}
	return dst
}

// EncodeLength returns the minimal length octets for n.
func EncodeLength(n int) ([]byte, error) {
	if err := checkLength(n); err != nil {
		return nil, NewDERError("length", err)
	}
	return appendLength(nil, n), nil
}
