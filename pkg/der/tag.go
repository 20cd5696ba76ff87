package der

import "fmt"

// Class is the two-bit class field of an identifier octet.
type Class uint8

const (
	ClassUniversal       Class = 0x00
	ClassApplication     Class = 0x40
	ClassContextSpecific Class = 0x80
	ClassPrivate         Class = 0xC0
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassUniversal:
		return "UNIVERSAL"
	case ClassApplication:
		return "APPLICATION"
	case ClassContextSpecific:
		return "CONTEXT"
	case ClassPrivate:
		return "PRIVATE"
	default:
		return fmt.Sprintf("Class(0x%02X)", uint8(c))
	}
}

// Tag is a single identifier octet: class | constructed bit | number.
// High-tag-number form (number >= 31) is not supported.
type Tag uint8

const (
	constructedBit = 0x20
	classMask      = 0xC0
	numberMask     = 0x1F

	// maxTagNumber is the largest tag number that fits the low-tag-number form.
	maxTagNumber = 30
)

// Universal tags for the types produced by this package.
const (
	TagBoolean         Tag = 0x01
	TagInteger         Tag = 0x02
	TagBitString       Tag = 0x03
	TagOctetString     Tag = 0x04
	TagNull            Tag = 0x05
	TagOID             Tag = 0x06
	TagEnumerated      Tag = 0x0A
	TagUTF8String      Tag = 0x0C
	TagSequence        Tag = 0x10 | constructedBit
	TagSet             Tag = 0x11 | constructedBit
	TagPrintableString Tag = 0x13
	TagT61String       Tag = 0x14
	TagIA5String       Tag = 0x16
	TagUTCTime         Tag = 0x17
	TagGeneralizedTime Tag = 0x18
	TagGeneralString   Tag = 0x1B
	TagBMPString       Tag = 0x1E
)

// NewTag composes an identifier octet.
func NewTag(class Class, constructed bool, number int) (Tag, error) {
	if uint8(class)&^classMask != 0 {
		return 0, fmt.Errorf("%w: class 0x%02X", ErrInvalidTag, uint8(class))
	}
	if number < 0 {
		return 0, fmt.Errorf("%w: negative tag number %d", ErrInvalidTag, number)
	}
	if number > maxTagNumber {
		return 0, fmt.Errorf("%w: high-tag-number form (tag %d)", ErrUnsupported, number)
	}
	t := Tag(uint8(class) | uint8(number))
	if constructed {
		t |= constructedBit
	}
	return t, nil
}

// ContextTag returns the context-specific tag [n]. It panics if n is out of range;
// use NewTag for untrusted input.
func ContextTag(n int, constructed bool) Tag {
	t, err := NewTag(ClassContextSpecific, constructed, n)
	if err != nil {
		panic(err)
	}
	return t
}

// Class returns the class bits of the tag.
func (t Tag) Class() Class { return Class(uint8(t) & classMask) }

// Constructed reports whether the constructed bit is set.
func (t Tag) Constructed() bool { return uint8(t)&constructedBit != 0 }

// Number returns the tag number.
func (t Tag) Number() int { return int(uint8(t) & numberMask) }

// Valid reports whether the tag uses the low-tag-number form.
func (t Tag) Valid() bool { return t.Number() != numberMask }

// String returns a readable form such as "[UNIVERSAL 16] constructed".
func (t Tag) String() string {
	s := fmt.Sprintf("[%s %d]", t.Class(), t.Number())
	if t.Constructed() {
		s += " constructed"
	}
	return s
}
