package der

import (
	"fmt"
	"unicode/utf8"
)

var stringEncoders = map[Tag]func(string) ([]byte, error){
	TagUTF8String:      encodeUTF8,
	TagPrintableString: encodePrintable,
	TagT61String:       encodeLatin1,
	TagIA5String:       encodeASCII,
	TagBMPString:       encodeBMP,
	TagGeneralString:   encodeASCII,
}

// IsStringTag reports whether tag names a string type supported by PutString.
func IsStringTag(tag Tag) bool {
	_, ok := stringEncoders[tag]
	return ok
}

func encodeUTF8(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%w: not valid UTF-8", ErrInvalidString)
	}
	return []byte(s), nil
}

func encodeASCII(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return nil, fmt.Errorf("%w: non-ASCII byte 0x%02X at offset %d", ErrInvalidString, s[i], i)
		}
	}
	return []byte(s), nil
}

func encodePrintable(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if !IsPrintableChar(rune(s[i])) {
			return nil, fmt.Errorf("%w: %q not allowed in PrintableString", ErrInvalidString, s[i])
		}
	}
	return []byte(s), nil
}

// encodeLatin1 maps each code point to one ISO 8859-1 octet.
func encodeLatin1(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i, r := range s {
		if r == utf8.RuneError && !validRuneAt(s, i) {
			return nil, fmt.Errorf("%w: not valid UTF-8", ErrInvalidString)
		}
		if r > 0xFF {
			return nil, fmt.Errorf("%w: %U not representable in Latin-1", ErrInvalidString, r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}

// encodeBMP writes each code point as two big-endian octets. Code points
// outside the Basic Multilingual Plane have no BMPString representation.
func encodeBMP(s string) ([]byte, error) {
	out := make([]byte, 0, 2*len(s))
	for i, r := range s {
		if r == utf8.RuneError && !validRuneAt(s, i) {
			return nil, fmt.Errorf("%w: not valid UTF-8", ErrInvalidString)
		}
		if r > 0xFFFF {
			return nil, fmt.Errorf("%w: %U outside the Basic Multilingual Plane", ErrInvalidString, r)
		}
		out = append(out, byte(r>>8), byte(r))
	}
	return out, nil
}

// validRuneAt distinguishes a literal U+FFFD from an invalid encoding.
func validRuneAt(s string, i int) bool {
	_, size := utf8.DecodeRuneInString(s[i:])
	return size == 3
}

// IsPrintableString checks if a string contains only PrintableString characters.
// PrintableString allows: A-Za-z0-9 '()+,-./:=? and space.
func IsPrintableString(s string) bool {
	for _, r := range s {
		if !IsPrintableChar(r) {
			return false
		}
	}
	return true
}

// IsPrintableChar checks if a rune is valid in PrintableString.
func IsPrintableChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case ' ', '\'', '(', ')', '+', ',', '-', '.', '/', ':', '=', '?':
		return true
	}
	return false
}

// IsIA5String checks if a string contains only IA5String (ASCII 7-bit) characters.
func IsIA5String(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
