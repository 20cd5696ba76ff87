package der

import (
	"bytes"
	"testing"
)

// =============================================================================
// Element Reader Fuzz Tests
// =============================================================================

// FuzzReadElement checks that arbitrary input never panics and that any
// element accepted by ReadElement re-encodes to the same bytes.
func FuzzReadElement(f *testing.F) {
	f.Add([]byte{0x05, 0x00})
	f.Add([]byte{0x30, 0x03, 0x02, 0x01, 0x00})
	f.Add([]byte{0x30, 0x80, 0x00, 0x00}) // Indefinite length
	f.Add([]byte{0x04, 0x81, 0x80})       // Long form, truncated content
	f.Add([]byte{0x1F, 0x81, 0x00})       // High tag number
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		tag, content, rest, err := ReadElement(data)
		if err != nil {
			return
		}
		e := New()
		if err := e.WriteTagged(tag, content); err != nil {
			t.Fatalf("WriteTagged() error = %v", err)
		}
		enc := mustBytes(t, e)
		if !bytes.Equal(enc, data[:len(data)-len(rest)]) {
			t.Errorf("re-encoding %X != %X", enc, data[:len(data)-len(rest)])
		}
	})
}

// =============================================================================
// Integer Fuzz Tests
// =============================================================================

// FuzzEncodeInteger checks minimality of the INTEGER content octets.
func FuzzEncodeInteger(f *testing.F) {
	for _, v := range []int64{0, 1, -1, 127, 128, -128, -129, 1 << 40} {
		f.Add(v)
	}

	f.Fuzz(func(t *testing.T, v int64) {
		b := EncodeInteger(v)
		if len(b) == 0 || len(b) > 8 {
			t.Fatalf("EncodeInteger(%d) length %d", v, len(b))
		}
		if len(b) > 1 {
			if (b[0] == 0x00 && b[1]&0x80 == 0) || (b[0] == 0xFF && b[1]&0x80 != 0) {
				t.Errorf("EncodeInteger(%d) = %X is not minimal", v, b)
			}
		}
		var back int64
		if b[0]&0x80 != 0 {
			back = -1
		}
		for _, x := range b {
			back = back<<8 | int64(x)
		}
		if back != v {
			t.Errorf("EncodeInteger(%d) = %X decodes to %d", v, b, back)
		}
	})
}
