package der

import (
	"bytes"
	"errors"
	"testing"
)

func TestU_ReadElement_Valid(t *testing.T) {
	tests := []struct {
		name        string
		in          []byte
		wantTag     Tag
		wantContent []byte
		wantRest    []byte
	}{
		{"null", []byte{0x05, 0x00}, TagNull, []byte{}, []byte{}},
		{"integer_with_rest", []byte{0x02, 0x01, 0x07, 0xFF}, TagInteger, []byte{0x07}, []byte{0xFF}},
		{"sequence", []byte{0x30, 0x03, 0x02, 0x01, 0x00}, TagSequence, []byte{0x02, 0x01, 0x00}, []byte{}},
		{"context_constructed", []byte{0xA0, 0x02, 0x05, 0x00}, ContextTag(0, true), []byte{0x05, 0x00}, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, content, rest, err := ReadElement(tt.in)
			if err != nil {
				t.Fatalf("ReadElement() error = %v", err)
			}
			if tag != tt.wantTag {
				t.Errorf("tag = %s, want %s", tag, tt.wantTag)
			}
			if !bytes.Equal(content, tt.wantContent) {
				t.Errorf("content = %X, want %X", content, tt.wantContent)
			}
			if !bytes.Equal(rest, tt.wantRest) {
				t.Errorf("rest = %X, want %X", rest, tt.wantRest)
			}
		})
	}
}

func TestU_ReadElement_LongForm(t *testing.T) {
	e := New()
	e.PutOctetString(bytes.Repeat([]byte{0x01}, 200))
	enc := mustBytes(t, e)

	tag, content, rest, err := ReadElement(enc)
	if err != nil {
		t.Fatalf("ReadElement() error = %v", err)
	}
	if tag != TagOctetString || len(content) != 200 || len(rest) != 0 {
		t.Errorf("ReadElement() = %s, %d content bytes, %d rest", tag, len(content), len(rest))
	}
}

func TestU_ReadElement_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"tag_only", []byte{0x02}, ErrTruncated},
		{"declared_too_long", []byte{0x04, 0x05, 0x01, 0x02}, ErrTruncated},
		{"long_form_truncated", []byte{0x04, 0x82, 0x01}, ErrTruncated},
		{"high_tag_number", []byte{0x1F, 0x22, 0x00}, ErrUnsupported},
		{"indefinite", []byte{0x30, 0x80, 0x00, 0x00}, ErrMalformed},
		{"non_minimal_long_form", []byte{0x04, 0x81, 0x05, 1, 2, 3, 4, 5}, ErrMalformed},
		{"leading_zero_length", []byte{0x04, 0x82, 0x00, 0x80}, ErrMalformed},
		{"five_length_octets", []byte{0x04, 0x85, 1, 0, 0, 0, 0}, ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := ReadElement(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadElement(%X) error = %v, want %v", tt.in, err, tt.want)
			}
			var derErr *DERError
			if !errors.As(err, &derErr) || derErr.Op != "element" {
				t.Errorf("error %v is not a DERError with Op=element", err)
			}
		})
	}
}

func TestU_ReadExpected(t *testing.T) {
	content, rest, err := ReadExpected([]byte{0x02, 0x01, 0x2A}, TagInteger)
	if err != nil {
		t.Fatalf("ReadExpected() error = %v", err)
	}
	if !bytes.Equal(content, []byte{0x2A}) || len(rest) != 0 {
		t.Errorf("ReadExpected() = %X, %X", content, rest)
	}

	if _, _, err := ReadExpected([]byte{0x02, 0x01, 0x2A}, TagOID); !errors.Is(err, ErrMalformed) {
		t.Errorf("ReadExpected(wrong tag) error = %v, want ErrMalformed", err)
	}
}

func TestU_Tag_Accessors(t *testing.T) {
	tag := ContextTag(3, true)
	if tag.Class() != ClassContextSpecific {
		t.Errorf("Class() = %s", tag.Class())
	}
	if !tag.Constructed() {
		t.Error("Constructed() = false")
	}
	if tag.Number() != 3 {
		t.Errorf("Number() = %d", tag.Number())
	}
	if got := tag.String(); got != "[CONTEXT 3] constructed" {
		t.Errorf("String() = %q", got)
	}
	if TagSequence.Number() != 16 || !TagSequence.Constructed() {
		t.Errorf("TagSequence = %s", TagSequence)
	}
	if Tag(0x1F).Valid() {
		t.Error("0x1F should not be a valid low-tag-number tag")
	}
}

func TestU_ContextTag_PanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ContextTag(31) should panic")
		}
	}()
	_ = ContextTag(31, false)
}

func TestU_IsPrintableString(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Hello World", true},
		{"O'Brien (Ltd.), a+b=c?/:-", true},
		{"", true},
		{"user@example.com", false},
		{"a*b", false},
		{"é", false},
	}
	for _, tt := range tests {
		if got := IsPrintableString(tt.in); got != tt.want {
			t.Errorf("IsPrintableString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestU_IsIA5String(t *testing.T) {
	if !IsIA5String("user@example.com") {
		t.Error("IsIA5String(ascii) = false")
	}
	if IsIA5String("naïve") {
		t.Error("IsIA5String(non-ascii) = true")
	}
}

func TestU_IsStringTag(t *testing.T) {
	for _, tag := range []Tag{TagUTF8String, TagPrintableString, TagT61String, TagIA5String, TagBMPString, TagGeneralString} {
		if !IsStringTag(tag) {
			t.Errorf("IsStringTag(%s) = false", tag)
		}
	}
	if IsStringTag(TagOctetString) {
		t.Error("IsStringTag(OCTET STRING) = true")
	}
}
