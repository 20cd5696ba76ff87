package bitpack

import (
	"bytes"
	"errors"
	"testing"
)

func TestU_Repack_EightToSeven(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"empty", nil, []byte{}},
		{"zero", []byte{0x00}, []byte{0x00, 0x00}},
		{"127", []byte{0x7F}, []byte{0x00, 0x7F}},
		{"128", []byte{0x80}, []byte{0x01, 0x00}},
		{"840", []byte{0x03, 0x48}, []byte{0x00, 0x06, 0x48}},
		{"113549", []byte{0x01, 0xBB, 0x8D}, []byte{0x00, 0x06, 0x77, 0x0D}},
		{"all_ones", []byte{0xFF, 0xFF}, []byte{0x03, 0x7F, 0x7F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Repack(tt.in, 8, 7)
			if err != nil {
				t.Fatalf("Repack() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Repack(%X, 8, 7) = %X, want %X", tt.in, got, tt.want)
			}
		})
	}
}

func TestU_Repack_SevenToEight(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"single", []byte{0x7F}, []byte{0x7F}},
		{"continuation_bit_ignored", []byte{0x86, 0x48}, []byte{0x03, 0x48}},
		{"113549", []byte{0x86, 0xF7, 0x0D}, []byte{0x01, 0xBB, 0x8D}},
		{"eight_groups", []byte{0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F}, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Repack(tt.in, 7, 8)
			if err != nil {
				t.Fatalf("Repack() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Repack(%X, 7, 8) = %X, want %X", tt.in, got, tt.want)
			}
		})
	}
}

func TestU_Repack_SameWidthUnchanged(t *testing.T) {
	in := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	got, err := Repack(in, 8, 8)
	if err != nil {
		t.Fatalf("Repack() error = %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Errorf("Repack() = %X, want %X", got, in)
	}
}

func TestU_Repack_SameWidthKeepsHighBits(t *testing.T) {
	in := []byte{0xFF, 0x81}
	got, err := Repack(in, 7, 7)
	if err != nil {
		t.Fatalf("Repack() error = %v", err)
	}
	if &got[0] != &in[0] {
		t.Error("Repack() with equal widths copied its input")
	}
	if !bytes.Equal(got, []byte{0xFF, 0x81}) {
		t.Errorf("Repack() = %X, want FF81", got)
	}
}

func TestU_Repack_OutputLength(t *testing.T) {
	for inBits := 1; inBits <= 8; inBits++ {
		for outBits := 1; outBits <= 8; outBits++ {
			data := bytes.Repeat([]byte{0xFF}, 5)
			got, err := Repack(data, inBits, outBits)
			if err != nil {
				t.Fatalf("Repack(%d, %d) error = %v", inBits, outBits, err)
			}
			want := (5*inBits + outBits - 1) / outBits
			if inBits == outBits {
				want = 5
			}
			if len(got) != want {
				t.Errorf("Repack(%d, %d) len = %d, want %d", inBits, outBits, len(got), want)
			}
		}
	}
}

func TestU_Repack_InvalidWidth(t *testing.T) {
	widths := [][2]int{{0, 7}, {9, 7}, {8, 0}, {8, 9}, {-1, 8}}
	for _, w := range widths {
		if _, err := Repack([]byte{1}, w[0], w[1]); !errors.Is(err, ErrInvalidWidth) {
			t.Errorf("Repack(%d, %d) error = %v, want ErrInvalidWidth", w[0], w[1], err)
		}
	}
}

func TestU_Repack_RoundTrip(t *testing.T) {
	data := []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD}
	seven, err := Repack(data, 8, 7)
	if err != nil {
		t.Fatalf("Repack(8, 7) error = %v", err)
	}
	back, err := Repack(seven, 7, 8)
	if err != nil {
		t.Fatalf("Repack(7, 8) error = %v", err)
	}
	if !bytes.Equal(back, data) {
		t.Errorf("round trip = %X, want %X", back, data)
	}
}

func TestU_RepackedLen(t *testing.T) {
	tests := []struct {
		n, in, out, want int
	}{
		{0, 8, 7, 0},
		{1, 8, 7, 2},
		{7, 8, 7, 8},
		{8, 7, 8, 7},
		{3, 7, 8, 3},
	}
	for _, tt := range tests {
		if got := RepackedLen(tt.n, tt.in, tt.out); got != tt.want {
			t.Errorf("RepackedLen(%d, %d, %d) = %d, want %d", tt.n, tt.in, tt.out, got, tt.want)
		}
	}
}
