// Package bitpack regroups bit streams between per-byte bit widths.
//
// DER base-128 arcs are 7-bit groups carried one per byte, while big integers
// are 8-bit groups. Repack converts between the two without losing bit order.
package bitpack

import (
	"errors"
	"fmt"
)

// ErrInvalidWidth indicates a bit width outside [1,8].
var ErrInvalidWidth = errors.New("bit width must be in [1,8]")

// RepackedLen returns the number of output units produced when repacking n
// input units of inBits bits into groups of outBits bits.
func RepackedLen(n, inBits, outBits int) int {
	if n <= 0 || outBits <= 0 {
		return 0
	}
	return (n*inBits + outBits - 1) / outBits
}

// Repack treats data as a stream of inBits-bit groups, one group in the low
// bits of each byte, and regroups it into outBits-bit groups.
//
// Bits are taken most significant first. When the widths differ, bits of an
// input byte above inBits are ignored, and if the total number of bits is not
// a multiple of outBits the first output unit is padded with leading zero
// bits. If both widths are equal, data itself is returned, high bits
// included.
func Repack(data []byte, inBits, outBits int) ([]byte, error) {
	if inBits < 1 || inBits > 8 {
		return nil, fmt.Errorf("input %w: %d", ErrInvalidWidth, inBits)
	}
	if outBits < 1 || outBits > 8 {
		return nil, fmt.Errorf("output %w: %d", ErrInvalidWidth, outBits)
	}
	if inBits == outBits {
		return data, nil
	}

	n := RepackedLen(len(data), inBits, outBits)
	out := make([]byte, n)
	if n == 0 {
		return out, nil
	}

	inMask := uint32(1)<<inBits - 1
	outMask := uint32(1)<<outBits - 1

	// The accumulator starts with the padding bits, which are zero.
	var acc uint32
	accBits := n*outBits - len(data)*inBits

	k := 0
	for _, b := range data {
		acc = acc<<inBits | uint32(b)&inMask
		accBits += inBits
		for accBits >= outBits {
			accBits -= outBits
			out[k] = byte(acc >> accBits & outMask)
			k++
		}
		acc &= uint32(1)<<accBits - 1
	}

	return out, nil
}
