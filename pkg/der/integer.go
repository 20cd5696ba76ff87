package der

import "math/big"

// EncodeInteger returns the minimal two's complement content octets of i.
//
// Leading octets that are pure sign extension are stripped: 0x00 followed by
// an octet with the high bit clear, or 0xFF followed by an octet with the
// high bit set. At least one octet always remains.
func EncodeInteger(i int64) []byte {
	var b [8]byte
	for k := 0; k < 8; k++ {
		b[k] = byte(i >> (56 - 8*k))
	}
	start := 0
	for start < 7 {
		cur, next := b[start], b[start+1]
		if (cur == 0x00 && next&0x80 == 0) || (cur == 0xFF && next&0x80 != 0) {
			start++
			continue
		}
		break
	}
	out := make([]byte, 8-start)
	copy(out, b[start:])
	return out
}

// EncodeBigInt returns the minimal two's complement content octets of i.
func EncodeBigInt(i *big.Int) []byte {
	switch i.Sign() {
	case 0:
		return []byte{0x00}
	case 1:
		b := i.Bytes()
		if b[0]&0x80 != 0 {
			return append([]byte{0x00}, b...)
		}
		return b
	}

	// For negative values encode the bitwise complement of |i|-1.
	n := new(big.Int).Neg(i)
	n.Sub(n, big.NewInt(1))
	b := n.Bytes()
	for k := range b {
		b[k] ^= 0xFF
	}
	if len(b) == 0 || b[0]&0x80 == 0 {
		return append([]byte{0xFF}, b...)
	}
	return b
}
