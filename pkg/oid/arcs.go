package oid

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"math/bits"
	"strconv"
	"strings"

	"github.com/remiblancher/qder/pkg/bitpack"
)

// maxNativeRun is the longest base-128 run that always fits a uint64
// (9 groups of 7 bits).
const maxNativeRun = 9

// arc holds one arc value. big is set only when the value exceeds a uint64.
type arc struct {
	small uint64
	big   *big.Int
}

func (a arc) bigInt() *big.Int {
	if a.big != nil {
		return new(big.Int).Set(a.big)
	}
	return new(big.Int).SetUint64(a.small)
}

func (a arc) String() string {
	if a.big != nil {
		return a.big.String()
	}
	return strconv.FormatUint(a.small, 10)
}

// magnitude returns the minimal big-endian unsigned bytes, at least one byte.
func (a arc) magnitude() []byte {
	if a.big != nil {
		if b := a.big.Bytes(); len(b) > 0 {
			return b
		}
		return []byte{0}
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], a.small)
	i := 0
	for i < 7 && b[i] == 0 {
		i++
	}
	return b[i:]
}

// lessThan reports whether a < n.
func (a arc) lessThan(n uint64) bool {
	return a.big == nil && a.small < n
}

// encodeArcs validates arcs and returns their DER content octets.
func encodeArcs(arcs []arc) ([]byte, error) {
	if len(arcs) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewArcs, len(arcs))
	}
	first, second := arcs[0], arcs[1]
	if !first.lessThan(3) {
		return nil, fmt.Errorf("%w: first arc %s must be 0, 1 or 2", ErrArcRange, first)
	}
	if first.small < 2 && !second.lessThan(40) {
		return nil, fmt.Errorf("%w: second arc %s must be below 40 under first arc %d", ErrArcRange, second, first.small)
	}

	var combined arc
	if second.big == nil {
		sum, carry := bits.Add64(first.small*40, second.small, 0)
		if carry == 0 {
			combined = arc{small: sum}
		} else {
			combined = arc{big: new(big.Int).Add(new(big.Int).SetUint64(first.small*40), new(big.Int).SetUint64(second.small))}
		}
	} else {
		combined = arc{big: new(big.Int).Add(big.NewInt(int64(first.small*40)), second.big)}
	}

	out := make([]byte, 0, len(arcs)*2)
	out = appendArc(out, combined)
	for _, a := range arcs[2:] {
		out = appendArc(out, a)
	}
	return out, nil
}

// appendArc appends the base-128 run for a: the minimal big-endian magnitude
// is regrouped into 7-bit groups, leading zero groups are dropped (one is kept
// for zero), and every group but the last gets the continuation bit.
func appendArc(dst []byte, a arc) []byte {
	groups := repack(a.magnitude(), 8, 7)
	i := 0
	for i < len(groups)-1 && groups[i] == 0 {
		i++
	}
	groups = groups[i:]
	for k := 0; k < len(groups)-1; k++ {
		groups[k] |= 0x80
	}
	return append(dst, groups...)
}

// decodeArcs splits validated content into arcs, expanding the combined first
// subidentifier into two arcs.
func decodeArcs(content []byte) []arc {
	var arcs []arc
	start := 0
	for i, b := range content {
		if b&0x80 != 0 {
			continue
		}
		run := content[start : i+1]
		start = i + 1

		var a arc
		if len(run) <= maxNativeRun {
			for _, g := range run {
				a.small = a.small<<7 | uint64(g&0x7F)
			}
		} else {
			v := new(big.Int).SetBytes(repack(run, 7, 8))
			if v.IsUint64() {
				a.small = v.Uint64()
			} else {
				a.big = v
			}
		}

		if arcs == nil {
			arcs = append(arcs, splitFirst(a)...)
			continue
		}
		arcs = append(arcs, a)
	}
	return arcs
}

// splitFirst expands the first subidentifier into the first two arcs.
// Any value of 80 or more belongs to first arc 2.
func splitFirst(a arc) []arc {
	switch {
	case a.lessThan(40):
		return []arc{{small: 0}, {small: a.small}}
	case a.lessThan(80):
		return []arc{{small: 1}, {small: a.small - 40}}
	case a.big == nil:
		return []arc{{small: 2}, {small: a.small - 80}}
	default:
		v := new(big.Int).Sub(a.big, big.NewInt(80))
		if v.IsUint64() {
			return []arc{{small: 2}, {small: v.Uint64()}}
		}
		return []arc{{small: 2}, {big: v}}
	}
}

func formatArcs(content []byte) string {
	arcs := decodeArcs(content)
	var sb strings.Builder
	sb.Grow(len(content) * 4)
	for i, a := range arcs {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(a.String())
	}
	return sb.String()
}

// repack calls bitpack.Repack with fixed, valid widths.
func repack(data []byte, inBits, outBits int) []byte {
	out, err := bitpack.Repack(data, inBits, outBits)
	if err != nil {
		panic(err)
	}
	return out
}
