// Copyright 2025 LNP/BP RGB Contributors
//
// Package schema implements the type algebra a Schema uses to bound the
// shape of admissible contract state: bit widths, occurrence ranges, and
// the small non-exhaustive enums (digest/curve/signature/point encoding)
// whose wire byte values are part of the consensus-critical protocol.

package schema

import (
	"fmt"
	"math"

	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

// Bits is the declared bit width of a numeric schema value.
type Bits uint8

const (
	Bit8  Bits = 1
	Bit16 Bits = 2
	Bit32 Bits = 4
	Bit64 Bits = 8
)

// MaxValue returns 2^bitlen - 1.
func (b Bits) MaxValue() uint64 {
	switch b {
	case Bit8:
		return math.MaxUint8
	case Bit16:
		return math.MaxUint16
	case Bit32:
		return math.MaxUint32
	case Bit64:
		return math.MaxUint64
	default:
		return 0
	}
}

// ByteLen returns the wire byte value for this width (also its size in bytes).
func (b Bits) ByteLen() int {
	return int(b)
}

// BitLen returns the bit width.
func (b Bits) BitLen() int {
	return b.ByteLen() * 8
}

// DecodeBits decodes a wire byte into a Bits value, rejecting anything
// that isn't one of the four declared widths.
func DecodeBits(v uint8) (Bits, error) {
	switch Bits(v) {
	case Bit8, Bit16, Bit32, Bit64:
		return Bits(v), nil
	default:
		return 0, fmt.Errorf("%w: bits byte 0x%02x", strictenc.ErrEnumValueNotKnown, v)
	}
}

// StrictEncode writes the single-byte repr.
func (b Bits) StrictEncode(w *strictenc.Writer) {
	w.WriteU8(uint8(b))
}

// StrictDecodeBits reads and validates a Bits byte from r.
func StrictDecodeBits(r *strictenc.Reader) (Bits, error) {
	v, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	return DecodeBits(v)
}
