package schema

import (
	"fmt"
	"math/big"

	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

// Kind is the wire tag of an Occurrences variant.
type Kind uint8

const (
	KindNoneOrOnce Kind = 0x00
	KindOnce       Kind = 0x01
	KindNoneOrUpTo Kind = 0xFE
	KindOnceOrUpTo Kind = 0xFF
)

// Occurrences bounds how many times a schema element may appear on a
// single operation: Once | NoneOrOnce | OnceOrUpTo(max) | NoneOrUpTo(max),
// all of it parameterized by an integer width (u8/u16/u32/u64) that
// determines the resolved "None" (unbounded) ceiling.
type Occurrences struct {
	Width Bits
	Kind  Kind
	// Max holds the resolved upper bound. For Once/NoneOrOnce it is
	// always 1. For *UpTo variants, a caller-supplied max, or Width's
	// max value when the RGB source's `None` ("unbounded up to I::MAX")
	// was requested.
	Max uint64
}

// Once requires the element to appear exactly once.
func Once(width Bits) Occurrences {
	return Occurrences{Width: width, Kind: KindOnce, Max: 1}
}

// NoneOrOnce allows the element to be absent or appear once.
func NoneOrOnce(width Bits) Occurrences {
	return Occurrences{Width: width, Kind: KindNoneOrOnce, Max: 1}
}

// OnceOrUpTo requires at least one occurrence and at most max (or the
// width's ceiling when max is nil).
func OnceOrUpTo(width Bits, max *uint64) Occurrences {
	return Occurrences{Width: width, Kind: KindOnceOrUpTo, Max: resolveMax(width, max)}
}

// NoneOrUpTo allows zero occurrences up to max (or the width's ceiling
// when max is nil).
func NoneOrUpTo(width Bits, max *uint64) Occurrences {
	return Occurrences{Width: width, Kind: KindNoneOrUpTo, Max: resolveMax(width, max)}
}

func resolveMax(width Bits, max *uint64) uint64 {
	if max == nil {
		return width.MaxValue()
	}
	return *max
}

// IsUnbounded reports whether this Occurrences resolved its maximum to
// the width's ceiling (the RGB source's `None`).
func (o Occurrences) IsUnbounded() bool {
	return o.Max == o.Width.MaxValue()
}

// MinValue returns the minimum admissible count.
func (o Occurrences) MinValue() uint64 {
	switch o.Kind {
	case KindOnce, KindOnceOrUpTo:
		return 1
	default:
		return 0
	}
}

// MaxValue returns the maximum admissible count.
func (o Occurrences) MaxValue() uint64 {
	switch o.Kind {
	case KindOnce, KindNoneOrOnce:
		return 1
	default:
		return o.Max
	}
}

// OccurrencesError reports a count outside [min, max]. All three fields
// are widened to handle a count wider than the declared integer width
// without truncation, per the source's u128 widening.
type OccurrencesError struct {
	Min, Max, Found *big.Int
}

func (e *OccurrencesError) Error() string {
	return fmt.Sprintf("occurrences: expected between %s and %s, found %s", e.Min, e.Max, e.Found)
}

// Check validates count against the occurrence bounds. count may exceed
// the declared width's maximum (e.g. an adversarial consignment claiming
// an absurd number of assignments); in that case Check still fails with
// Found set to the untruncated count rather than wrapping or panicking.
func (o Occurrences) Check(count *big.Int) error {
	min := new(big.Int).SetUint64(o.MinValue())
	max := new(big.Int).SetUint64(o.MaxValue())
	widthMax := new(big.Int).SetUint64(o.Width.MaxValue())

	fail := func() error {
		return &OccurrencesError{Min: min, Max: max, Found: new(big.Int).Set(count)}
	}

	if count.Sign() < 0 {
		return fail()
	}
	if count.Cmp(widthMax) > 0 {
		return fail()
	}

	switch o.Kind {
	case KindOnce:
		if count.Cmp(big.NewInt(1)) == 0 {
			return nil
		}
	case KindNoneOrOnce:
		if count.Cmp(big.NewInt(1)) <= 0 {
			return nil
		}
	case KindOnceOrUpTo:
		if count.Sign() > 0 && count.Cmp(max) <= 0 {
			return nil
		}
	case KindNoneOrUpTo:
		if count.Cmp(max) <= 0 {
			return nil
		}
	}
	return fail()
}

// CheckCount is a convenience wrapper for counts that always fit a uint64
// (the overwhelming majority of call sites: lengths of in-memory slices).
func (o Occurrences) CheckCount(count uint64) error {
	return o.Check(new(big.Int).SetUint64(count))
}

// StrictEncode writes the 9-byte wire form: a 1-byte tag followed by the
// u64 max (0 for Once/NoneOrOnce, which carry no max semantics).
func (o Occurrences) StrictEncode(w *strictenc.Writer) {
	w.WriteU8(uint8(o.Kind))
	switch o.Kind {
	case KindOnce, KindNoneOrOnce:
		w.WriteU64(0)
	default:
		w.WriteU64(o.Max)
	}
}

// StrictDecodeOccurrences reads the 9-byte wire form for the given width.
// The same raw bytes decode differently depending on width: a max field
// equal to the width's ceiling resolves to "unbounded", matching the
// source's per-I instantiation of the Occurences<I> type.
func StrictDecodeOccurrences(r *strictenc.Reader, width Bits) (Occurrences, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return Occurrences{}, err
	}
	maxRaw, err := r.ReadU64()
	if err != nil {
		return Occurrences{}, err
	}

	switch Kind(tag) {
	case KindNoneOrOnce:
		return NoneOrOnce(width), nil
	case KindOnce:
		return Once(width), nil
	case KindNoneOrUpTo:
		if maxRaw == width.MaxValue() {
			return NoneOrUpTo(width, nil), nil
		}
		return NoneOrUpTo(width, &maxRaw), nil
	case KindOnceOrUpTo:
		if maxRaw == width.MaxValue() {
			return OnceOrUpTo(width, nil), nil
		}
		return OnceOrUpTo(width, &maxRaw), nil
	default:
		return Occurrences{}, fmt.Errorf("%w: occurrences tag 0x%02x", strictenc.ErrEnumValueNotKnown, tag)
	}
}
