package schema

import (
	"fmt"

	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

// DigestAlgorithm enumerates the hash functions a schema may demand for a
// commitment or attachment digest. Byte values are consensus-critical and
// deliberately non-contiguous (they were reserved alongside algorithms this
// implementation does not expose, e.g. a single-round RIPEMD-160, which is
// considered too weak to offer here).
type DigestAlgorithm uint8

const (
	Sha256     DigestAlgorithm = 0b0001_0001
	Sha512     DigestAlgorithm = 0b0001_0010
	Bitcoin160 DigestAlgorithm = 0b0100_1000
	Bitcoin256 DigestAlgorithm = 0b0101_0001
)

func (d DigestAlgorithm) StrictEncode(w *strictenc.Writer) { w.WriteU8(uint8(d)) }

func StrictDecodeDigestAlgorithm(r *strictenc.Reader) (DigestAlgorithm, error) {
	v, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	switch DigestAlgorithm(v) {
	case Sha256, Sha512, Bitcoin160, Bitcoin256:
		return DigestAlgorithm(v), nil
	default:
		return 0, fmt.Errorf("%w: digest algorithm byte 0x%02x", strictenc.ErrEnumValueNotKnown, v)
	}
}

// EllipticCurve enumerates the curves schema-declared keys and signatures
// may use.
type EllipticCurve uint8

const (
	Secp256k1  EllipticCurve = 0x00
	Curve25519 EllipticCurve = 0x10
)

func (c EllipticCurve) StrictEncode(w *strictenc.Writer) { w.WriteU8(uint8(c)) }

func StrictDecodeEllipticCurve(r *strictenc.Reader) (EllipticCurve, error) {
	v, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	switch EllipticCurve(v) {
	case Secp256k1, Curve25519:
		return EllipticCurve(v), nil
	default:
		return 0, fmt.Errorf("%w: elliptic curve byte 0x%02x", strictenc.ErrEnumValueNotKnown, v)
	}
}

// SignatureAlgorithm enumerates the signature schemes a schema may require.
type SignatureAlgorithm uint8

const (
	Ecdsa SignatureAlgorithm = iota
	Schnorr
	Ed25519Sig
)

func (s SignatureAlgorithm) StrictEncode(w *strictenc.Writer) { w.WriteU8(uint8(s)) }

func StrictDecodeSignatureAlgorithm(r *strictenc.Reader) (SignatureAlgorithm, error) {
	v, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	switch SignatureAlgorithm(v) {
	case Ecdsa, Schnorr, Ed25519Sig:
		return SignatureAlgorithm(v), nil
	default:
		return 0, fmt.Errorf("%w: signature algorithm byte 0x%02x", strictenc.ErrEnumValueNotKnown, v)
	}
}

// PointSerialization enumerates the wire form of an elliptic curve point.
type PointSerialization uint8

const (
	Uncompressed PointSerialization = iota
	Compressed
	SchnorrBip
)

func (p PointSerialization) StrictEncode(w *strictenc.Writer) { w.WriteU8(uint8(p)) }

func StrictDecodePointSerialization(r *strictenc.Reader) (PointSerialization, error) {
	v, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	switch PointSerialization(v) {
	case Uncompressed, Compressed, SchnorrBip:
		return PointSerialization(v), nil
	default:
		return 0, fmt.Errorf("%w: point serialization byte 0x%02x", strictenc.ErrEnumValueNotKnown, v)
	}
}

// Layer1 identifies the settlement layer a single-use seal is defined over.
// Bitcoin is the dumb (zero) default: a schema or anchor that forgot to set
// this field resolves to Bitcoin rather than an invalid state.
type Layer1 uint8

const (
	LayerBitcoin Layer1 = 0
	LayerLiquid  Layer1 = 1
)

func (l Layer1) StrictEncode(w *strictenc.Writer) { w.WriteU8(uint8(l)) }

func StrictDecodeLayer1(r *strictenc.Reader) (Layer1, error) {
	v, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	switch Layer1(v) {
	case LayerBitcoin, LayerLiquid:
		return Layer1(v), nil
	default:
		return 0, fmt.Errorf("%w: layer1 byte 0x%02x", strictenc.ErrEnumValueNotKnown, v)
	}
}
