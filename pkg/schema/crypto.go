// Copyright 2025 LNP/BP RGB Contributors
//
// crypto.go gives the schema's digest/curve/signature algorithm tags
// (§4.B type algebra) real behavior: computing the declared digest and
// checking a declared-curve signature. The core validator never calls
// these itself — per the opaque script-oracle design (open question b),
// checking a contract's embedded signatures and digests is the script
// oracle's job, not the graph-traversal algorithm's. These methods give
// a ScriptVM implementation (or a test standing in for one) a concrete,
// correct place to do that work instead of reinventing it per schema.

package schema

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/ripemd160"
)

// Size reports the byte length of d's digest output.
func (d DigestAlgorithm) Size() int {
	switch d {
	case Sha256, Bitcoin256:
		return 32
	case Sha512:
		return 64
	case Bitcoin160:
		return 20
	default:
		return 0
	}
}

// Sum computes d's digest of data. Bitcoin256 is double-SHA256;
// Bitcoin160 is RIPEMD160(SHA256(data)), Bitcoin's standard hash160.
func (d DigestAlgorithm) Sum(data []byte) ([]byte, error) {
	switch d {
	case Sha256:
		h := sha256.Sum256(data)
		return h[:], nil
	case Sha512:
		h := sha512.Sum512(data)
		return h[:], nil
	case Bitcoin256:
		h1 := sha256.Sum256(data)
		h2 := sha256.Sum256(h1[:])
		return h2[:], nil
	case Bitcoin160:
		h1 := sha256.Sum256(data)
		r := ripemd160.New()
		r.Write(h1[:])
		return r.Sum(nil), nil
	default:
		return nil, fmt.Errorf("digest algorithm 0x%02x has no defined sum", uint8(d))
	}
}

// PubKeySize reports the canonical public-key length for c.
func (c EllipticCurve) PubKeySize() int {
	switch c {
	case Secp256k1:
		return 33 // compressed
	case Curve25519:
		return 32
	default:
		return 0
	}
}

// ValidatePubKey reports whether key is a well-formed public key on c.
// For Curve25519, besides the 32-byte length it rejects low-order
// points: X25519 against a fixed clamped scalar must not collapse to
// an all-zero shared secret, the standard small-subgroup sanity check
// for Montgomery-form keys (RFC 7748 §6.1).
func (c EllipticCurve) ValidatePubKey(key []byte) error {
	switch c {
	case Secp256k1:
		_, err := btcec.ParsePubKey(key)
		if err != nil {
			return fmt.Errorf("secp256k1 public key: %w", err)
		}
		return nil
	case Curve25519:
		if len(key) != 32 {
			return fmt.Errorf("curve25519 public key must be 32 bytes, got %d", len(key))
		}
		var scalar [32]byte
		scalar[0] = 1
		if _, err := curve25519.X25519(scalar[:], key); err != nil {
			return fmt.Errorf("curve25519 public key: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown elliptic curve 0x%02x", uint8(c))
	}
}

// Verify checks sig over msg under pubkey, using the scheme s names.
// Ecdsa and Schnorr expect a secp256k1 pubkey (33 or 32 bytes
// respectively); Ed25519Sig expects a 32-byte Ed25519 public key.
func (s SignatureAlgorithm) Verify(pubkey, msg, sig []byte) (bool, error) {
	switch s {
	case Ecdsa:
		pk, err := btcec.ParsePubKey(pubkey)
		if err != nil {
			return false, fmt.Errorf("ecdsa public key: %w", err)
		}
		parsed, err := ecdsa.ParseDERSignature(sig)
		if err != nil {
			return false, fmt.Errorf("ecdsa signature: %w", err)
		}
		return parsed.Verify(msg, pk), nil
	case Schnorr:
		pk, err := schnorr.ParsePubKey(pubkey)
		if err != nil {
			return false, fmt.Errorf("schnorr public key: %w", err)
		}
		parsed, err := schnorr.ParseSignature(sig)
		if err != nil {
			return false, fmt.Errorf("schnorr signature: %w", err)
		}
		return parsed.Verify(msg, pk), nil
	case Ed25519Sig:
		if len(pubkey) != ed25519.PublicKeySize {
			return false, fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pubkey))
		}
		return ed25519.Verify(ed25519.PublicKey(pubkey), msg, sig), nil
	default:
		return false, fmt.Errorf("unknown signature algorithm %d", uint8(s))
	}
}
