package state

import (
	"crypto/sha256"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// secondGenerator derives a NUMS ("nothing up my sleeve") point H on
// secp256k1 for a given asset tag, independent per asset so commitments
// for different assets cannot be mixed. It uses a try-and-increment
// hash-to-curve rather than a scalar multiple of the base point G: if H
// were h*G for a known scalar h, an observer who knows h could rewrite a
// commitment v*G + r*H as (v+r*h)*G and forge alternate (v', r') openings,
// defeating the commitment's binding property. try-and-increment avoids
// ever exposing a discrete log of H relative to G.
func secondGenerator(assetTag []byte) (x, y *big.Int, err error) {
	curve := btcec.S256()
	p := curve.Params().P
	for counter := uint32(0); ; counter++ {
		h := sha256.New()
		h.Write([]byte("urn:lnp-bp:rgb:pedersen-generator#2024-02-12\n"))
		h.Write(assetTag)
		h.Write([]byte{byte(counter >> 24), byte(counter >> 16), byte(counter >> 8), byte(counter)})
		candidateX := new(big.Int).SetBytes(h.Sum(nil))
		candidateX.Mod(candidateX, p)

		candidateY, ok := liftX(candidateX)
		if !ok {
			continue
		}
		return candidateX, candidateY, nil
	}
}

// liftX recovers the (even) y-coordinate for a secp256k1 x-coordinate, or
// reports false if x is not on the curve.
func liftX(x *big.Int) (*big.Int, bool) {
	curve := btcec.S256()
	params := curve.Params()
	p := params.P

	// y^2 = x^3 + 7 mod p
	rhs := new(big.Int).Exp(x, big.NewInt(3), p)
	rhs.Add(rhs, big.NewInt(7))
	rhs.Mod(rhs, p)

	y := new(big.Int).ModSqrt(rhs, p)
	if y == nil {
		return nil, false
	}
	if y.Bit(0) != 0 {
		y.Sub(p, y)
	}
	return y, true
}

// pedersenCommit computes amount*G + blinding*H for the curve's base point
// G and the asset-specific generator H, returning the SEC1-compressed
// point (0x02/0x03 prefix + 32-byte big-endian x).
func pedersenCommit(amount uint64, blinding [32]byte, assetTag []byte) ([]byte, error) {
	curve := btcec.S256()

	amountScalar := new(big.Int).SetUint64(amount).Bytes()
	var amountBuf [32]byte
	copy(amountBuf[32-len(amountScalar):], amountScalar)

	vx, vy := curve.ScalarBaseMult(amountBuf[:])

	hx, hy, err := secondGenerator(assetTag)
	if err != nil {
		return nil, err
	}
	rx, ry := curve.ScalarMult(hx, hy, blinding[:])

	cx, cy := curve.Add(vx, vy, rx, ry)
	return compressPoint(cx, cy), nil
}

func compressPoint(x, y *big.Int) []byte {
	out := make([]byte, 33)
	if y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	xb := x.Bytes()
	copy(out[33-len(xb):], xb)
	return out
}
