package anchor

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/lnp-bp/rgb-validation-core/pkg/bitcoin"
	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

// ErrDbcInvalid is returned when a tapret or opret proof's witness
// transaction does not actually embed the claimed commitment.
var ErrDbcInvalid = errors.New("anchor: dbc proof does not match witness transaction")

// ErrProofMismatch is returned by MergeReveal and Anchor merging when two
// proofs claim to cover the same commitment but disagree.
var ErrProofMismatch = errors.New("anchor: proofs disagree on the same commitment")

const (
	tagTapret = "urn:lnp-bp:rgb:tapret#2024-02-12"
	tagOpret  = "urn:lnp-bp:rgb:opret#2024-02-12"
)

// taggedHash implements BIP340's tagged hash: SHA256(SHA256(tag) ||
// SHA256(tag) || msg).
func taggedHash(tag string, msg []byte) [32]byte {
	tagHash := sha256.Sum256([]byte(tag))
	h := sha256.New()
	h.Write(tagHash[:])
	h.Write(tagHash[:])
	h.Write(msg)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// dbcCommitment folds an MPC root into the host-transaction-visible
// commitment a tapret or opret proof embeds: a tagged hash domain
// separating the two commitment forms so a tapret commitment and an
// opret commitment to the same root never collide.
func dbcCommitment(tag string, mpcRoot strictenc.ID) strictenc.ID {
	return strictenc.CommitID(tag, mpcRoot.Bytes())
}

// OpretProof locates the OP_RETURN output carrying the commitment.
type OpretProof struct {
	OutputIndex int
}

// StrictEncode writes the proof's output index.
func (p OpretProof) StrictEncode(w *strictenc.Writer) { w.WriteU32(uint32(p.OutputIndex)) }

// StrictDecodeOpretProof decodes a proof exactly as encoded by
// OpretProof.StrictEncode.
func StrictDecodeOpretProof(r *strictenc.Reader) (OpretProof, error) {
	idx, err := r.ReadU32()
	if err != nil {
		return OpretProof{}, err
	}
	return OpretProof{OutputIndex: int(idx)}, nil
}

// Verify checks that wtx's output at OutputIndex is an OP_RETURN output
// whose pushed data equals the opret commitment for mpcRoot.
func (p OpretProof) Verify(wtx bitcoin.WitnessTx, mpcRoot strictenc.ID) error {
	if p.OutputIndex < 0 || p.OutputIndex >= len(wtx.Outputs) {
		return fmt.Errorf("%w: opret output index %d out of range", ErrDbcInvalid, p.OutputIndex)
	}
	script := wtx.Outputs[p.OutputIndex].PkScript
	pushed, ok := opretPush(script)
	if !ok {
		return fmt.Errorf("%w: output %d is not an OP_RETURN commitment", ErrDbcInvalid, p.OutputIndex)
	}
	want := dbcCommitment(tagOpret, mpcRoot)
	if !bytes.Equal(pushed, want.Bytes()) {
		return fmt.Errorf("%w: opret push does not match expected commitment", ErrDbcInvalid)
	}
	return nil
}

// opretPush recognizes `OP_RETURN <32-byte push>` and returns the pushed
// bytes. Other OP_RETURN shapes (different push lengths, multiple pushes)
// are rejected rather than guessed at.
func opretPush(script []byte) ([]byte, bool) {
	const opReturn = 0x6a
	const push32 = 0x20
	if len(script) != 34 || script[0] != opReturn || script[1] != push32 {
		return nil, false
	}
	return script[2:34], true
}

// TapretProof commits the MPC root as the taproot tweak applied to an
// internal key, at a given output index. InternalKey is the 32-byte
// x-only public key the prover tweaked; no separate script tree is
// modelled here (the committed "merkle root" is exactly the opret-style
// tagged commitment to the MPC root).
type TapretProof struct {
	OutputIndex int
	InternalKey [32]byte
}

// StrictEncode writes the proof's output index and internal key.
func (p TapretProof) StrictEncode(w *strictenc.Writer) {
	w.WriteU32(uint32(p.OutputIndex))
	w.WriteRaw(p.InternalKey[:])
}

// StrictDecodeTapretProof decodes a proof exactly as encoded by
// TapretProof.StrictEncode.
func StrictDecodeTapretProof(r *strictenc.Reader) (TapretProof, error) {
	idx, err := r.ReadU32()
	if err != nil {
		return TapretProof{}, err
	}
	keyBytes, err := r.ReadRaw(32)
	if err != nil {
		return TapretProof{}, err
	}
	var key [32]byte
	copy(key[:], keyBytes)
	return TapretProof{OutputIndex: int(idx), InternalKey: key}, nil
}

// Verify recomputes the taproot output key per BIP341's tweak formula
// and checks it matches the x-only key embedded in wtx's output script.
func (p TapretProof) Verify(wtx bitcoin.WitnessTx, mpcRoot strictenc.ID) error {
	if p.OutputIndex < 0 || p.OutputIndex >= len(wtx.Outputs) {
		return fmt.Errorf("%w: tapret output index %d out of range", ErrDbcInvalid, p.OutputIndex)
	}
	script := wtx.Outputs[p.OutputIndex].PkScript
	outputX, ok := taprootWitnessProgram(script)
	if !ok {
		return fmt.Errorf("%w: output %d is not a taproot output", ErrDbcInvalid, p.OutputIndex)
	}

	commitment := dbcCommitment(tagTapret, mpcRoot)
	gotX, err := tapTweak(p.InternalKey, commitment)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDbcInvalid, err)
	}
	if !bytes.Equal(gotX, outputX) {
		return fmt.Errorf("%w: recomputed output key does not match witness output", ErrDbcInvalid)
	}
	return nil
}

// taprootWitnessProgram recognizes `OP_1 <32-byte push>` (a P2TR
// scriptPubKey) and returns the 32-byte x-only output key.
func taprootWitnessProgram(script []byte) ([]byte, bool) {
	const op1 = 0x51
	const push32 = 0x20
	if len(script) != 34 || script[0] != op1 || script[1] != push32 {
		return nil, false
	}
	return script[2:34], true
}

// tapTweak computes BIP341's Q = lift_x(internalKey) + t*G, t =
// taggedHash("TapTweak", internalKey || merkleRoot), returning Q's
// 32-byte x-only coordinate.
func tapTweak(internalKey [32]byte, merkleRoot strictenc.ID) ([]byte, error) {
	curve := btcec.S256()

	px := new(big.Int).SetBytes(internalKey[:])
	py, ok := liftX(px)
	if !ok {
		return nil, errors.New("internal key is not a valid x-only point")
	}

	t := taggedHash("TapTweak", append(append([]byte{}, internalKey[:]...), merkleRoot.Bytes()...))
	tx, ty := curve.ScalarBaseMult(t[:])

	qx, _ := curve.Add(px, py, tx, ty)
	out := make([]byte, 32)
	qxBytes := qx.Bytes()
	copy(out[32-len(qxBytes):], qxBytes)
	return out, nil
}

// liftX recovers the (even) y-coordinate for a secp256k1 x-only
// coordinate, or reports false if x is not on the curve.
func liftX(x *big.Int) (*big.Int, bool) {
	curve := btcec.S256()
	params := curve.Params()
	p := params.P

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
