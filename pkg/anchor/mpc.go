// Copyright 2025 LNP/BP RGB Contributors
//
// Package anchor implements the DBC (deterministic bitcoin commitment)
// layer: AnchorSet (tapret/opret/dual), the MPC merkle proof binding a
// bundle id into a witness transaction's commitment, and witness
// ordering used to linearize an operation graph across witnesses.
package anchor

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

// ErrMpcInvalid is returned when a merkle proof does not recompute to the
// claimed root.
var ErrMpcInvalid = errors.New("anchor: mpc proof does not resolve to the expected root")

// MpcPosition records which side of a pair a sibling hash sits on when
// recomputing a parent node.
type MpcPosition uint8

const (
	MpcLeft MpcPosition = iota
	MpcRight
)

// MpcProofNode is one step of the path from a bundle's leaf to the MPC
// tree root: a sibling hash and its position.
type MpcProofNode struct {
	Sibling  strictenc.ID
	Position MpcPosition
}

// MpcProof is the multi-protocol-commitment merkle proof binding one
// bundle id into a shared root alongside other protocols' commitments in
// the same witness transaction. Odd-width levels duplicate the lone node,
// matching standard merkle tree construction.
type MpcProof struct {
	Path []MpcProofNode
}

func hashPair(left, right strictenc.ID) strictenc.ID {
	h := sha256.New()
	h.Write(left.Bytes())
	h.Write(right.Bytes())
	var out strictenc.ID
	copy(out[:], h.Sum(nil))
	return out
}

// Recompute walks the proof path from bundleId and returns the resulting
// root.
func (p MpcProof) Recompute(bundleID strictenc.ID) strictenc.ID {
	current := bundleID
	for _, node := range p.Path {
		if node.Position == MpcLeft {
			current = hashPair(node.Sibling, current)
		} else {
			current = hashPair(current, node.Sibling)
		}
	}
	return current
}

// StrictEncode writes the proof's path, one sibling+position pair at a
// time, in root-ward order.
func (p MpcProof) StrictEncode(w *strictenc.Writer) {
	w.WriteU16(uint16(len(p.Path)))
	for _, node := range p.Path {
		w.WriteRaw(node.Sibling.Bytes())
		w.WriteU8(uint8(node.Position))
	}
}

// StrictDecodeMpcProof decodes a proof exactly as encoded by
// MpcProof.StrictEncode.
func StrictDecodeMpcProof(r *strictenc.Reader) (MpcProof, error) {
	count, err := r.ReadU16()
	if err != nil {
		return MpcProof{}, err
	}
	path := make([]MpcProofNode, count)
	for i := uint16(0); i < count; i++ {
		sibBytes, err := r.ReadRaw(32)
		if err != nil {
			return MpcProof{}, err
		}
		posByte, err := r.ReadU8()
		if err != nil {
			return MpcProof{}, err
		}
		var sib strictenc.ID
		copy(sib[:], sibBytes)
		path[i] = MpcProofNode{Sibling: sib, Position: MpcPosition(posByte)}
	}
	return MpcProof{Path: path}, nil
}

// VerifyRoot checks that the proof resolves bundleId to expectedRoot using
// a constant-time comparison, since the root is attacker-observable
// consensus data but we still avoid timing variance as a matter of
// discipline shared with the rest of this codebase's hash comparisons.
func VerifyRoot(bundleID strictenc.ID, proof MpcProof, expectedRoot strictenc.ID) error {
	got := proof.Recompute(bundleID)
	if subtle.ConstantTimeCompare(got.Bytes(), expectedRoot.Bytes()) != 1 {
		return fmt.Errorf("%w: got %x, want %x", ErrMpcInvalid, got, expectedRoot)
	}
	return nil
}

// MergeReveal combines two proofs for the same bundle id and root into
// one containing the union of revealed path nodes. Proofs that disagree
// on the sibling at any shared depth cannot belong to the same tree and
// the merge fails with ErrProofMismatch.
func MergeReveal(a, b MpcProof) (MpcProof, error) {
	n := len(a.Path)
	if len(b.Path) > n {
		n = len(b.Path)
	}
	merged := make([]MpcProofNode, 0, n)
	for i := 0; i < n; i++ {
		switch {
		case i >= len(a.Path):
			merged = append(merged, b.Path[i])
		case i >= len(b.Path):
			merged = append(merged, a.Path[i])
		default:
			if a.Path[i] != b.Path[i] {
				return MpcProof{}, fmt.Errorf("%w: mpc proofs diverge at depth %d", ErrProofMismatch, i)
			}
			merged = append(merged, a.Path[i])
		}
	}
	return MpcProof{Path: merged}, nil
}
