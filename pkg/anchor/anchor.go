package anchor

import (
	"errors"
	"fmt"

	"github.com/lnp-bp/rgb-validation-core/pkg/bitcoin"
	"github.com/lnp-bp/rgb-validation-core/pkg/schema"
	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

// ErrDualTxidMismatch is returned when a Dual anchor's tapret and opret
// components name different witness transactions; a Dual anchor is only
// well-formed when both commitments live in the same tx.
var ErrDualTxidMismatch = errors.New("anchor: dual anchor components disagree on witness txid")

// AnchorKind tags which DBC proof form(s) an AnchorSet carries.
type AnchorKind uint8

const (
	KindTapret AnchorKind = 0x01
	KindOpret  AnchorKind = 0x02
	KindDual   AnchorKind = 0x03
)

// AnchorSet binds a bundle to a witness transaction via one or both DBC
// proof forms. Dual requires both the tapret and opret components to
// verify: a Dual anchor with one valid and one invalid inner commitment
// is invalid as a whole, never partially accepted.
type AnchorSet struct {
	Kind   AnchorKind
	Txid   bitcoin.Txid
	Mpc    MpcProof
	Tapret *TapretProof
	Opret  *OpretProof
}

// NewDualAnchorSet constructs a Dual anchor from separately-sourced
// tapret and opret components, enforcing the invariant that both name
// the same witness txid. AnchorSet::txid() has no meaning for a Dual
// anchor whose components disagree, so construction fails outright
// rather than producing a set callers must remember to double-check.
func NewDualAnchorSet(tapretTxid, opretTxid bitcoin.Txid, mpc MpcProof, tapret TapretProof, opret OpretProof) (AnchorSet, error) {
	if !tapretTxid.IsEqual(&opretTxid) {
		return AnchorSet{}, ErrDualTxidMismatch
	}
	return AnchorSet{Kind: KindDual, Txid: tapretTxid, Mpc: mpc, Tapret: &tapret, Opret: &opret}, nil
}

// Verify recomputes the MPC root from mpc and bundleId, then checks the
// DBC proof(s) embed that root in wtx. For Dual, both components must
// independently verify.
func (a AnchorSet) Verify(bundleID strictenc.ID, wtx bitcoin.WitnessTx) error {
	if !a.Txid.IsEqual(&wtx.Txid) {
		return fmt.Errorf("anchor: witness tx id mismatch")
	}

	root := a.Mpc.Recompute(bundleID)

	switch a.Kind {
	case KindTapret:
		if a.Tapret == nil {
			return fmt.Errorf("%w: tapret anchor missing tapret proof", ErrDbcInvalid)
		}
		return a.Tapret.Verify(wtx, root)
	case KindOpret:
		if a.Opret == nil {
			return fmt.Errorf("%w: opret anchor missing opret proof", ErrDbcInvalid)
		}
		return a.Opret.Verify(wtx, root)
	case KindDual:
		if a.Tapret == nil || a.Opret == nil {
			return fmt.Errorf("%w: dual anchor missing a component proof", ErrDbcInvalid)
		}
		if err := a.Tapret.Verify(wtx, root); err != nil {
			return err
		}
		return a.Opret.Verify(wtx, root)
	default:
		return fmt.Errorf("anchor: unknown anchor kind %d", a.Kind)
	}
}

// MergeReveal combines two AnchorSets referring to the same commitment,
// each holding a partial MPC proof, into one containing the union of
// revealed paths. It fails with ErrProofMismatch if the anchor kinds
// differ or the underlying DBC proofs disagree.
func (a AnchorSet) MergeReveal(other AnchorSet) (AnchorSet, error) {
	if a.Kind != other.Kind {
		return AnchorSet{}, fmt.Errorf("%w: anchor kinds differ (%d vs %d)", ErrProofMismatch, a.Kind, other.Kind)
	}
	if !a.Txid.IsEqual(&other.Txid) {
		return AnchorSet{}, fmt.Errorf("%w: witness txids differ", ErrProofMismatch)
	}
	if (a.Tapret == nil) != (other.Tapret == nil) || (a.Tapret != nil && *a.Tapret != *other.Tapret) {
		return AnchorSet{}, fmt.Errorf("%w: tapret proofs disagree", ErrProofMismatch)
	}
	if (a.Opret == nil) != (other.Opret == nil) || (a.Opret != nil && *a.Opret != *other.Opret) {
		return AnchorSet{}, fmt.Errorf("%w: opret proofs disagree", ErrProofMismatch)
	}
	mergedMpc, err := MergeReveal(a.Mpc, other.Mpc)
	if err != nil {
		return AnchorSet{}, err
	}
	merged := a
	merged.Mpc = mergedMpc
	return merged, nil
}

// StrictEncode writes the anchor set's kind, witness txid, mpc proof, and
// whichever of the tapret/opret component proofs the kind calls for.
func (a AnchorSet) StrictEncode(w *strictenc.Writer) {
	w.WriteU8(uint8(a.Kind))
	w.WriteRaw(a.Txid[:])
	a.Mpc.StrictEncode(w)
	if a.Kind == KindTapret || a.Kind == KindDual {
		a.Tapret.StrictEncode(w)
	}
	if a.Kind == KindOpret || a.Kind == KindDual {
		a.Opret.StrictEncode(w)
	}
}

// StrictDecodeAnchorSet decodes an AnchorSet exactly as encoded by
// AnchorSet.StrictEncode.
func StrictDecodeAnchorSet(r *strictenc.Reader) (AnchorSet, error) {
	kindByte, err := r.ReadU8()
	if err != nil {
		return AnchorSet{}, err
	}
	kind := AnchorKind(kindByte)

	txidBytes, err := r.ReadRaw(32)
	if err != nil {
		return AnchorSet{}, err
	}
	var txid bitcoin.Txid
	copy(txid[:], txidBytes)

	mpc, err := StrictDecodeMpcProof(r)
	if err != nil {
		return AnchorSet{}, err
	}

	out := AnchorSet{Kind: kind, Txid: txid, Mpc: mpc}

	if kind == KindTapret || kind == KindDual {
		tapret, err := StrictDecodeTapretProof(r)
		if err != nil {
			return AnchorSet{}, err
		}
		out.Tapret = &tapret
	}
	if kind == KindOpret || kind == KindDual {
		opret, err := StrictDecodeOpretProof(r)
		if err != nil {
			return AnchorSet{}, err
		}
		out.Opret = &opret
	}
	return out, nil
}

// Anchor names which settlement layer an AnchorSet commits on.
type Anchor struct {
	Layer1 schema.Layer1
	Set    AnchorSet
}

// StrictEncode writes the settlement layer followed by the anchor set.
func (a Anchor) StrictEncode(w *strictenc.Writer) {
	a.Layer1.StrictEncode(w)
	a.Set.StrictEncode(w)
}

// StrictDecodeAnchor decodes an Anchor exactly as encoded by
// Anchor.StrictEncode.
func StrictDecodeAnchor(r *strictenc.Reader) (Anchor, error) {
	layer, err := schema.StrictDecodeLayer1(r)
	if err != nil {
		return Anchor{}, err
	}
	set, err := StrictDecodeAnchorSet(r)
	if err != nil {
		return Anchor{}, err
	}
	return Anchor{Layer1: layer, Set: set}, nil
}

// WitnessId identifies a witness transaction by layer and txid.
type WitnessId struct {
	Layer1 schema.Layer1
	Txid   bitcoin.Txid
}

// WitnessTxid returns the anchor set's witness txid. An AnchorSet stores
// a single Txid shared by all of its component proofs (NewDualAnchorSet
// refuses components that disagree), so the txid is always available and
// the boolean is always true; no proof is checked here.
func (a Anchor) WitnessTxid() (bitcoin.Txid, bool) {
	return a.Set.Txid, true
}
