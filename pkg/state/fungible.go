package state

import "github.com/lnp-bp/rgb-validation-core/pkg/strictenc"

// FungibleRevealed is a spendable amount of an asset: the amount itself,
// a 32-byte blinding factor, and the asset tag that separates one asset's
// commitments from another's.
type FungibleRevealed struct {
	Amount   uint64
	Blinding [32]byte
	AssetTag [32]byte
}

// FungibleConcealed is a Pedersen commitment to the amount plus an opaque
// range-proof reference. The range proof itself is not re-derived or
// checked by this core: it is treated, like the embedded script, as an
// external artifact the issuer/prover attaches and the verifier does not
// recompute bit-by-bit here.
type FungibleConcealed struct {
	Commitment []byte
	RangeProof []byte
}

// Conceal computes the Pedersen commitment amount*G + blinding*H. The
// range proof slot is left empty; callers that need one attach it
// separately (e.g. a prover service) before transmission.
func (r FungibleRevealed) Conceal() (FungibleConcealed, error) {
	commitment, err := pedersenCommit(r.Amount, r.Blinding, r.AssetTag[:])
	if err != nil {
		return FungibleConcealed{}, err
	}
	return FungibleConcealed{Commitment: commitment}, nil
}

// Less orders revealed fungible state by amount, then blinding, then
// asset tag, used when a schema requires deterministic assignment
// ordering within an operation.
func (r FungibleRevealed) Less(other FungibleRevealed) bool {
	if r.Amount != other.Amount {
		return r.Amount < other.Amount
	}
	for i := range r.Blinding {
		if r.Blinding[i] != other.Blinding[i] {
			return r.Blinding[i] < other.Blinding[i]
		}
	}
	for i := range r.AssetTag {
		if r.AssetTag[i] != other.AssetTag[i] {
			return r.AssetTag[i] < other.AssetTag[i]
		}
	}
	return false
}

func (r FungibleRevealed) StrictEncode(w *strictenc.Writer) {
	w.WriteU64(r.Amount)
	w.WriteRaw(r.Blinding[:])
	w.WriteRaw(r.AssetTag[:])
}

func StrictDecodeFungibleRevealed(r *strictenc.Reader) (FungibleRevealed, error) {
	amount, err := r.ReadU64()
	if err != nil {
		return FungibleRevealed{}, err
	}
	blinding, err := r.ReadRaw(32)
	if err != nil {
		return FungibleRevealed{}, err
	}
	assetTag, err := r.ReadRaw(32)
	if err != nil {
		return FungibleRevealed{}, err
	}
	var out FungibleRevealed
	out.Amount = amount
	copy(out.Blinding[:], blinding)
	copy(out.AssetTag[:], assetTag)
	return out, nil
}
