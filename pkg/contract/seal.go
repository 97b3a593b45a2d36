package contract

import (
	"github.com/lnp-bp/rgb-validation-core/pkg/bitcoin"
	"github.com/lnp-bp/rgb-validation-core/pkg/schema"
	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

const tagSeal = "urn:lnp-bp:rgb:seal#2024-02-12"

// SealKind tags whether a Seal is transmitted in the clear (Revealed) or
// only as its concealed commitment.
type SealKind uint8

const (
	SealRevealed SealKind = iota
	SealConcealed
)

// RevealedSeal is an outpoint-based single-use seal: the prevout it
// binds to and a blinding factor randomizing its concealed form so an
// observer cannot link a concealed seal back to its outpoint without the
// blinding.
type RevealedSeal struct {
	Outpoint bitcoin.OutPoint
	Blinding [32]byte
}

// Conceal computes the tagged commitment hiding the outpoint and
// blinding.
func (s RevealedSeal) Conceal() strictenc.ID {
	w := strictenc.NewWriter()
	w.WriteRaw(s.Outpoint.Txid[:])
	w.WriteU32(s.Outpoint.Vout)
	w.WriteRaw(s.Blinding[:])
	return strictenc.CommitID(tagSeal, w.Bytes())
}

// Seal is `XChain<Seal>`: a seal tagged with the settlement layer it is
// defined over, either carried in the clear or only as its concealed
// hash.
type Seal struct {
	Layer1    schema.Layer1
	Kind      SealKind
	Revealed  RevealedSeal
	Concealed strictenc.ID
}

// ConcealedId returns the seal's concealed identity regardless of whether
// it is currently held revealed or concealed.
func (s Seal) ConcealedId() strictenc.ID {
	if s.Kind == SealConcealed {
		return s.Concealed
	}
	return s.Revealed.Conceal()
}

func (s Seal) StrictEncode(w *strictenc.Writer) {
	s.Layer1.StrictEncode(w)
	w.WriteU8(uint8(s.Kind))
	if s.Kind == SealRevealed {
		w.WriteRaw(s.Revealed.Outpoint.Txid[:])
		w.WriteU32(s.Revealed.Outpoint.Vout)
		w.WriteRaw(s.Revealed.Blinding[:])
	} else {
		w.WriteRaw(s.Concealed.Bytes())
	}
}

func StrictDecodeSeal(r *strictenc.Reader) (Seal, error) {
	layer1, err := schema.StrictDecodeLayer1(r)
	if err != nil {
		return Seal{}, err
	}
	kindByte, err := r.ReadU8()
	if err != nil {
		return Seal{}, err
	}
	out := Seal{Layer1: layer1, Kind: SealKind(kindByte)}
	if out.Kind == SealRevealed {
		txidBytes, err := r.ReadRaw(32)
		if err != nil {
			return Seal{}, err
		}
		vout, err := r.ReadU32()
		if err != nil {
			return Seal{}, err
		}
		blinding, err := r.ReadRaw(32)
		if err != nil {
			return Seal{}, err
		}
		txid, err := bitcoin.TxidFromBytes(txidBytes)
		if err != nil {
			return Seal{}, err
		}
		out.Revealed = RevealedSeal{Outpoint: bitcoin.OutPoint{Txid: txid, Vout: vout}}
		copy(out.Revealed.Blinding[:], blinding)
	} else {
		concealedBytes, err := r.ReadRaw(32)
		if err != nil {
			return Seal{}, err
		}
		copy(out.Concealed[:], concealedBytes)
	}
	return out, nil
}
