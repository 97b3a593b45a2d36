// Copyright 2025 LNP/BP RGB Contributors
//
// Package contract implements the operation graph model: Genesis, State
// Transitions, State Extensions, and the Transition Bundles that group
// transitions sharing one witness transaction.
package contract

import (
	"github.com/lnp-bp/rgb-validation-core/pkg/schema"
	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

// OpId identifies an operation (genesis, transition, or extension)
// uniformly: the tagged hash of its canonical encoding.
type OpId = strictenc.ID

// BundleId identifies a TransitionBundle.
type BundleId = strictenc.ID

// ContractId is the OpId of a contract's genesis operation.
type ContractId = OpId

// Opout names one specific output assignment of one specific operation:
// the AssignmentType slot and its index within that slot's ordered list.
type Opout struct {
	Op    OpId
	Type  schema.AssignmentType
	Index uint16
}

func (o Opout) StrictEncode(w *strictenc.Writer) {
	w.WriteRaw(o.Op.Bytes())
	w.WriteU16(uint16(o.Type))
	w.WriteU16(o.Index)
}

func StrictDecodeOpout(r *strictenc.Reader) (Opout, error) {
	opBytes, err := r.ReadRaw(32)
	if err != nil {
		return Opout{}, err
	}
	typ, err := r.ReadU16()
	if err != nil {
		return Opout{}, err
	}
	idx, err := r.ReadU16()
	if err != nil {
		return Opout{}, err
	}
	var out Opout
	copy(out.Op[:], opBytes)
	out.Type = schema.AssignmentType(typ)
	out.Index = idx
	return out, nil
}
