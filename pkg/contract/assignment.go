package contract

import (
	"fmt"

	"github.com/lnp-bp/rgb-validation-core/pkg/schema"
	"github.com/lnp-bp/rgb-validation-core/pkg/state"
	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

// AssignmentState is one of Void | Fungible | Structured | Attachment,
// each carried either revealed or concealed. Revealed selects which pair
// of fields is populated; this mirrors the Seal type's own
// revealed/concealed split so an AssignmentEntry can mix independently
// revealed or concealed seals and state.
type AssignmentState struct {
	Kind     schema.StateType
	Revealed bool

	Void        state.VoidRevealed
	FungibleR   state.FungibleRevealed
	FungibleC   state.FungibleConcealed
	StructuredR state.StructuredRevealed
	StructuredC state.StructuredConcealed
	Attachment  state.AttachmentRevealed
	AttachmentC state.AttachmentConcealed
}

// Conceal returns the concealed commitment id of this state value,
// regardless of the kind, computing it from the revealed form when
// necessary.
func (a AssignmentState) Conceal() (strictenc.ID, error) {
	switch a.Kind {
	case schema.StateVoid:
		return strictenc.ID{}, nil
	case schema.StateFungible:
		if !a.Revealed {
			var id strictenc.ID
			copy(id[:], a.FungibleC.Commitment)
			return id, nil
		}
		c, err := a.FungibleR.Conceal()
		if err != nil {
			return strictenc.ID{}, err
		}
		var id strictenc.ID
		copy(id[:], c.Commitment)
		return id, nil
	case schema.StateStructured:
		if !a.Revealed {
			return a.StructuredC.ID, nil
		}
		return a.StructuredR.Conceal().ID, nil
	case schema.StateAttachment:
		if !a.Revealed {
			return a.AttachmentC.ID, nil
		}
		return a.Attachment.Conceal().ID, nil
	default:
		return strictenc.ID{}, fmt.Errorf("contract: unknown state kind %d", a.Kind)
	}
}

func (a AssignmentState) StrictEncode(w *strictenc.Writer) {
	a.Kind.StrictEncode(w)
	if a.Revealed {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
	switch a.Kind {
	case schema.StateVoid:
		// no payload
	case schema.StateFungible:
		if a.Revealed {
			a.FungibleR.StrictEncode(w)
		} else {
			if err := w.WriteBytes16(a.FungibleC.Commitment); err != nil {
				panic(err)
			}
			if err := w.WriteBytes16(a.FungibleC.RangeProof); err != nil {
				panic(err)
			}
		}
	case schema.StateStructured:
		if a.Revealed {
			a.StructuredR.StrictEncode(w)
		} else {
			w.WriteRaw(a.StructuredC.ID.Bytes())
		}
	case schema.StateAttachment:
		if a.Revealed {
			a.Attachment.StrictEncode(w)
		} else {
			w.WriteRaw(a.AttachmentC.ID.Bytes())
		}
	}
}

func StrictDecodeAssignmentState(r *strictenc.Reader) (AssignmentState, error) {
	kind, err := schema.StrictDecodeStateType(r)
	if err != nil {
		return AssignmentState{}, err
	}
	revealedByte, err := r.ReadU8()
	if err != nil {
		return AssignmentState{}, err
	}
	out := AssignmentState{Kind: kind, Revealed: revealedByte == 1}

	switch kind {
	case schema.StateVoid:
	case schema.StateFungible:
		if out.Revealed {
			fr, err := state.StrictDecodeFungibleRevealed(r)
			if err != nil {
				return AssignmentState{}, err
			}
			out.FungibleR = fr
		} else {
			commitment, err := r.ReadBytes16()
			if err != nil {
				return AssignmentState{}, err
			}
			proof, err := r.ReadBytes16()
			if err != nil {
				return AssignmentState{}, err
			}
			out.FungibleC = state.FungibleConcealed{Commitment: commitment, RangeProof: proof}
		}
	case schema.StateStructured:
		if out.Revealed {
			sr, err := state.StrictDecodeStructuredRevealed(r)
			if err != nil {
				return AssignmentState{}, err
			}
			out.StructuredR = sr
		} else {
			idBytes, err := r.ReadRaw(32)
			if err != nil {
				return AssignmentState{}, err
			}
			copy(out.StructuredC.ID[:], idBytes)
		}
	case schema.StateAttachment:
		if out.Revealed {
			ar, err := state.StrictDecodeAttachmentRevealed(r)
			if err != nil {
				return AssignmentState{}, err
			}
			out.Attachment = ar
		} else {
			idBytes, err := r.ReadRaw(32)
			if err != nil {
				return AssignmentState{}, err
			}
			copy(out.AttachmentC.ID[:], idBytes)
		}
	default:
		return AssignmentState{}, fmt.Errorf("contract: unknown state kind %d", kind)
	}
	return out, nil
}

// AssignmentEntry pairs a seal with the state it carries.
type AssignmentEntry struct {
	Seal  Seal
	State AssignmentState
}

func (a AssignmentEntry) StrictEncode(w *strictenc.Writer) {
	a.Seal.StrictEncode(w)
	a.State.StrictEncode(w)
}

func StrictDecodeAssignmentEntry(r *strictenc.Reader) (AssignmentEntry, error) {
	seal, err := StrictDecodeSeal(r)
	if err != nil {
		return AssignmentEntry{}, err
	}
	st, err := StrictDecodeAssignmentState(r)
	if err != nil {
		return AssignmentEntry{}, err
	}
	return AssignmentEntry{Seal: seal, State: st}, nil
}
