package contract

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

// ErrInputIndexNotInjective names a bundle whose input-index to
// transition map reuses an input index or fails to cover every
// commitment-bearing input. Validate does not return it: the map type
// already rules out a reused index, and coverage of the witness
// transaction's commitment-bearing inputs is not checked.
var ErrInputIndexNotInjective = errors.New("contract: bundle input index map is not injective")

// ErrTransitionMissing is returned when a bundle's InputMap names a
// transition id not present in Transitions.
var ErrTransitionMissing = errors.New("contract: bundle input map references an absent transition")

// TransitionBundle groups transitions sharing one witness transaction,
// plus the map from the witness's spent input index to the transition
// that closed the seal at that input.
type TransitionBundle struct {
	Transitions []Transition
	InputMap    map[uint32]OpId
}

// Validate checks the bundle invariant that every OpId referenced by
// InputMap is present among Transitions. Several input indices may map
// to the same transition (one transition may close several inputs); no
// input index can be claimed twice because InputMap is keyed by index.
// Whether the map covers every commitment-bearing input of the witness
// transaction is not checked here.
func (b TransitionBundle) Validate() error {
	present := make(map[OpId]struct{}, len(b.Transitions))
	for _, t := range b.Transitions {
		present[t.Id()] = struct{}{}
	}
	for _, opId := range b.InputMap {
		if _, ok := present[opId]; !ok {
			return fmt.Errorf("%w: %x", ErrTransitionMissing, opId)
		}
	}
	return nil
}

func (b TransitionBundle) StrictEncode(w *strictenc.Writer) {
	ids := make([]OpId, len(b.Transitions))
	for i, t := range b.Transitions {
		ids[i] = t.Id()
	}
	order := make([]int, len(b.Transitions))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return string(ids[order[i]][:]) < string(ids[order[j]][:])
	})

	w.WriteU16(uint16(len(b.Transitions)))
	for _, idx := range order {
		b.Transitions[idx].StrictEncode(w)
	}

	indices := make([]uint32, 0, len(b.InputMap))
	for idx := range b.InputMap {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	w.WriteU32(uint32(len(indices)))
	for _, idx := range indices {
		w.WriteU32(idx)
		w.WriteRaw(b.InputMap[idx][:])
	}
}

// BundleId is the tagged hash of the bundle's canonical encoding.
func (b TransitionBundle) BundleId() BundleId {
	w := strictenc.NewWriter()
	b.StrictEncode(w)
	return strictenc.CommitID(strictenc.TagBundleID, w.Bytes())
}

// StrictDecodeTransitionBundle decodes a TransitionBundle exactly as
// encoded by TransitionBundle.StrictEncode.
func StrictDecodeTransitionBundle(r *strictenc.Reader) (TransitionBundle, error) {
	transCount, err := r.ReadU16()
	if err != nil {
		return TransitionBundle{}, err
	}
	transitions := make([]Transition, transCount)
	for i := uint16(0); i < transCount; i++ {
		t, err := StrictDecodeTransition(r)
		if err != nil {
			return TransitionBundle{}, err
		}
		transitions[i] = t
	}

	mapCount, err := r.ReadU32()
	if err != nil {
		return TransitionBundle{}, err
	}
	inputMap := make(map[uint32]OpId, mapCount)
	for i := uint32(0); i < mapCount; i++ {
		idx, err := r.ReadU32()
		if err != nil {
			return TransitionBundle{}, err
		}
		idBytes, err := r.ReadRaw(32)
		if err != nil {
			return TransitionBundle{}, err
		}
		var id OpId
		copy(id[:], idBytes)
		inputMap[idx] = id
	}

	return TransitionBundle{Transitions: transitions, InputMap: inputMap}, nil
}

// OpIds returns every transition id the bundle carries, for a consignment
// provider's bundle_ids()-style lookups.
func (b TransitionBundle) OpIds() []OpId {
	ids := make([]OpId, len(b.Transitions))
	for i, t := range b.Transitions {
		ids[i] = t.Id()
	}
	return ids
}
