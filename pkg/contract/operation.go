package contract

import (
	"sort"

	"github.com/lnp-bp/rgb-validation-core/pkg/schema"
	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

// OpCommon holds the fields shared by Genesis, Transition, and Extension:
// a schema reference, an ordered map of revealed global state values, an
// ordered map of output assignments, and a set of declared valencies.
type OpCommon struct {
	SchemaId    strictenc.ID
	Globals     map[schema.GlobalStateType][][]byte
	Assignments map[schema.AssignmentType][]AssignmentEntry
	Valencies   map[schema.ValencyType]struct{}
}

func sortedGlobalStateKeys(m map[schema.GlobalStateType][][]byte) []schema.GlobalStateType {
	keys := make([]schema.GlobalStateType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedAssignmentEntryKeys(m map[schema.AssignmentType][]AssignmentEntry) []schema.AssignmentType {
	keys := make([]schema.AssignmentType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedValencyKeys(m map[schema.ValencyType]struct{}) []schema.ValencyType {
	keys := make([]schema.ValencyType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (c OpCommon) strictEncode(w *strictenc.Writer) {
	w.WriteRaw(c.SchemaId.Bytes())

	globalKeys := sortedGlobalStateKeys(c.Globals)
	w.WriteU16(uint16(len(globalKeys)))
	for _, k := range globalKeys {
		w.WriteU16(uint16(k))
		values := c.Globals[k]
		w.WriteU16(uint16(len(values)))
		for _, v := range values {
			if err := w.WriteBytes16(v); err != nil {
				panic(err)
			}
		}
	}

	assignKeys := sortedAssignmentEntryKeys(c.Assignments)
	w.WriteU16(uint16(len(assignKeys)))
	for _, k := range assignKeys {
		w.WriteU16(uint16(k))
		entries := c.Assignments[k]
		w.WriteU16(uint16(len(entries)))
		for _, e := range entries {
			e.StrictEncode(w)
		}
	}

	valKeys := sortedValencyKeys(c.Valencies)
	w.WriteU16(uint16(len(valKeys)))
	for _, k := range valKeys {
		w.WriteU16(uint16(k))
	}
}

// AssignmentCount returns the number of output assignments of the given
// type, used by the validator's occurrence checks.
func (c OpCommon) AssignmentCount(t schema.AssignmentType) int {
	return len(c.Assignments[t])
}

func strictDecodeOpCommon(r *strictenc.Reader) (OpCommon, error) {
	idBytes, err := r.ReadRaw(32)
	if err != nil {
		return OpCommon{}, err
	}
	c := OpCommon{
		Globals:     map[schema.GlobalStateType][][]byte{},
		Assignments: map[schema.AssignmentType][]AssignmentEntry{},
		Valencies:   map[schema.ValencyType]struct{}{},
	}
	copy(c.SchemaId[:], idBytes)

	globalCount, err := r.ReadU16()
	if err != nil {
		return OpCommon{}, err
	}
	for i := uint16(0); i < globalCount; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return OpCommon{}, err
		}
		valCount, err := r.ReadU16()
		if err != nil {
			return OpCommon{}, err
		}
		values := make([][]byte, valCount)
		for j := uint16(0); j < valCount; j++ {
			v, err := r.ReadBytes16()
			if err != nil {
				return OpCommon{}, err
			}
			values[j] = v
		}
		c.Globals[schema.GlobalStateType(k)] = values
	}

	assignCount, err := r.ReadU16()
	if err != nil {
		return OpCommon{}, err
	}
	for i := uint16(0); i < assignCount; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return OpCommon{}, err
		}
		entryCount, err := r.ReadU16()
		if err != nil {
			return OpCommon{}, err
		}
		entries := make([]AssignmentEntry, entryCount)
		for j := uint16(0); j < entryCount; j++ {
			e, err := StrictDecodeAssignmentEntry(r)
			if err != nil {
				return OpCommon{}, err
			}
			entries[j] = e
		}
		c.Assignments[schema.AssignmentType(k)] = entries
	}

	valCount, err := r.ReadU16()
	if err != nil {
		return OpCommon{}, err
	}
	for i := uint16(0); i < valCount; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return OpCommon{}, err
		}
		c.Valencies[schema.ValencyType(k)] = struct{}{}
	}

	return c, nil
}

// StrictDecodeGenesis decodes a Genesis exactly as encoded by
// Genesis.StrictEncode.
func StrictDecodeGenesis(r *strictenc.Reader) (Genesis, error) {
	c, err := strictDecodeOpCommon(r)
	if err != nil {
		return Genesis{}, err
	}
	return Genesis{OpCommon: c}, nil
}

// StrictDecodeTransition decodes a Transition exactly as encoded by
// Transition.StrictEncode.
func StrictDecodeTransition(r *strictenc.Reader) (Transition, error) {
	c, err := strictDecodeOpCommon(r)
	if err != nil {
		return Transition{}, err
	}
	typ, err := r.ReadU16()
	if err != nil {
		return Transition{}, err
	}
	count, err := r.ReadU16()
	if err != nil {
		return Transition{}, err
	}
	inputs := make([]Opout, count)
	for i := uint16(0); i < count; i++ {
		in, err := StrictDecodeOpout(r)
		if err != nil {
			return Transition{}, err
		}
		inputs[i] = in
	}
	return Transition{OpCommon: c, TransitionType: schema.TransitionType(typ), Inputs: inputs}, nil
}

// StrictDecodeExtension decodes an Extension exactly as encoded by
// Extension.StrictEncode.
func StrictDecodeExtension(r *strictenc.Reader) (Extension, error) {
	c, err := strictDecodeOpCommon(r)
	if err != nil {
		return Extension{}, err
	}
	typ, err := r.ReadU16()
	if err != nil {
		return Extension{}, err
	}
	parentCount, err := r.ReadU16()
	if err != nil {
		return Extension{}, err
	}
	redeemed := make(map[OpId][]schema.ValencyType, parentCount)
	for i := uint16(0); i < parentCount; i++ {
		idBytes, err := r.ReadRaw(32)
		if err != nil {
			return Extension{}, err
		}
		var id OpId
		copy(id[:], idBytes)
		vCount, err := r.ReadU16()
		if err != nil {
			return Extension{}, err
		}
		vs := make([]schema.ValencyType, vCount)
		for j := uint16(0); j < vCount; j++ {
			v, err := r.ReadU16()
			if err != nil {
				return Extension{}, err
			}
			vs[j] = schema.ValencyType(v)
		}
		redeemed[id] = vs
	}
	return Extension{OpCommon: c, ExtensionType: schema.ExtensionType(typ), Redeemed: redeemed}, nil
}

// Genesis is the root operation of a contract: its id is the contract id.
type Genesis struct {
	OpCommon
}

func (g Genesis) StrictEncode(w *strictenc.Writer) { g.OpCommon.strictEncode(w) }

// Id computes the tagged hash of Genesis's canonical encoding.
func (g Genesis) Id() OpId {
	w := strictenc.NewWriter()
	g.StrictEncode(w)
	return strictenc.CommitID(strictenc.TagGenesisID, w.Bytes())
}

// ContractId is an alias for Id on genesis operations.
func (g Genesis) ContractId() ContractId { return g.Id() }

func (g Genesis) OpType() uint16 { return 0 }

// Transition spends predecessor assignments (Inputs) and produces new
// ones.
type Transition struct {
	OpCommon
	TransitionType schema.TransitionType
	Inputs         []Opout
}

func (t Transition) StrictEncode(w *strictenc.Writer) {
	t.OpCommon.strictEncode(w)
	w.WriteU16(uint16(t.TransitionType))
	w.WriteU16(uint16(len(t.Inputs)))
	for _, in := range t.Inputs {
		in.StrictEncode(w)
	}
}

func (t Transition) Id() OpId {
	w := strictenc.NewWriter()
	t.StrictEncode(w)
	return strictenc.CommitID(strictenc.TagTransitionID, w.Bytes())
}

func (t Transition) OpType() uint16 { return uint16(t.TransitionType) }

// Extension redeems valencies of its named parents without spending
// their assignments (no Opout inputs).
type Extension struct {
	OpCommon
	ExtensionType schema.ExtensionType
	Redeemed      map[OpId][]schema.ValencyType
}

func (e Extension) StrictEncode(w *strictenc.Writer) {
	e.OpCommon.strictEncode(w)
	w.WriteU16(uint16(e.ExtensionType))

	parents := make([]OpId, 0, len(e.Redeemed))
	for id := range e.Redeemed {
		parents = append(parents, id)
	}
	sort.Slice(parents, func(i, j int) bool {
		return string(parents[i][:]) < string(parents[j][:])
	})
	w.WriteU16(uint16(len(parents)))
	for _, id := range parents {
		w.WriteRaw(id[:])
		vs := append([]schema.ValencyType{}, e.Redeemed[id]...)
		sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
		w.WriteU16(uint16(len(vs)))
		for _, v := range vs {
			w.WriteU16(uint16(v))
		}
	}
}

func (e Extension) Id() OpId {
	w := strictenc.NewWriter()
	e.StrictEncode(w)
	return strictenc.CommitID(strictenc.TagExtensionID, w.Bytes())
}

func (e Extension) OpType() uint16 { return uint16(e.ExtensionType) }
