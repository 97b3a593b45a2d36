package schema

import (
	"fmt"
	"sort"

	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

// StateType tags which of the four state kinds an assignment type carries.
type StateType uint8

const (
	StateVoid StateType = iota
	StateFungible
	StateStructured
	StateAttachment
)

func (s StateType) StrictEncode(w *strictenc.Writer) { w.WriteU8(uint8(s)) }

func StrictDecodeStateType(r *strictenc.Reader) (StateType, error) {
	v, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	switch StateType(v) {
	case StateVoid, StateFungible, StateStructured, StateAttachment:
		return StateType(v), nil
	default:
		return 0, fmt.Errorf("%w: state type byte 0x%02x", strictenc.ErrEnumValueNotKnown, v)
	}
}

// GlobalStateType, AssignmentType, ValencyType, TransitionType and
// ExtensionType are schema-assigned small integers naming a declared
// element; their meaning is entirely schema-local.
type (
	GlobalStateType uint16
	AssignmentType  uint16
	ValencyType     uint16
	TransitionType  uint16
	ExtensionType   uint16
)

// GlobalStateSchema constrains admissible values of a declared global
// state type: the maximum serialized length of a revealed value and the
// digest used when the value is referenced confidentially.
type GlobalStateSchema struct {
	MaxLen uint16
	Digest DigestAlgorithm
}

// AssignmentSchema declares the state kind an assignment type carries and,
// for Structured/Attachment kinds, the digest algorithm used to compute
// its concealed form.
type AssignmentSchema struct {
	State  StateType
	Digest DigestAlgorithm
}

// OpSchema is the occurrence map an operation type (genesis, a transition
// type, or an extension type) declares over globals, assignments, inputs
// and valencies. Which of Inputs/Redeems is populated depends on whether
// the owning operation kind is a transition or an extension; genesis uses
// neither.
type OpSchema struct {
	Globals     map[GlobalStateType]Occurrences
	Assignments map[AssignmentType]Occurrences
	Inputs      map[AssignmentType]Occurrences
	Valencies   map[ValencyType]struct{}
	Redeems     map[ValencyType]struct{}
}

func newOpSchema() OpSchema {
	return OpSchema{
		Globals:     map[GlobalStateType]Occurrences{},
		Assignments: map[AssignmentType]Occurrences{},
		Inputs:      map[AssignmentType]Occurrences{},
		Valencies:   map[ValencyType]struct{}{},
		Redeems:     map[ValencyType]struct{}{},
	}
}

// NewGenesisSchema, NewTransitionSchema and NewExtensionSchema construct an
// empty OpSchema ready to have occurrence entries added.
func NewGenesisSchema() OpSchema    { return newOpSchema() }
func NewTransitionSchema() OpSchema { return newOpSchema() }
func NewExtensionSchema() OpSchema  { return newOpSchema() }

// Schema declares the full admissible shape of a contract: its global
// state, assignment, and valency vocabularies, one OpSchema per operation
// type, an optional root schema this schema must refine, and an optional
// embedded script.
type Schema struct {
	GlobalTypes        map[GlobalStateType]GlobalStateSchema
	AssignmentTypes    map[AssignmentType]AssignmentSchema
	ValencyTypes       map[ValencyType]struct{}
	GenesisSchema      OpSchema
	TransitionSchemata map[TransitionType]OpSchema
	ExtensionSchemata  map[ExtensionType]OpSchema
	RootSchema         *Schema
	Script             ScriptVM
}

// ScriptVM is the opaque embedded script a schema may carry. The validator
// treats it as a pure oracle: CheckOperation returns nil on success or a
// reason string wrapped in an error on failure. Opcode semantics are not
// part of this core.
type ScriptVM interface {
	CheckOperation(op Operation) error
}

// Operation is the minimal view of an operation the script oracle needs.
// It is satisfied by contract.Genesis/Transition/Extension without this
// package importing contract (which itself imports schema).
type Operation interface {
	OpType() uint16
}

func sortedGlobalKeys(m map[GlobalStateType]GlobalStateSchema) []GlobalStateType {
	keys := make([]GlobalStateType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedAssignmentKeys(m map[AssignmentType]AssignmentSchema) []AssignmentType {
	keys := make([]AssignmentType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// StrictEncode writes the canonical encoding used to compute SchemaId.
// Every map is flattened in ascending key order so two equal schemas
// always produce byte-identical encodings regardless of map iteration
// order.
func (s *Schema) StrictEncode(w *strictenc.Writer) {
	globalKeys := sortedGlobalKeys(s.GlobalTypes)
	w.WriteU16(uint16(len(globalKeys)))
	for _, k := range globalKeys {
		w.WriteU16(uint16(k))
		gs := s.GlobalTypes[k]
		w.WriteU16(gs.MaxLen)
		gs.Digest.StrictEncode(w)
	}

	assignKeys := sortedAssignmentKeys(s.AssignmentTypes)
	w.WriteU16(uint16(len(assignKeys)))
	for _, k := range assignKeys {
		w.WriteU16(uint16(k))
		as := s.AssignmentTypes[k]
		as.State.StrictEncode(w)
		as.Digest.StrictEncode(w)
	}

	valKeys := make([]ValencyType, 0, len(s.ValencyTypes))
	for k := range s.ValencyTypes {
		valKeys = append(valKeys, k)
	}
	sort.Slice(valKeys, func(i, j int) bool { return valKeys[i] < valKeys[j] })
	w.WriteU16(uint16(len(valKeys)))
	for _, k := range valKeys {
		w.WriteU16(uint16(k))
	}

	s.GenesisSchema.strictEncode(w)

	transKeys := make([]TransitionType, 0, len(s.TransitionSchemata))
	for k := range s.TransitionSchemata {
		transKeys = append(transKeys, k)
	}
	sort.Slice(transKeys, func(i, j int) bool { return transKeys[i] < transKeys[j] })
	w.WriteU16(uint16(len(transKeys)))
	for _, k := range transKeys {
		w.WriteU16(uint16(k))
		op := s.TransitionSchemata[k]
		op.strictEncode(w)
	}

	extKeys := make([]ExtensionType, 0, len(s.ExtensionSchemata))
	for k := range s.ExtensionSchemata {
		extKeys = append(extKeys, k)
	}
	sort.Slice(extKeys, func(i, j int) bool { return extKeys[i] < extKeys[j] })
	w.WriteU16(uint16(len(extKeys)))
	for _, k := range extKeys {
		w.WriteU16(uint16(k))
		op := s.ExtensionSchemata[k]
		op.strictEncode(w)
	}

	if s.RootSchema != nil {
		w.WriteU8(1)
		s.RootSchema.StrictEncode(w)
	} else {
		w.WriteU8(0)
	}
}

func (op OpSchema) strictEncode(w *strictenc.Writer) {
	globals := make(map[uint16]Occurrences, len(op.Globals))
	for k, v := range op.Globals {
		globals[uint16(k)] = v
	}
	encodeOccMap(w, globals)

	assignments := make(map[uint16]Occurrences, len(op.Assignments))
	for k, v := range op.Assignments {
		assignments[uint16(k)] = v
	}
	encodeOccMap(w, assignments)

	inputs := make(map[uint16]Occurrences, len(op.Inputs))
	for k, v := range op.Inputs {
		inputs[uint16(k)] = v
	}
	encodeOccMap(w, inputs)

	valencies := make(map[uint16]struct{}, len(op.Valencies))
	for k := range op.Valencies {
		valencies[uint16(k)] = struct{}{}
	}
	encodeSet(w, valencies)

	redeems := make(map[uint16]struct{}, len(op.Redeems))
	for k := range op.Redeems {
		redeems[uint16(k)] = struct{}{}
	}
	encodeSet(w, redeems)
}

// occurrenceCountWidth is the integer width used for every occurrence
// counter this schema format declares. The wire encoding of an
// Occurrences value (§4.A) carries no width byte of its own -- width is
// contextual -- so a schema needs exactly one convention for all of its
// occurrence fields; u16 comfortably covers any realistic per-operation
// cardinality.
const occurrenceCountWidth = Bit16

func decodeOccMap(r *strictenc.Reader) (map[uint16]Occurrences, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	out := make(map[uint16]Occurrences, count)
	for i := uint16(0); i < count; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		occ, err := StrictDecodeOccurrences(r, occurrenceCountWidth)
		if err != nil {
			return nil, err
		}
		out[k] = occ
	}
	return out, nil
}

func decodeSet(r *strictenc.Reader) (map[uint16]struct{}, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	out := make(map[uint16]struct{}, count)
	for i := uint16(0); i < count; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		out[k] = struct{}{}
	}
	return out, nil
}

// strictDecodeOpSchema mirrors OpSchema.strictEncode's field order.
func strictDecodeOpSchema(r *strictenc.Reader) (OpSchema, error) {
	globals, err := decodeOccMap(r)
	if err != nil {
		return OpSchema{}, err
	}
	assignments, err := decodeOccMap(r)
	if err != nil {
		return OpSchema{}, err
	}
	inputs, err := decodeOccMap(r)
	if err != nil {
		return OpSchema{}, err
	}
	valencies, err := decodeSet(r)
	if err != nil {
		return OpSchema{}, err
	}
	redeems, err := decodeSet(r)
	if err != nil {
		return OpSchema{}, err
	}

	op := newOpSchema()
	for k, v := range globals {
		op.Globals[GlobalStateType(k)] = v
	}
	for k, v := range assignments {
		op.Assignments[AssignmentType(k)] = v
	}
	for k, v := range inputs {
		op.Inputs[AssignmentType(k)] = v
	}
	for k := range valencies {
		op.Valencies[ValencyType(k)] = struct{}{}
	}
	for k := range redeems {
		op.Redeems[ValencyType(k)] = struct{}{}
	}
	return op, nil
}

// StrictDecodeSchema mirrors Schema.StrictEncode's field order, rebuilding
// a Schema whose SchemaId() recomputes to the same value as the schema
// that was encoded (decode never trusts a transmitted id because none is
// transmitted: the schema is the preimage).
func StrictDecodeSchema(r *strictenc.Reader) (*Schema, error) {
	s := &Schema{
		GlobalTypes:        map[GlobalStateType]GlobalStateSchema{},
		AssignmentTypes:    map[AssignmentType]AssignmentSchema{},
		ValencyTypes:       map[ValencyType]struct{}{},
		TransitionSchemata: map[TransitionType]OpSchema{},
		ExtensionSchemata:  map[ExtensionType]OpSchema{},
	}

	globalCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	for i := uint16(0); i < globalCount; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		maxLen, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		digest, err := StrictDecodeDigestAlgorithm(r)
		if err != nil {
			return nil, err
		}
		s.GlobalTypes[GlobalStateType(k)] = GlobalStateSchema{MaxLen: maxLen, Digest: digest}
	}

	assignCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	for i := uint16(0); i < assignCount; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		st, err := StrictDecodeStateType(r)
		if err != nil {
			return nil, err
		}
		digest, err := StrictDecodeDigestAlgorithm(r)
		if err != nil {
			return nil, err
		}
		s.AssignmentTypes[AssignmentType(k)] = AssignmentSchema{State: st, Digest: digest}
	}

	valCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	for i := uint16(0); i < valCount; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		s.ValencyTypes[ValencyType(k)] = struct{}{}
	}

	genesisSchema, err := strictDecodeOpSchema(r)
	if err != nil {
		return nil, err
	}
	s.GenesisSchema = genesisSchema

	transCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	for i := uint16(0); i < transCount; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		op, err := strictDecodeOpSchema(r)
		if err != nil {
			return nil, err
		}
		s.TransitionSchemata[TransitionType(k)] = op
	}

	extCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	for i := uint16(0); i < extCount; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		op, err := strictDecodeOpSchema(r)
		if err != nil {
			return nil, err
		}
		s.ExtensionSchemata[ExtensionType(k)] = op
	}

	hasRoot, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if hasRoot == 1 {
		root, err := StrictDecodeSchema(r)
		if err != nil {
			return nil, err
		}
		s.RootSchema = root
	}

	return s, nil
}

func encodeOccMap(w *strictenc.Writer, m map[uint16]Occurrences) {
	keys := make([]uint16, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	w.WriteU16(uint16(len(keys)))
	for _, k := range keys {
		w.WriteU16(k)
		m[k].StrictEncode(w)
	}
}

func encodeSet(w *strictenc.Writer, m map[uint16]struct{}) {
	keys := make([]uint16, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	w.WriteU16(uint16(len(keys)))
	for _, k := range keys {
		w.WriteU16(k)
	}
}

// SchemaId returns the tagged commitment id over the schema's canonical
// encoding.
func (s *Schema) SchemaId() strictenc.ID {
	w := strictenc.NewWriter()
	s.StrictEncode(w)
	return strictenc.CommitID(strictenc.TagSchemaID, w.Bytes())
}

// TypeMismatch is the structured diagnostic a root/subschema refinement
// failure carries (an explicit payload, where the source's error carried
// none).
type TypeMismatch struct {
	Field    string
	Expected string
	Found    string
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("schema root mismatch: %s: expected %s, found %s", e.Field, e.Expected, e.Found)
}

// ValidateAgainstRoot verifies that every (state-type, occurrence, op-type)
// triple this schema declares has a matching or refining entry in root,
// per the root-subschema conformance rule. Refining means: the subschema's
// occurrence bounds are no wider than the root's for the same type, and
// this holds per op-type (genesis, each transition type, each extension
// type), not just for the global/assignment type vocabularies.
func (s *Schema) ValidateAgainstRoot(root *Schema) error {
	for gt, gs := range s.GlobalTypes {
		rootGs, ok := root.GlobalTypes[gt]
		if !ok {
			return &TypeMismatch{Field: fmt.Sprintf("global type %d", gt), Expected: "declared in root", Found: "absent from root"}
		}
		if gs.MaxLen > rootGs.MaxLen {
			return &TypeMismatch{Field: fmt.Sprintf("global type %d max length", gt), Expected: fmt.Sprintf("<= %d", rootGs.MaxLen), Found: fmt.Sprintf("%d", gs.MaxLen)}
		}
	}
	for at, as := range s.AssignmentTypes {
		rootAs, ok := root.AssignmentTypes[at]
		if !ok {
			return &TypeMismatch{Field: fmt.Sprintf("assignment type %d", at), Expected: "declared in root", Found: "absent from root"}
		}
		if rootAs.State != as.State {
			return &TypeMismatch{Field: fmt.Sprintf("assignment type %d state kind", at), Expected: fmt.Sprintf("%d", rootAs.State), Found: fmt.Sprintf("%d", as.State)}
		}
	}
	if s.Script != nil && root.Script == nil {
		return &TypeMismatch{Field: "script", Expected: "no script override permitted by root", Found: "subschema declares a script"}
	}

	if err := refineOpSchema("genesis", s.GenesisSchema, root.GenesisSchema); err != nil {
		return err
	}
	for tt, op := range s.TransitionSchemata {
		rootOp, ok := root.TransitionSchemata[tt]
		if !ok {
			return &TypeMismatch{Field: fmt.Sprintf("transition type %d", tt), Expected: "declared in root", Found: "absent from root"}
		}
		if err := refineOpSchema(fmt.Sprintf("transition type %d", tt), op, rootOp); err != nil {
			return err
		}
	}
	for et, op := range s.ExtensionSchemata {
		rootOp, ok := root.ExtensionSchemata[et]
		if !ok {
			return &TypeMismatch{Field: fmt.Sprintf("extension type %d", et), Expected: "declared in root", Found: "absent from root"}
		}
		if err := refineOpSchema(fmt.Sprintf("extension type %d", et), op, rootOp); err != nil {
			return err
		}
	}
	return nil
}

// refineOpSchema checks that sub's occurrence bounds, for every global,
// assignment, input and valency/redeemed-valency type it declares, are no
// wider than root's for the same type. label names the op-type in
// diagnostics (e.g. "transition type 3").
func refineOpSchema(label string, sub, root OpSchema) error {
	for gt, occ := range sub.Globals {
		rootOcc, ok := root.Globals[gt]
		if !ok {
			return &TypeMismatch{Field: fmt.Sprintf("%s global type %d", label, gt), Expected: "declared in root", Found: "absent from root"}
		}
		if err := refineOccurrences(fmt.Sprintf("%s global type %d occurrences", label, gt), occ, rootOcc); err != nil {
			return err
		}
	}
	for at, occ := range sub.Assignments {
		rootOcc, ok := root.Assignments[at]
		if !ok {
			return &TypeMismatch{Field: fmt.Sprintf("%s assignment type %d", label, at), Expected: "declared in root", Found: "absent from root"}
		}
		if err := refineOccurrences(fmt.Sprintf("%s assignment type %d occurrences", label, at), occ, rootOcc); err != nil {
			return err
		}
	}
	for at, occ := range sub.Inputs {
		rootOcc, ok := root.Inputs[at]
		if !ok {
			return &TypeMismatch{Field: fmt.Sprintf("%s input type %d", label, at), Expected: "declared in root", Found: "absent from root"}
		}
		if err := refineOccurrences(fmt.Sprintf("%s input type %d occurrences", label, at), occ, rootOcc); err != nil {
			return err
		}
	}
	for vt := range sub.Valencies {
		if _, ok := root.Valencies[vt]; !ok {
			return &TypeMismatch{Field: fmt.Sprintf("%s valency type %d", label, vt), Expected: "declared in root", Found: "absent from root"}
		}
	}
	for vt := range sub.Redeems {
		if _, ok := root.Redeems[vt]; !ok {
			return &TypeMismatch{Field: fmt.Sprintf("%s redeemed valency type %d", label, vt), Expected: "declared in root", Found: "absent from root"}
		}
	}
	return nil
}

// refineOccurrences reports a TypeMismatch when sub's admissible count
// range is not contained within root's.
func refineOccurrences(field string, sub, root Occurrences) error {
	if sub.MinValue() < root.MinValue() || sub.MaxValue() > root.MaxValue() {
		return &TypeMismatch{
			Field:    field,
			Expected: fmt.Sprintf("within [%d, %d]", root.MinValue(), root.MaxValue()),
			Found:    fmt.Sprintf("[%d, %d]", sub.MinValue(), sub.MaxValue()),
		}
	}
	return nil
}
