package contract

import (
	"testing"

	"github.com/lnp-bp/rgb-validation-core/pkg/schema"
	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

func emptyCommon() OpCommon {
	return OpCommon{
		Globals:     map[schema.GlobalStateType][][]byte{},
		Assignments: map[schema.AssignmentType][]AssignmentEntry{},
		Valencies:   map[schema.ValencyType]struct{}{},
	}
}

func TestGenesisIdDeterministic(t *testing.T) {
	g := Genesis{OpCommon: emptyCommon()}
	g.Globals[1] = [][]byte{[]byte("ticker")}

	id1 := g.Id()
	id2 := g.Id()
	if id1 != id2 {
		t.Fatal("expected Genesis.Id() to be deterministic")
	}
}

func TestTransitionIdChangesWithInputs(t *testing.T) {
	base := Transition{OpCommon: emptyCommon(), TransitionType: 1}
	withInput := base
	withInput.Inputs = []Opout{{Op: OpId{1}, Type: 1, Index: 0}}

	if base.Id() == withInput.Id() {
		t.Fatal("expected different inputs to produce different transition ids")
	}
}

func TestBundleValidateRejectsMissingTransition(t *testing.T) {
	tr := Transition{OpCommon: emptyCommon(), TransitionType: 1}
	bundle := TransitionBundle{
		Transitions: []Transition{tr},
		InputMap:    map[uint32]OpId{0: {0xFF}},
	}
	if err := bundle.Validate(); err == nil {
		t.Fatal("expected validation to fail for an input map referencing an absent transition")
	}
}

func TestBundleValidateAcceptsConsistentMap(t *testing.T) {
	tr := Transition{OpCommon: emptyCommon(), TransitionType: 1}
	bundle := TransitionBundle{
		Transitions: []Transition{tr},
		InputMap:    map[uint32]OpId{0: tr.Id()},
	}
	if err := bundle.Validate(); err != nil {
		t.Fatalf("expected validation to pass, got %v", err)
	}
}

func TestGenesisCodecRoundTrip(t *testing.T) {
	g := Genesis{OpCommon: emptyCommon()}
	g.SchemaId = OpId{9}
	g.Globals[1] = [][]byte{[]byte("ticker"), []byte("name")}
	g.Valencies[2] = struct{}{}

	w := strictenc.NewWriter()
	g.StrictEncode(w)
	got, err := StrictDecodeGenesis(strictenc.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Id() != g.Id() {
		t.Fatal("decoded genesis does not recompute to the same id")
	}
}

func TestTransitionCodecRoundTrip(t *testing.T) {
	tr := Transition{OpCommon: emptyCommon(), TransitionType: 3}
	tr.SchemaId = OpId{1}
	tr.Inputs = []Opout{{Op: OpId{1, 2}, Type: 1, Index: 0}}

	w := strictenc.NewWriter()
	tr.StrictEncode(w)
	got, err := StrictDecodeTransition(strictenc.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Id() != tr.Id() {
		t.Fatal("decoded transition does not recompute to the same id")
	}
}

func TestExtensionCodecRoundTrip(t *testing.T) {
	ext := Extension{OpCommon: emptyCommon(), ExtensionType: 5}
	ext.SchemaId = OpId{2}
	ext.Redeemed = map[OpId][]schema.ValencyType{{7}: {1, 2}}

	w := strictenc.NewWriter()
	ext.StrictEncode(w)
	got, err := StrictDecodeExtension(strictenc.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Id() != ext.Id() {
		t.Fatal("decoded extension does not recompute to the same id")
	}
}

func TestTransitionBundleCodecRoundTrip(t *testing.T) {
	tr := Transition{OpCommon: emptyCommon(), TransitionType: 1}
	bundle := TransitionBundle{
		Transitions: []Transition{tr},
		InputMap:    map[uint32]OpId{0: tr.Id()},
	}

	w := strictenc.NewWriter()
	bundle.StrictEncode(w)
	got, err := StrictDecodeTransitionBundle(strictenc.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.BundleId() != bundle.BundleId() {
		t.Fatal("decoded bundle does not recompute to the same id")
	}
}

func TestOpoutRoundTrip(t *testing.T) {
	o := Opout{Op: OpId{1, 2, 3}, Type: 7, Index: 42}
	w := strictenc.NewWriter()
	o.StrictEncode(w)
	got, err := StrictDecodeOpout(strictenc.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got != o {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, o)
	}
}
