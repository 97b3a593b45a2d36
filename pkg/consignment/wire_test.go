package consignment

import (
	"testing"

	"github.com/lnp-bp/rgb-validation-core/pkg/anchor"
	"github.com/lnp-bp/rgb-validation-core/pkg/contract"
	"github.com/lnp-bp/rgb-validation-core/pkg/schema"
)

func emptyCommon() contract.OpCommon {
	return contract.OpCommon{
		Globals:     map[schema.GlobalStateType][][]byte{},
		Assignments: map[schema.AssignmentType][]contract.AssignmentEntry{},
		Valencies:   map[schema.ValencyType]struct{}{},
	}
}

func TestWireRoundTrip(t *testing.T) {
	sch := &schema.Schema{
		GlobalTypes:     map[schema.GlobalStateType]schema.GlobalStateSchema{1: {MaxLen: 256, Digest: schema.Sha256}},
		AssignmentTypes: map[schema.AssignmentType]schema.AssignmentSchema{1: {State: schema.StateFungible, Digest: schema.Sha256}},
		ValencyTypes:    map[schema.ValencyType]struct{}{},
		GenesisSchema:   schema.NewGenesisSchema(),
	}

	genesisCommon := emptyCommon()
	genesisCommon.SchemaId = sch.SchemaId()
	genesisCommon.Globals[1] = [][]byte{[]byte("ticker")}
	genesis := contract.Genesis{OpCommon: genesisCommon}

	tr := contract.Transition{OpCommon: emptyCommon(), TransitionType: 1}
	bundle := contract.TransitionBundle{
		Transitions: []contract.Transition{tr},
		InputMap:    map[uint32]contract.OpId{0: tr.Id()},
	}
	bundleId := bundle.BundleId()

	a := anchor.Anchor{
		Layer1: schema.LayerBitcoin,
		Set: anchor.AnchorSet{
			Kind:  anchor.KindOpret,
			Opret: &anchor.OpretProof{OutputIndex: 0},
			Mpc:   anchor.MpcProof{},
		},
	}

	m := NewMem()
	m.SchemaVal = sch
	m.GenesisVal = genesis
	m.Bundles[bundleId] = bundle
	m.Anchors[bundleId] = a
	m.TerminalsVal = []Terminal{{BundleId: bundleId, ConcealedSeal: bundleId}}

	data, err := WriteTo(m)
	if err != nil {
		t.Fatal(err)
	}

	got, err := ReadFrom(data)
	if err != nil {
		t.Fatal(err)
	}

	if got.SchemaVal.SchemaId() != sch.SchemaId() {
		t.Fatal("decoded schema does not recompute to the same id")
	}
	if got.GenesisVal.Id() != genesis.Id() {
		t.Fatal("decoded genesis does not recompute to the same id")
	}
	gotBundle, ok := got.Bundle(bundleId)
	if !ok {
		t.Fatal("decoded consignment is missing the bundle")
	}
	if gotBundle.BundleId() != bundleId {
		t.Fatal("decoded bundle does not recompute to the same id")
	}
	grip := got.Grip(bundleId)
	if !grip.Found || grip.Anchor.Set.Kind != anchor.KindOpret {
		t.Fatal("decoded consignment lost its anchor")
	}
	if len(got.Terminals()) != 1 {
		t.Fatal("decoded consignment lost its terminal")
	}
}

func TestWireRejectsBadMagic(t *testing.T) {
	_, err := ReadFrom([]byte{0, 0, 0, 0})
	if err != ErrBadMagic {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}
