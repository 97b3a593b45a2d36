package validation

import (
	"context"
	"testing"

	"github.com/lnp-bp/rgb-validation-core/pkg/anchor"
	"github.com/lnp-bp/rgb-validation-core/pkg/bitcoin"
	"github.com/lnp-bp/rgb-validation-core/pkg/consignment"
	"github.com/lnp-bp/rgb-validation-core/pkg/contract"
	"github.com/lnp-bp/rgb-validation-core/pkg/schema"
	"github.com/lnp-bp/rgb-validation-core/pkg/state"
	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

// tagOpret mirrors the opret commitment domain tag used by pkg/anchor;
// it is part of the wire protocol (§6) so a test fixture is free to
// reproduce the literal string without reaching into anchor's internals.
const tagOpret = "urn:lnp-bp:rgb:opret#2024-02-12"

func opretScript(bundleId contract.BundleId) []byte {
	commitment := strictenc.CommitID(tagOpret, bundleId.Bytes())
	script := make([]byte, 0, 34)
	script = append(script, 0x6a, 0x20)
	script = append(script, commitment.Bytes()...)
	return script
}

type fakeResolver struct {
	txs       map[bitcoin.Txid]bitcoin.TxInfo
	witnesses map[anchor.WitnessId]bitcoin.WitnessTx
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{txs: map[bitcoin.Txid]bitcoin.TxInfo{}, witnesses: map[anchor.WitnessId]bitcoin.WitnessTx{}}
}

func (f *fakeResolver) ResolveTx(ctx context.Context, txid bitcoin.Txid) (bitcoin.TxInfo, bool) {
	v, ok := f.txs[txid]
	return v, ok
}

func (f *fakeResolver) ResolvePubWitness(ctx context.Context, wid anchor.WitnessId) (bitcoin.WitnessTx, bool) {
	v, ok := f.witnesses[wid]
	return v, ok
}

// baseFixture builds one genesis, one transition (no inputs, one void
// output) anchored via an opret commitment, plus a terminal pointing at
// the transition's sole output seal.
type baseFixture struct {
	mem      *consignment.Mem
	resolver *fakeResolver
	txid     bitcoin.Txid
	bundleId contract.BundleId
}

func newBaseFixture(t *testing.T) *baseFixture {
	t.Helper()

	sch := &schema.Schema{
		GlobalTypes:        map[schema.GlobalStateType]schema.GlobalStateSchema{},
		AssignmentTypes:    map[schema.AssignmentType]schema.AssignmentSchema{1: {State: schema.StateVoid}},
		ValencyTypes:       map[schema.ValencyType]struct{}{},
		GenesisSchema:      schema.NewGenesisSchema(),
		TransitionSchemata: map[schema.TransitionType]schema.OpSchema{},
		ExtensionSchemata:  map[schema.ExtensionType]schema.OpSchema{},
	}
	transSchema := schema.NewTransitionSchema()
	transSchema.Assignments[1] = schema.Once(schema.Bit16)
	sch.TransitionSchemata[1] = transSchema

	genesis := contract.Genesis{OpCommon: contract.OpCommon{
		SchemaId:    sch.SchemaId(),
		Globals:     map[schema.GlobalStateType][][]byte{},
		Assignments: map[schema.AssignmentType][]contract.AssignmentEntry{},
		Valencies:   map[schema.ValencyType]struct{}{},
	}}

	seal := contract.Seal{
		Layer1:   schema.LayerBitcoin,
		Kind:     contract.SealRevealed,
		Revealed: contract.RevealedSeal{Outpoint: bitcoin.OutPoint{Vout: 0}},
	}
	entry := contract.AssignmentEntry{
		Seal:  seal,
		State: contract.AssignmentState{Kind: schema.StateVoid, Revealed: true, Void: state.VoidRevealed{}},
	}
	transition := contract.Transition{
		OpCommon: contract.OpCommon{
			SchemaId:    sch.SchemaId(),
			Globals:     map[schema.GlobalStateType][][]byte{},
			Assignments: map[schema.AssignmentType][]contract.AssignmentEntry{1: {entry}},
			Valencies:   map[schema.ValencyType]struct{}{},
		},
		TransitionType: 1,
	}

	bundle := contract.TransitionBundle{
		Transitions: []contract.Transition{transition},
		InputMap:    map[uint32]contract.OpId{0: transition.Id()},
	}
	bundleId := bundle.BundleId()

	var txid bitcoin.Txid
	txid[0] = 0xAB

	mpc := anchor.MpcProof{}
	anchorVal := anchor.Anchor{
		Layer1: schema.LayerBitcoin,
		Set: anchor.AnchorSet{
			Kind:  anchor.KindOpret,
			Txid:  txid,
			Mpc:   mpc,
			Opret: &anchor.OpretProof{OutputIndex: 0},
		},
	}

	wtx := bitcoin.WitnessTx{
		Txid:    txid,
		Outputs: []bitcoin.TxOut{{PkScript: opretScript(bundleId)}},
	}

	mem := consignment.NewMem()
	mem.SchemaVal = sch
	mem.GenesisVal = genesis
	mem.Operations[genesis.Id()] = consignment.Operation{Kind: consignment.OpGenesis, Genesis: genesis}
	mem.Operations[transition.Id()] = consignment.Operation{Kind: consignment.OpTransition, Transition: transition}
	mem.Bundles[bundleId] = bundle
	mem.Anchors[bundleId] = anchorVal
	mem.TerminalsVal = []consignment.Terminal{{BundleId: bundleId, ConcealedSeal: entry.Seal.ConcealedId()}}

	resolver := newFakeResolver()
	resolver.witnesses[anchor.WitnessId{Layer1: schema.LayerBitcoin, Txid: txid}] = wtx

	return &baseFixture{mem: mem, resolver: resolver, txid: txid, bundleId: bundleId}
}

func TestValidatorValid(t *testing.T) {
	f := newBaseFixture(t)
	f.resolver.txs[f.txid] = bitcoin.TxInfo{Confirmations: 6}

	v := New(f.resolver)
	validity, status := v.Validate(context.Background(), f.mem)
	if validity != Valid {
		t.Fatalf("expected Valid, got %v with status %+v", validity, status)
	}
}

func TestValidatorValidExceptEndpoints(t *testing.T) {
	f := newBaseFixture(t)
	f.resolver.txs[f.txid] = bitcoin.TxInfo{Confirmations: 0}

	v := New(f.resolver)
	validity, _ := v.Validate(context.Background(), f.mem)
	if validity != ValidExceptEndpoints {
		t.Fatalf("expected ValidExceptEndpoints, got %v", validity)
	}
}

func TestValidatorInvalidOnNoPrevOut(t *testing.T) {
	f := newBaseFixture(t)
	f.resolver.txs[f.txid] = bitcoin.TxInfo{Confirmations: 6}

	bundle := f.mem.Bundles[f.bundleId]
	tr := bundle.Transitions[0]
	tr.Inputs = []contract.Opout{{Op: contract.OpId{0xFF}, Type: 1, Index: 0}}
	bundle.Transitions[0] = tr
	f.mem.Bundles[f.bundleId] = bundle
	f.mem.Operations[tr.Id()] = consignment.Operation{Kind: consignment.OpTransition, Transition: tr}

	v := New(f.resolver)
	validity, status := v.Validate(context.Background(), f.mem)
	if validity != Invalid {
		t.Fatalf("expected Invalid, got %v with status %+v", validity, status)
	}
}

func TestValidatorUnresolvedTransactions(t *testing.T) {
	f := newBaseFixture(t)
	// No ResolveTx / ResolvePubWitness entries registered at all: the
	// anchor's witness tx cannot be resolved, so seal closure records an
	// unresolved txid (AnchorInvalid is never reached -- the proof can't
	// even be checked), while the dangling input yields a NoPrevOut
	// failure.
	f.resolver.witnesses = map[anchor.WitnessId]bitcoin.WitnessTx{}

	bundle := f.mem.Bundles[f.bundleId]
	tr := bundle.Transitions[0]
	tr.Inputs = []contract.Opout{{Op: contract.OpId{0xFF}, Type: 1, Index: 0}}
	bundle.Transitions[0] = tr
	bundle.InputMap = map[uint32]contract.OpId{0: tr.Id()}
	f.mem.Bundles[f.bundleId] = bundle
	f.mem.Operations[tr.Id()] = consignment.Operation{Kind: consignment.OpTransition, Transition: tr}

	v := New(f.resolver)
	validity, status := v.Validate(context.Background(), f.mem)
	if validity != UnresolvedTransactions {
		t.Fatalf("expected UnresolvedTransactions, got %v with status %+v", validity, status)
	}
}
