package anchor

import (
	"testing"

	"github.com/lnp-bp/rgb-validation-core/pkg/bitcoin"
	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

func TestMpcRoundTrip(t *testing.T) {
	leaf := strictenc.CommitID(strictenc.TagBundleID, []byte("bundle"))
	sibling1 := strictenc.CommitID(strictenc.TagBundleID, []byte("sibling1"))
	sibling2 := strictenc.CommitID(strictenc.TagBundleID, []byte("sibling2"))

	proof := MpcProof{Path: []MpcProofNode{
		{Sibling: sibling1, Position: MpcRight},
		{Sibling: sibling2, Position: MpcLeft},
	}}
	root := proof.Recompute(leaf)

	if err := VerifyRoot(leaf, proof, root); err != nil {
		t.Fatalf("expected proof to verify, got %v", err)
	}

	wrongRoot := strictenc.CommitID(strictenc.TagBundleID, []byte("wrong"))
	if err := VerifyRoot(leaf, proof, wrongRoot); err == nil {
		t.Fatal("expected verification to fail against a wrong root")
	}
}

func TestMergeRevealDetectsMismatch(t *testing.T) {
	sibling1 := strictenc.CommitID(strictenc.TagBundleID, []byte("s1"))
	sibling2 := strictenc.CommitID(strictenc.TagBundleID, []byte("s2"))

	a := MpcProof{Path: []MpcProofNode{{Sibling: sibling1, Position: MpcRight}}}
	b := MpcProof{Path: []MpcProofNode{{Sibling: sibling2, Position: MpcRight}}}

	if _, err := MergeReveal(a, b); err == nil {
		t.Fatal("expected divergent proofs to fail merge")
	}
}

func TestWitnessOrdTotalOrder(t *testing.T) {
	offChain := WitnessOrd{Kind: OrdOffChain}
	mined10 := WitnessOrd{Kind: OrdMined, Height: 10}
	mined20 := WitnessOrd{Kind: OrdMined, Height: 20}
	archived := WitnessOrd{Kind: OrdArchived}

	if !offChain.Less(mined10) {
		t.Fatal("expected OffChain to sort before Mined")
	}
	if !mined20.Less(archived) {
		t.Fatal("expected Mined to sort before Archived")
	}
	if !mined10.Less(mined20) {
		t.Fatal("expected lower height to sort first among Mined")
	}
	if mined20.Less(mined10) {
		t.Fatal("higher height must not sort before lower height")
	}
}

func TestDualAnchorRequiresMatchingTxid(t *testing.T) {
	txidA, _ := bitcoin.TxidFromBytes(make([]byte, 32))
	bBytes := make([]byte, 32)
	bBytes[0] = 1
	txidB, _ := bitcoin.TxidFromBytes(bBytes)

	_, err := NewDualAnchorSet(txidA, txidB, MpcProof{}, TapretProof{}, OpretProof{})
	if err != ErrDualTxidMismatch {
		t.Fatalf("expected ErrDualTxidMismatch, got %v", err)
	}
}

func TestOpretProofRejectsWrongPush(t *testing.T) {
	wtx := bitcoin.WitnessTx{
		Outputs: []bitcoin.TxOut{
			{PkScript: append([]byte{0x6a, 0x20}, make([]byte, 32)...)},
		},
	}
	proof := OpretProof{OutputIndex: 0}
	root := strictenc.CommitID(strictenc.TagBundleID, []byte("root"))
	if err := proof.Verify(wtx, root); err == nil {
		t.Fatal("expected verify to fail when the OP_RETURN push does not match the commitment")
	}
}
