package state

import (
	"bytes"
	"testing"

	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

func TestStructuredRoundTrip(t *testing.T) {
	orig := StructuredRevealed{Blob: []byte("contract terms"), Salt: [16]byte{1, 2, 3}}
	w := strictenc.NewWriter()
	orig.StrictEncode(w)
	got, err := StrictDecodeStructuredRevealed(strictenc.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Blob, orig.Blob) || got.Salt != orig.Salt {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, orig)
	}
}

func TestStructuredConcealDeterministic(t *testing.T) {
	v := StructuredRevealed{Blob: []byte("same"), Salt: [16]byte{9}}
	if v.Conceal() != v.Conceal() {
		t.Fatal("expected conceal() to be deterministic for the same revealed value")
	}
}

func TestStructuredLess(t *testing.T) {
	a := StructuredRevealed{Blob: []byte("aaa")}
	b := StructuredRevealed{Blob: []byte("aab")}
	if !a.Less(b) || b.Less(a) {
		t.Fatal("expected lexicographic blob ordering")
	}
}

func TestVoidConcealIdentity(t *testing.T) {
	if (VoidRevealed{}).Conceal() != (VoidConcealed{}) {
		t.Fatal("expected Void conceal to yield the empty concealed value")
	}
}

func TestFungibleConcealDeterministic(t *testing.T) {
	v := FungibleRevealed{Amount: 1000, Blinding: [32]byte{1}, AssetTag: [32]byte{2}}
	c1, err := v.Conceal()
	if err != nil {
		t.Fatal(err)
	}
	c2, err := v.Conceal()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(c1.Commitment, c2.Commitment) {
		t.Fatal("expected Pedersen commitment to be deterministic for identical inputs")
	}
	if len(c1.Commitment) != 33 {
		t.Fatalf("expected a 33-byte compressed point, got %d bytes", len(c1.Commitment))
	}
}

func TestFungibleConcealDiffersByAmount(t *testing.T) {
	base := FungibleRevealed{Amount: 1000, Blinding: [32]byte{1}, AssetTag: [32]byte{2}}
	other := base
	other.Amount = 2000
	c1, _ := base.Conceal()
	c2, _ := other.Conceal()
	if bytes.Equal(c1.Commitment, c2.Commitment) {
		t.Fatal("expected different amounts to yield different commitments")
	}
}

func TestFungibleRoundTrip(t *testing.T) {
	orig := FungibleRevealed{Amount: 42, Blinding: [32]byte{7}, AssetTag: [32]byte{8}}
	w := strictenc.NewWriter()
	orig.StrictEncode(w)
	got, err := StrictDecodeFungibleRevealed(strictenc.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got != orig {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, orig)
	}
}
