package schema

import (
	"crypto/ed25519"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

func TestDigestAlgorithmSum(t *testing.T) {
	msg := []byte("rgb consignment")
	for _, d := range []DigestAlgorithm{Sha256, Sha512, Bitcoin256, Bitcoin160} {
		sum, err := d.Sum(msg)
		if err != nil {
			t.Fatalf("Sum(%v): %v", d, err)
		}
		if len(sum) != d.Size() {
			t.Fatalf("digest %v: expected %d bytes, got %d", d, d.Size(), len(sum))
		}
	}
}

func TestEcdsaSignatureRoundTrip(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	msg := Bitcoin256
	digest, err := msg.Sum([]byte("hello"))
	if err != nil {
		t.Fatal(err)
	}

	sig := ecdsa.Sign(priv, digest)
	pubBytes := priv.PubKey().SerializeCompressed()

	if err := Secp256k1.ValidatePubKey(pubBytes); err != nil {
		t.Fatalf("ValidatePubKey: %v", err)
	}

	ok, err := Ecdsa.Verify(pubBytes, digest, sig.Serialize())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("expected ECDSA signature to verify")
	}
}

func TestSchnorrSignatureRoundTrip(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	digest, err := Bitcoin256.Sum([]byte("taproot commitment"))
	if err != nil {
		t.Fatal(err)
	}

	sig, err := schnorr.Sign(priv, digest)
	if err != nil {
		t.Fatal(err)
	}
	pubBytes := schnorr.SerializePubKey(priv.PubKey())

	ok, err := Schnorr.Verify(pubBytes, digest, sig.Serialize())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("expected schnorr signature to verify")
	}
}

func TestEd25519SignatureRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("attachment digest")
	sig := ed25519.Sign(priv, msg)

	ok, err := Ed25519Sig.Verify(pub, msg, sig)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("expected ed25519 signature to verify")
	}
}

func TestCurve25519RejectsWrongLength(t *testing.T) {
	if err := Curve25519.ValidatePubKey(make([]byte, 31)); err == nil {
		t.Fatal("expected an error for a short curve25519 key")
	}
}

func TestCurve25519AcceptsWellFormedKey(t *testing.T) {
	key := make([]byte, 32)
	key[0] = 9 // the standard X25519 basepoint u-coordinate
	if err := Curve25519.ValidatePubKey(key); err != nil {
		t.Fatalf("ValidatePubKey: %v", err)
	}
}
