package schema

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

func u64p(v uint64) *uint64 { return &v }

func TestOnceCheckZero(t *testing.T) {
	occ := Once(Bit32)
	err := occ.CheckCount(0)
	oe, ok := err.(*OccurrencesError)
	if !ok {
		t.Fatalf("expected *OccurrencesError, got %T (%v)", err, err)
	}
	if oe.Min.Cmp(big.NewInt(1)) != 0 || oe.Max.Cmp(big.NewInt(1)) != 0 || oe.Found.Sign() != 0 {
		t.Fatalf("unexpected error fields: %+v", oe)
	}
}

func TestOnceOrUpToUnboundedAtMax(t *testing.T) {
	occ := OnceOrUpTo(Bit32, nil)
	if err := occ.CheckCount(uint64(Bit32.MaxValue())); err != nil {
		t.Fatalf("expected Ok at u32::MAX, got %v", err)
	}
	err := occ.CheckCount(0)
	oe, ok := err.(*OccurrencesError)
	if !ok {
		t.Fatalf("expected *OccurrencesError, got %T", err)
	}
	if oe.Min.Cmp(big.NewInt(1)) != 0 || oe.Max.Uint64() != Bit32.MaxValue() || oe.Found.Sign() != 0 {
		t.Fatalf("unexpected error fields: %+v", oe)
	}
}

func TestRoundTripUnboundedOccurrences(t *testing.T) {
	w := strictenc.NewWriter()
	NoneOrUpTo(Bit8, nil).StrictEncode(w)
	want := []byte{0xFE, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("NoneOrUpTo<u8>(None) encoding = % x, want % x", w.Bytes(), want)
	}
	r := strictenc.NewReader(w.Bytes())
	decoded, err := StrictDecodeOccurrences(r, Bit8)
	if err != nil {
		t.Fatal(err)
	}
	if !decoded.IsUnbounded() || decoded.Kind != KindNoneOrUpTo {
		t.Fatalf("expected unbounded NoneOrUpTo, got %+v", decoded)
	}

	w2 := strictenc.NewWriter()
	OnceOrUpTo(Bit64, nil).StrictEncode(w2)
	want2 := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	if !bytes.Equal(w2.Bytes(), want2) {
		t.Fatalf("OnceOrUpTo<u64>(None) encoding = % x, want % x", w2.Bytes(), want2)
	}
}

func TestCrossWidthDecode(t *testing.T) {
	raw := []byte{0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	r := strictenc.NewReader(raw)
	decoded, err := StrictDecodeOccurrences(r, Bit64)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.IsUnbounded() {
		t.Fatal("expected bounded decode of a u8-sized max under u64 width")
	}
	if decoded.Max != 255 {
		t.Fatalf("expected max 255, got %d", decoded.Max)
	}
}

func TestBitsByteValues(t *testing.T) {
	cases := []struct {
		b    byte
		want Bits
	}{
		{0x01, Bit8},
		{0x02, Bit16},
		{0x04, Bit32},
		{0x08, Bit64},
	}
	for _, c := range cases {
		got, err := DecodeBits(c.b)
		if err != nil || got != c.want {
			t.Fatalf("DecodeBits(0x%02x) = %v, %v; want %v", c.b, got, err, c.want)
		}
	}
	if _, err := DecodeBits(0x12); err == nil {
		t.Fatal("expected EnumValueNotKnown for 0x12")
	}
}

func TestDigestAlgorithmWireBytes(t *testing.T) {
	cases := []struct {
		b    byte
		want DigestAlgorithm
	}{
		{0x11, Sha256},
		{0x12, Sha512},
		{0x48, Bitcoin160},
		{0x51, Bitcoin256},
	}
	for _, c := range cases {
		r := strictenc.NewReader([]byte{c.b})
		got, err := StrictDecodeDigestAlgorithm(r)
		if err != nil || got != c.want {
			t.Fatalf("decode 0x%02x = %v, %v; want %v", c.b, got, err, c.want)
		}
		w := strictenc.NewWriter()
		got.StrictEncode(w)
		if w.Bytes()[0] != c.b {
			t.Fatalf("re-encode of %v = 0x%02x, want 0x%02x", got, w.Bytes()[0], c.b)
		}
	}
}

func TestSchemaIdDeterministic(t *testing.T) {
	s := &Schema{
		GlobalTypes:     map[GlobalStateType]GlobalStateSchema{1: {MaxLen: 256, Digest: Sha256}},
		AssignmentTypes: map[AssignmentType]AssignmentSchema{1: {State: StateFungible}},
		ValencyTypes:    map[ValencyType]struct{}{},
		GenesisSchema:   NewGenesisSchema(),
	}
	id1 := s.SchemaId()
	id2 := s.SchemaId()
	if id1 != id2 {
		t.Fatal("expected SchemaId to be deterministic across calls")
	}
}

func TestSchemaCodecRoundTrip(t *testing.T) {
	genesis := NewGenesisSchema()
	genesis.Globals[1] = Once(Bit16)
	genesis.Assignments[1] = NoneOrUpTo(Bit16, nil)

	transition := NewTransitionSchema()
	transition.Inputs[1] = Once(Bit16)
	transition.Assignments[1] = NoneOrUpTo(Bit16, nil)

	s := &Schema{
		GlobalTypes:        map[GlobalStateType]GlobalStateSchema{1: {MaxLen: 256, Digest: Sha256}},
		AssignmentTypes:    map[AssignmentType]AssignmentSchema{1: {State: StateFungible, Digest: Sha256}},
		ValencyTypes:       map[ValencyType]struct{}{1: {}},
		GenesisSchema:      genesis,
		TransitionSchemata: map[TransitionType]OpSchema{1: transition},
		ExtensionSchemata:  map[ExtensionType]OpSchema{},
	}

	w := strictenc.NewWriter()
	s.StrictEncode(w)
	got, err := StrictDecodeSchema(strictenc.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.SchemaId() != s.SchemaId() {
		t.Fatal("decoded schema does not recompute to the same SchemaId")
	}
}

func TestSchemaCodecRoundTripWithRoot(t *testing.T) {
	root := &Schema{
		GlobalTypes:     map[GlobalStateType]GlobalStateSchema{1: {MaxLen: 1024, Digest: Sha256}},
		AssignmentTypes: map[AssignmentType]AssignmentSchema{},
		ValencyTypes:    map[ValencyType]struct{}{},
		GenesisSchema:   NewGenesisSchema(),
	}
	s := &Schema{
		GlobalTypes:     map[GlobalStateType]GlobalStateSchema{1: {MaxLen: 256, Digest: Sha256}},
		AssignmentTypes: map[AssignmentType]AssignmentSchema{},
		ValencyTypes:    map[ValencyType]struct{}{},
		GenesisSchema:   NewGenesisSchema(),
		RootSchema:      root,
	}

	w := strictenc.NewWriter()
	s.StrictEncode(w)
	got, err := StrictDecodeSchema(strictenc.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.RootSchema == nil {
		t.Fatal("expected decoded schema to carry a root schema")
	}
	if got.SchemaId() != s.SchemaId() {
		t.Fatal("decoded schema does not recompute to the same SchemaId")
	}
}
