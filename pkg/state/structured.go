package state

import "github.com/lnp-bp/rgb-validation-core/pkg/strictenc"

// StructuredRevealed carries a schema-defined blob plus a 128-bit salt
// that randomizes its concealed digest.
type StructuredRevealed struct {
	Blob []byte
	Salt [16]byte
}

// StructuredConcealed is the tagged hash of the revealed form.
type StructuredConcealed struct {
	ID strictenc.ID
}

// Conceal computes the tagged digest binding blob and salt together.
func (r StructuredRevealed) Conceal() StructuredConcealed {
	w := strictenc.NewWriter()
	r.StrictEncode(w)
	return StructuredConcealed{ID: strictenc.CommitID(strictenc.TagConcealedData, w.Bytes())}
}

// Less orders revealed structured state lexicographically on blob then
// salt, matching the ordering used when a schema requires a deterministic
// assignment sequence.
func (r StructuredRevealed) Less(other StructuredRevealed) bool {
	n := len(r.Blob)
	if len(other.Blob) < n {
		n = len(other.Blob)
	}
	for i := 0; i < n; i++ {
		if r.Blob[i] != other.Blob[i] {
			return r.Blob[i] < other.Blob[i]
		}
	}
	if len(r.Blob) != len(other.Blob) {
		return len(r.Blob) < len(other.Blob)
	}
	for i := range r.Salt {
		if r.Salt[i] != other.Salt[i] {
			return r.Salt[i] < other.Salt[i]
		}
	}
	return false
}

func (r StructuredRevealed) StrictEncode(w *strictenc.Writer) {
	if err := w.WriteBytes32(r.Blob); err != nil {
		panic(err)
	}
	w.WriteRaw(r.Salt[:])
}

func StrictDecodeStructuredRevealed(r *strictenc.Reader) (StructuredRevealed, error) {
	blob, err := r.ReadBytes32()
	if err != nil {
		return StructuredRevealed{}, err
	}
	saltBytes, err := r.ReadRaw(16)
	if err != nil {
		return StructuredRevealed{}, err
	}
	var out StructuredRevealed
	out.Blob = blob
	copy(out.Salt[:], saltBytes)
	return out, nil
}
