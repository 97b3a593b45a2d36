package state

import "github.com/lnp-bp/rgb-validation-core/pkg/strictenc"

// AttachmentRevealed references externally-stored binary content by its
// digest rather than embedding it: content hash, declared media type, and
// a salt randomizing the concealed form.
type AttachmentRevealed struct {
	ContentHash strictenc.ID
	MediaType   string
	Salt        [16]byte
}

type AttachmentConcealed struct {
	ID strictenc.ID
}

func (r AttachmentRevealed) Conceal() AttachmentConcealed {
	w := strictenc.NewWriter()
	r.StrictEncode(w)
	return AttachmentConcealed{ID: strictenc.CommitID(strictenc.TagAttachmentData, w.Bytes())}
}

func (r AttachmentRevealed) StrictEncode(w *strictenc.Writer) {
	w.WriteRaw(r.ContentHash.Bytes())
	if err := w.WriteString16(r.MediaType); err != nil {
		panic(err)
	}
	w.WriteRaw(r.Salt[:])
}

func StrictDecodeAttachmentRevealed(r *strictenc.Reader) (AttachmentRevealed, error) {
	hashBytes, err := r.ReadRaw(32)
	if err != nil {
		return AttachmentRevealed{}, err
	}
	mediaType, err := r.ReadString16()
	if err != nil {
		return AttachmentRevealed{}, err
	}
	saltBytes, err := r.ReadRaw(16)
	if err != nil {
		return AttachmentRevealed{}, err
	}
	var out AttachmentRevealed
	copy(out.ContentHash[:], hashBytes)
	out.MediaType = mediaType
	copy(out.Salt[:], saltBytes)
	return out, nil
}
