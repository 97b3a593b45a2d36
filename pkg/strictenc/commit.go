package strictenc

import "crypto/sha256"

// Commitment tags, URN strings, part of the wire protocol. Verbatim per
// spec: tag bytes go into the hash preimage, so a typo here changes every
// downstream id.
const (
	TagConcealedData  = "urn:lnp-bp:rgb:state-data#2024-02-12"
	TagSchemaID       = "urn:lnp-bp:rgb:schema#2024-02-12"
	TagGenesisID      = "urn:lnp-bp:rgb:genesis#2024-02-12"
	TagTransitionID   = "urn:lnp-bp:rgb:transition#2024-02-12"
	TagExtensionID    = "urn:lnp-bp:rgb:extension#2024-02-12"
	TagBundleID       = "urn:lnp-bp:rgb:bundle#2024-02-12"
	TagAttachmentData = "urn:lnp-bp:rgb:attachment-data#2024-02-12"
)

// ID is a 32-byte tagged SHA-256 digest over a canonical encoding.
type ID [32]byte

// CommitID hashes tag + "\n" + payload, domain-separating every hashable
// entity by its URN tag so no two entity kinds can collide even if their
// canonical encodings happen to match byte-for-byte.
func CommitID(tag string, payload []byte) ID {
	h := sha256.New()
	h.Write([]byte(tag))
	h.Write([]byte("\n"))
	h.Write(payload)
	var out ID
	copy(out[:], h.Sum(nil))
	return out
}

// Bytes returns the 32-byte digest.
func (id ID) Bytes() []byte {
	return id[:]
}
