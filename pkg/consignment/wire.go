package consignment

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/lnp-bp/rgb-validation-core/pkg/anchor"
	"github.com/lnp-bp/rgb-validation-core/pkg/contract"
	"github.com/lnp-bp/rgb-validation-core/pkg/schema"
	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

// wireMagic opens every consignment file; a mismatch means the input is
// not a consignment at all rather than a validation failure.
var wireMagic = [4]byte{'R', 'G', 'B', 0x01}

// ErrBadMagic is returned when a byte stream does not begin with the
// consignment magic.
var ErrBadMagic = errors.New("consignment: bad magic bytes")

// ErrUnsupportedVersion is returned for a version this decoder does not
// understand.
var ErrUnsupportedVersion = errors.New("consignment: unsupported wire version")

// ErrMissingSchema is returned when a consignment is encoded without a
// schema, which every consignment must carry.
var ErrMissingSchema = errors.New("consignment: cannot encode without a schema")

const wireVersion = uint16(1)

// anchorEntry pairs a bundle id with the anchor that closes it, since the
// wire layout's anchors[] section is positional rather than keyed
// in-band.
type anchorEntry struct {
	BundleId contract.BundleId
	Anchor   anchor.Anchor
}

// WriteTo serializes a consignment using the canonical codec of §4.A.
// IDs are never transmitted directly (besides as explicit map keys like
// bundle ids): the receiver recomputes every entity's id from its own
// encoding rather than trusting a transmitted one.
func WriteTo(m *Mem) ([]byte, error) {
	w := strictenc.NewWriter()
	w.WriteRaw(wireMagic[:])
	w.WriteU16(wireVersion)

	if m.SchemaVal == nil {
		return nil, ErrMissingSchema
	}
	m.SchemaVal.StrictEncode(w)

	tagKeys := make([][32]byte, 0, len(m.Tags))
	for k := range m.Tags {
		tagKeys = append(tagKeys, k)
	}
	sort.Slice(tagKeys, func(i, j int) bool { return bytes.Compare(tagKeys[i][:], tagKeys[j][:]) < 0 })
	w.WriteU32(uint32(len(tagKeys)))
	for _, k := range tagKeys {
		w.WriteRaw(k[:])
		if err := w.WriteString16(m.Tags[k]); err != nil {
			return nil, err
		}
	}

	m.GenesisVal.StrictEncode(w)

	bundleIds := m.BundleIds()
	sort.Slice(bundleIds, func(i, j int) bool { return bytes.Compare(bundleIds[i][:], bundleIds[j][:]) < 0 })
	w.WriteU32(uint32(len(bundleIds)))
	for _, id := range bundleIds {
		m.Bundles[id].StrictEncode(w)
	}

	anchors := make([]anchorEntry, 0, len(m.Anchors))
	for id, a := range m.Anchors {
		anchors = append(anchors, anchorEntry{BundleId: id, Anchor: a})
	}
	sort.Slice(anchors, func(i, j int) bool { return bytes.Compare(anchors[i].BundleId[:], anchors[j].BundleId[:]) < 0 })
	w.WriteU32(uint32(len(anchors)))
	for _, e := range anchors {
		w.WriteRaw(e.BundleId[:])
		e.Anchor.StrictEncode(w)
	}

	w.WriteU32(uint32(len(m.TerminalsVal)))
	for _, t := range m.TerminalsVal {
		w.WriteRaw(t.BundleId[:])
		w.WriteRaw(t.ConcealedSeal[:])
	}

	return w.Bytes(), nil
}

// ReadFrom parses a consignment byte stream written by WriteTo. Every
// section is decoded structurally and every entity's id is recomputed
// from its own encoding; nothing is taken on faith from the wire besides
// the envelope (magic, version) and the explicit bundle-id/op-id keys
// this layout needs to rejoin anchors and terminals to the bundles they
// reference.
func ReadFrom(data []byte) (*Mem, error) {
	r := strictenc.NewReader(data)
	magic, err := r.ReadRaw(4)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, wireMagic[:]) {
		return nil, ErrBadMagic
	}
	version, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if version != wireVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	m := NewMem()

	sch, err := schema.StrictDecodeSchema(r)
	if err != nil {
		return nil, fmt.Errorf("consignment: decoding schema: %w", err)
	}
	m.SchemaVal = sch

	tagCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < tagCount; i++ {
		keyBytes, err := r.ReadRaw(32)
		if err != nil {
			return nil, err
		}
		val, err := r.ReadString16()
		if err != nil {
			return nil, err
		}
		var key [32]byte
		copy(key[:], keyBytes)
		m.Tags[key] = val
	}

	genesis, err := contract.StrictDecodeGenesis(r)
	if err != nil {
		return nil, fmt.Errorf("consignment: decoding genesis: %w", err)
	}
	m.GenesisVal = genesis
	m.Operations[genesis.Id()] = Operation{Kind: OpGenesis, Genesis: genesis}

	bundleCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < bundleCount; i++ {
		b, err := contract.StrictDecodeTransitionBundle(r)
		if err != nil {
			return nil, fmt.Errorf("consignment: decoding bundle %d: %w", i, err)
		}
		m.Bundles[b.BundleId()] = b
		for _, t := range b.Transitions {
			m.Operations[t.Id()] = Operation{Kind: OpTransition, Transition: t}
		}
	}

	anchorCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < anchorCount; i++ {
		idBytes, err := r.ReadRaw(32)
		if err != nil {
			return nil, err
		}
		a, err := anchor.StrictDecodeAnchor(r)
		if err != nil {
			return nil, fmt.Errorf("consignment: decoding anchor %d: %w", i, err)
		}
		var bundleId contract.BundleId
		copy(bundleId[:], idBytes)
		m.Anchors[bundleId] = a
		if bundle, ok := m.Bundles[bundleId]; ok {
			for _, opId := range bundle.OpIds() {
				m.WitnessIds[opId] = anchor.WitnessId{Layer1: a.Layer1, Txid: a.Set.Txid}
			}
		}
	}

	terminalCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	terminals := make([]Terminal, terminalCount)
	for i := uint32(0); i < terminalCount; i++ {
		bundleIdBytes, err := r.ReadRaw(32)
		if err != nil {
			return nil, err
		}
		sealIdBytes, err := r.ReadRaw(32)
		if err != nil {
			return nil, err
		}
		var t Terminal
		copy(t.BundleId[:], bundleIdBytes)
		copy(t.ConcealedSeal[:], sealIdBytes)
		terminals[i] = t
	}
	m.TerminalsVal = terminals

	return m, nil
}
