package consignment

import (
	"github.com/lnp-bp/rgb-validation-core/pkg/anchor"
	"github.com/lnp-bp/rgb-validation-core/pkg/contract"
	"github.com/lnp-bp/rgb-validation-core/pkg/schema"
)

// Mem is a trivial in-memory Api, used by the validator's own tests and
// by embedders that have already parsed a consignment off the wire.
type Mem struct {
	SchemaVal    *schema.Schema
	Tags         map[[32]byte]string
	GenesisVal   contract.Genesis
	Operations   map[contract.OpId]Operation
	Bundles      map[contract.BundleId]contract.TransitionBundle
	Anchors      map[contract.BundleId]anchor.Anchor
	WitnessIds   map[contract.OpId]anchor.WitnessId
	TerminalsVal []Terminal
}

func NewMem() *Mem {
	return &Mem{
		Tags:       map[[32]byte]string{},
		Operations: map[contract.OpId]Operation{},
		Bundles:    map[contract.BundleId]contract.TransitionBundle{},
		Anchors:    map[contract.BundleId]anchor.Anchor{},
		WitnessIds: map[contract.OpId]anchor.WitnessId{},
	}
}

func (m *Mem) Schema() (*schema.Schema, bool) { return m.SchemaVal, m.SchemaVal != nil }
func (m *Mem) AssetTags() map[[32]byte]string { return m.Tags }
func (m *Mem) Genesis() (contract.Genesis, bool) {
	return m.GenesisVal, m.GenesisVal.SchemaId != (contract.OpId{})
}
func (m *Mem) Operation(id contract.OpId) (Operation, bool) { op, ok := m.Operations[id]; return op, ok }
func (m *Mem) Terminals() []Terminal                        { return m.TerminalsVal }
func (m *Mem) BundleIds() []contract.BundleId {
	ids := make([]contract.BundleId, 0, len(m.Bundles))
	for id := range m.Bundles {
		ids = append(ids, id)
	}
	return ids
}
func (m *Mem) Bundle(id contract.BundleId) (contract.TransitionBundle, bool) {
	b, ok := m.Bundles[id]
	return b, ok
}
func (m *Mem) Grip(bundleId contract.BundleId) Grip {
	a, ok := m.Anchors[bundleId]
	return Grip{Anchor: a, Found: ok}
}
func (m *Mem) OpWitnessId(id contract.OpId) (anchor.WitnessId, bool) {
	wid, ok := m.WitnessIds[id]
	return wid, ok
}
