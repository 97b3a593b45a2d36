package consignment

import (
	"github.com/lnp-bp/rgb-validation-core/pkg/anchor"
	"github.com/lnp-bp/rgb-validation-core/pkg/contract"
	"github.com/lnp-bp/rgb-validation-core/pkg/schema"
)

// Checked wraps an Api and re-verifies that whatever the underlying
// provider returns actually carries the id it was asked for, defending
// the validator against a lying or buggy provider implementation.
type Checked struct {
	inner Api
}

// NewChecked wraps inner in a defensive, re-verifying adaptor.
func NewChecked(inner Api) *Checked {
	return &Checked{inner: inner}
}

func (c *Checked) Schema() (*schema.Schema, bool)    { return c.inner.Schema() }
func (c *Checked) AssetTags() map[[32]byte]string    { return c.inner.AssetTags() }
func (c *Checked) Genesis() (contract.Genesis, bool) { return c.inner.Genesis() }
func (c *Checked) Terminals() []Terminal             { return c.inner.Terminals() }
func (c *Checked) BundleIds() []contract.BundleId    { return c.inner.BundleIds() }
func (c *Checked) Grip(id contract.BundleId) Grip    { return c.inner.Grip(id) }

func (c *Checked) OpWitnessId(id contract.OpId) (anchor.WitnessId, bool) {
	return c.inner.OpWitnessId(id)
}

// Operation returns the operation at id, but only if its recomputed id
// actually equals id; otherwise it reports not-found, exactly as if the
// provider had no such entry.
func (c *Checked) Operation(id contract.OpId) (Operation, bool) {
	op, ok := c.inner.Operation(id)
	if !ok {
		return Operation{}, false
	}
	if op.Id() != id {
		return Operation{}, false
	}
	return op, true
}

// Bundle returns the bundle at id, but only if its recomputed BundleId
// actually equals id.
func (c *Checked) Bundle(id contract.BundleId) (contract.TransitionBundle, bool) {
	b, ok := c.inner.Bundle(id)
	if !ok {
		return contract.TransitionBundle{}, false
	}
	if b.BundleId() != id {
		return contract.TransitionBundle{}, false
	}
	return b, true
}
