// Copyright 2025 LNP/BP RGB Contributors
//
// Package consignment defines the read-only graph accessor the validator
// consumes, plus the on-the-wire consignment layout and a defensive
// "checked" wrapper that re-verifies ids a provider claims rather than
// trusting them.
package consignment

import (
	"github.com/lnp-bp/rgb-validation-core/pkg/anchor"
	"github.com/lnp-bp/rgb-validation-core/pkg/contract"
	"github.com/lnp-bp/rgb-validation-core/pkg/schema"
	"github.com/lnp-bp/rgb-validation-core/pkg/strictenc"
)

// Terminal is an endpoint of a consignment: a (bundle, concealed seal)
// pair representing the receiver's new state.
type Terminal struct {
	BundleId      contract.BundleId
	ConcealedSeal strictenc.ID
}

// Grip is the anchor+witness package a bundle resolves to.
type Grip struct {
	Anchor anchor.Anchor
	Found  bool
}

// Api is the read-only view the validator consumes. Implementations must
// not validate: a missing or invalid lookup returns the zero value with
// ok=false (or an empty slice/iterator), never an error.
type Api interface {
	Schema() (*schema.Schema, bool)
	AssetTags() map[[32]byte]string
	Genesis() (contract.Genesis, bool)
	Operation(id contract.OpId) (Operation, bool)
	Terminals() []Terminal
	BundleIds() []contract.BundleId
	Bundle(id contract.BundleId) (contract.TransitionBundle, bool)
	Grip(bundleId contract.BundleId) Grip
	OpWitnessId(id contract.OpId) (anchor.WitnessId, bool)
}

// Operation is any of the three operation kinds, wrapped so Api.Operation
// has a single return type. Exactly one of the typed accessors is valid,
// selected by Kind.
type Operation struct {
	Kind       OperationKind
	Genesis    contract.Genesis
	Transition contract.Transition
	Extension  contract.Extension
}

type OperationKind uint8

const (
	OpGenesis OperationKind = iota
	OpTransition
	OpExtension
)

// Id returns the operation's id regardless of kind.
func (o Operation) Id() contract.OpId {
	switch o.Kind {
	case OpGenesis:
		return o.Genesis.Id()
	case OpTransition:
		return o.Transition.Id()
	case OpExtension:
		return o.Extension.Id()
	default:
		return contract.OpId{}
	}
}
