// Copyright 2025 LNP/BP RGB Contributors
//
// Package validation implements the single-pass validator: schema
// refinement check, genesis type-check, backward graph traversal, seal
// closure against an external resolver, script oracle invocation, and
// verdict aggregation into a Status.
package validation

import (
	"fmt"

	"github.com/lnp-bp/rgb-validation-core/pkg/bitcoin"
	"github.com/lnp-bp/rgb-validation-core/pkg/contract"
)

// FailureCode tags the kind of a validation failure, mirroring the error
// kinds enumerated for the algorithm's graph/anchor/script stages.
type FailureCode string

const (
	CodeSchemaRootMismatch    FailureCode = "schema_root_mismatch"
	CodeSchemaIdMismatch      FailureCode = "schema_id_mismatch"
	CodeOperationAbsent       FailureCode = "operation_absent"
	CodeTransitionAbsent      FailureCode = "transition_absent"
	CodeOccurrencesError      FailureCode = "occurrences_error"
	CodeNoPrevOut             FailureCode = "no_prev_out"
	CodeNoPrevState           FailureCode = "no_prev_state"
	CodeNoPrevValency         FailureCode = "no_prev_valency"
	CodeValencyNoParent       FailureCode = "valency_no_parent"
	CodeNotAnchored           FailureCode = "not_anchored"
	CodeMpcInvalid            FailureCode = "mpc_invalid"
	CodeSealInvalid           FailureCode = "seal_invalid"
	CodeConfidentialSeal      FailureCode = "confidential_seal"
	CodeAnchorInvalid         FailureCode = "anchor_invalid"
	CodeNotInAnchor           FailureCode = "not_in_anchor"
	CodeScriptFailure         FailureCode = "script_failure"
	CodeCustom                FailureCode = "custom"
)

// Failure is one detected validity violation. Op and Txid are populated
// only when the failure is attributable to a specific operation or
// witness transaction.
type Failure struct {
	Code    FailureCode
	Op      contract.OpId
	Txid    bitcoin.Txid
	Message string
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Warning is informational: something unusual was observed but does not
// by itself invalidate the consignment.
type Warning struct {
	Code    string
	Op      contract.OpId
	Message string
}

// Info is a purely observational note, never affecting Validity.
type Info struct {
	Code    string
	Message string
}

// Status accumulates every failure, warning and info the validator
// raised across a full run, plus the two txid bookkeeping vectors the
// verdict derivation consults. It is a monoid under Plus: Plus is
// associative and Status{} is its identity. Plus keeps each vector's
// order, so a.Plus(b) and b.Plus(a) hold the same entries but may list
// them in a different order.
type Status struct {
	Failures             []Failure
	Warnings             []Warning
	Infos                []Info
	UnresolvedTxids      []bitcoin.Txid
	UnminedEndpointTxids []bitcoin.Txid
}

// Plus concatenates two statuses' vectors, in order, without
// deduplication: validation never discards a detected condition.
func (s Status) Plus(other Status) Status {
	return Status{
		Failures:             append(append([]Failure{}, s.Failures...), other.Failures...),
		Warnings:             append(append([]Warning{}, s.Warnings...), other.Warnings...),
		Infos:                append(append([]Info{}, s.Infos...), other.Infos...),
		UnresolvedTxids:      append(append([]bitcoin.Txid{}, s.UnresolvedTxids...), other.UnresolvedTxids...),
		UnminedEndpointTxids: append(append([]bitcoin.Txid{}, s.UnminedEndpointTxids...), other.UnminedEndpointTxids...),
	}
}

// FromError wraps a plain error as a Custom-coded failure, for embedders
// surfacing their own script or resolver errors through Status.
func FromError(err error) Status {
	return Status{Failures: []Failure{{Code: CodeCustom, Message: err.Error()}}}
}

// WithFailure returns a Status carrying exactly one failure.
func WithFailure(f Failure) Status {
	return Status{Failures: []Failure{f}}
}

func (s *Status) addFailure(f Failure) { s.Failures = append(s.Failures, f) }
func (s *Status) addWarning(w Warning) { s.Warnings = append(s.Warnings, w) }
func (s *Status) addInfo(i Info)       { s.Infos = append(s.Infos, i) }

// Validity is the four-way verdict §4.G step 6 derives from a Status.
type Validity uint8

const (
	Valid Validity = iota
	ValidExceptEndpoints
	Invalid
	UnresolvedTransactions
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case ValidExceptEndpoints:
		return "valid_except_endpoints"
	case Invalid:
		return "invalid"
	case UnresolvedTransactions:
		return "unresolved_transactions"
	default:
		return "unknown"
	}
}

// Validity derives the verdict from the accumulated failures and the two
// txid bookkeeping vectors, per the truth table:
//
//	no failures, no unmined endpoints        -> Valid
//	no failures, unmined endpoints present    -> ValidExceptEndpoints
//	failures present, no unresolved txids     -> Invalid
//	failures present, unresolved txids present -> UnresolvedTransactions
func (s Status) Validity() Validity {
	switch {
	case len(s.Failures) == 0 && len(s.UnminedEndpointTxids) == 0:
		return Valid
	case len(s.Failures) == 0:
		return ValidExceptEndpoints
	case len(s.UnresolvedTxids) == 0:
		return Invalid
	default:
		return UnresolvedTransactions
	}
}
