package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/lnp-bp/rgb-validation-core/pkg/anchor"
	"github.com/lnp-bp/rgb-validation-core/pkg/consignment"
	"github.com/lnp-bp/rgb-validation-core/pkg/contract"
	"github.com/lnp-bp/rgb-validation-core/pkg/schema"
)

// Validator runs the single-pass consensus validation algorithm against
// a consignment.Api, consulting a Resolver for anything that requires
// external chain data. It holds no mutable state between calls and is
// safe to reuse across concurrent Validate calls against independent
// consignments.
type Validator struct {
	resolver Resolver
}

// New constructs a Validator that consults resolver for witness
// transaction data.
func New(resolver Resolver) *Validator {
	return &Validator{resolver: resolver}
}

// Validate runs the full algorithm (schema check, genesis, graph
// traversal, seal closure, script, status aggregation) and returns the
// derived Validity alongside the full accumulated Status. It never
// aborts early on a detected failure; every reachable problem is
// accumulated so a caller sees the complete picture in one pass.
func (v *Validator) Validate(ctx context.Context, api consignment.Api) (Validity, Status) {
	var status Status

	sch, ok := api.Schema()
	if !ok {
		status.addFailure(Failure{Code: CodeSchemaIdMismatch, Message: "consignment carries no schema"})
		return status.Validity(), status
	}
	if sch.RootSchema != nil {
		if err := sch.ValidateAgainstRoot(sch.RootSchema); err != nil {
			status.addFailure(Failure{Code: CodeSchemaRootMismatch, Message: err.Error()})
		}
	}

	genesis, ok := api.Genesis()
	if !ok {
		status.addFailure(Failure{Code: CodeOperationAbsent, Message: "consignment carries no genesis"})
		return status.Validity(), status
	}
	if genesis.SchemaId != sch.SchemaId() {
		status.addFailure(Failure{Code: CodeSchemaIdMismatch, Op: genesis.Id(), Message: "genesis references a different schema id"})
	}
	status = status.Plus(checkOccurrences(genesis.Id(), genesis.OpCommon, sch.GenesisSchema))

	visited := map[contract.OpId]bool{genesis.Id(): true}
	transitionIds := map[contract.OpId]bool{}
	extensionIds := map[contract.OpId]bool{}

	queue := v.seedTerminals(api, &status)
	for len(queue) > 0 {
		opId := queue[0]
		queue = queue[1:]
		if visited[opId] {
			continue
		}
		visited[opId] = true

		op, ok := api.Operation(opId)
		if !ok {
			status.addFailure(Failure{Code: CodeOperationAbsent, Op: opId, Message: "referenced operation is absent from the consignment"})
			continue
		}

		switch op.Kind {
		case consignment.OpTransition:
			t := op.Transition
			if t.Id() != opId {
				status.addFailure(Failure{Code: CodeOperationAbsent, Op: opId, Message: "provider returned a transition whose id disagrees with the request"})
				continue
			}
			transitionIds[opId] = true

			opSchema, ok := sch.TransitionSchemata[t.TransitionType]
			if !ok {
				status.addFailure(Failure{Code: CodeOccurrencesError, Op: opId, Message: fmt.Sprintf("schema declares no transition type %d", t.TransitionType)})
				continue
			}
			status = status.Plus(checkOccurrences(opId, t.OpCommon, opSchema))
			status = status.Plus(checkInputOccurrences(opId, t.Inputs, opSchema))

			for _, in := range t.Inputs {
				predOp, ok := api.Operation(in.Op)
				if !ok {
					status.addFailure(Failure{Code: CodeNoPrevOut, Op: opId, Message: fmt.Sprintf("predecessor operation %x is absent", in.Op)})
					continue
				}
				entries := opAssignments(predOp, in.Type)
				switch {
				case len(entries) == 0:
					status.addFailure(Failure{Code: CodeNoPrevState, Op: opId, Message: fmt.Sprintf("predecessor carries no assignment of type %d", in.Type)})
				case int(in.Index) >= len(entries):
					status.addFailure(Failure{Code: CodeNoPrevOut, Op: opId, Message: fmt.Sprintf("predecessor has no assignment %d/%d", in.Type, in.Index)})
				}
				queue = append(queue, in.Op)
			}

		case consignment.OpExtension:
			e := op.Extension
			if e.Id() != opId {
				status.addFailure(Failure{Code: CodeOperationAbsent, Op: opId, Message: "provider returned an extension whose id disagrees with the request"})
				continue
			}
			extensionIds[opId] = true

			opSchema, ok := sch.ExtensionSchemata[e.ExtensionType]
			if !ok {
				status.addFailure(Failure{Code: CodeOccurrencesError, Op: opId, Message: fmt.Sprintf("schema declares no extension type %d", e.ExtensionType)})
				continue
			}
			status = status.Plus(checkOccurrences(opId, e.OpCommon, opSchema))

			for parentId, valencies := range e.Redeemed {
				parentOp, ok := api.Operation(parentId)
				if !ok {
					status.addFailure(Failure{Code: CodeValencyNoParent, Op: opId, Message: fmt.Sprintf("redeemed parent %x is absent", parentId)})
					continue
				}
				parentValencies := opValencies(parentOp)
				for _, vt := range valencies {
					if _, ok := parentValencies[vt]; !ok {
						status.addFailure(Failure{Code: CodeNoPrevValency, Op: opId, Message: fmt.Sprintf("parent does not declare valency %d", vt)})
					}
				}
				queue = append(queue, parentId)
			}

		case consignment.OpGenesis:
			// Genesis reached via backward traversal; already type-checked above.

		default:
			status.addFailure(Failure{Code: CodeOperationAbsent, Op: opId, Message: "operation of unknown kind"})
		}
	}

	status = status.Plus(v.checkSealClosure(ctx, api, transitionIds))

	if sch.Script != nil {
		for opId := range transitionIds {
			op, ok := api.Operation(opId)
			if !ok {
				continue
			}
			if err := sch.Script.CheckOperation(op.Transition); err != nil {
				status.addFailure(Failure{Code: CodeScriptFailure, Op: opId, Message: err.Error()})
			}
		}
		for opId := range extensionIds {
			op, ok := api.Operation(opId)
			if !ok {
				continue
			}
			if err := sch.Script.CheckOperation(op.Extension); err != nil {
				status.addFailure(Failure{Code: CodeScriptFailure, Op: opId, Message: err.Error()})
			}
		}
	}

	return status.Validity(), status
}

// seedTerminals resolves each declared terminal to the transition(s)
// that actually carry the matching concealed seal, which is where
// backward traversal begins.
func (v *Validator) seedTerminals(api consignment.Api, status *Status) []contract.OpId {
	var queue []contract.OpId
	for _, term := range api.Terminals() {
		bundle, ok := api.Bundle(term.BundleId)
		if !ok {
			status.addFailure(Failure{Code: CodeTransitionAbsent, Message: fmt.Sprintf("terminal references absent bundle %x", term.BundleId)})
			continue
		}
		found := false
		for _, t := range bundle.Transitions {
			for _, entries := range t.Assignments {
				for _, e := range entries {
					if e.Seal.ConcealedId() == term.ConcealedSeal {
						queue = append(queue, t.Id())
						found = true
					}
				}
			}
		}
		if !found {
			status.addWarning(Warning{Code: "endpoint_unreachable", Message: fmt.Sprintf("terminal seal %x not found in its declared bundle", term.ConcealedSeal)})
		}
	}
	return queue
}

// checkSealClosure verifies, for every visited transition, that its
// bundle is anchored and that the anchor's DBC proof(s) actually embed
// the bundle's MPC root in a resolvable witness transaction, and that
// each revealed input seal is closed by that transaction.
func (v *Validator) checkSealClosure(ctx context.Context, api consignment.Api, transitionIds map[contract.OpId]bool) Status {
	var status Status

	bundleOf := map[contract.OpId]contract.BundleId{}
	committedByBundle := map[contract.BundleId]map[contract.OpId]bool{}
	for _, bid := range api.BundleIds() {
		bundle, ok := api.Bundle(bid)
		if !ok {
			continue
		}
		if err := bundle.Validate(); err != nil {
			status.addFailure(Failure{Code: CodeNotInAnchor, Message: fmt.Sprintf("bundle %x: %s", bid, err.Error())})
			continue
		}
		for _, t := range bundle.Transitions {
			bundleOf[t.Id()] = bid
		}
		committed := make(map[contract.OpId]bool, len(bundle.InputMap))
		for _, committedId := range bundle.InputMap {
			committed[committedId] = true
		}
		committedByBundle[bid] = committed
	}

	for opId := range transitionIds {
		op, ok := api.Operation(opId)
		if !ok {
			continue
		}
		t := op.Transition

		bundleId, ok := bundleOf[opId]
		if !ok {
			status.addFailure(Failure{Code: CodeNotAnchored, Op: opId, Message: "transition is not a member of any bundle in this consignment"})
			continue
		}
		if !committedByBundle[bundleId][opId] {
			status.addFailure(Failure{Code: CodeNotInAnchor, Op: opId, Message: "bundle's input map does not commit to this transition"})
			continue
		}
		grip := api.Grip(bundleId)
		if !grip.Found {
			status.addFailure(Failure{Code: CodeNotAnchored, Op: opId, Message: "bundle has no anchor"})
			continue
		}
		anc := grip.Anchor

		wid := anchor.WitnessId{Layer1: anc.Layer1, Txid: anc.Set.Txid}
		wtx, ok := v.resolver.ResolvePubWitness(ctx, wid)
		if !ok {
			status.UnresolvedTxids = append(status.UnresolvedTxids, anc.Set.Txid)
			status.addWarning(Warning{Code: "seal_no_witness_tx", Op: opId, Message: fmt.Sprintf("witness tx %s not resolvable", anc.Set.Txid)})
			continue
		}

		if err := anc.Set.Verify(bundleId, wtx); err != nil {
			status.addFailure(Failure{Code: classifyAnchorError(err), Op: opId, Txid: anc.Set.Txid, Message: err.Error()})
			continue
		}

		if info, ok := v.resolver.ResolveTx(ctx, anc.Set.Txid); ok && info.Confirmations == 0 {
			status.UnminedEndpointTxids = append(status.UnminedEndpointTxids, anc.Set.Txid)
		}

		for _, in := range t.Inputs {
			predOp, ok := api.Operation(in.Op)
			if !ok {
				continue
			}
			entries := opAssignments(predOp, in.Type)
			if int(in.Index) >= len(entries) {
				continue
			}
			seal := entries[in.Index].Seal
			if seal.Kind == contract.SealConcealed {
				status.addFailure(Failure{Code: CodeConfidentialSeal, Op: opId, Message: "input seal is confidential and cannot be checked"})
				continue
			}
			if _, spent := wtx.SpendsOutPoint(seal.Revealed.Outpoint); !spent {
				status.addFailure(Failure{Code: CodeSealInvalid, Op: opId, Txid: anc.Set.Txid, Message: "witness transaction does not spend the seal's outpoint"})
			}
		}
	}

	return status
}

func classifyAnchorError(err error) FailureCode {
	switch {
	case errors.Is(err, anchor.ErrMpcInvalid):
		return CodeMpcInvalid
	case errors.Is(err, anchor.ErrDbcInvalid):
		return CodeAnchorInvalid
	default:
		return CodeSealInvalid
	}
}

// opAssignments returns an operation's assignment entries of type t
// regardless of which operation kind it is.
func opAssignments(op consignment.Operation, t schema.AssignmentType) []contract.AssignmentEntry {
	switch op.Kind {
	case consignment.OpGenesis:
		return op.Genesis.Assignments[t]
	case consignment.OpTransition:
		return op.Transition.Assignments[t]
	case consignment.OpExtension:
		return op.Extension.Assignments[t]
	default:
		return nil
	}
}

// opValencies returns an operation's declared valency set regardless of
// which operation kind it is.
func opValencies(op consignment.Operation) map[schema.ValencyType]struct{} {
	switch op.Kind {
	case consignment.OpGenesis:
		return op.Genesis.Valencies
	case consignment.OpTransition:
		return op.Transition.Valencies
	case consignment.OpExtension:
		return op.Extension.Valencies
	default:
		return nil
	}
}

// checkOccurrences type-checks an operation's globals, assignments and
// valencies against its schema's declared occurrence bounds.
func checkOccurrences(opId contract.OpId, common contract.OpCommon, opSchema schema.OpSchema) Status {
	var status Status
	for gt, occ := range opSchema.Globals {
		if err := occ.CheckCount(uint64(len(common.Globals[gt]))); err != nil {
			status.addFailure(Failure{Code: CodeOccurrencesError, Op: opId, Message: fmt.Sprintf("global type %d: %s", gt, err.Error())})
		}
	}
	for at, occ := range opSchema.Assignments {
		if err := occ.CheckCount(uint64(len(common.Assignments[at]))); err != nil {
			status.addFailure(Failure{Code: CodeOccurrencesError, Op: opId, Message: fmt.Sprintf("assignment type %d: %s", at, err.Error())})
		}
	}
	for vt := range common.Valencies {
		if _, ok := opSchema.Valencies[vt]; !ok {
			status.addFailure(Failure{Code: CodeOccurrencesError, Op: opId, Message: fmt.Sprintf("valency type %d not declared by schema", vt)})
		}
	}
	return status
}

// checkInputOccurrences type-checks a transition's input count per
// assignment type against the schema's declared bounds.
func checkInputOccurrences(opId contract.OpId, inputs []contract.Opout, opSchema schema.OpSchema) Status {
	var status Status
	counts := map[schema.AssignmentType]uint64{}
	for _, in := range inputs {
		counts[in.Type]++
	}
	for at, occ := range opSchema.Inputs {
		if err := occ.CheckCount(counts[at]); err != nil {
			status.addFailure(Failure{Code: CodeOccurrencesError, Op: opId, Message: fmt.Sprintf("input assignment type %d: %s", at, err.Error())})
		}
	}
	return status
}
