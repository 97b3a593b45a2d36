// Copyright 2025 LNP/BP RGB Contributors
//
// Package state implements the four state kinds an assignment may carry
// (Void, Fungible, Structured, Attachment), each as a Revealed/Concealed
// pair joined by a conceal() morphism, per the contract data model.
package state

import "github.com/lnp-bp/rgb-validation-core/pkg/strictenc"

// VoidRevealed and VoidConcealed both carry no data: a void assignment
// exists only to mark a seal as spent, never to carry a value.
type VoidRevealed struct{}
type VoidConcealed struct{}

// Conceal is the identity morphism for Void state.
func (VoidRevealed) Conceal() VoidConcealed { return VoidConcealed{} }

func (VoidRevealed) StrictEncode(w *strictenc.Writer) {}

func StrictDecodeVoidRevealed(r *strictenc.Reader) (VoidRevealed, error) {
	return VoidRevealed{}, nil
}
