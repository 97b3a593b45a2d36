// Copyright 2025 LNP/BP RGB Contributors
//
// Package bitcoin holds the minimal Bitcoin primitives the anchor and
// seal layers need: transaction ids, outpoints, and a witness-transaction
// view sufficient to verify DBC proofs. Txid reuses btcsuite/btcd's
// chainhash.Hash; the input, output and witness-transaction views are
// this package's own minimal types.
package bitcoin

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Txid is a transaction id: the double-SHA256 of a transaction's
// non-witness serialization, displayed byte-reversed per Bitcoin
// convention. It is a thin alias over chainhash.Hash so seal and anchor
// code gets String()/IsEqual() for free.
type Txid = chainhash.Hash

// OutPoint names a specific output of a specific transaction: the
// anchor/seal point a single-use seal closes over.
type OutPoint struct {
	Txid Txid
	Vout uint32
}

func (o OutPoint) String() string {
	return o.Txid.String() + ":" + uintToString(o.Vout)
}

func uintToString(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// TxidFromBytes interprets 32 raw bytes (internal byte order, as stored
// on the wire) as a Txid.
func TxidFromBytes(b []byte) (Txid, error) {
	var h chainhash.Hash
	if err := h.SetBytes(b); err != nil {
		return Txid{}, err
	}
	return h, nil
}
