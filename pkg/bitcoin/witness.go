package bitcoin

// TxOut is the minimal output view a DBC proof needs: the script that may
// carry an OP_RETURN or taproot commitment, and its value.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// TxIn is the minimal input view needed to locate and verify a spent
// seal's prevout and, for taproot spends, its witness stack.
type TxIn struct {
	PrevOut  OutPoint
	Witness  [][]byte
	PkScript []byte
}

// WitnessTx is the resolver's answer to resolve_pub_witness: just enough
// of a confirmed (or mempool) transaction to verify a tapret or opret
// commitment and to check which previous outputs it spends.
type WitnessTx struct {
	Txid    Txid
	Inputs  []TxIn
	Outputs []TxOut
}

// SpendsOutPoint reports whether this transaction's inputs include the
// given outpoint, and at what input index.
func (w WitnessTx) SpendsOutPoint(op OutPoint) (index int, ok bool) {
	for i, in := range w.Inputs {
		if in.PrevOut.Txid.IsEqual(&op.Txid) && in.PrevOut.Vout == op.Vout {
			return i, true
		}
	}
	return 0, false
}

// TxInfo is the resolver's answer to resolve_tx: the confirmation status
// of a txid, independent of its contents.
type TxInfo struct {
	BlockHeight   uint32
	BlockTime     int64
	Confirmations uint32
}
