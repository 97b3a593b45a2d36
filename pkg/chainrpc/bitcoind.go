// Copyright 2025 LNP/BP RGB Contributors
//
// Package chainrpc implements validation.Resolver against a bitcoind
// full node over its JSON-RPC interface: one thin client struct wrapping
// btcd's RPC client, with each resolver method mapping the node's reply
// onto the minimal view types pkg/bitcoin declares.
package chainrpc

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/lnp-bp/rgb-validation-core/pkg/anchor"
	"github.com/lnp-bp/rgb-validation-core/pkg/bitcoin"
	"github.com/lnp-bp/rgb-validation-core/pkg/schema"
)

// BitcoindResolver answers validation.Resolver by querying a bitcoind
// node's JSON-RPC interface. Both methods are read-only and safe for
// concurrent use by multiple validation runs.
type BitcoindResolver struct {
	client *rpcclient.Client
	params *chaincfg.Params
}

// Dial connects to a bitcoind node. addr, user and pass are the node's
// RPC endpoint and credentials; params selects which network's address
// and script rules apply when decoding transactions.
func Dial(addr, user, pass string, params *chaincfg.Params) (*BitcoindResolver, error) {
	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         addr,
		User:         user,
		Pass:         pass,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("chainrpc: connect to bitcoind: %w", err)
	}
	return &BitcoindResolver{client: client, params: params}, nil
}

// Close releases the underlying RPC connection.
func (r *BitcoindResolver) Close() {
	r.client.Shutdown()
}

// ResolveTx implements validation.Resolver.
func (r *BitcoindResolver) ResolveTx(ctx context.Context, txid bitcoin.Txid) (bitcoin.TxInfo, bool) {
	raw, err := r.client.GetRawTransactionVerbose(&txid)
	if err != nil {
		return bitcoin.TxInfo{}, false
	}
	return bitcoin.TxInfo{
		BlockTime:     raw.Blocktime,
		Confirmations: uint32(raw.Confirmations),
	}, true
}

// ResolvePubWitness implements validation.Resolver.
func (r *BitcoindResolver) ResolvePubWitness(ctx context.Context, wid anchor.WitnessId) (bitcoin.WitnessTx, bool) {
	if wid.Layer1 != schema.LayerBitcoin {
		return bitcoin.WitnessTx{}, false
	}

	raw, err := r.client.GetRawTransactionVerbose(&wid.Txid)
	if err != nil {
		return bitcoin.WitnessTx{}, false
	}

	wtx := bitcoin.WitnessTx{Txid: wid.Txid}
	for _, vin := range raw.Vin {
		if vin.Txid == "" {
			continue // coinbase
		}
		prevHash, err := chainhash.NewHashFromStr(vin.Txid)
		if err != nil {
			return bitcoin.WitnessTx{}, false
		}
		witness := make([][]byte, 0, len(vin.Witness))
		for _, w := range vin.Witness {
			b, err := hex.DecodeString(w)
			if err != nil {
				return bitcoin.WitnessTx{}, false
			}
			witness = append(witness, b)
		}
		wtx.Inputs = append(wtx.Inputs, bitcoin.TxIn{
			PrevOut: bitcoin.OutPoint{Txid: *prevHash, Vout: vin.Vout},
			Witness: witness,
		})
	}
	for _, vout := range raw.Vout {
		script, err := hex.DecodeString(vout.ScriptPubKey.Hex)
		if err != nil {
			return bitcoin.WitnessTx{}, false
		}
		wtx.Outputs = append(wtx.Outputs, bitcoin.TxOut{
			Value:    btcToSats(vout.Value),
			PkScript: script,
		})
	}
	return wtx, true
}

// btcToSats converts the BTC-denominated float bitcoind's JSON-RPC
// returns into satoshis.
func btcToSats(btc float64) int64 {
	return int64(btc*1e8 + 0.5)
}
