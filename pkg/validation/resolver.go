package validation

import (
	"context"

	"github.com/lnp-bp/rgb-validation-core/pkg/anchor"
	"github.com/lnp-bp/rgb-validation-core/pkg/bitcoin"
)

// Resolver is the external lookup the validator calls into for anything
// it cannot derive from the consignment alone. Implementations must be
// referentially transparent for the duration of one Validate call: the
// same txid or witness id queried twice in one run must answer the same
// way, or the resulting Status is undefined (though still safe).
type Resolver interface {
	// ResolveTx returns confirmation info for txid, or ok=false if the
	// transaction is not known to the resolver's backing chain view.
	ResolveTx(ctx context.Context, txid bitcoin.Txid) (bitcoin.TxInfo, bool)

	// ResolvePubWitness returns the minimum transaction data needed to
	// verify a DBC proof against wid, or ok=false if unknown.
	ResolvePubWitness(ctx context.Context, wid anchor.WitnessId) (bitcoin.WitnessTx, bool)
}
