package anchor

// WitnessOrdKind tags which of the three confirmation states a witness
// transaction is in.
type WitnessOrdKind uint8

const (
	OrdOffChain WitnessOrdKind = iota
	OrdMined
	OrdArchived
)

// WitnessOrd totally orders witness transactions for deterministic graph
// linearization: OffChain sorts before any Mined witness, which sorts
// before Archived; among Mined witnesses, lower height comes first.
type WitnessOrd struct {
	Kind      WitnessOrdKind
	Height    uint32
	BlockTime int64
}

// Less implements the total order OffChain > any Mined > Archived (read
// as "sorts earlier than" in ascending iteration order), matching the
// source's rationale that not-yet-settled witnesses should be visited
// first during linearization.
func (o WitnessOrd) Less(other WitnessOrd) bool {
	if o.Kind != other.Kind {
		return o.Kind < other.Kind
	}
	if o.Kind != OrdMined {
		return false
	}
	if o.Height != other.Height {
		return o.Height < other.Height
	}
	return o.BlockTime < other.BlockTime
}

// WitnessAnchor pairs a witness's confirmation ordinal with its identity,
// ordered lexicographically by ord then id.
type WitnessAnchor struct {
	Ord WitnessOrd
	Id  WitnessId
}

// Less orders first by Ord, then by Layer1, then by txid bytes.
func (a WitnessAnchor) Less(other WitnessAnchor) bool {
	if a.Ord != other.Ord {
		return a.Ord.Less(other.Ord)
	}
	if a.Id.Layer1 != other.Id.Layer1 {
		return a.Id.Layer1 < other.Id.Layer1
	}
	aBytes := a.Id.Txid.CloneBytes()
	bBytes := other.Id.Txid.CloneBytes()
	for i := range aBytes {
		if aBytes[i] != bBytes[i] {
			return aBytes[i] < bBytes[i]
		}
	}
	return false
}
