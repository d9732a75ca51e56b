package persona

import "github.com/ethpandaops/persona/pkg/records"

// TargetIndex maps target identifiers to target records.
type TargetIndex map[string]*records.Target

// NewTargetIndex indexes targets by identifier. A later duplicate identifier
// replaces an earlier one.
func NewTargetIndex(targets []records.Target) TargetIndex {
	index := make(TargetIndex, len(targets))
	for i := range targets {
		index[targets[i].TargetID] = &targets[i]
	}

	return index
}

// Lookup returns the target for an identifier, or nil if it is unknown.
func (idx TargetIndex) Lookup(targetID string) *records.Target {
	return idx[targetID]
}
