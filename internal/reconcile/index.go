package reconcile

import "ledgersync/internal/ledger"

// IdentityIndex is the set of source transaction ids already linked
// into the ledger. A transaction whose id is in the index is skipped
// before any other processing; this is the primary duplicate guard.
type IdentityIndex struct {
	ids map[string]struct{}
}

// BuildIdentityIndex derives the index from a ledger snapshot. Merged
// duplicate entries contribute each of their linked ids.
func BuildIdentityIndex(snapshot []ledger.Entry) *IdentityIndex {
	index := &IdentityIndex{ids: make(map[string]struct{}, len(snapshot))}

	for _, entry := range snapshot {
		index.Add(entry.LinkedSourceIDs...)
	}

	return index
}

// Has reports whether a source transaction id is already linked.
func (x *IdentityIndex) Has(id string) bool {
	_, ok := x.ids[id]
	return ok
}

// Add records ids as linked so later transactions in the same cycle
// see earlier ones.
func (x *IdentityIndex) Add(ids ...string) {
	for _, id := range ids {
		x.ids[id] = struct{}{}
	}
}

// Len returns the number of linked ids.
func (x *IdentityIndex) Len() int {
	return len(x.ids)
}
