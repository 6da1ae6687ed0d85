package reconcile

import (
	"testing"

	"ledgersync/internal/ledger"
)

func TestBuildIdentityIndex(t *testing.T) {
	t.Parallel()

	snapshot := []ledger.Entry{
		{ID: "e-1", LinkedSourceIDs: []string{"tx-1"}},
		{ID: "e-2"},
		{ID: "e-3", LinkedSourceIDs: []string{"tx-2", "tx-3"}}, // merged duplicate split
	}

	index := BuildIdentityIndex(snapshot)

	if got := index.Len(); got != 3 {
		t.Errorf("Len() = %v, want 3", got)
	}

	for _, id := range []string{"tx-1", "tx-2", "tx-3"} {
		if !index.Has(id) {
			t.Errorf("Has(%q) = false, want true", id)
		}
	}

	if index.Has("tx-4") {
		t.Error("Has(tx-4) = true, want false")
	}

	index.Add("tx-4")

	if !index.Has("tx-4") {
		t.Error("Has(tx-4) = false after Add")
	}
}
