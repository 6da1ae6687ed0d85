package reconcile

import (
	"github.com/shopspring/decimal"

	"ledgersync/internal/ledger"
	"ledgersync/internal/source"
)

// MatchOutcome is the result of a fuzzy-match scan.
type MatchOutcome int

const (
	// MatchNone means no candidate exists; a new entry gets created.
	MatchNone MatchOutcome = iota
	// MatchFound means exactly one candidate exists and may be linked.
	MatchFound
	// MatchAmbiguous means several candidates exist; linking under
	// ambiguity is never allowed, a new entry gets created instead.
	MatchAmbiguous
)

// expectedEntry derives the ledger-side type and unsigned amount from a
// source transaction's signed amount. Negative means money entered the
// tracked account, so it becomes a deposit; positive becomes a
// withdrawal. This mapping is applied exactly once, here.
func expectedEntry(amount decimal.Decimal) (ledger.EntryType, decimal.Decimal) {
	if amount.IsNegative() {
		return ledger.TypeDeposit, amount.Abs()
	}

	return ledger.TypeWithdrawal, amount
}

// FuzzyMatcher searches a ledger snapshot for pre-existing unlinked
// entries that plausibly represent an incoming source transaction,
// typically entries entered by hand before syncing existed.
type FuzzyMatcher struct{}

// Match scans the snapshot for entries with the expected type, the
// exact unsigned amount and the same calendar day, skipping entries
// that are already linked. It returns the index of the sole candidate
// when the evidence is unique; with more than one candidate it reports
// MatchAmbiguous and never picks one.
func (m *FuzzyMatcher) Match(transaction source.Transaction, snapshot []ledger.Entry) (int, MatchOutcome) {
	expectedType, expectedAmount := expectedEntry(transaction.Amount)

	found := -1

	for i, entry := range snapshot {
		if entry.Linked() {
			continue
		}

		if entry.Type != expectedType {
			continue
		}

		if !entry.Amount.Equal(expectedAmount) {
			continue
		}

		if !entry.Date.Equal(transaction.Date) {
			continue
		}

		if found >= 0 {
			return -1, MatchAmbiguous
		}

		found = i
	}

	if found < 0 {
		return -1, MatchNone
	}

	return found, MatchFound
}
