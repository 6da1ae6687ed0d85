package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DuplicateCollapser detects source transactions that are split records
// of a single real-world transaction, an artifact of some account types.
// Detection is adjacent-pair only: a transaction is compared against the
// most recently processed transaction of the same account, never against
// a wider window.
type DuplicateCollapser struct {
	exclusions []string
	last       map[string]lastProcessed
}

type lastProcessed struct {
	displayName string
	amount      decimal.Decimal
	entryID     string
	sourceIDs   []string
}

// NewDuplicateCollapser builds a collapser. Transactions whose display
// name contains any exclusion substring are never collapsed, so
// legitimate repeated charges stay separate entries.
func NewDuplicateCollapser(exclusions []string) *DuplicateCollapser {
	return &DuplicateCollapser{
		exclusions: exclusions,
		last:       make(map[string]lastProcessed),
	}
}

// CollapseTarget reports whether a transaction duplicates the account's
// most recently processed one. When it does, it returns the ledger
// entry that transaction ended up on together with the source ids
// already linked to it, so the caller can append instead of creating a
// second entry.
func (c *DuplicateCollapser) CollapseTarget(accountID, displayName string, amount decimal.Decimal) (string, []string, bool) {
	if c.excluded(displayName) {
		return "", nil, false
	}

	previous, ok := c.last[accountID]
	if !ok {
		return "", nil, false
	}

	if previous.displayName != displayName || !previous.amount.Equal(amount) {
		return "", nil, false
	}

	return previous.entryID, previous.sourceIDs, true
}

// Observe records the transaction just processed as the account's most
// recent one, along with the ledger entry it is linked to.
func (c *DuplicateCollapser) Observe(accountID, displayName string, amount decimal.Decimal, entryID string, sourceIDs []string) {
	c.last[accountID] = lastProcessed{
		displayName: displayName,
		amount:      amount,
		entryID:     entryID,
		sourceIDs:   sourceIDs,
	}
}

// Reset forgets the account's most recent transaction. Called when a
// transaction was consumed without ending up on a ledger entry, so that
// the next one is not compared against a non-adjacent predecessor.
func (c *DuplicateCollapser) Reset(accountID string) {
	delete(c.last, accountID)
}

func (c *DuplicateCollapser) excluded(displayName string) bool {
	for _, exclusion := range c.exclusions {
		if strings.Contains(displayName, exclusion) {
			return true
		}
	}

	return false
}
