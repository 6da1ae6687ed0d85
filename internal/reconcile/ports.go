package reconcile

import (
	"context"

	"ledgersync/internal/ledger"
	"ledgersync/internal/source"
)

// SourceClient is the aggregator port. Sync must be called repeatedly
// with the returned NextCursor until HasMore is false.
type SourceClient interface {
	Sync(ctx context.Context, accountID, cursor string) (*source.Page, error)
}

// LedgerClient is the ledger port used for snapshot reads and upserts.
type LedgerClient interface {
	ListTransactions(ctx context.Context, accountRef string) ([]ledger.Entry, error)
	CreateTransaction(ctx context.Context, entry ledger.NewEntry) (*ledger.Entry, error)
	UpdateExternalID(ctx context.Context, entryID string, sourceIDs []string) error
}
