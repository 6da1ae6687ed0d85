package reconcile

import (
	"context"
	"fmt"

	"ledgersync/internal/source"
)

// Fetcher drains the source port's paginated sync stream per account.
type Fetcher struct {
	client  SourceClient
	tracker *CursorTracker
}

// NewFetcher builds a fetcher over a source client and a cycle-scoped
// cursor tracker.
func NewFetcher(client SourceClient, tracker *CursorTracker) *Fetcher {
	return &Fetcher{client: client, tracker: tracker}
}

// FetchAll returns, per account, every transaction new since the
// account's last recorded cursor. Transactions keep page order; no
// re-sorting happens, so callers must not assume chronological order.
//
// A transport error aborts the fetch: the error propagates up, the
// partial results are discarded and the tracker's snapshot must not be
// persisted, so no page is ever skipped.
func (f *Fetcher) FetchAll(ctx context.Context, accountIDs []string) (map[string][]source.Transaction, error) {
	fetched := make(map[string][]source.Transaction, len(accountIDs))

	for _, accountID := range accountIDs {
		transactions, err := f.fetchAccount(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("fetching account %v: %w", accountID, err)
		}

		fetched[accountID] = transactions
	}

	return fetched, nil
}

func (f *Fetcher) fetchAccount(ctx context.Context, accountID string) ([]source.Transaction, error) {
	var transactions []source.Transaction

	for {
		page, err := f.client.Sync(ctx, accountID, f.tracker.Current(accountID))
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, page.Added...)
		f.tracker.Advance(accountID, page)

		if !f.tracker.HasMore(accountID) {
			return transactions, nil
		}
	}
}
