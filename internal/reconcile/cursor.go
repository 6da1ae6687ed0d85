package reconcile

import "ledgersync/internal/source"

// CursorTracker holds one opaque pagination cursor per source account
// for the duration of a sync cycle. It is a pure state holder; the
// fetcher advances it as pages are consumed and the caller persists its
// snapshot only after a fully successful cycle.
type CursorTracker struct {
	cursors map[string]cursorState
}

type cursorState struct {
	token   string
	hasMore bool
}

// NewCursorTracker seeds a tracker from previously persisted cursors.
// Accounts absent from the seed start with an empty cursor, which
// requests the full backlog.
func NewCursorTracker(seed map[string]string) *CursorTracker {
	cursors := make(map[string]cursorState, len(seed))
	for accountID, token := range seed {
		cursors[accountID] = cursorState{token: token}
	}

	return &CursorTracker{cursors: cursors}
}

// Current returns the cursor to use for the next fetch request, or the
// empty string for a first-ever sync.
func (t *CursorTracker) Current(accountID string) string {
	return t.cursors[accountID].token
}

// Advance records the cursor returned by a fully fetched page and
// whether another page remains.
func (t *CursorTracker) Advance(accountID string, page *source.Page) {
	t.cursors[accountID] = cursorState{token: page.NextCursor, hasMore: page.HasMore}
}

// HasMore reports whether the last recorded page announced more pages.
func (t *CursorTracker) HasMore(accountID string) bool {
	return t.cursors[accountID].hasMore
}

// Snapshot exports the tracked cursors for persistence.
func (t *CursorTracker) Snapshot() map[string]string {
	out := make(map[string]string, len(t.cursors))
	for accountID, state := range t.cursors {
		out[accountID] = state.token
	}

	return out
}
