// Package reconcile turns a stream of aggregator-reported bank
// transactions into ledger entries exactly once: cursor-based
// incremental fetch, identity tracking via the ledger's external id
// field, fuzzy matching of pre-existing manual entries, collapsing of
// duplicate splits and idempotent create-or-link upserts.
package reconcile

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ledgersync/internal/ledger"
	"ledgersync/internal/source"
)

// Config is the reconciliation behavior surface.
type Config struct {
	// AccountMapping maps source account ids to ledger account
	// references. Transactions for unmapped accounts are skipped.
	AccountMapping map[string]string
	// RemoveStrings are boilerplate substrings stripped from raw
	// counterparty descriptions.
	RemoveStrings []string
	// NotDuplicates lists substrings that exempt a display name from
	// duplicate collapsing.
	NotDuplicates []string
	// MatchTransactions enables fuzzy matching of unlinked ledger
	// entries.
	MatchTransactions bool
}

// Stats summarizes one sync cycle.
type Stats struct {
	Fetched         int
	Created         int
	Linked          int
	Collapsed       int
	SkippedKnown    int
	SkippedUnmapped int
	SkippedZero     int
	Failed          int

	// Cursors is the tracker snapshot to persist. Only valid after a
	// fully successful cycle.
	Cursors map[string]string
}

// Reconciler runs sync cycles against the source and ledger ports. It
// holds no state across cycles; cursors live in the seed passed to Run
// and in the returned Stats.
type Reconciler struct {
	source SourceClient
	ledger LedgerClient
	cfg    Config
	log    zerolog.Logger
}

// New builds a reconciler.
func New(sourceClient SourceClient, ledgerClient LedgerClient, cfg Config, log zerolog.Logger) *Reconciler {
	return &Reconciler{source: sourceClient, ledger: ledgerClient, cfg: cfg, log: log}
}

// Run performs one sync cycle: fetch new source transactions, read the
// ledger snapshot, then create or link one ledger entry per transaction
// not already known. A fetch or snapshot error aborts the whole cycle;
// a single failed write only skips that transaction.
func (r *Reconciler) Run(ctx context.Context, cursors map[string]string) (*Stats, error) {
	log := r.log.With().Str("cycle", uuid.NewString()).Logger()

	accountIDs := sortedKeys(r.cfg.AccountMapping)
	tracker := NewCursorTracker(cursors)

	fetched, err := NewFetcher(r.source, tracker).FetchAll(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching source transactions: %w", err)
	}

	snapshot, err := r.readSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading ledger snapshot: %w", err)
	}

	cycle := &cycleState{
		log:        log,
		index:      BuildIdentityIndex(snapshot),
		snapshot:   snapshot,
		normalizer: NewNameNormalizer(r.cfg.RemoveStrings),
		matcher:    &FuzzyMatcher{},
		collapser:  NewDuplicateCollapser(r.cfg.NotDuplicates),
		stats:      &Stats{},
	}

	log.Debug().
		Int("entries", len(snapshot)).
		Int("known", cycle.index.Len()).
		Msg("ledger snapshot read")

	for _, accountID := range accountIDs {
		for _, transaction := range fetched[accountID] {
			cycle.stats.Fetched++
			r.process(ctx, cycle, transaction)
		}
	}

	cycle.stats.Cursors = tracker.Snapshot()

	log.Info().
		Int("fetched", cycle.stats.Fetched).
		Int("created", cycle.stats.Created).
		Int("linked", cycle.stats.Linked).
		Int("collapsed", cycle.stats.Collapsed).
		Int("failed", cycle.stats.Failed).
		Msg("cycle done")

	return cycle.stats, nil
}

// cycleState is the mutable state owned by one Run call.
type cycleState struct {
	log        zerolog.Logger
	index      *IdentityIndex
	snapshot   []ledger.Entry
	normalizer *NameNormalizer
	matcher    *FuzzyMatcher
	collapser  *DuplicateCollapser
	stats      *Stats
}

// readSnapshot drains every tracked ledger account before any write
// happens, so matching and duplicate checks see a consistent prior
// state.
func (r *Reconciler) readSnapshot(ctx context.Context) ([]ledger.Entry, error) {
	var snapshot []ledger.Entry

	seen := make(map[string]struct{}, len(r.cfg.AccountMapping))

	for _, accountID := range sortedKeys(r.cfg.AccountMapping) {
		ref := r.cfg.AccountMapping[accountID]
		if _, ok := seen[ref]; ok {
			continue
		}

		seen[ref] = struct{}{}

		entries, err := r.ledger.ListTransactions(ctx, ref)
		if err != nil {
			return nil, err
		}

		snapshot = append(snapshot, entries...)
	}

	return snapshot, nil
}

func (r *Reconciler) process(ctx context.Context, cycle *cycleState, transaction source.Transaction) {
	log := cycle.log.With().
		Str("transaction", transaction.ID).
		Str("date", transaction.Date.Format("2006-01-02")).
		Str("amount", transaction.Amount.String()).
		Logger()

	if cycle.index.Has(transaction.ID) {
		cycle.stats.SkippedKnown++
		cycle.collapser.Reset(transaction.AccountID)
		log.Debug().Msg("already linked, skipping")

		return
	}

	accountRef, ok := r.cfg.AccountMapping[transaction.AccountID]
	if !ok {
		cycle.stats.SkippedUnmapped++
		log.Debug().Str("account", transaction.AccountID).Msg("account not mapped, skipping")

		return
	}

	displayName := cycle.normalizer.DisplayName(transaction)
	log = log.With().Str("name", displayName).Logger()

	if entryID, linked, ok := cycle.collapser.CollapseTarget(transaction.AccountID, displayName, transaction.Amount); ok {
		r.collapse(ctx, cycle, log, transaction, displayName, entryID, linked)
		return
	}

	entryType, amount := expectedEntry(transaction.Amount)

	if amount.IsZero() {
		cycle.stats.SkippedZero++
		cycle.collapser.Reset(transaction.AccountID)
		log.Warn().Msg("zero amount, ledger rejects it, skipping")

		return
	}

	if r.cfg.MatchTransactions {
		if i, outcome := cycle.matcher.Match(transaction, cycle.snapshot); outcome == MatchFound {
			r.link(ctx, cycle, log, transaction, displayName, i)
			return
		} else if outcome == MatchAmbiguous {
			log.Info().Msg("several entries match, refusing to guess, creating a new one")
		}
	}

	r.create(ctx, cycle, log, transaction, displayName, accountRef, entryType, amount)
}

// collapse appends the transaction's id to the entry its duplicate
// predecessor ended up on instead of creating a second entry.
func (r *Reconciler) collapse(ctx context.Context, cycle *cycleState, log zerolog.Logger, transaction source.Transaction, displayName, entryID string, linked []string) {
	merged := append(append([]string(nil), linked...), transaction.ID)

	if err := r.ledger.UpdateExternalID(ctx, entryID, merged); err != nil {
		cycle.stats.Failed++
		cycle.collapser.Reset(transaction.AccountID)
		log.Warn().Err(err).Msg("merging duplicate split failed")

		return
	}

	cycle.index.Add(transaction.ID)
	cycle.collapser.Observe(transaction.AccountID, displayName, transaction.Amount, entryID, merged)
	cycle.stats.Collapsed++
	log.Info().Str("entry", entryID).Msg("collapsed duplicate split")
}

// link sets the matched snapshot entry's external id to the source
// transaction id and marks it linked in memory so it cannot match
// again within the cycle.
func (r *Reconciler) link(ctx context.Context, cycle *cycleState, log zerolog.Logger, transaction source.Transaction, displayName string, i int) {
	entry := &cycle.snapshot[i]

	if err := r.ledger.UpdateExternalID(ctx, entry.ID, []string{transaction.ID}); err != nil {
		cycle.stats.Failed++
		cycle.collapser.Reset(transaction.AccountID)
		log.Warn().Err(err).Msg("linking matched entry failed")

		return
	}

	entry.LinkedSourceIDs = []string{transaction.ID}
	cycle.index.Add(transaction.ID)
	cycle.collapser.Observe(transaction.AccountID, displayName, transaction.Amount, entry.ID, entry.LinkedSourceIDs)
	cycle.stats.Linked++
	log.Info().Str("entry", entry.ID).Msg("linked existing entry")
}

func (r *Reconciler) create(ctx context.Context, cycle *cycleState, log zerolog.Logger, transaction source.Transaction, displayName, accountRef string, entryType ledger.EntryType, amount decimal.Decimal) {
	entry := ledger.NewEntry{
		Type:            entryType,
		Date:            transaction.Date,
		Amount:          amount,
		Description:     displayName,
		CurrencyCode:    transaction.CurrencyCode,
		Tags:            transaction.Category,
		LinkedSourceIDs: []string{transaction.ID},
	}

	// The tracked account sits on the side the money moved from or to.
	switch entryType {
	case ledger.TypeDeposit:
		entry.DestinationID = accountRef
		entry.SourceName = displayName
	case ledger.TypeWithdrawal:
		entry.SourceID = accountRef
		entry.DestinationName = displayName
	}

	created, err := r.ledger.CreateTransaction(ctx, entry)
	if err != nil {
		cycle.stats.Failed++
		cycle.collapser.Reset(transaction.AccountID)
		log.Warn().Err(err).Msg("creating ledger entry failed")

		return
	}

	cycle.index.Add(transaction.ID)
	cycle.collapser.Observe(transaction.AccountID, displayName, transaction.Amount, created.ID, []string{transaction.ID})
	cycle.stats.Created++
	log.Info().Str("entry", created.ID).Msg("created ledger entry")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
