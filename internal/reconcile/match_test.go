package reconcile

import (
	"testing"

	"ledgersync/internal/ledger"
	"ledgersync/internal/source"
)

func TestFuzzyMatcher_Match(t *testing.T) {
	t.Parallel()

	withdrawal := func(id, amnt, date string, linked ...string) ledger.Entry {
		return ledger.Entry{
			ID:              id,
			Type:            ledger.TypeWithdrawal,
			Amount:          amount(amnt),
			Date:            day(date),
			LinkedSourceIDs: linked,
		}
	}

	deposit := func(id, amnt, date string) ledger.Entry {
		return ledger.Entry{
			ID:     id,
			Type:   ledger.TypeDeposit,
			Amount: amount(amnt),
			Date:   day(date),
		}
	}

	tests := []struct {
		name        string
		transaction source.Transaction
		snapshot    []ledger.Entry
		wantIndex   int
		wantOutcome MatchOutcome
	}{
		{
			name:        "empty snapshot",
			transaction: transaction("tx-1", "acc-1", "12.30", "2024-03-01", ""),
			wantIndex:   -1,
			wantOutcome: MatchNone,
		},
		{
			name:        "unique withdrawal candidate",
			transaction: transaction("tx-1", "acc-1", "12.30", "2024-03-01", ""),
			snapshot: []ledger.Entry{
				withdrawal("e-1", "12.30", "2024-03-01"),
			},
			wantIndex:   0,
			wantOutcome: MatchFound,
		},
		{
			name:        "negative amount matches a deposit",
			transaction: transaction("tx-1", "acc-1", "-42.50", "2024-03-01", ""),
			snapshot: []ledger.Entry{
				withdrawal("e-1", "42.50", "2024-03-01"),
				deposit("e-2", "42.50", "2024-03-01"),
			},
			wantIndex:   1,
			wantOutcome: MatchFound,
		},
		{
			name:        "amount is exact, no tolerance",
			transaction: transaction("tx-1", "acc-1", "12.30", "2024-03-01", ""),
			snapshot: []ledger.Entry{
				withdrawal("e-1", "12.31", "2024-03-01"),
			},
			wantIndex:   -1,
			wantOutcome: MatchNone,
		},
		{
			name:        "date compares by calendar day",
			transaction: transaction("tx-1", "acc-1", "12.30", "2024-03-01", ""),
			snapshot: []ledger.Entry{
				withdrawal("e-1", "12.30", "2024-03-02"),
			},
			wantIndex:   -1,
			wantOutcome: MatchNone,
		},
		{
			name:        "linked entries are excluded",
			transaction: transaction("tx-1", "acc-1", "12.30", "2024-03-01", ""),
			snapshot: []ledger.Entry{
				withdrawal("e-1", "12.30", "2024-03-01", "already-linked"),
			},
			wantIndex:   -1,
			wantOutcome: MatchNone,
		},
		{
			name:        "two candidates are ambiguous",
			transaction: transaction("tx-1", "acc-1", "12.30", "2024-03-01", ""),
			snapshot: []ledger.Entry{
				withdrawal("e-1", "12.30", "2024-03-01"),
				withdrawal("e-2", "12.30", "2024-03-01"),
			},
			wantIndex:   -1,
			wantOutcome: MatchAmbiguous,
		},
		{
			name:        "linked twin leaves a unique candidate",
			transaction: transaction("tx-1", "acc-1", "12.30", "2024-03-01", ""),
			snapshot: []ledger.Entry{
				withdrawal("e-1", "12.30", "2024-03-01", "already-linked"),
				withdrawal("e-2", "12.30", "2024-03-01"),
			},
			wantIndex:   1,
			wantOutcome: MatchFound,
		},
	}

	matcher := &FuzzyMatcher{}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotIndex, gotOutcome := matcher.Match(tt.transaction, tt.snapshot)
			if gotIndex != tt.wantIndex {
				t.Errorf("Match() index = %v, want %v", gotIndex, tt.wantIndex)
			}

			if gotOutcome != tt.wantOutcome {
				t.Errorf("Match() outcome = %v, want %v", gotOutcome, tt.wantOutcome)
			}
		})
	}
}
