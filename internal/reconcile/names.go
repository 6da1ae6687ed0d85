package reconcile

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"ledgersync/internal/source"
)

// NameNormalizer strips configured boilerplate substrings from raw
// counterparty descriptions.
type NameNormalizer struct {
	remove []string
}

// NewNameNormalizer builds a normalizer from the configured ordered
// list of boilerplate substrings.
func NewNameNormalizer(remove []string) *NameNormalizer {
	return &NameNormalizer{remove: remove}
}

// Normalize removes every occurrence of every configured substring,
// NFC-normalizes the result and collapses runs of whitespace.
func (n *NameNormalizer) Normalize(raw string) string {
	cleaned := raw
	for _, boilerplate := range n.remove {
		cleaned = strings.ReplaceAll(cleaned, boilerplate, "")
	}

	cleaned = norm.NFC.String(cleaned)

	return strings.Join(strings.Fields(cleaned), " ")
}

// DisplayName resolves the counterparty name shown on the ledger entry.
// Priority is fixed: structured merchant name, then the first structured
// counterparty name, then the normalized raw description.
func (n *NameNormalizer) DisplayName(transaction source.Transaction) string {
	if transaction.MerchantName != "" {
		return transaction.MerchantName
	}

	for _, party := range transaction.Counterparties {
		if party.Name != "" {
			return party.Name
		}
	}

	return n.Normalize(transaction.Name)
}
