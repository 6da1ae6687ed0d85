package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// wire shapes follow the ledger service's JSON API: data envelopes with
// per-item attributes, paginated lists with a links.next URL.

// EntryType is the direction of a ledger entry. Amounts are stored
// unsigned; the type carries the sign.
type EntryType string

const (
	TypeWithdrawal EntryType = "withdrawal"
	TypeDeposit    EntryType = "deposit"
)

// Entry is one transaction as stored by the ledger service.
type Entry struct {
	ID              string
	Type            EntryType
	Date            time.Time // UTC midnight
	Amount          decimal.Decimal
	Description     string
	CurrencyCode    string
	SourceID        string
	SourceName      string
	DestinationID   string
	DestinationName string
	Tags            []string
	Notes           string

	// LinkedSourceIDs holds the source transaction ids this entry is
	// linked to. More than one only happens when the source split a
	// single real-world transaction and the splits were merged.
	LinkedSourceIDs []string
}

// Linked reports whether the entry is already linked to the source.
func (e Entry) Linked() bool {
	return len(e.LinkedSourceIDs) > 0
}

// NewEntry is the payload for creating a ledger entry.
type NewEntry struct {
	Type            EntryType
	Date            time.Time
	Amount          decimal.Decimal
	Description     string
	CurrencyCode    string
	SourceID        string
	SourceName      string
	DestinationID   string
	DestinationName string
	Tags            []string
	Notes           string
	LinkedSourceIDs []string
}

// joinExternalID serializes linked source ids to the ledger's
// comma-joined external_id wire format.
func joinExternalID(ids []string) string {
	return strings.Join(ids, ",")
}

// splitExternalID parses the comma-joined external_id wire format.
// An empty field means the entry is not linked to the source.
func splitExternalID(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")

	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}

	return ids
}

type listResponse struct {
	Data  []wireEntry `json:"data"`
	Links pageLinks   `json:"links"`
}

type pageLinks struct {
	Next string `json:"next"`
}

type createRequest struct {
	Transactions []wireAttributes `json:"transactions"`
}

type createResponse struct {
	Data wireEntry `json:"data"`
}

type updateRequest struct {
	ExternalID string `json:"external_id"`
}

type wireEntry struct {
	ID         string         `json:"id"`
	Attributes wireAttributes `json:"attributes"`
}

type wireAttributes struct {
	Type            string   `json:"type"`
	Date            string   `json:"date"`
	Amount          string   `json:"amount"`
	Description     string   `json:"description"`
	CurrencyCode    string   `json:"currency_code,omitempty"`
	SourceID        string   `json:"source_id,omitempty"`
	SourceName      string   `json:"source_name,omitempty"`
	DestinationID   string   `json:"destination_id,omitempty"`
	DestinationName string   `json:"destination_name,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	ExternalID      string   `json:"external_id,omitempty"`
}
