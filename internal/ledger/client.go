package ledger

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/shopspring/decimal"
)

// Client talks to the ledger service's HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient builds a ledger client. httpClient may be nil to use the
// default client; tests inject one backed by a mock transport.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, token: token, httpClient: httpClient}
}

func (c *Client) builder() *requests.Builder {
	return requests.URL(c.baseURL).
		Client(c.httpClient).
		Header("Authorization", fmt.Sprintf("Bearer %v", c.token)).
		Header("Accept", "application/json")
}

// ListTransactions returns every existing entry for a ledger account,
// following pagination links until exhausted.
func (c *Client) ListTransactions(ctx context.Context, accountRef string) ([]Entry, error) {
	var entries []Entry

	builder := c.builder().Pathf("/api/v1/accounts/%v/transactions", accountRef)

	for {
		var (
			resp    listResponse
			errResp bytes.Buffer
		)

		err := builder.
			AddValidator(requests.ValidatorHandler(requests.DefaultValidator, requests.ToBytesBuffer(&errResp))).
			ToJSON(&resp).
			Fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing transactions for account %v: %w - %v", accountRef, err, errResp.String())
		}

		for _, wire := range resp.Data {
			entry, err := convertEntry(wire)
			if err != nil {
				return nil, fmt.Errorf("converting entry %q: %w", wire.ID, err)
			}

			entries = append(entries, *entry)
		}

		if resp.Links.Next == "" {
			return entries, nil
		}

		// The next link is a full URL; keep only auth on the new builder.
		builder = requests.URL(resp.Links.Next).
			Client(c.httpClient).
			Header("Authorization", fmt.Sprintf("Bearer %v", c.token)).
			Header("Accept", "application/json")
	}
}

// CreateTransaction submits a new entry and returns it as stored.
func (c *Client) CreateTransaction(ctx context.Context, entry NewEntry) (*Entry, error) {
	var (
		resp    createResponse
		errResp bytes.Buffer
	)

	err := c.builder().
		Path("/api/v1/transactions").
		Method(http.MethodPost).
		AddValidator(requests.ValidatorHandler(requests.DefaultValidator, requests.ToBytesBuffer(&errResp))).
		BodyJSON(createRequest{Transactions: []wireAttributes{convertNewEntry(entry)}}).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating transaction: %w - %v", err, errResp.String())
	}

	created, err := convertEntry(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("converting created entry: %w", err)
	}

	return created, nil
}

// UpdateExternalID rewrites only the external_id field of an existing
// entry, serializing the linked source ids to the comma-joined wire
// format.
func (c *Client) UpdateExternalID(ctx context.Context, entryID string, sourceIDs []string) error {
	var errResp bytes.Buffer

	err := c.builder().
		Pathf("/api/v1/transactions/%v", entryID).
		Method(http.MethodPut).
		AddValidator(requests.ValidatorHandler(requests.DefaultValidator, requests.ToBytesBuffer(&errResp))).
		BodyJSON(updateRequest{ExternalID: joinExternalID(sourceIDs)}).
		Fetch(ctx)
	if err != nil {
		return fmt.Errorf("updating external id of entry %v: %w - %v", entryID, err, errResp.String())
	}

	return nil
}

func convertEntry(wire wireEntry) (*Entry, error) {
	date, err := parseDay(wire.Attributes.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}

	amount, err := decimal.NewFromString(wire.Attributes.Amount)
	if err != nil {
		return nil, fmt.Errorf("parsing amount: %w", err)
	}

	return &Entry{
		ID:              wire.ID,
		Type:            EntryType(wire.Attributes.Type),
		Date:            date,
		Amount:          amount,
		Description:     wire.Attributes.Description,
		CurrencyCode:    wire.Attributes.CurrencyCode,
		SourceID:        wire.Attributes.SourceID,
		SourceName:      wire.Attributes.SourceName,
		DestinationID:   wire.Attributes.DestinationID,
		DestinationName: wire.Attributes.DestinationName,
		Tags:            wire.Attributes.Tags,
		Notes:           wire.Attributes.Notes,
		LinkedSourceIDs: splitExternalID(wire.Attributes.ExternalID),
	}, nil
}

func convertNewEntry(entry NewEntry) wireAttributes {
	return wireAttributes{
		Type:            string(entry.Type),
		Date:            entry.Date.Format("2006-01-02"),
		Amount:          entry.Amount.String(),
		Description:     entry.Description,
		CurrencyCode:    entry.CurrencyCode,
		SourceID:        entry.SourceID,
		SourceName:      entry.SourceName,
		DestinationID:   entry.DestinationID,
		DestinationName: entry.DestinationName,
		Tags:            entry.Tags,
		Notes:           entry.Notes,
		ExternalID:      joinExternalID(entry.LinkedSourceIDs),
	}
}

// parseDay accepts both date-only and RFC3339 timestamps and truncates
// to a UTC calendar day. Matching compares calendar days only.
func parseDay(value string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, err
		}
	}

	parsed = parsed.UTC()

	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}
