package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
)

// Client talks to the transaction aggregation service.
type Client struct {
	baseURL     string
	clientID    string
	secret      string
	accessToken string
	httpClient  *http.Client
}

// NewClient builds a source client. httpClient may be nil to use the
// default client; tests inject one backed by a mock transport.
func NewClient(baseURL, clientID, secret, accessToken string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:     baseURL,
		clientID:    clientID,
		secret:      secret,
		accessToken: accessToken,
		httpClient:  httpClient,
	}
}

// Sync fetches one page of new transactions for an account. An empty
// cursor requests the full backlog; callers must keep calling with the
// returned NextCursor until HasMore is false.
func (c *Client) Sync(ctx context.Context, accountID, cursor string) (*Page, error) {
	var (
		resp    syncResponse
		errResp bytes.Buffer
	)

	err := requests.URL(c.baseURL).
		Path("/transactions/sync").
		Client(c.httpClient).
		Header("Authorization", fmt.Sprintf("Bearer %v", c.accessToken)).
		Header("Client-Id", c.clientID).
		Header("Client-Secret", c.secret).
		Method(http.MethodPost).
		AddValidator(requests.ValidatorHandler(requests.DefaultValidator, requests.ToBytesBuffer(&errResp))).
		BodyJSON(syncRequest{AccountID: accountID, Cursor: cursor}).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("syncing transactions: %w - %v", err, errResp.String())
	}

	page := &Page{
		Added:      make([]Transaction, 0, len(resp.Added)),
		NextCursor: resp.NextCursor,
		HasMore:    resp.HasMore,
	}

	for _, wire := range resp.Added {
		transaction, err := convert(wire)
		if err != nil {
			return nil, fmt.Errorf("converting transaction %q: %w", wire.TransactionID, err)
		}

		page.Added = append(page.Added, *transaction)
	}

	return page, nil
}

func convert(wire wireTransaction) (*Transaction, error) {
	date, err := time.Parse("2006-01-02", wire.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}

	counterparties := make([]Counterparty, 0, len(wire.Counterparties))
	for _, party := range wire.Counterparties {
		counterparties = append(counterparties, Counterparty(party))
	}

	return &Transaction{
		ID:             wire.TransactionID,
		AccountID:      wire.AccountID,
		Amount:         wire.Amount,
		Date:           date,
		CurrencyCode:   wire.CurrencyCode,
		Category:       wire.Category,
		Name:           wire.Name,
		MerchantName:   wire.MerchantName,
		Counterparties: counterparties,
	}, nil
}
