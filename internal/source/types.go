package source

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one bank transaction as reported by the aggregator.
//
// Amount sign convention: negative means money entering the tracked
// account (a deposit), positive means money leaving it (a withdrawal).
// The ledger-side mapping applies this convention exactly once.
type Transaction struct {
	ID             string
	AccountID      string
	Amount         decimal.Decimal
	Date           time.Time // UTC midnight, no time-of-day
	CurrencyCode   string
	Category       []string
	Name           string // raw description, possibly boilerplate-prefixed
	MerchantName   string
	Counterparties []Counterparty
}

// Counterparty is a structured party attached to a transaction by the
// aggregator's enrichment, preferred over the raw description.
type Counterparty struct {
	Name string
	Type string
}

// Page is one page of incremental sync results for an account.
type Page struct {
	Added      []Transaction
	NextCursor string
	HasMore    bool
}

type syncRequest struct {
	AccountID string `json:"account_id"`
	Cursor    string `json:"cursor,omitempty"`
}

type syncResponse struct {
	Added      []wireTransaction `json:"added"`
	NextCursor string            `json:"next_cursor"`
	HasMore    bool              `json:"has_more"`
}

type wireTransaction struct {
	TransactionID  string             `json:"transaction_id"`
	AccountID      string             `json:"account_id"`
	Amount         decimal.Decimal    `json:"amount"`
	Date           string             `json:"date"`
	CurrencyCode   string             `json:"iso_currency_code"`
	Category       []string           `json:"category"`
	Name           string             `json:"name"`
	MerchantName   string             `json:"merchant_name"`
	Counterparties []wireCounterparty `json:"counterparties"`
}

type wireCounterparty struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
