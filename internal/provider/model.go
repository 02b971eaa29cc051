package provider

import (
	"time"

	"github.com/shopspring/decimal"
)

// StreamAmount is the provider's signed money value. Outflows arrive
// negative or positive depending on the institution; consumers must not
// rely on the sign.
type StreamAmount struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"iso_currency_code"`
}

// RecurringStream is one provider-detected recurring payment pattern, the
// unit the reconciliation engine turns into a subscription.
type RecurringStream struct {
	StreamID      string       `json:"stream_id"`
	Description   string       `json:"description"`
	Frequency     string       `json:"frequency"`
	AverageAmount StreamAmount `json:"average_amount"`
	IsActive      bool         `json:"is_active"`
}

// Account is a linked bank account as reported by the provider.
type Account struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Subtype   string `json:"subtype"`
	Mask      string `json:"mask"`
}

// Transaction is one raw bank transaction from the provider's sync feed.
type Transaction struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Name          string          `json:"name"`
	MerchantName  string          `json:"merchant_name"`
	Category      []string        `json:"category"`
	Pending       bool            `json:"pending"`
}

// Credential holds a user's provider access token (stored encrypted) and
// the provider-side item id it belongs to.
type Credential struct {
	UserID       int64
	AccessToken  string
	ItemID       string
	LastSyncedAt *time.Time
	CreatedAt    time.Time
}
