package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingCycle is the canonical billing period of a subscription.
type BillingCycle string

const (
	CycleWeekly    BillingCycle = "WEEKLY"
	CycleMonthly   BillingCycle = "MONTHLY"
	CycleQuarterly BillingCycle = "QUARTERLY"
	CycleYearly    BillingCycle = "YEARLY"
)

// Status is the canonical lifecycle state of a subscription.
type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusInactive     Status = "INACTIVE"
	StatusCancelled    Status = "CANCELLED"
	StatusPriceChanged Status = "PRICE_CHANGED"
	StatusTrial        Status = "TRIAL"
)

// DetectionMethodRecurring marks subscriptions created from the provider's
// recurring-stream feed.
const DetectionMethodRecurring = "provider_recurring"

// Subscription is one tracked recurring payment. StreamID is the provider's
// stream identifier and the canonical dedup key; it is empty for records
// created by hand or imported before stream ids existed.
type Subscription struct {
	ID              int64
	UserID          int64
	StreamID        string
	MerchantName    string
	Amount          decimal.Decimal
	Currency        string
	BillingCycle    BillingCycle
	Status          Status
	Category        string
	Confidence      float64
	DetectionMethod string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MonthlyEquivalent projects the subscription's amount onto a monthly
// billing period for aggregation across mixed cycles.
func (s *Subscription) MonthlyEquivalent() decimal.Decimal {
	switch s.BillingCycle {
	case CycleWeekly:
		return s.Amount.Mul(decimal.NewFromInt(4))
	case CycleQuarterly:
		return s.Amount.Div(decimal.NewFromInt(3))
	case CycleYearly:
		return s.Amount.Div(decimal.NewFromInt(12))
	default:
		return s.Amount
	}
}

// ListFilter narrows and orders FindByUser results. Status of "" means all
// statuses; SortBy must be a whitelisted column name.
type ListFilter struct {
	Status    Status
	SortBy    string
	SortDesc  bool
	HasSort   bool
	HasStatus bool
}

// UpdateParams carries the user-editable fields of a patch. Nil means
// "leave unchanged".
type UpdateParams struct {
	MerchantName *string
	Amount       *decimal.Decimal
	Category     *string
	Status       *Status
	BillingCycle *BillingCycle
}
