package subscription

import (
	"strings"

	"github.com/shopspring/decimal"
)

// The provider reports billing frequency in its own vocabulary. Anything we
// do not recognize is treated as monthly rather than rejected.
var cycleByFrequency = map[string]BillingCycle{
	"WEEKLY":   CycleWeekly,
	"MONTHLY":  CycleMonthly,
	"ANNUALLY": CycleYearly,
}

// NormalizeCycle maps a raw provider frequency to a canonical billing cycle.
func NormalizeCycle(rawFrequency string) BillingCycle {
	if c, ok := cycleByFrequency[rawFrequency]; ok {
		return c
	}
	return CycleMonthly
}

// NormalizeStatus maps the provider's is_active flag to a canonical status.
func NormalizeStatus(isActive bool) Status {
	if isActive {
		return StatusActive
	}
	return StatusInactive
}

// NormalizeAmount strips the sign. The provider reports subscriptions as
// signed outflow amounts; the sign is a transaction-direction artifact and
// must never survive into stored records.
func NormalizeAmount(signed decimal.Decimal) decimal.Decimal {
	return signed.Abs()
}

// NormalizeCurrency defaults a missing currency code to USD.
func NormalizeCurrency(code string) string {
	if code == "" {
		return "USD"
	}
	return code
}

// ParseStatus validates a user-supplied status value against the canonical
// enumeration, case-insensitively.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToUpper(raw)) {
	case StatusActive:
		return StatusActive, true
	case StatusInactive:
		return StatusInactive, true
	case StatusCancelled:
		return StatusCancelled, true
	case StatusPriceChanged:
		return StatusPriceChanged, true
	case StatusTrial:
		return StatusTrial, true
	}
	return "", false
}

// ParseCycle validates a user-supplied billing cycle, case-insensitively.
func ParseCycle(raw string) (BillingCycle, bool) {
	switch BillingCycle(strings.ToUpper(raw)) {
	case CycleWeekly:
		return CycleWeekly, true
	case CycleMonthly:
		return CycleMonthly, true
	case CycleQuarterly:
		return CycleQuarterly, true
	case CycleYearly:
		return CycleYearly, true
	}
	return "", false
}

// sortColumns maps the API's sortBy names to database columns. Anything not
// listed here is not sortable and gets ignored.
var sortColumns = map[string]string{
	"name":      "merchant_name",
	"amount":    "amount",
	"status":    "status",
	"category":  "category",
	"createdAt": "created_at",
}

// SortColumn resolves an API sort field to a permitted database column.
func SortColumn(raw string) (string, bool) {
	col, ok := sortColumns[raw]
	return col, ok
}
