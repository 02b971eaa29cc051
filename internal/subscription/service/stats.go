package service

import (
	"context"

	"github.com/shopspring/decimal"

	"subtrack/internal/subscription"
)

// HighestSubscription names the single most expensive active subscription
// by raw amount, before any cycle projection.
type HighestSubscription struct {
	Name   string
	Amount decimal.Decimal
}

// Stats is the aggregated cost report for one user. Monetary fields are
// monthly-equivalent decimals; ByCycle counts active subscriptions per
// canonical billing cycle.
type Stats struct {
	TotalMonthlyCost decimal.Decimal
	ActiveCount      int
	TotalCount       int64
	Highest          *HighestSubscription
	YearlyTotal      decimal.Decimal
	ByCategory       map[string]decimal.Decimal
	ByCycle          map[subscription.BillingCycle]int
}

// Stats computes cost statistics over the user's active subscriptions.
// The read-time dedup fallback runs first so legacy duplicates without a
// stream id cannot inflate the totals. Pure read; safe to call while a
// reconciliation pass is running.
func (s *Service) Stats(ctx context.Context, userID int64) (*Stats, error) {
	active, err := s.repo.FindByUser(ctx, userID, subscription.ListFilter{
		Status:    subscription.StatusActive,
		HasStatus: true,
	})
	if err != nil {
		return nil, err
	}
	subs := subscription.Collapse(active)

	monthlyTotal := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	byCycle := map[subscription.BillingCycle]int{
		subscription.CycleWeekly:    0,
		subscription.CycleMonthly:   0,
		subscription.CycleQuarterly: 0,
		subscription.CycleYearly:    0,
	}

	var highest *HighestSubscription
	for _, sub := range subs {
		monthly := sub.MonthlyEquivalent()
		monthlyTotal = monthlyTotal.Add(monthly)
		byCycle[sub.BillingCycle]++

		category := sub.Category
		if category == "" {
			category = "Uncategorized"
		}
		byCategory[category] = byCategory[category].Add(monthly)

		// Strict greater-than keeps the first-encountered on ties.
		if highest == nil || sub.Amount.GreaterThan(highest.Amount) {
			highest = &HighestSubscription{Name: sub.MerchantName, Amount: sub.Amount}
		}
	}

	totalCount, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalMonthlyCost: monthlyTotal,
		ActiveCount:      len(subs),
		TotalCount:       totalCount,
		Highest:          highest,
		YearlyTotal:      monthlyTotal.Mul(decimal.NewFromInt(12)),
		ByCategory:       byCategory,
		ByCycle:          byCycle,
	}, nil
}
