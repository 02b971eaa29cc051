package service

import (
	"context"
	"errors"
	"log"

	"subtrack/internal/metrics"
	"subtrack/internal/provider"
	"subtrack/internal/subscription"
)

var (
	ErrNotFound     = errors.New("subscription not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Repository is the persistence contract the engine needs. The Postgres
// implementation enforces uniqueness on (user_id, stream_id).
type Repository interface {
	UpsertByStreamID(ctx context.Context, sub *subscription.Subscription) (*subscription.Subscription, error)
	FindByUser(ctx context.Context, userID int64, filter subscription.ListFilter) ([]*subscription.Subscription, error)
	FindByUserAndID(ctx context.Context, userID, id int64) (*subscription.Subscription, error)
	Update(ctx context.Context, id int64, params subscription.UpdateParams) (*subscription.Subscription, error)
	Delete(ctx context.Context, id int64) error
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Reconcile ingests one batch of recurring streams for a user: dedupe on
// stream id, normalize provider vocabulary, upsert. A failed upsert is
// logged and skipped so one bad record cannot abort the batch. Streams are
// processed strictly in input order; callers must not run two passes for
// the same user concurrently.
//
// The returned count covers successfully processed, non-duplicate streams.
func (s *Service) Reconcile(ctx context.Context, userID int64, streams []provider.RecurringStream) (int, error) {
	metrics.ReconcileRunsTotal.Inc()

	idx := subscription.NewIndex()
	detected := 0

	for _, stream := range streams {
		if stream.StreamID == "" {
			log.Printf("Skipping stream without id for user %d: %q", userID, stream.Description)
			metrics.ReconcileStreamsTotal.WithLabelValues("failed").Inc()
			continue
		}
		if idx.Seen(stream.StreamID) {
			log.Printf("Skipping duplicate stream id in provider response: %s", stream.StreamID)
			metrics.ReconcileStreamsTotal.WithLabelValues("duplicate").Inc()
			continue
		}

		sub := &subscription.Subscription{
			UserID:          userID,
			StreamID:        stream.StreamID,
			MerchantName:    stream.Description,
			Amount:          subscription.NormalizeAmount(stream.AverageAmount.Amount),
			Currency:        subscription.NormalizeCurrency(stream.AverageAmount.CurrencyCode),
			BillingCycle:    subscription.NormalizeCycle(stream.Frequency),
			Status:          subscription.NormalizeStatus(stream.IsActive),
			Confidence:      1.0,
			DetectionMethod: subscription.DetectionMethodRecurring,
		}

		if _, err := s.repo.UpsertByStreamID(ctx, sub); err != nil {
			log.Printf("Error upserting subscription %s: %v", stream.StreamID, err)
			metrics.ReconcileStreamsTotal.WithLabelValues("failed").Inc()
			continue
		}

		idx.Mark(stream.StreamID)
		detected++
		metrics.ReconcileStreamsTotal.WithLabelValues("processed").Inc()
	}

	log.Printf("Reconcile: processed %d unique subscriptions from %d streams for user %d",
		detected, len(streams), userID)

	return detected, nil
}

// List returns the user's subscriptions with read-time deduplication
// applied. An unknown status filter is rejected; an unknown sort field is
// ignored.
func (s *Service) List(ctx context.Context, userID int64, status, sortBy, sortOrder string) ([]*subscription.Subscription, error) {
	filter := subscription.ListFilter{}

	if status != "" {
		parsed, ok := subscription.ParseStatus(status)
		if !ok {
			return nil, ErrInvalidInput
		}
		filter.Status = parsed
		filter.HasStatus = true
	}

	if sortBy != "" {
		if col, ok := subscription.SortColumn(sortBy); ok {
			filter.SortBy = col
			filter.HasSort = true
			filter.SortDesc = sortOrder == "desc" || sortOrder == "DESC"
		}
	}

	subs, err := s.repo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	return subscription.Collapse(subs), nil
}

// Update patches a subscription owned by userID. Patching a subscription
// that belongs to someone else is indistinguishable from patching one that
// does not exist.
func (s *Service) Update(ctx context.Context, userID, id int64, params subscription.UpdateParams) (*subscription.Subscription, error) {
	if params.Amount != nil && params.Amount.IsNegative() {
		return nil, ErrInvalidInput
	}

	existing, err := s.repo.FindByUserAndID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	return s.repo.Update(ctx, id, params)
}

// Delete removes a subscription owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	existing, err := s.repo.FindByUserAndID(ctx, userID, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	return s.repo.Delete(ctx, id)
}
