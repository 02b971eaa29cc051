package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"subtrack/internal/subscription"
)

type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, user_id, COALESCE(stream_id, ''), merchant_name, amount,
	currency, billing_cycle, status, COALESCE(category, ''), confidence,
	detection_method, created_at, updated_at`

func scanSubscription(row interface{ Scan(...any) error }) (*subscription.Subscription, error) {
	sub := &subscription.Subscription{}
	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.StreamID,
		&sub.MerchantName,
		&sub.Amount,
		&sub.Currency,
		&sub.BillingCycle,
		&sub.Status,
		&sub.Category,
		&sub.Confidence,
		&sub.DetectionMethod,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// UpsertByStreamID creates the subscription on first sighting of the
// stream and refreshes only amount and status afterwards, preserving any
// manual edits to name and category. Uniqueness on (user_id, stream_id) is
// enforced by the table's constraint.
func (r *SubscriptionRepository) UpsertByStreamID(ctx context.Context, sub *subscription.Subscription) (*subscription.Subscription, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO subscriptions
			(user_id, stream_id, merchant_name, amount, currency, billing_cycle,
			 status, confidence, detection_method, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		 ON CONFLICT (user_id, stream_id) DO UPDATE
		 SET amount = EXCLUDED.amount,
		     status = EXCLUDED.status,
		     updated_at = NOW()
		 RETURNING `+subscriptionColumns,
		sub.UserID, sub.StreamID, sub.MerchantName, sub.Amount, sub.Currency,
		sub.BillingCycle, sub.Status, sub.Confidence, sub.DetectionMethod)

	return scanSubscription(row)
}

func (r *SubscriptionRepository) FindByUser(ctx context.Context, userID int64, filter subscription.ListFilter) ([]*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1`
	args := []any{userID}

	if filter.HasStatus {
		query += ` AND status = $2`
		args = append(args, filter.Status)
	}

	// SortBy has already been resolved against the column whitelist.
	if filter.HasSort {
		order := "ASC"
		if filter.SortDesc {
			order = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s", filter.SortBy, order)
	} else {
		query += ` ORDER BY id`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*subscription.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *SubscriptionRepository) FindByUserAndID(ctx context.Context, userID, id int64) (*subscription.Subscription, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1 AND user_id = $2`,
		id, userID)

	sub, err := scanSubscription(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, id int64, params subscription.UpdateParams) (*subscription.Subscription, error) {
	merchantName := sql.NullString{}
	if params.MerchantName != nil {
		merchantName = sql.NullString{String: *params.MerchantName, Valid: true}
	}
	amount := decimal.NullDecimal{}
	if params.Amount != nil {
		amount = decimal.NullDecimal{Decimal: *params.Amount, Valid: true}
	}
	category := sql.NullString{}
	if params.Category != nil {
		category = sql.NullString{String: *params.Category, Valid: true}
	}
	status := sql.NullString{}
	if params.Status != nil {
		status = sql.NullString{String: string(*params.Status), Valid: true}
	}
	cycle := sql.NullString{}
	if params.BillingCycle != nil {
		cycle = sql.NullString{String: string(*params.BillingCycle), Valid: true}
	}

	row := r.db.QueryRowContext(ctx,
		`UPDATE subscriptions SET
			merchant_name = COALESCE($2, merchant_name),
			amount = COALESCE($3, amount),
			category = COALESCE($4, category),
			status = COALESCE($5, status),
			billing_cycle = COALESCE($6, billing_cycle),
			updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+subscriptionColumns,
		id, merchantName, amount, category, status, cycle)

	return scanSubscription(row)
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	return err
}

func (r *SubscriptionRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// DeleteAllByUser removes every subscription for the user. Used by the
// bank-disconnect cleanup.
func (r *SubscriptionRepository) DeleteAllByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id = $1`, userID)
	return err
}
