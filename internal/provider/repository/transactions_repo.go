package repository

import (
	"context"
	"database/sql"
	"time"

	"subtrack/internal/provider"
)

// PostgresTransactionsRepo stores raw synced bank transactions, keyed by
// the provider's transaction id.
type PostgresTransactionsRepo struct {
	DB *sql.DB
}

func NewPostgresTransactionsRepo(db *sql.DB) *PostgresTransactionsRepo {
	return &PostgresTransactionsRepo{DB: db}
}

func (r *PostgresTransactionsRepo) Upsert(ctx context.Context, userID int64, txn provider.Transaction) error {
	date, err := time.Parse("2006-01-02", txn.Date)
	if err != nil {
		return err
	}

	var category sql.NullString
	if len(txn.Category) > 0 {
		category = sql.NullString{String: txn.Category[0], Valid: true}
	}

	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO transactions
			(provider_tx_id, user_id, amount, date, name, merchant_name, category, pending, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 ON CONFLICT (provider_tx_id) DO UPDATE
		 SET amount = EXCLUDED.amount, pending = EXCLUDED.pending`,
		txn.TransactionID, userID, txn.Amount, date, txn.Name, txn.MerchantName, category, txn.Pending)
	return err
}

func (r *PostgresTransactionsRepo) DeleteAllByUser(ctx context.Context, userID int64) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = $1`,
		userID)
	return err
}
