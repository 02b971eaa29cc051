package repository

import (
	"context"
	"database/sql"

	"subtrack/internal/provider"
)

// PostgresCredentialsRepo stores one provider credential per user. Access
// tokens arrive here already encrypted.
type PostgresCredentialsRepo struct {
	DB *sql.DB
}

func NewPostgresCredentialsRepo(db *sql.DB) *PostgresCredentialsRepo {
	return &PostgresCredentialsRepo{DB: db}
}

func (r *PostgresCredentialsRepo) Save(ctx context.Context, cred *provider.Credential) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO provider_credentials (user_id, access_token, item_id, created_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id) DO UPDATE
		 SET access_token = $2, item_id = $3`,
		cred.UserID, cred.AccessToken, cred.ItemID)
	return err
}

func (r *PostgresCredentialsRepo) Get(ctx context.Context, userID int64) (*provider.Credential, error) {
	cred := &provider.Credential{UserID: userID}
	err := r.DB.QueryRowContext(ctx,
		`SELECT access_token, item_id, last_synced_at, created_at
		 FROM provider_credentials WHERE user_id = $1`,
		userID).Scan(&cred.AccessToken, &cred.ItemID, &cred.LastSyncedAt, &cred.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return cred, nil
}

func (r *PostgresCredentialsRepo) TouchSyncedAt(ctx context.Context, userID int64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE provider_credentials SET last_synced_at = NOW() WHERE user_id = $1`,
		userID)
	return err
}

func (r *PostgresCredentialsRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM provider_credentials WHERE user_id = $1`,
		userID)
	return err
}
