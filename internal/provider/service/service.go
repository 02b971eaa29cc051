package service

import (
	"context"
	"errors"
	"log"

	"subtrack/internal/provider"
)

// ErrNoCredential means the user has never linked a bank account (or has
// disconnected it).
var ErrNoCredential = errors.New("no bank account connected")

type CredentialsRepository interface {
	Save(ctx context.Context, cred *provider.Credential) error
	Get(ctx context.Context, userID int64) (*provider.Credential, error)
	TouchSyncedAt(ctx context.Context, userID int64) error
	DeleteByUserID(ctx context.Context, userID int64) error
}

type TransactionsRepository interface {
	Upsert(ctx context.Context, userID int64, txn provider.Transaction) error
	DeleteAllByUser(ctx context.Context, userID int64) error
}

// SubscriptionPurger is the slice of the subscription store the disconnect
// cleanup needs.
type SubscriptionPurger interface {
	DeleteAllByUser(ctx context.Context, userID int64) error
}

type Service struct {
	client           *Client
	creds            CredentialsRepository
	transactions     TransactionsRepository
	subscriptions    SubscriptionPurger
	encryptionSecret string
}

func NewService(client *Client, creds CredentialsRepository, transactions TransactionsRepository, subscriptions SubscriptionPurger, encryptionSecret string) *Service {
	return &Service{
		client:           client,
		creds:            creds,
		transactions:     transactions,
		subscriptions:    subscriptions,
		encryptionSecret: encryptionSecret,
	}
}

// accessToken loads and decrypts the user's provider token.
func (s *Service) accessToken(ctx context.Context, userID int64) (string, error) {
	cred, err := s.creds.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if cred == nil {
		return "", ErrNoCredential
	}
	return DecryptAES(cred.AccessToken, s.encryptionSecret)
}

func (s *Service) CreateLinkToken(ctx context.Context, userID int64) (string, error) {
	return s.client.CreateLinkToken(ctx, userID)
}

// ExchangePublicToken swaps the client-side public token for a durable
// access token and stores it encrypted.
func (s *Service) ExchangePublicToken(ctx context.Context, userID int64, publicToken string) (string, error) {
	accessToken, itemID, err := s.client.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return "", err
	}

	encrypted, err := EncryptAES(accessToken, s.encryptionSecret)
	if err != nil {
		return "", err
	}

	err = s.creds.Save(ctx, &provider.Credential{
		UserID:      userID,
		AccessToken: encrypted,
		ItemID:      itemID,
	})
	if err != nil {
		return "", err
	}

	return itemID, nil
}

func (s *Service) Accounts(ctx context.Context, userID int64) ([]provider.Account, error) {
	token, err := s.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.client.GetAccounts(ctx, token)
}

// RecurringStreams fetches the provider's recurring outflow streams for
// the user. This is the input batch of a reconciliation pass; the engine
// itself does no network I/O.
func (s *Service) RecurringStreams(ctx context.Context, userID int64) ([]provider.RecurringStream, error) {
	token, err := s.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.client.GetRecurringStreams(ctx, token)
}

// SyncTransactions pulls newly added transactions and upserts them by
// provider transaction id.
func (s *Service) SyncTransactions(ctx context.Context, userID int64) (int, error) {
	token, err := s.accessToken(ctx, userID)
	if err != nil {
		return 0, err
	}

	added, err := s.client.SyncTransactions(ctx, token)
	if err != nil {
		return 0, err
	}

	for _, txn := range added {
		if err := s.transactions.Upsert(ctx, userID, txn); err != nil {
			return 0, err
		}
	}

	if err := s.creds.TouchSyncedAt(ctx, userID); err != nil {
		return 0, err
	}

	return len(added), nil
}

// Disconnect removes the provider item and wipes everything derived from
// it: transactions, subscriptions, and the stored credential. A failed
// provider-side removal is logged and tolerated; local cleanup still runs.
func (s *Service) Disconnect(ctx context.Context, userID int64) error {
	token, err := s.accessToken(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.client.RemoveItem(ctx, token); err != nil {
		log.Printf("Provider item removal failed for user %d: %v", userID, err)
	}

	if err := s.transactions.DeleteAllByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.subscriptions.DeleteAllByUser(ctx, userID); err != nil {
		return err
	}
	return s.creds.DeleteByUserID(ctx, userID)
}
