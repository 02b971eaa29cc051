package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"subtrack/internal/metrics"
	"subtrack/internal/provider"
)

var (
	errCiphertextTooShort = errors.New("ciphertext too short")

	// ErrProviderUnavailable wraps any transport or non-2xx failure from
	// the provider API.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// Client talks to the bank-aggregation provider's HTTP API. Every endpoint
// is a JSON POST carrying the client credentials in the body.
type Client struct {
	baseURL    string
	clientID   string
	secret     string
	httpClient *http.Client
}

func NewClient(baseURL, clientID, secret string) *Client {
	return &Client{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) post(ctx context.Context, endpoint string, body map[string]any, out any) error {
	body["client_id"] = c.clientID
	body["secret"] = c.secret

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderAPIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderAPIRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.ProviderAPIRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrProviderUnavailable, endpoint, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) CreateLinkToken(ctx context.Context, userID int64) (string, error) {
	var out struct {
		LinkToken string `json:"link_token"`
	}
	err := c.post(ctx, "/link/token/create", map[string]any{
		"client_name":    "SubTrack",
		"client_user_id": fmt.Sprintf("%d", userID),
		"products":       []string{"transactions"},
		"country_codes":  []string{"US"},
		"language":       "en",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.LinkToken, nil
}

func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error) {
	var out struct {
		AccessToken string `json:"access_token"`
		ItemID      string `json:"item_id"`
	}
	err = c.post(ctx, "/item/public_token/exchange", map[string]any{
		"public_token": publicToken,
	}, &out)
	if err != nil {
		return "", "", err
	}
	return out.AccessToken, out.ItemID, nil
}

func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]provider.Account, error) {
	var out struct {
		Accounts []provider.Account `json:"accounts"`
	}
	err := c.post(ctx, "/accounts/get", map[string]any{
		"access_token": accessToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

// GetRecurringStreams fetches the provider's recurring-transaction
// detection results. Subscriptions are money out, so only outflow streams
// are returned.
func (c *Client) GetRecurringStreams(ctx context.Context, accessToken string) ([]provider.RecurringStream, error) {
	var out struct {
		OutflowStreams []provider.RecurringStream `json:"outflow_streams"`
	}
	err := c.post(ctx, "/transactions/recurring/get", map[string]any{
		"access_token": accessToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.OutflowStreams, nil
}

func (c *Client) SyncTransactions(ctx context.Context, accessToken string) ([]provider.Transaction, error) {
	var out struct {
		Added []provider.Transaction `json:"added"`
	}
	err := c.post(ctx, "/transactions/sync", map[string]any{
		"access_token": accessToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Added, nil
}

func (c *Client) RemoveItem(ctx context.Context, accessToken string) error {
	return c.post(ctx, "/item/remove", map[string]any{
		"access_token": accessToken,
	}, nil)
}
