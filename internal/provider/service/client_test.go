package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestClientInjectsCredentials(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(map[string]string{"link_token": "link-sandbox-abc"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "cid", "shh")
	token, err := c.CreateLinkToken(context.Background(), 42)
	if err != nil {
		t.Fatalf("CreateLinkToken() error = %v", err)
	}
	if token != "link-sandbox-abc" {
		t.Errorf("link token = %q", token)
	}
	if gotBody["client_id"] != "cid" || gotBody["secret"] != "shh" {
		t.Errorf("credentials missing from body: %v", gotBody)
	}
	if gotBody["client_user_id"] != "42" {
		t.Errorf("client_user_id = %v, want \"42\"", gotBody["client_user_id"])
	}
}

func TestClientNon200IsProviderUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_code":"RATE_LIMIT"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "cid", "shh")
	_, err := c.GetAccounts(context.Background(), "access-token")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("error = %v, want ErrProviderUnavailable", err)
	}
}

func TestClientConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, "cid", "shh")
	_, _, err := c.ExchangePublicToken(context.Background(), "public-token")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("error = %v, want ErrProviderUnavailable", err)
	}
}

func TestGetRecurringStreamsParsesOutflows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transactions/recurring/get" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"inflow_streams": [{"stream_id": "pay1", "description": "Paycheck"}],
			"outflow_streams": [{
				"stream_id": "s1",
				"description": "Netflix",
				"frequency": "MONTHLY",
				"average_amount": {"amount": -15.99, "iso_currency_code": "USD"},
				"is_active": true
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "cid", "shh")
	streams, err := c.GetRecurringStreams(context.Background(), "access-token")
	if err != nil {
		t.Fatalf("GetRecurringStreams() error = %v", err)
	}
	if len(streams) != 1 {
		t.Fatalf("streams = %d, want only the outflow stream", len(streams))
	}
	s := streams[0]
	if s.StreamID != "s1" || s.Description != "Netflix" || !s.IsActive {
		t.Errorf("stream = %+v", s)
	}
	if !s.AverageAmount.Amount.Equal(decimal.RequireFromString("-15.99")) {
		t.Errorf("amount = %s, want -15.99", s.AverageAmount.Amount)
	}
	if s.AverageAmount.CurrencyCode != "USD" {
		t.Errorf("currency = %q", s.AverageAmount.CurrencyCode)
	}
}

func TestRemoveItem(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.URL.Path != "/item/remove" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"removed": true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "cid", "shh")
	if err := c.RemoveItem(context.Background(), "access-token"); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	if !called {
		t.Error("provider endpoint was never hit")
	}
}
