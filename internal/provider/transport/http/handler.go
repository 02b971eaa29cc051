package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"subtrack/internal/api/dto"
	"subtrack/internal/provider/service"
	"subtrack/pkg/middleware"
)

type Handler struct {
	ProviderService *service.Service
}

func NewProviderHandler(ps *service.Service) *Handler {
	return &Handler{ProviderService: ps}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoCredential):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrProviderUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) CreateLinkToken(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int64)

	linkToken, err := h.ProviderService.CreateLinkToken(r.Context(), userID)
	if err != nil {
		mapError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"linkToken": linkToken})
}

func (h *Handler) ExchangePublicToken(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int64)

	var req dto.ExchangePublicTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := dto.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Public token is required")
		return
	}

	itemID, err := h.ProviderService.ExchangePublicToken(r.Context(), userID, req.PublicToken)
	if err != nil {
		mapError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"itemId": itemID})
}

func (h *Handler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int64)

	accounts, err := h.ProviderService.Accounts(r.Context(), userID)
	if err != nil {
		mapError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

func (h *Handler) SyncTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int64)

	added, err := h.ProviderService.SyncTransactions(r.Context(), userID)
	if err != nil {
		mapError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"added": added})
}

func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int64)

	if err := h.ProviderService.Disconnect(r.Context(), userID); err != nil {
		mapError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Bank disconnected successfully")
}
