package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"subtrack/internal/api/dto"
	providerservice "subtrack/internal/provider/service"
	"subtrack/internal/subscription"
	"subtrack/internal/subscription/service"
	"subtrack/pkg/middleware"
)

type Handler struct {
	SubscriptionService *service.Service
	ProviderService     *providerservice.Service
}

func NewSubscriptionHandler(ss *service.Service, ps *providerservice.Service) *Handler {
	return &Handler{
		SubscriptionService: ss,
		ProviderService:     ps,
	}
}

type subscriptionResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	MerchantName    string    `json:"merchantName"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	BillingCycle    string    `json:"billingCycle"`
	Status          string    `json:"status"`
	Category        string    `json:"category,omitempty"`
	Confidence      float64   `json:"confidence"`
	DetectionMethod string    `json:"detectionMethod"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// toResponse maps a stored subscription onto the frontend contract:
// lowercase enums, numeric amount, merchant name aliased as name.
func toResponse(sub *subscription.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:              sub.ID,
		Name:            sub.MerchantName,
		MerchantName:    sub.MerchantName,
		Amount:          sub.Amount.InexactFloat64(),
		Currency:        sub.Currency,
		BillingCycle:    strings.ToLower(string(sub.BillingCycle)),
		Status:          strings.ToLower(string(sub.Status)),
		Category:        sub.Category,
		Confidence:      sub.Confidence,
		DetectionMethod: sub.DetectionMethod,
		CreatedAt:       sub.CreatedAt,
		UpdatedAt:       sub.UpdatedAt,
	}
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

// Detect fetches the provider's recurring streams and reconciles them into
// stored subscriptions.
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int64)

	streams, err := h.ProviderService.RecurringStreams(r.Context(), userID)
	if err != nil {
		if errors.Is(err, providerservice.ErrNoCredential) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	detected, err := h.SubscriptionService.Reconcile(r.Context(), userID, streams)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	plural := "s"
	if detected == 1 {
		plural = ""
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    map[string]int{"detected": detected},
		"message": fmt.Sprintf("Detected %d subscription%s", detected, plural),
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int64)

	subs, err := h.SubscriptionService.List(r.Context(), userID,
		r.URL.Query().Get("status"),
		r.URL.Query().Get("sortBy"),
		r.URL.Query().Get("sortOrder"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		resp = append(resp, toResponse(sub))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int64)

	stats, err := h.SubscriptionService.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	byCategory := make(map[string]float64, len(stats.ByCategory))
	for category, amount := range stats.ByCategory {
		byCategory[category] = amount.InexactFloat64()
	}
	byCycle := make(map[string]int, len(stats.ByCycle))
	for cycle, count := range stats.ByCycle {
		byCycle[string(cycle)] = count
	}

	var highest map[string]any
	if stats.Highest != nil {
		highest = map[string]any{
			"name":   stats.Highest.Name,
			"amount": stats.Highest.Amount.InexactFloat64(),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalMonthlyCost":    stats.TotalMonthlyCost.InexactFloat64(),
		"activeCount":         stats.ActiveCount,
		"totalCount":          stats.TotalCount,
		"highestSubscription": highest,
		"yearlyTotal":         stats.YearlyTotal.InexactFloat64(),
		"byCategory":          byCategory,
		"byCycle":             byCycle,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int64)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	var req dto.UpdateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := dto.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := subscription.UpdateParams{
		MerchantName: req.Name,
		Amount:       req.Amount,
		Category:     req.Category,
	}
	if req.Status != nil {
		status, ok := subscription.ParseStatus(*req.Status)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		params.Status = &status
	}
	if req.BillingCycle != nil {
		cycle, ok := subscription.ParseCycle(*req.BillingCycle)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid billing cycle")
			return
		}
		params.BillingCycle = &cycle
	}

	updated, err := h.SubscriptionService.Update(r.Context(), userID, id, params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "subscription not found")
		case errors.Is(err, service.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid input")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int64)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	if err := h.SubscriptionService.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "subscription not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "Subscription deleted successfully",
	})
}
