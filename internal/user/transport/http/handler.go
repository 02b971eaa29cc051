package http

import (
	"encoding/json"
	"net/http"
	"time"

	"subtrack/internal/api/dto"
	"subtrack/internal/token"
	tokenrepository "subtrack/internal/token/repository"
	"subtrack/internal/user/service"
	"subtrack/pkg/middleware"
)

type Handler struct {
	UserService *service.UserService
	JWT         *service.JWTManager
	RefreshRepo *tokenrepository.RefreshTokenRepository
}

func NewHandler(us *service.UserService, jwtSecret string, refreshRepo *tokenrepository.RefreshTokenRepository) *Handler {
	return &Handler{
		UserService: us,
		JWT:         service.NewJWTManager(jwtSecret),
		RefreshRepo: refreshRepo,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := dto.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.UserService.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":    u.ID,
		"email": u.Email,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := dto.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	accessToken, err := h.JWT.Generate(u.ID, u.Email)
	if err != nil {
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}

	refreshToken, err := token.NewRefreshToken(u.ID)
	if err != nil {
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}
	if err := h.RefreshRepo.Save(r.Context(), refreshToken); err != nil {
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":           u.ID,
		"email":        u.Email,
		"token":        accessToken,
		"refreshToken": refreshToken.Token,
	})
}

// Refresh rotates the refresh token and issues a fresh access token.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := dto.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stored, err := h.RefreshRepo.GetByToken(r.Context(), req.RefreshToken)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = h.RefreshRepo.DeleteByToken(r.Context(), stored.Token)
		http.Error(w, "token expired", http.StatusUnauthorized)
		return
	}

	u, err := h.UserService.GetByID(r.Context(), stored.UserID)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	accessToken, err := h.JWT.Generate(u.ID, u.Email)
	if err != nil {
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}

	next, err := token.NewRefreshToken(u.ID)
	if err != nil {
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}
	if err := h.RefreshRepo.Save(r.Context(), next); err != nil {
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}
	_ = h.RefreshRepo.DeleteByToken(r.Context(), stored.Token)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token":        accessToken,
		"refreshToken": next.Token,
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int64)

	u, err := h.UserService.GetByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}
