// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"subtrack/internal/config"
	"subtrack/internal/metrics"
	providerrepository "subtrack/internal/provider/repository"
	providerservice "subtrack/internal/provider/service"
	providerhttp "subtrack/internal/provider/transport/http"
	subscriptionrepository "subtrack/internal/subscription/repository"
	subscriptionservice "subtrack/internal/subscription/service"
	subscriptionhttp "subtrack/internal/subscription/transport/http"
	tokenrepository "subtrack/internal/token/repository"
	userrepository "subtrack/internal/user/repository"
	userservice "subtrack/internal/user/service"
	userhttp "subtrack/internal/user/transport/http"
	"subtrack/pkg/db"
	"subtrack/pkg/middleware"
)

var server *http.Server

func main() {
	log.Println("SubTrack API starting...")
	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL")

	metrics.InitMetrics()

	// Users + auth
	userRepo := userrepository.NewPostgresUserRepository(database)
	userService := userservice.NewUserService(userRepo)
	refreshTokenRepo := tokenrepository.NewRefreshTokenRepository(database)
	userHandler := userhttp.NewHandler(userService, cfg.JWTSecret, refreshTokenRepo)

	// Subscriptions
	subRepo := subscriptionrepository.NewSubscriptionRepository(database)
	subService := subscriptionservice.NewService(subRepo)

	// Bank-aggregation provider
	providerClient := providerservice.NewClient(cfg.ProviderBaseURL, cfg.ProviderClientID, cfg.ProviderSecret)
	credsRepo := providerrepository.NewPostgresCredentialsRepo(database)
	txRepo := providerrepository.NewPostgresTransactionsRepo(database)
	providerService := providerservice.NewService(providerClient, credsRepo, txRepo, subRepo, cfg.EncryptionSecret)

	subHandler := subscriptionhttp.NewSubscriptionHandler(subService, providerService)
	providerHandler := providerhttp.NewProviderHandler(providerService)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://localhost:3000", "http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.GlobalRateLimiter.Middleware)
	r.Use(middleware.ValidateRequest)
	r.Use(middleware.MetricsMiddleware)

	// Public routes
	r.Post("/auth/register", userHandler.Register)
	r.Post("/auth/login", userHandler.Login)
	r.Post("/auth/refresh", userHandler.Refresh)

	// Authenticated routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.JWTAuth(cfg.JWTSecret))
		pr.Use(middleware.DBRlsMiddleware(database))

		pr.Get("/auth/me", userHandler.Me)

		// Provider routes
		pr.Post("/api/provider/link-token", providerHandler.CreateLinkToken)
		pr.Post("/api/provider/exchange-public-token", providerHandler.ExchangePublicToken)
		pr.Get("/api/provider/accounts", providerHandler.GetAccounts)
		pr.Post("/api/provider/sync-transactions", providerHandler.SyncTransactions)
		pr.Delete("/api/provider/disconnect", providerHandler.Disconnect)

		// Subscription routes
		pr.Post("/api/subscriptions/detect", subHandler.Detect)
		pr.Get("/api/subscriptions", subHandler.List)
		pr.Get("/api/subscriptions/stats", subHandler.Stats)
		pr.Put("/api/subscriptions/{id}", subHandler.Update)
		pr.Delete("/api/subscriptions/{id}", subHandler.Delete)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.With(middleware.BasicAuth(cfg.MetricsUser, cfg.MetricsPassword)).
		Handle("/metrics", promhttp.Handler())

	server = &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	log.Printf("Server running on :%s", cfg.Port)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		log.Println("Shutdown signal received, starting graceful shutdown")
		shutdownServer()
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func shutdownServer() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped")
}
