package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	EncryptionSecret string

	// Bank-aggregation provider credentials.
	ProviderBaseURL  string
	ProviderClientID string
	ProviderSecret   string

	MetricsUser     string
	MetricsPassword string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Port:             os.Getenv("PORT"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		EncryptionSecret: os.Getenv("ENCRYPTION_SECRET"),
		ProviderBaseURL:  os.Getenv("PROVIDER_BASE_URL"),
		ProviderClientID: os.Getenv("PROVIDER_CLIENT_ID"),
		ProviderSecret:   os.Getenv("PROVIDER_SECRET"),
		MetricsUser:      os.Getenv("METRICS_USER"),
		MetricsPassword:  os.Getenv("METRICS_PASSWORD"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	return cfg
}
