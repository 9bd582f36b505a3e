package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// JWT (tokens are issued by the landlord portal; the API only validates)
	JWTSecret string

	// Background workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Email (Resend)
	ResendAPIKey string
	FromEmail    string

	// SMS gateway
	SMSGatewayURL string
	SMSGatewayKey string
	SMSSenderID   string

	// Notification transport deadline, seconds
	DispatchTimeoutSeconds int

	// Mobile-money webhook shared secret
	WebhookSecret string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                   getEnv("PORT", "8080"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		WorkerCount:            getEnvAsInt("WORKER_COUNT", 5),
		AllowedOrigins:         getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		ResendAPIKey:           getEnv("RESEND_API_KEY", ""),
		FromEmail:              getEnv("FROM_EMAIL", "noreply@nyumba.app"),
		SMSGatewayURL:          getEnv("SMS_GATEWAY_URL", ""),
		SMSGatewayKey:          getEnv("SMS_GATEWAY_KEY", ""),
		SMSSenderID:            getEnv("SMS_SENDER_ID", "NYUMBA"),
		DispatchTimeoutSeconds: getEnvAsInt("DISPATCH_TIMEOUT_SECONDS", 10),
		WebhookSecret:          getEnv("WEBHOOK_SECRET", ""),
		SentryDSN:              getEnv("SENTRY_DSN", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	if cfg.WebhookSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("WEBHOOK_SECRET is required in production")
	}

	return cfg, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
