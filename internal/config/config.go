package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "palm-reader-api/internal/errors"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	AllowedOrigins     []string

	// Vision provider
	VisionBaseURL      string
	FreeModels         []string
	PremiumModels      []string
	DiagnosticsEnabled bool

	// Checkout fallback origin when the request carries none
	AppBaseURL string

	// Email identities
	SenderName  string
	SenderEmail string
	AdminEmail  string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		AllowedOrigins:     parseListOrDefault("ALLOWED_ORIGINS", []string{"*"}),

		VisionBaseURL: getEnvOrDefault("VISION_BASE_URL", "https://api.groq.com/openai/v1"),
		FreeModels: parseListOrDefault("FREE_MODELS", []string{
			"meta-llama/llama-4-scout-17b-16e-instruct",
			"llama-3.2-11b-vision-preview",
		}),
		PremiumModels: parseListOrDefault("PREMIUM_MODELS", []string{
			"meta-llama/llama-4-maverick-17b-128e-instruct",
			"meta-llama/llama-4-scout-17b-16e-instruct",
		}),
		DiagnosticsEnabled: getEnvOrDefault("DIAGNOSTICS_ENABLED", "false") == "true",

		AppBaseURL: getEnvOrDefault("APP_BASE_URL", "http://localhost:3000"),

		SenderName:  getEnvOrDefault("SENDER_NAME", "Lignes de la Main"),
		SenderEmail: getEnvOrDefault("SENDER_EMAIL", "contact@armurias.com"),
		AdminEmail:  getEnvOrDefault("ADMIN_EMAIL", "armurias34@gmail.com"),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be > 0 (got %s)", cfg.RequestTimeout)
	}
	if len(cfg.FreeModels) == 0 || len(cfg.PremiumModels) == 0 {
		return nil, fmt.Errorf("model candidate lists must not be empty")
	}
	return cfg, nil
}

// VisionAPIKey resolves the vision provider credential at call time so
// environments that inject secrets per request keep working.
func (c *Config) VisionAPIKey() (string, error) {
	return resolveCredential("vision provider key missing", "LLM_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY")
}

// StripeSecretKey resolves the payment provider credential at call time
func (c *Config) StripeSecretKey() (string, error) {
	return resolveCredential("Stripe configuration missing", "STRIPE_SECRET_KEY")
}

// BrevoAPIKey resolves the transactional-email credential at call time
func (c *Config) BrevoAPIKey() (string, error) {
	return resolveCredential("email provider key missing", "BREVO_API_KEY")
}

// resolveCredential returns the first non-empty value among the given env
// keys, failing closed with a configuration error when none yields a value.
func resolveCredential(message string, keys ...string) (string, error) {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value, nil
		}
	}
	return "", apperrors.NewConfigurationError(message)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
