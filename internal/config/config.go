package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/blazestudiox/coldforge/api/internal/license"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port        string
	DatabaseURL string

	AnthropicAPIKey string
	OpenAIAPIKey    string
	LLMTimeout      time.Duration

	GumroadProducts []license.Product
	FreeUsageLimit  int

	DemoMaxRequests int
	DemoWindow      time.Duration

	RateLimitGenerate RateLimitConfig

	JWTSecret         string
	TokenTTL          time.Duration
	AdminEmail        string
	AdminPasswordHash string

	CampaignRetentionDays int
}

// Load reads configuration from environment variables and applies sane
// defaults. It fails when no model provider key is configured or when no
// Gumroad product ID is set, since neither generation nor license checks
// can work without them.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		LLMTimeout:      parseDuration(getEnv("LLM_TIMEOUT", "90s"), 90*time.Second),

		FreeUsageLimit: parseInt(getEnv("FREE_USAGE_LIMIT", "3"), 3),

		DemoMaxRequests: parseInt(getEnv("DEMO_MAX_REQUESTS", "3"), 3),
		DemoWindow:      parseDuration(getEnv("DEMO_WINDOW", "24h"), 24*time.Hour),

		JWTSecret:         getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:          parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		CampaignRetentionDays: parseInt(getEnv("CAMPAIGN_RETENTION_DAYS", "0"), 0),
	}

	if cfg.AnthropicAPIKey == "" && cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("no model provider configured: set ANTHROPIC_API_KEY or OPENAI_API_KEY")
	}

	cfg.GumroadProducts = loadProducts()
	if len(cfg.GumroadProducts) == 0 {
		return nil, fmt.Errorf("no GUMROAD_PRODUCT_ID configured: set at least one tier product ID")
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_GENERATE", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_GENERATE value: %w", err)
	}
	cfg.RateLimitGenerate = rl

	return cfg, nil
}

// loadProducts gathers the tier product IDs in tier order. The bare
// GUMROAD_PRODUCT_ID variable is the legacy professional product kept for
// keys sold before tiers existed.
func loadProducts() []license.Product {
	candidates := []license.Product{
		{Tier: "starter", ID: os.Getenv("GUMROAD_PRODUCT_ID_STARTER")},
		{Tier: "professional", ID: os.Getenv("GUMROAD_PRODUCT_ID_PRO")},
		{Tier: "unlimited", ID: os.Getenv("GUMROAD_PRODUCT_ID_UNLIMITED")},
		{Tier: "agency", ID: os.Getenv("GUMROAD_PRODUCT_ID_AGENCY")},
		{Tier: "professional", ID: os.Getenv("GUMROAD_PRODUCT_ID")},
	}

	var products []license.Product
	for _, candidate := range candidates {
		if candidate.ID != "" {
			products = append(products, candidate)
		}
	}
	return products
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(input string, fallback int) int {
	n, err := strconv.Atoi(input)
	if err != nil {
		return fallback
	}
	return n
}
