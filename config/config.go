package config

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

type Config struct {
	// Server configuration
	Environment string

	// Store configuration
	StoreBackend  string
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Billing configuration
	BillingPolicy string
	BlockRate     decimal.Decimal
	DailyCap      decimal.Decimal
	Currency      string

	// Payment configuration
	PaymentProvider string

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string
	NotifyChannel      string

	// Rate limiting
	RateLimitPerMinute int

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Environment: getEnv("ENVIRONMENT", "development"),

		// Store
		StoreBackend:  getEnv("STORE_BACKEND", "redis"),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Billing (defaults are the flat USD profile)
		BillingPolicy: getEnv("BILLING_POLICY", "flat"),
		BlockRate:     getEnvAsDecimal("BLOCK_RATE", "2.50"),
		DailyCap:      getEnvAsDecimal("DAILY_CAP", "40.00"),
		Currency:      getEnv("CURRENCY", "USD"),

		// Payments
		PaymentProvider: getEnv("PAYMENT_PROVIDER", "mock"),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),
		NotifyChannel:      getEnv("NOTIFY_CHANNEL", "parking-payment-notifications"),

		// Rate limiting
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue string) decimal.Decimal {
	valueStr := getEnv(key, defaultValue)
	if value, err := decimal.NewFromString(valueStr); err == nil {
		return value
	}
	// If parsing fails, fall back to the default value
	value, _ := decimal.NewFromString(defaultValue)
	return value
}
