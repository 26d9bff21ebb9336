package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Tenant resolution strategies, selected process-wide at startup.
const (
	TenantStrategyHeader    = "header"
	TenantStrategySubdomain = "subdomain"
	TenantStrategyPath      = "path"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	TenantStrategy string
	TenantHeader   string
	BaseDomain     string

	AuthJWTSecret string

	Stripe StripeConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
}

// StripeConfig holds the platform credential and the env-level fee fallbacks.
// Per-deployment overrides live in the platform_config row.
type StripeConfig struct {
	SecretKey         string
	WebhookSecret     string
	ApplicationFeeBps int64
	DefaultCurrency   string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "brewhub"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":4000"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		TenantStrategy: normalizeTenantStrategy(getenv("TENANT_STRATEGY", TenantStrategyHeader)),
		TenantHeader:   strings.ToLower(getenv("TENANT_HEADER", "x-tenant-id")),
		BaseDomain:     strings.TrimSpace(getenv("BASE_DOMAIN", "localhost")),

		AuthJWTSecret: strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),

		Stripe: StripeConfig{
			SecretKey:         strings.TrimSpace(getenv("STRIPE_SECRET_KEY", "")),
			WebhookSecret:     strings.TrimSpace(getenv("STRIPE_WEBHOOK_SECRET", "")),
			ApplicationFeeBps: getenvInt64("STRIPE_APP_FEE_BPS", 1000),
			DefaultCurrency:   strings.ToLower(getenv("STRIPE_DEFAULT_CURRENCY", "usd")),
		},

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "brewhub"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
	}

	return cfg
}

func normalizeTenantStrategy(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case TenantStrategySubdomain:
		return TenantStrategySubdomain
	case TenantStrategyPath:
		return TenantStrategyPath
	default:
		return TenantStrategyHeader
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
