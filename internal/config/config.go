package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	AppEndpoint string
	LogLevel    string

	OtelEnabled       bool
	OTLPEndpoint      string
	OtelSamplingRatio float64

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

	AuthJWTSecret   string
	AuthTokenTTLMin int

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	LemonSqueezy LemonSqueezyConfig
	OpenAI       OpenAIConfig
	RateLimit    RateLimitConfig

	SubscriptionSyncSchedule string
}

// LemonSqueezyConfig carries billing provider credentials and the
// store/variant the Pro plan is sold under.
type LemonSqueezyConfig struct {
	APIHost       string
	APIKey        string
	WebhookSecret string
	StoreID       int64
	VariantID     int64
}

type OpenAIConfig struct {
	APIEndpoint string
	APIKey      string
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ExtractRate   float64
	ExtractBurst  int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "daymark"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: environment,
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		AppEndpoint: strings.TrimRight(getenv("APP_ENDPOINT", "http://localhost:8080"), "/"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		OtelEnabled:       getenvBool("OTEL_ENABLED", false),
		OTLPEndpoint:      getenv("OTLP_ENDPOINT", "localhost:4317"),
		OtelSamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 1.0),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "daymark"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),

		AuthJWTSecret:   strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
		AuthTokenTTLMin: getenvInt("AUTH_TOKEN_TTL_MINUTES", 60*24*7),

		GoogleClientID:     strings.TrimSpace(getenv("GOOGLE_CLIENT_ID", "")),
		GoogleClientSecret: strings.TrimSpace(getenv("GOOGLE_CLIENT_SECRET", "")),
		GoogleRedirectURL:  strings.TrimSpace(getenv("GOOGLE_REDIRECT_URL", "")),

		LemonSqueezy: LemonSqueezyConfig{
			APIHost:       strings.TrimRight(getenv("LEMON_SQUEEZY_API_HOST", "https://api.lemonsqueezy.com"), "/"),
			APIKey:        strings.TrimSpace(getenv("LEMON_SQUEEZY_API_KEY", "")),
			WebhookSecret: strings.TrimSpace(getenv("LEMON_SQUEEZY_WEBHOOK_SECRET", "")),
			StoreID:       getenvInt64("LEMON_SQUEEZY_STORE_ID", 43821),
			VariantID:     getenvInt64("LEMON_SQUEEZY_VARIANT_ID", 138344),
		},
		OpenAI: OpenAIConfig{
			APIEndpoint: strings.TrimRight(getenv("OPENAI_API_ENDPOINT", "https://api.openai.com"), "/"),
			APIKey:      strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword: strings.TrimSpace(getenv("RATE_LIMIT_REDIS_PASSWORD", "")),
			RedisDB:       getenvInt("RATE_LIMIT_REDIS_DB", 0),
			ExtractRate:   getenvFloat("RATE_LIMIT_EXTRACT_RATE", 0.5),
			ExtractBurst:  getenvInt("RATE_LIMIT_EXTRACT_BURST", 5),
		},

		SubscriptionSyncSchedule: getenv("SUBSCRIPTION_SYNC_SCHEDULE", "@hourly"),
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
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

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
