package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Providers ProvidersConfig
	RateLimit RateLimitConfig
	OTEL      OTELConfig
	Env       string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ProvidersConfig holds third-party inventory provider credentials.
// An empty credential disables the corresponding adapter.
type ProvidersConfig struct {
	AmadeusClientID     string
	AmadeusClientSecret string
	AmadeusBaseURL      string
	RapidAPIKey         string
	KiwiAPIKey          string
	KiwiBaseURL         string
	XoteloBaseURL       string
	CallTimeout         time.Duration
}

// RateLimitConfig holds per-endpoint-class admission quotas.
type RateLimitConfig struct {
	SearchWindow      time.Duration
	SearchMaxRequests int
	StrictWindow      time.Duration
	StrictMaxRequests int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Providers: ProvidersConfig{
			AmadeusClientID:     getEnv("AMADEUS_CLIENT_ID", ""),
			AmadeusClientSecret: getEnv("AMADEUS_CLIENT_SECRET", ""),
			AmadeusBaseURL:      getEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
			RapidAPIKey:         getEnv("RAPIDAPI_KEY", ""),
			KiwiAPIKey:          getEnv("KIWI_API_KEY", ""),
			KiwiBaseURL:         getEnv("KIWI_BASE_URL", "https://api.tequila.kiwi.com"),
			XoteloBaseURL:       getEnv("XOTELO_BASE_URL", "https://data.xotelo.com/api"),
			CallTimeout:         getEnvAsDuration("PROVIDER_TIMEOUT", 8*time.Second),
		},
		RateLimit: RateLimitConfig{
			SearchWindow:      getEnvAsDuration("RATELIMIT_SEARCH_WINDOW", time.Minute),
			SearchMaxRequests: getEnvAsInt("RATELIMIT_SEARCH_MAX", 30),
			StrictWindow:      getEnvAsDuration("RATELIMIT_STRICT_WINDOW", time.Minute),
			StrictMaxRequests: getEnvAsInt("RATELIMIT_STRICT_MAX", 10),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "travel-search-backend"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Env: getEnv("ENV", "development"),
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AmadeusEnabled reports whether the Amadeus adapters can run.
func (c *ProvidersConfig) AmadeusEnabled() bool {
	return c.AmadeusClientID != "" && c.AmadeusClientSecret != ""
}

// RapidAPIEnabled reports whether RapidAPI-hosted adapters can run.
func (c *ProvidersConfig) RapidAPIEnabled() bool {
	return c.RapidAPIKey != ""
}

// KiwiEnabled reports whether the Kiwi flight adapter can run.
func (c *ProvidersConfig) KiwiEnabled() bool {
	return c.KiwiAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
