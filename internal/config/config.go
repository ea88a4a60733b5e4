package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL is the records API the front-end was built against.
const DefaultAPIBaseURL = "https://asm.roniprsty.com"

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string
	// APIBaseURL is the root of the remote student/SPP API (no trailing slash).
	APIBaseURL string
	APITimeout time.Duration
	// RedisURL selects the flash store. Empty keeps flash messages in memory.
	RedisURL string
	FlashTTL time.Duration
	// FormRateLimit is the number of mutating requests allowed per minute per IP.
	FormRateLimit int
	// AllowedOrigins controls CORS on the JSON API.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "pretty"),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", DefaultAPIBaseURL), "/"),
		APITimeout:     time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 30)) * time.Second,
		RedisURL:       getEnv("REDIS_URL", ""),
		FlashTTL:       time.Duration(getEnvInt("FLASH_TTL_SECONDS", 60)) * time.Second,
		FormRateLimit:  getEnvInt("FORM_RATE_LIMIT", 30),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
