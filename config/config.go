package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	Env            string
	LogLevel       string
	TrustedProxies []string
	AllowedOrigins []string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// AdminAPIKey protects the admin API group (winner draws, giveaway
	// setup). Policy editing itself lives in the CMS, not here.
	AdminAPIKey string

	// Rate limit for the public entry endpoint, per client IP.
	EntryRateLimit  int
	EntryRateWindow time.Duration

	// Per-request store timeout; a store call that exceeds it reports a
	// transient failure instead of hanging the request.
	RequestTimeout time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		TrustedProxies: []string{},
		AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "giveaways"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),

		EntryRateLimit:  getEnvAsInt("ENTRY_RATE_LIMIT", 10),
		EntryRateWindow: getEnvAsDuration("ENTRY_RATE_WINDOW", time.Minute),

		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		cfg.TrustedProxies = strings.Split(proxies, ",")
	}

	log.Printf("config loaded: port=%s mode=%s db=%s adminKeySet=%v",
		cfg.Port, cfg.Env, cfg.DBName, cfg.AdminAPIKey != "")
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	strVal := getEnv(key, "")
	if val, err := strconv.Atoi(strVal); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strVal := getEnv(key, "")
	if val, err := time.ParseDuration(strVal); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	val := getEnv(key, "")
	if val == "" {
		return defaultValue
	}
	parts := strings.Split(val, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}
