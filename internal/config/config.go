package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	HyperliquidURL     string
	HyperliquidTimeout time.Duration
	HyperliquidRPS     float64
	HyperliquidBurst   int
	VaultsFile         string
	RefreshInterval    time.Duration
	HTTPPort           string
	AdminAPIKey        string
	LogLevel           string
	LogFormat          string
	LogFile            string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		HyperliquidURL:     envOrDefault("HYPERLIQUID_URL", "https://api.hyperliquid.xyz"),
		HyperliquidTimeout: envOrDefaultDuration("HYPERLIQUID_TIMEOUT", 15*time.Second),
		HyperliquidRPS:     envOrDefaultFloat("HYPERLIQUID_RPS", 10),
		HyperliquidBurst:   envOrDefaultInt("HYPERLIQUID_BURST", 20),
		VaultsFile:         envOrDefault("VAULTS_FILE", "vaults.yaml"),
		RefreshInterval:    envOrDefaultDuration("REFRESH_INTERVAL", 10*time.Second),
		HTTPPort:           envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:        envOrDefault("ADMIN_API_KEY", ""),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "text"),
		LogFile:            envOrDefault("LOG_FILE", ""),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := cast.ToFloat64E(v)
		if err != nil || f <= 0 {
			slog.Warn("invalid number env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return f
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
