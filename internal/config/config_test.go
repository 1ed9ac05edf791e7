package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear any env vars that might affect defaults
	for _, key := range []string{"HYPERLIQUID_URL", "HYPERLIQUID_TIMEOUT", "HYPERLIQUID_RPS", "HYPERLIQUID_BURST", "VAULTS_FILE", "REFRESH_INTERVAL", "HTTP_PORT", "ADMIN_API_KEY", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.HyperliquidURL != "https://api.hyperliquid.xyz" {
		t.Errorf("HyperliquidURL = %q, want default", cfg.HyperliquidURL)
	}
	if cfg.HyperliquidTimeout != 15*time.Second {
		t.Errorf("HyperliquidTimeout = %v, want 15s", cfg.HyperliquidTimeout)
	}
	if cfg.HyperliquidRPS != 10 || cfg.HyperliquidBurst != 20 {
		t.Errorf("rate limit = %v/%d, want 10/20", cfg.HyperliquidRPS, cfg.HyperliquidBurst)
	}
	if cfg.VaultsFile != "vaults.yaml" {
		t.Errorf("VaultsFile = %q, want vaults.yaml", cfg.VaultsFile)
	}
	if cfg.RefreshInterval != 10*time.Second {
		t.Errorf("RefreshInterval = %v, want 10s", cfg.RefreshInterval)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.AdminAPIKey != "" {
		t.Errorf("AdminAPIKey = %q, want empty", cfg.AdminAPIKey)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" || cfg.LogFile != "" {
		t.Errorf("logging = %q/%q/%q, want info/text/empty", cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HYPERLIQUID_URL", "https://api.hyperliquid-testnet.xyz")
	t.Setenv("HYPERLIQUID_RPS", "2.5")
	t.Setenv("HYPERLIQUID_BURST", "5")
	t.Setenv("REFRESH_INTERVAL", "30s")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ADMIN_API_KEY", "secret")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Load()

	if cfg.HyperliquidURL != "https://api.hyperliquid-testnet.xyz" {
		t.Errorf("HyperliquidURL = %q, want override", cfg.HyperliquidURL)
	}
	if cfg.HyperliquidRPS != 2.5 {
		t.Errorf("HyperliquidRPS = %v, want 2.5", cfg.HyperliquidRPS)
	}
	if cfg.HyperliquidBurst != 5 {
		t.Errorf("HyperliquidBurst = %d, want 5", cfg.HyperliquidBurst)
	}
	if cfg.RefreshInterval != 30*time.Second {
		t.Errorf("RefreshInterval = %v, want 30s", cfg.RefreshInterval)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.AdminAPIKey != "secret" {
		t.Errorf("AdminAPIKey = %q, want secret", cfg.AdminAPIKey)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("HYPERLIQUID_BURST", "not-a-number")
	t.Setenv("HYPERLIQUID_RPS", "-1")
	t.Setenv("REFRESH_INTERVAL", "invalid-duration")

	cfg := Load()

	if cfg.HyperliquidBurst != 20 {
		t.Errorf("HyperliquidBurst = %d, want default 20 on invalid input", cfg.HyperliquidBurst)
	}
	if cfg.HyperliquidRPS != 10 {
		t.Errorf("HyperliquidRPS = %v, want default 10 on invalid input", cfg.HyperliquidRPS)
	}
	if cfg.RefreshInterval != 10*time.Second {
		t.Errorf("RefreshInterval = %v, want default 10s on invalid input", cfg.RefreshInterval)
	}
}
