// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"BOOTH_DB_PATH" envDefault:"./data/boothadmin.db"`
	SessionSecret string `env:"BOOTH_SESSION_SECRET,required"`
	ServerHost    string `env:"BOOTH_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"BOOTH_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"BOOTH_ENV" envDefault:"development"`
	LogLevel      string `env:"BOOTH_LOG_LEVEL" envDefault:"info"`

	// Remote API
	APIURL        string        `env:"BOOTH_API_URL,required"`
	APITimeout    time.Duration `env:"BOOTH_API_TIMEOUT" envDefault:"30s"`
	ProbeSchedule string        `env:"BOOTH_API_PROBE_SCHEDULE" envDefault:"@every 1m"`

	// Booth being administered
	BoothID          string `env:"BOOTH_ID" envDefault:"f17ec1f8-78bd-4553-bf6f-9a139f21aba3"`
	BoothName        string `env:"BOOTH_NAME" envDefault:"Pevonia"`
	BoothDescription string `env:"BOOTH_DESCRIPTION"` // Markdown shown on the Customize tab
	MediaBaseURL     string `env:"BOOTH_MEDIA_BASE_URL"`

	// View-state cache
	RedisURL    string        `env:"BOOTH_REDIS_URL"` // Optional; memory cache when empty
	CachePrefix string        `env:"BOOTH_CACHE_PREFIX" envDefault:"boothadmin:"`
	CacheTTL    time.Duration `env:"BOOTH_CACHE_TTL" envDefault:"30m"`

	// Chart assets
	ChartAssetsHost string `env:"BOOTH_CHART_ASSETS_HOST" envDefault:"https://go-echarts.github.io/go-echarts-assets/assets/"`
}

// defaultMediaHost serves booth assets when BOOTH_MEDIA_BASE_URL is unset.
const defaultMediaHost = "https://virtualspaces.s3.ca-central-1.amazonaws.com/"

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MediaBase returns the media base URL, always ending in "/".
func (c Config) MediaBase() string {
	base := c.MediaBaseURL
	if base == "" {
		base = defaultMediaHost + c.BoothID + "/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("BOOTH_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("BOOTH_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("BOOTH_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if err := validateURL("BOOTH_API_URL", cfg.APIURL); err != nil {
		return nil, err
	}
	if cfg.MediaBaseURL != "" {
		if err := validateURL("BOOTH_MEDIA_BASE_URL", cfg.MediaBaseURL); err != nil {
			return nil, err
		}
	}

	id, err := uuid.Parse(cfg.BoothID)
	if err != nil {
		return nil, fmt.Errorf("BOOTH_ID must be a UUID: %w", err)
	}
	cfg.BoothID = id.String()

	return cfg, nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
