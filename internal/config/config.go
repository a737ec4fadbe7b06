// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"JOBBOARD_DB_PATH" envDefault:"./data/jobboard.db"`
	SessionSecret string `env:"JOBBOARD_SESSION_SECRET,required"`
	ServerHost    string `env:"JOBBOARD_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"JOBBOARD_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"JOBBOARD_ENV" envDefault:"development"`
	LogLevel      string `env:"JOBBOARD_LOG_LEVEL" envDefault:"info"`

	// Attachment storage
	UploadsDir  string `env:"JOBBOARD_UPLOADS_DIR" envDefault:"./uploads"`
	MaxUploadMB int64  `env:"JOBBOARD_MAX_UPLOAD_MB" envDefault:"20"`

	// Event log retention in days; 0 keeps events forever
	EventRetentionDays int `env:"JOBBOARD_EVENT_RETENTION_DAYS" envDefault:"90"`

	// Public base URL for robots.txt and the sitemap; derived per request when empty
	SiteURL string `env:"JOBBOARD_SITE_URL"`
	// Ask crawlers to skip the whole site (staging)
	RobotsDisallowAll bool `env:"JOBBOARD_ROBOTS_DISALLOW_ALL" envDefault:"false"`

	// Rendered markdown cache; memory unless a Redis URL is set
	RedisURL    string        `env:"JOBBOARD_REDIS_URL"`
	CachePrefix string        `env:"JOBBOARD_CACHE_PREFIX" envDefault:"jobboard:"`
	CacheTTL    time.Duration `env:"JOBBOARD_CACHE_TTL" envDefault:"1h"`

	// Seeding configuration
	DoSeed bool `env:"JOBBOARD_DO_SEED" envDefault:"false"` // Create default admin and a sample post
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MaxUploadBytes returns the CV upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return DefaultMaxUploadMB << 20
	}
	return c.MaxUploadMB << 20
}

// EventRetention returns how long event log entries are kept.
func (c Config) EventRetention() time.Duration {
	if c.EventRetentionDays <= 0 {
		return 0
	}
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// DefaultMaxUploadMB is used when JOBBOARD_MAX_UPLOAD_MB is zero or negative.
const DefaultMaxUploadMB = 20

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
		return nil, fmt.Errorf("JOBBOARD_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("JOBBOARD_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("JOBBOARD_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
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
