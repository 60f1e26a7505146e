// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads landkit settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/scheduler"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"LANDKIT_DB_PATH" envDefault:"./data/landkit.db"`
	ServerHost string `env:"LANDKIT_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"LANDKIT_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"LANDKIT_ENV" envDefault:"development"`
	LogLevel   string `env:"LANDKIT_LOG_LEVEL" envDefault:"info"`
	BaseURL    string `env:"LANDKIT_BASE_URL"` // public origin used in asset URLs

	// Uploads
	UploadsDir    string `env:"LANDKIT_UPLOADS_DIR" envDefault:"./uploads"`
	MaxUploadMB   int    `env:"LANDKIT_MAX_UPLOAD_MB" envDefault:"10"`
	ImageMaxWidth int    `env:"LANDKIT_IMAGE_MAX_WIDTH" envDefault:"2048"`

	// Cache configuration
	RedisURL     string        `env:"LANDKIT_REDIS_URL"` // Optional Redis URL for distributed caching
	CachePrefix  string        `env:"LANDKIT_CACHE_PREFIX" envDefault:"landkit:"`
	CacheTTL     time.Duration `env:"LANDKIT_CACHE_TTL" envDefault:"10m"`
	CacheMaxSize int           `env:"LANDKIT_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// API rate limiting, per actor
	APIRateLimit float64 `env:"LANDKIT_API_RATE_LIMIT" envDefault:"10"` // requests per second
	APIRateBurst int     `env:"LANDKIT_API_RATE_BURST" envDefault:"20"`

	// Plan quotas
	FreeMaxGallery int `env:"LANDKIT_FREE_MAX_GALLERY" envDefault:"3"`
	ProMaxGallery  int `env:"LANDKIT_PRO_MAX_GALLERY" envDefault:"30"`
	FreeMaxPages   int `env:"LANDKIT_FREE_MAX_PAGES" envDefault:"1"`
	ProMaxPages    int `env:"LANDKIT_PRO_MAX_PAGES" envDefault:"10"`

	// Event log entries older than EventRetention are pruned on EventPruneSchedule
	EventRetention     time.Duration `env:"LANDKIT_EVENT_RETENTION" envDefault:"720h"`
	EventPruneSchedule string        `env:"LANDKIT_EVENT_PRUNE_SCHEDULE" envDefault:"@daily"`

	// Seeding configuration
	DoSeed bool `env:"LANDKIT_DO_SEED" envDefault:"false"` // Enable database seeding
}

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

// MaxUploadBytes returns the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// PlanQuotas returns the configured limits of each tier. Ratings and
// branding removal stay paid features.
func (c Config) PlanQuotas() model.PlanQuotas {
	return model.PlanQuotas{
		model.PlanFree: {MaxGalleryImages: c.FreeMaxGallery, MaxPages: c.FreeMaxPages},
		model.PlanPro: {
			MaxGalleryImages: c.ProMaxGallery,
			MaxPages:         c.ProMaxPages,
			Ratings:          true,
			RemoveBranding:   true,
		},
	}
}

// LoadDotEnv loads variables from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom is Load over an explicit environment instead of the process one.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []string

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Sprintf("LANDKIT_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	switch c.Env {
	case "development", "production", "test":
	default:
		errs = append(errs, fmt.Sprintf("LANDKIT_ENV must be development, production or test, got %q", c.Env))
	}
	if c.MaxUploadMB < 1 || c.MaxUploadMB > 100 {
		errs = append(errs, fmt.Sprintf("LANDKIT_MAX_UPLOAD_MB must be between 1 and 100, got %d", c.MaxUploadMB))
	}
	if c.ImageMaxWidth < 64 {
		errs = append(errs, fmt.Sprintf("LANDKIT_IMAGE_MAX_WIDTH must be at least 64, got %d", c.ImageMaxWidth))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, "LANDKIT_CACHE_TTL must be positive")
	}
	if c.CacheMaxSize < 0 {
		errs = append(errs, "LANDKIT_CACHE_MAX_SIZE must not be negative")
	}
	if c.APIRateLimit <= 0 || c.APIRateBurst < 1 {
		errs = append(errs, "LANDKIT_API_RATE_LIMIT must be positive and LANDKIT_API_RATE_BURST at least 1")
	}
	if c.FreeMaxGallery < 0 || c.ProMaxGallery < c.FreeMaxGallery {
		errs = append(errs, "gallery quotas must be non-negative and the pro limit at least the free one")
	}
	if c.FreeMaxPages < 1 || c.ProMaxPages < c.FreeMaxPages {
		errs = append(errs, "page quotas must be at least 1 and the pro limit at least the free one")
	}
	if c.EventRetention <= 0 {
		errs = append(errs, "LANDKIT_EVENT_RETENTION must be positive")
	}
	if err := scheduler.ValidateSchedule(c.EventPruneSchedule); err != nil {
		errs = append(errs, "LANDKIT_EVENT_PRUNE_SCHEDULE: "+err.Error())
	}
	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		errs = append(errs, fmt.Sprintf("LANDKIT_BASE_URL must be an http(s) URL, got %q", c.BaseURL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}
