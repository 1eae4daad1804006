package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Verification backend
	BackendURL     string        `envconfig:"BACKEND_URL" default:"http://localhost:8000/api/v1"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"40s"`
	BackendMode    string        `envconfig:"BACKEND_MODE" default:"remote"`

	// Auth
	AuthMode   string        `envconfig:"AUTH_MODE" default:"stub"`
	JWTSecret  string        `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiry  time.Duration `envconfig:"JWT_EXPIRY" default:"24h"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	// Verification history
	HistoryLimit int `envconfig:"HISTORY_LIMIT" default:"20"`

	// Dashboard
	DashboardRefresh time.Duration `envconfig:"DASHBOARD_REFRESH" default:"30s"`

	// Listing sort locale
	Locale string `envconfig:"LOCALE" default:"en"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
