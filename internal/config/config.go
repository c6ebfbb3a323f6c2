// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// ErrMissingRequired marks a configuration error: the process must not serve
// anything beyond a static notice.
var ErrMissingRequired = errors.New("configuration error")

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string `envconfig:"PORT" default:"8080"`
	ReadTimeout  int    `envconfig:"SERVER_READ_TIMEOUT" default:"15"`  // seconds
	WriteTimeout int    `envconfig:"SERVER_WRITE_TIMEOUT" default:"15"` // seconds
	IdleTimeout  int    `envconfig:"SERVER_IDLE_TIMEOUT" default:"60"`  // seconds
}

// DatabaseConfig holds the data store location.
type DatabaseConfig struct {
	URL   string `envconfig:"DATABASE_URL" required:"true"`
	Debug bool   `envconfig:"DB_DEBUG" default:"false"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env             string        `envconfig:"APP_ENV" default:"development"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	SessionSecret   string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL      time.Duration `envconfig:"SESSION_TTL" default:"336h"`
	ProfileCacheTTL time.Duration `envconfig:"PROFILE_CACHE_TTL" default:"5m"`
	Migrations      bool          `envconfig:"MIGRATIONS" default:"false"`
	Seed            bool          `envconfig:"SEED" default:"true"`
	SeedPassword    string        `envconfig:"SEED_PASSWORD" default:"slatko"`
}

// Production reports whether APP_ENV is "production".
func (a AppConfig) Production() bool { return strings.EqualFold(a.Env, "production") }

// Driver returns the gorm dialect for the configured URL.
func (d DatabaseConfig) Driver() string {
	lower := strings.ToLower(strings.TrimSpace(d.URL))
	if strings.HasPrefix(lower, "sqlite:") || strings.HasPrefix(lower, "file:") || lower == ":memory:" {
		return "sqlite"
	}
	return "postgres"
}

// SQLitePath strips the "sqlite:" scheme, keeping "file:" URIs intact for the driver.
func (d DatabaseConfig) SQLitePath() string {
	u := strings.TrimSpace(d.URL)
	if strings.HasPrefix(strings.ToLower(u), "sqlite:") {
		return u[len("sqlite:"):]
	}
	return u
}

// Load reads configuration from environment variables. A missing required
// value yields an error wrapping ErrMissingRequired; a malformed value is a
// plain error.
func Load() (*Config, error) {
	var cfg Config
	for _, spec := range []any{&cfg.Server, &cfg.Database, &cfg.App} {
		if err := envconfig.Process("", spec); err != nil {
			var perr *envconfig.ParseError
			if errors.As(err, &perr) {
				return nil, errors.Wrap(err, "parse configuration")
			}
			return nil, errors.Wrap(ErrMissingRequired, err.Error())
		}
	}
	if strings.TrimSpace(cfg.Database.URL) == "" {
		return nil, errors.Wrap(ErrMissingRequired, "required key DATABASE_URL is blank")
	}
	if strings.TrimSpace(cfg.App.SessionSecret) == "" {
		return nil, errors.Wrap(ErrMissingRequired, "required key SESSION_SECRET is blank")
	}
	return &cfg, nil
}

// Port reads only the listening port, for the configuration error server.
func Port() string {
	var s ServerConfig
	if err := envconfig.Process("", &s); err != nil || s.Port == "" {
		return "8080"
	}
	return s.Port
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string { return fmt.Sprintf(":%s", s.Port) }
