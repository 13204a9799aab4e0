// Package config loads the service configuration from environment
// variables. envconfig maps the variables onto the Config struct.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting of the application.
type Config struct {
	// --- HTTP ---
	HTTPHost string `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`

	// --- Database ---
	// In Docker "localhost" is almost always wrong inside the container.
	// The default matches the docker-compose service name; override
	// DB_HOST=localhost for local runs.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"gercekmi"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"gercekmi"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	// Quota days and scheduler jobs are bucketed in this timezone.
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Istanbul"`

	// --- Auth ---
	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	TokenLifetime time.Duration `envconfig:"TOKEN_LIFETIME" default:"168h"`

	// --- Polls ---
	PollDuration      time.Duration `envconfig:"POLL_DURATION" default:"168h"`
	DailyPollLimit    int           `envconfig:"DAILY_POLL_LIMIT" default:"2"`
	QuestionMaxLength int           `envconfig:"QUESTION_MAX_LENGTH" default:"500"`

	// --- Comments ---
	CommentMaxLength int `envconfig:"COMMENT_MAX_LENGTH" default:"1000"`

	// --- Rate limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// DatabaseDSN returns the PostgreSQL connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// HTTPAddr returns the host:port the API server listens on.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// Location resolves the configured application timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.AppTimezone)
}

func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort)
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("invalid DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.PollDuration <= 0 {
		return fmt.Errorf("POLL_DURATION must be positive")
	}
	if c.DailyPollLimit <= 0 {
		return fmt.Errorf("DAILY_POLL_LIMIT must be positive")
	}
	if c.CommentMaxLength <= 0 || c.QuestionMaxLength <= 0 {
		return fmt.Errorf("COMMENT_MAX_LENGTH and QUESTION_MAX_LENGTH must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	return nil
}

// Load reads the environment and fills the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
