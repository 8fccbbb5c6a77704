package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config is loaded once at startup and treated as immutable for the process
// lifetime. Components receive it (or values from it) via their constructors.
type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	// Access and refresh tokens are signed with separate secrets so neither
	// can forge the other.
	JWTAlgorithm     string `env:"JWT_ALGORITHM" envDefault:"HS256" validate:"oneof=HS256 HS384 HS512"`
	JWTAccessSecret  string `env:"JWT_ACCESS_SECRET,required"  validate:"required,min=32"`
	JWTRefreshSecret string `env:"JWT_REFRESH_SECRET,required" validate:"required,min=32,nefield=JWTAccessSecret"`

	AccessTokenTTLMin  int `env:"ACCESS_TOKEN_TTL_MIN" envDefault:"60" validate:"min=1"`
	RefreshTokenTTLMin int `env:"REFRESH_TOKEN_TTL_MIN" envDefault:"10080" validate:"min=1"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`

	ReminderCron        string `env:"REMINDER_CRON" envDefault:"0 8 * * *"`
	ReminderWindowHours int    `env:"REMINDER_WINDOW_HOURS" envDefault:"24" validate:"min=1,max=168"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
