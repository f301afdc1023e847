package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config keeps runtime settings for the scheduling engine.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL" env-default:"timeblocker.db"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`

	// SweepTime runs the regeneration sweep daily at HH:MM; when empty,
	// SweepInterval is used instead. An interval of 0 disables the sweep.
	SweepTime     string        `env:"SWEEP_TIME"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" env-default:"6h"`

	// Per-user mutation rate limit.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" env-default:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" env-default:"20"`
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read env: %w", err)
	}
	if cfg.RateLimitRPS <= 0 {
		return cfg, fmt.Errorf("RATE_LIMIT_RPS must be positive")
	}
	return cfg, nil
}
