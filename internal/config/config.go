package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/xtding233/luck-curve/internal/logger"
)

// Config holds the process configuration read from the environment.
type Config struct {
	Port          int           `env:"PORT" envDefault:"8080"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"LOG_FORMAT" envDefault:"text"`
	Environment   string        `env:"ENVIRONMENT" envDefault:"dev"`
	Version       string        `env:"VERSION" envDefault:"dev"`
	ConfigDir     string        `env:"CONFIG_DIR" envDefault:"configs"`
	Profile       string        `env:"PROFILE" envDefault:"default"`
	WatchInterval time.Duration `env:"WATCH_INTERVAL" envDefault:"2s"`
	CacheSize     int           `env:"CACHE_SIZE" envDefault:"1024"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"10m"`
}

// Load reads an optional .env file, then parses the environment.
func Load() (*Config, error) {
	// a missing .env is fine; real env vars still apply
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges that env tags cannot express.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.WatchInterval < 0 {
		return fmt.Errorf("invalid WATCH_INTERVAL %s", c.WatchInterval)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("invalid CACHE_SIZE %d", c.CacheSize)
	}
	if c.Profile == "" {
		return fmt.Errorf("PROFILE must not be empty")
	}
	return nil
}

// Logger derives the logger configuration.
func (c *Config) Logger(serviceName string) logger.Config {
	return logger.Config{
		Level:       c.LogLevel,
		Format:      c.LogFormat,
		ServiceName: serviceName,
		Version:     c.Version,
		Environment: c.Environment,
		AddSource:   c.Environment == "dev",
	}
}
