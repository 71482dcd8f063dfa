package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type AppConfig struct {
	Port string `env:"PORT, default=8080"`

	Log         LogConfig
	OpenWeather OpenWeatherConfig
	DB          DBConfig
	Session     SessionConfig

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=10s"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL, default=info"`
	Pretty bool   `env:"LOG_PRETTY, default=false"`
}

type OpenWeatherConfig struct {
	APIKey  string `env:"OPENWEATHER_API_KEY, required"`
	BaseURL string `env:"OPENWEATHER_BASE_URL, default=https://api.openweathermap.org/data/2.5/weather"`
}

type DBConfig struct {
	Driver string `env:"DB_DRIVER, default=sqlite3"`
	DSN    string `env:"DB_DSN, default=weather.db"`
}

type SessionConfig struct {
	Expiration   time.Duration `env:"SESSION_EXPIRATION, default=24h"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*AppConfig, error) {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith resolves configuration from the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.DB.Driver {
	case "sqlite3", "pgx":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: want sqlite3 or pgx", c.DB.Driver)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid HTTP_TIMEOUT %s: must be positive", c.HTTPTimeout)
	}
	if c.Session.Expiration <= 0 {
		return fmt.Errorf("invalid SESSION_EXPIRATION %s: must be positive", c.Session.Expiration)
	}
	return nil
}
