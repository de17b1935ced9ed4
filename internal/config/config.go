package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Vyapari"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"vyapari"`
		MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	}

	Shop struct {
		Timezone          string `envconfig:"SHOP_TIMEZONE" default:"Asia/Kolkata"`
		DefaultPeriod     string `envconfig:"SHOP_DEFAULT_PERIOD" default:"today"`
		LowStockThreshold int    `envconfig:"SHOP_LOW_STOCK_THRESHOLD" default:"10"`
	}

	Auth struct {
		Secret   string        `envconfig:"AUTH_SECRET"`
		TokenTTL time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Location resolves the shop's calendar. All period arithmetic happens in it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Shop.Timezone)
	if err != nil {
		slog.Warn("unknown shop timezone, using UTC", "timezone", c.Shop.Timezone, "error", err)
		return time.UTC
	}

	return loc
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Shop.LowStockThreshold < 1 {
		cfg.Shop.LowStockThreshold = 10
	}

	return &cfg, nil
}
