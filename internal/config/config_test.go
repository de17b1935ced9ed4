package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vyapari/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Vyapari", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "today", cfg.Shop.DefaultPeriod)
	assert.Equal(t, 10, cfg.Shop.LowStockThreshold)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "postgres://postgres:@localhost:5432/vyapari?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SHOP_LOW_STOCK_THRESHOLD", "0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 10, cfg.Shop.LowStockThreshold)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestConfig_Location(t *testing.T) {
	cfg := &config.Config{}

	cfg.Shop.Timezone = "UTC"
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Shop.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}
