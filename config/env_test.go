package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"ORDER_TX_TIMEOUT", "ORDER_LEGACY_DEFAULTS", "ALLOWED_ORIGINS", "APP_ENV", "APP_PORT", "PORT"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, 10*time.Second, cfg.OrderTxTimeout)
	assert.False(t, cfg.OrderLegacyDefaults)
	assert.Equal(t, "5001", cfg.Port)
	assert.False(t, cfg.IsProduction())
	assert.NotEmpty(t, cfg.AllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "8080")
	t.Setenv("ORDER_TX_TIMEOUT", "3s")
	t.Setenv("ORDER_LEGACY_DEFAULTS", "true")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := LoadConfig()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.OrderTxTimeout)
	assert.True(t, cfg.OrderLegacyDefaults)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
}

func TestGetDurationRejectsNonPositive(t *testing.T) {
	t.Setenv("ORDER_TX_TIMEOUT", "-1s")
	assert.Equal(t, 10*time.Second, getDuration("ORDER_TX_TIMEOUT", 10*time.Second))
}
