package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "LOG_LEVEL", "LOG_FORMAT", "HISTORY_LIMIT", "BASE_CURRENCY", "SHARE_SECRET", "SHARE_TTL", "CORS_ORIGINS"} {
		t.Setenv(key, "unset")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "./data/bills.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 100, cfg.History.Limit)
	assert.Equal(t, "USD", cfg.History.BaseCurrency)
	assert.Empty(t, cfg.Share.Secret)
	assert.Equal(t, 7*24*time.Hour, cfg.Share.TTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/tabsplit.db")
	t.Setenv("HISTORY_LIMIT", "25")
	t.Setenv("BASE_CURRENCY", "eur")
	t.Setenv("SHARE_SECRET", "s3cret")
	t.Setenv("SHARE_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/tabsplit.db", cfg.DBPath)
	assert.Equal(t, 25, cfg.History.Limit)
	assert.Equal(t, "EUR", cfg.History.BaseCurrency)
	assert.Equal(t, "s3cret", cfg.Share.Secret)
	assert.Equal(t, time.Hour, cfg.Share.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string][2]string{
		"port not a number": {"PORT", "eighty"},
		"port out of range": {"PORT", "70000"},
		"unknown currency":  {"BASE_CURRENCY", "XYZ"},
		"negative limit":    {"HISTORY_LIMIT", "-1"},
		"bad duration":      {"SHARE_TTL", "forever"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
