package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Server.CORS)
	assert.Equal(t, "http://api.marketstack.com", cfg.Marketstack.BaseURL)
	assert.Equal(t, "/v2/eod", cfg.Marketstack.EODPath)
	assert.Equal(t, 30*time.Second, cfg.Marketstack.Timeout)
	assert.Equal(t, "1/2/2006", cfg.Chart.DateLayout)
	assert.Equal(t, DefaultPalette, cfg.Chart.Palette)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, "@every 5m", cfg.Session.SweepCron)
	assert.Equal(t, -1, cfg.Kafka.RequiredAcks)
	assert.Zero(t, cfg.Fetch.DispatchDelay)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  port: 9090
  cors: false
marketstack:
  api_key: "file-key"
  timeout: 5s
chart:
  palette: ["#000000", "#ffffff"]
fetch:
  dispatch_delay: 1s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Server.CORS)
	assert.Equal(t, "file-key", cfg.Marketstack.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Marketstack.Timeout)
	assert.Equal(t, []string{"#000000", "#ffffff"}, cfg.Chart.Palette)
	assert.Equal(t, time.Second, cfg.Fetch.DispatchDelay)
	// untouched sections keep their defaults
	assert.Equal(t, "/v1/tickers", cfg.Marketstack.TickersPath)
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "marketstack:\n  api_key: file-key\n")

	t.Setenv("MARKETSTACK_API_KEY", "env-key")
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := LoadWithEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Marketstack.APIKey)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.EqualError(t, cfg.Validate(), "marketstack.api_key is required")

	cfg.Marketstack.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.Kafka.Enabled = true
	assert.Error(t, cfg.Validate())

	cfg.Kafka.Brokers = []string{"localhost:9092"}
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}
