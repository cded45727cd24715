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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8000, c.Server.Port)
	assert.Equal(t, 10*time.Second, c.Server.ShutdownTimeout)
	assert.True(t, c.Server.CORS)
	assert.Equal(t, "BTC/USD", c.Forecast.DefaultAsset)
	assert.Equal(t, "/predict", c.Forecast.Path)
	assert.Zero(t, c.Forecast.Seed)
	assert.False(t, c.Gateway.Enabled)
	assert.Equal(t, "http://localhost:8000/predict", c.Gateway.MLServiceURL)
	assert.Equal(t, 15*time.Second, c.Gateway.CacheTTL)
	assert.Equal(t, 0.2, c.Gateway.OpenAI.Temperature)
	assert.Equal(t, "0.0.0.0:8000", c.Addr())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  port: 9090
  cors: false
forecast:
  default_asset: ETH/USD
  seed: 17
gateway:
  enabled: true
  cache_ttl: 0s
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 9090, c.Server.Port)
	assert.False(t, c.Server.CORS)
	assert.Equal(t, 10*time.Second, c.Server.ReadTimeout, "untouched fields keep defaults")
	assert.Equal(t, "ETH/USD", c.Forecast.DefaultAsset)
	assert.EqualValues(t, 17, c.Forecast.Seed)
	assert.True(t, c.Gateway.Enabled)
	assert.Zero(t, c.Gateway.CacheTTL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "server: [oops"},
		{"port out of range", "server:\n  port: 70000\n"},
		{"unknown log level", "logger:\n  level: loud\n"},
		{"bad ml url", "gateway:\n  ml_service_url: not a url\n"},
		{"route collision", "gateway:\n  enabled: true\n  path: /predict\n"},
		{"metrics collision", "metrics:\n  path: /predict\n"},
		{"negative cache ttl", "gateway:\n  cache_ttl: -1s\n"},
		{"status route collision", "gateway:\n  enabled: true\n  path: /ai\n"},
		{"predict on root with gateway", "forecast:\n  path: /\ngateway:\n  enabled: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestRootPredictAllowedWithoutGateway(t *testing.T) {
	c, err := Load(writeConfig(t, "forecast:\n  path: /\n"))
	require.NoError(t, err)
	assert.Equal(t, "/", c.Forecast.Path)
}

func TestLoadWithEnv(t *testing.T) {
	path := writeConfig(t, "environment: staging\n")
	t.Setenv("PORT", "7001")
	t.Setenv("DEFAULT_ASSET", "SOL/USD")
	t.Setenv("FORECAST_SEED", "5")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ML_SERVICE_URL", "http://ml:8000/predict")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", c.Environment)
	assert.Equal(t, 7001, c.Server.Port)
	assert.Equal(t, "SOL/USD", c.Forecast.DefaultAsset)
	assert.EqualValues(t, 5, c.Forecast.Seed)
	assert.Equal(t, "sk-test", c.Gateway.OpenAI.APIKey)
	assert.Equal(t, "http://ml:8000/predict", c.Gateway.MLServiceURL)
	assert.Equal(t, "debug", c.Logger.Level)
}

func TestLoadWithEnvMissingFile(t *testing.T) {
	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "BTC/USD", c.Forecast.DefaultAsset)
}

func TestLoadWithEnvBadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := LoadWithEnv(writeConfig(t, "environment: dev\n"))
	assert.Error(t, err)
}
