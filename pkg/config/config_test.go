package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	config, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, config.Exchange.HTTPTimeout)
	assert.Equal(t, 10, config.RateLimit.RequestsPerSecond)
	assert.Equal(t, 5, config.RateLimit.Burst)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestParseOverrides(t *testing.T) {
	config, err := Parse([]byte(`
exchange:
  base_url: https://api.example.test
  ws_url: wss://ws.example.test/v2
  http_timeout: 30s
rate_limit:
  requests_per_second: 3
  burst: 1
logging:
  level: debug
  development: true
`))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test", config.Exchange.BaseURL)
	assert.Equal(t, "wss://ws.example.test/v2", config.Exchange.WSURL)
	assert.Equal(t, 30*time.Second, config.Exchange.HTTPTimeout)
	assert.Equal(t, 3, config.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1, config.RateLimit.Burst)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.True(t, config.Logging.Development)
}

func TestParseExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_KRAKEN_KEY", "key-from-env")
	t.Setenv("TEST_KRAKEN_SECRET", "secret-from-env")

	config, err := Parse([]byte(`
exchange:
  api_key: ${TEST_KRAKEN_KEY}
  api_secret: ${TEST_KRAKEN_SECRET}
`))
	require.NoError(t, err)

	assert.Equal(t, "key-from-env", config.Exchange.APIKey)
	assert.Equal(t, "secret-from-env", config.Exchange.APISecret)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", config.Logging.Level)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("exchange: [not a mapping"))
	assert.Error(t, err)
}

func TestOptionsConversion(t *testing.T) {
	config, err := Parse([]byte(`
exchange:
  base_url: https://api.example.test
  api_key: k
  api_secret: s
rate_limit:
  requests_per_second: 2
logging:
  level: debug
`))
	require.NoError(t, err)

	options := config.Options()
	assert.Equal(t, "https://api.example.test", options.BaseURL)
	assert.Equal(t, "k", options.APIKey)
	assert.Equal(t, "s", options.APISecret)
	assert.Equal(t, 2, options.MaxRequestsPerSecond)
	assert.Equal(t, "debug", options.LogLevel)
}
