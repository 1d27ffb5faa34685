// Package config loads client configuration from YAML files with
// environment variable expansion, so credentials can stay out of the file
// itself.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/veiloq/kraken-connector/pkg/exchanges/interfaces"
)

// Config is the top-level configuration document
type Config struct {
	Exchange  ExchangeConfig  `yaml:"exchange"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ExchangeConfig holds endpoints and credentials. Values may reference
// environment variables with ${VAR} syntax; they are expanded at load
// time.
type ExchangeConfig struct {
	BaseURL     string        `yaml:"base_url"`
	WSURL       string        `yaml:"ws_url"`
	APIKey      string        `yaml:"api_key"`
	APISecret   string        `yaml:"api_secret"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// RateLimitConfig caps the REST request rate
type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	Burst             int `yaml:"burst"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when a field is absent from the
// file
func Default() *Config {
	return &Config{
		Exchange: ExchangeConfig{
			HTTPTimeout: 15 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML configuration file, expanding ${VAR} references from
// the environment before parsing. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration bytes with environment expansion
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	config := Default()
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

// Options converts the configuration into exchange client options
func (c *Config) Options() *interfaces.ExchangeOptions {
	options := interfaces.NewExchangeOptions().
		WithCredentials(c.Exchange.APIKey, c.Exchange.APISecret).
		WithEndpoints(c.Exchange.BaseURL, c.Exchange.WSURL)

	if c.Exchange.HTTPTimeout > 0 {
		options.HTTPTimeout = c.Exchange.HTTPTimeout
	}
	if c.RateLimit.RequestsPerSecond > 0 {
		options.MaxRequestsPerSecond = c.RateLimit.RequestsPerSecond
	}
	if c.RateLimit.Burst > 0 {
		options.Burst = c.RateLimit.Burst
	}
	if c.Logging.Level != "" {
		options.LogLevel = c.Logging.Level
	}
	return options
}
