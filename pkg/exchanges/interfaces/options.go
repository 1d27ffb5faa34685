package interfaces

import "time"

// ExchangeOptions defines configuration options for exchange clients.
// These options control authentication, endpoints and the performance
// characteristics of the client implementation.
type ExchangeOptions struct {
	// APIKey is the authentication key for the exchange API.
	// Required for authenticated endpoints (trading, account info).
	APIKey string

	// APISecret is the secret key paired with the API key, base64-encoded
	// as issued by the exchange. Required for signing authenticated requests.
	APISecret string

	// BaseURL overrides the exchange REST endpoint. Leave empty for the
	// exchange's production endpoint.
	BaseURL string

	// WSURL overrides the exchange WebSocket endpoint. Leave empty for the
	// exchange's production endpoint.
	WSURL string

	// HTTPTimeout specifies the maximum duration to wait for HTTP requests.
	// This applies to all REST API calls to the exchange.
	HTTPTimeout time.Duration

	// MaxRequestsPerSecond controls the sustained rate of API requests.
	// Implementations block callers to keep under this rate rather than
	// let the exchange throttle or ban the client.
	MaxRequestsPerSecond int

	// Burst is the number of requests allowed above the sustained rate
	// before callers start blocking.
	Burst int

	// LogLevel controls the verbosity of client logging.
	// Common values include: "debug", "info", "warn", "error"
	LogLevel string
}

// NewExchangeOptions returns default exchange options with reasonable values.
// These defaults can be used as a starting point and modified as needed.
//
// Default values:
// - HTTP timeout: 15 seconds
// - Max requests per second: 10
// - Burst: 5
// - Log level: "info"
//
// Example usage:
//
//	options := interfaces.NewExchangeOptions().
//		WithCredentials(os.Getenv("KRAKEN_API_KEY"), os.Getenv("KRAKEN_API_SECRET"))
//	client := kraken.NewClient(options)
func NewExchangeOptions() *ExchangeOptions {
	return &ExchangeOptions{
		HTTPTimeout:          15 * time.Second,
		MaxRequestsPerSecond: 10,
		Burst:                5,
		LogLevel:             "info",
	}
}

// WithCredentials sets the API key pair and returns the options for chaining
func (o *ExchangeOptions) WithCredentials(key, secret string) *ExchangeOptions {
	o.APIKey = key
	o.APISecret = secret
	return o
}

// WithEndpoints overrides the REST and WebSocket endpoints. Empty values
// keep the current endpoint.
func (o *ExchangeOptions) WithEndpoints(baseURL, wsURL string) *ExchangeOptions {
	if baseURL != "" {
		o.BaseURL = baseURL
	}
	if wsURL != "" {
		o.WSURL = wsURL
	}
	return o
}
