package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/veiloq/kraken-connector/pkg/logging"
	"github.com/veiloq/kraken-connector/pkg/ratelimit"
)

// HTTPClient defines the interface for making rate-limited HTTP requests.
//
// Every request consumes exactly one rate-limit token and is attempted
// exactly once. Exchange requests are not safe to replay blindly (a retried
// order submission can fill twice), so callers that want retries layer them
// on top with their own idempotency handling.
type HTTPClient interface {
	// Do executes an HTTP request after acquiring a rate-limit token
	Do(ctx context.Context, req *http.Request) (*http.Response, error)

	// Get is a convenience method for making GET requests
	Get(ctx context.Context, url string) (*http.Response, error)

	// PostForm is a convenience method for making POST requests with a
	// url-encoded form body. The body string is sent byte-for-byte as
	// given; callers that sign the body rely on that.
	PostForm(ctx context.Context, url, body string, header http.Header) (*http.Response, error)

	// SetRateLimit updates the rate limiter configuration
	SetRateLimit(limit ratelimit.Rate) error
}

// ClientConfig holds configuration for the HTTP client
type ClientConfig struct {
	Timeout   time.Duration
	RateLimit ratelimit.Rate

	// Optional logger
	Logger logging.Logger
}

// DefaultConfig returns a default client configuration
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Timeout: 30 * time.Second,
		RateLimit: ratelimit.Rate{
			Limit:    10,
			Interval: time.Second,
			Burst:    5,
		},
		Logger: logging.NewLogger(),
	}
}

// client implements the HTTPClient interface
type client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    ratelimit.RateLimiter
	logger     logging.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config *ClientConfig) HTTPClient {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = logging.NewLogger()
	}

	return &client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: ratelimit.NewTokenBucketLimiter(config.RateLimit),
		logger:  config.Logger,
	}
}

// Do implements HTTPClient interface
func (c *client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	// Block until a token is available. A cancelled context surfaces here
	// before any bytes leave the process.
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait error: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request error: %w", err)
	}
	return resp, nil
}

// Get implements HTTPClient interface
func (c *client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	return c.Do(ctx, req)
}

// PostForm implements HTTPClient interface
func (c *client) PostForm(ctx context.Context, url, body string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url,
		strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	return c.Do(ctx, req)
}

// SetRateLimit implements HTTPClient interface
func (c *client) SetRateLimit(limit ratelimit.Rate) error {
	return c.limiter.SetLimit(limit)
}
