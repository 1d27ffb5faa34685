package common

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/veiloq/kraken-connector/pkg/logging"
	"github.com/veiloq/kraken-connector/pkg/ratelimit"
)

// sensitiveHeaders are never written to logs, even at debug level
var sensitiveHeaders = []string{"API-Key", "API-Sign", "Authorization"}

// DebugClientConfig holds configuration for the HTTP debug client
type DebugClientConfig struct {
	// Inherits the base client configuration
	*ClientConfig

	// Debug-specific settings
	LogRequestBody  bool
	LogResponseBody bool

	// Maximum size of request/response body to log (to avoid massive logs)
	MaxBodyLogSize int
}

// DefaultDebugConfig returns a default debug client configuration
func DefaultDebugConfig() *DebugClientConfig {
	return &DebugClientConfig{
		ClientConfig:    DefaultConfig(),
		LogRequestBody:  true,
		LogResponseBody: true,
		MaxBodyLogSize:  4096, // 4KB max by default
	}
}

// NewDebugHTTPClient creates a new HTTP client with verbose debug logging.
// Authentication headers are redacted before anything reaches the log.
func NewDebugHTTPClient(config *DebugClientConfig) HTTPClient {
	if config == nil {
		config = DefaultDebugConfig()
	}

	// Create zap logger with debug level if not specified
	_, isZapLogger := config.Logger.(*logging.ZapLogger)
	if !isZapLogger {
		config.Logger = logging.NewZapLogger(
			logging.WithDebugLevel(),
			logging.WithDevelopmentMode(),
		)
	}

	return &debugClient{
		client: NewHTTPClient(config.ClientConfig).(*client),
		config: config,
	}
}

// debugClient implements the HTTPClient interface with additional debug logging
type debugClient struct {
	client *client
	config *DebugClientConfig
}

// Do implements HTTPClient interface with debug logging
func (c *debugClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()

	c.logRequest(req)

	resp, err := c.client.Do(ctx, req)

	duration := time.Since(start)
	if err != nil {
		c.logError(req, err, duration)
		return nil, err
	}

	c.logResponse(req, resp, duration)
	return resp, nil
}

// Get implements HTTPClient interface
func (c *debugClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	return c.Do(ctx, req)
}

// PostForm implements HTTPClient interface
func (c *debugClient) PostForm(ctx context.Context, url, body string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url,
		bytes.NewReader([]byte(body)))
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
func (c *debugClient) SetRateLimit(limit ratelimit.Rate) error {
	return c.client.SetRateLimit(limit)
}

// redactedClone returns a shallow copy of req whose sensitive headers are
// masked, safe to dump into logs.
func redactedClone(req *http.Request) *http.Request {
	clone := new(http.Request)
	*clone = *req
	clone.Header = req.Header.Clone()
	for _, name := range sensitiveHeaders {
		if clone.Header.Get(name) != "" {
			clone.Header.Set(name, "[redacted]")
		}
	}
	return clone
}

// logRequest logs detailed information about the HTTP request
func (c *debugClient) logRequest(req *http.Request) {
	logger := c.client.logger
	dumpTarget := redactedClone(req)

	var reqDump []byte
	var err error

	if c.config.LogRequestBody && req.Body != nil {
		bodyBytes, bodyErr := io.ReadAll(req.Body)
		if bodyErr != nil {
			logger.Warn("failed to read request body for logging",
				logging.Error(bodyErr))
		} else {
			logBody := bodyBytes
			if len(bodyBytes) > c.config.MaxBodyLogSize {
				logBody = bodyBytes[:c.config.MaxBodyLogSize]
			}

			reqDump, err = httputil.DumpRequestOut(dumpTarget, false)
			if err == nil {
				reqDump = append(reqDump, "\r\n"...)
				reqDump = append(reqDump, logBody...)
			}

			// Restore the body for the actual request
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	} else {
		reqDump, err = httputil.DumpRequestOut(dumpTarget, false)
	}

	if err != nil {
		logger.Warn("failed to dump request for logging",
			logging.Error(err))
	}

	logger.Debug("http request",
		logging.String("method", req.Method),
		logging.String("url", req.URL.String()),
		logging.String("host", req.Host),
		logging.Int("headers", len(req.Header)),
		logging.String("dump", string(reqDump)))
}

// logResponse logs detailed information about the HTTP response
func (c *debugClient) logResponse(req *http.Request, resp *http.Response, duration time.Duration) {
	logger := c.client.logger

	var respDump []byte
	var err error

	if c.config.LogResponseBody && resp.Body != nil {
		bodyBytes, bodyErr := io.ReadAll(resp.Body)
		if bodyErr != nil {
			logger.Warn("failed to read response body for logging",
				logging.Error(bodyErr))
		} else {
			logBody := bodyBytes
			if len(bodyBytes) > c.config.MaxBodyLogSize {
				logBody = bodyBytes[:c.config.MaxBodyLogSize]
			}

			respDump, err = httputil.DumpResponse(resp, false)
			if err == nil {
				respDump = append(respDump, "\r\n"...)
				respDump = append(respDump, logBody...)
			}

			// Restore the body for the caller
			resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	} else {
		respDump, err = httputil.DumpResponse(resp, false)
	}

	if err != nil {
		logger.Warn("failed to dump response for logging",
			logging.Error(err))
	}

	logger.Debug("http response",
		logging.String("method", req.Method),
		logging.String("url", req.URL.String()),
		logging.Int("status", resp.StatusCode),
		logging.String("status_text", resp.Status),
		logging.Int("headers", len(resp.Header)),
		logging.Duration("duration", duration),
		logging.String("dump", string(respDump)))
}

// logError logs detailed information about an HTTP error
func (c *debugClient) logError(req *http.Request, err error, duration time.Duration) {
	c.client.logger.Error("http request failed",
		logging.String("method", req.Method),
		logging.String("url", req.URL.String()),
		logging.Duration("duration", duration),
		logging.Error(err))
}
