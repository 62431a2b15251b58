// Package api provides the Jira identity and Tempo worklog clients.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/keepgenius/jira-notify/internal/config"
	"github.com/keepgenius/jira-notify/internal/http"
	"github.com/keepgenius/jira-notify/internal/logging"
	"github.com/keepgenius/jira-notify/internal/version"
)

// maxErrorBody caps how much of an error response is kept for messages.
const maxErrorBody = 4096

// retryLogger implements the retryablehttp.LeveledLogger interface on top of zerolog
type retryLogger struct {
	logger *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

// ClientOptions is shared by the Jira and Tempo clients.
type ClientOptions struct {
	// BaseURL of the service, without trailing slash.
	BaseURL string

	// Timeout bounds one request. Zero means the default.
	Timeout time.Duration

	// Proxy settings for the underlying transport.
	Proxy config.ProxySettings

	// HTTPClient replaces the proxy-aware client, mainly for tests.
	HTTPClient *nethttp.Client

	Logger *logging.Logger
}

// baseClient holds what both clients need to issue requests.
type baseClient struct {
	httpClient *nethttp.Client
	baseURL    string
	logger     *logging.Logger
}

func newBaseClient(opts ClientOptions) (*baseClient, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		var err error
		httpClient, err = http.ConfigureHTTPClient(opts.Proxy, opts.Timeout, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
		}
	}

	// Failures are answered by the next poll cycle, never by an immediate retry
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = httpClient
	retryClient.RetryMax = 0
	retryClient.Logger = &retryLogger{logger: logger}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &baseClient{
		httpClient: retryClient.StandardClient(),
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		logger:     logger,
	}, nil
}

// get performs a GET and returns the response; the caller closes the body.
func (c *baseClient) get(ctx context.Context, path string, header nethttp.Header) (*nethttp.Response, error) {
	url := c.baseURL + path
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("path", path).Msg("Request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}

	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Request completed")

	return resp, nil
}

// readErrorBody returns the (truncated) response body for error messages.
func readErrorBody(resp *nethttp.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return strings.TrimSpace(string(body))
}

func decodeJSON(resp *nethttp.Response, v interface{}) error {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
