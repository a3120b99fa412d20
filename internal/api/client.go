package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:5000/api"

// Client talks to the CSV analyzer backend.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
	tokenSource func() string
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient  *http.Client
	logger      *slog.Logger
	timeout     time.Duration
	tokenSource func() string
}

// New creates a Client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("api: baseURL is required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	cfg := &clientConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.timeout > 0 {
		// Callers may share their client; set the timeout on a copy.
		cp := *httpClient
		cp.Timeout = cfg.timeout
		httpClient = &cp
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:     baseURL,
		httpClient:  httpClient,
		logger:      logger,
		tokenSource: cfg.tokenSource,
	}, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client. Zero keeps the platform default.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		if d < 0 {
			return fmt.Errorf("api: negative timeout %s", d)
		}
		cfg.timeout = d
		return nil
	}
}

// WithTokenSource attaches "Authorization: Bearer <token>" to every request
// for which fn returns a non-empty token.
func WithTokenSource(fn func() string) Option {
	return func(cfg *clientConfig) error {
		cfg.tokenSource = fn
		return nil
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// operation names an API call and the message used when a failure response
// carries no "error" field.
type operation struct {
	name     string
	fallback string
}

var (
	opHealth      = operation{"health", "Health check failed"}
	opUpload      = operation{"upload", "Upload failed"}
	opAnalyze     = operation{"analyze", "Analysis failed"}
	opValidate    = operation{"validate", "Validation failed"}
	opDownload    = operation{"download", "Download failed"}
	opFeedback    = operation{"feedback", "Feedback submission failed"}
	opLogin       = operation{"login", "Login failed"}
	opVerify      = operation{"verify token", "Token verification failed"}
	opListFiles   = operation{"list files", "Failed to list files"}
	opGetFileInfo = operation{"get file info", "Failed to get file info"}
)

// do sends the request and returns the response for 2xx statuses. The caller
// closes the body. Failure statuses are drained and mapped to *APIError.
func (c *Client) do(ctx context.Context, op operation, method, path, contentType string, body io.Reader) (*http.Response, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &TransportError{Operation: op.name, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokenSource != nil {
		if tok := c.tokenSource(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	c.logger.InfoContext(ctx, "API request", "operation", op.name, "method", method, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Operation: op.name, Err: err}
	}

	c.logger.DebugContext(ctx, "API response", "operation", op.name, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		msg := op.fallback
		var env errorBody
		if json.Unmarshal(respBody, &env) == nil && env.Error != "" {
			msg = env.Error
		}
		return nil, newAPIError(op.name, resp.StatusCode, msg)
	}
	return resp, nil
}

// doJSON sends in (when non-nil) as a JSON body and decodes the success
// response into dst.
func (c *Client) doJSON(ctx context.Context, op operation, method, path string, in, dst any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op.name, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, op, method, path, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeBody(op, resp.Body, dst)
}

func decodeBody(op operation, r io.Reader, dst any) error {
	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return &TransportError{Operation: op.name, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
