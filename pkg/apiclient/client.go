package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/inkwell-press/console/pkg/observability"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token for protected requests.
type TokenSource interface {
	// Token returns the current access token, minting one when absent.
	// The second return is false when no session can be established.
	Token(ctx context.Context) (string, bool)
	// Refresh discards the cached token and mints a new one.
	Refresh(ctx context.Context) (string, bool)
}

// Client performs HTTP requests against the admin backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *observability.Logger
	metrics    *observability.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(logger *observability.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics enables request metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTracing wraps the transport with OpenTelemetry instrumentation.
func WithTracing() Option {
	return func(c *Client) {
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.httpClient.Transport = otelhttp.NewTransport(base)
	}
}

// New creates a backend client. The cookie jar is mandatory: the HTTP-only
// refresh cookie set by login must travel with refresh and logout requests.
func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: defaultTimeout,
		},
		logger: observability.NewLogger(observability.InfoLevel, nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetTokenSource wires the refresh coordinator in after construction.
// The coordinator needs the client for the refresh call itself, so the two
// are connected once both exist.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// Get performs a GET request and returns the raw JSON body.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request and returns the raw JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request and returns the raw JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE request and returns the raw JSON body.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// GetJSON performs a GET request and decodes the response into dest.
func (c *Client) GetJSON(ctx context.Context, path string, dest interface{}) error {
	raw, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// PostJSON performs a POST request and decodes the response into dest.
func (c *Client) PostJSON(ctx context.Context, path string, body, dest interface{}) error {
	raw, err := c.Post(ctx, path, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// do runs one authenticated request, refreshing and retrying once on 401.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	token := ""
	if c.tokens != nil {
		token, _ = c.tokens.Token(ctx)
	}

	status, respBody, err := c.send(ctx, method, path, payload, token)
	if err != nil {
		return nil, err
	}

	// A token can expire between acquisition and server-side validation.
	// One forced refresh converges on a live token; a second 401 means the
	// session is genuinely gone.
	if status == http.StatusUnauthorized && c.tokens != nil {
		if c.metrics != nil {
			c.metrics.APIRetriesTotal.Inc()
		}
		fresh, ok := c.tokens.Refresh(ctx)
		if !ok {
			return nil, newAPIError(status, respBody)
		}
		c.logger.WithField("path", path).Debug("retrying request with refreshed token")
		status, respBody, err = c.send(ctx, method, path, payload, fresh)
		if err != nil {
			return nil, err
		}
	}

	if status < 200 || status > 299 {
		return nil, newAPIError(status, respBody)
	}
	return respBody, nil
}

// send performs a single HTTP round trip.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.metrics != nil {
			c.metrics.APIRequestsTotal.WithLabelValues(method, "error").Inc()
		}
		return 0, nil, fmt.Errorf("%s: %w", genericFailure, err)
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.APIRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
		c.metrics.APIRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
