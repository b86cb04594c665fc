package sparql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/roach88/ontomig/internal/shape"
	"github.com/roach88/ontomig/internal/update"
)

// DefaultTimeout bounds every request when no http.Client is supplied.
const DefaultTimeout = 60 * time.Second

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Signer signs an outgoing request whose body is body.
type Signer interface {
	Sign(ctx context.Context, req *http.Request, body []byte) error
}

// Client talks to one SPARQL endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	signer   Signer
	user     string
	password string
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithSigner signs every request with s.
func WithSigner(s Signer) Option {
	return func(c *Client) { c.signer = s }
}

// WithBasicAuth sends HTTP basic credentials.
func WithBasicAuth(user, password string) Option {
	return func(c *Client) {
		c.user = user
		c.password = password
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the endpoint at baseURL + "/sparql".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/sparql",
		http:     &http.Client{Timeout: DefaultTimeout},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string { return c.endpoint }

// Select runs a SELECT query and decodes the JSON results.
func (c *Client) Select(ctx context.Context, query string) (*Results, error) {
	body, err := c.post(ctx, "query", query, "application/sparql-results+json")
	if err != nil {
		return nil, err
	}
	var res Results
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return &res, nil
}

// Update runs one SPARQL Update request and returns the raw response body.
func (c *Client) Update(ctx context.Context, stmt string) ([]byte, error) {
	return c.post(ctx, "update", stmt, "application/json")
}

// Apply renders and runs st.
func (c *Client) Apply(ctx context.Context, st update.Statement) ([]byte, error) {
	return c.Update(ctx, st.String())
}

// CountShape counts the solutions of the shape's query on the endpoint.
func (c *Client) CountShape(ctx context.Context, s shape.Shape) (int, error) {
	res, err := c.Select(ctx, s.Query())
	if err != nil {
		return 0, err
	}
	return len(res.Results.Bindings), nil
}

func (c *Client) post(ctx context.Context, field, text, accept string) ([]byte, error) {
	payload := []byte(url.Values{field: {text}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", accept)
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}
	if c.signer != nil {
		if err := c.signer.Sign(ctx, req, payload); err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sparql %s: %w", field, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("sparql request",
		"kind", field,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
