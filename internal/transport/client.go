// Package transport provides the HTTP client shared by the listing fetchers.
package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/agentstation/shelf/pkg/constants"
	"github.com/agentstation/shelf/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 32 << 20

// Client performs GET requests against a listing source.
type Client struct {
	http      *http.Client
	userAgent string
	headers   http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Add(key, value)
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a new transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent: constants.DefaultUserAgent,
		headers:   make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request with the client's headers applied.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("User-Agent", c.userAgent)
	return c.http.Do(req)
}

// Get fetches url and returns its body. page is only used to label errors.
// Non-2xx responses become a FetchError carrying the status code.
func (c *Client) Get(ctx context.Context, url string, page int, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.WrapFetch(url, page, ctx.Err())
		}
		return nil, errors.WrapFetch(url, page, err)
	}

	body, err := ReadBody(resp)
	if err != nil {
		return nil, errors.WrapFetch(url, page, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewFetchError(url, page, resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

// ReadBody reads and closes a response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
