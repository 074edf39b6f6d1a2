// Package gateway is the uniform REST access point for every console page.
// One client, configured with the API base URL, attaches the session token
// to every request. Requests are at-most-once: no caching, no dedup, and no
// automatic retry on any failure.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/acml/acmlctl/internal/metrics"
	"github.com/google/uuid"
)

// TokenSource supplies the current session token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// Client issues JSON requests against the platform API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	metrics *metrics.Metrics
}

// New creates a gateway client. baseURL includes the API root prefix, e.g.
// "https://admin.acml.example/api".
func New(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// SetMetrics sets the optional metrics recorder.
func (c *Client) SetMetrics(m *metrics.Metrics) {
	c.metrics = m
}

// Get fetches path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends in as JSON and decodes the response into out (out may be nil).
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

// Put sends in as JSON and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

// Delete issues a DELETE; a 204 is the expected success response.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// GetBlob fetches a binary resource (e.g. a PDF receipt) and returns the
// payload along with the filename from the Content-Disposition header.
func (c *Client) GetBlob(ctx context.Context, path string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Del("Accept")

	resp, err := c.execute(req, path)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		return nil, "", c.statusError(resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}

	filename := ""
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			filename = params["filename"]
		}
	}

	return data, filename, nil
}

// maxBodySize bounds how much of a response body is read (8 MB).
const maxBodySize = 8 << 20

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.execute(req, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.statusError(resp.StatusCode, respBody)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	return req, nil
}

func (c *Client) execute(req *http.Request, path string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)

	if err != nil {
		if c.metrics != nil {
			c.metrics.IncTransportError(classifyTransportError(err))
		}
		slog.Debug("api request failed", "method", req.Method, "path", path, "error", err)
		return nil, fmt.Errorf("requesting %s %s: %w", req.Method, path, err)
	}

	if c.metrics != nil {
		c.metrics.ObserveRequest(req.Method, resourceLabel(path), resp.StatusCode, latency.Seconds())
	}
	slog.Debug("api request", "method", req.Method, "path", path, "status", resp.StatusCode, "duration_ms", latency.Milliseconds())
	return resp, nil
}

func (c *Client) statusError(statusCode int, body []byte) error {
	if statusCode == http.StatusUnauthorized && c.metrics != nil {
		c.metrics.IncAuthFailure()
	}
	return parseAPIError(statusCode, body)
}

// resourceLabel reduces a request path to its leading segment so metric
// cardinality stays bounded (e.g. "/members/members/42/" -> "members").
func resourceLabel(path string) string {
	trimmed := strings.TrimLeft(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i > 0 {
		return trimmed[:i]
	}
	return trimmed
}
