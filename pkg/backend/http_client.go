package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ClientConfig contains configuration for one HTTP backend client.
type ClientConfig struct {
	// Name is a short label for logs and the status endpoint.
	Name string

	// BaseURL is the upstream content source endpoint,
	// e.g. "https://cdn.example.com".
	BaseURL string

	// Timeout bounds a single upstream request (resolve or chunk fetch).
	Timeout time.Duration

	// MaxIdleConns and MaxIdleConnsPerHost tune the shared transport.
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// HTTPClient is a backend client that speaks plain HTTP to the content
// source: object metadata from a JSON endpoint, chunk data via ranged GETs.
type HTTPClient struct {
	id     int
	config ClientConfig
	client *http.Client
}

// NewHTTPClient creates an HTTP backend client with its own pooled transport.
func NewHTTPClient(id int, config ClientConfig) (*HTTPClient, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("backend %q: base URL is required", config.Name)
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("backend %q: invalid base URL: %w", config.Name, err)
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPClient{
		id:     id,
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}, nil
}

// ID returns the client's position in the configured pool.
func (c *HTTPClient) ID() int {
	return c.id
}

// Name returns the client's configured name.
func (c *HTTPClient) Name() string {
	return c.config.Name
}

// HealthCheck verifies the upstream endpoint answers at all.
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.config.BaseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Backend: c.config.Name, Op: "connect", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &TransportError{
			Backend: c.config.Name,
			Op:      "connect",
			Cause:   fmt.Errorf("upstream status %d", resp.StatusCode),
		}
	}
	return nil
}

// NewSession opens a streaming session. The session shares the client's
// pooled transport; opening it verifies the upstream is reachable so a
// broken backend surfaces at session-construction time, not mid-stream.
func (c *HTTPClient) NewSession(ctx context.Context) (Session, error) {
	if err := c.HealthCheck(ctx); err != nil {
		return nil, err
	}

	slog.Debug("backend session opened", "backend", c.config.Name, "id", c.id)

	return &httpSession{client: c}, nil
}

// httpSession is the Session implementation backed by an HTTPClient.
type httpSession struct {
	client *HTTPClient
}

// metaResponse is the upstream metadata document.
type metaResponse struct {
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	Name     string `json:"name"`
}

// Resolve fetches object metadata from the upstream metadata endpoint.
func (s *httpSession) Resolve(ctx context.Context, handle string) (*ObjectMetadata, error) {
	endpoint := s.client.config.BaseURL + "/meta/" + url.PathEscape(handle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Backend: s.client.config.Name, Op: "resolve", Cause: err}
	}

	resp, err := s.client.client.Do(req)
	if err != nil {
		return nil, &TransportError{Backend: s.client.config.Name, Op: "resolve", Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &ObjectNotFoundError{Handle: handle}
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusUnauthorized:
		return nil, &InvalidHandleError{Handle: handle, Message: "rejected by content source"}
	case resp.StatusCode != http.StatusOK:
		return nil, &TransportError{
			Backend: s.client.config.Name,
			Op:      "resolve",
			Cause:   fmt.Errorf("upstream status %d", resp.StatusCode),
		}
	}

	var meta metaResponse
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, &TransportError{Backend: s.client.config.Name, Op: "resolve", Cause: err}
	}
	if meta.Size < 0 {
		return nil, &TransportError{
			Backend: s.client.config.Name,
			Op:      "resolve",
			Cause:   fmt.Errorf("upstream reported negative size %d", meta.Size),
		}
	}

	return &ObjectMetadata{
		Size:        meta.Size,
		MimeType:    meta.MimeType,
		DisplayName: meta.Name,
	}, nil
}

// FetchChunk issues a ranged GET for one chunk. The final chunk of an object
// may come back shorter than size; that is passed through as-is.
func (s *httpSession) FetchChunk(ctx context.Context, handle string, offset, size int64) ([]byte, error) {
	endpoint := s.client.config.BaseURL + "/objects/" + url.PathEscape(handle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Backend: s.client.config.Name, Op: "fetch", Cause: err}
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+size-1))

	resp, err := s.client.client.Do(req)
	if err != nil {
		return nil, &TransportError{Backend: s.client.config.Name, Op: "fetch", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return nil, &TransportError{
			Backend: s.client.config.Name,
			Op:      "fetch",
			Cause:   fmt.Errorf("upstream status %d for offset %d", resp.StatusCode, offset),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, size))
	if err != nil {
		return nil, &TransportError{Backend: s.client.config.Name, Op: "fetch", Cause: err}
	}
	return data, nil
}

// Close releases nothing beyond the shared transport, which belongs to the
// client and outlives the session.
func (s *httpSession) Close() error {
	return nil
}
