package gtfsrt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Client fetches feeds over HTTP or from local files.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client with the given request timeout. Zero means no timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// IsURL reports whether src should be fetched over HTTP
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Fetch returns the raw bytes behind src, which is either an http(s) URL
// or a file path. Returns nil if src is empty (allows optional feeds).
func (c *Client) Fetch(ctx context.Context, src string) ([]byte, error) {
	if src == "" {
		return nil, nil
	}
	if !IsURL(src) {
		b, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", src, err)
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", src, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, src)
	}

	return io.ReadAll(resp.Body)
}

// FetchAll fetches every source in order and stops at the first failure.
func (c *Client) FetchAll(ctx context.Context, srcs ...string) ([][]byte, error) {
	out := make([][]byte, 0, len(srcs))
	for _, src := range srcs {
		b, err := c.Fetch(ctx, src)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
