package imaging

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultFetchTimeout bounds a single remote image download.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultMaxFetchBytes caps the size of a downloaded image.
	DefaultMaxFetchBytes int64 = 32 << 20
)

// FetchOptions configures remote image downloads.
type FetchOptions struct {
	// Timeout is the per-request timeout. If zero, DefaultFetchTimeout is used.
	Timeout time.Duration

	// MaxBytes is the largest accepted response body. If zero,
	// DefaultMaxFetchBytes is used.
	MaxBytes int64

	// UserAgent is sent with every request.
	UserAgent string
}

// fetch retrieves a URL with context and timeout support and returns the
// response body.
func fetch(ctx context.Context, client *http.Client, url string, opts FetchOptions) ([]byte, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultFetchTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxFetchBytes
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxBytes)
	}

	return data, nil
}
