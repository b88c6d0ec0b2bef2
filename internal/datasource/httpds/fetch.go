package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// StatusError is a final non-2xx response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpds: GET %s: status %d", e.URL, e.Status)
}

// Fetch downloads url into dir under LocalName(url) and returns the path.
// The body is streamed to a temporary file that is renamed on success, so
// a failed download leaves nothing behind.
func (c *Client) Fetch(ctx context.Context, url, dir string) (string, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &StatusError{URL: url, Status: resp.StatusCode}
	}
	if resp.StatusCode == http.StatusNoContent {
		return "", fmt.Errorf("httpds: GET %s: empty response", url)
	}

	dst := filepath.Join(dir, LocalName(url))
	tmp, err := os.CreateTemp(dir, ".fetch-*")
	if err != nil {
		return "", fmt.Errorf("httpds: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("httpds: read body of %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("httpds: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("httpds: rename: %w", err)
	}
	return dst, nil
}
