// Package fetch retrieves venue pages as HTML. Two fetchers share one
// interface: a plain HTTP fetcher for server-rendered sites (the default) and
// a headless-browser fetcher for venues whose listings only materialize after
// script execution.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher retrieves the HTML document at a URL. Implementations enforce
// their own hard timeout; a fetch that never returns is a defect, not a
// supported state.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

const (
	defaultTimeout = 20 * time.Second
	userAgent      = "kitchencar/1.0 (+schedule aggregation)"
)

// HTTPFetcher fetches pages with a timeout-bounded HTTP client.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTP returns an HTTPFetcher with the default timeout. client may be nil.
func NewHTTP(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPFetcher{Client: client}
}

// Fetch retrieves url and returns the response body. Non-2xx statuses and
// transport errors are returned as errors so the caller can retry.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return string(body), nil
}
