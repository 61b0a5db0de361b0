// Package fetch retrieves remote asset content over HTTP.
//
// The bundling core never talks to the network itself; it is handed a
// [TextFetcher]. This package provides the production implementation: a
// client with a fixed 5 second timeout and an identifying User-Agent, plus
// a caching wrapper that adds retry with exponential backoff and a
// pluggable cache backend. Retry deliberately lives here and not in the
// asset layer - a failed fetch is reported to the core exactly once.
package fetch

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/assetforge/assetforge/pkg/buildinfo"
	"github.com/assetforge/assetforge/pkg/errors"
)

// Timeout is the fixed upper bound for a single fetch. No retry or backoff
// happens inside the client itself.
const Timeout = 5 * time.Second

// TextFetcher retrieves the decoded text content behind a URL.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// IsURL reports whether s looks like a recognized remote locator.
// Only http:// and https:// are recognized.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Client fetches text over HTTP with a fixed timeout and User-Agent.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient creates a fetch client with the fixed 5 second timeout.
func NewClient() *Client {
	return &Client{
		http:      &http.Client{Timeout: Timeout},
		userAgent: "assetforge/" + buildinfo.Version,
	}
}

// FetchText performs a GET request and returns the response body as text.
// Transport failures and non-200 responses surface as FETCH_FAILED errors;
// timeouts as TIMEOUT. Server-side (5xx) failures are wrapped as
// retryable so that callers holding a retry policy can apply it.
func (c *Client) FetchText(ctx context.Context, url string) (string, error) {
	if !IsURL(url) {
		return "", errors.New(errors.ErrCodeUnsupportedSource, "not a fetchable URL: %s", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFetchFailed, err, "build request for %s", url)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", url)
		}
		return "", &RetryableError{Err: errors.Wrap(errors.ErrCodeFetchFailed, err, "fetch %s", url)}
	}
	defer resp.Body.Close()

	if err := checkStatus(url, resp.StatusCode); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFetchFailed, err, "read body of %s", url)
	}
	return string(body), nil
}

func checkStatus(url string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code >= 500:
		return &RetryableError{Err: errors.New(errors.ErrCodeFetchFailed, "fetch %s: status %d", url, code)}
	default:
		return errors.New(errors.ErrCodeFetchFailed, "fetch %s: status %d", url, code)
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return stderrors.Is(err, context.DeadlineExceeded)
}

// Ensure Client implements TextFetcher.
var _ TextFetcher = (*Client)(nil)
