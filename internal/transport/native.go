package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/terminal-use/sb0-install/internal/fault"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Minute
	// DefaultRetries is the default number of download retries
	DefaultRetries = 2
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "sb0-install/1.0"
	// MaxFetchSize bounds in-memory Fetch reads.
	MaxFetchSize int64 = 16 << 20
)

// NativeClient handles HTTP requests with net/http and retries downloads
// with exponential backoff.
type NativeClient struct {
	client     *http.Client
	userAgent  string
	authHeader string
	retries    int
	backoff    time.Duration
}

// NewNativeClient creates a new net/http client.
func NewNativeClient(token string) *NativeClient {
	return &NativeClient{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent:  DefaultUserAgent,
		authHeader: AuthHeader(token),
		retries:    DefaultRetries,
		backoff:    time.Second,
	}
}

// Name returns "native".
func (c *NativeClient) Name() string {
	return KindNative
}

// SetRetries sets the number of download retries after the first attempt.
func (c *NativeClient) SetRetries(retries int) {
	if retries < 0 {
		retries = 0
	}
	c.retries = retries
}

// Fetch reads the response body at url, up to MaxFetchSize bytes.
func (c *NativeClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, fault.Wrap(fault.KindNetwork, "fetch", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchSize))
	if err != nil {
		return nil, fault.Wrap(fault.KindNetwork, "fetch", url, fmt.Errorf("read response body: %w", err))
	}
	return data, nil
}

// Download downloads url to destPath, retrying failed attempts.
func (c *NativeClient) Download(ctx context.Context, url, destPath string) error {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if ctx.Err() != nil {
			return fault.Wrap(fault.KindNetwork, "download", url, ctx.Err())
		}

		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := time.Duration(1<<uint(attempt-1)) * c.backoff
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return fault.Wrap(fault.KindNetwork, "download", url, ctx.Err())
			}
		}

		err := c.downloadOnce(ctx, url, destPath)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return fault.Wrap(fault.KindNetwork, "download", url, ctx.Err())
		}
		// A 4xx answer will not change on retry.
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 {
			break
		}
	}

	return fault.Wrap(fault.KindNetwork, "download", url, lastErr)
}

func (c *NativeClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return resp, nil
}

// downloadOnce performs a single download attempt, writing to a sibling
// temporary file and renaming it into place.
func (c *NativeClient) downloadOnce(ctx context.Context, url, destPath string) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}
