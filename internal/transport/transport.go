// Package transport provides the HTTP clients the installer uses to read the
// release listing and download release assets.
//
// Three clients implement Client: curl and wget run the external tools, and
// the native client uses net/http. Select probes for an available client the
// same way regardless of which one ends up chosen, and every client applies
// the same Authorization header when a token is configured.
package transport

import (
	"context"
	"fmt"
)

// Client names accepted by Select.
const (
	KindAuto   = "auto"
	KindCurl   = "curl"
	KindWget   = "wget"
	KindNative = "native"
)

// Client fetches and downloads over HTTP.
type Client interface {
	// Name returns the client name ("curl", "wget" or "native").
	Name() string
	// Fetch reads the response body at url into memory.
	Fetch(ctx context.Context, url string) ([]byte, error)
	// Download streams the response body at url to destPath.
	Download(ctx context.Context, url, destPath string) error
}

// StatusError reports a non-2xx HTTP response from the native client.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.StatusCode, e.URL)
}
