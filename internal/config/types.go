package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/terminal-use/sb0-install/internal/install"
	"github.com/terminal-use/sb0-install/internal/transport"
)

// Config is the installer configuration, built once by Load and passed to
// every stage.
type Config struct {
	// Repo is the GitHub "owner/name" hosting releases.
	Repo       string
	InstallDir string
	// Token authenticates API and download requests; never logged.
	Token string
	// Version is the requested release; empty resolves the latest.
	Version string

	DataDir      string
	WheelsDir    string
	TemplatesDir string

	// HTTPClient is one of auto, curl, wget or native.
	HTTPClient string
	VerifyMode install.VerifyMode
	VerifyKey  string

	// APIURL replaces the GitHub API base.
	APIURL string
	// DownloadURL replaces the release download base.
	DownloadURL string

	// ConfigFile is the Lua file that was applied, if any.
	ConfigFile string
}

// File holds the values set by a Lua config file. Empty strings are unset.
type File struct {
	Repo         string
	InstallDir   string
	DataDir      string
	WheelsDir    string
	TemplatesDir string
	Version      string
	HTTPClient   string
	APIURL       string
	DownloadURL  string
	VerifyMode   string
	VerifyKey    string
}

// Authenticated reports whether a token is configured.
func (c *Config) Authenticated() bool {
	return c.Token != ""
}

// Validate performs basic validation on a Config.
func (c *Config) Validate() error {
	if err := validateRepo(c.Repo); err != nil {
		return &ValidationError{Field: "repo", Message: err.Error()}
	}

	for _, dir := range []struct{ field, path string }{
		{"install_dir", c.InstallDir},
		{"data_dir", c.DataDir},
		{"wheels_dir", c.WheelsDir},
		{"templates_dir", c.TemplatesDir},
	} {
		if dir.path == "" {
			return &ValidationError{Field: dir.field, Message: "path cannot be empty"}
		}
		if !filepath.IsAbs(dir.path) {
			return &ValidationError{Field: dir.field, Message: fmt.Sprintf("path must be absolute: %s", dir.path)}
		}
	}

	switch c.HTTPClient {
	case transport.KindAuto, transport.KindCurl, transport.KindWget, transport.KindNative:
	default:
		return &ValidationError{
			Field:   "http_client",
			Message: fmt.Sprintf("unknown HTTP client %q (supported: auto, curl, wget, native)", c.HTTPClient),
		}
	}

	if _, err := install.ParseVerifyMode(string(c.VerifyMode)); err != nil {
		return &ValidationError{Field: "verify", Message: err.Error()}
	}
	if c.VerifyMode.NeedsKey() && c.VerifyKey == "" {
		return &ValidationError{
			Field:   "verify",
			Message: fmt.Sprintf("verify mode %s requires %s", c.VerifyMode, EnvVerifyKey),
		}
	}

	for _, base := range []struct{ field, value string }{
		{"api_url", c.APIURL},
		{"download_url", c.DownloadURL},
	} {
		if err := validateBaseURL(base.value); err != nil {
			return &ValidationError{Field: base.field, Message: err.Error()}
		}
	}

	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

func validateRepo(repo string) error {
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	if !repoPattern.MatchString(repo) || strings.Contains(repo, "..") {
		return fmt.Errorf("invalid repository %q (expected owner/name)", repo)
	}
	return nil
}

// validateBaseURL validates an API or download base URL.
func validateBaseURL(base string) error {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL must use https:// or http:// scheme (got: %q)", base)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host: %q", base)
	}
	return nil
}
