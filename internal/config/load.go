package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/terminal-use/sb0-install/internal/install"
	"github.com/terminal-use/sb0-install/internal/platform"
	"github.com/terminal-use/sb0-install/internal/release"
	"github.com/terminal-use/sb0-install/internal/transport"
)

// Options controls Load.
type Options struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	// GOOS selects the data directory layout ("darwin" or "linux").
	GOOS string
	// Detector feeds the platform table of a Lua config file.
	Detector platform.Detector
	Logger   Logger
}

// Load builds a Config from defaults, the Lua file named by
// SB0_INSTALL_CONFIG, and the environment, then validates it.
func Load(ctx context.Context, opts Options) (*Config, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	logger := opts.Logger
	if logger == nil {
		logger = defaultLogger()
	}

	home := getenv(EnvHome)
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
	}

	cfg := &Config{
		Repo:        DefaultRepo,
		InstallDir:  filepath.Join(home, ".local", "bin"),
		DataDir:     DefaultDataDir(opts.GOOS, home, getenv(EnvXDGDataHome)),
		HTTPClient:  transport.KindAuto,
		VerifyMode:  install.VerifyNone,
		APIURL:      release.DefaultAPIBase,
		DownloadURL: install.DefaultDownloadBase,
	}

	// Wheels and templates default to sub-directories of the final data
	// directory, so they are resolved after every layer.
	var wheels, templates string

	if path := getenv(EnvConfigFile); path != "" {
		file, err := NewParser(opts.Detector).WithLogger(logger).ParseFile(ctx, expandHome(path, home))
		if err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
		logger.Debug("applied config file", "path", path)
		cfg.ConfigFile = path
		wheels, templates = cfg.applyFile(file, home)
	}

	if v := getenv(EnvWheelsDir); v != "" {
		wheels = v
	}
	if v := getenv(EnvTemplatesDir); v != "" {
		templates = v
	}
	cfg.applyEnv(getenv, home)

	cfg.WheelsDir = expandHome(wheels, home)
	cfg.TemplatesDir = expandHome(templates, home)
	for _, dir := range []*string{&cfg.InstallDir, &cfg.DataDir, &cfg.WheelsDir, &cfg.TemplatesDir} {
		abs, err := absPath(*dir)
		if err != nil {
			return nil, err
		}
		*dir = abs
	}

	if cfg.WheelsDir == "" {
		cfg.WheelsDir = filepath.Join(cfg.DataDir, "wheels")
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = filepath.Join(cfg.DataDir, "templates")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile copies the set values of file into c and returns the wheels and
// templates overrides.
func (c *Config) applyFile(file *File, home string) (wheels, templates string) {
	setString(&c.Repo, file.Repo)
	setString(&c.InstallDir, expandHome(file.InstallDir, home))
	setString(&c.DataDir, expandHome(file.DataDir, home))
	setString(&c.Version, file.Version)
	setString(&c.HTTPClient, strings.ToLower(file.HTTPClient))
	setString(&c.APIURL, file.APIURL)
	setString(&c.DownloadURL, file.DownloadURL)
	if file.VerifyMode != "" {
		c.VerifyMode = install.VerifyMode(strings.ToLower(file.VerifyMode))
	}
	setString(&c.VerifyKey, expandHome(file.VerifyKey, home))
	return file.WheelsDir, file.TemplatesDir
}

func (c *Config) applyEnv(getenv func(string) string, home string) {
	setString(&c.Repo, getenv(EnvRepo))
	setString(&c.InstallDir, expandHome(getenv(EnvInstallDir), home))
	setString(&c.DataDir, expandHome(getenv(EnvDataDir), home))
	setString(&c.Version, getenv(EnvVersion))
	setString(&c.HTTPClient, strings.ToLower(getenv(EnvHTTPClient)))
	setString(&c.APIURL, getenv(EnvAPIURL))
	setString(&c.DownloadURL, getenv(EnvDownloadURL))
	if v := getenv(EnvVerify); v != "" {
		c.VerifyMode = install.VerifyMode(strings.ToLower(strings.TrimSpace(v)))
	}
	setString(&c.VerifyKey, expandHome(getenv(EnvVerifyKey), home))

	c.Token = getenv(EnvToken)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// DefaultDataDir returns the platform data directory for sb0:
// ~/Library/Application Support/sb0 on macOS, $XDG_DATA_HOME/sb0 or
// ~/.local/share/sb0 elsewhere.
func DefaultDataDir(goos, home, xdgDataHome string) string {
	switch goos {
	case "darwin", platform.OSMacOS:
		return filepath.Join(home, "Library", "Application Support", "sb0")
	default:
		if xdgDataHome != "" && filepath.IsAbs(xdgDataHome) {
			return filepath.Join(xdgDataHome, "sb0")
		}
		return filepath.Join(home, ".local", "share", "sb0")
	}
}

// absPath resolves a relative directory against the working directory.
// Empty paths are left for the caller's defaults.
func absPath(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}

// expandHome expands a leading "~/" to home.
func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
