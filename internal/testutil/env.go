// Package testutil provides utilities for testing the installer in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env describes the isolated directories created by SetupTestEnv.
type Env struct {
	Root       string
	Home       string
	InstallDir string
	DataDir    string
}

// SetupTestEnv points every variable the installer reads at a fresh
// temporary tree, so tests never touch the user's install or data
// directories, never pick up a real token, and never read a config file.
// t.TempDir removes the tree after the test.
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := &Env{
		Root:       tmpDir,
		Home:       filepath.Join(tmpDir, "home"),
		InstallDir: filepath.Join(tmpDir, "home", ".local", "bin"),
		DataDir:    filepath.Join(tmpDir, "home", ".local", "share", "sb0"),
	}

	t.Setenv("HOME", env.Home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(env.Home, ".local", "share"))
	t.Setenv("INSTALL_DIR", env.InstallDir)
	t.Setenv("SB0_DATA_DIR", env.DataDir)

	for _, name := range []string{
		"GITHUB_TOKEN",
		"GITHUB_REPO",
		"SB0_VERSION",
		"SB0_WHEELS_DIR",
		"SB0_TEMPLATE_DIR",
		"SB0_HTTP_CLIENT",
		"SB0_VERIFY",
		"SB0_VERIFY_KEY",
		"SB0_API_URL",
		"SB0_DOWNLOAD_URL",
		"SB0_INSTALL_CONFIG",
		"SB0_DEBUG",
	} {
		t.Setenv(name, "")
	}

	if err := os.MkdirAll(env.Home, 0o750); err != nil {
		t.Fatalf("failed to create test directory %s: %v", env.Home, err)
	}

	return env
}
