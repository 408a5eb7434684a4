// Package config builds the installer's Config once at startup.
//
// Values are layered, lowest precedence first:
//
//  1. built-in defaults (repository, install directory, platform data directory)
//  2. an optional Lua file named by SB0_INSTALL_CONFIG
//  3. environment variables (GITHUB_REPO, INSTALL_DIR, SB0_* ...)
//  4. command-line flags, applied by the caller
//
// # Lua files
//
// The file runs in a sandboxed gopher-lua VM: os, io, require, dofile,
// loadfile, load, loadstring and debug are removed, and a read-only platform
// table describing the host is injected. The file must assign a global sb0
// table:
//
//	sb0 = {
//	  repo = "terminal-use/sb0-cli",
//	  install_dir = platform.is_macos and "/opt/homebrew/bin" or nil,
//	  http_client = "native",
//	  verify = { mode = "minisign", key = "/etc/sb0/release.pub" },
//	}
//
// Unset fields keep their defaults. GITHUB_TOKEN is never read from the file;
// a file that appears to contain a token is logged as a warning.
package config
