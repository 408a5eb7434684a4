package shell

import (
	"context"
	"testing"
)

func TestParseShellFromPath(t *testing.T) {
	tests := []struct {
		path string
		want ShellType
	}{
		{"/bin/bash", ShellBash},
		{"/usr/bin/zsh", ShellZsh},
		{"/usr/local/bin/fish", ShellFish},
		{"/opt/homebrew/bin/ZSH", ShellZsh},
		{"-zsh", ShellZsh},
		{"bash", ShellBash},
		{"/bin/tcsh", ShellUnknown},
		{"/bin/sh", ShellUnknown},
		{"", ShellUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := parseShellFromPath(tt.path); got != tt.want {
				t.Errorf("parseShellFromPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDetectShellFromEnv(t *testing.T) {
	got := DetectShell(context.Background(), "/usr/bin/fish")
	if got.Shell != ShellFish {
		t.Errorf("Shell = %v, want fish", got.Shell)
	}
	if got.Method != "$SHELL environment variable" {
		t.Errorf("Method = %q", got.Method)
	}
	if got.ShellPath != "/usr/bin/fish" {
		t.Errorf("ShellPath = %q", got.ShellPath)
	}
}

func TestDetectShellFallback(t *testing.T) {
	// The parent of a test binary is not guaranteed to be a shell, so only the
	// result shape is checked.
	got := DetectShell(context.Background(), "/bin/tcsh")
	if got == nil {
		t.Fatal("DetectShell() = nil")
	}
	if got.Shell != ShellUnknown && got.Method != "parent process" {
		t.Errorf("Shell = %v via %q, want parent process detection", got.Shell, got.Method)
	}
}

func TestShellTypeIsValid(t *testing.T) {
	for _, s := range []ShellType{ShellBash, ShellZsh, ShellFish} {
		if !s.IsValid() {
			t.Errorf("%s.IsValid() = false", s)
		}
	}
	if ShellUnknown.IsValid() || ShellType("csh").IsValid() {
		t.Error("unsupported shells reported valid")
	}
}
