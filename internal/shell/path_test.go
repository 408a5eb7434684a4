package shell

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOnPath(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		path string
		want bool
	}{
		{"first entry", "/home/u/.local/bin", "/home/u/.local/bin:/usr/bin", true},
		{"last entry", "/home/u/.local/bin", "/usr/bin:/home/u/.local/bin", true},
		{"trailing slash", "/home/u/.local/bin", "/usr/bin:/home/u/.local/bin/", true},
		{"prefix is not a match", "/opt/bin", "/opt/bin2:/usr/bin", false},
		{"substring is not a match", "/bin", "/usr/bin:/usr/local/bin", false},
		{"empty path", "/usr/bin", "", false},
		{"empty entries", "/usr/bin", "::/usr/bin:", true},
		{"empty dir", "", "/usr/bin::", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OnPath(tt.dir, tt.path); got != tt.want {
				t.Errorf("OnPath(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
			}
		})
	}
}

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindShadowing(t *testing.T) {
	root := t.TempDir()
	installDir := filepath.Join(root, "install")
	otherDir := filepath.Join(root, "other")
	installed := writeExecutable(t, installDir, "sb0")
	other := writeExecutable(t, otherDir, "sb0")

	if got := FindShadowing("sb0", installed, installDir+":"+otherDir); got != "" {
		t.Errorf("installed first: FindShadowing() = %q, want empty", got)
	}
	if got := FindShadowing("sb0", installed, otherDir+":"+installDir); got != other {
		t.Errorf("other first: FindShadowing() = %q, want %q", got, other)
	}

	linkDir := filepath.Join(root, "links")
	if err := os.MkdirAll(linkDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(installed, filepath.Join(linkDir, "sb0")); err != nil {
		t.Fatal(err)
	}
	if got := FindShadowing("sb0", installed, linkDir+":"+otherDir); got != "" {
		t.Errorf("symlink to installed: FindShadowing() = %q, want empty", got)
	}

	nonExec := filepath.Join(root, "plain")
	if err := os.MkdirAll(nonExec, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nonExec, "sb0"), []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := FindShadowing("sb0", installed, nonExec+":"+installDir); got != "" {
		t.Errorf("non-executable file: FindShadowing() = %q, want empty", got)
	}
}
