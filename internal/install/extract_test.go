package install

import (
	"archive/tar"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeArchive(t *testing.T, entries []tarEntry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.tar.gz")
	if err := os.WriteFile(path, buildTarGz(t, entries), 0644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

func TestTarGzExtractor(t *testing.T) {
	archive := writeArchive(t, []tarEntry{
		{name: "./", typeflag: tar.TypeDir},
		{name: "./pkg/", typeflag: tar.TypeDir},
		{name: "./pkg/sb0_runtime-1.0.0-py3-none-any.whl", body: "wheel"},
		{name: "./README", body: "readme"},
		{name: "./bin/tool", body: "#!/bin/sh\n", mode: 0755},
		{name: "./pkg/latest.whl", typeflag: tar.TypeSymlink, linkname: "sb0_runtime-1.0.0-py3-none-any.whl"},
	})

	dest := filepath.Join(t.TempDir(), "out")
	if err := NewTarGzExtractor().Extract(context.Background(), archive, dest); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if got := mustReadFile(t, filepath.Join(dest, "pkg", "sb0_runtime-1.0.0-py3-none-any.whl")); got != "wheel" {
		t.Errorf("wheel content = %q", got)
	}
	if got := mustReadFile(t, filepath.Join(dest, "README")); got != "readme" {
		t.Errorf("README content = %q", got)
	}
	info, err := os.Stat(filepath.Join(dest, "bin", "tool"))
	if err != nil {
		t.Fatalf("stat tool: %v", err)
	}
	if info.Mode().Perm()&0111 == 0 {
		t.Errorf("tool mode = %v, want executable", info.Mode())
	}
	if got := mustReadFile(t, filepath.Join(dest, "pkg", "latest.whl")); got != "wheel" {
		t.Errorf("symlink content = %q", got)
	}
}

func TestTarGzExtractorRejectsTraversal(t *testing.T) {
	tests := []struct {
		name    string
		entries []tarEntry
	}{
		{"parent path", []tarEntry{{name: "../escape.txt", body: "x"}}},
		{"nested parent path", []tarEntry{{name: "a/../../escape.txt", body: "x"}}},
		{"absolute symlink", []tarEntry{{name: "link", typeflag: tar.TypeSymlink, linkname: "/etc/passwd"}}},
		{"escaping symlink", []tarEntry{{name: "link", typeflag: tar.TypeSymlink, linkname: "../../outside"}}},
		{"chained symlinks", []tarEntry{
			{name: "a", typeflag: tar.TypeSymlink, linkname: "."},
			{name: "a/b", typeflag: tar.TypeSymlink, linkname: ".."},
			{name: "b/escape.txt", body: "x"},
		}},
		{"parent component through symlink", []tarEntry{
			{name: "d", typeflag: tar.TypeSymlink, linkname: "."},
			{name: "x", typeflag: tar.TypeSymlink, linkname: "d/../escape.txt"},
			{name: "x", body: "x"},
		}},
		{"escaping hardlink", []tarEntry{{name: "link", typeflag: tar.TypeLink, linkname: "../escape.txt"}}},
		{"hardlink through symlink", []tarEntry{
			{name: "up", typeflag: tar.TypeSymlink, linkname: "."},
			{name: "link", typeflag: tar.TypeLink, linkname: "up/../escape.txt"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := writeArchive(t, tt.entries)
			parent := t.TempDir()
			dest := filepath.Join(parent, "out")
			if err := os.WriteFile(filepath.Join(parent, "escape.txt"), []byte("original"), 0644); err != nil {
				t.Fatal(err)
			}

			err := NewTarGzExtractor().Extract(context.Background(), archive, dest)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "illegal") {
				t.Errorf("error = %v, want illegal path error", err)
			}
			if got := mustReadFile(t, filepath.Join(parent, "escape.txt")); got != "original" {
				t.Errorf("file outside destination changed to %q", got)
			}
		})
	}
}

func TestTarGzExtractorDoesNotFollowExistingSymlinks(t *testing.T) {
	parent := t.TempDir()
	dest := filepath.Join(parent, "out")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(parent, filepath.Join(dest, "up")); err != nil {
		t.Fatal(err)
	}

	archive := writeArchive(t, []tarEntry{{name: "up/escape.txt", body: "x"}})
	err := NewTarGzExtractor().Extract(context.Background(), archive, dest)
	if err == nil || !strings.Contains(err.Error(), "illegal") {
		t.Fatalf("Extract() error = %v, want illegal path error", err)
	}
	if fileExists(filepath.Join(parent, "escape.txt")) {
		t.Error("file escaped destination through existing symlink")
	}
}

func TestTarGzExtractorReplacesSymlinkWithFile(t *testing.T) {
	parent := t.TempDir()
	outside := filepath.Join(parent, "outside.txt")
	if err := os.WriteFile(outside, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(parent, "out")

	archive := writeArchive(t, []tarEntry{
		{name: "sub/", typeflag: tar.TypeDir},
		{name: "sub/inner.txt", body: "inner"},
		{name: "entry", typeflag: tar.TypeSymlink, linkname: "sub/inner.txt"},
		{name: "entry", body: "replaced"},
	})
	if err := NewTarGzExtractor().Extract(context.Background(), archive, dest); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	info, err := os.Lstat(filepath.Join(dest, "entry"))
	if err != nil {
		t.Fatal(err)
	}
	if !info.Mode().IsRegular() {
		t.Errorf("entry mode = %v, want regular file", info.Mode())
	}
	if got := mustReadFile(t, filepath.Join(dest, "sub", "inner.txt")); got != "inner" {
		t.Errorf("symlink target was written through: %q", got)
	}
	if got := mustReadFile(t, outside); got != "original" {
		t.Errorf("outside file changed to %q", got)
	}
}

func TestTarGzExtractorHardlinks(t *testing.T) {
	archive := writeArchive(t, []tarEntry{
		{name: "./pkg/", typeflag: tar.TypeDir},
		{name: "./pkg/a.whl", body: "wheel"},
		{name: "./pkg/b.whl", typeflag: tar.TypeLink, linkname: "./pkg/a.whl"},
	})

	dest := filepath.Join(t.TempDir(), "out")
	if err := NewTarGzExtractor().Extract(context.Background(), archive, dest); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if got := mustReadFile(t, filepath.Join(dest, "pkg", "b.whl")); got != "wheel" {
		t.Errorf("hardlink content = %q, want %q", got, "wheel")
	}
	a, err := os.Stat(filepath.Join(dest, "pkg", "a.whl"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.Stat(filepath.Join(dest, "pkg", "b.whl"))
	if err != nil {
		t.Fatal(err)
	}
	if !os.SameFile(a, b) {
		t.Error("b.whl is not a hardlink of a.whl")
	}
}

func TestTarGzExtractorHardlinkToMissingFile(t *testing.T) {
	archive := writeArchive(t, []tarEntry{
		{name: "b.whl", typeflag: tar.TypeLink, linkname: "a.whl"},
	})
	if err := NewTarGzExtractor().Extract(context.Background(), archive, filepath.Join(t.TempDir(), "out")); err == nil {
		t.Error("expected error for hardlink to missing file")
	}
}

func TestTarGzExtractorCorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tar.gz")
	if err := os.WriteFile(path, []byte("not gzip"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := NewTarGzExtractor().Extract(context.Background(), path, t.TempDir()); err == nil {
		t.Error("expected error for corrupt archive")
	}
	if err := NewTarGzExtractor().Extract(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir()); err == nil {
		t.Error("expected error for missing archive")
	}
}

func TestCommandExtractor(t *testing.T) {
	var gotName string
	var gotArgs []string
	run := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotName, gotArgs = name, args
		return nil, nil
	}

	if err := NewCommandExtractor(run).Extract(context.Background(), "/tmp/a.tar.gz", "/data/wheels/1.0.0"); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []string{"-xzf", "/tmp/a.tar.gz", "-C", "/data/wheels/1.0.0"}
	if gotName != "tar" || strings.Join(gotArgs, " ") != strings.Join(want, " ") {
		t.Errorf("ran %s %v, want tar %v", gotName, gotArgs, want)
	}

	failing := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("exit status 2")
	}
	if err := NewCommandExtractor(failing).Extract(context.Background(), "/tmp/a.tar.gz", "/x"); err == nil {
		t.Error("expected error from failing tar")
	}
}
