package install

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// tarEntry describes one archive member for buildTarGz.
type tarEntry struct {
	name     string
	body     string
	typeflag byte
	linkname string
	mode     int64
}

// buildTarGz returns a gzip-compressed tar archive containing entries.
func buildTarGz(t *testing.T, entries []tarEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		typeflag := e.typeflag
		if typeflag == 0 {
			typeflag = tar.TypeReg
		}
		mode := e.mode
		if mode == 0 {
			mode = 0644
			if typeflag == tar.TypeDir {
				mode = 0755
			}
		}
		hdr := &tar.Header{
			Name:     e.name,
			Typeflag: typeflag,
			Linkname: e.linkname,
			Mode:     mode,
			Size:     int64(len(e.body)),
		}
		if typeflag != tar.TypeReg {
			hdr.Size = 0
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write tar header %s: %v", e.name, err)
		}
		if typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatalf("write tar body %s: %v", e.name, err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	return buf.Bytes()
}

// fakeClient serves downloads from an in-memory map keyed by URL suffix
// (the release filename) and records every request.
type fakeClient struct {
	mu       sync.Mutex
	files    map[string][]byte
	failures map[string]error
	requests []string
}

func newFakeClient(files map[string][]byte) *fakeClient {
	return &fakeClient{files: files, failures: map[string]error{}}
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	return nil, fmt.Errorf("fetch not supported")
}

func (f *fakeClient) Download(ctx context.Context, url, destPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, url)

	name := url[strings.LastIndex(url, "/")+1:]
	if err, ok := f.failures[name]; ok {
		return err
	}
	data, ok := f.files[name]
	if !ok {
		return fmt.Errorf("404 for %s", name)
	}
	return os.WriteFile(destPath, data, 0644)
}

// assertEmptyDir fails unless dir exists and has no entries.
func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	if len(entries) != 0 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("%s not empty: %v", dir, names)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func mustReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
