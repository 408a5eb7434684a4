package testutil

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// ReleaseServer serves a GitHub-style "latest release" endpoint and release
// asset downloads for one repository.
type ReleaseServer struct {
	*httptest.Server

	mu       sync.Mutex
	repo     string
	latest   string
	assets   map[string][]byte // "tag/filename" -> body
	requests []string
	// Authorization headers seen, in request order.
	authHeaders []string
}

// NewReleaseServer starts a release server for repo; it is closed when the
// test ends.
func NewReleaseServer(t *testing.T, repo string) *ReleaseServer {
	t.Helper()

	s := &ReleaseServer{repo: repo, assets: map[string][]byte{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// SetLatest sets the tag_name returned by the latest release endpoint.
func (s *ReleaseServer) SetLatest(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = tag
}

// AddAsset publishes body as filename in release tag.
func (s *ReleaseServer) AddAsset(tag, filename string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[tag+"/"+filename] = body
}

// Requests returns the request paths seen so far.
func (s *ReleaseServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// AuthHeaders returns the Authorization headers seen so far.
func (s *ReleaseServer) AuthHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.authHeaders...)
}

func (s *ReleaseServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.Path)
	s.authHeaders = append(s.authHeaders, r.Header.Get("Authorization"))
	latest := s.latest
	s.mu.Unlock()

	if r.URL.Path == fmt.Sprintf("/repos/%s/releases/latest", s.repo) {
		if latest == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"tag_name": latest,
			"name":     "Release " + latest,
			"draft":    false,
		})
		return
	}

	prefix := "/" + s.repo + "/releases/download/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	body, ok := s.assets[strings.TrimPrefix(r.URL.Path, prefix)]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(body)
}

// TarGz builds a gzip-compressed tar archive holding files (name -> body).
func TarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		hdr := &tar.Header{
			Name:     name,
			Mode:     0644,
			Size:     int64(len(body)),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write tar header %s: %v", name, err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatalf("write tar body %s: %v", name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return buf.Bytes()
}
