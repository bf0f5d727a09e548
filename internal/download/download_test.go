package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const payload = "#!/bin/sh\necho ChromeDriver 120.0.6099.109\n"

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func newServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(payload))
	}))
	t.Cleanup(s.Close)
	return s, &hits
}

func TestPath(t *testing.T) {
	f := File{Name: "chromedriver"}
	if got, want := f.Path(), "chromedriver"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
	f.directory = "vendor-bin"
	if got, want := f.Path(), filepath.Join("vendor-bin", "chromedriver"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestDownloadSkipsMatchingFile(t *testing.T) {
	s, hits := newServer(t)
	dir := t.TempDir()
	f := File{URL: s.URL + "/driver", Name: "driver", Hash: sha256Hex(payload)}

	for i := 0; i < 2; i++ {
		if err := Download(f, dir); err != nil {
			t.Fatalf("Download() #%d returned error: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Errorf("server was hit %d times, want 1", got)
	}
	data, err := os.ReadFile(filepath.Join(dir, "driver"))
	if err != nil {
		t.Fatalf("os.ReadFile() returned error: %v", err)
	}
	if string(data) != payload {
		t.Errorf("downloaded %q, want %q", data, payload)
	}
}

// assertNothingWritten checks that a failed download left no file behind,
// neither the target nor its temporary copy.
func assertNothingWritten(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("os.ReadDir(%q) returned error: %v", dir, err)
	}
	for _, e := range entries {
		t.Errorf("failed download left %q in %s", e.Name(), dir)
	}
}

func TestDownloadHashMismatch(t *testing.T) {
	s, _ := newServer(t)
	dir := t.TempDir()
	f := File{URL: s.URL + "/driver", Name: "driver", Hash: sha256Hex("something else")}
	err := Download(f, dir)
	if err == nil || !strings.Contains(err.Error(), "hash") {
		t.Fatalf("Download() = %v, want a hash mismatch error", err)
	}
	assertNothingWritten(t, dir)
}

func TestDownloadHTTPError(t *testing.T) {
	s, _ := newServer(t)
	dir := t.TempDir()
	f := File{URL: s.URL + "/missing", Name: "driver"}
	if err := Download(f, dir); err == nil {
		t.Fatal("Download() returned nil error for a 404")
	}
	assertNothingWritten(t, dir)
}

func TestDownloadKeepsGoodCopyOnFailure(t *testing.T) {
	s, _ := newServer(t)
	dir := t.TempDir()
	good := File{URL: s.URL + "/driver", Name: "driver", Hash: sha256Hex(payload)}
	if err := Download(good, dir); err != nil {
		t.Fatalf("Download() returned error: %v", err)
	}

	broken := File{URL: s.URL + "/missing", Name: "driver"}
	if err := Download(broken, dir); err == nil {
		t.Fatal("Download() returned nil error for a 404")
	}
	data, err := os.ReadFile(filepath.Join(dir, "driver"))
	if err != nil {
		t.Fatalf("os.ReadFile() returned error: %v", err)
	}
	if string(data) != payload {
		t.Errorf("existing file became %q, want %q", data, payload)
	}
	if _, err := os.Stat(filepath.Join(dir, "driver.tmp")); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}
}

func TestDownloadRename(t *testing.T) {
	s, _ := newServer(t)
	dir := t.TempDir()
	f := File{URL: s.URL + "/driver", Name: "driver-120", Rename: []string{"driver-120", "chromedriver"}}
	if err := Download(f, dir); err != nil {
		t.Fatalf("Download() returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "chromedriver")); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}
}

func TestDownloadAll(t *testing.T) {
	s, hits := newServer(t)
	dir := filepath.Join(t.TempDir(), "vendor-bin")
	files := []File{
		{URL: s.URL + "/a", Name: "a"},
		{URL: s.URL + "/b", Name: "b"},
	}
	if err := DownloadAll(context.Background(), files, dir); err != nil {
		t.Fatalf("DownloadAll() returned error: %v", err)
	}
	if got := atomic.LoadInt32(hits); got != 2 {
		t.Errorf("server was hit %d times, want 2", got)
	}
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(dir, f.Name)); err != nil {
			t.Errorf("%s missing: %v", f.Name, err)
		}
	}
}

func TestDownloadAllReportsFailure(t *testing.T) {
	s, _ := newServer(t)
	files := []File{
		{URL: s.URL + "/a", Name: "a"},
		{URL: s.URL + "/missing", Name: "b"},
	}
	err := DownloadAll(context.Background(), files, t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "error handling b") {
		t.Fatalf("DownloadAll() = %v, want an error naming b", err)
	}
}
