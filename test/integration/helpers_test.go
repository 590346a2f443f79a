//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	ProjectDir string // where .jsdb is scaffolded
	WorkDir    string // where the temporary bundle is written
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		ProjectDir: t.TempDir(),
		WorkDir:    t.TempDir(),
	}
}

// storedRecord is one document the fake server accepted.
type storedRecord struct {
	Collection string
	Date       time.Time
	File       []byte
}

// fakeServer emulates the append endpoint of a JSDB server.
type fakeServer struct {
	*httptest.Server
	apiKey string

	mu      sync.Mutex
	records []storedRecord
}

func newFakeServer(t *testing.T, apiKey string) *fakeServer {
	t.Helper()
	fs := &fakeServer{apiKey: apiKey}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /db/default/{collection}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != fs.apiKey {
			http.Error(w, "invalid api key", http.StatusUnauthorized)
			return
		}
		var body struct {
			Value struct {
				Date time.Time `json:"date"`
				File []byte    `json:"file"`
			} `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fs.mu.Lock()
		fs.records = append(fs.records, storedRecord{
			Collection: r.PathValue("collection"),
			Date:       body.Value.Date,
			File:       body.Value.File,
		})
		fs.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func (f *fakeServer) Records() []storedRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]storedRecord(nil), f.records...)
}

// unzip returns the regular files in a zip archive keyed by entry name.
func unzip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("opening zip: %v", err)
	}
	files := map[string][]byte{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading %s: %v", f.Name, err)
		}
		files[f.Name] = content
	}
	return files
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return data
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected %s to be absent", path)
	}
}

func projectFile(env *testEnv, rel string) string {
	return filepath.Join(env.ProjectDir, ".jsdb", filepath.FromSlash(rel))
}
