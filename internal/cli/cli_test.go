package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/yildizm/DocSum/internal/client"
	"github.com/yildizm/DocSum/internal/common"
)

var testEnvVars = []string{
	"DOCSUM_BACKEND_URL",
	"DOCSUM_BACKEND_TIMEOUT",
	"DOCSUM_BACKEND_INSECURE_SKIP_VERIFY",
	"DOCSUM_OUTPUT_DEFAULT_FORMAT",
	"DOCSUM_OUTPUT_COLOR_MODE",
	"DOCSUM_OUTPUT_VERBOSE",
	"DOCSUM_OUTPUT_TRUNCATE_WIDTH",
	"DOCSUM_OUTPUT_LOG_FILE",
	"DOCSUM_UI_THEME",
}

// isolateEnv keeps user config files and DOCSUM_ variables out of a test
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, name := range testEnvVars {
		t.Setenv(name, "")
	}
}

// executeCommand runs the root command and captures both output streams
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand("1.2.3", "abc123", "2026-01-01")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// testBackend is an analysis service double recording what it received
type testBackend struct {
	mu          sync.Mutex
	uploads     [][]string
	contents    []map[string]string
	logHits     int
	uploadCode  int
	logsCode    int
	result      common.AnalysisResult
	entriesJSON string
}

func newTestBackend(t *testing.T) (*testBackend, *httptest.Server) {
	t.Helper()
	b := &testBackend{
		uploadCode: http.StatusOK,
		logsCode:   http.StatusOK,
		result: common.AnalysisResult{
			Summary: []string{"Payment terms are 30 days.", "Either party may terminate."},
			Ratings: common.Ratings{RiskScore: 2, OpportunityScore: 7},
			Clauses: common.Clauses{
				Risk:        []string{},
				Opportunity: []string{"Volume discount"},
				Neutral:     []string{},
			},
			Anomalies: []string{},
		},
		entriesJSON: `[{"id":1,"request":"a.pdf","response":"ok","timestamp":"2025-01-01T00:00:00Z"}]`,
	}

	r := chi.NewRouter()
	r.Post(client.UploadPath, b.handleUpload)
	r.Get(client.LogsPath, b.handleLogs)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *testBackend) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var names []string
	bodies := make(map[string]string)
	for _, fh := range r.MultipartForm.File[client.FilesField] {
		names = append(names, fh.Filename)
		f, err := fh.Open()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(f)
		_ = f.Close()
		bodies[fh.Filename] = string(data)
	}

	b.mu.Lock()
	b.uploads = append(b.uploads, names)
	b.contents = append(b.contents, bodies)
	code := b.uploadCode
	result := b.result
	b.mu.Unlock()

	if code != http.StatusOK {
		http.Error(w, "analysis failed", code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

func (b *testBackend) handleLogs(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.logHits++
	code := b.logsCode
	body := b.entriesJSON
	b.mu.Unlock()

	if code != http.StatusOK {
		http.Error(w, "unavailable", code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (b *testBackend) uploadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.uploads)
}

func (b *testBackend) lastUpload() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.uploads) == 0 {
		return nil
	}
	return b.uploads[len(b.uploads)-1]
}

func (b *testBackend) uploadedContents() []map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]string(nil), b.contents...)
}

func writeDocs(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("content of "+name), 0o600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		paths = append(paths, p)
	}
	return paths
}
