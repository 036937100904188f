package cli

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yildizm/DocSum/internal/formatter"
)

func TestAnalyzeCommandJSON(t *testing.T) {
	isolateEnv(t)
	backend, srv := newTestBackend(t)
	files := writeDocs(t, t.TempDir(), "contract.pdf", "annex.docx")

	stdout, _, err := executeCommand(t, "--backend-url", srv.URL, "-o", "json", "analyze", files[0], files[1])
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var out formatter.AnalysisOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, stdout)
	}
	if len(out.Summary) != 2 {
		t.Errorf("Expected 2 summary items, got %d", len(out.Summary))
	}
	if out.Ratings.RiskScore != 2 || out.Ratings.OpportunityScore != 7 || out.Ratings.Scale != 10 {
		t.Errorf("Unexpected ratings: %+v", out.Ratings)
	}

	got := backend.lastUpload()
	if len(got) != 2 || got[0] != "contract.pdf" || got[1] != "annex.docx" {
		t.Errorf("Expected both files in one upload, got %v", got)
	}
}

func TestAnalyzeCommandText(t *testing.T) {
	isolateEnv(t)
	_, srv := newTestBackend(t)
	files := writeDocs(t, t.TempDir(), "contract.pdf")

	stdout, _, err := executeCommand(t, "--backend-url", srv.URL, "--no-color", "--no-emoji", "analyze", files[0])
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	for _, want := range []string{"Document Analysis Summary", "Payment terms are 30 days.", "Volume discount"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestAnalyzeCommandGlob(t *testing.T) {
	isolateEnv(t)
	backend, srv := newTestBackend(t)
	dir := t.TempDir()
	writeDocs(t, dir, "a.pdf", "b.pdf", "notes.txt")

	_, _, err := executeCommand(t, "--backend-url", srv.URL, "-o", "json", "analyze", filepath.Join(dir, "*.pdf"))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if got := backend.lastUpload(); len(got) != 2 {
		t.Errorf("Expected 2 pdf files uploaded, got %v", got)
	}
}

func TestAnalyzeCommandOutputFile(t *testing.T) {
	isolateEnv(t)
	_, srv := newTestBackend(t)
	dir := t.TempDir()
	files := writeDocs(t, dir, "contract.pdf")
	target := filepath.Join(dir, "report.md")

	stdout, stderr, err := executeCommand(t, "--backend-url", srv.URL, "-o", "markdown", "analyze", "--output-file", target, files[0])
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if stdout != "" {
		t.Errorf("Expected nothing on stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "Output saved to") {
		t.Errorf("Expected save confirmation, got %q", stderr)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	if !strings.Contains(string(data), "# Document Analysis Report") {
		t.Errorf("Unexpected report:\n%s", data)
	}
}

func TestAnalyzeCommandRequiresBackendURL(t *testing.T) {
	isolateEnv(t)
	files := writeDocs(t, t.TempDir(), "contract.pdf")

	_, _, err := executeCommand(t, "analyze", files[0])
	if err == nil {
		t.Fatal("Expected error without a backend URL")
	}
	if !strings.Contains(err.Error(), "base_url is required") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestAnalyzeCommandServerError(t *testing.T) {
	isolateEnv(t)
	backend, srv := newTestBackend(t)
	backend.mu.Lock()
	backend.uploadCode = http.StatusInternalServerError
	backend.mu.Unlock()
	files := writeDocs(t, t.TempDir(), "contract.pdf")

	stdout, stderr, err := executeCommand(t, "--backend-url", srv.URL, "-o", "json", "analyze", files[0])
	if err == nil {
		t.Fatal("Expected error for a rejected upload")
	}
	if stdout != "" {
		t.Errorf("Expected no result output, got %q", stdout)
	}
	if !strings.Contains(stderr, "Failed to analyze the documents.") {
		t.Errorf("Expected user notice, got %q", stderr)
	}
	if !strings.Contains(stderr, "Error uploading files") {
		t.Errorf("Expected diagnostic log line, got %q", stderr)
	}
}

func TestAnalyzeCommandNoMatches(t *testing.T) {
	isolateEnv(t)
	backend, srv := newTestBackend(t)
	pattern := filepath.Join(t.TempDir(), "*.pdf")

	_, stderr, err := executeCommand(t, "--backend-url", srv.URL, "analyze", pattern)
	if err == nil {
		t.Fatal("Expected error when nothing is selected")
	}
	if !strings.Contains(stderr, "No files match: "+pattern) {
		t.Errorf("Expected unmatched pattern warning, got %q", stderr)
	}
	if !strings.Contains(stderr, "Please select at least one file.") {
		t.Errorf("Expected no-files notice, got %q", stderr)
	}
	if backend.uploadCount() != 0 {
		t.Errorf("Expected no upload, got %d", backend.uploadCount())
	}
}

func TestVersionCommand(t *testing.T) {
	isolateEnv(t)
	stdout, _, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(stdout, "DocSum 1.2.3 (abc123) built on 2026-01-01") {
		t.Errorf("Unexpected version output: %q", stdout)
	}
}
