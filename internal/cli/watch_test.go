package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newTestWatcher(t *testing.T, serverURL, dir string) (*dirWatcher, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	isolateEnv(t)

	root := NewRootCommand("test", "none", "unknown")
	if err := root.ParseFlags([]string{"--backend-url", serverURL, "-o", "json"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{Use: "watch"}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	a, err := newApp(cmd, &stderr)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	return &dirWatcher{app: a, cmd: cmd, dir: dir, settle: 20 * time.Millisecond}, &stdout, &stderr
}

func TestWatchHandleEvent(t *testing.T) {
	_, srv := newTestBackend(t)
	dir := t.TempDir()
	paths := writeDocs(t, dir, "a.pdf", ".hidden")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o750); err != nil {
		t.Fatal(err)
	}

	w, _, _ := newTestWatcher(t, srv.URL, dir)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"create regular file", fsnotify.Event{Name: paths[0], Op: fsnotify.Create}, true},
		{"same file again", fsnotify.Event{Name: paths[0], Op: fsnotify.Create}, false},
		{"write to queued file", fsnotify.Event{Name: paths[0], Op: fsnotify.Write}, true},
		{"write to unknown file", fsnotify.Event{Name: filepath.Join(dir, "other.pdf"), Op: fsnotify.Write}, false},
		{"hidden file", fsnotify.Event{Name: paths[1], Op: fsnotify.Create}, false},
		{"directory", fsnotify.Event{Name: filepath.Join(dir, "sub"), Op: fsnotify.Create}, false},
		{"vanished file", fsnotify.Event{Name: filepath.Join(dir, "gone.pdf"), Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.handleEvent(tt.event); got != tt.want {
				t.Errorf("handleEvent() = %v, want %v", got, tt.want)
			}
		})
	}

	if len(w.queued) != 1 {
		t.Errorf("Expected 1 queued file, got %v", w.queued)
	}
}

func TestWatchFlushIsCumulative(t *testing.T) {
	backend, srv := newTestBackend(t)
	dir := t.TempDir()
	paths := writeDocs(t, dir, "a.pdf", "b.pdf")

	w, stdout, _ := newTestWatcher(t, srv.URL, dir)
	ctx := context.Background()

	w.queue(paths[0])
	w.flush(ctx)
	w.queue(paths[1])
	w.flush(ctx)

	if backend.uploadCount() != 2 {
		t.Fatalf("Expected 2 uploads, got %d", backend.uploadCount())
	}
	if got := backend.lastUpload(); len(got) != 2 || got[0] != "a.pdf" || got[1] != "b.pdf" {
		t.Errorf("Expected second upload to carry both files, got %v", got)
	}
	if w.runs != 2 {
		t.Errorf("Expected 2 runs, got %d", w.runs)
	}
	if strings.Count(stdout.String(), `"summary"`) != 2 {
		t.Errorf("Expected one JSON document per run:\n%s", stdout.String())
	}

	w.flush(ctx)
	if backend.uploadCount() != 2 {
		t.Errorf("Empty queue should not upload, got %d uploads", backend.uploadCount())
	}
}

func TestWatchFlushFailureKeepsWatching(t *testing.T) {
	backend, srv := newTestBackend(t)
	backend.mu.Lock()
	backend.uploadCode = 500
	backend.mu.Unlock()
	dir := t.TempDir()
	paths := writeDocs(t, dir, "a.pdf")

	w, stdout, stderr := newTestWatcher(t, srv.URL, dir)
	w.queue(paths[0])
	w.flush(context.Background())

	if w.runs != 0 {
		t.Errorf("Failed run should not count, got %d", w.runs)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected no result output, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Failed to analyze the documents.") {
		t.Errorf("Expected notice, got %q", stderr.String())
	}
	if len(w.app.analyzer.State().Files()) != 1 {
		t.Error("Selected files should survive a failed run")
	}
}

func TestWatchLoop(t *testing.T) {
	backend, srv := newTestBackend(t)
	dir := t.TempDir()
	writeDocs(t, dir, "existing.pdf")

	w, stdout, _ := newTestWatcher(t, srv.URL, dir)
	w.settle = 100 * time.Millisecond
	watcher, err := createWatcher(dir)
	if err != nil {
		t.Fatalf("createWatcher() error = %v", err)
	}
	defer cleanupWatcher(watcher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, watcher) }()

	waitForUploads(t, backend, 1)
	writeDocs(t, dir, "new.pdf")
	waitForUploads(t, backend, 2)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop after cancel")
	}

	if got := backend.lastUpload(); len(got) != 2 {
		t.Errorf("Expected cumulative upload of 2 files, got %v", got)
	}
	if strings.Count(stdout.String(), `"summary"`) != 2 {
		t.Errorf("Expected two results:\n%s", stdout.String())
	}
}

func TestWatchFlushAfterWrite(t *testing.T) {
	backend, srv := newTestBackend(t)
	dir := t.TempDir()
	paths := writeDocs(t, dir, "a.pdf")

	w, _, _ := newTestWatcher(t, srv.URL, dir)
	ctx := context.Background()

	w.queue(paths[0])
	w.flush(ctx)

	if !w.handleEvent(fsnotify.Event{Name: paths[0], Op: fsnotify.Write}) {
		t.Fatal("Write to a selected file should restart the settle period")
	}
	w.flush(ctx)

	if backend.uploadCount() != 2 {
		t.Fatalf("Expected a rerun after the write, got %d uploads", backend.uploadCount())
	}
	if got := backend.lastUpload(); len(got) != 1 {
		t.Errorf("Expected the file to be sent once, got %v", got)
	}

	w.flush(ctx)
	if backend.uploadCount() != 2 {
		t.Errorf("Expected no further run without changes, got %d uploads", backend.uploadCount())
	}
}

func TestWatchWaitsForCopyToFinish(t *testing.T) {
	backend, srv := newTestBackend(t)
	dir := t.TempDir()

	w, _, _ := newTestWatcher(t, srv.URL, dir)
	w.settle = 150 * time.Millisecond
	watcher, err := createWatcher(dir)
	if err != nil {
		t.Fatalf("createWatcher() error = %v", err)
	}
	defer cleanupWatcher(watcher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, watcher) }()

	// The copy takes longer than the settle period, with short gaps between chunks
	path := filepath.Join(dir, "large.pdf")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	chunk := strings.Repeat("x", 64)
	for i := 0; i < 12; i++ {
		if _, err := f.WriteString(chunk); err != nil {
			t.Fatal(err)
		}
		time.Sleep(25 * time.Millisecond)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	waitForUploads(t, backend, 1)
	cancel()
	<-done

	contents := backend.uploadedContents()
	if got := contents[0]["large.pdf"]; len(got) != 12*len(chunk) {
		t.Errorf("Expected the first upload to carry the complete file, got %d bytes", len(got))
	}
}

func TestValidateWatchDir(t *testing.T) {
	dir := t.TempDir()
	file := writeDocs(t, dir, "a.pdf")[0]

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"directory", dir, false},
		{"empty", " ", true},
		{"missing", filepath.Join(dir, "missing"), true},
		{"file", file, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateWatchDir(tt.path); (err != nil) != tt.wantErr {
				t.Errorf("validateWatchDir() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestListRegularFiles(t *testing.T) {
	dir := t.TempDir()
	writeDocs(t, dir, "b.pdf", "a.pdf", ".hidden")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o750); err != nil {
		t.Fatal(err)
	}

	got, err := listRegularFiles(dir)
	if err != nil {
		t.Fatalf("listRegularFiles() error = %v", err)
	}
	want := []string{filepath.Join(dir, "a.pdf"), filepath.Join(dir, "b.pdf")}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("listRegularFiles() = %v, want %v", got, want)
	}
}

func waitForUploads(t *testing.T, backend *testBackend, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if backend.uploadCount() >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %d uploads, got %d", n, backend.uploadCount())
}
