package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/DocSum/internal/common"
)

var watchSettle time.Duration

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory and reanalyze as documents arrive",
		Long: `Watch a directory for new documents. Files already in the directory are
selected at start-up and analyzed once. Every regular file created
afterwards is appended to the selection and all selected files are
uploaded again, so each printed result covers everything seen so far.

Press Ctrl+C to stop watching.`,
		Example: `  docsum watch ./inbox
  docsum watch --settle 2s -o json ./inbox`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().DurationVar(&watchSettle, "settle", 500*time.Millisecond, "quiet period after the last new file before reanalyzing")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := filepath.Clean(args[0])
	if err := validateWatchDir(dir); err != nil {
		return fmt.Errorf("invalid watch directory: %w", err)
	}

	a, err := newApp(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	watcher, err := createWatcher(dir)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := &dirWatcher{app: a, cmd: cmd, dir: dir, settle: watchSettle}
	return w.run(ctx, watcher)
}

// dirWatcher queues new files and runs cumulative analyses
type dirWatcher struct {
	app    *app
	cmd    *cobra.Command
	dir    string
	settle time.Duration

	queued []string
	seen   map[string]bool
	dirty  bool
	runs   int
}

func (w *dirWatcher) run(ctx context.Context, watcher *fsnotify.Watcher) error {
	existing, err := listRegularFiles(w.dir)
	if err != nil {
		return err
	}
	for _, path := range existing {
		w.queue(path)
	}

	w.app.log.Info("watching %s", w.dir)
	if w.app.format == "text" {
		printHeader(w.cmd.ErrOrStderr(), fmt.Sprintf("Watching %s (Ctrl+C to stop)", w.dir))
	}

	if len(w.queued) > 0 {
		w.flush(ctx)
	}

	settle := time.NewTimer(w.settle)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			w.app.log.Info("stopped watching %s", w.dir)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if w.handleEvent(event) {
				settle.Reset(w.settle)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.app.log.Warn("watcher error: %v", err)

		case <-settle.C:
			w.flush(ctx)
		}
	}
}

// handleEvent queues a newly created regular file. Writes to a known file
// report true so the settle period restarts while it is still being copied.
func (w *dirWatcher) handleEvent(event fsnotify.Event) bool {
	if event.Has(fsnotify.Write) && w.seen[event.Name] {
		w.dirty = true
		return true
	}
	if !event.Has(fsnotify.Create) {
		return false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() || isHidden(event.Name) {
		return false
	}
	if !w.queue(event.Name) {
		return false
	}
	w.app.log.Debug("queued %s", event.Name)
	return true
}

// queue adds path unless it was already queued or analyzed
func (w *dirWatcher) queue(path string) bool {
	if w.seen == nil {
		w.seen = make(map[string]bool)
	}
	if w.seen[path] {
		return false
	}
	w.seen[path] = true
	w.queued = append(w.queued, path)
	return true
}

// flush selects queued files and reanalyzes everything selected so far.
// A write to an already selected file also triggers a run.
// Failures are reported and watching continues.
func (w *dirWatcher) flush(ctx context.Context) {
	if len(w.queued) == 0 && !w.dirty {
		return
	}
	w.dirty = false
	files := make([]common.PendingFile, 0, len(w.queued))
	for _, path := range w.queued {
		files = append(files, common.NewPendingFile(path))
	}
	w.queued = w.queued[:0]

	state := w.app.analyzer.State()
	state.SelectFiles(files...)

	result, err := w.app.analyze(ctx, w.cmd)
	if err != nil {
		return
	}
	w.runs++

	out := w.cmd.OutOrStdout()
	if w.app.format == "text" {
		printHeader(out, fmt.Sprintf("Analysis #%d (%d files)", w.runs, len(state.Files())))
	}
	data, err := w.app.formatter.Format(result)
	if err != nil {
		printError(w.cmd.ErrOrStderr(), err.Error())
		return
	}
	writeChunk(out, data)
}

func writeChunk(w io.Writer, data []byte) {
	_, _ = w.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, _ = io.WriteString(w, "\n")
	}
}

// listRegularFiles returns the directory's visible regular files sorted by name
func listRegularFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || isHidden(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && verbose {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// createWatcher creates a watcher on dir
func createWatcher(dir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return watcher, nil
}

// validateWatchDir validates that a path is a directory that can be watched
func validateWatchDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty directory path")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}

	return nil
}
