package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// VerboseChecker interface for checking verbose state
type VerboseChecker interface {
	IsVerbose() bool
}

// Logger is a component-scoped diagnostic logger with verbose support
type Logger struct {
	component      string
	verboseChecker VerboseChecker
	base           *logrus.Logger
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

var (
	sharedMu   sync.Mutex
	sharedBase = newBase(os.Stderr)
)

func newBase(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return l
}

// New creates a new logger instance
func New(component string, verboseChecker VerboseChecker) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: verboseChecker,
		base:           sharedBase,
	}
}

// NewWithCallback creates a new logger instance with a callback function
func NewWithCallback(component string, verboseCheck func() bool) *Logger {
	return New(component, &callbackChecker{callback: verboseCheck})
}

// NewWithWriter creates a logger writing to w instead of the shared output
func NewWithWriter(component string, w io.Writer, verboseCheck func() bool) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: &callbackChecker{callback: verboseCheck},
		base:           newBase(w),
	}
}

// WithComponent creates a logger with a specific component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: l.verboseChecker,
		base:           l.base,
	}
}

// SetOutput redirects every logger sharing the default output
func SetOutput(w io.Writer) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	sharedBase.SetOutput(w)
}

// RedirectToFile sends shared output to path, creating parent directories.
// The returned function closes the file and restores stderr.
func RedirectToFile(path string) (func(), error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	// #nosec G304 - path comes from validated configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	SetOutput(f)
	return func() {
		SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

// callbackChecker implements VerboseChecker with a callback function
type callbackChecker struct {
	callback func() bool
}

func (c *callbackChecker) IsVerbose() bool {
	if c.callback == nil {
		return false
	}
	return c.callback()
}

func (l *Logger) verbose() bool {
	return l.verboseChecker != nil && l.verboseChecker.IsVerbose()
}

func (l *Logger) entry(fields []Field) *logrus.Entry {
	component := l.component
	if component == "" {
		component = "main"
	}
	e := l.base.WithField("component", component)
	for _, f := range fields {
		e = e.WithField(f.Key, f.Value)
	}
	return e
}

// Debug logs debug messages (only when verbose=true)
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.verbose() {
		l.entry(nil).Debugf(msg, args...)
	}
}

// Info logs informational messages (only when verbose=true)
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.verbose() {
		l.entry(nil).Infof(msg, args...)
	}
}

// Warn logs warning messages (always shown)
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.entry(nil).Warnf(msg, args...)
}

// Error logs error messages (always shown)
func (l *Logger) Error(msg string, args ...interface{}) {
	l.entry(nil).Errorf(msg, args...)
}

// DebugWithFields logs debug message with structured fields
func (l *Logger) DebugWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		l.entry(fields).Debugf(msg, args...)
	}
}

// InfoWithFields logs info message with structured fields
func (l *Logger) InfoWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		l.entry(fields).Infof(msg, args...)
	}
}

// ErrorWithFields logs error message with structured fields (always shown)
func (l *Logger) ErrorWithFields(msg string, fields []Field, args ...interface{}) {
	l.entry(fields).Errorf(msg, args...)
}

// Helper functions for common field types
func Count(value int) Field {
	return Field{Key: "count", Value: value}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d}
}

func RequestID(id string) Field {
	return Field{Key: "request_id", Value: id}
}
