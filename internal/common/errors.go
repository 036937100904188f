package common

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind categorizes client-side failures
type ErrorKind string

const (
	// ErrKindValidation indicates a request rejected before any network I/O
	ErrKindValidation ErrorKind = "validation"

	// ErrKindTransport indicates the backend could not be reached
	ErrKindTransport ErrorKind = "transport"

	// ErrKindServerRejected indicates a non-2xx response
	ErrKindServerRejected ErrorKind = "server_rejected"

	// ErrKindMalformed indicates a 2xx response whose body could not be decoded
	ErrKindMalformed ErrorKind = "malformed"
)

// Op names a user-triggered operation
type Op string

const (
	OpAnalyze   Op = "analyze"
	OpFetchLogs Op = "fetch_logs"
)

// User-facing notices
const (
	MsgNoFiles       = "Please select at least one file."
	MsgAnalyzeFailed = "Failed to analyze the documents."
	MsgLogsFailed    = "Failed to fetch logs."
)

// Error is the tagged error produced at the HTTP boundary
type Error struct {
	Kind       ErrorKind
	Op         Op
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface
func (e *Error) Error() string {
	parts := make([]string, 0, 5)
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	parts = append(parts, fmt.Sprintf("kind=%s", e.Kind))
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// UserMessage returns the notice shown to the user for this error
func (e *Error) UserMessage() string {
	if e.Kind == ErrKindValidation && e.Message != "" {
		return e.Message
	}
	return UserMessage(e.Op)
}

// NewError creates a tagged error
func NewError(kind ErrorKind, op Op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// NewErrorWithCause creates a tagged error wrapping cause
func NewErrorWithCause(kind ErrorKind, op Op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

// NewServerError creates a server_rejected error for a status code
func NewServerError(op Op, status int, body string) *Error {
	return &Error{
		Kind:       ErrKindServerRejected,
		Op:         op,
		StatusCode: status,
		Message:    fmt.Sprintf("backend responded with status %d: %s", status, truncateBody(body)),
	}
}

// Sentinels usable with errors.Is
var (
	ErrValidation     = &Error{Kind: ErrKindValidation}
	ErrTransport      = &Error{Kind: ErrKindTransport}
	ErrServerRejected = &Error{Kind: ErrKindServerRejected}
	ErrMalformed      = &Error{Kind: ErrKindMalformed}
)

// ErrNoFiles is returned when analyze is invoked with nothing selected
var ErrNoFiles = NewError(ErrKindValidation, OpAnalyze, MsgNoFiles)

// IsValidationError reports whether err was raised before any network I/O
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// UserMessage maps an operation to its failure notice
func UserMessage(op Op) string {
	switch op {
	case OpAnalyze:
		return MsgAnalyzeFailed
	case OpFetchLogs:
		return MsgLogsFailed
	default:
		return "Request failed."
	}
}

// NoticeFor returns the user-facing notice for any error from op
func NoticeFor(op Op, err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Op == "" {
			e = &Error{Kind: e.Kind, Op: op, Message: e.Message}
		}
		return e.UserMessage()
	}
	return UserMessage(op)
}

func truncateBody(body string) string {
	const limit = 200
	body = strings.TrimSpace(body)
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}
