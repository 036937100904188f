// Package session holds the Analyzer View state: pending files, the last
// analysis result, the log list, the loading flag and the view mode.
//
// State is not safe for concurrent use. Callers mutate it from a single
// goroutine (the UI update loop or a CLI command) and run network I/O
// elsewhere, reporting back through the Complete/Fail methods.
package session

import (
	"github.com/google/uuid"
	"github.com/yildizm/DocSum/internal/common"
)

// View is the active display mode
type View int

const (
	ViewAnalyzer View = iota
	ViewLogs
)

// String returns the view name
func (v View) String() string {
	switch v {
	case ViewAnalyzer:
		return "analyzer"
	case ViewLogs:
		return "logs"
	default:
		return "unknown"
	}
}

// Ticket identifies one outstanding request
type Ticket struct {
	Op common.Op
	ID string
}

// Valid reports whether the ticket was issued
func (t Ticket) Valid() bool {
	return t.ID != ""
}

// Errors returned when a request of the same kind is still outstanding
var (
	ErrAnalyzeInProgress = common.NewError(common.ErrKindValidation, common.OpAnalyze, "analysis already in progress")
	ErrLogsInProgress    = common.NewError(common.ErrKindValidation, common.OpFetchLogs, "log fetch already in progress")
)

// State is the Analyzer View state container
type State struct {
	files  []common.PendingFile
	result *common.AnalysisResult
	logs   []common.LogEntry
	view   View

	analyzeTicket Ticket
	logsTicket    Ticket

	newID func() string
}

// New creates an empty state in Analyzer mode
func New() *State {
	return &State{
		view:  ViewAnalyzer,
		logs:  []common.LogEntry{},
		newID: func() string { return uuid.NewString() },
	}
}

// SelectFiles appends files in order without deduplication
func (s *State) SelectFiles(files ...common.PendingFile) {
	s.files = append(s.files, files...)
}

// ClearFiles empties the pending list; the last result is kept
func (s *State) ClearFiles() {
	s.files = nil
}

// Files returns a copy of the pending list
func (s *State) Files() []common.PendingFile {
	out := make([]common.PendingFile, len(s.files))
	copy(out, s.files)
	return out
}

// Result returns the last successful analysis, or nil
func (s *State) Result() *common.AnalysisResult {
	return s.result
}

// Logs returns a copy of the last fetched log list
func (s *State) Logs() []common.LogEntry {
	out := make([]common.LogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

// View returns the active display mode
func (s *State) View() View {
	return s.view
}

// Loading is true while any request is outstanding
func (s *State) Loading() bool {
	return s.analyzeTicket.Valid() || s.logsTicket.Valid()
}

// Analyzing is true while an upload is outstanding
func (s *State) Analyzing() bool {
	return s.analyzeTicket.Valid()
}

// FetchingLogs is true while a log fetch is outstanding
func (s *State) FetchingLogs() bool {
	return s.logsTicket.Valid()
}

// BeginAnalyze validates the pending list and marks an upload outstanding.
// It returns the ticket and a snapshot of every pending file; the caller
// uploads the snapshot and reports back with CompleteAnalyze or FailAnalyze.
func (s *State) BeginAnalyze() (Ticket, []common.PendingFile, error) {
	if len(s.files) == 0 {
		return Ticket{}, nil, common.ErrNoFiles
	}
	if s.analyzeTicket.Valid() {
		return Ticket{}, nil, ErrAnalyzeInProgress
	}
	s.analyzeTicket = Ticket{Op: common.OpAnalyze, ID: s.newID()}
	return s.analyzeTicket, s.Files(), nil
}

// CompleteAnalyze replaces the result. A ticket that is not the outstanding
// one is ignored and false is returned. The pending list is left as is.
func (s *State) CompleteAnalyze(t Ticket, result *common.AnalysisResult) bool {
	if !s.owns(s.analyzeTicket, t) {
		return false
	}
	s.result = result
	s.analyzeTicket = Ticket{}
	return true
}

// FailAnalyze clears the outstanding upload and keeps the prior result
func (s *State) FailAnalyze(t Ticket) bool {
	if !s.owns(s.analyzeTicket, t) {
		return false
	}
	s.analyzeTicket = Ticket{}
	return true
}

// ViewLogs switches to Logs mode and starts a log fetch
func (s *State) ViewLogs() (Ticket, error) {
	s.view = ViewLogs
	return s.BeginFetchLogs()
}

// BeginFetchLogs marks a log fetch outstanding
func (s *State) BeginFetchLogs() (Ticket, error) {
	if s.logsTicket.Valid() {
		return Ticket{}, ErrLogsInProgress
	}
	s.logsTicket = Ticket{Op: common.OpFetchLogs, ID: s.newID()}
	return s.logsTicket, nil
}

// CompleteFetchLogs replaces the log list
func (s *State) CompleteFetchLogs(t Ticket, entries []common.LogEntry) bool {
	if !s.owns(s.logsTicket, t) {
		return false
	}
	if entries == nil {
		entries = []common.LogEntry{}
	}
	s.logs = entries
	s.logsTicket = Ticket{}
	return true
}

// FailFetchLogs clears the outstanding fetch and keeps the prior list
func (s *State) FailFetchLogs(t Ticket) bool {
	if !s.owns(s.logsTicket, t) {
		return false
	}
	s.logsTicket = Ticket{}
	return true
}

// ReturnToAnalyzer switches back to Analyzer mode without touching logs
func (s *State) ReturnToAnalyzer() {
	s.view = ViewAnalyzer
}

func (s *State) owns(current, t Ticket) bool {
	return t.Valid() && current == t
}
