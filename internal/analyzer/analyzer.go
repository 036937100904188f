// Package analyzer pairs Analyzer View state transitions with backend calls.
//
// Every operation is split in three steps so the interactive view can run
// the network call in a background command:
//
//	Prepare*  mutates state and returns a request (caller's goroutine)
//	Run*      performs I/O only and never touches state (any goroutine)
//	Finish*   applies the outcome to state (caller's goroutine)
//
// Analyze and FetchLogs chain the three steps for synchronous callers.
package analyzer

import (
	"context"
	"time"

	"github.com/yildizm/DocSum/internal/client"
	"github.com/yildizm/DocSum/internal/common"
	"github.com/yildizm/DocSum/internal/logger"
	"github.com/yildizm/DocSum/internal/session"
)

// Analyzer orchestrates uploads and log fetches for one session
type Analyzer struct {
	state   *session.State
	backend client.Backend
	log     *logger.Logger
	now     func() time.Time
}

// AnalyzeRequest is a prepared upload
type AnalyzeRequest struct {
	Ticket session.Ticket
	Files  []common.PendingFile
}

// AnalyzeOutcome is the result of running an upload
type AnalyzeOutcome struct {
	Ticket   session.Ticket
	Files    int
	Result   *common.AnalysisResult
	Err      error
	Duration time.Duration
}

// LogsRequest is a prepared log fetch
type LogsRequest struct {
	Ticket session.Ticket
}

// LogsOutcome is the result of running a log fetch
type LogsOutcome struct {
	Ticket   session.Ticket
	Entries  []common.LogEntry
	Err      error
	Duration time.Duration
}

// New creates an analyzer over state and backend. A nil logger falls back
// to the shared "analyzer" component logger.
func New(state *session.State, backend client.Backend, log *logger.Logger) *Analyzer {
	if log == nil {
		log = logger.New("analyzer", nil)
	}
	return &Analyzer{
		state:   state,
		backend: backend,
		log:     log,
		now:     time.Now,
	}
}

// State returns the underlying state container
func (a *Analyzer) State() *session.State {
	return a.state
}

// PrepareAnalyze validates the pending list and marks the upload outstanding
func (a *Analyzer) PrepareAnalyze() (AnalyzeRequest, error) {
	ticket, files, err := a.state.BeginAnalyze()
	if err != nil {
		a.log.Debug("analyze rejected: %v", err)
		return AnalyzeRequest{}, err
	}
	a.log.DebugWithFields("upload prepared", []logger.Field{
		logger.Count(len(files)),
		logger.RequestID(ticket.ID),
	})
	return AnalyzeRequest{Ticket: ticket, Files: files}, nil
}

// RunAnalyze uploads the prepared files
func (a *Analyzer) RunAnalyze(ctx context.Context, req AnalyzeRequest) AnalyzeOutcome {
	start := a.now()
	ctx = client.WithRequestID(ctx, req.Ticket.ID)
	result, err := a.backend.Analyze(ctx, req.Files)
	return AnalyzeOutcome{
		Ticket:   req.Ticket,
		Files:    len(req.Files),
		Result:   result,
		Err:      err,
		Duration: a.now().Sub(start),
	}
}

// FinishAnalyze applies an upload outcome. It reports whether the outcome
// belonged to the outstanding request and returns the upload error, if any.
// A stale outcome is dropped and reports (false, nil).
func (a *Analyzer) FinishAnalyze(out AnalyzeOutcome) (bool, error) {
	fields := []logger.Field{
		logger.RequestID(out.Ticket.ID),
		logger.Count(out.Files),
		logger.Duration(out.Duration),
	}

	if out.Err != nil {
		if !a.state.FailAnalyze(out.Ticket) {
			a.log.DebugWithFields("discarding stale upload failure", fields)
			return false, nil
		}
		a.log.ErrorWithFields("Error uploading files: %v", fields, out.Err)
		return true, out.Err
	}

	if !a.state.CompleteAnalyze(out.Ticket, out.Result) {
		a.log.DebugWithFields("discarding stale upload result", fields)
		return false, nil
	}
	a.log.InfoWithFields("analysis complete", fields)
	return true, nil
}

// PrepareViewLogs switches to the logs view and marks a fetch outstanding
func (a *Analyzer) PrepareViewLogs() (LogsRequest, error) {
	ticket, err := a.state.ViewLogs()
	return a.logsRequest(ticket, err)
}

// PrepareFetchLogs marks a fetch outstanding without changing the view
func (a *Analyzer) PrepareFetchLogs() (LogsRequest, error) {
	ticket, err := a.state.BeginFetchLogs()
	return a.logsRequest(ticket, err)
}

func (a *Analyzer) logsRequest(ticket session.Ticket, err error) (LogsRequest, error) {
	if err != nil {
		a.log.Debug("log fetch rejected: %v", err)
		return LogsRequest{}, err
	}
	a.log.DebugWithFields("log fetch prepared", []logger.Field{logger.RequestID(ticket.ID)})
	return LogsRequest{Ticket: ticket}, nil
}

// RunFetchLogs fetches the backend log list
func (a *Analyzer) RunFetchLogs(ctx context.Context, req LogsRequest) LogsOutcome {
	start := a.now()
	ctx = client.WithRequestID(ctx, req.Ticket.ID)
	entries, err := a.backend.ListLogs(ctx)
	return LogsOutcome{
		Ticket:   req.Ticket,
		Entries:  entries,
		Err:      err,
		Duration: a.now().Sub(start),
	}
}

// FinishFetchLogs applies a log fetch outcome, see FinishAnalyze
func (a *Analyzer) FinishFetchLogs(out LogsOutcome) (bool, error) {
	fields := []logger.Field{
		logger.RequestID(out.Ticket.ID),
		logger.Duration(out.Duration),
	}

	if out.Err != nil {
		if !a.state.FailFetchLogs(out.Ticket) {
			a.log.DebugWithFields("discarding stale log failure", fields)
			return false, nil
		}
		a.log.ErrorWithFields("Error fetching logs: %v", fields, out.Err)
		return true, out.Err
	}

	if !a.state.CompleteFetchLogs(out.Ticket, out.Entries) {
		a.log.DebugWithFields("discarding stale log list", fields)
		return false, nil
	}
	a.log.InfoWithFields("logs fetched", append(fields, logger.Count(len(out.Entries))))
	return true, nil
}

// Analyze uploads every pending file and waits for the result
func (a *Analyzer) Analyze(ctx context.Context) (*common.AnalysisResult, error) {
	req, err := a.PrepareAnalyze()
	if err != nil {
		return nil, err
	}
	if _, err := a.FinishAnalyze(a.RunAnalyze(ctx, req)); err != nil {
		return nil, err
	}
	return a.state.Result(), nil
}

// FetchLogs fetches the log list and waits for it
func (a *Analyzer) FetchLogs(ctx context.Context) ([]common.LogEntry, error) {
	req, err := a.PrepareFetchLogs()
	if err != nil {
		return nil, err
	}
	if _, err := a.FinishFetchLogs(a.RunFetchLogs(ctx, req)); err != nil {
		return nil, err
	}
	return a.state.Logs(), nil
}
