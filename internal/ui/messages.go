package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/DocSum/internal/analyzer"
)

// Messages produced by background commands
type analyzeDoneMsg struct {
	outcome analyzer.AnalyzeOutcome
}

type logsDoneMsg struct {
	outcome analyzer.LogsOutcome
}

// Animation message
type tickMsg time.Time

// Animation command
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Spinner characters
var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// runAnalyzeCommand uploads off the update loop
func runAnalyzeCommand(ctx context.Context, a *analyzer.Analyzer, req analyzer.AnalyzeRequest) tea.Cmd {
	return func() tea.Msg {
		return analyzeDoneMsg{outcome: a.RunAnalyze(ctx, req)}
	}
}

// runLogsCommand fetches logs off the update loop
func runLogsCommand(ctx context.Context, a *analyzer.Analyzer, req analyzer.LogsRequest) tea.Cmd {
	return func() tea.Msg {
		return logsDoneMsg{outcome: a.RunFetchLogs(ctx, req)}
	}
}
