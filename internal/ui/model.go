package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/DocSum/internal/analyzer"
	"github.com/yildizm/DocSum/internal/common"
	"github.com/yildizm/DocSum/internal/config"
	"github.com/yildizm/DocSum/internal/formatter"
	"github.com/yildizm/DocSum/internal/session"
)

const (
	defaultWidth  = 100
	defaultHeight = 40

	// rows taken by the title, picker, action bar, file list header and help
	chromeHeight = 12
)

// Options configures the Analyzer View
type Options struct {
	TruncateWidth int
}

// AnalyzerModel is the interactive Analyzer View
type AnalyzerModel struct {
	ctx      context.Context
	analyzer *analyzer.Analyzer
	styles   *Styles

	input   textinput.Model
	results viewport.Model

	truncateWidth int
	notice        string

	width        int
	height       int
	spinnerFrame int
	quitting     bool
}

// NewAnalyzerModel creates the view over an analyzer
func NewAnalyzerModel(ctx context.Context, a *analyzer.Analyzer, opts Options) *AnalyzerModel {
	input := textinput.New()
	input.Placeholder = "paths or globs, space separated (e.g. contracts/*.pdf)"
	input.Prompt = "Files: "
	input.CharLimit = 4096
	input.Width = 60
	input.Focus()

	width := opts.TruncateWidth
	if width <= 0 {
		width = formatter.DefaultTruncateWidth
	}

	m := &AnalyzerModel{
		ctx:           ctx,
		analyzer:      a,
		styles:        GetStyles(),
		input:         input,
		results:       viewport.New(defaultWidth, defaultHeight-chromeHeight),
		truncateWidth: width,
		width:         defaultWidth,
		height:        defaultHeight,
	}
	m.resizeResults()
	m.refreshResults()
	return m
}

// State returns the session state behind the view
func (m *AnalyzerModel) State() *session.State {
	return m.analyzer.State()
}

// Notice returns the blocking notice, if one is shown
func (m *AnalyzerModel) Notice() string {
	return m.notice
}

// Init starts the cursor blink and spinner animation
func (m *AnalyzerModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

// Update handles messages
func (m *AnalyzerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerChars)
		return m, tick()
	case analyzeDoneMsg:
		return m.handleAnalyzeDone(msg)
	case logsDoneMsg:
		return m.handleLogsDone(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *AnalyzerModel) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.results.Width = msg.Width
	m.input.Width = max(20, msg.Width-len(m.input.Prompt)-2)
	m.resizeResults()
	return m, nil
}

// resizeResults fits the result viewport below the pending file list
func (m *AnalyzerModel) resizeResults() {
	m.results.Height = max(5, m.height-chromeHeight-len(m.State().Files()))
}

func (m *AnalyzerModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// The notice is modal
	if m.notice != "" {
		switch msg.String() {
		case "enter", "esc", " ":
			m.notice = ""
		}
		return m, nil
	}

	if m.State().View() == session.ViewLogs {
		return m.handleLogsKey(msg)
	}
	return m.handleAnalyzerKey(msg)
}

func (m *AnalyzerModel) handleAnalyzerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.addFromInput()
		return m, nil
	case "ctrl+a":
		return m, m.startAnalyze()
	case "ctrl+k":
		m.State().ClearFiles()
		m.resizeResults()
		return m, nil
	case "ctrl+l":
		return m, m.startViewLogs()
	case "ctrl+r":
		if m.State().Result() == nil {
			return m, nil
		}
		m.addFromInput()
		if m.notice != "" {
			return m, nil
		}
		return m, m.startAnalyze()
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *AnalyzerModel) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b", "backspace":
		m.State().ReturnToAnalyzer()
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// addFromInput selects every file the picker input resolves to
func (m *AnalyzerModel) addFromInput() {
	fields := strings.Fields(m.input.Value())
	if len(fields) == 0 {
		return
	}
	for i, f := range fields {
		fields[i] = config.ExpandPath(f)
	}

	files, unmatched := common.ExpandPatterns(fields)
	m.State().SelectFiles(files...)
	m.input.Reset()
	m.resizeResults()

	if len(unmatched) > 0 {
		m.notice = fmt.Sprintf("No files match: %s", strings.Join(unmatched, ", "))
	}
}

// startAnalyze is a no-op while loading, matching the disabled action
func (m *AnalyzerModel) startAnalyze() tea.Cmd {
	if m.State().Loading() {
		return nil
	}
	req, err := m.analyzer.PrepareAnalyze()
	if err != nil {
		m.notice = common.NoticeFor(common.OpAnalyze, err)
		return nil
	}
	return runAnalyzeCommand(m.ctx, m.analyzer, req)
}

func (m *AnalyzerModel) startViewLogs() tea.Cmd {
	if m.State().Loading() {
		return nil
	}
	req, err := m.analyzer.PrepareViewLogs()
	if err != nil {
		m.notice = common.NoticeFor(common.OpFetchLogs, err)
		return nil
	}
	return runLogsCommand(m.ctx, m.analyzer, req)
}

func (m *AnalyzerModel) handleAnalyzeDone(msg analyzeDoneMsg) (tea.Model, tea.Cmd) {
	applied, err := m.analyzer.FinishAnalyze(msg.outcome)
	if err != nil {
		m.notice = common.NoticeFor(common.OpAnalyze, err)
	}
	if applied {
		m.refreshResults()
	}
	return m, nil
}

func (m *AnalyzerModel) handleLogsDone(msg logsDoneMsg) (tea.Model, tea.Cmd) {
	if _, err := m.analyzer.FinishFetchLogs(msg.outcome); err != nil {
		m.notice = common.NoticeFor(common.OpFetchLogs, err)
	}
	return m, nil
}

func (m *AnalyzerModel) refreshResults() {
	m.results.SetContent(renderResult(m.State().Result(), m.styles))
	m.results.GotoTop()
}

// View renders the active mode, or the notice while one is shown
func (m *AnalyzerModel) View() string {
	if m.quitting {
		return ""
	}
	if m.notice != "" {
		return m.renderNotice()
	}
	if m.State().View() == session.ViewLogs {
		return m.renderLogsView()
	}
	return m.renderAnalyzerView()
}
