package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/DocSum/internal/common"
	"github.com/yildizm/DocSum/internal/formatter"
)

const (
	labelAnalyze    = "Analyze"
	labelUploading  = "Uploading and Analyzing..."
	labelClear      = "Clear Files"
	labelViewLogs   = "View Logs"
	labelReanalyze  = "Add More Files and Reanalyze"
	labelBack       = "Back to Analyzer"
	labelLoadingLog = "Loading logs..."
	labelNoLogs     = "No logs found."
)

func (m *AnalyzerModel) renderAnalyzerView() string {
	s := m.styles
	state := m.State()
	loading := state.Loading()

	sections := []string{
		s.Title.Render("DocSum Analyzer"),
		"",
		m.input.View(),
		"",
		m.renderActions(loading),
		"",
		m.renderPendingFiles(state.Files()),
	}

	if state.Result() != nil {
		sections = append(sections, "", m.results.View())
	}

	sections = append(sections, "", m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *AnalyzerModel) renderActions(loading bool) string {
	s := m.styles

	analyze := m.button("ctrl+a", labelAnalyze, loading)
	if loading && m.State().Analyzing() {
		analyze = s.Warning.Render(spinnerChars[m.spinnerFrame] + " " + labelUploading)
	}

	actions := []string{
		analyze,
		m.button("ctrl+k", labelClear, false),
		m.button("ctrl+l", labelViewLogs, loading),
	}
	if m.State().Result() != nil {
		actions = append(actions, m.button("ctrl+r", labelReanalyze, loading))
	}
	return strings.Join(actions, "   ")
}

// button renders an action with its key binding
func (m *AnalyzerModel) button(key, label string, disabled bool) string {
	s := m.styles
	if disabled {
		return s.ButtonDisabled.Render("[" + key + "] " + label)
	}
	return s.Key.Render("["+key+"]") + " " + s.Button.Render(label)
}

func (m *AnalyzerModel) renderPendingFiles(files []common.PendingFile) string {
	s := m.styles
	if len(files) == 0 {
		return s.Muted.Render("No files selected.")
	}

	lines := make([]string, 0, len(files)+1)
	lines = append(lines, s.Subheader.Render(fmt.Sprintf("Selected files (%d):", len(files))))
	for _, f := range files {
		lines = append(lines, "  - "+f.Name)
	}
	return strings.Join(lines, "\n")
}

func (m *AnalyzerModel) renderHelp() string {
	return m.styles.Muted.Render("enter add files | pgup/pgdown scroll | ctrl+c quit")
}

// renderResult renders an analysis; nil renders nothing
func renderResult(result *common.AnalysisResult, s *Styles) string {
	if result == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(s.Header.Render("Summary") + "\n")
	writeBullets(&b, result.Summary)

	b.WriteString("\n" + s.Header.Render("Ratings") + "\n")
	b.WriteString("Risk Score: " + formatter.ScoreLine(result.Ratings.RiskScore) + "\n")
	b.WriteString("Opportunity Score: " + formatter.ScoreLine(result.Ratings.OpportunityScore) + "\n")

	b.WriteString("\n" + s.Header.Render("Clauses") + "\n")
	b.WriteString(s.Error.Render("Risks") + "\n")
	writeBullets(&b, result.Clauses.Risk)
	b.WriteString(s.Success.Render("Opportunities") + "\n")
	writeBullets(&b, result.Clauses.Opportunity)
	b.WriteString(s.Subheader.Render("Neutral Clauses") + "\n")
	writeBullets(&b, result.Clauses.Neutral)

	b.WriteString("\n" + s.Warning.Render("Anomalies") + "\n")
	writeBullets(&b, result.Anomalies)

	return strings.TrimRight(b.String(), "\n")
}

func writeBullets(b *strings.Builder, items []string) {
	for _, item := range items {
		b.WriteString("• " + item + "\n")
	}
}

func (m *AnalyzerModel) renderLogsView() string {
	s := m.styles

	sections := []string{
		s.Key.Render("[esc]") + " " + s.Button.Render(labelBack),
		"",
		s.Title.Render("Logs"),
		"",
	}

	if m.State().FetchingLogs() {
		sections = append(sections, s.Info.Render(spinnerChars[m.spinnerFrame]+" "+labelLoadingLog))
	} else {
		sections = append(sections, renderLogTable(m.State().Logs(), m.truncateWidth, s))
	}

	sections = append(sections, "", s.Muted.Render("esc/b back | q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderLogTable renders entries in backend order. Request and response
// cells are flattened and truncated to width.
func renderLogTable(entries []common.LogEntry, width int, s *Styles) string {
	rows := make([]table.Row, 0, len(entries))
	idWidth, tsWidth := len("ID"), len("Timestamp")
	for _, e := range entries {
		id := formatter.SingleLine(e.ID.String())
		ts := formatter.SingleLine(e.Timestamp)
		rows = append(rows, table.Row{
			id,
			formatter.Truncate(e.Request, width),
			formatter.Truncate(e.Response, width),
			ts,
		})
		idWidth = max(idWidth, lipgloss.Width(id))
		tsWidth = max(tsWidth, lipgloss.Width(ts))
	}

	columns := []table.Column{
		{Title: "ID", Width: idWidth},
		{Title: "Request", Width: width},
		{Title: "Response", Width: width},
		{Title: "Timestamp", Width: tsWidth},
	}

	styles := table.DefaultStyles()
	styles.Header = s.TableHeader
	styles.Cell = s.TableCell
	styles.Selected = s.TableSelected

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithStyles(styles),
		table.WithFocused(false),
		table.WithHeight(len(rows)+3),
	)

	if len(rows) > 0 {
		return t.View()
	}

	total := 0
	for _, c := range columns {
		total += c.Width + s.TableCell.GetHorizontalFrameSize()
	}
	placeholder := lipgloss.NewStyle().
		Width(total).
		Align(lipgloss.Center).
		Foreground(s.Theme.Muted).
		Render(labelNoLogs)
	return lipgloss.JoinVertical(lipgloss.Left, strings.TrimRight(t.View(), "\n "), placeholder)
}

func (m *AnalyzerModel) renderNotice() string {
	s := m.styles
	body := lipgloss.JoinVertical(lipgloss.Center,
		s.Error.Render(m.notice),
		"",
		s.Muted.Render("Press Enter to dismiss"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s.Notice.Render(body))
}
