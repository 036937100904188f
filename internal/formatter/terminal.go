package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/DocSum/internal/common"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts          *termfmt.TerminalOptions
	truncateWidth int
}

// NewTerminal creates a new terminal formatter
func NewTerminal(opts Options) Formatter {
	termOpts := termfmt.DefaultOptions()
	termOpts.Color = opts.Color
	termOpts.Emoji = opts.Emoji
	return &terminalFormatter{opts: termOpts, truncateWidth: opts.TruncateWidth}
}

func (f *terminalFormatter) Format(result *common.AnalysisResult) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "Document Analysis Summary")

	if result == nil {
		b.WriteString("No analysis result.\n")
		return []byte(b.String()), nil
	}

	f.writeSummary(&b, result.Summary)
	f.writeRatings(&b, result.Ratings)
	f.writeList(&b, "risk", "Risks", result.Clauses.Risk)
	f.writeList(&b, "opportunity", "Opportunities", result.Clauses.Opportunity)
	f.writeList(&b, "neutral", "Neutral Clauses", result.Clauses.Neutral)
	f.writeList(&b, "anomalies", "Anomalies", result.Anomalies)

	return []byte(b.String()), nil
}

// writeHeader writes a box-drawn title
func (f *terminalFormatter) writeHeader(b *strings.Builder, header string) {
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

func (f *terminalFormatter) writeSummary(b *strings.Builder, summary []string) {
	b.WriteString(sectionEmoji("summary", f.opts) + " Summary\n")
	for _, point := range summary {
		b.WriteString("• " + point + "\n")
	}
	b.WriteString("\n")
}

// writeRatings writes both scores as a tree with a bar per score
func (f *terminalFormatter) writeRatings(b *strings.Builder, ratings common.Ratings) {
	b.WriteString(sectionEmoji("ratings", f.opts) + " Ratings\n")

	items := []termfmt.TreeItem{
		{
			Label:    "Risk Score",
			Value:    ScoreLine(ratings.RiskScore),
			Children: []termfmt.TreeItem{{Label: scoreBar(ratings.RiskScore, f.opts), Last: true}},
		},
		{
			Label:    "Opportunity Score",
			Value:    ScoreLine(ratings.OpportunityScore),
			Children: []termfmt.TreeItem{{Label: scoreBar(ratings.OpportunityScore, f.opts), Last: true}},
			Last:     true,
		},
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeList writes a labelled bullet list with its item count
func (f *terminalFormatter) writeList(b *strings.Builder, section, title string, items []string) {
	fmt.Fprintf(b, "%s %s (%d)\n", sectionEmoji(section, f.opts), title, len(items))
	for _, item := range items {
		b.WriteString("• " + item + "\n")
	}
	b.WriteString("\n")
}

// FormatLogs renders the log list as an aligned table with truncated cells
func (f *terminalFormatter) FormatLogs(entries []common.LogEntry) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "Backend Logs")

	headers := []string{"ID", "Request", "Response", "Timestamp"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			SingleLine(e.ID.String()),
			Truncate(e.Request, f.truncateWidth),
			Truncate(e.Response, f.truncateWidth),
			SingleLine(e.Timestamp),
		})
	}

	widths := columnWidths(headers, rows)
	writeRow(&b, headers, widths)
	writeSeparator(&b, widths)

	if len(rows) == 0 {
		total := 0
		for _, w := range widths {
			total += w
		}
		total += 3 * (len(widths) - 1)
		b.WriteString(center("No logs found.", total) + "\n")
		return []byte(b.String()), nil
	}

	for _, row := range rows {
		writeRow(&b, row, widths)
	}
	return []byte(b.String()), nil
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = cell + strings.Repeat(" ", widths[i]-displayWidth(cell))
	}
	b.WriteString(strings.TrimRight(strings.Join(padded, " │ "), " ") + "\n")
}

func writeSeparator(b *strings.Builder, widths []int) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w)
	}
	b.WriteString(strings.Join(parts, "─┼─") + "\n")
}

func center(s string, width int) string {
	pad := width - displayWidth(s)
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad/2) + s
}
