package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/DocSum/internal/common"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	truncateWidth int
	now           func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown(opts Options) Formatter {
	return &markdownFormatter{truncateWidth: opts.TruncateWidth, now: time.Now}
}

func (f *markdownFormatter) Format(result *common.AnalysisResult) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Document Analysis Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	if result == nil {
		b.WriteString("_No analysis result._\n")
		return []byte(b.String()), nil
	}

	f.writeTableOfContents(&b)

	b.WriteString("## Summary\n\n")
	f.writeBullets(&b, result.Summary)

	b.WriteString("## Ratings\n\n")
	b.WriteString("| Metric | Score |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Risk Score | %s |\n", ScoreLine(result.Ratings.RiskScore))
	fmt.Fprintf(&b, "| Opportunity Score | %s |\n\n", ScoreLine(result.Ratings.OpportunityScore))

	b.WriteString("## Clauses\n\n")
	b.WriteString("### Risks\n\n")
	f.writeBullets(&b, result.Clauses.Risk)
	b.WriteString("### Opportunities\n\n")
	f.writeBullets(&b, result.Clauses.Opportunity)
	b.WriteString("### Neutral Clauses\n\n")
	f.writeBullets(&b, result.Clauses.Neutral)

	b.WriteString("## Anomalies\n\n")
	f.writeBullets(&b, result.Anomalies)

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeTableOfContents(b *strings.Builder) {
	b.WriteString("## Table of Contents\n")
	b.WriteString("- [Summary](#summary)\n")
	b.WriteString("- [Ratings](#ratings)\n")
	b.WriteString("- [Clauses](#clauses)\n")
	b.WriteString("- [Anomalies](#anomalies)\n\n")
}

func (f *markdownFormatter) writeBullets(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString("_None_\n\n")
		return
	}
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) FormatLogs(entries []common.LogEntry) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Backend Logs\n\n")
	b.WriteString("| ID | Request | Response | Timestamp |\n")
	b.WriteString("|----|---------|----------|-----------|\n")

	if len(entries) == 0 {
		// Markdown has no colspan
		b.WriteString("| No logs found. | | | |\n")
		return []byte(b.String()), nil
	}

	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			escapeCell(e.ID.String()),
			escapeCell(Truncate(e.Request, f.truncateWidth)),
			escapeCell(Truncate(e.Response, f.truncateWidth)),
			escapeCell(e.Timestamp))
	}
	return []byte(b.String()), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(SingleLine(s), "|", "\\|")
}
