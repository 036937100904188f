package formatter

import (
	"fmt"

	"github.com/yildizm/DocSum/internal/common"
)

// Formatter renders analysis results and backend logs for CLI output
type Formatter interface {
	Format(result *common.AnalysisResult) ([]byte, error)
	FormatLogs(entries []common.LogEntry) ([]byte, error)
}

// Options controls text rendering
type Options struct {
	Color         bool
	Emoji         bool
	TruncateWidth int
}

// DefaultTruncateWidth is the number of visible characters kept per log cell
const DefaultTruncateWidth = 40

// New returns the formatter for format: text, json, markdown or csv
func New(format string, opts Options) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(opts), nil
	case "json":
		return NewJSON(), nil
	case "markdown":
		return NewMarkdown(opts), nil
	case "csv":
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
