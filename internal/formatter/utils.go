package formatter

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/yildizm/DocSum/internal/common"
	"github.com/yildizm/go-termfmt"
)

// Ellipsis marks truncated cells
const Ellipsis = "…"

// SingleLine removes terminal escape sequences and collapses line breaks
// and tabs into spaces
func SingleLine(s string) string {
	return strings.Join(strings.Fields(ansi.Strip(s)), " ")
}

// Truncate flattens s to one line and cuts it to width visible characters,
// ellipsis included. A non-positive width uses DefaultTruncateWidth.
func Truncate(s string, width int) string {
	if width <= 0 {
		width = DefaultTruncateWidth
	}
	s = SingleLine(s)
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, Ellipsis)
}

// ScoreLine renders a rating against the fixed scale, e.g. "2 / 10"
func ScoreLine(score float64) string {
	return common.FormatScore(score) + " / " + common.FormatScore(common.RatingScale)
}

// scoreBar renders a score as a confidence bar over the rating scale
func scoreBar(score float64, opts *termfmt.TerminalOptions) string {
	ratio := score / common.RatingScale
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return termfmt.CreateConfidenceBar(ratio, opts)
}

// sectionEmoji returns the emoji for an analysis section using go-termfmt
func sectionEmoji(section string, opts *termfmt.TerminalOptions) string {
	switch section {
	case "summary":
		return termfmt.GetEmoji("summary", opts)
	case "ratings":
		return termfmt.GetEmoji("statistics", opts)
	case "risk":
		return termfmt.GetEmoji("warning", opts)
	case "opportunity":
		return termfmt.GetEmoji("insight", opts)
	case "neutral":
		return termfmt.GetEmoji("info", opts)
	case "anomalies":
		return termfmt.GetEmoji("pattern", opts)
	case "logs":
		return termfmt.GetEmoji("help", opts)
	default:
		return termfmt.GetEmoji("info", opts)
	}
}

func displayWidth(s string) int {
	return ansi.StringWidth(s)
}
