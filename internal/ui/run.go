package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/DocSum/internal/analyzer"
)

// Run runs the Analyzer View until the user quits or ctx is cancelled
func Run(ctx context.Context, a *analyzer.Analyzer, opts Options) error {
	model := NewAnalyzerModel(ctx, a, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("analyzer view failed: %w", err)
	}
	return nil
}
