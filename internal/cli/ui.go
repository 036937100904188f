package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/DocSum/internal/config"
	"github.com/yildizm/DocSum/internal/logger"
	"github.com/yildizm/DocSum/internal/ui"
)

func newUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ui [files...]",
		Short: "Open the interactive Analyzer View",
		Long: `Open the interactive Analyzer View.

Files given on the command line are preselected. Inside the view, type paths
or glob patterns and press Enter to add them, then:

  ctrl+a  analyze every selected file
  ctrl+k  clear the selected files
  ctrl+l  view the backend logs (esc to return)
  ctrl+r  add the typed files and reanalyze
  ctrl+c  quit

Diagnostics are written to output.log_file while the view is open.`,
		Example: `  docsum ui
  docsum ui contract.pdf annex/*.pdf
  docsum --backend-url http://localhost:8000 ui`,
		RunE: runUI,
	}
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	// The view owns the terminal
	restore, err := logger.RedirectToFile(config.ExpandPath(cfg.Output.LogFile))
	if err != nil {
		return err
	}
	defer restore()

	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	a.selectArgs(cmd, args)

	if !ui.SetThemeByName(a.cfg.UI.Theme) {
		a.log.Warn("unknown theme %q, using default (available: %s)", a.cfg.UI.Theme, strings.Join(ui.GetAvailableThemes(), ", "))
	}

	return ui.Run(cmd.Context(), a.analyzer, ui.Options{
		TruncateWidth: a.cfg.Output.TruncateWidth,
	})
}
