package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yildizm/DocSum/internal/analyzer"
	"github.com/yildizm/DocSum/internal/client"
	"github.com/yildizm/DocSum/internal/common"
	"github.com/yildizm/DocSum/internal/config"
	"github.com/yildizm/DocSum/internal/formatter"
	"github.com/yildizm/DocSum/internal/logger"
	"github.com/yildizm/DocSum/internal/session"
)

// app wires configuration, backend client and orchestrator for one command
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	analyzer  *analyzer.Analyzer
	formatter formatter.Formatter
	color     bool
	format    string
}

// loadConfig merges config sources and layers command line flags on top
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewLoader().Load(cfgFile)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cmd, cfg)
	return cfg, nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if backendURL != "" {
		cfg.Backend.BaseURL = backendURL
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if outputFmt != "" {
		cfg.Output.DefaultFormat = outputFmt
	}
	if noColor {
		cfg.Output.ColorMode = "never"
	}
}

// newApp builds the command dependencies. A nil logOut uses the shared
// logger output.
func newApp(cmd *cobra.Command, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	isVerbose := func() bool { return cfg.Output.Verbose }
	var log *logger.Logger
	if logOut != nil {
		log = logger.NewWithWriter("cli", logOut, isVerbose)
	} else {
		log = logger.NewWithCallback("cli", isVerbose)
	}

	backend, err := client.New(client.Config{
		BaseURL:            cfg.Backend.BaseURL,
		Timeout:            cfg.Backend.Timeout,
		InsecureSkipVerify: cfg.Backend.InsecureSkipVerify,
		UserAgent:          "docsum/" + buildVersion,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("using backend %s", backend.BaseURL())

	useColor := resolveColor(cfg.Output.ColorMode)
	f, err := formatter.New(cfg.Output.DefaultFormat, formatter.Options{
		Color:         useColor,
		Emoji:         !isEmojiDisabled(),
		TruncateWidth: cfg.Output.TruncateWidth,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		log:       log,
		analyzer:  analyzer.New(session.New(), backend, log.WithComponent("analyzer")),
		formatter: f,
		color:     useColor,
		format:    cfg.Output.DefaultFormat,
	}, nil
}

// resolveColor applies the color mode to fatih/color and reports the result
func resolveColor(mode string) bool {
	switch mode {
	case "never":
		color.NoColor = true
	case "always":
		color.NoColor = false
	}
	return !color.NoColor
}

// selectArgs resolves file arguments and warns about patterns without matches
func (a *app) selectArgs(cmd *cobra.Command, args []string) {
	files, unmatched := common.ExpandPatterns(args)
	for _, pattern := range unmatched {
		printWarning(cmd.ErrOrStderr(), fmt.Sprintf("No files match: %s", pattern))
	}
	a.analyzer.State().SelectFiles(files...)
}

// analyze runs a cumulative upload of every selected file
func (a *app) analyze(ctx context.Context, cmd *cobra.Command) (*common.AnalysisResult, error) {
	var result *common.AnalysisResult
	files := len(a.analyzer.State().Files())
	err := a.withSpinner(cmd, fmt.Sprintf(" Uploading and analyzing %d file(s)...", files), func() error {
		var err error
		result, err = a.analyzer.Analyze(ctx)
		return err
	})
	if err != nil {
		printError(cmd.ErrOrStderr(), common.NoticeFor(common.OpAnalyze, err))
		return nil, err
	}
	return result, nil
}

// fetchLogs fetches the backend log list
func (a *app) fetchLogs(ctx context.Context, cmd *cobra.Command) ([]common.LogEntry, error) {
	var entries []common.LogEntry
	err := a.withSpinner(cmd, " Loading logs...", func() error {
		var err error
		entries, err = a.analyzer.FetchLogs(ctx)
		return err
	})
	if err != nil {
		printError(cmd.ErrOrStderr(), common.NoticeFor(common.OpFetchLogs, err))
		return nil, err
	}
	return entries, nil
}

// withSpinner shows progress for text output on a terminal
func (a *app) withSpinner(cmd *cobra.Command, suffix string, fn func() error) error {
	if a.format != "text" || a.cfg.Output.Verbose {
		return fn()
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = suffix
	s.Start()
	err := fn()
	s.Stop()
	return err
}

// writeOutput writes data to path, or to the command output when path is empty
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	printSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Output saved to %s", path))
	return nil
}

func printHeader(w io.Writer, msg string) {
	cyan := color.New(color.FgCyan, color.Bold)
	_, _ = cyan.Fprintln(w, msg)
}

func printSuccess(w io.Writer, msg string) {
	green := color.New(color.FgGreen)
	_, _ = green.Fprintf(w, "✓ %s\n", msg)
}

func printWarning(w io.Writer, msg string) {
	yellow := color.New(color.FgYellow)
	_, _ = yellow.Fprintf(w, "! %s\n", msg)
}

func printError(w io.Writer, msg string) {
	red := color.New(color.FgRed)
	_, _ = red.Fprintf(w, "✗ %s\n", msg)
}
