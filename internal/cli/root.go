package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	verbose    bool
	noColor    bool
	noEmoji    bool
	outputFmt  string
	backendURL string

	buildVersion = "dev"
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	buildVersion = version

	rootCmd := &cobra.Command{
		Use:   "docsum",
		Short: "Document analysis client",
		Long: `DocSum uploads documents to a document analysis service and shows the
returned summary, risk and opportunity ratings, clause classification and
anomalies. It can also list the service's request/response log.

Run without a subcommand to open the interactive Analyzer View.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		RunE:          runUI,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, markdown, csv)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend-url", "", "analysis service base URL (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(newUICommand())
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newLogsCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "DocSum %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Global helpers
func isEmojiDisabled() bool {
	return noEmoji
}
