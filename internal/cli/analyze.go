package cli

import (
	"github.com/spf13/cobra"
)

var analyzeOutputFile string

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <files...>",
		Short: "Upload documents and print the analysis",
		Long: `Upload one or more documents in a single request and print the returned
summary, ratings, clauses and anomalies.

Arguments may be paths or glob patterns. Every file is sent as a "files"
part of one multipart upload; duplicates are sent as given.`,
		Example: `  docsum analyze contract.pdf
  docsum analyze -o json contract.pdf annex.docx
  docsum analyze "contracts/*.pdf" --output-file report.md -o markdown`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.selectArgs(cmd, args)

	result, err := a.analyze(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	data, err := a.formatter.Format(result)
	if err != nil {
		return err
	}
	return writeOutput(cmd, analyzeOutputFile, data)
}
