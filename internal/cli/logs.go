package cli

import (
	"github.com/spf13/cobra"
)

var logsOutputFile string

func newLogsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List the backend request/response log",
		Long: `Fetch the analysis service's request/response log and print it in backend
order. Text and markdown output truncate request and response cells to
output.truncate_width characters; json and csv keep them whole.`,
		Example: `  docsum logs
  docsum logs -o csv --output-file logs.csv`,
		Args: cobra.NoArgs,
		RunE: runLogs,
	}

	cmd.Flags().StringVar(&logsOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runLogs(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	entries, err := a.fetchLogs(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	data, err := a.formatter.FormatLogs(entries)
	if err != nil {
		return err
	}
	return writeOutput(cmd, logsOutputFile, data)
}
