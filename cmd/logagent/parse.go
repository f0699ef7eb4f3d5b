package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/autolog/logagent/internal/services"
)

func newParseCmd() *cobra.Command {
	var (
		file    string
		asJSON  bool
		maxSize int64
	)
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Extract errors and warnings from a log file",
		Long: `Run only the event extractor and print the incidents it finds.
No external services are contacted.

Examples:
  logagent parse --file app.log
  logagent parse --file app.log --json | jq '.counts'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			processor := services.NewLogProcessor(maxSize << 20)
			text, err := processor.ReadFile(file)
			if err != nil {
				return err
			}
			result := processor.Process(text)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printIncidents(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "log file to parse")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print incidents as JSON")
	cmd.Flags().Int64Var(&maxSize, "max-mb", 200, "maximum log size in MiB")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func printIncidents(out io.Writer, result services.ProcessResult) {
	fmt.Fprintf(out, "Found %d issues (%d errors, %d warnings)\n\n",
		result.Counts.Total, result.Counts.Errors, result.Counts.Warnings)
	for _, incident := range result.Incidents {
		fmt.Fprintf(out, "line %d [%s/%s] %s  %s\n",
			incident.LineNumber, incident.Kind, incident.Severity, incident.Timestamp, incident.Message)
		if incident.HasStackTrace() {
			fmt.Fprintf(out, "    %s\n", indent(incident.Trace()))
		}
	}
}

func indent(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		out = append(out, s[i])
		if s[i] == '\n' {
			out = append(out, "    "...)
		}
	}
	return string(out)
}
