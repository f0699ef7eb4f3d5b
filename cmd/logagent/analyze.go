package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/autolog/logagent/internal/app"
	"github.com/autolog/logagent/internal/parser"
	"github.com/autolog/logagent/internal/pipeline"
	"github.com/autolog/logagent/internal/report"
	"github.com/autolog/logagent/internal/services"
)

const (
	defaultLogFile = "logs/sample.log"
	rule           = "================================================================================"
	thinRule       = "--------------------------------------------------------------------------------"
)

type analyzeOptions struct {
	file   string
	repo   string
	output string
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis pipeline on a log file",
		Long: `Run parse_logs, enrich_data, generate_solutions and build_report on a log
file and save the report as markdown.

When the log file does not exist, a sample log is written to logs/sample.log
and analyzed instead.

Examples:
  logagent analyze --file /var/log/app.log
  logagent analyze --file app.log --repo https://github.com/acme/shop --output reports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", defaultLogFile, "log file to analyze")
	cmd.Flags().StringVarP(&opts.repo, "repo", "r", "", "source repository URL to inspect (optional)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "report directory (default OUTPUT_DIR or ./output)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "LOG ANALYSIS AGENT")
	fmt.Fprintln(out, rule)

	processor := services.NewLogProcessor(cfg.MaxUploadBytes())
	logs, err := loadLogs(processor, opts.file, out)
	if err != nil {
		return err
	}

	collab, err := app.Build(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\nStarting analysis...")
	p := pipeline.New(collab.LLM, collab.Researcher, collab.Repo, pipeline.WithStageHook(func(stage string, index int) {
		fmt.Fprintf(out, "[%d/%d] %s\n", index+1, len(pipeline.Stages), stage)
	}))

	state, err := p.Run(cmd.Context(), logs, strings.TrimSpace(opts.repo))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	outputDir := opts.output
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	path, err := report.Save(outputDir, state.Report, time.Now())
	if err != nil {
		return err
	}

	printSummary(out, state, path)
	return nil
}

// loadLogs reads path, falling back to the bundled sample when it is missing.
func loadLogs(processor *services.LogProcessor, path string, out io.Writer) (string, error) {
	logs, err := processor.ReadFile(path)
	if err == nil {
		fmt.Fprintf(out, "Using log file: %s\n", path)
		return logs, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	fmt.Fprintf(out, "File '%s' not found, creating sample log at %s\n", path, defaultLogFile)
	if err := writeSampleLog(defaultLogFile); err != nil {
		return "", err
	}
	return parser.SampleLog, nil
}

func writeSampleLog(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create sample log directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(parser.SampleLog), 0o644); err != nil {
		return fmt.Errorf("write sample log: %w", err)
	}
	return nil
}

func printSummary(out io.Writer, state pipeline.State, path string) {
	fmt.Fprintln(out, "\n"+rule)
	fmt.Fprintln(out, "ANALYSIS COMPLETE")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "\nTotal Issues Found: %d\n", state.Counts.Total)
	fmt.Fprintf(out, "Report saved to: %s\n", path)
	fmt.Fprintln(out, "\nREPORT PREVIEW:")
	fmt.Fprintln(out, thinRule)
	fmt.Fprintln(out, report.Preview(state.Report, report.PreviewChars))
	fmt.Fprintln(out, "\n... (see full report in output file)")
	fmt.Fprintln(out, thinRule)
}
