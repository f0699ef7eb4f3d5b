// Package main implements the logagent CLI: run the analysis pipeline on a
// local log file, extract incidents only, mint API tokens and check the
// model provider.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/autolog/logagent/internal/config"
	"github.com/autolog/logagent/internal/logger"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "logagent",
		Short: "Extract, research and explain errors in application logs",
		Long: `logagent scans application logs for errors and warnings, researches them
on Wikipedia and Stack Overflow, optionally inspects a source repository,
and asks a generative model for solutions and a markdown report.

Configuration is read from the environment and an optional .env file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newTokenCmd())
	root.AddCommand(newLLMCmd())
	return root
}

// loadConfig reads configuration and sends logs to LOG_FILE so stdout stays
// readable.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Initialize(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	return cfg, nil
}
