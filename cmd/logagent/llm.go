package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/autolog/logagent/internal/config"
	"github.com/autolog/logagent/internal/services"
)

const checkPrompt = `Reply with the single word OK.`

func newLLMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "llm",
		Short: "Generative model utilities",
	}

	var skipGenerate bool
	check := &cobra.Command{
		Use:   "check",
		Short: "Check the configured model provider",
		Long: `Check provider health, list models (Ollama only) and run a short test
generation. Only the presence of API keys is reported, never their values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runLLMCheck(cmd, cfg, skipGenerate)
		},
	}
	check.Flags().BoolVar(&skipGenerate, "no-generate", false, "skip the test generation")

	cmd.AddCommand(check)
	return cmd
}

func runLLMCheck(cmd *cobra.Command, cfg *config.Config, skipGenerate bool) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	for _, key := range []string{"openai", "tavily", "github"} {
		state := "[NOT SET]"
		if cfg.KeyStatus()[key] {
			state = "[OK]"
		}
		fmt.Fprintf(out, "%-7s %s\n", key, state)
	}

	llmService, err := services.NewLLMService(cfg.LLM)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nProvider: %s (%s)\n", llmService.Provider(), llmService.Model())

	fmt.Fprintln(out, "1. Testing health check...")
	if err := llmService.CheckLLMHealth(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	fmt.Fprintln(out, "   health check passed")

	fmt.Fprintln(out, "2. Listing available models...")
	models, err := llmService.GetAvailableModels(ctx)
	if err != nil {
		fmt.Fprintf(out, "   failed to get models: %v\n", err)
	} else {
		fmt.Fprintf(out, "   available models: %v\n", models)
	}

	if skipGenerate {
		return nil
	}

	fmt.Fprintln(out, "3. Testing simple generation...")
	start := time.Now()
	response, err := llmService.Generate(ctx, checkPrompt, "health_check")
	if err != nil {
		return fmt.Errorf("generation failed after %v: %w", time.Since(start).Round(time.Millisecond), err)
	}
	fmt.Fprintf(out, "   generation succeeded in %v: %s\n", time.Since(start).Round(time.Millisecond), response)
	return nil
}
