// Package app wires configuration into the analysis collaborators shared by
// the server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/autolog/logagent/internal/config"
	"github.com/autolog/logagent/internal/logger"
	"github.com/autolog/logagent/internal/repoanalysis"
	"github.com/autolog/logagent/internal/research"
	"github.com/autolog/logagent/internal/services"
)

// Collaborators are the external services a pipeline run talks to.
type Collaborators struct {
	LLM        *services.LLMService
	Researcher *research.Researcher
	Repo       *repoanalysis.Analyzer
}

// Build constructs the model client, research clients and repository
// analyzer from cfg.
func Build(ctx context.Context, cfg *config.Config) (*Collaborators, error) {
	llm, err := services.NewLLMService(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("init LLM service: %w", err)
	}

	if cfg.Research.TavilyAPIKey == "" {
		logger.Warn("TAVILY_API_KEY not set, Stack Overflow search disabled", nil)
	}

	repo := repoanalysis.NewAnalyzer(cfg.GitHubToken,
		repoanalysis.WithMetadata(repoanalysis.NewGitHubMetadata(ctx, cfg.GitHubToken)))

	logger.Info("Analysis collaborators ready", map[string]interface{}{
		"provider": llm.Provider(),
		"model":    llm.Model(),
		"keys":     cfg.KeyStatus(),
	})

	return &Collaborators{
		LLM:        llm,
		Researcher: research.New(cfg.Research),
		Repo:       repo,
	}, nil
}

// Runner adapts the collaborators to the job service.
func (c *Collaborators) Runner() services.Runner {
	return services.NewPipelineRunner(c.LLM, c.Researcher, c.Repo)
}
