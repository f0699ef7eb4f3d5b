package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/autolog/logagent/internal/logger"
	"github.com/autolog/logagent/internal/models"
	"github.com/autolog/logagent/internal/parser"
)

const (
	// MaxResearchedIncidents bounds enrichment to the first incidents.
	MaxResearchedIncidents = 5
	// MaxQueryChars truncates incident messages used as search queries.
	MaxQueryChars = 100
)

// Generator turns a prompt into free text.
type Generator interface {
	Generate(ctx context.Context, prompt string, callType string) (string, error)
}

// Researcher looks up external context for one incident.
type Researcher interface {
	Research(ctx context.Context, incident models.Incident, query string) models.ResearchResult
}

// RepoAnalyzer summarizes keyword-matching files of a repository.
type RepoAnalyzer interface {
	Analyze(ctx context.Context, repoURL string, keywords []string) models.CodeAnalysis
}

// StageFunc is notified before each stage starts.
type StageFunc func(stage string, index int)

type Pipeline struct {
	generator  Generator
	researcher Researcher
	repo       RepoAnalyzer
	onStage    StageFunc
}

type Option func(*Pipeline)

// WithStageHook registers a callback invoked before every stage.
func WithStageHook(fn StageFunc) Option {
	return func(p *Pipeline) { p.onStage = fn }
}

// New builds a pipeline. researcher and repo may be nil, in which case
// enrichment yields empty research and no code analysis.
func New(generator Generator, researcher Researcher, repo RepoAnalyzer, opts ...Option) *Pipeline {
	p := &Pipeline{generator: generator, researcher: researcher, repo: repo}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes all stages in order, checking ctx between them.
func (p *Pipeline) Run(ctx context.Context, logs, repoURL string) (State, error) {
	state := NewState(logs, repoURL)
	steps := []func(context.Context, State) (State, error){
		func(_ context.Context, s State) (State, error) { return ParseLogs(s), nil },
		func(ctx context.Context, s State) (State, error) { return p.EnrichData(ctx, s), nil },
		p.GenerateSolutions,
		p.BuildReport,
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		stage := Stages[i]
		if p.onStage != nil {
			p.onStage(stage, i)
		}
		logger.WithStage(stage).Info("Running pipeline stage")

		next, err := step(ctx, state)
		if err != nil {
			return state, err
		}
		state = next
	}
	return state, nil
}

// ParseLogs extracts incidents from s.Logs.
func ParseLogs(s State) State {
	s.Incidents = parser.Extract(s.Logs)
	s.Counts = models.CountIncidents(s.Incidents)
	s.Status = foundStatus(len(s.Incidents))
	logger.WithStage(StageParseLogs).WithField("incidents", len(s.Incidents)).Info(s.Status)
	return s
}

// EnrichData researches the first incidents and, when a repository is set,
// analyzes it for the incidents' leading keywords.
func (p *Pipeline) EnrichData(ctx context.Context, s State) State {
	head := s.Incidents
	if len(head) > MaxResearchedIncidents {
		head = head[:MaxResearchedIncidents]
	}

	research := make([]models.ResearchResult, 0, len(head))
	if p.researcher != nil {
		for _, incident := range head {
			research = append(research, p.researcher.Research(ctx, incident, SearchQuery(incident)))
		}
	}
	s.Research = research

	s.CodeAnalysis = nil
	if s.RepoURL != "" && p.repo != nil {
		analysis := p.repo.Analyze(ctx, s.RepoURL, Keywords(head))
		s.CodeAnalysis = &analysis
	} else if s.RepoURL == "" {
		logger.WithStage(StageEnrichData).Info("No repository provided, skipping code analysis")
	}
	return s
}

// GenerateSolutions asks the model for remediation records.
func (p *Pipeline) GenerateSolutions(ctx context.Context, s State) (State, error) {
	codeAnalysis := NoRepositoryProvided
	if s.CodeAnalysis != nil {
		codeAnalysis = toJSON(s.CodeAnalysis)
	}

	prompt := fmt.Sprintf(SOLUTIONS_PROMPT,
		len(s.Incidents),
		toJSON(nonNil(s.Incidents)),
		toJSON(nonNil(s.Research)),
		codeAnalysis,
	)

	raw, err := p.generator.Generate(ctx, prompt, "solutions")
	if err != nil {
		return s, fmt.Errorf("generate solutions: %w", err)
	}

	s.Solutions = ParseSolutions(raw)
	logger.WithStage(StageGenerateSolutions).WithField("solutions", len(s.Solutions)).Info("Generated solutions")
	return s, nil
}

// BuildReport asks the model for the final markdown report.
func (p *Pipeline) BuildReport(ctx context.Context, s State) (State, error) {
	repo := s.RepoURL
	if repo == "" {
		repo = RepositoryNotGiven
	}

	prompt := fmt.Sprintf(REPORT_PROMPT,
		len(s.Incidents),
		toJSON(nonNil(s.Incidents)),
		toJSON(nonNil(s.Solutions)),
		repo,
	)

	report, err := p.generator.Generate(ctx, prompt, "report")
	if err != nil {
		return s, fmt.Errorf("build report: %w", err)
	}
	s.Report = report
	return s, nil
}

// SearchQuery is the first MaxQueryChars characters of the message.
func SearchQuery(incident models.Incident) string {
	r := []rune(incident.Message)
	if len(r) > MaxQueryChars {
		r = r[:MaxQueryChars]
	}
	return string(r)
}

// Keywords takes the first whitespace-delimited token of each message.
// Empty messages contribute nothing.
func Keywords(incidents []models.Incident) []string {
	keywords := make([]string, 0, len(incidents))
	for _, incident := range incidents {
		if fields := strings.Fields(incident.Message); len(fields) > 0 {
			keywords = append(keywords, fields[0])
		}
	}
	return keywords
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func toJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
