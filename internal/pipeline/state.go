// Package pipeline runs the staged analysis workflow:
// parse_logs → enrich_data → generate_solutions → build_report.
package pipeline

import (
	"fmt"

	"github.com/autolog/logagent/internal/models"
)

// Stage names, in execution order.
const (
	StageParseLogs         = "parse_logs"
	StageEnrichData        = "enrich_data"
	StageGenerateSolutions = "generate_solutions"
	StageBuildReport       = "build_report"
)

// Stages lists the stage names in the order Run executes them.
var Stages = []string{StageParseLogs, StageEnrichData, StageGenerateSolutions, StageBuildReport}

// State is the record handed from stage to stage. Each stage receives a
// copy and returns a new value; slices are never modified in place.
type State struct {
	Logs         string
	RepoURL      string
	Incidents    []models.Incident
	Counts       models.IncidentCounts
	Research     []models.ResearchResult
	CodeAnalysis *models.CodeAnalysis
	Solutions    []models.Solution
	Report       string
	Status       string
}

// NewState seeds a run with the raw log text and optional repository.
func NewState(logs, repoURL string) State {
	return State{Logs: logs, RepoURL: repoURL}
}

func foundStatus(n int) string {
	return fmt.Sprintf("Found %d issues", n)
}
