// Package parser extracts error and warning incidents from unstructured,
// line-oriented log text.
package parser

import (
	"regexp"
	"strings"

	"github.com/autolog/logagent/internal/models"
)

// rule is one keyword pattern. Rules are kept in ordered slices: the first
// matching rule of a class wins, so the order is the tie-break.
type rule struct {
	keyword  string
	kind     models.IncidentKind
	severity models.IncidentSeverity
	re       *regexp.Regexp
}

func newRule(keyword string, kind models.IncidentKind, severity models.IncidentSeverity) rule {
	return rule{
		keyword:  keyword,
		kind:     kind,
		severity: severity,
		re:       regexp.MustCompile(`(?i)` + regexp.QuoteMeta(keyword) + `[:[:space:]]+(.+)`),
	}
}

var errorRules = []rule{
	newRule("ERROR", models.IncidentKindError, models.SeverityHigh),
	newRule("Exception", models.IncidentKindError, models.SeverityHigh),
	newRule("CRITICAL", models.IncidentKindError, models.SeverityHigh),
	newRule("FATAL", models.IncidentKindError, models.SeverityHigh),
	newRule("Failed", models.IncidentKindError, models.SeverityHigh),
}

var warningRules = []rule{
	newRule("WARNING", models.IncidentKindWarning, models.SeverityMedium),
	newRule("WARN", models.IncidentKindWarning, models.SeverityMedium),
}

// Extract scans text line by line and returns one incident per error or
// warning line, in input order. It never fails; text without recognizable
// lines yields an empty, non-nil slice. Safe for concurrent use.
func Extract(text string) []models.Incident {
	lines := strings.Split(text, "\n")
	incidents := make([]models.Incident, 0)

	for i, line := range lines {
		// Error rules short-circuit the warning rules for the same line.
		if r, message, ok := match(errorRules, line); ok {
			incident := newIncident(r, i, line, message)
			if trace, ok := extractStackTrace(lines, i); ok {
				incident.StackTrace = &trace
			}
			incidents = append(incidents, incident)
			continue
		}

		if r, message, ok := match(warningRules, line); ok {
			incidents = append(incidents, newIncident(r, i, line, message))
		}
	}

	return incidents
}

// IsTrigger reports whether line would produce an incident on its own.
func IsTrigger(line string) bool {
	if _, _, ok := match(errorRules, line); ok {
		return true
	}
	_, _, ok := match(warningRules, line)
	return ok
}

func match(rules []rule, line string) (rule, string, bool) {
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(line); m != nil {
			return r, m[1], true
		}
	}
	return rule{}, "", false
}

func newIncident(r rule, index int, line, message string) models.Incident {
	return models.Incident{
		Kind:       r.kind,
		LineNumber: index + 1,
		Message:    strings.TrimSpace(message),
		FullLine:   strings.TrimSpace(line),
		Timestamp:  extractTimestamp(line),
		Severity:   r.severity,
	}
}
