package models

type IncidentKind string
type IncidentSeverity string

const (
	IncidentKindError   IncidentKind = "ERROR"
	IncidentKindWarning IncidentKind = "WARNING"
)

// Severity is a flat two-tier scale. CRITICAL and FATAL keywords map to HIGH.
const (
	SeverityHigh   IncidentSeverity = "HIGH"
	SeverityMedium IncidentSeverity = "MEDIUM"
)

// TimestampNotAvailable is stored when a triggering line carries no timestamp.
const TimestampNotAvailable = "N/A"

// Incident is one detected error or warning line.
type Incident struct {
	Kind       IncidentKind     `json:"kind"`
	LineNumber int              `json:"lineNumber"`
	Message    string           `json:"message"`
	FullLine   string           `json:"fullLine"`
	Timestamp  string           `json:"timestamp"`
	Severity   IncidentSeverity `json:"severity"`
	StackTrace *string          `json:"stackTrace,omitempty"`
}

// HasStackTrace reports whether trailing stack-frame lines were associated.
func (i Incident) HasStackTrace() bool {
	return i.StackTrace != nil
}

// Trace returns the stack trace text, or "" when none was associated.
func (i Incident) Trace() string {
	if i.StackTrace == nil {
		return ""
	}
	return *i.StackTrace
}

// IncidentCounts backs the report-count display.
type IncidentCounts struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

func CountIncidents(incidents []Incident) IncidentCounts {
	counts := IncidentCounts{Total: len(incidents)}
	for _, incident := range incidents {
		switch incident.Kind {
		case IncidentKindError:
			counts.Errors++
		case IncidentKindWarning:
			counts.Warnings++
		}
	}
	return counts
}
