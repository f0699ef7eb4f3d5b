package parser

import (
	"regexp"

	"github.com/autolog/logagent/internal/models"
)

// Layouts are tried in order; the first match is returned verbatim.
var timestampLayouts = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}[[:space:]T]\d{2}:\d{2}:\d{2}`),
	regexp.MustCompile(`\d{2}/\d{2}/\d{4}[[:space:]]+\d{2}:\d{2}:\d{2}`),
}

// extractTimestamp returns the first embedded date/time substring of line, or
// models.TimestampNotAvailable. The value is not parsed into a time.Time.
func extractTimestamp(line string) string {
	for _, layout := range timestampLayouts {
		if ts := layout.FindString(line); ts != "" {
			return ts
		}
	}
	return models.TimestampNotAvailable
}
