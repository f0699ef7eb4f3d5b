package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/autolog/logagent/internal/models"
)

const fence = "```"

// ParseSolutions decodes the model's answer to SOLUTIONS_PROMPT. A fenced
// block (```json preferred) is unwrapped first. An array is used as-is and
// an object becomes a one-element list. Anything else yields a single
// {"analysis": raw} record, so the result is never empty.
func ParseSolutions(raw string) []models.Solution {
	text := unfence(raw)

	var decoded any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &decoded); err != nil {
		return fallbackSolutions(raw)
	}

	switch v := decoded.(type) {
	case []any:
		solutions := make([]models.Solution, 0, len(v))
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				solutions = append(solutions, models.Solution(obj))
			} else {
				solutions = append(solutions, models.Solution{"analysis": item})
			}
		}
		return solutions
	case map[string]any:
		return []models.Solution{models.Solution(v)}
	default:
		return fallbackSolutions(raw)
	}
}

func unfence(raw string) string {
	if idx := strings.Index(raw, fence+"json"); idx >= 0 {
		rest := raw[idx+len(fence+"json"):]
		if end := strings.Index(rest, fence); end >= 0 {
			rest = rest[:end]
		}
		return rest
	}
	if strings.Contains(raw, fence) {
		return strings.Split(raw, fence)[1]
	}
	return raw
}

func fallbackSolutions(raw string) []models.Solution {
	return []models.Solution{{"analysis": raw}}
}
