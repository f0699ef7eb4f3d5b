package parser

import (
	"strings"
	"unicode"
)

// MaxStackTraceLines caps how many lines after a trigger are inspected.
const MaxStackTraceLines = 14

// extractStackTrace collects the frame lines following the error at index
// trigger. A frame is a line starting with "at ", containing `File "`, or
// indented by at least four spaces. "at " and `File "` frames are always
// kept, even when they mention an error keyword. Any other trigger line ends
// the scan, as does a non-indented line; blank and lightly indented lines are
// skipped.
func extractStackTrace(lines []string, trigger int) (string, bool) {
	end := trigger + 1 + MaxStackTraceLines
	if end > len(lines) {
		end = len(lines)
	}

	var frames []string
	for _, raw := range lines[trigger+1 : end] {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)
		trimmed := strings.TrimSpace(line)

		if isCallFrame(trimmed) {
			frames = append(frames, trimmed)
			continue
		}
		if trimmed != "" && IsTrigger(line) {
			break
		}
		if strings.HasPrefix(line, "    ") {
			frames = append(frames, trimmed)
			continue
		}
		if line != "" && !strings.HasPrefix(line, " ") {
			break
		}
	}

	if len(frames) == 0 {
		return "", false
	}
	return strings.Join(frames, "\n"), true
}

func isCallFrame(trimmed string) bool {
	return strings.HasPrefix(trimmed, "at ") || strings.Contains(trimmed, `File "`)
}
