// Package report writes generated analysis reports to disk.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	filePrefix   = "log_analysis_report_"
	fileLayout   = "20060102_150405"
	PreviewChars = 1000
)

// FileName returns the report file name for t.
func FileName(t time.Time) string {
	return filePrefix + t.Format(fileLayout) + ".md"
}

// Save writes content to dir/log_analysis_report_<YYYYMMDD_HHMMSS>.md,
// creating dir if needed, and returns the path.
func Save(dir, content string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// Preview returns the first n characters of content.
func Preview(content string, n int) string {
	r := []rune(content)
	if len(r) <= n {
		return content
	}
	return string(r[:n])
}
