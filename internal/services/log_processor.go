package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/autolog/logagent/internal/logger"
	"github.com/autolog/logagent/internal/models"
	"github.com/autolog/logagent/internal/parser"
)

// DefaultMaxLogBytes matches the 200 MiB upload limit.
const DefaultMaxLogBytes int64 = 200 << 20

var (
	ErrLogTooLarge       = errors.New("log exceeds maximum size")
	ErrUnsupportedFormat = errors.New("unsupported log file type")
)

// AllowedExtensions are the upload types accepted by ReadUpload.
var AllowedExtensions = []string{".log", ".txt", ".csv"}

type LogProcessor struct {
	maxBytes int64
}

// ProcessResult is the extractor output plus per-kind counts.
type ProcessResult struct {
	Incidents []models.Incident     `json:"incidents"`
	Counts    models.IncidentCounts `json:"counts"`
}

func NewLogProcessor(maxBytes int64) *LogProcessor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxLogBytes
	}
	return &LogProcessor{maxBytes: maxBytes}
}

// Process runs the extractor over text.
func (lp *LogProcessor) Process(text string) ProcessResult {
	incidents := parser.Extract(text)
	counts := models.CountIncidents(incidents)

	logger.Debug("Processed log text", map[string]interface{}{
		"bytes":    len(text),
		"total":    counts.Total,
		"errors":   counts.Errors,
		"warnings": counts.Warnings,
	})
	return ProcessResult{Incidents: incidents, Counts: counts}
}

// ReadFile loads a log from disk. Any extension is accepted.
func (lp *LogProcessor) ReadFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to open log file: %w", err)
	}
	if info.Size() > lp.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrLogTooLarge, info.Size(), lp.maxBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	return lp.ReadAll(file)
}

// ReadUpload loads a multipart upload after checking its extension and size.
func (lp *LogProcessor) ReadUpload(fh *multipart.FileHeader) (string, error) {
	if !IsAllowedExtension(fh.Filename) {
		return "", fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedFormat, filepath.Ext(fh.Filename), strings.Join(AllowedExtensions, ", "))
	}
	if fh.Size > lp.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrLogTooLarge, fh.Size, lp.maxBytes)
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	return lp.ReadAll(file)
}

// ReadAll reads r up to the size limit. Invalid UTF-8 is passed through.
func (lp *LogProcessor) ReadAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, lp.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("error reading log: %w", err)
	}
	if int64(len(data)) > lp.maxBytes {
		return "", fmt.Errorf("%w: limit %d bytes", ErrLogTooLarge, lp.maxBytes)
	}
	return string(data), nil
}

func IsAllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
