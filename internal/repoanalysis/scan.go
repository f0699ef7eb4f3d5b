package repoanalysis

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/autolog/logagent/internal/models"
)

const (
	maxFilesRead     = 20
	maxRelevantFiles = 5
	maxSnippetChars  = 500
)

// CodeExtensions are scanned in this order; files are grouped by extension.
var CodeExtensions = []string{".py", ".js", ".java", ".cpp", ".go", ".ts"}

// Scan walks root, reads the first code files and returns those containing
// any keyword (case-insensitive). FilesAnalyzed counts every code file found.
func Scan(root string, keywords []string) (models.CodeAnalysis, error) {
	byExt := make(map[string][]string, len(CodeExtensions))
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(d.Name())
		byExt[ext] = append(byExt[ext], path)
		return nil
	})
	if err != nil {
		return models.CodeAnalysis{}, fmt.Errorf("walk %s: %w", root, err)
	}

	var files []string
	for _, ext := range CodeExtensions {
		files = append(files, byExt[ext]...)
	}

	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k != "" {
			lowered = append(lowered, strings.ToLower(k))
		}
	}

	relevant := make([]models.RelevantFile, 0, maxRelevantFiles)
	limit := len(files)
	if limit > maxFilesRead {
		limit = maxFilesRead
	}
	for _, path := range files[:limit] {
		data, err := os.ReadFile(path)
		if err != nil || !utf8.Valid(data) {
			continue
		}
		content := string(data)
		if !containsAny(strings.ToLower(content), lowered) {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		relevant = append(relevant, models.RelevantFile{
			File:    filepath.ToSlash(rel),
			Snippet: firstRunes(content, maxSnippetChars),
		})
	}
	if len(relevant) > maxRelevantFiles {
		relevant = relevant[:maxRelevantFiles]
	}

	return models.CodeAnalysis{
		FilesAnalyzed: len(files),
		RelevantFiles: relevant,
	}, nil
}

func containsAny(content string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(content, k) {
			return true
		}
	}
	return false
}

func firstRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
