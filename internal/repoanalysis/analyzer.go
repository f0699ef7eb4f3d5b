// Package repoanalysis clones a source repository and finds the files that
// mention keywords taken from extracted incidents.
package repoanalysis

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/autolog/logagent/internal/logger"
	"github.com/autolog/logagent/internal/models"
)

// CloneFunc fetches repoURL into dir, which already exists and is empty.
type CloneFunc func(ctx context.Context, repoURL, dir string) error

// MetadataFetcher looks up hosting-provider metadata for a repository.
type MetadataFetcher interface {
	Fetch(ctx context.Context, repoURL string) (*models.RepoMetadata, error)
}

type Analyzer struct {
	clone    CloneFunc
	metadata MetadataFetcher
}

type Option func(*Analyzer)

// WithCloneFunc replaces the go-git clone, mainly for tests.
func WithCloneFunc(fn CloneFunc) Option {
	return func(a *Analyzer) { a.clone = fn }
}

// WithMetadata enables the metadata lookup.
func WithMetadata(m MetadataFetcher) Option {
	return func(a *Analyzer) { a.metadata = m }
}

// NewAnalyzer returns an Analyzer that shallow-clones with go-git, using
// token for HTTPS basic auth when it is set.
func NewAnalyzer(token string, opts ...Option) *Analyzer {
	a := &Analyzer{clone: GitClone(token)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GitClone returns a CloneFunc doing a depth-1 clone of the default branch.
func GitClone(token string) CloneFunc {
	return func(ctx context.Context, repoURL, dir string) error {
		opts := &git.CloneOptions{
			URL:          repoURL,
			Depth:        1,
			SingleBranch: true,
			Tags:         git.NoTags,
		}
		if token != "" && strings.HasPrefix(repoURL, "https://") {
			opts.Auth = &githttp.BasicAuth{Username: "x-access-token", Password: token}
		}
		_, err := git.PlainCloneContext(ctx, dir, false, opts)
		return err
	}
}

// Analyze clones repoURL into a temporary directory, scans it for keywords
// and removes the clone. Failures are reported in CodeAnalysis.Error.
func (a *Analyzer) Analyze(ctx context.Context, repoURL string, keywords []string) models.CodeAnalysis {
	log := logger.WithContext(map[string]interface{}{"repo": repoURL})

	dir, err := os.MkdirTemp("", "logagent-repo-*")
	if err != nil {
		return models.CodeAnalysis{Error: fmt.Sprintf("create temp dir: %v", err)}
	}
	defer os.RemoveAll(dir)

	log.Info("Cloning repository")
	if err := a.clone(ctx, repoURL, dir); err != nil {
		log.WithError(err).Warn("Repository clone failed")
		return models.CodeAnalysis{Error: err.Error()}
	}

	analysis, err := Scan(dir, keywords)
	if err != nil {
		return models.CodeAnalysis{Error: err.Error()}
	}
	analysis.RepoName = RepoName(repoURL)

	if a.metadata != nil {
		meta, err := a.metadata.Fetch(ctx, repoURL)
		if err != nil {
			log.WithError(err).Debug("Repository metadata unavailable")
		} else {
			analysis.Metadata = meta
		}
	}

	log.WithFields(map[string]interface{}{
		"files_analyzed": analysis.FilesAnalyzed,
		"relevant_files": len(analysis.RelevantFiles),
	}).Info("Code analysis complete")
	return analysis
}

// RepoName is the last path segment of repoURL.
func RepoName(repoURL string) string {
	parts := strings.Split(repoURL, "/")
	return parts[len(parts)-1]
}
