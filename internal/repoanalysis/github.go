package repoanalysis

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/autolog/logagent/internal/models"
)

// GitHubMetadata reads repository details from the GitHub REST API.
type GitHubMetadata struct {
	client *github.Client
}

// NewGitHubMetadata returns an authenticated client when token is set,
// otherwise an anonymous one (subject to GitHub's lower rate limit).
func NewGitHubMetadata(ctx context.Context, token string) *GitHubMetadata {
	if token == "" {
		return &GitHubMetadata{client: github.NewClient(nil)}
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &GitHubMetadata{client: github.NewClient(oauth2.NewClient(ctx, ts))}
}

// NewGitHubMetadataWithClient wraps an existing client.
func NewGitHubMetadataWithClient(client *github.Client) *GitHubMetadata {
	return &GitHubMetadata{client: client}
}

func (g *GitHubMetadata) Fetch(ctx context.Context, repoURL string) (*models.RepoMetadata, error) {
	owner, name, err := ParseGitHubURL(repoURL)
	if err != nil {
		return nil, err
	}

	repo, _, err := g.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("get repository %s/%s: %w", owner, name, err)
	}

	return &models.RepoMetadata{
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		DefaultBranch: repo.GetDefaultBranch(),
		Language:      repo.GetLanguage(),
		Stars:         repo.GetStargazersCount(),
	}, nil
}

// ParseGitHubURL extracts owner and repository from a github.com URL.
func ParseGitHubURL(repoURL string) (owner, name string, err error) {
	u, err := url.Parse(repoURL)
	if err != nil {
		return "", "", fmt.Errorf("parse repository URL: %w", err)
	}
	if !strings.EqualFold(u.Host, "github.com") && !strings.EqualFold(u.Host, "www.github.com") {
		return "", "", fmt.Errorf("not a GitHub URL: %s", repoURL)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("GitHub URL missing owner or repository: %s", repoURL)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
