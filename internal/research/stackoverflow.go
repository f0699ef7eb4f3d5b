package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/autolog/logagent/internal/models"
)

const (
	tavilyMaxResults  = 5
	tavilySearchDepth = "advanced"
	maxSnippetChars   = 300
	siteFilter        = " site:stackoverflow.com"
)

// StackOverflow searches Stack Overflow through the Tavily search API.
type StackOverflow struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

func NewStackOverflow(baseURL, apiKey string, client *http.Client, limiter *rate.Limiter) *StackOverflow {
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}
	return &StackOverflow{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		limiter: limiter,
	}
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search returns up to five hits for query. Without an API key it returns
// no hits and no error.
func (s *StackOverflow) Search(ctx context.Context, query string) ([]models.SearchHit, error) {
	if s.apiKey == "" {
		return []models.SearchHit{}, nil
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      s.apiKey,
		Query:       query + siteFilter,
		MaxResults:  tavilyMaxResults,
		SearchDepth: tavilySearchDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tavily returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var decoded tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	hits := make([]models.SearchHit, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		hits = append(hits, models.SearchHit{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: truncateRunes(r.Content, maxSnippetChars),
		})
	}
	return hits, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
