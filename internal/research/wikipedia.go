package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

const (
	wikiSearchLimit = 3
	wikiSentences   = 3

	NoWikipediaResults = "No Wikipedia results found."
)

// Wikipedia queries the MediaWiki action API.
type Wikipedia struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewWikipedia(baseURL string, client *http.Client, limiter *rate.Limiter) *Wikipedia {
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org/w/api.php"
	}
	return &Wikipedia{baseURL: baseURL, client: client, limiter: limiter}
}

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type wikiExtractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// Lookup returns a short summary of the best article for query, or a
// readable note when there is none or the request failed.
func (w *Wikipedia) Lookup(ctx context.Context, query string) string {
	summary, err := w.Summary(ctx, query)
	if err != nil {
		return fmt.Sprintf("Wikipedia search error: %v", err)
	}
	if summary == "" {
		return NoWikipediaResults
	}
	return "Wikipedia: " + summary
}

// Summary searches for query and returns the first sentences of the top
// hit. An empty string means nothing matched.
func (w *Wikipedia) Summary(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", nil
	}

	var search wikiSearchResponse
	err := w.get(ctx, url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {fmt.Sprint(wikiSearchLimit)},
		"format":   {"json"},
	}, &search)
	if err != nil {
		return "", fmt.Errorf("search: %w", err)
	}
	if len(search.Query.Search) == 0 {
		return "", nil
	}

	title := search.Query.Search[0].Title
	var extract wikiExtractResponse
	err = w.get(ctx, url.Values{
		"action":      {"query"},
		"prop":        {"extracts"},
		"exsentences": {fmt.Sprint(wikiSentences)},
		"explaintext": {"1"},
		"redirects":   {"1"},
		"titles":      {title},
		"format":      {"json"},
	}, &extract)
	if err != nil {
		return "", fmt.Errorf("summary of %q: %w", title, err)
	}

	for _, page := range extract.Query.Pages {
		if text := strings.TrimSpace(page.Extract); text != "" {
			return text, nil
		}
	}
	return "", nil
}

func (w *Wikipedia) get(ctx context.Context, params url.Values, out interface{}) error {
	if w.limiter != nil {
		if err := w.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "logagent/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
