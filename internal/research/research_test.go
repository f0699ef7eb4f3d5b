package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autolog/logagent/internal/models"
)

func newWikiServer(t *testing.T, titles []string, extract string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case q.Get("list") == "search":
			assert.Equal(t, "3", q.Get("srlimit"))
			search := make([]map[string]string, 0, len(titles))
			for _, title := range titles {
				search = append(search, map[string]string{"title": title})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"query": map[string]any{"search": search}})
		case q.Get("prop") == "extracts":
			assert.Equal(t, "3", q.Get("exsentences"))
			assert.Equal(t, titles[0], q.Get("titles"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"query": map[string]any{
					"pages": map[string]any{"42": map[string]string{"title": titles[0], "extract": extract}},
				},
			})
		default:
			http.Error(w, "bad request", http.StatusBadRequest)
		}
	}))
}

func TestWikipediaLookup(t *testing.T) {
	srv := newWikiServer(t, []string{"Connection timeout", "Timeout"}, "A timeout happens. It is bad. Retry.")
	defer srv.Close()

	wiki := NewWikipedia(srv.URL, srv.Client(), nil)
	got := wiki.Lookup(context.Background(), "Connection timeout")

	assert.Equal(t, "Wikipedia: A timeout happens. It is bad. Retry.", got)
}

func TestWikipediaNoResults(t *testing.T) {
	srv := newWikiServer(t, nil, "")
	defer srv.Close()

	wiki := NewWikipedia(srv.URL, srv.Client(), nil)

	assert.Equal(t, NoWikipediaResults, wiki.Lookup(context.Background(), "zzzz"))
}

func TestWikipediaErrorBecomesText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	wiki := NewWikipedia(srv.URL, srv.Client(), nil)
	got := wiki.Lookup(context.Background(), "anything")

	assert.True(t, strings.HasPrefix(got, "Wikipedia search error: "), got)
	assert.Contains(t, got, "500")
}

func TestStackOverflowSearch(t *testing.T) {
	long := strings.Repeat("x", 400)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "secret", req.APIKey)
		assert.Equal(t, "Connection refused site:stackoverflow.com", req.Query)
		assert.Equal(t, 5, req.MaxResults)
		assert.Equal(t, "advanced", req.SearchDepth)

		results := make([]map[string]string, 0, 5)
		for i := 1; i <= 5; i++ {
			results = append(results, map[string]string{
				"title":   fmt.Sprintf("Q%d", i),
				"url":     fmt.Sprintf("https://stackoverflow.com/q/%d", i),
				"content": long,
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": results})
	}))
	defer srv.Close()

	so := NewStackOverflow(srv.URL, "secret", srv.Client(), nil)
	hits, err := so.Search(context.Background(), "Connection refused")

	require.NoError(t, err)
	require.Len(t, hits, 5)
	assert.Equal(t, "Q1", hits[0].Title)
	assert.Len(t, hits[0].Snippet, maxSnippetChars)
}

func TestStackOverflowWithoutKey(t *testing.T) {
	so := NewStackOverflow("http://127.0.0.1:1", "", http.DefaultClient, nil)

	hits, err := so.Search(context.Background(), "anything")

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestResearcherKeepsTopThreeAndSwallowsFailures(t *testing.T) {
	wikiSrv := newWikiServer(t, []string{"Disk"}, "Disks store data.")
	defer wikiSrv.Close()

	soSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results := []map[string]string{}
		for i := 0; i < 5; i++ {
			results = append(results, map[string]string{"title": fmt.Sprint(i), "url": "u", "content": "c"})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": results})
	}))
	defer soSrv.Close()

	limiter := NewLimiter(600)
	r := NewResearcher(
		NewWikipedia(wikiSrv.URL, wikiSrv.Client(), limiter),
		NewStackOverflow(soSrv.URL, "k", soSrv.Client(), limiter),
	)
	incident := models.Incident{Kind: models.IncidentKindError, Message: "Disk full"}

	got := r.Research(context.Background(), incident, "Disk full")

	assert.Equal(t, "Disk full", got.Query)
	assert.Equal(t, incident, got.Incident)
	assert.Equal(t, "Wikipedia: Disks store data.", got.Wikipedia)
	assert.Len(t, got.StackOverflow, MaxStackOverflowHits)

	soSrv.Close()
	failed := r.Research(context.Background(), incident, "Disk full")
	assert.NotNil(t, failed.StackOverflow)
	assert.Empty(t, failed.StackOverflow)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "ok", truncateRunes("ok", 10))
}
