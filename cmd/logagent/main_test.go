package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autolog/logagent/internal/middleware"
	"github.com/autolog/logagent/internal/parser"
	"github.com/autolog/logagent/internal/services"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("LOG_FILE", "stderr")
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("JWT_SECRET", "")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootHasCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"analyze", "parse", "token", "llm"} {
		assert.True(t, names[want], want)
	}
}

func TestParseCommand(t *testing.T) {
	isolateEnv(t)
	require.NoError(t, os.WriteFile("app.log", []byte(parser.SampleLog), 0o644))

	out, err := execute(t, "parse", "--file", "app.log")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 5 issues (4 errors, 1 warnings)")
	assert.Contains(t, out, "line 9 [ERROR/HIGH] 2024-12-07 10:17:00  Disk space low: 95% used")
	assert.Contains(t, out, "    at DatabaseConnector.connect(DatabaseConnector.java:45)\n    at Application.init(Application.java:12)")

	out, err = execute(t, "parse", "--file", "app.log", "--json")
	require.NoError(t, err)
	var result services.ProcessResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 5, result.Counts.Total)
}

func TestParseCommandMissingFile(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "parse", "--file", "missing.log")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "token")
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	out, err := execute(t, "token", "--subject", "ci", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := middleware.ParseToken("s3cret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ci", claims.Subject)
}

// fakeBackends serves both the Ollama and MediaWiki endpoints.
func fakeBackends(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3.1:8b"}]}`))
		case "/api/generate":
			var req services.OllamaGenerateRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			resp := "OK"
			switch {
			case strings.Contains(req.Prompt, "JSON array of solutions"):
				resp = `[{"rootCause": "connection pool"}]`
			case strings.Contains(req.Prompt, "Markdown format"):
				resp = "# Log Analysis Report\n\n## Executive Summary\nFive issues."
			}
			_ = json.NewEncoder(w).Encode(services.OllamaGenerateResponse{Response: resp, Done: true})
		case "/w/api.php":
			_, _ = w.Write([]byte(`{"query":{"search":[]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyzeFallsBackToSampleLog(t *testing.T) {
	isolateEnv(t)
	srv := fakeBackends(t)
	t.Setenv("OLLAMA_URL", srv.URL)
	t.Setenv("WIKIPEDIA_URL", srv.URL+"/w/api.php")
	t.Setenv("RESEARCH_RATE_PER_MINUTE", "6000")

	out, err := execute(t, "analyze", "--file", "does-not-exist.log", "--output", "reports")
	require.NoError(t, err)

	sample, err := os.ReadFile(filepath.Join("logs", "sample.log"))
	require.NoError(t, err)
	assert.Equal(t, parser.SampleLog, string(sample))

	assert.Contains(t, out, "[4/4] build_report")
	assert.Contains(t, out, "Total Issues Found: 5")
	assert.Contains(t, out, "## Executive Summary")

	reports, err := filepath.Glob(filepath.Join("reports", "log_analysis_report_*.md"))
	require.NoError(t, err)
	require.Len(t, reports, 1)
	data, err := os.ReadFile(reports[0])
	require.NoError(t, err)
	assert.Equal(t, "# Log Analysis Report\n\n## Executive Summary\nFive issues.", string(data))
}

func TestLLMCheck(t *testing.T) {
	isolateEnv(t)
	srv := fakeBackends(t)
	t.Setenv("OLLAMA_URL", srv.URL)

	out, err := execute(t, "llm", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "tavily  [NOT SET]")
	assert.Contains(t, out, "available models: [llama3.1:8b]")
	assert.Contains(t, out, "generation succeeded")
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "a\n    b", indent("a\nb"))
}
