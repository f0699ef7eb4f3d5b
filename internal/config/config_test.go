package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "PORT", "LOG_LEVEL", "LOG_FILE", "DATABASE_URL", "DB_HOST", "DB_PORT",
		"LLM_PROVIDER", "OPENAI_API_KEY", "OLLAMA_TIMEOUT_SECONDS", "LLM_MAX_TOKENS",
		"LLM_TEMPERATURE", "RESEARCH_RATE_PER_MINUTE", "MAX_UPLOAD_MB", "WORKER_COUNT",
		"JOB_QUEUE_SIZE", "TAVILY_API_KEY", "GITHUB_TOKEN", "JWT_SECRET",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, 300*time.Second, cfg.LLM.OllamaTimeout)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAIModel)
	assert.Equal(t, 4000, cfg.LLM.MaxTokens)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, 100, cfg.JobQueueSize)
	assert.Equal(t, int64(200<<20), cfg.MaxUploadBytes())
	assert.False(t, cfg.Database.Enabled())
}

func TestFromEnvPrefersOpenAIWhenKeySet(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, map[string]bool{"openai": true, "tavily": false, "github": false}, cfg.KeyStatus())
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"WORKER_COUNT", "zero"},
		{"WORKER_COUNT", "0"},
		{"LLM_PROVIDER", "bard"},
		{"LLM_PROVIDER", "openai"},
		{"LLM_TEMPERATURE", "hot"},
		{"RESEARCH_RATE_PER_MINUTE", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{Host: "localhost", Port: "5432", User: "u", Password: "p", Name: "logs", SSLMode: "disable"}
	assert.True(t, db.Enabled())
	assert.Equal(t, "host=localhost user=u password=p dbname=logs port=5432 sslmode=disable", db.DSN())

	db.URL = "postgres://u:p@db/logs"
	assert.Equal(t, "postgres://u:p@db/logs", db.DSN())
}
