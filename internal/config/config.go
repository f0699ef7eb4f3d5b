// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

type Config struct {
	Env        string
	Port       string
	GinMode    string
	CORSOrigin string

	LogLevel string
	LogFile  string

	Database DatabaseConfig
	LLM      LLMConfig
	Research ResearchConfig

	GitHubToken string
	JWTSecret   string

	OutputDir    string
	MaxUploadMB  int64
	WorkerCount  int
	JobQueueSize int
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Enabled reports whether enough settings are present to open a PostgreSQL connection.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != "" || d.Host != ""
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* settings.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type LLMConfig struct {
	Provider      string
	OllamaURL     string
	OllamaModel   string
	OllamaTimeout time.Duration
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	MaxTokens     int
	Temperature   float64
}

type ResearchConfig struct {
	TavilyAPIKey  string
	TavilyURL     string
	WikipediaURL  string
	RatePerMinute float64
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:        getEnv("ENV", "local"),
		Port:       getEnv("PORT", "8080"),
		GinMode:    os.Getenv("GIN_MODE"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),
		LogLevel:   strings.ToUpper(getEnv("LOG_LEVEL", "INFO")),
		LogFile:    getEnv("LOG_FILE", "logs/logagent.log"),
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		LLM: LLMConfig{
			OllamaURL:     getEnv("OLLAMA_URL", "http://localhost:11434"),
			OllamaModel:   getEnv("OLLAMA_MODEL", "llama3.1:8b"),
			OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		},
		Research: ResearchConfig{
			TavilyAPIKey: os.Getenv("TAVILY_API_KEY"),
			TavilyURL:    getEnv("TAVILY_URL", "https://api.tavily.com"),
			WikipediaURL: getEnv("WIKIPEDIA_URL", "https://en.wikipedia.org/w/api.php"),
		},
		GitHubToken: os.Getenv("GITHUB_TOKEN"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		OutputDir:   getEnv("OUTPUT_DIR", "output"),
	}

	var err error
	if cfg.LLM.OllamaTimeout, err = getSeconds("OLLAMA_TIMEOUT_SECONDS", 300); err != nil {
		return nil, err
	}
	if cfg.LLM.MaxTokens, err = getInt("LLM_MAX_TOKENS", 4000); err != nil {
		return nil, err
	}
	if cfg.LLM.Temperature, err = getFloat("LLM_TEMPERATURE", 0); err != nil {
		return nil, err
	}
	if cfg.Research.RatePerMinute, err = getFloat("RESEARCH_RATE_PER_MINUTE", 60); err != nil {
		return nil, err
	}
	maxUpload, err := getInt("MAX_UPLOAD_MB", 200)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadMB = int64(maxUpload)
	if cfg.WorkerCount, err = getInt("WORKER_COUNT", 2); err != nil {
		return nil, err
	}
	if cfg.JobQueueSize, err = getInt("JOB_QUEUE_SIZE", 100); err != nil {
		return nil, err
	}

	cfg.LLM.Provider = strings.ToLower(os.Getenv("LLM_PROVIDER"))
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderOllama
		if cfg.LLM.OpenAIAPIKey != "" {
			cfg.LLM.Provider = ProviderOpenAI
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late at first use.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOllama:
	case ProviderOpenAI:
		if c.LLM.OpenAIAPIKey == "" {
			return fmt.Errorf("LLM_PROVIDER=openai requires OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (expected %s or %s)", c.LLM.Provider, ProviderOllama, ProviderOpenAI)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1, got %d", c.WorkerCount)
	}
	if c.JobQueueSize < 1 {
		return fmt.Errorf("JOB_QUEUE_SIZE must be at least 1, got %d", c.JobQueueSize)
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("MAX_UPLOAD_MB must be at least 1, got %d", c.MaxUploadMB)
	}
	if c.Research.RatePerMinute <= 0 {
		return fmt.Errorf("RESEARCH_RATE_PER_MINUTE must be positive")
	}
	return nil
}

// MaxUploadBytes is the upload and file-read limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// KeyStatus reports which external credentials are configured, never their values.
func (c *Config) KeyStatus() map[string]bool {
	return map[string]bool{
		"openai": c.LLM.OpenAIAPIKey != "",
		"tavily": c.Research.TavilyAPIKey != "",
		"github": c.GitHubToken != "",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getSeconds(key string, fallback int) (time.Duration, error) {
	n, err := getInt(key, fallback)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}
