package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/autolog/logagent/internal/config"
	"github.com/autolog/logagent/internal/logger"
)

// maxTrackedCalls bounds the in-memory call history.
const maxTrackedCalls = 100

// completer is a single generative-model backend.
type completer interface {
	complete(ctx context.Context, prompt string) (string, error)
	health(ctx context.Context) error
}

// LLMService sends prompts to the configured provider and keeps a short
// history of calls for the admin endpoint.
type LLMService struct {
	provider  string
	model     string
	backend   completer
	apiCalls  []LLMAPICall
	callMutex sync.RWMutex
}

// LLMAPICall is one tracked generative request.
type LLMAPICall struct {
	ID           string        `json:"id"`
	Timestamp    time.Time     `json:"timestamp"`
	Provider     string        `json:"provider"`
	Model        string        `json:"model"`
	CallType     string        `json:"callType"` // "solutions", "report", "health_check"
	PromptLength int           `json:"promptLength"`
	Success      bool          `json:"success"`
	Duration     time.Duration `json:"duration"`
	Response     string        `json:"response"`
	Error        string        `json:"error,omitempty"`
}

// NewLLMService builds the service for cfg.Provider.
func NewLLMService(cfg config.LLMConfig) (*LLMService, error) {
	switch cfg.Provider {
	case config.ProviderOllama, "":
		return newLLMService(config.ProviderOllama, cfg.OllamaModel, newOllamaClient(cfg)), nil
	case config.ProviderOpenAI:
		backend, err := newOpenAIClient(cfg)
		if err != nil {
			return nil, err
		}
		return newLLMService(config.ProviderOpenAI, cfg.OpenAIModel, backend), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

func newLLMService(provider, model string, backend completer) *LLMService {
	return &LLMService{
		provider: provider,
		model:    model,
		backend:  backend,
		apiCalls: make([]LLMAPICall, 0),
	}
}

func (ls *LLMService) Provider() string { return ls.provider }
func (ls *LLMService) Model() string    { return ls.model }

// Generate sends prompt to the model and returns its free-text answer.
func (ls *LLMService) Generate(ctx context.Context, prompt string, callType string) (string, error) {
	entry := logger.WithLLM(ls.provider, callType)
	entry.WithField("prompt_length", len(prompt)).Info("Making LLM request")

	start := time.Now()
	response, err := ls.backend.complete(ctx, prompt)
	elapsed := time.Since(start)

	call := LLMAPICall{
		ID:           uuid.NewString(),
		Timestamp:    start,
		Provider:     ls.provider,
		Model:        ls.model,
		CallType:     callType,
		PromptLength: len(prompt),
		Success:      err == nil,
		Duration:     elapsed,
		Response:     response,
	}
	if err != nil {
		call.Error = err.Error()
	}
	ls.addAPICall(call)

	if err != nil {
		entry.WithField("duration", elapsed.String()).WithError(err).Error("LLM request failed")
		return "", fmt.Errorf("%s request failed: %w", ls.provider, err)
	}

	entry.WithFields(map[string]interface{}{
		"duration":        elapsed.String(),
		"response_length": len(response),
	}).Info("LLM request completed")
	return response, nil
}

// CheckLLMHealth verifies the provider is reachable.
func (ls *LLMService) CheckLLMHealth(ctx context.Context) error {
	return ls.backend.health(ctx)
}

// GetAvailableModels lists the models an Ollama server has pulled.
func (ls *LLMService) GetAvailableModels(ctx context.Context) ([]string, error) {
	oc, ok := ls.backend.(*ollamaClient)
	if !ok {
		return []string{ls.model}, nil
	}
	return oc.listModels(ctx)
}

// GetAPICalls returns all tracked LLM API calls
func (ls *LLMService) GetAPICalls() []LLMAPICall {
	ls.callMutex.RLock()
	defer ls.callMutex.RUnlock()

	calls := make([]LLMAPICall, len(ls.apiCalls))
	copy(calls, ls.apiCalls)
	return calls
}

// ClearAPICalls clears the API call history
func (ls *LLMService) ClearAPICalls() {
	ls.callMutex.Lock()
	defer ls.callMutex.Unlock()
	ls.apiCalls = make([]LLMAPICall, 0)
}

func (ls *LLMService) addAPICall(call LLMAPICall) {
	ls.callMutex.Lock()
	defer ls.callMutex.Unlock()

	if len(ls.apiCalls) >= maxTrackedCalls {
		ls.apiCalls = ls.apiCalls[1:]
	}
	ls.apiCalls = append(ls.apiCalls, call)
}
