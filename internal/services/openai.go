package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"github.com/autolog/logagent/internal/config"
)

// Rate limiter defaults: 50 requests per minute.
const (
	defaultRateLimit = 50.0 / 60.0
	defaultBurst     = 5
)

type openAIClient struct {
	llm         llms.Model
	temperature float64
	maxTokens   int
	limiter     *rate.Limiter
	maxRetries  int
	backoff     time.Duration
}

// langchaingo reports HTTP failures as "API returned unexpected status code: NNN".
var statusCodePattern = regexp.MustCompile(`status code: (\d{3})`)

func newOpenAIClient(cfg config.LLMConfig) (*openAIClient, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("openai API key required")
	}

	opts := []openai.Option{
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(cfg.OpenAIModel),
	}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}

	return &openAIClient{
		llm:         llm,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		limiter:     rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		maxRetries:  defaultMaxRetries,
		backoff:     defaultBaseBackoff,
	}, nil
}

func (oc *openAIClient) complete(ctx context.Context, prompt string) (string, error) {
	if err := oc.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	callOpts := []llms.CallOption{llms.WithTemperature(oc.temperature)}
	if oc.maxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(oc.maxTokens))
	}

	return withRetry(ctx, oc.maxRetries, oc.backoff, func() (string, error) {
		out, err := llms.GenerateFromSinglePrompt(ctx, oc.llm, prompt, callOpts...)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", classifyOpenAIError(err)
		}
		return out, nil
	})
}

// classifyOpenAIError marks 429, 5xx and transport failures as retryable.
// Other HTTP statuses (bad request, auth) are returned as is.
func classifyOpenAIError(err error) error {
	m := statusCodePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return &retryableError{err: err}
	}
	code, _ := strconv.Atoi(m[1])
	if code == 429 || code >= 500 {
		return &retryableError{err: err}
	}
	return err
}

// health only checks configuration; the API has no cheap liveness endpoint.
func (oc *openAIClient) health(ctx context.Context) error {
	if oc.llm == nil {
		return fmt.Errorf("openai client not configured")
	}
	return ctx.Err()
}
