// Package llm is the completion collaborator: a provider-neutral Completer
// interface with OpenAI-compatible, Gemini and offline echo implementations.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/zodiac/internal/config"
	"github.com/hyperjump/zodiac/internal/retry"
)

// Request is one completion call. Zero Model, MaxTokens and Temperature use the client defaults.
type Request struct {
	System      string
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
	// JSON asks the provider for a JSON object reply where supported.
	JSON bool
}

// Usage holds token counters reported by the provider.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Completion is a provider reply.
type Completion struct {
	Text  string
	Model string
	Usage Usage
}

// Completer sends a prompt to a model and returns its text.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (*Completion, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (*Completion, error) {
	return f(ctx, req)
}

// StatusError is a non-2xx provider response.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
	After      time.Duration
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	return fmt.Sprintf("%s http %d: %s", e.Provider, e.StatusCode, body)
}

// HTTPStatusCode returns the response status.
func (e *StatusError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// RetryAfter returns the server-requested delay, if any.
func (e *StatusError) RetryAfter() time.Duration {
	if e == nil {
		return 0
	}
	return e.After
}

// New builds the Completer selected by cfg.Provider, wrapped in a retry decorator.
func New(ctx context.Context, cfg config.LLMConfig, policy retry.Policy, logger *zap.Logger) (Completer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		c   Completer
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case "openai", "":
		c, err = NewOpenAIClient(cfg, logger)
	case "gemini":
		c, err = NewGeminiClient(ctx, cfg, logger)
	case "echo":
		return NewEchoClient(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return WithRetry(c, policy, logger), nil
}
