package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/hyperjump/zodiac/internal/config"
)

// GeminiClient generates text through the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

// NewGeminiClient returns a client for cfg. An API key is required.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: missing API key (set llm.api_key or GEMINI_API_KEY)")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger.With(zap.String("provider", "gemini")),
	}, nil
}

// Complete sends one GenerateContent call.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	model := firstNonEmpty(req.Model, c.model)
	temp := float32(c.temperature)
	if req.Temperature > 0 {
		temp = float32(req.Temperature)
	}
	gc := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(firstPositive(req.MaxTokens, c.maxTokens)),
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		gc.ResponseMIMEType = "application/json"
	}

	c.logger.Debug("generate content", zap.String("model", model), zap.Int("prompt_len", len(req.Prompt)))
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), gc)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", asStatusError(err))
	}
	completion := &Completion{Text: resp.Text(), Model: model}
	if u := resp.UsageMetadata; u != nil {
		completion.Usage = Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return completion, nil
}

// asStatusError maps SDK API errors to *StatusError so retry classification sees the code.
func asStatusError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Provider: "gemini", StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &StatusError{Provider: "gemini", StatusCode: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return err
}
