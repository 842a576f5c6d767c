// Package extraction turns scraped website content into a BusinessProfile by
// asking the language model for a JSON object and persisting the result.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/zodiac/internal/apperr"
	"github.com/hyperjump/zodiac/internal/llm"
	"github.com/hyperjump/zodiac/internal/models"
	"github.com/hyperjump/zodiac/internal/prompts"
)

// ErrNoJSONObject is returned when the reply has no balanced {...} span.
var ErrNoJSONObject = errors.New("no JSON object in model reply")

// ProfileWriter persists an extracted profile.
type ProfileWriter interface {
	UpsertProfile(ctx context.Context, p *models.BusinessProfile) error
}

// Extractor runs profile extraction.
type Extractor struct {
	llm    llm.Completer
	store  ProfileWriter
	logger *zap.Logger
	now    func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Extractor.
func New(c llm.Completer, store ProfileWriter, opts ...Option) *Extractor {
	e := &Extractor{llm: c, store: store, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildRequest returns the single completion request for url and rawContent.
func BuildRequest(url, rawContent string) llm.Request {
	return llm.Request{
		System: prompts.ExtractionInstruction(),
		Prompt: fmt.Sprintf("Website URL: %s\n\nWebsite content:\n%s", url, rawContent),
		JSON:   true,
	}
}

// ParseProfile locates the first JSON object in text and decodes it.
// The returned profile carries the located span as RawJSON.
func ParseProfile(text string) (*models.BusinessProfile, error) {
	span, ok := FindJSONObject(text)
	if !ok {
		return nil, ErrNoJSONObject
	}
	var p models.BusinessProfile
	if err := json.Unmarshal([]byte(span), &p); err != nil {
		return nil, fmt.Errorf("decode profile JSON: %w", err)
	}
	p.RawJSON = span
	return &p, nil
}

// Extract makes one completion call, parses the reply and upserts the
// profile of projectID, replacing every field. Nothing is written when the
// reply cannot be parsed.
func (e *Extractor) Extract(ctx context.Context, url, rawContent, projectID string) (*models.BusinessProfile, error) {
	req := BuildRequest(url, rawContent)
	e.logger.Debug("extraction request",
		zap.String("project_id", projectID),
		zap.String("url", url),
		zap.Int("content_chars", len(rawContent)),
	)

	resp, err := e.llm.Complete(ctx, req)
	if err != nil {
		return nil, apperr.Upstream("extraction failed: the language model did not respond", err)
	}

	profile, err := ParseProfile(resp.Text)
	if err != nil {
		e.logger.Warn("extraction reply not parseable",
			zap.String("project_id", projectID),
			zap.String("preview", preview(resp.Text, 200)),
			zap.Error(err),
		)
		return nil, apperr.ExtractionParse(err)
	}

	extractedAt := e.now().UTC()
	profile.ProjectID = projectID
	profile.ExtractedAt = &extractedAt
	if err := e.store.UpsertProfile(ctx, profile); err != nil {
		return nil, apperr.Persistence(err)
	}

	e.logger.Info("profile extracted",
		zap.String("project_id", projectID),
		zap.Int("fields_set", profile.SetCount()),
		zap.String("model", resp.Model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return profile, nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
