// Package generation produces marketing documents from a business profile,
// one language model call per requested document type.
package generation

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/zodiac/internal/apperr"
	"github.com/hyperjump/zodiac/internal/llm"
	"github.com/hyperjump/zodiac/internal/models"
	"github.com/hyperjump/zodiac/internal/prompts"
	"github.com/hyperjump/zodiac/internal/storage"
)

// TierFromTemplate, used as the configured tier, records each template's own
// tier on its outputs instead of a fixed label.
const TierFromTemplate = "template"

// Store is the persistence the generator needs.
type Store interface {
	GetProfile(ctx context.Context, projectID string) (*models.BusinessProfile, error)
	CreateOutput(ctx context.Context, o *models.Output) error
}

// Indexer receives every stored output. Failures are logged only.
type Indexer interface {
	Index(ctx context.Context, o *models.Output) error
}

// Templates resolves document types to instructions.
type Templates interface {
	Lookup(docType string) (prompts.Template, bool)
	Instruction(docType string) string
}

// Generator runs document generation.
type Generator struct {
	llm       llm.Completer
	store     Store
	templates Templates
	index     Indexer
	logger    *zap.Logger
	language  string
	tier      string
	newID     func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithIndex indexes stored outputs for search.
func WithIndex(idx Indexer) Option {
	return func(g *Generator) { g.index = idx }
}

// WithDefaultLanguage sets the language used when a request has none.
func WithDefaultLanguage(lang string) Option {
	return func(g *Generator) {
		if lang = strings.TrimSpace(lang); lang != "" {
			g.language = lang
		}
	}
}

// WithTier sets the tier label stored on outputs, or TierFromTemplate.
func WithTier(tier string) Option {
	return func(g *Generator) {
		if tier = strings.TrimSpace(tier); tier != "" {
			g.tier = tier
		}
	}
}

// New creates a Generator.
func New(c llm.Completer, store Store, templates Templates, opts ...Option) *Generator {
	g := &Generator{
		llm:       c,
		store:     store,
		templates: templates,
		logger:    zap.NewNop(),
		language:  "en",
		tier:      string(prompts.Tier1),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) tierFor(docType string) string {
	if g.tier != TierFromTemplate {
		return g.tier
	}
	if t, ok := g.templates.Lookup(docType); ok {
		return string(t.Tier)
	}
	return string(prompts.Tier1)
}

// Generate makes one completion call for docType and stores the result.
// Completion failures are apperr Generation errors; storage failures are
// Persistence errors.
func (g *Generator) Generate(ctx context.Context, docType string, profile *models.BusinessProfile, projectID string, details *models.OptionalDetails, language string) (*models.Output, error) {
	if strings.TrimSpace(language) == "" {
		language = g.language
	}
	prompt := BuildPrompt(BuildProfileSummary(profile, details), g.templates.Instruction(docType), language)

	resp, err := g.llm.Complete(ctx, llm.Request{Prompt: prompt})
	if err != nil {
		return nil, apperr.Generation(docType, err)
	}

	out := &models.Output{
		ID:        g.newID(),
		ProjectID: projectID,
		Type:      docType,
		Title:     models.TitleForType(docType),
		Content:   resp.Text,
		Language:  language,
		Format:    models.FormatText,
		Tier:      g.tierFor(docType),
	}
	if err := g.store.CreateOutput(ctx, out); err != nil {
		return nil, apperr.Persistence(err)
	}
	if g.index != nil {
		if err := g.index.Index(ctx, out); err != nil {
			g.logger.Warn("failed to index output", zap.String("output_id", out.ID), zap.Error(err))
		}
	}

	g.logger.Info("document generated",
		zap.String("project_id", projectID),
		zap.String("type", docType),
		zap.String("output_id", out.ID),
		zap.Int("chars", len(out.Content)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return out, nil
}

// GenerateOne generates and stores one document and returns its content.
func (g *Generator) GenerateOne(ctx context.Context, docType string, profile *models.BusinessProfile, projectID string, details *models.OptionalDetails, language string) (string, error) {
	out, err := g.Generate(ctx, docType, profile, projectID, details, language)
	if err != nil {
		return "", err
	}
	return out.Content, nil
}

// GenerateOutputs generates every type in order, one at a time. A failed
// type is recorded in the result and does not stop the others. Once ctx is
// done the remaining types are recorded as cancelled.
func (g *Generator) GenerateOutputs(ctx context.Context, projectID string, types []string, details *models.OptionalDetails, language string) (*BatchResult, error) {
	if len(types) == 0 {
		return nil, apperr.Validation("outputTypes is required")
	}
	profile, err := g.store.GetProfile(ctx, projectID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("profile", projectID)
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	batch := &BatchResult{ProjectID: projectID, Results: make([]TypeResult, 0, len(types))}
	for _, docType := range types {
		if ctxErr := ctx.Err(); ctxErr != nil {
			batch.Results = append(batch.Results, TypeResult{
				Type: docType,
				Err:  apperr.New(apperr.KindGeneration, "generation cancelled", ctxErr),
			})
			continue
		}
		out, err := g.Generate(ctx, docType, profile, projectID, details, language)
		if err != nil {
			g.logger.Warn("document generation failed",
				zap.String("project_id", projectID),
				zap.String("type", docType),
				zap.Error(err),
			)
			batch.Results = append(batch.Results, TypeResult{Type: docType, Err: asAppErr(err)})
			continue
		}
		batch.Results = append(batch.Results, TypeResult{Type: docType, Content: out.Content, OutputID: out.ID})
	}
	return batch, nil
}

func asAppErr(err error) *apperr.Error {
	if e := apperr.As(err); e != nil {
		return e
	}
	return apperr.New(apperr.KindInternal, "", err)
}
