// Package pipeline is the application service behind the HTTP and CLI
// surfaces. It binds project storage, scraping, extraction, generation,
// search and export, and returns apperr-tagged errors.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/zodiac/internal/apperr"
	"github.com/hyperjump/zodiac/internal/export"
	"github.com/hyperjump/zodiac/internal/extraction"
	"github.com/hyperjump/zodiac/internal/generation"
	"github.com/hyperjump/zodiac/internal/models"
	"github.com/hyperjump/zodiac/internal/prompts"
	"github.com/hyperjump/zodiac/internal/scrape"
	"github.com/hyperjump/zodiac/internal/search"
	"github.com/hyperjump/zodiac/internal/storage"
)

// StatusComplete is the status reported by finished scans and generations.
const StatusComplete = "complete"

// Info describes the running configuration for status reports.
type Info struct {
	Provider    string `json:"provider"`
	Model       string `json:"model,omitempty"`
	ScrapeMode  string `json:"scrapeMode"`
	DefaultTier string `json:"defaultTier"`
}

// Service runs pipeline operations.
type Service struct {
	store     storage.Storage
	scraper   scrape.Scraper
	extractor *extraction.Extractor
	generator *generation.Generator
	registry  *prompts.Registry
	index     search.Index
	info      Info
	logger    *zap.Logger
	newID     func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIndex enables output search and keeps the index in step with deletes.
func WithIndex(idx search.Index) Option {
	return func(s *Service) { s.index = idx }
}

// WithInfo sets what Status reports about the configuration.
func WithInfo(info Info) Option {
	return func(s *Service) { s.info = info }
}

// New creates a Service.
func New(store storage.Storage, scraper scrape.Scraper, ex *extraction.Extractor, gen *generation.Generator, reg *prompts.Registry, opts ...Option) *Service {
	s := &Service{
		store:     store,
		scraper:   scraper,
		extractor: ex,
		generator: gen,
		registry:  reg,
		logger:    zap.NewNop(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// storeErr maps a storage error to NotFound or Persistence.
func storeErr(err error, entity, id string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(entity, id)
	}
	return apperr.Persistence(err)
}

// CreateProject validates in and stores a new project with an empty profile.
func (s *Service) CreateProject(ctx context.Context, in *models.ProjectInput) (*models.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	p := &models.Project{
		ID:         s.newID(),
		UserID:     in.UserID,
		Name:       in.Name,
		WebsiteURL: in.WebsiteURL,
	}
	if err := s.store.CreateProject(ctx, p); err != nil {
		return nil, apperr.Persistence(err)
	}
	s.logger.Info("project created",
		zap.String("project_id", p.ID),
		zap.String("website_url", p.WebsiteURL),
	)
	return p, nil
}

func (s *Service) project(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, storeErr(err, "project", id)
	}
	return p, nil
}

// GetProject returns a project with its profile. The profile is nil when
// no row exists.
func (s *Service) GetProject(ctx context.Context, id string) (*models.ProjectDetail, error) {
	p, err := s.project(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &models.ProjectDetail{Project: *p}
	profile, err := s.store.GetProfile(ctx, id)
	switch {
	case err == nil:
		detail.Profile = profile
	case !errors.Is(err, storage.ErrNotFound):
		return nil, apperr.Persistence(err)
	}
	return detail, nil
}

// ListProjects returns projects newest first, optionally for one user.
func (s *Service) ListProjects(ctx context.Context, userID string) ([]*models.Project, error) {
	projects, err := s.store.ListProjects(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return projects, nil
}

// UpdateProject edits a project's name or website URL.
func (s *Service) UpdateProject(ctx context.Context, id string, up *models.ProjectUpdate) (*models.Project, error) {
	if err := up.Validate(); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	p, err := s.project(ctx, id)
	if err != nil {
		return nil, err
	}
	if up.Name != nil {
		p.Name = *up.Name
	}
	if up.WebsiteURL != nil {
		p.WebsiteURL = *up.WebsiteURL
	}
	if err := s.store.UpdateProject(ctx, p); err != nil {
		return nil, storeErr(err, "project", id)
	}
	return p, nil
}

// DeleteProject removes a project, its profile and outputs.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return storeErr(err, "project", id)
	}
	if s.index != nil {
		if err := s.index.DeleteProject(ctx, id); err != nil {
			s.logger.Warn("failed to remove project outputs from search index",
				zap.String("project_id", id), zap.Error(err))
		}
	}
	s.logger.Info("project deleted", zap.String("project_id", id))
	return nil
}

// ScanResult is the outcome of a scan.
type ScanResult struct {
	Status  string                  `json:"status"`
	Profile *models.BusinessProfile `json:"profile"`
	Source  *ScanSource             `json:"source,omitempty"`
}

// ScanSource summarizes the fetched page.
type ScanSource struct {
	URL          string `json:"url"`
	FinalURL     string `json:"finalUrl"`
	Title        string `json:"title,omitempty"`
	ContentChars int    `json:"contentChars"`
}

// Scan scrapes the project's website and extracts its business profile.
// A failed fetch or extraction leaves the stored profile untouched.
func (s *Service) Scan(ctx context.Context, id string) (*ScanResult, error) {
	p, err := s.project(ctx, id)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	page, err := s.scraper.Scrape(ctx, p.WebsiteURL)
	if err != nil {
		s.logger.Warn("scrape failed",
			zap.String("project_id", id),
			zap.String("url", p.WebsiteURL),
			zap.Error(err),
		)
		return nil, apperr.Upstream("failed to fetch the website", err)
	}
	s.logger.Debug("website scraped",
		zap.String("project_id", id),
		zap.String("final_url", page.FinalURL),
		zap.Int("content_chars", len(page.Text)),
		zap.Duration("elapsed", time.Since(start)),
	)

	profile, err := s.extractor.Extract(ctx, p.WebsiteURL, scrape.Bundle(page), id)
	if err != nil {
		return nil, err
	}
	return &ScanResult{
		Status:  StatusComplete,
		Profile: profile,
		Source: &ScanSource{
			URL:          page.URL,
			FinalURL:     page.FinalURL,
			Title:        page.Metadata.Title,
			ContentChars: len([]rune(page.Text)),
		},
	}, nil
}

// Profile returns the stored profile. Before the first scan this is the
// empty row created with the project; only a missing row is NotFound.
func (s *Service) Profile(ctx context.Context, id string) (*models.BusinessProfile, error) {
	if _, err := s.project(ctx, id); err != nil {
		return nil, err
	}
	profile, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return nil, storeErr(err, "profile", id)
	}
	return profile, nil
}

// GenerateResult is the outcome of a generation batch.
type GenerateResult struct {
	Status   string                 `json:"status"`
	Results  map[string]string      `json:"results"`
	Failures map[string]string      `json:"failures"`
	Outputs  []generation.OutputRef `json:"outputs"`

	Batch *generation.BatchResult `json:"-"`
}

// Generate produces one output per requested type, in order.
func (s *Service) Generate(ctx context.Context, id string, req *models.GenerateRequest) (*GenerateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	if _, err := s.project(ctx, id); err != nil {
		return nil, err
	}
	batch, err := s.generator.GenerateOutputs(ctx, id, req.OutputTypes, req.OptionalDetails, req.Language)
	if err != nil {
		return nil, err
	}
	s.logger.Info("generation batch finished",
		zap.String("project_id", id),
		zap.Int("requested", len(req.OutputTypes)),
		zap.Int("succeeded", batch.Succeeded()),
	)
	return &GenerateResult{
		Status:   StatusComplete,
		Results:  batch.Contents(),
		Failures: batch.Failures(),
		Outputs:  batch.Outputs(),
		Batch:    batch,
	}, nil
}

// Outputs lists a project's outputs newest first.
func (s *Service) Outputs(ctx context.Context, id string) ([]*models.Output, error) {
	if _, err := s.project(ctx, id); err != nil {
		return nil, err
	}
	outputs, err := s.store.ListOutputs(ctx, id)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return outputs, nil
}

// Output returns one output.
func (s *Service) Output(ctx context.Context, outputID string) (*models.Output, error) {
	o, err := s.store.GetOutput(ctx, outputID)
	if err != nil {
		return nil, storeErr(err, "output", outputID)
	}
	return o, nil
}

// DeleteOutput removes one output and its search entry.
func (s *Service) DeleteOutput(ctx context.Context, outputID string) error {
	if err := s.store.DeleteOutput(ctx, outputID); err != nil {
		return storeErr(err, "output", outputID)
	}
	if s.index != nil {
		if err := s.index.Delete(ctx, outputID); err != nil {
			s.logger.Warn("failed to remove output from search index",
				zap.String("output_id", outputID), zap.Error(err))
		}
	}
	return nil
}

// Export renders a project's outputs. Unless all is set only the latest
// output of each type is included.
func (s *Service) Export(ctx context.Context, id, format string, all bool) (*export.Artifact, error) {
	if _, err := export.ParseFormat(format); err != nil {
		return nil, err
	}
	p, err := s.project(ctx, id)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.GetProfile(ctx, id)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Persistence(err)
	}
	outputs, err := s.store.ListOutputs(ctx, id)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	artifact, err := export.Render(format, export.NewBundle(p, profile, outputs, all))
	if err != nil {
		s.logger.Error("export failed", zap.String("project_id", id), zap.String("format", format), zap.Error(err))
		return nil, err
	}
	s.logger.Info("export rendered",
		zap.String("project_id", id),
		zap.String("format", format),
		zap.Int("bytes", len(artifact.Data)),
	)
	return artifact, nil
}

// SearchResult is a stored output matching a search.
type SearchResult struct {
	*models.Output
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet,omitempty"`
}

// Search finds a project's outputs by title and content.
func (s *Service) Search(ctx context.Context, id, query string, opts *search.Options) ([]*SearchResult, error) {
	if s.index == nil {
		return nil, apperr.Disabled("search")
	}
	if query == "" {
		return nil, apperr.Validation("q is required")
	}
	if _, err := s.project(ctx, id); err != nil {
		return nil, err
	}
	hits, err := s.index.Search(ctx, id, query, opts)
	if err != nil {
		return nil, apperr.New(apperr.KindInternal, "search failed", err)
	}
	results := make([]*SearchResult, 0, len(hits))
	for _, h := range hits {
		o, err := s.store.GetOutput(ctx, h.OutputID)
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug("search hit without stored output", zap.String("output_id", h.OutputID))
			continue
		}
		if err != nil {
			return nil, apperr.Persistence(err)
		}
		results = append(results, &SearchResult{Output: o, Score: h.Score, Snippet: h.Snippet})
	}
	return results, nil
}

// Reindex rebuilds the search entries for every stored output.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, apperr.Disabled("search")
	}
	projects, err := s.store.ListProjects(ctx, "")
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	n := 0
	for _, p := range projects {
		outputs, err := s.store.ListOutputs(ctx, p.ID)
		if err != nil {
			return n, apperr.Persistence(err)
		}
		for _, o := range outputs {
			if err := s.index.Index(ctx, o); err != nil {
				return n, apperr.New(apperr.KindInternal, "reindex failed", err)
			}
			n++
		}
	}
	s.logger.Info("search index rebuilt", zap.Int("outputs", n))
	return n, nil
}

// TypeInfo describes one document type.
type TypeInfo struct {
	Type       string `json:"type"`
	Tier       string `json:"tier"`
	Title      string `json:"title"`
	Overridden bool   `json:"overridden,omitempty"`
}

// Types lists the registered document types by tier.
func (s *Service) Types() []TypeInfo {
	return TypeInfos(s.registry)
}

// TypeInfos describes the templates of reg, ordered by tier then type.
func TypeInfos(reg *prompts.Registry) []TypeInfo {
	templates := reg.Types()
	out := make([]TypeInfo, 0, len(templates))
	for _, t := range templates {
		out = append(out, TypeInfo{
			Type:       t.Type,
			Tier:       string(t.Tier),
			Title:      models.TitleForType(t.Type),
			Overridden: t.Overridden,
		})
	}
	return out
}

// Status summarizes stored data and configuration.
type Status struct {
	Projects      int64    `json:"projects"`
	Profiles      int64    `json:"profiles"`
	Outputs       int64    `json:"outputs"`
	DatabaseBytes int64    `json:"databaseBytes"`
	IndexedDocs   uint64   `json:"indexedDocs,omitempty"`
	SearchEnabled bool     `json:"searchEnabled"`
	Templates     int      `json:"templates"`
	ExportFormats []string `json:"exportFormats"`
	Info
}

// Status reports counts and configuration.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	st, err := s.store.Stats(ctx)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	out := &Status{
		Projects:      st.Projects,
		Profiles:      st.Profiles,
		Outputs:       st.Outputs,
		DatabaseBytes: st.DatabaseBytes,
		SearchEnabled: s.index != nil,
		Templates:     s.registry.Len(),
		ExportFormats: export.Formats(),
		Info:          s.info,
	}
	if s.index != nil {
		if n, err := s.index.DocCount(); err == nil {
			out.IndexedDocs = n
		}
	}
	return out, nil
}
