package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/zodiac/internal/config"
	"github.com/hyperjump/zodiac/internal/extraction"
	"github.com/hyperjump/zodiac/internal/generation"
	"github.com/hyperjump/zodiac/internal/llm"
	"github.com/hyperjump/zodiac/internal/pipeline"
	"github.com/hyperjump/zodiac/internal/prompts"
	"github.com/hyperjump/zodiac/internal/retry"
	"github.com/hyperjump/zodiac/internal/scrape"
	"github.com/hyperjump/zodiac/internal/search"
	"github.com/hyperjump/zodiac/internal/storage"
)

// Components holds initialized services.
type Components struct {
	Config   *config.Config
	Storage  storage.Storage
	Index    *search.BleveIndex
	Registry *prompts.Registry
	Browser  *scrape.BrowserScraper
	Service  *pipeline.Service
}

// Close releases the browser, the index and the database.
func (c *Components) Close() {
	if c.Browser != nil {
		_ = c.Browser.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	c := &Components{Config: cfg, Storage: store}

	policy := retry.FromConfig(cfg.Retry)
	completer, err := llm.New(ctx, cfg.LLM, policy, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize llm client: %w", err)
	}

	scraper, err := newScraper(c, cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	scraper = scrape.WithRetry(scraper, policy, logger)

	c.Registry = prompts.NewRegistry(prompts.WithLogger(logger))
	if path := cfg.Templates.OverridesPath; path != "" {
		if err := c.Registry.LoadOverrides(path); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to load template overrides: %w", err)
		}
	}

	genOpts := []generation.Option{
		generation.WithLogger(logger),
		generation.WithDefaultLanguage(cfg.Generation.DefaultLanguage),
		generation.WithTier(cfg.Generation.Tier),
	}
	svcOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithInfo(pipeline.Info{
			Provider:    cfg.LLM.Provider,
			Model:       cfg.LLM.Model,
			ScrapeMode:  cfg.Scrape.Mode,
			DefaultTier: cfg.Generation.Tier,
		}),
	}
	if path := cfg.Storage.SearchIndexPath; path != "" {
		idx, err := search.NewBleveIndex(path)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to open search index: %w", err)
		}
		c.Index = idx
		genOpts = append(genOpts, generation.WithIndex(idx))
		svcOpts = append(svcOpts, pipeline.WithIndex(idx))
	}

	extractor := extraction.New(completer, store, extraction.WithLogger(logger))
	generator := generation.New(completer, store, c.Registry, genOpts...)
	c.Service = pipeline.New(store, scraper, extractor, generator, c.Registry, svcOpts...)
	return c, nil
}

func newScraper(c *Components, cfg *config.Config, logger *zap.Logger) (scrape.Scraper, error) {
	opts := scrape.Options{
		UserAgent:       cfg.Scrape.UserAgent,
		Timeout:         cfg.Scrape.Timeout,
		MaxBodyBytes:    cfg.Scrape.MaxBodyBytes,
		MaxContentChars: cfg.Scrape.MaxContentChars,
	}
	switch mode := strings.ToLower(cfg.Scrape.Mode); mode {
	case "", "http":
		return scrape.NewHTTPScraper(opts, scrape.WithLogger(logger)), nil
	case "browser":
		c.Browser = scrape.NewBrowserScraper(scrape.BrowserConfig{
			Bin:      cfg.Scrape.BrowserBin,
			Headless: cfg.Scrape.HeadlessOrDefault(),
		}, opts, logger)
		return c.Browser, nil
	default:
		return nil, fmt.Errorf("unknown scrape mode %q (use http or browser)", cfg.Scrape.Mode)
	}
}
