package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// HTTPScraper fetches pages with a plain HTTP client. It does not run
// scripts; use BrowserScraper for client-rendered sites.
type HTTPScraper struct {
	client *http.Client
	opts   Options
	logger *zap.Logger
}

// HTTPOption configures an HTTPScraper.
type HTTPOption func(*HTTPScraper)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) HTTPOption {
	return func(s *HTTPScraper) { s.logger = logger }
}

// NewHTTPScraper creates an HTTP scraper.
func NewHTTPScraper(opts Options, options ...HTTPOption) *HTTPScraper {
	opts = opts.withDefaults()
	s := &HTTPScraper{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		logger: zap.NewNop(),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Scrape fetches rawURL and returns the processed page. Non-2xx responses
// return a *StatusError.
func (s *HTTPScraper) Scrape(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.opts.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", rawURL, err)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	page, err := buildPage(rawURL, finalURL, resp.StatusCode, resp.Header.Get("Content-Type"), body, s.opts.MaxContentChars)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("page scraped",
		zap.String("url", rawURL),
		zap.String("final_url", finalURL),
		zap.Int("bytes", len(body)),
		zap.Int("text_chars", len(page.Text)),
	)
	return page, nil
}
