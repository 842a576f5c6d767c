package scrape

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// BrowserConfig selects the browser binary and mode.
type BrowserConfig struct {
	Bin      string
	Headless bool
}

// BrowserScraper renders pages in a headless Chrome. Scrapes are serialized
// through one browser connection.
type BrowserScraper struct {
	cfg    BrowserConfig
	opts   Options
	logger *zap.Logger

	mu      sync.Mutex
	launch  *launcher.Launcher
	browser *rod.Browser
}

// NewBrowserScraper creates a scraper. The browser is launched by Start or
// lazily on the first Scrape.
func NewBrowserScraper(cfg BrowserConfig, opts Options, logger *zap.Logger) *BrowserScraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowserScraper{cfg: cfg, opts: opts.withDefaults(), logger: logger}
}

// Start launches and connects to the browser.
func (s *BrowserScraper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(ctx)
}

func (s *BrowserScraper) startLocked(ctx context.Context) error {
	if s.browser != nil {
		return nil
	}
	l := launcher.New().Headless(s.cfg.Headless)
	if s.cfg.Bin != "" {
		l = l.Bin(s.cfg.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch chrome: %w", err)
	}
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connect to chrome: %w", err)
	}
	s.launch = l
	s.browser = browser
	s.logger.Info("browser started", zap.Bool("headless", s.cfg.Headless))
	return nil
}

// Scrape navigates to rawURL, waits for the load event and processes the
// rendered DOM.
func (s *BrowserScraper) Scrape(ctx context.Context, rawURL string) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.startLocked(context.Background()); err != nil {
		return nil, err
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: s.opts.UserAgent}); err != nil {
		s.logger.Warn("failed to set user agent", zap.Error(err))
	}

	p := page.Context(ctx).Timeout(s.opts.Timeout)
	if err := p.Navigate(rawURL); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", rawURL, err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for %s: %w", rawURL, err)
	}
	html, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("read DOM of %s: %w", rawURL, err)
	}

	finalURL := rawURL
	if info, err := p.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}
	return buildPage(rawURL, finalURL, 200, "text/html", []byte(html), s.opts.MaxContentChars)
}

// Close shuts the browser down and removes its profile directory.
func (s *BrowserScraper) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return nil
	}
	var errs []error
	if err := s.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	s.launch.Cleanup()
	s.browser = nil
	s.launch = nil
	return errors.Join(errs...)
}
