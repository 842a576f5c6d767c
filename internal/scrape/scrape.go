// Package scrape fetches a website and reduces it to metadata plus main-content
// markdown. Two scrapers are provided: a plain HTTP client and a headless
// browser for script-rendered sites.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/hyperjump/zodiac/internal/doctext"
)

// Scraper fetches one URL.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Page, error)
}

// Page is a scraped page reduced to what extraction needs.
type Page struct {
	URL         string    `json:"url"`
	FinalURL    string    `json:"finalUrl"`
	StatusCode  int       `json:"statusCode"`
	ContentType string    `json:"contentType"`
	HTML        string    `json:"-"`
	Text        string    `json:"text"`
	Metadata    Metadata  `json:"metadata"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Metadata is what the page says about itself.
type Metadata struct {
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	Keywords      string   `json:"keywords,omitempty"`
	Canonical     string   `json:"canonical,omitempty"`
	Language      string   `json:"language,omitempty"`
	OGTitle       string   `json:"ogTitle,omitempty"`
	OGDescription string   `json:"ogDescription,omitempty"`
	OGImage       string   `json:"ogImage,omitempty"`
	OGSiteName    string   `json:"ogSiteName,omitempty"`
	OGType        string   `json:"ogType,omitempty"`
	Headings      []string `json:"headings,omitempty"`
	SocialLinks   []string `json:"socialLinks,omitempty"`
	Emails        []string `json:"emails,omitempty"`
	Phones        []string `json:"phones,omitempty"`
	Footer        string   `json:"footer,omitempty"`
}

// StatusError is a non-2xx response from the scraped site.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// HTTPStatusCode returns the response status.
func (e *StatusError) HTTPStatusCode() int { return e.StatusCode }

// Options configure page processing shared by all scrapers.
type Options struct {
	UserAgent       string
	Timeout         time.Duration
	MaxBodyBytes    int64
	MaxContentChars int
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = "Mozilla/5.0 (compatible; ZodiacBot/1.0)"
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 10 << 20
	}
	if o.MaxContentChars <= 0 {
		o.MaxContentChars = 20000
	}
	return o
}

// buildPage turns a fetched body into a Page. HTML bodies get metadata and
// main-content markdown; documents are converted to text.
func buildPage(rawURL, finalURL string, status int, contentType string, body []byte, maxChars int) (*Page, error) {
	if finalURL == "" {
		finalURL = rawURL
	}
	p := &Page{
		URL:         rawURL,
		FinalURL:    finalURL,
		StatusCode:  status,
		ContentType: contentType,
		FetchedAt:   time.Now().UTC(),
	}

	kind := doctext.Detect(contentType, urlPath(finalURL))
	if kind == doctext.KindHTML || (kind == doctext.KindUnknown && looksLikeHTML(body)) {
		p.HTML = string(body)
		meta, err := ParseMetadata(p.HTML, finalURL)
		if err != nil {
			return nil, err
		}
		p.Metadata = *meta
		text, err := MainContent(p.HTML)
		if err != nil {
			return nil, err
		}
		p.Text = Truncate(text, maxChars)
		return p, nil
	}

	text, err := doctext.Extract(body, kind)
	if err != nil {
		return nil, fmt.Errorf("convert %s document: %w", kind, err)
	}
	p.Text = Truncate(strings.TrimSpace(text), maxChars)
	if base := path.Base(urlPath(finalURL)); base != "/" && base != "." {
		p.Metadata.Title = base
	}
	return p, nil
}

func urlPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Path
}

func looksLikeHTML(body []byte) bool {
	head := strings.ToLower(string(body[:min(len(body), 512)]))
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html") || strings.Contains(head, "<body")
}

// Truncate cuts s to at most max runes on a line boundary where possible.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	cut := string(r[:max])
	if i := strings.LastIndex(cut, "\n"); i > max/2 {
		cut = cut[:i]
	}
	return cut + "\n\n[content truncated]"
}
