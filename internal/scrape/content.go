package scrape

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are removed before the main content is converted.
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
	"nav", "footer",
	"img", "picture", "svg", "canvas",
	"iframe", "video", "audio",
	"form", "button", "input", "select", "textarea",
	"[aria-hidden=true]", ".cookie-banner", "#cookie-banner",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

var socialHosts = []string{
	"facebook.com", "instagram.com", "linkedin.com", "twitter.com", "x.com",
	"youtube.com", "tiktok.com", "pinterest.com", "threads.net",
}

var whitespace = regexp.MustCompile(`\s+`)

func parseDoc(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

func clean(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return clean(v)
}

// ParseMetadata reads title, description, Open Graph tags, headings and
// contact hints from an HTML page. baseURL resolves relative canonical links.
func ParseMetadata(html, baseURL string) (*Metadata, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return nil, err
	}
	m := &Metadata{
		Title:         clean(doc.Find("title").First().Text()),
		Description:   metaContent(doc, `meta[name="description"]`),
		Keywords:      metaContent(doc, `meta[name="keywords"]`),
		OGTitle:       metaContent(doc, `meta[property="og:title"]`),
		OGDescription: metaContent(doc, `meta[property="og:description"]`),
		OGImage:       metaContent(doc, `meta[property="og:image"]`),
		OGSiteName:    metaContent(doc, `meta[property="og:site_name"]`),
		OGType:        metaContent(doc, `meta[property="og:type"]`),
	}
	m.Language, _ = doc.Find("html").First().Attr("lang")
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		m.Canonical = resolve(baseURL, href)
	}

	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if len(m.Headings) >= 30 {
			return
		}
		if h := clean(s.Text()); h != "" {
			m.Headings = append(m.Headings, h)
		}
	})

	social, emails, phones := map[string]bool{}, map[string]bool{}, map[string]bool{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		switch {
		case strings.HasPrefix(strings.ToLower(href), "mailto:"):
			if addr := strings.SplitN(href[len("mailto:"):], "?", 2)[0]; addr != "" {
				emails[addr] = true
			}
		case strings.HasPrefix(strings.ToLower(href), "tel:"):
			if num := strings.TrimSpace(href[len("tel:"):]); num != "" {
				phones[num] = true
			}
		default:
			if isSocial(href) {
				social[href] = true
			}
		}
	})
	m.SocialLinks, m.Emails, m.Phones = keys(social), keys(emails), keys(phones)

	if footer := clean(doc.Find("footer").Text()); footer != "" {
		m.Footer = Truncate(footer, 1000)
	}
	return m, nil
}

// MainContent strips noise and converts the best content container
// (<main>, <article>, then <body>) to markdown.
func MainContent(html string) (string, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return "", err
	}
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	var content *goquery.Selection
	for _, tag := range []string{"main", "article", "body"} {
		if sel := doc.Find(tag); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		return "", nil
	}
	fragment, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

func isSocial(href string) bool {
	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	for _, h := range socialHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func keys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
