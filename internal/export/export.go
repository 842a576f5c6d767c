// Package export renders a project's profile and generated outputs as a
// downloadable document: PDF, HTML, DOCX, XLSX or Markdown.
package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/hyperjump/zodiac/internal/apperr"
	"github.com/hyperjump/zodiac/internal/models"
)

// Format is an export format name.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatHTML     Format = "html"
	FormatDOCX     Format = "docx"
	FormatXLSX     Format = "xlsx"
	FormatMarkdown Format = "md"
)

// Bundle is everything an export contains.
type Bundle struct {
	Project     *models.Project
	Profile     *models.BusinessProfile
	Outputs     []*models.Output
	GeneratedAt time.Time
}

// NewBundle builds a bundle from newest-first outputs. Unless all is set only
// the most recent output of each type is kept.
func NewBundle(p *models.Project, profile *models.BusinessProfile, outputs []*models.Output, all bool) *Bundle {
	if !all {
		outputs = models.LatestPerType(outputs)
	}
	return &Bundle{Project: p, Profile: profile, Outputs: outputs, GeneratedAt: time.Now().UTC()}
}

func (b *Bundle) title() string {
	if b.Project != nil && strings.TrimSpace(b.Project.Name) != "" {
		return b.Project.Name
	}
	return "Marketing documents"
}

// Artifact is a rendered export.
type Artifact struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Renderer renders a bundle in one format.
type Renderer interface {
	Render(b *Bundle) ([]byte, error)
	ContentType() string
	Extension() string
}

var renderers = map[Format]Renderer{
	FormatPDF:      NewPDFRenderer(),
	FormatHTML:     NewHTMLRenderer(),
	FormatDOCX:     NewDOCXRenderer(),
	FormatXLSX:     NewXLSXRenderer(),
	FormatMarkdown: NewMarkdownRenderer(),
}

// Formats lists the supported formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(renderers))
	for f := range renderers {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

// ParseFormat normalizes a format name. "markdown" is accepted for md.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "markdown" {
		f = FormatMarkdown
	}
	if _, ok := renderers[f]; !ok {
		return "", apperr.Validation("unsupported export format %q (supported: %s)", s, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Render renders b in the named format.
func Render(format string, b *Bundle) (*Artifact, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	r := renderers[f]
	data, err := r.Render(b)
	if err != nil {
		return nil, apperr.Export(string(f), err)
	}
	return &Artifact{
		Data:        data,
		ContentType: r.ContentType(),
		Filename:    Filename(b, r.Extension()),
	}, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Filename derives a download name from the project name.
func Filename(b *Bundle, ext string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(b.title()), "-"), "-")
	if slug == "" {
		slug = "export"
	}
	return fmt.Sprintf("%s-marketing%s", slug, ext)
}

// profileRow is one populated profile field.
type profileRow struct {
	Label string
	Value string
}

// profileRows returns the populated profile fields in schema order.
func profileRows(p *models.BusinessProfile) []profileRow {
	if p == nil {
		return nil
	}
	texts, lists := p.TextFields(), p.ListFields()
	var rows []profileRow
	for _, f := range models.ProfileFields {
		var v string
		switch f.Kind {
		case models.KindText:
			v = texts[f.Key].Or("")
		case models.KindList:
			v = lists[f.Key].Join(", ", "")
		}
		if v != "" {
			rows = append(rows, profileRow{Label: fieldLabel(f.Key), Value: v})
		}
	}
	return rows
}

var fieldLabelOverrides = map[string]string{
	"ctaPatterns":      "CTA Patterns",
	"seoKeywords":      "SEO Keywords",
	"seoIssues":        "SEO Issues",
	"metaTitles":       "Meta Titles",
	"metaDescriptions": "Meta Descriptions",
}

// fieldLabel turns a camelCase key into a Title Case label.
func fieldLabel(key string) string {
	if l, ok := fieldLabelOverrides[key]; ok {
		return l
	}
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
