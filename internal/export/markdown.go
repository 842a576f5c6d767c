package export

import (
	"bytes"
	"fmt"
)

// MarkdownRenderer concatenates the outputs under headings.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer { return &MarkdownRenderer{} }

func (r *MarkdownRenderer) ContentType() string { return "text/markdown; charset=utf-8" }

func (r *MarkdownRenderer) Extension() string { return ".md" }

// Render writes the bundle as Markdown.
func (r *MarkdownRenderer) Render(b *Bundle) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", b.title())
	if b.Project != nil && b.Project.WebsiteURL != "" {
		fmt.Fprintf(&buf, "Source: %s  \n", b.Project.WebsiteURL)
	}
	fmt.Fprintf(&buf, "Generated: %s\n", b.GeneratedAt.Format("2006-01-02 15:04 MST"))

	if rows := profileRows(b.Profile); len(rows) > 0 {
		buf.WriteString("\n## Business profile\n\n")
		for _, row := range rows {
			fmt.Fprintf(&buf, "- **%s:** %s\n", row.Label, row.Value)
		}
	}
	for _, o := range b.Outputs {
		fmt.Fprintf(&buf, "\n---\n\n## %s\n\n", o.Title)
		fmt.Fprintf(&buf, "_%s · %s · %s_\n\n", o.Type, o.Language, o.CreatedAt.Format("2006-01-02"))
		buf.WriteString(o.Content)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}
