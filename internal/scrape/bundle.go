package scrape

import (
	"encoding/json"
	"strings"
)

type bundleHeader struct {
	URL         string   `json:"url"`
	FinalURL    string   `json:"finalUrl,omitempty"`
	ContentType string   `json:"contentType,omitempty"`
	Metadata    Metadata `json:"metadata"`
}

// Bundle serializes a page into the raw content handed to extraction: a
// JSON metadata header, a blank line, then the markdown body.
func Bundle(p *Page) string {
	if p == nil {
		return ""
	}
	header := bundleHeader{
		URL:         p.URL,
		ContentType: p.ContentType,
		Metadata:    p.Metadata,
	}
	if p.FinalURL != p.URL {
		header.FinalURL = p.FinalURL
	}
	meta, err := json.MarshalIndent(header, "", "  ")
	if err != nil {
		meta = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("PAGE METADATA:\n")
	b.Write(meta)
	b.WriteString("\n\nPAGE CONTENT:\n")
	b.WriteString(p.Text)
	return b.String()
}
