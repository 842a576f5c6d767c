package doctext

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/lu4p/cat"
	"github.com/xuri/excelize/v2"
)

func extractPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

const (
	docxDefaultMainPart = "word/document.xml"
	contentTypesPart    = "[Content_Types].xml"
	docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

var (
	// <w:p ...>...</w:p>; paragraphs become lines.
	docxParagraph = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	// <w:t>text</w:t> with any attributes.
	docxText = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
	// Override elements in [Content_Types].xml, either attribute order.
	overridePart = regexp.MustCompile(`<Override[^>]*/?>`)
	partNameAttr = regexp.MustCompile(`PartName="([^"]+)"`)
)

// docxMainPart reads the main document part name from [Content_Types].xml.
func docxMainPart(types []byte) string {
	for _, el := range overridePart.FindAll(types, -1) {
		if !bytes.Contains(el, []byte(`ContentType="`+docxMainContentType+`"`)) {
			continue
		}
		if m := partNameAttr.FindSubmatch(el); m != nil {
			return strings.TrimPrefix(string(m[1]), "/")
		}
	}
	return ""
}

// extractDOCX returns one line per non-empty paragraph of the main document part.
func extractDOCX(content []byte) (string, error) {
	zr, err := openZip(content)
	if err != nil {
		return "", fmt.Errorf("extract DOCX: not a zip: %w", err)
	}
	part := docxDefaultMainPart
	if types, err := readZipEntry(zr, contentTypesPart); err == nil {
		if p := docxMainPart(types); p != "" {
			part = p
		}
	}
	body, err := readZipEntry(zr, part)
	if err != nil {
		return "", fmt.Errorf("extract DOCX: %w", err)
	}

	var lines []string
	for _, para := range docxParagraph.FindAll(body, -1) {
		var b strings.Builder
		for _, m := range docxText.FindAllSubmatch(para, -1) {
			b.Write(m[1])
		}
		if line := strings.TrimSpace(html.UnescapeString(b.String())); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// extractXLSX returns each sheet as tab-separated rows under a "# sheet" line.
func extractXLSX(content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&b, "# %s\n", sheet)
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func extractWithCat(content []byte, kind Kind) (string, error) {
	text, err := cat.FromBytes(content)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", kind, err)
	}
	return strings.TrimSpace(text), nil
}
