package export

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer renders a bundle as a styled PDF: title page, profile summary,
// then one section per output.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Extension() string { return ".pdf" }

// Render converts the bundle into PDF bytes.
func (r *PDFRenderer) Render(b *Bundle) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(b.title(), true)
	// Core fonts are cp1252; translate UTF-8 input.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 22)
	pdf.MultiCell(0, 10, tr(b.title()), "", "L", false)
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	if b.Project != nil && b.Project.WebsiteURL != "" {
		pdf.MultiCell(0, 5, tr("Source: "+b.Project.WebsiteURL), "", "L", false)
	}
	pdf.MultiCell(0, 5, "Generated: "+b.GeneratedAt.Format("2006-01-02 15:04 MST"), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	if rows := profileRows(b.Profile); len(rows) > 0 {
		renderHeading(pdf, tr, "Business profile", 1)
		for _, row := range rows {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.MultiCell(0, 5, tr(row.Label), "", "L", false)
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(row.Value), "", "L", false)
			pdf.Ln(1)
		}
	}

	for _, o := range b.Outputs {
		pdf.AddPage()
		renderHeading(pdf, tr, o.Title, 1)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 4, tr(o.Type+" | "+o.Language+" | "+o.CreatedAt.Format("2006-01-02")), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(3)
		renderBlocks(pdf, tr, parseBlocks(o.Content))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderBlocks(pdf *gofpdf.Fpdf, tr func(string) string, blocks []block) {
	for _, bl := range blocks {
		switch bl.Kind {
		case blockBlank:
			pdf.Ln(3)
		case blockHeading:
			// Level 1 is the section title.
			renderHeading(pdf, tr, bl.Text, bl.Level+1)
		case blockBullet:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr("• "+bl.Text), "", "L", false)
		case blockNumbered, blockParagraph:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(bl.Text), "", "L", false)
		case blockCode:
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, tr(bl.Text), "", "L", true)
		}
	}
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, tr func(string) string, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, tr(text), "", "L", false)
	pdf.Ln(2)
}
