package doctext

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		contentType string
		name        string
		want        Kind
	}{
		{"application/pdf", "/brochure", KindPDF},
		{"text/html; charset=utf-8", "/", KindHTML},
		{"application/octet-stream", "/files/menu.PDF", KindPDF},
		{"", "/about.docx", KindDOCX},
		{"text/plain; charset=utf-8", "/robots.txt", KindPlain},
		{"application/rtf", "", KindRTF},
		{"", "/prices.xlsx", KindXLSX},
		{"", "/unknown.bin", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.contentType+tt.name, func(t *testing.T) {
			if got := Detect(tt.contentType, tt.name); got != tt.want {
				t.Errorf("Detect(%q, %q) = %q, want %q", tt.contentType, tt.name, got, tt.want)
			}
		})
	}
}

func TestExtract_plainInvalidUTF8(t *testing.T) {
	got, err := Extract([]byte("hello\x80world"), KindPlain)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "hello\uFFFDworld" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_xlsx(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "Plan")
	f.SetCellValue("Sheet1", "B1", "Price")
	f.SetCellValue("Sheet1", "A2", "Starter")
	f.SetCellValue("Sheet1", "B2", "$49")
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	got, err := Extract(buf.Bytes(), KindXLSX)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "# Sheet1\nPlan\tPrice\nStarter\t$49" {
		t.Errorf("got %q", got)
	}
}

func docxBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtract_docxParagraphs(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p w:rsidR="00A1"><w:r><w:t>Acme </w:t></w:r><w:r><w:t xml:space="preserve">Consulting</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Fish &amp; Chips</w:t></w:r></w:p>` +
		`<w:p/>` +
		`</w:body></w:document>`
	got, err := Extract(docxBytes(t, map[string]string{"word/document.xml": doc}), KindDOCX)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "Acme Consulting\nFish & Chips" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_docxCustomMainPart(t *testing.T) {
	types := `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Override ContentType="` + docxMainContentType + `" PartName="/word/main.xml"/></Types>`
	doc := `<w:document><w:body><w:p><w:r><w:t>Custom part</w:t></w:r></w:p></w:body></w:document>`
	got, err := Extract(docxBytes(t, map[string]string{contentTypesPart: types, "word/main.xml": doc}), KindDOCX)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "Custom part" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_docxNotZip(t *testing.T) {
	if _, err := Extract([]byte("not a zip"), KindDOCX); err == nil {
		t.Error("expected error for non-zip input")
	}
}

func TestExtract_pdfRoundTrip(t *testing.T) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(40, 10, "Acme Corp brochure")
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatal(err)
	}

	got, err := Extract(buf.Bytes(), KindPDF)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(strings.ReplaceAll(got, " ", ""), "AcmeCorpbrochure") {
		t.Errorf("got %q", got)
	}
}

func TestExtract_unsupported(t *testing.T) {
	if _, err := Extract([]byte("<html></html>"), KindHTML); err == nil {
		t.Error("expected error for html kind")
	}
}
