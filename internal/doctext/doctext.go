// Package doctext converts non-HTML documents fetched from a website (PDF,
// Word, spreadsheets, OpenDocument text, RTF, plain text) into plain text.
package doctext

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"unicode/utf8"
)

// Kind is a supported document format.
type Kind string

const (
	KindPDF   Kind = "pdf"
	KindDOCX  Kind = "docx"
	KindXLSX  Kind = "xlsx"
	KindODT   Kind = "odt"
	KindRTF   Kind = "rtf"
	KindPlain Kind = "plain"
	// KindHTML is recognised but not handled here.
	KindHTML    Kind = "html"
	KindUnknown Kind = ""
)

var byMediaType = map[string]Kind{
	"application/pdf": KindPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": KindDOCX,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       KindXLSX,
	"application/vnd.oasis.opendocument.text":                                 KindODT,
	"application/rtf":       KindRTF,
	"text/rtf":              KindRTF,
	"text/plain":            KindPlain,
	"text/markdown":         KindPlain,
	"text/html":             KindHTML,
	"application/xhtml+xml": KindHTML,
}

var byExt = map[string]Kind{
	".pdf":  KindPDF,
	".docx": KindDOCX,
	".xlsx": KindXLSX,
	".odt":  KindODT,
	".rtf":  KindRTF,
	".txt":  KindPlain,
	".md":   KindPlain,
	".rst":  KindPlain,
	".html": KindHTML,
	".htm":  KindHTML,
}

// Detect picks a Kind from the Content-Type header, falling back to the
// extension of name (a URL path or file name).
func Detect(contentType, name string) Kind {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if k, ok := byMediaType[strings.ToLower(mt)]; ok {
			return k
		}
	}
	if k, ok := byExt[strings.ToLower(path.Ext(name))]; ok {
		return k
	}
	return KindUnknown
}

// Extract returns the text content of a document of the given kind.
func Extract(content []byte, kind Kind) (string, error) {
	switch kind {
	case KindPDF:
		return extractPDF(content)
	case KindDOCX:
		return extractDOCX(content)
	case KindXLSX:
		return extractXLSX(content)
	case KindODT, KindRTF:
		return extractWithCat(content, kind)
	case KindPlain, KindUnknown:
		return extractPlain(content), nil
	default:
		return "", fmt.Errorf("doctext: unsupported kind %q", kind)
	}
}

// extractPlain returns content as a string, replacing invalid UTF-8 sequences.
func extractPlain(content []byte) string {
	if !utf8.Valid(content) {
		return strings.ToValidUTF8(string(content), "\ufffd")
	}
	return string(content)
}

// readZipEntry returns the bytes of the named entry in an OOXML/ODF package.
func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s not found", name)
}

func openZip(content []byte) (*zip.Reader, error) {
	return zip.NewReader(bytes.NewReader(content), int64(len(content)))
}
