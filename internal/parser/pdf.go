package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/coverdoc/internal/document"
)

// pdfTableRects is the number of drawn rectangles on a page taken to mean a
// ruled table.
const pdfTableRects = 4

// PDFParser handles PDF files. It reads pages with the Go library, including
// layout hints, and falls back to pdftotext when enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "coverdoc-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	doc, err := readPDF(tmpPath)
	if (err != nil || doc.Empty()) && p.FallbackPdftotext {
		text, ferr := extractPdftotext(tmpPath)
		if ferr == nil {
			doc, err = document.FromTexts("", trimTrailingPage(document.SplitPages(text))), nil
		} else if err == nil {
			err = ferr
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	doc.Title = titleFrom(filename)
	return doc, nil
}

func readPDF(path string) (doc *document.Document, err error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// The library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("read pdf: %v", r)
		}
	}()

	doc = &document.Document{}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, terr := page.GetPlainText(nil)
		if terr != nil {
			text = ""
		}
		doc.Pages = append(doc.Pages, document.Page{
			Index:  len(doc.Pages),
			Text:   text,
			Layout: pdfPageHints(page),
		})
	}
	return doc, nil
}

// pdfPageHints inspects a page's resources, annotations, and content
// stream. Anything it cannot read stays at its zero value.
func pdfPageHints(page pdflib.Page) (h document.LayoutHints) {
	defer func() { _ = recover() }()

	xobjects := page.Resources().Key("XObject")
	for _, name := range xobjects.Keys() {
		if xobjects.Key(name).Key("Subtype").Name() == "Image" {
			h.HasImage = true
			break
		}
	}

	annots := page.V.Key("Annots")
	for i := 0; i < annots.Len(); i++ {
		if annots.Index(i).Key("Subtype").Name() == "Link" {
			h.HasLinks = true
			break
		}
	}

	content := page.Content()
	h.HasTable = len(content.Rect) >= pdfTableRects

	var sum float64
	n := 0
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" || t.FontSize <= 0 {
			continue
		}
		sum += t.FontSize
		n++
	}
	if n > 0 {
		avg := sum / float64(n)
		h.AvgFontSize = &avg
	}
	return h
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

// trimTrailingPage drops the empty page after pdftotext's final form feed.
func trimTrailingPage(pages []string) []string {
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		return pages[:n-1]
	}
	return pages
}
