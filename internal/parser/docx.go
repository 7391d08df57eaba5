package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/coverdoc/internal/document"
)

// DOCXParser handles .docx files. Word documents carry no fixed pagination,
// so the whole body becomes one page. Heading styles are rendered as
// markdown headings and tables as tab-separated rows.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "coverdoc-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var page document.Page
	var blocks []string
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			text := docxParagraphText(it, &page.Layout)
			if text == "" {
				continue
			}
			if level := docxHeadingLevel(it); level > 0 && level <= 3 {
				text = strings.Repeat("#", level) + " " + text
			}
			blocks = append(blocks, text)
		case *docx.Table:
			page.Layout.HasTable = true
			if text := docxTableText(it, &page.Layout); text != "" {
				blocks = append(blocks, text)
			}
		}
	}
	page.Text = strings.Join(blocks, "\n\n")

	out := &document.Document{Title: titleFrom(filename)}
	if strings.TrimSpace(page.Text) != "" || page.Layout.HasTable || page.Layout.HasImage {
		out.Pages = []document.Page{page}
	}
	return out, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") || len(style) != len("heading")+1 {
		return 0
	}
	level := int(style[len(style)-1] - '0')
	if level < 1 || level > 6 {
		return 0
	}
	return level
}

// docxParagraphText concatenates run text and records drawings and
// hyperlinks in hints.
func docxParagraphText(para *docx.Paragraph, hints *document.LayoutHints) string {
	var buf strings.Builder
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			docxRunText(c, &buf, hints)
		case *docx.Hyperlink:
			hints.HasLinks = true
			docxRunText(&c.Run, &buf, hints)
		}
	}
	return strings.TrimSpace(buf.String())
}

func docxRunText(run *docx.Run, buf *strings.Builder, hints *document.LayoutHints) {
	for _, rc := range run.Children {
		switch t := rc.(type) {
		case *docx.Text:
			buf.WriteString(t.Text)
		case *docx.Drawing:
			hints.HasImage = true
		}
	}
}

func docxTableText(tbl *docx.Table, hints *document.LayoutHints) string {
	var rows []string
	for _, row := range tbl.TableRows {
		var cells []string
		for _, cell := range row.TableCells {
			var parts []string
			for _, para := range cell.Paragraphs {
				if t := docxParagraphText(para, hints); t != "" {
					parts = append(parts, t)
				}
			}
			cells = append(cells, strings.Join(parts, " "))
		}
		if line := strings.TrimSpace(strings.Join(cells, "\t")); line != "" {
			rows = append(rows, line)
		}
	}
	return strings.Join(rows, "\n")
}
