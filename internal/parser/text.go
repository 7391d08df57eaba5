package parser

import (
	"io"
	"strings"

	"github.com/dgallion1/coverdoc/internal/document"
)

// TextParser handles plain text and Markdown files. Form feeds separate
// pages; the text itself is kept verbatim so headings and blank-line runs
// survive for segmentation.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	pages := trimTrailingPage(document.SplitPages(text))
	if len(pages) == 1 && strings.TrimSpace(pages[0]) == "" {
		pages = nil
	}
	return document.FromTexts(titleFrom(filename), pages), nil
}
