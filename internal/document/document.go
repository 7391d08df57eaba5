package document

import "strings"

// Document is an ordered sequence of pages produced by an extraction provider.
type Document struct {
	Title string // Document title (from metadata or filename)
	Pages []Page // Pages in source order
}

// Page is one extracted page of text plus optional layout hints.
type Page struct {
	Index  int         `json:"index" yaml:"index"`
	Text   string      `json:"text" yaml:"text"`
	Layout LayoutHints `json:"layout" yaml:"layout"`
}

// LayoutHints carries structural signals the extractor could observe.
// Zero values mean "unknown", never "absent for certain".
type LayoutHints struct {
	HasTable    bool     `json:"has_table,omitempty" yaml:"has_table,omitempty"`
	HasImage    bool     `json:"has_image,omitempty" yaml:"has_image,omitempty"`
	HasLinks    bool     `json:"has_links,omitempty" yaml:"has_links,omitempty"`
	AvgFontSize *float64 `json:"avg_font_size,omitempty" yaml:"avg_font_size,omitempty"`
}

// SectionItem is a titled span of text.
type SectionItem struct {
	Number  string `json:"number,omitempty" yaml:"number,omitempty"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	Level   int    `json:"level" yaml:"level"`
}

// FromTexts builds a Document from a raw page list, indexing pages from 0.
func FromTexts(title string, texts []string) *Document {
	doc := &Document{Title: title}
	for i, t := range texts {
		doc.Pages = append(doc.Pages, Page{Index: i, Text: t})
	}
	return doc
}

// Texts returns the page texts in order.
func (d *Document) Texts() []string {
	out := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		out[i] = p.Text
	}
	return out
}

// Empty reports whether no page carries non-whitespace text.
func (d *Document) Empty() bool {
	for _, p := range d.Pages {
		if strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}

// SplitPages splits extracted text on form feeds, the page separator used by
// pdftotext and by the PDF extractor when it flattens pages.
func SplitPages(text string) []string {
	return strings.Split(text, "\f")
}
