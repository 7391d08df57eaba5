// Package segment turns free text into ordered titled sections and reports
// the heading convention a text follows.
package segment

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Format types reported by DetectStructure.
const (
	FormatMarkdown = "markdown"
	FormatPlain    = "plain"
	FormatMixed    = "mixed"
	FormatUnknown  = "unknown"
)

// maxHeadingLevel is the deepest markdown heading treated as a section.
const maxHeadingLevel = 3

// Structure is the heading fingerprint of a text.
type Structure struct {
	FormatType          string   `json:"format_type" yaml:"format_type"`
	HasNumberedSections bool     `json:"has_numbered_sections" yaml:"has_numbered_sections"`
	SectionCount        int      `json:"section_count" yaml:"section_count"`
	SectionTitles       []string `json:"section_titles" yaml:"section_titles"`
}

var (
	numberedLine = regexp.MustCompile(`(?m)^\d+\.[ \t]*([^\n]+?)[:：]`)
	atxLine      = regexp.MustCompile(`^#{1,6}([ \t]|$)`)
)

// DetectStructure inspects text for markdown headings (levels 1-3) and bare
// "N. title:" lines.
func DetectStructure(s string) Structure {
	s = normalizeNewlines(s)
	st := Structure{FormatType: FormatUnknown, SectionTitles: []string{}}

	headings := markdownHeadings(s)
	for _, h := range headings {
		st.SectionTitles = append(st.SectionTitles, h.title)
	}

	numbered := numberedLine.FindAllStringSubmatch(s, -1)
	for _, m := range numbered {
		st.SectionTitles = append(st.SectionTitles, strings.TrimSpace(m[1]))
	}
	st.HasNumberedSections = len(numbered) > 0
	st.SectionCount = len(st.SectionTitles)

	switch {
	case len(headings) > 0 && len(numbered) > 0:
		st.FormatType = FormatMixed
	case len(headings) > 0:
		st.FormatType = FormatMarkdown
	case len(numbered) > 0:
		st.FormatType = FormatPlain
	}
	return st
}

// heading is an ATX heading line located in the source text.
type heading struct {
	level     int
	title     string // raw heading text, emphasis intact
	lineStart int
	lineEnd   int // offset just past the line's newline
}

var md = goldmark.New()

// markdownHeadings returns ATX headings of level 1-3 in source order. Setext
// headings and anything inside code blocks are ignored.
func markdownHeadings(s string) []heading {
	src := []byte(s)
	doc := md.Parser().Parse(text.NewReader(src))

	var out []heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level > maxHeadingLevel || h.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		seg := h.Lines().At(0)
		start := strings.LastIndexByte(s[:seg.Start], '\n') + 1
		end := len(s)
		if i := strings.IndexByte(s[seg.Start:], '\n'); i >= 0 {
			end = seg.Start + i + 1
		}
		// Setext headings and headings nested in quotes or lists have no
		// leading # on their own line.
		if !atxLine.MatchString(strings.TrimLeft(s[start:end], " ")) {
			return ast.WalkSkipChildren, nil
		}
		title := strings.TrimSpace(string(seg.Value(src)))
		if title == "" {
			return ast.WalkSkipChildren, nil
		}
		out = append(out, heading{level: h.Level, title: title, lineStart: start, lineEnd: end})
		return ast.WalkSkipChildren, nil
	})
	return out
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
