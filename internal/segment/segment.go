package segment

import (
	"regexp"
	"strings"

	"github.com/dgallion1/coverdoc/internal/document"
	"github.com/dgallion1/coverdoc/internal/pattern"
)

// blankRun matches two or more blank lines, i.e. three or more newlines with
// only horizontal whitespace between them.
var blankRun = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)

var numberedTitle = regexp.MustCompile(`^(\d+)[.)][ \t]*(.+)$`)

// Segment splits text into sections. Markdown texts are split on heading
// boundaries; everything else is split on runs of blank lines.
func Segment(s string) []document.SectionItem {
	s = normalizeNewlines(s)
	if DetectStructure(s).FormatType == FormatMarkdown {
		return byHeadings(s, markdownHeadings(s))
	}
	return byBlankLines(s)
}

// byHeadings emits one section per heading. A section's content runs until
// the next heading of the same or shallower depth, so deeper headings stay
// inside their parent's content as well as producing their own section.
// Text before the first heading is segmented by blank lines.
func byHeadings(s string, headings []heading) []document.SectionItem {
	if len(headings) == 0 {
		return byBlankLines(s)
	}
	items := byBlankLines(s[:headings[0].lineStart])

	for i, h := range headings {
		end := len(s)
		for _, next := range headings[i+1:] {
			if next.level <= h.level {
				end = next.lineStart
				break
			}
		}
		item := document.SectionItem{
			Title:   pattern.StripEmphasis(h.title),
			Content: strings.TrimSpace(s[h.lineEnd:end]),
			Level:   h.level,
		}
		if m := numberedTitle.FindStringSubmatch(h.title); m != nil {
			if t := pattern.StripEmphasis(m[2]); t != "" {
				item.Number, item.Title = m[1], t
			}
		}
		if item.Title == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// byBlankLines splits on blank-line runs; the first line of each block is
// its title and the rest its content.
func byBlankLines(s string) []document.SectionItem {
	var items []document.SectionItem
	for _, block := range blankRun.Split(s, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		title, content, _ := strings.Cut(block, "\n")
		items = append(items, document.SectionItem{
			Title:   strings.TrimSpace(title),
			Content: strings.TrimSpace(content),
			Level:   1,
		})
	}
	return items
}

// toSections converts cascade items to level-1 sections.
func toSections(items []pattern.Item) []document.SectionItem {
	out := make([]document.SectionItem, len(items))
	for i, it := range items {
		out[i] = document.SectionItem{Number: it.Number, Title: it.Title, Content: it.Content, Level: 1}
	}
	return out
}
