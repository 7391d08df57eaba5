package pattern

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Boundary selects which tokens, besides the next heading, end a section's content.
type Boundary struct {
	Rule     bool // a horizontal rule line (---)
	BlankRun bool // three or more consecutive newlines
}

// Heading is a strategy that locates heading lines with Pattern and takes the
// text after each heading as its content.
//
// RE2 has no lookahead, so content ends are found by scanning forward from the
// heading for the earliest of: the next Next match, the enabled Boundary
// tokens, or end of text.
type Heading struct {
	Name        string
	Pattern     *regexp.Regexp // matches whole heading lines
	Next        *regexp.Regexp // start of the following section; defaults to Pattern
	NumberGroup int            // capture group holding the number, 0 for none
	TitleGroup  int            // capture group holding the title
	Stops       Boundary
	MinContent  int                 // items with fewer content runes are dropped
	Clean       func(string) string // content cleanup; defaults to TrimSpace
}

var ruleLine = regexp.MustCompile(`(?m)^[ \t]*-{3,}[ \t]*$`)

// Strategy adapts h to the cascade's uniform shape.
func (h Heading) Strategy() Strategy {
	return Strategy{Name: h.Name, Attempt: h.Attempt}
}

// Attempt returns one item per heading match, in source order.
func (h Heading) Attempt(text string) []Item {
	matches := h.Pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	next := h.Next
	if next == nil {
		next = h.Pattern
	}
	starts := next.FindAllStringIndex(text, -1)

	clean := h.Clean
	if clean == nil {
		clean = strings.TrimSpace
	}

	var items []Item
	for _, m := range matches {
		title := StripEmphasis(group(text, m, h.TitleGroup))
		if title == "" {
			continue
		}

		from := skipSpace(text, m[1])
		end := len(text)
		for _, s := range starts {
			if s[0] >= m[1] {
				end = s[0]
				break
			}
		}
		if end < from {
			from = end
		}
		end = h.Stops.end(text, from, end)

		content := clean(text[from:end])
		if utf8.RuneCountInString(content) < h.MinContent {
			continue
		}

		items = append(items, Item{
			Number:  strings.TrimSpace(group(text, m, h.NumberGroup)),
			Title:   title,
			Content: content,
		})
	}
	return items
}

// end returns the earliest boundary token in text[from:limit], or limit.
func (b Boundary) end(text string, from, limit int) int {
	window := text[from:limit]
	end := limit
	if b.Rule {
		if loc := ruleLine.FindStringIndex(window); loc != nil && from+loc[0] < end {
			end = from + loc[0]
		}
	}
	if b.BlankRun {
		if i := strings.Index(window, "\n\n\n"); i >= 0 && from+i < end {
			end = from + i
		}
	}
	return end
}

func group(text string, m []int, g int) string {
	if g <= 0 || 2*g+1 >= len(m) || m[2*g] < 0 {
		return ""
	}
	return text[m[2*g]:m[2*g+1]]
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

var (
	boldPair      = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
	underlinePair = regexp.MustCompile(`__([^_\n]+)__`)
)

// StripEmphasis removes markdown emphasis markers from a captured title.
func StripEmphasis(s string) string {
	s = boldPair.ReplaceAllString(s, "$1")
	s = underlinePair.ReplaceAllString(s, "$1")
	s = strings.TrimSpace(s)
	for _, m := range []string{"*", "_"} {
		for len(s) > 2*len(m) && strings.HasPrefix(s, m) && strings.HasSuffix(s, m) {
			s = strings.TrimSpace(s[len(m) : len(s)-len(m)])
		}
	}
	return strings.TrimSpace(strings.Trim(s, "*"))
}
