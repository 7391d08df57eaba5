package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/coverdoc/internal/document"
	"github.com/dgallion1/coverdoc/internal/pattern"
)

const (
	// sectionMinContent is the shortest body a numbered, bracketed, or
	// underlined cover-letter section may carry.
	sectionMinContent = 100
	// keywordMinText gates keyword splitting to texts long enough to hold
	// several answers.
	keywordMinText = 500
	// keywordMinHangul is the fewest Hangul syllables a keyword section body
	// must contain.
	keywordMinHangul = 20
)

var (
	coverBoldStart = regexp.MustCompile(`(?m)^(?:#{1,3}[ \t]*)?\d+[.)][ \t]*\*\*`)
	coverBold      = regexp.MustCompile(`(?m)^(?:#{1,3}[ \t]*)?(\d+)[.)][ \t]*\*\*([^*\n]+)\*\*[ \t]*$`)
	coverNumbered  = regexp.MustCompile(`(?m)^(?:#{1,3}[ \t]*)?(\d+)[.)][ \t]*([^\n]+)$`)
	coverQuestion  = regexp.MustCompile(`(?m)^[ \t]*Q(\d+)[.:)]?[ \t]*([^\n]+)$`)
	coverItemNo    = regexp.MustCompile(`(?m)^[ \t]*문항[ \t]*(\d+)[ \t]*[.:)]?[ \t]*([^\n]+)$`)
	bracketTitle   = regexp.MustCompile(`(?m)^[ \t]*\[([^\]\n]+)\][ \t]*$`)
	dividerTitle   = regexp.MustCompile(`(?m)^([^\n\-=][^\n]{0,39})\n[ \t]*(?:-{3,}|={3,})[ \t]*$`)

	keyword     = regexp.MustCompile(`지원[ \t]*동기|성장[ \t]*과정|성격|장점|단점|협업|입사[ \t]*후`)
	keywordLine = regexp.MustCompile(`(?m)^[ \t#*\[\d.)]*((?:지원[ \t]*동기|성장[ \t]*과정|성격|장점|단점|협업|입사[ \t]*후)[^\n]*)$`)
	hangul      = regexp.MustCompile(`[가-힣]`)
)

var coverLetterCascade = pattern.Cascade{
	pattern.Heading{
		Name: "numbered-bold", Pattern: coverBold, Next: coverBoldStart,
		NumberGroup: 1, TitleGroup: 2, MinContent: sectionMinContent,
	}.Strategy(),
	{Name: "numbered-plain", Attempt: subCascade{
		{Pattern: coverNumbered, NumberGroup: 1, TitleGroup: 2, MinContent: sectionMinContent},
		{Pattern: coverQuestion, NumberGroup: 1, TitleGroup: 2, MinContent: sectionMinContent},
		{Pattern: coverItemNo, NumberGroup: 1, TitleGroup: 2, MinContent: sectionMinContent},
	}.Attempt},
	pattern.Heading{
		Name: "bracket-title", Pattern: bracketTitle, TitleGroup: 1, MinContent: sectionMinContent,
	}.Strategy(),
	pattern.Heading{
		Name: "bold-divider", Pattern: dividerTitle, TitleGroup: 1, MinContent: sectionMinContent,
	}.Strategy(),
	{Name: "keyword", Attempt: keywordSections},
}

// CoverLetterSections splits cover-letter text into answer sections. When no
// structural convention matches, it falls back to Segment.
func CoverLetterSections(text string) Parsed {
	text = normalizeNewlines(text)
	if res := coverLetterCascade.Run(text); res.Matched() {
		return parsed(res)
	}
	sections := Segment(text)
	if len(sections) == 0 {
		return Parsed{Sections: []document.SectionItem{}}
	}
	name := "blank-line"
	if DetectStructure(text).FormatType == FormatMarkdown {
		name = "markdown-headings"
	}
	return Parsed{Strategy: name, Sections: sections}
}

// CoverLetterStrategies lists the structural strategy names in priority order.
func CoverLetterStrategies() []string {
	return coverLetterCascade.Names()
}

// keywordSections splits on lines that open with a common question keyword.
// Only the first section per keyword is kept.
func keywordSections(text string) []pattern.Item {
	if utf8.RuneCountInString(text) <= keywordMinText {
		return nil
	}
	var out []pattern.Item
	seen := make(map[string]bool)
	for _, it := range (pattern.Heading{Pattern: keywordLine, TitleGroup: 1}).Attempt(text) {
		k := strings.Join(strings.Fields(keyword.FindString(it.Title)), "")
		if seen[k] || len(hangul.FindAllStringIndex(it.Content, -1)) < keywordMinHangul {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}
