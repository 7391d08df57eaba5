package segment

import (
	"regexp"
	"strings"

	"github.com/dgallion1/coverdoc/internal/document"
	"github.com/dgallion1/coverdoc/internal/pattern"
)

// Parsed is a cascade outcome: the winning strategy and its sections. An
// empty Strategy means no strategy matched.
type Parsed struct {
	Strategy string                 `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Sections []document.SectionItem `json:"sections" yaml:"sections"`
}

func parsed(res pattern.Result) Parsed {
	return Parsed{Strategy: res.Strategy, Sections: toSections(res.Items)}
}

var (
	reportSection = regexp.MustCompile(`(?m)^###[ \t]*\d+\.`)
	reportBold    = regexp.MustCompile(`(?m)^###[ \t]*(\d+)\.[ \t]*\*\*([^*\n]+)\*\*[ \t]*$`)
	reportPlain   = regexp.MustCompile(`(?m)^###[ \t]*(\d+)\.[ \t]*([^\n]+)$`)
	elidedTitle   = regexp.MustCompile(`(?m)^([^\n]+능력)[ \t]*$`)

	listBoldStart = regexp.MustCompile(`(?m)^\d+\.[ \t]*\*\*`)
	listBold      = regexp.MustCompile(`(?m)^(\d+)\.[ \t]*\*\*([^*\n]+)\*\*[ \t]*$`)
	listDot       = regexp.MustCompile(`(?m)^(\d+)\.[ \t]*([^\n]+)$`)
	listParen     = regexp.MustCompile(`(?m)^(\d+)\)[ \t]*([^\n]+)$`)

	placeholderLine = regexp.MustCompile(`^####[ \t]*\d+\)[ \t]*자소서[^\n]*\n+`)
	extraNewlines   = regexp.MustCompile(`\n{3,}`)
)

// elidedSentinel marks a report whose first "### 1." heading was dropped so
// the text opens directly with the first item's title.
const elidedSentinel = "중심적 사고"

var numberedItems = pattern.Cascade{
	pattern.Heading{
		Name: "numbered-bold", Pattern: reportBold, Next: reportSection,
		NumberGroup: 1, TitleGroup: 2,
		Stops: pattern.Boundary{Rule: true, BlankRun: true},
		Clean: cleanItemContent,
	}.Strategy(),
	pattern.Heading{
		Name: "numbered-heading", Pattern: reportPlain, Next: reportSection,
		NumberGroup: 1, TitleGroup: 2,
		Stops: pattern.Boundary{Rule: true},
		Clean: cleanItemContent,
	}.Strategy(),
	{Name: "elided-first", Attempt: elidedFirst},
	pattern.Heading{
		Name: "legacy-bold", Pattern: reportBold, Next: reportSection,
		NumberGroup: 1, TitleGroup: 2,
		Stops: pattern.Boundary{Rule: true},
		Clean: cleanItemContent,
	}.Strategy(),
	{Name: "bare-list", Attempt: bareList.Attempt},
}

// bareList tries each list style in turn; the first that matches wins.
var bareList = subCascade{
	pattern.Heading{
		Pattern: listBold, Next: listBoldStart, NumberGroup: 1, TitleGroup: 2,
		Stops: pattern.Boundary{Rule: true, BlankRun: true}, Clean: cleanItemContent,
	},
	pattern.Heading{
		Pattern: listDot, NumberGroup: 1, TitleGroup: 2,
		Stops: pattern.Boundary{Rule: true, BlankRun: true}, Clean: cleanItemContent,
	},
	pattern.Heading{
		Pattern: listParen, NumberGroup: 1, TitleGroup: 2,
		Stops: pattern.Boundary{Rule: true, BlankRun: true}, Clean: cleanItemContent,
	},
}

type subCascade []pattern.Heading

func (c subCascade) Attempt(text string) []pattern.Item {
	for _, h := range c {
		if items := h.Attempt(text); len(items) > 0 {
			return items
		}
	}
	return nil
}

func elidedFirst(text string) []pattern.Item {
	if !strings.HasPrefix(strings.TrimSpace(text), elidedSentinel) {
		return nil
	}
	items := pattern.Heading{
		Pattern: elidedTitle, Next: reportSection, TitleGroup: 1,
		Stops: pattern.Boundary{Rule: true},
		Clean: cleanItemContent,
	}.Attempt(text)
	if len(items) == 0 {
		return nil
	}
	first := items[0]
	first.Number = "1"
	return []pattern.Item{first}
}

// cleanItemContent drops one leading quotation placeholder sub-heading,
// collapses blank-line runs, and trims.
func cleanItemContent(s string) string {
	s = strings.TrimSpace(s)
	s = placeholderLine.ReplaceAllString(s, "")
	s = extraNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ParseNumberedItems parses numbered feedback items. Strategies are tried in
// order: bold "### N. **title**", plain "### N. title", a first item whose
// "### 1." prefix was elided, bold headings without the blank-run stop, then
// bare "N." and "N)" lists.
func ParseNumberedItems(text string) Parsed {
	text = normalizeNewlines(text)
	if strings.TrimSpace(text) == "" {
		return Parsed{Sections: []document.SectionItem{}}
	}
	return parsed(numberedItems.Run(text))
}

// NumberedItemStrategies lists the strategy names in priority order.
func NumberedItemStrategies() []string {
	return numberedItems.Names()
}
