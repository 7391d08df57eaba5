package segment

import (
	"regexp"
	"strings"
)

// Feedback report section keys.
const (
	FeedbackFirstImpression = "first_impression"
	FeedbackStrengths       = "strengths"
	FeedbackImprovements    = "improvements"
	FeedbackHiddenGems      = "hidden_gems"
	FeedbackEncouragement   = "encouragement"
)

type feedbackRule struct {
	key   string
	start *regexp.Regexp // heading line, newline included
	end   *regexp.Regexp // nil runs to end of text
}

var feedbackRules = []feedbackRule{
	{FeedbackFirstImpression, regexp.MustCompile(`##\s*1\.\s*첫\s*인상[^\n]*\n`), regexp.MustCompile(`##\s*2\.`)},
	{FeedbackFirstImpression, regexp.MustCompile(`첫\s*인상\s*&\s*전체[^\n]*\n`), regexp.MustCompile(`##`)},
	{FeedbackStrengths, regexp.MustCompile(`##\s*2\.\s*잘\s*쓴\s*부분[^\n]*\n`), regexp.MustCompile(`##\s*3\.`)},
	{FeedbackStrengths, regexp.MustCompile(`강점\s*\d+개[^\n]*\n`), regexp.MustCompile(`##|개선`)},
	{FeedbackImprovements, regexp.MustCompile(`##\s*3\.\s*(?:아쉬운|개선)\s*부분[^\n]*\n`), regexp.MustCompile(`##\s*4\.`)},
	{FeedbackHiddenGems, regexp.MustCompile(`##\s*4\.\s*(?:놓치고\s*있는\s*)?숨은\s*보석[^\n]*\n`), regexp.MustCompile(`##\s*5\.`)},
	{FeedbackEncouragement, regexp.MustCompile(`##\s*5\.\s*격려[^\n]*\n`), nil},
}

var boxRule = regexp.MustCompile(`[═─]{3,}`)

// FeedbackSections extracts the five standard sections of a feedback report.
// Keys whose heading is absent are omitted. A report with none of the
// headings is returned whole under first_impression.
func FeedbackSections(text string) map[string]string {
	cleaned := strings.TrimSpace(boxRule.ReplaceAllString(normalizeNewlines(text), ""))
	out := make(map[string]string)
	if cleaned == "" {
		return out
	}

	for _, r := range feedbackRules {
		if _, done := out[r.key]; done {
			continue
		}
		loc := r.start.FindStringIndex(cleaned)
		if loc == nil {
			continue
		}
		body := cleaned[loc[1]:]
		if r.end != nil {
			if e := r.end.FindStringIndex(body); e != nil {
				body = body[:e[0]]
			}
		}
		if body = strings.TrimSpace(body); body != "" {
			out[r.key] = body
		}
	}

	if len(out) == 0 {
		out[FeedbackFirstImpression] = cleaned
	}
	return out
}
