package classify

import "regexp"

// Scoring weights and thresholds.
const (
	StrongMarkerWeight  = 10
	StrongMarkerWindow  = 500 // leading runes searched for strong markers
	SectionMarkerWeight = 2
	ResumeMarkerWeight  = 3

	FirstPersonHighCount = 5 // more than this adds FirstPersonHighBonus
	FirstPersonHighBonus = 5
	FirstPersonLowCount  = 2 // more than this adds FirstPersonLowBonus
	FirstPersonLowBonus  = 2

	DateCount = 3 // more than this adds DateBonus to the résumé score
	DateBonus = 3

	TableBonus = 5
	ImageBonus = 2

	LongParagraphRunes = 200
	LongParagraphCount = 2 // more than this adds LongParagraphBonus
	LongParagraphBonus = 3

	// A label needs its score to exceed the other by MajorityNum/MajorityDen
	// (1.5x). Kept as a ratio so the comparison stays in integers.
	MajorityNum = 3
	MajorityDen = 2
)

// strongMarkers are explicit cover-letter titles.
var strongMarkers = compile(
	`자\s*기\s*소\s*개\s*서`,
	`(?i)COVER\s*LETTER`,
	`(?i)Personal\s*Statement`,
	`자소서`,
	`지원서`,
)

// sectionMarkers are typical cover-letter question headings.
var sectionMarkers = compile(
	`지원\s*동기`,
	`입사\s*후\s*포부`,
	`성장\s*과정`,
	`직무\s*역량`,
	`협업\s*경험`,
	`장점\s*및\s*단점`,
	`위기\s*극복`,
	`(?i)motivation`,
	`(?i)career\s*goals?`,
	`(?i)strengths?\s*and\s*weakness`,
	`(?m)^\s*\d+[.)]\s*[가-힣]+`,
	`(?mi)^\s*Q\d+`,
	`(?m)^\s*문항\s*\d+`,
)

// resumeMarkers are résumé headers.
var resumeMarkers = compile(
	`이\s*력\s*서`,
	`(?i)RESUME`,
	`(?i)CV`,
	`학\s*력`,
	`경\s*력`,
	`자\s*격\s*증`,
	`(?i)Education`,
	`(?i)Experience`,
	`(?i)Skills`,
)

var datePattern = regexp.MustCompile(`\d{4}[.\-년]\s*\d{1,2}`)

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// countMatching returns how many patterns match s at least once.
func countMatching(patterns []*regexp.Regexp, s string) int {
	n := 0
	for _, re := range patterns {
		if re.MatchString(s) {
			n++
		}
	}
	return n
}
