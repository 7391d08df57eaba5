package tokenize

import "regexp"

// Tags emitted by Fallback, plus the morpheme tag CountFirstPerson understands.
const (
	TagHangul  = "HANGUL"
	TagLatin   = "LATIN"
	TagNumber  = "NUMBER"
	TagPronoun = "NP"
)

var reToken = regexp.MustCompile(`[가-힣]+|[A-Za-z]+|[0-9]+`)

// Fallback treats runs of Hangul syllables, Latin letters, or digits as
// pseudo-tokens.
type Fallback struct{}

func (Fallback) Tokens(text string) []Token {
	locs := reToken.FindAllStringIndex(text, -1)
	tokens := make([]Token, 0, len(locs))
	for _, loc := range locs {
		form := text[loc[0]:loc[1]]
		tokens = append(tokens, Token{Form: form, Tag: classify(form)})
	}
	return tokens
}

func classify(form string) string {
	switch c := form[0]; {
	case c >= '0' && c <= '9':
		return TagNumber
	case c < 0x80:
		return TagLatin
	default:
		return TagHangul
	}
}
