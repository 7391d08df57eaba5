package segment

import (
	"regexp"
	"strings"
)

// spacedParticle matches whitespace before a particle that ends a word.
// Longer particles come first so 에서 wins over 에.
var (
	spacedParticle = regexp.MustCompile(`\s+(에서|으로|은|는|이|가|을|를|의|에|로|와|과)([^가-힣A-Za-z0-9_]|$)`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// NormalizeSpacing removes stray spaces before particles and collapses
// whitespace to single spaces.
func NormalizeSpacing(text string) string {
	// Each match consumes the character after the particle, so adjacent
	// particles need another pass.
	for i := 0; i < 8; i++ {
		next := spacedParticle.ReplaceAllString(text, "$1$2")
		if next == text {
			break
		}
		text = next
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
