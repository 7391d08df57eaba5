// Package tokenize provides the tokenizer capability used for pronoun density.
// A morphological analyzer is optional; without one a character-class
// tokenizer stands in.
package tokenize

import (
	"log/slog"
	"strings"
)

// Token is a surface form with an optional part-of-speech or class tag.
type Token struct {
	Form string `json:"form"`
	Tag  string `json:"tag"`
}

// Tokenizer splits text into tokens. Implementations never fail; on trouble
// they degrade to coarser tokens.
type Tokenizer interface {
	Tokens(text string) []Token
}

// Config selects a tokenizer implementation.
type Config struct {
	Command string   // external analyzer binary; empty selects Fallback
	Args    []string // extra analyzer arguments
}

// New returns the tokenizer selected by cfg. The choice is made once here,
// never per call.
func New(cfg Config, log *slog.Logger) Tokenizer {
	if cfg.Command == "" {
		return Fallback{}
	}
	return &Morphological{
		Analyzer: &CommandAnalyzer{Path: cfg.Command, Args: cfg.Args},
		Log:      log,
	}
}

// Surface forms counted as first-person references.
var firstPersonForms = []string{"저는", "제가", "저의", "저에게", "제게"}

// CountFirstPerson counts first-person pronoun tokens. Morpheme tokens tagged
// NP count when their form is 저 or 제; class tokens count when they begin with
// a first-person surface form.
func CountFirstPerson(tokens []Token) int {
	n := 0
	for _, t := range tokens {
		if t.Tag == TagPronoun {
			if t.Form == "저" || t.Form == "제" {
				n++
			}
			continue
		}
		if t.Tag != TagHangul {
			continue
		}
		for _, f := range firstPersonForms {
			if strings.HasPrefix(t.Form, f) {
				n++
				break
			}
		}
	}
	return n
}
