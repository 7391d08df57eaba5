// Package classify labels document pages as résumé, cover letter, mixed, or
// unknown using weighted, rule-based evidence.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/coverdoc/internal/document"
	"github.com/dgallion1/coverdoc/internal/tokenize"
)

// Type is a page label.
type Type string

const (
	Resume      Type = "resume"
	CoverLetter Type = "cover_letter"
	Mixed       Type = "mixed"
	Unknown     Type = "unknown"
)

// Result is the classification of one page.
type Result struct {
	PageIndex         int     `json:"page_index" yaml:"page_index"`
	Type              Type    `json:"type" yaml:"type"`
	CoverScore        int     `json:"cover_score" yaml:"cover_score"`
	ResumeScore       int     `json:"resume_score" yaml:"resume_score"`
	ConfidencePercent float64 `json:"confidence_percent" yaml:"confidence_percent"`
}

// Classifier scores pages. It holds no per-call state and is safe for
// concurrent use.
type Classifier struct {
	tok     tokenize.Tokenizer
	log     *slog.Logger
	workers int
}

// New creates a Classifier. A nil tokenizer selects the character-class
// fallback; workers bounds ClassifyAll's parallelism.
func New(tok tokenize.Tokenizer, workers int, log *slog.Logger) *Classifier {
	if tok == nil {
		tok = tokenize.Fallback{}
	}
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{tok: tok, log: log, workers: workers}
}

// Classify scores a single page. It never fails: a page that cannot be
// scored is reported as unknown with zero scores.
func (c *Classifier) Classify(page document.Page) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("page classification failed", "page", page.Index, "panic", fmt.Sprint(r))
			res = Result{PageIndex: page.Index, Type: Unknown}
		}
	}()

	cover, resume := c.score(page)
	return Result{
		PageIndex:         page.Index,
		Type:              Decide(cover, resume),
		CoverScore:        cover,
		ResumeScore:       resume,
		ConfidencePercent: Confidence(cover, resume),
	}
}

// ClassifyAll classifies pages in parallel and returns results in input
// order. Only context cancellation produces an error.
func (c *Classifier) ClassifyAll(ctx context.Context, pages []document.Page) ([]Result, error) {
	results := make([]Result, len(pages))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, p := range pages {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = c.Classify(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("classify pages: %w", err)
	}
	return results, nil
}

func (c *Classifier) score(page document.Page) (cover, resume int) {
	text := strings.ReplaceAll(page.Text, "\r\n", "\n")

	cover += StrongMarkerWeight * countMatching(strongMarkers, leadingRunes(text, StrongMarkerWindow))
	cover += SectionMarkerWeight * countMatching(sectionMarkers, text)
	resume += ResumeMarkerWeight * countMatching(resumeMarkers, text)

	switch n := tokenize.CountFirstPerson(c.tok.Tokens(text)); {
	case n > FirstPersonHighCount:
		cover += FirstPersonHighBonus
	case n > FirstPersonLowCount:
		cover += FirstPersonLowBonus
	}

	if len(datePattern.FindAllStringIndex(text, -1)) > DateCount {
		resume += DateBonus
	}
	if page.Layout.HasTable {
		resume += TableBonus
	}
	if page.Layout.HasImage {
		resume += ImageBonus
	}

	long := 0
	for _, para := range strings.Split(text, "\n\n") {
		if utf8.RuneCountInString(para) > LongParagraphRunes {
			long++
		}
	}
	if long > LongParagraphCount {
		cover += LongParagraphBonus
	}
	return cover, resume
}

// Decide applies the majority rule: a label wins only when its score exceeds
// the other by more than 1.5x; otherwise evidence on both sides is mixed and
// no evidence is unknown.
func Decide(cover, resume int) Type {
	switch {
	case MajorityDen*cover > MajorityNum*resume:
		return CoverLetter
	case MajorityDen*resume > MajorityNum*cover:
		return Resume
	case cover > 0 && resume > 0:
		return Mixed
	default:
		return Unknown
	}
}

// Confidence is max(cover, resume) / (cover + resume + 1) as a percentage.
func Confidence(cover, resume int) float64 {
	if cover < 0 || resume < 0 {
		return 0
	}
	return float64(max(cover, resume)) / float64(cover+resume+1) * 100
}

func leadingRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
