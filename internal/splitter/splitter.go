// Package splitter separates a multi-page application into its résumé and
// cover-letter pages and segments the cover letter.
package splitter

import (
	"context"
	"math"
	"strings"

	"github.com/dgallion1/coverdoc/internal/classify"
	"github.com/dgallion1/coverdoc/internal/document"
	"github.com/dgallion1/coverdoc/internal/segment"
)

const (
	// TransitionConfidence and NoTransitionConfidence are the document-level
	// confidence with and without a detected résumé→cover-letter boundary.
	TransitionConfidence   = 85
	NoTransitionConfidence = 60

	// ClearScore is the score a page needs to count as unambiguous evidence.
	ClearScore = 10

	bothClearConfidence   = 95
	coverClearConfidence  = 85
	resumeClearConfidence = 75
	scoreConfidenceFactor = 5
	scoreConfidenceCap    = 70
)

// Result is the outcome of splitting a document.
type Result struct {
	HasCoverLetter     bool                   `json:"has_cover_letter" yaml:"has_cover_letter"`
	ResumePages        []int                  `json:"resume_pages" yaml:"resume_pages"`
	CoverLetterPages   []int                  `json:"cover_letter_pages" yaml:"cover_letter_pages"`
	CoverLetterText    string                 `json:"cover_letter_text" yaml:"cover_letter_text"`
	Sections           []document.SectionItem `json:"sections" yaml:"sections"`
	SectionStrategy    string                 `json:"section_strategy,omitempty" yaml:"section_strategy,omitempty"`
	Confidence         float64                `json:"confidence" yaml:"confidence"`
	TransitionPoint    *int                   `json:"transition_point" yaml:"transition_point"`
	Pages              []classify.Result      `json:"pages" yaml:"pages"`
	EvidenceConfidence float64                `json:"evidence_confidence" yaml:"evidence_confidence"`
}

// Splitter classifies pages and partitions them.
type Splitter struct {
	classifier *classify.Classifier
}

func New(c *classify.Classifier) *Splitter {
	return &Splitter{classifier: c}
}

// Split classifies every page and partitions the document.
func (s *Splitter) Split(ctx context.Context, pages []document.Page) (*Result, error) {
	labels, err := s.classifier.ClassifyAll(ctx, pages)
	if err != nil {
		return nil, err
	}
	return Assemble(pages, labels), nil
}

// Assemble partitions pages given their classifications, which must be in
// the same order as pages.
//
// The first page labelled cover_letter directly after a résumé page is the
// transition point. Before it, résumé and unknown pages form the résumé group
// and everything else the cover-letter group; from it on, every page belongs
// to the cover letter regardless of its own label.
func Assemble(pages []document.Page, labels []classify.Result) *Result {
	res := &Result{
		ResumePages:      []int{},
		CoverLetterPages: []int{},
		Sections:         []document.SectionItem{},
		Pages:            labels,
	}

	var cover []string
	var prev classify.Type
	for i, p := range pages {
		cur := labels[i].Type
		if res.TransitionPoint == nil && prev == classify.Resume && cur == classify.CoverLetter {
			idx := p.Index
			res.TransitionPoint = &idx
		}

		switch {
		case res.TransitionPoint != nil:
			res.CoverLetterPages = append(res.CoverLetterPages, p.Index)
			cover = append(cover, p.Text)
		case cur == classify.Resume || cur == classify.Unknown:
			res.ResumePages = append(res.ResumePages, p.Index)
		default:
			res.CoverLetterPages = append(res.CoverLetterPages, p.Index)
			cover = append(cover, p.Text)
		}
		prev = cur
	}

	res.HasCoverLetter = len(res.CoverLetterPages) > 0
	res.CoverLetterText = strings.Join(cover, "\n\n")
	if strings.TrimSpace(res.CoverLetterText) != "" {
		parsed := segment.CoverLetterSections(res.CoverLetterText)
		res.Sections = parsed.Sections
		res.SectionStrategy = parsed.Strategy
	}

	res.Confidence = NoTransitionConfidence
	if res.TransitionPoint != nil {
		res.Confidence = TransitionConfidence
	}
	res.EvidenceConfidence = EvidenceConfidence(labels)
	return res
}

// EvidenceConfidence rates how clearly the page labels separate the two
// document kinds. Pages scoring above ClearScore count as clear evidence;
// otherwise the mean winning score is scaled and capped.
func EvidenceConfidence(labels []classify.Result) float64 {
	if len(labels) == 0 {
		return 0
	}

	var clearResume, clearCover bool
	sum := 0
	for _, l := range labels {
		if l.Type == classify.Resume && l.ResumeScore > ClearScore {
			clearResume = true
		}
		if l.Type == classify.CoverLetter && l.CoverScore > ClearScore {
			clearCover = true
		}
		sum += max(l.CoverScore, l.ResumeScore)
	}

	switch {
	case clearResume && clearCover:
		return bothClearConfidence
	case clearCover:
		return coverClearConfidence
	case clearResume:
		return resumeClearConfidence
	}
	avg := float64(sum) / float64(len(labels))
	return math.Min(avg*scoreConfidenceFactor, scoreConfidenceCap)
}
