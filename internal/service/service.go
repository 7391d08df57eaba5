// Package service wires the classifier, segmenter, and splitter behind one
// façade shared by the HTTP, MCP, and CLI surfaces.
package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dgallion1/coverdoc/internal/classify"
	"github.com/dgallion1/coverdoc/internal/config"
	"github.com/dgallion1/coverdoc/internal/document"
	"github.com/dgallion1/coverdoc/internal/parser"
	"github.com/dgallion1/coverdoc/internal/request"
	"github.com/dgallion1/coverdoc/internal/segment"
	"github.com/dgallion1/coverdoc/internal/splitter"
	"github.com/dgallion1/coverdoc/internal/stats"
	"github.com/dgallion1/coverdoc/internal/tokenize"
)

// Operation names recorded in stats.
const (
	OpClassify      = "classify"
	OpClassifyPages = "classify_pages"
	OpSegment       = "segment"
	OpStructure     = "structure"
	OpItems         = "items"
	OpFeedback      = "feedback"
	OpSplit         = "split"
	OpExtract       = "extract"
)

// Options configures a Service.
type Options struct {
	Tokenizer          tokenize.Tokenizer
	MaxConcurrentPages int
	MaxConcurrentFiles int
	PDFFallback        bool
	Stats              *stats.OpStats
}

// Service runs engine operations and records their latency.
type Service struct {
	classifier *classify.Classifier
	splitter   *splitter.Splitter
	stats      *stats.OpStats
	log        *slog.Logger
	parseOpts  parser.Options
	maxFiles   int
}

func New(opts Options, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if opts.Stats == nil {
		opts.Stats = stats.New(0)
	}
	if opts.MaxConcurrentFiles < 1 {
		opts.MaxConcurrentFiles = 1
	}
	c := classify.New(opts.Tokenizer, opts.MaxConcurrentPages, log)
	return &Service{
		classifier: c,
		splitter:   splitter.New(c),
		stats:      opts.Stats,
		log:        log,
		parseOpts:  parser.Options{PDFFallback: opts.PDFFallback},
		maxFiles:   opts.MaxConcurrentFiles,
	}
}

// FromConfig builds a Service from environment configuration.
func FromConfig(cfg config.Config, log *slog.Logger) *Service {
	tok := tokenize.New(tokenize.Config{Command: cfg.TokenizerCmd, Args: cfg.TokenizerArgs}, log)
	return New(Options{
		Tokenizer:          tok,
		MaxConcurrentPages: cfg.MaxConcurrentPages,
		MaxConcurrentFiles: cfg.MaxConcurrentFiles,
		PDFFallback:        cfg.PDFFallbackPdftotext,
		Stats:              stats.New(cfg.StatsWindow),
	}, log)
}

// Stats returns per-operation latency snapshots.
func (s *Service) Stats() map[string]stats.Snapshot {
	return s.stats.Snapshot()
}

// Classify labels a single page.
func (s *Service) Classify(page document.Page) (res classify.Result, err error) {
	done := s.stats.Track(OpClassify)
	defer func() { done(err) }()

	if strings.TrimSpace(page.Text) == "" {
		return res, &request.InputError{Message: "text is empty"}
	}
	return s.classifier.Classify(page), nil
}

// ClassifyPages labels every page of doc, in page order.
func (s *Service) ClassifyPages(ctx context.Context, doc *document.Document) (res []classify.Result, err error) {
	done := s.stats.Track(OpClassifyPages)
	defer func() { done(err) }()

	if err := checkDocument(doc); err != nil {
		return nil, err
	}
	return s.classifier.ClassifyAll(ctx, doc.Pages)
}

// Segment splits text into titled sections.
func (s *Service) Segment(text string) (sections []document.SectionItem, err error) {
	done := s.stats.Track(OpSegment)
	defer func() { done(err) }()

	if err := checkText(text); err != nil {
		return nil, err
	}
	return segment.Segment(text), nil
}

// Structure reports the heading layout of text.
func (s *Service) Structure(text string) (st segment.Structure, err error) {
	done := s.stats.Track(OpStructure)
	defer func() { done(err) }()

	if err := checkText(text); err != nil {
		return st, err
	}
	return segment.DetectStructure(text), nil
}

// Items extracts the numbered items of a feedback report.
func (s *Service) Items(text string) (p segment.Parsed, err error) {
	done := s.stats.Track(OpItems)
	defer func() { done(err) }()

	if err := checkText(text); err != nil {
		return p, err
	}
	return segment.ParseNumberedItems(text), nil
}

// Feedback extracts the standard feedback report sections. With normalize
// set, particle spacing and whitespace in each section are cleaned up.
func (s *Service) Feedback(text string, normalize bool) (sections map[string]string, err error) {
	done := s.stats.Track(OpFeedback)
	defer func() { done(err) }()

	if err := checkText(text); err != nil {
		return nil, err
	}
	sections = segment.FeedbackSections(text)
	if normalize {
		for k, v := range sections {
			sections[k] = segment.NormalizeSpacing(v)
		}
	}
	return sections, nil
}

// SplitResult is a split document plus identifying metadata.
type SplitResult struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	ContentHash string `json:"content_hash" yaml:"content_hash"`
	PageCount   int    `json:"page_count" yaml:"page_count"`

	splitter.Result `yaml:",inline"`
}

// Split classifies doc's pages and separates résumé from cover letter.
func (s *Service) Split(ctx context.Context, doc *document.Document) (res *SplitResult, err error) {
	done := s.stats.Track(OpSplit)
	defer func() { done(err) }()

	return s.split(ctx, doc)
}

func (s *Service) split(ctx context.Context, doc *document.Document) (*SplitResult, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}
	id := uuid.New().String()
	log := s.log.With("split_id", id, "title", doc.Title)

	result, err := s.splitter.Split(ctx, doc.Pages)
	if err != nil {
		log.Warn("split aborted", "error", err)
		return nil, err
	}
	log.Debug("document split",
		"pages", len(doc.Pages),
		"cover_pages", len(result.CoverLetterPages),
		"sections", len(result.Sections),
		"strategy", result.SectionStrategy,
	)
	return &SplitResult{
		ID:          id,
		Title:       doc.Title,
		ContentHash: ContentHashHex([]byte(strings.Join(doc.Texts(), "\f"))),
		PageCount:   len(doc.Pages),
		Result:      *result,
	}, nil
}

// File is an uploaded document.
type File struct {
	Name string
	Data []byte
}

// ExtractFile parses an uploaded file into pages and splits it.
func (s *Service) ExtractFile(ctx context.Context, f File) (res *SplitResult, err error) {
	done := s.stats.Track(OpExtract)
	defer func() { done(err) }()

	doc, err := s.parse(f)
	if err != nil {
		return nil, err
	}
	return s.split(ctx, doc)
}

func (s *Service) parse(f File) (*document.Document, error) {
	p, err := parser.ForFile(f.Name, s.parseOpts)
	if err != nil {
		return nil, &request.InputError{Message: "unsupported file", Cause: err}
	}
	doc, err := p.Parse(bytes.NewReader(f.Data), f.Name)
	if err != nil {
		s.log.Error("parse failed", "filename", f.Name, "error", err)
		return nil, &request.InputError{Message: "unreadable file", Cause: err}
	}
	if doc.Empty() {
		return nil, &request.InputError{Message: "no extractable text in " + f.Name}
	}
	return doc, nil
}

func checkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &request.InputError{Message: "text is empty"}
	}
	return nil
}

func checkDocument(doc *document.Document) error {
	if doc == nil || len(doc.Pages) == 0 {
		return &request.InputError{Message: "pages is empty"}
	}
	if doc.Empty() {
		return &request.InputError{Message: "pages contain no text"}
	}
	return nil
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
