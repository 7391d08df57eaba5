package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/coverdoc/internal/request"
)

// ItemStatus is the outcome of one file in a batch.
type ItemStatus string

const (
	StatusCompleted  ItemStatus = "completed"
	StatusFailed     ItemStatus = "failed"
	StatusDupSkipped ItemStatus = "duplicate_skipped"
)

// BatchItem reports one file of a batch.
type BatchItem struct {
	ID        string       `json:"id" yaml:"id"`
	Filename  string       `json:"filename" yaml:"filename"`
	Status    ItemStatus   `json:"status" yaml:"status"`
	Result    *SplitResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error     string       `json:"error,omitempty" yaml:"error,omitempty"`
	Duplicate string       `json:"duplicate_of,omitempty" yaml:"duplicate_of,omitempty"`
}

// BatchResult summarizes a batch in input order.
type BatchResult struct {
	BatchID   string      `json:"batch_id" yaml:"batch_id"`
	Items     []BatchItem `json:"items" yaml:"items"`
	Completed int         `json:"completed" yaml:"completed"`
	Failed    int         `json:"failed" yaml:"failed"`
	Skipped   int         `json:"skipped" yaml:"skipped"`
}

// Batch extracts and splits files with bounded concurrency. A failing file
// is reported in its item and does not stop the others; files whose page
// text repeats an earlier file are skipped. Only cancellation of ctx
// returns an error.
func (s *Service) Batch(ctx context.Context, files []File) (*BatchResult, error) {
	res := &BatchResult{
		BatchID: uuid.New().String(),
		Items:   make([]BatchItem, len(files)),
	}
	if len(files) == 0 {
		return nil, &request.InputError{Message: "no files in batch"}
	}
	log := s.log.With("batch_id", res.BatchID)
	log.Info("batch started", "files", len(files))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxFiles)
	for i, f := range files {
		res.Items[i] = BatchItem{ID: uuid.New().String(), Filename: f.Name}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			done := s.stats.Track(OpExtract)
			doc, err := s.parse(f)
			if err != nil {
				done(err)
				res.Items[i].Status = StatusFailed
				res.Items[i].Error = err.Error()
				return nil
			}
			out, err := s.split(gCtx, doc)
			done(err)
			if err != nil {
				if ctxErr := gCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				res.Items[i].Status = StatusFailed
				res.Items[i].Error = err.Error()
				return nil
			}
			res.Items[i].Status = StatusCompleted
			res.Items[i].Result = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("batch aborted", "error", err)
		return nil, fmt.Errorf("batch: %w", err)
	}

	// The earliest file in input order keeps a repeated hash.
	seen := make(map[string]string)
	for i := range res.Items {
		item := &res.Items[i]
		if item.Status == StatusCompleted {
			hash := item.Result.ContentHash
			if prev, dup := seen[hash]; dup {
				item.Status = StatusDupSkipped
				item.Result = nil
				item.Duplicate = prev
			} else {
				seen[hash] = item.Filename
			}
		}
		switch item.Status {
		case StatusCompleted:
			res.Completed++
		case StatusFailed:
			res.Failed++
		case StatusDupSkipped:
			res.Skipped++
		}
	}
	log.Info("batch complete", "completed", res.Completed, "failed", res.Failed, "skipped", res.Skipped)
	return res, nil
}
