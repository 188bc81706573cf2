package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kawaragi/meguri/internal/model"
)

// Curator runs the pipeline for one subject
type Curator interface {
	Curate(ctx context.Context, subject model.Subject) *model.CurationResult
}

// CurateJob curates one subject
type CurateJob struct {
	Subject model.Subject
	Curator Curator
}

// Execute runs the job. Curation itself never fails hard; the only
// error surfaced here is context cancellation.
func (j *CurateJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &CurateResult{SubjectID: j.Subject.ID, Err: err}
	}
	return &CurateResult{
		SubjectID: j.Subject.ID,
		Result:    j.Curator.Curate(ctx, j.Subject),
	}
}

// CurateResult is the outcome of one batch entry
type CurateResult struct {
	SubjectID string
	Result    *model.CurationResult
	Err       error
}

// GetError returns the job error, if any
func (r *CurateResult) GetError() error {
	return r.Err
}

// BatchProcessor curates many subjects concurrently
type BatchProcessor struct {
	curator     Curator
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(curator Curator, concurrency int) *BatchProcessor {
	return &BatchProcessor{curator: curator, concurrency: concurrency}
}

// Process curates every subject and returns results in completion
// order
func (b *BatchProcessor) Process(ctx context.Context, subjects []model.Subject) []*CurateResult {
	if len(subjects) == 0 {
		return []*CurateResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, subject := range subjects {
		pool.Submit(&CurateJob{Subject: subject, Curator: b.curator})
	}

	results := pool.Wait()
	out := make([]*CurateResult, len(results))
	for i, r := range results {
		out[i] = r.(*CurateResult)
	}
	return out
}

// ProcessFile reads subjects from a file (one per line, either a bare
// subject id or "id<TAB>title") and curates them
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*CurateResult, error) {
	subjects, err := ReadSubjectsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subjects: %w", err)
	}
	return b.Process(ctx, subjects), nil
}

// ReadSubjectsFromFile parses a batch input file. Blank lines and
// lines starting with # are skipped.
func ReadSubjectsFromFile(path string) ([]model.Subject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var subjects []model.Subject
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id, title, _ := strings.Cut(line, "\t")
		subjects = append(subjects, model.Subject{
			ID:    strings.TrimSpace(id),
			Title: strings.TrimSpace(title),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return subjects, nil
}
