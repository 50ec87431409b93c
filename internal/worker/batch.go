// Package worker runs batch audits concurrently. Distinct contracts have
// disjoint document identities, so parallel audits never contend on the
// same record.
package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sentinel-audit/sentinel/internal/pipeline"
)

// Auditor is the subset of the pipeline the batch processor needs.
type Auditor interface {
	Audit(ctx context.Context, raw []byte, filename string) (*pipeline.Outcome, error)
}

// AuditResult is the outcome of one batch entry.
type AuditResult struct {
	Path    string
	Outcome *pipeline.Outcome
	Err     error
}

// BatchProcessor audits multiple contracts concurrently.
type BatchProcessor struct {
	auditor     Auditor
	concurrency int
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(auditor Auditor, concurrency int) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchProcessor{
		auditor:     auditor,
		concurrency: concurrency,
	}
}

// ProcessFiles audits the given contract files concurrently. Results are
// returned in input order.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []AuditResult {
	if len(paths) == 0 {
		return []AuditResult{}
	}

	results := make([]AuditResult, len(paths))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, b.concurrency)

	for i, path := range paths {
		wg.Add(1)
		go func(idx int, p string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = AuditResult{Path: p, Err: ctx.Err()}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = b.auditFile(ctx, p)
		}(i, path)
	}

	wg.Wait()
	return results
}

// ProcessDir audits every contract document in a directory.
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]AuditResult, error) {
	paths, err := ListContracts(dir)
	if err != nil {
		return nil, err
	}
	return b.ProcessFiles(ctx, paths), nil
}

func (b *BatchProcessor) auditFile(ctx context.Context, path string) AuditResult {
	raw, err := os.ReadFile(path)
	if err != nil {
		return AuditResult{Path: path, Err: fmt.Errorf("read contract: %w", err)}
	}

	outcome, err := b.auditor.Audit(ctx, raw, filepath.Base(path))
	return AuditResult{Path: path, Outcome: outcome, Err: err}
}

// ListContracts returns the text contracts in a directory, sorted. PDF
// audits need a PDF-capable document.Reader wired into the pipeline first.
func ListContracts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read contract dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.EqualFold(filepath.Ext(name), ".txt") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
