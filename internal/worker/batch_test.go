package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sentinel-audit/sentinel/internal/pipeline"
)

// fakeAuditor echoes the filename and tracks concurrency.
type fakeAuditor struct {
	mu         sync.Mutex
	active     int
	maxActive  int
	totalCalls int32
	failOn     string
}

func (f *fakeAuditor) Audit(ctx context.Context, raw []byte, filename string) (*pipeline.Outcome, error) {
	atomic.AddInt32(&f.totalCalls, 1)

	f.mu.Lock()
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if filename == f.failOn {
		return nil, fmt.Errorf("scripted failure for %s", filename)
	}
	return &pipeline.Outcome{}, nil
}

func writeContracts(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, name := range names {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("CLAUSE 1\n\nMean NDVI threshold of 0.75."), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return dir, paths
}

func TestProcessFiles_ResultsInInputOrder(t *testing.T) {
	_, paths := writeContracts(t, "c.txt", "a.txt", "b.txt")

	auditor := &fakeAuditor{}
	processor := NewBatchProcessor(auditor, 3)

	results := processor.ProcessFiles(context.Background(), paths)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("Expected result %d for %s, got %s", i, paths[i], r.Path)
		}
		if r.Err != nil {
			t.Errorf("Unexpected error for %s: %v", r.Path, r.Err)
		}
	}
}

func TestProcessFiles_ConcurrencyBounded(t *testing.T) {
	_, paths := writeContracts(t, "a.txt", "b.txt", "c.txt", "d.txt", "e.txt", "f.txt")

	auditor := &fakeAuditor{}
	processor := NewBatchProcessor(auditor, 2)
	processor.ProcessFiles(context.Background(), paths)

	if auditor.maxActive > 2 {
		t.Errorf("Expected at most 2 concurrent audits, saw %d", auditor.maxActive)
	}
	if auditor.totalCalls != 6 {
		t.Errorf("Expected 6 audits, got %d", auditor.totalCalls)
	}
}

func TestProcessFiles_FailuresIsolated(t *testing.T) {
	_, paths := writeContracts(t, "good.txt", "bad.txt")

	auditor := &fakeAuditor{failOn: "bad.txt"}
	processor := NewBatchProcessor(auditor, 2)

	results := processor.ProcessFiles(context.Background(), paths)
	if results[0].Err != nil {
		t.Errorf("Expected the good contract to succeed, got %v", results[0].Err)
	}
	if results[1].Err == nil || !strings.Contains(results[1].Err.Error(), "scripted failure") {
		t.Errorf("Expected the scripted failure, got %v", results[1].Err)
	}
}

func TestProcessFiles_UnreadableFile(t *testing.T) {
	processor := NewBatchProcessor(&fakeAuditor{}, 1)
	results := processor.ProcessFiles(context.Background(), []string{"/nonexistent/contract.txt"})

	if results[0].Err == nil {
		t.Error("Expected a read error for a missing file")
	}
}

func TestListContracts_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.pdf", "notes.md", "z.TXT"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755); err != nil {
		t.Fatal(err)
	}

	paths, err := ListContracts(dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("Expected 2 contracts, got %d: %v", len(paths), paths)
	}
	for _, p := range paths {
		if !strings.EqualFold(filepath.Ext(p), ".txt") {
			t.Errorf("Expected only text contracts, got %s", p)
		}
	}
	for i := 1; i < len(paths); i++ {
		if paths[i-1] > paths[i] {
			t.Errorf("Expected sorted paths, got %v", paths)
		}
	}
}

func TestProcessDir(t *testing.T) {
	dir, _ := writeContracts(t, "a.txt", "b.txt")

	auditor := &fakeAuditor{}
	processor := NewBatchProcessor(auditor, 2)

	results, err := processor.ProcessDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 results, got %d", len(results))
	}
}
