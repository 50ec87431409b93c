// Package extract implements the extraction stage: it narrows the
// sanitized contract to the blocks that can contain covenant data, sends
// them to the reasoning backend and locates the returned values in the
// sanitized document for visual evidence.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sentinel-audit/sentinel/internal/document"
	"github.com/sentinel-audit/sentinel/internal/llm"
	"github.com/sentinel-audit/sentinel/internal/model"
	"github.com/sentinel-audit/sentinel/internal/store"
)

// anchorKeywords bound the volume of text sent to the reasoning backend:
// only pages mentioning the covenant schedule vocabulary are retained.
var anchorKeywords = []string{"project site", "ndvi", "bps", "latitude"}

// timeNow is injectable for deterministic evidence filenames in tests.
var timeNow = time.Now

// Engine is the extraction stage.
type Engine struct {
	provider  llm.Provider
	reader    document.Reader
	vault     store.Store
	staticDir string
}

// NewEngine creates the extraction stage.
func NewEngine(provider llm.Provider, reader document.Reader, vault store.Store, staticDir string) *Engine {
	return &Engine{
		provider:  provider,
		reader:    reader,
		vault:     vault,
		staticDir: staticDir,
	}
}

// Result is the caller-facing output of the extraction stage.
type Result struct {
	Fields       *model.ExtractedFields `json:"data"`
	EvidencePath string                 `json:"evidence_path"`
	PageNum      int                    `json:"page_num"` // 1-based page shown
}

// Extract runs field extraction for a previously redacted document.
func (e *Engine) Extract(ctx context.Context, docID string) (*Result, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("no reasoning backend configured")
	}

	rec, err := e.vault.Get(docID)
	if err != nil {
		return nil, err
	}
	if rec.SafeText == "" {
		return nil, fmt.Errorf("%w: extraction requires a redacted document", model.ErrStageOrder)
	}

	doc, err := e.reader.Parse([]byte(rec.SafeText), rec.Filename)
	if err != nil {
		return nil, fmt.Errorf("re-open sanitized document: %w", err)
	}

	blocks := FilterBlocks(doc)
	slog.Info("Submitting filtered blocks to reasoning backend.",
		"documentId", docID, "blocks", len(blocks), "provider", e.provider.Name())

	fields, err := e.provider.ExtractFields(ctx, llm.ExtractRequest{Blocks: blocks})
	if err != nil {
		return nil, err
	}

	if err := e.vault.Update(docID, func(r *model.DocumentRecord) {
		r.Extracted = fields
	}); err != nil {
		return nil, err
	}

	evidencePath, pageNum, err := e.renderEvidence(doc, docID, fields)
	if err != nil {
		return nil, err
	}

	return &Result{
		Fields:       fields,
		EvidencePath: evidencePath,
		PageNum:      pageNum,
	}, nil
}

// FilterBlocks keeps the blocks of every page whose lowercase text contains
// at least one anchor keyword. Each retained block carries its 1-based page
// index and bounding coordinates.
func FilterBlocks(doc *document.Document) []llm.TextBlock {
	var blocks []llm.TextBlock
	for pageIdx, page := range doc.Pages {
		lower := strings.ToLower(pageText(page))
		matched := false
		for _, kw := range anchorKeywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, block := range page.Blocks {
			text := strings.TrimSpace(block.Text)
			if text == "" {
				continue
			}
			blocks = append(blocks, llm.TextBlock{
				Page: pageIdx + 1,
				Text: text,
				Box:  [4]float64{block.Box.Y0, block.Box.X0, block.Box.Y1, block.Box.X1},
			})
		}
	}
	return blocks
}

// renderEvidence locates the extracted values in the sanitized document,
// outlines each match and renders the first page containing any match.
func (e *Engine) renderEvidence(doc *document.Document, docID string, fields *model.ExtractedFields) (string, int, error) {
	highlights := make(map[int][]document.Rect)
	var foundPages []int

	for _, target := range fields.HighlightTargets() {
		for pageIdx, page := range doc.Pages {
			matched := false
			for _, block := range page.Blocks {
				if box, ok := locateInBlock(block, target); ok {
					highlights[pageIdx] = append(highlights[pageIdx], box)
					matched = true
				}
			}
			if matched {
				foundPages = append(foundPages, pageIdx)
			}
		}
	}

	displayPage := selectDisplayPage(foundPages, len(doc.Pages))

	img, err := document.RenderEvidence(doc.Pages[displayPage], highlights[displayPage])
	if err != nil {
		return "", 0, fmt.Errorf("render evidence image: %w", err)
	}

	if err := os.MkdirAll(e.staticDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create artifact dir: %w", err)
	}
	evidencePath := filepath.Join(e.staticDir,
		fmt.Sprintf("evidence_%s_%d.png", docID, timeNow().Unix()))
	if err := os.WriteFile(evidencePath, img, 0o644); err != nil {
		return "", 0, fmt.Errorf("persist evidence image: %w", err)
	}

	return evidencePath, displayPage + 1, nil
}

// selectDisplayPage deduplicates and sorts the matched pages, discards
// out-of-range indices and defaults to the first page when nothing matched.
func selectDisplayPage(foundPages []int, pageCount int) int {
	seen := make(map[int]bool)
	var valid []int
	for _, p := range foundPages {
		if p >= 0 && p < pageCount && !seen[p] {
			seen[p] = true
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return 0
	}
	sort.Ints(valid)
	return valid[0]
}

// locateInBlock narrows a match down to the line and column span of the
// target inside the block, so the outline frames the value rather than the
// whole clause.
func locateInBlock(block document.Block, target string) (document.Rect, bool) {
	idx := strings.Index(block.Text, target)
	if idx < 0 {
		return document.Rect{}, false
	}

	before := block.Text[:idx]
	line := strings.Count(before, "\n")
	col := idx
	if nl := strings.LastIndex(before, "\n"); nl >= 0 {
		col = idx - nl - 1
	}

	lineHeight := 14.0
	charWidth := 6.0
	y0 := block.Box.Y0 + float64(line)*lineHeight
	x0 := block.Box.X0 + float64(col)*charWidth
	return document.Rect{
		X0: x0,
		Y0: y0,
		X1: x0 + float64(len(target))*charWidth,
		Y1: y0 + lineHeight,
	}, true
}

func pageText(page document.Page) string {
	parts := make([]string, 0, len(page.Blocks))
	for _, block := range page.Blocks {
		parts = append(parts, block.Text)
	}
	return strings.Join(parts, "\n")
}
