package redact

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sentinel-audit/sentinel/internal/document"
	"github.com/sentinel-audit/sentinel/internal/model"
	"github.com/sentinel-audit/sentinel/internal/store"
)

const previewLength = 1200

// Shield is the redaction stage: it sanitizes raw contract bytes and
// persists the sanitized artifact downstream stages work from.
type Shield struct {
	rules     []Rule
	reader    document.Reader
	renderer  document.Renderer
	vault     store.Store
	staticDir string
}

// NewShield creates the redaction stage with the default rule set.
func NewShield(reader document.Reader, renderer document.Renderer, vault store.Store, staticDir string) *Shield {
	return &Shield{
		rules:     DefaultRules(),
		reader:    reader,
		renderer:  renderer,
		vault:     vault,
		staticDir: staticDir,
	}
}

// Result is the caller-facing output of the redaction stage.
type Result struct {
	DocumentID   string `json:"doc_id"`
	Preview      string `json:"preview"`
	ArtifactPath string `json:"artifact_path"`
}

// Mask applies every rule in sequence, replacing all matches with the
// rule's sentinel.
func (s *Shield) Mask(text string) string {
	masked := text
	for _, rule := range s.rules {
		masked = rule.Pattern.ReplaceAllString(masked, fmt.Sprintf(redactedFormat, rule.Label))
	}
	return masked
}

// Redact ingests raw document bytes: derives the content-hash identity,
// extracts and masks the text, renders the sanitized artifact and creates
// the audit record. Identical bytes always produce the same identity, so
// re-submission is idempotent.
//
// On any failure no partial artifact is persisted and no record is created.
func (s *Shield) Redact(raw []byte, filename string) (*Result, error) {
	docID := DocumentID(raw)
	log := slog.With("documentId", docID, "filename", filename)

	if bytes.HasPrefix(raw, []byte("%PDF-")) {
		pageCount, err := document.InspectPDF(raw, filename)
		if err != nil {
			return nil, err
		}
		log.Info("Validated PDF input.", "pageCount", pageCount)
	}

	doc, err := s.reader.Parse(raw, filename)
	if err != nil {
		return nil, err
	}

	safeText := s.Mask(doc.Text())

	artifact, err := s.renderer.RenderText(safeText)
	if err != nil {
		return nil, fmt.Errorf("render sanitized artifact: %w", err)
	}

	if err := os.MkdirAll(s.staticDir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	artifactPath := filepath.Join(s.staticDir, fmt.Sprintf("masked_%s.pdf", docID))
	if err := os.WriteFile(artifactPath, artifact, 0o644); err != nil {
		return nil, fmt.Errorf("persist sanitized artifact: %w", err)
	}

	rec := &model.DocumentRecord{
		DocumentID:   docID,
		Filename:     filename,
		SafeText:     safeText,
		ArtifactPath: artifactPath,
	}
	if err := s.vault.Put(rec); err != nil {
		return nil, fmt.Errorf("store record: %w", err)
	}
	log.Info("Sanitized document persisted.", "artifact", artifactPath)

	preview := safeText
	if runes := []rune(safeText); len(runes) > previewLength {
		preview = string(runes[:previewLength])
	}
	return &Result{
		DocumentID:   docID,
		Preview:      preview,
		ArtifactPath: artifactPath,
	}, nil
}

// DocumentID derives the content-hash identity for raw document bytes.
func DocumentID(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
