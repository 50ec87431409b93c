// Package pipeline orchestrates the four audit stages. Stages for a given
// document identity are strictly sequential: each op requires its
// predecessor's stored result, and the store is the hand-off between them.
package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sentinel-audit/sentinel/internal/document"
	"github.com/sentinel-audit/sentinel/internal/extract"
	"github.com/sentinel-audit/sentinel/internal/imagery"
	"github.com/sentinel-audit/sentinel/internal/llm"
	"github.com/sentinel-audit/sentinel/internal/model"
	"github.com/sentinel-audit/sentinel/internal/redact"
	"github.com/sentinel-audit/sentinel/internal/settle"
	"github.com/sentinel-audit/sentinel/internal/store"
	"github.com/sentinel-audit/sentinel/internal/verify"
)

// Auditor wires the four stages against a shared record store.
type Auditor struct {
	shield   *redact.Shield
	engine   *extract.Engine
	verifier *verify.Verifier
	ledger   *settle.Ledger
	vault    store.Store
}

// NewAuditor builds the audit pipeline from configuration and the injected
// backend capabilities.
func NewAuditor(cfg *model.Config, provider llm.Provider, backend imagery.Backend) *Auditor {
	vault := store.NewMemoryStore()
	reader := document.NewPlainReader()
	renderer := document.NewPDFRenderer()

	return &Auditor{
		shield:   redact.NewShield(reader, renderer, vault, cfg.Storage.StaticDir),
		engine:   extract.NewEngine(provider, reader, vault, cfg.Storage.StaticDir),
		verifier: verify.NewVerifier(backend, vault, cfg.Imagery),
		ledger:   settle.NewLedger(renderer, cfg.Storage.ReportsDir, cfg.Settlement),
		vault:    vault,
	}
}

// NewAuditorWithStore is NewAuditor with a caller-provided record store,
// for persistent backends.
func NewAuditorWithStore(cfg *model.Config, provider llm.Provider, backend imagery.Backend, vault store.Store) *Auditor {
	reader := document.NewPlainReader()
	renderer := document.NewPDFRenderer()

	return &Auditor{
		shield:   redact.NewShield(reader, renderer, vault, cfg.Storage.StaticDir),
		engine:   extract.NewEngine(provider, reader, vault, cfg.Storage.StaticDir),
		verifier: verify.NewVerifier(backend, vault, cfg.Imagery),
		ledger:   settle.NewLedger(renderer, cfg.Storage.ReportsDir, cfg.Settlement),
		vault:    vault,
	}
}

// SubmitDocument runs the redaction stage on raw contract bytes.
func (a *Auditor) SubmitDocument(raw []byte, filename string) (*redact.Result, error) {
	return a.shield.Redact(raw, filename)
}

// RunExtraction runs the extraction stage for a redacted document.
func (a *Auditor) RunExtraction(ctx context.Context, docID string) (*extract.Result, error) {
	return a.engine.Extract(ctx, docID)
}

// RunVerification runs the verification stage for an extracted document.
func (a *Auditor) RunVerification(ctx context.Context, docID string) (*model.VerificationResult, error) {
	return a.verifier.VerifyDocument(ctx, docID)
}

// RunSettlement runs the settlement stage on explicit business inputs.
// actual is nil when verification was unavailable.
func (a *Auditor) RunSettlement(docID string, target float64, actual *float64, breachFraction, adjustmentBps float64) (*model.SettlementResult, error) {
	return a.ledger.Settle(settle.Inputs{
		DocumentID:     docID,
		Target:         target,
		Actual:         actual,
		BreachFraction: breachFraction,
		AdjustmentBps:  adjustmentBps,
	})
}

// SettleFromRecord derives the settlement inputs from the stored extraction
// and verification results.
func (a *Auditor) SettleFromRecord(docID string) (*model.SettlementResult, error) {
	rec, err := a.vault.Get(docID)
	if err != nil {
		return nil, err
	}
	if rec.Extracted == nil || rec.Verification == nil {
		return nil, fmt.Errorf("%w: settlement requires extraction and verification", model.ErrStageOrder)
	}

	adjustment, err := strconv.ParseFloat(strings.TrimSpace(rec.Extracted.Margin.Value), 64)
	if err != nil {
		return nil, fmt.Errorf("margin adjustment %q is not numeric: %w", rec.Extracted.Margin.Value, err)
	}

	var target float64
	if v := strings.TrimSpace(rec.Extracted.NDVI.Value); v != "" && v != model.NotProvided {
		target, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("target index %q is not numeric: %w", rec.Extracted.NDVI.Value, err)
		}
	}

	var actual *float64
	var breachFraction float64
	if rec.Verification.Status == model.VerificationSuccess {
		v := rec.Verification.ActualIndex
		actual = &v
		breachFraction = rec.Verification.BreachFraction
	}

	return a.RunSettlement(docID, target, actual, breachFraction, adjustment)
}

// Record exposes the stored record for a document identity.
func (a *Auditor) Record(docID string) (*model.DocumentRecord, error) {
	return a.vault.Get(docID)
}

// Outcome is the result of a full four-stage audit.
type Outcome struct {
	Redaction    *redact.Result            `json:"redaction"`
	Extraction   *extract.Result           `json:"extraction"`
	Verification *model.VerificationResult `json:"verification"`
	Settlement   *model.SettlementResult   `json:"settlement"`
}

// Audit runs all four stages end to end on raw contract bytes.
func (a *Auditor) Audit(ctx context.Context, raw []byte, filename string) (*Outcome, error) {
	redaction, err := a.SubmitDocument(raw, filename)
	if err != nil {
		return nil, fmt.Errorf("redaction: %w", err)
	}

	extraction, err := a.RunExtraction(ctx, redaction.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("extraction: %w", err)
	}

	verification, err := a.RunVerification(ctx, redaction.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("verification: %w", err)
	}

	settlement, err := a.SettleFromRecord(redaction.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("settlement: %w", err)
	}

	return &Outcome{
		Redaction:    redaction,
		Extraction:   extraction,
		Verification: verification,
		Settlement:   settlement,
	}, nil
}
