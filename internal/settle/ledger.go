// Package settle implements the settlement stage: a deterministic decision
// table over the verification outcome, producing a compliance verdict, the
// margin ratchet, a revenue-impact estimate and a sealed audit report.
package settle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sentinel-audit/sentinel/internal/document"
	"github.com/sentinel-audit/sentinel/internal/model"
)

const reportTitle = "SENTINEL: AUTOMATED COMPLIANCE AUDIT"

var advisoryFooter = []string{
	"AUDIT INTEGRITY ADVISORY",
	"- This document is cryptographically sealed with a SHA-256 hash.",
	"- Any modification to financial margins or NDVI values voids this record.",
	"- This report serves as an immutable record for compliance audits.",
}

// timeNow is injectable so tests can pin the issuance moment.
var timeNow = time.Now

// Ledger is the settlement stage.
type Ledger struct {
	rules      []Rule
	renderer   document.Renderer
	reportsDir string

	baseMarginBps  float64
	portfolioValue float64
}

// NewLedger creates the settlement stage.
func NewLedger(renderer document.Renderer, reportsDir string, cfg model.SettlementConfig) *Ledger {
	return &Ledger{
		rules:          Rules(),
		renderer:       renderer,
		reportsDir:     reportsDir,
		baseMarginBps:  cfg.BaseMarginBps,
		portfolioValue: cfg.PortfolioValue,
	}
}

// Settle evaluates the decision table top to bottom, first match wins,
// then generates and seals the audit report.
//
// The seal binds the verdict to its issuance moment: repeated calls with
// identical business inputs produce distinct seals. The seal embedded in
// the report and the seal returned to the caller are the same value for a
// given invocation.
func (l *Ledger) Settle(in Inputs) (*model.SettlementResult, error) {
	var matched *Rule
	for i := range l.rules {
		if l.rules[i].Applies(in) {
			matched = &l.rules[i]
			break
		}
	}
	// The final rule always applies; this is unreachable with the default
	// table but guards custom rule sets.
	if matched == nil {
		return nil, fmt.Errorf("no settlement rule matched document %s", in.DocumentID)
	}

	adjustment := matched.Adjustment(in)
	finalMargin := l.baseMarginBps + adjustment
	revenueImpact := l.portfolioValue * (absFloat(adjustment) / 10_000)

	displayActual := "UNVERIFIED"
	if in.Actual != nil {
		displayActual = strconv.FormatFloat(*in.Actual, 'g', -1, 64)
	}

	issuedAt := timeNow()
	seal := Seal(in.DocumentID, matched.Status, finalMargin, issuedAt)

	reportPath, err := l.writeReport(in, matched, displayActual, adjustment, finalMargin, seal, issuedAt)
	if err != nil {
		return nil, err
	}

	result := &model.SettlementResult{
		LoanRef:             in.DocumentID,
		Status:              matched.Status,
		Reason:              matched.Reason(in),
		DisplayActual:       displayActual,
		BreachFraction:      in.BreachFraction,
		MarginAdjustmentBps: adjustment,
		FinalMarginBps:      finalMargin,
		RevenueImpact:       revenueImpact,
		DigitalSeal:         seal,
		ReportPath:          reportPath,
	}
	slog.Info("Settlement sealed.", "documentId", in.DocumentID,
		"status", string(result.Status), "finalMarginBps", finalMargin)
	return result, nil
}

// Seal computes the integrity stamp for a settlement outcome. It binds the
// document identity, verdict, final margin and issuance moment - not the
// report body, so formatting changes never invalidate an issued seal.
func Seal(docID string, status model.SettlementStatus, finalMarginBps float64, issuedAt time.Time) string {
	content := fmt.Sprintf("%s|%s|%s|%s",
		docID,
		status,
		strconv.FormatFloat(finalMarginBps, 'g', -1, 64),
		issuedAt.Format(time.RFC3339Nano),
	)
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func (l *Ledger) writeReport(in Inputs, rule *Rule, displayActual string, adjustment, finalMargin float64, seal string, issuedAt time.Time) (string, error) {
	impact := fmt.Sprintf("%g bps", adjustment)
	if adjustment > 0 {
		impact = fmt.Sprintf("+%g bps", adjustment)
	}

	spec := document.ReportSpec{
		Title:       reportTitle,
		GeneratedAt: issuedAt,
		Rows: [][2]string{
			{"Loan Reference", in.DocumentID},
			{"Contractual Target", fmt.Sprintf("%g NDVI", in.Target)},
			{"Satellite Reality", displayActual + " NDVI"},
			{"Physical Breach Area", fmt.Sprintf("%.2f%%", in.BreachFraction*100)},
			{"Compliance Status", string(rule.Status)},
			{"Verdict Reason", rule.Reason(in)},
			{"Margin Adjustment", impact},
			{"New Effective Margin", fmt.Sprintf("%g bps", finalMargin)},
		},
		Seal:   seal,
		Footer: advisoryFooter,
	}

	data, err := l.renderer.RenderReport(spec)
	if err != nil {
		return "", fmt.Errorf("render audit report: %w", err)
	}

	if err := os.MkdirAll(l.reportsDir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	reportPath := filepath.Join(l.reportsDir, fmt.Sprintf("audit_report_%s.pdf", in.DocumentID))
	if err := os.WriteFile(reportPath, data, 0o644); err != nil {
		return "", fmt.Errorf("persist audit report: %w", err)
	}
	return reportPath, nil
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
