package document

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestPDFRenderer_RenderText(t *testing.T) {
	data, err := NewPDFRenderer().RenderText("SANITIZED CONTRACT\n\n[BORROWER_REDACTED] (as Borrower)")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("Expected a PDF artifact")
	}
}

func TestPDFRenderer_RenderedArtifactValidates(t *testing.T) {
	text := "PAGE ONE\n\n" + strings.Repeat("covenant line\n", 80) + "\fPAGE TWO"
	data, err := NewPDFRenderer().RenderText(text)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	pages, err := InspectPDF(data, "artifact.pdf")
	if err != nil {
		t.Fatalf("Expected the artifact to validate, got %v", err)
	}
	if pages < 2 {
		t.Errorf("Expected at least 2 pages, got %d", pages)
	}
}

func TestPDFRenderer_RenderReport(t *testing.T) {
	spec := ReportSpec{
		Title:       "SENTINEL: AUTOMATED COMPLIANCE AUDIT",
		GeneratedAt: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
		Rows: [][2]string{
			{"Loan Reference", "doc-1"},
			{"Compliance Status", "COMPLIANT"},
		},
		Seal:   "abc123",
		Footer: []string{"AUDIT INTEGRITY ADVISORY"},
	}

	data, err := NewPDFRenderer().RenderReport(spec)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("Expected a PDF report")
	}
	if _, err := InspectPDF(data, "report.pdf"); err != nil {
		t.Errorf("Expected the report to validate, got %v", err)
	}
}

func TestInspectPDF_RejectsGarbage(t *testing.T) {
	if _, err := InspectPDF([]byte("%PDF-1.7 garbage"), "g.pdf"); err == nil {
		t.Fatal("Expected malformed PDF to be rejected")
	}
}

func TestPDFRenderer_SpecialCharactersValidate(t *testing.T) {
	text := `Clause 1(a): the Borrower pays C:\ledger fees of €1,000 to Société Générale.`
	data, err := NewPDFRenderer().RenderText(text)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	pages, err := InspectPDF(data, "special.pdf")
	if err != nil {
		t.Fatalf("Expected the artifact to validate, got %v", err)
	}
	if pages != 1 {
		t.Errorf("Expected 1 page, got %d", pages)
	}
}
