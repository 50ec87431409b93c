package redact

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sentinel-audit/sentinel/internal/document"
	"github.com/sentinel-audit/sentinel/internal/model"
	"github.com/sentinel-audit/sentinel/internal/store"
)

const coverPage = `DATED 12 JUNE 2025

(1) NORDWALD HOLDINGS LTD (as Borrower)

(2) HARTWELL BANK PLC (as Original Lender)

(3) ELENA VASQUEZ (as Agent)

EUR 750,000,000 REVOLVING CREDIT FACILITY`

const noticesPage = `SCHEDULE 5: ADDRESSES FOR NOTICES

THE BORROWER: NORDWALD HOLDINGS LTD
Attention: Marcus Thorne
Email: marcus.thorne@hartwellbank.com
Account No: 00123456789012
SWIFT: HRTWGB2L

THE LENDER: HARTWELL BANK PLC
IBAN: DE44500105175407324931
Contact: Ingrid Solberg (Director)`

func newTestShield(t *testing.T) (*Shield, store.Store) {
	t.Helper()
	vault := store.NewMemoryStore()
	shield := NewShield(document.NewPlainReader(), document.NewPDFRenderer(), vault, t.TempDir())
	return shield, vault
}

func TestMask_RemovesAllIdentifiers(t *testing.T) {
	shield, _ := newTestShield(t)
	masked := shield.Mask(coverPage + "\f" + noticesPage)

	leaks := []string{
		"NORDWALD",
		"HARTWELL BANK PLC",
		"marcus.thorne@hartwellbank.com",
		"DE44500105175407324931",
		"HRTWGB2L",
		"Marcus Thorne",
		"Ingrid Solberg",
		"ELENA VASQUEZ",
	}
	for _, leak := range leaks {
		if strings.Contains(masked, leak) {
			t.Errorf("Expected %q to be redacted, still present in:\n%s", leak, masked)
		}
	}

	sentinels := []string{
		"[BORROWER_REDACTED]",
		"[LENDER_REDACTED]",
		"[IBAN_REDACTED]",
		"[SWIFT_REDACTED]",
		"[EMAIL_REDACTED]",
		"[NOTICES_REDACTED]",
	}
	for _, s := range sentinels {
		if !strings.Contains(masked, s) {
			t.Errorf("Expected sentinel %q in masked text", s)
		}
	}
}

func TestMask_Idempotent(t *testing.T) {
	shield, _ := newTestShield(t)
	once := shield.Mask(coverPage + "\f" + noticesPage)
	twice := shield.Mask(once)
	if once != twice {
		t.Error("Expected masking an already-masked document to be an identity operation")
	}
}

func TestMask_PlainTextUntouched(t *testing.T) {
	shield, _ := newTestShield(t)
	text := "The Borrower shall ensure the Mean NDVI exceeds the threshold of 0.75."
	if got := shield.Mask(text); got != text {
		t.Errorf("Expected covenant prose untouched, got %q", got)
	}
}

func TestRedact_CreatesRecordAndArtifact(t *testing.T) {
	shield, vault := newTestShield(t)
	raw := []byte(coverPage + "\f" + noticesPage)

	result, err := shield.Redact(raw, "facility.txt")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.DocumentID != DocumentID(raw) {
		t.Error("Expected content-hash document identity")
	}
	if len(result.DocumentID) != 64 {
		t.Errorf("Expected sha256 hex identity, got %q", result.DocumentID)
	}

	rec, err := vault.Get(result.DocumentID)
	if err != nil {
		t.Fatalf("Expected stored record, got %v", err)
	}
	if rec.SafeText == "" || strings.Contains(rec.SafeText, "NORDWALD") {
		t.Error("Expected sanitized text in record")
	}
	if rec.ArtifactPath != result.ArtifactPath {
		t.Error("Expected record to reference the artifact path")
	}
}

func TestRedact_SameBytesSameIdentity(t *testing.T) {
	shield, _ := newTestShield(t)
	raw := []byte(coverPage)

	first, err := shield.Redact(raw, "a.txt")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := shield.Redact(raw, "b.txt")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if first.DocumentID != second.DocumentID {
		t.Error("Expected identical bytes to share a document identity")
	}
}

func TestRedact_PreviewTruncated(t *testing.T) {
	shield, _ := newTestShield(t)
	raw := []byte(strings.Repeat("The Agent may rely on any notice believed genuine. ", 100))

	result, err := shield.Redact(raw, "long.txt")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.Preview) != 1200 {
		t.Errorf("Expected 1200-char preview, got %d", len(result.Preview))
	}
}

func TestRedact_PreviewKeepsRunesWhole(t *testing.T) {
	shield, _ := newTestShield(t)
	raw := []byte(strings.Repeat("Crédit Façade Société covenant reaffirmed. ", 60))

	result, err := shield.Redact(raw, "accented.txt")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !utf8.ValidString(result.Preview) {
		t.Error("Expected the preview to end on a rune boundary")
	}
	if n := utf8.RuneCountInString(result.Preview); n != 1200 {
		t.Errorf("Expected a 1200-rune preview, got %d", n)
	}
}

func TestRedact_RejectsEmptyInput(t *testing.T) {
	shield, _ := newTestShield(t)
	_, err := shield.Redact([]byte("   \n"), "empty.txt")

	var formatErr *model.DocumentFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Expected DocumentFormatError, got %v", err)
	}
}

func TestRedact_RejectsMalformedPDF(t *testing.T) {
	shield, _ := newTestShield(t)
	_, err := shield.Redact([]byte("%PDF-1.7\nnot actually a pdf"), "broken.pdf")
	if err == nil {
		t.Fatal("Expected malformed PDF to be rejected")
	}
}
