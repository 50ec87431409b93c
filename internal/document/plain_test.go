package document

import (
	"errors"
	"testing"

	"github.com/sentinel-audit/sentinel/internal/model"
)

func TestPlainReader_ParseAndRoundTrip(t *testing.T) {
	text := "COVER PAGE\n\nFirst clause block.\fSCHEDULE 4\n\nSecond page block."

	doc, err := NewPlainReader().Parse([]byte(text), "c.txt")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(doc.Pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(doc.Pages))
	}
	if len(doc.Pages[0].Blocks) != 2 {
		t.Fatalf("Expected 2 blocks on page 1, got %d", len(doc.Pages[0].Blocks))
	}
	if doc.Pages[0].Blocks[0].Text != "COVER PAGE" {
		t.Errorf("Unexpected first block %q", doc.Pages[0].Blocks[0].Text)
	}

	if doc.Text() != text {
		t.Errorf("Expected Text() to round-trip the page format, got %q", doc.Text())
	}
}

func TestPlainReader_BlockGeometry(t *testing.T) {
	doc, err := NewPlainReader().Parse([]byte("short\n\nlonger block line"), "c.txt")
	if err != nil {
		t.Fatal(err)
	}

	blocks := doc.Pages[0].Blocks
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}

	first, second := blocks[0].Box, blocks[1].Box
	if first.Y0 != 56 || first.Y1 != 70 {
		t.Errorf("Unexpected first block span: %+v", first)
	}
	// One content line plus the blank separator.
	if second.Y0 != 56+2*14 {
		t.Errorf("Expected second block below the separator, got %+v", second)
	}
	if second.X1-second.X0 != float64(len("longer block line"))*6 {
		t.Errorf("Expected width from longest line, got %+v", second)
	}
}

func TestPlainReader_RejectsEmpty(t *testing.T) {
	_, err := NewPlainReader().Parse([]byte("  \n "), "e.txt")
	var formatErr *model.DocumentFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Expected DocumentFormatError, got %v", err)
	}
}

func TestPlainReader_RejectsPDF(t *testing.T) {
	_, err := NewPlainReader().Parse([]byte("%PDF-1.7 content"), "d.pdf")
	var formatErr *model.DocumentFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Expected DocumentFormatError, got %v", err)
	}
}

func TestPlainReader_RejectsBinary(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01, 0x02, 0x03}
	_, err := NewPlainReader().Parse(data, "img.png")
	var formatErr *model.DocumentFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Expected DocumentFormatError, got %v", err)
	}
}
