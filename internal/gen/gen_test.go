package gen

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sentinel-audit/sentinel/internal/document"
)

func TestContract_CarriesCovenantAnchors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data, err := Contract(CategorySuccess, rng)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	text := string(data)

	anchors := []string{
		"(as Borrower)",
		"(as Original Lender)",
		"SCHEDULE 4",
		"Latitude",
		"Longitude",
		"Mean NDVI",
		"bps",
		"Attention:",
		"IBAN:",
		"SWIFT:",
		"@",
	}
	for _, anchor := range anchors {
		if !strings.Contains(text, anchor) {
			t.Errorf("Expected anchor %q in generated contract", anchor)
		}
	}
}

func TestContract_FailureCategoryOmitsCoordinates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data, err := Contract(CategoryFailure, rng)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), "Latitude NOT_PROVIDED") {
		t.Error("Expected the failure contract to withhold coordinates")
	}
}

func TestContract_UnknownCategory(t *testing.T) {
	if _, err := Contract(Category("Mystery"), rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("Expected an error for an unknown category")
	}
}

func TestContract_ParsesInPageFormat(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	data, err := Contract(CategoryBreach, rng)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := document.NewPlainReader().Parse(data, "c.txt")
	if err != nil {
		t.Fatalf("Expected the contract to parse, got %v", err)
	}
	// Cover, boilerplate, schedule 4, schedule 5.
	if len(doc.Pages) != boilerplatePages+3 {
		t.Errorf("Expected %d pages, got %d", boilerplatePages+3, len(doc.Pages))
	}
}

func TestWriteDataset_Deterministic(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	pathsA, err := WriteDataset(dirA, 2, 42)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	pathsB, err := WriteDataset(dirB, 2, 42)
	if err != nil {
		t.Fatal(err)
	}

	if len(pathsA) != 6 {
		t.Fatalf("Expected 6 contracts (2 per category), got %d", len(pathsA))
	}

	for i := range pathsA {
		a, err := os.ReadFile(pathsA[i])
		if err != nil {
			t.Fatal(err)
		}
		b, err := os.ReadFile(pathsB[i])
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("Expected %s reproducible across runs", filepath.Base(pathsA[i]))
		}
	}
}

func TestWriteDataset_FilenamesByCategory(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteDataset(dir, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"LMA_Success_1.txt", "LMA_Breach_1.txt", "LMA_Failure_1.txt"}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("Expected %s, got %s", want[i], filepath.Base(p))
		}
	}
}
