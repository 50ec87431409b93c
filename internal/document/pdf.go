package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/sentinel-audit/sentinel/internal/model"
)

const (
	pdfLinesPerPage = 56
	pdfWrapColumn   = 92
	pdfFontSize     = 10
	pdfLeading      = 13
)

// InspectPDF validates raw PDF bytes and returns the page count. Corrupt or
// truncated input fails with a *model.DocumentFormatError so the redaction
// stage can reject it before any artifact is persisted.
func InspectPDF(data []byte, filename string) (int, error) {
	tempDir, err := os.MkdirTemp("", "sentinel-inspect-*")
	if err != nil {
		return 0, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	srcPath := filepath.Join(tempDir, "source.pdf")
	if err := os.WriteFile(srcPath, data, 0o600); err != nil {
		return 0, fmt.Errorf("write temp pdf: %w", err)
	}

	cfg := pdfmodel.NewDefaultConfiguration()
	cfg.ValidationMode = pdfmodel.ValidationRelaxed
	optimizedPath := filepath.Join(tempDir, "optimized.pdf")
	if err := api.OptimizeFile(srcPath, optimizedPath, cfg); err != nil {
		return 0, &model.DocumentFormatError{Filename: filename, Err: err}
	}

	pageCount, err := api.PageCountFile(optimizedPath)
	if err != nil {
		return 0, &model.DocumentFormatError{Filename: filename, Err: err}
	}
	return pageCount, nil
}

// PDFRenderer renders text artifacts as single-column Courier PDF
// documents via fpdf.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDF artifact renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// RenderText renders sanitized contract text, wrapping long lines and
// breaking pages on form feeds or page overflow.
func (r *PDFRenderer) RenderText(text string) ([]byte, error) {
	var pages [][]string
	for _, rawPage := range strings.Split(text, "\f") {
		pages = append(pages, paginate(wrapLines(rawPage))...)
	}
	if len(pages) == 0 {
		pages = [][]string{{""}}
	}
	return buildPDF(pages)
}

// RenderReport renders the sealed audit report: title, generation stamp,
// metric/value table, printed seal, integrity advisory footer.
func (r *PDFRenderer) RenderReport(spec ReportSpec) ([]byte, error) {
	var lines []string
	lines = append(lines,
		spec.Title,
		fmt.Sprintf("Generated on: %s", spec.GeneratedAt.Format("2006-01-02 15:04:05")),
		"",
		fmt.Sprintf("%-24s | %s", "Compliance Metric", "Verified Value"),
		strings.Repeat("-", 72),
	)
	for _, row := range spec.Rows {
		lines = append(lines, fmt.Sprintf("%-24s | %s", row[0], row[1]))
	}
	lines = append(lines, "", "VALIDATION DIGITAL SEAL:", spec.Seal, "")
	lines = append(lines, spec.Footer...)

	return buildPDF(paginate(lines))
}

// wrapLines soft-wraps text lines at the page column.
func wrapLines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		for len(line) > pdfWrapColumn {
			cut := strings.LastIndex(line[:pdfWrapColumn], " ")
			if cut <= 0 {
				cut = pdfWrapColumn
			}
			out = append(out, line[:cut])
			line = strings.TrimLeft(line[cut:], " ")
		}
		out = append(out, line)
	}
	return out
}

func paginate(lines []string) [][]string {
	var pages [][]string
	for start := 0; start < len(lines); start += pdfLinesPerPage {
		end := start + pdfLinesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, lines[start:end])
	}
	if pages == nil {
		pages = [][]string{{""}}
	}
	return pages
}

// buildPDF renders pre-paginated lines through fpdf, one Courier line
// per cell at the plain-text page geometry.
func buildPDF(pages [][]string) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(plainMarginX, plainMarginY, plainMarginX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Courier", "", pdfFontSize)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, lines := range pages {
		pdf.AddPage()
		pdf.SetXY(plainMarginX, plainMarginY)
		for _, line := range lines {
			pdf.CellFormat(0, pdfLeading, tr(line), "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
