// Package document defines the collaborator surface for document text
// extraction and artifact rendering. The audit pipeline never depends on a
// concrete parser: stages consume pages of positioned text blocks and emit
// rendered artifacts through the interfaces below.
package document

import (
	"strings"
	"time"
)

// Rect is a block bounding box in page coordinates (points, origin top-left).
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Block is one positioned text run on a page.
type Block struct {
	Text string `json:"text"`
	Box  Rect   `json:"box"`
}

// Page is one document page.
type Page struct {
	Blocks []Block `json:"blocks"`

	// Width and Height are the page dimensions in points.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Document is a parsed document: ordered pages of positioned blocks.
type Document struct {
	Pages []Page `json:"pages"`
}

// Text flattens the document back to the plain-text page format: blocks
// separated by blank lines, pages by form feeds. The sanitized text a
// record carries round-trips through Parse, so later stages can re-scan
// the sanitized document without touching the original.
func (d *Document) Text() string {
	pages := make([]string, 0, len(d.Pages))
	for _, page := range d.Pages {
		blocks := make([]string, 0, len(page.Blocks))
		for _, block := range page.Blocks {
			blocks = append(blocks, block.Text)
		}
		pages = append(pages, strings.Join(blocks, "\n\n"))
	}
	return strings.Join(pages, "\f")
}

// Reader parses raw document bytes into pages of positioned text blocks.
// PDF text/layout extraction is an external collaborator; this repo ships a
// plain-text implementation used by the demo generator and the test suite.
type Reader interface {
	// Parse decodes raw bytes. Unreadable input fails with a
	// *model.DocumentFormatError.
	Parse(data []byte, filename string) (*Document, error)
}

// ReportSpec is the content contract for the sealed audit report.
type ReportSpec struct {
	Title       string
	GeneratedAt time.Time
	Rows        [][2]string // metric, value
	Seal        string
	Footer      []string // integrity advisory lines
}

// Renderer produces the document artifacts later stages depend on: the
// sanitized contract and the sealed audit report.
type Renderer interface {
	// RenderText renders sanitized contract text as a document artifact.
	RenderText(text string) ([]byte, error)

	// RenderReport renders the sealed audit report.
	RenderReport(spec ReportSpec) ([]byte, error)
}
