package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sentinel-audit/sentinel/internal/model"
)

// Plain-text page geometry. Blocks are laid out top to bottom with a fixed
// line height so highlight boxes stay deterministic across runs.
const (
	plainPageWidth  = 595.0 // A4 portrait, points
	plainPageHeight = 842.0
	plainMarginX    = 56.0
	plainMarginY    = 56.0
	plainLineHeight = 14.0
	plainCharWidth  = 6.0
)

// PlainReader parses the plain-text contract format: pages separated by
// form feeds, blocks separated by blank lines.
type PlainReader struct{}

// NewPlainReader creates a plain-text document reader.
func NewPlainReader() *PlainReader {
	return &PlainReader{}
}

// Parse decodes plain-text contract bytes into positioned pages.
func (r *PlainReader) Parse(data []byte, filename string) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &model.DocumentFormatError{
			Filename: filename,
			Err:      fmt.Errorf("empty document"),
		}
	}
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, &model.DocumentFormatError{
			Filename: filename,
			Err:      fmt.Errorf("pdf input requires a pdf-capable reader"),
		}
	}
	if !isMostlyText(data) {
		return nil, &model.DocumentFormatError{
			Filename: filename,
			Err:      fmt.Errorf("binary content is not a text contract"),
		}
	}

	doc := &Document{}
	for _, rawPage := range strings.Split(string(data), "\f") {
		doc.Pages = append(doc.Pages, layoutPage(rawPage))
	}
	return doc, nil
}

// layoutPage assigns each block a bounding box from its line span.
func layoutPage(raw string) Page {
	page := Page{Width: plainPageWidth, Height: plainPageHeight}

	line := 0
	for _, chunk := range strings.Split(raw, "\n\n") {
		text := strings.TrimRight(chunk, "\n")
		lines := strings.Split(text, "\n")
		if strings.TrimSpace(text) == "" {
			line += len(lines)
			continue
		}

		maxLen := 0
		for _, l := range lines {
			if len(l) > maxLen {
				maxLen = len(l)
			}
		}

		y0 := plainMarginY + float64(line)*plainLineHeight
		y1 := y0 + float64(len(lines))*plainLineHeight
		page.Blocks = append(page.Blocks, Block{
			Text: strings.TrimSpace(text),
			Box: Rect{
				X0: plainMarginX,
				Y0: y0,
				X1: plainMarginX + float64(maxLen)*plainCharWidth,
				Y1: y1,
			},
		})
		line += len(lines) + 1 // the blank separator line
	}
	return page
}

// isMostlyText rejects binary payloads without being strict about unicode.
func isMostlyText(data []byte) bool {
	if bytes.IndexByte(data, 0x00) >= 0 {
		return false
	}
	sample := data
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	control := 0
	for _, b := range sample {
		if b < 0x09 || (b > 0x0d && b < 0x20) {
			control++
		}
	}
	return control*20 < len(sample)
}
